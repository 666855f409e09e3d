package docx

import (
	"strconv"
	"strings"
)

// AllParagraphs returns every paragraph reachable from the body: top-level
// paragraphs, table cell paragraphs and text box contents.
func (pc *ParsedContent) AllParagraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range pc.Elements {
		switch el.Type {
		case ElementParagraph:
			out = append(out, el.Paragraph)
		case ElementTable:
			out = append(out, tableParagraphs(el.Table)...)
		case ElementShape:
			out = append(out, shapeParagraphs(el.Shape)...)
		}
	}
	return out
}

func shapeParagraphs(s *Shape) []*Paragraph {
	out := append([]*Paragraph(nil), s.Paragraphs...)
	for _, child := range s.Children {
		out = append(out, shapeParagraphs(child)...)
	}
	return out
}

// Watermark returns the first watermark found in the headers, or nil.
func (pc *ParsedContent) Watermark() *Shape {
	for _, typ := range []string{"default", "first", "even"} {
		if hf := pc.Headers[typ]; hf != nil && hf.Watermark != nil {
			return hf.Watermark
		}
	}
	for _, hf := range pc.Headers {
		if hf.Watermark != nil {
			return hf.Watermark
		}
	}
	return nil
}

// ToText returns the body as plain text. Headings get a blank line before
// them; tables are rendered tab-separated; list paragraphs keep their
// markers.
func (pc *ParsedContent) ToText() string {
	var sb strings.Builder
	first := true
	newline := func(heading bool) {
		if !first {
			sb.WriteString("\n")
			if heading {
				sb.WriteString("\n")
			}
		}
		first = false
	}
	for _, el := range pc.Elements {
		switch el.Type {
		case ElementParagraph:
			p := el.Paragraph
			newline(p.Style.HeadingLevel > 0)
			if p.List != nil && p.List.Marker != "" {
				sb.WriteString(p.List.Marker + " ")
			}
			sb.WriteString(p.Text())
		case ElementTable:
			newline(false)
			sb.WriteString(el.Table.ToText())
		case ElementShape:
			if text := el.Shape.Text(); text != "" {
				newline(false)
				sb.WriteString(text)
			}
		case ElementEquation:
			newline(false)
			sb.WriteString(el.Equation.PlainText)
		}
	}
	return sb.String()
}

// ToMarkdown returns the body as markdown: headings become #-prefixed
// lines, lists become indented items, tables use pipe syntax and images a
// placeholder reference.
func (pc *ParsedContent) ToMarkdown() string {
	var blocks []string
	for _, el := range pc.Elements {
		switch el.Type {
		case ElementParagraph:
			if md := paragraphMarkdown(el.Paragraph); md != "" {
				blocks = append(blocks, md)
			}
		case ElementTable:
			blocks = append(blocks, strings.TrimRight(el.Table.ToMarkdown(), "\n"))
		case ElementImage:
			name := el.Image.FileName
			if name == "" {
				name = el.Image.RelID
			}
			blocks = append(blocks, "!["+el.Image.AltText+"]("+name+")")
		case ElementEquation:
			if el.Equation.Display {
				blocks = append(blocks, "$$"+el.Equation.LaTeX+"$$")
			}
		case ElementPageBreak:
			blocks = append(blocks, "---")
		}
	}
	return joinMarkdownBlocks(blocks)
}

// joinMarkdownBlocks separates blocks with a blank line, except between
// consecutive list items.
func joinMarkdownBlocks(blocks []string) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			if isListItem(blocks[i-1]) && isListItem(b) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(b)
	}
	return sb.String()
}

func isListItem(md string) bool {
	t := strings.TrimLeft(md, " ")
	if strings.HasPrefix(t, "- ") {
		return true
	}
	i := strings.Index(t, ". ")
	if i <= 0 {
		return false
	}
	_, err := strconv.Atoi(t[:i])
	return err == nil
}

func paragraphMarkdown(p *Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(runMarkdown(r))
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return ""
	}
	switch {
	case p.Style.HeadingLevel > 0:
		level := p.Style.HeadingLevel
		if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + text
	case p.List != nil:
		indent := strings.Repeat("  ", p.List.Level)
		if p.List.IsBullet {
			return indent + "- " + text
		}
		return indent + "1. " + text
	}
	return text
}

func runMarkdown(r TextRun) string {
	text := r.Text
	if strings.TrimSpace(text) == "" {
		return text
	}
	lead := text[:len(text)-len(strings.TrimLeft(text, " "))]
	trail := text[len(strings.TrimRight(text, " ")):]
	core := strings.Trim(text, " ")
	switch {
	case r.Style.Bold && r.Style.Italic:
		core = "***" + core + "***"
	case r.Style.Bold:
		core = "**" + core + "**"
	case r.Style.Italic:
		core = "*" + core + "*"
	}
	switch {
	case r.Hyperlink != "":
		core = "[" + core + "](" + r.Hyperlink + ")"
	case r.Anchor != "":
		core = "[" + core + "](#" + r.Anchor + ")"
	}
	return lead + core + trail
}
