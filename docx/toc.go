package docx

import (
	"strconv"
	"strings"
)

// tocCandidate is a paragraph that looks like part of a table of contents.
type tocCandidate struct {
	para    *Paragraph
	level   int
	heading bool
}

// tocLevel returns the level encoded in a TOC style ("TOC2", "toc 2"), or 0.
func tocLevel(style ParagraphStyle) int {
	for _, name := range []string{style.StyleID, style.StyleName} {
		lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		if !strings.HasPrefix(lower, "toc") || len(lower) != 4 {
			continue
		}
		if n, err := strconv.Atoi(lower[3:]); err == nil && n >= 1 && n <= 9 {
			return n
		}
	}
	return 0
}

func isTOCHeading(style ParagraphStyle) bool {
	for _, name := range []string{style.StyleID, style.StyleName} {
		if strings.EqualFold(strings.ReplaceAll(name, " ", ""), "TOCHeading") {
			return true
		}
	}
	return false
}

// noteTOCCandidate remembers p when its style or an enclosing TOC field or
// content control marks it as a table-of-contents line.
func (c *converter) noteTOCCandidate(pc *partContext, p *Paragraph, style ParagraphStyle) {
	if p == nil {
		return
	}
	switch {
	case isTOCHeading(style):
		c.tocParas = append(c.tocParas, tocCandidate{para: p, heading: true})
	case tocLevel(style) > 0:
		c.tocParas = append(c.tocParas, tocCandidate{para: p, level: tocLevel(style)})
	case pc.tocDepth > 0 && strings.TrimSpace(p.Text()) != "":
		if strings.Contains(p.Text(), "\t") {
			c.tocParas = append(c.tocParas, tocCandidate{para: p, level: 1})
		} else if len(c.tocParas) == 0 {
			c.tocParas = append(c.tocParas, tocCandidate{para: p, heading: true})
		}
	}
}

// buildTOC turns the collected candidates into ParsedContent.TableOfContents.
func (c *converter) buildTOC() {
	if len(c.tocParas) == 0 {
		return
	}
	toc := &TableOfContents{}
	for _, cand := range c.tocParas {
		text := cand.para.Text()
		if cand.heading {
			if toc.Title == "" && len(toc.Entries) == 0 {
				toc.Title = strings.TrimSpace(text)
			}
			continue
		}
		entry := TOCEntry{Level: cand.level}
		if i := strings.LastIndex(text, "\t"); i >= 0 {
			entry.Text = strings.TrimSpace(text[:i])
			entry.Page = strings.TrimSpace(text[i+1:])
		} else {
			entry.Text = strings.TrimSpace(text)
		}
		for _, r := range cand.para.Runs {
			if r.Anchor != "" {
				entry.Anchor = r.Anchor
				break
			}
		}
		if entry.Text == "" {
			continue
		}
		toc.Entries = append(toc.Entries, entry)
	}
	if toc.Title == "" && len(toc.Entries) == 0 {
		return
	}
	c.out.TableOfContents = toc
}
