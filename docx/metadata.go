package docx

import (
	"strings"
	"unicode"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/template"
)

// Metadata summarizes a conversion: element counts, feature flags, the
// template variables found in the text and the warnings as strings.
type Metadata struct {
	Paragraphs      int `json:"paragraphs"`
	Tables          int `json:"tables"`
	Images          int `json:"images"`
	Lists           int `json:"lists"`
	ListItems       int `json:"listItems"`
	Hyperlinks      int `json:"hyperlinks"`
	Footnotes       int `json:"footnotes"`
	Endnotes        int `json:"endnotes"`
	Comments        int `json:"comments"`
	Bookmarks       int `json:"bookmarks"`
	Equations       int `json:"equations"`
	Charts          int `json:"charts"`
	SmartArt        int `json:"smartArt"`
	FormFields      int `json:"formFields"`
	ContentControls int `json:"contentControls"`
	Revisions       int `json:"revisions"`
	Sections        int `json:"sections"`
	Headers         int `json:"headers"`
	Footers         int `json:"footers"`
	Shapes          int `json:"shapes"`
	EmbeddedObjects int `json:"embeddedObjects"`
	Words           int `json:"words"`
	Characters      int `json:"characters"`

	HasWatermark    bool `json:"hasWatermark"`
	HasTrackChanges bool `json:"hasTrackChanges"`
	HasTOC          bool `json:"hasToc"`
	HasBibliography bool `json:"hasBibliography"`
	HasCustomXML    bool `json:"hasCustomXml"`
	HasMacros       bool `json:"hasMacros"`
	HasComments     bool `json:"hasComments"`

	Variables []string `json:"variables"`
	Warnings  []string `json:"warnings"`
}

func (c *converter) computeMetadata() {
	out := c.out
	m := &out.Metadata

	paras := out.AllParagraphs()
	lists := make(map[string]bool)
	for _, p := range out.Paragraphs() {
		m.Paragraphs++
		if p.List != nil {
			m.ListItems++
			lists[p.List.NumID] = true
		}
	}
	m.Lists = len(lists)
	m.Tables = len(out.Tables())
	for _, p := range paras {
		m.Hyperlinks += countHyperlinks(p)
		text := p.Text()
		m.Words += len(strings.Fields(text))
		for _, r := range text {
			if !unicode.IsSpace(r) {
				m.Characters++
			}
		}
	}

	m.Images = len(out.Images)
	m.Footnotes = len(out.Footnotes)
	m.Endnotes = len(out.Endnotes)
	m.Comments = len(out.Comments)
	m.Bookmarks = len(out.Bookmarks)
	m.Equations = len(out.Equations)
	m.Charts = len(out.Charts)
	m.SmartArt = len(out.SmartArt)
	m.FormFields = len(out.FormFields)
	m.ContentControls = len(out.ContentControls)
	m.Revisions = len(out.Revisions)
	m.Sections = len(out.Sections)
	m.Headers = len(out.Headers)
	m.Footers = len(out.Footers)
	m.Shapes = len(out.Shapes)
	m.EmbeddedObjects = len(out.EmbeddedObjects)

	m.HasWatermark = out.Watermark() != nil
	m.HasTrackChanges = c.sawTrack || len(out.Revisions) > 0
	m.HasTOC = out.TableOfContents != nil || c.sawTOCField
	m.HasBibliography = len(out.Bibliography) > 0 || len(out.Citations) > 0
	m.HasCustomXML = len(out.CustomXML) > 0
	m.HasMacros = c.hasMacros()
	m.HasComments = len(out.Comments) > 0

	m.Variables = c.detectVariables(paras)

	for _, w := range out.Warnings {
		m.Warnings = append(m.Warnings, w.String())
	}
}

// countHyperlinks counts maximal spans of runs sharing a link target.
func countHyperlinks(p *Paragraph) int {
	n := 0
	prev := ""
	for _, r := range p.Runs {
		key := r.Hyperlink + "#" + r.Anchor
		if r.Hyperlink == "" && r.Anchor == "" {
			key = ""
		}
		if key != "" && key != prev {
			n++
		}
		prev = key
	}
	return n
}

func (c *converter) hasMacros() bool {
	if c.pkg.Has("word/vbaProject.bin") || len(c.docRels.ByType(ooxml.RelVBAProject)) > 0 {
		return true
	}
	return strings.Contains(strings.ToLower(c.pkg.ContentType(c.mainPart)), "macroenabled")
}

// detectVariables parses the document text as a template. A malformed
// document is retried paragraph by paragraph so that one bad placeholder
// does not hide the others.
func (c *converter) detectVariables(paras []*Paragraph) []string {
	texts := make([]string, 0, len(paras))
	for _, p := range paras {
		if t := p.Text(); strings.Contains(t, "{{") {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	tmpl, err := template.Parse(strings.Join(texts, "\n"))
	if err == nil {
		return tmpl.Variables()
	}
	c.warnf("", "template", "placeholders: %v", err)

	seen := make(map[string]bool)
	var vars []string
	for _, t := range texts {
		tmpl, err := template.Parse(t)
		if err != nil {
			continue
		}
		for _, v := range tmpl.Variables() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}
