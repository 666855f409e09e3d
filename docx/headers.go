package docx

import (
	"sort"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// loadHeadersFooters parses the header and footer parts referenced by the
// sections. Each type keeps the part of the first section defining it.
func (c *converter) loadHeadersFooters() {
	for _, sec := range c.out.Sections {
		c.pageWidthMM = sec.PageSettings.WidthMM
		for _, typ := range sortedKeys(sec.HeaderRefs) {
			c.headerFooter(partHeader, typ, sec.HeaderRefs[typ], c.out.Headers)
		}
		for _, typ := range sortedKeys(sec.FooterRefs) {
			c.headerFooter(partFooter, typ, sec.FooterRefs[typ], c.out.Footers)
		}
	}
}

func (c *converter) headerFooter(kind, typ, part string, dst map[string]*HeaderFooter) {
	if _, ok := dst[typ]; ok {
		return
	}
	hf, ok := c.hfParts[part]
	if !ok {
		root, err := c.pkg.XML(part)
		if err != nil {
			c.warn(part, kind, err)
			return
		}
		pc := &partContext{name: part, kind: kind, rels: c.pkg.Relationships(part)}
		hf = &HeaderFooter{Type: typ, Kind: kind, Part: part}
		if !c.safely(part, kind, func() error {
			hf.Elements = c.walkBlocks(pc, root)
			return nil
		}) {
			return
		}
		hf.Images = pc.images
		hf.Shapes = pc.shapes
		hf.HasPageNumber = pc.hasPageNumber
		hf.Watermark = pc.watermark
		c.hfParts[part] = hf
	}
	if hf.Type != typ {
		cp := *hf
		cp.Type = typ
		hf = &cp
	}
	dst[typ] = hf
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loadNotes parses footnotes.xml and endnotes.xml.
func (c *converter) loadNotes() {
	c.out.Footnotes = c.notes(partFootnote, c.partFor(ooxml.RelFootnotes, "word/footnotes.xml"))
	c.out.Endnotes = c.notes(partEndnote, c.partFor(ooxml.RelEndnotes, "word/endnotes.xml"))
}

// notes parses one notes part. Separator notes are skipped; markers follow
// the order of first reference in the body.
func (c *converter) notes(kind, part string) []*Note {
	root := c.optionalXML(part)
	if root == nil {
		return nil
	}
	pc := &partContext{name: part, kind: kind, rels: c.pkg.Relationships(part)}

	var out []*Note
	for _, n := range root.Children(kind) {
		switch n.Attr("type") {
		case "separator", "continuationSeparator", "continuationNotice":
			continue
		}
		id := n.Attr("id")
		if id == "-1" || id == "0" {
			continue
		}
		note := &Note{ID: id, Kind: kind}
		c.safely(part, kind, func() error {
			note.Paragraphs = flattenParagraphs(c.walkBlocks(pc, n))
			return nil
		})
		if len(note.Paragraphs) > 0 {
			trimLeadingSpace(note.Paragraphs[0])
		}
		if num, ok := c.noteNumbers[kind][id]; ok {
			note.ReferenceMarker = c.noteMarker(kind, num)
		}
		out = append(out, note)
	}
	return out
}

// trimLeadingSpace drops the space Word places after a note's own marker.
func trimLeadingSpace(p *Paragraph) {
	for i := range p.Runs {
		if p.Runs[i].Text == "" {
			continue
		}
		if p.Runs[i].Text[0] == ' ' {
			p.Runs[i].Text = p.Runs[i].Text[1:]
		}
		return
	}
}

// flattenParagraphs returns the paragraphs of els, including those inside
// tables, in reading order.
func flattenParagraphs(els []Element) []*Paragraph {
	var out []*Paragraph
	for _, el := range els {
		switch el.Type {
		case ElementParagraph:
			out = append(out, el.Paragraph)
		case ElementTable:
			out = append(out, tableParagraphs(el.Table)...)
		}
	}
	return out
}

func tableParagraphs(t *Table) []*Paragraph {
	var out []*Paragraph
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			out = append(out, cell.Paragraphs...)
			for _, nested := range cell.Tables {
				out = append(out, tableParagraphs(nested)...)
			}
		}
	}
	return out
}

// loadComments parses comments.xml and the threading flags of
// commentsExtended.xml. Extended entries are keyed by the paraId of a
// comment's last paragraph.
func (c *converter) loadComments() {
	part := c.partFor(ooxml.RelComments, "word/comments.xml")
	root := c.optionalXML(part)
	if root == nil {
		return
	}
	pc := &partContext{name: part, kind: partComment, rels: c.pkg.Relationships(part)}

	byPara := make(map[string]*Comment)
	for _, n := range root.Children("comment") {
		cm := &Comment{
			ID:       n.Attr("id"),
			Author:   n.Attr("author"),
			Initials: n.Attr("initials"),
			Date:     n.Attr("date"),
		}
		c.safely(part, "comment", func() error {
			cm.Paragraphs = flattenParagraphs(c.walkBlocks(pc, n))
			return nil
		})
		texts := make([]string, 0, len(cm.Paragraphs))
		for _, p := range cm.Paragraphs {
			texts = append(texts, p.Text())
		}
		cm.Text = strings.Join(texts, "\n")
		cm.RangeText = c.rangeText[cm.ID]
		if ps := n.Children("p"); len(ps) > 0 {
			cm.ParaID = ps[len(ps)-1].Attr("paraId")
			if cm.ParaID != "" {
				byPara[cm.ParaID] = cm
			}
		}
		c.out.Comments = append(c.out.Comments, cm)
	}

	ext := c.optionalXML(c.partFor(ooxml.RelCommentsExtended, "word/commentsExtended.xml"))
	for _, ex := range ext.Children("commentEx") {
		cm := byPara[ex.Attr("paraId")]
		if cm == nil {
			continue
		}
		cm.Resolved = onOffAttr(ex, "done")
		if parent := byPara[ex.Attr("paraIdParent")]; parent != nil {
			cm.ParentID = parent.ID
		}
	}
}
