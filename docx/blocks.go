package docx

import (
	"errors"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// Part kinds a partContext may walk.
const (
	partBody     = "body"
	partHeader   = "header"
	partFooter   = "footer"
	partFootnote = "footnote"
	partEndnote  = "endnote"
	partComment  = "comment"
	partTextbox  = "textbox"
)

// partContext is the state of the walk over one XML part. Text boxes get a
// child context so their paragraphs stay out of the body numbering.
type partContext struct {
	name   string
	kind   string
	rels   *ooxml.Rels
	parent *partContext

	fields        []*fieldState
	tocDepth      int
	hasPageNumber bool
	images        []*Image
	shapes        []*Shape
	watermark     *Shape
}

func (pc *partContext) child(kind string) *partContext {
	return &partContext{name: pc.name, kind: kind, rels: pc.rels, parent: pc}
}

// root returns the outermost context of the part.
func (pc *partContext) root() *partContext {
	for pc.parent != nil {
		pc = pc.parent
	}
	return pc
}

func (pc *partContext) isBody() bool { return pc.kind == partBody }

// inHeaderFooter reports whether the walk is inside a header or footer part.
func (pc *partContext) inHeaderFooter() bool {
	k := pc.root().kind
	return k == partHeader || k == partFooter
}

// walkBody converts w:body into ParsedContent.Elements and the section
// list.
func (c *converter) walkBody(body *ooxml.Node) {
	pc := &partContext{name: c.mainPart, kind: partBody, rels: c.docRels}
	c.out.Elements = c.walkBlocks(pc, body)
	c.closeOpenRanges()

	if body.Child("sectPr") == nil {
		sec := &Section{
			Index:        len(c.out.Sections),
			PageSettings: DefaultPageSettings(),
			HeaderRefs:   map[string]string{},
			FooterRefs:   map[string]string{},
			Columns:      1,
			BreakType:    "nextPage",
		}
		c.out.Sections = append(c.out.Sections, sec)
		if sec.Index == 0 {
			c.out.PageSettings = sec.PageSettings
		}
	}

	next := 1
	for i := range c.out.Elements {
		if c.out.Elements[i].Type != ElementSectionBreak {
			continue
		}
		if next < len(c.out.Sections) {
			c.out.Elements[i].Section = c.out.Sections[next]
		}
		next++
	}
}

// walkBlocks converts the block-level children of parent (body, cell, note,
// header, text box content) into elements.
func (c *converter) walkBlocks(pc *partContext, parent *ooxml.Node) []Element {
	var out []Element
	for _, n := range parent.Elements() {
		switch {
		case n.Is("w:p"):
			var els []Element
			if c.safely(pc.name, "p", func() error {
				els = c.paragraphElements(pc, n)
				return nil
			}) {
				out = append(out, els...)
			}
		case n.Is("w:tbl"):
			var tbl *Table
			if c.safely(pc.name, "tbl", func() error {
				tbl = c.parseTable(pc, n)
				return nil
			}) && tbl != nil {
				out = append(out, Element{Type: ElementTable, Table: tbl})
			}
		case n.Is("w:sdt"):
			out = append(out, c.blockSDT(pc, n)...)
		case n.Is("w:customXml"), n.Is("w:smartTag"):
			out = append(out, c.walkBlocks(pc, n)...)
		case n.Is("mc:AlternateContent"):
			c.alternateContent(pc, n, func(branch *ooxml.Node) error {
				els := c.walkBlocks(pc, branch)
				if len(els) == 0 {
					return errEmptyBranch
				}
				out = append(out, els...)
				return nil
			})
		case n.Is("w:ins"), n.Is("w:moveTo"):
			c.recordRevision(n, revisionType(n), blockText(n))
			out = append(out, c.walkBlocks(pc, n)...)
		case n.Is("w:del"), n.Is("w:moveFrom"):
			c.recordRevision(n, revisionType(n), deletedText(n))
		case n.Is("w:bookmarkStart"), n.Is("w:bookmarkEnd"),
			n.Is("w:commentRangeStart"), n.Is("w:commentRangeEnd"):
			c.rangeMarker(nil, n)
		case n.Is("m:oMathPara"):
			if el, ok := c.mathElement(pc, n); ok {
				out = append(out, el...)
			}
		case n.Is("w:sectPr"):
			if pc.isBody() {
				c.addSection(n)
			}
		}
	}
	return out
}

// blockSDT emits the content of a block-level content control and records
// the control.
func (c *converter) blockSDT(pc *partContext, sdt *ooxml.Node) []Element {
	sdtPr := sdt.Child("sdtPr")
	isTOC := strings.Contains(strings.ToLower(sdtPr.Child("docPartObj").Val("docPartGallery")), "table of contents")
	if isTOC {
		pc.tocDepth++
		defer func() { pc.tocDepth-- }()
	}
	c.contentControl(pc, sdt)
	return c.walkBlocks(pc, sdt.Child("sdtContent"))
}

var errEmptyBranch = errors.New("alternate content branch produced nothing")

// alternateContent evaluates mc:AlternateContent: each mc:Choice in order,
// then mc:Fallback. A branch whose fn fails or panics falls through to the
// next one.
func (c *converter) alternateContent(pc *partContext, n *ooxml.Node, fn func(*ooxml.Node) error) {
	branches := n.Children("mc:Choice")
	if fb := n.Child("mc:Fallback"); fb != nil {
		branches = append(branches, fb)
	}
	var lastErr error
	for _, b := range branches {
		if lastErr = try(func() error { return fn(b) }); lastErr == nil {
			return
		}
	}
	var be *branchError
	switch {
	case lastErr == nil, errors.Is(lastErr, errEmptyBranch):
	case errors.As(lastErr, &be):
		c.warnf(be.warning.Part, be.warning.Element, "%s", be.warning.Message)
	default:
		c.warn(pc.name, "AlternateContent", lastErr)
	}
}

// try runs fn, turning a panic into an error.
func try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return fn()
}

func revisionType(n *ooxml.Node) string {
	switch {
	case n.Is("w:ins"):
		return "insert"
	case n.Is("w:del"):
		return "delete"
	default:
		return "move"
	}
}

// recordRevision appends a tracked change.
func (c *converter) recordRevision(n *ooxml.Node, typ, text string) *Revision {
	rev := &Revision{
		ID:     n.Attr("id"),
		Type:   typ,
		Author: n.Attr("author"),
		Date:   n.Attr("date"),
		Text:   text,
	}
	c.out.Revisions = append(c.out.Revisions, rev)
	c.sawTrack = true
	return rev
}

// blockText joins the text of the paragraphs below n with newlines.
func blockText(n *ooxml.Node) string {
	paras := n.Descendants("w:p")
	if len(paras) == 0 {
		return n.InnerText("w:t")
	}
	parts := make([]string, 0, len(paras))
	for _, p := range paras {
		parts = append(parts, p.InnerText("w:t"))
	}
	return strings.Join(parts, "\n")
}

func deletedText(n *ooxml.Node) string {
	return n.InnerText("w:delText") + n.InnerText("w:t")
}
