package docx

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/farid-asgarli/pdf-template-builder-sub000/numbering"
	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// inlineCtx is the formatting context runs inherit from their enclosing
// hyperlink, revision or content control.
type inlineCtx struct {
	style     TextStyle
	hyperlink string
	anchor    string
	revision  *RevisionMark
}

// paraBuilder collects the elements one w:p produces. A page break seals
// the current segment; drawings and equations queue behind the segment
// they appear in.
type paraBuilder struct {
	c       *converter
	pc      *partContext
	style   ParagraphStyle
	para    *Paragraph
	first   *Paragraph
	last    *Paragraph
	broke   bool
	out     []Element
	pending []Element
}

func (c *converter) newParaBuilder(pc *partContext, style ParagraphStyle) *paraBuilder {
	return &paraBuilder{c: c, pc: pc, style: style, para: &Paragraph{Style: style}}
}

// addRun appends r, merging it into the previous run when only the text
// differs.
func (b *paraBuilder) addRun(r TextRun) {
	runs := b.para.Runs
	if n := len(runs); n > 0 && r.Text != "" && mergeable(runs[n-1], r) {
		runs[n-1].Text += r.Text
		return
	}
	b.para.Runs = append(runs, r)
}

func mergeable(a, b TextRun) bool {
	if a.FootnoteRef != "" || a.EndnoteRef != "" || a.CommentRef != "" ||
		b.FootnoteRef != "" || b.EndnoteRef != "" || b.CommentRef != "" {
		return false
	}
	a.Text, b.Text = "", ""
	return a == b
}

func (b *paraBuilder) addElement(el Element) {
	b.pending = append(b.pending, el)
}

func (b *paraBuilder) emit(p *Paragraph) {
	b.out = append(b.out, Element{Type: ElementParagraph, Paragraph: p})
	if b.first == nil {
		b.first = p
	}
	b.last = p
	if b.pc.isBody() {
		b.c.paraIndex++
	}
}

func (b *paraBuilder) pageBreak() {
	if len(b.para.Runs) > 0 {
		b.para.HasPageBreak = true
		b.emit(b.para)
	}
	b.out = append(b.out, b.pending...)
	b.pending = nil
	b.out = append(b.out, Element{Type: ElementPageBreak})
	b.broke = true
	b.para = &Paragraph{Style: b.style}
	b.para.Style.DropCap = nil
}

// finish emits the last segment. An empty paragraph is kept for its
// vertical space unless it only held a page break or a drawing.
func (b *paraBuilder) finish() []Element {
	p := b.para
	if len(p.Runs) > 0 || (!b.broke && (len(b.pending) == 0 || p.List != nil)) {
		b.emit(p)
	}
	b.out = append(b.out, b.pending...)
	b.pending = nil
	b.c.paragraphEnded()
	return b.out
}

// builderMark records enough state to undo a failed mc:Choice branch.
type builderMark struct {
	para    *Paragraph
	runs    int
	out     int
	pending int
	broke   bool
	index   int
	result  outMark
}

func (b *paraBuilder) mark() builderMark {
	return builderMark{
		para:    b.para,
		runs:    len(b.para.Runs),
		out:     len(b.out),
		pending: len(b.pending),
		broke:   b.broke,
		index:   b.c.paraIndex,
		result:  b.c.snapshot(b.pc),
	}
}

func (b *paraBuilder) changedSince(m builderMark) bool {
	return b.para != m.para || len(b.para.Runs) != m.runs ||
		len(b.out) != m.out || len(b.pending) != m.pending
}

func (b *paraBuilder) reset(m builderMark) {
	b.para = m.para
	b.para.Runs = b.para.Runs[:m.runs]
	b.out = b.out[:m.out]
	b.pending = b.pending[:m.pending]
	b.broke = m.broke
	b.c.paraIndex = m.index
	b.c.restore(b.pc, m.result)
}

// outMark holds the lengths of the result collections a branch may append
// to.
type outMark struct {
	images, shapes, charts, smartArt, equations, objects int
	warnings, revisions, forms, controls                int
	pcImages, pcShapes                                  int
}

func (c *converter) snapshot(pc *partContext) outMark {
	r := pc.root()
	return outMark{
		images:    len(c.out.Images),
		shapes:    len(c.out.Shapes),
		charts:    len(c.out.Charts),
		smartArt:  len(c.out.SmartArt),
		equations: len(c.out.Equations),
		objects:   len(c.out.EmbeddedObjects),
		warnings:  len(c.out.Warnings),
		revisions: len(c.out.Revisions),
		forms:     len(c.out.FormFields),
		controls:  len(c.out.ContentControls),
		pcImages:  len(r.images),
		pcShapes:  len(r.shapes),
	}
}

func (c *converter) restore(pc *partContext, m outMark) {
	r := pc.root()
	c.out.Images = c.out.Images[:m.images]
	c.out.Shapes = c.out.Shapes[:m.shapes]
	c.out.Charts = c.out.Charts[:m.charts]
	c.out.SmartArt = c.out.SmartArt[:m.smartArt]
	c.out.Equations = c.out.Equations[:m.equations]
	c.out.EmbeddedObjects = c.out.EmbeddedObjects[:m.objects]
	c.out.Warnings = c.out.Warnings[:m.warnings]
	c.out.Revisions = c.out.Revisions[:m.revisions]
	c.out.FormFields = c.out.FormFields[:m.forms]
	c.out.ContentControls = c.out.ContentControls[:m.controls]
	r.images = r.images[:m.pcImages]
	r.shapes = r.shapes[:m.pcShapes]
}

// paragraphElements converts one w:p.
func (c *converter) paragraphElements(pc *partContext, p *ooxml.Node) []Element {
	pPr := p.Child("pPr")
	rs := c.styles.Resolve(pPr.Val("pStyle"))
	style := applyParagraphProperties(rs.Paragraph, pPr, c.theme)
	if style.HeadingLevel == 0 && style.OutlineLevel > 0 {
		style.HeadingLevel = style.OutlineLevel
	}
	if ch := pPr.Child("pPrChange"); ch != nil {
		c.recordRevision(ch, "formatChange", p.InnerText("w:t"))
	}

	b := c.newParaBuilder(pc, style)
	b.para.List = c.listInfo(pc, pPr, rs, style)
	if style.PageBreakBefore && pc.isBody() {
		b.out = append(b.out, Element{Type: ElementPageBreak})
	}

	c.walkInline(b, p, inlineCtx{style: rs.Run})
	els := b.finish()

	if pc.isBody() || pc.tocDepth > 0 {
		c.noteTOCCandidate(pc, b.first, style)
	}
	if sectPr := pPr.Child("sectPr"); sectPr != nil && pc.isBody() {
		c.addSection(sectPr)
		if b.last != nil {
			b.last.SectionBreak = true
		}
		els = append(els, Element{Type: ElementSectionBreak})
	}
	return els
}

// listInfo advances the numbering state for a list paragraph and returns
// its marker. Paragraphs outside lists return nil.
func (c *converter) listInfo(pc *partContext, pPr *ooxml.Node, rs *ResolvedStyle, style ParagraphStyle) *ListInfo {
	numID, level := rs.NumID, rs.NumLevel
	if numPr := pPr.Child("numPr"); numPr != nil {
		if v := numPr.Val("numId"); v != "" {
			numID = v
		}
		if v := numPr.Val("ilvl"); v != "" {
			level = units.ParseInt(v, 0)
		}
	}
	if numID == "" || numID == "0" {
		return nil
	}
	def, err := c.numbering.Lookup(numID)
	if err != nil {
		if !c.badNumIDs[numID] {
			c.badNumIDs[numID] = true
			c.warn(pc.name, "numPr", err)
		}
		return nil
	}
	if level < 0 {
		level = 0
	} else if level > numbering.MaxLevel {
		level = numbering.MaxLevel
	}

	isNew := !c.seenLists[numID]
	c.seenLists[numID] = true
	c.numState.Next(numID, level, def, isNew)

	li := numbering.EffectiveLevel(def, level)
	info := &ListInfo{
		NumID:     numID,
		Level:     level,
		Marker:    numbering.FormatMarker(def, level, c.numState),
		Format:    li.Format,
		IndentMM:  li.IndentLeftMM,
		HangingMM: li.HangingMM,
		IsBullet:  li.IsBullet(),
	}
	if ind := pPr.Child("ind"); ind != nil {
		info.IndentMM = style.IndentLeftMM
		if style.HangingMM > 0 {
			info.HangingMM = style.HangingMM
		}
	}
	return info
}

// walkInline converts the inline children of a paragraph or an inline
// wrapper.
func (c *converter) walkInline(b *paraBuilder, parent *ooxml.Node, ic inlineCtx) {
	for _, n := range parent.Elements() {
		switch {
		case n.Is("w:r"):
			c.runElement(b, n, ic)
		case n.Is("w:hyperlink"):
			c.walkInline(b, n, c.hyperlinkContext(b.pc, n, ic))
		case n.Is("w:fldSimple"):
			c.simpleField(b, n, ic)
		case n.Is("w:ins"), n.Is("w:moveTo"):
			rev := c.recordRevision(n, revisionType(n), n.InnerText("w:t"))
			sub := ic
			sub.revision = &RevisionMark{Type: rev.Type, Author: rev.Author}
			c.walkInline(b, n, sub)
		case n.Is("w:del"), n.Is("w:moveFrom"):
			c.recordRevision(n, revisionType(n), deletedText(n))
		case n.Is("w:smartTag"), n.Is("w:customXml"), n.Is("w:dir"), n.Is("w:bdo"):
			c.walkInline(b, n, ic)
		case n.Is("w:sdt"):
			c.contentControl(b.pc, n)
			c.walkInline(b, n.Child("sdtContent"), ic)
		case n.Is("mc:AlternateContent"):
			c.alternateInline(b, n, func(branch *ooxml.Node) { c.walkInline(b, branch, ic) })
		case n.Is("w:bookmarkStart"), n.Is("w:bookmarkEnd"),
			n.Is("w:commentRangeStart"), n.Is("w:commentRangeEnd"):
			c.rangeMarker(b, n)
		case n.Is("m:oMathPara"):
			c.displayMath(b, n)
		case n.Is("m:oMath"):
			c.inlineMath(b, n, ic)
		}
	}
}

func (c *converter) hyperlinkContext(pc *partContext, n *ooxml.Node, ic inlineCtx) inlineCtx {
	sub := ic
	if id := n.Attr("r:id"); id != "" {
		if rel, ok := pc.rels.Get(id); ok {
			sub.hyperlink = rel.Target
		} else {
			c.warnf(pc.name, "hyperlink", "unresolved relationship %s", id)
		}
	}
	if anchor := n.Attr("anchor"); anchor != "" {
		sub.anchor = anchor
	}
	return sub
}

// alternateInline tries each mc:AlternateContent branch against the
// builder, rolling back a branch that fails or produces nothing.
func (c *converter) alternateInline(b *paraBuilder, n *ooxml.Node, fn func(*ooxml.Node)) {
	c.alternateContent(b.pc, n, func(branch *ooxml.Node) (err error) {
		m := b.mark()
		defer func() {
			if r := recover(); r != nil {
				b.reset(m)
				err = panicError{value: r}
			}
		}()
		fn(branch)
		if !b.changedSince(m) {
			var dropped []Warning
			if len(c.out.Warnings) > m.result.warnings {
				dropped = append(dropped, c.out.Warnings[m.result.warnings:]...)
			}
			b.reset(m)
			if len(dropped) > 0 {
				return &branchError{warning: dropped[len(dropped)-1]}
			}
			return errEmptyBranch
		}
		return nil
	})
}

type branchError struct {
	warning Warning
}

func (e *branchError) Error() string { return e.warning.Message }

func (c *converter) runElement(b *paraBuilder, r *ooxml.Node, ic inlineCtx) {
	rPr := r.Child("rPr")
	style := ic.style
	if id := rPr.Val("rStyle"); id != "" {
		style = c.styles.ApplyCharacterStyle(style, id)
	}
	style = applyRunProperties(style, rPr, c.theme)
	if ch := rPr.Child("rPrChange"); ch != nil {
		c.recordRevision(ch, "formatChange", r.InnerText("w:t"))
	}
	c.runContent(b, r, style, ic)
}

// runContent converts the children of a w:r (or of an mc branch inside
// one).
func (c *converter) runContent(b *paraBuilder, parent *ooxml.Node, style TextStyle, ic inlineCtx) {
	pc := b.pc
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			c.emitText(b, text.String(), style, ic)
			text.Reset()
		}
	}

	for _, n := range parent.Elements() {
		switch {
		case n.Is("w:t"):
			text.WriteString(n.Text())
		case n.Is("w:tab"), n.Is("w:ptab"):
			text.WriteByte('\t')
		case n.Is("w:br"):
			if n.Attr("type") == "page" {
				flush()
				b.pageBreak()
			} else {
				text.WriteByte('\n')
			}
		case n.Is("w:cr"):
			text.WriteByte('\n')
		case n.Is("w:noBreakHyphen"):
			text.WriteString("\u2011")
		case n.Is("w:softHyphen"):
			text.WriteString("\u00ad")
		case n.Is("w:sym"):
			text.WriteString(symbolText(n))
		case n.Is("w:fldChar"):
			flush()
			c.fieldChar(b, n, style, ic)
		case n.Is("w:instrText"):
			pc.instrText(n.Text())
		case n.Is("w:footnoteReference"), n.Is("w:endnoteReference"):
			flush()
			c.noteReference(b, n, style, ic)
		case n.Is("w:commentReference"):
			flush()
			b.addRun(TextRun{Style: style, CommentRef: n.Attr("id")})
		case n.Is("w:drawing"):
			flush()
			c.safely(pc.name, "drawing", func() error { return c.drawing(b, n) })
		case n.Is("w:pict"):
			flush()
			c.safely(pc.name, "pict", func() error { return c.vmlPicture(b, n) })
		case n.Is("w:object"):
			flush()
			c.safely(pc.name, "object", func() error { return c.embeddedObject(b, n) })
		case n.Is("mc:AlternateContent"):
			flush()
			c.alternateInline(b, n, func(branch *ooxml.Node) { c.runContent(b, branch, style, ic) })
		}
	}
	flush()
}

var guillemetField = regexp.MustCompile(`«([^«»]+)»`)

// placeholderName turns a merge field name into a template variable name.
func placeholderName(name string) string {
	return strings.Join(strings.Fields(strings.Trim(name, `"`)), "_")
}

// emitText adds visible text as a run. Text inside a field instruction or
// a replaced field result is only recorded on the field.
func (c *converter) emitText(b *paraBuilder, text string, style TextStyle, ic inlineCtx) {
	f, visible := b.pc.fieldContext()
	if f != nil && f.separated {
		f.result.WriteString(text)
	}
	if !visible {
		return
	}
	if !c.opts.KeepRawText {
		text = norm.NFC.String(text)
	}
	if strings.ContainsRune(text, '«') {
		text = guillemetField.ReplaceAllStringFunc(text, func(m string) string {
			return "{{" + placeholderName(strings.Trim(m, "«»")) + "}}"
		})
	}

	run := TextRun{
		Text:      text,
		Style:     style,
		Hyperlink: ic.hyperlink,
		Anchor:    ic.anchor,
		Revision:  ic.revision,
	}
	if f != nil {
		run.IsField = true
		run.FieldCode = f.code
		if f.hyperlink != "" && run.Hyperlink == "" {
			run.Hyperlink = f.hyperlink
		}
		if f.anchor != "" && run.Anchor == "" {
			run.Anchor = f.anchor
		}
	}
	b.addRun(run)
	c.appendRangeText(text)
}

func (c *converter) noteReference(b *paraBuilder, n *ooxml.Node, style TextStyle, ic inlineCtx) {
	kind := partFootnote
	if n.Is("w:endnoteReference") {
		kind = partEndnote
	}
	id := n.Attr("id")
	run := TextRun{Style: style, Hyperlink: ic.hyperlink, Revision: ic.revision}
	run.Style.VerticalAlign = "superscript"
	if !onOffAttr(n, "customMarkFollows") {
		run.Text = c.noteMarker(kind, c.noteNumber(kind, id))
	}
	if kind == partFootnote {
		run.FootnoteRef = id
	} else {
		run.EndnoteRef = id
	}
	b.addRun(run)
}

// noteNumber returns the sequential number of a note in order of first
// reference.
func (c *converter) noteNumber(kind, id string) int {
	m := c.noteNumbers[kind]
	if n, ok := m[id]; ok {
		return n
	}
	n := len(m) + 1
	m[id] = n
	return n
}

// noteMarker formats a note number the way Word does by default: arabic
// footnotes, lower-roman endnotes.
func (c *converter) noteMarker(kind string, n int) string {
	if kind == partEndnote {
		return numbering.FormatNumber(n, "lowerRoman")
	}
	return strconv.Itoa(n)
}

func onOffAttr(n *ooxml.Node, key string) bool {
	return n.HasAttr(key) && units.ParseOnOff(n.Attr(key))
}

// Symbol font letters map onto Greek.
var (
	symbolUpper = []rune("ΑΒΧΔΕΦΓΗΙϑΚΛΜΝΟΠΘΡΣΤΥςΩΞΨΖ")
	symbolLower = []rune("αβχδεφγηιϕκλμνοπθρστυϖωξψζ")
)

// symbolText converts a w:sym character to displayable text.
func symbolText(n *ooxml.Node) string {
	code, err := strconv.ParseUint(n.Attr("char"), 16, 32)
	if err != nil || code == 0 {
		return ""
	}
	r := rune(code)
	low := r
	if r >= 0xF000 && r <= 0xF0FF {
		low = r - 0xF000
	}
	if strings.Contains(strings.ToLower(n.Attr("font")), "symbol") {
		switch {
		case low >= 'A' && low <= 'Z':
			return string(symbolUpper[low-'A'])
		case low >= 'a' && low <= 'z':
			return string(symbolLower[low-'a'])
		}
	}
	if r >= 0xF000 && r <= 0xF0FF {
		return numbering.BulletGlyph(string(r), 0)
	}
	return string(r)
}
