package layout

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
)

// Default sizes for objects that declare none.
const (
	defaultChartWidthMM  = 150.0
	defaultChartHeightMM = 90.0
	noteFontSizePt       = 9.0
	noteSeparatorMM      = 50.0
	minTextWidthMM       = 10.0
)

// Projector converts parsed content into an editor document. A Projector is
// safe for concurrent use; each Project call owns its cursor state.
type Projector struct {
	opts Options
}

// NewProjector creates a projector with default options.
func NewProjector() *Projector {
	return NewProjectorWithOptions(DefaultOptions())
}

// NewProjectorWithOptions creates a projector. Zero numeric options and a
// nil IDFunc take their defaults.
func NewProjectorWithOptions(opts Options) *Projector {
	return &Projector{opts: opts.withDefaults()}
}

// Options returns the effective configuration.
func (p *Projector) Options() Options {
	return p.opts
}

// Project lays out pc. The result always has at least one page; only the
// page of an empty document is ever empty.
func (p *Projector) Project(pc *docx.ParsedContent) *model.Document {
	settings := pc.PageSettings
	if len(pc.Sections) > 0 {
		settings = pc.Sections[0].PageSettings
	}

	doc := model.NewDocument(pageSettings(settings))
	doc.Metadata = metadata(pc.CoreProperties)
	for _, v := range pc.Metadata.Variables {
		doc.Variables[v] = ""
	}

	pr := &projection{
		opts:     p.opts,
		doc:      doc,
		settings: settings,
		fields:   make(map[int][]*docx.FormField),
	}
	for _, f := range pc.FormFields {
		pr.fields[f.ParagraphIndex] = append(pr.fields[f.ParagraphIndex], f)
	}
	pr.startPage()

	for _, el := range pc.Elements {
		pr.element(el)
	}
	if p.opts.IncludeNotes {
		pr.notes(pc.Footnotes, pc.Endnotes)
	}

	p.projectHeadersFooters(pc, doc, settings)
	if wm := pc.Watermark(); wm != nil {
		for _, page := range doc.Pages {
			page.AddComponent(p.watermark(wm, page))
		}
	}
	for _, page := range doc.Pages {
		sortByY(page.Components)
	}
	return doc
}

// sortByY orders components by their top edge, keeping creation order for
// equal positions.
func sortByY(cs []*model.Component) {
	slices.SortStableFunc(cs, func(a, b *model.Component) int {
		switch {
		case a.YMM < b.YMM:
			return -1
		case a.YMM > b.YMM:
			return 1
		}
		return 0
	})
}

// projection is the cursor state of one Project call. In band mode it lays
// out a header or footer: there is a single unbounded page and page breaks
// are ignored.
type projection struct {
	opts     Options
	doc      *model.Document
	settings docx.PageSettings
	band     bool

	page      *model.Page
	y         float64 // relative to the content origin
	z         int
	broke     bool // a page break is pending
	paraIndex int
	fields    map[int][]*docx.FormField
}

func (pr *projection) startPage() {
	pr.page = model.NewPage(pr.settings.WidthMM, pr.settings.HeightMM)
	if pr.doc != nil {
		pr.doc.AddPage(pr.page)
	}
	pr.y = 0
	pr.z = 0
	pr.broke = false
}

func (pr *projection) usableHeight() float64 {
	if pr.band {
		return math.Inf(1)
	}
	return pr.settings.UsableHeightMM()
}

func (pr *projection) contentWidth() float64 {
	return pr.settings.UsableWidthMM()
}

func (pr *projection) left() float64 {
	return pr.settings.Margins.LeftMM
}

// top is the Y of the content origin in component coordinates.
func (pr *projection) top() float64 {
	if pr.band {
		return 0
	}
	return pr.settings.Margins.TopMM
}

func (pr *projection) pageBreak() {
	if !pr.band {
		pr.broke = true
	}
}

// reserve makes room for a flow component h tall and returns the cursor
// position where it starts. A pending break or an overflow seals a
// non-empty page; on an empty page the leading blank space is dropped
// instead.
func (pr *projection) reserve(h float64) float64 {
	if pr.broke || pr.y+h > pr.usableHeight() {
		if pr.page.IsEmpty() {
			pr.y = 0
		} else {
			pr.startPage()
		}
	}
	pr.broke = false
	return pr.y
}

// skip advances the cursor over blank space without opening a page.
func (pr *projection) skip(h float64) {
	if pr.broke {
		return
	}
	pr.y = math.Min(pr.y+h, pr.usableHeight())
}

func (pr *projection) newComponent(t model.ComponentType) *model.Component {
	pr.z++
	c := model.NewComponent(pr.opts.IDFunc(), t)
	c.ZIndex = pr.z
	return c
}

func (pr *projection) add(c *model.Component) {
	pr.page.AddComponent(c)
}

func (pr *projection) element(el docx.Element) {
	switch el.Type {
	case docx.ElementParagraph:
		pr.paragraph(el.Paragraph)
	case docx.ElementTable:
		pr.table(el.Table)
	case docx.ElementPageBreak:
		pr.pageBreak()
	case docx.ElementSectionBreak:
		pr.sectionBreak(el.Section)
	case docx.ElementImage:
		pr.image(el.Image)
	case docx.ElementShape:
		pr.shape(el.Shape)
	case docx.ElementEquation:
		pr.equation(el.Equation)
	case docx.ElementChart:
		pr.chart(el.Chart)
	case docx.ElementSmartArt:
		pr.smartArt(el.SmartArt)
	}
}

func (pr *projection) sectionBreak(sec *docx.Section) {
	if sec == nil {
		return
	}
	if sec.BreakType != "continuous" {
		pr.pageBreak()
	}
	pr.settings = sec.PageSettings
}

// paragraphBox returns the left offset from the content origin and the
// width of a paragraph.
func (pr *projection) paragraphBox(p *docx.Paragraph) (x, width float64) {
	x = p.Style.IndentLeftMM
	if p.List != nil && p.List.IndentMM > 0 {
		x = p.List.IndentMM - p.List.HangingMM
	}
	x = math.Max(x, 0)
	width = pr.contentWidth() - x - math.Max(p.Style.IndentRightMM, 0)
	return x, math.Max(width, minTextWidthMM)
}

func (pr *projection) paragraph(p *docx.Paragraph) {
	index := pr.paraIndex
	pr.paraIndex++
	if p.Style.PageBreakBefore {
		pr.pageBreak()
	}

	spans, text := textSpans(p.Runs)
	if p.List != nil && p.List.Marker != "" {
		text = p.List.Marker + " " + text
	}
	font := fontSize(p.Runs, pr.opts.DefaultFontSizePt)
	x, width := pr.paragraphBox(p)
	lineH := lineHeightMM(p.Style, font, pr.opts.LineHeightFactor)
	perLine := pr.opts.CharsPerLine
	if perLine <= 0 {
		perLine = charsPerLine(width, font, pr.opts.AverageCharWidth)
	}
	h := float64(EstimateLines(text, perLine)) * lineH
	before := p.Style.SpacingBeforeMM
	after := p.Style.SpacingAfterMM
	if after == 0 {
		after = pr.opts.SpacingAfterMM
	}

	if strings.TrimSpace(text) == "" {
		pr.skip(before + h + after)
		return
	}

	y := pr.reserve(before+h) + before
	c := pr.textComponent(p, spans, font, lineH)
	c.XMM = pr.left() + x
	c.YMM = pr.top() + y
	c.WidthMM = width
	c.HeightMM = h
	pr.add(c)

	for _, f := range pr.fields[index] {
		fc := pr.formField(f)
		fc.XMM = c.XMM
		fc.YMM = c.YMM
		fc.WidthMM = width
		fc.HeightMM = lineH
		pr.add(fc)
	}
	pr.y = y + h + after
}

func (pr *projection) table(t *docx.Table) {
	pr.paraIndex += countParagraphs(t)
	heights, total := EstimateTableHeightMM(t, pr.opts.TableRowHeightMM)
	if len(heights) == 0 {
		return
	}
	data := pr.tableData(t, heights)
	width := 0.0
	for _, w := range data.ColumnWidthsMM {
		width += w
	}
	x := pr.left() + t.IndentMM
	switch t.Alignment {
	case "center":
		x = pr.left() + (pr.contentWidth()-width)/2
	case "right":
		x = pr.left() + pr.contentWidth() - width
	}

	headerRows := 0
	for headerRows < len(data.Rows) && data.Rows[headerRows].IsHeader {
		headerRows++
	}
	var headerHeight float64
	for _, h := range heights[:headerRows] {
		headerHeight += h
	}

	emit := func(rows []model.TableRow, h float64) {
		chunk := *data
		chunk.Rows = rows
		c := pr.newComponent(model.ComponentTable)
		c.Set(model.PropTable, &chunk)
		c.XMM, c.YMM = x, pr.top()+pr.y
		c.WidthMM, c.HeightMM = width, h
		pr.add(c)
		pr.y += h
	}

	pr.reserve(math.Min(total, heights[0]))
	start, first := 0, true
	for start < len(data.Rows) {
		var prefix []model.TableRow
		var used float64
		if !first && headerRows > 0 && start >= headerRows {
			prefix = data.Rows[:headerRows]
			used = headerHeight
		}
		avail := pr.usableHeight() - pr.y - used
		end := start
		for end < len(data.Rows) && heights[end] <= avail {
			avail -= heights[end]
			used += heights[end]
			end++
		}
		if end == start {
			if !pr.page.IsEmpty() {
				pr.startPage()
				first = false
				continue
			}
			used += heights[end]
			end++
		}
		rows := append(append([]model.TableRow(nil), prefix...), data.Rows[start:end]...)
		emit(rows, used)
		start = end
		if start < len(data.Rows) {
			pr.startPage()
			first = false
		}
	}
	pr.y += pr.opts.SpacingAfterMM
}

func countParagraphs(t *docx.Table) int {
	n := 0
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			n += len(cell.Paragraphs)
			for _, nested := range cell.Tables {
				n += countParagraphs(nested)
			}
		}
	}
	return n
}

// fit scales w×h down to the content area, keeping the aspect ratio.
func (pr *projection) fit(w, h float64) (float64, float64) {
	maxW, maxH := pr.contentWidth(), pr.usableHeight()
	if w > maxW && w > 0 {
		h *= maxW / w
		w = maxW
	}
	if h > maxH && h > 0 {
		w *= maxH / h
		h = maxH
	}
	return w, h
}

func (pr *projection) image(img *docx.Image) {
	c := pr.newComponent(model.ComponentImage)
	pr.imageProps(c, img)
	w, h := pr.fit(img.WidthMM, img.HeightMM)
	c.WidthMM, c.HeightMM = w, h

	if img.Position != docx.PositionAnchor {
		y := pr.reserve(h)
		c.XMM, c.YMM = pr.left(), pr.top()+y
		pr.add(c)
		pr.y = y + h + pr.opts.SpacingAfterMM
		return
	}

	if img.BehindText {
		c.ZIndex = 0
	}
	pr.reserve(0)
	c.XMM = pr.anchorX(img.RelativeFromH, img.AlignH, img.XMM, w)
	c.YMM = pr.anchorY(img.RelativeFromV, img.AlignV, img.YMM, h)
	pr.add(c)
	if img.Wrap == "topAndBottom" && !img.BehindText {
		pr.y = math.Max(pr.y, c.YMM-pr.top()+h)
	}
}

// anchorX resolves a horizontal anchor offset to a page X.
func (pr *projection) anchorX(relative, align string, offset, w float64) float64 {
	origin, span := pr.left(), pr.contentWidth()
	if relative == "page" && !pr.band {
		origin, span = 0, pr.settings.WidthMM
	}
	switch align {
	case "center":
		return origin + (span-w)/2
	case "right", "outside":
		return origin + span - w
	case "left", "inside":
		return origin
	}
	return origin + offset
}

// anchorY resolves a vertical anchor offset to a page Y. Paragraph and
// line anchors are relative to the cursor.
func (pr *projection) anchorY(relative, align string, offset, h float64) float64 {
	var origin, span float64
	switch relative {
	case "page":
		origin, span = 0, pr.settings.HeightMM
		if pr.band {
			origin, span = 0, h
		}
	case "margin", "topMargin", "bottomMargin":
		origin, span = pr.top(), pr.settings.UsableHeightMM()
	default:
		origin, span = pr.top()+pr.y, h
	}
	switch align {
	case "center":
		return origin + (span-h)/2
	case "bottom", "outside":
		return origin + span - h
	case "top", "inside":
		return origin
	}
	return math.Max(origin+offset, 0)
}

func (pr *projection) shape(s *docx.Shape) {
	if s.Image != nil && len(s.Paragraphs) == 0 {
		img := *s.Image
		if img.WidthMM == 0 {
			img.WidthMM, img.HeightMM = s.WidthMM, s.HeightMM
		}
		pr.image(&img)
		return
	}

	c := pr.newComponent(shapeType(s))
	pr.shapeProps(c, s)
	w, h := s.WidthMM, s.HeightMM
	if w <= 0 {
		w = pr.contentWidth()
	}
	if h <= 0 && len(s.Paragraphs) > 0 {
		h = EstimateParagraphHeightMM(s.Text(), pr.opts.DefaultFontSizePt, w, pr.opts.LineHeightFactor)
	}
	c.WidthMM, c.HeightMM = w, h

	if s.XMM == 0 && s.YMM == 0 && !s.BehindText {
		y := pr.reserve(h)
		c.XMM, c.YMM = pr.left(), pr.top()+y
		pr.add(c)
		pr.y = y + h + pr.opts.SpacingAfterMM
		return
	}
	if s.BehindText {
		c.ZIndex = 0
	}
	pr.reserve(0)
	c.XMM = pr.left() + s.XMM
	c.YMM = math.Max(pr.top()+pr.y+s.YMM, 0)
	pr.add(c)
}

func (pr *projection) equation(e *docx.Equation) {
	font := pr.opts.DefaultFontSizePt
	width := pr.contentWidth()
	h := EstimateParagraphHeightMM(e.PlainText, font, width, pr.opts.LineHeightFactor*1.5)
	y := pr.reserve(h)

	c := pr.newComponent(model.ComponentEquation)
	c.Set(model.PropLaTeX, e.LaTeX).
		Set(model.PropContent, e.PlainText).
		Set(model.PropDisplay, e.Display).
		Set(model.PropFontSize, font).
		Set(model.PropAlignment, "center")
	c.XMM, c.YMM = pr.left(), pr.top()+y
	c.WidthMM, c.HeightMM = width, h
	pr.add(c)
	pr.y = y + h + pr.opts.SpacingAfterMM
}

func (pr *projection) chart(ch *docx.Chart) {
	w, h := ch.WidthMM, ch.HeightMM
	if w <= 0 || h <= 0 {
		w, h = defaultChartWidthMM, defaultChartHeightMM
	}
	w, h = pr.fit(w, h)
	y := pr.reserve(h)

	data := model.ChartData{Type: ch.Type, Title: ch.Title}
	for _, s := range ch.Series {
		data.Series = append(data.Series, model.ChartSeries{
			Name:       s.Name,
			Categories: s.Categories,
			Values:     s.Values,
			Color:      s.Color,
		})
	}
	c := pr.newComponent(model.ComponentChart)
	c.Set(model.PropChart, data)
	c.XMM, c.YMM = pr.left(), pr.top()+y
	c.WidthMM, c.HeightMM = w, h
	pr.add(c)
	pr.y = y + h + pr.opts.SpacingAfterMM
}

func (pr *projection) smartArt(sa *docx.SmartArt) {
	w, h := sa.WidthMM, sa.HeightMM
	if w <= 0 || h <= 0 {
		w, h = defaultChartWidthMM, defaultChartHeightMM
	}
	w, h = pr.fit(w, h)
	y := pr.reserve(h)

	nodes := make([]model.DiagramNode, 0, len(sa.Nodes))
	lines := make([]string, 0, len(sa.Nodes))
	for _, n := range sa.Nodes {
		nodes = append(nodes, model.DiagramNode{Text: n.Text, Level: n.Level})
		lines = append(lines, strings.Repeat("  ", n.Level)+n.Text)
	}
	c := pr.newComponent(model.ComponentShape)
	c.Set(model.PropShapeKind, "smartart").
		Set(model.PropNodes, nodes).
		Set(model.PropContent, strings.Join(lines, "\n"))
	c.XMM, c.YMM = pr.left(), pr.top()+y
	c.WidthMM, c.HeightMM = w, h
	pr.add(c)
	pr.y = y + h + pr.opts.SpacingAfterMM
}

// notes appends footnotes and endnotes below a short separator rule.
func (pr *projection) notes(groups ...[]*docx.Note) {
	var all []*docx.Note
	for _, g := range groups {
		all = append(all, g...)
	}
	if len(all) == 0 {
		return
	}

	y := pr.reserve(pr.opts.SpacingAfterMM)
	rule := pr.newComponent(model.ComponentLine)
	rule.Set(model.PropStroke, "#000000").Set(model.PropStrokeWidth, 0.5)
	rule.XMM, rule.YMM = pr.left(), pr.top()+y
	rule.WidthMM = math.Min(noteSeparatorMM, pr.contentWidth())
	pr.add(rule)
	pr.y = y + pr.opts.SpacingAfterMM

	width := pr.contentWidth()
	lineH := lineHeightMM(docx.ParagraphStyle{}, noteFontSizePt, pr.opts.LineHeightFactor)
	for _, n := range all {
		text := strings.TrimSpace(n.ReferenceMarker + " " + n.Text())
		h := float64(EstimateLines(text, charsPerLine(width, noteFontSizePt, pr.opts.AverageCharWidth))) * lineH
		y := pr.reserve(h)
		c := pr.newComponent(model.ComponentText)
		c.Set(model.PropContent, text).Set(model.PropFontSize, noteFontSizePt)
		c.XMM, c.YMM = pr.left(), pr.top()+y
		c.WidthMM, c.HeightMM = width, h
		pr.add(c)
		pr.y = y + h
	}
}

func pageSettings(ps docx.PageSettings) model.PageSettings {
	return model.PageSettings{
		WidthMM:     ps.WidthMM,
		HeightMM:    ps.HeightMM,
		Orientation: ps.Orientation,
		PaperName:   ps.PaperName,
		Margins: model.Margins{
			Top:    ps.Margins.TopMM,
			Bottom: ps.Margins.BottomMM,
			Left:   ps.Margins.LeftMM,
			Right:  ps.Margins.RightMM,
			Header: ps.Margins.HeaderMM,
			Footer: ps.Margins.FooterMM,
		},
	}
}

func metadata(cp docx.CoreProperties) model.Metadata {
	m := model.Metadata{
		Title:       cp.Title,
		Author:      cp.Author,
		Subject:     cp.Subject,
		Keywords:    cp.Keywords,
		Description: cp.Description,
		Language:    cp.Language,
		Custom:      make(map[string]string),
	}
	m.Created, _ = time.Parse(time.RFC3339, cp.Created)
	m.Modified, _ = time.Parse(time.RFC3339, cp.Modified)
	for k, v := range map[string]string{
		"application":    cp.Application,
		"company":        cp.Company,
		"template":       cp.Template,
		"category":       cp.Category,
		"lastModifiedBy": cp.LastModifiedBy,
		"revision":       cp.Revision,
	} {
		if v != "" {
			m.Custom[k] = v
		}
	}
	return m
}
