package layout

import (
	"encoding/base64"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// Placeholders written into page-number components.
const (
	PageNumberPlaceholder = "{{pageNumber}}"
	TotalPagesPlaceholder = "{{totalPages}}"
)

// visibleRun reports whether a run contributes text to the page.
func visibleRun(r docx.TextRun) bool {
	if r.Style.Hidden {
		return false
	}
	return r.Revision == nil || r.Revision.Type != "delete"
}

func span(r docx.TextRun) model.TextSpan {
	text := r.Text
	if r.Style.AllCaps {
		text = strings.ToUpper(text)
	}
	return model.TextSpan{
		Text:          text,
		FontFamily:    r.Style.FontFamily,
		FontSizePt:    r.Style.FontSizePt,
		Bold:          r.Style.Bold,
		Italic:        r.Style.Italic,
		Underline:     r.Style.Underline,
		Strike:        r.Style.Strike || r.Style.DoubleStrike,
		Color:         r.Style.Color,
		Highlight:     r.Style.Highlight,
		VerticalAlign: r.Style.VerticalAlign,
		Hyperlink:     r.Hyperlink,
	}
}

// textSpans converts the visible runs and returns them with their joined
// text.
func textSpans(runs []docx.TextRun) ([]model.TextSpan, string) {
	spans := make([]model.TextSpan, 0, len(runs))
	var sb strings.Builder
	for _, r := range runs {
		if !visibleRun(r) || r.Text == "" {
			continue
		}
		s := span(r)
		spans = append(spans, s)
		sb.WriteString(s.Text)
	}
	return spans, sb.String()
}

// fontSize returns the largest run font size, or def.
func fontSize(runs []docx.TextRun, def float64) float64 {
	size := 0.0
	for _, r := range runs {
		if visibleRun(r) && r.Text != "" && r.Style.FontSizePt > size {
			size = r.Style.FontSizePt
		}
	}
	if size == 0 {
		return def
	}
	return size
}

// leadRun returns the first visible run with text.
func leadRun(runs []docx.TextRun) docx.TextRun {
	for _, r := range runs {
		if visibleRun(r) && strings.TrimSpace(r.Text) != "" {
			return r
		}
	}
	return docx.TextRun{}
}

// pageNumberFormat returns the paragraph text with page fields replaced by
// placeholders, and whether any page field was found.
func pageNumberFormat(runs []docx.TextRun) (string, bool) {
	var sb strings.Builder
	found := false
	lastCode := ""
	for _, r := range runs {
		if !visibleRun(r) {
			continue
		}
		switch r.FieldCode {
		case "PAGE":
			if lastCode != "PAGE" {
				sb.WriteString(PageNumberPlaceholder)
			}
			found = true
		case "NUMPAGES", "SECTIONPAGES":
			if lastCode != r.FieldCode {
				sb.WriteString(TotalPagesPlaceholder)
			}
			found = true
		default:
			sb.WriteString(r.Text)
		}
		lastCode = r.FieldCode
	}
	return sb.String(), found
}

func (pr *projection) textComponent(p *docx.Paragraph, spans []model.TextSpan, font, lineH float64) *model.Component {
	t := model.ComponentText
	switch {
	case p.List != nil:
		t = model.ComponentListItem
	case p.Style.HeadingLevel > 0:
		t = model.ComponentHeading
	}
	format, isPageNumber := pageNumberFormat(p.Runs)
	if isPageNumber {
		t = model.ComponentPageNumber
	}

	c := pr.newComponent(t)
	lead := leadRun(p.Runs)
	content := joinSpans(spans)
	if isPageNumber {
		content = format
		c.Set(model.PropFormat, format)
	}
	alignment := p.Style.Alignment
	if alignment == "" {
		alignment = "left"
	}
	c.Set(model.PropContent, content).
		Set(model.PropRuns, spans).
		Set(model.PropFontFamily, lead.Style.FontFamily).
		Set(model.PropFontSize, font).
		Set(model.PropColor, colorOr(lead.Style.Color, "#000000")).
		Set(model.PropBold, lead.Style.Bold).
		Set(model.PropItalic, lead.Style.Italic).
		Set(model.PropUnderline, lead.Style.Underline).
		Set(model.PropAlignment, alignment).
		Set(model.PropLineHeight, units.Round(lineH/units.PointsToMM(font), 3))
	if p.Style.ShadingColor != "" {
		c.Set(model.PropBackground, p.Style.ShadingColor)
	}

	switch t {
	case model.ComponentHeading:
		c.Set(model.PropLevel, p.Style.HeadingLevel)
	case model.ComponentListItem:
		c.Set(model.PropMarker, p.List.Marker).
			Set(model.PropLevel, p.List.Level).
			Set(model.PropIndent, p.List.HangingMM)
	}
	return c
}

func joinSpans(spans []model.TextSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func colorOr(c, def string) string {
	if c == "" {
		return def
	}
	return c
}

func (pr *projection) formField(f *docx.FormField) *model.Component {
	c := pr.newComponent(model.ComponentFormField)
	c.Set(model.PropField, model.FormFieldData{
		Kind:        f.Type,
		Name:        f.Name,
		Value:       f.Value,
		Checked:     f.Checked,
		Options:     f.Options,
		MaxLength:   f.MaxLength,
		Placeholder: f.Placeholder,
	})
	c.Set(model.PropContent, f.Value)
	return c
}

// tableData converts a table. Column widths fall back to an even split of
// the content width when the grid is missing or does not cover every
// column.
func (pr *projection) tableData(t *docx.Table, heights []float64) *model.TableData {
	data := &model.TableData{
		Rows:           make([]model.TableRow, len(t.Rows)),
		ColumnWidthsMM: append([]float64(nil), t.ColumnWidthsMM...),
	}
	if b := t.Borders.Top; b != nil {
		data.BorderColor = b.Color
		data.BorderWidthPt = b.WidthPt
	} else if b := t.Borders.InsideH; b != nil {
		data.BorderColor = b.Color
		data.BorderWidthPt = b.WidthPt
	}

	for i, row := range t.Rows {
		out := model.TableRow{HeightMM: heights[i], IsHeader: row.IsHeader}
		for _, cell := range row.Cells {
			out.Cells = append(out.Cells, tableCell(cell))
		}
		data.Rows[i] = out
	}

	cols := data.ColCount()
	if len(data.ColumnWidthsMM) < cols {
		total := t.WidthMM
		if total <= 0 {
			total = pr.contentWidth()
		}
		data.ColumnWidthsMM = make([]float64, cols)
		for i := range data.ColumnWidthsMM {
			data.ColumnWidthsMM[i] = total / float64(cols)
		}
	}
	return data
}

func tableCell(cell docx.TableCell) model.TableCell {
	out := model.TableCell{
		ColSpan:       max(cell.ColSpan, 1),
		RowSpan:       max(cell.RowSpan, 1),
		Merged:        cell.IsMergedContinuation,
		WidthMM:       cell.WidthMM,
		Background:    cell.Background,
		VerticalAlign: cell.VerticalAlign,
	}
	var texts []string
	for i, p := range cell.Paragraphs {
		spans, text := textSpans(p.Runs)
		if p.List != nil && p.List.Marker != "" {
			text = p.List.Marker + " " + text
		}
		if i > 0 && len(out.Runs) > 0 {
			out.Runs = append(out.Runs, model.TextSpan{Text: "\n"})
		}
		out.Runs = append(out.Runs, spans...)
		texts = append(texts, text)
		if i == 0 {
			out.Alignment = p.Style.Alignment
		}
	}
	for _, nested := range cell.Tables {
		texts = append(texts, nested.ToText())
	}
	out.Text = strings.TrimRight(strings.Join(texts, "\n"), "\n")
	return out
}

func (pr *projection) imageProps(c *model.Component, img *docx.Image) {
	c.Set(model.PropContentType, img.ContentType).
		Set(model.PropAltText, img.AltText).
		Set(model.PropWrap, img.Wrap).
		Set(model.PropBehindText, img.BehindText)
	if pr.opts.EmbedImages && len(img.Data) > 0 {
		c.Set(model.PropSrc, DataURI(img.ContentType, img.Data))
	}
}

// DataURI encodes data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func shapeType(s *docx.Shape) model.ComponentType {
	switch {
	case s.Kind == "textbox" || len(s.Paragraphs) > 0:
		return model.ComponentTextBox
	case s.Kind == "line":
		return model.ComponentLine
	}
	return model.ComponentShape
}

func (pr *projection) shapeProps(c *model.Component, s *docx.Shape) {
	c.Set(model.PropShapeKind, s.Kind)
	if s.FillColor != "" {
		c.Set(model.PropFill, s.FillColor)
	}
	if s.StrokeColor != "" {
		c.Set(model.PropStroke, s.StrokeColor)
	}
	if s.StrokeWidthPt > 0 {
		c.Set(model.PropStrokeWidth, s.StrokeWidthPt)
	}
	if s.Rotation != 0 {
		c.Set(model.PropRotation, s.Rotation)
	}
	if s.Opacity > 0 {
		c.Set(model.PropOpacity, s.Opacity)
	}

	var spans []model.TextSpan
	var lines []string
	for _, p := range allShapeParagraphs(s) {
		ps, text := textSpans(p.Runs)
		if len(spans) > 0 {
			spans = append(spans, model.TextSpan{Text: "\n"})
		}
		spans = append(spans, ps...)
		lines = append(lines, text)
	}
	if len(lines) > 0 {
		c.Set(model.PropContent, strings.Join(lines, "\n")).
			Set(model.PropRuns, spans).
			Set(model.PropFontSize, pr.opts.DefaultFontSizePt)
	}
}

func allShapeParagraphs(s *docx.Shape) []*docx.Paragraph {
	out := append([]*docx.Paragraph(nil), s.Paragraphs...)
	for _, child := range s.Children {
		out = append(out, allShapeParagraphs(child)...)
	}
	return out
}
