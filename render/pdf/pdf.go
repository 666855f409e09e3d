// Package pdf is the reference PDF renderer for editor documents, drawn
// with github.com/tdewolff/canvas. It places every component at its
// projected position; text is wrapped greedily inside the component box.
package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	canvaspdf "github.com/tdewolff/canvas/renderers/pdf"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

const (
	hairlineMM      = 0.2
	defaultFontSize = 11.0
)

// ErrNoFont is returned when neither the configured font nor any system
// fallback could be loaded.
var ErrNoFont = errors.New("pdf: no usable font")

// fallbackFonts are tried in order when no font file is configured.
var fallbackFonts = []string{"Arial", "Helvetica", "Liberation Sans", "DejaVu Sans", "Noto Sans"}

// Options configures the renderer.
type Options struct {
	// FontPath is a TrueType or OpenType file used for all text.
	FontPath string
	// FontFamily is a system font name tried before the built-in fallbacks.
	FontFamily string
}

// Renderer renders documents to PDF. It is safe for concurrent use.
type Renderer struct {
	opts Options

	once   sync.Once
	family *canvas.FontFamily
	err    error
}

var _ render.PDFRenderer = (*Renderer)(nil)

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render draws doc into a PDF.
func (r *Renderer) Render(doc *model.Document, b render.Bindings) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, errors.New("pdf: document has no pages")
	}
	family, err := r.fontFamily()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	first := doc.Pages[0]
	writer := canvaspdf.New(&buf, first.WidthMM, first.HeightMM, nil)
	m := doc.Metadata
	writer.SetInfo(m.Title, m.Subject, strings.Join(m.Keywords, ", "), m.Author, "folio")

	total := len(doc.Pages)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.WidthMM, page.HeightMM)
		}
		c := canvas.New(page.WidthMM, page.HeightMM)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)

		d := &drawer{ctx: ctx, family: family, bindings: b, page: i + 1, total: total}
		for _, p := range render.PageLayers(doc, i) {
			d.draw(p)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("pdf: writing document: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFamily() (*canvas.FontFamily, error) {
	r.once.Do(func() {
		family := canvas.NewFontFamily("folio")
		if r.opts.FontPath != "" {
			data, err := os.ReadFile(r.opts.FontPath)
			if err != nil {
				r.err = fmt.Errorf("pdf: reading font: %w", err)
				return
			}
			if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
				r.err = fmt.Errorf("pdf: loading font %s: %w", r.opts.FontPath, err)
				return
			}
			r.family = family
			return
		}
		names := fallbackFonts
		if r.opts.FontFamily != "" {
			names = append([]string{r.opts.FontFamily}, names...)
		}
		for _, name := range names {
			if err := family.LoadSystemFont(name, canvas.FontRegular); err == nil {
				r.family = family
				return
			}
		}
		r.err = ErrNoFont
	})
	return r.family, r.err
}

type drawer struct {
	ctx      *canvas.Context
	family   *canvas.FontFamily
	bindings render.Bindings
	page     int
	total    int
}

func (d *drawer) draw(p render.Placed) {
	c := p.Component
	if bg := c.String(model.PropBackground); bg != "" {
		d.ctx.SetFillColor(hexColor(bg, color.White))
		d.ctx.SetStrokeColor(canvas.Transparent)
		d.ctx.DrawPath(p.X, p.Y, canvas.Rectangle(c.WidthMM, c.HeightMM))
	}

	switch c.Type {
	case model.ComponentImage:
		d.image(p)
	case model.ComponentTable:
		d.table(p)
	case model.ComponentLine:
		d.line(p)
	case model.ComponentShape, model.ComponentTextBox:
		d.shape(p)
		d.text(p.X, p.Y, c.WidthMM, c, d.bindings.Text(c, d.page, d.total))
	case model.ComponentFormField:
		d.formField(p)
	default:
		d.text(p.X, p.Y, c.WidthMM, c, d.bindings.Text(c, d.page, d.total))
	}
}

func (d *drawer) face(c *model.Component, sizePt float64) *canvas.FontFace {
	if sizePt <= 0 {
		sizePt = defaultFontSize
	}
	col := hexColor(c.String(model.PropColor), color.Black)
	if op := c.Float(model.PropOpacity); op > 0 && op < 1 {
		r, g, b, _ := col.RGBA()
		col = canvas.RGBA(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, op)
	}
	return d.family.Face(sizePt, col, canvas.FontRegular, canvas.FontNormal)
}

// text draws s wrapped to width with its top-left corner at (x, y).
func (d *drawer) text(x, y, width float64, c *model.Component, s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	face := d.face(c, c.Float(model.PropFontSize))
	lineH := face.Metrics().LineHeight
	if f := c.Float(model.PropLineHeight); f > 0 {
		lineH = units.PointsToMM(c.Float(model.PropFontSize)) * f
	}

	align, anchor := canvas.Left, x
	switch c.String(model.PropAlignment) {
	case "center":
		align, anchor = canvas.Center, x+width/2
	case "right":
		align, anchor = canvas.Right, x+width
	}

	cursor := y
	for _, line := range wrap(s, width, face) {
		d.ctx.DrawText(anchor, cursor+face.Metrics().Ascent, canvas.NewTextLine(face, line, align))
		cursor += lineH
	}
}

func (d *drawer) image(p render.Placed) {
	img, err := decodeDataURI(p.String(model.PropSrc))
	if err != nil || p.WidthMM <= 0 {
		d.placeholderBox(p)
		return
	}
	dpmm := float64(img.Bounds().Dx()) / p.WidthMM
	if dpmm <= 0 {
		dpmm = 1
	}
	d.ctx.DrawImage(p.X, p.Y, img, canvas.DPMM(dpmm))
}

func (d *drawer) placeholderBox(p render.Placed) {
	d.ctx.SetFillColor(canvas.Transparent)
	d.ctx.SetStrokeColor(canvas.Lightgray)
	d.ctx.SetStrokeWidth(hairlineMM)
	d.ctx.DrawPath(p.X, p.Y, canvas.Rectangle(p.WidthMM, p.HeightMM))
}

func (d *drawer) line(p render.Placed) {
	w := units.PointsToMM(p.Float(model.PropStrokeWidth))
	if w <= 0 {
		w = hairlineMM
	}
	d.ctx.SetStrokeColor(hexColor(p.String(model.PropStroke), color.Black))
	d.ctx.SetStrokeWidth(w)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(p.WidthMM, p.HeightMM)
	d.ctx.DrawPath(p.X, p.Y, path)
}

func (d *drawer) shape(p render.Placed) {
	fill := p.String(model.PropFill)
	stroke := p.String(model.PropStroke)
	if fill == "" && stroke == "" {
		return
	}
	d.ctx.SetFillColor(hexColor(fill, canvas.Transparent))
	d.ctx.SetStrokeColor(hexColor(stroke, canvas.Transparent))
	d.ctx.SetStrokeWidth(max(units.PointsToMM(p.Float(model.PropStrokeWidth)), hairlineMM))
	path := canvas.Rectangle(p.WidthMM, p.HeightMM)
	if kind := p.String(model.PropShapeKind); kind == "ellipse" || kind == "oval" {
		path = canvas.Ellipse(p.WidthMM/2, p.HeightMM/2).Translate(p.WidthMM/2, p.HeightMM/2)
	}
	d.ctx.DrawPath(p.X, p.Y, path)
}

func (d *drawer) formField(p render.Placed) {
	data, _ := p.Properties[model.PropField].(model.FormFieldData)
	switch data.Kind {
	case "checkbox":
		size := min(p.HeightMM, 4.0)
		d.ctx.SetFillColor(canvas.Transparent)
		d.ctx.SetStrokeColor(color.Black)
		d.ctx.SetStrokeWidth(hairlineMM)
		d.ctx.DrawPath(p.X+p.WidthMM-size, p.Y, canvas.Rectangle(size, size))
		if data.Checked {
			check := &canvas.Path{}
			check.MoveTo(0, 0)
			check.LineTo(size, size)
			check.MoveTo(size, 0)
			check.LineTo(0, size)
			d.ctx.DrawPath(p.X+p.WidthMM-size, p.Y, check)
		}
	default:
		d.ctx.SetStrokeColor(canvas.Gray)
		d.ctx.SetStrokeWidth(hairlineMM)
		path := &canvas.Path{}
		path.MoveTo(0, 0)
		path.LineTo(p.WidthMM, 0)
		d.ctx.DrawPath(p.X, p.Y+p.HeightMM, path)
	}
}

func (d *drawer) table(p render.Placed) {
	t := p.Table()
	if t == nil || len(t.ColumnWidthsMM) == 0 {
		return
	}
	borderWidth := units.PointsToMM(t.BorderWidthPt)
	if borderWidth <= 0 {
		borderWidth = hairlineMM
	}
	border := hexColor(t.BorderColor, color.Black)

	y := p.Y
	for _, row := range t.Rows {
		x, col := p.X, 0
		for _, cell := range row.Cells {
			span := max(cell.ColSpan, 1)
			width := 0.0
			for i := col; i < col+span && i < len(t.ColumnWidthsMM); i++ {
				width += t.ColumnWidthsMM[i]
			}
			fill := hexColor(cell.Background, canvas.Transparent)
			if row.IsHeader && cell.Background == "" {
				fill = canvas.Hex("#f8f8f8")
			}
			d.ctx.SetFillColor(fill)
			d.ctx.SetStrokeColor(border)
			d.ctx.SetStrokeWidth(borderWidth)
			d.ctx.DrawPath(x, y, canvas.Rectangle(width, row.HeightMM))
			if !cell.Merged {
				tc := model.NewComponent("", model.ComponentText).
					Set(model.PropAlignment, cell.Alignment).
					Set(model.PropFontSize, defaultFontSize).
					Set(model.PropColor, "#000000")
				d.text(x+1, y+1, width-2, tc, d.bindings.Resolve(cell.Text, d.page, d.total))
			}
			x += width
			col += span
		}
		y += row.HeightMM
	}
}

// wrap breaks s into lines no wider than width, splitting at spaces and
// inside words that do not fit on their own.
func wrap(s string, width float64, face *canvas.FontFace) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var cur strings.Builder
		for _, tok := range tokenize(para) {
			if cur.Len() > 0 && face.TextWidth(cur.String()+tok) > width {
				lines = append(lines, strings.TrimRight(cur.String(), " "))
				cur.Reset()
				tok = strings.TrimLeft(tok, " ")
			}
			for width > 0 && face.TextWidth(tok) > width && len([]rune(tok)) > 1 {
				runes := []rune(tok)
				n := len(runes) - 1
				for n > 1 && face.TextWidth(string(runes[:n])) > width {
					n--
				}
				lines = append(lines, string(runes[:n]))
				tok = string(runes[n:])
			}
			cur.WriteString(tok)
		}
		lines = append(lines, strings.TrimRight(cur.String(), " "))
	}
	return lines
}

// tokenize splits s into alternating runs of spaces and non-spaces.
func tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	prevSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > 0 && space != prevSpace {
			out = append(out, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		prevSpace = space
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func decodeDataURI(src string) (image.Image, error) {
	_, payload, ok := strings.Cut(src, ";base64,")
	if !ok {
		return nil, errors.New("pdf: image is not an embedded data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func hexColor(hex string, def color.Color) color.Color {
	if r, g, b, ok := units.RGB(hex); ok {
		return color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return def
}
