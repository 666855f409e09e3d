// Package html exports editor documents as a static HTML page. Each page
// is a fixed-size box and every component is an absolutely positioned
// element sized in millimetres.
package html

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render"
)

const stylesheet = `body{margin:0;background:#e5e5e5;font-family:sans-serif}
.page{position:relative;overflow:hidden;background:#fff;margin:8mm auto;box-shadow:0 0 2mm rgba(0,0,0,.2)}
.c{position:absolute;box-sizing:border-box;white-space:pre-wrap;overflow:hidden}
.c table{border-collapse:collapse;width:100%;table-layout:fixed}
.c td,.c th{border:1px solid #000;padding:0 1mm;vertical-align:top}`

// Exporter renders documents to HTML.
type Exporter struct {
	// Title overrides the document title in the head element.
	Title string
}

var _ render.HTMLExporter = (*Exporter)(nil)

// New creates an exporter.
func New() *Exporter {
	return &Exporter{}
}

// Export renders doc.
func (e *Exporter) Export(doc *model.Document, b render.Bindings) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("html: nil document")
	}
	root := e.Build(doc, b)
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("html: rendering: %w", err)
	}
	return buf.Bytes(), nil
}

// Build returns the document node tree Export serializes.
func (e *Exporter) Build(doc *model.Document, b render.Bindings) *html.Node {
	title := e.Title
	if title == "" {
		title = doc.Metadata.Title
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	htmlEl := element(atom.Html)
	if doc.Metadata.Language != "" {
		setAttr(htmlEl, "lang", doc.Metadata.Language)
	}
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	meta := element(atom.Meta)
	setAttr(meta, "charset", "utf-8")
	head.AppendChild(meta)
	titleEl := element(atom.Title)
	titleEl.AppendChild(text(title))
	head.AppendChild(titleEl)
	style := element(atom.Style)
	style.AppendChild(text(stylesheet))
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	htmlEl.AppendChild(body)
	total := len(doc.Pages)
	for i, page := range doc.Pages {
		div := element(atom.Div)
		setAttr(div, "class", "page")
		setAttr(div, "data-page", strconv.Itoa(i+1))
		setAttr(div, "style", fmt.Sprintf("width:%smm;height:%smm", mm(page.WidthMM), mm(page.HeightMM)))
		for _, p := range render.PageLayers(doc, i) {
			div.AppendChild(component(p, b, i+1, total))
		}
		body.AppendChild(div)
	}
	return root
}

func component(p render.Placed, b render.Bindings, page, total int) *html.Node {
	c := p.Component
	div := element(atom.Div)
	setAttr(div, "class", "c")
	setAttr(div, "data-type", string(c.Type))
	if c.ID != "" {
		setAttr(div, "id", c.ID)
	}
	setAttr(div, "style", boxStyle(p))

	switch c.Type {
	case model.ComponentImage:
		if src := c.String(model.PropSrc); src != "" {
			img := element(atom.Img)
			setAttr(img, "src", src)
			setAttr(img, "alt", c.String(model.PropAltText))
			setAttr(img, "style", "width:100%;height:100%")
			div.AppendChild(img)
		}
	case model.ComponentTable:
		if t := c.Table(); t != nil {
			div.AppendChild(table(t, b, page, total))
		}
	case model.ComponentLine:
	case model.ComponentFormField:
		div.AppendChild(formField(c))
	default:
		appendText(div, c, b.Text(c, page, total))
	}
	return div
}

func boxStyle(p render.Placed) string {
	c := p.Component
	var sb strings.Builder
	fmt.Fprintf(&sb, "left:%smm;top:%smm;width:%smm;", mm(p.X), mm(p.Y), mm(c.WidthMM))
	if c.HeightMM > 0 {
		fmt.Fprintf(&sb, "height:%smm;", mm(c.HeightMM))
	}
	fmt.Fprintf(&sb, "z-index:%d;", c.ZIndex)
	if v := c.String(model.PropFontFamily); v != "" {
		fmt.Fprintf(&sb, "font-family:'%s';", strings.ReplaceAll(v, "'", ""))
	}
	if v := c.Float(model.PropFontSize); v > 0 {
		fmt.Fprintf(&sb, "font-size:%spt;", mm(v))
	}
	if v := c.Float(model.PropLineHeight); v > 0 {
		fmt.Fprintf(&sb, "line-height:%s;", mm(v))
	}
	if v := c.String(model.PropColor); v != "" {
		fmt.Fprintf(&sb, "color:%s;", v)
	}
	if v := c.String(model.PropBackground); v != "" {
		fmt.Fprintf(&sb, "background:%s;", v)
	}
	if v := c.String(model.PropFill); v != "" {
		fmt.Fprintf(&sb, "background:%s;", v)
	}
	if v := c.String(model.PropStroke); v != "" {
		w := c.Float(model.PropStrokeWidth)
		if w <= 0 {
			w = 0.75
		}
		side := "border"
		if c.Type == model.ComponentLine {
			side = "border-top"
		}
		fmt.Fprintf(&sb, "%s:%spt solid %s;", side, mm(w), v)
	}
	if v := c.String(model.PropAlignment); v != "" && v != "left" {
		fmt.Fprintf(&sb, "text-align:%s;", v)
	}
	if c.Bool(model.PropBold) {
		sb.WriteString("font-weight:bold;")
	}
	if c.Bool(model.PropItalic) {
		sb.WriteString("font-style:italic;")
	}
	if c.Bool(model.PropUnderline) {
		sb.WriteString("text-decoration:underline;")
	}
	if v := c.Float(model.PropRotation); v != 0 {
		fmt.Fprintf(&sb, "transform:rotate(%sdeg);", mm(v))
	}
	if v := c.Float(model.PropOpacity); v > 0 && v < 1 {
		fmt.Fprintf(&sb, "opacity:%s;", mm(v))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// appendText adds s, keeping the span formatting of c when the text was
// not changed by substitution.
func appendText(parent *html.Node, c *model.Component, s string) {
	runs := c.Runs()
	if len(runs) <= 1 || joinRuns(runs) != s {
		parent.AppendChild(text(s))
		return
	}
	for _, r := range runs {
		parent.AppendChild(span(r))
	}
}

func joinRuns(runs []model.TextSpan) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func span(r model.TextSpan) *html.Node {
	var style []string
	if r.Bold {
		style = append(style, "font-weight:bold")
	}
	if r.Italic {
		style = append(style, "font-style:italic")
	}
	var deco []string
	if r.Underline {
		deco = append(deco, "underline")
	}
	if r.Strike {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		style = append(style, "text-decoration:"+strings.Join(deco, " "))
	}
	if r.Color != "" {
		style = append(style, "color:"+r.Color)
	}
	if r.Highlight != "" {
		style = append(style, "background:"+r.Highlight)
	}
	if r.FontSizePt > 0 {
		style = append(style, "font-size:"+mm(r.FontSizePt)+"pt")
	}

	tag := atom.Span
	switch r.VerticalAlign {
	case "superscript":
		tag = atom.Sup
	case "subscript":
		tag = atom.Sub
	}
	n := element(tag)
	if len(style) > 0 {
		setAttr(n, "style", strings.Join(style, ";"))
	}
	if r.Hyperlink != "" {
		a := element(atom.A)
		setAttr(a, "href", r.Hyperlink)
		a.AppendChild(text(r.Text))
		n.AppendChild(a)
		return n
	}
	n.AppendChild(text(r.Text))
	return n
}

func table(t *model.TableData, b render.Bindings, page, total int) *html.Node {
	tbl := element(atom.Table)
	if len(t.ColumnWidthsMM) > 0 {
		cg := element(atom.Colgroup)
		for _, w := range t.ColumnWidthsMM {
			col := element(atom.Col)
			setAttr(col, "style", "width:"+mm(w)+"mm")
			cg.AppendChild(col)
		}
		tbl.AppendChild(cg)
	}
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		if row.HeightMM > 0 {
			setAttr(tr, "style", "height:"+mm(row.HeightMM)+"mm")
		}
		for _, cell := range row.Cells {
			if cell.Merged {
				continue
			}
			tag := atom.Td
			if row.IsHeader {
				tag = atom.Th
			}
			td := element(tag)
			if cell.ColSpan > 1 {
				setAttr(td, "colspan", strconv.Itoa(cell.ColSpan))
			}
			if cell.RowSpan > 1 {
				setAttr(td, "rowspan", strconv.Itoa(cell.RowSpan))
			}
			var style []string
			if cell.Background != "" {
				style = append(style, "background:"+cell.Background)
			}
			if cell.Alignment != "" && cell.Alignment != "left" {
				style = append(style, "text-align:"+cell.Alignment)
			}
			if len(style) > 0 {
				setAttr(td, "style", strings.Join(style, ";"))
			}
			td.AppendChild(text(b.Resolve(cell.Text, page, total)))
			tr.AppendChild(td)
		}
		tbl.AppendChild(tr)
	}
	return tbl
}

func formField(c *model.Component) *html.Node {
	data, _ := c.Properties[model.PropField].(model.FormFieldData)
	switch data.Kind {
	case "checkbox":
		in := element(atom.Input)
		setAttr(in, "type", "checkbox")
		setAttr(in, "name", data.Name)
		if data.Checked {
			setAttr(in, "checked", "")
		}
		return in
	case "dropdown":
		sel := element(atom.Select)
		setAttr(sel, "name", data.Name)
		for _, o := range data.Options {
			opt := element(atom.Option)
			if o == data.Value {
				setAttr(opt, "selected", "")
			}
			opt.AppendChild(text(o))
			sel.AppendChild(opt)
		}
		return sel
	}
	in := element(atom.Input)
	setAttr(in, "type", "text")
	setAttr(in, "name", data.Name)
	setAttr(in, "value", data.Value)
	if data.Placeholder != "" {
		setAttr(in, "placeholder", data.Placeholder)
	}
	if data.MaxLength > 0 {
		setAttr(in, "maxlength", strconv.Itoa(data.MaxLength))
	}
	return in
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// mm formats a length without trailing zeros.
func mm(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
