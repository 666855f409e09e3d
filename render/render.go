// Package render defines the interfaces the reference renderers implement
// and the helpers they share: variable bindings and the stacking of header,
// body and footer components on a page.
package render

import (
	"slices"
	"strconv"

	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/template"
)

// DefaultPageNumberFormat is used for page-number components without a
// format of their own.
const DefaultPageNumberFormat = "{{pageNumber}}"

// Bindings supplies values for placeholders at render time.
type Bindings struct {
	Variables        map[string]string
	PageNumberFormat string
}

// PDFRenderer renders an editor document to PDF.
type PDFRenderer interface {
	Render(doc *model.Document, b Bindings) ([]byte, error)
}

// HTMLExporter renders an editor document to an HTML page.
type HTMLExporter interface {
	Export(doc *model.Document, b Bindings) ([]byte, error)
}

// Resolve substitutes variables and the page placeholders in text. Text
// that does not parse as a template is returned unchanged.
func (b Bindings) Resolve(text string, page, total int) string {
	tmpl, err := template.Parse(text)
	if err != nil {
		return text
	}
	values := make(map[string]string, len(b.Variables)+2)
	for k, v := range b.Variables {
		values[k] = v
	}
	values["pageNumber"] = strconv.Itoa(page)
	values["totalPages"] = strconv.Itoa(total)
	return tmpl.Substitute(values)
}

// Text returns the text to draw for c on the 1-based page of total.
func (b Bindings) Text(c *model.Component, page, total int) string {
	text := c.Text()
	if c.Type == model.ComponentPageNumber {
		text = c.String(model.PropFormat)
		if text == "" {
			text = b.PageNumberFormat
		}
		if text == "" {
			text = DefaultPageNumberFormat
		}
	}
	return b.Resolve(text, page, total)
}

// Layer tells where a placed component came from.
type Layer int

const (
	LayerBody Layer = iota
	LayerHeader
	LayerFooter
)

// Placed is a component positioned on a page. Header and footer components
// are shifted from band coordinates to page coordinates.
type Placed struct {
	*model.Component
	Layer Layer
	X, Y  float64
}

// PageLayers returns everything drawn on the page at index, in paint order:
// ascending z-index, with the header before the body and the footer last
// among equal z-indexes.
func PageLayers(doc *model.Document, index int) []Placed {
	page := doc.Page(index)
	if page == nil {
		return nil
	}
	var out []Placed
	margins := doc.PageSettings.Margins
	if hf := doc.HeaderFor(index); hf != nil {
		for _, c := range hf.Components {
			out = append(out, Placed{Component: c, Layer: LayerHeader, X: c.XMM, Y: margins.Header + c.YMM})
		}
	}
	for _, c := range page.Components {
		out = append(out, Placed{Component: c, Layer: LayerBody, X: c.XMM, Y: c.YMM})
	}
	if hf := doc.FooterFor(index); hf != nil {
		top := page.HeightMM - margins.Footer - hf.HeightMM
		for _, c := range hf.Components {
			out = append(out, Placed{Component: c, Layer: LayerFooter, X: c.XMM, Y: top + c.YMM})
		}
	}
	slices.SortStableFunc(out, func(a, b Placed) int {
		return a.ZIndex - b.ZIndex
	})
	return out
}
