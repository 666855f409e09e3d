package model

import "strings"

// Page is one page of an editor document.
type Page struct {
	Index          int                  `json:"index"` // 0-based
	WidthMM        float64              `json:"widthMm"`
	HeightMM       float64              `json:"heightMm"`
	Components     []*Component         `json:"components"`
	HeaderOverride *HeaderFooterContent `json:"headerOverride,omitempty"`
	FooterOverride *HeaderFooterContent `json:"footerOverride,omitempty"`
}

// NewPage creates a new page with given dimensions
func NewPage(widthMM, heightMM float64) *Page {
	return &Page{
		WidthMM:    widthMM,
		HeightMM:   heightMM,
		Components: make([]*Component, 0),
	}
}

// AddComponent appends a component to the page.
func (p *Page) AddComponent(c *Component) {
	p.Components = append(p.Components, c)
}

// IsEmpty reports whether the page has no components.
func (p *Page) IsEmpty() bool {
	return len(p.Components) == 0
}

// Bounds returns the page rectangle.
func (p *Page) Bounds() Rect {
	return Rect{Width: p.WidthMM, Height: p.HeightMM}
}

// ContentBottom returns the lowest edge of any component, or 0 for an empty
// page.
func (p *Page) ContentBottom() float64 {
	var bottom float64
	for _, c := range p.Components {
		if b := c.Bounds().Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}

// ComponentsInRegion returns components whose bounds intersect r.
func (p *Page) ComponentsInRegion(r Rect) []*Component {
	var out []*Component
	for _, c := range p.Components {
		if r.Intersects(c.Bounds()) {
			out = append(out, c)
		}
	}
	return out
}

// Text concatenates the text of the page's components, one per line.
func (p *Page) Text() string {
	var lines []string
	for _, c := range p.Components {
		if t := c.Text(); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
