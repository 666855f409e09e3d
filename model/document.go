package model

import (
	"strings"
	"time"
)

// Header and footer template types.
const (
	TemplateDefault   = "default"
	TemplateFirstPage = "firstPage"
	TemplateCompact   = "compact"
)

// Document is an editor document.
type Document struct {
	Pages        []*Page                         `json:"pages"`
	Headers      map[string]*HeaderFooterContent `json:"headers,omitempty"`
	Footers      map[string]*HeaderFooterContent `json:"footers,omitempty"`
	PageSettings PageSettings                    `json:"pageSettings"`
	Metadata     Metadata                        `json:"metadata"`
	// Variables maps each template variable found in the document to its
	// default value, usually empty.
	Variables map[string]string `json:"variables,omitempty"`
}

// Metadata contains document-level information.
type Metadata struct {
	Title       string            `json:"title,omitempty"`
	Author      string            `json:"author,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Description string            `json:"description,omitempty"`
	Language    string            `json:"language,omitempty"`
	Created     time.Time         `json:"created,omitzero"`
	Modified    time.Time         `json:"modified,omitzero"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// Margins are page margins in millimeters.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Header float64 `json:"header"`
	Footer float64 `json:"footer"`
}

// PageSettings is the default page geometry of a document.
type PageSettings struct {
	WidthMM     float64 `json:"widthMm"`
	HeightMM    float64 `json:"heightMm"`
	Orientation string  `json:"orientation"`
	PaperName   string  `json:"paperName,omitempty"`
	Margins     Margins `json:"margins"`
}

// A4 returns portrait A4 settings with 25.4 mm margins.
func A4() PageSettings {
	return PageSettings{
		WidthMM:     210,
		HeightMM:    297,
		Orientation: "portrait",
		PaperName:   "A4",
		Margins:     Margins{Top: 25.4, Bottom: 25.4, Left: 25.4, Right: 25.4, Header: 12.7, Footer: 12.7},
	}
}

// ContentArea returns the page area inside the margins.
func (ps PageSettings) ContentArea() Rect {
	return Rect{
		X:      ps.Margins.Left,
		Y:      ps.Margins.Top,
		Width:  ps.WidthMM - ps.Margins.Left - ps.Margins.Right,
		Height: ps.HeightMM - ps.Margins.Top - ps.Margins.Bottom,
	}
}

// HeaderFooterContent is a header or footer template.
type HeaderFooterContent struct {
	TemplateType string       `json:"templateType"`
	HeightMM     float64      `json:"heightMm"`
	Components   []*Component `json:"components"`
}

// NewDocument creates an empty document with the given page settings.
func NewDocument(settings PageSettings) *Document {
	return &Document{
		Pages:        make([]*Page, 0),
		Headers:      make(map[string]*HeaderFooterContent),
		Footers:      make(map[string]*HeaderFooterContent),
		PageSettings: settings,
		Metadata:     Metadata{Custom: make(map[string]string)},
		Variables:    make(map[string]string),
	}
}

// AddPage appends a page and sets its index.
func (d *Document) AddPage(page *Page) {
	page.Index = len(d.Pages)
	d.Pages = append(d.Pages, page)
}

// Page returns the page at index (0-based), or nil.
func (d *Document) Page(index int) *Page {
	if index < 0 || index >= len(d.Pages) {
		return nil
	}
	return d.Pages[index]
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// HeaderFor returns the header that applies to the page at index: the
// page's own override, the compact template on odd indexes, then the
// default.
func (d *Document) HeaderFor(index int) *HeaderFooterContent {
	return d.pick(d.Headers, index, func(p *Page) *HeaderFooterContent { return p.HeaderOverride })
}

// FooterFor is HeaderFor for footers.
func (d *Document) FooterFor(index int) *HeaderFooterContent {
	return d.pick(d.Footers, index, func(p *Page) *HeaderFooterContent { return p.FooterOverride })
}

func (d *Document) pick(m map[string]*HeaderFooterContent, index int, override func(*Page) *HeaderFooterContent) *HeaderFooterContent {
	if p := d.Page(index); p != nil {
		if o := override(p); o != nil {
			return o
		}
	}
	if index%2 == 1 {
		if hf := m[TemplateCompact]; hf != nil {
			return hf
		}
	}
	return m[TemplateDefault]
}

// Components returns every page component in page order.
func (d *Document) Components() []*Component {
	var out []*Component
	for _, p := range d.Pages {
		out = append(out, p.Components...)
	}
	return out
}

// ComponentsOfType returns the page components of type t.
func (d *Document) ComponentsOfType(t ComponentType) []*Component {
	var out []*Component
	for _, c := range d.Components() {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the text of all pages separated by blank lines.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n\n")
}
