package model

// ComponentType names the kind of a component.
type ComponentType string

const (
	ComponentText       ComponentType = "text"
	ComponentHeading    ComponentType = "heading"
	ComponentListItem   ComponentType = "list-item"
	ComponentTable      ComponentType = "table"
	ComponentImage      ComponentType = "image"
	ComponentShape      ComponentType = "shape"
	ComponentTextBox    ComponentType = "textbox"
	ComponentLine       ComponentType = "line"
	ComponentEquation   ComponentType = "equation"
	ComponentChart      ComponentType = "chart"
	ComponentFormField  ComponentType = "form-field"
	ComponentPageNumber ComponentType = "page-number"
)

// Property keys.
const (
	PropContent     = "content"     // string
	PropRuns        = "runs"        // []TextSpan
	PropFontFamily  = "fontFamily"  // string
	PropFontSize    = "fontSize"    // float64, points
	PropColor       = "color"       // #RRGGBB
	PropBold        = "bold"        // bool
	PropItalic      = "italic"      // bool
	PropUnderline   = "underline"   // bool
	PropAlignment   = "alignment"   // left, center, right, justify
	PropLineHeight  = "lineHeight"  // float64, multiple of font size
	PropBackground  = "background"  // #RRGGBB
	PropLevel       = "level"       // int, heading or list level
	PropMarker      = "marker"      // string
	PropIndent      = "indent"      // float64, mm
	PropTable       = "table"       // TableData
	PropSrc         = "src"         // data URI
	PropContentType = "contentType" // string
	PropAltText     = "altText"     // string
	PropWrap        = "wrap"        // string
	PropBehindText  = "behindText"  // bool
	PropShapeKind   = "shapeKind"   // string
	PropFill        = "fill"        // #RRGGBB
	PropStroke      = "stroke"      // #RRGGBB
	PropStrokeWidth = "strokeWidth" // float64, points
	PropRotation    = "rotation"    // float64, degrees
	PropOpacity     = "opacity"     // float64, 0-1
	PropWatermark   = "watermark"   // bool
	PropLaTeX       = "latex"       // string
	PropDisplay     = "display"     // bool, display equation
	PropChart       = "chart"       // ChartData
	PropField       = "field"       // FormFieldData
	PropFormat      = "format"      // string, page number pattern
	PropNodes       = "nodes"       // []DiagramNode
)

// Component is an absolutely positioned element of a page, header or
// footer.
type Component struct {
	ID         string         `json:"id"`
	Type       ComponentType  `json:"type"`
	XMM        float64        `json:"x"`
	YMM        float64        `json:"y"`
	WidthMM    float64        `json:"width"`
	HeightMM   float64        `json:"height"`
	ZIndex     int            `json:"zIndex"`
	Properties map[string]any `json:"properties"`
}

// NewComponent returns a component with an empty property bag.
func NewComponent(id string, t ComponentType) *Component {
	return &Component{ID: id, Type: t, Properties: make(map[string]any)}
}

// Bounds returns the component rectangle.
func (c *Component) Bounds() Rect {
	return Rect{X: c.XMM, Y: c.YMM, Width: c.WidthMM, Height: c.HeightMM}
}

// Set stores a property and returns c.
func (c *Component) Set(key string, value any) *Component {
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	c.Properties[key] = value
	return c
}

// String returns a string property, or "".
func (c *Component) String(key string) string {
	s, _ := c.Properties[key].(string)
	return s
}

// Float returns a numeric property as float64, or 0.
func (c *Component) Float(key string) float64 {
	switch v := c.Properties[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns a numeric property as int, or 0.
func (c *Component) Int(key string) int {
	return int(c.Float(key))
}

// Bool returns a boolean property, or false.
func (c *Component) Bool(key string) bool {
	b, _ := c.Properties[key].(bool)
	return b
}

// Runs returns the formatted spans of a text-bearing component. Components
// without spans get one span built from their content.
func (c *Component) Runs() []TextSpan {
	if runs, ok := c.Properties[PropRuns].([]TextSpan); ok {
		return runs
	}
	if s := c.String(PropContent); s != "" {
		return []TextSpan{{Text: s}}
	}
	return nil
}

// Table returns the table payload, or nil.
func (c *Component) Table() *TableData {
	switch v := c.Properties[PropTable].(type) {
	case *TableData:
		return v
	case TableData:
		return &v
	}
	return nil
}

// Text returns the readable text of the component.
func (c *Component) Text() string {
	switch c.Type {
	case ComponentTable:
		if t := c.Table(); t != nil {
			return t.Text()
		}
	case ComponentListItem:
		if m := c.String(PropMarker); m != "" {
			return m + " " + c.String(PropContent)
		}
	case ComponentEquation:
		if s := c.String(PropContent); s != "" {
			return s
		}
		return c.String(PropLaTeX)
	case ComponentChart:
		if ch, ok := c.Properties[PropChart].(ChartData); ok {
			return ch.Title
		}
	}
	return c.String(PropContent)
}
