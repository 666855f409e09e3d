package model

// TextSpan is a uniformly formatted piece of text.
type TextSpan struct {
	Text          string  `json:"text"`
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSizePt    float64 `json:"fontSize,omitempty"`
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strike        bool    `json:"strike,omitempty"`
	Color         string  `json:"color,omitempty"`
	Highlight     string  `json:"highlight,omitempty"`
	VerticalAlign string  `json:"verticalAlign,omitempty"`
	Hyperlink     string  `json:"hyperlink,omitempty"`
}

// ChartSeries is one data series.
type ChartSeries struct {
	Name       string    `json:"name"`
	Categories []string  `json:"categories,omitempty"`
	Values     []float64 `json:"values"`
	Color      string    `json:"color,omitempty"`
}

// ChartData is the payload of a chart component.
type ChartData struct {
	Type   string        `json:"type"`
	Title  string        `json:"title,omitempty"`
	Series []ChartSeries `json:"series"`
}

// FormFieldData is the payload of a form-field component.
type FormFieldData struct {
	Kind        string   `json:"kind"` // text, checkbox, dropdown, date
	Name        string   `json:"name,omitempty"`
	Value       string   `json:"value,omitempty"`
	Checked     bool     `json:"checked,omitempty"`
	Options     []string `json:"options,omitempty"`
	MaxLength   int      `json:"maxLength,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// DiagramNode is a SmartArt text node.
type DiagramNode struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}
