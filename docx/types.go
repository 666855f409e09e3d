package docx

import "strings"

// TextStyle is the resolved formatting of a run. The zero value is usable;
// the resolver fills font, size and color from document defaults.
type TextStyle struct {
	FontFamily         string
	FontSizePt         float64
	Bold               bool
	Italic             bool
	Underline          bool
	UnderlineStyle     string
	Strike             bool
	DoubleStrike       bool
	Color              string // #RRGGBB
	Highlight          string // #RRGGBB or ""
	Background         string // run shading fill
	VerticalAlign      string // baseline, superscript, subscript
	SmallCaps          bool
	AllCaps            bool
	Hidden             bool
	Emboss             bool
	Imprint            bool
	Outline            bool
	Shadow             bool
	CharacterSpacingPt float64
	KerningPt          float64
	Language           string
	RTL                bool
}

// Clone returns a copy of s.
func (s TextStyle) Clone() TextStyle { return s }

// Border is one edge of a paragraph, table or cell border.
type Border struct {
	Style   string
	WidthPt float64
	Color   string
	SpacePt float64
}

// Borders groups the edges a box may carry. Nil edges are absent.
type Borders struct {
	Top     *Border
	Bottom  *Border
	Left    *Border
	Right   *Border
	Between *Border
	InsideH *Border
	InsideV *Border
}

// IsEmpty reports whether no edge is set.
func (b Borders) IsEmpty() bool {
	return b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil &&
		b.Between == nil && b.InsideH == nil && b.InsideV == nil
}

// TabStop is a custom tab position.
type TabStop struct {
	PositionMM float64
	Alignment  string
	Leader     string
}

// DropCap describes a w:framePr drop cap.
type DropCap struct {
	Type  string // drop or margin
	Lines int
}

// ParagraphStyle is the resolved formatting of a paragraph.
type ParagraphStyle struct {
	Alignment       string
	SpacingBeforeMM float64
	SpacingAfterMM  float64
	// LineSpacing is a multiple of single spacing when LineRule is "auto",
	// otherwise a height in points.
	LineSpacing     float64
	LineRule        string
	IndentLeftMM    float64
	IndentRightMM   float64
	FirstLineMM     float64
	HangingMM       float64
	Borders         Borders
	ShadingColor    string
	KeepNext        bool
	KeepLines       bool
	PageBreakBefore bool
	WidowControl    bool
	Direction       string // ltr or rtl
	OutlineLevel    int    // 1-9, 0 for body text
	TabStops        []TabStop
	DropCap         *DropCap
	StyleID         string
	StyleName       string
	HeadingLevel    int
}

// ListInfo is the list membership of a paragraph with its computed marker.
type ListInfo struct {
	NumID     string
	Level     int
	Marker    string
	Format    string
	IndentMM  float64
	HangingMM float64
	IsBullet  bool
}

// RevisionMark tags a run that belongs to a tracked change.
type RevisionMark struct {
	Type   string
	Author string
}

// TextRun is a span of uniformly formatted text.
type TextRun struct {
	Text        string
	Style       TextStyle
	Hyperlink   string
	Anchor      string
	IsField     bool
	FieldCode   string
	FootnoteRef string
	EndnoteRef  string
	CommentRef  string
	Revision    *RevisionMark
}

// Paragraph is a block of runs.
type Paragraph struct {
	Runs          []TextRun
	Style         ParagraphStyle
	List          *ListInfo
	BookmarkNames []string
	HasPageBreak  bool
	SectionBreak  bool
}

// Text returns the concatenated run text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Table is a parsed w:tbl.
type Table struct {
	Rows           []TableRow
	ColumnWidthsMM []float64
	StyleID        string
	WidthMM        float64
	WidthPercent   float64
	Alignment      string
	IndentMM       float64
	Borders        Borders
	CellMarginsMM  [4]float64 // top, right, bottom, left
}

// TableRow is a table row.
type TableRow struct {
	Cells      []TableCell
	HeightMM   float64
	HeightRule string // auto, atLeast, exact
	IsHeader   bool

	gridBefore int
}

// TableCell is a table cell.
type TableCell struct {
	Paragraphs           []*Paragraph
	Tables               []*Table
	ColSpan              int
	RowSpan              int
	IsMergedContinuation bool
	WidthMM              float64
	VerticalAlign        string
	Background           string
	Borders              Borders

	vMerge   string
	widthPct float64
}

// Text returns the cell's paragraph text joined by newlines.
func (c *TableCell) Text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Image positions.
const (
	PositionInline = "inline"
	PositionAnchor = "anchor"
)

// Image is a picture from a drawing, a VML shape, or an orphaned media part.
type Image struct {
	RelID         string
	Part          string
	Data          []byte
	ContentType   string
	FileName      string
	WidthMM       float64
	HeightMM      float64
	Position      string
	Wrap          string
	XMM           float64
	YMM           float64
	RelativeFromH string
	RelativeFromV string
	AlignH        string
	AlignV        string
	AltText       string
	Title         string
	IsOrphan      bool
	BehindText    bool
	External      bool
}

// Shape sources.
const (
	SourceVML       = "vml"
	SourceDrawingML = "drawingml"
)

// Shape is a text box or geometric shape.
type Shape struct {
	ID            string
	Name          string
	Kind          string // textbox, rect, roundRect, ellipse, line, group, ...
	Source        string
	XMM           float64
	YMM           float64
	WidthMM       float64
	HeightMM      float64
	FillColor     string
	StrokeColor   string
	StrokeWidthPt float64
	Opacity       float64
	Rotation      float64
	Paragraphs    []*Paragraph
	Children      []*Shape
	BehindText    bool
	IsWatermark   bool
	WatermarkText string
	Image         *Image
}

// Text returns the shape's paragraph text joined by newlines.
func (s *Shape) Text() string {
	parts := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// ElementType tags the payload of an Element.
type ElementType int

const (
	ElementParagraph ElementType = iota
	ElementTable
	ElementPageBreak
	ElementImage
	ElementShape
	ElementSectionBreak
	ElementEquation
	ElementChart
	ElementSmartArt
)

var elementTypeNames = [...]string{"paragraph", "table", "pageBreak", "image", "shape", "sectionBreak", "equation", "chart", "smartArt"}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return "unknown"
}

// Element is one block of the document stream. Exactly one payload field
// matching Type is set; page breaks carry none.
type Element struct {
	Type      ElementType
	Paragraph *Paragraph
	Table     *Table
	Image     *Image
	Shape     *Shape
	Equation  *Equation
	Chart     *Chart
	SmartArt  *SmartArt
	// Section is the section that starts after a section break.
	Section *Section
}

// HeaderFooter is the parsed content of one header or footer part.
type HeaderFooter struct {
	Type          string // default, first, even
	Kind          string // header, footer
	Part          string
	Elements      []Element
	Images        []*Image
	Shapes        []*Shape
	HasPageNumber bool
	Watermark     *Shape
}

// Margins are page margins in millimeters.
type Margins struct {
	TopMM    float64
	BottomMM float64
	LeftMM   float64
	RightMM  float64
	HeaderMM float64
	FooterMM float64
	GutterMM float64
}

// PageSettings is the page geometry of a section.
type PageSettings struct {
	WidthMM         float64
	HeightMM        float64
	Orientation     string
	Margins         Margins
	Columns         int
	ColumnSpacingMM float64
	PaperName       string
}

// UsableHeightMM returns the page height minus top and bottom margins.
func (ps PageSettings) UsableHeightMM() float64 {
	return ps.HeightMM - ps.Margins.TopMM - ps.Margins.BottomMM
}

// UsableWidthMM returns the page width minus left and right margins.
func (ps PageSettings) UsableWidthMM() float64 {
	return ps.WidthMM - ps.Margins.LeftMM - ps.Margins.RightMM
}

// Section is one w:sectPr.
type Section struct {
	Index        int
	PageSettings PageSettings
	HeaderRefs   map[string]string // type -> part
	FooterRefs   map[string]string
	Columns      int
	BreakType    string
	TitlePage    bool
}

// Note is a footnote or endnote.
type Note struct {
	ID              string
	Kind            string // footnote, endnote
	Paragraphs      []*Paragraph
	ReferenceMarker string
}

// Text returns the note's paragraph text.
func (n *Note) Text() string {
	parts := make([]string, 0, len(n.Paragraphs))
	for _, p := range n.Paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Bookmark is a named document range.
type Bookmark struct {
	ID             string
	Name           string
	Text           string
	ParagraphIndex int
}

// Comment is a reviewer comment.
type Comment struct {
	ID         string
	Author     string
	Initials   string
	Date       string
	Paragraphs []*Paragraph
	Text       string
	RangeText  string
	ParaID     string
	ParentID   string
	Resolved   bool
}

// Equation is an OMML equation.
type Equation struct {
	Display        bool
	Components     *MathNode
	LaTeX          string
	PlainText      string
	ParagraphIndex int
}

// MathNode is one OMML construct.
type MathNode struct {
	Kind     string
	Text     string
	Children []*MathNode
}

// ChartSeries is one data series of a chart.
type ChartSeries struct {
	Name       string
	Categories []string
	Values     []float64
	Color      string
	// CategoriesRef and ValuesRef are the worksheet ranges the series reads,
	// e.g. Sheet1!$B$2:$B$5.
	CategoriesRef string
	ValuesRef     string
}

// Chart is a DrawingML chart part.
type Chart struct {
	RelID        string
	Part         string
	Type         string
	Title        string
	Series       []ChartSeries
	Is3D         bool
	BarDirection string
	WidthMM      float64
	HeightMM     float64
}

// SmartArtNode is one text node of a diagram.
type SmartArtNode struct {
	Text  string
	Level int
}

// SmartArt is a diagram with its text nodes in data-model order.
type SmartArt struct {
	RelID    string
	Layout   string
	Nodes    []SmartArtNode
	WidthMM  float64
	HeightMM float64
}

// Form field types.
const (
	FormFieldText     = "text"
	FormFieldCheckbox = "checkbox"
	FormFieldDropdown = "dropdown"
)

// FormField is a legacy form field.
type FormField struct {
	Type           string
	Name           string
	Default        string
	Value          string
	Checked        bool
	Options        []string
	MaxLength      int
	Placeholder    string
	ParagraphIndex int
}

// ContentControl is a structured document tag.
type ContentControl struct {
	ID          string
	Tag         string
	Alias       string
	Type        string
	Text        string
	Options     []string
	DateFormat  string
	Checked     bool
	Placeholder bool
	Locked      string
}

// Revision is a tracked change.
type Revision struct {
	ID     string
	Type   string // insert, delete, formatChange, move
	Author string
	Date   string
	Text   string
}

// Theme is the document theme.
type Theme struct {
	Name      string
	Colors    map[string]string
	MajorFont string
	MinorFont string
}

// StyleDefinition is an entry of styles.xml.
type StyleDefinition struct {
	ID        string
	Name      string
	Type      string
	BasedOn   string
	Next      string
	Link      string
	IsDefault bool
	IsCustom  bool
	Paragraph ParagraphStyle
	Run       TextStyle
}

// TOCEntry is one table-of-contents line.
type TOCEntry struct {
	Level  int
	Text   string
	Page   string
	Anchor string
}

// TableOfContents is the document's table of contents.
type TableOfContents struct {
	Title   string
	Entries []TOCEntry
}

// Source is a bibliography source.
type Source struct {
	Tag       string
	Type      string
	Title     string
	Authors   []string
	Year      string
	Publisher string
	City      string
	URL       string
}

// Citation is a CITATION field occurrence.
type Citation struct {
	Tag            string
	Text           string
	ParagraphIndex int
}

// CustomXMLPart is a customXml item.
type CustomXMLPart struct {
	Path        string
	RootElement string
	Namespace   string
	Content     string
	ItemID      string
}

// EmbeddedObject is an OLE object.
type EmbeddedObject struct {
	RelID             string
	ProgID            string
	Part              string
	Data              []byte
	ContentType       string
	FileName          string
	WidthMM           float64
	HeightMM          float64
	PreviewImageRelID string
	// Preview holds the leading rows of the first worksheet of an embedded
	// workbook, trimmed to its content.
	Preview      [][]string
	PreviewSheet string
}

// CoreProperties merges docProps/core.xml and docProps/app.xml.
type CoreProperties struct {
	Title          string
	Subject        string
	Author         string
	Keywords       []string
	Description    string
	LastModifiedBy string
	Revision       string
	Category       string
	Created        string
	Modified       string
	Language       string
	Application    string
	Company        string
	Template       string
	Pages          int
	Words          int
}

// Settings holds the parts of word/settings.xml the importer uses.
type Settings struct {
	DefaultTabStopMM  float64
	EvenAndOddHeaders bool
	TrackRevisions    bool
	MirrorMargins     bool
	UpdateFields      bool
}

// ParsedContent is the complete result of a conversion.
type ParsedContent struct {
	Elements        []Element
	Images          []*Image
	Shapes          []*Shape
	Footnotes       []*Note
	Endnotes        []*Note
	Bookmarks       []*Bookmark
	Comments        []*Comment
	Headers         map[string]*HeaderFooter
	Footers         map[string]*HeaderFooter
	Equations       []*Equation
	Charts          []*Chart
	SmartArt        []*SmartArt
	FormFields      []*FormField
	ContentControls []*ContentControl
	Revisions       []*Revision
	Theme           *Theme
	Styles          []StyleDefinition
	TableOfContents *TableOfContents
	Bibliography    []Source
	Citations       []Citation
	CustomXML       []CustomXMLPart
	EmbeddedObjects []*EmbeddedObject
	Sections        []*Section
	PageSettings    PageSettings
	CoreProperties  CoreProperties
	Settings        Settings
	Metadata        Metadata
	Warnings        []Warning
}

// Paragraphs returns the body paragraphs in document order.
func (pc *ParsedContent) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range pc.Elements {
		if el.Type == ElementParagraph {
			out = append(out, el.Paragraph)
		}
	}
	return out
}

// Tables returns the top-level body tables.
func (pc *ParsedContent) Tables() []*Table {
	var out []*Table
	for _, el := range pc.Elements {
		if el.Type == ElementTable {
			out = append(out, el.Table)
		}
	}
	return out
}
