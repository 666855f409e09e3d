package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Geometry Tests
// ============================================================================

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected float64
	}{
		{"same point", Point{0, 0}, Point{0, 0}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"diagonal 3-4-5", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.p1.Distance(tt.p2)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Distance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	if r.Left() != 10 || r.Right() != 110 {
		t.Errorf("Left/Right = %v/%v, want 10/110", r.Left(), r.Right())
	}
	if r.Top() != 20 || r.Bottom() != 70 {
		t.Errorf("Top/Bottom = %v/%v, want 20/70", r.Top(), r.Bottom())
	}
	if c := r.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Center() = %+v, want {60 45}", c)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{Width: 100, Height: 100}

	tests := []struct {
		name     string
		point    Point
		expected bool
	}{
		{"inside", Point{50, 50}, true},
		{"on top edge", Point{50, 0}, true},
		{"on bottom edge", Point{50, 100}, true},
		{"above", Point{50, -1}, false},
		{"below", Point{50, 101}, false},
		{"right", Point{101, 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%+v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := Rect{Width: 100, Height: 100}

	tests := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"touching edge", Rect{100, 0, 50, 50}, true},
		{"inside", Rect{25, 25, 50, 50}, true},
		{"right", Rect{150, 0, 50, 50}, false},
		{"below", Rect{0, 150, 50, 50}, false},
		{"above", Rect{0, -100, 50, 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.expected)
			}
		})
	}
}

func TestRectIntersectionUnion(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{50, 60, 100, 100}

	if got, want := a.Intersection(b), (Rect{50, 60, 50, 40}); got != want {
		t.Errorf("Intersection() = %+v, want %+v", got, want)
	}
	if got := a.Intersection(Rect{200, 200, 10, 10}); !got.IsEmpty() {
		t.Errorf("disjoint Intersection() = %+v, want empty", got)
	}
	if got, want := a.Union(b), (Rect{0, 0, 150, 160}); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
	if got := a.Area(); got != 10000 {
		t.Errorf("Area() = %v, want 10000", got)
	}
	if got, want := a.Inset(10), (Rect{10, 10, 80, 80}); got != want {
		t.Errorf("Inset() = %+v, want %+v", got, want)
	}
}

// ============================================================================
// Document Tests
// ============================================================================

func TestNewDocument(t *testing.T) {
	doc := NewDocument(A4())

	if doc.Metadata.Custom == nil || doc.Headers == nil || doc.Footers == nil || doc.Variables == nil {
		t.Fatal("NewDocument() left maps nil")
	}
	if len(doc.Pages) != 0 {
		t.Errorf("Pages should be empty, got %d", len(doc.Pages))
	}
	if doc.PageSettings.WidthMM != 210 || doc.PageSettings.HeightMM != 297 {
		t.Errorf("PageSettings = %+v, want A4", doc.PageSettings)
	}
}

func TestContentArea(t *testing.T) {
	area := A4().ContentArea()
	want := Rect{X: 25.4, Y: 25.4, Width: 210 - 50.8, Height: 297 - 50.8}
	if math.Abs(area.Width-want.Width) > 1e-9 || math.Abs(area.Height-want.Height) > 1e-9 || area.X != want.X || area.Y != want.Y {
		t.Errorf("ContentArea() = %+v, want %+v", area, want)
	}
}

func TestDocumentPages(t *testing.T) {
	doc := NewDocument(A4())
	p1 := NewPage(210, 297)
	p2 := NewPage(210, 297)
	doc.AddPage(p1)
	doc.AddPage(p2)

	if p1.Index != 0 || p2.Index != 1 {
		t.Errorf("indexes = %d,%d, want 0,1", p1.Index, p2.Index)
	}
	if doc.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", doc.PageCount())
	}
	if doc.Page(1) != p2 {
		t.Error("Page(1) didn't return the second page")
	}
	if doc.Page(-1) != nil || doc.Page(2) != nil {
		t.Error("out of range Page() should return nil")
	}
}

func TestHeaderFor(t *testing.T) {
	doc := NewDocument(A4())
	def := &HeaderFooterContent{TemplateType: TemplateDefault}
	even := &HeaderFooterContent{TemplateType: TemplateCompact}
	first := &HeaderFooterContent{TemplateType: TemplateFirstPage}
	doc.Headers[TemplateDefault] = def
	doc.Headers[TemplateCompact] = even

	for i := 0; i < 3; i++ {
		doc.AddPage(NewPage(210, 297))
	}
	doc.Pages[0].HeaderOverride = first

	if got := doc.HeaderFor(0); got != first {
		t.Errorf("HeaderFor(0) = %v, want first-page override", got.TemplateType)
	}
	if got := doc.HeaderFor(1); got != even {
		t.Errorf("HeaderFor(1) = %v, want compact", got.TemplateType)
	}
	if got := doc.HeaderFor(2); got != def {
		t.Errorf("HeaderFor(2) = %v, want default", got.TemplateType)
	}
	if got := doc.FooterFor(0); got != nil {
		t.Errorf("FooterFor(0) = %+v, want nil", got)
	}
}

func TestDocumentText(t *testing.T) {
	doc := NewDocument(A4())
	p1 := NewPage(210, 297)
	p1.AddComponent(NewComponent("a", ComponentHeading).Set(PropContent, "Title"))
	p1.AddComponent(NewComponent("b", ComponentListItem).Set(PropContent, "item").Set(PropMarker, "1."))
	p2 := NewPage(210, 297)
	p2.AddComponent(NewComponent("c", ComponentText).Set(PropContent, "Page 2 text"))
	doc.AddPage(p1)
	doc.AddPage(p2)

	want := "Title\n1. item\n\nPage 2 text"
	if got := doc.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got := len(doc.ComponentsOfType(ComponentListItem)); got != 1 {
		t.Errorf("ComponentsOfType(list-item) = %d, want 1", got)
	}
	if got := len(doc.Components()); got != 3 {
		t.Errorf("Components() = %d, want 3", got)
	}
}

// ============================================================================
// Page Tests
// ============================================================================

func TestPageRegionAndBottom(t *testing.T) {
	page := NewPage(210, 297)
	if !page.IsEmpty() || page.ContentBottom() != 0 {
		t.Fatal("new page should be empty")
	}

	top := &Component{ID: "top", XMM: 20, YMM: 20, WidthMM: 100, HeightMM: 10}
	low := &Component{ID: "low", XMM: 20, YMM: 200, WidthMM: 100, HeightMM: 30}
	page.AddComponent(top)
	page.AddComponent(low)

	if got := page.ContentBottom(); got != 230 {
		t.Errorf("ContentBottom() = %v, want 230", got)
	}
	found := page.ComponentsInRegion(Rect{0, 0, 210, 50})
	if len(found) != 1 || found[0] != top {
		t.Errorf("ComponentsInRegion() = %v, want [top]", found)
	}
	if got := page.Bounds(); got != (Rect{Width: 210, Height: 297}) {
		t.Errorf("Bounds() = %+v", got)
	}
}

// ============================================================================
// Component Tests
// ============================================================================

func TestComponentAccessors(t *testing.T) {
	c := NewComponent("id", ComponentText).
		Set(PropContent, "hello").
		Set(PropFontSize, 11.0).
		Set(PropLevel, 2).
		Set(PropBold, true)

	if c.String(PropContent) != "hello" {
		t.Errorf("String() = %q", c.String(PropContent))
	}
	if c.Float(PropFontSize) != 11 {
		t.Errorf("Float() = %v", c.Float(PropFontSize))
	}
	if c.Int(PropLevel) != 2 {
		t.Errorf("Int() = %v", c.Int(PropLevel))
	}
	if !c.Bool(PropBold) || c.Bool(PropItalic) {
		t.Error("Bool() mismatch")
	}
	if c.String(PropFontSize) != "" {
		t.Error("String() of a number should be empty")
	}

	runs := c.Runs()
	if len(runs) != 1 || runs[0].Text != "hello" {
		t.Errorf("Runs() = %+v, want one span from content", runs)
	}

	var zero Component
	zero.Set(PropColor, "#FF0000")
	if zero.String(PropColor) != "#FF0000" {
		t.Error("Set on zero component failed")
	}
}

func TestComponentText(t *testing.T) {
	eq := NewComponent("e", ComponentEquation).Set(PropLaTeX, `\frac{1}{2}`)
	if got := eq.Text(); got != `\frac{1}{2}` {
		t.Errorf("equation Text() = %q", got)
	}
	chart := NewComponent("c", ComponentChart).Set(PropChart, ChartData{Type: "bar", Title: "Sales"})
	if got := chart.Text(); got != "Sales" {
		t.Errorf("chart Text() = %q", got)
	}
	table := NewComponent("t", ComponentTable).Set(PropTable, &TableData{Rows: []TableRow{
		{Cells: []TableCell{{Text: "a"}, {Text: "b"}}},
	}})
	if got := table.Text(); got != "a\tb" {
		t.Errorf("table Text() = %q", got)
	}
}

func TestComponentJSON(t *testing.T) {
	c := NewComponent("abc", ComponentImage).Set(PropAltText, "logo")
	c.XMM, c.YMM, c.WidthMM, c.HeightMM = 1, 2, 3, 4

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"id":"abc"`, `"type":"image"`, `"x":1`, `"height":4`, `"altText":"logo"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestTableData(t *testing.T) {
	table := NewTable(2, 3)
	if table.RowCount() != 2 || table.ColCount() != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", table.RowCount(), table.ColCount())
	}
	if c := table.Cell(0, 0); c == nil || c.RowSpan != 1 || c.ColSpan != 1 {
		t.Errorf("Cell(0,0) = %+v, want spans of 1", c)
	}
	if table.Cell(2, 0) != nil || table.Cell(0, 3) != nil {
		t.Error("out of range Cell() should be nil")
	}
	if err := table.SetCell(5, 0, TableCell{}); err == nil {
		t.Error("SetCell out of range should fail")
	}

	_ = table.SetCell(0, 0, TableCell{Text: "Name"})
	_ = table.SetCell(0, 1, TableCell{Text: "a,b"})
	_ = table.SetCell(1, 0, TableCell{Text: "say \"hi\""})
	_ = table.SetCell(1, 1, TableCell{Text: "hidden", Merged: true})

	want := "Name,\"a,b\",\n\"say \"\"hi\"\"\",,\n"
	if got := table.ToCSV(); got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
	if got := table.Text(); got != "Name\ta,b\t\nsay \"hi\"\t\t" {
		t.Errorf("Text() = %q", got)
	}

	table.Rows[0].HeightMM = 8
	table.Rows[1].HeightMM = 12
	if got := table.HeightMM(); got != 20 {
		t.Errorf("HeightMM() = %v, want 20", got)
	}
}

func TestTableColCountWithSpans(t *testing.T) {
	table := &TableData{
		ColumnWidthsMM: []float64{10, 10},
		Rows: []TableRow{
			{Cells: []TableCell{{ColSpan: 3}}},
			{Cells: []TableCell{{ColSpan: 1}, {}}},
		},
	}
	if got := table.ColCount(); got != 3 {
		t.Errorf("ColCount() = %d, want 3", got)
	}
}
