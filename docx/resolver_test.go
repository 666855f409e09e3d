package docx

import (
	"testing"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

func parseStyles(t *testing.T, inner string) *ooxml.Node {
	t.Helper()
	root, err := ooxml.ParseXML([]byte(xmlPart("w:styles", inner)))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	return root
}

const testStyles = `<w:docDefaults>
  <w:rPrDefault><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:sz w:val="20"/></w:rPr></w:rPrDefault>
  <w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>
  <w:pPr><w:keepNext/><w:spacing w:before="240"/><w:outlineLvl w:val="0"/></w:pPr>
  <w:rPr><w:b/><w:sz w:val="32"/><w:color w:val="2F5496"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="Chapter"><w:name w:val="Chapter"/><w:basedOn w:val="Heading1"/>
  <w:pPr><w:jc w:val="center"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="Outlined"><w:name w:val="Outlined"/><w:pPr><w:outlineLvl w:val="2"/></w:pPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="Big"><w:name w:val="Big"/><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>
<w:style w:type="paragraph" w:customStyle="1" w:styleId="Listed"><w:name w:val="Listed"/><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="4"/></w:numPr></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="LoopA"><w:name w:val="LoopA"/><w:basedOn w:val="LoopB"/><w:rPr><w:i/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="LoopB"><w:name w:val="LoopB"/><w:basedOn w:val="LoopA"/><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="character" w:styleId="Strong"><w:name w:val="Strong"/><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="character" w:styleId="StrongRed"><w:name w:val="Strong Red"/><w:basedOn w:val="Strong"/><w:rPr><w:color w:val="FF0000"/></w:rPr></w:style>
<w:style w:type="table" w:styleId="Grid"><w:name w:val="Table Grid"/>
  <w:pPr><w:spacing w:after="0"/></w:pPr>
  <w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:color="000000"/><w:insideH w:val="single" w:sz="4"/></w:tblBorders></w:tblPr></w:style>`

func TestStyleResolverDefaults(t *testing.T) {
	sr := NewStyleResolver(nil, nil)
	style := sr.Resolve("")
	if style.Run.FontFamily != "Calibri" || style.Run.FontSizePt != 11 {
		t.Errorf("default font = %s %v, want Calibri 11", style.Run.FontFamily, style.Run.FontSizePt)
	}
	if style.Paragraph.Alignment != "left" || style.Paragraph.LineSpacing != 1 {
		t.Errorf("default paragraph = %+v", style.Paragraph)
	}

	themed := NewStyleResolver(nil, &Theme{MinorFont: "Aptos"})
	if got := themed.Resolve("").Run.FontFamily; got != "Aptos" {
		t.Errorf("themed default font = %q, want the theme minor font", got)
	}
}

func TestStyleResolverBuiltInHeadings(t *testing.T) {
	sr := NewStyleResolver(nil, nil)
	tests := []struct {
		id        string
		isHeading bool
		level     int
	}{
		{"Heading1", true, 1},
		{"Heading2", true, 2},
		{"heading 3", true, 3},
		{"Title", true, 1},
		{"Subtitle", true, 2},
		{"Normal", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			style := sr.Resolve(tt.id)
			if style.IsHeading != tt.isHeading || style.HeadingLevel != tt.level {
				t.Errorf("Resolve(%q) heading = %v/%d, want %v/%d", tt.id, style.IsHeading, style.HeadingLevel, tt.isHeading, tt.level)
			}
			if style.Paragraph.HeadingLevel != tt.level {
				t.Errorf("Paragraph.HeadingLevel = %d, want %d", style.Paragraph.HeadingLevel, tt.level)
			}
		})
	}
}

func TestStyleResolverInheritance(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)

	normal := sr.Resolve("")
	if normal.ID != "Normal" || normal.Run.FontFamily != "Arial" || normal.Run.FontSizePt != 10 {
		t.Errorf("default paragraph = %s %s %v, want Normal Arial 10", normal.ID, normal.Run.FontFamily, normal.Run.FontSizePt)
	}
	if !approx(normal.Paragraph.SpacingAfterMM, 2.82) {
		t.Errorf("SpacingAfterMM = %.3f, want 2.82", normal.Paragraph.SpacingAfterMM)
	}

	chapter := sr.Resolve("Chapter")
	if chapter.Run.FontFamily != "Arial" || chapter.Run.FontSizePt != 16 {
		t.Errorf("Chapter font = %s %v, want inherited Arial 16", chapter.Run.FontFamily, chapter.Run.FontSizePt)
	}
	if !chapter.Run.Bold || !chapter.Run.Italic || chapter.Run.Color != "#2F5496" {
		t.Errorf("Chapter run = %+v", chapter.Run)
	}
	if chapter.Paragraph.Alignment != "center" || !chapter.Paragraph.KeepNext || !approx(chapter.Paragraph.SpacingBeforeMM, 4.233) {
		t.Errorf("Chapter paragraph = %+v", chapter.Paragraph)
	}
	if !chapter.IsHeading || chapter.HeadingLevel != 1 || chapter.Paragraph.OutlineLevel != 1 {
		t.Errorf("Chapter heading = %v/%d outline %d, want the outline level of Heading1", chapter.IsHeading, chapter.HeadingLevel, chapter.Paragraph.OutlineLevel)
	}
	if chapter.Paragraph.StyleID != "Chapter" || chapter.Paragraph.StyleName != "Chapter" {
		t.Errorf("style identity = %q %q", chapter.Paragraph.StyleID, chapter.Paragraph.StyleName)
	}

	if h := sr.Resolve("Heading1"); !h.IsHeading || h.HeadingLevel != 1 || h.Name != "heading 1" {
		t.Errorf("Heading1 = %+v", h)
	}
}

func TestStyleResolverHeadingDetection(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	if s := sr.Resolve("Outlined"); !s.IsHeading || s.HeadingLevel != 3 {
		t.Errorf("Outlined = %v/%d, want heading 3 from outlineLvl 2", s.IsHeading, s.HeadingLevel)
	}
	if s := sr.Resolve("Big"); !s.IsHeading || s.HeadingLevel != 2 {
		t.Errorf("Big = %v/%d, want a heading estimated from 20pt bold", s.IsHeading, s.HeadingLevel)
	}
	if s := sr.Resolve("Normal"); s.IsHeading {
		t.Error("Normal should not be a heading")
	}
}

func TestEstimateHeadingLevel(t *testing.T) {
	tests := []struct {
		size float64
		want int
	}{
		{28, 1}, {24, 1}, {18, 2}, {16, 3}, {14, 3}, {12, 4}, {10, 5},
	}
	for _, tt := range tests {
		if got := estimateHeadingLevel(tt.size); got != tt.want {
			t.Errorf("estimateHeadingLevel(%v) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestStyleResolverNumbering(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	s := sr.Resolve("Listed")
	if s.NumID != "4" || s.NumLevel != 1 {
		t.Errorf("numbering = %q/%d, want 4/1", s.NumID, s.NumLevel)
	}
}

func TestStyleResolverCycle(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	s := sr.Resolve("LoopA")
	if !s.Run.Italic || !s.Run.Bold {
		t.Errorf("LoopA run = %+v, want both properties of the cycle", s.Run)
	}
}

func TestStyleResolverUnknownFallsBackToDefault(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	s := sr.Resolve("Missing")
	if s.Run.FontFamily != "Arial" || s.Paragraph.StyleID != "Missing" || s.IsHeading {
		t.Errorf("unknown style = %+v", s)
	}
}

func TestApplyCharacterStyle(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	base, _ := sr.DocumentDefaults()
	got := sr.ApplyCharacterStyle(base, "StrongRed")
	if !got.Bold || got.Color != "#FF0000" || got.FontFamily != "Arial" {
		t.Errorf("StrongRed = %+v", got)
	}
	if same := sr.ApplyCharacterStyle(base, ""); same != base {
		t.Errorf("empty style changed the run: %+v", same)
	}
}

func TestTableStyle(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	style, borders := sr.TableStyle("Grid")
	if style.Paragraph.SpacingAfterMM != 0 {
		t.Errorf("table paragraph spacing = %v, want 0", style.Paragraph.SpacingAfterMM)
	}
	if borders.Top == nil || borders.Top.Style != "solid" || borders.Top.WidthPt != 0.5 {
		t.Errorf("top border = %+v", borders.Top)
	}
	if borders.InsideH == nil || borders.Left != nil {
		t.Errorf("borders = %+v", borders)
	}

	def, none := sr.TableStyle("")
	if def.ID != "Normal" || !none.IsEmpty() {
		t.Errorf("empty table style = %s %+v", def.ID, none)
	}
}

func TestStyleDefinitions(t *testing.T) {
	sr := NewStyleResolver(parseStyles(t, testStyles), nil)
	defs := sr.Definitions()
	byID := map[string]StyleDefinition{}
	for _, d := range defs {
		byID[d.ID] = d
	}
	if len(defs) != 11 {
		t.Errorf("got %d definitions, want 11", len(defs))
	}
	if n := byID["Normal"]; !n.IsDefault || n.Type != "paragraph" {
		t.Errorf("Normal = %+v", n)
	}
	if c := byID["Chapter"]; !c.IsCustom || c.BasedOn != "Heading1" || c.Paragraph.Alignment != "center" {
		t.Errorf("Chapter = %+v", c)
	}
	if s := byID["StrongRed"]; s.Type != "character" || !s.Run.Bold || s.Run.Color != "#FF0000" {
		t.Errorf("StrongRed = %+v", s)
	}
	if h := byID["Heading1"]; h.Next != "Normal" || h.Paragraph.HeadingLevel != 1 {
		t.Errorf("Heading1 = %+v", h)
	}
	if got := sr.StyleName("Grid"); got != "Table Grid" {
		t.Errorf("StyleName(Grid) = %q", got)
	}
}
