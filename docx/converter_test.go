package docx

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

const numberingPart = `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
    <w:lvl w:ilvl="1"><w:start w:val="1"/><w:numFmt w:val="lowerLetter"/><w:lvlText w:val="%2)"/></w:lvl>
  </w:abstractNum>
  <w:abstractNum w:abstractNumId="1">
    <w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#xF0B7;"/></w:lvl>
  </w:abstractNum>
  <w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
  <w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>`

func TestConvertParagraphsAndRuns(t *testing.T) {
	out := newFixture(
		para("Hello") +
			`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Bold</w:t></w:r><w:r><w:t xml:space="preserve"> plain</w:t></w:r></w:p>` +
			`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>`,
	).convert(t)

	paras := out.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paras))
	}
	if got := paras[0].Text(); got != "Hello" {
		t.Errorf("paragraph 0 text = %q, want Hello", got)
	}
	runs := paras[1].Runs
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].Style.Bold || runs[1].Style.Bold {
		t.Errorf("bold flags = %v/%v, want true/false", runs[0].Style.Bold, runs[1].Style.Bold)
	}
	if runs[1].Style.FontFamily != "Calibri" || runs[1].Style.FontSizePt != 11 {
		t.Errorf("default run style = %s %vpt, want Calibri 11pt", runs[1].Style.FontFamily, runs[1].Style.FontSizePt)
	}
	if out.PageSettings.PaperName != "Letter" {
		t.Errorf("PaperName = %q, want Letter", out.PageSettings.PaperName)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warningMessages(out))
	}
}

func TestConvertFatalErrors(t *testing.T) {
	t.Run("spreadsheet", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
			"xl/workbook.xml":     `<workbook/>`,
		})
		pkg, err := ooxml.FromBytes(data)
		if err != nil {
			t.Fatalf("FromBytes() error = %v", err)
		}
		if _, err := Convert(context.Background(), pkg, Options{}); !errors.Is(err, ErrNotDOCX) {
			t.Errorf("error = %v, want ErrNotDOCX", err)
		}
	})

	t.Run("missing body", func(t *testing.T) {
		f := newFixture("")
		f.part("word/document.xml", xmlPart("w:document", ""))
		pkg := f.pkg(t)
		if _, err := Convert(context.Background(), pkg, Options{}); !errors.Is(err, ErrMissingBody) {
			t.Errorf("error = %v, want ErrMissingBody", err)
		}
	})

	t.Run("nil package", func(t *testing.T) {
		if _, err := Convert(context.Background(), nil, Options{}); !errors.Is(err, ErrCorruptPackage) {
			t.Errorf("error = %v, want ErrCorruptPackage", err)
		}
	})
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pkg := newFixture(para("x")).pkg(t)
	_, err := Convert(ctx, pkg, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func listFixture() *fixture {
	return newFixture(
		listPara(1, 0, "one")+
			listPara(1, 1, "one-a")+
			listPara(1, 1, "one-b")+
			listPara(1, 0, "two")+
			listPara(1, 1, "two-a")+
			listPara(2, 0, "bullet"),
	).
		part("word/numbering.xml", numberingPart).
		rel("", "rIdNum", "numbering", "numbering.xml")
}

func markers(out *ParsedContent) []string {
	var got []string
	for _, p := range out.Paragraphs() {
		if p.List != nil {
			got = append(got, p.List.Marker)
		}
	}
	return got
}

func TestConvertListMarkers(t *testing.T) {
	out := listFixture().convert(t)
	want := []string{"1.", "a)", "b)", "2.", "a)", "•"}
	if got := markers(out); !reflect.DeepEqual(got, want) {
		t.Errorf("markers = %q, want %q", got, want)
	}
	if out.Metadata.Lists != 2 || out.Metadata.ListItems != 6 {
		t.Errorf("Lists/ListItems = %d/%d, want 2/6", out.Metadata.Lists, out.Metadata.ListItems)
	}
}

func TestConvertRepeatedMarkersIdentical(t *testing.T) {
	f := listFixture()
	first := markers(f.convert(t))
	for i := 0; i < 3; i++ {
		if got := markers(f.convert(t)); !reflect.DeepEqual(got, first) {
			t.Fatalf("conversion %d markers = %q, want %q", i+2, got, first)
		}
	}
}

func TestConvertUnknownNumIDWarnsOnce(t *testing.T) {
	out := newFixture(listPara(7, 0, "a") + listPara(7, 0, "b")).
		part("word/numbering.xml", numberingPart).
		rel("", "rIdNum", "numbering", "numbering.xml").
		convert(t)
	if len(out.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(out.Warnings), warningMessages(out))
	}
	for _, p := range out.Paragraphs() {
		if p.List != nil {
			t.Errorf("paragraph %q should not be a list item", p.Text())
		}
	}
}

func TestConvertThemeColorWithExplicitRGB(t *testing.T) {
	theme := xmlPart("a:theme", `<a:themeElements><a:clrScheme name="Custom">
    <a:dk1><a:srgbClr val="000000"/></a:dk1>
    <a:accent1><a:srgbClr val="4472C4"/></a:accent1>
  </a:clrScheme>
  <a:fontScheme name="F"><a:majorFont><a:latin typeface="Cambria"/></a:majorFont><a:minorFont><a:latin typeface="Georgia"/></a:minorFont></a:fontScheme>
  </a:themeElements>`)
	out := newFixture(
		`<w:p><w:r><w:rPr><w:color w:val="FF0000" w:themeColor="accent1"/></w:rPr><w:t>explicit</w:t></w:r></w:p>`+
			`<w:p><w:r><w:rPr><w:color w:val="auto" w:themeColor="accent1"/></w:rPr><w:t>theme</w:t></w:r></w:p>`,
	).
		part("word/theme/theme1.xml", theme).
		rel("", "rIdTheme", "theme", "theme/theme1.xml").
		convert(t)

	paras := out.Paragraphs()
	if got := paras[0].Runs[0].Style.Color; got != "#FF0000" {
		t.Errorf("explicit color = %q, want #FF0000", got)
	}
	if got := paras[1].Runs[0].Style.Color; got != "#4472C4" {
		t.Errorf("theme color = %q, want #4472C4", got)
	}
	if got := paras[1].Runs[0].Style.FontFamily; got != "Georgia" {
		t.Errorf("font = %q, want theme minor font Georgia", got)
	}
	if out.Theme == nil || out.Theme.MajorFont != "Cambria" {
		t.Errorf("Theme = %+v, want major font Cambria", out.Theme)
	}
}

func TestConvertNormalizesText(t *testing.T) {
	body := `<w:p><w:r><w:t>e` + "\u0301" + `</w:t></w:r></w:p>`
	out := newFixture(body).convert(t)
	if got := out.Paragraphs()[0].Text(); got != "\u00e9" {
		t.Errorf("text = %q, want NFC form", got)
	}
	raw := newFixture(body).convertWith(t, Options{KeepRawText: true})
	if got := raw.Paragraphs()[0].Text(); got != "e\u0301" {
		t.Errorf("raw text = %q, want decomposed form", got)
	}
}

func TestConvertPageBreakSplitsParagraph(t *testing.T) {
	out := newFixture(`<w:p><w:r><w:t>before</w:t><w:br w:type="page"/><w:t>after</w:t></w:r></w:p>`).convert(t)
	var types []ElementType
	for _, el := range out.Elements {
		types = append(types, el.Type)
	}
	want := []ElementType{ElementParagraph, ElementPageBreak, ElementParagraph}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("element types = %v, want %v", types, want)
	}
	if !out.Elements[0].Paragraph.HasPageBreak {
		t.Error("first segment should carry HasPageBreak")
	}
	if got := out.Elements[2].Paragraph.Text(); got != "after" {
		t.Errorf("second segment = %q, want after", got)
	}
}

func TestConvertInlineSpecialCharacters(t *testing.T) {
	out := newFixture(`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t><w:noBreakHyphen/><w:sym w:font="Symbol" w:char="F061"/></w:r></w:p>`).convert(t)
	want := "a\tb\nc\u2011\u03b1"
	if got := out.Paragraphs()[0].Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestConvertSections(t *testing.T) {
	out := newFixture(
		`<w:p><w:pPr><w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:type w:val="continuous"/></w:sectPr></w:pPr><w:r><w:t>first</w:t></w:r></w:p>` +
			para("second") +
			`<w:sectPr><w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/><w:pgMar w:top="720" w:bottom="720" w:left="720" w:right="720" w:header="0" w:footer="0" w:gutter="0"/><w:cols w:num="2"/><w:titlePg/></w:sectPr>`,
	).convert(t)

	if len(out.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(out.Sections))
	}
	if out.Sections[0].BreakType != "continuous" || out.Sections[0].PageSettings.PaperName != "A4" {
		t.Errorf("section 0 = %+v", out.Sections[0])
	}
	last := out.Sections[1]
	if last.PageSettings.Orientation != "landscape" || last.Columns != 2 || !last.TitlePage {
		t.Errorf("section 1 = %+v", last)
	}
	if last.PageSettings.ColumnSpacingMM != 12.7 {
		t.Errorf("column spacing = %v, want default 12.7", last.PageSettings.ColumnSpacingMM)
	}

	var brk *Element
	for i := range out.Elements {
		if out.Elements[i].Type == ElementSectionBreak {
			brk = &out.Elements[i]
		}
	}
	if brk == nil || brk.Section != last {
		t.Fatalf("section break should point at the following section")
	}
	if !out.Paragraphs()[0].SectionBreak {
		t.Error("first paragraph should be marked as a section break")
	}
}

func TestConvertDefaultSection(t *testing.T) {
	out := newFixture(para("only")).convert(t)
	if len(out.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(out.Sections))
	}
	ps := out.PageSettings
	if ps.WidthMM != 210 || ps.HeightMM != 297 || ps.Margins.TopMM != 25.4 || ps.Margins.HeaderMM != 12.7 {
		t.Errorf("default page settings = %+v", ps)
	}
}

func TestConvertRevisions(t *testing.T) {
	out := newFixture(`<w:p>
  <w:r><w:t xml:space="preserve">kept </w:t></w:r>
  <w:ins w:id="1" w:author="Ann" w:date="2024-01-01T00:00:00Z"><w:r><w:t>added</w:t></w:r></w:ins>
  <w:del w:id="2" w:author="Bob"><w:r><w:delText>gone</w:delText></w:r></w:del>
  <w:r><w:rPr><w:b/><w:rPrChange w:id="3" w:author="Cy"><w:rPr/></w:rPrChange></w:rPr><w:t>fmt</w:t></w:r>
</w:p>`).convert(t)

	if got := out.Paragraphs()[0].Text(); got != "kept addedfmt" {
		t.Errorf("visible text = %q, want deleted text excluded", got)
	}
	if len(out.Revisions) != 3 {
		t.Fatalf("got %d revisions, want 3", len(out.Revisions))
	}
	want := []struct{ typ, author, text string }{
		{"insert", "Ann", "added"},
		{"delete", "Bob", "gone"},
		{"formatChange", "Cy", "fmt"},
	}
	for i, w := range want {
		r := out.Revisions[i]
		if r.Type != w.typ || r.Author != w.author || r.Text != w.text {
			t.Errorf("revision %d = %+v, want %+v", i, r, w)
		}
	}
	var marked bool
	for _, r := range out.Paragraphs()[0].Runs {
		if r.Text == "added" && r.Revision != nil && r.Revision.Type == "insert" {
			marked = true
		}
	}
	if !marked {
		t.Error("inserted run should carry a revision mark")
	}
	if !out.Metadata.HasTrackChanges {
		t.Error("HasTrackChanges should be set")
	}
}

func TestConvertContentControls(t *testing.T) {
	out := newFixture(`
<w:sdt><w:sdtPr><w:id w:val="10"/><w:tag w:val="client"/><w:alias w:val="Client"/><w:text/></w:sdtPr>
  <w:sdtContent>` + para("ACME") + `</w:sdtContent></w:sdt>
<w:p><w:sdt><w:sdtPr><w:id w:val="11"/><w:dropDownList><w:listItem w:displayText="Red" w:value="r"/><w:listItem w:value="g"/></w:dropDownList></w:sdtPr>
  <w:sdtContent><w:r><w:t>Red</w:t></w:r></w:sdtContent></w:sdt></w:p>
<w:p><w:sdt><w:sdtPr><w14:checkbox><w14:checked w14:val="1"/></w14:checkbox></w:sdtPr>
  <w:sdtContent><w:r><w:t>☒</w:t></w:r></w:sdtContent></w:sdt></w:p>`).convert(t)

	if len(out.ContentControls) != 3 {
		t.Fatalf("got %d content controls, want 3", len(out.ContentControls))
	}
	text := out.ContentControls[0]
	if text.Type != "plainText" || text.Tag != "client" || text.Alias != "Client" || text.Text != "ACME" {
		t.Errorf("text control = %+v", text)
	}
	dd := out.ContentControls[1]
	if dd.Type != "dropDown" || !reflect.DeepEqual(dd.Options, []string{"Red", "g"}) {
		t.Errorf("dropdown control = %+v", dd)
	}
	if cb := out.ContentControls[2]; cb.Type != "checkbox" || !cb.Checked {
		t.Errorf("checkbox control = %+v", cb)
	}
	if got := out.Paragraphs()[0].Text(); got != "ACME" {
		t.Errorf("block content = %q, want ACME", got)
	}
}

func TestConvertAlternateContentFallback(t *testing.T) {
	out := newFixture(`<w:p><w:r><mc:AlternateContent>
  <mc:Choice Requires="wps"><w:drawing><wp:inline><wp:extent cx="1" cy="1"/><a:graphic><a:graphicData uri="urn:unknown"/></a:graphic></wp:inline></w:drawing></mc:Choice>
  <mc:Fallback><w:t>fallback text</w:t></mc:Fallback>
</mc:AlternateContent></w:r></w:p>`).convert(t)

	if got := out.Paragraphs()[0].Text(); got != "fallback text" {
		t.Errorf("text = %q, want fallback text", got)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("a choice rescued by its fallback should not warn: %v", warningMessages(out))
	}
}

func TestConvertProperties(t *testing.T) {
	core := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">
  <dc:title>Quarterly Report</dc:title><dc:creator>Jane</dc:creator><cp:keywords>finance; q3, report</cp:keywords><dc:language>en-US</dc:language>
</cp:coreProperties>`
	app := `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>Microsoft Office Word</Application><Pages>3</Pages><Company>ACME</Company></Properties>`
	settings := xmlPart("w:settings", `<w:defaultTabStop w:val="708"/><w:evenAndOddHeaders/><w:trackRevisions/>`)

	f := newFixture(para("x")).
		part("docProps/core.xml", core).
		part("docProps/app.xml", app).
		part("word/settings.xml", settings).
		rel("", "rIdSet", "settings", "settings.xml")
	out := f.convert(t)

	cp := out.CoreProperties
	if cp.Title != "Quarterly Report" || cp.Author != "Jane" || cp.Company != "ACME" || cp.Pages != 3 {
		t.Errorf("core properties = %+v", cp)
	}
	if !reflect.DeepEqual(cp.Keywords, []string{"finance", "q3", "report"}) {
		t.Errorf("keywords = %q", cp.Keywords)
	}
	if !out.Settings.EvenAndOddHeaders || !out.Settings.TrackRevisions {
		t.Errorf("settings = %+v", out.Settings)
	}
	if !out.Metadata.HasTrackChanges {
		t.Error("trackRevisions should set HasTrackChanges")
	}
}
