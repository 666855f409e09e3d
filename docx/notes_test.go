package docx

import "testing"

const footnotesPart = `<w:footnote w:type="separator" w:id="-1"><w:p><w:r><w:separator/></w:r></w:p></w:footnote>` +
	`<w:footnote w:type="continuationSeparator" w:id="0"><w:p><w:r><w:continuationSeparator/></w:r></w:p></w:footnote>` +
	`<w:footnote w:id="1"><w:p><w:r><w:footnoteRef/></w:r><w:r><w:t xml:space="preserve"> First note</w:t></w:r></w:p></w:footnote>` +
	`<w:footnote w:id="2"><w:p><w:r><w:footnoteRef/></w:r><w:r><w:t xml:space="preserve"> Second note</w:t></w:r></w:p></w:footnote>`

func TestNotes(t *testing.T) {
	body := `<w:p><w:r><w:t>See</w:t></w:r><w:r><w:footnoteReference w:id="2"/></w:r>` +
		`<w:r><w:t xml:space="preserve"> and</w:t></w:r><w:r><w:footnoteReference w:id="1"/></w:r>` +
		`<w:r><w:endnoteReference w:id="1"/></w:r></w:p>`
	out := newFixture(body).
		part("word/footnotes.xml", xmlPart("w:footnotes", footnotesPart)).
		part("word/endnotes.xml", xmlPart("w:endnotes",
			`<w:endnote w:id="1"><w:p><w:r><w:endnoteRef/></w:r><w:r><w:t xml:space="preserve"> The end</w:t></w:r></w:p></w:endnote>`)).
		rel("", "rIdFn", "footnotes", "footnotes.xml").
		rel("", "rIdEn", "endnotes", "endnotes.xml").
		convert(t)

	if len(out.Footnotes) != 2 {
		t.Fatalf("got %d footnotes, want 2 (separators skipped)", len(out.Footnotes))
	}
	byID := map[string]*Note{}
	for _, n := range out.Footnotes {
		byID[n.ID] = n
	}
	// Markers follow the order of first reference, not the note ids.
	if got := byID["2"].ReferenceMarker; got != "1" {
		t.Errorf("note 2 marker = %q, want 1", got)
	}
	if got := byID["1"].ReferenceMarker; got != "2" {
		t.Errorf("note 1 marker = %q, want 2", got)
	}
	if got := byID["1"].Text(); got != "First note" {
		t.Errorf("note 1 text = %q, want First note", got)
	}

	if len(out.Endnotes) != 1 || out.Endnotes[0].ReferenceMarker != "i" {
		t.Fatalf("endnotes = %+v, want one with marker i", out.Endnotes)
	}

	runs := out.Paragraphs()[0].Runs
	ref := runs[1]
	if ref.FootnoteRef != "2" || ref.Text != "1" || ref.Style.VerticalAlign != "superscript" {
		t.Errorf("reference run = %+v", ref)
	}
	if last := runs[len(runs)-1]; last.EndnoteRef != "1" || last.Text != "i" {
		t.Errorf("endnote reference run = %+v", last)
	}
}

func TestNotesCustomMark(t *testing.T) {
	body := `<w:p><w:r><w:footnoteReference w:customMarkFollows="1" w:id="1"/><w:t>*</w:t></w:r></w:p>`
	out := newFixture(body).
		part("word/footnotes.xml", xmlPart("w:footnotes", footnotesPart)).
		convert(t)
	if got := out.Paragraphs()[0].Text(); got != "*" {
		t.Errorf("text = %q, want only the custom mark", got)
	}
}

func TestComments(t *testing.T) {
	body := `<w:p><w:commentRangeStart w:id="0"/><w:r><w:t>commented</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>text</w:t></w:r><w:commentRangeEnd w:id="0"/><w:r><w:commentReference w:id="0"/></w:r></w:p>`
	comments := `<w:comment w:id="0" w:author="Ann Lee" w:initials="AL" w:date="2024-03-01T10:00:00Z">` +
		`<w:p w14:paraId="0000000A"><w:r><w:t>Please check</w:t></w:r></w:p></w:comment>` +
		`<w:comment w:id="1" w:author="Bob" w:initials="B">` +
		`<w:p w14:paraId="0000000B"><w:r><w:t>Done</w:t></w:r></w:p>` +
		`<w:p w14:paraId="0000000C"><w:r><w:t>twice</w:t></w:r></w:p></w:comment>`
	extended := `<w15:commentEx w15:paraId="0000000A" w15:done="1"/>` +
		`<w15:commentEx w15:paraId="0000000C" w15:paraIdParent="0000000A" w15:done="0"/>`

	out := newFixture(body).
		part("word/comments.xml", xmlPart("w:comments", comments)).
		part("word/commentsExtended.xml", xmlPart("w15:commentsEx", extended)).
		rel("", "rIdC", "comments", "comments.xml").
		rel("", "rIdCx", "http://schemas.microsoft.com/office/2011/relationships/commentsExtended", "commentsExtended.xml").
		convert(t)

	if len(out.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(out.Comments))
	}
	first, reply := out.Comments[0], out.Comments[1]
	if first.Author != "Ann Lee" || first.Initials != "AL" || first.Date != "2024-03-01T10:00:00Z" {
		t.Errorf("comment header = %+v", first)
	}
	if first.Text != "Please check" {
		t.Errorf("Text = %q", first.Text)
	}
	if first.RangeText != "commented\ntext" {
		t.Errorf("RangeText = %q, want the text of both paragraphs", first.RangeText)
	}
	if !first.Resolved {
		t.Error("first comment should be resolved")
	}
	if reply.Text != "Done\ntwice" || reply.ParaID != "0000000C" {
		t.Errorf("reply = %+v", reply)
	}
	if reply.ParentID != "0" || reply.Resolved {
		t.Errorf("reply threading = parent %q resolved %v, want parent 0 unresolved", reply.ParentID, reply.Resolved)
	}

	runs := out.Paragraphs()[1].Runs
	if runs[len(runs)-1].CommentRef != "0" {
		t.Errorf("last run = %+v, want a comment reference", runs[len(runs)-1])
	}
}

func TestBookmarks(t *testing.T) {
	body := para("before") +
		`<w:p><w:bookmarkStart w:id="1" w:name="intro"/><w:r><w:t>Hello</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>World</w:t></w:r><w:bookmarkEnd w:id="1"/>` +
		`<w:bookmarkStart w:id="2" w:name="_GoBack"/><w:bookmarkEnd w:id="2"/></w:p>`
	out := newFixture(body).convert(t)

	if len(out.Bookmarks) != 1 {
		t.Fatalf("got %d bookmarks, want 1 (_GoBack ignored)", len(out.Bookmarks))
	}
	bm := out.Bookmarks[0]
	if bm.Name != "intro" || bm.ID != "1" || bm.ParagraphIndex != 1 {
		t.Errorf("bookmark = %+v", bm)
	}
	if bm.Text != "Hello\nWorld" {
		t.Errorf("bookmark text = %q, want Hello\\nWorld", bm.Text)
	}
	if names := out.Paragraphs()[1].BookmarkNames; len(names) != 1 || names[0] != "intro" {
		t.Errorf("BookmarkNames = %q", names)
	}
}

func TestUnclosedBookmark(t *testing.T) {
	out := newFixture(`<w:p><w:bookmarkStart w:id="5" w:name="open"/><w:r><w:t>tail</w:t></w:r></w:p>`).convert(t)
	if len(out.Bookmarks) != 1 || out.Bookmarks[0].Text != "tail" {
		t.Errorf("bookmarks = %+v, want the open range closed at the end", out.Bookmarks)
	}
}

func TestHeadersFooters(t *testing.T) {
	header := `<w:p><w:r><w:pict>` +
		`<v:shape id="PowerPlusWaterMarkObject1" o:spid="_x0000_s2049" type="#_x0000_t136" ` +
		`style="position:absolute;width:468pt;height:117pt;z-index:-251657216" fillcolor="#c0c0c0" stroked="f">` +
		`<v:textpath string="DRAFT"/></v:shape></w:pict></w:r></w:p>` +
		para("Header text")
	footer := `<w:p><w:r><w:t xml:space="preserve">Page </w:t></w:r>` +
		`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple></w:p>`
	body := para("Body") +
		`<w:sectPr><w:headerReference w:type="default" r:id="rIdH"/>` +
		`<w:headerReference w:type="first" r:id="rIdH"/>` +
		`<w:footerReference w:type="default" r:id="rIdF"/>` +
		`<w:pgSz w:w="12240" w:h="15840"/><w:titlePg/></w:sectPr>`

	out := newFixture(body).
		part("word/header1.xml", xmlPart("w:hdr", header)).
		part("word/footer1.xml", xmlPart("w:ftr", footer)).
		rel("", "rIdH", "header", "header1.xml").
		rel("", "rIdF", "footer", "footer1.xml").
		convert(t)

	def := out.Headers["default"]
	if def == nil {
		t.Fatal("missing default header")
	}
	if def.Part != "word/header1.xml" || def.Kind != partHeader {
		t.Errorf("header = %s %s", def.Kind, def.Part)
	}
	if def.Watermark == nil || def.Watermark.WatermarkText != "DRAFT" || !def.Watermark.IsWatermark {
		t.Fatalf("watermark = %+v, want DRAFT", def.Watermark)
	}
	if def.Watermark.FillColor != "#C0C0C0" || !def.Watermark.BehindText {
		t.Errorf("watermark fill %q behind %v", def.Watermark.FillColor, def.Watermark.BehindText)
	}
	var texts []string
	for _, p := range flattenParagraphs(def.Elements) {
		if p.Text() != "" {
			texts = append(texts, p.Text())
		}
	}
	if len(texts) != 1 || texts[0] != "Header text" {
		t.Errorf("header texts = %q, want only Header text", texts)
	}

	first := out.Headers["first"]
	if first == nil || first.Type != "first" || first.Watermark != def.Watermark {
		t.Errorf("first header = %+v, want a copy of the shared part", first)
	}
	if def.Type != "default" {
		t.Errorf("shared part changed the default header type to %q", def.Type)
	}

	foot := out.Footers["default"]
	if foot == nil || !foot.HasPageNumber {
		t.Fatalf("footer = %+v, want a page number", foot)
	}
	if def.HasPageNumber {
		t.Error("header has no page field")
	}
	if out.Watermark() != def.Watermark || !out.Metadata.HasWatermark {
		t.Error("document watermark not reported")
	}
	if len(out.Paragraphs()) != 1 {
		t.Errorf("header content leaked into the body: %d paragraphs", len(out.Paragraphs()))
	}
}

func TestMissingHeaderPartWarns(t *testing.T) {
	body := para("x") + `<w:sectPr><w:headerReference w:type="default" r:id="rIdH"/></w:sectPr>`
	out := newFixture(body).rel("", "rIdH", "header", "header9.xml").convert(t)
	if len(out.Headers) != 0 {
		t.Errorf("headers = %v, want none", out.Headers)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %q, want one", warningMessages(out))
	}
}
