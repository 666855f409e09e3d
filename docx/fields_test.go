package docx

import (
	"reflect"
	"testing"
)

func complexField(instr, result string) string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">` + instr + `</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
		`<w:r><w:t>` + result + `</w:t></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}

func TestMergeFieldPlaceholders(t *testing.T) {
	out := newFixture(
		`<w:p><w:r><w:t xml:space="preserve">Dear </w:t></w:r>` + complexField(` MERGEFIELD "First Name" \* MERGEFORMAT `, "«First Name»") + `</w:p>` +
			`<w:p><w:fldSimple w:instr=" MERGEFIELD City "><w:r><w:t>«City»</w:t></w:r></w:fldSimple></w:p>` +
			para("Plain «Company» text"),
	).convert(t)

	paras := out.Paragraphs()
	want := []string{"Dear {{First_Name}}", "{{City}}", "Plain {{Company}} text"}
	for i, w := range want {
		if got := paras[i].Text(); got != w {
			t.Errorf("paragraph %d = %q, want %q", i, got, w)
		}
	}
	last := paras[0].Runs[len(paras[0].Runs)-1]
	if !last.IsField || last.FieldCode != "MERGEFIELD" {
		t.Errorf("placeholder run = %+v, want a MERGEFIELD field run", last)
	}
	wantVars := []string{"First_Name", "City", "Company"}
	if !reflect.DeepEqual(out.Metadata.Variables, wantVars) {
		t.Errorf("Variables = %q, want %q", out.Metadata.Variables, wantVars)
	}
}

func TestFieldTokens(t *testing.T) {
	tests := []struct {
		instr string
		want  []string
	}{
		{` MERGEFIELD Name `, []string{"MERGEFIELD", "Name"}},
		{`HYPERLINK "http://x.test/a b" \o "tip"`, []string{"HYPERLINK", "http://x.test/a b", `\o`, "tip"}},
		{`CITATION Smi20 \l 1033`, []string{"CITATION", "Smi20", `\l`, "1033"}},
		{`  `, nil},
	}
	for _, tt := range tests {
		if got := fieldTokens(tt.instr); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("fieldTokens(%q) = %q, want %q", tt.instr, got, tt.want)
		}
	}
}

func TestFieldArgumentSkipsSwitches(t *testing.T) {
	f := &fieldState{}
	f.instr.WriteString(`HYPERLINK \l "_Toc1" \o "tip"`)
	f.parse()
	if got := f.argument(); got != "" {
		t.Errorf("argument() = %q, want empty", got)
	}
	if got := f.switchValue(`\l`); got != "_Toc1" {
		t.Errorf(`switchValue(\l) = %q, want _Toc1`, got)
	}
}

func TestHyperlinks(t *testing.T) {
	out := newFixture(
		`<w:p><w:hyperlink r:id="rIdLink"><w:r><w:t>site</w:t></w:r></w:hyperlink>` +
			`<w:r><w:t xml:space="preserve"> and </w:t></w:r>` +
			`<w:hyperlink w:anchor="intro"><w:r><w:t>intro</w:t></w:r></w:hyperlink>` +
			complexField(`HYPERLINK "https://field.test"`, "field") + `</w:p>`,
	).
		rel("", "rIdLink", "hyperlink", "https://example.com").
		convert(t)

	runs := out.Paragraphs()[0].Runs
	if runs[0].Hyperlink != "https://example.com" {
		t.Errorf("external link = %q", runs[0].Hyperlink)
	}
	if runs[2].Anchor != "intro" {
		t.Errorf("anchor = %q, want intro", runs[2].Anchor)
	}
	if last := runs[len(runs)-1]; last.Hyperlink != "https://field.test" || last.Text != "field" {
		t.Errorf("field link run = %+v", last)
	}
	if out.Metadata.Hyperlinks != 3 {
		t.Errorf("Hyperlinks = %d, want 3", out.Metadata.Hyperlinks)
	}
}

func TestFormFields(t *testing.T) {
	checkbox := `<w:r><w:fldChar w:fldCharType="begin"><w:ffData><w:name w:val="Agree"/><w:checkBox><w:default w:val="0"/><w:checked/></w:checkBox></w:ffData></w:fldChar></w:r>` +
		`<w:r><w:instrText>FORMCHECKBOX</w:instrText></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>`
	dropdown := `<w:r><w:fldChar w:fldCharType="begin"><w:ffData><w:name w:val="Color"/><w:ddList><w:result w:val="1"/><w:listEntry w:val="Red"/><w:listEntry w:val="Blue"/></w:ddList></w:ffData></w:fldChar></w:r>` +
		`<w:r><w:instrText>FORMDROPDOWN</w:instrText></w:r><w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>Red</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>`
	text := `<w:r><w:fldChar w:fldCharType="begin"><w:ffData><w:name w:val="Notes"/><w:statusText w:val="Type here"/><w:textInput><w:default w:val="none"/><w:maxLength w:val="20"/></w:textInput></w:ffData></w:fldChar></w:r>` +
		`<w:r><w:instrText>FORMTEXT</w:instrText></w:r><w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>typed</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>`

	out := newFixture(`<w:p>` + checkbox + `</w:p><w:p>` + dropdown + `</w:p><w:p>` + text + `</w:p>`).convert(t)

	if len(out.FormFields) != 3 {
		t.Fatalf("got %d form fields, want 3", len(out.FormFields))
	}
	cb, dd, tx := out.FormFields[0], out.FormFields[1], out.FormFields[2]
	if cb.Type != FormFieldCheckbox || cb.Name != "Agree" || !cb.Checked || cb.Default != "false" {
		t.Errorf("checkbox = %+v", cb)
	}
	if dd.Type != FormFieldDropdown || dd.Value != "Blue" || !reflect.DeepEqual(dd.Options, []string{"Red", "Blue"}) {
		t.Errorf("dropdown = %+v", dd)
	}
	if tx.Type != FormFieldText || tx.Value != "typed" || tx.Default != "none" || tx.MaxLength != 20 || tx.Placeholder != "Type here" {
		t.Errorf("text = %+v", tx)
	}
	if tx.ParagraphIndex != 2 {
		t.Errorf("text field ParagraphIndex = %d, want 2", tx.ParagraphIndex)
	}

	paras := out.Paragraphs()
	if got := paras[0].Text(); got != glyphChecked {
		t.Errorf("checkbox text = %q, want %q", got, glyphChecked)
	}
	if got := paras[1].Text(); got != "Blue" {
		t.Errorf("dropdown text = %q, want the selected entry", got)
	}
	if got := paras[2].Text(); got != "typed" {
		t.Errorf("text field text = %q, want typed", got)
	}
}

func TestNestedFieldResultHidden(t *testing.T) {
	// The instruction of an outer IF contains a nested field whose result
	// must not leak into the visible text.
	body := `<w:p>` +
		`<w:r><w:fldChar w:fldCharType="begin"/></w:r><w:r><w:instrText>IF </w:instrText></w:r>` +
		complexField("PAGE", "7") +
		`<w:r><w:instrText> = 1 "yes" "no"</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r><w:r><w:t>no</w:t></w:r><w:r><w:fldChar w:fldCharType="end"/></w:r>` +
		`</w:p>`
	out := newFixture(body).convert(t)
	if got := out.Paragraphs()[0].Text(); got != "no" {
		t.Errorf("text = %q, want only the outer result", got)
	}
}

func TestCitations(t *testing.T) {
	out := newFixture(`<w:p>` + complexField(`CITATION Smi20 \l 1033`, "(Smith, 2020)") + `</w:p>`).convert(t)
	if len(out.Citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(out.Citations))
	}
	if c := out.Citations[0]; c.Tag != "Smi20" || c.Text != "(Smith, 2020)" {
		t.Errorf("citation = %+v", c)
	}
	if !out.Metadata.HasBibliography {
		t.Error("a citation should set HasBibliography")
	}
}
