package docx

import (
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// Checkbox glyphs used for form fields and checkbox content controls.
const (
	glyphChecked   = "☒"
	glyphUnchecked = "☐"
)

// fieldState tracks one complex field between its begin and end fldChar.
// Fields may span runs and paragraphs, so the stack lives on the part.
type fieldState struct {
	instr     strings.Builder
	result    strings.Builder
	separated bool
	suppress  bool
	code      string
	args      []string
	ffData    *ooxml.Node
	form      *FormField
	hyperlink string
	anchor    string
	toc       bool
}

func (f *fieldState) parse() {
	tokens := fieldTokens(f.instr.String())
	if len(tokens) == 0 {
		return
	}
	f.code = strings.ToUpper(tokens[0])
	f.args = tokens[1:]
}

// valueSwitches are the field switches followed by a value (\* MERGEFORMAT,
// \l "anchor").
const valueSwitches = "*@#lotfbcsm"

// argument returns the first non-switch argument.
func (f *fieldState) argument() string {
	for i := 0; i < len(f.args); i++ {
		a := f.args[i]
		if strings.HasPrefix(a, `\`) {
			if len(a) == 2 && i+1 < len(f.args) && strings.ContainsAny(a[1:], valueSwitches) {
				i++
			}
			continue
		}
		return a
	}
	return ""
}

// switchValue returns the value following switch name (`\l`).
func (f *fieldState) switchValue(name string) string {
	for i, a := range f.args {
		if strings.EqualFold(a, name) && i+1 < len(f.args) {
			return f.args[i+1]
		}
	}
	return ""
}

// fieldTokens splits a field instruction on whitespace, keeping quoted
// arguments together.
func fieldTokens(instr string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		hasText bool
	)
	for _, r := range instr {
		switch {
		case r == '"':
			quoted = !quoted
			hasText = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if hasText {
				out = append(out, cur.String())
				cur.Reset()
				hasText = false
			}
		default:
			cur.WriteRune(r)
			hasText = true
		}
	}
	if hasText {
		out = append(out, cur.String())
	}
	return out
}

// fieldContext returns the innermost field whose result is being read and
// whether text at this point is visible.
func (pc *partContext) fieldContext() (*fieldState, bool) {
	var inner *fieldState
	for _, f := range pc.fields {
		if !f.separated {
			return nil, false
		}
		if f.suppress {
			return f, false
		}
		inner = f
	}
	return inner, true
}

func (pc *partContext) topField() *fieldState {
	if len(pc.fields) == 0 {
		return nil
	}
	return pc.fields[len(pc.fields)-1]
}

func (pc *partContext) instrText(s string) {
	if f := pc.topField(); f != nil && !f.separated {
		f.instr.WriteString(s)
	}
}

// fieldChar handles a w:fldChar begin, separate or end marker.
func (c *converter) fieldChar(b *paraBuilder, n *ooxml.Node, style TextStyle, ic inlineCtx) {
	pc := b.pc
	switch n.Attr("fldCharType") {
	case "begin":
		pc.fields = append(pc.fields, &fieldState{ffData: n.Child("ffData")})
	case "separate":
		if f := pc.topField(); f != nil && !f.separated {
			c.fieldSeparated(b, f, style, ic)
		}
	case "end":
		f := pc.topField()
		if f == nil {
			return
		}
		if !f.separated {
			c.fieldSeparated(b, f, style, ic)
		}
		pc.fields = pc.fields[:len(pc.fields)-1]
		c.fieldEnded(b, f)
	}
}

// simpleField handles w:fldSimple, whose result runs are its children.
func (c *converter) simpleField(b *paraBuilder, n *ooxml.Node, ic inlineCtx) {
	pc := b.pc
	f := &fieldState{}
	f.instr.WriteString(n.Attr("instr"))
	pc.fields = append(pc.fields, f)
	c.fieldSeparated(b, f, ic.style, ic)
	c.walkInline(b, n, ic)
	pc.fields = pc.fields[:len(pc.fields)-1]
	c.fieldEnded(b, f)
}

// fieldSeparated runs when the instruction is complete. Fields whose
// result is replaced by a placeholder or glyph set suppress.
func (c *converter) fieldSeparated(b *paraBuilder, f *fieldState, style TextStyle, ic inlineCtx) {
	pc := b.pc
	f.separated = true
	f.parse()

	switch f.code {
	case "MERGEFIELD":
		if name := placeholderName(f.argument()); name != "" {
			f.suppress = true
			c.emitFieldText(b, f, "{{"+name+"}}", style, ic)
		}
	case "PAGE", "NUMPAGES", "SECTIONPAGES":
		pc.root().hasPageNumber = true
	case "HYPERLINK":
		f.hyperlink = f.argument()
		f.anchor = f.switchValue(`\l`)
	case "TOC":
		f.toc = true
		pc.tocDepth++
		c.sawTOCField = true
	case "FORMCHECKBOX":
		f.form = c.formField(FormFieldCheckbox, f.ffData)
		f.suppress = true
		glyph := glyphUnchecked
		if f.form.Checked {
			glyph = glyphChecked
		}
		c.emitFieldText(b, f, glyph, style, ic)
	case "FORMDROPDOWN":
		f.form = c.formField(FormFieldDropdown, f.ffData)
		f.suppress = true
		c.emitFieldText(b, f, f.form.Value, style, ic)
	case "FORMTEXT":
		f.form = c.formField(FormFieldText, f.ffData)
	}
}

// emitFieldText adds a run that stands in for a field result.
func (c *converter) emitFieldText(b *paraBuilder, f *fieldState, text string, style TextStyle, ic inlineCtx) {
	if text == "" {
		return
	}
	b.addRun(TextRun{
		Text:      text,
		Style:     style,
		Hyperlink: ic.hyperlink,
		Anchor:    ic.anchor,
		IsField:   true,
		FieldCode: f.code,
		Revision:  ic.revision,
	})
	c.appendRangeText(text)
}

func (c *converter) fieldEnded(b *paraBuilder, f *fieldState) {
	pc := b.pc
	switch f.code {
	case "FORMTEXT":
		if f.form != nil {
			f.form.Value = f.result.String()
		}
	case "TOC":
		if f.toc && pc.tocDepth > 0 {
			pc.tocDepth--
		}
	case "CITATION":
		c.out.Citations = append(c.out.Citations, Citation{
			Tag:            f.argument(),
			Text:           strings.TrimSpace(f.result.String()),
			ParagraphIndex: c.paraIndex,
		})
	}
}

// formField records a legacy form field from its w:ffData.
func (c *converter) formField(typ string, ff *ooxml.Node) *FormField {
	field := &FormField{
		Type:           typ,
		Name:           ff.Val("name"),
		Placeholder:    ff.Val("statusText"),
		ParagraphIndex: c.paraIndex,
	}
	if field.Placeholder == "" {
		field.Placeholder = ff.Val("helpText")
	}

	switch typ {
	case FormFieldCheckbox:
		cb := ff.Child("checkBox")
		field.Default = "false"
		if def := cb.Child("default"); def != nil && units.ParseOnOff(def.Attr("val")) {
			field.Default = "true"
			field.Checked = true
		}
		if checked := cb.Child("checked"); checked != nil {
			field.Checked = units.ParseOnOff(checked.Attr("val"))
		}
		if field.Checked {
			field.Value = "true"
		} else {
			field.Value = "false"
		}
	case FormFieldDropdown:
		dd := ff.Child("ddList")
		for _, e := range dd.Children("listEntry") {
			field.Options = append(field.Options, e.Attr("val"))
		}
		selected := units.ParseInt(dd.Val("default"), 0)
		if r := dd.Val("result"); r != "" {
			selected = units.ParseInt(r, selected)
		}
		if len(field.Options) > 0 {
			field.Default = field.Options[0]
			if selected >= 0 && selected < len(field.Options) {
				field.Value = field.Options[selected]
			}
		}
	case FormFieldText:
		ti := ff.Child("textInput")
		field.Default = ti.Val("default")
		field.MaxLength = units.ParseInt(ti.Val("maxLength"), 0)
	}
	c.out.FormFields = append(c.out.FormFields, field)
	return field
}
