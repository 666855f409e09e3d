package docx

import (
	"testing"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

func mathTree(t *testing.T, inner string) *MathNode {
	t.Helper()
	root, err := ooxml.ParseXML([]byte(xmlPart("m:oMath", inner)))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	return parseMath(root)
}

func mr(text string) string { return `<m:r><m:t>` + text + `</m:t></m:r>` }

func TestMathRendering(t *testing.T) {
	tests := []struct {
		name  string
		omml  string
		latex string
		plain string
	}{
		{"fraction", `<m:f><m:num>` + mr("1") + `</m:num><m:den>` + mr("2") + `</m:den></m:f>`, `\frac{1}{2}`, "1/2"},
		{"superscript", `<m:sSup><m:e>` + mr("x") + `</m:e><m:sup>` + mr("2") + `</m:sup></m:sSup>`, `x^{2}`, "x^2"},
		{"grouped base", `<m:sSub><m:e>` + mr("ab") + `</m:e><m:sub>` + mr("i") + `</m:sub></m:sSub>`, `{ab}_{i}`, "ab_i"},
		{"square root", `<m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/><m:e>` + mr("x") + `</m:e></m:rad>`, `\sqrt{x}`, "√(x)"},
		{"cube root", `<m:rad><m:deg>` + mr("3") + `</m:deg><m:e>` + mr("y") + `</m:e></m:rad>`, `\sqrt[3]{y}`, "3√(y)"},
		{"sum", `<m:nary><m:naryPr><m:chr m:val="∑"/></m:naryPr><m:sub>` + mr("i=1") + `</m:sub><m:sup>` + mr("n") + `</m:sup><m:e>` + mr("i") + `</m:e></m:nary>`,
			`\sum_{i=1}^{n} i`, "∑_(i=1)^n i"},
		{"delimiters", `<m:d><m:dPr><m:begChr m:val="["/><m:endChr m:val="]"/></m:dPr><m:e>` + mr("a") + `</m:e><m:e>` + mr("b") + `</m:e></m:d>`,
			`\left[a|b\right]`, "[a|b]"},
		{"function", `<m:func><m:fName>` + mr("sin") + `</m:fName><m:e>` + mr("x") + `</m:e></m:func>`, `\sin{x}`, "sin x"},
		{"greek", mr("απ+1"), `\alpha \pi+1`, "απ+1"},
		{"matrix", `<m:m><m:mr><m:e>` + mr("1") + `</m:e><m:e>` + mr("0") + `</m:e></m:mr><m:mr><m:e>` + mr("0") + `</m:e><m:e>` + mr("1") + `</m:e></m:mr></m:m>`,
			`\begin{matrix}1 & 0 \\ 0 & 1\end{matrix}`, "[1 0; 0 1]"},
		{"accent", `<m:acc><m:accPr><m:chr m:val="&#x20D7;"/></m:accPr><m:e>` + mr("v") + `</m:e></m:acc>`, `\vec{v}`, "v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mathTree(t, tt.omml)
			if got := mathLaTeX(tree); got != tt.latex {
				t.Errorf("LaTeX = %q, want %q", got, tt.latex)
			}
			if got := mathText(tree); got != tt.plain {
				t.Errorf("plain text = %q, want %q", got, tt.plain)
			}
		})
	}
}

func TestEquationsInDocument(t *testing.T) {
	body := para("intro") +
		`<w:p><m:oMathPara><m:oMath><m:f><m:num>` + mr("1") + `</m:num><m:den>` + mr("2") + `</m:den></m:f></m:oMath></m:oMathPara></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">area </w:t></w:r><m:oMath><m:sSup><m:e>` + mr("x") + `</m:e><m:sup>` + mr("2") + `</m:sup></m:sSup></m:oMath></w:p>`
	out := newFixture(body).convert(t)

	if len(out.Equations) != 2 {
		t.Fatalf("got %d equations, want 2", len(out.Equations))
	}
	display, inline := out.Equations[0], out.Equations[1]
	if !display.Display || display.LaTeX != `\frac{1}{2}` || display.ParagraphIndex != 1 {
		t.Errorf("display equation = %+v", display)
	}
	if inline.Display || inline.LaTeX != `x^{2}` {
		t.Errorf("inline equation = %+v", inline)
	}

	var kinds []ElementType
	for _, el := range out.Elements {
		kinds = append(kinds, el.Type)
	}
	if len(kinds) != 3 || kinds[1] != ElementEquation {
		t.Errorf("element kinds = %v, want paragraph, equation, paragraph", kinds)
	}
	if got := out.Paragraphs()[1].Text(); got != "area x^2" {
		t.Errorf("inline paragraph = %q, want the equation text in line", got)
	}
	if out.Metadata.Equations != 2 {
		t.Errorf("Metadata.Equations = %d", out.Metadata.Equations)
	}
}
