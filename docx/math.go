package docx

import (
	"strings"
	"unicode"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// parseMath converts an OMML element into a MathNode tree. Property
// elements (*Pr) are folded into the node's Text: delimiter characters for
// d, the operator for nary, the accent for acc, the position for bar.
func parseMath(n *ooxml.Node) *MathNode {
	node := &MathNode{Kind: n.Name()}
	switch node.Kind {
	case "r":
		node.Text = n.InnerText("t")
		return node
	case "d":
		pr := n.Child("dPr")
		beg, end := "(", ")"
		if c := pr.Child("begChr"); c != nil {
			beg = c.Attr("val")
		}
		if c := pr.Child("endChr"); c != nil {
			end = c.Attr("val")
		}
		sep := "|"
		if c := pr.Child("sepChr"); c != nil {
			sep = c.Attr("val")
		}
		node.Text = beg + sep + end
	case "nary":
		node.Text = "∫"
		if c := n.Child("naryPr").Child("chr"); c != nil {
			node.Text = c.Attr("val")
		}
	case "acc":
		node.Text = "\u0302"
		if c := n.Child("accPr").Child("chr"); c != nil {
			node.Text = c.Attr("val")
		}
	case "bar":
		node.Text = "bot"
		if p := n.Child("barPr").Child("pos"); p != nil {
			node.Text = p.Attr("val")
		}
	case "groupChr":
		node.Text = "⏟"
		if c := n.Child("groupChrPr").Child("chr"); c != nil {
			node.Text = c.Attr("val")
		}
	case "rad":
		if onOff(n.Child("radPr").Child("degHide")) {
			node.Text = "hide"
		}
	}
	for _, child := range n.Elements() {
		name := child.Name()
		if strings.HasSuffix(name, "Pr") {
			continue
		}
		node.Children = append(node.Children, parseMath(child))
	}
	return node
}

// arg returns the first child of kind, or nil.
func (n *MathNode) arg(kind string) *MathNode {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

func (n *MathNode) args(kind string) []*MathNode {
	var out []*MathNode
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// delimiters splits the Text of a d node into begin, separator and end.
func (n *MathNode) delimiters() (beg, sep, end string) {
	r := []rune(n.Text)
	if len(r) != 3 {
		return "(", "|", ")"
	}
	return string(r[0]), string(r[1]), string(r[2])
}

var latexSymbols = map[rune]string{
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`, 'ε': `\epsilon`,
	'ζ': `\zeta`, 'η': `\eta`, 'θ': `\theta`, 'ι': `\iota`, 'κ': `\kappa`,
	'λ': `\lambda`, 'μ': `\mu`, 'ν': `\nu`, 'ξ': `\xi`, 'π': `\pi`,
	'ρ': `\rho`, 'σ': `\sigma`, 'τ': `\tau`, 'υ': `\upsilon`, 'φ': `\phi`,
	'χ': `\chi`, 'ψ': `\psi`, 'ω': `\omega`, 'Γ': `\Gamma`, 'Δ': `\Delta`,
	'Θ': `\Theta`, 'Λ': `\Lambda`, 'Ξ': `\Xi`, 'Π': `\Pi`, 'Σ': `\Sigma`,
	'Φ': `\Phi`, 'Ψ': `\Psi`, 'Ω': `\Omega`,
	'×': `\times`, '÷': `\div`, '±': `\pm`, '∓': `\mp`, '≤': `\leq`,
	'≥': `\geq`, '≠': `\neq`, '≈': `\approx`, '≡': `\equiv`, '∞': `\infty`,
	'→': `\to`, '←': `\leftarrow`, '⇒': `\Rightarrow`, '∂': `\partial`,
	'∇': `\nabla`, '·': `\cdot`, '∈': `\in`, '∉': `\notin`, '⊂': `\subset`,
	'∪': `\cup`, '∩': `\cap`, '∀': `\forall`, '∃': `\exists`, '…': `\ldots`,
}

var naryOperators = map[string]string{
	"∑": `\sum`, "∏": `\prod`, "∐": `\coprod`, "∫": `\int`, "∬": `\iint`,
	"∭": `\iiint`, "∮": `\oint`, "⋃": `\bigcup`, "⋂": `\bigcap`,
}

var accents = map[string]string{
	"\u0302": `\hat`, "\u0303": `\tilde`, "\u0304": `\bar`, "\u0305": `\overline`,
	"\u0307": `\dot`, "\u0308": `\ddot`, "\u20d7": `\vec`, "\u030c": `\check`,
}

var latexFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"log": true, "ln": true, "exp": true, "lim": true, "max": true, "min": true,
	"sup": true, "inf": true, "det": true, "sinh": true, "cosh": true, "tanh": true,
}

// mathLaTeX renders a MathNode tree as LaTeX. The mapping is heuristic and
// covers the constructs Word's equation editor produces.
func mathLaTeX(n *MathNode) string {
	if n == nil {
		return ""
	}
	sub := func(kind string) string { return mathLaTeX(n.arg(kind)) }
	switch n.Kind {
	case "r":
		return latexText(n.Text)
	case "f":
		return `\frac{` + sub("num") + `}{` + sub("den") + `}`
	case "sSup":
		return group(sub("e")) + `^{` + sub("sup") + `}`
	case "sSub":
		return group(sub("e")) + `_{` + sub("sub") + `}`
	case "sSubSup":
		return group(sub("e")) + `_{` + sub("sub") + `}^{` + sub("sup") + `}`
	case "sPre":
		return `{}_{` + sub("sub") + `}^{` + sub("sup") + `}` + sub("e")
	case "rad":
		deg := sub("deg")
		if n.Text == "hide" || deg == "" {
			return `\sqrt{` + sub("e") + `}`
		}
		return `\sqrt[` + deg + `]{` + sub("e") + `}`
	case "nary":
		op, ok := naryOperators[n.Text]
		if !ok {
			op = `\int`
		}
		if s := sub("sub"); s != "" {
			op += `_{` + s + `}`
		}
		if s := sub("sup"); s != "" {
			op += `^{` + s + `}`
		}
		return op + ` ` + sub("e")
	case "d":
		beg, sep, end := n.delimiters()
		parts := make([]string, 0, len(n.Children))
		for _, e := range n.args("e") {
			parts = append(parts, mathLaTeX(e))
		}
		return `\left` + latexDelimiter(beg) + strings.Join(parts, latexDelimiter(sep)) + `\right` + latexDelimiter(end)
	case "func":
		name := mathText(n.arg("fName"))
		if latexFunctions[name] {
			return `\` + name + `{` + sub("e") + `}`
		}
		return `\operatorname{` + name + `}{` + sub("e") + `}`
	case "acc":
		cmd, ok := accents[n.Text]
		if !ok {
			cmd = `\hat`
		}
		return cmd + `{` + sub("e") + `}`
	case "bar":
		if n.Text == "top" {
			return `\overline{` + sub("e") + `}`
		}
		return `\underline{` + sub("e") + `}`
	case "groupChr":
		return `\underbrace{` + sub("e") + `}`
	case "limLow", "limUpp":
		base := sub("e")
		if latexFunctions[strings.TrimPrefix(base, `\`)] {
			name := `\` + strings.TrimPrefix(base, `\`)
			if n.Kind == "limLow" {
				return name + `_{` + sub("lim") + `}`
			}
			return name + `^{` + sub("lim") + `}`
		}
		if n.Kind == "limLow" {
			return `\underset{` + sub("lim") + `}{` + base + `}`
		}
		return `\overset{` + sub("lim") + `}{` + base + `}`
	case "m":
		rows := make([]string, 0, len(n.Children))
		for _, mr := range n.args("mr") {
			cells := make([]string, 0, len(mr.Children))
			for _, e := range mr.args("e") {
				cells = append(cells, mathLaTeX(e))
			}
			rows = append(rows, strings.Join(cells, " & "))
		}
		return `\begin{matrix}` + strings.Join(rows, ` \\ `) + `\end{matrix}`
	case "eqArr":
		rows := make([]string, 0, len(n.Children))
		for _, e := range n.args("e") {
			rows = append(rows, mathLaTeX(e))
		}
		return `\begin{aligned}` + strings.Join(rows, ` \\ `) + `\end{aligned}`
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(mathLaTeX(c))
	}
	return sb.String()
}

// group braces a multi-character base so scripts bind to all of it.
func group(s string) string {
	if len([]rune(s)) <= 1 || (strings.HasPrefix(s, `\`) && !strings.ContainsAny(s, " {")) {
		return s
	}
	return `{` + s + `}`
}

func latexDelimiter(d string) string {
	switch d {
	case "":
		return "."
	case "{":
		return `\{`
	case "}":
		return `\}`
	case "|":
		return "|"
	case "‖":
		return `\|`
	case "⟨":
		return `\langle`
	case "⟩":
		return `\rangle`
	case "⌈":
		return `\lceil`
	case "⌉":
		return `\rceil`
	case "⌊":
		return `\lfloor`
	case "⌋":
		return `\rfloor`
	}
	return d
}

// latexText maps symbols in a math run to LaTeX commands, spacing a
// command from a following letter.
func latexText(s string) string {
	if fn := strings.TrimSpace(s); latexFunctions[fn] {
		return `\` + fn
	}
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		cmd, ok := latexSymbols[r]
		if !ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString(cmd)
		if i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// mathText renders a MathNode tree as linear plain text.
func mathText(n *MathNode) string {
	if n == nil {
		return ""
	}
	sub := func(kind string) string { return mathText(n.arg(kind)) }
	switch n.Kind {
	case "r":
		return n.Text
	case "f":
		return wrapParens(sub("num")) + "/" + wrapParens(sub("den"))
	case "sSup":
		return sub("e") + "^" + wrapParens(sub("sup"))
	case "sSub":
		return sub("e") + "_" + wrapParens(sub("sub"))
	case "sSubSup":
		return sub("e") + "_" + wrapParens(sub("sub")) + "^" + wrapParens(sub("sup"))
	case "rad":
		if deg := sub("deg"); deg != "" && n.Text != "hide" {
			return deg + "√(" + sub("e") + ")"
		}
		return "√(" + sub("e") + ")"
	case "nary":
		out := n.Text
		if s := sub("sub"); s != "" {
			out += "_" + wrapParens(s)
		}
		if s := sub("sup"); s != "" {
			out += "^" + wrapParens(s)
		}
		return out + " " + sub("e")
	case "d":
		beg, sep, end := n.delimiters()
		parts := make([]string, 0, len(n.Children))
		for _, e := range n.args("e") {
			parts = append(parts, mathText(e))
		}
		return beg + strings.Join(parts, sep) + end
	case "func":
		return sub("fName") + " " + sub("e")
	case "limLow":
		return sub("e") + "_" + wrapParens(sub("lim"))
	case "limUpp":
		return sub("e") + "^" + wrapParens(sub("lim"))
	case "m":
		rows := make([]string, 0, len(n.Children))
		for _, mr := range n.args("mr") {
			cells := make([]string, 0, len(mr.Children))
			for _, e := range mr.args("e") {
				cells = append(cells, mathText(e))
			}
			rows = append(rows, strings.Join(cells, " "))
		}
		return "[" + strings.Join(rows, "; ") + "]"
	case "eqArr":
		rows := make([]string, 0, len(n.Children))
		for _, e := range n.args("e") {
			rows = append(rows, mathText(e))
		}
		return strings.Join(rows, "\n")
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(mathText(c))
	}
	return sb.String()
}

func wrapParens(s string) string {
	if len([]rune(s)) <= 1 {
		return s
	}
	return "(" + s + ")"
}

// newEquation parses an m:oMath and records it.
func (c *converter) newEquation(n *ooxml.Node, display bool) *Equation {
	tree := parseMath(n)
	eq := &Equation{
		Display:        display,
		Components:     tree,
		LaTeX:          strings.TrimSpace(mathLaTeX(tree)),
		PlainText:      strings.TrimSpace(mathText(tree)),
		ParagraphIndex: c.paraIndex,
	}
	c.out.Equations = append(c.out.Equations, eq)
	return eq
}

// displayMath queues each equation of an m:oMathPara behind the current
// paragraph segment.
func (c *converter) displayMath(b *paraBuilder, para *ooxml.Node) {
	for _, om := range para.Children("m:oMath") {
		c.safely(b.pc.name, "oMath", func() error {
			eq := c.newEquation(om, true)
			b.addElement(Element{Type: ElementEquation, Equation: eq})
			return nil
		})
	}
}

// inlineMath records an in-line equation and flows its plain text into
// the paragraph.
func (c *converter) inlineMath(b *paraBuilder, om *ooxml.Node, ic inlineCtx) {
	c.safely(b.pc.name, "oMath", func() error {
		eq := c.newEquation(om, false)
		if eq.PlainText != "" {
			b.addRun(TextRun{Text: eq.PlainText, Style: ic.style, Revision: ic.revision})
			c.appendRangeText(eq.PlainText)
		}
		return nil
	})
}

// mathElement converts a block-level m:oMathPara.
func (c *converter) mathElement(pc *partContext, para *ooxml.Node) ([]Element, bool) {
	var out []Element
	for _, om := range para.Children("m:oMath") {
		c.safely(pc.name, "oMath", func() error {
			eq := c.newEquation(om, true)
			out = append(out, Element{Type: ElementEquation, Equation: eq})
			return nil
		})
	}
	return out, len(out) > 0
}
