// Package template parses the {{…}} placeholder language used by document
// templates. It builds a syntax tree and reports the variables a template
// refers to; it does not evaluate anything.
//
// Supported forms:
//
//	{{name}}                       value
//	{{customer.name}}              dotted path
//	{{amount:currency}}            value with a format
//	{{paid ? "Yes" : "No"}}        ternary
//	{{nickname ?? name}}           null coalescing
//	{{nickname ?: name}}           elvis
//	{{#if x}}…{{else}}…{{/if}}     conditional
//	{{#unless x}}…{{/unless}}      negated conditional
//	{{#each items}}{{this.sku}} {{@index}}{{/each}}
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrUnbalanced is wrapped by errors describing block tags that are not
// properly opened and closed.
var ErrUnbalanced = errors.New("unbalanced block")

var templateLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Else", Pattern: `\{\{\s*else\s*\}\}`},
		{Name: "BlockOpen", Pattern: `\{\{\s*#`, Action: lexer.Push("Tag")},
		{Name: "BlockEnd", Pattern: `\{\{\s*/`, Action: lexer.Push("Tag")},
		{Name: "Open", Pattern: `\{\{`, Action: lexer.Push("Tag")},
		{Name: "Text", Pattern: `[^{]+|\{`},
	},
	"Tag": {
		{Name: "Close", Pattern: `\}\}`, Action: lexer.Pop()},
		{Name: "whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
		{Name: "Number", Pattern: `\d+(\.\d+)?`},
		{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}_\-]*`},
		{Name: "Operator", Pattern: `==|!=|<=|>=|&&|\|\||\?\?|\?:|[?:!<>().]`},
	},
})

var parser = participle.MustBuild[Template](
	participle.Lexer(templateLexer),
	participle.Unquote("String"),
)

// Template is a parsed template.
type Template struct {
	Nodes []*Node `@@*`

	source string
}

// Node is one piece of template content: literal text, a placeholder or a
// block.
type Node struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Text        *string      `  @Text+`
	Block       *Block       `| @@`
	Placeholder *Placeholder `| Open @@ Close`
}

// Block is an #if, #unless or #each section.
type Block struct {
	Pos lexer.Position

	Kind     string  `BlockOpen @("if" | "unless" | "each")`
	Expr     *Expr   `@@ Close`
	Body     []*Node `@@*`
	HasElse  bool    `( @Else`
	ElseBody []*Node `  @@* )?`
	EndKind  string  `BlockEnd @Ident Close`
}

// Placeholder is a {{…}} value with optional format segments, as in
// {{date:"dd MMM yyyy"}}.
type Placeholder struct {
	Expr   *Expr    `@@`
	Format []string `( ":" @(String | Ident | Number) )*`
}

// Expr is the top of the expression grammar.
type Expr struct {
	Cond *Coalesce `@@`
	Then *Expr     `( "?" @@`
	Else *Expr     `  ":" @@ )?`
}

// Coalesce chains ?? and ?: fallbacks.
type Coalesce struct {
	Left  *Or         `@@`
	Right []*Fallback `@@*`
}

type Fallback struct {
	Op    string `@("??" | "?:")`
	Value *Or    `@@`
}

type Or struct {
	Terms []*And `@@ ( "||" @@ )*`
}

type And struct {
	Terms []*Compare `@@ ( "&&" @@ )*`
}

type Compare struct {
	Left  *Unary `@@`
	Op    string `( @("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right *Unary `  @@ )?`
}

type Unary struct {
	Not     bool     `@"!"?`
	Operand *Operand `@@`
}

// Operand is a literal, a variable path or a parenthesised expression.
type Operand struct {
	Keyword *string  `  @("true" | "false" | "null")`
	Path    *Path    `| @@`
	String  *string  `| @String`
	Number  *float64 `| @Number`
	Sub     *Expr    `| "(" @@ ")"`
}

// Path is a dotted variable reference.
type Path struct {
	Parts []string `@Ident ( "." @Ident )*`
}

// String returns the dotted form of the path.
func (p *Path) String() string {
	return strings.Join(p.Parts, ".")
}

// Scoped reports whether the path only has meaning inside an #each body.
func (p *Path) Scoped() bool {
	if len(p.Parts) == 0 {
		return false
	}
	head := p.Parts[0]
	return head == "this" || strings.HasPrefix(head, "@")
}

// Parse parses text. Block tags must be balanced and closed by the same kind
// that opened them.
func Parse(text string) (*Template, error) {
	t, err := parser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	if err := checkBlocks(t.Nodes); err != nil {
		return nil, err
	}
	t.source = text
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func checkBlocks(nodes []*Node) error {
	for _, n := range nodes {
		b := n.Block
		if b == nil {
			continue
		}
		if b.EndKind != b.Kind {
			return fmt.Errorf("template: %w: {{#%s}} at %s closed by {{/%s}}", ErrUnbalanced, b.Kind, b.Pos, b.EndKind)
		}
		if err := checkBlocks(b.Body); err != nil {
			return err
		}
		if err := checkBlocks(b.ElseBody); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks text and describes the first problem found. Unbalanced
// block tags are reported with their position and wrap ErrUnbalanced; other
// problems are the error Parse would return.
func Validate(text string) error {
	tokens, err := parser.Lex("", strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	syms := parser.Lexer().Symbols()

	type open struct {
		kind string
		pos  lexer.Position
	}
	var stack []open
	kindAfter := func(i int) string {
		if i+1 < len(tokens) && tokens[i+1].Type == syms["Ident"] {
			return tokens[i+1].Value
		}
		return ""
	}

	for i, tok := range tokens {
		switch tok.Type {
		case syms["BlockOpen"]:
			stack = append(stack, open{kindAfter(i), tok.Pos})
		case syms["BlockEnd"]:
			kind := kindAfter(i)
			if len(stack) == 0 {
				return fmt.Errorf("template: %w: {{/%s}} at %s has no opening tag", ErrUnbalanced, kind, tok.Pos)
			}
			top := stack[len(stack)-1]
			if top.kind != kind {
				return fmt.Errorf("template: %w: {{#%s}} at %s closed by {{/%s}} at %s", ErrUnbalanced, top.kind, top.pos, kind, tok.Pos)
			}
			stack = stack[:len(stack)-1]
		case syms["Else"]:
			if len(stack) == 0 {
				return fmt.Errorf("template: %w: {{else}} at %s outside a block", ErrUnbalanced, tok.Pos)
			}
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return fmt.Errorf("template: %w: {{#%s}} at %s is never closed", ErrUnbalanced, top.kind, top.pos)
	}

	_, err = Parse(text)
	return err
}

// Variables returns the variable paths the template reads, in order of first
// appearance. Loop-scoped names (this, this.x, @index, @number, @first,
// @last) are left out.
func (t *Template) Variables() []string {
	v := &varCollector{seen: make(map[string]bool)}
	v.nodes(t.Nodes)
	return v.out
}

// Placeholders returns every placeholder in document order, including those
// nested inside blocks.
func (t *Template) Placeholders() []*Placeholder {
	var out []*Placeholder
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			switch {
			case n.Placeholder != nil:
				out = append(out, n.Placeholder)
			case n.Block != nil:
				walk(n.Block.Body)
				walk(n.Block.ElseBody)
			}
		}
	}
	walk(t.Nodes)
	return out
}

// Path returns the variable path when the placeholder is a bare reference
// such as {{name}} or {{total:currency}}, and nil otherwise.
func (p *Placeholder) Path() *Path {
	e := p.Expr
	if e.Then != nil || len(e.Cond.Right) > 0 {
		return nil
	}
	or := e.Cond.Left
	if len(or.Terms) != 1 || len(or.Terms[0].Terms) != 1 {
		return nil
	}
	cmp := or.Terms[0].Terms[0]
	if cmp.Right != nil || cmp.Left.Not {
		return nil
	}
	return cmp.Left.Operand.Path
}

// Source returns the text n was parsed from.
func (t *Template) Source(n *Node) string {
	start, end := n.Pos.Offset, n.EndPos.Offset
	if end <= start || end > len(t.source) {
		end = len(t.source)
	}
	if start < 0 || start > end {
		return ""
	}
	return t.source[start:end]
}

// Substitute replaces top-level bare placeholders whose path is a key of
// values. Blocks, expressions and unknown names are kept as written; the
// template is not evaluated.
func (t *Template) Substitute(values map[string]string) string {
	var sb strings.Builder
	for _, n := range t.Nodes {
		switch {
		case n.Text != nil:
			sb.WriteString(*n.Text)
		case n.Placeholder != nil:
			if p := n.Placeholder.Path(); p != nil {
				if v, ok := values[p.String()]; ok {
					sb.WriteString(v)
					continue
				}
			}
			sb.WriteString(t.Source(n))
		default:
			sb.WriteString(t.Source(n))
		}
	}
	return sb.String()
}

type varCollector struct {
	seen map[string]bool
	out  []string
}

func (v *varCollector) add(p *Path) {
	if p == nil || p.Scoped() {
		return
	}
	name := p.String()
	if !v.seen[name] {
		v.seen[name] = true
		v.out = append(v.out, name)
	}
}

func (v *varCollector) nodes(nodes []*Node) {
	for _, n := range nodes {
		switch {
		case n.Placeholder != nil:
			v.expr(n.Placeholder.Expr)
		case n.Block != nil:
			v.expr(n.Block.Expr)
			v.nodes(n.Block.Body)
			v.nodes(n.Block.ElseBody)
		}
	}
}

func (v *varCollector) expr(e *Expr) {
	if e == nil {
		return
	}
	v.or(e.Cond.Left)
	for _, f := range e.Cond.Right {
		v.or(f.Value)
	}
	v.expr(e.Then)
	v.expr(e.Else)
}

func (v *varCollector) or(o *Or) {
	for _, and := range o.Terms {
		for _, cmp := range and.Terms {
			v.operand(cmp.Left.Operand)
			if cmp.Right != nil {
				v.operand(cmp.Right.Operand)
			}
		}
	}
}

func (v *varCollector) operand(o *Operand) {
	switch {
	case o.Path != nil:
		v.add(o.Path)
	case o.Sub != nil:
		v.expr(o.Sub)
	}
}
