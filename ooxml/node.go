// Package ooxml provides access to Office Open XML packages: the ZIP
// container, its relationship graph, and a generic element tree used by the
// structural extractors.
package ooxml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Namespace URIs keyed by the prefix Word conventionally uses for them.
var namespaces = map[string]string{
	"w":    "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	"r":    "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
	"wp":   "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
	"a":    "http://schemas.openxmlformats.org/drawingml/2006/main",
	"pic":  "http://schemas.openxmlformats.org/drawingml/2006/picture",
	"c":    "http://schemas.openxmlformats.org/drawingml/2006/chart",
	"dgm":  "http://schemas.openxmlformats.org/drawingml/2006/diagram",
	"m":    "http://schemas.openxmlformats.org/officeDocument/2006/math",
	"mc":   "http://schemas.openxmlformats.org/markup-compatibility/2006",
	"v":    "urn:schemas-microsoft-com:vml",
	"o":    "urn:schemas-microsoft-com:office:office",
	"w10":  "urn:schemas-microsoft-com:office:word",
	"wps":  "http://schemas.microsoft.com/office/word/2010/wordprocessingShape",
	"wpg":  "http://schemas.microsoft.com/office/word/2010/wordprocessingGroup",
	"w14":  "http://schemas.microsoft.com/office/word/2010/wordml",
	"w15":  "http://schemas.microsoft.com/office/word/2012/wordml",
	"b":    "http://schemas.openxmlformats.org/officeDocument/2006/bibliography",
	"ds":   "http://schemas.openxmlformats.org/officeDocument/2006/customXml",
	"dc":   "http://purl.org/dc/elements/1.1/",
	"cp":   "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
	"wpc":  "http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas",
	"a14":  "http://schemas.microsoft.com/office/drawing/2010/main",
	"dsp":  "http://schemas.microsoft.com/office/drawing/2008/diagram",
	"wp14": "http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing",
}

// NamespaceURI returns the URI conventionally bound to prefix.
func NamespaceURI(prefix string) string { return namespaces[prefix] }

// Node is a nil-safe view over one XML element. Every accessor on a nil
// *Node returns the zero value, so lookups can be chained without checks:
//
//	n.Child("pPr").Child("numPr").Val("numId")
type Node struct {
	el *etree.Element
}

// ParseXML parses data into a tree and returns its root element.
func ParseXML(data []byte) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	return &Node{el: root}, nil
}

// Wrap returns a Node for el, or nil when el is nil.
func Wrap(el *etree.Element) *Node {
	if el == nil {
		return nil
	}
	return &Node{el: el}
}

// Element exposes the underlying etree element.
func (n *Node) Element() *etree.Element {
	if n == nil {
		return nil
	}
	return n.el
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil {
		return ""
	}
	return n.el.Tag
}

// Prefix returns the element's namespace prefix as written.
func (n *Node) Prefix() string {
	if n == nil {
		return ""
	}
	return n.el.Space
}

// QName returns "prefix:local", or just the local name when unprefixed.
func (n *Node) QName() string {
	if n == nil {
		return ""
	}
	return n.el.FullTag()
}

// Is reports whether the element matches name. A bare name ("p") matches any
// namespace; a qualified name ("w:p") also requires the namespace to match,
// either by prefix or by the URI the prefix conventionally stands for.
func (n *Node) Is(name string) bool {
	if n == nil {
		return false
	}
	prefix, local := splitName(name)
	if n.el.Tag != local {
		return false
	}
	if prefix == "" || n.el.Space == prefix {
		return true
	}
	uri, ok := namespaces[prefix]
	return ok && n.el.NamespaceURI() == uri
}

// Attr returns the value of the named attribute, or "". A bare key matches
// the attribute in any namespace ("val" finds w:val).
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.el.SelectAttrValue(key, "")
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(key string) bool {
	if n == nil {
		return false
	}
	return n.el.SelectAttr(key) != nil
}

// Attrs returns all attributes keyed by local name. Namespace declarations
// are omitted.
func (n *Node) Attrs() map[string]string {
	if n == nil {
		return nil
	}
	out := make(map[string]string, len(n.el.Attr))
	for _, a := range n.el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		out[a.Key] = a.Value
	}
	return out
}

// Val is shorthand for Child(name).Attr("val"), the most common OOXML
// property idiom.
func (n *Node) Val(name string) string {
	return n.Child(name).Attr("val")
}

// Elements returns the child elements in document order.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	children := n.el.ChildElements()
	out := make([]*Node, len(children))
	for i, c := range children {
		out[i] = &Node{el: c}
	}
	return out
}

// Child returns the first child element matching name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.el.ChildElements() {
		child := &Node{el: c}
		if child.Is(name) {
			return child
		}
	}
	return nil
}

// Children returns the child elements matching any of names. With no names,
// every child element is returned.
func (n *Node) Children(names ...string) []*Node {
	if n == nil {
		return nil
	}
	if len(names) == 0 {
		return n.Elements()
	}
	var out []*Node
	for _, c := range n.el.ChildElements() {
		child := &Node{el: c}
		for _, name := range names {
			if child.Is(name) {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// Descendants returns every element below n matching name, in document order.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		if d != n && d.Is(name) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// FirstDescendant returns the first element below n matching name, or nil.
func (n *Node) FirstDescendant(name string) *Node {
	var found *Node
	n.Walk(func(d *Node) bool {
		if found != nil {
			return false
		}
		if d != n && d.Is(name) {
			found = d
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.el.ChildElements() {
		(&Node{el: c}).Walk(fn)
	}
}

// Find returns the elements selected by an etree path ("./w:body/w:p").
func (n *Node) Find(path string) []*Node {
	if n == nil {
		return nil
	}
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	els := n.el.FindElementsPath(p)
	out := make([]*Node, len(els))
	for i, e := range els {
		out[i] = &Node{el: e}
	}
	return out
}

// Text returns the character data directly inside the element.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.el.Text()
}

// InnerText concatenates the character data of every descendant element
// named textName ("t"), in document order.
func (n *Node) InnerText(textName string) string {
	var sb strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Is(textName) {
			sb.WriteString(d.Text())
			return false
		}
		return true
	})
	return sb.String()
}

// Parent returns the parent element, or nil at the root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return Wrap(n.el.Parent())
}

// Ancestor returns the nearest ancestor matching name, or nil.
func (n *Node) Ancestor(name string) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Is(name) {
			return p
		}
	}
	return nil
}

// String serializes the element, mainly for diagnostics and custom XML
// passthrough.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(n.el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
