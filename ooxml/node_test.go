package ooxml

import "testing"

const sampleXML = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
  xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"
  xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p>
      <w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="4"/></w:numPr></w:pPr>
      <w:r><w:t>Hello </w:t></w:r>
      <w:hyperlink r:id="rId7"><w:r><w:t>world</w:t></w:r></w:hyperlink>
      <m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>
    </w:p>
  </w:body>
</w:document>`

func TestNodeNavigation(t *testing.T) {
	root, err := ParseXML([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}
	if root.Name() != "document" || root.Prefix() != "w" || root.QName() != "w:document" {
		t.Errorf("root = %s/%s/%s", root.Name(), root.Prefix(), root.QName())
	}

	p := root.Child("body").Child("p")
	if p == nil {
		t.Fatal("expected a paragraph")
	}
	numPr := p.Child("pPr").Child("numPr")
	if numPr.Val("numId") != "4" || numPr.Val("ilvl") != "1" {
		t.Errorf("numPr = %q/%q", numPr.Val("numId"), numPr.Val("ilvl"))
	}

	link := p.Child("hyperlink")
	if link.Attr("r:id") != "rId7" || link.Attr("id") != "rId7" {
		t.Errorf("hyperlink id lookup failed: %q", link.Attr("r:id"))
	}
	if !link.HasAttr("id") || link.HasAttr("anchor") {
		t.Error("HasAttr mismatch")
	}

	if got := len(p.Children("r", "hyperlink")); got != 2 {
		t.Errorf("Children(r, hyperlink) = %d, want 2", got)
	}
	if got := p.InnerText("w:t"); got != "Hello world" {
		t.Errorf("InnerText(w:t) = %q", got)
	}
	if got := len(p.Descendants("w:r")); got != 2 {
		t.Errorf("Descendants(w:r) = %d, want 2 (math runs excluded)", got)
	}
	if got := len(p.Descendants("r")); got != 3 {
		t.Errorf("Descendants(r) = %d, want 3", got)
	}
	if m := p.FirstDescendant("m:t"); m.Text() != "x" {
		t.Errorf("math text = %q", m.Text())
	}
	if anc := p.FirstDescendant("m:t").Ancestor("oMath"); anc == nil {
		t.Error("Ancestor(oMath) not found")
	}
	if got := len(root.Find("./w:body/w:p")); got != 1 {
		t.Errorf("Find() = %d, want 1", got)
	}
}

func TestNilNodeIsSafe(t *testing.T) {
	var n *Node
	if n.Name() != "" || n.Attr("val") != "" || n.Val("x") != "" || n.Text() != "" {
		t.Error("nil node accessors should return zero values")
	}
	if n.Child("p") != nil || n.Children() != nil || n.Elements() != nil || n.Parent() != nil {
		t.Error("nil node navigation should return nil")
	}
	if n.Is("p") || n.HasAttr("val") {
		t.Error("nil node should match nothing")
	}
	n.Walk(func(*Node) bool { t.Error("Walk visited a nil node"); return true })
}

func TestParseXMLRejectsGarbage(t *testing.T) {
	if _, err := ParseXML([]byte("<a><b></a>")); err == nil {
		t.Error("expected error for malformed XML")
	}
	if _, err := ParseXML(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
