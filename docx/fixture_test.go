package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

const nsDecl = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture" ` +
	`xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
	`xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram" ` +
	`xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" ` +
	`xmlns:v="urn:schemas-microsoft-com:vml" ` +
	`xmlns:o="urn:schemas-microsoft-com:office:office" ` +
	`xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape" ` +
	`xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml" ` +
	`xmlns:w15="http://schemas.microsoft.com/office/word/2012/wordml"`

const relNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

type fixtureRel struct {
	id, typ, target string
	external        bool
}

// fixture builds a minimal in-memory DOCX package.
type fixture struct {
	body      string
	files     map[string]string
	rels      map[string][]fixtureRel
	overrides map[string]string
}

func newFixture(body string) *fixture {
	return &fixture{
		body:      body,
		files:     make(map[string]string),
		rels:      make(map[string][]fixtureRel),
		overrides: make(map[string]string),
	}
}

// part adds a raw part.
func (f *fixture) part(name, content string) *fixture {
	f.files[name] = content
	return f
}

// rel adds a relationship from source (word/document.xml when empty).
func (f *fixture) rel(source, id, typ, target string) *fixture {
	if source == "" {
		source = "word/document.xml"
	}
	f.rels[source] = append(f.rels[source], fixtureRel{id: id, typ: typ, target: target, external: strings.HasPrefix(target, "http")})
	return f
}

func (f *fixture) override(part, contentType string) *fixture {
	f.overrides[part] = contentType
	return f
}

func (f *fixture) bytes(t *testing.T) []byte {
	t.Helper()
	files := map[string]string{
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="` + relNS + `officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + nsDecl + `><w:body>` + f.body + `</w:body></w:document>`,
	}

	var ct strings.Builder
	ct.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	for part, typ := range f.overrides {
		fmt.Fprintf(&ct, "\n  <Override PartName=\"/%s\" ContentType=\"%s\"/>", part, typ)
	}
	ct.WriteString("\n</Types>")
	files["[Content_Types].xml"] = ct.String()

	for source, rels := range f.rels {
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
		for _, r := range rels {
			mode := ""
			if r.external {
				mode = ` TargetMode="External"`
			}
			typ := r.typ
			if !strings.Contains(typ, "/") {
				typ = relNS + typ
			}
			fmt.Fprintf(&sb, "\n  <Relationship Id=%q Type=%q Target=%q%s/>", r.id, typ, r.target, mode)
		}
		sb.WriteString("\n</Relationships>")
		files[ooxml.RelsPath(source)] = sb.String()
	}
	for name, content := range f.files {
		files[name] = content
	}
	return buildZip(t, files)
}

func (f *fixture) pkg(t *testing.T) *ooxml.Package {
	t.Helper()
	pkg, err := ooxml.FromBytes(f.bytes(t))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	return pkg
}

// convert runs a conversion and fails the test on a fatal error.
func (f *fixture) convert(t *testing.T) *ParsedContent {
	t.Helper()
	return f.convertWith(t, Options{})
}

func (f *fixture) convertWith(t *testing.T, opts Options) *ParsedContent {
	t.Helper()
	pkg := f.pkg(t)
	defer pkg.Close()
	out, err := Convert(context.Background(), pkg, opts)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return out
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// xmlPart wraps inner content in a root element carrying the usual
// namespace declarations.
func xmlPart(root, inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n<" + root + " " + nsDecl + ">" + inner + "</" + root + ">"
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func paraStyled(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func listPara(numID, level int, text string) string {
	return fmt.Sprintf(`<w:p><w:pPr><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>`, level, numID, text)
}

// tinyPNG is a valid 2x1 PNG.
var tinyPNG = string([]byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x7b, 0x40, 0xe8, 0xdd, 0x00, 0x00, 0x00,
	0x0f, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0xc0,
	0xf0, 0x9f, 0x01, 0x00, 0x07, 0xff, 0x01, 0xff, 0x01, 0x7f, 0x89, 0xa7,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
})

func warningMessages(out *ParsedContent) []string {
	msgs := make([]string, 0, len(out.Warnings))
	for _, w := range out.Warnings {
		msgs = append(msgs, w.String())
	}
	return msgs
}

func hasWarning(out *ParsedContent, substr string) bool {
	for _, w := range out.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}
