package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t xml:space="preserve">Dear {{name}},</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Thank you for your order.</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const sampleContentTypes = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

// workspace isolates config lookup and writes a sample document.
func workspace(t *testing.T) (dir, docPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": sampleContentTypes,
		"word/document.xml":   sampleDocument,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	docPath = filepath.Join(dir, "letter.docx")
	require.NoError(t, os.WriteFile(docPath, buf.Bytes(), 0o644))
	return dir, docPath
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand("test", "none", "unknown")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestImportToFile(t *testing.T) {
	dir, doc := workspace(t)
	outPath := filepath.Join(dir, "letter.json")

	_, _, err := run(t, "import", doc, "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var decoded struct {
		Pages []struct {
			Components []map[string]any `json:"components"`
		} `json:"pages"`
		Variables map[string]string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Pages, 1)
	assert.Len(t, decoded.Pages[0].Components, 2)
	assert.Contains(t, decoded.Variables, "name")
}

func TestImportParsedToStdout(t *testing.T) {
	_, doc := workspace(t)

	stdout, _, err := run(t, "import", doc, "--parsed")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Elements"`)
	assert.Contains(t, stdout, "Thank you for your order.")
}

func TestImportMissingFile(t *testing.T) {
	dir, _ := workspace(t)

	_, _, err := run(t, "import", filepath.Join(dir, "nope.docx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.docx")
}

func TestImportRequiresOneArg(t *testing.T) {
	workspace(t)
	_, _, err := run(t, "import")
	assert.Error(t, err)
}

func TestInspectSummary(t *testing.T) {
	_, doc := workspace(t)

	stdout, _, err := run(t, "inspect", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "letter.docx (DOCX)")
	assert.Contains(t, stdout, "Paragraphs")
	assert.Contains(t, stdout, "Variables")
	assert.Contains(t, stdout, "name")
}

func TestInspectText(t *testing.T) {
	_, doc := workspace(t)

	stdout, _, err := run(t, "inspect", doc, "--text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dear {{name}},")
	assert.NotContains(t, stdout, "Paragraphs")

	_, _, err = run(t, "inspect", doc, "--text", "--markdown")
	assert.Error(t, err, "--text and --markdown are exclusive")
}

func TestRenderHTML(t *testing.T) {
	dir, doc := workspace(t)
	outPath := filepath.Join(dir, "preview.html")

	_, _, err := run(t, "render", doc, "-o", outPath, "--var", "name=Ann")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.Contains(t, string(data), "Dear Ann,")
}

func TestRenderErrors(t *testing.T) {
	dir, doc := workspace(t)

	_, _, err := run(t, "render", doc)
	assert.Error(t, err, "output is required")

	_, _, err = run(t, "render", doc, "-o", filepath.Join(dir, "out.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")

	_, _, err = run(t, "render", doc, "-o", filepath.Join(dir, "out.html"), "--var", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=value")
}

func TestBadConfig(t *testing.T) {
	dir, doc := workspace(t)
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("layout:\n  line_height_factor: -1\n"), 0o644))

	_, _, err := run(t, "--config", cfgPath, "inspect", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line_height_factor")
}

func TestParseVars(t *testing.T) {
	got, err := parseVars([]string{"name=Ann", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Ann", "note": "a=b", "empty": ""}, got)

	_, err = parseVars([]string{"=x"})
	assert.Error(t, err)
}

func TestMergeVars(t *testing.T) {
	got := mergeVars(map[string]string{"a": "", "b": "def"}, map[string]string{"b": "set", "c": "new"})
	assert.Equal(t, map[string]string{"a": "", "b": "set", "c": "new"}, got)
}
