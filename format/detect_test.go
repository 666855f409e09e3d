package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{DOCM, "DOCM"},
		{DOTX, "DOTX"},
		{DOTM, "DOTM"},
		{XLSX, "XLSX"},
		{PDF, "PDF"},
		{ZIP, "ZIP"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Flags(t *testing.T) {
	tests := []struct {
		format                   Format
		word, macros, isTemplate bool
	}{
		{DOCX, true, false, false},
		{DOCM, true, true, false},
		{DOTX, true, false, true},
		{DOTM, true, true, true},
		{XLSX, false, false, false},
		{Unknown, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.format.IsWord(); got != tt.word {
			t.Errorf("%v.IsWord() = %v", tt.format, got)
		}
		if got := tt.format.HasMacros(); got != tt.macros {
			t.Errorf("%v.HasMacros() = %v", tt.format, got)
		}
		if got := tt.format.IsTemplate(); got != tt.isTemplate {
			t.Errorf("%v.IsTemplate() = %v", tt.format, got)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"letter.docx", DOCX},
		{"letter.DOCX", DOCX},
		{"macros.docm", DOCM},
		{"invoice.dotx", DOTX},
		{"invoice.Dotm", DOTM},
		{"book.xlsx", XLSX},
		{"/path/to/file.pdf", PDF},
		{"letter.doc", Unknown},
		{"letter", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"pdf", []byte("%PDF-1.4"), PDF},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, ZIP},
		{"short", []byte{0x50, 0x4B}, Unknown},
		{"empty", nil, Unknown},
		{"text", []byte("Hello, World!"), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func buildZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func contentTypes(mainType string) string {
	return `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Override PartName="/word/document.xml" ContentType="` + mainType + `"/></Types>`
}

func TestDetectFromReader_Word(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Format
	}{
		{"document", map[string]string{
			"[Content_Types].xml": contentTypes(contentTypeDocument),
			"word/document.xml":   "<w:document/>",
		}, DOCX},
		{"macro document", map[string]string{
			"[Content_Types].xml": contentTypes(contentTypeMacroDocument),
			"word/document.xml":   "<w:document/>",
			"word/vbaProject.bin": "\x00",
		}, DOCM},
		{"template", map[string]string{
			"[Content_Types].xml": contentTypes(contentTypeTemplate),
			"word/document.xml":   "<w:document/>",
		}, DOTX},
		{"macro template", map[string]string{
			"[Content_Types].xml": contentTypes(contentTypeMacroTemplate),
			"word/document.xml":   "<w:document/>",
		}, DOTM},
		{"vba part without macro content type", map[string]string{
			"[Content_Types].xml": contentTypes(contentTypeDocument),
			"word/document.xml":   "<w:document/>",
			"word/vbaProject.bin": "\x00",
		}, DOCM},
		{"word folder without content types", map[string]string{
			"word/document.xml": "<w:document/>",
		}, DOCX},
		{"workbook", map[string]string{
			"[Content_Types].xml": `<Types/>`,
			"xl/workbook.xml":     "<workbook/>",
		}, XLSX},
		{"presentation", map[string]string{
			"ppt/presentation.xml": "<p/>",
		}, PPTX},
		{"opendocument", map[string]string{
			"mimetype": "application/vnd.oasis.opendocument.text",
		}, ODT},
		{"plain archive", map[string]string{
			"readme.txt": "hello",
		}, ZIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFromBytes(buildZIP(t, tt.files))
			if err != nil {
				t.Fatalf("DetectFromBytes() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFromBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader_NotZIP(t *testing.T) {
	data := []byte("%PDF-1.4\n%%EOF")
	got, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if got != PDF {
		t.Errorf("DetectFromReader() = %v, want PDF", got)
	}

	data = []byte("plain text")
	if got, _ := DetectFromReader(bytes.NewReader(data), int64(len(data))); got != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", got)
	}
}

func TestDetectFromReader_CorruptZIP(t *testing.T) {
	data := []byte{0x50, 0x4B, 0x03, 0x04, 0x01, 0x02}
	if _, err := DetectFromBytes(data); err == nil {
		t.Error("expected an error for a truncated archive")
	}
}
