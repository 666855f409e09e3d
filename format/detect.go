// Package format identifies Word packages and tells them apart from other
// files, including other Office Open XML documents.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a detected file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Word document (.docx).
	DOCX
	// DOCM indicates a macro-enabled Word document (.docm).
	DOCM
	// DOTX indicates a Word template (.dotx).
	DOTX
	// DOTM indicates a macro-enabled Word template (.dotm).
	DOTM
	// XLSX indicates an Excel workbook.
	XLSX
	// PPTX indicates a PowerPoint presentation.
	PPTX
	// ODT indicates an OpenDocument text document.
	ODT
	// PDF indicates a PDF file.
	PDF
	// ZIP indicates a ZIP archive that is not a recognized document.
	ZIP
)

// Main document part content types.
const (
	contentTypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	contentTypeTemplate      = "application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml"
	contentTypeMacroDocument = "application/vnd.ms-word.document.macroEnabled.main+xml"
	contentTypeMacroTemplate = "application/vnd.ms-word.template.macroEnabledTemplate.main+xml"
)

var names = map[Format]string{
	DOCX: "DOCX",
	DOCM: "DOCM",
	DOTX: "DOTX",
	DOTM: "DOTM",
	XLSX: "XLSX",
	PPTX: "PPTX",
	ODT:  "ODT",
	PDF:  "PDF",
	ZIP:  "ZIP",
}

var extensions = map[Format]string{
	DOCX: ".docx",
	DOCM: ".docm",
	DOTX: ".dotx",
	DOTM: ".dotm",
	XLSX: ".xlsx",
	PPTX: ".pptx",
	ODT:  ".odt",
	PDF:  ".pdf",
	ZIP:  ".zip",
}

// String returns the string representation of the format.
func (f Format) String() string {
	if s, ok := names[f]; ok {
		return s
	}
	return "Unknown"
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	return extensions[f]
}

// IsWord reports whether the format is a word-processing package the
// importer accepts.
func (f Format) IsWord() bool {
	return f == DOCX || f == DOCM || f == DOTX || f == DOTM
}

// HasMacros reports whether the format is macro-enabled.
func (f Format) HasMacros() bool {
	return f == DOCM || f == DOTM
}

// IsTemplate reports whether the format is a Word template.
func (f Format) IsTemplate() bool {
	return f == DOTX || f == DOTM
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for f, e := range extensions {
		if e == ext {
			return f
		}
	}
	return Unknown
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
)

// DetectFromMagic checks leading bytes. ZIP archives report ZIP; use
// DetectFromReader to tell ZIP-based formats apart.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return PDF
	case bytes.HasPrefix(data, zipMagic):
		return ZIP
	}
	return Unknown
}

// DetectFromBytes is DetectFromReader over an in-memory file.
func DetectFromBytes(data []byte) (Format, error) {
	return DetectFromReader(bytes.NewReader(data), int64(len(data)))
}

// DetectFromReader inspects the content to determine format. For Word
// packages the main part's content type decides between document,
// template and their macro-enabled variants.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	f := DetectFromMagic(magic[:n])
	if f != ZIP {
		return f, nil
	}
	return detectZIPFormat(r, size)
}

func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var contentTypes []byte
	var hasWord, hasVBA, hasXL, hasPPT bool
	for _, f := range zr.File {
		switch {
		case f.Name == "mimetype":
			if data, err := readSmall(f, 256); err == nil &&
				strings.Contains(string(data), "application/vnd.oasis.opendocument.text") {
				return ODT, nil
			}
		case f.Name == "[Content_Types].xml":
			if contentTypes, err = readSmall(f, 1<<20); err != nil {
				return Unknown, err
			}
		case f.Name == "word/vbaProject.bin":
			hasVBA = true
			hasWord = true
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		case strings.HasPrefix(f.Name, "xl/"):
			hasXL = true
		case strings.HasPrefix(f.Name, "ppt/"):
			hasPPT = true
		}
	}

	ct := string(contentTypes)
	switch {
	case strings.Contains(ct, contentTypeMacroTemplate):
		return DOTM, nil
	case strings.Contains(ct, contentTypeMacroDocument):
		return DOCM, nil
	case strings.Contains(ct, contentTypeTemplate):
		if hasVBA {
			return DOTM, nil
		}
		return DOTX, nil
	case strings.Contains(ct, contentTypeDocument):
		if hasVBA {
			return DOCM, nil
		}
		return DOCX, nil
	case hasWord && hasVBA:
		return DOCM, nil
	case hasWord:
		return DOCX, nil
	case hasXL:
		return XLSX, nil
	case hasPPT:
		return PPTX, nil
	}
	return ZIP, nil
}

func readSmall(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, limit))
}
