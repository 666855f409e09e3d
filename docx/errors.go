package docx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// Errors that abort a conversion. Everything else is reported as a Warning.
var (
	ErrNotDOCX         = errors.New("docx: package is not a word-processing document")
	ErrMissingDocument = errors.New("docx: main document part not found")
	ErrMissingBody     = errors.New("docx: document body missing or unreadable")
	ErrCorruptPackage  = ooxml.ErrCorruptPackage
)

// Warning describes an element that was skipped or degraded.
type Warning struct {
	Part    string
	Element string
	Message string
}

func (w Warning) String() string {
	var sb strings.Builder
	if w.Part != "" {
		sb.WriteString(w.Part)
	}
	if w.Element != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("<" + w.Element + ">")
	}
	if sb.Len() > 0 {
		sb.WriteString(": ")
	}
	sb.WriteString(w.Message)
	return sb.String()
}

// panicError wraps a recovered panic value.
type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.value)
}
