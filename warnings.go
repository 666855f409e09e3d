package folio

import (
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
)

// Warning is a non-fatal problem found during an import. The element that
// caused it was skipped or degraded; the rest of the document was imported.
type Warning struct {
	// Part is the package part the element came from, when known.
	Part string
	// Element is the XML element or feature involved, when known.
	Element string
	Message string
}

func (w Warning) String() string {
	return docx.Warning(w).String()
}

func fromDocx(ws []docx.Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning(w)
	}
	return out
}

// FormatWarnings joins warnings into one line per warning.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
