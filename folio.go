// Package folio imports Word documents into the page-based editor model.
//
// Basic usage:
//
//	res, warnings, err := folio.Open("contract.docx").Import()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", folio.FormatWarnings(warnings))
//	}
//
// With options:
//
//	res, _, err := folio.Open("contract.docx").
//	    SkipImages().
//	    WithLogger(log).
//	    Import()
//
// Parse stops after extraction and returns the semantic tree. The docx and
// layout packages can also be used directly.
package folio

// Open returns an Importer for the file at filename. Nothing is read until
// a terminal operation such as Import runs.
//
// Example:
//
//	res, warnings, err := folio.Open("letter.docx").Import()
func Open(filename string) *Importer {
	return &Importer{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Importer for a document held in memory. The slice is
// not copied and must not change while the Importer is in use.
func FromBytes(data []byte) *Importer {
	return &Importer{
		data:     data,
		inMemory: true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustImport is like Must for Import and Parse, discarding warnings.
//
// Example:
//
//	doc := folio.MustImport(folio.Open("letter.docx").Import()).Document
func MustImport[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
