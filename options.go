package folio

import (
	"go.uber.org/zap"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/layout"
)

// ImportOptions holds configuration for an import.
type ImportOptions struct {
	// Extraction
	skipImages       bool
	skipOrphanImages bool
	keepRawText      bool
	altText          docx.AltTextRecognizer

	// Projection
	layout layout.Options

	logger *zap.Logger
}

// defaultOptions returns the default import options.
func defaultOptions() ImportOptions {
	return ImportOptions{
		layout: layout.DefaultOptions(),
		logger: zap.NewNop(),
	}
}

// clone creates a copy of ImportOptions. Layout options hold no slices, so
// a value copy is deep enough.
func (o ImportOptions) clone() ImportOptions {
	return o
}

func (o ImportOptions) docxOptions() docx.Options {
	return docx.Options{
		Logger:           o.logger,
		SkipImages:       o.skipImages,
		SkipOrphanImages: o.skipOrphanImages,
		AltText:          o.altText,
		KeepRawText:      o.keepRawText,
	}
}
