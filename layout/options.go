package layout

import (
	"strconv"

	"github.com/google/uuid"
)

// Options configures a Projector.
type Options struct {
	// CharsPerLine fixes the number of characters per line of body text.
	// Zero derives it from the text width and font size.
	CharsPerLine int

	// LineHeightFactor is the line height as a multiple of the font size for
	// single spacing.
	// Default: 1.15
	LineHeightFactor float64

	// TableRowHeightMM is the estimated height of a one-line table row.
	// Default: 8
	TableRowHeightMM float64

	// SpacingAfterMM is used for paragraphs that declare no spacing after.
	// Default: 2
	SpacingAfterMM float64

	// DefaultFontSizePt applies to runs without a size.
	// Default: 11
	DefaultFontSizePt float64

	// AverageCharWidth is the average glyph advance as a fraction of the
	// font size, used to derive characters per line.
	// Default: 0.5
	AverageCharWidth float64

	// EmbedImages stores image bytes as data URIs in the "src" property.
	// Default: true
	EmbedImages bool

	// IncludeNotes appends footnotes and endnotes after the body.
	// Default: true
	IncludeNotes bool

	// IDFunc generates component IDs.
	// Default: uuid.NewString
	IDFunc func() string
}

// DefaultOptions returns the default projector configuration.
func DefaultOptions() Options {
	return Options{
		LineHeightFactor:  1.15,
		TableRowHeightMM:  8,
		SpacingAfterMM:    2,
		DefaultFontSizePt: 11,
		AverageCharWidth:  0.5,
		EmbedImages:       true,
		IncludeNotes:      true,
		IDFunc:            uuid.NewString,
	}
}

// withDefaults fills zero numeric fields and a nil IDFunc.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.LineHeightFactor <= 0 {
		o.LineHeightFactor = def.LineHeightFactor
	}
	if o.TableRowHeightMM <= 0 {
		o.TableRowHeightMM = def.TableRowHeightMM
	}
	if o.SpacingAfterMM < 0 {
		o.SpacingAfterMM = def.SpacingAfterMM
	}
	if o.DefaultFontSizePt <= 0 {
		o.DefaultFontSizePt = def.DefaultFontSizePt
	}
	if o.AverageCharWidth <= 0 {
		o.AverageCharWidth = def.AverageCharWidth
	}
	if o.IDFunc == nil {
		o.IDFunc = def.IDFunc
	}
	return o
}

// SequentialIDs returns an IDFunc producing prefix-1, prefix-2, ... for
// reproducible output.
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
