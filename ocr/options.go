package ocr

import (
	"errors"
	"strings"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultMaxLength is the longest alt text RecognizeImage returns, in runes.
const DefaultMaxLength = 250

// Option configures a Client.
type Option func(*config)

type config struct {
	languages []string
	maxLength int
}

func newConfig(opts []Option) config {
	cfg := config{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLanguages sets the Tesseract languages, e.g. "eng", "deu".
func WithLanguages(langs ...string) Option {
	return func(c *config) { c.languages = langs }
}

// WithMaxLength caps the recognized text. Zero or less means no cap.
func WithMaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// altText collapses whitespace and truncates to max runes at a word
// boundary when one is available.
func altText(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
