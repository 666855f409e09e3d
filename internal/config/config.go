// Package config loads folio settings from a config file, the environment
// and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	folio "github.com/farid-asgarli/pdf-template-builder-sub000"
	"github.com/farid-asgarli/pdf-template-builder-sub000/layout"
	"github.com/farid-asgarli/pdf-template-builder-sub000/ocr"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render/pdf"
)

// EnvPrefix prefixes environment overrides, e.g. FOLIO_LAYOUT_LINE_HEIGHT_FACTOR.
const EnvPrefix = "FOLIO"

// Config is the complete configuration.
type Config struct {
	Import ImportConfig `mapstructure:"import"`
	Layout LayoutConfig `mapstructure:"layout"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

// ImportConfig controls extraction.
type ImportConfig struct {
	SkipImages       bool     `mapstructure:"skip_images"`
	SkipOrphanImages bool     `mapstructure:"skip_orphan_images"`
	KeepRawText      bool     `mapstructure:"keep_raw_text"`
	OCR              bool     `mapstructure:"ocr"`
	OCRLanguages     []string `mapstructure:"ocr_languages"`
	OCRMaxLength     int      `mapstructure:"ocr_max_length"`
}

// LayoutConfig mirrors layout.Options.
type LayoutConfig struct {
	CharsPerLine      int     `mapstructure:"chars_per_line"`
	LineHeightFactor  float64 `mapstructure:"line_height_factor"`
	TableRowHeightMM  float64 `mapstructure:"table_row_height_mm"`
	SpacingAfterMM    float64 `mapstructure:"spacing_after_mm"`
	DefaultFontSizePt float64 `mapstructure:"default_font_size_pt"`
	AverageCharWidth  float64 `mapstructure:"average_char_width"`
	EmbedImages       bool    `mapstructure:"embed_images"`
	IncludeNotes      bool    `mapstructure:"include_notes"`
}

// RenderConfig configures the reference renderers.
type RenderConfig struct {
	FontPath         string `mapstructure:"font_path"`
	FontFamily       string `mapstructure:"font_family"`
	PageNumberFormat string `mapstructure:"page_number_format"`
	Title            string `mapstructure:"title"`
}

// LogConfig configures logging.
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Default returns the built-in configuration.
func Default() *Config {
	lo := layout.DefaultOptions()
	return &Config{
		Import: ImportConfig{
			OCRLanguages: []string{"eng"},
			OCRMaxLength: ocr.DefaultMaxLength,
		},
		Layout: LayoutConfig{
			CharsPerLine:      lo.CharsPerLine,
			LineHeightFactor:  lo.LineHeightFactor,
			TableRowHeightMM:  lo.TableRowHeightMM,
			SpacingAfterMM:    lo.SpacingAfterMM,
			DefaultFontSizePt: lo.DefaultFontSizePt,
			AverageCharWidth:  lo.AverageCharWidth,
			EmbedImages:       lo.EmbedImages,
			IncludeNotes:      lo.IncludeNotes,
		},
		Render: RenderConfig{
			PageNumberFormat: render.DefaultPageNumberFormat,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("import.skip_images", d.Import.SkipImages)
	v.SetDefault("import.skip_orphan_images", d.Import.SkipOrphanImages)
	v.SetDefault("import.keep_raw_text", d.Import.KeepRawText)
	v.SetDefault("import.ocr", d.Import.OCR)
	v.SetDefault("import.ocr_languages", d.Import.OCRLanguages)
	v.SetDefault("import.ocr_max_length", d.Import.OCRMaxLength)

	v.SetDefault("layout.chars_per_line", d.Layout.CharsPerLine)
	v.SetDefault("layout.line_height_factor", d.Layout.LineHeightFactor)
	v.SetDefault("layout.table_row_height_mm", d.Layout.TableRowHeightMM)
	v.SetDefault("layout.spacing_after_mm", d.Layout.SpacingAfterMM)
	v.SetDefault("layout.default_font_size_pt", d.Layout.DefaultFontSizePt)
	v.SetDefault("layout.average_char_width", d.Layout.AverageCharWidth)
	v.SetDefault("layout.embed_images", d.Layout.EmbedImages)
	v.SetDefault("layout.include_notes", d.Layout.IncludeNotes)

	v.SetDefault("render.font_path", d.Render.FontPath)
	v.SetDefault("render.font_family", d.Render.FontFamily)
	v.SetDefault("render.page_number_format", d.Render.PageNumberFormat)
	v.SetDefault("render.title", d.Render.Title)

	v.SetDefault("log.debug", d.Log.Debug)
}

// Load reads configuration. An explicit path must exist; otherwise .folio
// (yaml, toml or json) is looked up in the working directory and then the
// home directory, and a missing file leaves the defaults. Environment
// variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".folio")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the projector cannot work with.
func (c *Config) Validate() error {
	l := c.Layout
	for _, f := range []struct {
		key string
		val float64
	}{
		{"layout.line_height_factor", l.LineHeightFactor},
		{"layout.table_row_height_mm", l.TableRowHeightMM},
		{"layout.default_font_size_pt", l.DefaultFontSizePt},
		{"layout.average_char_width", l.AverageCharWidth},
	} {
		if f.val <= 0 {
			return fmt.Errorf("config: %s must be positive, got %g", f.key, f.val)
		}
	}
	if l.SpacingAfterMM < 0 {
		return fmt.Errorf("config: layout.spacing_after_mm must not be negative, got %g", l.SpacingAfterMM)
	}
	if l.CharsPerLine < 0 {
		return fmt.Errorf("config: layout.chars_per_line must not be negative, got %d", l.CharsPerLine)
	}
	if c.Import.OCRMaxLength < 0 {
		return fmt.Errorf("config: import.ocr_max_length must not be negative, got %d", c.Import.OCRMaxLength)
	}
	return nil
}

// LayoutOptions converts the layout section.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.CharsPerLine = c.Layout.CharsPerLine
	opts.LineHeightFactor = c.Layout.LineHeightFactor
	opts.TableRowHeightMM = c.Layout.TableRowHeightMM
	opts.SpacingAfterMM = c.Layout.SpacingAfterMM
	opts.DefaultFontSizePt = c.Layout.DefaultFontSizePt
	opts.AverageCharWidth = c.Layout.AverageCharWidth
	opts.EmbedImages = c.Layout.EmbedImages && !c.Import.SkipImages
	opts.IncludeNotes = c.Layout.IncludeNotes
	return opts
}

// OCROptions converts the OCR settings.
func (c *Config) OCROptions() []ocr.Option {
	return []ocr.Option{
		ocr.WithLanguages(c.Import.OCRLanguages...),
		ocr.WithMaxLength(c.Import.OCRMaxLength),
	}
}

// PDFOptions converts the render section for the PDF renderer.
func (c *Config) PDFOptions() pdf.Options {
	return pdf.Options{
		FontPath:   c.Render.FontPath,
		FontFamily: c.Render.FontFamily,
	}
}

// Bindings returns render bindings carrying vars and the configured page
// number format.
func (c *Config) Bindings(vars map[string]string) render.Bindings {
	return render.Bindings{
		Variables:        vars,
		PageNumberFormat: c.Render.PageNumberFormat,
	}
}

// Apply configures im with the import and layout sections. OCR is wired
// separately because it needs a client the caller must close.
func (c *Config) Apply(im *folio.Importer) *folio.Importer {
	im = im.WithOptions(c.LayoutOptions())
	if c.Import.SkipImages {
		im = im.SkipImages()
	}
	if c.Import.SkipOrphanImages {
		im = im.SkipOrphanImages()
	}
	if c.Import.KeepRawText {
		im = im.KeepRawText()
	}
	return im
}
