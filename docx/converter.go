// Package docx converts Word (.docx) packages into a layout-agnostic
// document model: paragraphs, tables, images, shapes and the side
// collections (notes, comments, charts, revisions, ...) Word stores beside
// the body.
package docx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/farid-asgarli/pdf-template-builder-sub000/numbering"
	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// AltTextRecognizer produces a description for an image. The ocr package
// provides one.
type AltTextRecognizer interface {
	RecognizeImage(data []byte) (string, error)
}

// Options configures a conversion. The zero value is ready to use.
type Options struct {
	// Logger receives per-phase debug logs and one warning per skipped
	// element. Nil means no logging.
	Logger *zap.Logger
	// SkipImages leaves Image.Data empty; geometry is still extracted.
	SkipImages bool
	// SkipOrphanImages disables recovery of unreferenced media parts.
	SkipOrphanImages bool
	// AltText fills Image.AltText for images without a description.
	AltText AltTextRecognizer
	// KeepRawText disables NFC normalization of run text.
	KeepRawText bool
}

// converter holds the mutable state of one conversion.
type converter struct {
	ctx  context.Context
	pkg  *ooxml.Package
	opts Options
	log  *zap.Logger
	out  *ParsedContent

	mainPart  string
	docRels   *ooxml.Rels
	theme     *Theme
	styles    *StyleResolver
	numbering numbering.Cache
	numState  *numbering.State
	seenLists map[string]bool
	badNumIDs map[string]bool

	usedMedia   map[string]bool
	noteNumbers map[string]map[string]int
	openRanges  map[string]*openRange
	rangeText   map[string]string
	paraIndex   int
	tocParas    []tocCandidate
	sawTOCField bool
	sawTrack    bool
	hfParts     map[string]*HeaderFooter
	pageWidthMM float64
}

// Convert runs the full import pipeline over pkg. Only an unreadable
// package or a missing main document body is fatal; every other problem
// is recorded in ParsedContent.Warnings.
func Convert(ctx context.Context, pkg *ooxml.Package, opts Options) (*ParsedContent, error) {
	if pkg == nil {
		return nil, fmt.Errorf("converting: %w", ErrCorruptPackage)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &converter{
		ctx:         ctx,
		pkg:         pkg,
		opts:        opts,
		log:         log,
		out:         newParsedContent(),
		numState:    numbering.NewState(),
		seenLists:   make(map[string]bool),
		badNumIDs:   make(map[string]bool),
		usedMedia:   make(map[string]bool),
		noteNumbers: map[string]map[string]int{"footnote": {}, "endnote": {}},
		openRanges:  make(map[string]*openRange),
		rangeText:   make(map[string]string),
		hfParts:     make(map[string]*HeaderFooter),
	}
	if err := c.run(); err != nil {
		return nil, err
	}
	return c.out, nil
}

// ConvertFile opens filename and converts it.
func ConvertFile(ctx context.Context, filename string, opts Options) (*ParsedContent, error) {
	pkg, err := ooxml.Open(filename)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()
	return Convert(ctx, pkg, opts)
}

func newParsedContent() *ParsedContent {
	return &ParsedContent{
		Headers:      make(map[string]*HeaderFooter),
		Footers:      make(map[string]*HeaderFooter),
		PageSettings: DefaultPageSettings(),
	}
}

type phase struct {
	name string
	fn   func()
}

func (c *converter) run() error {
	body, err := c.openDocument()
	if err != nil {
		return err
	}

	setup := []phase{
		{"theme", c.loadTheme},
		{"styles", c.loadStyles},
		{"settings", c.loadSettings},
		{"properties", c.loadProperties},
		{"numbering", c.loadNumbering},
	}
	if err := c.runPhases(setup); err != nil {
		return err
	}

	if err := c.checkContext(); err != nil {
		return err
	}
	c.walkBody(body)
	c.log.Debug("body parsed",
		zap.Int("elements", len(c.out.Elements)),
		zap.Int("paragraphs", c.paraIndex))

	rest := []phase{
		{"headers", c.loadHeadersFooters},
		{"notes", c.loadNotes},
		{"comments", c.loadComments},
		{"toc", c.buildTOC},
		{"customXml", c.loadCustomXML},
		{"orphanImages", c.recoverOrphanImages},
		{"altText", c.recognizeAltText},
		{"metadata", c.computeMetadata},
	}
	return c.runPhases(rest)
}

func (c *converter) runPhases(phases []phase) error {
	for _, p := range phases {
		if err := c.checkContext(); err != nil {
			return err
		}
		c.safely("", p.name, func() error {
			p.fn()
			return nil
		})
		c.log.Debug("phase complete", zap.String("phase", p.name), zap.Int("warnings", len(c.out.Warnings)))
	}
	return nil
}

func (c *converter) checkContext() error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}
	return nil
}

// openDocument validates the package and returns the w:body element.
func (c *converter) openDocument() (*ooxml.Node, error) {
	c.mainPart = c.pkg.MainDocument()
	if !c.pkg.Has(c.mainPart) {
		if c.pkg.Has("xl/workbook.xml") || c.pkg.Has("ppt/presentation.xml") || !c.pkg.HasContentTypes() {
			return nil, ErrNotDOCX
		}
		return nil, ErrMissingDocument
	}
	if ct := c.pkg.ContentType(c.mainPart); ct != "" && !strings.Contains(ct, "wordprocessingml") && !strings.Contains(ct, "ms-word") {
		return nil, fmt.Errorf("%w: main part content type %q", ErrNotDOCX, ct)
	}

	root, err := c.pkg.XML(c.mainPart)
	if err != nil {
		if errors.Is(err, ooxml.ErrPartNotFound) {
			return nil, ErrMissingDocument
		}
		return nil, fmt.Errorf("%w: %v", ErrMissingBody, err)
	}
	body := root.Child("body")
	if !root.Is("document") || body == nil {
		return nil, ErrMissingBody
	}
	c.docRels = c.pkg.Relationships(c.mainPart)
	return body, nil
}

// partFor returns the target of the first document relationship of
// relType, or fallback when the package has it.
func (c *converter) partFor(relType, fallback string) string {
	for _, rel := range c.docRels.ByType(relType) {
		if !rel.IsExternal() {
			if target := rel.TargetPath(); c.pkg.Has(target) {
				return target
			}
		}
	}
	if fallback != "" && c.pkg.Has(fallback) {
		return fallback
	}
	return ""
}

// optionalXML parses an optional part. Absent parts return nil silently;
// unreadable ones return nil with a warning.
func (c *converter) optionalXML(part string) *ooxml.Node {
	if part == "" || !c.pkg.Has(part) {
		return nil
	}
	root, err := c.pkg.XML(part)
	if err != nil {
		c.warn(part, "", err)
		return nil
	}
	return root
}

func (c *converter) loadTheme() {
	if root := c.optionalXML(c.partFor(ooxml.RelTheme, "word/theme/theme1.xml")); root != nil {
		c.theme = parseTheme(root)
		c.out.Theme = c.theme
	}
}

func (c *converter) loadStyles() {
	root := c.optionalXML(c.partFor(ooxml.RelStyles, "word/styles.xml"))
	c.styles = NewStyleResolver(root, c.theme)
	c.out.Styles = c.styles.Definitions()
}

func (c *converter) loadNumbering() {
	part := c.partFor(ooxml.RelNumbering, "word/numbering.xml")
	cache, err := numbering.BuildCacheFromPart(c.pkg, part)
	if err != nil {
		c.warn(part, "numbering", err)
	}
	c.numbering = cache
	c.log.Debug("numbering cache built", zap.Int("definitions", len(cache)))
}

// warn records a skipped or degraded element.
func (c *converter) warn(part, element string, err error) {
	w := Warning{Part: part, Element: element, Message: err.Error()}
	c.out.Warnings = append(c.out.Warnings, w)
	c.log.Warn("element skipped",
		zap.String("part", part),
		zap.String("element", element),
		zap.Error(err))
}

func (c *converter) warnf(part, element, format string, args ...any) {
	c.warn(part, element, fmt.Errorf(format, args...))
}

// safely runs fn, converting a returned error or a panic into a warning.
// It reports whether fn completed without either.
func (c *converter) safely(part, element string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.warn(part, element, panicError{value: r})
			ok = false
		}
	}()
	if err := fn(); err != nil {
		c.warn(part, element, err)
		return false
	}
	return true
}
