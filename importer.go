package folio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/farid-asgarli/pdf-template-builder-sub000/docx"
	"github.com/farid-asgarli/pdf-template-builder-sub000/format"
	"github.com/farid-asgarli/pdf-template-builder-sub000/layout"
	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// Result is the outcome of Import.
type Result struct {
	// Content is the semantic tree extracted from the package.
	Content *docx.ParsedContent
	// Document is Content laid out on editor pages.
	Document *model.Document
	// Metadata summarizes Content.
	Metadata docx.Metadata
	// Format is the detected package format.
	Format format.Format
}

// Importer provides a fluent interface for importing a Word document.
// Each configuration method returns a new Importer, so a configured
// Importer can be shared and reused safely.
type Importer struct {
	// Source
	filename string
	data     []byte
	inMemory bool

	ctx     context.Context
	options ImportOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Importer with a copy of its options.
func (im *Importer) clone() *Importer {
	return &Importer{
		filename: im.filename,
		data:     im.data,
		inMemory: im.inMemory,
		ctx:      im.ctx,
		options:  im.options.clone(),
		err:      im.err,
	}
}

// WithContext sets the context checked between import phases.
func (im *Importer) WithContext(ctx context.Context) *Importer {
	n := im.clone()
	if ctx == nil {
		n.err = errors.New("folio: nil context")
		return n
	}
	n.ctx = ctx
	return n
}

// WithOptions replaces the layout options used by Import.
func (im *Importer) WithOptions(opts layout.Options) *Importer {
	n := im.clone()
	n.options.layout = opts
	return n
}

// WithLogger sets the logger that receives per-phase debug logs and one
// entry per skipped element. Nil restores the no-op logger.
func (im *Importer) WithLogger(log *zap.Logger) *Importer {
	n := im.clone()
	if log == nil {
		log = zap.NewNop()
	}
	n.options.logger = log
	return n
}

// WithOCR fills missing image alt text through r, typically an *ocr.Client.
func (im *Importer) WithOCR(r docx.AltTextRecognizer) *Importer {
	n := im.clone()
	n.options.altText = r
	return n
}

// SkipImages leaves image bytes out of the result. Geometry, alt text and
// placement are still imported.
func (im *Importer) SkipImages() *Importer {
	n := im.clone()
	n.options.skipImages = true
	n.options.layout.EmbedImages = false
	return n
}

// SkipOrphanImages disables recovery of media parts no drawing refers to.
func (im *Importer) SkipOrphanImages() *Importer {
	n := im.clone()
	n.options.skipOrphanImages = true
	return n
}

// KeepRawText disables Unicode normalization of run text.
func (im *Importer) KeepRawText() *Importer {
	n := im.clone()
	n.options.keepRawText = true
	return n
}

// Parse extracts the semantic tree without laying it out.
//
// Example:
//
//	pc, warnings, err := folio.Open("letter.docx").Parse()
//	for _, t := range pc.Tables() {
//	    fmt.Println(t.ToText())
//	}
func (im *Importer) Parse() (*docx.ParsedContent, []Warning, error) {
	pc, _, warnings, err := im.parse()
	return pc, warnings, err
}

// Import extracts the document and projects it onto editor pages.
// Warnings describe elements that were skipped or degraded; the error is
// non-nil only when the package could not be read at all.
func (im *Importer) Import() (*Result, []Warning, error) {
	pc, f, warnings, err := im.parse()
	if err != nil {
		return nil, warnings, err
	}

	log := im.options.logger
	doc := layout.NewProjectorWithOptions(im.options.layout).Project(pc)
	log.Debug("projected document",
		zap.Int("pages", len(doc.Pages)),
		zap.Int("headers", len(doc.Headers)),
		zap.Int("footers", len(doc.Footers)))

	return &Result{
		Content:  pc,
		Document: doc,
		Metadata: pc.Metadata,
		Format:   f,
	}, warnings, nil
}

// Text returns the plain text of the document body.
func (im *Importer) Text() (string, []Warning, error) {
	pc, warnings, err := im.Parse()
	if err != nil {
		return "", warnings, err
	}
	return pc.ToText(), warnings, nil
}

// Markdown returns the document body as Markdown.
func (im *Importer) Markdown() (string, []Warning, error) {
	pc, warnings, err := im.Parse()
	if err != nil {
		return "", warnings, err
	}
	return pc.ToMarkdown(), warnings, nil
}

func (im *Importer) parse() (*docx.ParsedContent, format.Format, []Warning, error) {
	if im.err != nil {
		return nil, format.Unknown, nil, im.err
	}
	data, err := im.load()
	if err != nil {
		return nil, format.Unknown, nil, err
	}

	f, err := format.DetectFromBytes(data)
	if err != nil {
		return nil, format.Unknown, nil, fmt.Errorf("detecting format: %w: %v", docx.ErrCorruptPackage, err)
	}
	if !f.IsWord() {
		return nil, f, nil, fmt.Errorf("%w: detected %s", docx.ErrNotDOCX, f)
	}

	pkg, err := ooxml.FromBytes(data)
	if err != nil {
		return nil, f, nil, err
	}
	defer pkg.Close()

	ctx := im.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	pc, err := docx.Convert(ctx, pkg, im.options.docxOptions())
	if err != nil {
		return nil, f, nil, err
	}

	var warnings []Warning
	if f.HasMacros() {
		warnings = append(warnings, Warning{
			Part:    "word/vbaProject.bin",
			Message: fmt.Sprintf("%s package: macros are not imported", f),
		})
		pc.Metadata.HasMacros = true
	}
	warnings = append(warnings, fromDocx(pc.Warnings)...)
	return pc, f, warnings, nil
}

func (im *Importer) load() ([]byte, error) {
	if im.inMemory {
		if len(im.data) == 0 {
			return nil, fmt.Errorf("reading document: %w: empty input", docx.ErrCorruptPackage)
		}
		return im.data, nil
	}
	if im.filename == "" {
		return nil, errors.New("folio: no filename specified")
	}
	data, err := os.ReadFile(im.filename)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return data, nil
}
