package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render/html"
	"github.com/farid-asgarli/pdf-template-builder-sub000/render/pdf"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		outPath string
		vars    []string
	)

	cmd := &cobra.Command{
		Use:   "render <file.docx>",
		Short: "Render a preview through the reference PDF or HTML renderer",
		Long: `Render imports the document and draws it with the reference renderer
chosen by the output extension (.pdf, .html or .htm). Template variables
are filled from --var; {{pageNumber}} and {{totalPages}} are always bound.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseVars(vars)
			if err != nil {
				return err
			}
			renderFn, err := a.renderer(outPath)
			if err != nil {
				return err
			}

			im, done := a.importer(args[0])
			defer done()
			res, warnings, err := im.Import()
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			printWarnings(cmd.ErrOrStderr(), warnings)

			b := a.cfg.Bindings(mergeVars(res.Document.Variables, values))
			data, err := renderFn(res.Document, b)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", outPath, err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			a.log.Info("rendered",
				zap.String("file", args[0]),
				zap.String("output", outPath),
				zap.Int("bytes", len(data)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (.pdf, .html or .htm)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

type renderFunc func(*model.Document, render.Bindings) ([]byte, error)

// renderer picks the reference renderer for the output extension.
func (a *app) renderer(outPath string) (renderFunc, error) {
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".pdf":
		return pdf.New(a.cfg.PDFOptions()).Render, nil
	case ".html", ".htm":
		e := html.New()
		e.Title = a.cfg.Render.Title
		return e.Export, nil
	}
	return nil, fmt.Errorf("unsupported output %q: use .pdf, .html or .htm", outPath)
}

// parseVars splits name=value pairs.
func parseVars(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: want name=value", p)
		}
		out[name] = value
	}
	return out, nil
}

// mergeVars layers values over the document's variable defaults.
func mergeVars(defaults, values map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(values))
	maps.Copy(out, defaults)
	maps.Copy(out, values)
	return out
}
