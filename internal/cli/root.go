// Package cli implements the folio command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	folio "github.com/farid-asgarli/pdf-template-builder-sub000"
	"github.com/farid-asgarli/pdf-template-builder-sub000/internal/config"
	"github.com/farid-asgarli/pdf-template-builder-sub000/internal/logger"
	"github.com/farid-asgarli/pdf-template-builder-sub000/ocr"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	debug   bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand builds the folio command tree.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	a := &app{log: logger.Nop()}

	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "Import Word documents into the page-based template editor model",
		Long: `folio converts .docx files into the editor's document model: pages of
absolutely positioned components with header and footer templates.

Examples:
  # Write the editor document as JSON
  folio import contract.docx -o contract.json

  # Show what a document contains
  folio inspect contract.docx

  # Render a preview with variables filled in
  folio render contract.docx -o preview.pdf --var name=Ann`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: .folio.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newImportCommand(a),
		newInspectCommand(a),
		newRenderCommand(a),
	)
	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(a.debug || cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.log = log
	return nil
}

// importer returns a configured importer for path and a cleanup function
// for the OCR client, if one was started.
func (a *app) importer(path string) (*folio.Importer, func()) {
	im := a.cfg.Apply(folio.Open(path)).WithLogger(a.log)
	if !a.cfg.Import.OCR {
		return im, func() {}
	}

	client, err := ocr.New(a.cfg.OCROptions()...)
	if err != nil {
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			a.log.Warn("OCR requested but not compiled in", zap.Error(err))
		} else {
			a.log.Warn("OCR unavailable", zap.Error(err))
		}
		return im, func() {}
	}
	return im.WithOCR(client), func() { _ = client.Close() }
}

var warnColor = color.New(color.FgYellow)

// printWarnings writes one colored line per warning.
func printWarnings(w io.Writer, warnings []folio.Warning) {
	for _, warning := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", warning)
	}
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
