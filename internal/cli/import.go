package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		outPath string
		parsed  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.docx>",
		Short: "Convert a document to editor JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, done := a.importer(args[0])
			defer done()

			res, warnings, err := im.Import()
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			printWarnings(cmd.ErrOrStderr(), warnings)

			var v any = res.Document
			if parsed {
				v = res.Content
			}

			w, closeOut, err := output(cmd, outPath)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(v); err != nil {
				_ = closeOut()
				return fmt.Errorf("writing JSON: %w", err)
			}
			if err := closeOut(); err != nil {
				return err
			}

			a.log.Info("imported",
				zap.String("file", args[0]),
				zap.Int("pages", len(res.Document.Pages)),
				zap.Int("warnings", len(warnings)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&parsed, "parsed", false, "write the parsed content instead of the editor document")
	return cmd
}
