package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	folio "github.com/farid-asgarli/pdf-template-builder-sub000"
)

func newInspectCommand(a *app) *cobra.Command {
	var (
		showText     bool
		showMarkdown bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.docx>",
		Short: "Summarize what a document contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im, done := a.importer(args[0])
			defer done()

			res, warnings, err := im.Import()
			if err != nil {
				return fmt.Errorf("inspecting %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			switch {
			case showText:
				fmt.Fprintln(out, res.Content.ToText())
			case showMarkdown:
				fmt.Fprintln(out, res.Content.ToMarkdown())
			default:
				printSummary(out, args[0], res)
			}
			printWarnings(cmd.ErrOrStderr(), warnings)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "print the plain text instead of the summary")
	cmd.Flags().BoolVar(&showMarkdown, "markdown", false, "print Markdown instead of the summary")
	cmd.MarkFlagsMutuallyExclusive("text", "markdown")
	return cmd
}

var titleColor = color.New(color.FgCyan, color.Bold)

func printSummary(w io.Writer, name string, res *folio.Result) {
	m := res.Metadata
	titleColor.Fprintf(w, "%s (%s)\n", name, res.Format)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Item", "Count"})
	for _, row := range []struct {
		label string
		n     int
	}{
		{"Pages", len(res.Document.Pages)},
		{"Paragraphs", m.Paragraphs},
		{"Words", m.Words},
		{"Tables", m.Tables},
		{"Images", m.Images},
		{"Lists", m.Lists},
		{"List items", m.ListItems},
		{"Hyperlinks", m.Hyperlinks},
		{"Footnotes", m.Footnotes},
		{"Endnotes", m.Endnotes},
		{"Comments", m.Comments},
		{"Bookmarks", m.Bookmarks},
		{"Equations", m.Equations},
		{"Charts", m.Charts},
		{"SmartArt", m.SmartArt},
		{"Shapes", m.Shapes},
		{"Form fields", m.FormFields},
		{"Content controls", m.ContentControls},
		{"Revisions", m.Revisions},
		{"Sections", m.Sections},
		{"Headers", m.Headers},
		{"Footers", m.Footers},
		{"Embedded objects", m.EmbeddedObjects},
	} {
		if row.n > 0 {
			tw.AppendRow(table.Row{row.label, row.n})
		}
	}

	var flags []string
	for _, f := range []struct {
		label string
		set   bool
	}{
		{"watermark", m.HasWatermark},
		{"track changes", m.HasTrackChanges},
		{"table of contents", m.HasTOC},
		{"bibliography", m.HasBibliography},
		{"custom XML", m.HasCustomXML},
		{"macros", m.HasMacros},
	} {
		if f.set {
			flags = append(flags, f.label)
		}
	}
	if len(flags) > 0 {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Features", strings.Join(flags, ", ")})
	}
	if len(m.Variables) > 0 {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Variables", strings.Join(m.Variables, ", ")})
	}

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
