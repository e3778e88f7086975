package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialife/internal/csvimport"
	"github.com/gauthierbraillon/socialife/internal/display"
)

type detectOutput struct {
	Files []*csvimport.Detection `json:"files"`
	Batch csvimport.Batch        `json:"batch"`
}

// newDetectCmd creates the detect subcommand.
func newDetectCmd(a *app) *cobra.Command {
	var delimiter string
	var preview int

	cmd := &cobra.Command{
		Use:   "detect <file.csv>...",
		Short: "Classify CSV exports by platform and data type",
		Long:  "Inspect analytics exports and report which platform they came from and what they contain. Nothing is imported.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := csvimport.Options{PreviewRows: preview}
			if delimiter != "" {
				r, size := utf8.DecodeRuneInString(delimiter)
				if size != len(delimiter) {
					return fmt.Errorf("invalid delimiter %q: must be a single character", delimiter)
				}
				opts.Delimiter = r
			}

			out := detectOutput{Files: []*csvimport.Detection{}}
			var failed []string
			for _, path := range args {
				d, err := inspectFile(path, opts)
				if err != nil {
					a.logger.Warn("csv inspection failed", "file", path, "error", err)
					fmt.Fprint(cmd.ErrOrStderr(), display.NewTerminalFormatter().FormatError(err))
					failed = append(failed, filepath.Base(path))
					continue
				}
				a.logger.Debug("csv inspected", "file", path, "platform", d.Platform, "dataType", d.DataType, "rows", d.RowCount)
				out.Files = append(out.Files, d)
			}
			out.Batch = csvimport.Summarize(out.Files)

			err := a.render(cmd.OutOrStdout(), out, func(f *display.TerminalFormatter) string {
				var b strings.Builder
				for _, d := range out.Files {
					b.WriteString(f.FormatDetection(d))
					b.WriteString("\n")
				}
				b.WriteString(f.FormatBatch(out.Batch))
				return b.String()
			})
			if err != nil {
				return err
			}
			if len(failed) > 0 {
				return fmt.Errorf("could not read %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field separator (default ,)")
	cmd.Flags().IntVarP(&preview, "preview", "n", csvimport.DefaultPreviewRows, "Rows to preview per file")

	return cmd
}

func inspectFile(path string, opts csvimport.Options) (*csvimport.Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return csvimport.Inspect(filepath.Base(path), f, opts)
}
