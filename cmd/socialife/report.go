package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/socialife/internal/report"
	"github.com/gauthierbraillon/socialife/pkg/browser"
)

// newReportCmd creates the report subcommand.
func newReportCmd(a *app) *cobra.Command {
	var period, format, out string
	var open bool

	cmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Build a client report outline",
		Long:  "Assemble the slides of a client report (KPIs, follower growth, ranked posts, demographics, hashtags) and write them as YAML or JSON for a slide renderer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if period == "" {
				period = a.cfg.Report.Period
			}

			repo, err := a.repository()
			if err != nil {
				return err
			}
			deck, err := report.NewBuilder(repo).Build(cmd.Context(), args[0], period)
			if err != nil {
				return err
			}

			if out == "-" {
				if open {
					return fmt.Errorf("--open needs an output file, not stdout")
				}
				return report.Encode(cmd.OutOrStdout(), deck, f)
			}
			if out == "" {
				out = strings.TrimSuffix(deck.FileName(), ".pptx") + "." + string(f)
			}
			if err := writeReport(out, func(w io.Writer) error { return report.Encode(w, deck, f) }); err != nil {
				return err
			}

			a.logger.Info("report written", "client", deck.ClientID, "path", out, "slides", len(deck.Slides))
			fmt.Fprintf(cmd.OutOrStdout(), "Report outline for %s (%d slides) written to %s\n", deck.ClientName, len(deck.Slides), out)
			fmt.Fprintf(cmd.OutOrStdout(), "Presentation file name: %s\n", deck.FileName())

			if open {
				if err := browser.Open(out); err != nil {
					a.logger.Warn("could not open report", "path", out, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open %s automatically. Open it manually.\n", out)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "Reporting period (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or - for stdout (default derived from client and period)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the written outline with the default application")

	return cmd
}

func writeReport(path string, encode func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
