package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/infrastructure/export"
)

type exportOptions struct {
	cutoff string
	format string
	out    string
}

var writers = map[string]func(io.Writer, *reports.AgingReport) error{
	"xlsx": export.WriteSpreadsheet,
	"pdf":  export.WritePDF,
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the accounts aging report",
		Example: `  # Spreadsheet as of today into the current directory
  ledgerctl export --company 0192... --format xlsx

  # PDF as of a past cutoff
  ledgerctl export --company 0192... --format pdf --cutoff 2026-09-30 --out reports/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			write, ok := writers[opts.format]
			if !ok {
				return fmt.Errorf("unsupported --format %q (use xlsx or pdf)", opts.format)
			}
			companyID, err := root.companyID()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			services, cfg, log, err := root.connect(ctx)
			if err != nil {
				return err
			}
			defer services.Close(ctx, log)

			cutoff, err := services.Reports.ParseCutoff(opts.cutoff)
			if err != nil {
				return err
			}
			report, err := services.Reports.AgingReport(ctx, companyID, cutoff)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := write(&buf, report); err != nil {
				return err
			}

			path := outputPath(opts.out, reports.Filename(report.Cutoff, opts.format))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Infow("report exported", "path", path, "timezone", cfg.TimeZone)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.cutoff, "cutoff", "", "Cutoff date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.format, "format", "xlsx", "Output format: xlsx or pdf")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file or directory (default: current directory)")
	return cmd
}

// outputPath places name inside out when out is empty or a directory.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
