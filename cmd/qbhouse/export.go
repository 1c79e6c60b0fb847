package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"qbhouse/internal/app/server"
	"qbhouse/internal/domain/evaluation"
	"qbhouse/internal/domain/report"
)

type exportOptions struct {
	all    bool
	output string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write CSV or print PDF files",
	}
	cmd.AddCommand(
		newExportFormatCmd(opts, "csv", "Export one sheet, or all staff vertically, as CSV"),
		newExportFormatCmd(opts, "pdf", "Export print pages for one sheet or every sheet"),
	)
	return cmd
}

func newExportFormatCmd(opts *rootOptions, format, short string) *cobra.Command {
	eo := &exportOptions{}
	cmd := &cobra.Command{
		Use:   format + " [id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if eo.all == (len(args) == 1) {
				return errors.New("give a record id or --all")
			}
			app, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			var recs []evaluation.Record
			if eo.all {
				recs, err = app.Evaluations.LoadAll(cmd.Context())
			} else {
				var rec evaluation.Record
				rec, err = app.Evaluations.Get(cmd.Context(), args[0])
				recs = []evaluation.Record{rec}
			}
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			name, err := render(&buf, format, eo.all, recs, app)
			if err != nil {
				return err
			}
			path := eo.output
			if path == "" {
				path = filepath.Join(app.Config.ReportDir, name)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			app.Metrics.RecordExport()
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&eo.all, "all", false, "export every saved sheet")
	cmd.Flags().StringVarP(&eo.output, "output", "o", "", "output file (default REPORT_DIR/<name>)")
	return cmd
}

// render writes the export and returns its default file name.
func render(buf *bytes.Buffer, format string, all bool, recs []evaluation.Record, app *server.App) (string, error) {
	now := time.Now()
	switch {
	case format == "csv" && all:
		return report.AllCSVName(now), report.WriteAllCSV(buf, recs, app.Evaluations.Catalog())
	case format == "csv":
		return report.RecordCSVName(recs[0]), report.WriteRecordCSV(buf, recs[0])
	case all:
		return "qb_all_staff_" + now.Format("2006-01-02") + ".pdf", report.WritePDF(buf, recs)
	default:
		return report.PrintName(recs[0]) + ".pdf", report.WritePDF(buf, recs)
	}
}
