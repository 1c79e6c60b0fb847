package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qbhouse/internal/domain/evaluation"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dump.json>",
		Short: "Import a browser-storage dump of the old sheet",
		Long: "Import reads a JSON object mapping the old browser-storage keys (qb_staff_index_v1, qb_data_<id>, " +
			"qb_interview_records) to their string values. Records keep their ids and timestamps; the index is rebuilt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			dump, err := evaluation.ParseLegacyDump(data)
			if err != nil {
				return err
			}
			app, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			records, err := app.Evaluations.Import(cmd.Context(), dump)
			if err != nil {
				return fmt.Errorf("import records: %w", err)
			}
			interviews, skipped, err := app.Interviews.Import(cmd.Context(), dump.Interviews)
			if err != nil {
				return fmt.Errorf("import interviews: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records, %d interviews (%d skipped)\n", records, interviews, skipped)
			return nil
		},
	}
}
