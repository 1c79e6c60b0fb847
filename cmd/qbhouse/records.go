package main

import (
	"github.com/spf13/cobra"

	"qbhouse/internal/output"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved evaluation sheets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			index, err := app.Evaluations.List(cmd.Context())
			if err != nil {
				return err
			}
			output.NewConsole(cmd.OutOrStdout(), opts.colorize(cmd.OutOrStdout())).Index(index)
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the dashboard of one evaluation sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			rec, err := app.Evaluations.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output.NewConsole(cmd.OutOrStdout(), opts.colorize(cmd.OutOrStdout())).Dashboard(rec)
			return nil
		},
	}
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Print the totals of every saved sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			recs, err := app.Evaluations.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			output.NewConsole(cmd.OutOrStdout(), opts.colorize(cmd.OutOrStdout())).Scores(recs)
			return nil
		},
	}
}
