package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gosuda/taskmgr/internal/config"
)

func newReportCmd(loadConfig func() *config.Config) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print task counts from the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := buildApp(ctx, loadConfig(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()

			if asJSON {
				stats, err := a.tasks.Statistics(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			report, err := a.tasks.Report(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, report)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON instead of text")

	return cmd
}
