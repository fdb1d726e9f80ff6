package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricemachine/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [query]",
		Short: "Write the report file and exit",
		Long: `Write the rows whose name contains query (all rows without one) to the
report file.

Example: pricemachine export яблоки --format xlsx --output apples.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			if len(args) == 1 {
				q = args[0]
			}

			rows, err := a.service.Search(q)
			if err != nil {
				return err
			}
			if err := export.WriteFile(cmd.Context(), a.cfg.Export.Output, a.cfg.Export.Format, rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), a.cfg.Export.Output)
			return nil
		},
	}
}
