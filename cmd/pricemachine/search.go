package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricemachine/internal/console"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Search the price list interactively",
		Long: `Export the whole list to the report file, then read product names
from standard input. "all" prints the whole list, "exit" quits, and
anything else prints the matching rows and rewrites the report with them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd)
		},
	}
}

func (a *app) runSearch(cmd *cobra.Command) error {
	repl := console.New(a.service, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Export.Output, a.cfg.Export.Format)
	return repl.Run(cmd.Context())
}
