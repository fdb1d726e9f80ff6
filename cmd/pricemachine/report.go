package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show how every price list file was read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.service.Current()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tBYTES\tROWS\tACCEPTED\tERROR")
			for _, f := range list.Report.Files {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", f.File, f.Bytes, f.Rows, f.Accepted, f.Error)
			}
			tw.Flush()

			for _, issue := range list.Report.Issues {
				if issue.Line > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s\n", issue.File, issue.Line, issue.Message)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", issue.File, issue.Message)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows ranked, %d excluded\n", list.Len(), list.Report.Excluded)
			return nil
		},
	}
}
