package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lodge-desk/models"
	"lodge-desk/services"
)

func reportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Daily totals per ledger category",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" || date == "today" {
				date = time.Now().Format(services.DateLayout)
			}
			ledger, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			report, err := ledger.DailyReport(date)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Report for %s\n\n", report.Date)
			fmt.Fprintln(w, "CATEGORY\tENTRIES\tAMOUNT")
			for _, c := range models.LogCategories {
				if report.Counts[c] == 0 {
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%d\n", c, report.Counts[c], report.Sums[c])
			}
			fmt.Fprintf(w, "\ncollected\t\t%d\n", report.Collected)
			fmt.Fprintf(w, "net\t\t%d\n", report.Net)
			fmt.Fprintf(w, "outstanding balance\t\t%d\n", report.Totals[models.CategoryBalance])
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Report date YYYY-MM-DD (default today)")
	return cmd
}
