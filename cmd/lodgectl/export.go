package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lodge-desk/store"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current snapshot to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			ledger, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			f, err := store.BuildWorkbook(ledger.Snapshot())
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(out); err != nil {
				return fmt.Errorf("save %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output .xlsx path")
	return cmd
}
