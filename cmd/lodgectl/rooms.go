package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func roomsCmd() *cobra.Command {
	var occupiedOnly bool

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms with guest and balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			snap := ledger.Snapshot()

			if outputJSON {
				return printJSON(cmd.OutOrStdout(), snap.Rooms)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROOM\tSTATUS\tGUEST\tCHECK-IN\tBALANCE")
			for _, num := range snap.RoomNumbers() {
				r := snap.Rooms[num]
				if occupiedOnly && !r.IsOccupied() {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.Number, r.Status, r.GuestName(), r.CheckinTime, r.Balance)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&occupiedOnly, "occupied", false, "Only occupied rooms")
	return cmd
}
