package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func bookingsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List advance bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			bookings := ledger.ListBookings(status)
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), bookings)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROOM\tGUEST\tDATES\tSTATUS\tTOTAL\tPAID")
			for _, b := range bookings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s..%s\t%s\t%d\t%d\n",
					shortID(b.ID), b.Room, b.GuestName, b.CheckInDate, b.CheckOutDate, b.Status, b.TotalAmount, b.PaidAmount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (confirmed|checked_in|cancelled)")
	return cmd
}

func availabilityCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Rooms free for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			rooms, err := ledger.CheckAvailability(from, to)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), rooms)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rooms free %s..%s\n%s\n", len(rooms), from, to, strings.Join(rooms, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Check-in date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Check-out date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
