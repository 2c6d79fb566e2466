package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lodge-desk/config"
	"lodge-desk/models"
	"lodge-desk/services"
	"lodge-desk/store"
)

var (
	outputJSON bool
	verbose    bool
	storeFlag  string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lodgectl",
	Short: "Front desk ledger tools: reports, exports, room status",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		cfg = config.Load()
		if storeFlag != "" {
			cfg.StoreDriver = storeFlag
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(roomsCmd())
	rootCmd.AddCommand(bookingsCmd())
	rootCmd.AddCommand(availabilityCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log store activity")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Override STORE_DRIVER (excel|mysql|redis)")
}

func cliLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := config.NewLogger("debug", "console", "lodgectl")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openLedger loads the current snapshot into a read-only ledger (no store
// attached, so nothing the CLI does is written back).
func openLedger(ctx context.Context) (*services.LedgerService, error) {
	logger := cliLogger()
	s, closeFn, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	snap, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	rooms := cfg.DefaultRooms
	if len(rooms) == 0 {
		rooms = models.DefaultRoomNumbers()
	}
	snap.EnsureRooms(rooms)
	return services.NewLedgerService(snap, nil, logger), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
