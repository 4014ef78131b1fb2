package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharedledger/internal/config"
	"github.com/mmynk/sharedledger/internal/storage/sqlite"
	"github.com/mmynk/sharedledger/pkg/logging"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	dbPath   string
	asJSON   bool
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect and maintain a shared ledger database",
		Long: `ledgerctl works directly on the server's SQLite database.

Examples:
  ledgerctl migrate up                   Apply pending schema migrations
  ledgerctl balances <group-id>          Show balances and suggested payments
  ledgerctl categorize "Pizza night"     Ask the categorizer for a category`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			opts.cfg = config.Load()
			if !cmd.Flags().Changed("db") {
				opts.dbPath = opts.cfg.DBPath
			}
			logging.Setup(opts.logLevel, "text")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Database path (default: DB_PATH or ./data/ledger.db)")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Output as JSON")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newBalancesCmd(opts),
		newCategorizeCmd(opts),
	)
	return cmd
}

func (o *options) openStore() (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", o.dbPath, err)
	}
	return store, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
