package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharedledger/internal/storage/sqlite"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sqlite.RunMigrations(opts.dbPath); err != nil {
				return err
			}
			return printVersion(cmd, opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd, opts)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, opts *options) error {
	version, dirty, err := sqlite.SchemaVersion(opts.dbPath)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"version": version, "dirty": dirty})
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)
	return nil
}
