// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package main

import (
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/fableden/fableden/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect schema migrations on the PostgreSQL database.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destroys all data)",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE:  runMigrateStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long:  `Set the recorded migration version without running any migrations. Use only to recover from a dirty state after fixing the database by hand.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runMigrateForce,
	})

	return cmd
}

// newMigrator builds a Migrator from the DATABASE_URL environment variable.
func newMigrator() (*store.Migrator, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	return store.NewMigrator(databaseURL)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error after a successful run is not actionable

	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error after a successful run is not actionable

	cmd.Println("Rolling back all migrations...")
	if err := m.Down(); err != nil {
		return err
	}

	cmd.Println("Rollback completed")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error after a successful run is not actionable

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	if version == 0 && !dirty {
		cmd.Println("No migrations applied")
		return nil
	}

	cmd.Printf("Version: %d\n", version)
	if dirty {
		cmd.Println("State: DIRTY - a migration failed partway; fix the database and use 'migrate force'")
	} else {
		cmd.Println("State: clean")
	}
	return nil
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return oops.Code("INVALID_VERSION").Errorf("version must be an integer, got %q", args[0])
	}

	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error after a successful run is not actionable

	if err := m.Force(version); err != nil {
		return err
	}

	cmd.Printf("Forced migration version to %d\n", version)
	return nil
}
