// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the FableDen CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fableden",
		Short: "FableDen - tabletop character vault",
		Long: `FableDen keeps player accounts, character sheets, and a monster
catalog behind a token-authenticated JSON API.`,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
