// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli defines the biolink command tree: the HTTP server plus the
// maintenance commands that operate on the same database.
package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"biolink/internal/config"
	"biolink/internal/database"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the biolink command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "biolink",
		Short: "A single-profile link-in-bio site",
		Long: `biolink serves one public profile page with themed links, reactions
and a guestbook, plus a passcode-gated admin dashboard with visit analytics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newReportCommand(a),
		newResetCommand(a),
		newPurgeCommand(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// openDB connects to the configured database and applies pending
// migrations.
func (a *app) openDB() (*sql.DB, error) {
	db, err := database.Connect(a.cfg.DBDriver, a.cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, a.cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
