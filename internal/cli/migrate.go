// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"biolink/internal/database"
)

func newMigrateCommand(a *app) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if seed {
				if err := database.Seed(db); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrations applied.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample profile when the database is empty")
	return cmd
}
