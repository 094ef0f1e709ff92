// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"biolink/internal/analytics"
	"biolink/internal/profile"
	"biolink/internal/store"
)

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the plain-text analytics report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			gw := store.NewGateway(db)
			stats, err := analytics.Load(ctx, gw.Analytics, gw.Links)
			if err != nil {
				return err
			}

			name := ""
			if p, err := profile.NewLoader(gw.Config, gw.Links, nil).Load(ctx); err == nil {
				name = p.Name
			}

			report, err := analytics.Report(analytics.ReportInput{
				ProfileName: name,
				GeneratedAt: time.Now(),
				Stats:       stats,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}
}
