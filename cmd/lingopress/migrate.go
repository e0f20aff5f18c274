// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lingopress/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg.DBDriver, cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db, cfg.DBDriver); err != nil {
				return err
			}
			slog.Info("migrations applied", "dialect", cfg.DBDriver.String())

			if seed {
				return database.Seed(cmd.Context(), db, cfg.DBDriver)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert sample articles into an empty database")
	return cmd
}
