// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lingopress/internal/backfill"
)

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	defaults := backfill.DefaultConfig()
	var locales []string

	cmd := &cobra.Command{
		Use:   "backfill-translations",
		Short: "Translate every article missing a translation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			runCfg := defaults
			runCfg.DefaultLocale = cfg.DefaultLocale
			runCfg.Locales = cfg.Locales
			if len(locales) > 0 {
				runCfg.Locales = locales
			}

			res, err := backfill.NewRunner(a.posts, a.service, runCfg).Run(sigCtx)
			fmt.Fprintf(stdout, "translations: %d missing, %d created, %d failed\n",
				res.Total, res.Succeeded, res.Failed)
			if err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d translations failed", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&locales, "locale", nil, "Locales to fill (default: all configured)")
	cmd.Flags().DurationVar(&defaults.Delay, "delay", defaults.Delay, "Pause between translations")
	cmd.Flags().IntVar(&defaults.MaxAttempts, "attempts", defaults.MaxAttempts, "Tries per translation")
	return cmd
}
