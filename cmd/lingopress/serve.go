// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lingopress/internal/database"
	"lingopress/internal/handlers"
	"lingopress/internal/middleware"
	"lingopress/internal/router"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
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

			if cfg.IsDev() {
				if err := database.Seed(sigCtx, a.db, cfg.DBDriver); err != nil {
					return err
				}
			}
			if cfg.AdminAPIKey == "" {
				slog.Warn("ADMIN_API_KEY not set, admin API disabled")
			}

			blogLimiter := middleware.NewRateLimiter(cfg.TranslateRateLimit, time.Minute)
			defer blogLimiter.Stop()

			r := router.New(router.Deps{
				Public:      handlers.NewPublic(a.lister, a.service, cfg.Locales),
				Admin:       handlers.NewAdmin(a.service),
				Sitemap:     handlers.NewSitemap(a.service, cfg.BaseURL, cfg.Locales),
				BlogLimiter: blogLimiter,
				AdminAPIKey: cfg.AdminAPIKey,
				DB:          a.db,
			})

			// WriteTimeout covers an on-demand translation of a long article.
			srv := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      r,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: cfg.TranslateTimeout + 30*time.Second,
				IdleTimeout:  120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env, "locales", cfg.Locales)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
				slog.Info("shutdown signal received")
			}

			// Give active requests up to 30 seconds to complete.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			slog.Info("server stopped gracefully")
			return nil
		},
	}
}
