// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"lingopress/internal/articles"
	"lingopress/internal/cache"
	"lingopress/internal/config"
	"lingopress/internal/database"
	"lingopress/internal/store"
	"lingopress/internal/translate"
)

// app holds the long-lived dependencies shared by the commands.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	valkey  *redis.Client
	posts   *store.PostStore
	service *articles.Service
	lister  *articles.Lister
}

// openApp connects to the database, applies migrations and, when Valkey is
// configured, enables the listing cache. Close releases everything.
func openApp(cfg *config.Config) (*app, error) {
	db, err := database.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	a := &app{cfg: cfg, db: db}

	var listingCache articles.Cache
	if cfg.ValkeyHost != "" {
		a.valkey, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connect valkey: %w", err)
		}
		listingCache = cache.NewListingCache(a.valkey, cfg.ListCacheTTL)
	} else {
		slog.Warn("valkey not configured, listing cache disabled")
	}

	a.posts = store.NewPostStore(db, cfg.DBDriver, cfg.DefaultLocale)
	translations := store.NewTranslationStore(db, cfg.DBDriver)

	a.service = articles.NewService(a.posts, translations, articles.ServiceConfig{
		DefaultLocale: cfg.DefaultLocale,
		Translator: translate.NewClient(translate.Config{
			BaseURL: cfg.TranslateBaseURL,
			Timeout: cfg.TranslateTimeout,
		}),
		Cache:    listingCache,
		CacheLog: store.NewCacheLogStore(db, cfg.DBDriver),
	})
	a.lister = articles.NewLister(a.posts, translations, listingCache, articles.ListerConfig{
		DefaultLocale:   cfg.DefaultLocale,
		DefaultPageSize: cfg.PageSizeDefault,
		Bounds:          cfg.PageBounds(),
	})

	return a, nil
}

func (a *app) Close() {
	if a.valkey != nil {
		if err := a.valkey.Close(); err != nil {
			slog.Warn("close valkey", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
}
