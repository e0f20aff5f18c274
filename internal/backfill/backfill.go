// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backfill translates every article that is still missing a
// translation in one of the configured locales.
package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpillora/backoff"

	"lingopress/internal/models"
	"lingopress/internal/store"
)

// TaskSource lists the (post, locale) pairs lacking a translation.
type TaskSource interface {
	ListMissingTranslations(ctx context.Context, locales []string) ([]store.MissingTranslation, error)
}

// Translator produces and stores the translation for one task. It must
// fail rather than fall back when the translation cannot be made.
type Translator interface {
	GetTranslated(ctx context.Context, slug, locale string, strict bool) (*models.ArticleDetail, error)
}

// Config tunes the pacing of a run.
type Config struct {
	// Locales to fill. The default locale is skipped.
	Locales       []string
	DefaultLocale string

	// Delay is the pause between two tasks.
	Delay time.Duration

	// MaxAttempts bounds the tries per task, first try included.
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig returns the pacing used by the CLI.
func DefaultConfig() Config {
	return Config{
		Delay:       500 * time.Millisecond,
		MaxAttempts: 5,
		MinBackoff:  1 * time.Second,
		MaxBackoff:  20 * time.Second,
	}
}

// Result counts the outcome of a run.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
}

// Runner performs backfill runs.
type Runner struct {
	tasks      TaskSource
	translator Translator
	cfg        Config

	// sleep waits for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner.
func NewRunner(tasks TaskSource, translator Translator, cfg Config) *Runner {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Runner{tasks: tasks, translator: translator, cfg: cfg, sleep: sleepCtx}
}

// Run translates each missing (post, locale) pair in turn. A task that
// still fails after its retries is counted and skipped. Run stops early
// only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	locales := make([]string, 0, len(r.cfg.Locales))
	for _, l := range r.cfg.Locales {
		if l != "" && l != r.cfg.DefaultLocale {
			locales = append(locales, l)
		}
	}
	if len(locales) == 0 {
		return Result{}, fmt.Errorf("backfill: no target locales")
	}

	tasks, err := r.tasks.ListMissingTranslations(ctx, locales)
	if err != nil {
		return Result{}, fmt.Errorf("backfill: %w", err)
	}

	res := Result{Total: len(tasks)}
	if len(tasks) == 0 {
		slog.Info("all translations are up to date")
		return res, nil
	}
	slog.Info("missing translations found", "count", len(tasks), "locales", locales)

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		start := time.Now()
		if err := r.runWithBackoff(ctx, task); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			slog.Error("backfill task failed",
				"slug", task.Slug, "locale", task.Locale, "error", err)
		} else {
			res.Succeeded++
			slog.Info("backfill task done",
				"slug", task.Slug, "locale", task.Locale,
				"position", fmt.Sprintf("%d/%d", i+1, len(tasks)),
				"duration", time.Since(start))
		}

		if i < len(tasks)-1 && r.cfg.Delay > 0 {
			if err := r.sleep(ctx, r.cfg.Delay); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (r *Runner) runWithBackoff(ctx context.Context, task store.MissingTranslation) error {
	boff := backoff.Backoff{
		Min:    r.cfg.MinBackoff,
		Max:    r.cfg.MaxBackoff,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		_, err = r.translator.GetTranslated(ctx, task.Slug, task.Locale, true)
		if err == nil {
			return nil
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}

		dur := boff.Duration()
		slog.Warn("backfill retry",
			"slug", task.Slug, "locale", task.Locale,
			"attempt", fmt.Sprintf("%d/%d", attempt, r.cfg.MaxAttempts),
			"retrying after", dur, "error", err)
		if serr := r.sleep(ctx, dur); serr != nil {
			return serr
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
