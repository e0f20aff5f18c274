// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingopress/internal/models"
	"lingopress/internal/store"
)

type fakeTasks struct {
	tasks   []store.MissingTranslation
	err     error
	locales []string
}

func (f *fakeTasks) ListMissingTranslations(_ context.Context, locales []string) ([]store.MissingTranslation, error) {
	f.locales = locales
	return f.tasks, f.err
}

// fakeTranslator fails the first failures[slug/locale] calls for a task.
type fakeTranslator struct {
	failures map[string]int
	calls    map[string]int
	strict   []bool
}

func (f *fakeTranslator) GetTranslated(_ context.Context, slug, locale string, strict bool) (*models.ArticleDetail, error) {
	key := slug + "/" + locale
	f.calls[key]++
	f.strict = append(f.strict, strict)
	if f.calls[key] <= f.failures[key] {
		return nil, errors.New("translate API error (status 429)")
	}
	return &models.ArticleDetail{Slug: slug, Locale: locale}, nil
}

func newFakeTranslator(failures map[string]int) *fakeTranslator {
	return &fakeTranslator{failures: failures, calls: map[string]int{}}
}

func task(slug, locale string) store.MissingTranslation {
	return store.MissingTranslation{PostID: uuid.New(), Slug: slug, Locale: locale}
}

func testConfig() Config {
	return Config{
		Locales:       []string{"en", "es", "fr"},
		DefaultLocale: "en",
		Delay:         500 * time.Millisecond,
		MaxAttempts:   3,
		MinBackoff:    time.Second,
		MaxBackoff:    20 * time.Second,
	}
}

// recordSleeps swaps the runner's sleep for one that records durations.
func recordSleeps(r *Runner) *[]time.Duration {
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return &slept
}

func TestRunAllSucceed(t *testing.T) {
	tasks := &fakeTasks{tasks: []store.MissingTranslation{task("a", "es"), task("a", "fr"), task("b", "es")}}
	tr := newFakeTranslator(nil)
	r := NewRunner(tasks, tr, testConfig())
	slept := recordSleeps(r)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Total: 3, Succeeded: 3}, res)

	assert.Equal(t, []string{"es", "fr"}, tasks.locales, "default locale is skipped")
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, *slept, "delay between tasks only")
	for _, strict := range tr.strict {
		assert.True(t, strict)
	}
}

func TestRunRetriesWithBackoff(t *testing.T) {
	tasks := &fakeTasks{tasks: []store.MissingTranslation{task("a", "es")}}
	tr := newFakeTranslator(map[string]int{"a/es": 2})
	r := NewRunner(tasks, tr, testConfig())
	slept := recordSleeps(r)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Total: 1, Succeeded: 1}, res)
	assert.Equal(t, 3, tr.calls["a/es"])

	require.Len(t, *slept, 2)
	for _, d := range *slept {
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 20*time.Second)
	}
}

func TestRunCountsFailuresAndContinues(t *testing.T) {
	tasks := &fakeTasks{tasks: []store.MissingTranslation{task("bad", "es"), task("good", "es")}}
	tr := newFakeTranslator(map[string]int{"bad/es": 100})
	r := NewRunner(tasks, tr, testConfig())
	recordSleeps(r)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Total: 2, Succeeded: 1, Failed: 1}, res)
	assert.Equal(t, 3, tr.calls["bad/es"], "gives up after MaxAttempts")
	assert.Equal(t, 1, tr.calls["good/es"])
}

func TestRunNothingMissing(t *testing.T) {
	r := NewRunner(&fakeTasks{}, newFakeTranslator(nil), testConfig())

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestRunNoLocales(t *testing.T) {
	cfg := testConfig()
	cfg.Locales = []string{"en"}
	r := NewRunner(&fakeTasks{}, newFakeTranslator(nil), cfg)

	_, err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunTaskSourceError(t *testing.T) {
	boom := errors.New("db down")
	r := NewRunner(&fakeTasks{err: boom}, newFakeTranslator(nil), testConfig())

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunStopsOnCancel(t *testing.T) {
	tasks := &fakeTasks{tasks: []store.MissingTranslation{task("a", "es"), task("b", "es"), task("c", "es")}}
	tr := newFakeTranslator(nil)
	r := NewRunner(tasks, tr, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	res, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, tr.calls["a/es"])
	assert.Zero(t, tr.calls["b/es"])
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
