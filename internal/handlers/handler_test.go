// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler tests.
// Every test runs against its own SQLite database.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"lingopress/internal/articles"
	"lingopress/internal/database"
	"lingopress/internal/models"
	"lingopress/internal/paging"
	"lingopress/internal/query"
	"lingopress/internal/store"
)

// stubTranslator returns out for every request, or err when set.
type stubTranslator struct {
	mu    sync.Mutex
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, _, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.out, s.err
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	router       chi.Router
	posts        *store.PostStore
	translations *store.TranslationStore
	translator   *stubTranslator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(query.SQLite, filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, query.SQLite))

	env := &testEnv{
		posts:        store.NewPostStore(db, query.SQLite, "en"),
		translations: store.NewTranslationStore(db, query.SQLite),
		translator:   &stubTranslator{out: "# Hola\n\nTexto traducido."},
	}

	svc := articles.NewService(env.posts, env.translations, articles.ServiceConfig{
		DefaultLocale: "en",
		Translator:    env.translator,
	})
	lister := articles.NewLister(env.posts, env.translations, nil, articles.ListerConfig{
		DefaultLocale:   "en",
		DefaultPageSize: 10,
		Bounds:          paging.Bounds{Min: 1, Max: 50},
	})

	public := NewPublic(lister, svc, []string{"en", "es", "fr"})
	admin := NewAdmin(svc)
	sitemap := NewSitemap(svc, "https://example.com/", []string{"en", "es"})

	r := chi.NewRouter()
	r.Get("/api/articles", public.ListArticles)
	r.Get("/api/blog/{slug}", public.Article)
	r.Get("/sitemap/{locale}.xml", sitemap.ServeLocale)
	r.Route("/admin/api/articles", func(r chi.Router) {
		r.Post("/", admin.CreateArticle)
		r.Post("/batch", admin.SaveBatch)
		r.Get("/{slug}", admin.GetArticle)
		r.Patch("/{slug}", admin.UpdateArticle)
		r.Delete("/{slug}", admin.DeleteArticle)
	})
	env.router = r
	return env
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// addPost stores a post created n hours before baseTime. Odd n are drafts.
func (e *testEnv) addPost(t *testing.T, slug string, n int) *models.Post {
	t.Helper()
	created := baseTime.Add(-time.Duration(n) * time.Hour)
	p := &models.Post{
		Slug:      slug,
		Title:     "Title " + slug,
		Excerpt:   "Excerpt " + slug,
		Content:   "# Title " + slug + "\n\nBody.",
		CreatedAt: created,
	}
	if n%2 == 0 {
		p.PublishedAt = &created
	}
	require.NoError(t, e.posts.Create(context.Background(), p))
	return p
}

func (e *testEnv) addTranslation(t *testing.T, p *models.Post, locale string) *models.Translation {
	t.Helper()
	tr := &models.Translation{
		PostID:    p.ID,
		Locale:    locale,
		Slug:      locale + "-" + p.Slug,
		Title:     locale + " " + p.Title,
		Content:   "# " + locale + "\n\ntexto",
		CreatedAt: p.CreatedAt.Add(30 * time.Minute),
	}
	require.NoError(t, e.translations.Create(context.Background(), tr))
	return tr
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
