// store_test.go provides a shared test database helper for all store
// tests. Each test gets a fresh, migrated SQLite file so tests are
// hermetic and can run in parallel.
package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lingopress/internal/database"
	"lingopress/internal/models"
	"lingopress/internal/query"
)

const testDefaultLocale = "en"

// testDB opens a migrated SQLite database in a temporary directory. The
// connection is closed when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(query.SQLite, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, query.SQLite))
	return db
}

// fixture bundles the stores under test with a fixed clock origin.
type fixture struct {
	db           *sql.DB
	posts        *PostStore
	translations *TranslationStore
	base         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	return &fixture{
		db:           db,
		posts:        NewPostStore(db, query.SQLite, testDefaultLocale),
		translations: NewTranslationStore(db, query.SQLite),
		base:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// addPost inserts a post created hoursAfter the fixture base.
func (f *fixture) addPost(t *testing.T, slug, title string, hoursAfter int, published bool) *models.Post {
	t.Helper()
	created := f.base.Add(time.Duration(hoursAfter) * time.Hour)
	p := &models.Post{
		Slug:      slug,
		Title:     title,
		Excerpt:   "Excerpt of " + title,
		Content:   "# " + title + "\n\nBody.",
		CreatedAt: created,
	}
	if published {
		p.PublishedAt = &created
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

// addTranslation inserts a translation of p created hoursAfter the base.
func (f *fixture) addTranslation(t *testing.T, p *models.Post, locale, title string, hoursAfter int) *models.Translation {
	t.Helper()
	tr := &models.Translation{
		PostID:    p.ID,
		Locale:    locale,
		Slug:      p.Slug,
		Title:     title,
		Excerpt:   "Excerpt of " + title,
		Content:   "# " + title,
		CreatedAt: f.base.Add(time.Duration(hoursAfter) * time.Hour),
	}
	require.NoError(t, f.translations.Create(context.Background(), tr))
	return tr
}

func slugs(items []models.ListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Slug
	}
	return out
}

func titles(items []models.ListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}
