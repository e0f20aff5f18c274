package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lingopress/internal/query"
)

type seedTranslation struct {
	locale, slug, title, excerpt, content string
}

type seedPost struct {
	slug, title, excerpt, content string
	published                     bool
	translations                  []seedTranslation
}

var seedPosts = []seedPost{
	{
		slug:      "welcome-to-lingopress",
		title:     "Welcome to LingoPress",
		excerpt:   "A multilingual blog that keeps every language in sync.",
		content:   "# Welcome to LingoPress\n\nThis is the first article. Edit or delete it from the admin API.",
		published: true,
		translations: []seedTranslation{
			{"es", "welcome-to-lingopress", "Bienvenido a LingoPress", "Un blog multilingüe.", "# Bienvenido a LingoPress\n\nEste es el primer artículo."},
			{"ja", "welcome-to-lingopress", "LingoPressへようこそ", "多言語ブログ。", "# LingoPressへようこそ\n\n最初の記事です。"},
		},
	},
	{
		slug:      "writing-in-many-languages",
		title:     "Writing in Many Languages",
		excerpt:   "How translations overlay the original article.",
		content:   "# Writing in Many Languages\n\nTranslations reuse the publish state of their article.",
		published: true,
		translations: []seedTranslation{
			{"fr", "writing-in-many-languages", "Écrire en plusieurs langues", "Comment fonctionnent les traductions.", "# Écrire en plusieurs langues\n\nLes traductions héritent de l'état de publication."},
		},
	},
	{
		slug:    "draft-ideas",
		title:   "Draft Ideas",
		excerpt: "Notes that are not published yet.",
		content: "# Draft Ideas\n\nNothing to see here.",
	},
}

// Seed populates an empty database with a few sample articles and
// translations for development. It is a no-op when any post exists.
func Seed(ctx context.Context, db *sql.DB, dialect query.Dialect) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	insertPost := dialect.Rebind(`
		INSERT INTO posts (id, slug, title, excerpt, content, cover_image_url,
		                   published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?)`)
	insertTranslation := dialect.Rebind(`
		INSERT INTO post_translations (id, post_id, locale, slug, title, excerpt,
		                               content, cover_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`)

	base := time.Now().UTC().Add(-time.Duration(len(seedPosts)) * time.Hour)
	for i, sp := range seedPosts {
		created := base.Add(time.Duration(i) * time.Hour)
		var published *time.Time
		if sp.published {
			published = &created
		}

		postID := uuid.New()
		if _, err := tx.ExecContext(ctx, insertPost,
			postID, sp.slug, sp.title, sp.excerpt, sp.content,
			dialect.NullTime(published), dialect.Time(created), dialect.Time(created),
		); err != nil {
			return fmt.Errorf("seed insert post %s: %w", sp.slug, err)
		}

		for j, st := range sp.translations {
			trCreated := created.Add(time.Duration(j+1) * time.Minute)
			if _, err := tx.ExecContext(ctx, insertTranslation,
				uuid.New(), postID, st.locale, st.slug, st.title, st.excerpt, st.content,
				dialect.Time(trCreated), dialect.Time(trCreated),
			); err != nil {
				return fmt.Errorf("seed insert translation %s/%s: %w", sp.slug, st.locale, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample articles", "posts", len(seedPosts))
	return nil
}
