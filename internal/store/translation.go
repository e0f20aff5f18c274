// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lingopress/internal/models"
	"lingopress/internal/query"
)

// TranslationStore handles the per-locale overlays in post_translations.
type TranslationStore struct {
	db      *sql.DB
	dialect query.Dialect
}

// NewTranslationStore creates a TranslationStore.
func NewTranslationStore(db *sql.DB, dialect query.Dialect) *TranslationStore {
	return &TranslationStore{db: db, dialect: dialect}
}

// searchTranslationColumns are matched by the search filter on the
// translated source. The base post's title and slug are included so an
// article can be found by either its shown or its underlying identifiers.
var searchTranslationColumns = []string{"t.title", "t.slug", "t.excerpt", "p.title", "p.slug"}

// ListPage returns translations joined to their posts, newest translation
// first, within w. An empty locale lists every locale. The total ignores w.
func (s *TranslationStore) ListPage(ctx context.Context, f Filter, locale string, w *Window) (Page, error) {
	var localeCond *query.Cond
	if locale != "" {
		localeCond = query.Eq("t.locale", locale)
	}

	where, args := query.Where(query.And(
		localeCond,
		query.Contains(searchTranslationColumns, f.Search),
		postStatusCond(f.Status),
	))

	const from = " FROM post_translations t INNER JOIN posts p ON t.post_id = p.id"
	rowsSQL := "SELECT " + postColumns + ", " + translationColumns + from + where +
		" ORDER BY t.created_at DESC, t.id ASC"
	countSQL := "SELECT COUNT(*)" + from + where

	page, err := fetchPage(ctx, s.db, s.dialect, rowsSQL, countSQL, args, w,
		func(rows *sql.Rows) (models.ListItem, error) {
			p, t, err := scanPostAndTranslation(rows)
			if err != nil {
				return models.ListItem{}, err
			}
			return models.TranslationListItem(p, t), nil
		})
	if err != nil {
		return Page{}, fmt.Errorf("list translations: %w", err)
	}
	return page, nil
}

// Find retrieves the translation of postID in locale. Returns nil if none.
func (s *TranslationStore) Find(ctx context.Context, postID uuid.UUID, locale string) (*models.Translation, error) {
	var t models.Translation
	var created, updated query.Timestamp
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT `+translationColumns+`
		FROM post_translations t
		WHERE t.post_id = ? AND t.locale = ?
	`), postID, locale).Scan(
		&t.ID, &t.PostID, &t.Locale, &t.Slug, &t.Title, &t.Excerpt,
		&t.Content, &t.CoverImageURL, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find translation: %w", err)
	}
	t.CreatedAt = created.Time
	t.UpdatedAt = updated.Time
	return &t, nil
}

// Create inserts t. A nil ID and zero timestamps are filled in. A second
// translation for the same (post, locale) violates a unique constraint.
func (s *TranslationStore) Create(ctx context.Context, t *models.Translation) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO post_translations (id, post_id, locale, slug, title, excerpt,
		                               content, cover_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), t.ID, t.PostID, t.Locale, t.Slug, t.Title, t.Excerpt, t.Content, t.CoverImageURL,
		s.dialect.Time(t.CreatedAt), s.dialect.Time(t.UpdatedAt),
	)
	if err != nil {
		return writeError("create translation", err)
	}
	return nil
}

// Update writes the text fields of t and bumps updated_at.
func (s *TranslationStore) Update(ctx context.Context, t *models.Translation) error {
	t.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE post_translations SET
			slug = ?, title = ?, excerpt = ?, content = ?, cover_image_url = ?, updated_at = ?
		WHERE id = ?
	`), t.Slug, t.Title, t.Excerpt, t.Content, t.CoverImageURL, s.dialect.Time(t.UpdatedAt), t.ID)
	if err != nil {
		return writeError("update translation", err)
	}
	return expectAffected(res, "update translation")
}
