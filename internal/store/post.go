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

// PostStore handles the default-locale articles in the posts table.
type PostStore struct {
	db            *sql.DB
	dialect       query.Dialect
	defaultLocale string
}

// NewPostStore creates a PostStore. defaultLocale tags the list items it
// returns.
func NewPostStore(db *sql.DB, dialect query.Dialect, defaultLocale string) *PostStore {
	return &PostStore{db: db, dialect: dialect, defaultLocale: defaultLocale}
}

// searchPostColumns are matched by the search filter on the base source.
var searchPostColumns = []string{"p.title", "p.slug", "p.excerpt"}

// ListPage returns posts matching f, newest first, within w. The total
// ignores w.
func (s *PostStore) ListPage(ctx context.Context, f Filter, w *Window) (Page, error) {
	where, args := query.Where(query.And(
		query.Contains(searchPostColumns, f.Search),
		postStatusCond(f.Status),
	))

	rowsSQL := "SELECT " + postColumns + " FROM posts p" + where +
		" ORDER BY p.created_at DESC, p.id ASC"
	countSQL := "SELECT COUNT(*) FROM posts p" + where

	page, err := fetchPage(ctx, s.db, s.dialect, rowsSQL, countSQL, args, w,
		func(rows *sql.Rows) (models.ListItem, error) {
			p, err := scanPost(rows)
			if err != nil {
				return models.ListItem{}, err
			}
			return models.PostListItem(p, s.defaultLocale), nil
		})
	if err != nil {
		return Page{}, fmt.Errorf("list posts: %w", err)
	}
	return page, nil
}

// Create inserts p. A nil ID and zero timestamps are filled in.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO posts (id, slug, title, excerpt, content, cover_image_url,
		                   published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImageURL,
		s.dialect.NullTime(p.PublishedAt), s.dialect.Time(p.CreatedAt), s.dialect.Time(p.UpdatedAt),
	)
	if err != nil {
		return writeError("create post", err)
	}
	return nil
}

// FindBySlug retrieves a post by slug regardless of status. Returns nil if
// not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		"SELECT "+postColumns+" FROM posts p WHERE p.slug = ?"), slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindWithTranslation retrieves a post by slug together with its
// translation for locale, if any. Returns nil, nil, nil if the post does not
// exist.
func (s *PostStore) FindWithTranslation(ctx context.Context, slug, locale string) (*models.Post, *models.Translation, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT `+postColumns+`, `+translationColumns+`
		FROM posts p
		LEFT JOIN post_translations t ON t.post_id = p.id AND t.locale = ?
		WHERE p.slug = ?
		LIMIT 1
	`), locale, slug)

	p, t, err := scanPostAndOptionalTranslation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find post with translation: %w", err)
	}
	return p, t, nil
}

// Update writes every mutable field of p and bumps updated_at.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE posts SET
			slug = ?, title = ?, excerpt = ?, content = ?, cover_image_url = ?,
			published_at = ?, updated_at = ?
		WHERE id = ?
	`), p.Slug, p.Title, p.Excerpt, p.Content, p.CoverImageURL,
		s.dialect.NullTime(p.PublishedAt), s.dialect.Time(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return writeError("update post", err)
	}
	return expectAffected(res, "update post")
}

// DeleteBySlug removes a post; its translations cascade.
func (s *PostStore) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM posts WHERE slug = ?`), slug)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(res, "delete post")
}

// ListWithLocale returns every post matching status, newest post first,
// overlaid with its translation for locale when one exists. Items are dated
// by the post.
func (s *PostStore) ListWithLocale(ctx context.Context, locale string, status models.StatusFilter) ([]models.ListItem, error) {
	where, args := query.Where(postStatusCond(status))

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT `+postColumns+`, `+translationColumns+`
		FROM posts p
		LEFT JOIN post_translations t ON t.post_id = p.id AND t.locale = ?`+where+`
		ORDER BY p.created_at DESC, p.id ASC
	`), append([]any{locale}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("list posts with locale: %w", err)
	}
	defer rows.Close()

	items := []models.ListItem{}
	for rows.Next() {
		p, t, err := scanPostAndOptionalTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post with locale: %w", err)
		}
		items = append(items, models.LocalizedListItem(p, t, s.defaultLocale))
	}
	return items, rows.Err()
}

// MissingTranslation names a post lacking a translation in Locale.
type MissingTranslation struct {
	PostID uuid.UUID
	Slug   string
	Locale string
}

// ListMissingTranslations returns, for each locale, the posts that have no
// translation in it, newest first. A translation with blank content counts
// as missing.
func (s *PostStore) ListMissingTranslations(ctx context.Context, locales []string) ([]MissingTranslation, error) {
	stmt := s.dialect.Rebind(`
		SELECT p.id, p.slug
		FROM posts p
		WHERE NOT EXISTS (
			SELECT 1 FROM post_translations t
			WHERE t.post_id = p.id AND t.locale = ? AND trim(t.content) <> ''
		)
		ORDER BY p.created_at DESC, p.id ASC
	`)

	var missing []MissingTranslation
	for _, locale := range locales {
		rows, err := s.db.QueryContext(ctx, stmt, locale)
		if err != nil {
			return nil, fmt.Errorf("list missing translations: %w", err)
		}
		for rows.Next() {
			m := MissingTranslation{Locale: locale}
			if err := rows.Scan(&m.PostID, &m.Slug); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan missing translation: %w", err)
			}
			missing = append(missing, m)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("list missing translations: %w", err)
		}
	}
	return missing, nil
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
