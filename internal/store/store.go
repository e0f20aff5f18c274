// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the article persistence layer. Statements are
// written with "?" placeholders and rebound to the connected dialect, so the
// same store serves Postgres and SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"lingopress/internal/models"
	"lingopress/internal/query"
)

var (
	// ErrNotFound is returned by mutations that target a missing row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a unique constraint,
	// such as a post slug already in use.
	ErrDuplicate = errors.New("duplicate")
)

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// writeError wraps a failed insert or update, mapping unique constraint
// violations from either driver to ErrDuplicate.
func writeError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// Filter narrows a listing. The zero value matches everything.
type Filter struct {
	Search string
	Status models.StatusFilter
}

// Window bounds a listing query. A nil *Window means the full result set.
type Window struct {
	Limit  int
	Offset int
}

func (w *Window) clause() (string, []any) {
	if w == nil {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []any{w.Limit, w.Offset}
}

// Page is one fetched slice of a listing plus the total number of rows
// matching the filter, regardless of the window.
type Page struct {
	Items []models.ListItem
	Total int
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// postColumns lists the posts columns for SELECTs aliased as p.
const postColumns = `p.id, p.slug, p.title, p.excerpt, p.content, p.cover_image_url,
	p.published_at, p.created_at, p.updated_at`

// translationColumns lists the post_translations columns for SELECTs
// aliased as t.
const translationColumns = `t.id, t.post_id, t.locale, t.slug, t.title, t.excerpt,
	t.content, t.cover_image_url, t.created_at, t.updated_at`

// postStatusCond maps a status filter onto the base post's published_at.
func postStatusCond(status models.StatusFilter) *query.Cond {
	switch status {
	case models.StatusPublished:
		return query.IsNotNull("p.published_at")
	case models.StatusDraft:
		return query.IsNull("p.published_at")
	}
	return nil
}

// postFields returns the scan destinations for postColumns.
func postFields(p *models.Post, published, created, updated *query.Timestamp) []any {
	return []any{
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.CoverImageURL,
		published, created, updated,
	}
}

func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	var published, created, updated query.Timestamp
	if err := row.Scan(postFields(&p, &published, &created, &updated)...); err != nil {
		return nil, err
	}
	p.PublishedAt = published.Ptr()
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time
	return &p, nil
}

// scanPostAndTranslation scans a row of postColumns followed by
// translationColumns from an INNER JOIN.
func scanPostAndTranslation(row scanner) (*models.Post, *models.Translation, error) {
	var p models.Post
	var t models.Translation
	var published, created, updated, tCreated, tUpdated query.Timestamp

	dest := postFields(&p, &published, &created, &updated)
	dest = append(dest,
		&t.ID, &t.PostID, &t.Locale, &t.Slug, &t.Title, &t.Excerpt,
		&t.Content, &t.CoverImageURL, &tCreated, &tUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, nil, err
	}

	p.PublishedAt = published.Ptr()
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time
	t.CreatedAt = tCreated.Time
	t.UpdatedAt = tUpdated.Time
	return &p, &t, nil
}

// scanPostAndOptionalTranslation scans a row of postColumns followed by
// translationColumns from a LEFT JOIN; the translation is nil when absent.
func scanPostAndOptionalTranslation(row scanner) (*models.Post, *models.Translation, error) {
	var p models.Post
	var published, created, updated, tCreated, tUpdated query.Timestamp
	var (
		tID, tPostID                           uuid.NullUUID
		tLocale, tSlug, tTitle, tExcerpt, tBody sql.NullString
		tCover                                 *string
	)

	dest := postFields(&p, &published, &created, &updated)
	dest = append(dest,
		&tID, &tPostID, &tLocale, &tSlug, &tTitle, &tExcerpt,
		&tBody, &tCover, &tCreated, &tUpdated,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, nil, err
	}

	p.PublishedAt = published.Ptr()
	p.CreatedAt = created.Time
	p.UpdatedAt = updated.Time

	if !tID.Valid {
		return &p, nil, nil
	}
	return &p, &models.Translation{
		ID:            tID.UUID,
		PostID:        tPostID.UUID,
		Locale:        tLocale.String,
		Slug:          tSlug.String,
		Title:         tTitle.String,
		Excerpt:       tExcerpt.String,
		Content:       tBody.String,
		CoverImageURL: tCover,
		CreatedAt:     tCreated.Time,
		UpdatedAt:     tUpdated.Time,
	}, nil
}

// fetchPage runs the row query and the count query concurrently. Both share
// the filter arguments; only the row query gets the window.
func fetchPage(
	ctx context.Context,
	db *sql.DB,
	dialect query.Dialect,
	rowsSQL, countSQL string,
	args []any,
	w *Window,
	scan func(*sql.Rows) (models.ListItem, error),
) (Page, error) {
	items := []models.ListItem{}
	var total int

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		limit, windowArgs := w.clause()
		rows, err := db.QueryContext(gctx, dialect.Rebind(rowsSQL+limit), append(slices.Clone(args), windowArgs...)...)
		if err != nil {
			return fmt.Errorf("query rows: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return fmt.Errorf("scan row: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})

	g.Go(func() error {
		if err := db.QueryRowContext(gctx, dialect.Rebind(countSQL), args...).Scan(&total); err != nil {
			return fmt.Errorf("count rows: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total}, nil
}
