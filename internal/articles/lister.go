// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package articles implements the article listing, detail, mutation and
// sitemap operations on top of the post and translation stores.
package articles

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"lingopress/internal/cache"
	"lingopress/internal/models"
	"lingopress/internal/paging"
	"lingopress/internal/query"
	"lingopress/internal/store"
)

// PostSource lists default-locale articles.
type PostSource interface {
	ListPage(ctx context.Context, f store.Filter, w *store.Window) (store.Page, error)
}

// TranslationSource lists translated articles. An empty locale means every
// locale.
type TranslationSource interface {
	ListPage(ctx context.Context, f store.Filter, locale string, w *store.Window) (store.Page, error)
}

// Cache stores listing results. Implementations swallow their own errors.
// InvalidateAll must advance Generation so a result built from data read
// before the invalidation is never served after it.
type Cache interface {
	Generation(ctx context.Context) int64
	Get(ctx context.Context, key string) (*models.ListResult, bool)
	Set(ctx context.Context, key string, res *models.ListResult)
	InvalidateAll(ctx context.Context)
}

// Filters narrows a listing. Language overrides Params.Locale when set;
// models.AllLanguages merges every locale.
type Filters struct {
	Language string
	Search   string
	Status   models.StatusFilter
}

// Params is a listing request. Nil Page and PageSize use the defaults.
// After is a continuation token from Pagination.NextCursor; it selects the
// page holding that offset and is ignored when Page is set.
type Params struct {
	Locale   string
	Page     *int
	PageSize *int
	After    string
	Filters  *Filters
}

// ListerConfig configures a Lister.
type ListerConfig struct {
	DefaultLocale   string
	DefaultPageSize int
	Bounds          paging.Bounds
}

// Lister serves paginated article listings.
type Lister struct {
	posts        PostSource
	translations TranslationSource
	cache        Cache
	cfg          ListerConfig
}

// NewLister creates a Lister. c may be nil to disable caching.
func NewLister(posts PostSource, translations TranslationSource, c Cache, cfg ListerConfig) *Lister {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = paging.DefaultPageSize
	}
	return &Lister{posts: posts, translations: translations, cache: c, cfg: cfg}
}

// List returns one page of articles.
//
// For models.AllLanguages both sources are read in full and merged in
// memory, newest first, before the page is cut; the total is the sum of
// both sources. The default locale reads posts only and any other locale
// reads that locale's translations, both paginated by the database.
func (l *Lister) List(ctx context.Context, p Params) (*models.ListResult, error) {
	page, size := paging.DefaultPage, l.cfg.DefaultPageSize
	if p.Page != nil {
		page = *p.Page
	}
	if p.PageSize != nil {
		size = *p.PageSize
	}
	r := paging.Resolve(page, size, l.cfg.Bounds)
	if p.Page == nil && p.After != "" {
		r = paging.Resolve(paging.PageForOffset(paging.DecodeCursor(p.After), r.PageSize), r.PageSize, l.cfg.Bounds)
	}

	language := p.Locale
	var f store.Filter
	if p.Filters != nil {
		if p.Filters.Language != "" {
			language = p.Filters.Language
		}
		f.Search = query.NormalizeSearch(p.Filters.Search)
		f.Status = p.Filters.Status
	}
	f.Status = models.ParseStatusFilter(string(f.Status))
	if language == "" {
		language = l.cfg.DefaultLocale
	}

	// The generation is read before the sources, so a mutation that lands
	// mid-fetch sends this result to a key nobody reads any more.
	var gen int64
	if l.cache != nil {
		gen = l.cache.Generation(ctx)
	}
	key := cache.ListingKey(gen, language, f.Search, string(f.Status), r.Page, r.PageSize)
	if l.cache != nil {
		if res, ok := l.cache.Get(ctx, key); ok {
			return res, nil
		}
	}

	var (
		items []models.ListItem
		total int
		err   error
	)
	switch language {
	case models.AllLanguages:
		items, total, err = l.combined(ctx, f, r)
	case l.cfg.DefaultLocale:
		items, total, err = l.single(ctx, f, "", r)
	default:
		items, total, err = l.single(ctx, f, language, r)
	}
	if err != nil {
		return nil, err
	}

	res := &models.ListResult{
		Articles: items,
		Pagination: models.Pagination{
			CurrentPage: r.Page,
			PageSize:    r.PageSize,
			TotalItems:  total,
			TotalPages:  paging.TotalPages(total, r.PageSize),
		},
	}
	if next := r.Offset + r.Limit; next < total {
		res.Pagination.NextCursor = paging.EncodeCursor(next)
	}

	if l.cache != nil {
		l.cache.Set(ctx, key, res)
	}
	return res, nil
}

// single pushes the window down to one source. An empty locale selects the
// posts source.
func (l *Lister) single(ctx context.Context, f store.Filter, locale string, r paging.Result) ([]models.ListItem, int, error) {
	w := &store.Window{Limit: r.Limit, Offset: r.Offset}

	var (
		page store.Page
		err  error
	)
	if locale == "" {
		page, err = l.posts.ListPage(ctx, f, w)
	} else {
		page, err = l.translations.ListPage(ctx, f, locale, w)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return page.Items, page.Total, nil
}

// combined reads both sources unbounded and in parallel, then merges.
func (l *Lister) combined(ctx context.Context, f store.Filter, r paging.Result) ([]models.ListItem, int, error) {
	var posts, translations store.Page

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = l.posts.ListPage(gctx, f, nil)
		return err
	})
	g.Go(func() error {
		var err error
		translations, err = l.translations.ListPage(gctx, f, "", nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list all articles: %w", err)
	}

	merged := make([]models.ListItem, 0, len(posts.Items)+len(translations.Items))
	merged = append(merged, posts.Items...)
	merged = append(merged, translations.Items...)
	slices.SortFunc(merged, newestFirst)

	return window(merged, r.Offset, r.Limit), posts.Total + translations.Total, nil
}

// newestFirst orders by CreatedAt descending, then by ID ascending so equal
// timestamps sort the same way the database does.
func newestFirst(a, b models.ListItem) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// window returns items[offset:offset+limit], clipped to the slice. The
// result is never nil.
func window(items []models.ListItem, offset, limit int) []models.ListItem {
	if offset >= len(items) || limit <= 0 {
		return []models.ListItem{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
