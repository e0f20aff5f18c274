// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package articles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lingopress/internal/models"
)

// sitemapRoutes are the static pages listed in every locale's sitemap.
var sitemapRoutes = []string{"", "/blogs"}

// SitemapEntry is one URL of a sitemap.
type SitemapEntry struct {
	Loc          string
	LastModified *time.Time
}

// SitemapEntries lists the static routes and every published article for
// locale under baseURL. The default locale has no path prefix; translated
// articles use the translation's slug.
func (s *Service) SitemapEntries(ctx context.Context, locale, baseURL string) ([]SitemapEntry, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	prefix := strings.TrimRight(baseURL, "/")
	if locale != s.defaultLocale {
		prefix += "/" + locale
	}

	items, err := s.posts.ListWithLocale(ctx, locale, models.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("sitemap %s: %w", locale, err)
	}

	entries := make([]SitemapEntry, 0, len(sitemapRoutes)+len(items))
	for _, route := range sitemapRoutes {
		entries = append(entries, SitemapEntry{Loc: prefix + route})
	}
	for _, it := range items {
		entries = append(entries, SitemapEntry{
			Loc:          prefix + "/blog/" + it.Slug,
			LastModified: it.PublishedAt,
		})
	}
	return entries, nil
}
