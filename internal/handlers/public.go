// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lingopress/internal/articles"
	"lingopress/internal/models"
)

// Public groups the read-only article endpoints.
type Public struct {
	lister  *articles.Lister
	service *articles.Service
	locales []string
}

// NewPublic creates a new Public handler group. Articles are only served
// (and translated) for the listed locales.
func NewPublic(lister *articles.Lister, service *articles.Service, locales []string) *Public {
	return &Public{lister: lister, service: service, locales: locales}
}

// ListArticles serves GET /api/articles. Numeric parameters that do not
// parse are passed on as 0 so the resolver coerces them like any other
// invalid value; absent ones use the defaults.
func (p *Public) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := articles.Params{
		Locale:   q.Get("locale"),
		Page:     queryInt(q.Get("page")),
		PageSize: queryInt(q.Get("pageSize")),
		After:    q.Get("after"),
	}
	if q.Has("language") || q.Has("search") || q.Has("status") {
		params.Filters = &articles.Filters{
			Language: q.Get("language"),
			Search:   q.Get("search"),
			Status:   models.ParseStatusFilter(q.Get("status")),
		}
	}

	res, err := p.lister.List(r.Context(), params)
	if err != nil {
		slog.Error("list articles failed", "error", err, "locale", params.Locale)
		writeError(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// queryInt returns nil for an absent value and 0 for one that does not fit
// a 32-bit integer.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		n = 0
	}
	v := int(n)
	return &v
}

// Article serves GET /api/blog/{slug}. A missing translation is produced on
// demand; a non-empty script parameter makes translation failures fatal
// instead of falling back to the base text. An empty locale means the
// default one.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	locale := r.URL.Query().Get("locale")
	strict := r.URL.Query().Get("script") != ""

	if locale != "" && !slices.Contains(p.locales, locale) {
		writeError(w, http.StatusNotFound, "Unknown locale")
		return
	}

	d, err := p.service.GetTranslated(r.Context(), slug, locale, strict)
	if err != nil {
		slog.Error("get article failed", "error", err, "slug", slug, "locale", locale)
		writeError(w, http.StatusInternalServerError, "Failed to load article")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
