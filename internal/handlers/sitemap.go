// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"lingopress/internal/articles"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap serves one XML sitemap per configured locale.
type Sitemap struct {
	service *articles.Service
	baseURL string
	locales []string
}

// NewSitemap creates a Sitemap handler. Only locales listed in locales are
// served; others get 404.
func NewSitemap(service *articles.Service, baseURL string, locales []string) *Sitemap {
	return &Sitemap{service: service, baseURL: baseURL, locales: locales}
}

// ServeLocale serves GET /sitemap/{locale}.xml.
func (s *Sitemap) ServeLocale(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	if !slices.Contains(s.locales, locale) {
		writeError(w, http.StatusNotFound, "Unknown locale")
		return
	}

	entries, err := s.service.SitemapEntries(r.Context(), locale, s.baseURL)
	if err != nil {
		slog.Error("build sitemap failed", "error", err, "locale", locale)
		writeError(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	set := urlSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(entries))}
	for _, e := range entries {
		u := sitemapURL{Loc: e.Loc}
		if e.LastModified != nil {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		slog.Error("encode sitemap failed", "error", err, "locale", locale)
		writeError(w, http.StatusInternalServerError, "Failed to build sitemap")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(xml.Header))
	w.Write(out)
}
