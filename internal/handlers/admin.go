// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"lingopress/internal/articles"
)

// Admin groups the article management endpoints. Routes are expected to sit
// behind middleware.RequireAPIKey.
type Admin struct {
	service  *articles.Service
	validate *validator.Validate
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(service *articles.Service) *Admin {
	return &Admin{service: service, validate: newValidator()}
}

// articleInput is the payload of a new article.
type articleInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Slug          string `json:"slug" validate:"omitempty,max=300,slug"`
	Content       string `json:"content" validate:"max=100000"`
	Excerpt       string `json:"excerpt" validate:"max=1000"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,url,max=2048"`
	Selected      *bool  `json:"selected"`
}

func (in articleInput) generated() articles.GeneratedArticle {
	return articles.GeneratedArticle{
		Title:         in.Title,
		Slug:          in.Slug,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		CoverImageURL: in.CoverImageURL,
		Selected:      in.Selected,
	}
}

type createRequest struct {
	articleInput
	Publish bool `json:"publish"`
}

type batchRequest struct {
	Articles []articleInput `json:"articles" validate:"required,min=1,max=100,dive"`
	Publish  bool           `json:"publish"`
}

// updateRequest patches an article. Absent fields are left untouched.
// publishedAt distinguishes absent from null, which unpublishes.
type updateRequest struct {
	Locale        string          `json:"locale" validate:"omitempty,bcp47_language_tag"`
	Slug          *string         `json:"slug" validate:"omitempty,max=300,slug"`
	Title         *string         `json:"title" validate:"omitempty,min=1,max=300"`
	Excerpt       *string         `json:"excerpt" validate:"omitempty,max=1000"`
	Content       *string         `json:"content" validate:"omitempty,max=100000"`
	CoverImageURL *string         `json:"coverImageUrl" validate:"omitempty,url,max=2048"`
	PublishedAt   json.RawMessage `json:"publishedAt"`
}

func (req updateRequest) input() (articles.UpdateInput, error) {
	in := articles.UpdateInput{
		Locale:        req.Locale,
		Slug:          req.Slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
	}
	if req.PublishedAt == nil {
		return in, nil
	}

	in.SetPublishedAt = true
	if bytes.Equal(req.PublishedAt, []byte("null")) {
		return in, nil
	}
	var ts time.Time
	if err := json.Unmarshal(req.PublishedAt, &ts); err != nil {
		return in, errors.New("publishedAt must be an RFC 3339 timestamp or null")
	}
	ts = ts.UTC()
	in.PublishedAt = &ts
	return in, nil
}

// GetArticle serves GET /admin/api/articles/{slug}. Unlike the public
// endpoint it never translates on demand.
func (a *Admin) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	d, err := a.service.Get(r.Context(), slug, r.URL.Query().Get("locale"))
	if err != nil {
		slog.Error("admin get article failed", "error", err, "slug", slug)
		writeError(w, http.StatusInternalServerError, "Failed to load article")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateArticle serves POST /admin/api/articles.
func (a *Admin) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", validationMessages(err)...)
		return
	}

	p, err := a.service.SaveGenerated(r.Context(), req.generated(), req.Publish)
	if err != nil {
		a.mutationError(w, "create article", err)
		return
	}
	slog.Info("article created", "slug", p.Slug, "published", p.IsPublished())
	writeJSON(w, http.StatusCreated, p)
}

// SaveBatch serves POST /admin/api/articles/batch. Individual failures are
// reported per article and never fail the request.
func (a *Admin) SaveBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", validationMessages(err)...)
		return
	}

	batch := make([]articles.GeneratedArticle, len(req.Articles))
	for i, in := range req.Articles {
		batch[i] = in.generated()
	}
	results := a.service.SaveBatch(r.Context(), batch, req.Publish)

	failed := 0
	for _, res := range results {
		if res.Status == articles.BatchError {
			failed++
		}
	}
	slog.Info("article batch saved", "total", len(results), "failed", failed)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// UpdateArticle serves PATCH /admin/api/articles/{slug}.
func (a *Admin) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", validationMessages(err)...)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", err.Error())
		return
	}

	d, err := a.service.Update(r.Context(), chi.URLParam(r, "slug"), in)
	if err != nil {
		a.mutationError(w, "update article", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteArticle serves DELETE /admin/api/articles/{slug}.
func (a *Admin) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := a.service.Delete(r.Context(), slug); err != nil {
		a.mutationError(w, "delete article", err)
		return
	}
	slog.Info("article deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) mutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, articles.ErrNotFound):
		writeError(w, http.StatusNotFound, "Article not found")
	case errors.Is(err, articles.ErrInvalidArticle):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, articles.ErrSlugTaken):
		writeError(w, http.StatusConflict, "Slug already in use")
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}
