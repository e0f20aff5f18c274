// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"lingopress/internal/markdown"
	"lingopress/internal/models"
	"lingopress/internal/slug"
	"lingopress/internal/store"
	"lingopress/internal/translate"
)

var (
	// ErrNotFound is returned when the target article does not exist.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidArticle is returned when an article cannot be saved as given.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrSlugTaken is returned when a create or rename would reuse the slug
	// of another post.
	ErrSlugTaken = store.ErrDuplicate

	// errNoTranslator is returned by strict translation without a client.
	errNoTranslator = errors.New("translation is not configured")
)

// CacheLogger records cache invalidations for auditing.
type CacheLogger interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// Service provides single-article operations.
type Service struct {
	posts         *store.PostStore
	translations  *store.TranslationStore
	translator    translate.Translator
	cache         Cache
	cacheLog      CacheLogger
	defaultLocale string
}

// ServiceConfig wires the optional collaborators of a Service. Nil fields
// disable the corresponding feature.
type ServiceConfig struct {
	DefaultLocale string
	Translator    translate.Translator
	Cache         Cache
	CacheLog      CacheLogger
}

// NewService creates a Service.
func NewService(posts *store.PostStore, translations *store.TranslationStore, cfg ServiceConfig) *Service {
	return &Service{
		posts:         posts,
		translations:  translations,
		translator:    cfg.Translator,
		cache:         cfg.Cache,
		cacheLog:      cfg.CacheLog,
		defaultLocale: cfg.DefaultLocale,
	}
}

// DefaultLocale returns the locale of base posts.
func (s *Service) DefaultLocale() string {
	return s.defaultLocale
}

// Get returns the article with slug as shown in locale, or nil if no such
// article exists. Without a stored translation the base text is shown.
func (s *Service) Get(ctx context.Context, slug, locale string) (*models.ArticleDetail, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	p, t, err := s.posts.FindWithTranslation(ctx, slug, locale)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return s.detail(p, t, locale)
}

// GetTranslated is Get with on-demand translation: when locale has no
// usable stored translation the base content is machine-translated, stored
// and returned. If translation fails, strict returns the error and
// non-strict falls back to the base text.
func (s *Service) GetTranslated(ctx context.Context, slug, locale string, strict bool) (*models.ArticleDetail, error) {
	if locale == "" || locale == s.defaultLocale {
		return s.Get(ctx, slug, s.defaultLocale)
	}

	p, existing, err := s.posts.FindWithTranslation(ctx, slug, locale)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	if existing != nil && strings.TrimSpace(existing.Content) != "" {
		return s.detail(p, existing, locale)
	}

	text, err := s.machineTranslate(ctx, p.Content, locale)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("translate %s to %s: %w", p.Slug, locale, err)
		}
		slog.Warn("translation failed, serving base article",
			"slug", p.Slug, "locale", locale, "error", err)
		return s.detail(p, nil, locale)
	}

	title, desc := translate.ExtractTitleAndDescription(text, p.Title, p.Excerpt)

	if existing != nil {
		existing.Title = title
		existing.Excerpt = desc
		existing.Content = text
		if err := s.translations.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("store translation: %w", err)
		}
		s.invalidate(ctx, "translation", existing.ID, "update")
		return s.detail(p, existing, locale)
	}

	t := &models.Translation{
		PostID:        p.ID,
		Locale:        locale,
		Slug:          p.Slug,
		Title:         title,
		Excerpt:       desc,
		Content:       text,
		CoverImageURL: p.CoverImageURL,
	}
	if err := s.translations.Create(ctx, t); err != nil {
		// A concurrent request may have stored the same locale first.
		if raced, findErr := s.translations.Find(ctx, p.ID, locale); findErr == nil && raced != nil {
			return s.detail(p, raced, locale)
		}
		return nil, fmt.Errorf("store translation: %w", err)
	}
	s.invalidate(ctx, "translation", t.ID, "create")

	slog.Info("article translated", "slug", p.Slug, "locale", locale)
	return s.detail(p, t, locale)
}

func (s *Service) machineTranslate(ctx context.Context, content, locale string) (string, error) {
	if s.translator == nil {
		return "", errNoTranslator
	}
	text, err := s.translator.Translate(ctx, content, s.defaultLocale, locale)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty translation")
	}
	return text, nil
}

func (s *Service) detail(p *models.Post, t *models.Translation, locale string) (*models.ArticleDetail, error) {
	d := models.NewArticleDetail(p, t, locale, s.defaultLocale)
	html, err := markdown.ToHTML(d.Content)
	if err != nil {
		return nil, fmt.Errorf("render article %s: %w", p.Slug, err)
	}
	d.ContentHTML = html
	return d, nil
}

// UpdateInput carries a partial article update. Nil fields are left
// untouched. A non-nil empty CoverImageURL clears the cover. PublishedAt is
// applied only when SetPublishedAt is true, so nil can unpublish.
type UpdateInput struct {
	Locale         string
	Slug           *string
	Title          *string
	Excerpt        *string
	Content        *string
	CoverImageURL  *string
	PublishedAt    *time.Time
	SetPublishedAt bool
}

// Update applies in to the article with slug. The default locale edits the
// base post; any other locale edits its translation, creating one seeded
// from the post when none exists. Returns the refreshed article.
func (s *Service) Update(ctx context.Context, slug string, in UpdateInput) (*models.ArticleDetail, error) {
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	locale := in.Locale
	if locale == "" {
		locale = s.defaultLocale
	}
	if locale == s.defaultLocale {
		return s.updatePost(ctx, p, in)
	}
	return s.updateTranslation(ctx, p, locale, in)
}

func (s *Service) updatePost(ctx context.Context, p *models.Post, in UpdateInput) (*models.ArticleDetail, error) {
	assign(&p.Title, in.Title)
	assign(&p.Excerpt, in.Excerpt)
	assign(&p.Content, in.Content)
	if in.CoverImageURL != nil {
		p.CoverImageURL = nullable(*in.CoverImageURL)
	}
	if in.SetPublishedAt {
		p.PublishedAt = in.PublishedAt
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" && *in.Slug != p.Slug {
		p.Slug = *in.Slug
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	s.invalidate(ctx, "post", p.ID, "update")

	return s.Get(ctx, p.Slug, s.defaultLocale)
}

func (s *Service) updateTranslation(ctx context.Context, p *models.Post, locale string, in UpdateInput) (*models.ArticleDetail, error) {
	t, err := s.translations.Find(ctx, p.ID, locale)
	if err != nil {
		return nil, fmt.Errorf("update translation: %w", err)
	}

	if t != nil {
		assign(&t.Title, in.Title)
		assign(&t.Excerpt, in.Excerpt)
		assign(&t.Content, in.Content)
		if in.CoverImageURL != nil {
			t.CoverImageURL = nullable(*in.CoverImageURL)
		}
		if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
			t.Slug = *in.Slug
		}
		if err := s.translations.Update(ctx, t); err != nil {
			return nil, fmt.Errorf("update translation: %w", err)
		}
		s.invalidate(ctx, "translation", t.ID, "update")
		return s.Get(ctx, p.Slug, locale)
	}

	t = &models.Translation{
		PostID:        p.ID,
		Locale:        locale,
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
	}
	assign(&t.Slug, in.Slug)
	assign(&t.Title, in.Title)
	assign(&t.Excerpt, in.Excerpt)
	assign(&t.Content, in.Content)
	if in.CoverImageURL != nil {
		t.CoverImageURL = nullable(*in.CoverImageURL)
	}
	if err := s.translations.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create translation: %w", err)
	}
	s.invalidate(ctx, "translation", t.ID, "create")
	return s.Get(ctx, p.Slug, locale)
}

// Delete removes the article with slug and all of its translations.
func (s *Service) Delete(ctx context.Context, slug string) error {
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if p == nil {
		return ErrNotFound
	}

	if err := s.posts.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	s.invalidate(ctx, "post", p.ID, "delete")
	return nil
}

// GeneratedArticle is an article produced outside the CMS and saved as a
// new post. Selected=false excludes it from batch saves.
type GeneratedArticle struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	Selected      *bool
}

const excerptLength = 140

// SaveGenerated stores a as a new post, published now when publish is
// set. A missing slug is derived from the title and a missing excerpt from
// the start of the content.
func (s *Service) SaveGenerated(ctx context.Context, a GeneratedArticle, publish bool) (*models.Post, error) {
	p, err := newPost(a, publish)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("save article %q: %w", a.Title, err)
	}
	s.invalidate(ctx, "post", p.ID, "create")
	return p, nil
}

func newPost(a GeneratedArticle, publish bool) (*models.Post, error) {
	if strings.TrimSpace(a.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}

	postSlug := strings.TrimSpace(a.Slug)
	if postSlug == "" {
		postSlug = slug.Generate(a.Title)
	}
	if postSlug == "" {
		return nil, fmt.Errorf("%w: cannot derive a slug from %q", ErrInvalidArticle, a.Title)
	}

	excerpt := a.Excerpt
	if excerpt == "" {
		excerpt = defaultExcerpt(a.Content)
	}

	now := time.Now().UTC()
	p := &models.Post{
		Slug:          postSlug,
		Title:         a.Title,
		Excerpt:       excerpt,
		Content:       a.Content,
		CoverImageURL: nullable(a.CoverImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if publish {
		p.PublishedAt = &now
	}
	return p, nil
}

// defaultExcerpt returns the first excerptLength characters of content
// followed by "...".
func defaultExcerpt(content string) string {
	if utf8.RuneCountInString(content) > excerptLength {
		content = string([]rune(content)[:excerptLength])
	}
	return content + "..."
}

// invalidate clears cached listings after a mutation and records why.
func (s *Service) invalidate(ctx context.Context, entityType string, id uuid.UUID, action string) {
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
	if s.cacheLog != nil {
		s.cacheLog.Log(ctx, entityType, id, action)
	}
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
