// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewKind tags whether a View shows a translation or the base post.
type ViewKind string

const (
	ViewDefault    ViewKind = "default"
	ViewTranslated ViewKind = "translated"
)

// View is the effective text of a post as displayed: the translation's
// fields when one is present, the post's otherwise. PublishedAt always
// comes from the post.
type View struct {
	Kind          ViewKind
	Post          *Post
	Translation   *Translation
	Slug          string
	Title         string
	Excerpt       string
	Content       string
	CoverImageURL *string
	PublishedAt   *time.Time
}

// Overlay merges an optional translation over its post.
func Overlay(p *Post, t *Translation) View {
	v := View{
		Kind:          ViewDefault,
		Post:          p,
		Slug:          p.Slug,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
		PublishedAt:   p.PublishedAt,
	}
	if t == nil {
		return v
	}

	v.Kind = ViewTranslated
	v.Translation = t
	v.Slug = t.Slug
	v.Title = t.Title
	v.Excerpt = t.Excerpt
	v.Content = t.Content
	if t.CoverImageURL != nil {
		v.CoverImageURL = t.CoverImageURL
	}
	return v
}

// ListItem is one row of an article listing.
type ListItem struct {
	ID            uuid.UUID  `json:"id"`
	PostID        uuid.UUID  `json:"postId"`
	TranslationID *uuid.UUID `json:"translationId"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	CoverImageURL *string    `json:"coverImageUrl"`
	CreatedAt     time.Time  `json:"createdAt"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Locale        string     `json:"locale"`
}

// PostListItem lists a post in the default locale.
func PostListItem(p *Post, defaultLocale string) ListItem {
	return newListItem(Overlay(p, nil), defaultLocale, p.CreatedAt)
}

// TranslationListItem lists a translated post, dated by the translation.
func TranslationListItem(p *Post, t *Translation) ListItem {
	return newListItem(Overlay(p, t), t.Locale, t.CreatedAt)
}

// LocalizedListItem lists a post with an optional translation, dated by
// the post. Sitemaps and locale-wide listings use this.
func LocalizedListItem(p *Post, t *Translation, defaultLocale string) ListItem {
	locale := defaultLocale
	if t != nil {
		locale = t.Locale
	}
	return newListItem(Overlay(p, t), locale, p.CreatedAt)
}

func newListItem(v View, locale string, createdAt time.Time) ListItem {
	item := ListItem{
		ID:            v.Post.ID,
		PostID:        v.Post.ID,
		Slug:          v.Slug,
		Title:         v.Title,
		Excerpt:       v.Excerpt,
		Content:       v.Content,
		CoverImageURL: v.CoverImageURL,
		CreatedAt:     createdAt,
		PublishedAt:   v.PublishedAt,
		Locale:        locale,
	}
	if v.Kind == ViewTranslated {
		id := v.Translation.ID
		item.ID = id
		item.TranslationID = &id
	}
	return item
}

// BaseArticle is the untranslated snapshot embedded in ArticleDetail.
type BaseArticle struct {
	ID            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	CoverImageURL *string    `json:"coverImageUrl"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ArticleDetail is a single article as shown in one locale.
type ArticleDetail struct {
	ID              uuid.UUID   `json:"id"`
	PostID          uuid.UUID   `json:"postId"`
	TranslationID   *uuid.UUID  `json:"translationId"`
	Slug            string      `json:"slug"`
	BaseSlug        string      `json:"baseSlug"`
	Locale          string      `json:"locale"`
	DefaultLocale   string      `json:"defaultLocale"`
	IsDefaultLocale bool        `json:"isDefaultLocale"`
	Title           string      `json:"title"`
	Excerpt         string      `json:"excerpt"`
	Content         string      `json:"content"`
	ContentHTML     string      `json:"contentHtml,omitempty"`
	CoverImageURL   *string     `json:"coverImageUrl"`
	PublishedAt     *time.Time  `json:"publishedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	BaseArticle     BaseArticle `json:"baseArticle"`
}

// NewArticleDetail builds the detail view of p in locale. The translation is
// ignored when locale is the default one; without a translation the result
// reports the default locale.
func NewArticleDetail(p *Post, t *Translation, locale, defaultLocale string) *ArticleDetail {
	if locale == defaultLocale {
		t = nil
	}
	v := Overlay(p, t)

	d := &ArticleDetail{
		ID:              p.ID,
		PostID:          p.ID,
		Slug:            v.Slug,
		BaseSlug:        p.Slug,
		Locale:          defaultLocale,
		DefaultLocale:   defaultLocale,
		IsDefaultLocale: v.Kind == ViewDefault,
		Title:           v.Title,
		Excerpt:         v.Excerpt,
		Content:         v.Content,
		CoverImageURL:   v.CoverImageURL,
		PublishedAt:     v.PublishedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		BaseArticle: BaseArticle{
			ID:            p.ID,
			Slug:          p.Slug,
			Title:         p.Title,
			Excerpt:       p.Excerpt,
			Content:       p.Content,
			CoverImageURL: p.CoverImageURL,
			PublishedAt:   p.PublishedAt,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		},
	}
	if v.Kind == ViewTranslated {
		id := t.ID
		d.TranslationID = &id
		d.Locale = locale
		d.UpdatedAt = t.UpdatedAt
	}
	return d
}

// Pagination describes where a listing page sits in the full result.
type Pagination struct {
	CurrentPage int    `json:"currentPage"`
	PageSize    int    `json:"pageSize"`
	TotalItems  int    `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

// ListResult is one page of an article listing.
type ListResult struct {
	Articles   []ListItem `json:"articles"`
	Pagination Pagination `json:"pagination"`
}
