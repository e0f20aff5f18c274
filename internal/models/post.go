// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AllLanguages is the listing language filter that merges every locale.
const AllLanguages = "all"

// StatusFilter restricts listings by publishing state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPublished StatusFilter = "published"
	StatusDraft     StatusFilter = "draft"
)

// ParseStatusFilter maps free-form input to a StatusFilter. Anything
// unrecognised, including the empty string, means StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPublished:
		return StatusPublished
	case StatusDraft:
		return StatusDraft
	}
	return StatusAll
}

// Post is an article in the default locale. A nil PublishedAt means the
// post is a draft; translations inherit that state.
type Post struct {
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

// IsPublished reports whether the post has been published.
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil
}

// Translation overlays a Post's text in a non-default locale. At most one
// exists per (PostID, Locale).
type Translation struct {
	ID            uuid.UUID `json:"id"`
	PostID        uuid.UUID `json:"postId"`
	Locale        string    `json:"locale"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	CoverImageURL *string   `json:"coverImageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
