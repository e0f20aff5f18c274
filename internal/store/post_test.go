// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingopress/internal/models"
)

func TestPostStoreCreateAndFindBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.addPost(t, "hello-world", "Hello World", 0, true)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := f.posts.FindBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Hello World", got.Title)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(*created.PublishedAt))
	assert.Nil(t, got.CoverImageURL)
}

func TestPostStoreFindBySlugMissing(t *testing.T) {
	f := newFixture(t)

	got, err := f.posts.FindBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostStoreListPageOrderAndWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addPost(t, "oldest", "Oldest", 0, true)
	f.addPost(t, "newest", "Newest", 2, true)
	f.addPost(t, "middle", "Middle", 1, true)

	all, err := f.posts.ListPage(ctx, Filter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, slugs(all.Items))

	first, err := f.posts.ListPage(ctx, Filter{}, &Window{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Total, "total ignores the window")
	assert.Equal(t, []string{"newest", "middle"}, slugs(first.Items))

	second, err := f.posts.ListPage(ctx, Filter{}, &Window{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"oldest"}, slugs(second.Items))

	past, err := f.posts.ListPage(ctx, Filter{}, &Window{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, past.Items)
	assert.Empty(t, past.Items)
	assert.Equal(t, 3, past.Total)
}

func TestPostStoreListPageTieBreakByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []*models.Post{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Slug: "b", Title: "B", CreatedAt: f.base},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Slug: "a", Title: "A", CreatedAt: f.base},
	} {
		require.NoError(t, f.posts.Create(ctx, p))
	}

	page, err := f.posts.ListPage(ctx, Filter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, slugs(page.Items))
}

func TestPostStoreListPageItems(t *testing.T) {
	f := newFixture(t)

	p := f.addPost(t, "item", "Item", 0, true)

	page, err := f.posts.ListPage(context.Background(), Filter{}, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, p.ID, item.ID)
	assert.Equal(t, p.ID, item.PostID)
	assert.Nil(t, item.TranslationID)
	assert.Equal(t, testDefaultLocale, item.Locale)
	assert.True(t, item.CreatedAt.Equal(p.CreatedAt))
}

func TestPostStoreListPageSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addPost(t, "upper", "All About FOO", 0, true)
	f.addPost(t, "digit", "All About fo0", 1, true)
	f.addPost(t, "percent", "100% Coverage", 2, true)
	f.addPost(t, "under_score", "Plain", 3, true)

	tests := []struct {
		search string
		want   []string
	}{
		{"foo", []string{"upper"}},
		{"  FoO  ", []string{"upper"}},
		{"%", []string{"percent"}},
		{"_", []string{"under_score"}},
		{"about", []string{"digit", "upper"}},
		{"nothing-matches", []string{}},
		{"", []string{"under_score", "percent", "digit", "upper"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			page, err := f.posts.ListPage(ctx, Filter{Search: tt.search}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(page.Items))
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestPostStoreListPageStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addPost(t, "live", "Live", 0, true)
	f.addPost(t, "draft", "Draft", 1, false)

	tests := []struct {
		status models.StatusFilter
		want   []string
	}{
		{models.StatusAll, []string{"draft", "live"}},
		{models.StatusPublished, []string{"live"}},
		{models.StatusDraft, []string{"draft"}},
		{"", []string{"draft", "live"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			page, err := f.posts.ListPage(ctx, Filter{Status: tt.status}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(page.Items))
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestPostStoreUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.addPost(t, "before", "Before", 0, false)
	p.Title = "After"
	p.Slug = "after"
	p.PublishedAt = &f.base
	require.NoError(t, f.posts.Update(ctx, p))

	got, err := f.posts.FindBySlug(ctx, "after")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Title)
	assert.True(t, got.IsPublished())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	missing := &models.Post{ID: uuid.New(), Slug: "ghost", Title: "Ghost"}
	assert.ErrorIs(t, f.posts.Update(ctx, missing), ErrNotFound)
}

func TestPostStoreDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addPost(t, "taken", "Taken", 0, true)
	other := f.addPost(t, "other", "Other", 1, true)

	dup := &models.Post{Slug: "taken", Title: "Again"}
	err := f.posts.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	other.Slug = "taken"
	assert.ErrorIs(t, f.posts.Update(ctx, other), ErrDuplicate)

	assert.False(t, isUniqueViolation(ErrNotFound))
}

func TestPostStoreDeleteBySlugCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.addPost(t, "doomed", "Doomed", 0, true)
	f.addTranslation(t, p, "es", "Condenado", 1)

	require.NoError(t, f.posts.DeleteBySlug(ctx, "doomed"))

	got, err := f.posts.FindBySlug(ctx, "doomed")
	require.NoError(t, err)
	assert.Nil(t, got)

	tr, err := f.translations.Find(ctx, p.ID, "es")
	require.NoError(t, err)
	assert.Nil(t, tr)

	assert.ErrorIs(t, f.posts.DeleteBySlug(ctx, "doomed"), ErrNotFound)
}

func TestPostStoreFindWithTranslation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.addPost(t, "greeting", "Hello", 0, true)
	tr := f.addTranslation(t, p, "es", "Hola", 1)

	gotPost, gotTr, err := f.posts.FindWithTranslation(ctx, "greeting", "es")
	require.NoError(t, err)
	require.NotNil(t, gotPost)
	require.NotNil(t, gotTr)
	assert.Equal(t, p.ID, gotPost.ID)
	assert.Equal(t, tr.ID, gotTr.ID)
	assert.Equal(t, "Hola", gotTr.Title)

	gotPost, gotTr, err = f.posts.FindWithTranslation(ctx, "greeting", "fr")
	require.NoError(t, err)
	require.NotNil(t, gotPost)
	assert.Nil(t, gotTr)

	gotPost, gotTr, err = f.posts.FindWithTranslation(ctx, "missing", "es")
	require.NoError(t, err)
	assert.Nil(t, gotPost)
	assert.Nil(t, gotTr)
}

func TestPostStoreListWithLocale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	translated := f.addPost(t, "translated", "Translated", 0, true)
	f.addPost(t, "plain", "Plain", 1, true)
	f.addPost(t, "hidden", "Hidden", 2, false)
	f.addTranslation(t, translated, "es", "Traducido", 5)

	items, err := f.posts.ListWithLocale(ctx, "es", models.StatusPublished)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Plain", items[0].Title)
	assert.Equal(t, testDefaultLocale, items[0].Locale)

	assert.Equal(t, "Traducido", items[1].Title)
	assert.Equal(t, "es", items[1].Locale)
	assert.NotNil(t, items[1].TranslationID)
	assert.True(t, items[1].CreatedAt.Equal(translated.CreatedAt), "dated by the post")
}

func TestPostStoreListMissingTranslations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := f.addPost(t, "done", "Done", 0, true)
	todo := f.addPost(t, "todo", "Todo", 1, true)
	f.addTranslation(t, done, "es", "Hecho", 2)
	blank := &models.Translation{PostID: done.ID, Locale: "fr", Slug: "done", Title: "Fait", Content: "  "}
	require.NoError(t, f.translations.Create(ctx, blank))

	missing, err := f.posts.ListMissingTranslations(ctx, []string{"es", "fr"})
	require.NoError(t, err)

	assert.Equal(t, []MissingTranslation{
		{PostID: todo.ID, Slug: "todo", Locale: "es"},
		{PostID: todo.ID, Slug: "todo", Locale: "fr"},
		{PostID: done.ID, Slug: "done", Locale: "fr"},
	}, missing)
}
