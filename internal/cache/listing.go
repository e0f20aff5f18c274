// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go provides a Valkey-backed cache for article listing pages.
// A listing result is stored as JSON under a key derived from the
// normalized listing inputs and the current cache generation, so repeated
// requests skip both source queries. Any article mutation bumps the
// generation, which orphans every key built before it, and then clears the
// old entries.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lingopress/internal/models"
)

const (
	// listingKeyPrefix is the Valkey key prefix for cached listings.
	listingKeyPrefix = "listing:"

	// listingGenKey holds the generation counter. It sits outside the
	// listing prefix so InvalidateAll never deletes it.
	listingGenKey = "listing-gen"

	// DefaultListingTTL is how long a listing page stays cached.
	DefaultListingTTL = 2 * time.Minute
)

// ListingCache manages article listing caching in Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get retrieves a cached listing. Errors and undecodable values count as a
// miss.
func (lc *ListingCache) Get(ctx context.Context, key string) (*models.ListResult, bool) {
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}

	var res models.ListResult
	if err := json.Unmarshal(val, &res); err != nil {
		slog.Warn("listing cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return &res, true
}

// Set stores a listing with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, res *models.ListResult) {
	data, err := json.Marshal(res)
	if err != nil {
		slog.Warn("listing cache encode error", "key", key, "error", err)
		return
	}
	if err := lc.client.Set(ctx, listingKeyPrefix+key, data, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// Generation returns the current cache generation. A missing counter is
// generation 0.
func (lc *ListingCache) Generation(ctx context.Context) int64 {
	gen, err := lc.client.Get(ctx, listingGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		slog.Warn("listing cache generation error", "error", err)
		return 0
	}
	return gen
}

// InvalidateAll bumps the generation and removes every cached listing by
// scanning for the prefix. A listing computed before the bump and stored
// after it lands under the old generation, where no reader looks.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	if err := lc.client.Incr(ctx, listingGenKey).Err(); err != nil {
		slog.Warn("listing cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("listing cache cleared", "deleted", deleted)
	}
}

// ListingKey builds the cache key for a resolved listing request. Callers
// pass already-normalized values so equivalent requests share a key. String
// fields are quoted, so a separator inside one cannot shift the others.
func ListingKey(gen int64, language, search, status string, page, pageSize int) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(gen, 10))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(language))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(status))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(page))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(pageSize))
	b.WriteByte('|')
	b.WriteString(strconv.Quote(search))
	return b.String()
}
