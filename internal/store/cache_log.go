// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records listing cache invalidations in the database for
// audit and debugging. Each entry captures what was invalidated, when, and
// the mutation that caused it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lingopress/internal/query"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db      *sql.DB
	dialect query.Dialect
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB, dialect query.Dialect) *CacheLogStore {
	return &CacheLogStore{db: db, dialect: dialect}
}

// Log records a cache invalidation event. Failures are logged, not returned.
func (s *CacheLogStore) Log(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO cache_invalidation_log (entity_type, entity_id, action, invalidated_at)
		VALUES (?, ?, ?, ?)
	`), entityType, entityID, action, s.dialect.Time(time.Now()))
	if err != nil {
		slog.Warn("failed to log cache invalidation",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
}

// RecentEntries returns up to limit of the most recent invalidations.
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT id, entity_type, entity_id, action, invalidated_at
		FROM cache_invalidation_log
		ORDER BY invalidated_at DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		var at query.Timestamp
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &at); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		e.InvalidatedAt = at.Time
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID            int64
	EntityType    string
	EntityID      uuid.UUID
	Action        string
	InvalidatedAt time.Time
}
