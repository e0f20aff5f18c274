// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package query

import (
	"strconv"
	"strings"
	"time"
)

// Dialect identifies the SQL flavour a statement is rendered for.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// SQLiteTimeLayout is the fixed-width UTC layout timestamps are stored in on
// SQLite. Fixed width keeps lexical order equal to chronological order.
const SQLiteTimeLayout = "2006-01-02 15:04:05.000000000"

// ParseDialect maps a DB_DRIVER value to a Dialect. Unknown values map to
// Postgres.
func ParseDialect(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite
	}
	return Postgres
}

// String returns the goose dialect name.
func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Rebind rewrites "?" placeholders into the dialect's native form. SQLite
// accepts "?" as is; Postgres needs $1..$n.
func (d Dialect) Rebind(sql string) string {
	if d != Postgres || !strings.Contains(sql, "?") {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Time converts t into the value the dialect's driver stores for a
// timestamp column.
func (d Dialect) Time(t time.Time) any {
	if d == SQLite {
		return t.UTC().Format(SQLiteTimeLayout)
	}
	return t.UTC()
}

// NullTime is Time for nullable columns.
func (d Dialect) NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.Time(*t)
}
