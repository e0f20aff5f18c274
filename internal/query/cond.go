// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query builds the small set of SQL predicates the article stores
// need: case-insensitive substring search, null checks, equality, and AND/OR
// composition. Fragments use "?" placeholders and are rebound to the target
// dialect right before execution, so user input never reaches the SQL text.
package query

import "strings"

// Cond is a SQL boolean expression plus its positional arguments.
type Cond struct {
	SQL  string
	Args []any
}

// likeEscaper escapes the LIKE metacharacters using backslash, which every
// pattern built here declares as its ESCAPE character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes backslash, percent and underscore in s so it matches
// literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// NormalizeSearch trims and lower-cases a raw search term.
func NormalizeSearch(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Contains builds a case-insensitive substring match of term against each of
// columns, OR-ed together. Returns nil when the normalized term is empty or
// no columns are given.
func Contains(columns []string, term string) *Cond {
	term = NormalizeSearch(term)
	if term == "" || len(columns) == 0 {
		return nil
	}

	pattern := "%" + EscapeLike(term) + "%"
	conds := make([]*Cond, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, &Cond{
			SQL:  "lower(" + col + ") LIKE ? ESCAPE '\\'",
			Args: []any{pattern},
		})
	}
	return Or(conds...)
}

// IsNull matches rows where col is NULL.
func IsNull(col string) *Cond {
	return &Cond{SQL: col + " IS NULL"}
}

// IsNotNull matches rows where col is not NULL.
func IsNotNull(col string) *Cond {
	return &Cond{SQL: col + " IS NOT NULL"}
}

// Eq matches rows where col equals v.
func Eq(col string, v any) *Cond {
	return &Cond{SQL: col + " = ?", Args: []any{v}}
}

// And joins the non-nil conditions with AND. Returns nil if none remain.
func And(conds ...*Cond) *Cond {
	return join(" AND ", conds)
}

// Or joins the non-nil conditions with OR. Returns nil if none remain.
func Or(conds ...*Cond) *Cond {
	return join(" OR ", conds)
}

func join(sep string, conds []*Cond) *Cond {
	var parts []string
	var args []any
	for _, c := range conds {
		if c == nil || c.SQL == "" {
			continue
		}
		parts = append(parts, c.SQL)
		args = append(args, c.Args...)
	}

	switch len(parts) {
	case 0:
		return nil
	case 1:
		return &Cond{SQL: parts[0], Args: args}
	}
	return &Cond{SQL: "(" + strings.Join(parts, sep) + ")", Args: args}
}

// Where renders c as a WHERE clause with a leading space, or "" for nil.
func Where(c *Cond) (string, []any) {
	if c == nil {
		return "", nil
	}
	return " WHERE " + c.SQL, c.Args
}
