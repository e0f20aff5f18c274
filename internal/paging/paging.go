// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package paging normalizes page/page-size inputs into bounded
// limit/offset windows. Both the database-paginated and the in-memory
// paginated listing paths resolve through Resolve so page boundaries are
// identical whichever path runs.
package paging

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when the caller does not ask for a page.
	DefaultPage = 1

	// DefaultPageSize is used when the caller does not ask for a page size.
	DefaultPageSize = 10
)

// Bounds limits the page size. Max <= 0 means no upper limit.
type Bounds struct {
	Min int
	Max int
}

// Result is a normalized pagination window.
type Result struct {
	Page     int
	PageSize int
	Limit    int
	Offset   int
}

// Resolve coerces page and pageSize into a valid window. Non-positive pages
// become 1; non-positive sizes become the lower bound; sizes are clamped to
// the bounds. Invalid input is normalized, never rejected.
func Resolve(page, pageSize int, b Bounds) Result {
	lower := max(1, b.Min)
	upper := math.MaxInt32
	if b.Max > 0 {
		upper = max(lower, b.Max)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize < lower {
		pageSize = lower
	}
	if pageSize > upper {
		pageSize = upper
	}

	return Result{
		Page:     page,
		PageSize: pageSize,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// TotalPages returns ceil(totalItems/pageSize), or 0 when either is
// non-positive.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

const cursorPrefix = "cursor:offset:"

// EncodeCursor encodes an offset as an opaque continuation token.
func EncodeCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor returns the offset held by a token from EncodeCursor.
// Anything undecodable yields 0.
func DecodeCursor(cursor string) int {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

// PageForOffset maps an offset to the page containing it.
func PageForOffset(offset, pageSize int) int {
	if offset <= 0 || pageSize <= 0 {
		return 1
	}
	return offset/pageSize + 1
}
