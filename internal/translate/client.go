// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package translate machine-translates article Markdown through the public
// Google Translate "gtx" endpoint and extracts a title and description from
// the translated text.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public translate endpoint host.
const DefaultBaseURL = "https://translate.googleapis.com"

// Translator turns text in one locale into another.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements Translator over HTTP.
type Client struct {
	http *resty.Client
}

// NewClient creates a translation client. Zero values fall back to the
// public endpoint and a 30 second timeout.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout),
	}
}

// Translate sends text for translation from source to target. The endpoint
// answers with segments of the input; their translations are joined,
// trimmed and normalized.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"dt":     "t",
			"sl":     source,
			"tl":     target,
		}).
		SetFormData(map[string]string{"q": text}).
		Post("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("translate http: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("translate API error (status %d): %s", resp.StatusCode(), resp.Status())
	}

	joined, err := joinSegments(resp.Body())
	if err != nil {
		return "", err
	}
	return Normalize(strings.TrimSpace(joined)), nil
}

// joinSegments concatenates data[0][*][0] from a gtx response. Segments
// whose first element is not a string are skipped.
func joinSegments(body []byte) (string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", fmt.Errorf("translate unmarshal: %w", err)
	}
	if len(top) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return "", fmt.Errorf("translate unmarshal segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// fullWidth maps full-width punctuation the endpoint sometimes emits back
// to the ASCII Markdown relies on.
var fullWidth = strings.NewReplacer(
	"＃", "#",
	"（", "(",
	"）", ")",
	"【", "[",
	"】", "]",
	"｛", "{",
	"｝", "}",
)

// Normalize replaces full-width punctuation with ASCII equivalents.
func Normalize(s string) string {
	return fullWidth.Replace(s)
}
