// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves body with status and records the last request.
func newTestServer(t *testing.T, status int, body string, last **http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if last != nil {
			r.ParseForm()
			*last = r
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientTranslateSuccess(t *testing.T) {
	var req *http.Request
	body := `[[["＃ Hola mundo\n\n","# Hello world\n\n",null,null,10],["Primer párrafo（nota）.","First paragraph (note).",null,null,10]],null,"en"]`
	srv := newTestServer(t, http.StatusOK, body, &req)

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	got, err := c.Translate(context.Background(), "# Hello world\n\nFirst paragraph (note).", "en", "es")
	require.NoError(t, err)

	assert.Equal(t, "# Hola mundo\n\nPrimer párrafo(nota).", got)

	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/translate_a/single", req.URL.Path)
	assert.Equal(t, "gtx", req.URL.Query().Get("client"))
	assert.Equal(t, "t", req.URL.Query().Get("dt"))
	assert.Equal(t, "en", req.URL.Query().Get("sl"))
	assert.Equal(t, "es", req.URL.Query().Get("tl"))
	assert.Equal(t, "# Hello world\n\nFirst paragraph (note).", req.PostForm.Get("q"))
}

func TestClientTranslateSkipsNonStringSegments(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[[["uno ",null],[null,"x"],[],["dos",null]]]`, nil)

	got, err := NewClient(Config{BaseURL: srv.URL}).Translate(context.Background(), "one two", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "uno dos", got)
}

func TestClientTranslateHTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`, nil)

	_, err := NewClient(Config{BaseURL: srv.URL}).Translate(context.Background(), "hi", "en", "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClientTranslateMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"empty array", "[]"},
		{"wrong shape", `["text"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body, nil)
			_, err := NewClient(Config{BaseURL: srv.URL}).Translate(context.Background(), "hi", "en", "fr")
			assert.Error(t, err)
		})
	}
}

func TestClientTranslateContextCanceled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[[["x"]]]`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Config{BaseURL: srv.URL}).Translate(ctx, "hi", "en", "fr")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "# (a) [b] {c}", Normalize("＃ （a） 【b】 ｛c｝"))
	assert.Equal(t, "plain", Normalize("plain"))
}
