// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><body>hello</body></html>"))
		case "/denied":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)

	t.Run("returns body and content type on success", func(t *testing.T) {
		resp, err := Get(context.Background(), client, srv.URL+"/ok", "feedbook/0.1")
		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
		assert.Contains(t, string(resp.Body), "hello")
		assert.Equal(t, "feedbook/0.1", gotUA)
	})

	t.Run("returns non-2xx without error", func(t *testing.T) {
		resp, err := Get(context.Background(), client, srv.URL+"/denied", "feedbook/0.1")
		require.NoError(t, err)
		assert.False(t, resp.OK())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("fails on unreachable host", func(t *testing.T) {
		short := NewClient(500 * time.Millisecond)
		_, err := Get(context.Background(), short, "http://127.0.0.1:1/none", "feedbook/0.1")
		assert.Error(t, err)
	})
}
