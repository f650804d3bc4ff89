package graph

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload_PreAuthURL(t *testing.T) {
	content := "Hello, this is the file content for download testing."

	dlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"), "pre-auth URL must not receive the bearer token")
		_, _ = w.Write([]byte(content))
	}))
	defer dlSrv.Close()

	client := newTestClient(t, "http://graph.invalid")

	var buf bytes.Buffer

	n, err := client.Download(context.Background(), Item{
		ID:          "item-1",
		DriveID:     "d",
		Name:        "test.txt",
		DownloadURL: dlSrv.URL + "/dl",
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, content, buf.String())
	assert.Equal(t, int64(len(content)), n)
}

func TestDownload_ContentEndpointFallback(t *testing.T) {
	content := "fallback content"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drives/d/items/item-2/content", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(content))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	var buf bytes.Buffer

	n, err := client.Download(context.Background(), Item{ID: "item-2", DriveID: "d", Name: "x.bin"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, content, buf.String())
	assert.Equal(t, int64(len(content)), n)
}

func TestDownload_RetriesPreAuthTransient(t *testing.T) {
	var calls atomic.Int32

	dlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte("ok"))
	}))
	defer dlSrv.Close()

	client := newTestClient(t, "http://graph.invalid")

	var buf bytes.Buffer

	_, err := client.Download(context.Background(), Item{ID: "i", DriveID: "d", DownloadURL: dlSrv.URL}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", buf.String())
	assert.Equal(t, int32(2), calls.Load())
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":"itemNotFound"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	var buf bytes.Buffer

	_, err := client.Download(context.Background(), Item{ID: "gone", DriveID: "d"}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
