package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/linkscout"
	lshttp "github.com/fwojciec/linkscout/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that ArchiveIndex implements linkscout.ArchiveIndex
var _ linkscout.ArchiveIndex = (*lshttp.ArchiveIndex)(nil)

func newArchiveServer(t *testing.T, handler http.HandlerFunc) *lshttp.ArchiveIndex {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return lshttp.NewArchiveIndex(lshttp.WithArchiveBaseURL(srv.URL))
}

func TestArchiveIndex_FetchURLs(t *testing.T) {
	t.Parallel()

	t.Run("sends CDX query and skips header row", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		var gotQuery map[string][]string
		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[["original"],
["https://example.com/dump.sql.bak"],
["https://example.com/img.png"]]`))
		})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/dump.sql.bak", "https://example.com/img.png"}, urls)
		assert.Equal(t, "/cdx/search/cdx", gotPath)
		assert.Equal(t, []string{"*.example.com/*"}, gotQuery["url"])
		assert.Equal(t, []string{"json"}, gotQuery["output"])
		assert.Equal(t, []string{"original"}, gotQuery["fl"])
		assert.Equal(t, []string{"urlkey"}, gotQuery["collapse"])
	})

	t.Run("preserves server order", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[["original"],["https://example.com/z"],["https://example.com/a"],["https://example.com/m"]]`))
		})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/z", "https://example.com/a", "https://example.com/m"}, urls)
	})

	t.Run("empty array means no archives", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("header only means no archives", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[["original"]]`))
		})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("skips empty rows", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[["original"],[],[""],["https://example.com/a.zip"]]`))
		})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a.zip"}, urls)
	})

	t.Run("empty body is invalid", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {})

		urls, err := index.FetchURLs(context.Background(), "example.com")

		require.Error(t, err)
		assert.Empty(t, urls)
		assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err))
	})

	t.Run("malformed body is invalid", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{`<html>error</html>`, `{"error":"x"}`, `[["original"],["https://example.com/a"]`, `[["original"],[1]]`} {
			index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := index.FetchURLs(context.Background(), "example.com")

			require.Error(t, err, body)
			assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err), body)
		}
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := index.FetchURLs(context.Background(), "example.com")

		require.Error(t, err)
		assert.Equal(t, linkscout.EUNAVAILABLE, linkscout.ErrorCode(err))
		assert.Contains(t, linkscout.ErrorMessage(err), "503")
	})

	t.Run("rate limiting is unavailable", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := index.FetchURLs(context.Background(), "example.com")

		assert.Equal(t, linkscout.EUNAVAILABLE, linkscout.ErrorCode(err))
	})

	t.Run("client error is invalid", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})

		_, err := index.FetchURLs(context.Background(), "example.com")

		assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		index := lshttp.NewArchiveIndex(
			lshttp.WithArchiveBaseURL(srv.URL),
			lshttp.WithArchiveTimeout(20*time.Millisecond),
		)

		_, err := index.FetchURLs(context.Background(), "example.com")

		require.Error(t, err)
		assert.Equal(t, linkscout.EUNAVAILABLE, linkscout.ErrorCode(err))
	})

	t.Run("connection failure is unavailable", func(t *testing.T) {
		t.Parallel()

		index := lshttp.NewArchiveIndex(
			lshttp.WithArchiveBaseURL("http://non-existent-host.invalid"),
			lshttp.WithArchiveTimeout(time.Second),
		)

		_, err := index.FetchURLs(context.Background(), "example.com")

		require.Error(t, err)
		assert.Equal(t, linkscout.EUNAVAILABLE, linkscout.ErrorCode(err))
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		index := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := index.FetchURLs(ctx, "example.com")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("requires domain", func(t *testing.T) {
		t.Parallel()

		_, err := lshttp.NewArchiveIndex().FetchURLs(context.Background(), "")

		assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err))
	})
}

func TestArchiveIndex_QueryURL(t *testing.T) {
	t.Parallel()

	index := lshttp.NewArchiveIndex()

	assert.Equal(t,
		"http://web.archive.org/cdx/search/cdx?url=*.example.com/*&output=json&fl=original&collapse=urlkey",
		index.QueryURL("example.com"))

	custom := lshttp.NewArchiveIndex(lshttp.WithArchiveBaseURL("https://archive.test/"))
	assert.Equal(t,
		"https://archive.test/cdx/search/cdx?url=*.example.com/*&output=json&fl=original&collapse=urlkey",
		custom.QueryURL("example.com"))
}
