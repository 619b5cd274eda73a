package scan_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/linkscout"
	"github.com/fwojciec/linkscout/mock"
	"github.com/fwojciec/linkscout/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_Scan(t *testing.T) {
	t.Parallel()

	noDelay := []time.Duration{0, 0}

	t.Run("buckets archived URLs by first matching extension", func(t *testing.T) {
		t.Parallel()

		a := &scan.Archiver{
			Index: &mock.ArchiveIndex{
				FetchURLsFn: func(_ context.Context, domain string) ([]string, error) {
					assert.Equal(t, "example.com", domain)
					return []string{"https://example.com/dump.sql.bak", "https://example.com/img.png"}, nil
				},
			},
			RetryDelays: noDelay,
		}

		res, err := a.Scan(context.Background(), "example.com", []string{".bak", ".sql"})

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, []string{"https://example.com/dump.sql.bak"}, res.Bucket.Get(".bak"))
		assert.Empty(t, res.Bucket.Get(".sql"))
	})

	t.Run("retries transient index failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := &scan.Archiver{
			Index: &mock.ArchiveIndex{
				FetchURLsFn: func(context.Context, string) ([]string, error) {
					calls++
					if calls == 1 {
						return nil, linkscout.Errorf(linkscout.EUNAVAILABLE, "archive index timed out")
					}
					return []string{"https://example.com/a.zip"}, nil
				},
			},
			RetryDelays: noDelay,
		}

		res, err := a.Scan(context.Background(), "example.com", []string{".zip"})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, res.Bucket.Total())
	})

	t.Run("does not retry malformed responses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := &scan.Archiver{
			Index: &mock.ArchiveIndex{
				FetchURLsFn: func(context.Context, string) ([]string, error) {
					calls++
					return nil, linkscout.Errorf(linkscout.EINVALID, "malformed archive response")
				},
			},
			RetryDelays: noDelay,
		}

		_, err := a.Scan(context.Background(), "example.com", []string{".zip"})

		require.Error(t, err)
		assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the error once retries are exhausted", func(t *testing.T) {
		t.Parallel()

		calls := 0
		a := &scan.Archiver{
			Index: &mock.ArchiveIndex{
				FetchURLsFn: func(context.Context, string) ([]string, error) {
					calls++
					return nil, linkscout.Errorf(linkscout.EUNAVAILABLE, "archive index unreachable")
				},
			},
			RetryDelays: noDelay,
		}

		_, err := a.Scan(context.Background(), "example.com", []string{".zip"})

		assert.Equal(t, linkscout.EUNAVAILABLE, linkscout.ErrorCode(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("rejects an empty extension list without querying", func(t *testing.T) {
		t.Parallel()

		a := &scan.Archiver{Index: &mock.ArchiveIndex{
			FetchURLsFn: func(context.Context, string) ([]string, error) {
				t.Fatal("index should not be queried")
				return nil, nil
			},
		}}

		_, err := a.Scan(context.Background(), "example.com", nil)

		assert.Equal(t, linkscout.EINVALID, linkscout.ErrorCode(err))
	})

	t.Run("empty index result yields empty buckets", func(t *testing.T) {
		t.Parallel()

		a := &scan.Archiver{
			Index: &mock.ArchiveIndex{
				FetchURLsFn: func(context.Context, string) ([]string, error) {
					return []string{}, nil
				},
			},
		}

		res, err := a.Scan(context.Background(), "example.com", []string{".zip"})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 0, res.Bucket.Total())
	})
}
