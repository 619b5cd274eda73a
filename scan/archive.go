package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/linkscout"
)

// Archiver queries the archive index for a domain's historical URLs and
// buckets them by file extension.
type Archiver struct {
	Index       linkscout.ArchiveIndex
	RetryDelays []time.Duration // nil uses DefaultRetryDelays
	Logger      *slog.Logger
}

// ArchiveResult is the outcome of an archive scan.
type ArchiveResult struct {
	// Total is the number of URLs returned by the index before filtering.
	Total  int
	Bucket *linkscout.ExtensionBucket
}

// Scan fetches the archived URLs of domain and filters them by extensions.
// Transient index failures are retried. An empty extension list is
// rejected with EINVALID before the index is queried.
func (a *Archiver) Scan(ctx context.Context, domain string, extensions []string) (*ArchiveResult, error) {
	if len(extensions) == 0 {
		return nil, linkscout.Errorf(linkscout.EINVALID, "no extensions to filter archived URLs by")
	}

	log := loggerOrDiscard(a.Logger).With("domain", domain)
	delays := a.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	urls, err := WithRetry(ctx, delays,
		func(ctx context.Context) ([]string, error) {
			return a.Index.FetchURLs(ctx, domain)
		},
		isTransient,
		func(format string, args ...any) {
			log.Warn(fmt.Sprintf("archive query "+format, args...))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("archive query for %s: %w", domain, err)
	}

	return &ArchiveResult{
		Total:  len(urls),
		Bucket: linkscout.FilterByExtension(urls, extensions),
	}, nil
}

func isTransient(err error) bool {
	return linkscout.ErrorCode(err) == linkscout.EUNAVAILABLE
}
