package mock

import (
	"context"

	"github.com/fwojciec/linkscout"
)

var _ linkscout.ArchiveIndex = (*ArchiveIndex)(nil)

// ArchiveIndex is a mock implementation of linkscout.ArchiveIndex.
type ArchiveIndex struct {
	FetchURLsFn func(ctx context.Context, domain string) ([]string, error)
}

func (a *ArchiveIndex) FetchURLs(ctx context.Context, domain string) ([]string, error) {
	return a.FetchURLsFn(ctx, domain)
}
