package mock

import (
	"context"

	"github.com/fwojciec/linkscout"
)

var _ linkscout.FindingService = (*FindingService)(nil)

// FindingService is a mock implementation of linkscout.FindingService.
type FindingService struct {
	CreateScanFn     func(ctx context.Context, scan *linkscout.Scan) error
	CreateFindingsFn func(ctx context.Context, findings []*linkscout.Finding) error
	FindFindingsFn   func(ctx context.Context, filter linkscout.FindingFilter) ([]*linkscout.Finding, error)
}

func (s *FindingService) CreateScan(ctx context.Context, scan *linkscout.Scan) error {
	return s.CreateScanFn(ctx, scan)
}

func (s *FindingService) CreateFindings(ctx context.Context, findings []*linkscout.Finding) error {
	return s.CreateFindingsFn(ctx, findings)
}

func (s *FindingService) FindFindings(ctx context.Context, filter linkscout.FindingFilter) ([]*linkscout.Finding, error) {
	return s.FindFindingsFn(ctx, filter)
}
