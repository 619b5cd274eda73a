package linkscout

import (
	"context"
	"time"
)

// Finding sources.
const (
	SourceBacklink = "backlink"
	SourceWayback  = "wayback"
)

// Scan represents one run of a scan mode against a domain.
type Scan struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Mode      ScanMode  `json:"mode"`
	StartedAt time.Time `json:"startedAt"`
}

// Validate returns an error if the scan contains invalid fields.
func (s *Scan) Validate() error {
	if s.Domain == "" {
		return Errorf(EINVALID, "scan domain required")
	}
	return s.Mode.Validate()
}

// Finding is one discovered URL recorded by a scan.
type Finding struct {
	ID        string    `json:"id"`
	ScanID    string    `json:"scanId"`
	Domain    string    `json:"domain"`
	Source    string    `json:"source"`
	Extension string    `json:"extension,omitempty"`
	URL       string    `json:"url"`
	FoundAt   time.Time `json:"foundAt"`
}

// Validate returns an error if the finding contains invalid fields.
func (f *Finding) Validate() error {
	if f.ScanID == "" {
		return Errorf(EINVALID, "finding scan ID required")
	}
	if f.URL == "" {
		return Errorf(EINVALID, "finding URL required")
	}
	switch f.Source {
	case SourceBacklink, SourceWayback:
	default:
		return Errorf(EINVALID, "invalid finding source %q", f.Source)
	}
	return nil
}

// FindingService represents a service for recording and querying findings.
type FindingService interface {
	// CreateScan records a new scan and assigns its ID.
	CreateScan(ctx context.Context, scan *Scan) error

	// CreateFindings records findings for an existing scan.
	// Findings repeating a URL already recorded for the same scan and source are skipped.
	CreateFindings(ctx context.Context, findings []*Finding) error

	// FindFindings retrieves findings matching the filter.
	FindFindings(ctx context.Context, filter FindingFilter) ([]*Finding, error)
}

// FindingFilter represents a filter for FindFindings.
type FindingFilter struct {
	Domain *string `json:"domain"`
	Source *string `json:"source"`
	ScanID *string `json:"scanId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
