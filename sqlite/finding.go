package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linkscout"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ linkscout.FindingService = (*FindingService)(nil)

// FindingService implements linkscout.FindingService using SQLite.
type FindingService struct {
	db *DB
}

// NewFindingService creates a new FindingService.
func NewFindingService(db *DB) *FindingService {
	return &FindingService{db: db}
}

// CreateScan records a new scan.
func (s *FindingService) CreateScan(ctx context.Context, scan *linkscout.Scan) error {
	if err := scan.Validate(); err != nil {
		return err
	}

	scan.ID = uuid.New().String()
	if scan.StartedAt.IsZero() {
		scan.StartedAt = time.Now()
	}
	scan.StartedAt = scan.StartedAt.UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (id, domain, mode, started_at)
		VALUES (?, ?, ?, ?)
	`, scan.ID, scan.Domain, string(scan.Mode), timestamp(scan.StartedAt))

	return err
}

// CreateFindings records findings in a single transaction. A finding whose
// URL was already recorded for the same scan and source is skipped and
// keeps an empty ID.
func (s *FindingService) CreateFindings(ctx context.Context, findings []*linkscout.Finding) error {
	for _, f := range findings {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if len(findings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO findings (id, scan_id, domain, source, extension, url, url_hash, found_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Truncate(time.Second)
	for _, f := range findings {
		id := uuid.New().String()
		foundAt := f.FoundAt
		if foundAt.IsZero() {
			foundAt = now
		}
		foundAt = foundAt.UTC().Truncate(time.Second)

		res, err := stmt.ExecContext(ctx, id, f.ScanID, f.Domain, f.Source, f.Extension, f.URL,
			URLHash(f.URL), timestamp(foundAt))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}
		f.ID = id
		f.FoundAt = foundAt
	}

	return tx.Commit()
}

// FindFindings retrieves findings matching the filter, ordered by discovery
// time and then URL.
func (s *FindingService) FindFindings(ctx context.Context, filter linkscout.FindingFilter) ([]*linkscout.Finding, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, scan_id, domain, source, extension, url, found_at
		FROM findings`)

	var w where
	w.eq("domain", filter.Domain)
	w.eq("source", filter.Source)
	w.eq("scan_id", filter.ScanID)
	w.writeTo(&query)

	query.WriteString(" ORDER BY found_at, url")
	args := w.args
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := []*linkscout.Finding{}
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

func scanFinding(rows *sql.Rows) (*linkscout.Finding, error) {
	var f linkscout.Finding
	var foundAt string
	if err := rows.Scan(&f.ID, &f.ScanID, &f.Domain, &f.Source, &f.Extension, &f.URL, &foundAt); err != nil {
		return nil, err
	}
	var err error
	f.FoundAt, err = parseTimestamp(foundAt, "found_at")
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// URLHash returns the deduplication key stored for url.
func URLHash(url string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(url))
}
