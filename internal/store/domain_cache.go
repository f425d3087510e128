package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GetDomain returns the cached website domain for a company, or "".
func (s *Store) GetDomain(ctx context.Context, company string) (string, error) {
	var d string
	err := s.DB.QueryRowContext(ctx,
		`SELECT domain FROM domain_cache WHERE company = ?;`, company).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return d, nil
}

// PutDomain caches a discovered domain. Empty results are cached too, to
// avoid repeating a search that found nothing.
func (s *Store) PutDomain(ctx context.Context, company, domain string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO domain_cache (company, domain, fetched_at)
VALUES (?, ?, ?)
ON CONFLICT(company) DO UPDATE SET domain = excluded.domain, fetched_at = excluded.fetched_at;`,
		company, domain, time.Now().UTC().Format(time.RFC3339))
	return err
}
