package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetCachedQuery returns the cached payload for a fingerprint if a
// live entry exists. Expired entries read as absent; the maintenance
// sweep removes them eventually.
func (d *DB) GetCachedQuery(ctx context.Context, fingerprint string, now time.Time) ([]byte, bool, error) {
	var payload string
	err := d.Pool.QueryRowContext(ctx, `
SELECT response_data FROM api_cache
WHERE fingerprint = ? AND expires_at > ?
LIMIT 1;`,
		fingerprint, fmtTime(now)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return []byte(payload), true, nil
}

// PutCachedQuery stores a raw provider response under its fingerprint
// with a fresh TTL, replacing any stale entry.
func (d *DB) PutCachedQuery(ctx context.Context, fingerprint string, params, payload []byte, now time.Time, ttl time.Duration) error {
	_, err := d.Pool.ExecContext(ctx, `
INSERT OR REPLACE INTO api_cache (fingerprint, query_params, response_data, created_at, expires_at)
VALUES (?, ?, ?, ?, ?);`,
		fingerprint, string(params), string(payload), fmtTime(now), fmtTime(now.Add(ttl)))
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}
