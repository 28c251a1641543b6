package store

import (
	"context"
	"fmt"
	"time"
)

type CleanupResult struct {
	InvalidLeads   int64
	DuplicateLeads int64
	CacheRows      int64
}

// Cleanup removes degenerate leads (no location, no contact info),
// exact duplicate triples among located leads keeping the earliest
// row, and cache entries older than 30 days, then compacts the file.
// Leads referenced by jobs or messages are left alone.
func (d *DB) Cleanup(ctx context.Context, now time.Time) (CleanupResult, error) {
	var out CleanupResult

	res, err := d.Pool.ExecContext(ctx, `
DELETE FROM leads
WHERE lat IS NULL AND phone = '' AND email = ''
  AND NOT EXISTS (SELECT 1 FROM jobs j WHERE j.lead_id = leads.id)
  AND NOT EXISTS (SELECT 1 FROM messages m WHERE m.lead_id = leads.id);`)
	if err != nil {
		return out, fmt.Errorf("cleanup invalid leads: %w", err)
	}
	out.InvalidLeads, _ = res.RowsAffected()

	// Only located leads can be duplicates of each other: GROUP BY
	// treats NULLs as equal, but two unknown-location rows sharing a
	// name are not provably the same business, matching the insert
	// path's UNIQUE(name, lat, lon) where NULLs compare distinct.
	res, err = d.Pool.ExecContext(ctx, `
DELETE FROM leads
WHERE lat IS NOT NULL
  AND id NOT IN (
  SELECT MIN(id) FROM leads WHERE lat IS NOT NULL GROUP BY name, lat, lon
)
  AND NOT EXISTS (SELECT 1 FROM jobs j WHERE j.lead_id = leads.id)
  AND NOT EXISTS (SELECT 1 FROM messages m WHERE m.lead_id = leads.id);`)
	if err != nil {
		return out, fmt.Errorf("cleanup duplicate leads: %w", err)
	}
	out.DuplicateLeads, _ = res.RowsAffected()

	res, err = d.Pool.ExecContext(ctx, `
DELETE FROM api_cache WHERE created_at < ?;`,
		fmtTime(now.AddDate(0, 0, -30)))
	if err != nil {
		return out, fmt.Errorf("cleanup cache: %w", err)
	}
	out.CacheRows, _ = res.RowsAffected()

	if _, err := d.Pool.ExecContext(ctx, `VACUUM;`); err != nil {
		return out, fmt.Errorf("cleanup vacuum: %w", err)
	}
	return out, nil
}
