package store

import (
	"context"
	"fmt"
)

type Stats struct {
	TotalLeads        int
	LeadCategories    int
	LeadsByStatus     map[string]int
	ActiveWorkers     int
	AverageRating     float64
	CompletedByWorker int
	TotalJobs         int
	TotalRevenue      float64
	JobsByStatus      map[string]int
	MessagesByChannel map[string]int
}

func (d *DB) Stats(ctx context.Context) (Stats, error) {
	s := Stats{
		LeadsByStatus:     map[string]int{},
		JobsByStatus:      map[string]int{},
		MessagesByChannel: map[string]int{},
	}

	err := d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT category) FROM leads;`).
		Scan(&s.TotalLeads, &s.LeadCategories)
	if err != nil {
		return s, fmt.Errorf("stats leads: %w", err)
	}

	if err := d.groupCount(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status;`, s.LeadsByStatus); err != nil {
		return s, err
	}

	err = d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0), COALESCE(SUM(jobs_completed), 0) FROM workers WHERE status = 'active';`).
		Scan(&s.ActiveWorkers, &s.AverageRating, &s.CompletedByWorker)
	if err != nil {
		return s, fmt.Errorf("stats workers: %w", err)
	}

	err = d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(price), 0) FROM jobs;`).
		Scan(&s.TotalJobs, &s.TotalRevenue)
	if err != nil {
		return s, fmt.Errorf("stats jobs: %w", err)
	}

	if err := d.groupCount(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status;`, s.JobsByStatus); err != nil {
		return s, err
	}
	if err := d.groupCount(ctx, `SELECT channel, COUNT(*) FROM messages GROUP BY channel;`, s.MessagesByChannel); err != nil {
		return s, err
	}

	return s, nil
}

func (d *DB) groupCount(ctx context.Context, query string, dst map[string]int) error {
	rows, err := d.Pool.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		dst[key] = n
	}
	return rows.Err()
}
