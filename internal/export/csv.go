// Package export dumps the dataset to CSV files for spreadsheets and
// hand-off to other tools.
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"dispatch-engine/internal/store"
)

type Exporter struct {
	db *store.DB
}

func NewExporter(db *store.DB) *Exporter {
	return &Exporter{db: db}
}

// Leads writes every lead, oldest first. Returns the row count.
func (e *Exporter) Leads(ctx context.Context, path string) (int, error) {
	return e.dump(ctx, path,
		[]string{"ID", "Name", "Category", "Address", "Lat", "Lon",
			"Phone", "Email", "Status", "Source", "Contact Count",
			"Last Contact", "Created At"},
		`SELECT id, name, category, address, lat, lon, phone, email,
        status, source, contact_count, last_contact, created_at
 FROM leads ORDER BY id;`)
}

// Workers writes every worker, oldest first.
func (e *Exporter) Workers(ctx context.Context, path string) (int, error) {
	return e.dump(ctx, path,
		[]string{"ID", "Name", "Skills", "Phone", "Email", "Lat", "Lon",
			"Status", "Jobs Completed", "Rating", "Created At"},
		`SELECT id, name, skills, phone, email, lat, lon,
        status, jobs_completed, rating, created_at
 FROM workers ORDER BY id;`)
}

// Jobs writes every job with lead and worker identity joined in.
func (e *Exporter) Jobs(ctx context.Context, path string) (int, error) {
	return e.dump(ctx, path,
		[]string{"Job ID", "Service", "Status", "Price", "Created At",
			"Lead Name", "Lead Phone", "Worker Name", "Worker Phone"},
		`SELECT j.id, j.service, j.status, j.price, j.created_at,
        l.name, l.phone, w.name, w.phone
 FROM jobs j
 JOIN leads l ON j.lead_id = l.id
 JOIN workers w ON j.worker_id = w.id
 ORDER BY j.id;`)
}

// All writes the three exports into dir concurrently. File names are
// fixed; the per-table counts come back keyed by name.
func (e *Exporter) All(ctx context.Context, dir string) (map[string]int, error) {
	type result struct {
		name  string
		count int
	}

	files := []struct {
		name string
		fn   func(context.Context, string) (int, error)
	}{
		{"leads.csv", e.Leads},
		{"workers.csv", e.Workers},
		{"jobs.csv", e.Jobs},
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan result, len(files))
	for _, f := range files {
		g.Go(func() error {
			n, err := f.fn(gctx, filepath.Join(dir, f.name))
			if err != nil {
				return fmt.Errorf("export %s: %w", f.name, err)
			}
			results <- result{f.name, n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	counts := make(map[string]int, len(files))
	for r := range results {
		counts[r.name] = r.count
	}
	return counts, nil
}

// dump runs a query and streams it as CSV, rendering NULL as empty.
func (e *Exporter) dump(ctx context.Context, path string, header []string, query string) (n int, err error) {
	rows, err := e.db.Pool.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, err
	}

	vals := make([]sql.NullString, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	record := make([]string, len(header))

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, err
		}
		for i, v := range vals {
			if v.Valid {
				record[i] = v.String
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	w.Flush()
	return n, w.Error()
}
