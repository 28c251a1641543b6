package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dispatch-engine/internal/domain"
)

// CreateDispatch inserts a job at `dispatched` and flips the lead to
// `contacted` in one transaction. Either both writes land or neither
// does; a missing lead or worker surfaces as ErrNotFound.
func (d *DB) CreateDispatch(ctx context.Context, leadID, workerID int64, service string, price float64, now time.Time) (int64, error) {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create dispatch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO jobs (lead_id, worker_id, service, price, status, created_at)
VALUES (?, ?, ?, ?, ?, ?);`,
		leadID, workerID, service, price, string(domain.JobDispatched), fmtTime(now))
	if err != nil {
		if foreignKeyViolated(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("create dispatch: insert job: %w", err)
	}

	jobID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create dispatch: %w", err)
	}

	upd, err := tx.ExecContext(ctx, `
UPDATE leads SET status = ?, updated_at = ? WHERE id = ?;`,
		string(domain.LeadContacted), fmtTime(now), leadID)
	if err != nil {
		return 0, fmt.Errorf("create dispatch: update lead: %w", err)
	}
	if n, _ := upd.RowsAffected(); n != 1 {
		// Lead vanished between insert and update; the deferred
		// rollback takes the job row with it.
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create dispatch: %w", err)
	}
	return jobID, nil
}

// CompleteJob marks a dispatched job complete and credits the worker:
// jobs_completed goes up by one and, when a rating is supplied, it is
// folded into the worker's running average.
func (d *DB) CompleteJob(ctx context.Context, jobID int64, rating float64, rated bool, now time.Time) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var workerID int64
	var status string
	err = tx.QueryRowContext(ctx, `SELECT worker_id, status FROM jobs WHERE id = ?;`, jobID).Scan(&workerID, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if domain.JobStatus(status) != domain.JobDispatched {
		return fmt.Errorf("complete job: job %d is %s, not %s", jobID, status, domain.JobDispatched)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE jobs SET status = ?, updated_at = ?, completed_at = ? WHERE id = ?;`,
		string(domain.JobComplete), fmtTime(now), fmtTime(now), jobID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	if rated {
		if _, err := tx.ExecContext(ctx, `
UPDATE workers
SET rating = (rating * jobs_completed + ?) / (jobs_completed + 1),
    jobs_completed = jobs_completed + 1,
    updated_at = ?
WHERE id = ?;`,
			rating, fmtTime(now), workerID); err != nil {
			return fmt.Errorf("complete job: credit worker: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
UPDATE workers SET jobs_completed = jobs_completed + 1, updated_at = ? WHERE id = ?;`,
			fmtTime(now), workerID); err != nil {
			return fmt.Errorf("complete job: credit worker: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// ListJobs returns jobs with lead/worker names joined in, newest
// first. An empty status means no filter.
func (d *DB) ListJobs(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
SELECT j.id, j.lead_id, j.worker_id, j.service, j.price, j.status, j.evidence, j.notes,
       j.created_at, j.updated_at, j.completed_at,
       l.name, w.name, w.phone
FROM jobs j
JOIN leads l ON j.lead_id = l.id
JOIN workers w ON j.worker_id = w.id
`
	args := []any{}
	if status != "" {
		query += `WHERE j.status = ?
`
		args = append(args, string(status))
	}
	query += `ORDER BY j.id DESC
LIMIT ?;`
	args = append(args, limit)

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.Job
	for rows.Next() {
		var j domain.Job
		var st, createdAt string
		var updatedAt, completedAt sql.NullString
		if err := rows.Scan(
			&j.ID, &j.LeadID, &j.WorkerID, &j.Service, &j.Price, &st, &j.Evidence, &j.Notes,
			&createdAt, &updatedAt, &completedAt,
			&j.LeadName, &j.WorkerName, &j.WorkerPhone,
		); err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		j.Status = domain.JobStatus(st)
		j.CreatedAt = scanTime(createdAt)
		j.UpdatedAt = scanTimePtr(updatedAt)
		j.CompletedAt = scanTimePtr(completedAt)
		out = append(out, j)
	}
	return out, rows.Err()
}

// CountJobsForLead reports how many jobs reference a lead. Used by
// tests and by callers that want to guard against double dispatch.
func (d *DB) CountJobsForLead(ctx context.Context, leadID int64) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE lead_id = ?;`, leadID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}
