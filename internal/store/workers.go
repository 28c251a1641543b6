package store

import (
	"context"
	"database/sql"
	"fmt"

	"dispatch-engine/internal/domain"
)

// InsertWorker adds a worker, returning ErrDuplicate when the phone
// number is already registered.
func (d *DB) InsertWorker(ctx context.Context, w domain.Worker) (int64, error) {
	lat, lon := pointArgs(w.Location)
	status := w.Status
	if status == "" {
		status = domain.WorkerActive
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO workers (name, skills, phone, email, lat, lon, status, rating, jobs_completed, note, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		w.Name, w.Skills, w.Phone, w.Email, lat, lon, string(status), w.Rating, w.JobsCompleted, w.Note, fmtTime(w.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert worker: %w", err)
	}

	var changes int
	if err := d.Pool.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return 0, fmt.Errorf("insert worker: %w", err)
	}
	if changes == 0 {
		return 0, ErrDuplicate
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert worker: %w", err)
	}
	return id, nil
}

const workerColumns = `id, name, skills, phone, email, lat, lon, status, rating, jobs_completed, note, created_at, updated_at`

func scanWorker(row interface{ Scan(...any) error }) (domain.Worker, error) {
	var w domain.Worker
	var lat, lon sql.NullFloat64
	var status, createdAt string
	var updatedAt sql.NullString

	err := row.Scan(
		&w.ID, &w.Name, &w.Skills, &w.Phone, &w.Email, &lat, &lon,
		&status, &w.Rating, &w.JobsCompleted, &w.Note, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Worker{}, err
	}

	w.Location = scanPoint(lat, lon)
	w.Status = domain.WorkerStatus(status)
	w.CreatedAt = scanTime(createdAt)
	w.UpdatedAt = scanTimePtr(updatedAt)
	return w, nil
}

func (d *DB) GetWorker(ctx context.Context, id int64) (domain.Worker, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = ?;`, id)
	w, err := scanWorker(row)
	if err == sql.ErrNoRows {
		return domain.Worker{}, ErrNotFound
	}
	if err != nil {
		return domain.Worker{}, fmt.Errorf("get worker: %w", err)
	}
	return w, nil
}

// ListWorkers returns active workers, busiest first.
func (d *DB) ListWorkers(ctx context.Context, limit int) ([]domain.Worker, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+workerColumns+`
FROM workers
WHERE status = ?
ORDER BY jobs_completed DESC, id DESC
LIMIT ?;`,
		string(domain.WorkerActive), limit)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var out []domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("list workers: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// EligibleWorkers returns active workers whose skill set contains the
// service keyword, best-rated first. Skills are stored lowercased, so
// LIKE on the lowercased keyword is a case-insensitive substring match.
func (d *DB) EligibleWorkers(ctx context.Context, service string) ([]domain.Worker, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+workerColumns+`
FROM workers
WHERE status = ? AND skills LIKE ?
ORDER BY rating DESC, jobs_completed DESC;`,
		string(domain.WorkerActive), "%"+lowered(service)+"%")
	if err != nil {
		return nil, fmt.Errorf("eligible workers: %w", err)
	}
	defer rows.Close()

	var out []domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("eligible workers: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
