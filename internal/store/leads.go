package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dispatch-engine/internal/domain"
)

// InsertLead adds a lead, returning ErrDuplicate when the
// (name, lat, lon) triple is already stored.
func (d *DB) InsertLead(ctx context.Context, l domain.Lead) (int64, error) {
	lat, lon := pointArgs(l.Location)
	status := l.Status
	if status == "" {
		status = domain.LeadNew
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO leads (name, category, address, lat, lon, phone, email, source, note, status, created_at, contact_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0);`,
		l.Name, l.Category, l.Address, lat, lon, l.Phone, l.Email, l.Source, l.Note, string(status), fmtTime(l.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}

	// OR IGNORE swallows the conflict; RowsAffected is not reliable
	// with IGNORE across drivers, so ask sqlite's changes() directly.
	var changes int
	if err := d.Pool.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	if changes == 0 {
		return 0, ErrDuplicate
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	return id, nil
}

const leadColumns = `id, name, category, address, lat, lon, phone, email, source, note, status, created_at, updated_at, last_contact, contact_count`

func scanLead(row interface{ Scan(...any) error }) (domain.Lead, error) {
	var l domain.Lead
	var lat, lon sql.NullFloat64
	var status, createdAt string
	var updatedAt, lastContact sql.NullString

	err := row.Scan(
		&l.ID, &l.Name, &l.Category, &l.Address, &lat, &lon,
		&l.Phone, &l.Email, &l.Source, &l.Note, &status,
		&createdAt, &updatedAt, &lastContact, &l.ContactCount,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	l.Location = scanPoint(lat, lon)
	l.Status = domain.LeadStatus(status)
	l.CreatedAt = scanTime(createdAt)
	l.UpdatedAt = scanTimePtr(updatedAt)
	l.LastContact = scanTimePtr(lastContact)
	return l, nil
}

func (d *DB) GetLead(ctx context.Context, id int64) (domain.Lead, error) {
	row := d.Pool.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?;`, id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (d *DB) ListLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("list leads: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// NewLeadsForService returns up to max leads at status `new` whose
// category contains the service keyword, in insertion order.
func (d *DB) NewLeadsForService(ctx context.Context, service string, max int) ([]domain.Lead, error) {
	if max <= 0 {
		max = 50
	}
	rows, err := d.Pool.QueryContext(ctx, `
SELECT `+leadColumns+`
FROM leads
WHERE status = ? AND category LIKE ?
ORDER BY id
LIMIT ?;`,
		string(domain.LeadNew), "%"+service+"%", max)
	if err != nil {
		return nil, fmt.Errorf("new leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("new leads: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MarkLeadContacted records a successful outreach: bump the contact
// counter, stamp last_contact, and move the lead to `contacted`.
func (d *DB) MarkLeadContacted(ctx context.Context, id int64, now time.Time) error {
	res, err := d.Pool.ExecContext(ctx, `
UPDATE leads
SET last_contact = ?, contact_count = contact_count + 1,
    status = ?, updated_at = ?
WHERE id = ?;`,
		fmtTime(now), string(domain.LeadContacted), fmtTime(now), id)
	if err != nil {
		return fmt.Errorf("mark contacted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) SetLeadStatus(ctx context.Context, id int64, status domain.LeadStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("set lead status: invalid status %q", status)
	}
	res, err := d.Pool.ExecContext(ctx, `
UPDATE leads SET status = ?, updated_at = ? WHERE id = ?;`,
		string(status), fmtTime(now), id)
	if err != nil {
		return fmt.Errorf("set lead status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LeadsByEmail maps every non-empty lead email to its id, for matching
// inbound replies against known leads.
func (d *DB) LeadsByEmail(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT id, email FROM leads WHERE email != '';`)
	if err != nil {
		return nil, fmt.Errorf("leads by email: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id int64
		var email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("leads by email: %w", err)
		}
		out[email] = id
	}
	return out, rows.Err()
}
