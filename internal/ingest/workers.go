// Package ingest brings workers into the roster, from CSV files or
// one at a time.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/store"
	"dispatch-engine/internal/validate"
)

// WorkerInput is one unvalidated worker record, however it arrived.
type WorkerInput struct {
	Name   string
	Skills string
	Phone  string
	Email  string
	Lat    float64
	Lon    float64
	HasLoc bool
}

// BuildWorker validates and normalizes an input into a storable
// worker. Name and skills are mandatory; bad phone/email are cleared
// rather than fatal, and bad coordinates leave the location unknown.
func BuildWorker(in WorkerInput, now time.Time) (domain.Worker, error) {
	name := validate.String(in.Name, validate.MaxName)
	skills := validate.Skills(in.Skills)
	if name == "" || skills == "" {
		return domain.Worker{}, errors.New("ingest: name and skills are required")
	}

	var res validate.Result
	w := domain.Worker{
		Name:      name,
		Skills:    skills,
		Phone:     validate.Phone(in.Phone, &res),
		Email:     validate.Email(in.Email, &res),
		Status:    domain.WorkerActive,
		CreatedAt: now,
	}
	if in.HasLoc {
		w.Location = validate.Coords(in.Lat, in.Lon, &res)
	}
	for _, f := range res.Downgraded {
		slog.Debug("worker field dropped during validation", "worker", name, "field", f)
	}
	return w, nil
}

// ImportSummary tallies one CSV run. Rows with a duplicate phone or a
// validation failure are skipped, never fatal.
type ImportSummary struct {
	Imported   int
	Duplicates int
	Skipped    int
}

type Importer struct {
	db  *store.DB
	now func() time.Time
}

func NewImporter(db *store.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// ImportCSV reads worker rows from r. The first row is a header;
// columns are matched by name (name or full_name, skills, phone,
// email, lat, lon) so column order doesn't matter.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	var sum ImportSummary

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return sum, fmt.Errorf("ingest: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		if i, ok := col["full_name"]; ok {
			col["name"] = i
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("unreadable csv row", "line", line, "err", err)
			sum.Skipped++
			continue
		}

		in := WorkerInput{
			Name:   field(row, "name"),
			Skills: field(row, "skills"),
			Phone:  field(row, "phone"),
			Email:  field(row, "email"),
		}
		if latS, lonS := field(row, "lat"), field(row, "lon"); latS != "" && lonS != "" {
			lat, latErr := strconv.ParseFloat(latS, 64)
			lon, lonErr := strconv.ParseFloat(lonS, 64)
			if latErr == nil && lonErr == nil {
				in.Lat, in.Lon, in.HasLoc = lat, lon, true
			}
		}

		w, err := BuildWorker(in, im.now())
		if err != nil {
			slog.Warn("invalid worker row", "line", line, "err", err)
			sum.Skipped++
			continue
		}

		_, err = im.db.InsertWorker(ctx, w)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			slog.Warn("duplicate worker phone", "line", line, "name", w.Name)
			sum.Duplicates++
		case err != nil:
			slog.Warn("insert worker", "line", line, "err", err)
			sum.Skipped++
		default:
			sum.Imported++
		}
	}

	im.db.Audit(ctx, "INFO", "ingest",
		fmt.Sprintf("imported %d workers (%d duplicate, %d skipped)", sum.Imported, sum.Duplicates, sum.Skipped))
	return sum, nil
}

// AddWorker validates and inserts a single worker. Unlike CSV import,
// a bad phone or email here is an error the operator should fix.
func (im *Importer) AddWorker(ctx context.Context, in WorkerInput) (int64, error) {
	w, err := BuildWorker(in, im.now())
	if err != nil {
		return 0, err
	}
	if in.Phone != "" && w.Phone == "" {
		return 0, fmt.Errorf("ingest: invalid phone %q", in.Phone)
	}
	if in.Email != "" && w.Email == "" {
		return 0, fmt.Errorf("ingest: invalid email %q", in.Email)
	}

	id, err := im.db.InsertWorker(ctx, w)
	if err != nil {
		return 0, err
	}
	im.db.Audit(ctx, "INFO", "ingest", fmt.Sprintf("added worker %q (id %d)", w.Name, id))
	return id, nil
}
