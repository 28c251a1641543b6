package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/geo"
	"dispatch-engine/internal/store"
)

func newTestExporter(t *testing.T) (*Exporter, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewExporter(db), db
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestExportAllWritesThreeFiles(t *testing.T) {
	e, db := newTestExporter(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	leadID, err := db.InsertLead(ctx, domain.Lead{
		Name: "Hotel Sagar", Category: "plumbing",
		Location: &geo.Point{Lat: 19.07, Lon: 72.87},
		Phone:    "+91 98765 43210", Status: domain.LeadNew, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	workerID, err := db.InsertWorker(ctx, domain.Worker{
		Name: "Asha", Skills: "plumbing", Phone: "+91 90000 00001",
		Status: domain.WorkerActive, Rating: 4.5, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	if _, err := db.CreateDispatch(ctx, leadID, workerID, "plumbing", 500, now); err != nil {
		t.Fatalf("seed job: %v", err)
	}

	dir := t.TempDir()
	counts, err := e.All(ctx, dir)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := map[string]int{"leads.csv": 1, "workers.csv": 1, "jobs.csv": 1}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("%s count = %d, want %d", name, counts[name], n)
		}
	}

	leads := readCSV(t, filepath.Join(dir, "leads.csv"))
	if len(leads) != 2 {
		t.Fatalf("leads.csv has %d rows, want header + 1", len(leads))
	}
	if leads[0][0] != "ID" || leads[1][1] != "Hotel Sagar" {
		t.Errorf("leads.csv rows = %v", leads)
	}

	jobs := readCSV(t, filepath.Join(dir, "jobs.csv"))
	if len(jobs) != 2 {
		t.Fatalf("jobs.csv has %d rows, want header + 1", len(jobs))
	}
	row := jobs[1]
	if row[1] != "plumbing" || row[5] != "Hotel Sagar" || row[7] != "Asha" {
		t.Errorf("jobs.csv row = %v", row)
	}
}

func TestExportEmptyTableWritesHeaderOnly(t *testing.T) {
	e, _ := newTestExporter(t)
	path := filepath.Join(t.TempDir(), "leads.csv")

	n, err := e.Leads(context.Background(), path)
	if err != nil {
		t.Fatalf("Leads: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if rows := readCSV(t, path); len(rows) != 1 {
		t.Errorf("empty export has %d rows, want header only", len(rows))
	}
}

func TestExportNullLocationRendersEmpty(t *testing.T) {
	e, db := newTestExporter(t)
	ctx := context.Background()

	_, err := db.InsertLead(ctx, domain.Lead{
		Name: "No Fix", Category: "plumbing", Phone: "+91 98765 00000",
		Status: domain.LeadNew, CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "leads.csv")
	if _, err := e.Leads(ctx, path); err != nil {
		t.Fatalf("Leads: %v", err)
	}
	rows := readCSV(t, path)
	if rows[1][4] != "" || rows[1][5] != "" {
		t.Errorf("unknown location rendered as %q/%q, want empty", rows[1][4], rows[1][5])
	}
}
