package match

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/geo"
	"dispatch-engine/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewEngine(db, config.Default()), db
}

var (
	seedTime = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	phoneSeq int
)

func addLead(t *testing.T, db *store.DB, name string, loc *geo.Point) int64 {
	t.Helper()
	id, err := db.InsertLead(context.Background(), domain.Lead{
		Name: name, Category: "plumbing", Location: loc,
		Status: domain.LeadNew, CreatedAt: seedTime,
	})
	if err != nil {
		t.Fatalf("insert lead %s: %v", name, err)
	}
	return id
}

func addWorker(t *testing.T, db *store.DB, name string, loc *geo.Point, rating float64) int64 {
	t.Helper()
	phoneSeq++
	id, err := db.InsertWorker(context.Background(), domain.Worker{
		Name: name, Skills: "plumbing,repair", Phone: fmt.Sprintf("+91 90000 %05d", phoneSeq),
		Location: loc, Status: domain.WorkerActive, Rating: rating, CreatedAt: seedTime,
	})
	if err != nil {
		t.Fatalf("insert worker %s: %v", name, err)
	}
	return id
}

func TestScoreTradesDistanceForRating(t *testing.T) {
	e, _ := newTestEngine(t)
	lead := domain.Lead{Location: &geo.Point{Lat: 19.0, Lon: 72.8}}

	// ~11.1km away, unrated vs ~16.7km away, rated 3.0. The rating
	// bonus (2 per star) makes the farther worker cheaper:
	// 16.7-6 = 10.7 < 11.1-0.
	near := domain.Worker{Location: &geo.Point{Lat: 19.1, Lon: 72.8}}
	far := domain.Worker{Location: &geo.Point{Lat: 19.15, Lon: 72.8}, Rating: 3.0}

	if sn, sf := e.Score(lead, near), e.Score(lead, far); sf >= sn {
		t.Errorf("far rated worker scored %.2f, near unrated %.2f; want far < near", sf, sn)
	}
}

func TestScoreUnknownLocationUsesPenalty(t *testing.T) {
	e, _ := newTestEngine(t)
	lead := domain.Lead{Location: &geo.Point{Lat: 19.0, Lon: 72.8}}
	blind := domain.Worker{Rating: 3.0}

	want := 999.0 - 2*3.0
	if got := e.Score(lead, blind); got != want {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestFindBestWorkerPrefersLowestScore(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	// Both in range; B is slightly closer and better rated.
	addWorker(t, db, "Worker A", &geo.Point{Lat: 19.2, Lon: 72.8}, 1.0)
	idB := addWorker(t, db, "Worker B", &geo.Point{Lat: 19.1, Lon: 72.8}, 3.0)

	lead := domain.Lead{Location: &geo.Point{Lat: 19.0, Lon: 72.8}}
	best, _, err := e.FindBestWorker(ctx, lead, "plumbing")
	if err != nil {
		t.Fatalf("FindBestWorker: %v", err)
	}
	if best.ID != idB {
		t.Errorf("best = %s, want Worker B", best.Name)
	}
}

func TestFindBestWorkerSkillFilterIsCaseInsensitive(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	addWorker(t, db, "Ravi", &geo.Point{Lat: 19.1, Lon: 72.8}, 4.0)

	lead := domain.Lead{Location: &geo.Point{Lat: 19.0, Lon: 72.8}}
	if _, _, err := e.FindBestWorker(ctx, lead, "PLUMBING"); err != nil {
		t.Errorf("uppercase service query failed: %v", err)
	}
	if _, _, err := e.FindBestWorker(ctx, lead, "carpentry"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("unrelated service: err = %v, want ErrNoMatch", err)
	}
}

func TestMatchLeadDispatchesAndFlipsStatus(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	leadID := addLead(t, db, "Hotel Sagar", &geo.Point{Lat: 19.07, Lon: 72.87})
	nearID := addWorker(t, db, "Asha", &geo.Point{Lat: 19.08, Lon: 72.88}, 4.5)
	addWorker(t, db, "Binod", &geo.Point{Lat: 19.50, Lon: 73.10}, 1.0)

	out, err := e.MatchLead(ctx, leadID, "plumbing", 500)
	if err != nil {
		t.Fatalf("MatchLead: %v", err)
	}
	if out.Worker.ID != nearID {
		t.Errorf("dispatched to %s, want the close high-rated worker", out.Worker.Name)
	}
	if out.JobID == 0 {
		t.Error("no job id returned")
	}

	lead, err := db.GetLead(ctx, leadID)
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if lead.Status != domain.LeadContacted {
		t.Errorf("lead status = %s, want %s", lead.Status, domain.LeadContacted)
	}

	jobs, err := db.ListJobs(ctx, domain.JobDispatched, 10)
	if err != nil || len(jobs) != 1 {
		t.Fatalf("jobs = %d err=%v, want 1 dispatched", len(jobs), err)
	}
	if jobs[0].LeadID != leadID || jobs[0].WorkerID != nearID || jobs[0].Price != 500 {
		t.Errorf("job = %+v", jobs[0])
	}
}

func TestMatchAllSkipsAlreadyContacted(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	addLead(t, db, "Lead One", &geo.Point{Lat: 19.07, Lon: 72.87})
	addLead(t, db, "Lead Two", &geo.Point{Lat: 19.10, Lon: 72.90})
	addWorker(t, db, "Asha", &geo.Point{Lat: 19.08, Lon: 72.88}, 4.5)

	first, err := e.MatchAll(ctx, "plumbing", 500, 0)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first run dispatched %d leads, want 2", len(first))
	}
	for _, o := range first {
		if o.Err != nil {
			t.Errorf("lead %q: %v", o.Lead.Name, o.Err)
		}
	}

	// Everything is `contacted` now, so a second run finds nothing.
	second, err := e.MatchAll(ctx, "plumbing", 500, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second run dispatched %d leads, want 0", len(second))
	}
}

func TestMatchAllReportsEveryLeadWhenNoWorkerExists(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	addLead(t, db, "Lead One", &geo.Point{Lat: 19.07, Lon: 72.87})
	addLead(t, db, "Lead Two", &geo.Point{Lat: 19.10, Lon: 72.90})

	// The batch never aborts: every fetched lead gets its own outcome
	// even when no worker carries the skill.
	out, err := e.MatchAll(ctx, "plumbing", 500, 0)
	if err != nil {
		t.Fatalf("MatchAll: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("outcomes = %d, want one per lead", len(out))
	}
	for _, o := range out {
		if !errors.Is(o.Err, ErrNoMatch) {
			t.Errorf("lead %q: err = %v, want ErrNoMatch", o.Lead.Name, o.Err)
		}
	}

	// Leads stay `new` for the day a worker signs up.
	leads, err := db.NewLeadsForService(ctx, "plumbing", 10)
	if err != nil || len(leads) != 2 {
		t.Errorf("new leads = %d err=%v, want both untouched", len(leads), err)
	}
}
