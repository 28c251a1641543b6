package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch-engine/internal/domain"
)

type stubFinder struct {
	phone, email string
	calls        int
}

func (s *stubFinder) Contact(ctx context.Context, pageURL string) (string, string, error) {
	s.calls++
	return s.phone, s.email, nil
}

func TestCollectStoresUsableCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"display_name":"Hotel Sagar","lat":"19.07","lon":"72.87","extratags":{"phone":"+91 98765 43210"}},
			{"display_name":"Bad Coords","lat":"91.5","lon":"72.87"},
			{"display_name":"Bad Floats","lat":"abc","lon":"72.87"},
			{"display_name":"Hotel Sagar","lat":"19.07","lon":"72.87"}
		]`))
	}))
	defer srv.Close()

	db := newTestDB(t)
	c := newTestClient(t, db, srv.URL)
	col := NewCollector(db, c, nil)

	sum, err := col.Collect(context.Background(), "Mumbai", "hotel", 20)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if sum.Found != 4 || sum.Added != 1 || sum.Duplicates != 1 || sum.Skipped != 2 {
		t.Fatalf("summary = %+v, want found=4 added=1 dup=1 skipped=2", sum)
	}

	leads, err := db.ListLeads(context.Background(), 10)
	if err != nil || len(leads) != 1 {
		t.Fatalf("leads = %d err=%v", len(leads), err)
	}
	l := leads[0]
	if l.Name != "Hotel Sagar" || l.Phone != "+91 98765 43210" || l.Status != domain.LeadNew {
		t.Errorf("lead = %+v", l)
	}
	if l.Location == nil || l.Location.Lat != 19.07 {
		t.Errorf("lead location = %+v", l.Location)
	}
	if l.Source != "nominatim" || l.Category != "hotel" {
		t.Errorf("lead source/category = %s/%s", l.Source, l.Category)
	}
}

func TestCollectEnrichesWhenContactsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"display_name":"No Contact","lat":"19.07","lon":"72.87","extratags":{"website":"https://nocontact.example"}},
			{"display_name":"Has Phone","lat":"19.10","lon":"72.90","extratags":{"phone":"+91 98765 43210","website":"https://hasphone.example"}}
		]`))
	}))
	defer srv.Close()

	db := newTestDB(t)
	c := newTestClient(t, db, srv.URL)
	finder := &stubFinder{phone: "+91 90000 11111", email: "owner@nocontact.example"}
	col := NewCollector(db, c, finder)

	sum, err := col.Collect(context.Background(), "Mumbai", "hotel", 20)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if sum.Added != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	// Only the contactless candidate pays for a website fetch.
	if finder.calls != 1 {
		t.Errorf("enricher called %d times, want 1", finder.calls)
	}

	leads, _ := db.ListLeads(context.Background(), 10)
	for _, l := range leads {
		if l.Name == "No Contact" && (l.Phone != "+91 90000 11111" || l.Email != "owner@nocontact.example") {
			t.Errorf("enriched lead = phone=%q email=%q", l.Phone, l.Email)
		}
	}
}

func TestCollectTransportFailureIsTagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	db := newTestDB(t)
	c := newTestClient(t, db, srv.URL)
	col := NewCollector(db, c, nil)

	if _, err := col.Collect(context.Background(), "Mumbai", "hotel", 20); err == nil {
		t.Error("provider outage returned nil error")
	}
}
