package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/store"
	"dispatch-engine/internal/validate"
)

// ContactFinder fills in missing contact info from a candidate's
// website. Optional; collection works without it.
type ContactFinder interface {
	Contact(ctx context.Context, pageURL string) (phone, email string, err error)
}

type Collector struct {
	db       *store.DB
	client   *Client
	enricher ContactFinder
	now      func() time.Time
}

func NewCollector(db *store.DB, client *Client, enricher ContactFinder) *Collector {
	return &Collector{db: db, client: client, enricher: enricher, now: time.Now}
}

// Summary is the three-part outcome of a collection batch. The batch
// always runs to completion; per-candidate problems are tallied, not
// raised.
type Summary struct {
	Found      int
	Added      int
	Duplicates int
	Skipped    int
	Errors     int
	FromCache  bool
}

// Collect searches the provider for businesses matching the service in
// a city and stores each usable candidate as a `new` lead. A transport
// failure returns the tagged error with an empty summary; the caller
// treats it as a warning.
func (c *Collector) Collect(ctx context.Context, city, service string, limit int) (Summary, error) {
	var sum Summary

	candidates, fromCache, err := c.client.Search(ctx, city, service, limit)
	if err != nil {
		c.db.Audit(ctx, "ERROR", "collect", fmt.Sprintf("lookup failed for %q in %q: %v", service, city, err))
		return sum, err
	}
	sum.Found = len(candidates)
	sum.FromCache = fromCache

	for _, cand := range candidates {
		lead, ok := c.leadFromCandidate(ctx, cand, service)
		if !ok {
			sum.Skipped++
			continue
		}

		_, err := c.db.InsertLead(ctx, lead)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			sum.Duplicates++
		case err != nil:
			sum.Errors++
			c.db.Audit(ctx, "ERROR", "collect", fmt.Sprintf("insert lead %q: %v", lead.Name, err))
		default:
			sum.Added++
		}
	}

	c.db.Audit(ctx, "INFO", "collect",
		fmt.Sprintf("added %d leads for %q in %q (%d duplicate, %d skipped, %d errored)",
			sum.Added, service, city, sum.Duplicates, sum.Skipped, sum.Errors))
	return sum, nil
}

func (c *Collector) leadFromCandidate(ctx context.Context, cand Candidate, service string) (domain.Lead, bool) {
	name := validate.String(cand.DisplayName, validate.MaxName)
	if name == "" {
		name = "Unknown"
	}

	lat, latErr := strconv.ParseFloat(cand.Lat, 64)
	lon, lonErr := strconv.ParseFloat(cand.Lon, 64)
	if latErr != nil || lonErr != nil {
		return domain.Lead{}, false
	}

	var res validate.Result
	pt := validate.Coords(lat, lon, &res)
	if !res.Clean() {
		// Out-of-range coordinates mean the candidate is garbage, not
		// merely unlocated.
		return domain.Lead{}, false
	}

	phone := validate.Phone(cand.ExtraTags["phone"], &res)
	email := validate.Email(cand.ExtraTags["email"], &res)

	if phone == "" && email == "" && c.enricher != nil {
		if site := cand.ExtraTags["website"]; site != "" {
			p, e, err := c.enricher.Contact(ctx, site)
			if err != nil {
				slog.Debug("contact enrichment failed", "site", site, "err", err)
			} else {
				var eres validate.Result
				if phone == "" {
					phone = validate.Phone(p, &eres)
				}
				if email == "" {
					email = validate.Email(e, &eres)
				}
			}
		}
	}

	return domain.Lead{
		Name:      name,
		Category:  validate.String(service, validate.MaxQuery),
		Address:   validate.String(cand.DisplayName, validate.MaxName),
		Location:  pt,
		Phone:     phone,
		Email:     email,
		Source:    "nominatim",
		Status:    domain.LeadNew,
		CreatedAt: c.now(),
	}, true
}
