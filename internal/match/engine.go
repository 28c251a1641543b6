// Package match scores workers against leads and turns the best pair
// into a dispatched job.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/domain"
	"dispatch-engine/internal/geo"
	"dispatch-engine/internal/store"
)

// ErrNoMatch means no active worker carries the requested skill.
var ErrNoMatch = errors.New("match: no eligible worker")

type Engine struct {
	db           *store.DB
	penaltyKM    float64
	ratingWeight float64
	now          func() time.Time
}

func NewEngine(db *store.DB, cfg config.Config) *Engine {
	return &Engine{
		db:           db,
		penaltyKM:    cfg.Matching.PenaltyKM,
		ratingWeight: cfg.Matching.RatingWeight,
		now:          time.Now,
	}
}

// Score is the cost of sending a worker to a lead: road distance in km
// minus a rating bonus. Lower is better. When either side has no known
// location the penalty distance stands in, so located pairs always
// outrank blind ones but a highly rated worker can still win among the
// blind.
func (e *Engine) Score(lead domain.Lead, w domain.Worker) float64 {
	km, ok := geo.Between(lead.Location, w.Location)
	if !ok {
		km = e.penaltyKM
	}
	return km - e.ratingWeight*w.Rating
}

// FindBestWorker returns the lowest-scoring eligible worker for a lead.
// Ties keep the earlier worker, which the store already orders by
// rating then experience.
func (e *Engine) FindBestWorker(ctx context.Context, lead domain.Lead, service string) (domain.Worker, float64, error) {
	workers, err := e.db.EligibleWorkers(ctx, service)
	if err != nil {
		return domain.Worker{}, 0, err
	}
	if len(workers) == 0 {
		return domain.Worker{}, 0, ErrNoMatch
	}

	best := workers[0]
	bestScore := e.Score(lead, best)
	for _, w := range workers[1:] {
		if s := e.Score(lead, w); s < bestScore {
			best, bestScore = w, s
		}
	}
	return best, bestScore, nil
}

// Outcome reports what happened to one lead during a matching run.
type Outcome struct {
	Lead   domain.Lead
	Worker domain.Worker
	Score  float64
	JobID  int64
	Err    error
}

// MatchLead dispatches a single lead: pick the best worker for the
// service and create the job. The lead must exist; it is not required
// to be `new`, so operators can force a re-dispatch by id.
func (e *Engine) MatchLead(ctx context.Context, leadID int64, service string, price float64) (Outcome, error) {
	lead, err := e.db.GetLead(ctx, leadID)
	if err != nil {
		return Outcome{}, err
	}

	worker, score, err := e.FindBestWorker(ctx, lead, service)
	if err != nil {
		return Outcome{Lead: lead, Err: err}, err
	}

	jobID, err := e.db.CreateDispatch(ctx, lead.ID, worker.ID, service, price, e.now())
	if err != nil {
		return Outcome{Lead: lead, Worker: worker, Score: score, Err: err}, err
	}

	e.db.Audit(ctx, "INFO", "match",
		fmt.Sprintf("job %d: %q -> %s (score %.1f)", jobID, lead.Name, worker.Name, score))
	return Outcome{Lead: lead, Worker: worker, Score: score, JobID: jobID}, nil
}

// MatchAll greedily dispatches every `new` lead whose category matches
// the service, oldest lead first. Each lead gets the best worker at
// that moment; workers are not reserved, so one worker can take several
// jobs in a run. Per-lead failures are recorded in the outcome and the
// run continues.
func (e *Engine) MatchAll(ctx context.Context, service string, price float64, max int) ([]Outcome, error) {
	leads, err := e.db.NewLeadsForService(ctx, service, max)
	if err != nil {
		return nil, err
	}

	out := make([]Outcome, 0, len(leads))
	for _, lead := range leads {
		worker, score, err := e.FindBestWorker(ctx, lead, service)
		if err != nil {
			out = append(out, Outcome{Lead: lead, Err: err})
			continue
		}

		jobID, err := e.db.CreateDispatch(ctx, lead.ID, worker.ID, service, price, e.now())
		if err != nil {
			slog.Warn("dispatch failed", "lead", lead.ID, "worker", worker.ID, "err", err)
			out = append(out, Outcome{Lead: lead, Worker: worker, Score: score, Err: err})
			continue
		}

		e.db.Audit(ctx, "INFO", "match",
			fmt.Sprintf("job %d: %q -> %s (score %.1f)", jobID, lead.Name, worker.Name, score))
		out = append(out, Outcome{Lead: lead, Worker: worker, Score: score, JobID: jobID})
	}
	return out, nil
}
