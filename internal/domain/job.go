package domain

import "time"

type JobStatus string

const (
	JobDispatched JobStatus = "dispatched"
	JobComplete   JobStatus = "complete"
	JobPaid       JobStatus = "paid"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobDispatched, JobComplete, JobPaid, JobCancelled:
		return true
	}
	return false
}

// Job is a dispatch offer linking one lead to one worker. A created job
// is an offer, not a confirmed commitment.
type Job struct {
	ID          int64
	LeadID      int64
	WorkerID    int64
	Service     string
	Price       float64
	Status      JobStatus
	Evidence    string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CompletedAt *time.Time

	// Joined display fields, populated by listing queries only.
	LeadName    string
	WorkerName  string
	WorkerPhone string
}
