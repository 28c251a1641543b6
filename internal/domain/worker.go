package domain

import (
	"time"

	"dispatch-engine/internal/geo"
)

type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
)

func (s WorkerStatus) Valid() bool {
	return s == WorkerActive || s == WorkerInactive
}

// Worker is a field operative. Skills is a comma-joined keyword set,
// stored lowercased so matching can be a plain substring check.
type Worker struct {
	ID            int64
	Name          string
	Skills        string
	Phone         string
	Email         string
	Location      *geo.Point
	Status        WorkerStatus
	Rating        float64
	JobsCompleted int
	Note          string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
