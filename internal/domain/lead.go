package domain

import (
	"time"

	"dispatch-engine/internal/geo"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadInvalid   LeadStatus = "invalid"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadConverted, LeadInvalid:
		return true
	}
	return false
}

// Lead is a prospective customer location. Location is nil when the
// source carried no usable coordinates; (0,0) is never stored.
type Lead struct {
	ID           int64
	Name         string
	Category     string
	Address      string
	Location     *geo.Point
	Phone        string
	Email        string
	Source       string // nominatim/manual/etc.
	Note         string
	Status       LeadStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LastContact  *time.Time
	ContactCount int
}
