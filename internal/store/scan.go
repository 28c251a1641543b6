package store

import (
	"database/sql"
	"strings"
	"time"

	"dispatch-engine/internal/geo"
)

func lowered(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func scanTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func scanTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func scanPoint(lat, lon sql.NullFloat64) *geo.Point {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &geo.Point{Lat: lat.Float64, Lon: lon.Float64}
}

// pointArgs splits an optional point into the two nullable columns.
func pointArgs(p *geo.Point) (lat, lon any) {
	if p == nil {
		return nil, nil
	}
	return p.Lat, p.Lon
}
