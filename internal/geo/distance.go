// Package geo provides the great-circle distance used for worker
// selection. "Unknown location" is represented as a nil *Point, never
// as a zero coordinate.
package geo

import "math"

const earthRadiusKM = 6371.0

type Point struct {
	Lat float64
	Lon float64
}

// InBounds reports whether a coordinate pair is a real position on the
// WGS84 grid.
func InBounds(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Distance returns the haversine distance between two points in km.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dlat := radians(b.Lat - a.Lat)
	dlon := radians(b.Lon - a.Lon)

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

// Between returns the distance between two optional points. ok is false
// when either side is unknown; callers must substitute their own
// penalty instead of treating the distance as zero.
func Between(a, b *Point) (km float64, ok bool) {
	if !known(a) || !known(b) {
		return 0, false
	}
	return Distance(*a, *b), true
}

// A nil point is unknown. So is (0,0): legacy data sources use it as a
// missing-location sentinel, and no business sits at that ocean point.
func known(p *Point) bool {
	return p != nil && !(p.Lat == 0 && p.Lon == 0)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
