package geo

import (
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	pts := []Point{
		{Lat: 19.076, Lon: 72.877},
		{Lat: -33.865, Lon: 151.209},
		{Lat: 51.507, Lon: -0.128},
	}
	for _, p := range pts {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Point{Lat: 19.076, Lon: 72.877}
	b := Point{Lat: 28.614, Lon: 77.209}

	ab := Distance(a, b)
	ba := Distance(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Mumbai to Delhi is roughly 1150 km great-circle.
	a := Point{Lat: 19.076, Lon: 72.877}
	b := Point{Lat: 28.614, Lon: 77.209}

	d := Distance(a, b)
	if d < 1100 || d > 1200 {
		t.Errorf("Mumbai-Delhi distance = %v km, want ~1150", d)
	}
}

func TestBetweenUnknown(t *testing.T) {
	mumbai := &Point{Lat: 19.076, Lon: 72.877}
	zero := &Point{}

	cases := []struct {
		name string
		a, b *Point
	}{
		{"nil first", nil, mumbai},
		{"nil second", mumbai, nil},
		{"both nil", nil, nil},
		{"zero sentinel first", zero, mumbai},
		{"zero sentinel second", mumbai, zero},
	}
	for _, tc := range cases {
		if _, ok := Between(tc.a, tc.b); ok {
			t.Errorf("%s: Between reported a known distance", tc.name)
		}
	}
}

func TestBetweenKnown(t *testing.T) {
	a := &Point{Lat: 19.07, Lon: 72.87}
	b := &Point{Lat: 19.08, Lon: 72.88}

	d, ok := Between(a, b)
	if !ok {
		t.Fatal("Between reported unknown for two valid points")
	}
	if d <= 0 || d > 5 {
		t.Errorf("neighboring points distance = %v km, want small positive", d)
	}
}
