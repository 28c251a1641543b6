// Package validate sanitizes untrusted record fields before they reach
// the store. Bad contact fields are cleared rather than failing the
// whole write; every downgrade is recorded on the Result so callers can
// report what was dropped.
package validate

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"dispatch-engine/internal/geo"
)

// Hard field limits, enforced on every write path.
const (
	MaxName   = 500
	MaxPhone  = 20
	MaxEmail  = 100
	MaxSkills = 500
	MaxQuery  = 200
)

var phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{6,20}$`)

var fieldValidator = validator.New()

// Result accumulates the fields a sanitizer pass downgraded (cleared or
// rejected). An empty Result means the record went through untouched.
type Result struct {
	Downgraded []string
}

func (r *Result) downgrade(field string) {
	if r != nil {
		r.Downgraded = append(r.Downgraded, field)
	}
}

func (r *Result) Clean() bool {
	return r == nil || len(r.Downgraded) == 0
}

// String strips control characters and hard-truncates to max runes.
func String(s string, max int) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if c < 0x20 || (c >= 0x7f && c <= 0x9f) {
			continue
		}
		b.WriteRune(c)
	}
	out := b.String()
	if runes := []rune(out); len(runes) > max {
		out = string(runes[:max])
	}
	return strings.TrimSpace(out)
}

// Phone cleans a phone number, clearing it when the format is invalid.
func Phone(raw string, res *Result) string {
	p := String(raw, MaxPhone)
	if p == "" {
		return ""
	}
	if !phoneRe.MatchString(p) {
		res.downgrade("phone")
		return ""
	}
	return p
}

// Email cleans an email address, clearing it when the format is invalid.
func Email(raw string, res *Result) string {
	e := strings.ToLower(String(raw, MaxEmail))
	if e == "" {
		return ""
	}
	if err := fieldValidator.Var(e, "email"); err != nil {
		res.downgrade("email")
		return ""
	}
	return e
}

// Coords converts a raw coordinate pair into an optional point.
// Out-of-range pairs are rejected and recorded; (0,0) is the legacy
// "unknown" sentinel and maps silently to nil.
func Coords(lat, lon float64, res *Result) *geo.Point {
	if lat == 0 && lon == 0 {
		return nil
	}
	if !geo.InBounds(lat, lon) {
		res.downgrade("coordinates")
		return nil
	}
	return &geo.Point{Lat: lat, Lon: lon}
}

// Skills lowercases and cleans a comma-joined skill set.
func Skills(raw string) string {
	return strings.ToLower(String(raw, MaxSkills))
}
