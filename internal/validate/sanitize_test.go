package validate

import (
	"strings"
	"testing"
)

func TestStringStripsControlChars(t *testing.T) {
	in := "Acme\x00 Plumbing\x1f Co"
	got := String(in, MaxName)
	if got != "Acme Plumbing Co" {
		t.Errorf("String() = %q, want %q", got, "Acme Plumbing Co")
	}
	if got := String("café", MaxName); got != "café" {
		t.Errorf("String() mangled multibyte rune: %q", got)
	}
}

func TestStringTruncates(t *testing.T) {
	in := strings.Repeat("a", 600)
	got := String(in, MaxName)
	if len(got) != MaxName {
		t.Errorf("len = %d, want %d", len(got), MaxName)
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		drop bool
	}{
		{"+91 98765 43210", "+91 98765 43210", false},
		{"(022) 2345-6789", "(022) 2345-6789", false},
		{"call me maybe", "", true},
		{"12345", "", true}, // too short
		{"", "", false},
	}
	for _, tc := range cases {
		var res Result
		got := Phone(tc.in, &res)
		if got != tc.want {
			t.Errorf("Phone(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if dropped := !res.Clean(); dropped != tc.drop {
			t.Errorf("Phone(%q) downgraded = %v, want %v", tc.in, dropped, tc.drop)
		}
	}
}

func TestEmail(t *testing.T) {
	var res Result
	if got := Email("Owner@Example.COM", &res); got != "owner@example.com" {
		t.Errorf("Email() = %q, want lowercased address", got)
	}
	if !res.Clean() {
		t.Errorf("valid email was downgraded: %v", res.Downgraded)
	}

	res = Result{}
	if got := Email("not-an-email", &res); got != "" {
		t.Errorf("invalid email kept as %q", got)
	}
	if res.Clean() {
		t.Error("invalid email not recorded as downgraded")
	}
}

func TestCoords(t *testing.T) {
	var res Result
	p := Coords(19.07, 72.87, &res)
	if p == nil || p.Lat != 19.07 || p.Lon != 72.87 {
		t.Errorf("valid coords rejected: %v", p)
	}

	// Zero pair is the legacy unknown sentinel, not a downgrade.
	res = Result{}
	if p := Coords(0, 0, &res); p != nil {
		t.Errorf("zero sentinel stored as point %v", p)
	}
	if !res.Clean() {
		t.Error("zero sentinel counted as a downgrade")
	}

	// Out-of-range pair is a downgrade.
	res = Result{}
	if p := Coords(120, 72.87, &res); p != nil {
		t.Errorf("out-of-range coords stored as %v", p)
	}
	if res.Clean() {
		t.Error("out-of-range coords not recorded as downgraded")
	}
}

func TestSkills(t *testing.T) {
	if got := Skills(" Plumbing, Electrical "); got != "plumbing, electrical" {
		t.Errorf("Skills() = %q", got)
	}
}
