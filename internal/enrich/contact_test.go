package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContactFindsTelAndMailtoAnchors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/about">About</a>
			<a href="tel:+91%2098765%2043210">Call us</a>
			<a href="mailto:info@sagar.example?subject=Booking">Email</a>
		</body></html>`))
	}))
	defer srv.Close()

	s := NewScraper("dispatch-engine/test")
	phone, email, err := s.Contact(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Contact: %v", err)
	}
	if phone != "+91 98765 43210" {
		t.Errorf("phone = %q", phone)
	}
	if email != "info@sagar.example" {
		t.Errorf("email = %q", email)
	}
}

func TestContactEmptyPageIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	s := NewScraper("dispatch-engine/test")
	phone, email, err := s.Contact(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Contact: %v", err)
	}
	if phone != "" || email != "" {
		t.Errorf("got phone=%q email=%q from an empty page", phone, email)
	}
}

func TestContactRejectsBadURL(t *testing.T) {
	s := NewScraper("dispatch-engine/test")
	if _, _, err := s.Contact(context.Background(), "ftp://example.com"); err == nil {
		t.Error("non-http scheme accepted")
	}
}

func TestContactErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraper("dispatch-engine/test")
	if _, _, err := s.Contact(context.Background(), srv.URL); err == nil {
		t.Error("404 page returned no error")
	}
}
