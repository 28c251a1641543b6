// Package lookup talks to the external geocoding/search provider
// behind a fingerprint cache and a process-wide rate gate.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dispatch-engine/internal/config"
	"dispatch-engine/internal/store"
	"dispatch-engine/internal/validate"
)

var (
	// ErrTimeout tags a lookup that ran out the transport deadline.
	ErrTimeout = errors.New("lookup: request timed out")
	// ErrTransport tags any other transport failure (network error,
	// non-2xx, malformed body). Neither kind is ever cached.
	ErrTransport = errors.New("lookup: transport failure")
)

// Candidate is one provider result. Every field is optional; callers
// validate independently and skip what they can't use.
type Candidate struct {
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	ExtraTags   map[string]string `json:"extratags"`
}

type Client struct {
	db         *store.DB
	hc         *http.Client
	gate       *Gate
	baseURL    string
	userAgent  string
	timeout    time.Duration
	ttl        time.Duration
	maxResults int

	now func() time.Time
}

func NewClient(db *store.DB, cfg config.Config) *Client {
	return &Client{
		db:         db,
		hc:         &http.Client{Timeout: cfg.LookupTimeout()},
		gate:       NewGate(cfg.LookupSpacing()),
		baseURL:    cfg.Lookup.BaseURL,
		userAgent:  cfg.Lookup.UserAgent,
		timeout:    cfg.LookupTimeout(),
		ttl:        cfg.CacheTTL(),
		maxResults: cfg.Lookup.MaxResults,
		now:        time.Now,
	}
}

// Search returns provider candidates for (city, query). A live cache
// entry short-circuits the external call entirely; otherwise the rate
// gate is paid, the call made, and the raw response cached under a
// fresh TTL - even when it held zero results. Transport failures come
// back as an empty set with the error wrapping ErrTimeout or
// ErrTransport, and nothing is cached.
func (c *Client) Search(ctx context.Context, city, query string, limit int) (results []Candidate, cached bool, err error) {
	city = validate.String(city, validate.MaxQuery)
	query = validate.String(query, validate.MaxQuery)
	if city == "" || query == "" {
		return nil, false, errors.New("lookup: city and query are required")
	}
	if limit <= 0 || limit > c.maxResults {
		limit = c.maxResults
	}

	fp := Fingerprint(city, query)
	if payload, ok, cerr := c.db.GetCachedQuery(ctx, fp, c.now()); cerr == nil && ok {
		return decodeCandidates(payload), true, nil
	}

	params := url.Values{
		"format":         {"jsonv2"},
		"q":              {query + ", " + city},
		"limit":          {strconv.Itoa(limit)},
		"addressdetails": {"1"},
		"extratags":      {"1"},
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.gate.Wait()

	resp, err := c.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, false, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("%w: status %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, false, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	// The payload must at least be a JSON array; individual candidates
	// are decoded leniently below.
	var probe []json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, false, fmt.Errorf("%w: malformed response: %v", ErrTransport, err)
	}

	paramsJSON, _ := json.Marshal(map[string]string{"city": city, "query": query, "limit": strconv.Itoa(limit)})
	if cerr := c.db.PutCachedQuery(ctx, fp, paramsJSON, body, c.now(), c.ttl); cerr != nil {
		// A failed cache write degrades the next call, not this one.
		c.db.Audit(ctx, "ERROR", "lookup", fmt.Sprintf("cache store failed: %v", cerr))
	}

	return decodeCandidates(body), false, nil
}

// decodeCandidates parses a provider payload, skipping any element
// that doesn't decode on its own. One malformed candidate must not
// sink the batch.
func decodeCandidates(payload []byte) []Candidate {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil
	}
	out := make([]Candidate, 0, len(raw))
	for _, r := range raw {
		var c Candidate
		if err := json.Unmarshal(r, &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
