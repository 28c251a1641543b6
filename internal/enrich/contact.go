// Package enrich pulls missing contact details off a business's own
// website when the lookup provider didn't carry them.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Scraper struct {
	hc        *http.Client
	userAgent string
}

func NewScraper(userAgent string) *Scraper {
	return &Scraper{
		hc:        &http.Client{Timeout: 15 * time.Second},
		userAgent: userAgent,
	}
}

// Contact fetches the page and returns the first tel: and mailto:
// anchors found. Either can come back empty; a page with neither is
// not an error.
func (s *Scraper) Contact(ctx context.Context, pageURL string) (phone, email string, err error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "", fmt.Errorf("enrich: unusable url %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("enrich: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	res, err := s.hc.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("enrich get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", "", fmt.Errorf("enrich: page status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", "", fmt.Errorf("enrich parse: %w", err)
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		switch {
		case phone == "" && strings.HasPrefix(href, "tel:"):
			phone = cleanHref(strings.TrimPrefix(href, "tel:"))
		case email == "" && strings.HasPrefix(href, "mailto:"):
			email = cleanHref(strings.TrimPrefix(href, "mailto:"))
		}
		return phone == "" || email == ""
	})

	return phone, email, nil
}

// cleanHref strips query suffixes like mailto:x@y.com?subject=hi and
// percent-decodes what remains. PathUnescape, not QueryUnescape: a
// "+" in a tel: href is a real plus sign, not an encoded space.
func cleanHref(v string) string {
	if i := strings.IndexByte(v, '?'); i >= 0 {
		v = v[:i]
	}
	if dec, err := url.PathUnescape(v); err == nil {
		v = dec
	}
	return strings.TrimSpace(v)
}
