package lookup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives the cache key for a (city, query) pair. Case and
// surrounding whitespace don't change the key, so "Mumbai"/"HOTEL"
// and "mumbai "/"hotel" hit the same entry.
func Fingerprint(city, query string) string {
	norm := strings.ToLower(strings.TrimSpace(city)) + ":" + strings.ToLower(strings.TrimSpace(query))
	h := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(h[:])
}
