// Package cache stores fetched portal pages so repeated keyword
// searches within a run do not hammer the upstream source.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-blob cache with per-entry TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// PageKey derives the cache key for a fetched URL.
func PageKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "tendertrack:v1:" + hex.EncodeToString(sum[:])
}
