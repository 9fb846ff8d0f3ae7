// Package cache provides the layered search-response cache: a fast in-memory
// layer backed by a persistent disk layer so repeated scans of the same name
// skip the backend entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores serialized backend responses keyed by search name.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes a raw cache key (which may contain a user-supplied search name)
// into a stable, filesystem-safe identifier.
func Key(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "footprint:v1:" + hex.EncodeToString(sum[:])
}
