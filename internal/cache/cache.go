// Package cache stores parse results keyed by the digest of the page they
// were parsed from.
package cache

import "time"

// keyPrefix namespaces entries; bump the version when Document changes shape
const keyPrefix = "patentia:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key returns the cache key for a page digest
func Key(digest string) string {
	return keyPrefix + digest
}
