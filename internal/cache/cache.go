// Package cache holds rendered analytics responses with their ETags.
//
// Entries are keyed by operation and scope (see Key). Every analytics value
// is derivable from stored history, so the cache only ever drops entries:
// on TTL expiry, or when a new record arrives for a user.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	TTLAnalytics = 5 * time.Minute
	TTLUsers     = 10 * time.Minute

	cleanupInterval = 5 * time.Minute
	allScope        = "all"
)

type entry struct {
	data []byte
	etag string
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	store   *gocache.Cache
	enabled bool
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	return &Cache{
		store:   gocache.New(TTLAnalytics, cleanupInterval),
		enabled: enabled,
	}
}

// Key builds a cache key for an operation and user scope. An empty scope is
// the all-users scope.
func Key(op, userID string) string {
	if userID == "" {
		userID = allScope
	}
	return op + ":" + userID
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	v, found := c.store.Get(key)
	if !found {
		return nil, "", false
	}
	e := v.(entry)
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if c.enabled {
		c.store.Set(key, entry{data: data, etag: etag}, ttl)
	}
	return etag
}

// InvalidateUser drops every entry scoped to userID plus every all-users
// entry and the user list. Returns the number of entries removed.
func (c *Cache) InvalidateUser(userID string) int {
	removed := 0
	for key := range c.store.Items() {
		_, scope, _ := strings.Cut(key, ":")
		if scope == userID || scope == allScope {
			c.store.Delete(key)
			removed++
		}
	}
	return removed
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.store.Flush()
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"enabled":     c.enabled,
		"active_keys": c.store.ItemCount(),
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
