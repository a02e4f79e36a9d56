package pipeline

import (
	"crypto/sha256"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dgallion1/fnolgest/internal/claim"
)

// Cache memoizes pipeline results for identical (source, text) pairs.
// Results are never mutated after creation, so cached values are shared.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached result for source and text.
func (c *Cache) Get(source, text string) (claim.Result, bool) {
	if v, found := c.cache.Get(cacheKey(source, text)); found {
		return v.(claim.Result), true
	}
	return claim.Result{}, false
}

// Put stores res for source and text using the default TTL.
func (c *Cache) Put(source, text string, res claim.Result) {
	c.cache.SetDefault(cacheKey(source, text), res)
}

// Len returns the number of cached results, including expired entries
// not yet evicted.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

func cacheKey(source, text string) string {
	return "fnol:v1:" + ContentHashHex([]byte(source+"\x00"+text))
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
