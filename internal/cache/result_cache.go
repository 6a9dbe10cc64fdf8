// Package cache holds the most recent comparison result in a single fixed
// slot. The store is non-durable and single-writer: each analysis silently
// overwrites the previous entry and nothing ever expires.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"go-ecoscan/pkg/models"
)

const slotKey = "latest_comparison"

// ResultCache is a one-slot store for the latest ComparisonResult.
type ResultCache struct {
	store *gocache.Cache
}

// NewResultCache creates an empty result cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Put overwrites the slot with the given result.
func (c *ResultCache) Put(result models.ComparisonResult) {
	c.store.Set(slotKey, result, gocache.NoExpiration)
}

// Get returns the stored result, if any.
func (c *ResultCache) Get() (models.ComparisonResult, bool) {
	v, ok := c.store.Get(slotKey)
	if !ok {
		return models.ComparisonResult{}, false
	}
	return v.(models.ComparisonResult), true
}

// Clear empties the slot.
func (c *ResultCache) Clear() {
	c.store.Delete(slotKey)
}
