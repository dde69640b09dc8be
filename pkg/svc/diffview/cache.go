package diffview

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
)

// DefaultCacheSize bounds the number of parsed models kept per cache.
const DefaultCacheSize = 256

// Cache memoises parsed models by scope and patch-text fingerprint. Models
// are read-only, so a cached model can be shared between callers.
type Cache struct {
	models *lru.Cache[string, *Model]
	hash   func(string) uint64
}

// NewCache creates a cache holding up to size models; size <= 0 uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	// lru.New only fails for non-positive sizes.
	models, _ := lru.New[string, *Model](size)

	return &Cache{models: models, hash: xxh3.HashString}
}

// Parse returns the cached model for scope and patchText, parsing it on a
// miss. A cached model is only reused when its scope and text match exactly.
func (c *Cache) Parse(scope Scope, patchText string) *Model {
	key := fmt.Sprintf("%s@%016x", scope, c.hash(patchText))

	if model, ok := c.models.Get(key); ok && model.Scope == scope && model.PatchText == patchText {
		return model
	}

	model := Parse(scope, patchText)
	c.models.Add(key, model)

	return model
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	return c.models.Len()
}

// Purge drops every cached model.
func (c *Cache) Purge() {
	c.models.Purge()
}
