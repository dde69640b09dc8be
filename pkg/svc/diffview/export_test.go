package diffview

// NewCacheWithHash builds a cache fingerprinting patch text with hash.
func NewCacheWithHash(size int, hash func(string) uint64) *Cache {
	cache := NewCache(size)
	cache.hash = hash

	return cache
}
