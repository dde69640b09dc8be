package diffview_test

import (
	"testing"

	"github.com/devantler-tech/ksync/pkg/svc/diffview"
	"github.com/stretchr/testify/assert"
)

func TestCache_Parse(t *testing.T) {
	t.Parallel()

	_, _, text := appConfigPatch()
	cache := diffview.NewCache(0)

	first := cache.Parse(appConfigScope, text)
	second := cache.Parse(appConfigScope, text)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	keyScope := appConfigScope
	keyScope.SubKey = "b"
	third := cache.Parse(keyScope, text)

	assert.NotSame(t, first, third)
	assert.Equal(t, 2, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Evicts(t *testing.T) {
	t.Parallel()

	cache := diffview.NewCache(1)

	cache.Parse(appConfigScope, "@@ -1,1 +1,1 @@\n-a\n+b\n")
	cache.Parse(appConfigScope, "@@ -1,1 +1,1 @@\n-a\n+c\n")

	assert.Equal(t, 1, cache.Len())
}

func TestCache_FingerprintCollision(t *testing.T) {
	t.Parallel()

	cache := diffview.NewCacheWithHash(0, func(string) uint64 { return 42 })

	first := cache.Parse(appConfigScope, "@@ -1,1 +1,1 @@\n-a\n+b\n")
	second := cache.Parse(appConfigScope, "@@ -1,1 +1,1 @@\n-a\n+c\n")

	assert.NotSame(t, first, second)
	assert.Equal(t, "c", second.RightText())
	assert.Same(t, second, cache.Parse(appConfigScope, "@@ -1,1 +1,1 @@\n-a\n+c\n"))
}
