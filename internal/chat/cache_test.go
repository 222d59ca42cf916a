package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyNormalization(t *testing.T) {
	base := CacheKey(nil, "como checar uma fonte?")

	assert.Equal(t, base, CacheKey(nil, "  Como  CHECAR uma fonte?  "))
	assert.Equal(t, base, CacheKey([]string{}, "como\nchecar uma fonte?"))
	assert.NotEqual(t, base, CacheKey(nil, "como checar duas fontes?"))
}

func TestCacheKeyIncludesContext(t *testing.T) {
	ctx := []string{"user: oi", "bot: olá"}
	assert.NotEqual(t, CacheKey(nil, "continue"), CacheKey(ctx, "continue"))
	assert.Equal(t, CacheKey(ctx, "continue"), CacheKey([]string{"user: oi", "bot: olá"}, "continue"))
}

func TestReplyCacheEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewReplyCache(2)
	for i := 0; i < 5; i++ {
		c.Add(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("k0")
	assert.False(t, ok)
	v, ok := c.Get("k4")
	assert.True(t, ok)
	assert.Equal(t, "v4", v)
}

func TestReplyCacheZeroSizeFallsBackToDefault(t *testing.T) {
	c := NewReplyCache(0)
	c.Add("k", "v")
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
