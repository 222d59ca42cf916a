package chat

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 256

// ReplyCache memoizes formatted assistant replies for the lifetime of a
// session, keyed by the normalized conversation context plus user input. It
// is LRU-bounded so long sessions cannot grow it without limit.
type ReplyCache struct {
	lru *lru.Cache[string, string]
}

func NewReplyCache(size int) *ReplyCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &ReplyCache{lru: c}
}

func (c *ReplyCache) Get(key string) (string, bool) { return c.lru.Get(key) }

func (c *ReplyCache) Add(key, value string) { c.lru.Add(key, value) }

func (c *ReplyCache) Len() int { return c.lru.Len() }

// CacheKey normalizes the recent conversation context and the trimmed user
// input into a case-folded, whitespace-collapsed lookup key.
func CacheKey(context []string, input string) string {
	parts := append(append([]string{}, context...), strings.TrimSpace(input))
	joined := strings.Join(parts, "\n")
	return strings.ToLower(strings.Join(strings.Fields(joined), " "))
}
