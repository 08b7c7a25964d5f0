package poker

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey packs the sorted card indices of a hand of up to 7 cards.
// Each index takes 6 bits and the card count the top 4, so distinct
// hands never share a key.
type cacheKey uint64

func keyFor(cards []Card) cacheKey {
	sorted := sortedAscending(cards)
	key := cacheKey(len(sorted)) << 60
	for i, c := range sorted {
		key |= cacheKey(c.Index()+1) << (6 * i)
	}
	return key
}

// DefaultCacheSize bounds a ScoreCache created without an explicit size.
// A four-seat hand adds about a hundred entries, so this keeps the last
// thousand or so hands warm.
const DefaultCacheSize = 1 << 17

// ScoreCache memoizes classification results keyed by hand content. It is safe
// for concurrent use and may be shared between games. Entries are immutable and
// identical inputs always produce identical scores, so racing writers are harmless.
// Once full, the least recently used hand is evicted.
type ScoreCache struct {
	entries *lru.Cache[cacheKey, Score]
	size    int
	hits    atomic.Int64
}

// NewScoreCache creates an empty cache holding up to DefaultCacheSize hands
func NewScoreCache() *ScoreCache {
	return NewScoreCacheSize(DefaultCacheSize)
}

// NewScoreCacheSize creates an empty cache holding up to size hands. A
// non-positive size uses DefaultCacheSize.
func NewScoreCacheSize(size int) *ScoreCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, Score](size)
	if err != nil {
		// lru.New only fails for a non-positive size
		panic(err)
	}
	return &ScoreCache{entries: entries, size: size}
}

func (c *ScoreCache) get(key cacheKey) (Score, bool) {
	s, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	}
	return s, ok
}

func (c *ScoreCache) put(key cacheKey, s Score) {
	c.entries.Add(key, s)
}

// Hits returns how many lookups were served from the cache
func (c *ScoreCache) Hits() int64 {
	return c.hits.Load()
}

// Len returns the number of cached hands
func (c *ScoreCache) Len() int {
	return c.entries.Len()
}

// Cap returns the most hands the cache holds before evicting
func (c *ScoreCache) Cap() int {
	return c.size
}

// Clear drops all entries and resets the hit counter
func (c *ScoreCache) Clear() {
	c.entries.Purge()
	c.hits.Store(0)
}
