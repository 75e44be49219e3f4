package strdist

import lru "github.com/hashicorp/golang-lru/v2"

// pairKey canonically orders a pair of strings so (a,b) and (b,a) share a
// cache slot — Distance is symmetric, so there is no reason to compute it
// twice for the same unordered pair.
type pairKey struct {
	a, b string
}

func canon(a, b string) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// CachedDistance memoizes Distance over an LRU of recently-seen string
// pairs. Affine-gap distance is recomputed for the same record pairs
// across every active-learning round and every cross-validation fold;
// caching avoids the redundant O(n*m) DP work.
type CachedDistance struct {
	cache *lru.Cache[pairKey, float64]
}

// NewCachedDistance builds a CachedDistance with the given LRU capacity.
// A non-positive size defaults to 4096 entries.
func NewCachedDistance(size int) *CachedDistance {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[pairKey, float64](size)
	if err != nil {
		// Only returns an error for size <= 0, which we've already guarded.
		panic(err)
	}
	return &CachedDistance{cache: c}
}

// Distance returns the normalized affine-gap distance between a and b,
// serving from cache when available.
func (c *CachedDistance) Distance(a, b string) float64 {
	key := canon(a, b)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := Distance(a, b)
	c.cache.Add(key, v)
	return v
}

// Len reports the number of cached pairs, mostly useful for tests and
// diagnostics.
func (c *CachedDistance) Len() int {
	return c.cache.Len()
}
