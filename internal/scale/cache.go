package scale

import (
	"context"
	"sync"

	"github.com/san-kum/odescale/internal/deq"
)

// Cache memoizes computed maxima keyed by model fingerprint. The
// original design attached lazily-computed maxima to the model itself;
// keeping the cache as a separate caller-owned object leaves models
// purely immutable and makes the memoization trivially thread-safe.
type Cache struct {
	mu sync.Mutex
	m  map[string]MaximaMap
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]MaximaMap)}
}

// Maxima returns the cached maxima for the problem's model, computing
// and storing them on first use. The stored map is never handed out
// directly; callers get copies, so a hit can not be corrupted.
func (c *Cache) Maxima(ctx context.Context, p *deq.Problem) (MaximaMap, error) {
	key := p.Model.Fingerprint()

	c.mu.Lock()
	cached, ok := c.m[key]
	c.mu.Unlock()
	if ok {
		return cached.Clone(), nil
	}

	maxima, err := ComputeMaxima(ctx, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.m[key] = maxima.Clone()
	c.mu.Unlock()
	return maxima, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
