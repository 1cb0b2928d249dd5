package cache

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/fortis-crm/internal/report"
)

type memoryEntry struct {
	stats     report.GlobalStats
	expiresAt time.Time
}

// MemoryStatsCache is the single-instance fallback used when no Redis is
// configured.
type MemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	gen     int64
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (c *MemoryStatsCache) Generation(context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

func (c *MemoryStatsCache) Get(_ context.Context, key string) (*report.GlobalStats, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return nil, false, nil
	}
	stats := e.stats
	return &stats, true, nil
}

// Set ignores values computed under an older generation.
func (c *MemoryStatsCache) Set(_ context.Context, key string, gen int64, stats report.GlobalStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.entries[key] = memoryEntry{stats: stats, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryStatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	clear(c.entries)
	return nil
}
