package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores resolved tenant configurations keyed by tenant identifier.
// Entries expire after the backend's TTL so a tenant that once fell back to
// the default configuration is not stuck on it forever.
type Cache interface {
	// Get returns the cached configuration and whether the key was present.
	Get(ctx context.Context, tenantID string) (*Config, bool, error)

	// Set stores the configuration under the tenant identifier.
	Set(ctx context.Context, tenantID string, cfg *Config) error

	// Delete removes the entry for the tenant identifier, forcing the next
	// resolution to reload from durable storage.
	Delete(ctx context.Context, tenantID string) error
}

type memoryEntry struct {
	cfg       *Config
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. A zero TTL keeps entries for the life
// of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, tenantID string) (*Config, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, tenantID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.cfg, true, nil
}

func (c *MemoryCache) Set(_ context.Context, tenantID string, cfg *Config) error {
	entry := memoryEntry{cfg: cfg}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[tenantID] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, tenantID string) error {
	c.mu.Lock()
	delete(c.entries, tenantID)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
