package cache

import (
	"sync"
	"time"

	"agartha-hub/internal/domain"
)

// cacheEntry holds a resolved identity together with its expiry.
type cacheEntry struct {
	identity  domain.Identity
	expiresAt time.Time
}

// IdentityCache is a thread-safe in-memory TTL cache of verification results
// keyed by raw bearer token. Two instances back the verifier: a fresh tier
// populated on successful upstream verification and a degraded tier that
// carries previously verified users through provider throttling windows.
// Entries are replaced atomically as whole records, so concurrent writes for
// the same token are idempotent and readers never see a partial entry.
// Implements domain.IdentityCache.
type IdentityCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

// NewIdentityCache creates a cache with the specified TTL and starts its
// background cleanup.
func NewIdentityCache(ttl time.Duration) *IdentityCache {
	c := &IdentityCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves an unexpired identity by token.
func (c *IdentityCache) Get(token string) (*domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[token]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	identity := entry.identity
	return &identity, true
}

// GetStale retrieves an identity even past its expiry, as long as cleanup
// has not collected it. Used for fallback decisions while the provider is
// unreachable or throttling.
func (c *IdentityCache) GetStale(token string) (*domain.Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[token]
	if !found {
		return nil, false
	}
	identity := entry.identity
	return &identity, true
}

// Set stores an identity, restarting its TTL.
func (c *IdentityCache) Set(token string, identity domain.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[token] = &cacheEntry{
		identity:  identity,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete evicts the entry for token, if any.
func (c *IdentityCache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, token)
}

// cleanup removes expired entries.
func (c *IdentityCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for token, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, token)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *IdentityCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
