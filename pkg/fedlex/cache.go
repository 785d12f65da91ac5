package fedlex

import (
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached SR resolutions.
const DefaultCacheTTL = 1 * time.Hour

// cacheEntry holds a cached law reference and its expiration time. A nil
// reference caches a confirmed miss, so repeated queries for a nonexistent
// SR number do not re-hit the endpoint.
type cacheEntry struct {
	law       *LawReference
	expiresAt time.Time
}

// ReferenceCache is a thread-safe, in-memory TTL cache for resolved law
// references, keyed by SR number. Entries are lazily expired on access.
type ReferenceCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
}

// NewReferenceCache creates a cache with the given default TTL.
func NewReferenceCache(defaultTTL time.Duration) *ReferenceCache {
	return &ReferenceCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached reference by SR number. The second return value
// reports whether a live entry was found; the first may be nil for a cached
// miss.
func (referenceCache *ReferenceCache) Get(srNumber string) (*LawReference, bool) {
	referenceCache.mu.RLock()
	entry, exists := referenceCache.entries[srNumber]
	referenceCache.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		referenceCache.mu.Lock()
		// Re-check in case another goroutine already replaced it.
		if current, stillExists := referenceCache.entries[srNumber]; stillExists && time.Now().After(current.expiresAt) {
			delete(referenceCache.entries, srNumber)
		}
		referenceCache.mu.Unlock()
		return nil, false
	}

	if entry.law == nil {
		return nil, true
	}
	lawCopy := *entry.law
	return &lawCopy, true
}

// Set stores a resolved reference (or a nil miss) with the default TTL.
func (referenceCache *ReferenceCache) Set(srNumber string, law *LawReference) {
	var stored *LawReference
	if law != nil {
		lawCopy := *law
		stored = &lawCopy
	}

	referenceCache.mu.Lock()
	referenceCache.entries[srNumber] = cacheEntry{
		law:       stored,
		expiresAt: time.Now().Add(referenceCache.defaultTTL),
	}
	referenceCache.mu.Unlock()
}

// Len returns the number of entries currently in the cache, including
// potentially expired ones.
func (referenceCache *ReferenceCache) Len() int {
	referenceCache.mu.RLock()
	count := len(referenceCache.entries)
	referenceCache.mu.RUnlock()
	return count
}
