// Package iconcache stores fetched icon bytes by URL.
package iconcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache is a byte store keyed by icon URL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Memory holds icons in memory with LRU eviction.
//
// The size of an entry is the length of its data plus a small fixed
// overhead. When adding an icon would exceed the limit, least recently used
// icons are evicted first.
//
// Example:
//
//	cache := iconcache.NewMemory(16 * 1024 * 1024) // 16MB
//	data, err := cache.GetOrLoad(ctx, url, func() ([]byte, error) {
//	    return fetch(url)
//	})
type Memory struct {
	maxMemory  int64 // Maximum memory in bytes, 0 for unlimited
	usedMemory int64
	entries    map[string]*cacheEntry
	lru        *list.List // Most recent at front
	hits       int64
	misses     int64
	mu         sync.Mutex
}

type cacheEntry struct {
	key          string
	data         []byte
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// entryOverhead approximates the bookkeeping cost of one entry.
const entryOverhead = 128

// NewMemory creates a cache limited to maxMemoryBytes. Zero means unlimited.
func NewMemory(maxMemoryBytes int64) *Memory {
	return &Memory{
		maxMemory: maxMemoryBytes,
		entries:   make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Get returns the cached bytes and moves the entry to the front of the LRU list.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	entry.lastAccessed = time.Now()
	entry.accessCount++
	c.lru.MoveToFront(entry.element)
	return entry.data, true
}

// Set stores data under key. Data larger than the whole cache is not stored.
func (c *Memory) Set(_ context.Context, key string, data []byte) {
	_ = c.Add(key, data)
}

// GetOrLoad returns the cached bytes or calls loader and caches its result.
// Loader errors are returned and nothing is cached.
func (c *Memory) GetOrLoad(ctx context.Context, key string, loader func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(ctx, key); ok {
		return data, nil
	}
	data, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load icon: %w", err)
	}
	// Too large to cache; the caller still gets the data.
	_ = c.Add(key, data)
	return data, nil
}

// Add adds data to the cache, evicting least-recently-used entries to make room.
func (c *Memory) Add(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	memSize := int64(len(data)) + entryOverhead

	if entry, ok := c.entries[key]; ok {
		c.usedMemory += memSize - entry.memorySize
		entry.data = data
		entry.memorySize = memSize
		entry.lastAccessed = time.Now()
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		c.evictOver(entry)
		return nil
	}

	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("icon too large for cache (%d bytes > %d bytes max)",
			memSize, c.maxMemory)
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		key:          key,
		data:         data,
		memorySize:   memSize,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry
	c.usedMemory += memSize
	return nil
}

// evictOver evicts old entries until the cache fits again, never evicting keep.
// Must be called with c.mu locked.
func (c *Memory) evictOver(keep *cacheEntry) {
	for c.maxMemory > 0 && c.usedMemory > c.maxMemory {
		back := c.lru.Back()
		if back == nil || back.Value.(*cacheEntry) == keep {
			return
		}
		c.evictLRU()
	}
}

// evictLRU removes the least recently used entry.
// Must be called with c.mu locked.
func (c *Memory) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.entries, entry.key)
	c.usedMemory -= entry.memorySize
}

// Remove explicitly removes an icon from the cache.
func (c *Memory) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.lru.Remove(entry.element)
		delete(c.entries, key)
		c.usedMemory -= entry.memorySize
	}
}

// Clear removes all icons from the cache.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalAccess := 0
	for _, entry := range c.entries {
		totalAccess += entry.accessCount
	}
	return Stats{
		IconCount:   len(c.entries),
		UsedMemory:  c.usedMemory,
		MaxMemory:   c.maxMemory,
		TotalAccess: totalAccess,
		Hits:        c.hits,
		Misses:      c.misses,
	}
}

// Stats holds cache counters.
type Stats struct {
	IconCount   int   // Number of icons currently cached
	UsedMemory  int64 // Bytes accounted to cached icons
	MaxMemory   int64 // Maximum memory limit in bytes
	TotalAccess int   // Accesses across all cached icons
	Hits        int64
	Misses      int64
}
