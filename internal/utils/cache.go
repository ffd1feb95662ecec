package utils

import (
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheItem represents a cached item with metadata for invalidation
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// Cache provides a generic caching utility with file-based invalidation
type Cache[K comparable, V any] struct {
	items map[K]*CacheItem[V]
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
	}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if item, exists := c.items[key]; exists {
		return item.Value, true
	}

	var zero V
	return zero, false
}

// GetWithFileValidation retrieves an item from the cache with file-based validation
// If the file has been modified since caching, the item is removed and false is returned
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	if !exists {
		var zero V
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil {
		if stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size {
			return item.Value, true
		}
	}

	c.mutex.Lock()
	delete(c.items, key)
	c.mutex.Unlock()

	var zero V
	return zero, false
}

// SetWithFileInfo stores an item in the cache with file metadata for validation
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}

	return nil
}

// Delete removes a single item
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*CacheItem[V])
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

type onceResult[V any] struct {
	value V
	err   error
}

// OnceCache computes each key at most once, even under concurrent misses.
// Concurrent callers for the same key share one computation; its value or
// error is kept for every later caller.
type OnceCache[K comparable, V any] struct {
	mutex   sync.RWMutex
	results map[K]onceResult[V]
	flights map[K]string
	group   singleflight.Group
	next    uint64
}

// NewOnceCache creates an empty compute-once cache
func NewOnceCache[K comparable, V any]() *OnceCache[K, V] {
	return &OnceCache[K, V]{
		results: make(map[K]onceResult[V]),
		flights: make(map[K]string),
	}
}

// GetIfPresent returns a completed value without computing
func (c *OnceCache[K, V]) GetIfPresent(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if r, ok := c.results[key]; ok && r.err == nil {
		return r.value, true
	}
	var zero V
	return zero, false
}

// Get returns the value for key, computing it with fn on first access
func (c *OnceCache[K, V]) Get(key K, fn func(K) (V, error)) (V, error) {
	c.mutex.Lock()
	if r, ok := c.results[key]; ok {
		c.mutex.Unlock()
		return r.value, r.err
	}
	flight, ok := c.flights[key]
	if !ok {
		c.next++
		flight = strconv.FormatUint(c.next, 10)
		c.flights[key] = flight
	}
	c.mutex.Unlock()

	v, err, _ := c.group.Do(flight, func() (interface{}, error) {
		c.mutex.RLock()
		r, done := c.results[key]
		c.mutex.RUnlock()
		if done {
			return r, nil
		}

		value, err := fn(key)
		r = onceResult[V]{value: value, err: err}

		c.mutex.Lock()
		c.results[key] = r
		delete(c.flights, key)
		c.mutex.Unlock()
		return r, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	r := v.(onceResult[V])
	return r.value, r.err
}

// Put stores a value for key unless one is already present
func (c *OnceCache[K, V]) Put(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.results[key]; !ok {
		c.results[key] = onceResult[V]{value: value}
	}
}

// Clear drops every completed entry
func (c *OnceCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.results = make(map[K]onceResult[V])
}

// Size returns the number of completed entries
func (c *OnceCache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.results)
}
