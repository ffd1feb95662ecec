package utils

import (
	"fmt"
	"sort"
	"sync"
)

// RegistryValidator checks a key/value pair against the registered items
// before it is added
type RegistryValidator[K comparable, V any] func(key K, value V, existing map[K]V) error

// BaseRegistry is a thread-safe keyed registry with pluggable validation
type BaseRegistry[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]V
	validator RegistryValidator[K, V]
	name      string
}

// NewBaseRegistry creates an empty registry; name prefixes validation errors
func NewBaseRegistry[K comparable, V any](name string) *BaseRegistry[K, V] {
	return &BaseRegistry[K, V]{
		items: make(map[K]V),
		name:  name,
	}
}

// SetValidator sets the check run on every Register
func (r *BaseRegistry[K, V]) SetValidator(validator RegistryValidator[K, V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = validator
}

// Register adds value under key
func (r *BaseRegistry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.validator != nil {
		if err := r.validator(key, value, r.items); err != nil {
			return fmt.Errorf("%s registry: %w", r.name, err)
		}
	}
	r.items[key] = value
	return nil
}

// Get retrieves the value registered under key
func (r *BaseRegistry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[key]
	return value, ok
}

// Size returns the number of registered items
func (r *BaseRegistry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Keys returns the registered keys in their string order
func (r *BaseRegistry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

// NotEmptyKeyValidator rejects empty string keys
func NotEmptyKeyValidator[V any](keyDesc string) RegistryValidator[string, V] {
	return func(key string, value V, existing map[string]V) error {
		if key == "" {
			return fmt.Errorf("%s cannot be empty", keyDesc)
		}
		return nil
	}
}

// NoDuplicateValidator rejects keys that are already registered
func NoDuplicateValidator[K comparable, V any](keyDesc string) RegistryValidator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		if _, exists := existing[key]; exists {
			return fmt.Errorf("%s '%v' is already registered", keyDesc, key)
		}
		return nil
	}
}

// ChainValidators runs validators in order and stops at the first error
func ChainValidators[K comparable, V any](validators ...RegistryValidator[K, V]) RegistryValidator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		for _, validator := range validators {
			if validator == nil {
				continue
			}
			if err := validator(key, value, existing); err != nil {
				return err
			}
		}
		return nil
	}
}
