package models

import (
	"fmt"
	"sort"
	"sync"
)

// Universe is a name to type registry seeded with the built-in prelude
type Universe struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewUniverse creates a universe holding the built-in types
func NewUniverse() *Universe {
	u := &Universe{types: make(map[string]*Type)}
	for _, t := range Builtins() {
		u.types[t.Name] = t
	}
	return u
}

// Lookup finds a type by display or qualified name
func (u *Universe) Lookup(name string) (*Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.types[name]
	return t, ok
}

// MustLookup is Lookup that panics on unknown names
func (u *Universe) MustLookup(name string) *Type {
	t, ok := u.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("unknown type %q", name))
	}
	return t
}

// Define registers t under its display name and, when it has a package, its
// qualified name.
func (u *Universe) Define(t *Type) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	name := t.DisplayName()
	if existing, ok := u.types[name]; ok && existing != t {
		return fmt.Errorf("type %s is already defined", name)
	}
	u.types[name] = t
	if t.Package != "" {
		u.types[t.QualifiedName()] = t
	}
	return nil
}

// Types returns the registered user types sorted by display name
func (u *Universe) Types() []*Type {
	u.mu.RLock()
	defer u.mu.RUnlock()
	builtin := make(map[*Type]bool)
	for _, t := range Builtins() {
		builtin[t] = true
	}
	seen := make(map[*Type]bool)
	var result []*Type
	for _, t := range u.types {
		if builtin[t] || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DisplayName() < result[j].DisplayName()
	})
	return result
}
