package decor

import (
	"fmt"
	"sync"
)

// ExtensionAware exposes the extension container of an object
type ExtensionAware interface {
	Extensions() *Extensions
}

// Extensions holds named extension objects and extra properties
type Extensions struct {
	mu    sync.RWMutex
	names []string
	byKey map[string]any
	extra map[string]any
}

// NewExtensions creates an empty container
func NewExtensions() *Extensions {
	return &Extensions{
		byKey: make(map[string]any),
		extra: make(map[string]any),
	}
}

// Add registers an extension
func (e *Extensions) Add(name string, extension any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.byKey[name]; exists {
		return fmt.Errorf("Cannot add extension with name '%s', as there is an extension already registered with that name.", name)
	}
	e.byKey[name] = extension
	e.names = append(e.names, name)
	return nil
}

// Create builds an extension with factory and registers it
func (e *Extensions) Create(name string, factory func() (any, error)) (any, error) {
	extension, err := factory()
	if err != nil {
		return nil, err
	}
	if err := e.Add(name, extension); err != nil {
		return nil, err
	}
	return extension, nil
}

// FindByName returns an extension, or nil
func (e *Extensions) FindByName(name string) any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.byKey[name]
}

// GetByName returns an extension or an error when missing
func (e *Extensions) GetByName(name string) (any, error) {
	if extension := e.FindByName(name); extension != nil {
		return extension, nil
	}
	return nil, fmt.Errorf("Extension with name '%s' does not exist. Currently registered extension names: %v", name, e.Names())
}

// Names returns the extension names in registration order
func (e *Extensions) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.names...)
}

// SetExtra sets an extra property
func (e *Extensions) SetExtra(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extra[name] = value
}

// Extra returns an extra property
func (e *Extensions) Extra(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.extra[name]
	return v, ok
}
