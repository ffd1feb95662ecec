package decor

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// InstanceFactory creates nested decorated objects by type name
type InstanceFactory func(typeName string, displayName Describable, params ...any) (any, error)

var nextID atomic.Uint64

// Base carries the state every decorated object shares. Emitted Go
// types embed it.
type Base struct {
	mu          sync.Mutex
	typeName    string
	id          uint64
	displayName Describable
	services    ServiceLookup
	nested      InstanceFactory
	extensions  *Extensions
	conventions *Conventions
}

// InitBase binds the construction context
func (b *Base) InitBase(typeName string, services ServiceLookup, nested InstanceFactory, displayName Describable) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.typeName = typeName
	b.id = nextID.Add(1)
	b.services = services
	b.nested = nested
	b.displayName = displayName
}

// Services returns the bound service lookup
func (b *Base) Services() ServiceLookup {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.services == nil {
		return NoServices
	}
	return b.services
}

// NewNested creates a nested decorated object
func (b *Base) NewNested(typeName string, displayName Describable, params ...any) (any, error) {
	b.mu.Lock()
	nested := b.nested
	b.mu.Unlock()
	if nested == nil {
		return nil, fmt.Errorf("cannot create nested %s: no instance generator available", typeName)
	}
	return nested(typeName, displayName, params...)
}

// Extensions returns the extension container, creating it on first use
func (b *Base) Extensions() *Extensions {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.extensions == nil {
		b.extensions = NewExtensions()
	}
	return b.extensions
}

// ConfigureConventions sets the mappable and ineligible properties
func (b *Base) ConfigureConventions(properties, ineligible []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conventions = NewConventions(b.describe(), properties, ineligible)
}

// ConventionMapping returns the convention mapping, creating it on first use
func (b *Base) ConventionMapping() ConventionMapping {
	return b.Conventions()
}

// Conventions returns the concrete convention mapping
func (b *Base) Conventions() *Conventions {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conventions == nil {
		b.conventions = NewConventions(b.describe(), nil, nil)
	}
	return b.conventions
}

// HasUsefulDisplayName reports whether a display name was supplied
func (b *Base) HasUsefulDisplayName() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.displayName != nil
}

// String returns the display name, or <type>@<id>
func (b *Base) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.describe()
}

func (b *Base) describe() string {
	if b.displayName != nil {
		return b.displayName.DisplayName()
	}
	return fmt.Sprintf("%s@%d", b.typeName, b.id)
}

// Service looks up a typed service. An empty annotation uses a plain lookup.
func Service[T any](lookup ServiceLookup, serviceType, annotation string) (T, error) {
	var zero T
	if lookup == nil {
		lookup = NoServices
	}
	var (
		v   any
		err error
	)
	if annotation == "" {
		v, err = lookup.Get(serviceType)
	} else {
		v, err = lookup.GetAnnotated(serviceType, annotation)
	}
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("service %s has unexpected type %T", serviceType, v)
	}
	return typed, nil
}

// As converts v to T, returning the zero value for nil or mismatches
func As[T any](v any) T {
	typed, _ := v.(T)
	return typed
}
