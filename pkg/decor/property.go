package decor

import (
	"fmt"
	"reflect"
	"sync"
)

// Provider is a lazily computed value
type Provider interface {
	GetOrNil() any
	IsPresent() bool
}

// ProviderFunc adapts a function to Provider. A nil result is absent.
type ProviderFunc func() any

// GetOrNil implements Provider
func (f ProviderFunc) GetOrNil() any {
	return f()
}

// IsPresent implements Provider
func (f ProviderFunc) IsPresent() bool {
	return f() != nil
}

// ValueSetter accepts raw values or providers. Generated property setter
// overloads delegate to it.
type ValueSetter interface {
	SetFromAny(v any) error
}

// Property is a single lazy value with an optional convention
type Property struct {
	Ownership
	mu         sync.RWMutex
	value      any
	source     Provider
	convention any
}

var (
	_ Provider    = (*Property)(nil)
	_ ValueSetter = (*Property)(nil)
	_ OwnerAware  = (*Property)(nil)
	_ RoleAware   = (*Property)(nil)
)

// NewProperty creates an empty property
func NewProperty() *Property {
	return &Property{}
}

// Set sets a fixed value or a provider. nil clears the property.
func (p *Property) Set(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value, p.source = nil, nil
	if provider, ok := v.(Provider); ok {
		p.source = provider
		return
	}
	p.value = v
}

// SetFromAny implements ValueSetter
func (p *Property) SetFromAny(v any) error {
	p.Set(v)
	return nil
}

// Convention sets the value used when nothing else is set
func (p *Property) Convention(v any) *Property {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.convention = v
	return p
}

// GetOrNil implements Provider
func (p *Property) GetOrNil() any {
	p.mu.RLock()
	value, source, convention := p.value, p.source, p.convention
	p.mu.RUnlock()

	if value != nil {
		return value
	}
	if source != nil {
		if v := source.GetOrNil(); v != nil {
			return v
		}
	}
	if provider, ok := convention.(Provider); ok {
		return provider.GetOrNil()
	}
	return convention
}

// IsPresent implements Provider
func (p *Property) IsPresent() bool {
	return p.GetOrNil() != nil
}

// Get returns the value or a MissingValueError
func (p *Property) Get() (any, error) {
	if v := p.GetOrNil(); v != nil {
		return v, nil
	}
	return nil, &MissingValueError{DisplayName: p.describe()}
}

// String implements fmt.Stringer
func (p *Property) String() string {
	return fmt.Sprintf("property(%v)", p.GetOrNil())
}

// FileProperty is a Property holding a file or directory path
type FileProperty struct {
	Property
	directory bool
}

// NewRegularFileProperty creates an empty file property
func NewRegularFileProperty() *FileProperty {
	return &FileProperty{}
}

// NewDirectoryProperty creates an empty directory property
func NewDirectoryProperty() *FileProperty {
	return &FileProperty{directory: true}
}

// IsDirectory reports a directory property
func (p *FileProperty) IsDirectory() bool {
	return p.directory
}

// Path returns the current path, or ""
func (p *FileProperty) Path() string {
	switch v := p.GetOrNil().(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// IsEmptyValue reports nil values and empty slices, maps and collections
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if sized, ok := v.(interface{ Len() int }); ok {
		return sized.Len() == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
