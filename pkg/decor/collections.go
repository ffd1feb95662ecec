package decor

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ListProperty is an ordered lazy collection
type ListProperty struct {
	Ownership
	mu       sync.RWMutex
	elements []any
	sources  []Provider
	distinct bool
}

var (
	_ Provider    = (*ListProperty)(nil)
	_ ValueSetter = (*ListProperty)(nil)
)

// NewListProperty creates an empty list property
func NewListProperty() *ListProperty {
	return &ListProperty{}
}

// NewSetProperty creates an empty set property. Duplicates are dropped.
func NewSetProperty() *ListProperty {
	return &ListProperty{distinct: true}
}

// IsSet reports a set property
func (l *ListProperty) IsSet() bool {
	return l.distinct
}

// Add appends an element or, for a Provider, its value at query time
func (l *ListProperty) Add(v any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if provider, ok := v.(Provider); ok {
		l.sources = append(l.sources, provider)
		return
	}
	l.elements = append(l.elements, v)
}

// AddAll appends every element
func (l *ListProperty) AddAll(values ...any) {
	for _, v := range values {
		l.Add(v)
	}
}

// Set replaces the contents with the elements of a slice or provider
func (l *ListProperty) Set(v any) error {
	l.mu.Lock()
	l.elements, l.sources = nil, nil
	l.mu.Unlock()

	switch values := v.(type) {
	case nil:
		return nil
	case Provider:
		l.Add(values)
		return nil
	}
	elements, err := toSlice(v)
	if err != nil {
		return err
	}
	l.AddAll(elements...)
	return nil
}

// SetFromAny implements ValueSetter
func (l *ListProperty) SetFromAny(v any) error {
	return l.Set(v)
}

// Elements returns the current elements
func (l *ListProperty) Elements() []any {
	l.mu.RLock()
	elements := append([]any(nil), l.elements...)
	sources := append([]Provider(nil), l.sources...)
	l.mu.RUnlock()

	for _, source := range sources {
		switch v := source.GetOrNil().(type) {
		case nil:
		case []any:
			elements = append(elements, v...)
		default:
			if values, err := toSlice(v); err == nil {
				elements = append(elements, values...)
			} else {
				elements = append(elements, v)
			}
		}
	}
	if !l.distinct {
		return elements
	}
	var unique []any
	for _, e := range elements {
		if !containsValue(unique, e) {
			unique = append(unique, e)
		}
	}
	return unique
}

// Len returns the number of elements
func (l *ListProperty) Len() int {
	return len(l.Elements())
}

// GetOrNil implements Provider
func (l *ListProperty) GetOrNil() any {
	return l.Elements()
}

// IsPresent implements Provider
func (l *ListProperty) IsPresent() bool {
	return true
}

// String implements fmt.Stringer
func (l *ListProperty) String() string {
	return fmt.Sprint(l.Elements())
}

// MapProperty is a lazy map keyed by string
type MapProperty struct {
	Ownership
	mu      sync.RWMutex
	entries map[string]any
}

var (
	_ Provider    = (*MapProperty)(nil)
	_ ValueSetter = (*MapProperty)(nil)
)

// NewMapProperty creates an empty map property
func NewMapProperty() *MapProperty {
	return &MapProperty{entries: make(map[string]any)}
}

// Put sets one entry
func (m *MapProperty) Put(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Set replaces the entries
func (m *MapProperty) Set(entries map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]any, len(entries))
	for k, v := range entries {
		m.entries[k] = v
	}
}

// SetFromAny implements ValueSetter
func (m *MapProperty) SetFromAny(v any) error {
	switch entries := v.(type) {
	case nil:
		m.Set(nil)
		return nil
	case map[string]any:
		m.Set(entries)
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("cannot set map property from %T", v)
	}
	entries := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries[iter.Key().String()] = iter.Value().Interface()
	}
	m.Set(entries)
	return nil
}

// Entries returns a copy of the entries
func (m *MapProperty) Entries() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]any, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}

// Keys returns the sorted keys
func (m *MapProperty) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (m *MapProperty) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// GetOrNil implements Provider
func (m *MapProperty) GetOrNil() any {
	return m.Entries()
}

// IsPresent implements Provider
func (m *MapProperty) IsPresent() bool {
	return true
}

// FileCollection is a configurable set of paths. A tree additionally has
// a root directory.
type FileCollection struct {
	Ownership
	mu    sync.RWMutex
	paths []any
	dir   string
	tree  bool
}

// NewFileCollection creates an empty file collection
func NewFileCollection() *FileCollection {
	return &FileCollection{}
}

// NewFileTree creates an empty file tree
func NewFileTree() *FileCollection {
	return &FileCollection{tree: true}
}

// From adds paths, providers or other collections
func (f *FileCollection) From(paths ...any) *FileCollection {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, paths...)
	return f
}

// SetFrom replaces the contents
func (f *FileCollection) SetFrom(paths ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append([]any(nil), paths...)
}

// SetDir sets the root of a tree
func (f *FileCollection) SetDir(dir string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dir = dir
}

// Dir returns the root of a tree
func (f *FileCollection) Dir() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dir
}

// Files resolves the contents to paths
func (f *FileCollection) Files() []string {
	f.mu.RLock()
	paths := append([]any(nil), f.paths...)
	f.mu.RUnlock()

	var files []string
	for _, p := range paths {
		files = appendPaths(files, p)
	}
	return files
}

// Len returns the number of paths
func (f *FileCollection) Len() int {
	return len(f.Files())
}

func appendPaths(files []string, p any) []string {
	switch v := p.(type) {
	case nil:
		return files
	case string:
		return append(files, v)
	case []string:
		return append(files, v...)
	case *FileCollection:
		return append(files, v.Files()...)
	case *FileProperty:
		if path := v.Path(); path != "" {
			return append(files, path)
		}
		return files
	case Provider:
		return appendPaths(files, v.GetOrNil())
	case []any:
		for _, e := range v {
			files = appendPaths(files, e)
		}
		return files
	default:
		return append(files, fmt.Sprint(v))
	}
}

// DomainObjectSet is a live set of domain objects
type DomainObjectSet struct {
	Ownership
	mu       sync.RWMutex
	elements []any
	added    []func(any)
}

// NewDomainObjectSet creates an empty set
func NewDomainObjectSet() *DomainObjectSet {
	return &DomainObjectSet{}
}

// Add adds an element and reports whether it was new
func (s *DomainObjectSet) Add(v any) bool {
	s.mu.Lock()
	if containsValue(s.elements, v) {
		s.mu.Unlock()
		return false
	}
	s.elements = append(s.elements, v)
	listeners := append([]func(any){}, s.added...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(v)
	}
	return true
}

// All runs fn for current and future elements
func (s *DomainObjectSet) All(fn func(any)) {
	s.mu.Lock()
	s.added = append(s.added, fn)
	current := append([]any(nil), s.elements...)
	s.mu.Unlock()

	for _, e := range current {
		fn(e)
	}
}

// Elements returns the current elements
func (s *DomainObjectSet) Elements() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]any(nil), s.elements...)
}

// Len returns the number of elements
func (s *DomainObjectSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// NamedContainer holds named domain objects created by a factory
type NamedContainer struct {
	Ownership
	mu      sync.RWMutex
	factory func(name string) (any, error)
	byName  map[string]any
	names   []string
}

// NewNamedContainer creates an empty container
func NewNamedContainer(factory func(name string) (any, error)) *NamedContainer {
	return &NamedContainer{factory: factory, byName: make(map[string]any)}
}

// Create creates, configures and adds a named element
func (c *NamedContainer) Create(name string, configure Action) (any, error) {
	c.mu.Lock()
	if _, exists := c.byName[name]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("Cannot add an object with name '%s' as an object with that name already exists.", name)
	}
	c.mu.Unlock()

	if c.factory == nil {
		return nil, fmt.Errorf("no factory available to create '%s'", name)
	}
	element, err := c.factory(name)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		if err := configure.Execute(element); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byName[name] = element
	c.names = append(c.names, name)
	return element, nil
}

// FindByName returns an element, or nil
func (c *NamedContainer) FindByName(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byName[name]
}

// Names returns element names in creation order
func (c *NamedContainer) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// Len returns the number of elements
func (c *NamedContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

func toSlice(v any) ([]any, error) {
	if values, ok := v.([]any); ok {
		return values, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot set collection property from %T", v)
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

func containsValue(values []any, v any) bool {
	for _, existing := range values {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}
