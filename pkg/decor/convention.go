package decor

import (
	"fmt"
	"sort"
	"sync"
)

// ConventionMapping supplies default values for properties that were
// never explicitly set.
type ConventionMapping interface {
	Map(property string, value func() any) error
	MapValue(property string, value any) error
	ConventionValue(actual any, property string, explicit bool) any
}

// ConventionAware exposes the convention mapping of an object
type ConventionAware interface {
	ConventionMapping() ConventionMapping
}

// Conventions is the ConventionMapping of one decorated object
type Conventions struct {
	mu         sync.RWMutex
	target     string
	properties map[string]bool
	ineligible map[string]bool
	mappings   map[string]func() any
}

var _ ConventionMapping = (*Conventions)(nil)

// NewConventions creates the mapping for target. properties lists the
// mappable properties; nil accepts any name.
func NewConventions(target string, properties, ineligible []string) *Conventions {
	c := &Conventions{
		target:     target,
		ineligible: make(map[string]bool, len(ineligible)),
		mappings:   make(map[string]func() any),
	}
	if properties != nil {
		c.properties = make(map[string]bool, len(properties))
		for _, p := range properties {
			c.properties[p] = true
		}
	}
	for _, p := range ineligible {
		c.ineligible[p] = true
	}
	return c
}

// Map registers a lazily computed convention value
func (c *Conventions) Map(property string, value func() any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ineligible[property] {
		return NewConventionError(property, fmt.Sprintf(
			"Cannot use convention mapping for property '%s' of %s as it is a lazy property. Use its convention instead.", property, c.target))
	}
	if c.properties != nil && !c.properties[property] {
		return NewConventionError(property, fmt.Sprintf(
			"You can't map a property that does not exist: propertyName=%s", property))
	}
	c.mappings[property] = value
	return nil
}

// MapValue registers a fixed convention value
func (c *Conventions) MapValue(property string, value any) error {
	return c.Map(property, func() any { return value })
}

// ConventionValue returns actual when the property was set explicitly or
// holds a non-empty value, and the mapped value otherwise.
func (c *Conventions) ConventionValue(actual any, property string, explicit bool) any {
	if explicit {
		return actual
	}
	c.mu.RLock()
	mapping, ok := c.mappings[property]
	c.mu.RUnlock()
	if !ok || !IsEmptyValue(actual) {
		return actual
	}
	return mapping()
}

// Mapped lists the properties with a mapping
func (c *Conventions) Mapped() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.mappings))
	for name := range c.mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
