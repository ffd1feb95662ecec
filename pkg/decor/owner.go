package decor

import "sync"

// OwnerAware values learn which object and property they belong to
type OwnerAware interface {
	AttachOwner(owner any, property string)
}

// RoleAware values record the object that produces them
type RoleAware interface {
	AttachProducer(owner any)
}

// Ownership implements OwnerAware and RoleAware for embedding
type Ownership struct {
	mu       sync.RWMutex
	owner    any
	property string
	producer any
}

// AttachOwner implements OwnerAware. Only the first owner is kept.
func (o *Ownership) AttachOwner(owner any, property string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.owner == nil {
		o.owner = owner
		o.property = property
	}
}

// AttachProducer implements RoleAware
func (o *Ownership) AttachProducer(owner any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.producer = owner
}

// Owner returns the attached owner, or nil
func (o *Ownership) Owner() any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.owner
}

// OwnerProperty returns the property name the value is attached through
func (o *Ownership) OwnerProperty() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.property
}

// Producer returns the producing owner, or nil
func (o *Ownership) Producer() any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.producer
}

func (o *Ownership) describe() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.owner == nil {
		return ""
	}
	return "property '" + o.property + "'"
}

// AttachOwner attaches owner to value when it is OwnerAware and returns
// value unchanged.
func AttachOwner(value any, owner any, property string) any {
	if aware, ok := value.(OwnerAware); ok {
		aware.AttachOwner(owner, property)
	}
	return value
}

// AttachProducer records owner as the producer of value when it is
// RoleAware and returns value unchanged.
func AttachProducer(value any, owner any) any {
	if aware, ok := value.(RoleAware); ok {
		aware.AttachProducer(owner)
	}
	return value
}
