package decor

import (
	"sort"
	"sync"
)

// ServiceLookup locates services by type name, optionally qualified by an
// injection annotation.
type ServiceLookup interface {
	Get(serviceType string) (any, error)
	GetAnnotated(serviceType, annotation string) (any, error)
}

type serviceKey struct {
	serviceType string
	annotation  string
}

// ServiceRegistry is a ServiceLookup backed by registered values. Lookups
// that miss fall through to the parent, if any.
type ServiceRegistry struct {
	mu        sync.RWMutex
	services  map[serviceKey]any
	factories map[serviceKey]func() (any, error)
	parent    ServiceLookup
}

// NewServiceRegistry creates an empty registry
func NewServiceRegistry(parent ServiceLookup) *ServiceRegistry {
	return &ServiceRegistry{
		services:  make(map[serviceKey]any),
		factories: make(map[serviceKey]func() (any, error)),
		parent:    parent,
	}
}

// Add registers service under serviceType
func (r *ServiceRegistry) Add(serviceType string, service any) *ServiceRegistry {
	return r.AddAnnotated(serviceType, "", service)
}

// AddAnnotated registers service under serviceType and annotation
func (r *ServiceRegistry) AddAnnotated(serviceType, annotation string, service any) *ServiceRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[serviceKey{serviceType, annotation}] = service
	return r
}

// AddFactory registers a service created on first lookup
func (r *ServiceRegistry) AddFactory(serviceType string, factory func() (any, error)) *ServiceRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[serviceKey{serviceType: serviceType}] = factory
	return r
}

// Get implements ServiceLookup
func (r *ServiceRegistry) Get(serviceType string) (any, error) {
	return r.lookup(serviceKey{serviceType: serviceType})
}

// GetAnnotated implements ServiceLookup
func (r *ServiceRegistry) GetAnnotated(serviceType, annotation string) (any, error) {
	return r.lookup(serviceKey{serviceType, annotation})
}

func (r *ServiceRegistry) lookup(key serviceKey) (any, error) {
	r.mu.RLock()
	service, ok := r.services[key]
	factory := r.factories[key]
	r.mu.RUnlock()
	if ok {
		return service, nil
	}

	if factory != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if service, ok := r.services[key]; ok {
			return service, nil
		}
		service, err := factory()
		if err != nil {
			return nil, err
		}
		r.services[key] = service
		return service, nil
	}

	if r.parent != nil {
		if key.annotation != "" {
			return r.parent.GetAnnotated(key.serviceType, key.annotation)
		}
		return r.parent.Get(key.serviceType)
	}
	return nil, &ServiceError{ServiceType: key.serviceType, Annotation: key.annotation}
}

// Types lists the registered service types
func (r *ServiceRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	add := func(key serviceKey) {
		if !seen[key.serviceType] {
			seen[key.serviceType] = true
			types = append(types, key.serviceType)
		}
	}
	for key := range r.services {
		add(key)
	}
	for key := range r.factories {
		add(key)
	}
	sort.Strings(types)
	return types
}

// NoServices is a ServiceLookup that never finds anything
var NoServices ServiceLookup = NewServiceRegistry(nil)
