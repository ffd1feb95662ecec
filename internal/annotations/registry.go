package annotations

import (
	"fmt"
	"sync"

	"github.com/toyz/decor/internal/models"
)

// Registry defines the interface for managing known injection annotations
type Registry interface {
	// Register adds a custom injection annotation handler
	Register(handler InjectAnnotationHandler) error

	// Handler looks up the handler for an annotation name
	Handler(name string) (InjectAnnotationHandler, bool)

	// Handlers returns every registered handler in registration order
	Handlers() []InjectAnnotationHandler

	// IsRegistered checks if an annotation type is known
	IsRegistered(annotationType *models.Type) bool

	// SetRoleHandler replaces the role handler
	SetRoleHandler(handler RoleHandler)

	// RoleHandler returns the role handler, NoRoles when unset
	RoleHandler() RoleHandler
}

// registry is the concrete implementation of Registry
type registry struct {
	mu       sync.RWMutex
	handlers []InjectAnnotationHandler
	byName   map[string]InjectAnnotationHandler
	roles    RoleHandler
}

// NewRegistry creates a new annotation registry
func NewRegistry() Registry {
	return &registry{
		byName: make(map[string]InjectAnnotationHandler),
		roles:  NoRoles,
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global annotation registry
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a handler to the registry
func (r *registry) Register(handler InjectAnnotationHandler) error {
	annotationType := handler.AnnotationType()
	if annotationType == nil {
		return fmt.Errorf("handler has no annotation type")
	}
	if !annotationType.IsAnnotation() {
		return fmt.Errorf("%s is not an annotation type", annotationType.DisplayName())
	}
	if annotationType == models.Inject {
		return fmt.Errorf("@Inject is always enabled and cannot be registered")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[annotationType.Name]; exists {
		return fmt.Errorf("annotation type %s is already registered", annotationType.Name)
	}
	r.byName[annotationType.Name] = handler
	r.handlers = append(r.handlers, handler)
	return nil
}

// Handler looks up the handler for an annotation name
func (r *registry) Handler(name string) (InjectAnnotationHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byName[name]
	return h, ok
}

// Handlers returns the handlers in registration order
func (r *registry) Handlers() []InjectAnnotationHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]InjectAnnotationHandler, len(r.handlers))
	copy(result, r.handlers)
	return result
}

// IsRegistered checks if an annotation type is known
func (r *registry) IsRegistered(annotationType *models.Type) bool {
	if annotationType == models.Inject {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, exists := r.byName[annotationType.Name]
	return exists && h.AnnotationType() == annotationType
}

func (r *registry) SetRoleHandler(handler RoleHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handler == nil {
		handler = NoRoles
	}
	r.roles = handler
}

func (r *registry) RoleHandler() RoleHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roles
}
