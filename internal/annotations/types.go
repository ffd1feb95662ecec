package annotations

import (
	"github.com/toyz/decor/internal/models"
)

// InjectAnnotationHandler describes an annotation that marks a getter as a
// service injection point, in addition to the default @Inject.
type InjectAnnotationHandler interface {
	AnnotationType() *models.Type
}

// Handler is the plain InjectAnnotationHandler
type Handler struct {
	Type *models.Type
}

// NewHandler creates a handler for annotationType
func NewHandler(annotationType *models.Type) *Handler {
	return &Handler{Type: annotationType}
}

// AnnotationType returns the handled annotation
func (h *Handler) AnnotationType() *models.Type {
	return h.Type
}

// RoleHandler applies ownership roles to values attached to a decorated
// object through role-annotated properties.
type RoleHandler interface {
	AnnotationTypes() []*models.Type
	ApplyRoleTo(owner any, target any)
}

// HasRoleAnnotation reports whether any of the handler's annotations is
// present according to lookup.
func HasRoleAnnotation(h RoleHandler, lookup func(*models.Type) bool) bool {
	if h == nil {
		return false
	}
	for _, t := range h.AnnotationTypes() {
		if lookup(t) {
			return true
		}
	}
	return false
}
