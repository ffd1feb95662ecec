package annotations

import (
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

type noRoles struct{}

// NoRoles is a RoleHandler without role annotations
var NoRoles RoleHandler = noRoles{}

func (noRoles) AnnotationTypes() []*models.Type { return nil }

func (noRoles) ApplyRoleTo(any, any) {}

// ProducerRoleHandler marks values of role-annotated properties as produced
// by their owner.
type ProducerRoleHandler struct {
	types []*models.Type
}

// NewProducerRoleHandler creates a role handler for the given annotations
func NewProducerRoleHandler(types ...*models.Type) *ProducerRoleHandler {
	return &ProducerRoleHandler{types: types}
}

// AnnotationTypes returns the role annotations
func (h *ProducerRoleHandler) AnnotationTypes() []*models.Type {
	return h.types
}

// ApplyRoleTo attaches the producer when the target supports it
func (h *ProducerRoleHandler) ApplyRoleTo(owner any, target any) {
	decor.AttachProducer(target, owner)
}
