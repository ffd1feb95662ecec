package generator

import (
	"github.com/toyz/decor/internal/annotations"
)

// managedPropertiesHandler generates state for abstract properties
type managedPropertiesHandler struct {
	baseHandler
	roles annotations.RoleHandler

	mutableProperties     []*PropertyMetadata
	readOnlyProperties    []*PropertyMetadata
	eagerAttachProperties []*PropertyMetadata
	ineligibleProperties  []*PropertyMetadata
	hasFields             bool
}

func newManagedPropertiesHandler(roles annotations.RoleHandler) *managedPropertiesHandler {
	return &managedPropertiesHandler{roles: roles}
}

func (h *managedPropertiesHandler) HasFields() {
	h.hasFields = true
}

func (h *managedPropertiesHandler) VisitProperty(p *PropertyMetadata) {
	if isEagerAttachProperty(p) {
		h.eagerAttachProperties = append(h.eagerAttachProperties, p)
	}
	if isIneligibleForConventionMapping(p) {
		h.ineligibleProperties = append(h.ineligibleProperties, p)
	}
}

func (h *managedPropertiesHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	for _, getter := range p.Getters {
		if getter.ShouldImplement() && !getter.IsAbstract() {
			return false
		}
	}
	for _, setter := range p.Setters {
		if !setter.IsAbstract() {
			return false
		}
	}

	switch {
	case isManagedProperty(p):
		h.readOnlyProperties = append(h.readOnlyProperties, p)
		return true
	case p.IsReadable() && p.IsWritable():
		h.mutableProperties = append(h.mutableProperties, p)
		return true
	default:
		// read-only with a type that cannot be created
		return false
	}
}

func (h *managedPropertiesHandler) ApplyToInspection(v ClassInspectionVisitor) {
	if !h.hasFields {
		v.MixInFullyManagedState()
	}
	if len(h.readOnlyProperties) > 0 {
		v.InstantiatesNestedObjects()
	}
	for _, p := range h.eagerAttachProperties {
		v.AttachDuringConstruction(p, isRoleType(h.roles, p))
	}
	for _, p := range h.ineligibleProperties {
		v.MarkPropertyAsIneligibleForConventionMapping(p)
	}
}

func (h *managedPropertiesHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	for _, p := range h.mutableProperties {
		v.ApplyManagedStateToProperty(p)
		for _, getter := range p.Getters {
			v.ApplyManagedStateToGetter(p, getter.Method)
		}
		for _, setter := range p.Setters {
			v.ApplyManagedStateToSetter(p, setter)
		}
	}
	for _, p := range h.readOnlyProperties {
		v.ApplyManagedStateToProperty(p)
		applyRole := isRoleType(h.roles, p)
		for _, getter := range p.Getters {
			v.ApplyReadOnlyManagedStateToGetter(p, getter.Method, applyRole)
		}
	}
	if !h.hasFields {
		v.AddManagedMethods(h.mutableProperties, h.readOnlyProperties)
	}
}
