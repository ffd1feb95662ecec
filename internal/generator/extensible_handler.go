package generator

import (
	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/models"
)

// extensibleTypeHandler mixes in extensions and convention mapping
type extensibleTypeHandler struct {
	baseHandler
	roles annotations.RoleHandler

	typ                             *models.Type
	noMappingClass                  *models.Type
	conventionAware                 bool
	extensible                      bool
	hasExtensionAwareImplementation bool
	conventionProperties            []*PropertyMetadata
}

func newExtensibleTypeHandler(roles annotations.RoleHandler) *extensibleTypeHandler {
	return &extensibleTypeHandler{roles: roles}
}

func (h *extensibleTypeHandler) StartType(t *models.Type) {
	h.typ = t
	h.extensible = t.InheritedAnnotation(models.NonExtensible) == nil

	h.noMappingClass = models.Object
	for c := t; c != nil && h.noMappingClass == models.Object; c = c.Superclass() {
		if c.HasAnnotation(models.NoConventionMapping) {
			h.noMappingClass = c
		}
	}

	h.conventionAware = h.extensible && h.noMappingClass != t
}

func (h *extensibleTypeHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	if !h.extensible {
		return false
	}
	switch p.Name {
	case "extensions":
		for _, getter := range p.OverridableGetters {
			if getter.IsAbstract() {
				return true
			}
		}
		h.hasExtensionAwareImplementation = true
		return true
	case "conventionMapping", "convention":
		return true
	}
	return false
}

func (h *extensibleTypeHandler) Unclaimed(p *PropertyMetadata) {
	for _, getter := range p.OverridableGetters {
		if !getter.Method.Owner.IsAssignableFrom(h.noMappingClass) {
			h.conventionProperties = append(h.conventionProperties, p)
			return
		}
	}
}

func (h *extensibleTypeHandler) isConventionProperty(p *PropertyMetadata) bool {
	for _, candidate := range h.conventionProperties {
		if candidate == p {
			return true
		}
	}
	return false
}

func (h *extensibleTypeHandler) ApplyToInspection(v ClassInspectionVisitor) {
	if h.extensible {
		v.MixInExtensible()
	}
	if h.conventionAware {
		v.MixInConventionAware()
	}
	for _, p := range h.conventionProperties {
		if isLazyAttachProperty(p) && isRoleType(h.roles, p) {
			v.InstantiatesNestedObjects()
		}
	}
}

func (h *extensibleTypeHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	if h.extensible && !h.hasExtensionAwareImplementation {
		v.AddExtensionsProperty()
	}
	if h.conventionAware && !models.ConventionAware.IsAssignableFrom(h.typ) {
		v.MixInConventionAware()
	}
	for _, p := range h.conventionProperties {
		v.ApplyConventionMappingToProperty(p)
		attachProperty := isLazyAttachProperty(p)
		applyRole := attachProperty && isRoleType(h.roles, p)
		for _, getter := range p.OverridableGetters {
			attachOwner := attachProperty && isAttachableType(getter)
			v.ApplyConventionMappingToGetter(p, getter, attachOwner, applyRole)
		}
		for _, setter := range p.OverridableSetters {
			v.ApplyConventionMappingToSetter(p, setter)
		}
	}
}
