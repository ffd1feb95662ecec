package generator

import (
	"github.com/toyz/decor/internal/models"
)

// propertyTypeHandler adds raw-value setter overloads to lazy value holders
type propertyTypeHandler struct {
	baseHandler
	propertyTyped []*PropertyMetadata
}

func (h *propertyTypeHandler) VisitProperty(p *PropertyMetadata) {
	if p.IsReadable() && IsPropertyType(p.Type()) {
		h.propertyTyped = append(h.propertyTyped, p)
	}
}

func (h *propertyTypeHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	for _, p := range h.propertyTyped {
		v.AddPropertySetterOverloads(p, p.MainGetter)
	}
}

// servicesPropertyHandler recognises a type that exposes its own services
type servicesPropertyHandler struct {
	baseHandler
	hasServicesProperty bool
}

func (h *servicesPropertyHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	if p.Name == "services" && p.IsReadable() && models.ServiceRegistry.IsAssignableFrom(p.Type()) {
		h.hasServicesProperty = true
		return true
	}
	return false
}

func (h *servicesPropertyHandler) ApplyToInspection(v ClassInspectionVisitor) {
	if h.hasServicesProperty {
		v.ProvidesOwnServicesImplementation()
	}
}

// namePropertyHandler implements an abstract read-only name property from
// the constructor argument.
type namePropertyHandler struct {
	baseHandler
	nameProperty *PropertyMetadata
}

func (h *namePropertyHandler) VisitProperty(p *PropertyMetadata) {
	if isNameProperty(p) {
		h.nameProperty = p
	}
}

func (h *namePropertyHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	if isNameProperty(p) {
		h.nameProperty = p
		return true
	}
	return false
}

func (h *namePropertyHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	if h.nameProperty != nil {
		v.AddNameProperty()
	}
}

func (h *namePropertyHandler) hasNameProperty() bool {
	return h.nameProperty != nil
}
