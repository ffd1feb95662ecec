package generator

import (
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/models"
)

// injectedPropertyHandler claims properties whose getter carries an
// injection annotation. A nil custom annotation means the default @Inject.
type injectedPropertyHandler struct {
	baseHandler
	annotation *models.Type
	custom     bool

	serviceInjectionProperties []*PropertyMetadata
}

func newInjectAnnotationHandler() *injectedPropertyHandler {
	return &injectedPropertyHandler{annotation: models.Inject}
}

func newCustomInjectAnnotationHandler(annotation *models.Type) *injectedPropertyHandler {
	return &injectedPropertyHandler{annotation: annotation, custom: true}
}

func (h *injectedPropertyHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	for _, getter := range p.Getters {
		if getter.Method.HasAnnotation(h.annotation) {
			h.serviceInjectionProperties = append(h.serviceInjectionProperties, p)
			return true
		}
	}
	return false
}

func (h *injectedPropertyHandler) Ambiguous(p *PropertyMetadata) error {
	for _, getter := range p.Getters {
		if getter.Method.HasAnnotation(h.annotation) {
			return errors.NewShapeError("Cannot use " + models.DescribeAnnotation(h.annotation) +
				" annotation on method " + models.DescribeMethod(getter.Method) + ".").
				WithMember(models.DescribeMethod(getter.Method)).
				WithAnnotation(h.annotation.Name)
		}
	}
	return h.baseHandler.Ambiguous(p)
}

func (h *injectedPropertyHandler) ApplyToInspection(v ClassInspectionVisitor) {
	if len(h.serviceInjectionProperties) > 0 {
		v.MixInServiceInjection()
	}
}

func (h *injectedPropertyHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	var annotation *models.Type
	if h.custom {
		annotation = h.annotation
	}
	for _, p := range h.serviceInjectionProperties {
		v.ApplyServiceInjectionToProperty(p)
		for _, getter := range p.OverridableGetters {
			v.ApplyServiceInjectionToGetter(p, annotation, getter)
		}
		for _, setter := range p.OverridableSetters {
			v.ApplyServiceInjectionToSetter(p, annotation, setter)
		}
	}
}

// InjectedServices returns the property types of the claimed properties
func (h *injectedPropertyHandler) InjectedServices() []*models.Type {
	services := make([]*models.Type, 0, len(h.serviceInjectionProperties))
	for _, p := range h.serviceInjectionProperties {
		services = append(services, p.Type())
	}
	return services
}

// IsUsed reports whether any property was claimed
func (h *injectedPropertyHandler) IsUsed() bool {
	return len(h.serviceInjectionProperties) > 0
}

// Annotation returns the handled annotation
func (h *injectedPropertyHandler) Annotation() *models.Type {
	return h.annotation
}
