package generator

import (
	"sort"

	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

// GeneratedClass is the cache entry for one decorated type
type GeneratedClass struct {
	generatedType                         *models.Type
	sourceType                            *models.Type
	outerType                             *models.Type
	injectedServices                      []*models.Type
	annotationsTriggeringServiceInjection []*models.Type
	constructors                          []*GeneratedConstructor
	backend                               Backend
}

func newGeneratedClass(backend Backend, source, generated, outer *models.Type, injected, triggering []*models.Type) (*GeneratedClass, error) {
	class := &GeneratedClass{
		generatedType:                         generated,
		sourceType:                            source,
		outerType:                             outer,
		injectedServices:                      injected,
		annotationsTriggeringServiceInjection: triggering,
		backend:                               backend,
	}
	for _, c := range generated.Constructors {
		if c.Modifiers.Has(models.ModSynthetic) {
			continue
		}
		strategy, err := backend.CreateUsingConstructor(generated, c)
		if err != nil {
			return nil, err
		}
		class.constructors = append(class.constructors, &GeneratedConstructor{
			class:       class,
			constructor: c,
			strategy:    strategy,
		})
	}
	sort.SliceStable(class.constructors, func(i, j int) bool {
		return CompareConstructors(class.constructors[i].constructor, class.constructors[j].constructor) < 0
	})
	return class, nil
}

// GeneratedType returns the emitted type
func (g *GeneratedClass) GeneratedType() *models.Type {
	return g.generatedType
}

// SourceType returns the type the decorated type was generated from
func (g *GeneratedClass) SourceType() *models.Type {
	return g.sourceType
}

// OuterType returns the enclosing type of a non-static inner source type
func (g *GeneratedClass) OuterType() *models.Type {
	return g.outerType
}

// Constructors returns the constructors in comparator order
func (g *GeneratedClass) Constructors() []*GeneratedConstructor {
	return g.constructors
}

// InjectedServices returns the service types injected through @Inject
func (g *GeneratedClass) InjectedServices() []*models.Type {
	return g.injectedServices
}

// AnnotationsTriggeringServiceInjection returns the custom injection
// annotations that claimed at least one property.
func (g *GeneratedClass) AnnotationsTriggeringServiceInjection() []*models.Type {
	return g.annotationsTriggeringServiceInjection
}

// SerializationConstructor returns a constructor that bypasses the user
// constructors of base.
func (g *GeneratedClass) SerializationConstructor(base *models.Type) (*SerializationConstructor, error) {
	strategy, err := g.backend.CreateForSerialization(g.generatedType, base)
	if err != nil {
		return nil, err
	}
	return &SerializationConstructor{strategy: strategy}, nil
}

// GeneratedConstructor wraps one constructor of a generated type
type GeneratedConstructor struct {
	class       *GeneratedClass
	constructor *models.Constructor
	strategy    InstantiationStrategy
}

// NewInstance invokes the constructor. Errors are returned verbatim.
func (c *GeneratedConstructor) NewInstance(services decor.ServiceLookup, nested InstanceGenerator, displayName decor.Describable, params ...any) (any, error) {
	return c.strategy.NewInstance(services, nested, displayName, params)
}

// RequiresService reports whether invoking this constructor needs a service
// of type serviceType, through a parameter or an injected property.
func (c *GeneratedConstructor) RequiresService(serviceType *models.Type) bool {
	for _, paramType := range c.constructor.ParamTypes() {
		if paramType.IsAssignableFrom(serviceType) {
			return true
		}
	}
	for _, injected := range c.class.injectedServices {
		if injected.IsAssignableFrom(serviceType) {
			return true
		}
	}
	return false
}

// ServiceInjectionTriggeredByAnnotation reports whether the custom
// annotation claimed any property of the type.
func (c *GeneratedConstructor) ServiceInjectionTriggeredByAnnotation(annotation *models.Type) bool {
	for _, a := range c.class.annotationsTriggeringServiceInjection {
		if a == annotation {
			return true
		}
	}
	return false
}

// ParameterTypes returns the erased parameter types
func (c *GeneratedConstructor) ParameterTypes() []*models.Type {
	return c.constructor.ParamTypes()
}

// GenericParameterTypes returns the declared parameter types
func (c *GeneratedConstructor) GenericParameterTypes() []models.TypeRef {
	return c.constructor.Params
}

// Annotation returns a declared annotation, or nil
func (c *GeneratedConstructor) Annotation(annotationType *models.Type) *models.Annotation {
	return c.constructor.Annotation(annotationType)
}

// Modifiers returns the constructor modifiers
func (c *GeneratedConstructor) Modifiers() models.Modifiers {
	return c.constructor.Modifiers
}

// Constructor returns the underlying descriptor
func (c *GeneratedConstructor) Constructor() *models.Constructor {
	return c.constructor
}

// SerializationConstructor creates instances without user parameters
type SerializationConstructor struct {
	strategy InstantiationStrategy
}

// NewInstance creates an instance relying on injected defaults only
func (s *SerializationConstructor) NewInstance(services decor.ServiceLookup, nested InstanceGenerator) (any, error) {
	return s.strategy.NewInstance(services, nested, nil, nil)
}

// CompareConstructors orders constructors: fewer parameters first, then
// parameter type names, then declaration order.
func CompareConstructors(a, b *models.Constructor) int {
	if len(a.Params) != len(b.Params) {
		return len(a.Params) - len(b.Params)
	}
	aTypes, bTypes := a.ParamTypes(), b.ParamTypes()
	for i := range aTypes {
		an, bn := aTypes[i].QualifiedName(), bTypes[i].QualifiedName()
		if an < bn {
			return -1
		}
		if an > bn {
			return 1
		}
	}
	return a.Index - b.Index
}
