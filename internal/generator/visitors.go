package generator

import (
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

// Backend emits decorated types. Start is called once per source type.
type Backend interface {
	Start(t *models.Type) (ClassInspectionVisitor, error)

	// CreateUsingConstructor builds the strategy for one generated constructor
	CreateUsingConstructor(generated *models.Type, c *models.Constructor) (InstantiationStrategy, error)

	// CreateForSerialization builds a strategy that skips user constructors
	CreateForSerialization(generated *models.Type, base *models.Type) (InstantiationStrategy, error)
}

// ClassInspectionVisitor receives the structural decisions of every handler
type ClassInspectionVisitor interface {
	MixInExtensible()
	MixInConventionAware()
	ProvidesOwnDynamicObjectImplementation()
	ProvidesOwnServicesImplementation()
	ProvidesOwnToString()
	MixInFullyManagedState()
	MixInServiceInjection()
	InstantiatesNestedObjects()
	AttachDuringConstruction(property *PropertyMetadata, applyRole bool)
	MarkPropertyAsIneligibleForConventionMapping(property *PropertyMetadata)

	// Builder switches to member generation
	Builder() (ClassGenerationVisitor, error)
}

// ClassGenerationVisitor receives member directives. Injection directives
// take a nil annotation for the default @Inject.
type ClassGenerationVisitor interface {
	AddConstructor(c *models.Constructor, addNameParameter bool)
	AddDefaultConstructor()
	AddNameConstructor()

	MixInDynamicAware()
	MixInConventionAware()
	MixInDynamicObject()
	AddDynamicMethods()
	AddExtensionsProperty()

	ApplyServiceInjectionToProperty(property *PropertyMetadata)
	ApplyServiceInjectionToGetter(property *PropertyMetadata, annotation *models.Type, getter *MethodMetadata)
	ApplyServiceInjectionToSetter(property *PropertyMetadata, annotation *models.Type, setter *models.Method)

	ApplyManagedStateToProperty(property *PropertyMetadata)
	ApplyManagedStateToGetter(property *PropertyMetadata, getter *models.Method)
	ApplyManagedStateToSetter(property *PropertyMetadata, setter *models.Method)
	ApplyReadOnlyManagedStateToGetter(property *PropertyMetadata, getter *models.Method, applyRole bool)
	AddManagedMethods(mutable, readOnly []*PropertyMetadata)

	ApplyConventionMappingToProperty(property *PropertyMetadata)
	ApplyConventionMappingToGetter(property *PropertyMetadata, getter *MethodMetadata, attachOwner, applyRole bool)
	ApplyConventionMappingToSetter(property *PropertyMetadata, setter *models.Method)
	ApplyConventionMappingToSetMethod(property *PropertyMetadata, method *models.Method)

	AddSetMethod(property *PropertyMetadata, setter *models.Method)
	AddActionMethod(method *models.Method)
	AddPropertySetterOverloads(property *PropertyMetadata, getter *MethodMetadata)
	AddNameProperty()

	// Generate emits the type
	Generate() (*models.Type, error)
}

// InstanceGenerator creates nested decorated objects
type InstanceGenerator interface {
	NewInstance(t *models.Type, displayName decor.Describable, params ...any) (any, error)
}

// InstantiationStrategy creates an instance through one generated constructor
type InstantiationStrategy interface {
	NewInstance(services decor.ServiceLookup, nested InstanceGenerator, displayName decor.Describable, params []any) (any, error)
}

// InstantiationStrategyFunc adapts a function to InstantiationStrategy
type InstantiationStrategyFunc func(services decor.ServiceLookup, nested InstanceGenerator, displayName decor.Describable, params []any) (any, error)

// NewInstance calls f
func (f InstantiationStrategyFunc) NewInstance(services decor.ServiceLookup, nested InstanceGenerator, displayName decor.Describable, params []any) (any, error) {
	return f(services, nested, displayName, params)
}
