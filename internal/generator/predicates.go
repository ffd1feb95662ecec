package generator

import (
	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/models"
)

// managedPropertyTypes can be instantiated for abstract read-only properties
var managedPropertyTypes = map[*models.Type]bool{
	models.ConfigurableFileCollection: true,
	models.ConfigurableFileTree:       true,
	models.ListProperty:               true,
	models.SetProperty:                true,
	models.MapProperty:                true,
	models.RegularFileProperty:        true,
	models.DirectoryProperty:          true,
	models.Property:                   true,
	models.NamedDomainObjectContainer: true,
	models.DomainObjectSet:            true,
}

// IsManagedPropertyType reports whether t belongs to the managed set
func IsManagedPropertyType(t *models.Type) bool {
	return managedPropertyTypes[t]
}

func isManagedProperty(p *PropertyMetadata) bool {
	return p.IsReadableWithoutSetterOfPropertyType() && (managedPropertyTypes[p.Type()] || p.HasAnnotation(models.Nested))
}

// Readable without a setter of property type and the getter is final, so the
// owner is attached in the constructor.
func isEagerAttachProperty(p *PropertyMetadata) bool {
	return p.IsReadableWithoutSetterOfPropertyType() && !p.MainGetter.ShouldOverride() && IsPropertyType(p.Type())
}

// Lazy values take conventions through their own API.
func isIneligibleForConventionMapping(p *PropertyMetadata) bool {
	return models.Provider.IsAssignableFrom(p.Type())
}

// Readable without a setter of property type and the getter is overridable,
// so the owner is attached when queried.
func isLazyAttachProperty(p *PropertyMetadata) bool {
	return p.IsReadableWithoutSetterOfPropertyType() &&
		len(p.OverridableGetters) > 0 &&
		(models.Provider.IsAssignableFrom(p.Type()) || p.HasAnnotation(models.Nested))
}

func isNameProperty(p *PropertyMetadata) bool {
	return p.IsReadOnly() && p.Name == "name" && p.Type() == models.String && p.MainGetter.IsAbstract()
}

// IsPropertyType reports lazy value holder types that accept raw values
func IsPropertyType(t *models.Type) bool {
	return models.Property.IsAssignableFrom(t) ||
		models.HasMultipleValues.IsAssignableFrom(t) ||
		models.MapProperty.IsAssignableFrom(t)
}

func isAttachableType(m *MethodMetadata) bool {
	return models.Provider.IsAssignableFrom(m.ReturnType()) || m.Method.HasAnnotation(models.Nested)
}

func isRoleType(roles annotations.RoleHandler, p *PropertyMetadata) bool {
	return annotations.HasRoleAnnotation(roles, p.HasAnnotation)
}
