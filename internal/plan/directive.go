package plan

import (
	"fmt"
	"strings"

	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
)

// DirectiveKind names a member-generation directive
type DirectiveKind int

const (
	AddConstructor DirectiveKind = iota
	AddDefaultConstructor
	AddNameConstructor
	MixInDynamicAware
	MixInConventionAware
	MixInDynamicObject
	AddDynamicMethods
	AddExtensionsProperty
	ApplyServiceInjectionToProperty
	ApplyServiceInjectionToGetter
	ApplyServiceInjectionToSetter
	ApplyManagedStateToProperty
	ApplyManagedStateToGetter
	ApplyManagedStateToSetter
	ApplyReadOnlyManagedStateToGetter
	AddManagedMethods
	ApplyConventionMappingToProperty
	ApplyConventionMappingToGetter
	ApplyConventionMappingToSetter
	ApplyConventionMappingToSetMethod
	AddSetMethod
	AddActionMethod
	AddPropertySetterOverloads
	AddNameProperty
)

var directiveNames = [...]string{
	AddConstructor:                    "AddConstructor",
	AddDefaultConstructor:             "AddDefaultConstructor",
	AddNameConstructor:                "AddNameConstructor",
	MixInDynamicAware:                 "MixInDynamicAware",
	MixInConventionAware:              "MixInConventionAware",
	MixInDynamicObject:                "MixInDynamicObject",
	AddDynamicMethods:                 "AddDynamicMethods",
	AddExtensionsProperty:             "AddExtensionsProperty",
	ApplyServiceInjectionToProperty:   "ApplyServiceInjectionToProperty",
	ApplyServiceInjectionToGetter:     "ApplyServiceInjectionToGetter",
	ApplyServiceInjectionToSetter:     "ApplyServiceInjectionToSetter",
	ApplyManagedStateToProperty:       "ApplyManagedStateToProperty",
	ApplyManagedStateToGetter:         "ApplyManagedStateToGetter",
	ApplyManagedStateToSetter:         "ApplyManagedStateToSetter",
	ApplyReadOnlyManagedStateToGetter: "ApplyReadOnlyManagedStateToGetter",
	AddManagedMethods:                 "AddManagedMethods",
	ApplyConventionMappingToProperty:  "ApplyConventionMappingToProperty",
	ApplyConventionMappingToGetter:    "ApplyConventionMappingToGetter",
	ApplyConventionMappingToSetter:    "ApplyConventionMappingToSetter",
	ApplyConventionMappingToSetMethod: "ApplyConventionMappingToSetMethod",
	AddSetMethod:                      "AddSetMethod",
	AddActionMethod:                   "AddActionMethod",
	AddPropertySetterOverloads:        "AddPropertySetterOverloads",
	AddNameProperty:                   "AddNameProperty",
}

// String returns the directive name
func (k DirectiveKind) String() string {
	if int(k) < 0 || int(k) >= len(directiveNames) {
		return fmt.Sprintf("DirectiveKind(%d)", int(k))
	}
	return directiveNames[k]
}

// Directive is one recorded generation instruction
type Directive struct {
	Kind       DirectiveKind
	Property   *generator.PropertyMetadata
	Method     *models.Method
	Getter     *generator.MethodMetadata
	Annotation *models.Type

	AttachOwner      bool
	ApplyRole        bool
	AddNameParameter bool
	Constructor      *models.Constructor

	Mutable  []*generator.PropertyMetadata
	ReadOnly []*generator.PropertyMetadata
}

// PropertyName returns the property name, or ""
func (d Directive) PropertyName() string {
	if d.Property == nil {
		return ""
	}
	return d.Property.Name
}

// Target returns the method a directive applies to, or nil
func (d Directive) Target() *models.Method {
	if d.Getter != nil {
		return d.Getter.Method
	}
	return d.Method
}

// String renders the directive on one line
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString(d.Kind.String())
	if d.Property != nil {
		b.WriteString(" " + d.Property.Name)
	}
	if m := d.Target(); m != nil {
		b.WriteString(" " + models.DescribeSignature(m))
	}
	if d.Annotation != nil {
		b.WriteString(" " + models.DescribeAnnotation(d.Annotation))
	}
	if d.Constructor != nil {
		params := make([]string, len(d.Constructor.Params))
		for i, p := range d.Constructor.Params {
			params[i] = p.String()
		}
		b.WriteString(" (" + strings.Join(params, ", ") + ")")
	}
	var flags []string
	if d.AttachOwner {
		flags = append(flags, "attachOwner")
	}
	if d.ApplyRole {
		flags = append(flags, "applyRole")
	}
	if d.AddNameParameter {
		flags = append(flags, "name")
	}
	if len(flags) > 0 {
		b.WriteString(" [" + strings.Join(flags, ",") + "]")
	}
	if d.Kind == AddManagedMethods {
		fmt.Fprintf(&b, " mutable=%d readOnly=%d", len(d.Mutable), len(d.ReadOnly))
	}
	return b.String()
}
