package inspect

import (
	"github.com/toyz/decor/internal/models"
)

// PropertyDetails collects the accessors discovered for one property name
type PropertyDetails struct {
	Name    string
	getters *MethodSet
	setters *MethodSet
	Field   *models.Field
}

// Getters returns the getters, most derived first
func (p *PropertyDetails) Getters() []*models.Method {
	return p.getters.Values()
}

// Setters returns the setters, most derived first
func (p *PropertyDetails) Setters() []*models.Method {
	return p.setters.Values()
}

// ClassDetails is the result of inspecting a type hierarchy
type ClassDetails struct {
	Type *models.Type

	// Hierarchy lists visited types: the type, breadth-first supertypes,
	// Object last.
	Hierarchy []*models.Type

	// AllMethods holds every declared method of the hierarchy
	AllMethods []*models.Method

	// InstanceMethods are non-static, non-private, non-accessor methods
	// with overrides removed.
	InstanceMethods []*models.Method

	// InstanceFields are the non-static fields of the hierarchy
	InstanceFields []*models.Field

	properties []*PropertyDetails
	byName     map[string]*PropertyDetails
}

// Properties returns the properties in discovery order
func (d *ClassDetails) Properties() []*PropertyDetails {
	return d.properties
}

// Property returns the named property, or nil
func (d *ClassDetails) Property(name string) *PropertyDetails {
	return d.byName[name]
}

// PropertyNames returns the property names in discovery order
func (d *ClassDetails) PropertyNames() []string {
	names := make([]string, len(d.properties))
	for i, p := range d.properties {
		names[i] = p.Name
	}
	return names
}

func (d *ClassDetails) property(name string) *PropertyDetails {
	if p, ok := d.byName[name]; ok {
		return p
	}
	p := &PropertyDetails{Name: name, getters: NewMethodSet(), setters: NewMethodSet()}
	d.byName[name] = p
	d.properties = append(d.properties, p)
	return p
}

// Inspect discovers the properties, instance methods and fields of t
func Inspect(t *models.Type) *ClassDetails {
	details := &ClassDetails{
		Type:   t,
		byName: make(map[string]*PropertyDetails),
	}
	instanceMethods := NewMethodSet()
	var fields []*models.Field

	for _, current := range Hierarchy(t) {
		details.Hierarchy = append(details.Hierarchy, current)
		for _, m := range current.Methods {
			details.AllMethods = append(details.AllMethods, m)
			if m.IsStatic() || m.Modifiers.IsPrivate() {
				continue
			}
			accessor := AccessorTypeOf(m)
			switch {
			case accessor.IsGetter():
				details.property(accessor.PropertyName(m.Name)).getters.Add(m)
			case accessor == Setter:
				details.property(accessor.PropertyName(m.Name)).setters.Add(m)
			default:
				instanceMethods.Add(m)
			}
		}
		for _, f := range current.Fields {
			if !f.IsStatic() {
				fields = append(fields, f)
			}
		}
	}

	details.InstanceMethods = instanceMethods.Values()
	details.InstanceFields = fields
	for _, f := range fields {
		if p, ok := details.byName[f.Name]; ok && p.Field == nil {
			p.Field = f
		}
	}
	return details
}

// Hierarchy returns t followed by its supertypes breadth-first, superclass
// before interfaces, with Object last.
func Hierarchy(t *models.Type) []*models.Type {
	var result []*models.Type
	seen := map[*models.Type]bool{models.Object: true}
	queue := []*models.Type{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil || seen[current] {
			continue
		}
		seen[current] = true
		result = append(result, current)
		for _, super := range current.DirectSupertypes() {
			queue = append(queue, super.Type)
		}
	}
	if !t.IsPrimitive() {
		result = append(result, models.Object)
	}
	return result
}
