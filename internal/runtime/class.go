package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/plan"
	"github.com/toyz/decor/pkg/decor"
)

type methodFunc func(o *Object, args []any) (any, error)

// Method is one entry of a class dispatch table
type Method struct {
	Name      string
	Signature string
	Params    []*models.Type

	// Declared is the source method, nil for synthesized members
	Declared  *models.Method
	Generated bool

	fn methodFunc
}

type constructorBinding struct {
	generated *models.Constructor
	source    *models.Constructor
	name      bool
}

// Class is the interpreted form of a generated type
type Class struct {
	source    *models.Type
	generated *models.Type
	plan      *plan.ClassPlan
	roles     annotations.RoleHandler
	impls     *Implementations

	methods map[string]*Method
	byName  map[string][]*Method

	constructors map[*models.Constructor]*constructorBinding

	conventionProperties []string
	dynamicObject        bool
	dynamicMethods       bool
	managedMutable       []*generator.PropertyMetadata
	managedReadOnly      []*generator.PropertyMetadata
	fullyManaged         bool
}

func compile(p *plan.ClassPlan, impls *Implementations, roles annotations.RoleHandler) (*Class, error) {
	if roles == nil {
		roles = annotations.NoRoles
	}
	c := &Class{
		source:       p.Source,
		generated:    p.Generated,
		plan:         p,
		roles:        roles,
		impls:        impls,
		methods:      make(map[string]*Method),
		byName:       make(map[string][]*Method),
		constructors: make(map[*models.Constructor]*constructorBinding),
	}
	c.addSourceMethods()

	generatedConstructors := p.Generated.Constructors
	next := 0
	for _, d := range p.Directives {
		switch d.Kind {
		case plan.AddConstructor, plan.AddDefaultConstructor, plan.AddNameConstructor:
			if next >= len(generatedConstructors) {
				return nil, errors.NewGenerationError("constructor directives do not match the generated type " + p.Generated.DisplayName())
			}
			c.constructors[generatedConstructors[next]] = &constructorBinding{
				generated: generatedConstructors[next],
				source:    d.Constructor,
				name:      d.AddNameParameter,
			}
			next++
		default:
			if err := c.apply(d); err != nil {
				return nil, err
			}
		}
	}

	if !p.OwnToString {
		c.define(&Method{Name: "toString", Signature: "toString()", Generated: true, fn: func(o *Object, _ []any) (any, error) {
			return o.describe(), nil
		}})
	}
	return c, nil
}

// addSourceMethods fills the table from the source hierarchy, most derived
// declaration first.
func (c *Class) addSourceMethods() {
	for _, t := range inspect.Hierarchy(c.source) {
		for _, m := range t.Methods {
			if m.IsStatic() || m.IsBridge() || m.Modifiers.IsPrivate() {
				continue
			}
			if _, exists := c.methods[m.Signature()]; exists {
				continue
			}
			c.define(&Method{
				Name:      m.Name,
				Signature: m.Signature(),
				Params:    m.ParamTypes(),
				Declared:  m,
				fn:        c.sourceBody(m),
			})
		}
	}
}

func (c *Class) sourceBody(m *models.Method) methodFunc {
	if body, ok := c.impls.LookupMethod(m); ok {
		return func(o *Object, args []any) (any, error) {
			return body(o, args)
		}
	}
	if m.Owner == models.Object {
		switch m.Name {
		case "toString":
			return func(o *Object, _ []any) (any, error) { return o.describe(), nil }
		case "hashCode":
			return func(o *Object, _ []any) (any, error) { return int(o.id.ID()), nil }
		case "equals":
			return func(o *Object, args []any) (any, error) { return args[0] == any(o), nil }
		}
	}
	if m.IsAbstract() {
		return func(o *Object, _ []any) (any, error) {
			return nil, errors.NewInstantiationError(c.generated.DisplayName(),
				"Method "+models.DescribeMethod(m)+" is abstract and has no implementation.")
		}
	}

	// Concrete accessors without a registered body use the backing field
	accessor := inspect.AccessorTypeOf(m)
	name := accessor.PropertyName(m.Name)
	switch {
	case accessor.IsGetter():
		returnType := m.ReturnType()
		return func(o *Object, _ []any) (any, error) {
			if v, ok := o.Field(name); ok {
				return v, nil
			}
			return zeroValue(returnType), nil
		}
	case accessor == inspect.Setter:
		return func(o *Object, args []any) (any, error) {
			o.SetField(name, args[0])
			return nil, nil
		}
	}
	return func(o *Object, _ []any) (any, error) {
		return nil, nil
	}
}

func (c *Class) define(m *Method) {
	if existing, ok := c.methods[m.Signature]; ok {
		candidates := c.byName[m.Name]
		for i, candidate := range candidates {
			if candidate == existing {
				candidates[i] = m
			}
		}
	} else {
		c.byName[m.Name] = append(c.byName[m.Name], m)
	}
	c.methods[m.Signature] = m
}

// wrap replaces the entry for signature with fn applied to the previous
// implementation.
func (c *Class) wrap(target *models.Method, fn func(prev methodFunc) methodFunc) {
	existing, ok := c.methods[target.Signature()]
	prev := methodFunc(func(*Object, []any) (any, error) { return nil, nil })
	if ok {
		prev = existing.fn
	}
	c.define(&Method{
		Name:      target.Name,
		Signature: target.Signature(),
		Params:    target.ParamTypes(),
		Declared:  target,
		Generated: true,
		fn:        fn(prev),
	})
}

func (c *Class) synthesize(name string, params []*models.Type, fn methodFunc) {
	c.define(&Method{
		Name:      name,
		Signature: signatureOf(name, params),
		Params:    params,
		Generated: true,
		fn:        fn,
	})
}

func (c *Class) apply(d plan.Directive) error {
	p := d.Property
	switch d.Kind {
	case plan.MixInDynamicAware:
		c.synthesize("getAsDynamicObject", nil, func(o *Object, _ []any) (any, error) {
			return o.AsDynamicObject(), nil
		})
	case plan.MixInConventionAware:
		c.synthesize("getConventionMapping", nil, func(o *Object, _ []any) (any, error) {
			return o.ConventionMapping(), nil
		})
	case plan.MixInDynamicObject:
		c.dynamicObject = true
	case plan.AddDynamicMethods:
		c.dynamicMethods = true
	case plan.AddExtensionsProperty:
		c.synthesize("getExtensions", nil, func(o *Object, _ []any) (any, error) {
			return o.Extensions(), nil
		})

	case plan.ApplyServiceInjectionToProperty, plan.ApplyManagedStateToProperty:
	case plan.ApplyServiceInjectionToGetter:
		serviceType := d.Getter.GenericReturnType.String()
		annotation := ""
		if d.Annotation != nil {
			annotation = d.Annotation.Name
		}
		c.wrap(d.Getter.Method, func(methodFunc) methodFunc {
			return func(o *Object, _ []any) (any, error) {
				return o.injected(p.Name, serviceType, annotation)
			}
		})
	case plan.ApplyServiceInjectionToSetter, plan.ApplyManagedStateToSetter:
		c.wrap(d.Method, func(methodFunc) methodFunc {
			return func(o *Object, args []any) (any, error) {
				o.setSlot(p.Name, args[0])
				return nil, nil
			}
		})
	case plan.ApplyManagedStateToGetter:
		returnType := d.Method.ReturnType()
		c.wrap(d.Method, func(methodFunc) methodFunc {
			return func(o *Object, _ []any) (any, error) {
				if v, ok := o.slot(p.Name); ok {
					return v, nil
				}
				return zeroValue(returnType), nil
			}
		})
	case plan.ApplyReadOnlyManagedStateToGetter:
		getter, applyRole := d.Method, d.ApplyRole
		c.wrap(d.Method, func(methodFunc) methodFunc {
			return func(o *Object, _ []any) (any, error) {
				return o.managedValue(p, getter, applyRole)
			}
		})
	case plan.AddManagedMethods:
		c.fullyManaged = true
		c.managedMutable = d.Mutable
		c.managedReadOnly = d.ReadOnly

	case plan.ApplyConventionMappingToProperty:
		c.conventionProperties = append(c.conventionProperties, p.Name)
	case plan.ApplyConventionMappingToGetter:
		conventionAware := c.plan.ConventionAware
		if !conventionAware && !d.AttachOwner {
			return nil
		}
		attachOwner, applyRole := d.AttachOwner, d.ApplyRole
		c.wrap(d.Getter.Method, func(prev methodFunc) methodFunc {
			return func(o *Object, args []any) (any, error) {
				v, err := prev(o, args)
				if err != nil {
					return nil, err
				}
				if conventionAware {
					v = o.conventionValue(v, p.Name)
				}
				if attachOwner {
					decor.AttachOwner(v, o, p.Name)
					if applyRole {
						c.roles.ApplyRoleTo(o, v)
					}
				}
				return v, nil
			}
		})
	case plan.ApplyConventionMappingToSetter, plan.ApplyConventionMappingToSetMethod:
		if !c.plan.ConventionAware {
			return nil
		}
		c.wrap(d.Method, func(prev methodFunc) methodFunc {
			return func(o *Object, args []any) (any, error) {
				v, err := prev(o, args)
				if err == nil {
					o.markExplicit(p.Name)
				}
				return v, err
			}
		})

	case plan.AddSetMethod:
		setter := d.Method.Signature()
		c.synthesize(p.Name, d.Method.ParamTypes(), func(o *Object, args []any) (any, error) {
			_, err := o.Call(setter, args...)
			return nil, err
		})
	case plan.AddActionMethod:
		target := d.Method.Signature()
		params := append([]*models.Type(nil), d.Method.ParamTypes()...)
		params[len(params)-1] = models.Closure
		c.synthesize(d.Method.Name, params, func(o *Object, args []any) (any, error) {
			converted := append([]any(nil), args...)
			closure, _ := converted[len(converted)-1].(*decor.Closure)
			converted[len(converted)-1] = decor.ConfigureUsing(closure)
			return o.Call(target, converted...)
		})
	case plan.AddPropertySetterOverloads:
		getter := d.Getter.Method.Signature()
		name := "set" + inspect.Capitalize(p.Name)
		params := []*models.Type{models.Object}
		if _, exists := c.methods[signatureOf(name, params)]; exists {
			return nil
		}
		c.synthesize(name, params, func(o *Object, args []any) (any, error) {
			holder, err := o.Call(getter)
			if err != nil {
				return nil, err
			}
			setter, ok := holder.(decor.ValueSetter)
			if !ok {
				return nil, errors.NewInstantiationError(c.generated.DisplayName(),
					fmt.Sprintf("Cannot set the value of %s: %T does not accept values.", p, holder))
			}
			return nil, setter.SetFromAny(args[0])
		})
	case plan.AddNameProperty:
		c.synthesize("getName", nil, func(o *Object, _ []any) (any, error) {
			return o.name, nil
		})
	default:
		return errors.NewGenerationError("unsupported directive " + d.Kind.String())
	}
	return nil
}

// Type returns the generated type
func (c *Class) Type() *models.Type {
	return c.generated
}

// Source returns the source type
func (c *Class) Source() *models.Type {
	return c.source
}

// Plan returns the plan the class was compiled from
func (c *Class) Plan() *plan.ClassPlan {
	return c.plan
}

// Method returns the entry for a signature such as "getLabel()"
func (c *Class) Method(signature string) (*Method, bool) {
	m, ok := c.methods[signature]
	return m, ok
}

// Signatures lists the dispatch table, sorted
func (c *Class) Signatures() []string {
	signatures := make([]string, 0, len(c.methods))
	for signature := range c.methods {
		signatures = append(signatures, signature)
	}
	sort.Strings(signatures)
	return signatures
}

// resolve picks the entry for name whose parameters accept args
func (c *Class) resolve(name string, args []any) (*Method, bool) {
	var byArity *Method
	arity := 0
	for _, m := range c.byName[name] {
		if len(m.Params) != len(args) {
			continue
		}
		if matchesAll(m.Params, args) {
			return m, true
		}
		if byArity == nil {
			byArity = m
		}
		arity++
	}
	if arity == 1 {
		return byArity, true
	}
	return nil, false
}

func (c *Class) getterFor(property string) (*Method, bool) {
	capitalized := inspect.Capitalize(property)
	if m, ok := c.methods["get"+capitalized+"()"]; ok {
		return m, true
	}
	m, ok := c.methods["is"+capitalized+"()"]
	return m, ok
}

func signatureOf(name string, params []*models.Type) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.QualifiedName()
	}
	return name + "(" + strings.Join(names, ",") + ")"
}
