package runtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

// Object is an instance of an interpreted Class
type Object struct {
	class       *Class
	id          uuid.UUID
	name        string
	services    decor.ServiceLookup
	nested      generator.InstanceGenerator
	displayName decor.Describable

	mu          sync.Mutex
	slots       map[string]any
	fields      map[string]any
	explicit    map[string]bool
	extensions  *decor.Extensions
	conventions *decor.Conventions
}

var (
	_ decor.DynamicObject      = (*Object)(nil)
	_ decor.DynamicObjectAware = (*Object)(nil)
	_ decor.Managed            = (*Object)(nil)
	_ decor.ExtensionAware     = (*Object)(nil)
	_ decor.ConventionAware    = (*Object)(nil)
)

func newObject(class *Class, services decor.ServiceLookup, nested generator.InstanceGenerator, displayName decor.Describable) *Object {
	if services == nil {
		services = decor.NoServices
	}
	return &Object{
		class:       class,
		id:          uuid.New(),
		services:    services,
		nested:      nested,
		displayName: displayName,
		slots:       make(map[string]any),
		fields:      make(map[string]any),
		explicit:    make(map[string]bool),
	}
}

// Class returns the interpreted class
func (o *Object) Class() *Class {
	return o.class
}

// Type returns the generated type
func (o *Object) Type() *models.Type {
	return o.class.generated
}

// Call invokes the method with the exact signature, e.g. "setLabel(String)"
func (o *Object) Call(signature string, args ...any) (any, error) {
	m, ok := o.class.methods[signature]
	if !ok {
		return nil, &decor.MissingMethodError{Method: signature, Target: o.describe(), Args: args}
	}
	if len(args) != len(m.Params) {
		return nil, errors.NewInstantiationError(o.class.generated.DisplayName(),
			fmt.Sprintf("Method %s expects %d arguments but got %d.", signature, len(m.Params), len(args)))
	}
	return m.fn(o, args)
}

// Invoke resolves a method by name and arguments and calls it
func (o *Object) Invoke(name string, args ...any) (any, error) {
	m, ok := o.class.resolve(name, args)
	if !ok {
		return nil, &decor.MissingMethodError{Method: name, Target: o.describe(), Args: args}
	}
	return m.fn(o, args)
}

// HasMethod implements decor.DynamicObject
func (o *Object) HasMethod(name string, args ...any) bool {
	_, ok := o.class.resolve(name, args)
	return ok
}

// InvokeMethod implements decor.DynamicObject
func (o *Object) InvokeMethod(name string, args ...any) (any, error) {
	return o.Invoke(name, args...)
}

// HasProperty implements decor.DynamicObject
func (o *Object) HasProperty(name string) bool {
	if _, ok := o.class.getterFor(name); ok {
		return true
	}
	if o.class.dynamicMethods && o.class.plan.Extensible {
		extensions := o.Extensions()
		if extensions.FindByName(name) != nil {
			return true
		}
		_, ok := extensions.Extra(name)
		return ok
	}
	return false
}

// GetProperty implements decor.DynamicObject. Extensions and extra
// properties are visible when dynamic methods were added.
func (o *Object) GetProperty(name string) (any, error) {
	if getter, ok := o.class.getterFor(name); ok {
		return getter.fn(o, nil)
	}
	if o.class.dynamicMethods && o.class.plan.Extensible {
		extensions := o.Extensions()
		if extension := extensions.FindByName(name); extension != nil {
			return extension, nil
		}
		if v, ok := extensions.Extra(name); ok {
			return v, nil
		}
	}
	return nil, &decor.MissingPropertyError{Property: name, Target: o.describe()}
}

// SetProperty implements decor.DynamicObject
func (o *Object) SetProperty(name string, value any) error {
	setterName := "set" + inspect.Capitalize(name)
	if m, ok := o.class.resolve(setterName, []any{value}); ok {
		_, err := m.fn(o, []any{value})
		return err
	}
	return &decor.MissingPropertyError{Property: name, Target: o.describe(), Setting: true}
}

// AsDynamicObject implements decor.DynamicObjectAware
func (o *Object) AsDynamicObject() decor.DynamicObject {
	return o
}

// Extensions implements decor.ExtensionAware. It is nil for types that are
// not extensible.
func (o *Object) Extensions() *decor.Extensions {
	if !o.class.plan.Extensible {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.extensions == nil {
		o.extensions = decor.NewExtensions()
	}
	return o.extensions
}

// ConventionMapping implements decor.ConventionAware. It is nil for types
// that are not convention aware.
func (o *Object) ConventionMapping() decor.ConventionMapping {
	if c := o.Conventions(); c != nil {
		return c
	}
	return nil
}

// Conventions returns the concrete convention mapping, or nil
func (o *Object) Conventions() *decor.Conventions {
	if !o.class.plan.ConventionAware {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conventions == nil {
		ineligible := make([]string, len(o.class.plan.Ineligible))
		for i, p := range o.class.plan.Ineligible {
			ineligible[i] = p.Name
		}
		o.conventions = decor.NewConventions(o.describe(), o.class.conventionProperties, ineligible)
	}
	return o.conventions
}

// IsExplicitlySet reports whether a convention property was assigned
func (o *Object) IsExplicitlySet(property string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.explicit[property]
}

// Services returns the bound service lookup, or the type's own services
func (o *Object) Services() decor.ServiceLookup {
	if o.class.plan.OwnServices {
		if v, err := o.Call("getServices()"); err == nil {
			if lookup, ok := v.(decor.ServiceLookup); ok {
				return lookup
			}
		}
	}
	return o.services
}

// Name returns the value of the name constructor parameter
func (o *Object) Name() string {
	return o.name
}

// DisplayName implements decor.Describable
func (o *Object) DisplayName() string {
	return o.String()
}

// String dispatches toString()
func (o *Object) String() string {
	if v, err := o.Call("toString()"); err == nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return o.describe()
}

func (o *Object) describe() string {
	if o.displayName != nil {
		return o.displayName.DisplayName()
	}
	return fmt.Sprintf("%s@%s", o.class.generated.DisplayName(), o.id)
}

// Field returns a backing field value
func (o *Object) Field(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.fields[name]
	return v, ok
}

// SetField assigns a backing field
func (o *Object) SetField(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[name] = value
}

func (o *Object) slot(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.slots[name]
	return v, ok
}

func (o *Object) setSlot(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.slots[name] = value
}

// storeSlot keeps the first stored value
func (o *Object) storeSlot(name string, value any) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	if existing, ok := o.slots[name]; ok {
		return existing
	}
	o.slots[name] = value
	return value
}

func (o *Object) markExplicit(property string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.explicit[property] = true
}

func (o *Object) conventionValue(actual any, property string) any {
	conventions := o.Conventions()
	if conventions == nil {
		return actual
	}
	return conventions.ConventionValue(actual, property, o.IsExplicitlySet(property))
}

// injected looks the service up on first access and caches it
func (o *Object) injected(property, serviceType, annotation string) (any, error) {
	if v, ok := o.slot(property); ok {
		return v, nil
	}
	services := o.Services()
	var (
		v   any
		err error
	)
	if annotation == "" {
		v, err = services.Get(serviceType)
	} else {
		v, err = services.GetAnnotated(serviceType, annotation)
	}
	if err != nil {
		return nil, err
	}
	return o.storeSlot(property, v), nil
}

// managedValue creates a read-only managed value on first access
func (o *Object) managedValue(p *generator.PropertyMetadata, getter *models.Method, applyRole bool) (any, error) {
	if v, ok := o.slot(p.Name); ok {
		return v, nil
	}
	v, err := newManagedValue(o, p, getter)
	if err != nil {
		return nil, err
	}
	stored := o.storeSlot(p.Name, v)
	if stored == v {
		decor.AttachOwner(v, o, p.Name)
		if applyRole {
			o.class.roles.ApplyRoleTo(o, v)
		}
	}
	return stored, nil
}

func (o *Object) newNested(t *models.Type, displayName decor.Describable, params ...any) (any, error) {
	if o.nested == nil {
		return nil, errors.NewInstantiationError(o.class.generated.DisplayName(),
			"Cannot create nested "+t.DisplayName()+": no instance generator available.")
	}
	return o.nested.NewInstance(t, displayName, params...)
}

// UnpackState implements decor.Managed: mutable values followed by
// read-only values. It is nil unless the type is fully managed.
func (o *Object) UnpackState() []any {
	if !o.class.fullyManaged {
		return nil
	}
	state := make([]any, 0, len(o.class.managedMutable)+len(o.class.managedReadOnly))
	for _, p := range o.class.managedMutable {
		v, _ := o.GetProperty(p.Name)
		state = append(state, v)
	}
	for _, p := range o.class.managedReadOnly {
		v, _ := o.GetProperty(p.Name)
		state = append(state, v)
	}
	return state
}

// InitFromState implements decor.Managed
func (o *Object) InitFromState(state []any) error {
	if !o.class.fullyManaged {
		return errors.NewInstantiationError(o.class.generated.DisplayName(), "Type is not fully managed.")
	}
	mutable, readOnly := o.class.managedMutable, o.class.managedReadOnly
	if len(state) != len(mutable)+len(readOnly) {
		return errors.NewInstantiationError(o.class.generated.DisplayName(),
			fmt.Sprintf("Expected %d state values but got %d.", len(mutable)+len(readOnly), len(state)))
	}
	for i, p := range mutable {
		o.setSlot(p.Name, state[i])
	}
	for i, p := range readOnly {
		o.setSlot(p.Name, state[len(mutable)+i])
	}
	return nil
}
