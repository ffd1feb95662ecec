package generator

import (
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
)

// MethodMetadata wraps a getter together with its return type resolved
// against the generated source type.
type MethodMetadata struct {
	Method            *models.Method
	GenericReturnType models.TypeRef
}

// Name returns the method name
func (m *MethodMetadata) Name() string {
	return m.Method.Name
}

// IsAbstract reports an abstract method
func (m *MethodMetadata) IsAbstract() bool {
	return m.Method.IsAbstract()
}

// ShouldOverride is true when a generated subclass may override the method
func (m *MethodMetadata) ShouldOverride() bool {
	return !m.Method.IsFinal() && !m.Method.IsBridge()
}

// ShouldImplement is true when the method can be the canonical implementation
func (m *MethodMetadata) ShouldImplement() bool {
	return !m.Method.IsBridge()
}

// ReturnType returns the erased declared return type
func (m *MethodMetadata) ReturnType() *models.Type {
	return m.Method.ReturnType()
}

// PropertyMetadata describes one property of the source type
type PropertyMetadata struct {
	Name string

	Getters            []*MethodMetadata
	OverridableGetters []*MethodMetadata
	Setters            []*models.Method
	OverridableSetters []*models.Method
	SetMethods         []*models.Method
	MainGetter         *MethodMetadata
	BackingField       *models.Field
}

func newPropertyMetadata(name string) *PropertyMetadata {
	return &PropertyMetadata{Name: name}
}

// String implements fmt.Stringer
func (p *PropertyMetadata) String() string {
	return "[property " + p.Name + "]"
}

// IsReadable reports a main getter
func (p *PropertyMetadata) IsReadable() bool {
	return p.MainGetter != nil
}

// IsWritable reports at least one setter
func (p *PropertyMetadata) IsWritable() bool {
	return len(p.Setters) > 0
}

// IsReadOnly is readable and not writable
func (p *PropertyMetadata) IsReadOnly() bool {
	return p.IsReadable() && !p.IsWritable()
}

// IsReadableWithoutSetterOfPropertyType is readable with no setter taking
// exactly the property type.
func (p *PropertyMetadata) IsReadableWithoutSetterOfPropertyType() bool {
	if !p.IsReadable() {
		return false
	}
	propertyType := p.Type()
	for _, setter := range p.Setters {
		if setter.ParamTypes()[0] == propertyType {
			return false
		}
	}
	return true
}

// Type is the erased property type
func (p *PropertyMetadata) Type() *models.Type {
	if p.MainGetter != nil {
		return p.MainGetter.ReturnType()
	}
	if len(p.Setters) == 0 {
		return models.Object
	}
	return p.Setters[0].ParamTypes()[0]
}

// GenericType is the property type with bound arguments
func (p *PropertyMetadata) GenericType() models.TypeRef {
	if p.MainGetter != nil {
		return p.MainGetter.GenericReturnType
	}
	if len(p.Setters) == 0 {
		return models.Ref(models.Object)
	}
	return p.Setters[0].Params[0]
}

// HasAnnotation checks the backing field first, then the main getter
func (p *PropertyMetadata) HasAnnotation(annotationType *models.Type) bool {
	if p.BackingField != nil && p.BackingField.Annotation(annotationType) != nil {
		return true
	}
	return p.MainGetter != nil && p.MainGetter.Method.HasAnnotation(annotationType)
}

// AddGetter records a getter and folds it into the main getter choice
func (p *PropertyMetadata) AddGetter(metadata *MethodMetadata) {
	if metadata.ShouldOverride() {
		p.OverridableGetters = append(p.OverridableGetters, metadata)
	}
	p.Getters = append(p.Getters, metadata)
	switch {
	case p.MainGetter == nil:
		p.MainGetter = metadata
	case !p.MainGetter.ShouldImplement() && metadata.ShouldImplement():
		p.MainGetter = metadata
	case p.MainGetter.ReturnType() == models.Boolean && metadata.ReturnType() != models.Boolean:
		p.MainGetter = metadata
	case p.MainGetter.ReturnType().IsAssignableFrom(metadata.ReturnType()):
		p.MainGetter = metadata
	}
}

// AddSetter records a setter; bridge setters are ignored
func (p *PropertyMetadata) AddSetter(method *models.Method) {
	if method.IsBridge() {
		return
	}
	p.Setters = append(p.Setters, method)
	if !method.IsFinal() {
		p.OverridableSetters = append(p.OverridableSetters, method)
	}
}

// AddSetMethod records a single-argument method named like the property
func (p *PropertyMetadata) AddSetMethod(method *models.Method) {
	p.SetMethods = append(p.SetMethods, method)
}

// ClassMetadata holds the properties of one source type in discovery order
type ClassMetadata struct {
	Type       *models.Type
	properties map[string]*PropertyMetadata
	order      []*PropertyMetadata
}

// NewClassMetadata creates empty metadata for t
func NewClassMetadata(t *models.Type) *ClassMetadata {
	return &ClassMetadata{Type: t, properties: make(map[string]*PropertyMetadata)}
}

// ResolveTypeVariables resolves the method's return type against the
// source type's generic bindings.
func (c *ClassMetadata) ResolveTypeVariables(method *models.Method) *MethodMetadata {
	resolved := models.ResolveIn(c.Type, method.Owner, method.GenericReturnType())
	return &MethodMetadata{Method: method, GenericReturnType: resolved}
}

// Property returns the named property, or nil
func (c *ClassMetadata) Property(name string) *PropertyMetadata {
	return c.properties[name]
}

// Properties returns the properties in discovery order
func (c *ClassMetadata) Properties() []*PropertyMetadata {
	return c.order
}

func (c *ClassMetadata) property(name string) *PropertyMetadata {
	if p, ok := c.properties[name]; ok {
		return p
	}
	p := newPropertyMetadata(name)
	c.properties[name] = p
	c.order = append(c.order, p)
	return p
}

// AssembleProperties builds the class metadata from inspected details
func AssembleProperties(details *inspect.ClassDetails) *ClassMetadata {
	metadata := NewClassMetadata(details.Type)
	for _, property := range details.Properties() {
		p := metadata.property(property.Name)
		for _, getter := range property.Getters() {
			p.AddGetter(metadata.ResolveTypeVariables(getter))
		}
		for _, setter := range property.Setters() {
			p.AddSetter(setter)
		}
		if property.Field != nil {
			p.BackingField = property.Field
		}
	}
	for _, method := range details.InstanceMethods {
		if len(method.Params) != 1 {
			continue
		}
		if p := metadata.Property(method.Name); p != nil {
			p.AddSetMethod(method)
		}
	}
	return metadata
}
