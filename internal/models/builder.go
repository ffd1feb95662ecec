package models

// TypeBuilder provides a fluent interface for building type descriptors
type TypeBuilder struct {
	t *Type
}

// NewClass starts a public class descriptor
func NewClass(name string) *TypeBuilder {
	return &TypeBuilder{t: &Type{Name: name, Kind: KindClass, Modifiers: ModPublic}}
}

// NewInterface starts a public interface descriptor
func NewInterface(name string) *TypeBuilder {
	return &TypeBuilder{t: &Type{Name: name, Kind: KindInterface, Modifiers: ModPublic}}
}

// NewAnnotationType starts an annotation type descriptor
func NewAnnotationType(name string) *TypeBuilder {
	return &TypeBuilder{t: &Type{Name: name, Kind: KindAnnotation, Modifiers: ModPublic}}
}

// WithPackage sets the package
func (b *TypeBuilder) WithPackage(pkg string) *TypeBuilder {
	b.t.Package = pkg
	return b
}

// Abstract marks the type abstract
func (b *TypeBuilder) Abstract() *TypeBuilder {
	b.t.Modifiers |= ModAbstract
	return b
}

// Final marks the type final
func (b *TypeBuilder) Final() *TypeBuilder {
	b.t.Modifiers |= ModFinal
	return b
}

// Static marks an enclosed type static
func (b *TypeBuilder) Static() *TypeBuilder {
	b.t.Modifiers |= ModStatic
	return b
}

// WithTypeParams declares type parameters
func (b *TypeBuilder) WithTypeParams(params ...string) *TypeBuilder {
	b.t.TypeParams = append(b.t.TypeParams, params...)
	return b
}

// Extends sets the superclass
func (b *TypeBuilder) Extends(super TypeRef) *TypeBuilder {
	b.t.Super = &super
	return b
}

// Implements adds interfaces
func (b *TypeBuilder) Implements(refs ...TypeRef) *TypeBuilder {
	b.t.Interfaces = append(b.t.Interfaces, refs...)
	return b
}

// EnclosedBy nests the type inside outer
func (b *TypeBuilder) EnclosedBy(outer *Type) *TypeBuilder {
	b.t.Enclosing = outer
	return b
}

// Annotate attaches annotation instances
func (b *TypeBuilder) Annotate(annotations ...Annotation) *TypeBuilder {
	b.t.Annotations = append(b.t.Annotations, annotations...)
	return b
}

// WithMethods declares methods
func (b *TypeBuilder) WithMethods(methods ...*MethodBuilder) *TypeBuilder {
	for _, m := range methods {
		b.t.AddMethod(m.m)
	}
	return b
}

// WithField declares a field
func (b *TypeBuilder) WithField(name string, t TypeRef, mods ...Modifiers) *TypeBuilder {
	f := &Field{Name: name, Type: t, Modifiers: ModPrivate}
	for _, mod := range mods {
		f.Modifiers |= mod
	}
	b.t.AddField(f)
	return b
}

// WithConstructor declares a public constructor
func (b *TypeBuilder) WithConstructor(params ...TypeRef) *TypeBuilder {
	b.t.AddConstructor(&Constructor{Params: params, Modifiers: ModPublic})
	return b
}

// WithConstructorMods declares a constructor with explicit modifiers
func (b *TypeBuilder) WithConstructorMods(mods Modifiers, params ...TypeRef) *TypeBuilder {
	b.t.AddConstructor(&Constructor{Params: params, Modifiers: mods})
	return b
}

// Build returns the descriptor
func (b *TypeBuilder) Build() *Type {
	return b.t
}

// MethodBuilder provides a fluent interface for building methods
type MethodBuilder struct {
	m *Method
}

// NewMethod starts a public method descriptor returning void
func NewMethod(name string) *MethodBuilder {
	return &MethodBuilder{m: &Method{Name: name, Modifiers: ModPublic}}
}

// Getter starts a public getX method returning t
func Getter(name string, t TypeRef) *MethodBuilder {
	return NewMethod(name).Returns(t)
}

// Setter starts a public single-argument method
func Setter(name string, t TypeRef) *MethodBuilder {
	return NewMethod(name).WithParams(t)
}

// Returns sets the return type
func (b *MethodBuilder) Returns(t TypeRef) *MethodBuilder {
	b.m.Return = t
	return b
}

// WithParams sets the parameter types
func (b *MethodBuilder) WithParams(params ...TypeRef) *MethodBuilder {
	b.m.Params = append(b.m.Params, params...)
	return b
}

// Abstract marks the method abstract
func (b *MethodBuilder) Abstract() *MethodBuilder {
	b.m.Modifiers |= ModAbstract
	return b
}

// Final marks the method final
func (b *MethodBuilder) Final() *MethodBuilder {
	b.m.Modifiers |= ModFinal
	return b
}

// Static marks the method static
func (b *MethodBuilder) Static() *MethodBuilder {
	b.m.Modifiers |= ModStatic
	return b
}

// Bridge marks the method as a compiler bridge
func (b *MethodBuilder) Bridge() *MethodBuilder {
	b.m.Modifiers |= ModBridge | ModSynthetic
	return b
}

// Default marks an interface method as having a body
func (b *MethodBuilder) Default() *MethodBuilder {
	b.m.Modifiers |= ModDefault
	return b
}

// Visibility replaces the visibility bits
func (b *MethodBuilder) Visibility(mod Modifiers) *MethodBuilder {
	b.m.Modifiers &^= ModPublic | ModProtected | ModPrivate
	b.m.Modifiers |= mod
	return b
}

// Annotate attaches annotation instances
func (b *MethodBuilder) Annotate(annotations ...Annotation) *MethodBuilder {
	b.m.Annotations = append(b.m.Annotations, annotations...)
	return b
}

// Build returns the method (without an owner until added to a type)
func (b *MethodBuilder) Build() *Method {
	return b.m
}
