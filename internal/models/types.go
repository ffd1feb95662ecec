package models

import (
	"sort"
	"strings"
)

// Kind classifies a type descriptor
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindAnnotation
	KindPrimitive
)

// String returns the declaration keyword for the kind
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindAnnotation:
		return "annotation"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Modifiers is a bit set of member and type modifiers
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModProtected
	ModPrivate
	ModAbstract
	ModFinal
	ModStatic
	ModSynthetic
	ModBridge
	ModDefault
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModFinal, "final"},
	{ModStatic, "static"},
	{ModSynthetic, "synthetic"},
	{ModBridge, "bridge"},
	{ModDefault, "default"},
}

// Has reports whether every bit of f is set
func (m Modifiers) Has(f Modifiers) bool {
	return m&f == f
}

// IsPublic reports the public modifier
func (m Modifiers) IsPublic() bool { return m.Has(ModPublic) }

// IsProtected reports the protected modifier
func (m Modifiers) IsProtected() bool { return m.Has(ModProtected) }

// IsPrivate reports the private modifier
func (m Modifiers) IsPrivate() bool { return m.Has(ModPrivate) }

// IsAbstract reports the abstract modifier
func (m Modifiers) IsAbstract() bool { return m.Has(ModAbstract) }

// IsFinal reports the final modifier
func (m Modifiers) IsFinal() bool { return m.Has(ModFinal) }

// IsStatic reports the static modifier
func (m Modifiers) IsStatic() bool { return m.Has(ModStatic) }

// String renders the modifiers in declaration order
func (m Modifiers) String() string {
	var parts []string
	for _, entry := range modifierNames {
		if m.Has(entry.mod) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier maps a keyword to its modifier bit
func ParseModifier(keyword string) (Modifiers, bool) {
	for _, entry := range modifierNames {
		if entry.name == keyword {
			return entry.mod, true
		}
	}
	return 0, false
}

// Type is the static description of a source or generated type
type Type struct {
	Name         string
	Package      string
	Kind         Kind
	Modifiers    Modifiers
	TypeParams   []string
	Super        *TypeRef
	Interfaces   []TypeRef
	Enclosing    *Type
	Annotations  []Annotation
	Methods      []*Method
	Fields       []*Field
	Constructors []*Constructor

	// Generated marks types emitted by a backend
	Generated bool
}

// DisplayName is the name used in messages: enclosing types joined with '.'
func (t *Type) DisplayName() string {
	if t == nil {
		return "<nil>"
	}
	if t.Enclosing != nil {
		return t.Enclosing.DisplayName() + "." + t.Name
	}
	return t.Name
}

// QualifiedName is the display name prefixed by the package
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.DisplayName()
	}
	return t.Package + "." + t.DisplayName()
}

// String implements fmt.Stringer
func (t *Type) String() string {
	return t.DisplayName()
}

// IsInterface reports whether the type is an interface
func (t *Type) IsInterface() bool { return t.Kind == KindInterface }

// IsAnnotation reports whether the type is an annotation type
func (t *Type) IsAnnotation() bool { return t.Kind == KindAnnotation }

// IsPrimitive reports whether the type is a primitive
func (t *Type) IsPrimitive() bool { return t.Kind == KindPrimitive }

// IsAbstract is true for abstract classes and every interface
func (t *Type) IsAbstract() bool {
	return t.Modifiers.IsAbstract() || t.Kind == KindInterface || t.Kind == KindAnnotation
}

// IsStatic reports the static modifier (meaningful for enclosed types)
func (t *Type) IsStatic() bool { return t.Modifiers.IsStatic() }

// Annotation returns the annotation of the given type declared directly on t
func (t *Type) Annotation(annotationType *Type) *Annotation {
	return findAnnotation(t.Annotations, annotationType)
}

// HasAnnotation reports a directly declared annotation
func (t *Type) HasAnnotation(annotationType *Type) bool {
	return t.Annotation(annotationType) != nil
}

// AddMethod declares a method on t. Interface methods become abstract unless
// they are default or static.
func (t *Type) AddMethod(m *Method) *Method {
	m.Owner = t
	if t.IsInterface() && !m.Modifiers.Has(ModDefault) && !m.Modifiers.IsStatic() {
		m.Modifiers |= ModAbstract
	}
	t.Methods = append(t.Methods, m)
	return m
}

// AddField declares a field on t
func (t *Type) AddField(f *Field) *Field {
	f.Owner = t
	t.Fields = append(t.Fields, f)
	return f
}

// AddConstructor declares a constructor on t
func (t *Type) AddConstructor(c *Constructor) *Constructor {
	c.Owner = t
	c.Index = len(t.Constructors)
	t.Constructors = append(t.Constructors, c)
	return c
}

// PublicConstructors returns the public constructors. A class that declares
// none has an implicit public no-argument constructor.
func (t *Type) PublicConstructors() []*Constructor {
	if len(t.Constructors) == 0 && t.Kind == KindClass {
		return []*Constructor{{Owner: t, Modifiers: ModPublic}}
	}
	var result []*Constructor
	for _, c := range t.Constructors {
		if c.Modifiers.IsPublic() {
			result = append(result, c)
		}
	}
	return result
}

// Method is a declared method
type Method struct {
	Name        string
	Owner       *Type
	Params      []TypeRef
	Return      TypeRef
	Modifiers   Modifiers
	Annotations []Annotation
}

// ParamTypes returns the erased parameter types
func (m *Method) ParamTypes() []*Type {
	types := make([]*Type, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Raw()
	}
	return types
}

// ReturnType returns the erased return type
func (m *Method) ReturnType() *Type {
	if m.Return.IsZero() {
		return Void
	}
	return m.Return.Raw()
}

// GenericReturnType returns the declared return type, void when absent
func (m *Method) GenericReturnType() TypeRef {
	if m.Return.IsZero() {
		return Ref(Void)
	}
	return m.Return
}

// IsAbstract reports the abstract modifier
func (m *Method) IsAbstract() bool { return m.Modifiers.IsAbstract() }

// IsFinal reports the final modifier
func (m *Method) IsFinal() bool { return m.Modifiers.IsFinal() }

// IsStatic reports the static modifier
func (m *Method) IsStatic() bool { return m.Modifiers.IsStatic() }

// IsBridge reports the bridge modifier
func (m *Method) IsBridge() bool { return m.Modifiers.Has(ModBridge) }

// IsSynthetic reports the synthetic modifier
func (m *Method) IsSynthetic() bool { return m.Modifiers.Has(ModSynthetic) }

// Annotation returns the annotation of the given type, or nil
func (m *Method) Annotation(annotationType *Type) *Annotation {
	return findAnnotation(m.Annotations, annotationType)
}

// HasAnnotation reports whether the method carries the annotation
func (m *Method) HasAnnotation(annotationType *Type) bool {
	return m.Annotation(annotationType) != nil
}

// Signature identifies a method for override shadowing: name plus erased
// parameter types.
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.ParamTypes() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.QualifiedName())
	}
	b.WriteByte(')')
	return b.String()
}

// String renders Owner.name()
func (m *Method) String() string {
	return DescribeMethod(m)
}

// Field is a declared field
type Field struct {
	Name        string
	Owner       *Type
	Type        TypeRef
	Modifiers   Modifiers
	Annotations []Annotation
}

// IsStatic reports the static modifier
func (f *Field) IsStatic() bool { return f.Modifiers.IsStatic() }

// IsSynthetic reports the synthetic modifier
func (f *Field) IsSynthetic() bool { return f.Modifiers.Has(ModSynthetic) }

// Annotation returns the annotation of the given type, or nil
func (f *Field) Annotation(annotationType *Type) *Annotation {
	return findAnnotation(f.Annotations, annotationType)
}

// Constructor is a declared constructor
type Constructor struct {
	Owner       *Type
	Params      []TypeRef
	Modifiers   Modifiers
	Annotations []Annotation

	// Index is the declaration position on the owner
	Index int
}

// ParamTypes returns the erased parameter types
func (c *Constructor) ParamTypes() []*Type {
	types := make([]*Type, len(c.Params))
	for i, p := range c.Params {
		types[i] = p.Raw()
	}
	return types
}

// Annotation returns the annotation of the given type, or nil
func (c *Constructor) Annotation(annotationType *Type) *Annotation {
	return findAnnotation(c.Annotations, annotationType)
}

// Annotation is an annotation instance attached to a declaration
type Annotation struct {
	Type *Type
	Args map[string]AnnotationArg
}

// AnnotationArg is either a string literal or a list of type references
type AnnotationArg struct {
	Text  string
	Types []TypeRef
}

// NewAnnotation creates an annotation instance without arguments
func NewAnnotation(t *Type) Annotation {
	return Annotation{Type: t}
}

// WithTypes returns a copy of a carrying a type-list argument
func (a Annotation) WithTypes(name string, types ...TypeRef) Annotation {
	args := make(map[string]AnnotationArg, len(a.Args)+1)
	for k, v := range a.Args {
		args[k] = v
	}
	args[name] = AnnotationArg{Types: types}
	a.Args = args
	return a
}

// Types returns the type-list argument with the given name
func (a Annotation) Types(name string) []TypeRef {
	return a.Args[name].Types
}

// ArgNames returns the argument names in sorted order
func (a Annotation) ArgNames() []string {
	names := make([]string, 0, len(a.Args))
	for name := range a.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders @Name
func (a Annotation) String() string {
	return DescribeAnnotation(a.Type)
}

func findAnnotation(annotations []Annotation, annotationType *Type) *Annotation {
	for i := range annotations {
		if annotations[i].Type == annotationType {
			return &annotations[i]
		}
	}
	return nil
}
