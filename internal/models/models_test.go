package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignability(t *testing.T) {
	tests := []struct {
		name   string
		target *Type
		from   *Type
		want   bool
	}{
		{"same type", String, String, true},
		{"object accepts reference types", Object, RegularFileProperty, true},
		{"object rejects primitives", Object, Int, false},
		{"provider from file property", Provider, RegularFileProperty, true},
		{"property from list property", Property, ListProperty, false},
		{"iterable from file tree", Iterable, ConfigurableFileTree, true},
		{"multiple values from set property", HasMultipleValues, SetProperty, true},
		{"unrelated", ServiceRegistry, String, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.IsAssignableFrom(tt.from); got != tt.want {
				t.Errorf("%s.IsAssignableFrom(%s) = %v, want %v", tt.target, tt.from, got, tt.want)
			}
		})
	}
}

func TestInterfaceMethodsAreImplicitlyAbstract(t *testing.T) {
	named := NewInterface("Named").
		WithMethods(
			Getter("getName", Ref(String)),
			Getter("getDisplayName", Ref(String)).Default(),
		).
		Build()

	require.Len(t, named.Methods, 2)
	assert.True(t, named.Methods[0].IsAbstract())
	assert.False(t, named.Methods[1].IsAbstract())
	assert.Equal(t, named, named.Methods[0].Owner)
	assert.True(t, named.IsAbstract())
}

func TestTypeRefString(t *testing.T) {
	ref := Ref(MapProperty, Ref(String), Ref(List, Ref(RegularFile)))
	assert.Equal(t, "MapProperty<String, List<RegularFile>>", ref.String())
	assert.Equal(t, "T", VarRef("T").String())
	assert.Equal(t, "void", TypeRef{}.String())
	assert.Equal(t, Object, VarRef("T").Raw())
}

func TestSupertypeArgsFollowBindings(t *testing.T) {
	args, ok := SupertypeArgs(Ref(RegularFileProperty), Provider)
	require.True(t, ok)
	require.Len(t, args, 1)
	assert.Equal(t, RegularFile, args[0].Type)

	args, ok = SupertypeArgs(Ref(ListProperty, Ref(String)), Provider)
	require.True(t, ok)
	assert.Equal(t, "List<String>", args[0].String())

	_, ok = SupertypeArgs(Ref(String), Provider)
	assert.False(t, ok)
}

func TestIsSubtypeOf(t *testing.T) {
	assert.True(t, IsSubtypeOf(Ref(RegularFileProperty), Ref(Provider)))
	assert.True(t, IsSubtypeOf(Ref(RegularFileProperty), Ref(Provider, Ref(RegularFile))))
	assert.False(t, IsSubtypeOf(Ref(RegularFileProperty), Ref(Provider, Ref(Directory))))
	assert.False(t, IsSubtypeOf(Ref(String), Ref(Provider)))
}

func TestResolveIn(t *testing.T) {
	base := NewClass("Base").
		Abstract().
		WithTypeParams("T").
		WithMethods(Getter("getValue", VarRef("T")).Abstract()).
		Build()
	child := NewClass("Child").
		Abstract().
		Extends(Ref(base, Ref(String))).
		Build()

	resolved := ResolveIn(child, base, base.Methods[0].Return)
	assert.Equal(t, String, resolved.Type)

	unrelated := NewClass("Other").Build()
	assert.True(t, ResolveIn(unrelated, base, base.Methods[0].Return).IsVar())
}

func TestInheritedAnnotation(t *testing.T) {
	marker := NewAnnotationType("Marker").Build()
	root := NewInterface("Root").Annotate(NewAnnotation(marker)).Build()
	mid := NewClass("Mid").Implements(Ref(root)).Build()
	leaf := NewClass("Leaf").Extends(Ref(mid)).Build()

	if leaf.InheritedAnnotation(marker) == nil {
		t.Fatal("expected annotation inherited through the interface")
	}
	if leaf.Annotation(marker) != nil {
		t.Error("expected no directly declared annotation")
	}
}

func TestDescribe(t *testing.T) {
	outer := NewClass("Outer").Build()
	inner := NewClass("Inner").EnclosedBy(outer).
		WithMethods(Setter("setThing", Ref(String))).
		Build()

	assert.Equal(t, "Outer.Inner", DescribeType(inner))
	assert.Equal(t, "Outer.Inner.setThing()", DescribeMethod(inner.Methods[0]))
	assert.Equal(t, "setThing(String)", DescribeSignature(inner.Methods[0]))
	assert.Equal(t, "@Inject", DescribeAnnotation(Inject))
}

func TestPublicConstructors(t *testing.T) {
	implicit := NewClass("Bean").Build()
	ctors := implicit.PublicConstructors()
	require.Len(t, ctors, 1)
	assert.Empty(t, ctors[0].Params)

	explicit := NewClass("Bean").
		WithConstructorMods(ModPrivate).
		WithConstructor(Ref(String)).
		Build()
	ctors = explicit.PublicConstructors()
	require.Len(t, ctors, 1)
	assert.Equal(t, 1, ctors[0].Index)

	assert.Empty(t, NewInterface("Iface").Build().PublicConstructors())
}

func TestUniverse(t *testing.T) {
	u := NewUniverse()
	got, ok := u.Lookup("Provider")
	require.True(t, ok)
	assert.Same(t, Provider, got)

	task := NewClass("Task").WithPackage("sample").Build()
	require.NoError(t, u.Define(task))
	assert.Same(t, task, u.MustLookup("sample.Task"))
	assert.Error(t, u.Define(NewClass("Task").Build()))
	assert.Equal(t, []*Type{task}, u.Types())
}

func TestModifiers(t *testing.T) {
	mods := ModPublic | ModAbstract
	assert.Equal(t, "public abstract", mods.String())
	mod, ok := ParseModifier("final")
	assert.True(t, ok)
	assert.Equal(t, ModFinal, mod)
	_, ok = ParseModifier("volatile")
	assert.False(t, ok)
}
