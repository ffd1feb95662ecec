package plan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
)

func propertyOf(t *testing.T, source *models.Type, name string) *generator.PropertyMetadata {
	t.Helper()
	p := generator.AssembleProperties(inspect.Inspect(source)).Property(name)
	require.NotNil(t, p, "property %s", name)
	return p
}

func TestRecorderDefaults(t *testing.T) {
	source := models.NewClass("Task").WithPackage("build").Build()
	r := NewRecorder(source, "", nil)

	generated, err := r.Generate()
	require.NoError(t, err)
	assert.Equal(t, "Task_Decorated", generated.Name)
	assert.Equal(t, "build", generated.Package)
	assert.True(t, generated.Generated)
	require.NotNil(t, generated.Super)
	assert.Same(t, source, generated.Super.Type)
	assert.True(t, models.GeneratedSubclass.IsAssignableFrom(generated))
	assert.Same(t, generated, r.Plan().Generated)
	assert.Empty(t, r.Plan().Directives)
}

func TestRecorderCustomSuffix(t *testing.T) {
	source := models.NewInterface("Named").Build()
	r := NewRecorder(source, "_Impl", nil)

	generated, err := r.Generate()
	require.NoError(t, err)
	assert.Equal(t, "Named_Impl", generated.Name)
	assert.Nil(t, generated.Super)
	assert.True(t, source.IsAssignableFrom(generated))
}

func TestMixInConventionAwarePhases(t *testing.T) {
	source := models.NewClass("Task").Build()
	r := NewRecorder(source, "", nil)

	r.MixInConventionAware()
	assert.True(t, r.Plan().ConventionAware)
	assert.False(t, r.Has(MixInConventionAware), "inspection only sets the flag")

	builder, err := r.Builder()
	require.NoError(t, err)
	builder.MixInConventionAware()
	assert.True(t, r.Has(MixInConventionAware))

	generated, err := r.Generate()
	require.NoError(t, err)
	assert.True(t, models.ConventionAware.IsAssignableFrom(generated))
}

func TestRecorderFlags(t *testing.T) {
	source := models.NewClass("Task").Build()
	r := NewRecorder(source, "", nil)

	r.MixInExtensible()
	r.ProvidesOwnDynamicObjectImplementation()
	r.ProvidesOwnServicesImplementation()
	r.ProvidesOwnToString()
	r.MixInFullyManagedState()
	r.MixInServiceInjection()
	r.InstantiatesNestedObjects()

	assert.Equal(t, Flags{
		Extensible:       true,
		OwnDynamicObject: true,
		OwnServices:      true,
		OwnToString:      true,
		FullyManaged:     true,
		ServiceInjection: true,
		NestedObjects:    true,
	}, r.Plan().Flags)

	generated, err := r.Generate()
	require.NoError(t, err)
	assert.True(t, models.ExtensionAware.IsAssignableFrom(generated))
	assert.True(t, models.Managed.IsAssignableFrom(generated))
}

func TestMixinsAlreadyImplementedAreSkipped(t *testing.T) {
	source := models.NewClass("Aware").Implements(models.Ref(models.DynamicObjectAware)).Build()
	r := NewRecorder(source, "", nil)
	builder, err := r.Builder()
	require.NoError(t, err)
	builder.MixInDynamicAware()
	builder.MixInDynamicObject()

	generated, err := r.Generate()
	require.NoError(t, err)

	var names []string
	for _, ref := range generated.Interfaces {
		names = append(names, ref.String())
	}
	assert.Equal(t, []string{"GeneratedSubclass", "DynamicObjectProtocol"}, names)
}

func TestRecorderConstructors(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v generator.ClassGenerationVisitor, c *models.Constructor)
		want  []string
	}{
		{
			name:  "source constructor",
			apply: func(v generator.ClassGenerationVisitor, c *models.Constructor) { v.AddConstructor(c, false) },
			want:  []string{"[int]"},
		},
		{
			name:  "name parameter prepended",
			apply: func(v generator.ClassGenerationVisitor, c *models.Constructor) { v.AddConstructor(c, true) },
			want:  []string{"[String int]"},
		},
		{
			name:  "default constructor",
			apply: func(v generator.ClassGenerationVisitor, _ *models.Constructor) { v.AddDefaultConstructor() },
			want:  []string{"[]"},
		},
		{
			name:  "name constructor",
			apply: func(v generator.ClassGenerationVisitor, _ *models.Constructor) { v.AddNameConstructor() },
			want:  []string{"[String]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := models.NewClass("Task").WithConstructor(models.Ref(models.Int)).Build()
			r := NewRecorder(source, "", nil)
			builder, err := r.Builder()
			require.NoError(t, err)
			tt.apply(builder, source.Constructors[0])

			generated, err := r.Generate()
			require.NoError(t, err)
			var got []string
			for _, c := range generated.Constructors {
				assert.Same(t, generated, c.Owner)
				got = append(got, fmt.Sprint(c.ParamTypes()))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecorderEmit(t *testing.T) {
	source := models.NewClass("Task").Build()

	var emitted *ClassPlan
	r := NewRecorder(source, "", func(p *ClassPlan) error {
		emitted = p
		return nil
	})
	_, err := r.Generate()
	require.NoError(t, err)
	assert.Same(t, r.Plan(), emitted)

	failing := NewRecorder(source, "", func(*ClassPlan) error {
		return fmt.Errorf("disk full")
	})
	_, err = failing.Generate()
	assert.EqualError(t, err, "disk full")
}

func TestPlanQueries(t *testing.T) {
	source := models.NewClass("Bean").Abstract().
		WithMethods(
			models.Getter("getLabel", models.Ref(models.String)).Abstract(),
			models.Setter("setLabel", models.Ref(models.String)).Abstract(),
			models.Getter("getVersion", models.Ref(models.Property, models.Ref(models.String))).Abstract(),
		).
		Build()
	label := propertyOf(t, source, "label")
	version := propertyOf(t, source, "version")

	r := NewRecorder(source, "", nil)
	r.MarkPropertyAsIneligibleForConventionMapping(version)
	r.AttachDuringConstruction(version, true)
	builder, err := r.Builder()
	require.NoError(t, err)
	builder.ApplyManagedStateToProperty(label)
	builder.ApplyManagedStateToGetter(label, label.MainGetter.Method)
	builder.AddSetMethod(label, label.Setters[0])
	builder.AddPropertySetterOverloads(version, version.MainGetter)
	builder.AddManagedMethods([]*generator.PropertyMetadata{label}, []*generator.PropertyMetadata{version})

	p := r.Plan()
	assert.Len(t, p.Find(ApplyManagedStateToGetter, "label"), 1)
	assert.Empty(t, p.Find(ApplyManagedStateToGetter, "version"))
	assert.Len(t, p.ForProperty("label"), 3)
	assert.Len(t, p.Find(AddManagedMethods, ""), 1)
	assert.Equal(t, []DirectiveKind{
		ApplyManagedStateToProperty,
		ApplyManagedStateToGetter,
		AddSetMethod,
		AddPropertySetterOverloads,
		AddManagedMethods,
	}, p.Kinds())
	assert.True(t, p.IsIneligible("version"))
	assert.False(t, p.IsIneligible("label"))

	description := p.Describe()
	assert.Contains(t, description, "Bean\n")
	assert.Contains(t, description, "  attach: version [applyRole]\n")
	assert.Contains(t, description, "  ineligible: version\n")
	assert.Contains(t, description, "  AddSetMethod label setLabel(String)\n")
	assert.Contains(t, description, "  AddPropertySetterOverloads version getVersion()\n")
	assert.Contains(t, description, "  AddManagedMethods mutable=1 readOnly=1\n")
}

func TestDirectiveString(t *testing.T) {
	c := &models.Constructor{Params: []models.TypeRef{models.Ref(models.Int)}}
	tests := []struct {
		directive Directive
		want      string
	}{
		{Directive{Kind: AddDynamicMethods}, "AddDynamicMethods"},
		{Directive{Kind: AddConstructor, Constructor: c, AddNameParameter: true}, "AddConstructor (int) [name]"},
		{Directive{Kind: DirectiveKind(99)}, "DirectiveKind(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.directive.String())
		})
	}
}
