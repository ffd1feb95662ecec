package runtime

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

type fixture struct {
	backend      *Backend
	generator    *generator.Generator
	instantiator *Instantiator
}

func newFixture(t *testing.T, services decor.ServiceLookup, opts ...Option) *fixture {
	t.Helper()
	backend := NewBackend(opts...)
	g := generator.New(backend, generator.WithRoleHandler(backend.roles))
	return &fixture{backend: backend, generator: g, instantiator: NewInstantiator(g, services)}
}

func (f *fixture) new(t *testing.T, source *models.Type, params ...any) *Object {
	t.Helper()
	o, err := f.instantiator.New(source, params...)
	require.NoError(t, err)
	return o
}

func invoke(t *testing.T, o *Object, name string, args ...any) any {
	t.Helper()
	v, err := o.Invoke(name, args...)
	require.NoError(t, err)
	return v
}

func TestNamedObject(t *testing.T) {
	named := models.NewInterface("Named").
		WithMethods(models.Getter("getName", models.Ref(models.String))).
		Build()
	f := newFixture(t, nil)

	o := f.new(t, named, "alpha")
	assert.Equal(t, "alpha", invoke(t, o, "getName"))
	assert.Equal(t, "alpha", o.Name())
	assert.True(t, strings.HasPrefix(o.String(), "Named_Decorated@"), o.String())

	_, err := f.instantiator.New(named)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No constructor of Named_Decorated accepts 0 argument(s)")
}

func TestObjectIdentity(t *testing.T) {
	named := models.NewInterface("Named").
		WithMethods(models.Getter("getName", models.Ref(models.String))).
		Build()
	f := newFixture(t, nil)

	first := f.new(t, named, "alpha")
	second := f.new(t, named, "alpha")
	assert.NotEqual(t, first.id, second.id)
	assert.NotEqual(t, first.String(), second.String())

	id, err := uuid.Parse(strings.TrimPrefix(first.String(), "Named_Decorated@"))
	require.NoError(t, err)
	assert.Equal(t, first.id, id)
}

func TestMutableManagedProperty(t *testing.T) {
	bean := models.NewClass("Bean").Abstract().
		WithMethods(
			models.Getter("getLabel", models.Ref(models.String)).Abstract(),
			models.Setter("setLabel", models.Ref(models.String)).Abstract(),
			models.Getter("getCount", models.Ref(models.Int)).Abstract(),
			models.Setter("setCount", models.Ref(models.Int)).Abstract(),
		).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, bean)

	v, err := o.GetProperty("label")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 0, invoke(t, o, "getCount"), "unset primitives read as zero")

	require.NoError(t, o.SetProperty("label", "first"))
	assert.Equal(t, "first", invoke(t, o, "getLabel"))

	invoke(t, o, "label", "second")
	invoke(t, o, "count", 3)
	assert.Equal(t, "second", invoke(t, o, "getLabel"))
	assert.Equal(t, []any{"second", 3}, o.UnpackState())

	restored, err := f.instantiator.Deserialize(bean, nil, []any{"restored", 7})
	require.NoError(t, err)
	assert.Equal(t, "restored", invoke(t, restored, "getLabel"))
	assert.Equal(t, 7, invoke(t, restored, "getCount"))

	err = restored.InitFromState([]any{"too few"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 state values but got 1.")
}

func TestReadOnlyManagedValues(t *testing.T) {
	source := models.NewClass("Sources").Abstract().
		WithMethods(
			models.Getter("getFiles", models.Ref(models.ConfigurableFileCollection)).Abstract(),
			models.Getter("getVersion", models.Ref(models.Property, models.Ref(models.String))).Abstract(),
			models.Getter("getTags", models.Ref(models.ListProperty, models.Ref(models.String))).Abstract(),
		).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, source)

	files := invoke(t, o, "getFiles")
	require.IsType(t, &decor.FileCollection{}, files)
	assert.Same(t, files, invoke(t, o, "getFiles"))
	assert.Same(t, o, files.(*decor.FileCollection).Owner())
	assert.Equal(t, "files", files.(*decor.FileCollection).OwnerProperty())

	invoke(t, o, "setVersion", "1.0")
	version := invoke(t, o, "getVersion").(*decor.Property)
	assert.Equal(t, "1.0", version.GetOrNil())

	invoke(t, o, "setTags", []string{"a", "b"})
	tags := invoke(t, o, "getTags").(*decor.ListProperty)
	assert.Equal(t, []any{"a", "b"}, tags.Elements())

	state := o.UnpackState()
	require.Len(t, state, 3)
	assert.Same(t, files, state[0])
}

func TestConventionMapping(t *testing.T) {
	report := models.NewClass("Report").
		WithMethods(
			models.Getter("getDescription", models.Ref(models.String)),
			models.Setter("setDescription", models.Ref(models.String)),
			models.NewMethod("description").WithParams(models.Ref(models.String)),
			models.Getter("getTitle", models.Ref(models.String)),
			models.Setter("setTitle", models.Ref(models.String)),
		).
		Build()
	impls := NewImplementations().
		MustMethod(report, "description", func(self *Object, args []any) (any, error) {
			return self.Call("setDescription(String)", args[0])
		})
	f := newFixture(t, nil, WithImplementations(impls))

	t.Run("convention applies until set", func(t *testing.T) {
		o := f.new(t, report)
		require.NoError(t, o.ConventionMapping().MapValue("description", "default"))
		assert.Equal(t, "default", invoke(t, o, "getDescription"))

		invoke(t, o, "description", "explicit")
		assert.True(t, o.IsExplicitlySet("description"))
		assert.Equal(t, "explicit", invoke(t, o, "getDescription"))
	})

	t.Run("explicit empty value wins", func(t *testing.T) {
		o := f.new(t, report)
		require.NoError(t, o.ConventionMapping().Map("title", func() any { return "computed" }))
		assert.Equal(t, "computed", invoke(t, o, "getTitle"))

		invoke(t, o, "setTitle", nil)
		assert.Nil(t, invoke(t, o, "getTitle"))
	})

	t.Run("unknown property", func(t *testing.T) {
		o := f.new(t, report)
		err := o.ConventionMapping().MapValue("missing", "x")
		assert.EqualError(t, err, "You can't map a property that does not exist: propertyName=missing")
	})
}

func TestConventionMappingRefusesLazyProperties(t *testing.T) {
	source := models.NewClass("Archive").Abstract().
		WithMethods(models.Getter("getVersion", models.Ref(models.Property, models.Ref(models.String))).Abstract()).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, source)

	err := o.ConventionMapping().MapValue("version", "1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot use convention mapping for property 'version'")
	assert.Contains(t, err.Error(), "as it is a lazy property. Use its convention instead.")
}

func TestInjectedServiceIsLookedUpOnce(t *testing.T) {
	executor := models.NewInterface("Executor").Build()
	worker := models.NewClass("Worker").Abstract().
		WithConstructor(models.Ref(models.String)).
		WithMethods(models.Getter("getExecutor", models.Ref(executor)).Abstract().Annotate(models.NewAnnotation(models.Inject))).
		Build()
	impls := NewImplementations()
	require.NoError(t, impls.Constructor(worker, 1, func(self *Object, args []any) error {
		self.SetField("id", args[0])
		return nil
	}))

	var lookups atomic.Int32
	services := decor.NewServiceRegistry(nil).AddFactory("Executor", func() (any, error) {
		lookups.Add(1)
		return fmt.Sprintf("executor-%d", lookups.Load()), nil
	})
	f := newFixture(t, services, WithImplementations(impls))

	o := f.new(t, worker, "w1")
	id, ok := o.Field("id")
	require.True(t, ok)
	assert.Equal(t, "w1", id)

	assert.Equal(t, "executor-1", invoke(t, o, "getExecutor"))
	assert.Equal(t, "executor-1", invoke(t, o, "getExecutor"))
	assert.Equal(t, int32(1), lookups.Load())

	missing := newFixture(t, nil, WithImplementations(impls))
	o = missing.new(t, worker, "w2")
	_, err := o.Invoke("getExecutor")
	var serviceErr *decor.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "No service of type Executor available.", err.Error())
}

func TestActionMethodAcceptsClosure(t *testing.T) {
	configurable := models.NewClass("Configurable").
		WithMethods(models.NewMethod("configure").WithParams(models.Ref(models.Action, models.Ref(models.String)))).
		Build()
	impls := NewImplementations().
		MustMethod(configurable, "configure", func(self *Object, args []any) (any, error) {
			return nil, args[0].(decor.Action).Execute("payload")
		})
	f := newFixture(t, nil, WithImplementations(impls))
	o := f.new(t, configurable)

	var delegate any
	closure := decor.NewClosure(func(d any, _ ...any) (any, error) {
		delegate = d
		return nil, nil
	})
	_, err := o.Call("configure(Closure)", closure)
	require.NoError(t, err)
	assert.Equal(t, "payload", delegate)

	var executed any
	invoke(t, o, "configure", decor.ActionFunc(func(target any) error {
		executed = target
		return nil
	}))
	assert.Equal(t, "payload", executed)
}

func TestOwnToStringIsKept(t *testing.T) {
	custom := models.NewClass("Custom").
		WithMethods(models.Getter("toString", models.Ref(models.String))).
		Build()
	impls := NewImplementations().
		MustMethod(custom, "toString", func(*Object, []any) (any, error) { return "custom!", nil })
	f := newFixture(t, nil, WithImplementations(impls))

	o := f.new(t, custom)
	assert.Equal(t, "custom!", o.String())
	assert.Equal(t, "custom!", o.DisplayName())
}

func TestDynamicProperties(t *testing.T) {
	project := models.NewClass("Project").Build()
	f := newFixture(t, nil)
	o := f.new(t, project)

	extensions := o.Extensions()
	require.NotNil(t, extensions)
	extension := decor.NewProperty()
	require.NoError(t, extensions.Add("publishing", extension))
	extensions.SetExtra("flavor", "vanilla")

	assert.True(t, o.HasProperty("publishing"))
	v, err := o.GetProperty("publishing")
	require.NoError(t, err)
	assert.Same(t, extension, v)
	v, err = o.GetProperty("flavor")
	require.NoError(t, err)
	assert.Equal(t, "vanilla", v)

	_, err = o.GetProperty("unknown")
	var missing *decor.MissingPropertyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "unknown", missing.Property)

	err = o.SetProperty("unknown", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not set unknown property 'unknown'")

	assert.Same(t, extensions, invoke(t, o, "getExtensions"))
	assert.Same(t, o, o.AsDynamicObject())
	assert.True(t, o.HasMethod("getExtensions"))
	assert.False(t, o.HasMethod("getExtensions", "extra"))
}

func TestNonExtensibleObject(t *testing.T) {
	plain := models.NewClass("Plain").
		Annotate(models.NewAnnotation(models.NonExtensible)).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, plain)

	assert.Nil(t, o.Extensions())
	assert.Nil(t, o.ConventionMapping())
	_, err := o.Invoke("getExtensions")
	assert.Error(t, err)
}

func TestCallErrors(t *testing.T) {
	task := models.NewClass("Task").
		WithMethods(models.NewMethod("run").WithParams(models.Ref(models.String))).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, task)

	_, err := o.Call("run(String)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Method run(String) expects 1 arguments but got 0.")

	_, err = o.Call("walk()")
	var missing *decor.MissingMethodError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "walk()", missing.Method)

	_, err = o.Invoke("run", "fast")
	assert.NoError(t, err, "concrete methods without a body are no-ops")
}

func TestAbstractMethodOnConcreteTypeFailsWhenCalled(t *testing.T) {
	lenient := models.NewClass("Lenient").
		WithMethods(models.NewMethod("run").Abstract()).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, lenient)

	_, err := o.Invoke("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Method Lenient.run() is abstract and has no implementation.")
}

func TestConstructorArgumentValidation(t *testing.T) {
	task := models.NewClass("Task").WithConstructor(models.Ref(models.Int)).Build()
	f := newFixture(t, nil)
	class, err := f.generator.Generate(task)
	require.NoError(t, err)
	require.Len(t, class.Constructors(), 1)
	c := class.Constructors()[0]

	_, err = c.NewInstance(nil, f.instantiator, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 1 constructor arguments but got 0.")

	_, err = c.NewInstance(nil, f.instantiator, nil, "one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Constructor argument 1 has type string, expected int.")

	v, err := c.NewInstance(nil, f.instantiator, decor.Name("task ':compile'"), 1)
	require.NoError(t, err)
	assert.Equal(t, "task ':compile'", v.(*Object).String())
}

func TestEagerAttachAppliesRole(t *testing.T) {
	output := models.NewAnnotationType("Output").Build()
	compileTask := models.NewClass("Compile").
		WithField("out", models.Ref(models.RegularFileProperty)).
		WithMethods(models.Getter("getOut", models.Ref(models.RegularFileProperty)).Final().Annotate(models.NewAnnotation(output))).
		Build()
	impls := NewImplementations()
	require.NoError(t, impls.Constructor(compileTask, 0, func(self *Object, _ []any) error {
		self.SetField("out", decor.NewRegularFileProperty())
		return nil
	}))
	f := newFixture(t, nil, WithImplementations(impls), WithRoles(annotations.NewProducerRoleHandler(output)))

	o := f.new(t, compileTask)
	out := invoke(t, o, "getOut").(*decor.FileProperty)
	assert.Same(t, o, out.Owner())
	assert.Equal(t, "out", out.OwnerProperty())
	assert.Same(t, o, out.Producer())
}

func TestNamedContainerCreatesNestedObjects(t *testing.T) {
	target := models.NewClass("Target").Abstract().
		WithMethods(models.Getter("getName", models.Ref(models.String)).Abstract()).
		Build()
	project := models.NewClass("Project").Abstract().
		WithMethods(models.Getter("getTargets", models.Ref(models.NamedDomainObjectContainer, models.Ref(target))).Abstract()).
		Build()
	f := newFixture(t, nil)
	o := f.new(t, project)

	targets := invoke(t, o, "getTargets").(*decor.NamedContainer)
	element, err := targets.Create("main", nil)
	require.NoError(t, err)
	nested := element.(*Object)
	assert.Equal(t, "main", invoke(t, nested, "getName"))
	assert.Equal(t, "main", nested.String())
	assert.Same(t, element, targets.FindByName("main"))

	_, err = targets.Create("main", nil)
	assert.Error(t, err)
}

func TestNestedPropertyUsesOwnerDisplayName(t *testing.T) {
	child := models.NewClass("Child").Build()
	parent := models.NewClass("Parent").Abstract().
		WithMethods(models.Getter("getChild", models.Ref(child)).Abstract().Annotate(models.NewAnnotation(models.Nested))).
		Build()
	f := newFixture(t, nil)

	v, err := f.instantiator.NewInstance(parent, decor.Name("parent"))
	require.NoError(t, err)
	o := v.(*Object)

	nested := invoke(t, o, "getChild").(*Object)
	assert.Equal(t, "parent property 'child'", nested.String())
	assert.Same(t, nested, invoke(t, o, "getChild"))
}

func TestBackendCountsCompiledClasses(t *testing.T) {
	f := newFixture(t, nil)
	first := models.NewClass("First").Build()
	second := models.NewClass("Second").Build()

	for _, source := range []*models.Type{first, second, first} {
		_, err := f.generator.Generate(source)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.backend.Emitted())

	class, err := f.generator.Generate(first)
	require.NoError(t, err)
	compiled, ok := f.backend.Class(class.GeneratedType())
	require.True(t, ok)
	assert.Same(t, first, compiled.Source())
	assert.Contains(t, compiled.Signatures(), "getExtensions()")
	assert.Contains(t, compiled.Signatures(), "toString()")
}

func TestSerializationRequiresSupertype(t *testing.T) {
	f := newFixture(t, nil)
	source := models.NewClass("Data").Build()
	unrelated := models.NewClass("Other").Build()

	_, err := f.instantiator.Deserialize(source, unrelated, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Other is not a supertype of Data")

	o, err := f.instantiator.Deserialize(source, models.Object, nil)
	require.NoError(t, err)
	assert.NotNil(t, o)
}
