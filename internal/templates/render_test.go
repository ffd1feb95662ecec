package templates

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/utils"
)

func render(t *testing.T, source *models.Type, opts ...Option) (*Backend, *Source) {
	t.Helper()
	backend := NewBackend(opts...)
	class, err := generator.New(backend).Generate(source)
	require.NoError(t, err)
	rendered, ok := backend.Source(class.GeneratedType())
	require.True(t, ok)

	_, err = parser.ParseFile(token.NewFileSet(), rendered.FileName, rendered.Code, parser.ParseComments)
	require.NoError(t, err, string(rendered.Code))
	return backend, rendered
}

func TestRenderNamedInterface(t *testing.T) {
	named := models.NewInterface("Named").WithPackage("build").
		WithMethods(models.Getter("getName", models.Ref(models.String))).
		Build()

	_, rendered := render(t, named)
	code := string(rendered.Code)

	assert.Equal(t, "Named_Decorated", rendered.TypeName)
	assert.Equal(t, "named_decorated.go", rendered.FileName)
	assert.Equal(t, "build", rendered.Package)
	assert.True(t, strings.HasPrefix(code, utils.GeneratedMarker+"\n"), "generated files are recognised by their first line")
	require.NotNil(t, rendered.Plan)
	assert.Same(t, named, rendered.Plan.Source)
	assert.Contains(t, code, "package build")
	assert.Contains(t, code, `"github.com/toyz/decor/pkg/decor"`)
	assert.Contains(t, code, "type Named_Decorated struct")
	assert.Contains(t, code, "func NewNamed_Decorated(")
	assert.Contains(t, code, "GetName() string")
	assert.Contains(t, code, "o.name = arg0")
	assert.NotContains(t, code, "NamedMembers", "interfaces have no implemented members")
}

func TestRenderManagedBean(t *testing.T) {
	bean := models.NewClass("Bean").Abstract().
		WithMethods(
			models.Getter("getLabel", models.Ref(models.String)).Abstract(),
			models.Setter("setLabel", models.Ref(models.String)).Abstract(),
		).
		Build()

	_, rendered := render(t, bean, WithPackage("beans"))
	code := string(rendered.Code)

	assert.Equal(t, "beans", rendered.Package)
	assert.Contains(t, code, "labelValue")
	assert.Contains(t, code, "o.labelValue = arg0")
	assert.Contains(t, code, "func (o *Bean_Decorated) UnpackState() []any")
	assert.Contains(t, code, "func (o *Bean_Decorated) InitFromState(state []any) error")
	assert.Contains(t, code, "var _ decor.Managed = (*Bean_Decorated)(nil)")
	assert.Contains(t, code, `"fmt"`)
}

func TestRenderConcreteMembers(t *testing.T) {
	task := models.NewClass("Task").WithPackage("example.tasks").
		WithMethods(models.Getter("getDescription", models.Ref(models.String))).
		Build()

	_, rendered := render(t, task)
	code := string(rendered.Code)

	assert.Equal(t, "tasks", rendered.Package)
	assert.Contains(t, code, "type TaskMembers interface")
	assert.Contains(t, code, "func NewTask_Decorated(members TaskMembers,")
	assert.Contains(t, code, "o.TaskMembers.GetDescription()")
}

func TestRenderCustomRuntimeImport(t *testing.T) {
	named := models.NewInterface("Named").
		WithMethods(models.Getter("getName", models.Ref(models.String))).
		Build()

	_, rendered := render(t, named, WithRuntimeImport("example.com/support/runtime"), WithSuffix("_Impl"))
	code := string(rendered.Code)

	assert.Equal(t, "Named_Impl", rendered.TypeName)
	assert.Equal(t, "decorated", rendered.Package)
	assert.Contains(t, code, `decor "example.com/support/runtime"`)
}

func TestBackendDoesNotInstantiate(t *testing.T) {
	named := models.NewInterface("Named").
		WithMethods(models.Getter("getName", models.Ref(models.String))).
		Build()
	backend := NewBackend()
	class, err := generator.New(backend).Generate(named)
	require.NoError(t, err)
	require.Len(t, backend.Sources(), 1)

	_, err = backend.CreateUsingConstructor(&models.Type{Name: "Missing"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsGenerationError(err))

	strategy, err := backend.CreateForSerialization(class.GeneratedType(), nil)
	require.NoError(t, err)
	_, err = strategy.NewInstance(nil, nil, nil, nil)
	require.Error(t, err)
	var instantiation *errors.InstantiationError
	require.True(t, errors.As(err, &instantiation))
	assert.Contains(t, err.Error(), "emitted as Go source in named_decorated.go")
}

func TestImportManager(t *testing.T) {
	im := NewImportManager()
	assert.Empty(t, im.GenerateImports())

	im.AddUserPackages(DecorImport)
	assert.Equal(t, "import \"github.com/toyz/decor/pkg/decor\"\n", im.GenerateImports())

	im.AddImport("fmt")
	im.AddImport("fmt")
	im.AddPackageImport("rt", "example.com/runtime")
	assert.Equal(t, []string{"fmt", "example.com/runtime", DecorImport}, im.Paths())
	assert.Equal(t, "import (\n\t\"fmt\"\n\n\trt \"example.com/runtime\"\n\t\"github.com/toyz/decor/pkg/decor\"\n)\n", im.GenerateImports())
}

func TestNamer(t *testing.T) {
	n := newNamer("String")

	first := models.NewMethod("from").WithParams(models.Ref(models.String)).Build()
	second := models.NewMethod("from").WithParams(models.Ref(models.File)).Build()

	assert.Equal(t, "From", n.method(first))
	assert.Equal(t, "From", n.method(first), "names are stable per signature")
	assert.Equal(t, "FromFile", n.method(second))
	assert.Equal(t, "String2", n.synthesized("string"))
}

func TestGoType(t *testing.T) {
	tests := []struct {
		ref  models.TypeRef
		want string
	}{
		{models.Ref(models.Void), ""},
		{models.Ref(models.Boolean), "bool"},
		{models.Ref(models.Long), "int64"},
		{models.Ref(models.Property, models.Ref(models.String)), "*decor.Property"},
		{models.Ref(models.NamedDomainObjectContainer), "*decor.NamedContainer"},
		{models.VarRef("T"), "any"},
		{models.Ref(models.NewClass("Custom").Build()), "any"},
	}
	for _, tt := range tests {
		t.Run(tt.ref.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GoType(tt.ref))
		})
	}

	assert.Equal(t, "nil", zeroOf("any"))
	assert.Equal(t, "decor.As[string](nil)", zeroOf("string"))
	assert.Equal(t, "v", convert("v", "any"))
	assert.Equal(t, "decor.As[int](v)", convert("v", "int"))
}

func TestTemplateRegistry(t *testing.T) {
	for _, name := range []string{"header", "body", "function", "method"} {
		_, ok := DefaultTemplateRegistry.Get(name)
		assert.True(t, ok, name)
	}
	assert.Panics(t, func() { DefaultTemplateRegistry.MustGet("missing") })
}
