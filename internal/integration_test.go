package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/parser"
	"github.com/toyz/decor/internal/runtime"
	"github.com/toyz/decor/internal/templates"
	"github.com/toyz/decor/pkg/decor"
)

const declarations = `package services

interface Executor {
}

interface Named {
    getName() String
}

abstract class Worker {
    constructor(String)
    @Inject abstract getExecutor() Executor
    abstract getLabel() String
    abstract setLabel(String)
}
`

// TestDeclarationToInstanceIntegration drives a parsed declaration through
// both backends and instantiates the runtime class
func TestDeclarationToInstanceIntegration(t *testing.T) {
	p := parser.NewParser(nil)
	files, err := p.Parse(parser.Input{Filename: "services.decor", Source: []byte(declarations)})
	require.NoError(t, err)
	require.Len(t, files, 1)

	worker := p.Universe().MustLookup("Worker")
	named := p.Universe().MustLookup("Named")

	impls := runtime.NewImplementations()
	require.NoError(t, impls.Constructor(worker, 1, func(self *runtime.Object, args []any) error {
		self.SetField("id", args[0])
		return nil
	}))

	runtimeBackend := runtime.NewBackend(runtime.WithImplementations(impls))
	runtimeGen := generator.New(runtimeBackend)
	sourceBackend := templates.NewBackend(templates.WithPackage("services"))
	sourceGen := generator.New(sourceBackend)

	for _, decl := range files[0].Generatable() {
		_, err := runtimeGen.Generate(decl)
		require.NoError(t, err, decl.Name)
		_, err = sourceGen.Generate(decl)
		require.NoError(t, err, decl.Name)
	}

	t.Run("backends receive the same plan", func(t *testing.T) {
		sources := sourceBackend.Sources()
		require.Len(t, sources, 3)
		for _, source := range sources {
			generated, err := runtimeGen.Generate(source.Plan.Source)
			require.NoError(t, err)
			class, ok := runtimeBackend.Class(generated.GeneratedType())
			require.True(t, ok, source.TypeName)
			assert.Equal(t, class.Plan().Describe(), source.Plan.Describe())
		}
	})

	t.Run("source compiles to a decorated struct", func(t *testing.T) {
		generated, err := sourceGen.Generate(worker)
		require.NoError(t, err)
		source, ok := sourceBackend.Source(generated.GeneratedType())
		require.True(t, ok)
		assert.Equal(t, "Worker_Decorated", source.TypeName)
		assert.Equal(t, "worker_decorated.go", source.FileName)
		assert.True(t, strings.Contains(string(source.Code), "type Worker_Decorated struct"), string(source.Code))
	})

	t.Run("runtime instance", func(t *testing.T) {
		services := decor.NewServiceRegistry(nil).Add("Executor", "pool")
		instantiator := runtime.NewInstantiator(runtimeGen, services)

		o, err := instantiator.New(worker, "w1")
		require.NoError(t, err)
		id, ok := o.Field("id")
		require.True(t, ok)
		assert.Equal(t, "w1", id)

		executor, err := o.Invoke("getExecutor")
		require.NoError(t, err)
		assert.Equal(t, "pool", executor)

		require.NoError(t, o.SetProperty("label", "primary"))
		label, err := o.Invoke("getLabel")
		require.NoError(t, err)
		assert.Equal(t, "primary", label)

		n, err := instantiator.New(named, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "alpha", n.Name())
	})
}
