package templates

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/plan"
	"github.com/toyz/decor/pkg/decor"
)

// Backend renders every plan to Go source. Emitted types exist only as
// source, so its instantiation strategies always fail.
type Backend struct {
	mu      sync.RWMutex
	sources map[*models.Type]*Source
	order   []*Source

	options RenderOptions
	suffix  string
	logger  *zap.Logger
}

var _ generator.Backend = (*Backend)(nil)

// Option configures a Backend
type Option func(*Backend)

// WithPackage sets the package name of every emitted file
func WithPackage(name string) Option {
	return func(b *Backend) {
		b.options.Package = name
	}
}

// WithRuntimeImport sets the import path of the runtime support package
func WithRuntimeImport(importPath string) Option {
	return func(b *Backend) {
		b.options.RuntimeImport = importPath
	}
}

// WithSuffix sets the generated type name suffix
func WithSuffix(suffix string) Option {
	return func(b *Backend) {
		b.suffix = suffix
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// NewBackend creates a Go source backend
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		sources: make(map[*models.Type]*Source),
		suffix:  plan.DefaultSuffix,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start implements generator.Backend
func (b *Backend) Start(t *models.Type) (generator.ClassInspectionVisitor, error) {
	return plan.NewRecorder(t, b.suffix, b.emit), nil
}

func (b *Backend) emit(p *plan.ClassPlan) error {
	source, err := Render(p, b.options)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.sources[p.Generated] = source
	b.order = append(b.order, source)
	b.mu.Unlock()
	b.logger.Debug("rendered decorated type",
		zap.String("source", p.Source.QualifiedName()),
		zap.String("file", source.FileName),
		zap.Int("bytes", len(source.Code)))
	return nil
}

// Source returns the rendered file of a generated type
func (b *Backend) Source(generated *models.Type) (*Source, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	source, ok := b.sources[generated]
	return source, ok
}

// Sources returns every rendered file in emission order
func (b *Backend) Sources() []*Source {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Source(nil), b.order...)
}

func (b *Backend) source(generated *models.Type) (*Source, error) {
	source, ok := b.Source(generated)
	if !ok {
		return nil, errors.NewGenerationError("no rendered source for " + generated.DisplayName())
	}
	return source, nil
}

// CreateUsingConstructor implements generator.Backend
func (b *Backend) CreateUsingConstructor(generated *models.Type, _ *models.Constructor) (generator.InstantiationStrategy, error) {
	source, err := b.source(generated)
	if err != nil {
		return nil, err
	}
	return sourceOnly(generated, source), nil
}

// CreateForSerialization implements generator.Backend
func (b *Backend) CreateForSerialization(generated *models.Type, base *models.Type) (generator.InstantiationStrategy, error) {
	source, err := b.source(generated)
	if err != nil {
		return nil, err
	}
	if base != nil && generated.Super != nil && !base.IsAssignableFrom(generated.Super.Raw()) {
		return nil, errors.NewGenerationError(fmt.Sprintf("%s is not a supertype of %s", base.DisplayName(), generated.Super.Raw().DisplayName()))
	}
	return sourceOnly(generated, source), nil
}

func sourceOnly(generated *models.Type, source *Source) generator.InstantiationStrategy {
	return generator.InstantiationStrategyFunc(func(decor.ServiceLookup, generator.InstanceGenerator, decor.Describable, []any) (any, error) {
		return nil, errors.NewInstantiationError(generated.DisplayName(),
			fmt.Sprintf("%s is emitted as Go source in %s and cannot be instantiated by the generator.", source.TypeName, source.FileName))
	})
}
