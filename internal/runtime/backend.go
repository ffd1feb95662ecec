package runtime

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/plan"
	"github.com/toyz/decor/pkg/decor"
)

// Backend compiles plans into interpreted classes
type Backend struct {
	mu      sync.RWMutex
	classes map[*models.Type]*Class

	impls   *Implementations
	roles   annotations.RoleHandler
	suffix  string
	logger  *zap.Logger
	emitted atomic.Int64
}

var _ generator.Backend = (*Backend)(nil)

// Option configures a Backend
type Option func(*Backend)

// WithImplementations sets the Go bodies of concrete source members
func WithImplementations(impls *Implementations) Option {
	return func(b *Backend) {
		b.impls = impls
	}
}

// WithRoles sets the role handler applied to attached values
func WithRoles(roles annotations.RoleHandler) Option {
	return func(b *Backend) {
		b.roles = roles
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

// NewBackend creates an interpreter backend
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		classes: make(map[*models.Type]*Class),
		suffix:  plan.DefaultSuffix,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.impls == nil {
		b.impls = NewImplementations()
	}
	if b.roles == nil {
		b.roles = annotations.NoRoles
	}
	return b
}

// Start implements generator.Backend
func (b *Backend) Start(t *models.Type) (generator.ClassInspectionVisitor, error) {
	return plan.NewRecorder(t, b.suffix, b.compile), nil
}

func (b *Backend) compile(p *plan.ClassPlan) error {
	class, err := compile(p, b.impls, b.roles)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.classes[p.Generated] = class
	b.mu.Unlock()
	b.emitted.Add(1)
	b.logger.Debug("compiled class",
		zap.String("source", p.Source.QualifiedName()),
		zap.String("generated", p.Generated.QualifiedName()),
		zap.Int("directives", len(p.Directives)))
	return nil
}

// Class returns the compiled class of a generated type
func (b *Backend) Class(generated *models.Type) (*Class, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	class, ok := b.classes[generated]
	return class, ok
}

// Emitted counts compiled classes
func (b *Backend) Emitted() int {
	return int(b.emitted.Load())
}

// Implementations returns the registered member bodies
func (b *Backend) Implementations() *Implementations {
	return b.impls
}

func (b *Backend) class(generated *models.Type) (*Class, error) {
	class, ok := b.Class(generated)
	if !ok {
		return nil, errors.NewGenerationError("no compiled class for " + generated.DisplayName())
	}
	return class, nil
}

// CreateUsingConstructor implements generator.Backend
func (b *Backend) CreateUsingConstructor(generated *models.Type, c *models.Constructor) (generator.InstantiationStrategy, error) {
	class, err := b.class(generated)
	if err != nil {
		return nil, err
	}
	binding, ok := class.constructors[c]
	if !ok {
		return nil, errors.NewGenerationError("constructor is not declared by " + generated.DisplayName())
	}
	return &constructorStrategy{class: class, binding: binding}, nil
}

// CreateForSerialization implements generator.Backend
func (b *Backend) CreateForSerialization(generated *models.Type, base *models.Type) (generator.InstantiationStrategy, error) {
	class, err := b.class(generated)
	if err != nil {
		return nil, err
	}
	if base != nil && !base.IsAssignableFrom(class.source) {
		return nil, errors.NewGenerationError(fmt.Sprintf("%s is not a supertype of %s", base.DisplayName(), class.source.DisplayName()))
	}
	return generator.InstantiationStrategyFunc(func(services decor.ServiceLookup, nested generator.InstanceGenerator, displayName decor.Describable, _ []any) (any, error) {
		return newObject(class, services, nested, displayName), nil
	}), nil
}

type constructorStrategy struct {
	class   *Class
	binding *constructorBinding
}

func (s *constructorStrategy) NewInstance(services decor.ServiceLookup, nested generator.InstanceGenerator, displayName decor.Describable, params []any) (any, error) {
	class := s.class
	expected := s.binding.generated.ParamTypes()
	if len(params) != len(expected) {
		return nil, errors.NewInstantiationError(class.generated.DisplayName(),
			fmt.Sprintf("Expected %d constructor arguments but got %d.", len(expected), len(params)))
	}
	for i, t := range expected {
		if !matches(t, params[i]) {
			return nil, errors.NewInstantiationError(class.generated.DisplayName(),
				fmt.Sprintf("Constructor argument %d has type %T, expected %s.", i+1, params[i], t.DisplayName()))
		}
	}

	o := newObject(class, services, nested, displayName)
	args := params
	if s.binding.name {
		o.name, _ = params[0].(string)
		args = params[1:]
	}

	if body, ok := class.impls.LookupConstructor(s.binding.source); ok {
		if err := body(o, args); err != nil {
			return nil, err
		}
	}

	for _, attachment := range class.plan.EagerAttach {
		value, err := o.Call(attachment.Property.MainGetter.Method.Signature())
		if err != nil {
			return nil, err
		}
		decor.AttachOwner(value, o, attachment.Property.Name)
		if attachment.ApplyRole {
			class.roles.ApplyRoleTo(o, value)
		}
	}
	return o, nil
}
