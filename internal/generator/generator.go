package generator

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/utils"
)

// ClassGenerator produces decorated types for source types
type ClassGenerator interface {
	Generate(t *models.Type) (*GeneratedClass, error)
}

// Generator drives the handler pipeline and hands the directives to a
// Backend. Generated classes are cached per source type.
type Generator struct {
	id         uuid.UUID
	backend    Backend
	logger     *zap.Logger
	known      annotations.Registry
	enabled    []*models.Type
	disabled   []*models.Type
	qualifiers map[*models.Type]*annotations.Qualifier
	roles      annotations.RoleHandler
	cache      *utils.OnceCache[*models.Type, *GeneratedClass]
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithKnownAnnotations sets the registry of every known custom injection
// annotation. Known annotations that are not enabled are rejected.
func WithKnownAnnotations(registry annotations.Registry) Option {
	return func(g *Generator) {
		g.known = registry
	}
}

// WithEnabledAnnotations enables custom injection annotations, in order
func WithEnabledAnnotations(types ...*models.Type) Option {
	return func(g *Generator) {
		g.enabled = append(g.enabled, types...)
	}
}

// WithRoleHandler overrides the registry's role handler
func WithRoleHandler(roles annotations.RoleHandler) Option {
	return func(g *Generator) {
		g.roles = roles
	}
}

// WithCache shares a generated-class cache between generators
func WithCache(cache *utils.OnceCache[*models.Type, *GeneratedClass]) Option {
	return func(g *Generator) {
		g.cache = cache
	}
}

// New creates a generator emitting through backend
func New(backend Backend, opts ...Option) *Generator {
	g := &Generator{
		id:      uuid.New(),
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.known == nil {
		g.known = annotations.NewRegistry()
	}
	if g.roles == nil {
		g.roles = g.known.RoleHandler()
	}
	if g.cache == nil {
		g.cache = utils.NewOnceCache[*models.Type, *GeneratedClass]()
	}

	enabled := make(map[*models.Type]bool, len(g.enabled))
	for _, t := range g.enabled {
		enabled[t] = true
	}
	g.qualifiers = make(map[*models.Type]*annotations.Qualifier)
	for _, handler := range g.known.Handlers() {
		annotationType := handler.AnnotationType()
		if !enabled[annotationType] {
			g.disabled = append(g.disabled, annotationType)
		}
	}
	for _, annotationType := range g.enabled {
		if q, ok := annotations.QualifierOf(annotationType); ok {
			g.qualifiers[annotationType] = q
		}
	}
	return g
}

// ID identifies this generator instance
func (g *Generator) ID() uuid.UUID {
	return g.id
}

// RoleHandler returns the role handler in use
func (g *Generator) RoleHandler() annotations.RoleHandler {
	return g.roles
}

// Generate returns the decorated class for t, generating it on first use.
// The entry is also stored under the generated type itself.
func (g *Generator) Generate(t *models.Type) (*GeneratedClass, error) {
	if class, ok := g.cache.GetIfPresent(t); ok {
		return class, nil
	}
	class, err := g.cache.Get(t, g.generateUnderLock)
	if err != nil {
		return nil, err
	}
	g.cache.Put(class.GeneratedType(), class)
	return class, nil
}

func (g *Generator) generateUnderLock(t *models.Type) (*GeneratedClass, error) {
	log := g.logger.With(zap.String("type", t.QualifiedName()), zap.Stringer("generator", g.id))
	log.Debug("generating decorated type")

	extensibleHandler := newExtensibleTypeHandler(g.roles)
	nameHandler := &namePropertyHandler{}
	injectionHandler := newInjectAnnotationHandler()
	customHandlers := make([]*injectedPropertyHandler, 0, len(g.enabled))
	for _, annotationType := range g.enabled {
		customHandlers = append(customHandlers, newCustomInjectAnnotationHandler(annotationType))
	}

	// Order is significant. The default injection handler runs last.
	handlers := []ClassGenerationHandler{
		extensibleHandler,
		newDslMixInHandler(extensibleHandler),
		&propertyTypeHandler{},
		&servicesPropertyHandler{},
		nameHandler,
		newManagedPropertiesHandler(g.roles),
	}
	for _, h := range customHandlers {
		handlers = append(handlers, h)
	}
	handlers = append(handlers, injectionHandler)

	validators := make([]ClassValidator, 0, len(g.disabled)+1)
	for _, annotationType := range g.disabled {
		validators = append(validators, &disabledAnnotationValidator{annotation: annotationType})
	}
	validators = append(validators, &injectionAnnotationValidator{
		annotationTypes: g.enabled,
		qualifiers:      g.qualifiers,
	})

	generated, err := g.emit(t, validators, handlers, extensibleHandler, nameHandler)
	if err != nil {
		log.Debug("generation failed", zap.Error(err))
		return nil, classifyFailure(t, err)
	}

	var triggering []*models.Type
	for _, h := range customHandlers {
		if h.IsUsed() {
			triggering = append(triggering, h.Annotation())
		}
	}

	var outer *models.Type
	if t.Enclosing != nil && !t.IsStatic() {
		outer = t.Enclosing
	}

	class, err := newGeneratedClass(g.backend, t, generated, outer, injectionHandler.InjectedServices(), triggering)
	if err != nil {
		return nil, classifyFailure(t, err)
	}
	log.Debug("generated decorated type",
		zap.String("generated", generated.QualifiedName()),
		zap.Int("constructors", len(class.Constructors())),
		zap.Int("injectedServices", len(class.InjectedServices())))
	return class, nil
}

func (g *Generator) emit(t *models.Type, validators []ClassValidator, handlers []ClassGenerationHandler, unclaimed UnclaimedPropertyHandler, names *namePropertyHandler) (generated *models.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			generated, err = nil, fmt.Errorf("panic during generation: %v", r)
		}
	}()

	inspection, err := g.backend.Start(t)
	if err != nil {
		return nil, err
	}
	if err := inspectType(t, validators, handlers, unclaimed); err != nil {
		return nil, err
	}
	for _, h := range handlers {
		h.ApplyToInspection(inspection)
	}

	builder, err := inspection.Builder()
	if err != nil {
		return nil, err
	}
	for _, h := range handlers {
		h.ApplyToGeneration(builder)
	}

	if t.IsInterface() || t.IsAnnotation() {
		if names.hasNameProperty() {
			builder.AddNameConstructor()
		} else {
			builder.AddDefaultConstructor()
		}
	} else {
		for _, c := range t.PublicConstructors() {
			builder.AddConstructor(c, names.hasNameProperty())
		}
	}

	return builder.Generate()
}

// classifyFailure passes shape and generation errors through and wraps
// anything else.
func classifyFailure(t *models.Type, err error) error {
	var shape *errors.ShapeError
	if errors.As(err, &shape) {
		if shape.TypeName == "" {
			shape.WithType(t.DisplayName())
		}
		return err
	}
	if errors.IsGenerationError(err) {
		return err
	}
	return errors.WrapGenerationFailure(t.DisplayName(), err)
}

func inspectType(t *models.Type, validators []ClassValidator, handlers []ClassGenerationHandler, unclaimed UnclaimedPropertyHandler) error {
	details := inspect.Inspect(t)
	metadata := AssembleProperties(details)

	for _, h := range handlers {
		h.StartType(t)
	}

	for _, m := range details.AllMethods {
		accessor := inspect.AccessorTypeOf(m)
		for _, v := range validators {
			if err := v.ValidateMethod(m, accessor); err != nil {
				return err
			}
		}
	}

	for _, property := range details.Properties() {
		p := metadata.Property(property.Name)
		for _, h := range handlers {
			h.VisitProperty(p)
		}

		var claimedBy ClassGenerationHandler
		for _, h := range handlers {
			if !h.ClaimPropertyImplementation(p) {
				continue
			}
			if claimedBy == nil {
				claimedBy = h
				continue
			}
			return h.Ambiguous(p)
		}
		if claimedBy != nil {
			continue
		}

		unclaimed.Unclaimed(p)
		for _, m := range property.Getters() {
			if err := assertNotAbstract(t, m); err != nil {
				return err
			}
		}
		for _, m := range property.Setters() {
			if err := assertNotAbstract(t, m); err != nil {
				return err
			}
		}
		for _, m := range p.SetMethods {
			if err := assertNotAbstract(t, m); err != nil {
				return err
			}
		}
	}

	for _, m := range details.InstanceMethods {
		if err := assertNotAbstract(t, m); err != nil {
			return err
		}
		for _, h := range handlers {
			h.VisitInstanceMethod(m)
		}
	}

	if hasRelevantFields(details) {
		for _, h := range handlers {
			h.HasFields()
		}
	}
	return nil
}

// An abstract method on a concrete type is left alone: other tooling
// decided it is acceptable.
func assertNotAbstract(t *models.Type, m *models.Method) error {
	if t.IsAbstract() && m.IsAbstract() {
		return errors.NewShapeError("Cannot have abstract method " + models.DescribeMethod(m) + ".").
			WithType(t.DisplayName()).
			WithMember(models.DescribeMethod(m))
	}
	return nil
}

// hasRelevantFields ignores a lone synthetic MetaClass field
func hasRelevantFields(details *inspect.ClassDetails) bool {
	fields := details.InstanceFields
	if len(fields) == 0 {
		return false
	}
	if len(fields) == 1 && isSyntheticMetaClassField(fields[0]) {
		return false
	}
	return true
}

func isSyntheticMetaClassField(f *models.Field) bool {
	return f.IsSynthetic() && f.Type.Raw() == models.MetaClass
}
