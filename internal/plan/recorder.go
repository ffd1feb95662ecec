package plan

import (
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
)

// EmitFunc turns a completed plan into backend output
type EmitFunc func(p *ClassPlan) error

// Recorder implements both visitor contracts and records a ClassPlan
type Recorder struct {
	plan   *ClassPlan
	suffix string
	emit   EmitFunc

	building     bool
	mixins       []*models.Type
	constructors []*models.Constructor
}

var (
	_ generator.ClassInspectionVisitor = (*Recorder)(nil)
	_ generator.ClassGenerationVisitor = (*Recorder)(nil)
)

// NewRecorder starts recording for source. emit may be nil.
func NewRecorder(source *models.Type, suffix string, emit EmitFunc) *Recorder {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Recorder{
		plan:   &ClassPlan{Source: source},
		suffix: suffix,
		emit:   emit,
	}
}

// Plan returns the plan recorded so far
func (r *Recorder) Plan() *ClassPlan {
	return r.plan
}

func (r *Recorder) add(d Directive) {
	r.plan.Directives = append(r.plan.Directives, d)
}

func (r *Recorder) mixIn(t *models.Type) {
	for _, existing := range r.mixins {
		if existing == t {
			return
		}
	}
	r.mixins = append(r.mixins, t)
}

func (r *Recorder) MixInExtensible() {
	r.plan.Extensible = true
	r.mixIn(models.ExtensionAware)
}

// MixInConventionAware is declared by both visitors. The inspection call
// sets the flag, the generation call records the directive and mixes in.
func (r *Recorder) MixInConventionAware() {
	if !r.building {
		r.plan.ConventionAware = true
		return
	}
	r.add(Directive{Kind: MixInConventionAware})
	r.mixIn(models.ConventionAware)
}

func (r *Recorder) ProvidesOwnDynamicObjectImplementation() {
	r.plan.OwnDynamicObject = true
}

func (r *Recorder) ProvidesOwnServicesImplementation() {
	r.plan.OwnServices = true
}

func (r *Recorder) ProvidesOwnToString() {
	r.plan.OwnToString = true
}

func (r *Recorder) MixInFullyManagedState() {
	r.plan.FullyManaged = true
	r.mixIn(models.Managed)
}

func (r *Recorder) MixInServiceInjection() {
	r.plan.ServiceInjection = true
}

func (r *Recorder) InstantiatesNestedObjects() {
	r.plan.NestedObjects = true
}

func (r *Recorder) AttachDuringConstruction(p *generator.PropertyMetadata, applyRole bool) {
	r.plan.EagerAttach = append(r.plan.EagerAttach, Attachment{Property: p, ApplyRole: applyRole})
}

func (r *Recorder) MarkPropertyAsIneligibleForConventionMapping(p *generator.PropertyMetadata) {
	r.plan.Ineligible = append(r.plan.Ineligible, p)
}

func (r *Recorder) Builder() (generator.ClassGenerationVisitor, error) {
	r.building = true
	return r, nil
}

func (r *Recorder) AddConstructor(c *models.Constructor, addNameParameter bool) {
	r.add(Directive{Kind: AddConstructor, Constructor: c, AddNameParameter: addNameParameter})
	params := make([]models.TypeRef, 0, len(c.Params)+1)
	if addNameParameter {
		params = append(params, models.Ref(models.String))
	}
	params = append(params, c.Params...)
	r.constructors = append(r.constructors, &models.Constructor{
		Params:      params,
		Modifiers:   c.Modifiers,
		Annotations: c.Annotations,
	})
}

func (r *Recorder) AddDefaultConstructor() {
	r.add(Directive{Kind: AddDefaultConstructor})
	r.constructors = append(r.constructors, &models.Constructor{Modifiers: models.ModPublic})
}

func (r *Recorder) AddNameConstructor() {
	r.add(Directive{Kind: AddNameConstructor, AddNameParameter: true})
	r.constructors = append(r.constructors, &models.Constructor{
		Params:    []models.TypeRef{models.Ref(models.String)},
		Modifiers: models.ModPublic,
	})
}

func (r *Recorder) MixInDynamicAware() {
	r.add(Directive{Kind: MixInDynamicAware})
	r.mixIn(models.DynamicObjectAware)
}

func (r *Recorder) MixInDynamicObject() {
	r.add(Directive{Kind: MixInDynamicObject})
	r.mixIn(models.DynamicObjectProtocol)
}

func (r *Recorder) AddDynamicMethods() {
	r.add(Directive{Kind: AddDynamicMethods})
}

func (r *Recorder) AddExtensionsProperty() {
	r.add(Directive{Kind: AddExtensionsProperty})
}

func (r *Recorder) ApplyServiceInjectionToProperty(p *generator.PropertyMetadata) {
	r.add(Directive{Kind: ApplyServiceInjectionToProperty, Property: p})
}

func (r *Recorder) ApplyServiceInjectionToGetter(p *generator.PropertyMetadata, annotation *models.Type, getter *generator.MethodMetadata) {
	r.add(Directive{Kind: ApplyServiceInjectionToGetter, Property: p, Annotation: annotation, Getter: getter})
}

func (r *Recorder) ApplyServiceInjectionToSetter(p *generator.PropertyMetadata, annotation *models.Type, setter *models.Method) {
	r.add(Directive{Kind: ApplyServiceInjectionToSetter, Property: p, Annotation: annotation, Method: setter})
}

func (r *Recorder) ApplyManagedStateToProperty(p *generator.PropertyMetadata) {
	r.add(Directive{Kind: ApplyManagedStateToProperty, Property: p})
}

func (r *Recorder) ApplyManagedStateToGetter(p *generator.PropertyMetadata, getter *models.Method) {
	r.add(Directive{Kind: ApplyManagedStateToGetter, Property: p, Method: getter})
}

func (r *Recorder) ApplyManagedStateToSetter(p *generator.PropertyMetadata, setter *models.Method) {
	r.add(Directive{Kind: ApplyManagedStateToSetter, Property: p, Method: setter})
}

func (r *Recorder) ApplyReadOnlyManagedStateToGetter(p *generator.PropertyMetadata, getter *models.Method, applyRole bool) {
	r.add(Directive{Kind: ApplyReadOnlyManagedStateToGetter, Property: p, Method: getter, ApplyRole: applyRole})
}

func (r *Recorder) AddManagedMethods(mutable, readOnly []*generator.PropertyMetadata) {
	r.add(Directive{Kind: AddManagedMethods, Mutable: mutable, ReadOnly: readOnly})
}

func (r *Recorder) ApplyConventionMappingToProperty(p *generator.PropertyMetadata) {
	r.add(Directive{Kind: ApplyConventionMappingToProperty, Property: p})
}

func (r *Recorder) ApplyConventionMappingToGetter(p *generator.PropertyMetadata, getter *generator.MethodMetadata, attachOwner, applyRole bool) {
	r.add(Directive{Kind: ApplyConventionMappingToGetter, Property: p, Getter: getter, AttachOwner: attachOwner, ApplyRole: applyRole})
}

func (r *Recorder) ApplyConventionMappingToSetter(p *generator.PropertyMetadata, setter *models.Method) {
	r.add(Directive{Kind: ApplyConventionMappingToSetter, Property: p, Method: setter})
}

func (r *Recorder) ApplyConventionMappingToSetMethod(p *generator.PropertyMetadata, m *models.Method) {
	r.add(Directive{Kind: ApplyConventionMappingToSetMethod, Property: p, Method: m})
}

func (r *Recorder) AddSetMethod(p *generator.PropertyMetadata, setter *models.Method) {
	r.add(Directive{Kind: AddSetMethod, Property: p, Method: setter})
}

func (r *Recorder) AddActionMethod(m *models.Method) {
	r.add(Directive{Kind: AddActionMethod, Method: m})
}

func (r *Recorder) AddPropertySetterOverloads(p *generator.PropertyMetadata, getter *generator.MethodMetadata) {
	r.add(Directive{Kind: AddPropertySetterOverloads, Property: p, Getter: getter})
}

func (r *Recorder) AddNameProperty() {
	r.add(Directive{Kind: AddNameProperty})
}

// Generate builds the generated type descriptor and emits the plan
func (r *Recorder) Generate() (*models.Type, error) {
	source := r.plan.Source
	generated := &models.Type{
		Name:      source.Name + r.suffix,
		Package:   source.Package,
		Enclosing: source.Enclosing,
		Kind:      models.KindClass,
		Modifiers: models.ModPublic,
		Generated: true,
	}
	if source.IsInterface() || source.IsAnnotation() {
		generated.Interfaces = append(generated.Interfaces, models.Ref(source))
	} else {
		super := models.Ref(source)
		generated.Super = &super
	}
	generated.Interfaces = append(generated.Interfaces, models.Ref(models.GeneratedSubclass))
	for _, mixin := range r.mixins {
		if !mixin.IsAssignableFrom(source) {
			generated.Interfaces = append(generated.Interfaces, models.Ref(mixin))
		}
	}
	for _, c := range r.constructors {
		generated.AddConstructor(c)
	}

	r.plan.Generated = generated
	if r.emit != nil {
		if err := r.emit(r.plan); err != nil {
			return nil, err
		}
	}
	return generated, nil
}

// Has reports whether a directive of kind was recorded
func (r *Recorder) Has(kind DirectiveKind) bool {
	return r.plan.Has(kind)
}
