package templates

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/plan"
	"github.com/toyz/decor/internal/utils"
)

// DecorImport is the import path of the runtime support package
const DecorImport = "github.com/toyz/decor/pkg/decor"

// baseMethods are promoted from decor.Base and cannot be reused
var baseMethods = []string{
	"InitBase", "Services", "NewNested", "Extensions", "ConfigureConventions",
	"ConventionMapping", "Conventions", "HasUsefulDisplayName", "String",
}

// RenderOptions configure Go rendering
type RenderOptions struct {
	// Package overrides the Go package name
	Package string
	// RuntimeImport overrides DecorImport
	RuntimeImport string
}

// Source is the rendered Go file of one decorated type
type Source struct {
	TypeName string
	FileName string
	Package  string
	Code     []byte
	Plan     *plan.ClassPlan
}

// fileData feeds the file template
type fileData struct {
	Package      string
	Imports      string
	SourceName   string
	TypeName     string
	MembersName  string
	Members      []*method
	Fields       []param
	Assertions   []string
	Constructors []*method
	Methods      []*method
}

type renderer struct {
	plan     *plan.ClassPlan
	source   *models.Type
	typeName string

	membersName string
	members     []*method
	memberBySig map[string]*method

	names       *namer
	methods     []*method
	methodBySig map[string]*method
	fields      []param
	fieldSet    map[string]bool
	assertions  []string

	conventionProperties []string
	constructors         []*method
}

// Render turns a plan into a formatted Go source file
func Render(p *plan.ClassPlan, opts RenderOptions) (*Source, error) {
	if p.Generated == nil {
		return nil, errors.NewGenerationError("plan for " + p.Source.DisplayName() + " has no generated type")
	}
	r := &renderer{
		plan:        p,
		source:      p.Source,
		typeName:    goIdentifier(p.Generated.DisplayName()),
		memberBySig: make(map[string]*method),
		names:       newNamer(baseMethods...),
		methodBySig: make(map[string]*method),
		fieldSet:    make(map[string]bool),
	}
	r.collectMembers()

	next := 0
	for _, d := range p.Directives {
		switch d.Kind {
		case plan.AddConstructor, plan.AddDefaultConstructor, plan.AddNameConstructor:
			if next >= len(p.Generated.Constructors) {
				return nil, errors.NewGenerationError("constructor directives do not match the generated type " + p.Generated.DisplayName())
			}
			r.constructor(p.Generated.Constructors[next], d.AddNameParameter, next)
			next++
		default:
			if err := r.apply(d); err != nil {
				return nil, err
			}
		}
	}
	if p.OwnToString {
		if toString, ok := r.memberBySig["toString()"]; ok {
			m := r.define("toString()", "String", nil, "string")
			m.Raw = true
			m.line("return o.%s.%s()", r.membersName, toString.Name)
		}
	}
	return r.render(opts)
}

// collectMembers lists the concrete source methods the emitted struct
// receives through its embedded members interface
func (r *renderer) collectMembers() {
	seen := make(map[string]bool)
	for _, t := range inspect.Hierarchy(r.source) {
		if t == models.Object {
			continue
		}
		for _, m := range t.Methods {
			if m.IsStatic() || m.IsBridge() || m.Modifiers.IsPrivate() {
				continue
			}
			signature := m.Signature()
			if seen[signature] {
				continue
			}
			seen[signature] = true
			if m.IsAbstract() {
				continue
			}
			member := &method{
				Name:   r.names.method(m),
				Params: paramsOf(r.source, m),
				Result: resultOf(r.source, m),
			}
			r.members = append(r.members, member)
			r.memberBySig[signature] = member
		}
	}
	if len(r.members) > 0 {
		r.membersName = goIdentifier(r.source.DisplayName()) + "Members"
	}
}

func (r *renderer) field(name, goType string) string {
	if !r.fieldSet[name] {
		r.fieldSet[name] = true
		r.fields = append(r.fields, param{Name: name, Type: goType})
	}
	return name
}

func (r *renderer) slot(p *generator.PropertyMetadata) string {
	return r.field(p.Name+"Value", "any")
}

func (r *renderer) explicit(p *generator.PropertyMetadata) string {
	return r.field(p.Name+"Explicit", "bool")
}

func (r *renderer) define(signature, name string, params []param, result string) *method {
	m := &method{Name: name, Params: params, Result: result}
	if existing, ok := r.methodBySig[signature]; ok {
		*existing = *m
		return existing
	}
	r.methods = append(r.methods, m)
	r.methodBySig[signature] = m
	return m
}

// replace emits target with a fresh body
func (r *renderer) replace(target *models.Method) *method {
	return r.define(target.Signature(), r.names.method(target), paramsOf(r.source, target), resultOf(r.source, target))
}

// wrap returns the emitted method for target, starting from the source
// member when nothing was emitted yet
func (r *renderer) wrap(target *models.Method) *method {
	if existing, ok := r.methodBySig[target.Signature()]; ok {
		return existing
	}
	m := r.replace(target)
	m.Valued = m.Result != ""
	member, concrete := r.memberBySig[target.Signature()]
	switch {
	case concrete && m.Valued:
		m.line("v := any(o.%s.%s(%s))", r.membersName, member.Name, m.CallArgs())
	case concrete:
		m.line("o.%s.%s(%s)", r.membersName, member.Name, m.CallArgs())
	case m.Valued:
		m.line("var v any")
	}
	return m
}

// callable returns the Go name and fallibility of a method available on the
// emitted struct
func (r *renderer) callable(target *models.Method) (string, bool, bool) {
	if m, ok := r.methodBySig[target.Signature()]; ok {
		return m.Name, m.Fallible, true
	}
	if m, ok := r.memberBySig[target.Signature()]; ok {
		return m.Name, false, true
	}
	return "", false, false
}

func (r *renderer) servicesExpr() string {
	if r.plan.OwnServices {
		if m, ok := r.memberBySig["getServices()"]; ok {
			return fmt.Sprintf("o.%s.%s()", r.membersName, m.Name)
		}
	}
	return "o.Services()"
}

func (r *renderer) apply(d plan.Directive) error {
	p := d.Property
	switch d.Kind {
	case plan.MixInDynamicAware:
		name := r.names.synthesized("asDynamicObject")
		m := r.define("asDynamicObject()", name, nil, "decor.DynamicObject")
		m.Raw = true
		m.line("return decor.NewBeanDynamicObject(o)")
		if name == "AsDynamicObject" {
			r.assertions = append(r.assertions, "decor.DynamicObjectAware")
		}
	case plan.MixInConventionAware:
	case plan.MixInDynamicObject, plan.AddDynamicMethods:
		r.dynamicProtocol()
	case plan.AddExtensionsProperty:
		m := r.define("getExtensions()", r.names.synthesized("getExtensions"), nil, "*decor.Extensions")
		m.Raw = true
		m.line("return o.Extensions()")

	case plan.ApplyServiceInjectionToProperty, plan.ApplyManagedStateToProperty:
		r.slot(p)
	case plan.ApplyServiceInjectionToGetter:
		annotation := ""
		if d.Annotation != nil {
			annotation = d.Annotation.Name
		}
		m := r.replace(d.Getter.Method)
		m.Valued, m.Fallible = true, true
		slot := r.slot(p)
		m.line("if o.%s == nil {", slot)
		m.line("service, err := decor.Service[any](%s, %s, %s)", r.servicesExpr(),
			strconv.Quote(d.Getter.GenericReturnType.String()), strconv.Quote(annotation))
		m.line("if err != nil {")
		m.line("return %s, err", zeroOf(m.Result))
		m.line("}")
		m.line("o.%s = service", slot)
		m.line("}")
		m.line("v := o.%s", slot)
	case plan.ApplyServiceInjectionToSetter, plan.ApplyManagedStateToSetter:
		m := r.replace(d.Method)
		m.line("o.%s = arg0", r.slot(p))
	case plan.ApplyManagedStateToGetter:
		m := r.replace(d.Method)
		m.Valued = true
		m.line("v := o.%s", r.slot(p))
	case plan.ApplyReadOnlyManagedStateToGetter:
		return r.readOnlyManaged(p, d.Method, d.ApplyRole)
	case plan.AddManagedMethods:
		r.managedMethods(d.Mutable, d.ReadOnly)

	case plan.ApplyConventionMappingToProperty:
		r.conventionProperties = append(r.conventionProperties, p.Name)
	case plan.ApplyConventionMappingToGetter:
		if !r.plan.ConventionAware && !d.AttachOwner {
			return nil
		}
		m := r.wrap(d.Getter.Method)
		if r.plan.ConventionAware {
			m.line("v = o.Conventions().ConventionValue(v, %s, o.%s)", strconv.Quote(p.Name), r.explicit(p))
		}
		if d.AttachOwner {
			m.line("decor.AttachOwner(v, o, %s)", strconv.Quote(p.Name))
			if d.ApplyRole {
				m.line("decor.AttachProducer(v, o)")
			}
		}
	case plan.ApplyConventionMappingToSetter, plan.ApplyConventionMappingToSetMethod:
		if !r.plan.ConventionAware {
			return nil
		}
		m := r.wrap(d.Method)
		m.line("o.%s = true", r.explicit(p))

	case plan.AddSetMethod:
		setter, fallible, ok := r.callable(d.Method)
		if !ok {
			setter = r.names.method(d.Method)
		}
		params := d.Method.ParamTypes()
		m := r.define(signatureOf(p.Name, params), r.names.synthesized(p.Name, params...), paramsOf(r.source, d.Method), "")
		m.Raw = true
		if fallible {
			m.Fallible = true
			m.line("return o.%s(%s)", setter, m.CallArgs())
		} else {
			m.line("o.%s(%s)", setter, m.CallArgs())
		}
	case plan.AddActionMethod:
		r.actionMethod(d.Method)
	case plan.AddPropertySetterOverloads:
		r.setterOverload(p, d.Getter.Method)
	case plan.AddNameProperty:
		m := r.define("getName()", r.names.synthesized("getName"), nil, "string")
		m.Raw = true
		m.line("return o.%s", r.field("name", "string"))
	default:
		return errors.NewGenerationError("unsupported directive " + d.Kind.String())
	}
	return nil
}

func (r *renderer) readOnlyManaged(p *generator.PropertyMetadata, getter *models.Method, applyRole bool) error {
	m := r.replace(getter)
	m.Valued = true
	slot := r.slot(p)
	property := strconv.Quote(p.Name)
	propertyType := getter.ReturnType()

	m.line("if o.%s == nil {", slot)
	switch {
	case managedConstructors[propertyType] != "":
		m.line("o.%s = decor.AttachOwner(%s, o, %s)", slot, managedConstructors[propertyType], property)
	case propertyType == models.NamedDomainObjectContainer:
		m.line("o.%s = decor.AttachOwner(decor.NewNamedContainer(func(name string) (any, error) {", slot)
		ref := models.ResolveIn(r.source, getter.Owner, getter.GenericReturnType())
		if len(ref.Args) == 0 || ref.Args[0].IsVar() {
			m.line("return nil, fmt.Errorf(\"cannot create element '%%s' of %%s: element type unknown\", name, %s)", strconv.Quote("property '"+p.Name+"'"))
		} else {
			m.line("return o.NewNested(%s, decor.Name(name), name)", strconv.Quote(ref.Args[0].Raw().DisplayName()))
		}
		m.line("}), o, %s)", property)
	case p.HasAnnotation(models.Nested):
		m.Fallible = true
		m.line("nested, err := o.NewNested(%s, decor.Name(o.String()+%s))",
			strconv.Quote(propertyType.DisplayName()), strconv.Quote(" property '"+p.Name+"'"))
		m.line("if err != nil {")
		m.line("return %s, err", zeroOf(m.Result))
		m.line("}")
		m.line("o.%s = decor.AttachOwner(nested, o, %s)", slot, property)
	default:
		return errors.NewGenerationError(fmt.Sprintf("cannot create a managed value of type %s for %s", propertyType.DisplayName(), p))
	}
	if applyRole {
		m.line("decor.AttachProducer(o.%s, o)", slot)
	}
	m.line("}")
	m.line("v := o.%s", slot)
	return nil
}

func (r *renderer) managedMethods(mutable, readOnly []*generator.PropertyMetadata) {
	properties := append(append([]*generator.PropertyMetadata(nil), mutable...), readOnly...)

	unpack := r.define("unpackState()", r.names.synthesized("unpackState"), nil, "[]any")
	unpack.Raw = true
	unpack.line("state := make([]any, 0, %d)", len(properties))
	for i, p := range properties {
		var (
			name     string
			fallible bool
			ok       bool
		)
		if p.MainGetter != nil {
			name, fallible, ok = r.callable(p.MainGetter.Method)
		}
		switch {
		case !ok:
			unpack.line("state = append(state, o.%s)", r.slot(p))
		case fallible:
			unpack.line("v%d, _ := o.%s()", i, name)
			unpack.line("state = append(state, v%d)", i)
		default:
			unpack.line("state = append(state, o.%s())", name)
		}
	}
	unpack.line("return state")

	restore := r.define("initFromState(Object)", r.names.synthesized("initFromState", models.Object), []param{{Name: "state", Type: "[]any"}}, "")
	restore.Raw, restore.Fallible = true, true
	restore.line("if len(state) != %d {", len(properties))
	restore.line("return fmt.Errorf(\"Expected %%d state values but got %%d.\", %d, len(state))", len(properties))
	restore.line("}")
	for i, p := range properties {
		restore.line("o.%s = state[%d]", r.slot(p), i)
	}
	restore.line("return nil")

	if unpack.Name == "UnpackState" && restore.Name == "InitFromState" {
		r.assertions = append(r.assertions, "decor.Managed")
	}
}

func (r *renderer) dynamicProtocol() {
	if _, done := r.methodBySig["hasProperty(String)"]; done {
		return
	}
	type protocolMethod struct {
		name   string
		params []*models.Type
		goArgs []param
		result string
		call   string
	}
	protocol := []protocolMethod{
		{"hasProperty", []*models.Type{models.String}, []param{{"name", "string"}}, "bool", "HasProperty(name)"},
		{"getProperty", []*models.Type{models.String}, []param{{"name", "string"}}, "(any, error)", "GetProperty(name)"},
		{"setProperty", []*models.Type{models.String, models.Object}, []param{{"name", "string"}, {"value", "any"}}, "error", "SetProperty(name, value)"},
		{"hasMethod", []*models.Type{models.String, models.Object}, []param{{"name", "string"}, {"args", "...any"}}, "bool", "HasMethod(name, args...)"},
		{"invokeMethod", []*models.Type{models.String, models.Object}, []param{{"name", "string"}, {"args", "...any"}}, "(any, error)", "InvokeMethod(name, args...)"},
	}
	canonical := true
	for _, pm := range protocol {
		name := r.names.synthesized(pm.name, pm.params...)
		canonical = canonical && name == inspect.Capitalize(pm.name)
		m := r.define(signatureOf(pm.name, pm.params), name, pm.goArgs, pm.result)
		m.Raw = true
		m.line("return decor.NewBeanDynamicObject(o).%s", pm.call)
	}
	if canonical {
		r.assertions = append(r.assertions, "decor.DynamicObject")
	}
}

func (r *renderer) actionMethod(target *models.Method) {
	name, fallible, ok := r.callable(target)
	if !ok {
		return
	}
	params := append([]*models.Type(nil), target.ParamTypes()...)
	params[len(params)-1] = models.Closure
	goParams := paramsOf(r.source, target)
	goParams[len(goParams)-1].Type = "*decor.Closure"

	m := r.define(signatureOf(target.Name, params), r.names.synthesized(target.Name, params...), goParams, resultOf(r.source, target))
	m.Raw, m.Fallible = true, fallible
	args := make([]string, len(goParams))
	for i, p := range goParams {
		args[i] = p.Name
	}
	args[len(args)-1] = "decor.ConfigureUsing(" + args[len(args)-1] + ")"
	call := fmt.Sprintf("o.%s(%s)", name, strings.Join(args, ", "))
	if m.Result != "" || m.Fallible {
		m.line("return " + call)
	} else {
		m.line(call)
	}
}

func (r *renderer) setterOverload(p *generator.PropertyMetadata, getter *models.Method) {
	setterName := "set" + inspect.Capitalize(p.Name)
	signature := signatureOf(setterName, []*models.Type{models.Object})
	if _, exists := r.memberBySig[signature]; exists {
		return
	}
	if _, exists := r.methodBySig[signature]; exists {
		return
	}
	name, fallible, ok := r.callable(getter)
	if !ok {
		return
	}
	m := r.define(signature, r.names.synthesized(setterName, models.Object), []param{{Name: "value", Type: "any"}}, "")
	m.Raw, m.Fallible = true, true
	if fallible {
		m.line("holder, err := o.%s()", name)
		m.line("if err != nil {")
		m.line("return err")
		m.line("}")
	} else {
		m.line("holder := o.%s()", name)
	}
	m.line("setter, ok := any(holder).(decor.ValueSetter)")
	m.line("if !ok {")
	m.line("return fmt.Errorf(\"Cannot set the value of %%s: %%T does not accept values.\", %s, holder)", strconv.Quote("property '"+p.Name+"'"))
	m.line("}")
	m.line("return setter.SetFromAny(value)")
}

func (r *renderer) constructor(c *models.Constructor, addName bool, index int) {
	name := "New" + r.typeName
	if index > 0 {
		name = fmt.Sprintf("%s%d", name, index+1)
	}
	var params []param
	if r.membersName != "" {
		params = append(params, param{Name: "members", Type: r.membersName})
	}
	params = append(params,
		param{Name: "services", Type: "decor.ServiceLookup"},
		param{Name: "nested", Type: "decor.InstanceFactory"},
		param{Name: "displayName", Type: "decor.Describable"})
	for i, p := range c.Params {
		goType := GoType(p)
		if goType == "" {
			goType = "any"
		}
		params = append(params, param{Name: fmt.Sprintf("arg%d", i), Type: goType})
	}

	m := &method{Name: name, Params: params, Result: "*" + r.typeName, Raw: true}
	if r.membersName != "" {
		m.line("o := &%s{%s: members}", r.typeName, r.membersName)
	} else {
		m.line("o := &%s{}", r.typeName)
	}
	m.line("o.InitBase(%s, services, nested, displayName)", strconv.Quote(r.plan.Generated.DisplayName()))
	if addName {
		m.line("o.%s = arg0", r.field("name", "string"))
	}
	if r.plan.ConventionAware {
		ineligible := make([]string, len(r.plan.Ineligible))
		for i, p := range r.plan.Ineligible {
			ineligible[i] = p.Name
		}
		m.line("o.ConfigureConventions(%s, %s)", stringSlice(r.conventionProperties), stringSlice(ineligible))
	}
	if len(r.plan.EagerAttach) > 0 && r.membersName != "" {
		m.line("if members != nil {")
		for _, a := range r.plan.EagerAttach {
			member, ok := r.memberBySig[a.Property.MainGetter.Method.Signature()]
			if !ok {
				continue
			}
			expr := fmt.Sprintf("decor.AttachOwner(members.%s(), o, %s)", member.Name, strconv.Quote(a.Property.Name))
			if a.ApplyRole {
				expr = "decor.AttachProducer(" + expr + ", o)"
			}
			m.line(expr)
		}
		m.line("}")
	}
	m.line("return o")
	r.constructors = append(r.constructors, m)
}

func (r *renderer) render(opts RenderOptions) (*Source, error) {
	data := fileData{
		Package:      packageName(opts.Package, r.source.Package),
		SourceName:   r.source.DisplayName(),
		TypeName:     r.typeName,
		MembersName:  r.membersName,
		Members:      r.members,
		Fields:       r.fields,
		Assertions:   r.assertions,
		Constructors: r.constructors,
		Methods:      r.methods,
	}
	for _, m := range data.Methods {
		if m.Doc == "" {
			m.Doc = "is generated for " + r.source.DisplayName()
		}
	}

	body, err := executeTemplate("body", data)
	if err != nil {
		return nil, err
	}
	imports := NewImportManager()
	if bytes.Contains(body, []byte("fmt.")) {
		imports.AddImport("fmt")
	}
	runtimeImport := opts.RuntimeImport
	if runtimeImport == "" {
		runtimeImport = DecorImport
	}
	if path.Base(runtimeImport) == "decor" {
		imports.AddUserPackages(runtimeImport)
	} else {
		imports.AddPackageImport("decor", runtimeImport)
	}
	data.Imports = imports.GenerateImports()

	header, err := executeTemplate("header", data)
	if err != nil {
		return nil, err
	}
	fileName := strings.ToLower(r.typeName) + ".go"
	code, err := utils.FormatGoSource(fileName, append(header, body...))
	if err != nil {
		return nil, errors.WrapTemplateError("decorated-type", "format", err)
	}
	return &Source{TypeName: r.typeName, FileName: fileName, Package: data.Package, Code: code, Plan: r.plan}, nil
}

func packageName(override, sourcePackage string) string {
	if override != "" {
		return override
	}
	parts := strings.FieldsFunc(sourcePackage, func(r rune) bool { return r == '.' || r == '/' })
	if len(parts) == 0 {
		return "decorated"
	}
	return parts[len(parts)-1]
}

func signatureOf(name string, params []*models.Type) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.QualifiedName()
	}
	return name + "(" + strings.Join(names, ",") + ")"
}

func stringSlice(values []string) string {
	if len(values) == 0 {
		return "nil"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
