package generator

import (
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
)

// dslMixInHandler adds the dynamic object protocol, closure overloads for
// action methods and set-methods for mutable properties.
type dslMixInHandler struct {
	baseHandler
	extensible *extensibleTypeHandler

	providesOwnDynamicObject bool
	needDynamicAware         bool
	needDynamicObject        bool
	providesOwnToString      bool
	mutableProperties        []*PropertyMetadata
	actionMethods            *inspect.MethodSet
	closureMethods           map[string][]*models.Method
}

func newDslMixInHandler(extensible *extensibleTypeHandler) *dslMixInHandler {
	return &dslMixInHandler{
		extensible:     extensible,
		actionMethods:  inspect.NewMethodSet(),
		closureMethods: make(map[string][]*models.Method),
	}
}

func (h *dslMixInHandler) StartType(t *models.Type) {
	h.needDynamicAware = !models.DynamicObjectAware.IsAssignableFrom(t)
	h.needDynamicObject = !models.DynamicObjectProtocol.IsAssignableFrom(t)
}

func (h *dslMixInHandler) VisitProperty(p *PropertyMetadata) {
	if !p.IsWritable() {
		return
	}
	// Bulk containers have no set-method support
	if models.Iterable.IsAssignableFrom(p.Type()) {
		return
	}
	h.mutableProperties = append(h.mutableProperties, p)
}

func (h *dslMixInHandler) ClaimPropertyImplementation(p *PropertyMetadata) bool {
	if p.Name == "asDynamicObject" {
		h.providesOwnDynamicObject = true
		return true
	}
	return false
}

func (h *dslMixInHandler) VisitInstanceMethod(m *models.Method) {
	params := m.ParamTypes()
	switch {
	case len(params) > 0 && params[len(params)-1] == models.Action:
		h.actionMethods.Add(m)
	case len(params) > 0 && params[len(params)-1] == models.Closure:
		h.closureMethods[m.Name] = append(h.closureMethods[m.Name], m)
	case m.Name == "toString" && len(params) == 0 && m.Owner != models.Object:
		h.providesOwnToString = true
	}
}

func (h *dslMixInHandler) ApplyToInspection(v ClassInspectionVisitor) {
	if h.providesOwnDynamicObject {
		v.ProvidesOwnDynamicObjectImplementation()
	}
	if h.providesOwnToString {
		v.ProvidesOwnToString()
	}
}

func (h *dslMixInHandler) ApplyToGeneration(v ClassGenerationVisitor) {
	if h.needDynamicAware {
		v.MixInDynamicAware()
	}
	if h.needDynamicObject {
		v.MixInDynamicObject()
	}
	v.AddDynamicMethods()
	h.addMissingClosureOverloads(v)
	h.addSetMethods(v)
}

func (h *dslMixInHandler) addSetMethods(v ClassGenerationVisitor) {
	for _, p := range h.mutableProperties {
		if len(p.SetMethods) == 0 {
			appliedTo := make(map[*models.Type]bool)
			for _, setter := range p.Setters {
				paramType := setter.ParamTypes()[0]
				if !appliedTo[paramType] {
					appliedTo[paramType] = true
					v.AddSetMethod(p, setter)
				}
			}
		} else if h.extensible.isConventionProperty(p) {
			for _, setMethod := range p.SetMethods {
				v.ApplyConventionMappingToSetMethod(p, setMethod)
			}
		}
	}
}

func (h *dslMixInHandler) addMissingClosureOverloads(v ClassGenerationVisitor) {
	for _, m := range h.actionMethods.Values() {
		if findClosureOverload(m, h.closureMethods[m.Name]) == nil {
			v.AddActionMethod(m)
		}
	}
}

// findClosureOverload finds a candidate with the same arity whose leading
// parameter types match exactly.
func findClosureOverload(m *models.Method, candidates []*models.Method) *models.Method {
	params := m.ParamTypes()
	for _, candidate := range candidates {
		candidateParams := candidate.ParamTypes()
		if len(candidateParams) != len(params) {
			continue
		}
		matches := true
		for i := 0; i < len(candidateParams)-1; i++ {
			if candidateParams[i] != params[i] {
				matches = false
				break
			}
		}
		if matches {
			return candidate
		}
	}
	return nil
}
