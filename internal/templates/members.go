package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
)

// param is one Go parameter
type param struct {
	Name string
	Type string
}

// method is a Go method of the emitted struct. Value methods leave their
// result in v; the return statement is added when rendering.
type method struct {
	Doc      string
	Name     string
	Params   []param
	Result   string
	Fallible bool
	Valued   bool
	Body     []string

	// Raw methods carry their complete body, return included
	Raw bool
}

func (m *method) line(format string, args ...any) {
	m.Body = append(m.Body, fmt.Sprintf(format, args...))
}

// Signature renders the parameter list and results
func (m *method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name + " " + p.Type
	}
	results := m.Result
	if m.Fallible {
		if results == "" {
			results = "error"
		} else {
			results = "(" + results + ", error)"
		}
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if results != "" {
		sig += " " + results
	}
	return sig
}

// Statements renders the body including the final return
func (m *method) Statements() []string {
	if m.Raw {
		return m.Body
	}
	body := append([]string(nil), m.Body...)
	switch {
	case m.Valued && m.Fallible:
		body = append(body, "return "+convert("v", m.Result)+", nil")
	case m.Valued:
		body = append(body, "return "+convert("v", m.Result))
	case m.Fallible:
		body = append(body, "return nil")
	}
	return body
}

// CallArgs lists the parameter names for forwarding calls
func (m *method) CallArgs() string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// namer assigns unique Go method names. Overloads after the first get the
// capitalized parameter type names appended.
type namer struct {
	bySignature map[string]string
	used        map[string]bool
}

func newNamer(reserved ...string) *namer {
	n := &namer{bySignature: make(map[string]string), used: make(map[string]bool)}
	for _, name := range reserved {
		n.used[name] = true
	}
	return n
}

func (n *namer) method(m *models.Method) string {
	return n.assign(m.Signature(), m.Name, m.ParamTypes())
}

func (n *namer) synthesized(name string, params ...*models.Type) string {
	signature := name + "("
	for i, p := range params {
		if i > 0 {
			signature += ","
		}
		signature += p.QualifiedName()
	}
	return n.assign(signature+")", name, params)
}

func (n *namer) assign(signature, name string, params []*models.Type) string {
	if assigned, ok := n.bySignature[signature]; ok {
		return assigned
	}
	candidate := inspect.Capitalize(name)
	if n.used[candidate] {
		for _, p := range params {
			candidate += identifier(p.DisplayName())
		}
	}
	for base, i := candidate, 2; n.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	n.used[candidate] = true
	n.bySignature[signature] = candidate
	return candidate
}

// identifier turns a display name such as Outer.Inner into OuterInner
func identifier(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '$' }) {
		b.WriteString(inspect.Capitalize(part))
	}
	return b.String()
}

// goIdentifier turns a display name such as Outer.Inner_Decorated into
// Outer_Inner_Decorated
func goIdentifier(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// params builds Go parameters for a method's declared parameters
func paramsOf(owner *models.Type, m *models.Method) []param {
	params := make([]param, len(m.Params))
	for i, p := range m.Params {
		goType := GoType(models.ResolveIn(owner, m.Owner, p))
		if goType == "" {
			goType = "any"
		}
		params[i] = param{Name: fmt.Sprintf("arg%d", i), Type: goType}
	}
	return params
}

func resultOf(owner *models.Type, m *models.Method) string {
	return GoType(models.ResolveIn(owner, m.Owner, m.GenericReturnType()))
}
