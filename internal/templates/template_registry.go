package templates

import (
	"bytes"
	"text/template"

	"github.com/toyz/decor/internal/errors"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerMemberTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names lists the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["header"] = `// Code generated by decor. DO NOT EDIT.

package {{.Package}}

{{.Imports}}
`

	tr.templates["body"] = `{{if .MembersName}}
// {{.MembersName}} are the implemented methods of {{.SourceName}}
type {{.MembersName}} interface {
{{range .Members}}	{{.Name}}{{.Signature}}
{{end}}}
{{end}}
// {{.TypeName}} decorates {{.SourceName}}
type {{.TypeName}} struct {
	decor.Base
{{if .MembersName}}	{{.MembersName}}
{{end}}{{range .Fields}}	{{.Name}} {{.Type}}
{{end}}}
{{range .Assertions}}
var _ {{.}} = (*{{$.TypeName}})(nil)
{{end}}{{range .Constructors}}{{template "function" .}}{{end}}{{range .Methods}}{{template "method" (receiver $.TypeName .)}}{{end}}`
}

func (tr *TemplateRegistry) registerMemberTemplates() {
	tr.templates["function"] = `
// {{.Name}} creates a {{trimPrefix .Result "*"}}
func {{.Name}}{{.Signature}} {
{{range .Statements}}	{{.}}
{{end}}}
`

	tr.templates["method"] = `
// {{.Method.Name}} {{.Method.Doc}}
func (o *{{.TypeName}}) {{.Method.Name}}{{.Method.Signature}} {
{{range .Method.Statements}}	{{.}}
{{end}}}
`
}

type receiverData struct {
	TypeName string
	Method   *method
}

var funcMap = template.FuncMap{
	"receiver": func(typeName string, m *method) receiverData {
		return receiverData{TypeName: typeName, Method: m}
	},
	"trimPrefix": func(s, prefix string) string {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return s[len(prefix):]
		}
		return s
	},
}

// executeTemplate executes a registered template, with every other
// registered template available to it
func executeTemplate(name string, data any) ([]byte, error) {
	root := template.New("decor").Funcs(funcMap)
	for _, other := range DefaultTemplateRegistry.Names() {
		if _, err := root.New(other).Parse(DefaultTemplateRegistry.MustGet(other)); err != nil {
			return nil, errors.WrapTemplateError(other, "parse", err)
		}
	}

	var buf bytes.Buffer
	if err := root.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.WrapTemplateError(name, "execute", err)
	}
	return buf.Bytes(), nil
}

// DefaultTemplateRegistry is the global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
