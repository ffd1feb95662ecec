package plan

import (
	"fmt"
	"strings"

	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
)

// DefaultSuffix is appended to the source name to form the generated name
const DefaultSuffix = "_Decorated"

// Flags are the structural decisions made during inspection
type Flags struct {
	Extensible       bool
	ConventionAware  bool
	OwnDynamicObject bool
	OwnServices      bool
	OwnToString      bool
	FullyManaged     bool
	ServiceInjection bool
	NestedObjects    bool
}

// Attachment is a property whose owner is attached during construction
type Attachment struct {
	Property  *generator.PropertyMetadata
	ApplyRole bool
}

// ClassPlan is everything a backend needs to emit one decorated type
type ClassPlan struct {
	Source    *models.Type
	Generated *models.Type
	Flags

	EagerAttach []Attachment
	Ineligible  []*generator.PropertyMetadata
	Directives  []Directive
}

// Has reports whether any directive of kind was recorded
func (p *ClassPlan) Has(kind DirectiveKind) bool {
	for _, d := range p.Directives {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Find returns the directives of kind, optionally restricted to a property
func (p *ClassPlan) Find(kind DirectiveKind, property string) []Directive {
	var result []Directive
	for _, d := range p.Directives {
		if d.Kind != kind {
			continue
		}
		if property != "" && d.PropertyName() != property {
			continue
		}
		result = append(result, d)
	}
	return result
}

// ForProperty returns every directive that names the property
func (p *ClassPlan) ForProperty(property string) []Directive {
	var result []Directive
	for _, d := range p.Directives {
		if d.PropertyName() == property {
			result = append(result, d)
		}
	}
	return result
}

// Kinds lists the directive kinds in recording order
func (p *ClassPlan) Kinds() []DirectiveKind {
	kinds := make([]DirectiveKind, len(p.Directives))
	for i, d := range p.Directives {
		kinds[i] = d.Kind
	}
	return kinds
}

// IsIneligible reports whether convention mapping is refused for property
func (p *ClassPlan) IsIneligible(property string) bool {
	for _, ineligible := range p.Ineligible {
		if ineligible.Name == property {
			return true
		}
	}
	return false
}

// Describe renders the plan as an indented tree
func (p *ClassPlan) Describe() string {
	var b strings.Builder
	name := p.Source.DisplayName()
	if p.Generated != nil {
		name += " -> " + p.Generated.DisplayName()
	}
	b.WriteString(name + "\n")

	var flags []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"extensible", p.Extensible},
		{"conventionAware", p.ConventionAware},
		{"ownDynamicObject", p.OwnDynamicObject},
		{"ownServices", p.OwnServices},
		{"ownToString", p.OwnToString},
		{"fullyManaged", p.FullyManaged},
		{"serviceInjection", p.ServiceInjection},
		{"nestedObjects", p.NestedObjects},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		fmt.Fprintf(&b, "  flags: %s\n", strings.Join(flags, ", "))
	}
	for _, a := range p.EagerAttach {
		fmt.Fprintf(&b, "  attach: %s", a.Property.Name)
		if a.ApplyRole {
			b.WriteString(" [applyRole]")
		}
		b.WriteByte('\n')
	}
	for _, prop := range p.Ineligible {
		fmt.Fprintf(&b, "  ineligible: %s\n", prop.Name)
	}
	for _, d := range p.Directives {
		fmt.Fprintf(&b, "  %s\n", d)
	}
	return b.String()
}
