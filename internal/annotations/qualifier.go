package annotations

import (
	"sort"

	"github.com/toyz/decor/internal/models"
)

// Qualifier restricts the property types an injection annotation accepts
type Qualifier struct {
	Types         []*models.Type
	ProviderTypes []*models.Type
}

// QualifierOf reads @InjectionPointQualifier from an annotation type
func QualifierOf(annotationType *models.Type) (*Qualifier, bool) {
	a := annotationType.Annotation(models.InjectionPointQualifier)
	if a == nil {
		return nil, false
	}
	q := &Qualifier{}
	for _, ref := range a.Types("types") {
		q.Types = append(q.Types, ref.Raw())
	}
	for _, ref := range a.Types("providerTypes") {
		q.ProviderTypes = append(q.ProviderTypes, ref.Raw())
	}
	return q, true
}

// AllowedTypes returns the accepted types: supported types as-is, provider
// types wrapped in Provider<>.
func (q *Qualifier) AllowedTypes() []models.TypeRef {
	var allowed []models.TypeRef
	for _, t := range q.Types {
		allowed = append(allowed, models.Ref(t))
	}
	for _, t := range q.ProviderTypes {
		allowed = append(allowed, models.Ref(models.Provider, models.Ref(t)))
	}
	return allowed
}

// Allows reports whether some accepted type can be assigned to a property
// declared with the given type.
func (q *Qualifier) Allows(ref models.TypeRef) bool {
	for _, allowed := range q.AllowedTypes() {
		if models.IsSubtypeOf(allowed, ref) {
			return true
		}
	}
	return false
}

// Allowed renders the accepted types, sorted
func (q *Qualifier) Allowed() []string {
	var names []string
	for _, allowed := range q.AllowedTypes() {
		names = append(names, allowed.String())
	}
	sort.Strings(names)
	return names
}
