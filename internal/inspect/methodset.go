package inspect

import "github.com/toyz/decor/internal/models"

// MethodSet keeps the first method seen per override key. Visiting the most
// derived type first makes overrides shadow what they override.
type MethodSet struct {
	keys    map[string]bool
	methods []*models.Method
}

// NewMethodSet creates an empty set
func NewMethodSet() *MethodSet {
	return &MethodSet{keys: make(map[string]bool)}
}

// Add records m unless a method with the same key is already present
func (s *MethodSet) Add(m *models.Method) bool {
	key := OverrideKey(m)
	if s.keys[key] {
		return false
	}
	s.keys[key] = true
	s.methods = append(s.methods, m)
	return true
}

// Values returns the methods in insertion order
func (s *MethodSet) Values() []*models.Method {
	return s.methods
}

// Len returns the number of methods
func (s *MethodSet) Len() int {
	return len(s.methods)
}

// OverrideKey is name, erased parameter types and erased return type.
// Covariant overrides therefore stay visible next to what they refine.
func OverrideKey(m *models.Method) string {
	return m.Signature() + m.ReturnType().QualifiedName()
}
