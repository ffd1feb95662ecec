package inspect

import (
	"unicode"
	"unicode/utf8"

	"github.com/toyz/decor/internal/models"
)

// AccessorType classifies a method by bean-property naming convention
type AccessorType int

const (
	NotAccessor AccessorType = iota
	GetGetter
	IsGetter
	Setter
)

// String returns a readable name for the accessor type
func (a AccessorType) String() string {
	switch a {
	case GetGetter:
		return "get-getter"
	case IsGetter:
		return "is-getter"
	case Setter:
		return "setter"
	default:
		return "none"
	}
}

// IsGetter reports both getter forms
func (a AccessorType) IsGetter() bool {
	return a == GetGetter || a == IsGetter
}

// AccessorTypeOf classifies m. Static methods are never accessors.
func AccessorTypeOf(m *models.Method) AccessorType {
	if m.IsStatic() {
		return NotAccessor
	}
	name := m.Name
	switch {
	case len(name) > 3 && name[:3] == "get" && len(m.Params) == 0 && m.ReturnType() != models.Void:
		return GetGetter
	case len(name) > 2 && name[:2] == "is" && len(m.Params) == 0 && m.ReturnType() == models.Boolean:
		return IsGetter
	case len(name) > 3 && name[:3] == "set" && len(m.Params) == 1:
		return Setter
	}
	return NotAccessor
}

// PropertyName derives the property name from an accessor method name
func (a AccessorType) PropertyName(methodName string) string {
	switch a {
	case GetGetter, Setter:
		return Decapitalize(methodName[3:])
	case IsGetter:
		return Decapitalize(methodName[2:])
	}
	return ""
}

// PropertyNameOf classifies m and returns its property name, or "" when m is
// not an accessor.
func PropertyNameOf(m *models.Method) string {
	return AccessorTypeOf(m).PropertyName(m.Name)
}

// Decapitalize lowers the first rune unless the first two runes are both
// upper case (URL stays URL, Name becomes name).
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if size < len(s) {
		second, _ := utf8.DecodeRuneInString(s[size:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return s
		}
	}
	return string(unicode.ToLower(first)) + s[size:]
}

// Capitalize upper-cases the first rune
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
