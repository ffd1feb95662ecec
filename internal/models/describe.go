package models

import "strings"

// DescribeType renders a type for diagnostics
func DescribeType(t *Type) string {
	return t.DisplayName()
}

// DescribeMethod renders Owner.name() for diagnostics
func DescribeMethod(m *Method) string {
	var b strings.Builder
	if m.Owner != nil {
		b.WriteString(m.Owner.DisplayName())
		b.WriteByte('.')
	}
	b.WriteString(m.Name)
	b.WriteString("()")
	return b.String()
}

// DescribeAnnotation renders @Name for diagnostics
func DescribeAnnotation(t *Type) string {
	return "@" + t.Name
}

// DescribeSignature renders name(ParamA, ParamB) with generic arguments
func DescribeSignature(m *Method) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}
