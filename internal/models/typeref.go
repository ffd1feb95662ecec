package models

import "strings"

// TypeRef references a type with bound type arguments, or a type variable
type TypeRef struct {
	Type *Type
	Args []TypeRef
	Var  string
}

// Ref builds a reference to t with the given arguments
func Ref(t *Type, args ...TypeRef) TypeRef {
	return TypeRef{Type: t, Args: args}
}

// VarRef builds a reference to a type variable
func VarRef(name string) TypeRef {
	return TypeRef{Var: name}
}

// IsZero reports an unset reference
func (r TypeRef) IsZero() bool {
	return r.Type == nil && r.Var == ""
}

// IsVar reports whether r is a type variable
func (r TypeRef) IsVar() bool {
	return r.Type == nil && r.Var != ""
}

// Raw returns the erased type. Type variables erase to Object.
func (r TypeRef) Raw() *Type {
	if r.Type == nil {
		return Object
	}
	return r.Type
}

// Equal compares two references structurally
func (r TypeRef) Equal(other TypeRef) bool {
	if r.IsVar() || other.IsVar() {
		return r.Var == other.Var && r.Type == other.Type
	}
	if r.Type != other.Type || len(r.Args) != len(other.Args) {
		return false
	}
	for i := range r.Args {
		if !r.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// HasVars reports whether r mentions any type variable
func (r TypeRef) HasVars() bool {
	if r.IsVar() {
		return true
	}
	for _, arg := range r.Args {
		if arg.HasVars() {
			return true
		}
	}
	return false
}

// String renders the canonical form, e.g. Provider<RegularFile>
func (r TypeRef) String() string {
	if r.IsZero() {
		return "void"
	}
	if r.IsVar() {
		return r.Var
	}
	if len(r.Args) == 0 {
		return r.Type.DisplayName()
	}
	var b strings.Builder
	b.WriteString(r.Type.DisplayName())
	b.WriteByte('<')
	for i, arg := range r.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Substitute replaces type variables using bindings
func Substitute(r TypeRef, bindings map[string]TypeRef) TypeRef {
	if r.IsVar() {
		if bound, ok := bindings[r.Var]; ok {
			return bound
		}
		return r
	}
	if len(r.Args) == 0 {
		return r
	}
	args := make([]TypeRef, len(r.Args))
	for i, arg := range r.Args {
		args[i] = Substitute(arg, bindings)
	}
	return TypeRef{Type: r.Type, Args: args}
}
