package models

// DirectSupertypes returns the superclass (when present) followed by the
// declared interfaces.
func (t *Type) DirectSupertypes() []TypeRef {
	var result []TypeRef
	if t.Super != nil {
		result = append(result, *t.Super)
	}
	return append(result, t.Interfaces...)
}

// Superclass returns the erased superclass, or nil
func (t *Type) Superclass() *Type {
	if t.Super == nil {
		if t.Kind == KindClass && t != Object {
			return Object
		}
		return nil
	}
	return t.Super.Type
}

// IsAssignableFrom reports whether a value of type other can be used where t
// is expected. Every reference type is assignable to Object.
func (t *Type) IsAssignableFrom(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other {
		return true
	}
	if other.IsPrimitive() || t.IsPrimitive() {
		return false
	}
	if t == Object {
		return true
	}
	seen := map[*Type]bool{other: true}
	queue := []*Type{other}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, super := range current.DirectSupertypes() {
			st := super.Type
			if st == nil || seen[st] {
				continue
			}
			if st == t {
				return true
			}
			seen[st] = true
			queue = append(queue, st)
		}
	}
	return false
}

// InheritedAnnotation looks up an annotation on t, its superclasses and its
// interfaces.
func (t *Type) InheritedAnnotation(annotationType *Type) *Annotation {
	seen := map[*Type]bool{}
	queue := []*Type{t}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil || seen[current] {
			continue
		}
		seen[current] = true
		if a := current.Annotation(annotationType); a != nil {
			return a
		}
		for _, super := range current.DirectSupertypes() {
			queue = append(queue, super.Type)
		}
	}
	return nil
}

// SupertypeArgs computes the type arguments of target as seen from ref,
// following generic bindings along the hierarchy. The boolean is false when
// target is not a supertype of ref.
func SupertypeArgs(ref TypeRef, target *Type) ([]TypeRef, bool) {
	if ref.Type == nil {
		return nil, false
	}
	seen := map[*Type]bool{}
	queue := []TypeRef{ref}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		t := current.Type
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		if t == target {
			return current.Args, true
		}
		bindings := bindingsOf(t, current.Args)
		for _, super := range t.DirectSupertypes() {
			queue = append(queue, Substitute(super, bindings))
		}
	}
	return nil, false
}

// SelfRef references t with its own type parameters as arguments
func SelfRef(t *Type) TypeRef {
	args := make([]TypeRef, len(t.TypeParams))
	for i, p := range t.TypeParams {
		args[i] = VarRef(p)
	}
	return Ref(t, args...)
}

// ResolveIn resolves a member type declared on declaring against owner's
// generic bindings. Unresolvable variables are left in place.
func ResolveIn(owner *Type, declaring *Type, r TypeRef) TypeRef {
	if !r.HasVars() || declaring == nil || len(declaring.TypeParams) == 0 {
		return r
	}
	args, ok := SupertypeArgs(SelfRef(owner), declaring)
	if !ok {
		return r
	}
	return Substitute(r, bindingsOf(declaring, args))
}

// IsSubtypeOf reports whether sub can be used where sup is expected. A raw
// sup matches any arguments; otherwise arguments must match exactly.
func IsSubtypeOf(sub, sup TypeRef) bool {
	if sup.IsVar() || sub.IsVar() {
		return sub.Equal(sup)
	}
	if !sup.Type.IsAssignableFrom(sub.Type) {
		return false
	}
	if len(sup.Args) == 0 {
		return true
	}
	args, ok := SupertypeArgs(sub, sup.Type)
	if !ok || len(args) != len(sup.Args) {
		return false
	}
	for i := range args {
		if !args[i].Equal(sup.Args[i]) {
			return false
		}
	}
	return true
}

func bindingsOf(t *Type, args []TypeRef) map[string]TypeRef {
	if len(t.TypeParams) == 0 || len(args) == 0 {
		return nil
	}
	bindings := make(map[string]TypeRef, len(t.TypeParams))
	for i, p := range t.TypeParams {
		if i < len(args) {
			bindings[p] = args[i]
		}
	}
	return bindings
}
