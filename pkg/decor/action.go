package decor

import "fmt"

// Action configures a target object
type Action interface {
	Execute(target any) error
}

// ActionFunc adapts a function to Action
type ActionFunc func(target any) error

// Execute implements Action
func (f ActionFunc) Execute(target any) error {
	return f(target)
}

// Closure is a dynamically dispatched block. The delegate is the object
// being configured.
type Closure struct {
	fn func(delegate any, args ...any) (any, error)
}

// NewClosure wraps fn
func NewClosure(fn func(delegate any, args ...any) (any, error)) *Closure {
	return &Closure{fn: fn}
}

// Call invokes the closure against delegate
func (c *Closure) Call(delegate any, args ...any) (any, error) {
	if c == nil || c.fn == nil {
		return nil, nil
	}
	return c.fn(delegate, args...)
}

// ConfigureUsing adapts a closure to an Action that calls it with the
// target as delegate and argument.
func ConfigureUsing(c *Closure) Action {
	return ActionFunc(func(target any) error {
		_, err := c.Call(target, target)
		return err
	})
}

// ToAction converts an Action, ActionFunc, plain func or Closure
func ToAction(v any) (Action, error) {
	switch a := v.(type) {
	case nil:
		return ActionFunc(func(any) error { return nil }), nil
	case Action:
		return a, nil
	case func(any) error:
		return ActionFunc(a), nil
	case func(any):
		return ActionFunc(func(target any) error {
			a(target)
			return nil
		}), nil
	case *Closure:
		return ConfigureUsing(a), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to an action", v)
	}
}
