package decor

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// BeanDynamicObject is a DynamicObject over the exported methods of a Go
// value. Properties map to Get<Name>/Set<Name> (or Is<Name> for bool
// getters); values that are ExtensionAware also expose their extensions and
// extra properties.
type BeanDynamicObject struct {
	bean  any
	value reflect.Value
}

var _ DynamicObject = (*BeanDynamicObject)(nil)

// NewBeanDynamicObject wraps bean
func NewBeanDynamicObject(bean any) *BeanDynamicObject {
	return &BeanDynamicObject{bean: bean, value: reflect.ValueOf(bean)}
}

// HasProperty implements DynamicObject
func (b *BeanDynamicObject) HasProperty(name string) bool {
	if _, ok := b.getter(name); ok {
		return true
	}
	if extensions := b.extensions(); extensions != nil {
		if extensions.FindByName(name) != nil {
			return true
		}
		_, ok := extensions.Extra(name)
		return ok
	}
	return false
}

// GetProperty implements DynamicObject
func (b *BeanDynamicObject) GetProperty(name string) (any, error) {
	if getter, ok := b.getter(name); ok {
		return results(getter.Call(nil))
	}
	if extensions := b.extensions(); extensions != nil {
		if extension := extensions.FindByName(name); extension != nil {
			return extension, nil
		}
		if v, ok := extensions.Extra(name); ok {
			return v, nil
		}
	}
	return nil, &MissingPropertyError{Property: name, Target: b.describe()}
}

// SetProperty implements DynamicObject
func (b *BeanDynamicObject) SetProperty(name string, value any) error {
	setter, ok := b.method("Set"+capitalize(name), []any{value})
	if !ok {
		return &MissingPropertyError{Property: name, Target: b.describe(), Setting: true}
	}
	_, err := results(setter.Call(arguments(setter.Type(), []any{value})))
	return err
}

// HasMethod implements DynamicObject
func (b *BeanDynamicObject) HasMethod(name string, args ...any) bool {
	_, ok := b.method(capitalize(name), args)
	return ok
}

// InvokeMethod implements DynamicObject
func (b *BeanDynamicObject) InvokeMethod(name string, args ...any) (any, error) {
	m, ok := b.method(capitalize(name), args)
	if !ok {
		return nil, &MissingMethodError{Method: name, Target: b.describe(), Args: args}
	}
	return results(m.Call(arguments(m.Type(), args)))
}

func (b *BeanDynamicObject) getter(name string) (reflect.Value, bool) {
	for _, prefix := range []string{"Get", "Is"} {
		if m, ok := b.method(prefix+capitalize(name), nil); ok {
			if prefix == "Is" && (m.Type().NumOut() == 0 || m.Type().Out(0).Kind() != reflect.Bool) {
				continue
			}
			if m.Type().NumOut() > 0 && m.Type().Out(0) != errorType {
				return m, true
			}
		}
	}
	return reflect.Value{}, false
}

func (b *BeanDynamicObject) method(name string, args []any) (reflect.Value, bool) {
	if !b.value.IsValid() {
		return reflect.Value{}, false
	}
	m := b.value.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, false
	}
	t := m.Type()
	if t.IsVariadic() || t.NumIn() != len(args) {
		return reflect.Value{}, false
	}
	for i, arg := range args {
		if !acceptsArgument(t.In(i), arg) {
			return reflect.Value{}, false
		}
	}
	return m, true
}

func (b *BeanDynamicObject) extensions() *Extensions {
	if aware, ok := b.bean.(ExtensionAware); ok {
		return aware.Extensions()
	}
	return nil
}

func (b *BeanDynamicObject) describe() string {
	if d, ok := b.bean.(Describable); ok {
		return d.DisplayName()
	}
	return fmt.Sprint(b.bean)
}

func acceptsArgument(param reflect.Type, arg any) bool {
	if arg == nil {
		switch param.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(arg).AssignableTo(param)
}

func arguments(t reflect.Type, args []any) []reflect.Value {
	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			values[i] = reflect.Zero(t.In(i))
			continue
		}
		values[i] = reflect.ValueOf(arg)
	}
	return values
}

// results maps (), (v), (err) and (v, err) returns to a value and an error
func results(out []reflect.Value) (any, error) {
	var (
		value any
		err   error
	)
	for _, o := range out {
		if o.Type() == errorType {
			if !o.IsNil() {
				err = o.Interface().(error)
			}
			continue
		}
		value = o.Interface()
	}
	return value, err
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
