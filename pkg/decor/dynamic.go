package decor

// DynamicObject resolves properties and methods by name
type DynamicObject interface {
	HasProperty(name string) bool
	GetProperty(name string) (any, error)
	SetProperty(name string, value any) error
	HasMethod(name string, args ...any) bool
	InvokeMethod(name string, args ...any) (any, error)
}

// DynamicObjectAware exposes the dynamic view of an object
type DynamicObjectAware interface {
	AsDynamicObject() DynamicObject
}

// Managed objects can unpack their state and be recreated from it
type Managed interface {
	UnpackState() []any
	InitFromState(state []any) error
}
