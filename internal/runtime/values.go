package runtime

import (
	"fmt"

	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

// zeroValue is the value of an unset slot of type t
func zeroValue(t *models.Type) any {
	switch t {
	case models.Boolean:
		return false
	case models.Int:
		return 0
	case models.Long:
		return int64(0)
	case models.Double:
		return float64(0)
	}
	return nil
}

// newManagedValue creates the value of a read-only managed property
func newManagedValue(o *Object, p *generator.PropertyMetadata, getter *models.Method) (any, error) {
	propertyType := getter.ReturnType()
	switch propertyType {
	case models.Property:
		return decor.NewProperty(), nil
	case models.ListProperty:
		return decor.NewListProperty(), nil
	case models.SetProperty:
		return decor.NewSetProperty(), nil
	case models.MapProperty:
		return decor.NewMapProperty(), nil
	case models.RegularFileProperty:
		return decor.NewRegularFileProperty(), nil
	case models.DirectoryProperty:
		return decor.NewDirectoryProperty(), nil
	case models.ConfigurableFileCollection:
		return decor.NewFileCollection(), nil
	case models.ConfigurableFileTree:
		return decor.NewFileTree(), nil
	case models.DomainObjectSet:
		return decor.NewDomainObjectSet(), nil
	case models.NamedDomainObjectContainer:
		elementType := elementTypeOf(o, getter)
		return decor.NewNamedContainer(func(name string) (any, error) {
			if elementType == nil {
				return nil, fmt.Errorf("cannot create element '%s' of %s: element type unknown", name, p)
			}
			return o.newNested(elementType, decor.Name(name), name)
		}), nil
	}
	if p.HasAnnotation(models.Nested) {
		return o.newNested(propertyType, decor.Name(o.String()+" property '"+p.Name+"'"))
	}
	return nil, fmt.Errorf("cannot create a managed value of type %s for %s", propertyType.DisplayName(), p)
}

func elementTypeOf(o *Object, getter *models.Method) *models.Type {
	ref := models.ResolveIn(o.class.source, getter.Owner, getter.GenericReturnType())
	if len(ref.Args) == 0 || ref.Args[0].IsVar() {
		return nil
	}
	return ref.Args[0].Raw()
}

// matches reports whether a Go value can be passed for a parameter of type t
func matches(t *models.Type, v any) bool {
	if v == nil {
		return !t.IsPrimitive()
	}
	switch t {
	case models.Object:
		return true
	case models.String:
		_, ok := v.(string)
		return ok
	case models.Boolean:
		_, ok := v.(bool)
		return ok
	case models.Int, models.Integer:
		_, ok := v.(int)
		return ok
	case models.Long:
		switch v.(type) {
		case int64, int:
			return true
		}
		return false
	case models.Double:
		_, ok := v.(float64)
		return ok
	case models.Closure:
		_, ok := v.(*decor.Closure)
		return ok
	case models.Action:
		_, ok := v.(decor.Action)
		return ok
	}
	if o, ok := v.(*Object); ok {
		return t.IsAssignableFrom(o.class.generated)
	}
	if t.IsPrimitive() {
		return false
	}
	return true
}

func matchesAll(params []*models.Type, args []any) bool {
	if len(params) != len(args) {
		return false
	}
	for i, p := range params {
		if !matches(p, args[i]) {
			return false
		}
	}
	return true
}
