package generator

import (
	"strings"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/inspect"
	"github.com/toyz/decor/internal/models"
)

// ClassValidator checks a single declared method
type ClassValidator interface {
	ValidateMethod(m *models.Method, accessor inspect.AccessorType) error
}

// disabledAnnotationValidator rejects a known injection annotation that is
// not enabled for this generator.
type disabledAnnotationValidator struct {
	annotation *models.Type
}

func (v *disabledAnnotationValidator) ValidateMethod(m *models.Method, _ inspect.AccessorType) error {
	if m.HasAnnotation(v.annotation) {
		return annotationError(v.annotation, m, "Cannot use %a annotation on method %m.")
	}
	return nil
}

// injectionAnnotationValidator checks placement of @Inject and the enabled
// custom injection annotations.
type injectionAnnotationValidator struct {
	annotationTypes []*models.Type
	qualifiers      map[*models.Type]*annotations.Qualifier
}

func (v *injectionAnnotationValidator) ValidateMethod(m *models.Method, accessor inspect.AccessorType) error {
	var matches []*models.Type
	candidates := append([]*models.Type{models.Inject}, v.annotationTypes...)
	for _, annotationType := range candidates {
		if !m.HasAnnotation(annotationType) {
			continue
		}
		matches = append(matches, annotationType)
		if err := v.validatePlacement(m, accessor, annotationType); err != nil {
			return err
		}
	}
	if len(matches) > 1 {
		message := "Cannot use " + models.DescribeAnnotation(matches[0]) + " and " +
			models.DescribeAnnotation(matches[1]) + " annotations together on method " +
			models.DescribeMethod(m) + "."
		return errors.NewShapeError(message).
			WithMember(models.DescribeMethod(m)).
			WithAnnotation(matches[0].Name)
	}
	return nil
}

func (v *injectionAnnotationValidator) validatePlacement(m *models.Method, accessor inspect.AccessorType, annotationType *models.Type) error {
	switch {
	case m.IsStatic():
		return annotationError(annotationType, m, "Cannot use %a annotation on method %m as it is static.")
	case accessor != inspect.GetGetter:
		return annotationError(annotationType, m, "Cannot use %a annotation on method %m as it is not a property getter.")
	case m.IsFinal():
		return annotationError(annotationType, m, "Cannot use %a annotation on method %m as it is final.")
	case !m.Modifiers.IsPublic() && !m.Modifiers.IsProtected():
		return annotationError(annotationType, m, "Cannot use %a annotation on method %m as it is not public or protected.")
	}

	qualifier, ok := v.qualifiers[annotationType]
	if !ok || len(qualifier.AllowedTypes()) == 0 {
		return nil
	}
	returnType := m.GenericReturnType()
	if qualifier.Allows(returnType) {
		return nil
	}
	message := "Cannot use " + models.DescribeAnnotation(annotationType) + " annotation on property " +
		models.DescribeMethod(m) + " of type " + returnType.String() +
		". Allowed property types: " + strings.Join(qualifier.Allowed(), ", ") + "."
	return errors.NewShapeError(message).
		WithMember(models.DescribeMethod(m)).
		WithAnnotation(annotationType.Name).
		WithSuggestion("Change the property type to one of: " + strings.Join(qualifier.Allowed(), ", "))
}

// annotationError expands %a to the annotation and %m to the method
func annotationError(annotationType *models.Type, m *models.Method, template string) *errors.ShapeError {
	message := strings.NewReplacer(
		"%a", models.DescribeAnnotation(annotationType),
		"%m", models.DescribeMethod(m),
	).Replace(template)
	return errors.NewShapeError(message).
		WithMember(models.DescribeMethod(m)).
		WithAnnotation(annotationType.Name)
}
