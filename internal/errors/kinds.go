package errors

import (
	stderrors "errors"
	"fmt"
)

// ShapeError reports a source type whose declared members cannot be
// decorated: unimplemented abstract methods, ambiguous property claims,
// misplaced or conflicting injection annotations, disabled annotations.
type ShapeError struct {
	*BaseError
	TypeName   string // source type being generated
	Member     string // offending method or property, when known
	Annotation string // offending annotation, when known
}

// NewShapeError creates a shape error with a fully formatted message
func NewShapeError(message string) *ShapeError {
	return &ShapeError{BaseError: New(ShapeErrorCode, message)}
}

// WithType records the source type
func (e *ShapeError) WithType(name string) *ShapeError {
	e.TypeName = name
	e.BaseError.WithContext("type", name)
	return e
}

// WithMember records the offending member
func (e *ShapeError) WithMember(member string) *ShapeError {
	e.Member = member
	e.BaseError.WithContext("member", member)
	return e
}

// WithAnnotation records the offending annotation
func (e *ShapeError) WithAnnotation(annotation string) *ShapeError {
	e.Annotation = annotation
	e.BaseError.WithContext("annotation", annotation)
	return e
}

// WithSuggestion adds a helpful suggestion
func (e *ShapeError) WithSuggestion(suggestion string) *ShapeError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// GenerationError wraps an unexpected failure raised while a backend emits a
// decorated type.
type GenerationError struct {
	*BaseError
	TypeName string
}

// NewGenerationError creates a generation error without a cause
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{BaseError: New(GenerationErrorCode, message)}
}

// WrapGenerationFailure produces the single wrapped failure kind for a type
func WrapGenerationFailure(typeName string, cause error) *GenerationError {
	message := fmt.Sprintf("Could not generate a decorated class for type %s.", typeName)
	err := &GenerationError{
		BaseError: Wrap(GenerationErrorCode, message, cause),
		TypeName:  typeName,
	}
	err.WithContext("type", typeName)
	return err
}

// InstantiationError reports a failure while invoking a generated constructor
type InstantiationError struct {
	*BaseError
	TypeName string
}

// NewInstantiationError creates an instantiation error for a generated type
func NewInstantiationError(typeName, message string) *InstantiationError {
	err := &InstantiationError{
		BaseError: New(InstantiationErrorCode, message),
		TypeName:  typeName,
	}
	err.WithContext("type", typeName)
	return err
}

// SyntaxError represents a declaration parsing error
type SyntaxError struct {
	*BaseError
	Token string // the token that caused the error
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{BaseError: New(SyntaxErrorCode, message)}
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause),
	}
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("operation", operation)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// IsShapeError reports whether err (or anything it wraps) is a shape error
func IsShapeError(err error) bool {
	var shape *ShapeError
	return stderrors.As(err, &shape)
}

// IsGenerationError reports whether err is, or wraps, a generation error
func IsGenerationError(err error) bool {
	var gen *GenerationError
	return stderrors.As(err, &gen)
}

// Standard helpers, so callers importing this package as errors keep them.
var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
)
