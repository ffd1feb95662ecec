package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation(t *testing.T) {
	tests := []struct {
		loc      SourceLocation
		expected string
	}{
		{SourceLocation{}, "unknown location"},
		{SourceLocation{File: "beans.decor"}, "beans.decor"},
		{SourceLocation{File: "beans.decor", Line: 3}, "beans.decor:3"},
		{SourceLocation{File: "beans.decor", Line: 3, Column: 15}, "beans.decor:3:15"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.loc.String())
			assert.Equal(t, tt.loc.File == "", tt.loc.IsEmpty())
		})
	}
}

func TestBaseError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(FileSystemErrorCode, "failed to write", cause).
		WithLocation(SourceLocation{File: "beans.decor", Line: 2}).
		WithContext("path", "bean_decorated.go").
		WithSuggestion("Free some space")

	assert.Equal(t, "beans.decor:2: failed to write", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "bean_decorated.go", err.Context()["path"])
	assert.Equal(t, []string{"Free some space"}, err.Suggestions())
	assert.Same(t, cause, stderrors.Unwrap(err))

	assert.NotNil(t, New(UnknownErrorCode, "x").Context(), "context is never nil")
}

func TestShapeError(t *testing.T) {
	err := NewShapeError("Cannot use @Legacy annotation on method Task.getExecutor().").
		WithType("Task").
		WithMember("getExecutor").
		WithAnnotation("Legacy")

	assert.Equal(t, "Cannot use @Legacy annotation on method Task.getExecutor().", err.Error())
	assert.Equal(t, map[string]interface{}{"type": "Task", "member": "getExecutor", "annotation": "Legacy"}, err.Context())

	wrapped := fmt.Errorf("generate: %w", err)
	assert.True(t, IsShapeError(wrapped))
	assert.False(t, IsGenerationError(wrapped))
	assert.Equal(t, ShapeErrorCode, CodeOf(wrapped))
}

func TestWrapGenerationFailure(t *testing.T) {
	cause := fmt.Errorf("template exploded")
	err := WrapGenerationFailure("Task", cause)

	assert.Equal(t, "Could not generate a decorated class for type Task.", err.Error())
	assert.Equal(t, "Task", err.TypeName)
	assert.True(t, IsGenerationError(err))
	assert.True(t, stderrors.Is(err, cause))

	var gen *GenerationError
	require.True(t, As(fmt.Errorf("outer: %w", err), &gen))
	assert.Same(t, err, gen)
}

func TestWrappers(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name    string
		err     *BaseError
		code    ErrorCode
		message string
	}{
		{"file system", WrapFileSystemError("write", "bean.go", cause), FileSystemErrorCode, "failed to write file 'bean.go'"},
		{"template", WrapTemplateError("file", "execute", cause), TemplateErrorCode, "failed to execute template 'file'"},
		{"configuration", WrapConfigurationError("decor.toml", "decode", cause), ConfigurationErrorCode, "failed to decode configuration 'decor.toml'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.Same(t, cause, tt.err.Unwrap())
		})
	}

	syntax := WrapParseError("declarations", cause).WithLocation(SourceLocation{File: "a.decor", Line: 1, Column: 2})
	assert.Equal(t, "a.decor:1:2: failed to parse declarations", syntax.Error())
	assert.Equal(t, SyntaxErrorCode, CodeOf(syntax))

	instantiation := NewInstantiationError("Task_Decorated", "Expected 1 constructor arguments but got 0.")
	assert.Equal(t, InstantiationErrorCode, CodeOf(instantiation))
	assert.Equal(t, "Task_Decorated", instantiation.Context()["type"])

	assert.Equal(t, UnknownErrorCode, CodeOf(cause))
	assert.Equal(t, "ShapeError", ShapeErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}
