package decor

import (
	"fmt"
	"strings"
)

// ServiceError reports a service that could not be located
type ServiceError struct {
	ServiceType string
	Annotation  string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Annotation != "" {
		return fmt.Sprintf("No service of type %s annotated with @%s available.", e.ServiceType, e.Annotation)
	}
	return fmt.Sprintf("No service of type %s available.", e.ServiceType)
}

// MissingPropertyError reports an unknown dynamic property
type MissingPropertyError struct {
	Property string
	Target   string
	Setting  bool
}

// Error implements the error interface
func (e *MissingPropertyError) Error() string {
	verb := "get"
	if e.Setting {
		verb = "set"
	}
	return fmt.Sprintf("Could not %s unknown property '%s' for %s.", verb, e.Property, e.Target)
}

// MissingMethodError reports an unknown dynamic method
type MissingMethodError struct {
	Method string
	Target string
	Args   []any
}

// Error implements the error interface
func (e *MissingMethodError) Error() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		args[i] = fmt.Sprint(arg)
	}
	return fmt.Sprintf("Could not find method %s() for arguments [%s] on %s.", e.Method, strings.Join(args, ", "), e.Target)
}

// ConventionError reports an invalid convention mapping
type ConventionError struct {
	Property string
	Message  string
}

// Error implements the error interface
func (e *ConventionError) Error() string {
	return e.Message
}

// NewConventionError creates a ConventionError for property
func NewConventionError(property, message string) *ConventionError {
	return &ConventionError{Property: property, Message: message}
}

// MissingValueError reports a lazy value queried before it has one
type MissingValueError struct {
	DisplayName string
}

// Error implements the error interface
func (e *MissingValueError) Error() string {
	if e.DisplayName == "" {
		return "Cannot query the value of this property because it has no value available."
	}
	return fmt.Sprintf("Cannot query the value of %s because it has no value available.", e.DisplayName)
}
