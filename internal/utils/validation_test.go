package utils

import (
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "error with field",
			err:      ValidationError{Field: "suffix", Message: "cannot be empty"},
			expected: "validation error for field 'suffix': cannot be empty",
		},
		{
			name:     "error without field",
			err:      ValidationError{Message: "invalid input"},
			expected: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidGoIdentifier(t *testing.T) {
	validator := IsValidGoIdentifier("annotation")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"exported", "Legacy", false},
		{"underscore", "_Internal", false},
		{"keyword", "func", true},
		{"leading digit", "1Legacy", true},
		{"dotted", "beans.Legacy", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsValidGoIdentifier() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("enable", IsValidGoIdentifier("annotation"))

	if err := validator([]string{"Legacy", "Service"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator(nil); err != nil {
		t.Errorf("unexpected error for empty slice: %v", err)
	}

	err := validator([]string{"Legacy", "not-valid"})
	if err == nil {
		t.Fatal("expected error for invalid item")
	}
	if !strings.Contains(err.Error(), "'enable[1]'") {
		t.Errorf("error should name the failing index: %v", err)
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("suffix"), MatchesRegex("suffix", `^[A-Z]`))

	tests := []struct {
		name    string
		value   string
		message string
	}{
		{"passes", "Impl", ""},
		{"first failure wins", "", "cannot be empty"},
		{"second validator", "impl", "must match pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := chain.Validate(tt.value)
			if tt.message == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected error containing %q, got %v", tt.message, err)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	validator := ValidatePackageName("package")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"lower case", "beans", false},
		{"underscore", "gen_beans", false},
		{"upper case", "Beans", true},
		{"keyword", "type", true},
		{"dash", "gen-beans", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTypeSuffix(t *testing.T) {
	validator := ValidateTypeSuffix("suffix")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"default", "_Decorated", false},
		{"plain", "Impl", false},
		{"dollar", "$Decorated", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTypeSuffix() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateImportPath(t *testing.T) {
	validator := ValidateImportPath("runtime")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"module path", "github.com/toyz/decor/pkg/decor", false},
		{"single element", "decor", false},
		{"trailing slash", "example.com/", true},
		{"space", "example.com/my pkg", true},
		{"leading slash", "/decor", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImportPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
