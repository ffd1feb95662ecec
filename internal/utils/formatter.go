package utils

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// FormatGoSource formats Go source the way gofmt does and groups its imports
func FormatGoSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, formatOptions)
	if err != nil {
		if parseErr := ValidateGoCode(string(source)); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w (format error: %v)", parseErr, err)
		}
		return source, err
	}
	return formatted, nil
}

// FormatAndWriteGoFile formats Go code and writes it to a file. Code that
// cannot be formatted is still written so it can be inspected.
func FormatAndWriteGoFile(filename string, code []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	formatted, err := FormatGoSource(filename, code)
	if err != nil {
		if writeErr := os.WriteFile(filename, code, 0o644); writeErr != nil {
			return fmt.Errorf("failed to write unformatted code to %s: %w (format error: %v)", filename, writeErr, err)
		}
		return fmt.Errorf("wrote unformatted code to %s: %w", filename, err)
	}
	return os.WriteFile(filename, formatted, 0o644)
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
