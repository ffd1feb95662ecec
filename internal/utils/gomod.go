package utils

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// GoModFile is the name of the module definition file
const GoModFile = "go.mod"

// ErrNoGoMod is returned when no go.mod encloses a directory
var ErrNoGoMod = errors.New("go.mod file not found")

// GoModParser locates go.mod files and reads their module path
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a go.mod parser reading through fileReader
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{fileReader: fileReader}
}

// ModulePath returns the validated module path declared by goModPath
func (p *GoModParser) ModulePath(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != GoModFile {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	path := modfile.ModulePath([]byte(content))
	if path == "" {
		return "", fmt.Errorf("no module declaration found in %s", cleanPath)
	}
	if err := module.CheckImportPath(path); err != nil {
		return "", fmt.Errorf("invalid module path in %s: %w", cleanPath, err)
	}
	return path, nil
}

// FindGoModFile walks up from startDir to the nearest go.mod
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, GoModFile)
		if content, err := p.fileReader.ReadFile(candidate); err == nil && content != "" {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w above %s", ErrNoGoMod, startDir)
		}
		dir = parent
	}
}
