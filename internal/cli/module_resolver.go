package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/decor/internal/utils"
)

// Module is a resolved Go module: its path and the directory holding go.mod
type Module struct {
	Path string
	Root string
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(reader)}
}

// Resolve finds the module enclosing startDir. A custom module name
// replaces the go.mod path but keeps the module root, when one exists.
func (r *ModuleResolver) Resolve(customModule, startDir string) (*Module, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", startDir, err)
	}

	goModPath, findErr := r.goMod.FindGoModFile(absDir)
	if customModule != "" {
		root := absDir
		if findErr == nil {
			root = filepath.Dir(goModPath)
		}
		return &Module{Path: customModule, Root: root}, nil
	}
	if findErr != nil {
		return nil, fmt.Errorf("failed to determine module name: %w (consider using --module flag)", findErr)
	}

	path, err := r.goMod.ModulePath(goModPath)
	if err != nil {
		return nil, err
	}
	return &Module{Path: path, Root: filepath.Dir(goModPath)}, nil
}

// ImportPath builds the import path of a package directory inside the module
func (m *Module) ImportPath(packageDir string) (string, error) {
	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(m.Root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	importPath := filepath.ToSlash(relPath)
	if importPath == ".." || strings.HasPrefix(importPath, "../") {
		return "", fmt.Errorf("%s is outside module %s", packageDir, m.Path)
	}

	if importPath == "." {
		return m.Path, nil
	}
	return fmt.Sprintf("%s/%s", m.Path, importPath), nil
}
