package templates

import (
	"fmt"
	"sort"
	"strings"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	standardImports map[string]bool
	packageImports  map[string]string // alias -> path
	userPackages    []string
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]string),
	}
}

// AddImport adds a standard library import
func (im *ImportManager) AddImport(importPath string) {
	if importPath != "" {
		im.standardImports[importPath] = true
	}
}

// AddPackageImport adds a package import with alias
func (im *ImportManager) AddPackageImport(alias, path string) {
	if alias != "" && path != "" {
		im.packageImports[alias] = path
	}
}

// AddUserPackages adds third-party or module packages, keeping their order
func (im *ImportManager) AddUserPackages(packages ...string) {
	for _, pkg := range packages {
		if pkg != "" && !im.containsUserPackage(pkg) {
			im.userPackages = append(im.userPackages, pkg)
		}
	}
}

func (im *ImportManager) containsUserPackage(pkg string) bool {
	for _, existing := range im.userPackages {
		if existing == pkg {
			return true
		}
	}
	return false
}

// Paths returns every import path: standard imports sorted, then aliased
// and user packages.
func (im *ImportManager) Paths() []string {
	var paths []string
	for imp := range im.standardImports {
		paths = append(paths, imp)
	}
	sort.Strings(paths)
	for _, alias := range im.aliases() {
		paths = append(paths, im.packageImports[alias])
	}
	return append(paths, im.userPackages...)
}

func (im *ImportManager) aliases() []string {
	aliases := make([]string, 0, len(im.packageImports))
	for alias := range im.packageImports {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GenerateImports generates the import section. Standard imports are
// separated from the rest by a blank line.
func (im *ImportManager) GenerateImports() string {
	if im.isEmpty() {
		return ""
	}

	var std, other []string
	for imp := range im.standardImports {
		std = append(std, fmt.Sprintf(`"%s"`, imp))
	}
	sort.Strings(std)
	for _, alias := range im.aliases() {
		other = append(other, fmt.Sprintf(`%s "%s"`, alias, im.packageImports[alias]))
	}
	for _, pkg := range im.userPackages {
		other = append(other, fmt.Sprintf(`"%s"`, pkg))
	}

	if len(std)+len(other) == 1 {
		return fmt.Sprintf("import %s\n", append(std, other...)[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range std {
		result.WriteString("\t" + imp + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		result.WriteString("\n")
	}
	for _, imp := range other {
		result.WriteString("\t" + imp + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}

func (im *ImportManager) isEmpty() bool {
	return len(im.standardImports) == 0 &&
		len(im.packageImports) == 0 &&
		len(im.userPackages) == 0
}
