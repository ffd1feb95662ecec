package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":            "module example.com/tasks\n\ngo 1.25\n",
		"decls/tasks.decor": "package tasks",
	})
	parser := NewGoModParser(NewFileReader())

	path, err := parser.FindGoModFile(filepath.Join(root, "decls"))
	if err != nil {
		t.Fatalf("FindGoModFile failed: %v", err)
	}
	if path != filepath.Join(root, "go.mod") {
		t.Errorf("unexpected go.mod path %s", path)
	}

	module, err := parser.ModulePath(path)
	if err != nil {
		t.Fatalf("ModulePath failed: %v", err)
	}
	if module != "example.com/tasks" {
		t.Errorf("unexpected module %s", module)
	}
}

func TestGoModParserErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"bad/go.mod":     "module\n",
		"empty/go.mod":   "go 1.25\n",
		"invalid/go.mod": "module /tasks\n",
	})
	parser := NewGoModParser(NewFileReader())

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"not go.mod", filepath.Join(root, "bad", "tasks.decor"), "not a go.mod file"},
		{"bare module", filepath.Join(root, "bad", "go.mod"), "no module declaration"},
		{"invalid path", filepath.Join(root, "invalid", "go.mod"), "invalid module path"},
		{"no module", filepath.Join(root, "empty", "go.mod"), "no module declaration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ModulePath(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected error containing %q, got %v", tt.message, err)
			}
		})
	}
}
