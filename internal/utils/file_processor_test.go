package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func relative(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var result []string
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			t.Fatalf("Failed to relativize %s: %v", path, err)
		}
		result = append(result, filepath.ToSlash(rel))
	}
	return result
}

func TestScanDeclarations(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"tasks.decor":              "package tasks",
		"README.md":                "# tasks",
		"nested/bean.decor":        "package beans",
		"nested/deeper/ext.decor":  "package ext",
		"vendor/skipped.decor":     "package vendor",
		".hidden/skipped.decor":    "package hidden",
		"nested/task_decorated.go": GeneratedMarker,
	})
	fp := NewFileProcessor()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"directory", []string{root}, []string{"tasks.decor"}},
		{"recursive", []string{root + "/..."}, []string{"nested/bean.decor", "nested/deeper/ext.decor", "tasks.decor"}},
		{"single file", []string{filepath.Join(root, "nested", "bean.decor")}, []string{"nested/bean.decor"}},
		{"duplicates collapse", []string{root, filepath.Join(root, "tasks.decor")}, []string{"tasks.decor"}},
		{"non declaration file", []string{filepath.Join(root, "README.md")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := fp.ScanDeclarations(tt.patterns)
			if err != nil {
				t.Fatalf("ScanDeclarations failed: %v", err)
			}
			if got := relative(t, root, files); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScanDeclarationsErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"tasks.decor": "package tasks"})
	fp := NewFileProcessor()

	if _, err := fp.ScanDeclarations([]string{filepath.Join(root, "missing")}); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := fp.ScanDeclarations([]string{filepath.Join(root, "tasks.decor") + "/..."}); err == nil {
		t.Error("expected error for recursive file pattern")
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		dir       string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"decls", "decls", false},
		{"decls/...", "decls", true},
		{"decls/tasks.decor", filepath.FromSlash("decls/tasks.decor"), false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			dir, recursive := SplitPattern(tt.pattern)
			if dir != tt.dir || recursive != tt.recursive {
				t.Errorf("SplitPattern(%q) = %q, %v; want %q, %v", tt.pattern, dir, recursive, tt.dir, tt.recursive)
			}
		})
	}
}

func TestCleanGenerated(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"task_decorated.go":         GeneratedMarker + "\n\npackage tasks\n",
		"task.go":                   "package tasks\n",
		"notes.txt":                 GeneratedMarker,
		"nested/bean_decorated.go":  GeneratedMarker + "\n\npackage beans\n",
		"nested/generated_other.go": "// Code generated by other. DO NOT EDIT.\n\npackage beans\n",
	})
	fp := NewFileProcessor()

	removed, err := fp.CleanGenerated([]string{root})
	if err != nil {
		t.Fatalf("CleanGenerated failed: %v", err)
	}
	if got := relative(t, root, removed); !reflect.DeepEqual(got, []string{"task_decorated.go"}) {
		t.Errorf("unexpected removals %v", got)
	}

	removed, err = fp.CleanGenerated([]string{root + "/..."})
	if err != nil {
		t.Fatalf("recursive CleanGenerated failed: %v", err)
	}
	if got := relative(t, root, removed); !reflect.DeepEqual(got, []string{"nested/bean_decorated.go"}) {
		t.Errorf("unexpected recursive removals %v", got)
	}

	for _, kept := range []string{"task.go", "notes.txt", "nested/generated_other.go"} {
		if _, err := os.Stat(filepath.Join(root, kept)); err != nil {
			t.Errorf("expected %s to be kept: %v", kept, err)
		}
	}
}
