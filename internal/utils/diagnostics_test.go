package utils

import (
	"bytes"
	"strings"
	"testing"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewDiagnosticSystem(level).WithOutput(&out, &errOut), &out, &errOut
}

func TestDiagnosticLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   DiagnosticLevel
		info    bool
		verbose bool
		errors  bool
	}{
		{"silent", DiagnosticSilent, false, false, false},
		{"quiet", DiagnosticError, false, false, true},
		{"info", DiagnosticInfo, true, false, true},
		{"verbose", DiagnosticVerbose, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, out, errOut := newTestDiagnostics(tt.level)
			d.Info("parsed %d files", 2)
			d.Verbose("resolved %s", "Task")
			d.Error("cannot generate %s", "Final")

			if got := strings.Contains(out.String(), "[INFO] parsed 2 files"); got != tt.info {
				t.Errorf("info shown = %v, want %v: %q", got, tt.info, out.String())
			}
			if got := strings.Contains(out.String(), "resolved Task"); got != tt.verbose {
				t.Errorf("verbose shown = %v, want %v: %q", got, tt.verbose, out.String())
			}
			if got := strings.Contains(errOut.String(), "[ERROR] cannot generate Final"); got != tt.errors {
				t.Errorf("error shown = %v, want %v: %q", got, tt.errors, errOut.String())
			}
		})
	}
}

func TestDiagnosticPhases(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Header("Generating decorated types")
	d.PhaseHeader("Generating")
	d.PhaseItem("Task")
	d.PhaseProgress("Writing task_decorated.go")
	d.PhaseProgress("skipped Named")
	d.Summary("Summary", map[string]interface{}{"types": 2, "files": 1})
	d.GenerationComplete()

	want := []string{
		"decor: Generating decorated types\n",
		"Generating:\n",
		"✓ Task\n",
		"✏ Writing task_decorated.go\n",
		"- skipped Named\n",
		"   files: 1\n   types: 2\n",
		"decor: Generation complete!\n",
	}
	for _, fragment := range want {
		if !strings.Contains(out.String(), fragment) {
			t.Errorf("expected output to contain %q, got:\n%s", fragment, out.String())
		}
	}
	if strings.Contains(out.String(), "\033[") {
		t.Error("colors must be disabled for non-terminal writers")
	}
}
