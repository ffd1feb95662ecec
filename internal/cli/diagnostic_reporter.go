package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/decor/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterTo(os.Stderr, verbose)
}

// NewDiagnosticReporterTo creates a reporter writing to out
func NewDiagnosticReporterTo(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	for _, suggestion := range suggestions {
		fmt.Fprintf(r.out, "  %s\n", suggestion)
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	if decorErr := findDecorError(err); decorErr != nil {
		r.reportDecorError(err, decorErr)
	} else {
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.out, "\n")
}

// findDecorError returns the outermost structured error in the chain
func findDecorError(err error) errors.DecorError {
	for err != nil {
		if decorErr, ok := err.(errors.DecorError); ok {
			return decorErr
		}
		err = errors.Unwrap(err)
	}
	return nil
}

func (r *DiagnosticReporter) reportDecorError(err error, decorErr errors.DecorError) {
	r.printErrorHeader(errors.CodeOf(err))

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if cause := decorErr.Unwrap(); cause != nil && !strings.Contains(err.Error(), cause.Error()) {
		fmt.Fprintf(r.out, "Cause: %s\n\n", cause.Error())
	}

	if loc := decorErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc.String())
	}

	if ctx := decorErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := decorErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(decorErr.ErrorCode())

	if r.verbose {
		r.printErrorChain(err)
	}
}

// reportBasicError reports an error without structured context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if strings.Contains(strings.ToLower(err.Error()), "module") {
		fmt.Fprintf(r.out, "This appears to be a module-related issue.\n")
		fmt.Fprintf(r.out, "Common solutions:\n")
		fmt.Fprintf(r.out, "  - Check your go.mod file\n")
		fmt.Fprintf(r.out, "  - Try specifying --module flag explicitly\n\n")
	}
}

func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var errorTypeStr string

	switch code {
	case errors.SyntaxErrorCode:
		errorTypeStr = "Declaration Syntax Error"
	case errors.ShapeErrorCode:
		errorTypeStr = "Type Shape Error"
	case errors.GenerationErrorCode:
		errorTypeStr = "Code Generation Error"
	case errors.TemplateErrorCode:
		errorTypeStr = "Template Error"
	case errors.FileSystemErrorCode:
		errorTypeStr = "File System Error"
	case errors.InstantiationErrorCode:
		errorTypeStr = "Instantiation Error"
	case errors.ConfigurationErrorCode:
		errorTypeStr = "Configuration Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information, type and member first
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"type", "member", "annotation", "path"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints help for the error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.SyntaxErrorCode:
		fmt.Fprintf(r.out, "Declaration Syntax Help:\n")
		fmt.Fprintf(r.out, "  - Every file starts with a package clause\n")
		fmt.Fprintf(r.out, "  - Members are one per line: field, constructor or method\n")
		fmt.Fprintf(r.out, "  - Referenced types must be declared or built in\n\n")

	case errors.ShapeErrorCode:
		fmt.Fprintf(r.out, "Decoratable Types:\n")
		fmt.Fprintf(r.out, "  - Abstract methods must be property accessors the generator can implement\n")
		fmt.Fprintf(r.out, "  - Injection annotations belong on getters, not setters or fields\n")
		fmt.Fprintf(r.out, "  - Custom injection annotations must be enabled with --enable\n\n")
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run 'decor plan' to see what would be generated\n")
	fmt.Fprintf(r.out, "  - Run with --verbose for more detailed output\n")
}

// printErrorChain prints every wrapped error in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "\nError Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.out, "    %d. %T: %s\n", level, err, err.Error())
		err = errors.Unwrap(err)
		level++
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(w io.Writer, summary GenerationSummary) {
	fmt.Fprintf(w, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(w, "=======================================\n\n")

	fmt.Fprintf(w, "Loaded %d declaration files\n", summary.FilesParsed)
	fmt.Fprintf(w, "Generated %d decorated types\n", summary.TypesGenerated)

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(w, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(w, "  - %s\n", file)
		}
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	Module         string
	FilesParsed    int
	TypesGenerated int
	GeneratedFiles []string
	Packages       []string
}
