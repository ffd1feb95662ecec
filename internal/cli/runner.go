package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/toyz/decor/internal/annotations"
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/parser"
	"github.com/toyz/decor/internal/templates"
	"github.com/toyz/decor/internal/utils"
)

// Runner loads declarations and drives the generator for the CLI commands
type Runner struct {
	config      *Config
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	processor   *utils.FileProcessor
	scanner     *DirectoryScanner
	resolver    *ModuleResolver
	cleaner     *Cleaner
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithDiagnostics sets the user-facing output
func WithDiagnostics(diagnostics *utils.DiagnosticSystem) RunnerOption {
	return func(r *Runner) {
		r.diagnostics = diagnostics
	}
}

// WithLogger sets the structured logger handed to the generator
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner for config
func NewRunner(config *Config, opts ...RunnerOption) *Runner {
	processor := utils.NewFileProcessor()
	r := &Runner{
		config:    config,
		logger:    zap.NewNop(),
		processor: processor,
		scanner:   NewDirectoryScannerWithProcessor(processor),
		resolver:  NewModuleResolver(processor.GetFileReader()),
		cleaner:   NewCleanerWithProcessor(processor),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.diagnostics == nil {
		r.diagnostics = utils.NewDiagnosticSystem(config.DiagnosticLevel())
	}
	return r
}

// Workspace is a loaded set of declarations with the generated sources
type Workspace struct {
	Files   []*parser.File
	Sources []*templates.Source

	origin map[*models.Type]*parser.File
}

// Load parses every declaration file and generates each declared type
func (r *Runner) Load() (*Workspace, error) {
	r.diagnostics.PhaseHeader("Loading declarations")
	inputs, err := r.scanner.ReadInputs(r.config.Directories)
	if err != nil {
		return nil, err
	}
	for _, input := range inputs {
		r.diagnostics.Verbose("found %s", input.Filename)
	}

	p := parser.NewParser(nil)
	files, err := p.Parse(inputs...)
	if err != nil {
		return nil, utils.WrapParseError("declarations", err)
	}
	r.diagnostics.PhaseItem(fmt.Sprintf("Parsed %d declaration files", len(files)))

	gen, backend, err := r.newGenerator(p.Universe())
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Files: files, origin: make(map[*models.Type]*parser.File)}
	r.diagnostics.PhaseHeader("Generating")
	for _, file := range files {
		if len(file.Generatable()) == 0 {
			r.diagnostics.Warn("%s declares no generatable types", file.Filename)
		}
		for _, t := range file.Generatable() {
			ws.origin[t] = file
			if _, err := gen.Generate(t); err != nil {
				return nil, utils.WrapGenerateError(t.DisplayName(), err)
			}
			r.diagnostics.PhaseItem(t.QualifiedName())
		}
	}
	ws.Sources = backend.Sources()
	return ws, nil
}

func (r *Runner) newGenerator(universe *models.Universe) (*generator.Generator, *templates.Backend, error) {
	registry := annotations.NewRegistry()
	var enabled []*models.Type

	register := func(name string) (*models.Type, error) {
		t, ok := universe.Lookup(name)
		if !ok || !t.IsAnnotation() {
			return nil, errors.New(errors.ConfigurationErrorCode,
				fmt.Sprintf("injection annotation %s is not declared", name)).
				WithContext("annotation", name).
				WithSuggestion("Declare it with: annotation " + name)
		}
		if err := registry.Register(annotations.NewHandler(t)); err != nil {
			return nil, errors.WrapConfigurationError("annotations", "register", err).
				WithContext("annotation", name)
		}
		return t, nil
	}
	for _, name := range r.config.Enable {
		t, err := register(name)
		if err != nil {
			return nil, nil, err
		}
		enabled = append(enabled, t)
	}
	for _, name := range r.config.Known {
		if _, err := register(name); err != nil {
			return nil, nil, err
		}
	}

	backend := templates.NewBackend(
		templates.WithPackage(r.config.Package),
		templates.WithRuntimeImport(r.config.RuntimeImport),
		templates.WithSuffix(r.config.Suffix),
		templates.WithLogger(r.logger.Named("templates")),
	)
	gen := generator.New(backend,
		generator.WithLogger(r.logger.Named("generator")),
		generator.WithKnownAnnotations(registry),
		generator.WithEnabledAnnotations(enabled...),
	)
	return gen, backend, nil
}

// OutputPath returns where the file of source is written
func (r *Runner) OutputPath(ws *Workspace, source *templates.Source) string {
	if r.config.OutputDir != "" {
		return filepath.Join(r.config.OutputDir, source.FileName)
	}
	if file, ok := ws.origin[source.Plan.Source]; ok {
		return filepath.Join(filepath.Dir(file.Filename), source.FileName)
	}
	return source.FileName
}

// Generate loads the declarations and writes one Go file per generated type
func (r *Runner) Generate() (*GenerationSummary, error) {
	ws, err := r.Load()
	if err != nil {
		return nil, err
	}

	summary := &GenerationSummary{FilesParsed: len(ws.Files), TypesGenerated: len(ws.Sources)}
	written := make(map[string]string)
	packages := make(map[string]bool)

	moduleDir, _ := utils.SplitPattern(r.config.Directories[0])
	module, moduleErr := r.resolver.Resolve(r.config.ModuleName, moduleDir)
	if moduleErr != nil {
		r.diagnostics.Verbose("module not resolved: %v", moduleErr)
	} else {
		summary.Module = module.Path
	}

	r.diagnostics.PhaseHeader("Writing")
	for _, source := range ws.Sources {
		path := r.OutputPath(ws, source)
		if other, exists := written[path]; exists {
			return summary, errors.New(errors.FileSystemErrorCode,
				fmt.Sprintf("%s and %s would both be written to %s", other, source.TypeName, path)).
				WithContext("path", path).
				WithSuggestion("Rename one of the types or write into separate output directories")
		}
		written[path] = source.TypeName

		r.diagnostics.PhaseProgress("Writing " + path)
		if err := utils.FormatAndWriteGoFile(path, source.Code); err != nil {
			return summary, errors.WrapFileSystemError("write", path, err)
		}
		r.logger.Debug("wrote decorated type", zap.String("type", source.TypeName), zap.String("path", path))
		summary.GeneratedFiles = append(summary.GeneratedFiles, path)

		if module != nil {
			if importPath, err := module.ImportPath(filepath.Dir(path)); err == nil {
				packages[importPath] = true
			}
		}
	}

	for importPath := range packages {
		summary.Packages = append(summary.Packages, importPath)
	}
	sort.Strings(summary.Packages)
	return summary, nil
}

// Plan loads the declarations and prints each generated type's plan
func (r *Runner) Plan(w io.Writer) error {
	ws, err := r.Load()
	if err != nil {
		return err
	}
	for i, source := range ws.Sources {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n", r.OutputPath(ws, source))
		fmt.Fprint(w, source.Plan.Describe())
	}
	return nil
}

// Clean removes generated files under the configured directories and the
// output directory
func (r *Runner) Clean() ([]string, error) {
	patterns := append([]string(nil), r.config.Directories...)
	if r.config.OutputDir != "" {
		if _, err := os.Stat(r.config.OutputDir); err == nil {
			patterns = append(patterns, r.config.OutputDir)
		}
	}
	removed, err := r.cleaner.CleanGeneratedFiles(patterns)
	for _, file := range removed {
		r.diagnostics.PhaseProgress("Removing " + file)
	}
	return removed, err
}
