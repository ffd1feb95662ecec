package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/toyz/decor/internal/cli"
	"github.com/toyz/decor/internal/utils"
)

// errReported marks a failure the diagnostic reporter already printed
var errReported = errors.New("decor: failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "decor",
		Short: "decor - decorated type generator",
		Long: `decor reads type declarations from .decor files and generates decorated
Go types: managed properties, service injection, convention mapping,
extensions and nested object instantiation.

Path Patterns:
  ./...              Scan the current directory and all subdirectories
  ./decls/...        Scan decls and all its subdirectories
  ./decls            Scan only the specific directory (no recursion)
  ./decls/x.decor    Load a single file

Examples:
  decor generate ./...                      # Generate every declared type
  decor generate --output gen --package gen # Write into one package
  decor plan ./decls                        # Show what would be generated
  decor clean ./...                         # Remove generated files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (defaults to ./"+cli.DefaultConfigFile+" when present)")
	flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
	flags.Bool("quiet", false, "Only show errors and final results")
	flags.String("module", "", "Module path of generated packages (defaults to go.mod module)")
	flags.String("output", "", "Write every generated file into this directory")
	flags.String("package", "", "Package name of generated files")
	flags.String("suffix", "", "Suffix appended to generated type names")
	flags.String("runtime", "", "Import path of the runtime support package")
	flags.StringSlice("enable", nil, "Custom injection annotations to enable")
	flags.StringSlice("known", nil, "Custom injection annotations that are recognised but disabled")

	root.AddCommand(newGenerateCommand(), newPlanCommand(), newCleanCommand())
	return root
}

// session is the merged configuration and output of one command run
type session struct {
	config      *cli.Config
	diagnostics *utils.DiagnosticSystem
	reporter    *cli.DiagnosticReporter
	runner      *cli.Runner
}

func newSession(cmd *cobra.Command, args []string) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	config, err := cli.LoadConfig(path)
	if err == nil {
		err = config.ApplyFlags(cmd.Flags())
	}
	if err == nil {
		config.WithPaths(args)
		err = config.Validate()
	}
	reporter := cli.NewDiagnosticReporterTo(cmd.ErrOrStderr(), config != nil && config.Verbose)
	if err != nil {
		reporter.ReportError(err)
		return nil, errReported
	}

	diagnostics := utils.NewDiagnosticSystem(config.DiagnosticLevel()).
		WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	runner := cli.NewRunner(config,
		cli.WithDiagnostics(diagnostics),
		cli.WithLogger(newLogger(config.Verbose)),
	)
	return &session{config: config, diagnostics: diagnostics, reporter: reporter, runner: runner}, nil
}

func (s *session) fail(err error) error {
	s.reporter.ReportError(err)
	return errReported
}

// newLogger returns a development logger in verbose mode
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("decor")
}

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate decorated Go types from declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			s.diagnostics.Header("Generating decorated types")
			if s.config.Source != "" {
				s.diagnostics.Verbose("using config %s", s.config.Source)
			}
			summary, err := s.runner.Generate()
			if err != nil {
				return s.fail(err)
			}

			stats := map[string]interface{}{
				"Declaration files": summary.FilesParsed,
				"Types generated":   summary.TypesGenerated,
			}
			if summary.Module != "" {
				stats["Module"] = summary.Module
			}
			s.diagnostics.Summary("Summary", stats)
			if s.diagnostics.Level() >= utils.DiagnosticVerbose {
				for _, pkg := range summary.Packages {
					s.diagnostics.List("%s", pkg)
				}
			}
			s.diagnostics.GenerationComplete()
			return nil
		},
	}
}

func newPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [paths...]",
		Short: "Print the generation plan of every declared type",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			// plans go to stdout; progress only in verbose mode
			if !s.config.Verbose {
				s.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticError).
					WithOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())
				s.runner = cli.NewRunner(s.config, cli.WithDiagnostics(s.diagnostics))
			}
			if err := s.runner.Plan(cmd.OutOrStdout()); err != nil {
				return s.fail(err)
			}
			return nil
		},
	}
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove generated files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			s.diagnostics.Header("Removing generated files")
			removed, err := s.runner.Clean()
			if err != nil {
				return s.fail(err)
			}
			s.diagnostics.Success("Removed %d generated files", len(removed))
			return nil
		},
	}
}
