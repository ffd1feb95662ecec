package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/plan"
	"github.com/toyz/decor/internal/templates"
	"github.com/toyz/decor/internal/utils"
)

// DefaultConfigFile is read from the working directory when no --config is given
const DefaultConfigFile = "decor.toml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories lists declaration files and directories to load.
	// Supports ./... patterns; defaults to the current directory.
	Directories []string `toml:"paths"`

	// ModuleName is the module path generated packages belong to.
	// If empty, it is read from the nearest go.mod.
	ModuleName string `toml:"module"`

	// OutputDir receives every generated file. Empty writes each file next
	// to its declaration.
	OutputDir string `toml:"output"`

	// Package overrides the package clause of generated files
	Package string `toml:"package"`

	// Suffix is appended to generated type names
	Suffix string `toml:"suffix"`

	// RuntimeImport is the import path of the runtime support package
	RuntimeImport string `toml:"runtime"`

	// Enable lists custom injection annotations to enable, by name
	Enable []string `toml:"enable"`

	// Known lists custom injection annotations that are recognised but
	// disabled; using one is an error
	Known []string `toml:"known"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `toml:"verbose"`

	// Quiet shows only errors and final results
	Quiet bool `toml:"quiet"`

	// Source is the file the config was loaded from, if any
	Source string `toml:"-"`
}

// DefaultConfig returns the configuration used without a decor.toml
func DefaultConfig() *Config {
	return &Config{
		Directories:   []string{"."},
		Suffix:        plan.DefaultSuffix,
		RuntimeImport: templates.DecorImport,
	}
}

// LoadConfig reads path over the defaults. An empty path reads decor.toml
// from the working directory when it exists.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return config, nil
		}
		return nil, errors.WrapConfigurationError(path, "read", err)
	}

	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, errors.WrapConfigurationError(path, "decode", err).
			WithSuggestion("Check the TOML syntax of " + path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ConfigurationErrorCode,
			fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(keys, ", "))).
			WithContext("config_type", path).
			WithSuggestion("Supported keys: paths, module, output, package, suffix, runtime, enable, known, verbose, quiet")
	}
	config.Source = path
	return config, nil
}

// ApplyFlags overrides the config with every flag set on the command line
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	get := func(name string, apply func() error) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			err = apply()
		}
	}

	get("module", func() (e error) { c.ModuleName, e = flags.GetString("module"); return })
	get("output", func() (e error) { c.OutputDir, e = flags.GetString("output"); return })
	get("package", func() (e error) { c.Package, e = flags.GetString("package"); return })
	get("suffix", func() (e error) { c.Suffix, e = flags.GetString("suffix"); return })
	get("runtime", func() (e error) { c.RuntimeImport, e = flags.GetString("runtime"); return })
	get("enable", func() (e error) { c.Enable, e = flags.GetStringSlice("enable"); return })
	get("known", func() (e error) { c.Known, e = flags.GetStringSlice("known"); return })
	get("verbose", func() (e error) { c.Verbose, e = flags.GetBool("verbose"); return })
	get("quiet", func() (e error) { c.Quiet, e = flags.GetBool("quiet"); return })
	if err != nil {
		return errors.WrapConfigurationError("flags", "read", err)
	}
	return nil
}

// WithPaths replaces the configured directories when args are given
func (c *Config) WithPaths(args []string) *Config {
	if len(args) > 0 {
		c.Directories = append([]string(nil), args...)
	}
	if len(c.Directories) == 0 {
		c.Directories = []string{"."}
	}
	return c
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "verbose and quiet cannot both be enabled").
			WithSuggestion("Choose either --verbose or --quiet")
	}

	checks := []struct {
		value    string
		optional bool
		validate utils.Validator[string]
	}{
		{c.Suffix, false, utils.ValidateTypeSuffix("suffix")},
		{c.Package, true, utils.ValidatePackageName("package")},
		{c.RuntimeImport, false, utils.ValidateImportPath("runtime")},
		{c.ModuleName, true, utils.ValidateImportPath("module")},
	}
	for _, check := range checks {
		if check.optional && check.value == "" {
			continue
		}
		if err := check.validate(check.value); err != nil {
			return errors.WrapConfigurationError(c.name(), "validate", err)
		}
	}

	eachName := utils.ValidateEach("enable", utils.IsValidGoIdentifier("annotation"))
	for field, names := range map[string][]string{"enable": c.Enable, "known": c.Known} {
		if err := eachName(names); err != nil {
			return errors.WrapConfigurationError(c.name(), "validate", err).WithContext("field", field)
		}
	}
	for _, name := range c.Enable {
		for _, known := range c.Known {
			if name == known {
				return errors.New(errors.ConfigurationErrorCode,
					fmt.Sprintf("annotation %s is both enabled and disabled", name)).
					WithContext("config_type", c.name())
			}
		}
	}
	return nil
}

// DiagnosticLevel maps the verbosity flags to a diagnostics level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

func (c *Config) name() string {
	if c.Source != "" {
		return c.Source
	}
	return "flags"
}
