package displaygen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for generator configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Types    string
	Output   string
	Receiver string
	Error    string
	Config   string
	Jobs     string
}

// Config holds CLI flag values for generator configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewGenerator] to create a [Generator].
type Config struct {
	Flags    Flags
	Output   string
	Receiver string
	Config   string
	Types    []string
	Jobs     int
	Error    bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Types:    "type",
		Output:   "output",
		Receiver: "receiver",
		Error:    "error",
		Config:   "config",
		Jobs:     "jobs",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds generator flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&c.Types, c.Flags.Types, "t", nil,
		"type names to generate without a //displaydoc directive")
	flags.StringVarP(&c.Output, c.Flags.Output, "o", DefaultOutput,
		"generated file name (%s is replaced by the package name)")
	flags.StringVar(&c.Receiver, c.Flags.Receiver, DefaultReceiver,
		"receiver name of generated methods")
	flags.BoolVar(&c.Error, c.Flags.Error, false,
		"also generate Error methods")
	flags.StringVarP(&c.Config, c.Flags.Config, "c", "",
		fmt.Sprintf("config file (default: first of %s in the working directory)",
			strings.Join(ConfigFileNames, ", ")))
	flags.IntVarP(&c.Jobs, c.Flags.Jobs, "j", 0,
		"maximum concurrent work (0 for GOMAXPROCS)")
}

// RegisterCompletions registers shell completions for generator flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Config,
		cobra.FixedCompletions([]string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Config, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Output,
		cobra.FixedCompletions([]string{"go"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Output, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Types, c.Flags.Receiver, c.Flags.Jobs} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// ApplyFile copies values from fc into c for every flag not set on the
// command line.
func (c *Config) ApplyFile(fc *FileConfig, flags *pflag.FlagSet) {
	unset := func(name string) bool {
		return flags == nil || !flags.Changed(name)
	}

	if fc.Output != "" && unset(c.Flags.Output) {
		c.Output = fc.Output
	}

	if fc.Receiver != "" && unset(c.Flags.Receiver) {
		c.Receiver = fc.Receiver
	}

	if len(fc.Types) > 0 && unset(c.Flags.Types) {
		c.Types = fc.Types
	}

	if fc.Error != nil && unset(c.Flags.Error) {
		c.Error = *fc.Error
	}

	if fc.Jobs != nil && unset(c.Flags.Jobs) {
		c.Jobs = *fc.Jobs
	}
}

// LoadFile loads the config file named by the config flag, or the first of
// [ConfigFileNames] found in dir, and applies it with [Config.ApplyFile].
// It returns the path loaded, or "" when there is none.
func (c *Config) LoadFile(dir string, flags *pflag.FlagSet) (string, error) {
	path := c.Config
	if path == "" {
		path = FindConfigFile(dir)
	}

	if path == "" {
		return "", nil
	}

	fc, err := LoadConfigFile(path)
	if err != nil {
		return "", err
	}

	c.ApplyFile(fc, flags)

	return path, nil
}

// NewGenerator creates a [Generator] using this [Config].
func (c *Config) NewGenerator() (*Generator, error) {
	if !token.IsIdentifier(c.Receiver) || c.Receiver == "_" {
		return nil, fmt.Errorf("%w: receiver %q is not an identifier", ErrInvalidOption, c.Receiver)
	}

	if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") ||
		strings.ContainsAny(c.Output, `/\`) || strings.Count(c.Output, "%s") > 1 {
		return nil, fmt.Errorf("%w: output %q must be a .go file name", ErrInvalidOption, c.Output)
	}

	if c.Jobs < 0 {
		return nil, fmt.Errorf("%w: jobs must not be negative", ErrInvalidOption)
	}

	for _, name := range c.Types {
		if !token.IsIdentifier(name) {
			return nil, fmt.Errorf("%w: type %q is not an identifier", ErrInvalidOption, name)
		}
	}

	opts := []Option{
		WithOutput(c.Output),
		WithReceiver(c.Receiver),
		WithJobs(c.Jobs),
	}

	if len(c.Types) > 0 {
		opts = append(opts, WithTypes(c.Types...))
	}

	if c.Error {
		opts = append(opts, WithErrors(true))
	}

	return NewGenerator(opts...), nil
}
