package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names registered by [Config.RegisterFlags].
const (
	FlagLevel  = "log-level"
	FlagFormat = "log-format"
)

// Set implements [pflag.Value].
func (l *Level) Set(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}

	*l = lvl

	return nil
}

// String implements [pflag.Value].
func (l *Level) String() string { return string(*l) }

// Type implements [pflag.Value].
func (l *Level) Type() string { return "level" }

// Set implements [pflag.Value].
func (f *Format) Set(s string) error {
	logFmt, err := ParseFormat(s)
	if err != nil {
		return err
	}

	*f = logFmt

	return nil
}

// String implements [pflag.Value].
func (f *Format) String() string { return string(*f) }

// Type implements [pflag.Value].
func (f *Format) Type() string { return "format" }

// Config is the logging setup of the displaydoc command. Values are checked
// when flags are parsed, so building a logger cannot fail.
type Config struct {
	Level  Level
	Format Format
}

// NewConfig returns a [Config] that logs warnings and errors as text.
func NewConfig() *Config {
	return &Config{
		Level:  LevelWarn,
		Format: FormatText,
	}
}

// RegisterFlags adds --log-level and --log-format to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.Var(&c.Level, FlagLevel,
		"log level, one of: "+strings.Join(GetAllLevelStrings(), ", "))
	flags.Var(&c.Format, FlagFormat,
		"log format, one of: "+strings.Join(GetAllFormatStrings(), ", "))
}

// RegisterCompletions completes the values of the log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := map[string][]string{
		FlagLevel:  GetAllLevelStrings(),
		FlagFormat: GetAllFormatStrings(),
	}

	for name, values := range completions {
		err := cmd.RegisterFlagCompletionFunc(name,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("register %s completion: %w", name, err)
		}
	}

	return nil
}

// NewLogger returns a logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(NewHandler(w, c.Level, c.Format))
}
