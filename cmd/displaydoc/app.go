package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/displaydoc/displaygen"
	"go.jacobcolvin.com/displaydoc/log"
	"go.jacobcolvin.com/displaydoc/profile"
	"go.jacobcolvin.com/displaydoc/version"
)

// app holds the state shared by all commands.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	gen      *displaygen.Config
	log      *log.Config
	profile  *profile.Config
	profiler *profile.Profiler
	diff     bool
	list     bool
	check    bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:  stdout,
		stderr:  stderr,
		gen:     displaygen.NewConfig(),
		log:     log.NewConfig(),
		profile: profile.NewConfig(),
	}
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "displaydoc [flags] [dir ...]",
		Short: "Generate String methods from Go doc comments",
		Long: `displaydoc generates String methods for Go types from their doc comments.

A type opts in with a //displaydoc directive. Its doc comment becomes the
display text, with {field}, {0}, and {} placeholders filled from the value.
Enum constants each use their own doc comment.`,
		Version:           version.Get().Version,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: a.runGenerate,
	}

	a.log.RegisterFlags(rootCmd.PersistentFlags())
	a.profile.RegisterFlags(rootCmd.PersistentFlags())
	a.gen.RegisterFlags(rootCmd.Flags())

	rootCmd.Flags().BoolVarP(&a.diff, "diff", "d", false,
		"print a unified diff instead of writing files")
	rootCmd.Flags().BoolVarP(&a.list, "list", "l", false,
		"print the paths of files that would change instead of writing them")
	rootCmd.Flags().BoolVar(&a.check, "check", false,
		"like --list, but exit with status 1 when any file would change")
	rootCmd.MarkFlagsMutuallyExclusive("diff", "list", "check")

	for _, register := range []func(*cobra.Command) error{
		a.log.RegisterCompletions,
		a.profile.RegisterCompletions,
		a.gen.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(a.stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		a.explainCommand(),
		a.schemaCommand(),
		a.versionCommand(),
	)

	return rootCmd
}

// setup installs the default logger and starts profiling.
func (a *app) setup() error {
	slog.SetDefault(a.log.NewLogger(a.stderr))

	a.profiler = a.profile.NewProfiler()

	return a.profiler.Start()
}

func (a *app) stopProfiler() error {
	if a.profiler == nil {
		return nil
	}

	return a.profiler.Stop()
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	path, err := a.gen.LoadFile(".", cmd.Flags())
	if err != nil {
		return err
	}

	if path != "" {
		slog.Debug("loaded config file", slog.String("path", path))
	}

	gen, err := a.gen.NewGenerator()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	dirs, err := expandDirs(args)
	if err != nil {
		return err
	}

	outs, err := gen.GenerateAll(cmd.Context(), dirs...)
	if err != nil {
		return err
	}

	stale := false

	for _, out := range outs {
		if !out.Changed() {
			slog.Debug("up to date", slog.String("path", out.Path))

			continue
		}

		stale = true

		switch {
		case a.diff:
			err = printDiff(a.stdout, out.Diff())
		case a.list, a.check:
			err = writeString(a.stdout, out.Path+"\n")
		default:
			err = out.Write()
			if err == nil {
				slog.Info("wrote file", slog.String("path", out.Path), slog.Int("types", len(out.Types)))
			}
		}

		if err != nil {
			return err
		}
	}

	if a.check && stale {
		return ErrStale
	}

	return nil
}

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "schema",
		Short:             "Print the JSON Schema of the config file",
		Args:              cobra.NoArgs,
		ValidArgsFunction: completeNone,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := displaygen.FileSchema()
			if err != nil {
				return err
			}

			return writeString(a.stdout, string(out))
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print build information",
		Args:              cobra.NoArgs,
		ValidArgsFunction: completeNone,
		RunE: func(_ *cobra.Command, _ []string) error {
			return version.Get().Print(a.stdout)
		},
	}
}
