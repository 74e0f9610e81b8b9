// Command displaydoc generates String methods from Go doc comments.
//
// # Usage
//
//	displaydoc [flags] [dir ...]
//	displaydoc explain [--multi-line] [--json] <text>...
//	displaydoc schema
//	displaydoc version
//
// Each directory is one package; a trailing "/..." also processes every
// package below it. Without arguments, the current directory is used. A
// typical use is a go:generate line in the package:
//
//	//go:generate go run go.jacobcolvin.com/displaydoc/cmd/displaydoc
//
// # Modes
//
// By default, generated files are written. With --diff, a unified diff is
// printed instead; with --list, only the paths of files that would change;
// with --check, the same paths are printed and the exit status is 1 when any
// file is stale.
//
// # Configuration
//
// Flags may also be set in .displaydoc.yaml, .displaydoc.yml, or
// .displaydoc.toml in the working directory, or in the file named by
// --config. Flags given on the command line win. Run "displaydoc schema" for
// the file's JSON Schema.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrStale is returned in check mode when generated files are out of date.
var ErrStale = errors.New("generated files are out of date")

func main() {
	a := newApp(os.Stdout, os.Stderr)
	rootCmd := a.rootCommand()

	err := rootCmd.Execute()

	stopErr := a.stopProfiler()
	if stopErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", stopErr)
	}

	if err != nil {
		if !errors.Is(err, ErrStale) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}

		os.Exit(1)
	}
}

// completeNone disables file completion for positional arguments.
func completeNone(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
