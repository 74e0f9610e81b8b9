package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/displaydoc/attr"
	"go.jacobcolvin.com/displaydoc/pipeline"
)

var errNoDoc = errors.New("no doc text")

// explanation is the JSON form of a pipeline result.
type explanation struct {
	Text      string   `json:"text"`
	Template  string   `json:"template"`
	Format    string   `json:"format"`
	Call      string   `json:"call"`
	Bindings  []string `json:"bindings"`
	Explicit  []string `json:"explicit,omitempty"`
	MultiLine bool     `json:"multiLine"`
}

func (a *app) explainCommand() *cobra.Command {
	var (
		multiLine bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "explain [--multi-line] [--json] <text>...",
		Short: "Show how doc text is expanded",
		Long: `explain runs doc text through the display pipeline and prints each stage.

Each argument is one doc comment line. More than one line requires
--multi-line, as with the allow_multi_line directive.`,
		Example: `  displaydoc explain 'Error: {code} at {line:>4}'
  displaydoc explain --multi-line 'first {a}' 'second {b:q}'`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeNone,
		RunE: func(_ *cobra.Command, args []string) error {
			entries := make([]attr.Entry, 0, len(args)+1)

			for i, arg := range args {
				entries = append(entries, attr.DocEntry(arg, token.Position{Filename: "arg", Line: i + 1}))
			}

			if multiLine {
				entries = append(entries, attr.Marker(attr.MultiLineMarker, token.Position{}))
			}

			res, err := pipeline.Run(entries)
			if err != nil {
				return err
			}

			if res == nil {
				return errNoDoc
			}

			err = res.Fragment.Err()
			if err != nil {
				return err
			}

			ex := newExplanation(res)

			if asJSON {
				return writeJSON(a.stdout, ex)
			}

			return writeExplanation(a.stdout, ex)
		},
	}

	cmd.Flags().BoolVarP(&multiLine, "multi-line", "m", false,
		"allow more than one doc line")
	cmd.Flags().BoolVar(&asJSON, "json", false,
		"print JSON")

	return cmd
}

func newExplanation(res *pipeline.Result) explanation {
	ex := explanation{
		Text:      res.Doc.Text,
		Template:  res.Display.Template.Text,
		Format:    res.Fragment.Format,
		Call:      res.Fragment.Expr(),
		Bindings:  make([]string, 0, len(res.Display.Bindings)),
		MultiLine: res.Mode.AllowMultiLine,
	}

	for _, b := range res.Display.Bindings {
		ex.Bindings = append(ex.Bindings, string(b))
	}

	for _, p := range res.Display.Explicit {
		ex.Explicit = append(ex.Explicit, p.Arg)
	}

	return ex
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func writeExplanation(w io.Writer, ex explanation) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "text:     %q\n", ex.Text)
	fmt.Fprintf(&sb, "template: %q\n", ex.Template)
	fmt.Fprintf(&sb, "bindings: %s\n", strings.Join(ex.Bindings, ", "))

	if len(ex.Explicit) > 0 {
		fmt.Fprintf(&sb, "explicit: %s\n", strings.Join(ex.Explicit, ", "))
	}

	fmt.Fprintf(&sb, "format:   %q\n", ex.Format)
	fmt.Fprintf(&sb, "call:     %s\n", ex.Call)

	return writeString(w, sb.String())
}
