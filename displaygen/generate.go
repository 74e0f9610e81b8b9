package displaygen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/displaydoc/attr"
	"go.jacobcolvin.com/displaydoc/emit"
	"go.jacobcolvin.com/displaydoc/pipeline"
	"go.jacobcolvin.com/displaydoc/shorthand"
)

// Header starts every generated file.
const Header = "// Code generated by displaydoc; DO NOT EDIT."

const (
	// DefaultOutput is the generated file name pattern; %s is the package name.
	DefaultOutput = "%s_displaydoc.go"
	// DefaultReceiver is the receiver name of generated methods.
	DefaultReceiver = "v"
)

// Generator writes String methods for documented Go types.
type Generator struct {
	output   string
	receiver string
	types    []string
	jobs     int
	errors   bool
}

// Option configures a [Generator].
type Option func(*Generator)

// NewGenerator creates a [Generator] with the given options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		output:   DefaultOutput,
		receiver: DefaultReceiver,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// WithOutput sets the generated file name. A %s verb is replaced by the
// package name.
func WithOutput(name string) Option {
	return func(g *Generator) {
		g.output = name
	}
}

// WithReceiver sets the receiver name of generated methods.
func WithReceiver(name string) Option {
	return func(g *Generator) {
		g.receiver = name
	}
}

// WithTypes selects types by name in addition to //displaydoc directives.
func WithTypes(names ...string) Option {
	return func(g *Generator) {
		g.types = names
	}
}

// WithErrors generates an Error method for every selected type.
func WithErrors(enabled bool) Option {
	return func(g *Generator) {
		g.errors = enabled
	}
}

// WithJobs limits concurrent work. Values <= 0 use GOMAXPROCS.
func WithJobs(n int) Option {
	return func(g *Generator) {
		g.jobs = n
	}
}

// Output is the generated file for one package.
type Output struct {
	// Path is the generated file's path.
	Path string
	// Package is the Go package name.
	Package string
	// Types lists the types that received methods.
	Types []string
	// Old is the current content of Path, or nil if it does not exist.
	Old []byte
	// New is the generated content, or nil if nothing is generated.
	New []byte
}

// Changed reports whether writing would modify the file system.
func (o *Output) Changed() bool {
	if o.New == nil {
		return o.Old != nil && isGenerated(o.Old)
	}

	return !bytes.Equal(o.Old, o.New)
}

// Write writes the generated file, or removes a stale generated file when
// there is nothing to generate. An existing file without [Header] is never
// replaced.
func (o *Output) Write() error {
	if !o.Changed() {
		return nil
	}

	if o.Old != nil && !isGenerated(o.Old) {
		return fmt.Errorf("%w: %s", ErrForeignOutput, o.Path)
	}

	if o.New == nil {
		err := os.Remove(o.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(o.Path, o.New, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// Diff returns a unified diff from the current to the generated content.
func (o *Output) Diff() string {
	return unifiedDiff(o.Path, o.Old, o.New)
}

// outputName expands the output pattern for a package.
func outputName(pattern, pkgName string) string {
	if !strings.Contains(pattern, "%s") {
		return pattern
	}

	return fmt.Sprintf(pattern, pkgName)
}

func isGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(Header))
}

// GenerateAll runs [Generator.Generate] for each directory concurrently.
// Outputs are returned in the order of dirs.
func (g *Generator) GenerateAll(ctx context.Context, dirs ...string) ([]*Output, error) {
	jobs := g.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outs := make([]*Output, len(dirs))

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, min(jobs, len(dirs))))

	for i, dir := range dirs {
		eg.Go(func() error {
			out, err := g.Generate(ectx, dir)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}

			outs[i] = out

			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return nil, err
	}

	return outs, nil
}

// Generate produces the generated file for the package in dir. It does not
// write anything; call [Output.Write].
func (g *Generator) Generate(ctx context.Context, dir string) (*Output, error) {
	if strings.Count(g.output, "%s") > 1 || !strings.HasSuffix(g.output, ".go") {
		return nil, fmt.Errorf("%w: output %q", ErrInvalidOption, g.output)
	}

	pkg, err := parseDir(dir, g.output, g.types)
	if err != nil {
		return nil, err
	}

	if pkg.Name == "" {
		slog.Info("no Go files", slog.String("dir", dir))

		return &Output{}, nil
	}

	name := outputName(g.output, pkg.Name)

	out := &Output{
		Path:    filepath.Join(dir, name),
		Package: pkg.Name,
	}

	old, err := os.ReadFile(out.Path)
	switch {
	case err == nil:
		out.Old = old
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	slog.Debug("parsed package",
		slog.String("dir", dir),
		slog.String("package", pkg.Name),
		slog.Int("types", len(pkg.Decls)),
	)

	methods, err := g.buildMethods(ctx, pkg)
	if err != nil {
		return nil, err
	}

	if len(methods) == 0 {
		slog.Info("nothing to generate", slog.String("dir", dir))

		return out, nil
	}

	if out.Old != nil && !isGenerated(out.Old) {
		return nil, fmt.Errorf("%w: %s", ErrForeignOutput, out.Path)
	}

	src, err := render(pkg.Name, methods)
	if err != nil {
		return nil, err
	}

	out.New = src
	for _, m := range methods {
		out.Types = append(out.Types, m.decl.Name)
	}

	return out, nil
}

// method is the rendered body of one String method.
type method struct {
	decl *Decl
	// cases are the switch cases for enums, in source order.
	cases []enumCase
	// body is the returned expression for structs and newtypes.
	body   string
	source string
	recv   string
	errors bool
}

type enumCase struct {
	name   string
	expr   string
	source string
}

// buildMethods runs the display pipeline over every declaration and variant
// of pkg and resolves the resulting fragments.
func (g *Generator) buildMethods(ctx context.Context, pkg *Package) ([]*method, error) {
	var (
		decls []pipeline.Decl
		// owners[i] is the Decl and variant index (-1 for the type itself)
		// of decls[i].
		owners []owner
	)

	for _, d := range pkg.Decls {
		if d.Shape == ShapeEnum {
			for i, v := range d.Variants {
				decls = append(decls, pipeline.Decl{Name: d.Name + "." + v.Name, Entries: variantEntries(d, v)})
				owners = append(owners, owner{decl: d, variant: i})
			}

			continue
		}

		decls = append(decls, pipeline.Decl{Name: d.Name, Entries: d.Entries})
		owners = append(owners, owner{decl: d, variant: -1})
	}

	results, err := pipeline.RunAll(ctx, decls, g.jobs)
	if err != nil {
		return nil, err
	}

	var (
		methods []*method
		byDecl  = make(map[*Decl]*method)
	)

	for i, res := range results {
		o := owners[i]
		d := o.decl

		m := byDecl[d]
		if m == nil {
			m = &method{
				decl:   d,
				recv:   g.receiver,
				source: sourceRef(d.Pos),
				errors: g.errors || hasDirective(d.Entries, DirectiveError),
			}
			byDecl[d] = m

			methods = append(methods, m)
		}

		if res == nil {
			if o.variant < 0 {
				slog.Warn("no doc text", slog.String("type", d.Name), slog.String("pos", d.Pos.String()))
			}

			continue
		}

		exprs, err := resolveBindings(d, g.receiver, res.Display.Bindings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Doc.Pos, err)
		}

		frag := emit.Emit(res.Display, emit.WithResolver(func(b shorthand.Binding) string {
			return exprs[b]
		}))

		err = frag.Err()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Doc.Pos, err)
		}

		if o.variant < 0 {
			m.body = frag.Expr()

			continue
		}

		v := d.Variants[o.variant]
		m.cases = append(m.cases, enumCase{
			name:   v.Name,
			expr:   frag.Expr(),
			source: sourceRef(res.Doc.Pos),
		})
	}

	kept := methods[:0]

	for _, m := range methods {
		d := m.decl

		switch {
		case d.Methods["String"]:
			slog.Warn("type already has a String method",
				slog.String("type", d.Name),
				slog.String("pos", d.Pos.String()),
			)

			continue

		case d.Shape == ShapeEnum && len(m.cases) == 0,
			d.Shape != ShapeEnum && m.body == "":
			continue
		}

		if m.errors && d.Methods["Error"] {
			slog.Warn("type already has an Error method",
				slog.String("type", d.Name),
				slog.String("pos", d.Pos.String()),
			)

			m.errors = false
		}

		slog.Debug("generating", slog.String("type", d.Name), slog.Int("cases", len(m.cases)))

		kept = append(kept, m)
	}

	return kept, nil
}

type owner struct {
	decl    *Decl
	variant int
}

// variantEntries returns the entries of an enum constant. The type's
// allow_multi_line marker applies to all of its constants.
func variantEntries(d *Decl, v Variant) []attr.Entry {
	if !hasDirective(d.Entries, attr.MultiLineMarker) || hasDirective(v.Entries, attr.MultiLineMarker) {
		return v.Entries
	}

	entries := make([]attr.Entry, 0, len(v.Entries)+1)
	entries = append(entries, v.Entries...)

	return append(entries, attr.Marker(attr.MultiLineMarker, d.Pos))
}

func sourceRef(pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}

	return filepath.Base(pos.Filename) + ":" + strconv.Itoa(pos.Line)
}

// render writes and formats the generated file.
func render(pkgName string, methods []*method) ([]byte, error) {
	var (
		body    strings.Builder
		needFmt bool
	)

	for _, m := range methods {
		d := m.decl
		recvType := d.receiverType()

		body.WriteString("\n// String returns the display text of " + d.Name + ".\n")

		if m.source != "" {
			body.WriteString("//\n// Source: " + m.source + "\n")
		}

		fmt.Fprintf(&body, "func (%s %s) String() string {\n", m.recv, recvType)

		if d.Shape == ShapeEnum {
			needFmt = true

			fmt.Fprintf(&body, "switch %s {\n", m.recv)

			for _, c := range m.cases {
				fmt.Fprintf(&body, "case %s:\n", c.name)

				if c.source != "" {
					fmt.Fprintf(&body, "// %s\n", c.source)
				}

				fmt.Fprintf(&body, "return %s\n", c.expr)
			}

			body.WriteString("}\n")
			fmt.Fprintf(&body, "return fmt.Sprintf(%q, %s)\n",
				d.Name+"(%v)", underlyingValue(d, m.recv))
		} else {
			needFmt = needFmt || strings.HasPrefix(m.body, "fmt.")

			fmt.Fprintf(&body, "return %s\n", m.body)
		}

		body.WriteString("}\n")

		if m.errors {
			body.WriteString("\n// Error implements the error interface using the display text of " + d.Name + ".\n")
			fmt.Fprintf(&body, "func (%s %s) Error() string {\n", m.recv, recvType)
			fmt.Fprintf(&body, "return %s.String()\n}\n", m.recv)
		}
	}

	var src strings.Builder

	src.WriteString(Header + "\n\n")
	src.WriteString("package " + pkgName + "\n")

	if needFmt {
		src.WriteString("\nimport \"fmt\"\n")
	}

	src.WriteString(body.String())

	out, err := format.Source([]byte(src.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return out, nil
}
