// Package emit packages an expanded display template into a formatting call.
//
// [Emit] translates the brace template produced by [shorthand.Expand] into a
// Go [fmt] format string using explicit argument indexes, so a binding used
// twice is still passed once:
//
//	"{0} and {0:q}"  ->  fmt.Sprintf("%[1]v and %[1]q", x)
//	"{0:08.3f}"      ->  fmt.Sprintf("%08.3[1]f", x)
//
// A spec after ':' is read as Go verb flags, width, and precision followed by
// an optional verb letter; "v" is used when no letter is given. A few
// Rust-style specs are accepted for compatibility: a trailing "?" adds the
// "#" flag, "<" alignment becomes the "-" flag, and ">" alignment is the
// default. Specs that fmt cannot honour, such as "^" centring or a "*" fill,
// are formatted with plain %v and listed in [Fragment.Unsupported], so the
// caller can reject them with [Fragment.Err].
//
// Explicit placeholders such as {v.name:q} carry their spec after the last
// top-level ':' and are formatted the same way.
package emit

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"go.jacobcolvin.com/displaydoc/shorthand"
)

// DefaultCallee is the function called by [Fragment.String].
const DefaultCallee = "fmt.Sprintf"

// ErrUnsupportedSpec is returned by [Fragment.Err] for a placeholder spec
// with no fmt equivalent.
var ErrUnsupportedSpec = errors.New("unsupported format spec")

// Resolver maps a binding to the Go expression passed as its argument.
type Resolver func(b shorthand.Binding) string

// Option configures [Emit].
type Option func(*emitter)

type emitter struct {
	resolve Resolver
	callee  string
}

// WithCallee sets the called function name.
func WithCallee(callee string) Option {
	return func(e *emitter) {
		e.callee = callee
	}
}

// WithResolver sets how bindings become argument expressions. The default
// uses the binding text itself.
func WithResolver(r Resolver) Option {
	return func(e *emitter) {
		e.resolve = r
	}
}

// Fragment is a formatting call ready to splice into generated code.
type Fragment struct {
	Callee string
	// Template is the brace template the fragment was built from.
	Template string
	// Format is the Go format string.
	Format string
	// Text is the literal output when Args is empty.
	Text string
	// Args lists argument expressions: bindings first, in slot order, then
	// pass-through expressions.
	Args []string
	// Unsupported lists specs that fmt cannot express, in template order.
	// Their placeholders are formatted with %v.
	Unsupported []string
	Pos         token.Position
}

// Err returns an error wrapping [ErrUnsupportedSpec] when f has unsupported
// specs.
func (f Fragment) Err() error {
	if len(f.Unsupported) == 0 {
		return nil
	}

	specs := make([]string, len(f.Unsupported))
	for i, spec := range f.Unsupported {
		specs[i] = strconv.Quote(spec)
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedSpec, strings.Join(specs, ", "))
}

// String renders the call, for example fmt.Sprintf("%[1]v", x).
func (f Fragment) String() string {
	var sb strings.Builder

	sb.WriteString(f.Callee)
	sb.WriteByte('(')
	sb.WriteString(strconv.Quote(f.Format))

	for _, arg := range f.Args {
		sb.WriteString(", ")
		sb.WriteString(arg)
	}

	sb.WriteByte(')')

	return sb.String()
}

// Expr renders f as an expression: a plain string literal when there are no
// arguments, otherwise the call from [Fragment.String].
func (f Fragment) Expr() string {
	if len(f.Args) == 0 {
		return strconv.Quote(f.Text)
	}

	return f.String()
}

// Emit builds the [Fragment] for d.
func Emit(d *shorthand.Display, opts ...Option) Fragment {
	e := &emitter{
		callee: DefaultCallee,
		resolve: func(b shorthand.Binding) string {
			return string(b)
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	args := make([]string, 0, len(d.Bindings)+len(d.Explicit))
	for _, b := range d.Bindings {
		args = append(args, e.resolve(b))
	}

	var (
		format      strings.Builder
		text        strings.Builder
		unsupported []string
	)

	spec := func(p shorthand.Placeholder) (string, string) {
		flags, letter, ok := verb(p.Spec)
		if !ok {
			unsupported = append(unsupported, p.Spec)

			return "", "v"
		}

		return flags, letter
	}

	explicit := make(map[string]int)
	tmpl := d.Template.Text
	prev := 0

	for _, p := range shorthand.Parse(tmpl) {
		lit := tmpl[prev:p.Offset]
		format.WriteString(strings.ReplaceAll(lit, "%", "%%"))
		text.WriteString(lit)

		prev = p.Offset + len(p.Raw)

		switch {
		case p.IsEscape():
			format.WriteByte(p.Raw[0])
			text.WriteByte(p.Raw[0])

		case p.Kind == shorthand.Bare:
			slot, ok := shorthand.Binding(p.Arg).Index()
			if !ok || slot >= len(d.Bindings) {
				// Not produced by Expand; keep it as text.
				format.WriteString(strings.ReplaceAll(p.Raw, "%", "%%"))
				text.WriteString(p.Raw)

				continue
			}

			flags, letter := spec(p)
			format.WriteString("%" + flags + "[" + strconv.Itoa(slot+1) + "]" + letter)

		default:
			flags, letter := spec(p)

			n, seen := explicit[p.Arg]
			if !seen {
				args = append(args, p.Arg)
				n = len(args)
				explicit[p.Arg] = n
			}

			format.WriteString("%" + flags + "[" + strconv.Itoa(n) + "]" + letter)
		}
	}

	format.WriteString(strings.ReplaceAll(tmpl[prev:], "%", "%%"))
	text.WriteString(tmpl[prev:])

	return Fragment{
		Callee:      e.callee,
		Template:    tmpl,
		Format:      format.String(),
		Text:        text.String(),
		Args:        args,
		Unsupported: unsupported,
		Pos:         d.Template.Pos,
	}
}

// verb splits a placeholder spec into Go flags, width, and precision, and the
// verb letter. The argument index goes between the two. It reports false when
// fmt has no equivalent for spec.
func verb(spec string) (string, string, bool) {
	rest, ok := stripAlign(spec)
	if !ok {
		return "", "", false
	}

	rest, debug := strings.CutSuffix(rest, "?")
	letter := "v"

	if n := len(rest); n > 0 && isLetter(rest[n-1]) {
		rest, letter = rest[:n-1], rest[n-1:]
	}

	if debug && !strings.Contains(rest, "#") {
		rest = "#" + rest
	}

	if !isFlags(rest) {
		return "", "", false
	}

	return rest, letter, true
}

// stripAlign rewrites a leading [fill]align prefix into Go flags. fmt pads
// with spaces, or with zeros on the left, and cannot centre.
func stripAlign(spec string) (string, bool) {
	isAlign := func(b byte) bool {
		return b == '<' || b == '>' || b == '^'
	}

	var fill, align byte

	switch {
	case len(spec) > 1 && isAlign(spec[1]):
		fill, align = spec[0], spec[1]
		spec = spec[2:]
	case spec != "" && isAlign(spec[0]):
		align = spec[0]
		spec = spec[1:]
	default:
		return spec, true
	}

	switch {
	case align == '^':
		return "", false
	case fill == 0, fill == ' ':
	case fill == '0' && align == '>':
		spec = "0" + spec
	default:
		return "", false
	}

	if align == '<' {
		spec = "-" + spec
	}

	return spec, true
}

// isFlags reports whether s is fmt flags followed by an optional width and
// precision.
func isFlags(s string) bool {
	s = strings.TrimLeft(s, "+-# 0")
	s = strings.TrimLeft(s, "0123456789")

	if rest, ok := strings.CutPrefix(s, "."); ok {
		s = strings.TrimLeft(rest, "0123456789")
	}

	return s == ""
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
