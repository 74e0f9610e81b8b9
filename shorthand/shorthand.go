// Package shorthand rewrites informal placeholders in display text into a
// positional template and an ordered list of bindings.
//
// The placeholder grammar is:
//
//	{}           next implicit positional field
//	{name}       named field
//	{0}, {1}     positional field
//	{name:spec}  any of the above with a formatting spec
//	{{, }}       literal braces
//
// Bare placeholders are rewritten to {slot} or {slot:spec}, where slot is the
// position of the binding in [Display.Bindings]. A binding that appears more
// than once keeps its first slot, so no argument is captured twice.
// Placeholders whose content is not a bare name or index, such as {a.b} or
// {f(x)}, are copied unchanged and left for the caller to supply. Their spec
// follows the last ':' that is not inside brackets or quotes, so {m[a:b]:q}
// is the expression m[a:b] with spec q.
package shorthand

import (
	"strconv"
	"strings"
	"unicode"

	"go.jacobcolvin.com/displaydoc/attr"
)

// Kind classifies a [Placeholder].
type Kind int

const (
	// Bare placeholders name a field or index and are captured as bindings.
	Bare Kind = iota
	// Explicit placeholders are passed through unchanged. This includes the
	// {{ and }} escapes.
	Explicit
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Bare:
		return "bare"
	case Explicit:
		return "explicit"
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Placeholder is one brace-delimited segment of display text.
type Placeholder struct {
	// Arg is the identifier or index of a Bare placeholder, or the expression
	// of an Explicit one. Empty for {} and for escapes.
	Arg string
	// Spec is the text after the first ':' of a Bare placeholder, or after
	// the last ':' outside brackets and quotes of an Explicit one.
	Spec string
	// Raw is the segment as written, braces included.
	Raw string
	// Offset is the byte offset of Raw in the scanned text.
	Offset int
	Kind   Kind
	// HasSpec reports whether a ':' was present, so that {x:} round-trips.
	HasSpec bool
}

// IsEscape reports whether p is a {{ or }} escape.
func (p Placeholder) IsEscape() bool {
	return p.Raw == "{{" || p.Raw == "}}"
}

// Binding names the value captured for a bare placeholder: either an
// identifier or a canonical decimal index.
type Binding string

// Index returns the positional index of b, if b is one.
func (b Binding) Index() (int, bool) {
	if !isDigits(string(b)) {
		return 0, false
	}

	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}

	return n, true
}

// Display is the result of [Expand].
type Display struct {
	// Template is the rewritten text, with the position of the original doc.
	Template attr.Doc
	// Bindings lists captured names in first-appearance order. Slot i of the
	// template refers to Bindings[i].
	Bindings []Binding
	// Explicit lists the non-escape pass-through placeholders in order.
	Explicit []Placeholder
}

// Expand rewrites the bare placeholders in doc.Text.
func Expand(doc attr.Doc) *Display {
	var (
		sb       strings.Builder
		bindings []Binding
		explicit []Placeholder
		implicit int
	)

	slots := make(map[Binding]int)

	for _, pc := range scan(doc.Text) {
		if pc.ph == nil {
			sb.WriteString(pc.text)
			continue
		}

		p := *pc.ph
		if p.Kind == Explicit {
			if !p.IsEscape() {
				explicit = append(explicit, p)
			}

			sb.WriteString(p.Raw)

			continue
		}

		b := Binding(p.Arg)
		if p.Arg == "" {
			b = Binding(strconv.Itoa(implicit))
			implicit++
		}

		slot, ok := slots[b]
		if !ok {
			slot = len(bindings)
			slots[b] = slot
			bindings = append(bindings, b)
		}

		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(slot))

		if p.HasSpec {
			sb.WriteByte(':')
			sb.WriteString(p.Spec)
		}

		sb.WriteByte('}')
	}

	return &Display{
		Template: attr.Doc{Text: sb.String(), Pos: doc.Pos},
		Bindings: bindings,
		Explicit: explicit,
	}
}

// Parse returns the placeholders of text in order, escapes included.
func Parse(text string) []Placeholder {
	var out []Placeholder

	for _, pc := range scan(text) {
		if pc.ph != nil {
			out = append(out, *pc.ph)
		}
	}

	return out
}

// piece is either literal text or a placeholder.
type piece struct {
	ph   *Placeholder
	text string
}

func scan(text string) []piece {
	var (
		pieces []piece
		start  int
	)

	flush := func(end int) {
		if end > start {
			pieces = append(pieces, piece{text: text[start:end]})
		}
	}

	i := 0
	for i < len(text) {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				flush(i)
				pieces = append(pieces, piece{ph: &Placeholder{Kind: Explicit, Raw: "{{", Offset: i}})
				i += 2
				start = i

				continue
			}

			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				// Unterminated; the rest is literal text.
				i = len(text)
				continue
			}

			end += i + 1
			flush(i)

			p := classify(text[i+1 : end])
			p.Raw = text[i : end+1]
			p.Offset = i
			pieces = append(pieces, piece{ph: &p})
			i = end + 1
			start = i

		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				flush(i)
				pieces = append(pieces, piece{ph: &Placeholder{Kind: Explicit, Raw: "}}", Offset: i}})
				i += 2
				start = i

				continue
			}

			i++

		default:
			i++
		}
	}

	flush(len(text))

	return pieces
}

func classify(content string) Placeholder {
	arg, spec, hasSpec := strings.Cut(content, ":")

	switch {
	case arg == "":
	case isDigits(arg):
		n, err := strconv.Atoi(arg)
		if err != nil {
			return explicitPlaceholder(content)
		}

		arg = strconv.Itoa(n)

	case isIdent(arg):
	default:
		return explicitPlaceholder(content)
	}

	return Placeholder{Kind: Bare, Arg: arg, Spec: spec, HasSpec: hasSpec}
}

func explicitPlaceholder(content string) Placeholder {
	var (
		depth int
		quote byte
		colon = -1
	)

	for i := 0; i < len(content); i++ {
		c := content[i]

		switch {
		case quote != 0:
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}

		case c == '"', c == '\'', c == '`':
			quote = c
		case c == '(', c == '[':
			depth++
		case c == ')', c == ']':
			depth--
		case c == ':' && depth == 0:
			colon = i
		}
	}

	if colon < 0 {
		return Placeholder{Kind: Explicit, Arg: content}
	}

	return Placeholder{
		Kind:    Explicit,
		Arg:     content[:colon],
		Spec:    content[colon+1:],
		HasSpec: true,
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isIdent(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return s != ""
}
