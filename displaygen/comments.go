package displaygen

import (
	"go/ast"
	"go/token"
	"strings"

	"go.jacobcolvin.com/displaydoc/attr"
)

// Directive is the comment prefix that selects a type for generation. It may
// appear alone ("//displaydoc") or with a name ("//displaydoc:error").
const Directive = "displaydoc"

// Directive names understood by the generator, besides
// [attr.MultiLineMarker].
const (
	// DirectiveError also generates an Error method.
	DirectiveError = "error"
)

// commentEntries converts a doc comment group into metadata entries.
//
// Each line comment is one doc entry and each block comment is one doc entry
// with its delimiters removed. Blank lines around the text are dropped.
// //displaydoc:NAME lines become marker entries. Other directives
// (//go:generate, //nolint:...) are dropped.
func commentEntries(fset *token.FileSet, cg *ast.CommentGroup) (entries []attr.Entry, selected bool) {
	if cg == nil {
		return nil, false
	}

	for _, c := range cg.List {
		pos := fset.Position(c.Slash)

		text, ok := strings.CutPrefix(c.Text, "//")
		if !ok {
			text = strings.TrimSuffix(strings.TrimPrefix(c.Text, "/*"), "*/")
			entries = append(entries, attr.DocEntry(text, pos))

			continue
		}

		if !isDirective(text) {
			entries = append(entries, attr.DocEntry(text, pos))

			continue
		}

		if text == Directive {
			selected = true

			continue
		}

		name, ok := strings.CutPrefix(text, Directive+":")
		if !ok {
			continue
		}

		selected = true

		entries = append(entries, directiveEntry(strings.TrimSpace(name), pos))
	}

	return trimBlank(entries), selected
}

// trimBlank drops blank doc lines before the first and after the last line
// with text, such as the "//" separating a doc comment from its directives.
func trimBlank(entries []attr.Entry) []attr.Entry {
	first, last := -1, -1

	for i, e := range entries {
		lit, ok := e.Value.(attr.Lit)
		if e.IsDoc() && ok && strings.TrimSpace(lit.Text) != "" {
			if first < 0 {
				first = i
			}

			last = i
		}
	}

	out := entries[:0]

	for i, e := range entries {
		if e.IsDoc() && (first < 0 || i < first || i > last) {
			if lit, ok := e.Value.(attr.Lit); ok && strings.TrimSpace(lit.Text) == "" {
				continue
			}
		}

		out = append(out, e)
	}

	return out
}

// directiveEntry parses NAME or NAME(a, b).
func directiveEntry(text string, pos token.Position) attr.Entry {
	name, args, ok := strings.Cut(text, "(")
	if !ok || !strings.HasSuffix(args, ")") {
		return attr.Marker(text, pos)
	}

	var items []string

	for item := range strings.SplitSeq(strings.TrimSuffix(args, ")"), ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return attr.Entry{Name: strings.TrimSpace(name), Value: attr.List{Items: items}, Pos: pos}
}

// isDirective reports whether the text after "//" is a directive comment
// rather than documentation. Directives have no space after the slashes.
func isDirective(text string) bool {
	if text == "" || text[0] == ' ' || text[0] == '\t' {
		return false
	}

	if text == Directive || strings.HasPrefix(text, Directive+":") {
		return true
	}

	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "nolint") ||
		strings.HasPrefix(lower, "lint:") ||
		strings.HasPrefix(text, "+build") {
		return true
	}

	// Go directives: [a-z0-9]+:[a-z0-9], as in go:embed.
	word, rest, ok := strings.Cut(text, ":")
	if !ok || word == "" || rest == "" || !isLowerAlnum(rune(rest[0])) {
		return false
	}

	for _, r := range word {
		if !isLowerAlnum(r) {
			return false
		}
	}

	return true
}

func isLowerAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// hasDirective reports whether entries contain a marker with the given name.
func hasDirective(entries []attr.Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}

	return false
}
