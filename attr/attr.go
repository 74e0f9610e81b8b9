package attr

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

const (
	// DocName is the entry name that marks documentation text.
	DocName = "doc"
	// MultiLineMarker is the entry name that enables relaxed multi-line mode.
	// It is matched exactly and case-sensitively.
	MultiLineMarker = "allow_multi_line"
)

var (
	// ErrMultipleDocs indicates more than one doc entry was found on a
	// declaration that does not carry the [MultiLineMarker].
	ErrMultipleDocs = errors.New("multiple doc entries")
	// ErrMalformedDoc indicates a doc entry whose value is not a plain string
	// literal.
	ErrMalformedDoc = errors.New("malformed doc entry")
)

// Value is the payload of an [Entry]: one of [Lit], [Path], or [List].
type Value interface {
	value()
}

// Lit is a plain string literal value, as in doc = "text".
type Lit struct {
	Text string
}

// Path is the value of an entry that is only a name, such as a bare marker.
type Path struct{}

// List is a parenthesised list value, as in name(a, b).
type List struct {
	Items []string
}

func (Lit) value()  {}
func (Path) value() {}
func (List) value() {}

// Entry is one piece of metadata attached to a declaration.
type Entry struct {
	Value Value
	Name  string
	// Pos locates the entry in source. The zero value means unknown.
	Pos token.Position
}

// DocEntry returns a doc [Entry] holding text.
func DocEntry(text string, pos token.Position) Entry {
	return Entry{Name: DocName, Value: Lit{Text: text}, Pos: pos}
}

// Marker returns a value-less [Entry] with the given name.
func Marker(name string, pos token.Position) Entry {
	return Entry{Name: name, Value: Path{}, Pos: pos}
}

// IsDoc reports whether e holds documentation text.
func (e Entry) IsDoc() bool {
	return e.Name == DocName
}

// Mode holds the per-declaration flags derived by [Scan].
type Mode struct {
	AllowMultiLine bool
}

// Scan derives the [Mode] for a declaration. An empty entry list is valid.
func Scan(entries []Entry) Mode {
	var m Mode

	for _, e := range entries {
		if e.Name == MultiLineMarker {
			m.AllowMultiLine = true

			break
		}
	}

	return m
}

// CountDocs returns the number of doc entries.
func CountDocs(entries []Entry) int {
	n := 0

	for _, e := range entries {
		if e.IsDoc() {
			n++
		}
	}

	return n
}

// Doc is cleaned display text.
type Doc struct {
	Text string
	// Pos refers back to the first doc entry the text came from.
	Pos token.Position
}

// Normalize extracts and cleans the doc text from entries.
//
// It returns nil, nil when there is no doc entry. More than one doc entry is
// an [ErrMultipleDocs] error unless mode allows multi-line text, in which
// case the entries are joined with '\n' in their original order.
func Normalize(entries []Entry, mode Mode) (*Doc, error) {
	var docs []Entry

	for _, e := range entries {
		if e.IsDoc() {
			docs = append(docs, e)
		}
	}

	if len(docs) == 0 {
		return nil, nil
	}

	if len(docs) > 1 && !mode.AllowMultiLine {
		return nil, fmt.Errorf("%s%w: found %d; multi-line comments need the %q marker, "+
			"or use a single block comment (/* */) instead",
			posPrefix(docs[1].Pos), ErrMultipleDocs, len(docs), MultiLineMarker)
	}

	texts := make([]string, 0, len(docs))

	for _, e := range docs {
		lit, ok := e.Value.(Lit)
		if !ok {
			return nil, fmt.Errorf("%s%w: want a string literal, got %s",
				posPrefix(e.Pos), ErrMalformedDoc, describe(e.Value))
		}

		texts = append(texts, lit.Text)
	}

	return &Doc{
		Text: Clean(strings.Join(texts, "\n")),
		Pos:  docs[0].Pos,
	}, nil
}

// Clean strips comment continuation noise from text.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "*")
		lines[i] = strings.TrimSpace(line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func posPrefix(pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}

	return pos.String() + ": "
}

func describe(v Value) string {
	switch v := v.(type) {
	case nil:
		return "no value"
	case Path:
		return "a bare name"
	case List:
		return fmt.Sprintf("a list of %d items", len(v.Items))
	}

	return fmt.Sprintf("%T", v)
}
