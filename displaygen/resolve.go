package displaygen

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/displaydoc/shorthand"
)

// resolveBindings maps each binding of a display to a Go expression in the
// scope of a method with the given receiver name.
//
// Identifiers always resolve to a selector on the receiver, whether or not
// the field exists; the compiler reports unknown fields in the generated
// file. Indices must name an existing positional field, because there is no
// valid expression to emit otherwise.
func resolveBindings(d *Decl, recv string, bindings []shorthand.Binding) (map[shorthand.Binding]string, error) {
	out := make(map[shorthand.Binding]string, len(bindings))

	for _, b := range bindings {
		expr, err := resolveBinding(d, recv, b)
		if err != nil {
			return nil, err
		}

		out[b] = expr
	}

	return out, nil
}

func resolveBinding(d *Decl, recv string, b shorthand.Binding) (string, error) {
	idx, ok := b.Index()
	if !ok {
		return recv + "." + string(b), nil
	}

	switch d.Shape {
	case ShapeStruct:
		if idx >= len(d.Fields) {
			return "", fmt.Errorf("%w: {%d} on %s, which has %d fields",
				ErrUnresolvedBinding, idx, d.Name, len(d.Fields))
		}

		field := d.Fields[idx]
		if field == "_" || field == "" {
			return "", fmt.Errorf("%w: {%d} on %s refers to a blank field",
				ErrUnresolvedBinding, idx, d.Name)
		}

		return recv + "." + field, nil

	default:
		if idx != 0 {
			return "", fmt.Errorf("%w: {%d} on %s, which only has {0}",
				ErrUnresolvedBinding, idx, d.Name)
		}

		return underlyingValue(d, recv), nil
	}
}

// underlyingValue converts the receiver to its underlying type, so that
// formatting it does not call the generated String method.
func underlyingValue(d *Decl, recv string) string {
	if d.Underlying == "" {
		return recv
	}

	for _, prefix := range []string{"*", "func", "chan", "<-"} {
		if strings.HasPrefix(d.Underlying, prefix) {
			return "(" + d.Underlying + ")(" + recv + ")"
		}
	}

	return d.Underlying + "(" + recv + ")"
}
