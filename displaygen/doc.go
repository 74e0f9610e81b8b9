// Package displaygen generates String methods for Go types from their doc
// comments.
//
// A type opts in with a //displaydoc directive in its doc comment, or by
// being named with [WithTypes]. The doc comment text becomes the display
// template; placeholders in braces refer to fields or values:
//
//	// Error: {code} at {1}
//	//
//	//displaydoc
//	type Failure struct {
//		code string
//		line int
//	}
//
// generates
//
//	func (v Failure) String() string {
//		return fmt.Sprintf("Error: %[1]v at %[2]v", v.code, v.line)
//	}
//
// # Doc Comments
//
// Each "//" line is one doc entry and a block comment is one doc entry. A
// type with more than one doc entry is rejected unless it also carries the
// //displaydoc:allow_multi_line directive, in which case the lines are
// joined with newlines. Leading "*" decoration and surrounding whitespace is
// removed from each line. Other directives, such as //go:generate or
// //nolint, are not part of the text.
//
// # Shapes
//
// Struct types use their own doc comment. A named identifier resolves to the
// field of that name on the receiver; unknown names are left for the
// compiler to report. A positional index {N} resolves to the N-th field in
// declaration order, and must exist.
//
// Other named types with typed constants in the package are enums: each
// constant's doc comment is the display text for that value, and the
// generated method switches on the receiver with a "Type(value)" fallback.
// {0} is the value converted to its underlying type. Named types without
// constants use their own doc comment, again with {0} as the underlying
// value.
//
// # Output
//
// The methods for one package are written to a single generated file,
// <package>_displaydoc.go by default, formatted with go/format. Types that
// already declare the method being generated are skipped with a warning.
// The //displaydoc:error directive, or [WithErrors], also generates an Error
// method returning the display text.
//
// [Generator.Generate] never writes files. Callers inspect the returned
// [Output] and call [Output.Write] or [Output.Diff].
package displaygen
