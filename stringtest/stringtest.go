// Package stringtest builds multi-line strings for test expectations and
// inline Go sources.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// Source joins lines into a Go source file body, terminated by a final LF.
//
// Example:
//
//	src := stringtest.Source(
//		"package p",
//		"",
//		"// hello",
//		"type T struct{}",
//	) // -> "package p\n\n// hello\ntype T struct{}\n"
func Source(lines ...string) string {
	return JoinLF(lines...) + "\n"
}

// Comment prefixes each line with "// ", or "//" for blank lines, and joins
// them with LF.
func Comment(lines ...string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = "//"
			continue
		}

		out[i] = "// " + line
	}

	return JoinLF(out...)
}
