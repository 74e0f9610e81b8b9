package displaygen

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff returns a unified diff between two versions of path.
// It returns "" when they are equal.
func unifiedDiff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		// Only returned for write errors, which a strings.Builder never has.
		return ""
	}

	return text
}

// splitLines splits src into newline-terminated lines. Empty or missing
// content has no lines.
func splitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}

	lines := strings.SplitAfter(string(src), "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}

	return lines
}
