package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	diffHeader = color.New(color.Bold)
	diffHunk   = color.New(color.FgCyan)
	diffAdd    = color.New(color.FgGreen)
	diffDel    = color.New(color.FgRed)
)

// printDiff writes a unified diff, coloured when color output is enabled.
func printDiff(w io.Writer, diff string) error {
	for line := range strings.SplitAfterSeq(diff, "\n") {
		text, nl := strings.CutSuffix(line, "\n")

		var err error

		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			_, err = diffHeader.Fprint(w, text)
		case strings.HasPrefix(text, "@@"):
			_, err = diffHunk.Fprint(w, text)
		case strings.HasPrefix(text, "+"):
			_, err = diffAdd.Fprint(w, text)
		case strings.HasPrefix(text, "-"):
			_, err = diffDel.Fprint(w, text)
		default:
			_, err = io.WriteString(w, text)
		}

		if err == nil && nl {
			_, err = io.WriteString(w, "\n")
		}

		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
