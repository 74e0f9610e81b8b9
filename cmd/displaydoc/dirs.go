package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.jacobcolvin.com/displaydoc/displaygen"
)

// expandDirs resolves command line arguments to package directories. An
// argument ending in "/..." is replaced by every directory below it that
// contains non-test Go files. Hidden, testdata, and vendor directories are not
// descended into.
func expandDirs(args []string) ([]string, error) {
	var dirs []string

	for _, arg := range args {
		root, recursive := strings.CutSuffix(arg, "...")
		if recursive {
			root = filepath.Clean(root)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", displaygen.ErrReadInput, err)
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", displaygen.ErrReadInput, root)
		}

		if !recursive {
			dirs = append(dirs, root)

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() {
				return nil
			}

			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}

			ok, err := hasGoFiles(path)
			if err != nil {
				return err
			}

			if ok {
				dirs = append(dirs, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", displaygen.ErrReadInput, err)
		}
	}

	return slices.Compact(dirs), nil
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true, nil
		}
	}

	return false, nil
}
