// Package pipeline runs the display pipeline for declarations.
//
// For one declaration the stages are strictly linear:
//
//	entries -> attr.Scan -> attr.Normalize -> shorthand.Expand -> emit.Emit
//
// [Run] processes a single declaration. [RunAll] processes many declarations
// concurrently; declarations share no state, so results only need to be
// collected in input order.
package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/displaydoc/attr"
	"go.jacobcolvin.com/displaydoc/emit"
	"go.jacobcolvin.com/displaydoc/shorthand"
)

// Result holds the output of every stage for one declaration.
type Result struct {
	Doc      *attr.Doc
	Display  *shorthand.Display
	Fragment emit.Fragment
	Mode     attr.Mode
}

// Run processes the entries of one declaration. It returns nil, nil when the
// declaration has no doc text.
func Run(entries []attr.Entry, opts ...emit.Option) (*Result, error) {
	mode := attr.Scan(entries)

	doc, err := attr.Normalize(entries, mode)
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, nil
	}

	display := shorthand.Expand(*doc)

	return &Result{
		Mode:     mode,
		Doc:      doc,
		Display:  display,
		Fragment: emit.Emit(display, opts...),
	}, nil
}

// Decl is one declaration to process with [RunAll].
type Decl struct {
	// Name identifies the declaration in errors.
	Name    string
	Entries []attr.Entry
	Options []emit.Option
}

// RunAll runs [Run] for every declaration using at most jobs goroutines
// (GOMAXPROCS when jobs <= 0). Results are in input order; absent doc text
// yields a nil entry. The first error cancels the remaining work.
func RunAll(ctx context.Context, decls []Decl, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(decls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(decls))))

	for i, d := range decls {
		g.Go(func() error {
			err := gctx.Err()
			if err != nil {
				return err
			}

			res, err := Run(d.Entries, d.Options...)
			if err != nil {
				return fmt.Errorf("%s: %w", d.Name, err)
			}

			results[i] = res

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}
