package pipeline_test

import (
	"context"
	"fmt"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go.jacobcolvin.com/displaydoc/attr"
	"go.jacobcolvin.com/displaydoc/emit"
	"go.jacobcolvin.com/displaydoc/pipeline"
	"go.jacobcolvin.com/displaydoc/shorthand"
)

func doc(text string) attr.Entry {
	return attr.DocEntry(text, token.Position{})
}

func marker() attr.Entry {
	return attr.Marker(attr.MultiLineMarker, token.Position{})
}

func TestRun(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		entries  []attr.Entry
		err      error
		text     string
		template string
		bindings []shorthand.Binding
		absent   bool
	}{
		"error code": {
			entries:  []attr.Entry{doc("Error: {code}")},
			text:     "Error: {code}",
			template: "Error: {0}",
			bindings: []shorthand.Binding{"code"},
		},
		"relaxed multi-line": {
			entries:  []attr.Entry{doc(" line one "), doc(" line two "), marker()},
			text:     "line one\nline two",
			template: "line one\nline two",
		},
		"multiple without marker": {
			entries: []attr.Entry{doc("A"), doc("B")},
			err:     attr.ErrMultipleDocs,
		},
		"malformed": {
			entries: []attr.Entry{{Name: attr.DocName, Value: attr.Path{}}},
			err:     attr.ErrMalformedDoc,
		},
		"no doc": {
			entries: []attr.Entry{marker()},
			absent:  true,
		},
		"block comment": {
			entries:  []attr.Entry{doc("\n * value is {x}\n * and {x:q}\n ")},
			text:     "value is {x}\nand {x:q}",
			template: "value is {0}\nand {0:q}",
			bindings: []shorthand.Binding{"x"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := pipeline.Run(tc.entries)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)

			if tc.absent {
				assert.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tc.text, got.Doc.Text)
			assert.Equal(t, tc.template, got.Display.Template.Text)
			assert.Equal(t, tc.bindings, got.Display.Bindings)
			assert.Equal(t, tc.template, got.Fragment.Template)
		})
	}
}

// An unsupported spec is not a pipeline failure; the fragment reports it.
func TestRunUnsupportedSpec(t *testing.T) {
	t.Parallel()

	got, err := pipeline.Run([]attr.Entry{doc("[{x:^5}]")})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "[%[1]v]", got.Fragment.Format)
	assert.Equal(t, []string{"^5"}, got.Fragment.Unsupported)
	require.ErrorIs(t, got.Fragment.Err(), emit.ErrUnsupportedSpec)
}

func TestRunAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	var decls []pipeline.Decl

	for i := range 50 {
		entries := []attr.Entry{doc(fmt.Sprintf("decl %d is {v%d}", i, i))}
		if i%7 == 0 {
			entries = nil
		}

		decls = append(decls, pipeline.Decl{
			Name:    fmt.Sprintf("T%d", i),
			Entries: entries,
		})
	}

	got, err := pipeline.RunAll(t.Context(), decls, 4)
	require.NoError(t, err)
	require.Len(t, got, len(decls))

	for i, res := range got {
		if i%7 == 0 {
			assert.Nil(t, res, "decl %d", i)

			continue
		}

		require.NotNil(t, res, "decl %d", i)
		assert.Equal(t, fmt.Sprintf("decl %d is {0}", i), res.Display.Template.Text)
		assert.Equal(t, []string{fmt.Sprintf("v%d", i)}, res.Fragment.Args)
	}
}

func TestRunAllError(t *testing.T) {
	defer goleak.VerifyNone(t)

	decls := []pipeline.Decl{
		{Name: "Good", Entries: []attr.Entry{doc("fine")}},
		{Name: "Bad", Entries: []attr.Entry{doc("A"), doc("B")}},
	}

	got, err := pipeline.RunAll(t.Context(), decls, 0)
	require.ErrorIs(t, err, attr.ErrMultipleDocs)
	assert.Contains(t, err.Error(), "Bad: ")
	assert.Nil(t, got)
}

func TestRunAllCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := pipeline.RunAll(ctx, []pipeline.Decl{{Name: "T", Entries: []attr.Entry{doc("x")}}}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunAllEmpty(t *testing.T) {
	t.Parallel()

	got, err := pipeline.RunAll(t.Context(), nil, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
