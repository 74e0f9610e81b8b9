package displaygen_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/displaydoc/attr"
	"go.jacobcolvin.com/displaydoc/displaygen"
	"go.jacobcolvin.com/displaydoc/emit"
	"go.jacobcolvin.com/displaydoc/stringtest"
)

// writePackage writes files into a new temporary directory and returns it.
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	return dir
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		src     string
		opts    []displaygen.Option
		err     error
		want    []string
		notWant []string
		types   []string
	}{
		"named fields": {
			src: stringtest.Source(
				"package p",
				"",
				stringtest.Comment("Error: {code} at {line:>4}", ""),
				"//displaydoc",
				"type Failure struct {",
				"\tcode string",
				"\tline int",
				"}",
			),
			want: []string{
				`func (v Failure) String() string {`,
				`return fmt.Sprintf("Error: %[1]v at %4[2]v", v.code, v.line)`,
				`// Source: a.go:6`,
			},
			types: []string{"Failure"},
		},
		"implicit positions": {
			src: stringtest.Source(
				"package p",
				"",
				"// {} -> {}",
				"//",
				"//displaydoc",
				"type Pair struct{ a, b string }",
			),
			want:  []string{`return fmt.Sprintf("%[1]v -> %[2]v", v.a, v.b)`},
			types: []string{"Pair"},
		},
		"repeated binding is passed once": {
			src: stringtest.Source(
				"package p",
				"",
				"// {name} ({name:q})",
				"//",
				"//displaydoc",
				"type User struct{ name string }",
			),
			want:  []string{`return fmt.Sprintf("%[1]v (%[1]q)", v.name)`},
			types: []string{"User"},
		},
		"embedded field by index": {
			src: stringtest.Source(
				"package p",
				"",
				`import "time"`,
				"",
				"// took {0}",
				"//",
				"//displaydoc",
				"type Took struct{ time.Duration }",
			),
			want:  []string{`return fmt.Sprintf("took %[1]v", v.Duration)`},
			types: []string{"Took"},
		},
		"explicit expression": {
			src: stringtest.Source(
				"package p",
				"",
				"// {len(v.items)} items",
				"//",
				"//displaydoc",
				"type Bag struct{ items []string }",
			),
			want:  []string{`return fmt.Sprintf("%[1]v items", len(v.items))`},
			types: []string{"Bag"},
		},
		"explicit expression with spec": {
			src: stringtest.Source(
				"package p",
				"",
				"// {v.name:>8} first {v.items[0]:q}",
				"//",
				"//displaydoc",
				"type Named struct {",
				"\tname  string",
				"\titems []string",
				"}",
			),
			want: []string{
				`return fmt.Sprintf("%8[1]v first %[2]q", v.name, v.items[0])`,
			},
			types: []string{"Named"},
		},
		"centred spec is rejected": {
			src: stringtest.Source(
				"package p",
				"",
				"// [{name:^8}]",
				"//",
				"//displaydoc",
				"type Banner struct{ name string }",
			),
			err: emit.ErrUnsupportedSpec,
		},
		"escaped braces and percent": {
			src: stringtest.Source(
				"package p",
				"",
				"// {{literal}} 100% {n}",
				"//",
				"//displaydoc",
				"type Odd struct{ n int }",
			),
			want:  []string{`return fmt.Sprintf("{literal} 100%% %[1]v", v.n)`},
			types: []string{"Odd"},
		},
		"literal text needs no fmt": {
			src: stringtest.Source(
				"package p",
				"",
				"// Nothing to see {{here}}",
				"//",
				"//displaydoc",
				"type Quiet struct{}",
			),
			want:    []string{`return "Nothing to see {here}"`},
			notWant: []string{`import "fmt"`},
			types:   []string{"Quiet"},
		},
		"block comment": {
			src: stringtest.Source(
				"package p",
				"",
				"/*",
				" * first {a}",
				" * second",
				" */",
				"//displaydoc:allow_multi_line",
				"type Block struct{ a int }",
			),
			want:  []string{`return fmt.Sprintf("first %[1]v\nsecond", v.a)`},
			types: []string{"Block"},
		},
		"relaxed multi-line": {
			src: stringtest.Source(
				"package p",
				"",
				"// line one",
				"// line two",
				"//",
				"//displaydoc:allow_multi_line",
				"type Multi struct{}",
			),
			want:  []string{`return "line one\nline two"`},
			types: []string{"Multi"},
		},
		"multiple lines without marker": {
			src: stringtest.Source(
				"package p",
				"",
				"// line one",
				"// line two",
				"//",
				"//displaydoc",
				"type Multi struct{}",
			),
			err: attr.ErrMultipleDocs,
		},
		"unknown directive name is not doc text": {
			src: stringtest.Source(
				"package p",
				"",
				"// text",
				"//",
				"//displaydoc",
				"//go:generate echo hi",
				"//nolint:revive // Fine.",
				"type Tagged struct{}",
			),
			want:  []string{`return "text"`},
			types: []string{"Tagged"},
		},
		"enum": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Level uint8",
				"",
				"const (",
				"\t// low",
				"\tLow Level = iota + 1",
				"\t// high ({0})",
				"\tHigh",
				")",
			),
			want: []string{
				`func (v Level) String() string {`,
				"case Low:",
				`return "low"`,
				"case High:",
				`return fmt.Sprintf("high (%[1]v)", uint8(v))`,
				`return fmt.Sprintf("Level(%v)", uint8(v))`,
			},
			types: []string{"Level"},
		},
		"enum with conversion values": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Mode string",
				"",
				"const (",
				"\t// read only",
				`	ReadOnly = Mode("ro")`,
				")",
			),
			want: []string{
				"case ReadOnly:",
				`return "read only"`,
				`return fmt.Sprintf("Mode(%v)", string(v))`,
			},
			types: []string{"Mode"},
		},
		"enum duplicate value is skipped": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Kind int",
				"",
				"const (",
				"\t// a",
				"\tA Kind = 1",
				"\t// b",
				"\tB Kind = 1",
				"\t// c",
				"\tC Kind = 2",
				"\t// d",
				"\tD Kind = C",
				"\t// e",
				"\tE Kind = (1 << 2) - 2.0",
				")",
			),
			want: []string{
				"case A:",
				`return "a"`,
				"case C:",
				`return "c"`,
			},
			notWant: []string{"case B:", "case D:", "case E:"},
			types:   []string{"Kind"},
		},
		"enum iota values are distinct": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Flag uint",
				"",
				"const (",
				"\t// one",
				"\tOne Flag = 1 << iota",
				"\t// two",
				"\tTwo",
				"\t// four",
				"\tFour",
				"\t_",
				"\t// sixteen",
				"\tSixteen",
				")",
			),
			want:  []string{"case One:", "case Two:", "case Four:", "case Sixteen:"},
			types: []string{"Flag"},
		},
		"enum variant index out of range": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Level int",
				"",
				"// level {1}",
				"const Low Level = 1",
			),
			err: displaygen.ErrUnresolvedBinding,
		},
		"struct index out of range": {
			src: stringtest.Source(
				"package p",
				"",
				"// {2}",
				"//",
				"//displaydoc",
				"type Pair struct{ a, b int }",
			),
			err: displaygen.ErrUnresolvedBinding,
		},
		"channel newtype": {
			src: stringtest.Source(
				"package p",
				"",
				"// events {0:p}",
				"//",
				"//displaydoc",
				"type Events chan int",
			),
			want:  []string{`return fmt.Sprintf("events %[1]p", (chan int)(v))`},
			types: []string{"Events"},
		},
		"pointer type is skipped": {
			src: stringtest.Source(
				"package p",
				"",
				"// ref",
				"//",
				"//displaydoc",
				"type Ref *int",
			),
		},
		"error directive": {
			src: stringtest.Source(
				"package p",
				"",
				"// bad input",
				"//",
				"//displaydoc:error",
				"type BadInput struct{}",
			),
			want: []string{
				"func (v BadInput) String() string {",
				"func (v BadInput) Error() string {",
				"return v.String()",
			},
			types: []string{"BadInput"},
		},
		"error option": {
			src: stringtest.Source(
				"package p",
				"",
				"// bad input",
				"//",
				"//displaydoc",
				"type BadInput struct{}",
			),
			opts:  []displaygen.Option{displaygen.WithErrors(true)},
			want:  []string{"func (v BadInput) Error() string {"},
			types: []string{"BadInput"},
		},
		"custom receiver": {
			src: stringtest.Source(
				"package p",
				"",
				"// id {id}",
				"//",
				"//displaydoc",
				"type Item struct{ id int }",
			),
			opts: []displaygen.Option{displaygen.WithReceiver("it")},
			want: []string{
				"func (it Item) String() string {",
				`return fmt.Sprintf("id %[1]v", it.id)`,
			},
			types: []string{"Item"},
		},
		"selected by name": {
			src: stringtest.Source(
				"package p",
				"",
				"// hello",
				"type Greeting struct{}",
				"",
				"// ignored",
				"type Other struct{}",
			),
			opts:    []displaygen.Option{displaygen.WithTypes("Greeting")},
			want:    []string{`return "hello"`},
			notWant: []string{"Other"},
			types:   []string{"Greeting"},
		},
		"existing String method is skipped": {
			src: stringtest.Source(
				"package p",
				"",
				"// has one",
				"//",
				"//displaydoc",
				"type Has struct{}",
				"",
				`func (Has) String() string { return "" }`,
				"",
				"// needs one",
				"//",
				"//displaydoc",
				"type Needs struct{}",
			),
			want:    []string{"func (v Needs) String() string {"},
			notWant: []string{"func (v Has)"},
			types:   []string{"Needs"},
		},
		"existing Error method keeps String": {
			src: stringtest.Source(
				"package p",
				"",
				"// oops",
				"//",
				"//displaydoc:error",
				"type Oops struct{}",
				"",
				`func (*Oops) Error() string { return "" }`,
			),
			want:    []string{"func (v Oops) String() string {"},
			notWant: []string{"func (v Oops) Error() string {"},
			types:   []string{"Oops"},
		},
		"interface is skipped": {
			src: stringtest.Source(
				"package p",
				"",
				"// shape",
				"//",
				"//displaydoc",
				"type Shape interface{ Area() float64 }",
			),
		},
		"directive without text": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc",
				"type Empty struct{}",
			),
		},
		"malformed doc directive": {
			src: stringtest.Source(
				"package p",
				"",
				"//displaydoc:doc",
				"type Weird struct{}",
			),
			err: attr.ErrMalformedDoc,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := writePackage(t, map[string]string{
				"a.go":      tc.src,
				"a_test.go": "package p_test\n\nbroken(",
			})

			out, err := displaygen.NewGenerator(tc.opts...).Generate(t.Context(), dir)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "p_displaydoc.go"), out.Path)
			assert.Equal(t, tc.types, out.Types)

			if tc.types == nil {
				assert.Nil(t, out.New)

				return
			}

			require.NotNil(t, out.New)

			_, err = parser.ParseFile(token.NewFileSet(), out.Path, out.New, parser.ParseComments)
			require.NoError(t, err, "generated source:\n%s", out.New)

			got := string(out.New)
			assert.True(t, strings.HasPrefix(got, displaygen.Header))

			for _, want := range tc.want {
				assert.Contains(t, got, want)
			}

			for _, notWant := range tc.notWant {
				assert.NotContains(t, got, notWant)
			}
		})
	}
}

func TestGenerateWrite(t *testing.T) {
	t.Parallel()

	src := stringtest.Source(
		"package p",
		"",
		"// hi",
		"//",
		"//displaydoc",
		"type Hi struct{}",
	)

	dir := writePackage(t, map[string]string{"hi.go": src})
	gen := displaygen.NewGenerator()

	out, err := gen.Generate(t.Context(), dir)
	require.NoError(t, err)
	assert.True(t, out.Changed())
	assert.Contains(t, out.Diff(), "+func (v Hi) String() string {")
	require.NoError(t, out.Write())

	// Regenerating ignores the generated file and reports no change.
	again, err := gen.Generate(t.Context(), dir)
	require.NoError(t, err)
	assert.False(t, again.Changed())
	assert.Empty(t, again.Diff())
	assert.Equal(t, out.New, again.Old)

	// Removing the directive removes the stale generated file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hi.go"),
		[]byte(stringtest.Source("package p", "", "type Hi struct{}")), 0o644))

	stale, err := gen.Generate(t.Context(), dir)
	require.NoError(t, err)
	assert.True(t, stale.Changed())
	require.NoError(t, stale.Write())
	assert.NoFileExists(t, out.Path)
}

func TestOutputDiff(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		out  displaygen.Output
		want string
	}{
		"new file": {
			out: displaygen.Output{Path: "p.go", New: []byte("a\nb\n")},
			want: stringtest.Source(
				"--- a/p.go",
				"+++ b/p.go",
				"@@ -0,0 +1,2 @@",
				"+a",
				"+b",
			),
		},
		"removed file": {
			out: displaygen.Output{Path: "p.go", Old: []byte("a\n")},
			want: stringtest.Source(
				"--- a/p.go",
				"+++ b/p.go",
				"@@ -1 +0,0 @@",
				"-a",
			),
		},
		"changed line": {
			out: displaygen.Output{Path: "p.go", Old: []byte("a\nb\n"), New: []byte("a\nc\n")},
			want: stringtest.Source(
				"--- a/p.go",
				"+++ b/p.go",
				"@@ -1,2 +1,2 @@",
				" a",
				"-b",
				"+c",
			),
		},
		"unchanged": {
			out: displaygen.Output{Path: "p.go", Old: []byte("a\n"), New: []byte("a\n")},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.out.Diff())
		})
	}
}

func TestGenerateKeepsForeignFile(t *testing.T) {
	t.Parallel()

	dir := writePackage(t, map[string]string{
		"p.go":            stringtest.Source("package p", "", "type T struct{}"),
		"p_displaydoc.go": stringtest.Source("package p", "", "// Hand written."),
	})

	out, err := displaygen.NewGenerator().Generate(t.Context(), dir)
	require.NoError(t, err)
	assert.False(t, out.Changed())
	require.NoError(t, out.Write())
	assert.FileExists(t, out.Path)
}

func TestGenerateRefusesForeignFile(t *testing.T) {
	t.Parallel()

	hand := stringtest.Source("package p", "", "// Hand written.")

	dir := writePackage(t, map[string]string{
		"p.go":            stringtest.Source("package p", "", "// x", "//", "//displaydoc", "type X struct{}"),
		"p_displaydoc.go": hand,
	})
	path := filepath.Join(dir, "p_displaydoc.go")

	_, err := displaygen.NewGenerator().Generate(t.Context(), dir)
	require.ErrorIs(t, err, displaygen.ErrForeignOutput)

	out := &displaygen.Output{
		Path: path,
		Old:  []byte(hand),
		New:  []byte(displaygen.Header + "\n\npackage p\n"),
	}
	assert.True(t, out.Changed())
	require.ErrorIs(t, out.Write(), displaygen.ErrForeignOutput)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, hand, string(got))
}

func TestGenerateOutputName(t *testing.T) {
	t.Parallel()

	dir := writePackage(t, map[string]string{
		"p.go": stringtest.Source("package p", "", "// x", "//", "//displaydoc", "type X struct{}"),
	})

	out, err := displaygen.NewGenerator(displaygen.WithOutput("zz_%s_string.go")).Generate(t.Context(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "zz_p_string.go"), out.Path)

	_, err = displaygen.NewGenerator(displaygen.WithOutput("out.txt")).Generate(t.Context(), dir)
	require.ErrorIs(t, err, displaygen.ErrInvalidOption)
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dir func(t *testing.T) string
		err error
	}{
		"missing directory": {
			dir: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing")
			},
			err: displaygen.ErrReadInput,
		},
		"syntax error": {
			dir: func(t *testing.T) string {
				t.Helper()

				return writePackage(t, map[string]string{"bad.go": "package p\n\ntype ("})
			},
			err: displaygen.ErrParse,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := displaygen.NewGenerator().Generate(t.Context(), tc.dir(t))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestGenerateAll(t *testing.T) {
	t.Parallel()

	var dirs []string

	for _, name := range []string{"a", "b", "c"} {
		dirs = append(dirs, writePackage(t, map[string]string{
			name + ".go": stringtest.Source(
				"package "+name,
				"",
				"// "+name,
				"//",
				"//displaydoc",
				"type T struct{}",
			),
		}))
	}

	outs, err := displaygen.NewGenerator(displaygen.WithJobs(2)).GenerateAll(t.Context(), dirs...)
	require.NoError(t, err)
	require.Len(t, outs, len(dirs))

	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, outs[i].Package)
		assert.Contains(t, string(outs[i].New), `return "`+name+`"`)
	}

	dirs = append(dirs, filepath.Join(t.TempDir(), "missing"))

	_, err = displaygen.NewGenerator().GenerateAll(t.Context(), dirs...)
	require.ErrorIs(t, err, displaygen.ErrReadInput)
}
