package displaygen

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.jacobcolvin.com/displaydoc/attr"
)

// Shape distinguishes how a declaration's display is built.
type Shape int

const (
	// ShapeStruct types print their own doc; bindings name fields.
	ShapeStruct Shape = iota
	// ShapeEnum types print the doc of the matching constant.
	ShapeEnum
	// ShapeNewtype types print their own doc; {0} is the underlying value.
	ShapeNewtype
)

// Package is the result of parsing one directory.
type Package struct {
	Name  string
	Dir   string
	Decls []*Decl
}

// Decl is a named type selected for generation.
type Decl struct {
	// Methods already declared on the type outside the generated file.
	Methods    map[string]bool
	Name       string
	Underlying string
	TypeParams []string
	Fields     []string
	Entries    []attr.Entry
	Variants   []Variant
	Pos        token.Position
	Shape      Shape
}

// Variant is a constant of an enum [Decl].
type Variant struct {
	Name    string
	Entries []attr.Entry
	Pos     token.Position
}

// receiverType returns the type as written in a method receiver.
func (d *Decl) receiverType() string {
	if len(d.TypeParams) == 0 {
		return d.Name
	}

	return d.Name + "[" + strings.Join(d.TypeParams, ", ") + "]"
}

// parseDir parses the non-test Go files of dir, skipping the generated file
// named by the output pattern, and returns the selected declarations in
// source order.
func parseDir(dir, output string, include []string) (*Package, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	fset := token.NewFileSet()
	pkg := &Package{Dir: dir}

	var files []*ast.File

	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)

		src, err := os.ReadFile(path) //nolint:gosec // Paths come from the user's package directory.
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		if name == outputName(output, f.Name.Name) {
			continue
		}

		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		}

		if f.Name.Name != pkg.Name {
			slog.Warn("skipping file from another package",
				slog.String("file", path),
				slog.String("package", f.Name.Name),
			)

			continue
		}

		files = append(files, f)
	}

	if len(files) == 0 {
		return pkg, nil
	}

	p := &fileParser{
		fset:      fset,
		include:   include,
		byName:    make(map[string]*Decl),
		methods:   make(map[string]map[string]bool),
		typeNames: make(map[string]struct{}),
		consts:    make(map[string]constant.Value),
		cases:     make(map[*Decl]map[string]string),
	}

	for _, f := range files {
		p.collectTypes(f)
	}

	for _, f := range files {
		p.collectRest(f)
	}

	for _, d := range p.decls {
		d.Methods = p.methods[d.Name]
		if d.Shape == ShapeNewtype && len(d.Variants) > 0 {
			d.Shape = ShapeEnum
		}
	}

	pkg.Decls = p.decls

	return pkg, nil
}

type fileParser struct {
	fset      *token.FileSet
	byName    map[string]*Decl
	methods   map[string]map[string]bool
	typeNames map[string]struct{}
	// consts holds the values of package constants seen so far.
	consts map[string]constant.Value
	// cases maps each enum's constant values to the first constant with
	// that value.
	cases   map[*Decl]map[string]string
	include []string
	decls   []*Decl
}

// specDoc returns the doc comment of spec, falling back to the declaration's
// doc for unparenthesised single-spec declarations.
func specDoc(gd *ast.GenDecl, specDoc *ast.CommentGroup) *ast.CommentGroup {
	if specDoc != nil {
		return specDoc
	}

	if !gd.Lparen.IsValid() {
		return gd.Doc
	}

	return nil
}

func (p *fileParser) collectTypes(f *ast.File) {
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			p.typeNames[ts.Name.Name] = struct{}{}

			if ts.Assign.IsValid() {
				continue
			}

			entries, selected := commentEntries(p.fset, specDoc(gd, ts.Doc))
			if !selected && !slices.Contains(p.include, ts.Name.Name) {
				continue
			}

			decl := &Decl{
				Name:    ts.Name.Name,
				Entries: entries,
				Pos:     p.fset.Position(ts.Name.Pos()),
			}

			if ts.TypeParams != nil {
				for _, field := range ts.TypeParams.List {
					for _, n := range field.Names {
						decl.TypeParams = append(decl.TypeParams, n.Name)
					}
				}
			}

			switch t := ts.Type.(type) {
			case *ast.StructType:
				decl.Shape = ShapeStruct
				decl.Fields = structFields(t)

			case *ast.InterfaceType, *ast.StarExpr:
				slog.Warn("skipping type that cannot have methods",
					slog.String("type", ts.Name.Name),
					slog.String("pos", decl.Pos.String()),
				)

				continue

			default:
				decl.Shape = ShapeNewtype
				decl.Underlying = types.ExprString(ts.Type)
			}

			p.byName[decl.Name] = decl
			p.decls = append(p.decls, decl)
		}
	}
}

func (p *fileParser) collectRest(f *ast.File) {
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			p.collectMethod(d)
		case *ast.GenDecl:
			if d.Tok == token.CONST {
				p.collectConsts(d)
			}
		}
	}
}

func (p *fileParser) collectMethod(fd *ast.FuncDecl) {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return
	}

	name := baseTypeName(fd.Recv.List[0].Type)
	if name == "" {
		return
	}

	if p.methods[name] == nil {
		p.methods[name] = make(map[string]bool)
	}

	p.methods[name][fd.Name.Name] = true
}

// collectConsts assigns constants to enum declarations. A spec without a
// type or value repeats the previous spec's type and values, as with iota.
// A constant whose value equals an earlier constant of the same enum is
// skipped, since both cannot be cases of one switch.
func (p *fileParser) collectConsts(gd *ast.GenDecl) {
	var (
		typeName string
		values   []ast.Expr
	)

	for index, spec := range gd.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		switch {
		case vs.Type != nil:
			typeName = baseTypeName(vs.Type)
		case len(vs.Values) > 0:
			typeName = conversionType(vs.Values[0])
		}

		if len(vs.Values) > 0 {
			values = vs.Values
		}

		decl := p.byName[typeName]
		if decl != nil && decl.Shape == ShapeStruct {
			decl = nil
		}

		var entries []attr.Entry
		if decl != nil {
			entries, _ = commentEntries(p.fset, specDoc(gd, vs.Doc))
		}

		for i, n := range vs.Names {
			if n.Name == "_" {
				continue
			}

			var val constant.Value
			if i < len(values) {
				val = p.constValue(values[i], index)
			}

			if val != nil {
				p.consts[n.Name] = val
			}

			if decl == nil || p.duplicateCase(decl, n, val) {
				continue
			}

			decl.Variants = append(decl.Variants, Variant{
				Name:    n.Name,
				Entries: entries,
				Pos:     p.fset.Position(n.Pos()),
			})
		}
	}
}

// duplicateCase records the value of constant n of decl and reports whether
// an earlier constant already has it.
func (p *fileParser) duplicateCase(decl *Decl, n *ast.Ident, val constant.Value) bool {
	if val == nil {
		return false
	}

	seen := p.cases[decl]
	if seen == nil {
		seen = make(map[string]string)
		p.cases[decl] = seen
	}

	key := constKey(val)

	first, ok := seen[key]
	if !ok {
		seen[key] = n.Name

		return false
	}

	slog.Warn("skipping constant with duplicate value",
		slog.String("type", decl.Name),
		slog.String("const", n.Name),
		slog.String("duplicates", first),
		slog.String("pos", p.fset.Position(n.Pos()).String()),
	)

	return true
}

// structFields lists field names in declaration order. Embedded fields are
// named after their type.
func structFields(st *ast.StructType) []string {
	var fields []string

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			fields = append(fields, baseTypeName(field.Type))

			continue
		}

		for _, n := range field.Names {
			fields = append(fields, n.Name)
		}
	}

	return fields
}

// baseTypeName strips pointers, package qualifiers, and type arguments.
func baseTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return baseTypeName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return baseTypeName(t.X)
	case *ast.IndexListExpr:
		return baseTypeName(t.X)
	case *ast.ParenExpr:
		return baseTypeName(t.X)
	}

	return ""
}

// conversionType returns T for a value written as T(x), or "".
func conversionType(expr ast.Expr) string {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return ""
	}

	if id, ok := call.Fun.(*ast.Ident); ok {
		return id.Name
	}

	return ""
}
