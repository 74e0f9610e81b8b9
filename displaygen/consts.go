package displaygen

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
)

// maxShift is the largest shift count evaluated.
const maxShift = 1024

// constValue evaluates a constant expression built from literals, iota,
// constants declared earlier in the package, and conversions. index is the
// value of iota. It returns nil when the value cannot be determined from the
// syntax alone.
func (p *fileParser) constValue(expr ast.Expr, index int) constant.Value {
	switch e := expr.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(e.Value, e.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil
		}

		return v

	case *ast.Ident:
		if e.Name == "iota" {
			return constant.MakeInt64(int64(index))
		}

		return p.consts[e.Name]

	case *ast.ParenExpr:
		return p.constValue(e.X, index)

	case *ast.CallExpr:
		if !p.isConversion(e) {
			return nil
		}

		return p.constValue(e.Args[0], index)

	case *ast.UnaryExpr:
		x := p.constValue(e.X, index)
		if x == nil {
			return nil
		}

		switch {
		case e.Op == token.ADD, e.Op == token.SUB:
			if !isNumeric(x) {
				return nil
			}
		case e.Op == token.XOR:
			if x.Kind() != constant.Int {
				return nil
			}
		default:
			return nil
		}

		return constant.UnaryOp(e.Op, x, 0)

	case *ast.BinaryExpr:
		x := p.constValue(e.X, index)
		y := p.constValue(e.Y, index)

		if x == nil || y == nil {
			return nil
		}

		return binaryOp(x, e.Op, y)
	}

	return nil
}

func binaryOp(x constant.Value, op token.Token, y constant.Value) constant.Value {
	ints := x.Kind() == constant.Int && y.Kind() == constant.Int

	switch op {
	case token.ADD:
		if x.Kind() == constant.String && y.Kind() == constant.String {
			return constant.BinaryOp(x, op, y)
		}

		fallthrough

	case token.SUB, token.MUL:
		if !isNumeric(x) || !isNumeric(y) {
			return nil
		}

	case token.QUO:
		if !isNumeric(x) || !isNumeric(y) || constant.Sign(y) == 0 {
			return nil
		}

		if ints {
			op = token.QUO_ASSIGN
		}

	case token.REM:
		if !ints || constant.Sign(y) == 0 {
			return nil
		}

	case token.AND, token.OR, token.XOR, token.AND_NOT:
		if !ints {
			return nil
		}

	case token.SHL, token.SHR:
		s, ok := constant.Uint64Val(y)
		if !ints || !ok || s > maxShift {
			return nil
		}

		return constant.Shift(x, op, uint(s))

	default:
		return nil
	}

	return constant.BinaryOp(x, op, y)
}

// isConversion reports whether call converts its single argument to a type
// of this package or a predeclared type.
func (p *fileParser) isConversion(call *ast.CallExpr) bool {
	name := conversionType(call)
	if name == "" {
		return false
	}

	if _, ok := p.typeNames[name]; ok {
		return true
	}

	_, ok := types.Universe.Lookup(name).(*types.TypeName)

	return ok
}

func isNumeric(v constant.Value) bool {
	return v.Kind() == constant.Int || v.Kind() == constant.Float
}

// constKey returns a comparable form of v. Integral floats compare equal to
// the matching integer.
func constKey(v constant.Value) string {
	if v.Kind() == constant.Float {
		if i := constant.ToInt(v); i.Kind() == constant.Int {
			v = i
		}
	}

	return v.ExactString()
}
