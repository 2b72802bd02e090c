package compiler

import (
	"errors"

	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// ErrDivisionByZero is reported when a divisor folds to zero
var ErrDivisionByZero = errors.New("division by zero in constant expression")

// constant is a folded value tagged with its type
type constant struct {
	typ symbols.SymbolType
	i   int32
	s   string
	b   bool
}

// fold reduces e to a constant. ok is false as soon as e touches an
// identifier or a call, or mixes operand types. Both sides of a binary
// operation are always folded so that errors anywhere in e are found.
func fold(e ast.Expr) (constant, bool, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return constant{typ: symbols.Int, i: n.Value}, true, nil
	case *ast.StringLit:
		return constant{typ: symbols.String, s: n.Value}, true, nil
	case *ast.BoolLit:
		return constant{typ: symbols.Bool, b: n.Value}, true, nil
	case *ast.Ident, *ast.Call:
		return constant{}, false, nil
	case *ast.Paren:
		return fold(n.X)
	case *ast.Unary:
		x, ok, err := fold(n.X)
		if !ok {
			return constant{}, false, err
		}
		switch {
		case n.Op == ast.Neg && x.typ == symbols.Int:
			return constant{typ: symbols.Int, i: -x.i}, true, nil
		case n.Op == ast.Not && x.typ == symbols.Bool:
			return constant{typ: symbols.Bool, b: !x.b}, true, nil
		}
		return constant{}, false, nil
	case *ast.Binary:
		return foldBinary(n)
	}
	return constant{}, false, nil
}

func foldBinary(n *ast.Binary) (constant, bool, error) {
	x, xok, xerr := fold(n.X)
	y, yok, yerr := fold(n.Y)
	if xerr != nil {
		return constant{}, false, xerr
	}
	if yerr != nil {
		return constant{}, false, yerr
	}
	if !xok || !yok || x.typ != y.typ {
		return constant{}, false, nil
	}

	switch {
	case n.Op.IsArithmetic():
		if x.typ == symbols.String && n.Op == ast.Add {
			return constant{typ: symbols.String, s: x.s + y.s}, true, nil
		}
		if x.typ != symbols.Int {
			return constant{}, false, nil
		}
		return foldArithmetic(n.Op, x.i, y.i)

	case n.Op.IsLogical():
		if x.typ != symbols.Bool {
			return constant{}, false, nil
		}
		var b bool
		switch n.Op {
		case ast.And:
			b = x.b && y.b
		case ast.Or:
			b = x.b || y.b
		case ast.Xor:
			b = (x.b || y.b) && !(x.b && y.b)
		}
		return constant{typ: symbols.Bool, b: b}, true, nil

	case n.Op.IsRelational():
		if x.typ != symbols.Int {
			return constant{}, false, nil
		}
		var b bool
		switch n.Op {
		case ast.Lt:
			b = x.i < y.i
		case ast.Le:
			b = x.i <= y.i
		case ast.Gt:
			b = x.i > y.i
		case ast.Ge:
			b = x.i >= y.i
		}
		return constant{typ: symbols.Bool, b: b}, true, nil

	case n.Op.IsEquality():
		var eq bool
		switch x.typ {
		case symbols.Int:
			eq = x.i == y.i
		case symbols.String:
			eq = x.s == y.s
		default:
			return constant{}, false, nil
		}
		if n.Op == ast.Ne {
			eq = !eq
		}
		return constant{typ: symbols.Bool, b: eq}, true, nil
	}
	return constant{}, false, nil
}

// foldArithmetic wraps on overflow like 32-bit two's complement
func foldArithmetic(op ast.BinaryOp, x, y int32) (constant, bool, error) {
	var v int32
	switch op {
	case ast.Add:
		v = x + y
	case ast.Sub:
		v = x - y
	case ast.Mul:
		v = x * y
	case ast.Div:
		if y == 0 {
			return constant{}, false, ErrDivisionByZero
		}
		v = x / y
	case ast.Mod:
		if y == 0 {
			return constant{}, false, ErrDivisionByZero
		}
		v = x % y
	}
	return constant{typ: symbols.Int, i: v}, true, nil
}

// evaluator memoizes one fold of an expression
type evaluator struct {
	expr  ast.Expr
	done  bool
	value constant
	ok    bool
	err   error
}

func (e *evaluator) run(want symbols.SymbolType) bool {
	if !e.done {
		e.value, e.ok, e.err = fold(e.expr)
		e.done = true
	}
	return e.ok && e.value.typ == want
}

// Err returns the error found while folding, if any
func (e *evaluator) Err() error {
	e.run(symbols.Unsupported)
	return e.err
}

// IntEvaluator folds int expressions
type IntEvaluator struct {
	evaluator
}

// NewIntEvaluator creates an evaluator for e
func NewIntEvaluator(e ast.Expr) *IntEvaluator {
	return &IntEvaluator{evaluator{expr: e}}
}

// CheckStaticEvaluable reports whether the expression folds to an int
func (e *IntEvaluator) CheckStaticEvaluable() bool {
	return e.run(symbols.Int)
}

// Evaluate returns the folded value, or the int default
func (e *IntEvaluator) Evaluate() int32 {
	if !e.CheckStaticEvaluable() {
		return symbols.DefaultInt
	}
	return e.value.i
}

// StringEvaluator folds string expressions
type StringEvaluator struct {
	evaluator
}

// NewStringEvaluator creates an evaluator for e
func NewStringEvaluator(e ast.Expr) *StringEvaluator {
	return &StringEvaluator{evaluator{expr: e}}
}

// CheckStaticEvaluable reports whether the expression folds to a string
func (e *StringEvaluator) CheckStaticEvaluable() bool {
	return e.run(symbols.String)
}

// Evaluate returns the folded value, or the string default
func (e *StringEvaluator) Evaluate() string {
	if !e.CheckStaticEvaluable() {
		return symbols.DefaultString
	}
	return e.value.s
}

// BoolEvaluator folds boolie expressions
type BoolEvaluator struct {
	evaluator
}

// NewBoolEvaluator creates an evaluator for e
func NewBoolEvaluator(e ast.Expr) *BoolEvaluator {
	return &BoolEvaluator{evaluator{expr: e}}
}

// CheckStaticEvaluable reports whether the expression folds to a boolie
func (e *BoolEvaluator) CheckStaticEvaluable() bool {
	return e.run(symbols.Bool)
}

// Evaluate returns the folded value, or the boolie default
func (e *BoolEvaluator) Evaluate() bool {
	if !e.CheckStaticEvaluable() {
		return symbols.DefaultBool
	}
	return e.value.b
}
