package compiler

import (
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// ExpressionChecker verifies that an expression is well typed for one
// target type. Checkers only read the symbol table.
type ExpressionChecker interface {
	Check(e ast.Expr) bool
}

// exprChecker holds what every checker variant needs
type exprChecker struct {
	ctx      *Context
	detector *TypeDetector
}

// identIs resolves an identifier and compares its type with want. Unknown
// identifiers are fatal.
func (c *exprChecker) identIs(n *ast.Ident, want symbols.SymbolType) bool {
	sym, ok := c.ctx.Symbols.Lookup(n.Name)
	if !ok {
		c.ctx.fatal(n.Tok, "Unknown identifier %s.", n.Name)
		return false
	}
	return sym.IsType(want)
}

func (c *exprChecker) callReturns(n *ast.Call, want symbols.SymbolType) bool {
	return c.detector.resolver.Resolve(n) == want
}

// checkerFor returns the checker for values of type t, or nil when t is not
// a value type.
func checkerFor(d *TypeDetector, t symbols.SymbolType) ExpressionChecker {
	base := exprChecker{ctx: d.ctx, detector: d}
	switch t {
	case symbols.Int:
		return &IntExpressionChecker{base}
	case symbols.String:
		return &StringExpressionChecker{base}
	case symbols.Bool:
		return &BoolExpressionChecker{base}
	}
	return nil
}

// ===== INT =====

// IntExpressionChecker accepts arithmetic over ints
type IntExpressionChecker struct {
	exprChecker
}

// NewIntExpressionChecker creates an int checker
func NewIntExpressionChecker(d *TypeDetector) *IntExpressionChecker {
	return &IntExpressionChecker{exprChecker{ctx: d.ctx, detector: d}}
}

// Check reports whether e is an int expression
func (c *IntExpressionChecker) Check(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.IntLit:
		return true
	case *ast.Unary:
		return n.Op == ast.Neg && c.Check(n.X)
	case *ast.Binary:
		if !n.Op.IsArithmetic() {
			return false
		}
		left := c.Check(n.X)
		right := c.Check(n.Y)
		return left && right
	case *ast.Paren:
		return c.Check(n.X)
	case *ast.Ident:
		return c.identIs(n, symbols.Int)
	case *ast.Call:
		return c.callReturns(n, symbols.Int)
	}
	return false
}

// ===== STRING =====

// StringExpressionChecker accepts string literals joined with +
type StringExpressionChecker struct {
	exprChecker
}

// NewStringExpressionChecker creates a string checker
func NewStringExpressionChecker(d *TypeDetector) *StringExpressionChecker {
	return &StringExpressionChecker{exprChecker{ctx: d.ctx, detector: d}}
}

// Check reports whether e is a string expression
func (c *StringExpressionChecker) Check(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.StringLit:
		return true
	case *ast.Binary:
		if n.Op != ast.Add {
			return false
		}
		left := c.Check(n.X)
		right := c.Check(n.Y)
		return left && right
	case *ast.Paren:
		return c.Check(n.X)
	case *ast.Ident:
		return c.identIs(n, symbols.String)
	case *ast.Call:
		return c.callReturns(n, symbols.String)
	}
	return false
}

// ===== BOOL =====

// BoolExpressionChecker accepts logical operations and comparisons
type BoolExpressionChecker struct {
	exprChecker
}

// NewBoolExpressionChecker creates a boolie checker
func NewBoolExpressionChecker(d *TypeDetector) *BoolExpressionChecker {
	return &BoolExpressionChecker{exprChecker{ctx: d.ctx, detector: d}}
}

// Check reports whether e is a boolie expression
func (c *BoolExpressionChecker) Check(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.BoolLit:
		return true
	case *ast.Unary:
		return n.Op == ast.Not && c.Check(n.X)
	case *ast.Binary:
		switch {
		case n.Op.IsLogical():
			left := c.Check(n.X)
			right := c.Check(n.Y)
			return left && right
		case n.Op.IsRelational(), n.Op.IsEquality():
			return c.checkComparison(n)
		}
		return false
	case *ast.Paren:
		return c.Check(n.X)
	case *ast.Ident:
		return c.identIs(n, symbols.Bool)
	case *ast.Call:
		return c.callReturns(n, symbols.Bool)
	}
	return false
}

// checkComparison requires both operands to be homogeneous, of one type,
// and of a type the operator accepts.
func (c *BoolExpressionChecker) checkComparison(n *ast.Binary) bool {
	lhsOK, lhs := c.detector.Detect(n.X)
	if !lhsOK {
		c.ctx.errorf(n.OpTok, "Expression on LHS has mixed types.")
		return false
	}
	rhsOK, rhs := c.detector.Detect(n.Y)
	if !rhsOK {
		c.ctx.errorf(n.OpTok, "Expression on RHS has mixed types.")
		return false
	}
	if lhs != rhs {
		c.ctx.errorf(n.OpTok, "Cannot compare %s on LHS with %s on RHS.", lhs, rhs)
		return false
	}

	var allowed bool
	switch {
	case n.Op.IsRelational():
		allowed = lhs.CanUseWithRelOp()
	case n.Op.IsEquality():
		allowed = lhs.CanUseWithCompOp()
	default:
		c.ctx.fatal(n.OpTok, "Internal error: '%s' is not a comparison operator.", n.Op)
		return false
	}
	if !allowed {
		c.ctx.errorf(n.OpTok, "The operator '%s' cannot be used with %s.", n.Op, lhs)
		return false
	}

	// the operands must also be well formed for their type
	operand := checkerFor(c.detector, lhs)
	if operand == nil {
		return false
	}
	left := operand.Check(n.X)
	right := operand.Check(n.Y)
	return left && right
}
