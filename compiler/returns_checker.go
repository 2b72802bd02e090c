package compiler

import (
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// ReturnsChecker validates every return statement of a function body
// against the declared return type. It reports errors, not fatals, so that
// all bad returns of one function are listed.
type ReturnsChecker struct {
	ctx      *Context
	detector *TypeDetector
}

// NewReturnsChecker creates a checker over ctx's symbol table
func NewReturnsChecker(ctx *Context, detector *TypeDetector) *ReturnsChecker {
	return &ReturnsChecker{ctx: ctx, detector: detector}
}

// Check reports whether every return in fn is valid and a non-void fn
// returns at all.
func (rc *ReturnsChecker) Check(fn *ast.FuncDef, ret symbols.SymbolType) bool {
	ok := true
	found := false

	walkScoped(rc.ctx, fn.Body, func(s ast.Stmt) {
		r, isReturn := s.(*ast.Return)
		if !isReturn {
			return
		}
		found = true
		if !rc.checkReturn(r, ret) {
			ok = false
		}
	})

	if ret != symbols.Void && !found {
		rc.ctx.errorf(fn.NameTok, "Function must return a value of type %s.", ret)
		return false
	}
	return ok
}

func (rc *ReturnsChecker) checkReturn(r *ast.Return, ret symbols.SymbolType) bool {
	if r.Value == nil {
		if ret != symbols.Void {
			rc.ctx.errorf(r.Tok, "Expected a return value of type %s, found none.", ret)
			return false
		}
		return true
	}

	if ret == symbols.Void {
		rc.ctx.errorf(r.Tok, "Cannot return a value from a function returning void.")
		return false
	}

	homogeneous, t := rc.detector.Detect(r.Value)
	if !homogeneous {
		rc.ctx.errorf(r.Tok, "Mismatched types in expression in return statement.")
		return false
	}
	if t != ret {
		rc.ctx.errorf(r.Tok, "Expected a return value of type %s, found %s.", ret, t)
		return false
	}

	if checker := checkerFor(rc.detector, ret); checker == nil || !checker.Check(r.Value) {
		rc.ctx.errorf(r.Tok, "Invalid %s expression in return statement.", ret)
		return false
	}
	return rc.ctx.checkConstant(r.Value)
}

// walkScoped visits every statement below blk in source order, entering the
// scope the checker recorded for each block on the way. Nested function
// definitions are visited but not descended into.
func walkScoped(ctx *Context, blk *ast.Block, visit func(ast.Stmt)) {
	if ctx.Symbols.GoToBlock(blockPosition(blk)) {
		defer ctx.Symbols.RestoreLastCoordinates()
	}
	for _, s := range blk.Stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.Block:
				visit(n)
				walkScoped(ctx, n, visit)
				return false
			case *ast.FuncDef:
				visit(n)
				return false
			case ast.Stmt:
				visit(n)
				return true
			}
			// expressions hold no statements
			return false
		})
	}
}
