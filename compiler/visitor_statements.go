package compiler

import (
	"github.com/arc-language/samo-checker/ast"
)

// ============================================================================
// SIMPLE STATEMENTS
// ============================================================================

func (v *StaticTypeChecker) visitExprStmt(s *ast.ExprStmt) {
	// void calls are fine as statements
	v.resolver.Resolve(s.Call)
}

func (v *StaticTypeChecker) visitReturn(r *ast.Return) {
	if v.currentFunction == nil {
		v.ctx.fatal(r.Tok, "Return statement outside of a function.")
		return
	}
	// the value is matched against the return type once the body is done;
	// here only its names and calls have to resolve
	if r.Value != nil {
		v.detector.Detect(r.Value)
	}
}

func (v *StaticTypeChecker) visitBreak(b *ast.Break) {
	if v.loopDepth == 0 {
		v.ctx.fatal(b.Tok, "Breakout statement must be within a loop.")
	}
}

func (v *StaticTypeChecker) visitContinue(c *ast.Continue) {
	if v.loopDepth == 0 {
		v.ctx.fatal(c.Tok, "Continue statement must be within a loop.")
	}
}

func (v *StaticTypeChecker) visitNeeds(n *ast.Needs) {
	v.ctx.warnf(n.Tok, "Needs statement is not yet supported.")
}

func (v *StaticTypeChecker) visitBadStmt(s *ast.BadStmt) {
	pos := ast.PosOf(s.Tok)
	v.ctx.fatal(s.Tok, "Syntax error at '%d:%d': %s", pos.Line, pos.Column, s.Msg)
}
