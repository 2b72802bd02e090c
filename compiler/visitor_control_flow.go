package compiler

import (
	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// ============================================================================
// IF / WHILE
// ============================================================================

func (v *StaticTypeChecker) visitIf(s *ast.If) {
	for _, arm := range s.Arms {
		v.checkCondition(arm.Cond, arm.IfTok, "if")
		v.visitBlock(arm.Body, symbols.NewRecord)
	}
	if s.Else != nil {
		v.visitBlock(s.Else, symbols.NewRecord)
	}
}

func (v *StaticTypeChecker) visitWhile(s *ast.While) {
	v.checkCondition(s.Cond, s.WhileTok, "while")

	v.loopDepth++
	defer func() { v.loopDepth-- }()
	v.visitBlock(s.Body, symbols.NewRecord)
}

func (v *StaticTypeChecker) checkCondition(cond ast.Expr, tok antlr.Token, keyword string) {
	if !NewBoolExpressionChecker(v.detector).Check(cond) {
		v.ctx.fatal(tok, "Invalid boolean expression in condition for %s statement.", keyword)
		return
	}
	v.ctx.checkConstant(cond)
}

// ============================================================================
// UNCERTAIN STATEMENTS
// ============================================================================

func (v *StaticTypeChecker) visitUncertain(u *ast.Uncertain) {
	if u.Compound() {
		v.checkProbability(u.Probability, u.Tok, "uncertainty", "Uncertainty")
	} else {
		v.checkProbability(u.Probability, u.Tok, "probability", "Probability")
	}

	if u.Otherwise == nil {
		if declaresOrReturns(u.Body) {
			v.ctx.fatal(u.Tok, "Variable declarations and return statements cannot be probable as of now.")
		}
	} else {
		if declaresOrReturns(u.Body) {
			v.ctx.fatal(u.Tok, "Infeasible probable statement: variable declarations and return statements cannot be probable as of now.")
		}
		if declaresOrReturns(u.Otherwise) {
			v.ctx.fatal(u.OtherwiseTok, "Infeasible alternate statement: variable declarations and return statements cannot be alternates as of now.")
		}
		if v.uncertainDepth > 0 {
			v.ctx.warnf(u.Tok, "Nested probable statements with alternates is an untested feature.")
		}
	}

	v.uncertainDepth++
	defer func() { v.uncertainDepth-- }()

	v.visitStmt(u.Body)
	if u.Otherwise != nil {
		v.visitStmt(u.Otherwise)
	}
}

func (v *StaticTypeChecker) checkProbability(e ast.Expr, tok antlr.Token, word, title string) {
	homogeneous, typ := v.detector.Detect(e)
	if !homogeneous {
		v.ctx.fatal(tok, "Expression has mixed types. Expected an int expression for %s.", word)
		return
	}
	if typ != symbols.Int || !NewIntExpressionChecker(v.detector).Check(e) {
		v.ctx.fatal(tok, "%s must be provided as an expression that evaluates to int.", title)
		return
	}
	v.ctx.checkConstant(e)
}

func declaresOrReturns(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.VarDecl, *ast.Return:
		return true
	}
	return false
}
