package compiler

import (
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// StaticTypeChecker walks a program once, declaring symbols as it goes and
// handing expressions to the detector, the checkers and the evaluators.
type StaticTypeChecker struct {
	ctx      *Context
	detector *TypeDetector
	resolver *FunctionCallResolver
	returns  *ReturnsChecker
	paths    *ReturnCompletenessAnalyzer

	currentFunction *symbols.FunctionSymbol
	loopDepth       int
	uncertainDepth  int
	functions       []*symbols.FunctionSymbol
}

// NewStaticTypeChecker creates a checker working on ctx
func NewStaticTypeChecker(ctx *Context) *StaticTypeChecker {
	detector := NewTypeDetector(ctx)
	return &StaticTypeChecker{
		ctx:      ctx,
		detector: detector,
		resolver: detector.resolver,
		returns:  NewReturnsChecker(ctx, detector),
		paths:    NewReturnCompletenessAnalyzer(ctx, detector),
	}
}

// Check runs the pass over prog. The returned error is a
// *diagnostics.Error when anything failed.
func (v *StaticTypeChecker) Check(prog *ast.Program) error {
	stopped := v.ctx.Diagnostics.Guard(func() {
		for _, stmt := range prog.Stmts {
			v.visitStmt(stmt)
		}
	})
	if stopped {
		v.ctx.Logger.Debug("check of %s stopped at the first fatal error", v.ctx.File)
	}
	return v.ctx.Diagnostics.Err()
}

// Functions returns the function definitions that passed, in source order
func (v *StaticTypeChecker) Functions() []*symbols.FunctionSymbol {
	return v.functions
}

// ============================================================================
// DISPATCH
// ============================================================================

func (v *StaticTypeChecker) visitStmt(stmt ast.Stmt) {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		v.visitVarDecl(n)
	case *ast.Assign:
		v.visitAssign(n)
	case *ast.ExprStmt:
		v.visitExprStmt(n)
	case *ast.FuncDef:
		v.visitFuncDef(n)
	case *ast.Block:
		v.visitBlock(n, symbols.NewRecord)
	case *ast.If:
		v.visitIf(n)
	case *ast.While:
		v.visitWhile(n)
	case *ast.Break:
		v.visitBreak(n)
	case *ast.Continue:
		v.visitContinue(n)
	case *ast.Return:
		v.visitReturn(n)
	case *ast.Needs:
		v.visitNeeds(n)
	case *ast.Uncertain:
		v.visitUncertain(n)
	case *ast.BadStmt:
		v.visitBadStmt(n)
	default:
		v.ctx.fatal(stmt.Start(), "Internal error: unexpected statement %T.", stmt)
	}
}

// visitBlock opens a record for b, checks its statements and registers the
// record under b's position for the analyzers.
func (v *StaticTypeChecker) visitBlock(b *ast.Block, mode symbols.EntryMode) {
	v.ctx.Symbols.IncrementScope(mode)
	defer v.ctx.Symbols.DecrementScope()

	for _, stmt := range b.Stmts {
		v.visitStmt(stmt)
	}

	v.ctx.Symbols.RegisterBlockAtCurrentCoordinates(blockPosition(b))
}
