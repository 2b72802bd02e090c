package compiler

import (
	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// expectType runs the checker for typ over e. On failure it reports what the
// detector found instead.
func (v *StaticTypeChecker) expectType(typ symbols.SymbolType, e ast.Expr, tok antlr.Token) bool {
	checker := checkerFor(v.detector, typ)
	if checker == nil {
		v.ctx.fatal(tok, "Internal error: no checker for type %s.", typ)
		return false
	}
	if checker.Check(e) {
		return true
	}

	homogeneous, found := v.detector.Detect(e)
	if homogeneous && found == typ {
		// right leaves, wrong operators
		v.ctx.fatal(tok, "Invalid %s expression on RHS.", typ)
		return false
	}
	v.ctx.fatal(tok, "Expected %s expression on RHS, found %s.", typ, describeDetected(homogeneous, found))
	return false
}

// foldInto stores the folded value of e in sym when e is a constant
func (v *StaticTypeChecker) foldInto(sym symbols.Symbol, e ast.Expr) {
	switch s := sym.(type) {
	case *symbols.IntSymbol:
		ev := NewIntEvaluator(e)
		if v.ctx.reportFoldError(ev.Err(), e) {
			return
		}
		s.Value = ev.Evaluate()
		s.InitialValueCalculated = ev.CheckStaticEvaluable()
	case *symbols.StringSymbol:
		ev := NewStringEvaluator(e)
		if v.ctx.reportFoldError(ev.Err(), e) {
			return
		}
		s.Value = ev.Evaluate()
		s.InitialValueCalculated = ev.CheckStaticEvaluable()
	case *symbols.BoolSymbol:
		ev := NewBoolEvaluator(e)
		if v.ctx.reportFoldError(ev.Err(), e) {
			return
		}
		s.Value = ev.Evaluate()
		s.InitialValueCalculated = ev.CheckStaticEvaluable()
	}
}

// infoOf returns the shared attributes of a variable symbol
func infoOf(sym symbols.Symbol) *symbols.Info {
	switch s := sym.(type) {
	case *symbols.IntSymbol:
		return &s.Info
	case *symbols.StringSymbol:
		return &s.Info
	case *symbols.BoolSymbol:
		return &s.Info
	case *symbols.FunctionSymbol:
		return &s.Info
	}
	return &symbols.Info{}
}
