package compiler

import (
	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// ============================================================================
// VARIABLE DECLARATIONS
// ============================================================================

func (v *StaticTypeChecker) visitVarDecl(d *ast.VarDecl) {
	if d.Inferred {
		v.visitInferredDecl(d)
		return
	}

	typ, ok := symbols.ParseTypeName(d.TypeName)
	if !ok {
		v.ctx.fatal(d.TypeTok, "Unknown type %s.", d.TypeName)
		return
	}
	if typ == symbols.Void {
		v.ctx.fatal(d.TypeTok, "Void types for variable declarations are not allowed.")
		return
	}
	if !v.checkDeclarable(d.NameTok, d.Name) {
		return
	}

	sym := symbols.NewVariable(typ, d.Name, d.NameTok.GetLine())
	info := infoOf(sym)

	if d.Init == nil {
		// the default value is the initial value
		info.InitialValueCalculated = true
	} else {
		info.InitializerPresent = true
		if v.expectType(typ, d.Init, d.NameTok) {
			v.foldInto(sym, d.Init)
		}
	}

	v.ctx.Symbols.Insert(d.Name, sym)
	v.ctx.Logger.Debug("declared %s %s at %s", typ, d.Name, sym.Coordinates())
}

func (v *StaticTypeChecker) visitInferredDecl(d *ast.VarDecl) {
	homogeneous, typ := v.detector.Detect(d.Init)
	if !homogeneous {
		v.ctx.fatal(d.NameTok, "Mismatched types in expression on RHS of type-inferred declaration.")
		return
	}
	if checkerFor(v.detector, typ) == nil {
		v.ctx.fatal(d.NameTok, "Cannot infer the type of %s from an expression of type %s.", d.Name, typ)
		return
	}
	if !v.checkDeclarable(d.NameTok, d.Name) {
		return
	}

	sym := symbols.NewVariable(typ, d.Name, d.NameTok.GetLine())
	info := infoOf(sym)
	info.Inferred = true
	info.InitializerPresent = true

	if v.expectType(typ, d.Init, d.NameTok) {
		v.foldInto(sym, d.Init)
	}

	v.ctx.Symbols.Insert(d.Name, sym)
	v.ctx.Logger.Debug("declared %s %s (inferred) at %s", typ, d.Name, sym.Coordinates())
}

// checkDeclarable rejects names bound anywhere up the scope chain and names
// of builtins.
func (v *StaticTypeChecker) checkDeclarable(tok antlr.Token, name string) bool {
	if v.ctx.Symbols.IsBuiltin(name) {
		v.ctx.fatal(tok, "Identifier %s is a builtin function, so it cannot be redefined.", name)
		return false
	}
	if prev, ok := v.ctx.Symbols.Lookup(name); ok {
		v.ctx.fatal(tok, "Identifier %s was declared before on line %d.", name, prev.FirstAppearedLine())
		return false
	}
	return true
}

// ============================================================================
// ASSIGNMENTS
// ============================================================================

func (v *StaticTypeChecker) visitAssign(a *ast.Assign) {
	if v.ctx.Symbols.IsBuiltin(a.Name) {
		v.ctx.fatal(a.NameTok, "Identifier %s is a builtin function, so it cannot be assigned to.", a.Name)
		return
	}

	sym, ok := v.ctx.Symbols.Lookup(a.Name)
	if !ok {
		v.ctx.fatal(a.NameTok, "Assignment to previously undeclared symbol.")
		return
	}
	if sym.IsType(symbols.Function) {
		v.ctx.fatal(a.NameTok, "Cannot assign to an identifier of type function.")
		return
	}

	if v.expectType(sym.Type(), a.Value, a.NameTok) {
		v.ctx.checkConstant(a.Value)
	}
}

// ============================================================================
// FUNCTION DEFINITIONS
// ============================================================================

func (v *StaticTypeChecker) visitFuncDef(f *ast.FuncDef) {
	if v.currentFunction != nil {
		v.ctx.fatal(f.FnTok, "Functions within functions are not yet supported.")
		return
	}
	if v.ctx.Symbols.IsBuiltin(f.Name) {
		v.ctx.fatal(f.NameTok, "%s is a built-in function and cannot be redefined.", f.Name)
		return
	}
	if prev, ok := v.ctx.Symbols.Lookup(f.Name); ok {
		v.ctx.fatal(f.NameTok, "Identifier %s was declared before on line %d.", f.Name, prev.FirstAppearedLine())
		return
	}

	// Get return type
	ret := symbols.Void
	if f.ReturnType != "" {
		t, ok := symbols.ParseTypeName(f.ReturnType)
		if !ok || !t.IsValidReturnType() {
			v.ctx.fatal(f.ReturnTok, "Invalid return type %s for function %s.", f.ReturnType, f.Name)
			return
		}
		ret = t
	}

	v.ctx.Logger.Debug("Checking function '%s'", f.Name)

	// Parameters get their own record; the body resumes it below
	v.ctx.Symbols.IncrementScope(symbols.NewRecord)
	params, ok := v.declareParams(f)
	v.ctx.Symbols.DecrementScope()
	if !ok {
		return
	}

	fn, err := symbols.NewFunctionSymbol(f.Name, f.NameTok.GetLine(), params, ret)
	if err != nil {
		v.ctx.fatal(f.NameTok, "Internal error: %v.", err)
		return
	}
	// inserted before the body so that the function can call itself
	v.ctx.Symbols.Insert(f.Name, fn)

	v.visitFunctionBody(f, fn)

	returnsOK := v.returns.Check(f, ret)
	if !returnsOK {
		v.ctx.fatal(f.NameTok, "Function body contains errors. (There may be additional information above.)")
	}
	pathsOK := v.paths.CheckAllControlPathsForReturns(f.Body, ret)
	if !pathsOK {
		v.ctx.fatal(f.NameTok, "Not all possible execution paths in the function return a value of type %s.", ret)
	}

	if returnsOK && pathsOK {
		v.functions = append(v.functions, fn)
	}
}

func (v *StaticTypeChecker) visitFunctionBody(f *ast.FuncDef, fn *symbols.FunctionSymbol) {
	savedLoopDepth := v.loopDepth
	v.currentFunction = fn
	v.loopDepth = 0
	defer func() {
		v.currentFunction = nil
		v.loopDepth = savedLoopDepth
	}()

	v.visitBlock(f.Body, symbols.ResumeLast)
}

func (v *StaticTypeChecker) declareParams(f *ast.FuncDef) ([]symbols.Symbol, bool) {
	params := make([]symbols.Symbol, 0, len(f.Params))
	ok := true

	for _, p := range f.Params {
		t, known := symbols.ParseTypeName(p.TypeName)
		if !known || t == symbols.Void {
			v.ctx.fatal(p.TypeTok, "Parameter %s of function %s cannot be of type %s.", p.Name, f.Name, p.TypeName)
			ok = false
			continue
		}
		if !v.checkDeclarable(p.NameTok, p.Name) {
			ok = false
			continue
		}

		sym := symbols.NewVariable(t, p.Name, p.NameTok.GetLine())
		v.ctx.Symbols.Insert(p.Name, sym)
		params = append(params, sym)
	}
	return params, ok
}
