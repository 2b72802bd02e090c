package compiler

import (
	"fmt"
	"strings"

	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// FunctionCallResolver checks a call against the function it names and
// returns the call's type.
type FunctionCallResolver struct {
	ctx      *Context
	detector *TypeDetector
}

// Resolve returns the return type of call. User functions shadow builtins.
// Unsupported is returned after a fatal diagnostic.
func (r *FunctionCallResolver) Resolve(call *ast.Call) symbols.SymbolType {
	if sym, ok := r.ctx.Symbols.Lookup(call.Name); ok {
		fn, isFunc := sym.(*symbols.FunctionSymbol)
		if !isFunc {
			r.ctx.fatal(call.NameTok, "Cannot call %s as a function: it is of type %s.", call.Name, sym.Type())
			return symbols.Unsupported
		}
		return r.resolveUser(call, fn)
	}

	if r.ctx.Symbols.IsBuiltin(call.Name) {
		return r.resolveBuiltin(call)
	}

	r.ctx.fatal(call.NameTok, "Unknown function %s.", call.Name)
	return symbols.Unsupported
}

func (r *FunctionCallResolver) resolveUser(call *ast.Call, fn *symbols.FunctionSymbol) symbols.SymbolType {
	if len(call.Args) != len(fn.Params) {
		r.ctx.fatal(call.NameTok, "Expected %d arguments for call to %s but %d arguments were provided.",
			len(fn.Params), call.Name, len(call.Args))
		return fn.ReturnType
	}

	args := newArgumentLists(call)
	for i, param := range fn.Params {
		want := param.Type()
		arg := args.next(want)
		checker := checkerFor(r.detector, want)
		if checker == nil || !checker.Check(arg) {
			r.ctx.fatal(arg.Start(), "Type mismatch in argument %d of call to %s: expected %s.", i+1, call.Name, want)
			continue
		}
		r.ctx.checkConstant(arg)
	}
	return fn.ReturnType
}

// argumentLists hands out the arguments of a user function call. Boolie
// parameters are bound to the boolean sublist in order, the others to the
// remaining arguments in order. A list that runs dry borrows from the other
// one, which is how a boolie variable or call reaches a boolie parameter.
type argumentLists struct {
	bools []ast.Expr
	plain []ast.Expr
}

func newArgumentLists(call *ast.Call) *argumentLists {
	return &argumentLists{bools: call.BoolArgs(), plain: call.PlainArgs()}
}

func (a *argumentLists) next(want symbols.SymbolType) ast.Expr {
	first, second := &a.plain, &a.bools
	if want == symbols.Bool {
		first, second = &a.bools, &a.plain
	}
	for _, list := range []*[]ast.Expr{first, second} {
		if len(*list) > 0 {
			e := (*list)[0]
			*list = (*list)[1:]
			return e
		}
	}
	return nil
}

func (r *FunctionCallResolver) resolveBuiltin(call *ast.Call) symbols.SymbolType {
	overloads := r.ctx.Symbols.LookupBuiltinAllOverloads(call.Name)
	ret := overloads[0].ReturnType

	argTypes := make([]symbols.SymbolType, len(call.Args))
	for i, arg := range call.Args {
		homogeneous, t := r.detector.Detect(arg)
		if !homogeneous {
			r.ctx.fatal(arg.Start(), "Mismatched types in argument %d of call to %s.", i+1, call.Name)
			return ret
		}
		if checkerFor(r.detector, t) == nil {
			r.ctx.fatal(arg.Start(), "Argument %d of call to %s cannot be of type %s.", i+1, call.Name, t)
			return ret
		}
		argTypes[i] = t
	}

	fn, err := r.ctx.Symbols.LookupBuiltinExactOverload(call.Name, symbols.ParamDescriptor(argTypes))
	if err != nil {
		r.ctx.fatal(call.NameTok, "Internal error: %v.", err)
		return ret
	}
	if fn == nil {
		r.ctx.fatal(call.NameTok, "Bad arguments passed to builtin function %s. Use one of the following overloads: %s",
			call.Name, formatOverloads(overloads))
		return ret
	}

	// detection only looked at leaves; the operators must fit as well
	for i, arg := range call.Args {
		checker := checkerFor(r.detector, argTypes[i])
		if checker == nil || !checker.Check(arg) {
			r.ctx.fatal(arg.Start(), "Type mismatch in argument %d of call to %s: expected %s.",
				i+1, call.Name, argTypes[i])
			continue
		}
		r.ctx.checkConstant(arg)
	}
	return fn.ReturnType
}

func formatOverloads(overloads []*symbols.FunctionSymbol) string {
	parts := make([]string, len(overloads))
	for i, fn := range overloads {
		parts[i] = fmt.Sprintf("%d. %s", i+1, symbols.FormatParams(fn.ParamTypes()))
	}
	return strings.Join(parts, " ")
}
