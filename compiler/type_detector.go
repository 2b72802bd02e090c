package compiler

import (
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// TypeDetector classifies an expression by the types of its leaves
type TypeDetector struct {
	ctx      *Context
	resolver *FunctionCallResolver
}

// NewTypeDetector creates a detector reading ctx's symbol table
func NewTypeDetector(ctx *Context) *TypeDetector {
	d := &TypeDetector{ctx: ctx}
	d.resolver = &FunctionCallResolver{ctx: ctx, detector: d}
	return d
}

type leafTally struct {
	counts   map[symbols.SymbolType]int
	total    int
	dominant symbols.SymbolType
	max      int
}

func (t *leafTally) add(typ symbols.SymbolType) {
	t.counts[typ]++
	t.total++
	// strictly greater: on a tie the type that got there first stays
	if t.counts[typ] > t.max {
		t.max = t.counts[typ]
		t.dominant = typ
	}
}

// Detect reports whether every leaf of e has the same type, and the most
// frequent leaf type. Calls count as one leaf of their return type, and so
// do comparisons, logical operations and negations.
func (d *TypeDetector) Detect(e ast.Expr) (bool, symbols.SymbolType) {
	tally := &leafTally{counts: make(map[symbols.SymbolType]int)}
	d.walk(e, tally)

	if tally.total == 0 {
		return true, symbols.Void
	}
	return tally.max == tally.total, tally.dominant
}

func (d *TypeDetector) walk(e ast.Expr, tally *leafTally) {
	switch n := e.(type) {
	case *ast.IntLit:
		tally.add(symbols.Int)
	case *ast.StringLit:
		tally.add(symbols.String)
	case *ast.BoolLit:
		tally.add(symbols.Bool)
	case *ast.Ident:
		sym, ok := d.ctx.Symbols.Lookup(n.Name)
		if !ok {
			d.ctx.fatal(n.Tok, "Unknown identifier %s.", n.Name)
			tally.add(symbols.Unsupported)
			return
		}
		tally.add(sym.Type())
	case *ast.Call:
		ret := d.resolver.Resolve(n)
		if ret == symbols.Void {
			d.ctx.fatal(n.NameTok, "Illegal return type of function call in expression. The function call returns no value.")
		}
		tally.add(ret)
	case *ast.Unary:
		if n.Op == ast.Not {
			tally.add(symbols.Bool)
			return
		}
		d.walk(n.X, tally)
	case *ast.Binary:
		if !n.Op.IsArithmetic() {
			tally.add(symbols.Bool)
			return
		}
		d.walk(n.X, tally)
		d.walk(n.Y, tally)
	case *ast.Paren:
		d.walk(n.X, tally)
	}
}

// describeDetected renders a detection result for diagnostics
func describeDetected(homogeneous bool, typ symbols.SymbolType) string {
	if !homogeneous {
		return "mismatched types"
	}
	return typ.String()
}
