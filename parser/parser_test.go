package parser

import (
	"strings"
	"testing"

	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
	"github.com/nalgeon/be"
)

func lexAll(src string) []antlr.Token {
	lexer := NewSamoLexer(antlr.NewInputStream(src))
	lexer.RemoveErrorListeners()
	var toks []antlr.Token
	for {
		tok := lexer.NextToken()
		toks = append(toks, tok)
		if tok.GetTokenType() == antlr.TokenEOF {
			return toks
		}
	}
}

func TestLexerTokens(t *testing.T) {
	toks := lexAll("boolie b = x <= 10 != y; // done\n\"a\\\"b\"")

	want := []int{KwBoolie, Identifier, Assign, Identifier, Le, IntLiteral, NotEq, Identifier, Semi, Comment, StringLiteral, antlr.TokenEOF}
	be.Equal(t, len(toks), len(want))
	for i, tok := range toks {
		be.Equal(t, tok.GetTokenType(), want[i])
	}

	be.Equal(t, toks[9].GetChannel(), antlr.TokenHiddenChannel)
	be.Equal(t, toks[10].GetText(), `"a\"b"`)
	be.Equal(t, toks[10].GetLine(), 2)
	be.Equal(t, toks[10].GetColumn(), 0)
	be.Equal(t, toks[4].GetColumn(), 13)
}

func TestLexerInvalidCharacter(t *testing.T) {
	errs := NewErrorCollector()
	lexer := NewSamoLexer(antlr.NewInputStream("x # y"))
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(errs)

	lexer.NextToken()
	tok := lexer.NextToken()
	be.Equal(t, tok.GetTokenType(), Invalid)
	be.Equal(t, len(errs.Errors), 1)
	be.Equal(t, errs.Errors[0].Column, 2)
}

func TestParseDeclarations(t *testing.T) {
	prog, errs := ParseString(`
int x = 2 + 3;
string s;
let b = 1 > 2;
x = x * 2;
putout(x);
`)
	be.Equal(t, len(errs), 0)
	be.Equal(t, len(prog.Stmts), 5)

	decl := prog.Stmts[0].(*ast.VarDecl)
	be.Equal(t, decl.TypeName, "int")
	be.Equal(t, decl.Name, "x")
	be.Equal(t, decl.NameTok.GetLine(), 2)
	sum := decl.Init.(*ast.Binary)
	be.Equal(t, sum.Op, ast.Add)

	be.True(t, prog.Stmts[1].(*ast.VarDecl).Init == nil)

	inferred := prog.Stmts[2].(*ast.VarDecl)
	be.True(t, inferred.Inferred)
	be.True(t, ast.IsBooleanForm(inferred.Init))

	_, ok := prog.Stmts[3].(*ast.Assign)
	be.True(t, ok)
	call := prog.Stmts[4].(*ast.ExprStmt).Call
	be.Equal(t, call.Name, "putout")
	be.Equal(t, len(call.Args), 1)
}

func TestParsePrecedence(t *testing.T) {
	expr, errs := ParseExpression("not a < 1 + 2 * 3 and b or c")
	be.Equal(t, len(errs), 0)

	or := expr.(*ast.Binary)
	be.Equal(t, or.Op, ast.Or)
	and := or.X.(*ast.Binary)
	be.Equal(t, and.Op, ast.And)
	not := and.X.(*ast.Unary)
	be.Equal(t, not.Op, ast.Not)
	lt := not.X.(*ast.Binary)
	be.Equal(t, lt.Op, ast.Lt)
	add := lt.Y.(*ast.Binary)
	be.Equal(t, add.Op, ast.Add)
	be.Equal(t, add.Y.(*ast.Binary).Op, ast.Mul)
}

func TestParseFunctionAndControlFlow(t *testing.T) {
	prog, errs := ParseString(`
fn max(int a, int b) int {
    if (a > b) {
        return a;
    } else if (a == b) {
        return a;
    } else {
        return b;
    }
}
fn loop() {
    while (true) { break; continue; }
    return;
}
`)
	be.Equal(t, len(errs), 0)
	be.Equal(t, len(prog.Stmts), 2)

	fn := prog.Stmts[0].(*ast.FuncDef)
	be.Equal(t, fn.Name, "max")
	be.Equal(t, fn.ReturnType, "int")
	be.Equal(t, len(fn.Params), 2)
	be.Equal(t, fn.Params[1].Name, "b")

	ifStmt := fn.Body.Stmts[0].(*ast.If)
	be.Equal(t, len(ifStmt.Arms), 2)
	be.True(t, ifStmt.Else != nil)

	loop := prog.Stmts[1].(*ast.FuncDef)
	be.Equal(t, loop.ReturnType, "")
	while := loop.Body.Stmts[0].(*ast.While)
	be.Equal(t, len(while.Body.Stmts), 2)
	be.True(t, loop.Body.Stmts[1].(*ast.Return).Value == nil)
}

func TestParseUncertainAndNeeds(t *testing.T) {
	prog, errs := ParseString(`
needs "io";
maybe (50) putout(1); otherwise putout(2);
maybe (10) { putout(3); }
`)
	be.Equal(t, len(errs), 0)
	be.Equal(t, prog.Stmts[0].(*ast.Needs).Path, "io")

	u := prog.Stmts[1].(*ast.Uncertain)
	be.True(t, !u.Compound())
	be.True(t, u.Otherwise != nil)

	be.True(t, prog.Stmts[2].(*ast.Uncertain).Compound())
}

func TestParseRecoversAfterErrors(t *testing.T) {
	prog, errs := ParseString(`
int x = ;
int y = 1;
}
fn f() { int z = 1 +; putout(z); }
`)
	be.Equal(t, len(errs), 3)
	be.Equal(t, errs[0].Line, 2)
	be.True(t, strings.Contains(errs[0].Message, "unexpected ';'"))

	_, bad := prog.Stmts[0].(*ast.BadStmt)
	be.True(t, bad)
	be.Equal(t, prog.Stmts[1].(*ast.VarDecl).Name, "y")
	_, bad = prog.Stmts[2].(*ast.BadStmt)
	be.True(t, bad)

	fn := prog.Stmts[3].(*ast.FuncDef)
	be.Equal(t, len(fn.Body.Stmts), 2)
	_, bad = fn.Body.Stmts[0].(*ast.BadStmt)
	be.True(t, bad)
}

func TestParseRejectsOutOfRangeLiteral(t *testing.T) {
	_, errs := ParseExpression("2147483648")
	be.Equal(t, len(errs), 1)

	expr, errs := ParseExpression("2147483647")
	be.Equal(t, len(errs), 0)
	be.Equal(t, expr.(*ast.IntLit).Value, int32(2147483647))
}

func TestParseChainedComparison(t *testing.T) {
	_, errs := ParseExpression("1 < 2 < 3")
	be.Equal(t, len(errs), 1)
	be.True(t, strings.Contains(errs[0].Message, "chained"))
}

func TestParseCallArgumentLists(t *testing.T) {
	expr, errs := ParseExpression(`f(1 < 2, x, (true), "s" + "t", not y)`)
	be.Equal(t, len(errs), 0)

	call := expr.(*ast.Call)
	be.Equal(t, len(call.Args), 5)

	bools := call.BoolArgs()
	be.Equal(t, len(bools), 3)
	be.Equal(t, bools[0].(*ast.Binary).Op, ast.Lt)
	_, isParen := bools[1].(*ast.Paren)
	be.True(t, isParen)
	be.Equal(t, bools[2].(*ast.Unary).Op, ast.Not)

	plain := call.PlainArgs()
	be.Equal(t, len(plain), 2)
	be.Equal(t, plain[0].(*ast.Ident).Name, "x")
	be.Equal(t, plain[1].(*ast.Binary).Op, ast.Add)
}

func TestParseReader(t *testing.T) {
	prog, errs := ParseReader(strings.NewReader("int x = 1;\nputout(x);"))
	be.Equal(t, len(errs), 0)
	be.Equal(t, len(prog.Stmts), 2)
	be.Equal(t, prog.Stmts[1].(*ast.ExprStmt).Call.NameTok.GetLine(), 2)
}
