package parser

import (
	"fmt"
	"strconv"

	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
)

// SamoParser is a recursive-descent parser over an antlr token stream.
// Syntax errors go to the registered error listeners and leave an
// ast.BadStmt in the tree.
type SamoParser struct {
	*antlr.BaseRecognizer
	tokens *antlr.CommonTokenStream
}

// NewSamoParser creates a parser reading tokens from stream
func NewSamoParser(stream *antlr.CommonTokenStream) *SamoParser {
	return &SamoParser{
		BaseRecognizer: antlr.NewBaseRecognizer(),
		tokens:         stream,
	}
}

// GetATN satisfies antlr.Recognizer; the parser is not ATN driven.
func (p *SamoParser) GetATN() *antlr.ATN {
	return nil
}

// syntaxError unwinds the current statement
type syntaxError struct {
	tok antlr.Token
	msg string
}

// ============================================================================
// ENTRY POINTS
// ============================================================================

// Program parses a whole source file
func (p *SamoParser) Program() *ast.Program {
	prog := &ast.Program{}
	for !p.at(antlr.TokenEOF) {
		prog.Stmts = append(prog.Stmts, p.statement(true))
	}
	return prog
}

// Expression parses a single expression followed by end of input. It returns
// nil after a syntax error.
func (p *SamoParser) Expression() (expr ast.Expr) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			p.report(se)
			expr = nil
		}
	}()
	expr = p.expr()
	p.expect(antlr.TokenEOF)
	return expr
}

// ============================================================================
// TOKEN HELPERS
// ============================================================================

func (p *SamoParser) peek() antlr.Token {
	return p.tokens.LT(1)
}

func (p *SamoParser) peekAt(k int) antlr.Token {
	return p.tokens.LT(k)
}

func (p *SamoParser) at(ttype int) bool {
	return p.peek().GetTokenType() == ttype
}

func (p *SamoParser) next() antlr.Token {
	tok := p.peek()
	if tok.GetTokenType() != antlr.TokenEOF {
		p.tokens.Consume()
	}
	return tok
}

func (p *SamoParser) accept(ttype int) (antlr.Token, bool) {
	if p.at(ttype) {
		return p.next(), true
	}
	return nil, false
}

func (p *SamoParser) expect(ttype int) antlr.Token {
	if p.at(ttype) {
		return p.next()
	}
	p.fail(p.peek(), "expected %s, found %s", TokenName(ttype), describe(p.peek()))
	return nil
}

func (p *SamoParser) fail(tok antlr.Token, format string, args ...interface{}) {
	panic(syntaxError{tok: tok, msg: fmt.Sprintf(format, args...)})
}

func (p *SamoParser) report(se syntaxError) {
	p.GetErrorListenerDispatch().SyntaxError(p, se.tok, se.tok.GetLine(), se.tok.GetColumn(), se.msg, nil)
}

func describe(tok antlr.Token) string {
	switch tok.GetTokenType() {
	case antlr.TokenEOF:
		return "end of file"
	case Invalid:
		return "invalid token '" + tok.GetText() + "'"
	}
	return "'" + tok.GetText() + "'"
}

// sync skips to the end of the broken statement: past the next ';', or up to
// a '}' that may close an enclosing block.
func (p *SamoParser) sync(start int, topLevel bool) {
	for !p.at(antlr.TokenEOF) {
		if p.at(Semi) {
			p.next()
			return
		}
		if p.at(RBrace) {
			if topLevel || p.tokens.Index() == start {
				p.next()
			}
			return
		}
		p.next()
	}
}

// ============================================================================
// STATEMENTS
// ============================================================================

func (p *SamoParser) statement(topLevel bool) (stmt ast.Stmt) {
	start := p.tokens.Index()
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(syntaxError)
			if !ok {
				panic(r)
			}
			p.report(se)
			p.sync(start, topLevel)
			stmt = &ast.BadStmt{Tok: se.tok, Msg: se.msg}
		}
	}()
	return p.stmt()
}

func (p *SamoParser) stmt() ast.Stmt {
	tok := p.peek()
	switch tok.GetTokenType() {
	case KwInt, KwString, KwBoolie, KwVoid:
		return p.varDecl()
	case KwLet:
		return p.inferredDecl()
	case Identifier:
		if p.peekAt(2).GetTokenType() == LParen {
			call := p.call()
			p.expect(Semi)
			return &ast.ExprStmt{Call: call}
		}
		return p.assign()
	case KwFn:
		return p.funcDef()
	case KwIf:
		return p.ifStmt()
	case KwWhile:
		w := &ast.While{WhileTok: p.next()}
		w.Cond = p.condition()
		w.Body = p.block()
		return w
	case KwBreak:
		p.next()
		p.expect(Semi)
		return &ast.Break{Tok: tok}
	case KwContinue:
		p.next()
		p.expect(Semi)
		return &ast.Continue{Tok: tok}
	case KwReturn:
		p.next()
		ret := &ast.Return{Tok: tok}
		if !p.at(Semi) {
			ret.Value = p.expr()
		}
		p.expect(Semi)
		return ret
	case KwNeeds:
		p.next()
		path := p.expect(StringLiteral)
		p.expect(Semi)
		return &ast.Needs{Tok: tok, Path: unquote(path.GetText())}
	case KwMaybe:
		return p.uncertain()
	case LBrace:
		return p.block()
	}
	p.fail(tok, "unexpected %s at start of statement", describe(tok))
	return nil
}

func (p *SamoParser) varDecl() *ast.VarDecl {
	typeTok := p.next()
	name := p.expect(Identifier)
	decl := &ast.VarDecl{
		TypeTok:  typeTok,
		TypeName: typeTok.GetText(),
		NameTok:  name,
		Name:     name.GetText(),
	}
	if _, ok := p.accept(Assign); ok {
		decl.Init = p.expr()
	}
	p.expect(Semi)
	return decl
}

func (p *SamoParser) inferredDecl() *ast.VarDecl {
	letTok := p.next()
	name := p.expect(Identifier)
	p.expect(Assign)
	init := p.expr()
	p.expect(Semi)
	return &ast.VarDecl{
		TypeTok:  letTok,
		Inferred: true,
		NameTok:  name,
		Name:     name.GetText(),
		Init:     init,
	}
}

func (p *SamoParser) assign() *ast.Assign {
	name := p.next()
	p.expect(Assign)
	value := p.expr()
	p.expect(Semi)
	return &ast.Assign{NameTok: name, Name: name.GetText(), Value: value}
}

func (p *SamoParser) funcDef() *ast.FuncDef {
	fn := &ast.FuncDef{FnTok: p.next()}
	fn.NameTok = p.expect(Identifier)
	fn.Name = fn.NameTok.GetText()

	p.expect(LParen)
	if !p.at(RParen) {
		for {
			fn.Params = append(fn.Params, p.param())
			if _, ok := p.accept(Comma); !ok {
				break
			}
		}
	}
	p.expect(RParen)

	if isTypeKeyword(p.peek().GetTokenType()) {
		fn.ReturnTok = p.next()
		fn.ReturnType = fn.ReturnTok.GetText()
	}
	fn.Body = p.block()
	return fn
}

func (p *SamoParser) param() *ast.Param {
	typeTok := p.peek()
	if !isTypeKeyword(typeTok.GetTokenType()) {
		p.fail(typeTok, "expected parameter type, found %s", describe(typeTok))
	}
	p.next()
	name := p.expect(Identifier)
	return &ast.Param{
		TypeTok:  typeTok,
		TypeName: typeTok.GetText(),
		NameTok:  name,
		Name:     name.GetText(),
	}
}

func (p *SamoParser) ifStmt() *ast.If {
	stmt := &ast.If{}
	arm := &ast.IfArm{IfTok: p.next()}
	arm.Cond = p.condition()
	arm.Body = p.block()
	stmt.Arms = append(stmt.Arms, arm)

	for p.at(KwElse) {
		elseTok := p.next()
		if p.at(KwIf) {
			arm := &ast.IfArm{IfTok: p.next()}
			arm.Cond = p.condition()
			arm.Body = p.block()
			stmt.Arms = append(stmt.Arms, arm)
			continue
		}
		stmt.ElseTok = elseTok
		stmt.Else = p.block()
		break
	}
	return stmt
}

func (p *SamoParser) condition() ast.Expr {
	p.expect(LParen)
	cond := p.expr()
	p.expect(RParen)
	return cond
}

func (p *SamoParser) uncertain() *ast.Uncertain {
	u := &ast.Uncertain{Tok: p.next()}
	p.expect(LParen)
	u.Probability = p.expr()
	p.expect(RParen)
	u.Body = p.stmt()
	if tok, ok := p.accept(KwOtherwise); ok {
		u.OtherwiseTok = tok
		u.Otherwise = p.stmt()
	}
	return u
}

func (p *SamoParser) block() *ast.Block {
	b := &ast.Block{Lbrace: p.expect(LBrace)}
	for !p.at(RBrace) && !p.at(antlr.TokenEOF) {
		b.Stmts = append(b.Stmts, p.statement(false))
	}
	b.Rbrace = p.expect(RBrace)
	return b
}

func isTypeKeyword(ttype int) bool {
	switch ttype {
	case KwInt, KwString, KwBoolie, KwVoid:
		return true
	}
	return false
}

// ============================================================================
// EXPRESSIONS
// ============================================================================
//
// Precedence, loosest first: or xor, and, not, comparisons, + -, * / %,
// unary minus.

func (p *SamoParser) expr() ast.Expr {
	x := p.andExpr()
	for p.at(KwOr) || p.at(KwXor) {
		opTok := p.next()
		op := ast.Or
		if opTok.GetTokenType() == KwXor {
			op = ast.Xor
		}
		x = &ast.Binary{OpTok: opTok, Op: op, X: x, Y: p.andExpr()}
	}
	return x
}

func (p *SamoParser) andExpr() ast.Expr {
	x := p.notExpr()
	for p.at(KwAnd) {
		opTok := p.next()
		x = &ast.Binary{OpTok: opTok, Op: ast.And, X: x, Y: p.notExpr()}
	}
	return x
}

func (p *SamoParser) notExpr() ast.Expr {
	if tok, ok := p.accept(KwNot); ok {
		return &ast.Unary{OpTok: tok, Op: ast.Not, X: p.notExpr()}
	}
	return p.comparison()
}

var comparisonOps = map[int]ast.BinaryOp{
	Lt: ast.Lt, Le: ast.Le, Gt: ast.Gt, Ge: ast.Ge, EqEq: ast.Eq, NotEq: ast.Ne,
}

func (p *SamoParser) comparison() ast.Expr {
	x := p.additive()
	if op, ok := comparisonOps[p.peek().GetTokenType()]; ok {
		opTok := p.next()
		x = &ast.Binary{OpTok: opTok, Op: op, X: x, Y: p.additive()}
		if _, chained := comparisonOps[p.peek().GetTokenType()]; chained {
			p.fail(p.peek(), "comparison operators cannot be chained")
		}
	}
	return x
}

func (p *SamoParser) additive() ast.Expr {
	x := p.multiplicative()
	for p.at(Plus) || p.at(Minus) {
		opTok := p.next()
		op := ast.Add
		if opTok.GetTokenType() == Minus {
			op = ast.Sub
		}
		x = &ast.Binary{OpTok: opTok, Op: op, X: x, Y: p.multiplicative()}
	}
	return x
}

var multiplicativeOps = map[int]ast.BinaryOp{Star: ast.Mul, Slash: ast.Div, Percent: ast.Mod}

func (p *SamoParser) multiplicative() ast.Expr {
	x := p.unary()
	for {
		op, ok := multiplicativeOps[p.peek().GetTokenType()]
		if !ok {
			return x
		}
		opTok := p.next()
		x = &ast.Binary{OpTok: opTok, Op: op, X: x, Y: p.unary()}
	}
}

func (p *SamoParser) unary() ast.Expr {
	if tok, ok := p.accept(Minus); ok {
		return &ast.Unary{OpTok: tok, Op: ast.Neg, X: p.unary()}
	}
	return p.primary()
}

func (p *SamoParser) primary() ast.Expr {
	tok := p.peek()
	switch tok.GetTokenType() {
	case IntLiteral:
		p.next()
		v, err := strconv.ParseInt(tok.GetText(), 10, 32)
		if err != nil {
			p.fail(tok, "integer literal %s out of range", tok.GetText())
		}
		return &ast.IntLit{Tok: tok, Value: int32(v)}
	case StringLiteral:
		p.next()
		return &ast.StringLit{Tok: tok, Value: unquote(tok.GetText())}
	case KwTrue, KwFalse:
		p.next()
		return &ast.BoolLit{Tok: tok, Value: tok.GetTokenType() == KwTrue}
	case Identifier:
		if p.peekAt(2).GetTokenType() == LParen {
			return p.call()
		}
		p.next()
		return &ast.Ident{Tok: tok, Name: tok.GetText()}
	case LParen:
		p.next()
		x := p.expr()
		p.expect(RParen)
		return &ast.Paren{Lparen: tok, X: x}
	}
	p.fail(tok, "unexpected %s in expression", describe(tok))
	return nil
}

func (p *SamoParser) call() *ast.Call {
	name := p.next()
	call := &ast.Call{NameTok: name, Name: name.GetText()}
	p.expect(LParen)
	if !p.at(RParen) {
		for {
			call.Args = append(call.Args, p.expr())
			if _, ok := p.accept(Comma); !ok {
				break
			}
		}
	}
	p.expect(RParen)
	return call
}

// unquote strips the quotes of a lexed string literal and resolves escapes
func unquote(text string) string {
	s, err := strconv.Unquote(text)
	if err != nil {
		return text
	}
	return s
}
