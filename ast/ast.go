// Package ast defines the syntax tree of samo programs. Every node keeps the
// antlr token it starts at so positions survive into diagnostics.
package ast

import "github.com/antlr4-go/antlr/v4"

// Pos is a source position: 1-based line, 0-based column
type Pos struct {
	Line   int
	Column int
}

// PosOf returns the position of tok, or the zero Pos for a nil token
func PosOf(tok antlr.Token) Pos {
	if tok == nil {
		return Pos{}
	}
	return Pos{Line: tok.GetLine(), Column: tok.GetColumn()}
}

// Node is implemented by every tree node
type Node interface {
	Start() antlr.Token
}

// Expr is implemented by expression nodes
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================================
// EXPRESSIONS
// ============================================================================

// IntLit is a decimal literal
type IntLit struct {
	Tok   antlr.Token
	Value int32
}

// StringLit is a quoted string; Value holds the unescaped text
type StringLit struct {
	Tok   antlr.Token
	Value string
}

// BoolLit is true or false
type BoolLit struct {
	Tok   antlr.Token
	Value bool
}

// Ident references a variable
type Ident struct {
	Tok  antlr.Token
	Name string
}

// UnaryOp enumerates prefix operators
type UnaryOp int

const (
	Neg UnaryOp = iota // -
	Not                // not
)

// Unary is a prefix operation
type Unary struct {
	OpTok antlr.Token
	Op    UnaryOp
	X     Expr
}

// BinaryOp enumerates infix operators
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	And
	Or
	Xor
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
)

var binaryOpText = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%",
	And: "and", Or: "or", Xor: "xor",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", Eq: "==", Ne: "!=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// IsArithmetic reports + - * / %
func (op BinaryOp) IsArithmetic() bool { return op <= Mod }

// IsLogical reports and, or, xor
func (op BinaryOp) IsLogical() bool { return op >= And && op <= Xor }

// IsRelational reports < <= > >=
func (op BinaryOp) IsRelational() bool { return op >= Lt && op <= Ge }

// IsEquality reports == and !=
func (op BinaryOp) IsEquality() bool { return op == Eq || op == Ne }

// Binary is an infix operation
type Binary struct {
	OpTok antlr.Token
	Op    BinaryOp
	X     Expr
	Y     Expr
}

// Paren is a parenthesized expression
type Paren struct {
	Lparen antlr.Token
	X      Expr
}

// Call invokes a user function or builtin
type Call struct {
	NameTok antlr.Token
	Name    string
	Args    []Expr
}

// BoolArgs returns the arguments written in boolean form, in order
func (c *Call) BoolArgs() []Expr {
	return c.argsWhere(true)
}

// PlainArgs returns the arguments not written in boolean form, in order
func (c *Call) PlainArgs() []Expr {
	return c.argsWhere(false)
}

func (c *Call) argsWhere(boolean bool) []Expr {
	var out []Expr
	for _, a := range c.Args {
		if IsBooleanForm(a) == boolean {
			out = append(out, a)
		}
	}
	return out
}

func (e *IntLit) Start() antlr.Token    { return e.Tok }
func (e *StringLit) Start() antlr.Token { return e.Tok }
func (e *BoolLit) Start() antlr.Token   { return e.Tok }
func (e *Ident) Start() antlr.Token     { return e.Tok }
func (e *Unary) Start() antlr.Token     { return e.OpTok }
func (e *Binary) Start() antlr.Token    { return e.X.Start() }
func (e *Paren) Start() antlr.Token     { return e.Lparen }
func (e *Call) Start() antlr.Token      { return e.NameTok }

func (*IntLit) exprNode()    {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*Ident) exprNode()     {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Paren) exprNode()     {}
func (*Call) exprNode()      {}

// IsBooleanForm reports whether e is syntactically a boolean expression:
// a boolean literal, a comparison, a logical operation or a negation,
// possibly parenthesized.
func IsBooleanForm(e Expr) bool {
	switch n := e.(type) {
	case *BoolLit:
		return true
	case *Unary:
		return n.Op == Not
	case *Binary:
		return !n.Op.IsArithmetic()
	case *Paren:
		return IsBooleanForm(n.X)
	}
	return false
}

// ============================================================================
// STATEMENTS
// ============================================================================

// Program is a whole source file
type Program struct {
	Stmts []Stmt
}

// Block is a braced statement list
type Block struct {
	Lbrace antlr.Token
	Stmts  []Stmt
	Rbrace antlr.Token
}

// VarDecl declares a variable. TypeTok is the type keyword, or the let
// keyword when Inferred is set. Init is nil without an initializer.
type VarDecl struct {
	TypeTok  antlr.Token
	TypeName string
	Inferred bool
	NameTok  antlr.Token
	Name     string
	Init     Expr
}

// Assign stores a new value in an existing variable
type Assign struct {
	NameTok antlr.Token
	Name    string
	Value   Expr
}

// ExprStmt is a call evaluated for its effect
type ExprStmt struct {
	Call *Call
}

// Param is one function parameter
type Param struct {
	TypeTok  antlr.Token
	TypeName string
	NameTok  antlr.Token
	Name     string
}

// FuncDef defines a function. ReturnType is empty when omitted (void).
type FuncDef struct {
	FnTok      antlr.Token
	NameTok    antlr.Token
	Name       string
	Params     []*Param
	ReturnTok  antlr.Token
	ReturnType string
	Body       *Block
}

// IfArm is the if or an else-if arm of an if statement
type IfArm struct {
	IfTok antlr.Token
	Cond  Expr
	Body  *Block
}

// If is an if statement with optional else-if arms and else block
type If struct {
	Arms    []*IfArm
	ElseTok antlr.Token
	Else    *Block
}

// While is a pre-checked loop
type While struct {
	WhileTok antlr.Token
	Cond     Expr
	Body     *Block
}

// Break leaves the innermost loop
type Break struct {
	Tok antlr.Token
}

// Continue jumps to the next iteration of the innermost loop
type Continue struct {
	Tok antlr.Token
}

// Return leaves the current function. Value is nil for a bare return.
type Return struct {
	Tok   antlr.Token
	Value Expr
}

// Needs names a module to import
type Needs struct {
	Tok  antlr.Token
	Path string
}

// Uncertain runs Body with the given probability, and Otherwise (if any)
// when Body is not run.
type Uncertain struct {
	Tok          antlr.Token
	Probability  Expr
	Body         Stmt
	OtherwiseTok antlr.Token
	Otherwise    Stmt
}

// Compound reports whether the guarded statement is a block, if or while
func (u *Uncertain) Compound() bool {
	return IsCompound(u.Body)
}

// IsCompound reports whether s is a block, if or while statement
func IsCompound(s Stmt) bool {
	switch s.(type) {
	case *Block, *If, *While:
		return true
	}
	return false
}

// BadStmt stands in for source the parser could not understand
type BadStmt struct {
	Tok antlr.Token
	Msg string
}

func (s *Block) Start() antlr.Token     { return s.Lbrace }
func (s *VarDecl) Start() antlr.Token   { return s.TypeTok }
func (s *Assign) Start() antlr.Token    { return s.NameTok }
func (s *ExprStmt) Start() antlr.Token  { return s.Call.NameTok }
func (s *FuncDef) Start() antlr.Token   { return s.FnTok }
func (s *If) Start() antlr.Token        { return s.Arms[0].IfTok }
func (s *While) Start() antlr.Token     { return s.WhileTok }
func (s *Break) Start() antlr.Token     { return s.Tok }
func (s *Continue) Start() antlr.Token  { return s.Tok }
func (s *Return) Start() antlr.Token    { return s.Tok }
func (s *Needs) Start() antlr.Token     { return s.Tok }
func (s *Uncertain) Start() antlr.Token { return s.Tok }
func (s *BadStmt) Start() antlr.Token   { return s.Tok }

func (*Block) stmtNode()     {}
func (*VarDecl) stmtNode()   {}
func (*Assign) stmtNode()    {}
func (*ExprStmt) stmtNode()  {}
func (*FuncDef) stmtNode()   {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Return) stmtNode()    {}
func (*Needs) stmtNode()     {}
func (*Uncertain) stmtNode() {}
func (*BadStmt) stmtNode()   {}
