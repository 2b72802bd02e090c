// Package parser turns samo source text into an ast.Program. Lexing and
// token buffering run on the antlr4 runtime.
package parser

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"
)

// Token types produced by SamoLexer
const (
	Invalid = antlr.TokenMinUserTokenType + iota
	IntLiteral
	StringLiteral
	Identifier
	Comment

	// keywords
	KwFn
	KwLet
	KwIf
	KwElse
	KwWhile
	KwBreak
	KwContinue
	KwReturn
	KwNeeds
	KwMaybe
	KwOtherwise
	KwTrue
	KwFalse
	KwAnd
	KwOr
	KwXor
	KwNot
	KwInt
	KwString
	KwBoolie
	KwVoid

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semi
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Lt
	Le
	Gt
	Ge
	EqEq
	NotEq
)

var keywords = map[string]int{
	"fn":        KwFn,
	"let":       KwLet,
	"if":        KwIf,
	"else":      KwElse,
	"while":     KwWhile,
	"break":     KwBreak,
	"continue":  KwContinue,
	"return":    KwReturn,
	"needs":     KwNeeds,
	"maybe":     KwMaybe,
	"otherwise": KwOtherwise,
	"true":      KwTrue,
	"false":     KwFalse,
	"and":       KwAnd,
	"or":        KwOr,
	"xor":       KwXor,
	"not":       KwNot,
	"int":       KwInt,
	"string":    KwString,
	"boolie":    KwBoolie,
	"void":      KwVoid,
}

// SamoLexer is a hand-written antlr token source for samo
type SamoLexer struct {
	*antlr.BaseLexer
	sim *antlr.LexerATNSimulator
}

// NewSamoLexer creates a lexer reading input
func NewSamoLexer(input antlr.CharStream) *SamoLexer {
	l := &SamoLexer{BaseLexer: antlr.NewBaseLexer(input)}
	// The simulator is only used for line/column bookkeeping; there is no ATN.
	l.sim = antlr.NewLexerATNSimulator(l, nil, nil, nil)
	l.Interpreter = l.sim
	return l
}

// NextToken returns the next token, comments included on the hidden channel
func (l *SamoLexer) NextToken() antlr.Token {
	input := l.GetInputStream()

	for isSpace(input.LA(1)) {
		l.sim.Consume(input)
	}

	l.TokenStartCharIndex = input.Index()
	l.TokenStartLine = l.sim.Line
	l.TokenStartColumn = l.sim.CharPositionInLine

	c := input.LA(1)
	if c == antlr.TokenEOF {
		return l.EmitEOF()
	}

	switch {
	case isLetter(c):
		for isLetter(input.LA(1)) || isDigit(input.LA(1)) {
			l.sim.Consume(input)
		}
		text := input.GetText(l.TokenStartCharIndex, input.Index()-1)
		if kw, ok := keywords[text]; ok {
			return l.emit(kw, antlr.TokenDefaultChannel)
		}
		return l.emit(Identifier, antlr.TokenDefaultChannel)

	case isDigit(c):
		for isDigit(input.LA(1)) {
			l.sim.Consume(input)
		}
		return l.emit(IntLiteral, antlr.TokenDefaultChannel)

	case c == '"':
		return l.lexString(input)

	case c == '/' && input.LA(2) == '/':
		for input.LA(1) != '\n' && input.LA(1) != antlr.TokenEOF {
			l.sim.Consume(input)
		}
		return l.emit(Comment, antlr.TokenHiddenChannel)
	}

	l.sim.Consume(input)
	switch c {
	case '(':
		return l.emit(LParen, antlr.TokenDefaultChannel)
	case ')':
		return l.emit(RParen, antlr.TokenDefaultChannel)
	case '{':
		return l.emit(LBrace, antlr.TokenDefaultChannel)
	case '}':
		return l.emit(RBrace, antlr.TokenDefaultChannel)
	case ',':
		return l.emit(Comma, antlr.TokenDefaultChannel)
	case ';':
		return l.emit(Semi, antlr.TokenDefaultChannel)
	case '+':
		return l.emit(Plus, antlr.TokenDefaultChannel)
	case '-':
		return l.emit(Minus, antlr.TokenDefaultChannel)
	case '*':
		return l.emit(Star, antlr.TokenDefaultChannel)
	case '/':
		return l.emit(Slash, antlr.TokenDefaultChannel)
	case '%':
		return l.emit(Percent, antlr.TokenDefaultChannel)
	case '<':
		return l.emitPair('=', Le, Lt)
	case '>':
		return l.emitPair('=', Ge, Gt)
	case '=':
		return l.emitPair('=', EqEq, Assign)
	case '!':
		if input.LA(1) == '=' {
			l.sim.Consume(input)
			return l.emit(NotEq, antlr.TokenDefaultChannel)
		}
	}

	l.reportError(fmt.Sprintf("token recognition error at: '%c'", rune(c)))
	return l.emit(Invalid, antlr.TokenDefaultChannel)
}

// emitPair emits long when the next char is next, short otherwise
func (l *SamoLexer) emitPair(next int, long, short int) antlr.Token {
	input := l.GetInputStream()
	if input.LA(1) == next {
		l.sim.Consume(input)
		return l.emit(long, antlr.TokenDefaultChannel)
	}
	return l.emit(short, antlr.TokenDefaultChannel)
}

func (l *SamoLexer) lexString(input antlr.CharStream) antlr.Token {
	l.sim.Consume(input) // opening quote
	for {
		switch input.LA(1) {
		case '"':
			l.sim.Consume(input)
			return l.emit(StringLiteral, antlr.TokenDefaultChannel)
		case '\\':
			l.sim.Consume(input)
			switch input.LA(1) {
			case 'n', 't', '"', '\\':
				l.sim.Consume(input)
			default:
				l.reportError("invalid escape sequence in string literal")
				return l.emit(Invalid, antlr.TokenDefaultChannel)
			}
		case '\n', antlr.TokenEOF:
			l.reportError("unterminated string literal")
			return l.emit(Invalid, antlr.TokenDefaultChannel)
		default:
			l.sim.Consume(input)
		}
	}
}

func (l *SamoLexer) emit(ttype, channel int) antlr.Token {
	input := l.GetInputStream()
	stop := input.Index() - 1
	text := input.GetText(l.TokenStartCharIndex, stop)
	t := l.GetTokenFactory().Create(l.GetTokenSourceCharStreamPair(), ttype, text, channel,
		l.TokenStartCharIndex, stop, l.TokenStartLine, l.TokenStartColumn)
	l.EmitToken(t)
	return t
}

func (l *SamoLexer) reportError(msg string) {
	l.GetErrorListenerDispatch().SyntaxError(l, nil, l.TokenStartLine, l.TokenStartColumn, msg, nil)
}

func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c int) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

// TokenName returns a readable name for a token type
func TokenName(ttype int) string {
	switch ttype {
	case antlr.TokenEOF:
		return "end of file"
	case IntLiteral:
		return "integer literal"
	case StringLiteral:
		return "string literal"
	case Identifier:
		return "identifier"
	case Invalid:
		return "invalid token"
	}
	for text, kw := range keywords {
		if kw == ttype {
			return "'" + text + "'"
		}
	}
	if s, ok := punctText[ttype]; ok {
		return "'" + s + "'"
	}
	return fmt.Sprintf("token %d", ttype)
}

var punctText = map[int]string{
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", Comma: ",", Semi: ";",
	Assign: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", EqEq: "==", NotEq: "!=",
}
