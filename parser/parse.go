package parser

import (
	"fmt"
	"io"

	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
)

// SyntaxError is one lexer or parser complaint
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d %s", e.Line, e.Column, e.Message)
}

// ErrorCollector is an antlr error listener that keeps syntax errors
type ErrorCollector struct {
	*antlr.DefaultErrorListener
	Errors []SyntaxError
}

// NewErrorCollector creates an empty collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{DefaultErrorListener: antlr.NewDefaultErrorListener()}
}

// SyntaxError records the error
func (c *ErrorCollector) SyntaxError(_ antlr.Recognizer, _ interface{}, line, column int, msg string, _ antlr.RecognitionException) {
	c.Errors = append(c.Errors, SyntaxError{Line: line, Column: column, Message: msg})
}

// newPipeline wires lexer, token stream and parser to one collector
func newPipeline(input antlr.CharStream) (*SamoParser, *ErrorCollector) {
	errs := NewErrorCollector()

	lexer := NewSamoLexer(input)
	lexer.RemoveErrorListeners()
	lexer.AddErrorListener(errs)

	stream := antlr.NewCommonTokenStream(lexer, antlr.TokenDefaultChannel)
	p := NewSamoParser(stream)
	p.RemoveErrorListeners()
	p.AddErrorListener(errs)
	return p, errs
}

// Parse parses a whole program from input
func Parse(input antlr.CharStream) (*ast.Program, []SyntaxError) {
	p, errs := newPipeline(input)
	prog := p.Program()
	return prog, errs.Errors
}

// ParseString parses a program held in a string
func ParseString(src string) (*ast.Program, []SyntaxError) {
	return Parse(antlr.NewInputStream(src))
}

// ParseReader parses a program read from r
func ParseReader(r io.Reader) (*ast.Program, []SyntaxError) {
	return Parse(antlr.NewIoStream(r))
}

// ParseFile parses the program stored at path
func ParseFile(path string) (*ast.Program, []SyntaxError, error) {
	input, err := antlr.NewFileStream(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	prog, errs := Parse(input)
	return prog, errs, nil
}

// ParseExpression parses a lone expression
func ParseExpression(src string) (ast.Expr, []SyntaxError) {
	p, errs := newPipeline(antlr.NewInputStream(src))
	expr := p.Expression()
	return expr, errs.Errors
}
