package compiler

import (
	"errors"
	"fmt"
	"io"

	"github.com/antlr4-go/antlr/v4"
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/builtins"
	"github.com/arc-language/samo-checker/diagnostics"
	"github.com/arc-language/samo-checker/symbols"
)

// Context holds the state of one checking pass. A context belongs to a
// single compilation unit and must not be shared between goroutines.
type Context struct {
	Symbols     *symbols.SymbolTable
	Diagnostics *diagnostics.DiagnosticEngine
	Logger      *Logger
	File        string
}

// NewContext creates a context with a fresh symbol table seeded from p. A nil
// logger discards everything.
func NewContext(file string, p builtins.Provider, policy diagnostics.Policy, logger *Logger) (*Context, error) {
	if logger == nil {
		logger = NewLogger("", LogLevelSilent, io.Discard)
	}

	st, err := builtins.NewSymbolTable(p)
	if err != nil {
		return nil, fmt.Errorf("failed to register builtins: %w", err)
	}

	diags := diagnostics.NewDiagnosticEngine(policy)
	diags.SetFile(file)

	return &Context{
		Symbols:     st,
		Diagnostics: diags,
		Logger:      logger,
		File:        file,
	}, nil
}

// fatal reports a fatal diagnostic at tok
func (c *Context) fatal(tok antlr.Token, format string, args ...interface{}) {
	pos := ast.PosOf(tok)
	c.Logger.Debug("fatal at %d:%d: "+format, append([]interface{}{pos.Line, pos.Column}, args...)...)
	c.Diagnostics.FatalAt(pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

// errorf reports a non-fatal error at tok
func (c *Context) errorf(tok antlr.Token, format string, args ...interface{}) {
	pos := ast.PosOf(tok)
	c.Diagnostics.ErrorAt(pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

// warnf reports a warning at tok
func (c *Context) warnf(tok antlr.Token, format string, args ...interface{}) {
	pos := ast.PosOf(tok)
	c.Logger.WarningAt(c.File, pos.Line, pos.Column, format, args...)
	c.Diagnostics.WarningAt(pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

// checkConstant folds e only to surface errors such as division by zero.
// It reports whether e is free of them.
func (c *Context) checkConstant(e ast.Expr) bool {
	ev := evaluator{expr: e}
	return !c.reportFoldError(ev.Err(), e)
}

func (c *Context) reportFoldError(err error, e ast.Expr) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDivisionByZero) {
		c.fatal(e.Start(), "Division by zero in constant expression.")
	} else {
		c.fatal(e.Start(), "Internal error: %v.", err)
	}
	return true
}

// blockPosition is the key a block is registered under in the symbol table
func blockPosition(b *ast.Block) symbols.Position {
	pos := ast.PosOf(b.Lbrace)
	return symbols.Position{Line: pos.Line, Column: pos.Column}
}
