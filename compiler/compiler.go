package compiler

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/diagnostics"
	"github.com/arc-language/samo-checker/parser"
	"github.com/arc-language/samo-checker/symbols"
)

// Compiler runs the static checking pass over samo sources
type Compiler struct {
	opts   Options
	logger *Logger
}

// Result is what one checked compilation unit leaves behind
type Result struct {
	File        string
	Program     *ast.Program
	Symbols     *symbols.SymbolTable
	Functions   []*symbols.FunctionSymbol
	Diagnostics *diagnostics.DiagnosticEngine
}

// NewCompiler creates a new compiler instance
func NewCompiler(opts Options) *Compiler {
	logger := NewLogger(fmt.Sprintf("[Compiler:%s]", opts.ModuleName), opts.LogLevel, opts.LogOutput)
	logger.Debug("Creating compiler for module '%s'", opts.ModuleName)

	return &Compiler{
		opts:   opts,
		logger: logger,
	}
}

// Logger returns the compiler's logger
func (c *Compiler) Logger() *Logger {
	return c.logger
}

// CheckFile parses and checks a samo source file. The result is returned
// even when the check fails, so that its diagnostics can be printed.
func (c *Compiler) CheckFile(filename string) (*Result, error) {
	c.logger.Info("Checking file: %s", filename)

	absPath, err := filepath.Abs(filename)
	if err != nil {
		c.logger.Error("Failed to resolve path '%s': %v", filename, err)
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	// Parse
	prog, syntaxErrs, err := parser.ParseFile(absPath)
	if err != nil {
		c.logger.Error("Failed to open file '%s': %v", filename, err)
		return nil, err
	}
	c.logSyntaxErrors(absPath, syntaxErrs)

	return c.checkProgram(absPath, prog)
}

// CheckString checks source held in memory; name labels its diagnostics
func (c *Compiler) CheckString(name, source string) (*Result, error) {
	c.logger.Debug("Checking source string %s (%d bytes)", name, len(source))

	prog, syntaxErrs := parser.ParseString(source)
	c.logSyntaxErrors(name, syntaxErrs)

	return c.checkProgram(name, prog)
}

// CheckReader checks source read from r, such as standard input
func (c *Compiler) CheckReader(name string, r io.Reader) (*Result, error) {
	c.logger.Debug("Checking source read from %s", name)

	prog, syntaxErrs := parser.ParseReader(r)
	c.logSyntaxErrors(name, syntaxErrs)

	return c.checkProgram(name, prog)
}

// CheckSources checks every file of set, each against a fresh symbol table.
// All files are checked even after a failure.
func (c *Compiler) CheckSources(set *SourceSet) ([]*Result, error) {
	c.logger.Info("Checking %d file(s)", set.Len())

	var (
		results  []*Result
		firstErr error
		failed   int
	)
	for i, file := range set.Files() {
		c.logger.Debug("Checking file %d/%d: %s", i+1, set.Len(), file)

		res, err := c.CheckFile(file)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if failed > 0 {
		return results, fmt.Errorf("%d of %d file(s) failed: %w", failed, set.Len(), firstErr)
	}
	return results, nil
}

func (c *Compiler) checkProgram(file string, prog *ast.Program) (*Result, error) {
	ctx, err := NewContext(file, c.opts.builtins(), c.opts.Policy, c.logger)
	if err != nil {
		return nil, err
	}

	checker := NewStaticTypeChecker(ctx)
	checkErr := checker.Check(prog)

	res := &Result{
		File:        file,
		Program:     prog,
		Symbols:     ctx.Symbols,
		Functions:   checker.Functions(),
		Diagnostics: ctx.Diagnostics,
	}

	if checkErr != nil {
		c.logger.Debug("check of %s failed: %v", file, checkErr)
		return res, fmt.Errorf("check failed with %d error(s) in %s: %w",
			ctx.Diagnostics.ErrorCount(), file, checkErr)
	}

	c.logger.Info("Successfully checked: %s", file)
	return res, nil
}

func (c *Compiler) logSyntaxErrors(file string, errs []parser.SyntaxError) {
	for _, e := range errs {
		c.logger.Debug("%s:%d:%d: syntax error: %s", file, e.Line, e.Column, e.Message)
	}
}
