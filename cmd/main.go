package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arc-language/samo-checker/compiler"
	"github.com/arc-language/samo-checker/diagnostics"
	"github.com/arc-language/samo-checker/symbols"
	"github.com/peterh/liner"
)

const version = "0.1.0"

const (
	historyFile = ".samoc_history"
	promptMain  = "samo> "
	promptCont  = "  ... "
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin))
}

// run checks the sources named by args and returns the exit code: 0 when
// every source passed, 1 when one failed or could not be read, 2 on bad usage.
func run(args []string, stdin io.Reader) int {
	fs := flag.NewFlagSet("samoc", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var debug, collect, quiet, showVersion, interactive bool
	var logLevel string
	fs.BoolVar(&debug, "d", false, "log every step of the check")
	fs.BoolVar(&debug, "debug", false, "log every step of the check")
	fs.StringVar(&logLevel, "log", "warning", "lowest level logged: debug, info, warning, error or silent")
	fs.BoolVar(&collect, "collect", false, "keep checking after the first fatal error")
	fs.BoolVar(&quiet, "q", false, "print nothing; report through the exit code only")
	fs.BoolVar(&showVersion, "v", false, "print the version and exit")
	fs.BoolVar(&showVersion, "version", false, "print the version and exit")
	fs.BoolVar(&interactive, "i", false, "start an interactive session")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Printf("samoc %s\n", version)
		return 0
	}

	opts := compiler.DefaultOptions()
	if collect {
		opts.Policy = diagnostics.CollectAll
	}
	level, err := compiler.ParseLogLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	opts.LogLevel = level
	switch {
	case quiet:
		opts.LogLevel = compiler.LogLevelSilent
	case debug:
		opts.LogLevel = compiler.LogLevelDebug
	}

	if interactive {
		opts.ModuleName = "repl"
		return repl(opts)
	}

	if fs.NArg() == 0 {
		printUsage(fs)
		return 2
	}

	var (
		comp    *compiler.Compiler
		results []*compiler.Result
		checked int
	)
	if fs.NArg() == 1 && fs.Arg(0) == "-" {
		opts.ModuleName = "stdin"
		comp = compiler.NewCompiler(opts)

		var res *compiler.Result
		res, err = comp.CheckReader("<stdin>", stdin)
		if res != nil {
			results = append(results, res)
		}
		checked = 1
	} else {
		set := compiler.NewSourceSet()
		for _, path := range fs.Args() {
			if err := set.Add(path); err != nil {
				if !quiet {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
				return 1
			}
		}
		if set.Len() == 1 {
			file := set.Files()[0]
			opts.ModuleName = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}

		comp = compiler.NewCompiler(opts)
		results, err = comp.CheckSources(set)
		checked = set.Len()
	}

	for _, res := range results {
		reportDiagnostics(comp.Logger(), res)
	}
	comp.Logger().PrintSummary()

	if err != nil {
		if !quiet && !errors.Is(err, diagnostics.ErrCompilationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	if !quiet {
		fmt.Printf("✓ %d file(s) checked\n", checked)
	}
	return 0
}

// reportDiagnostics logs the failing diagnostics of res. Warnings were
// already logged while checking.
func reportDiagnostics(logger *compiler.Logger, res *compiler.Result) {
	for _, d := range res.Diagnostics.Diagnostics() {
		if d.Severity == diagnostics.SeverityFatal || d.Severity == diagnostics.SeverityError {
			logger.ErrorAt(res.File, d.Line, d.Column, "%s", d.Message)
		}
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: samoc [flags] <file|dir>...\n")
	fmt.Fprintf(os.Stderr, "       samoc [flags] -\n")
	fmt.Fprintf(os.Stderr, "       samoc -i\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  samoc program.samo          # Check one file\n")
	fmt.Fprintf(os.Stderr, "  samoc -collect src/         # Check every file, listing all errors\n")
	fmt.Fprintf(os.Stderr, "  samoc -log info - < a.samo  # Check standard input\n")
}

// ============================================================================
// REPL
// ============================================================================

// repl checks each entry against everything accepted before it. Entries that
// fail are reported and dropped.
func repl(opts compiler.Options) int {
	fmt.Printf("samoc %s interactive checker. Commands: :symbols :reset :quit\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession(opts)
	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if s.command(trimmed, os.Stdout) {
				return 0
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
		s.eval(entry, os.Stderr)
	}
}

// session is the program accepted so far in an interactive run
type session struct {
	comp    *compiler.Compiler
	program string
	lines   int
	last    *compiler.Result
}

// newSession creates an empty session. The session prints diagnostics
// itself, so the logger only speaks when debugging.
func newSession(opts compiler.Options) *session {
	if opts.LogLevel != compiler.LogLevelDebug {
		opts.LogLevel = compiler.LogLevelSilent
	}
	return &session{comp: compiler.NewCompiler(opts)}
}

// command runs a colon command and reports whether the session should end
func (s *session) command(cmd string, w io.Writer) bool {
	switch strings.ToLower(cmd) {
	case ":quit":
		return true
	case ":reset":
		s.program, s.lines, s.last = "", 0, nil
		fmt.Fprintln(w, "program cleared")
	case ":symbols":
		printSymbols(w, s.last)
	default:
		fmt.Fprintln(w, "unknown command. Type :quit to exit.")
	}
	return false
}

// eval checks entry appended to the program. Only diagnostics that point
// into entry are printed, with lines counted from its start. The entry is
// kept when the check passes.
func (s *session) eval(entry string, w io.Writer) bool {
	candidate := s.program + entry + "\n"
	res, err := s.comp.CheckString("<repl>", candidate)
	if res != nil {
		for _, d := range entryDiagnostics(res, s.lines) {
			fmt.Fprintln(w, d)
		}
	}
	if err != nil {
		return false
	}

	s.program, s.last = candidate, res
	s.lines += strings.Count(entry, "\n") + 1
	return true
}

// entryDiagnostics returns the diagnostics of res below line offset, moved
// up by offset lines
func entryDiagnostics(res *compiler.Result, offset int) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, d := range res.Diagnostics.Diagnostics() {
		if d.Line <= offset {
			continue
		}
		d.Line -= offset
		out = append(out, d)
	}
	return out
}

// readEntry reads lines until braces balance
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if braceDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// braceDepth counts unclosed braces outside string literals and comments
func braceDepth(src string) int {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return depth
}

func printSymbols(w io.Writer, res *compiler.Result) {
	if res == nil {
		fmt.Fprintln(w, "no symbols yet")
		return
	}

	global := res.Symbols.Record(symbols.GlobalCoordinates)
	names := make([]string, 0, len(global.Symbols()))
	for name := range global.Symbols() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sym := global.Symbols()[name]
		switch s := sym.(type) {
		case *symbols.FunctionSymbol:
			fmt.Fprintf(w, "  fn %s%s %s\n", name, symbols.FormatParams(s.ParamTypes()), s.ReturnType)
		case *symbols.IntSymbol:
			fmt.Fprintf(w, "  %s %s%s\n", s.Type(), name, constantSuffix(s.IsInitialValueCalculated(), s.Value))
		case *symbols.StringSymbol:
			fmt.Fprintf(w, "  %s %s%s\n", s.Type(), name, constantSuffix(s.IsInitialValueCalculated(), fmt.Sprintf("%q", s.Value)))
		case *symbols.BoolSymbol:
			fmt.Fprintf(w, "  %s %s%s\n", s.Type(), name, constantSuffix(s.IsInitialValueCalculated(), s.Value))
		}
	}
}

func constantSuffix(known bool, value interface{}) string {
	if !known {
		return ""
	}
	return fmt.Sprintf(" = %v", value)
}
