package diagnostics

import (
	"errors"
	"fmt"
)

// Severity levels for diagnostics
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal, SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	}
	return "Info"
}

// Policy decides what a fatal diagnostic does to the running pass
type Policy int

const (
	// StopOnFirstFatal ends the pass at the first fatal diagnostic
	StopOnFirstFatal Policy = iota
	// CollectAll records fatal diagnostics and keeps going
	CollectAll
)

// ErrCompilationFailed matches every *Error returned by the engine
var ErrCompilationFailed = errors.New("compilation failed")

// Diagnostic represents a compiler diagnostic message
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	File     string
}

// String renders the diagnostic as "[Error, Line 3] message"
func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s:%d:%d: [%s, Line %d] %s", d.File, d.Line, d.Column, d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("[%s, Line %d] %s", d.Severity, d.Line, d.Message)
}

// Error is returned when a pass ends with fatal or error diagnostics
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return ErrCompilationFailed.Error()
	}
	first := e.Diagnostics[0]
	if len(e.Diagnostics) == 1 {
		return first.String()
	}
	return fmt.Sprintf("%s (and %d more error(s))", first, len(e.Diagnostics)-1)
}

// Is makes errors.Is(err, ErrCompilationFailed) hold
func (e *Error) Is(target error) bool {
	return target == ErrCompilationFailed
}

// First returns the first failing diagnostic
func (e *Error) First() Diagnostic {
	if len(e.Diagnostics) == 0 {
		return Diagnostic{Severity: SeverityFatal}
	}
	return e.Diagnostics[0]
}

// bailout carries a fatal diagnostic out of a pass under StopOnFirstFatal
type bailout struct {
	diag Diagnostic
}

// DiagnosticEngine collects and reports diagnostics
type DiagnosticEngine struct {
	diagnostics []Diagnostic
	policy      Policy
	file        string
	seen        map[Diagnostic]struct{}
	fatalCount  int
	errorCount  int
	warnCount   int
}

// NewDiagnosticEngine creates a new diagnostic engine
func NewDiagnosticEngine(policy Policy) *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
		policy:      policy,
		seen:        make(map[Diagnostic]struct{}),
	}
}

// SetFile sets the file name stamped on subsequent diagnostics
func (d *DiagnosticEngine) SetFile(file string) {
	d.file = file
}

// add records a diagnostic. A diagnostic identical to an earlier one is
// dropped and add reports false.
func (d *DiagnosticEngine) add(sev Severity, line, column int, message string) (Diagnostic, bool) {
	diag := Diagnostic{
		Severity: sev,
		Message:  message,
		Line:     line,
		Column:   column,
		File:     d.file,
	}
	if _, dup := d.seen[diag]; dup {
		return diag, false
	}
	d.seen[diag] = struct{}{}
	d.diagnostics = append(d.diagnostics, diag)
	return diag, true
}

// FatalAt reports a fatal error. Under StopOnFirstFatal it does not return:
// control goes back to the nearest Guard.
func (d *DiagnosticEngine) FatalAt(line, column int, message string) {
	diag, added := d.add(SeverityFatal, line, column, message)
	if added {
		d.fatalCount++
	}
	if d.policy == StopOnFirstFatal {
		panic(bailout{diag: diag})
	}
}

// ErrorAt reports an error that does not stop the pass by itself
func (d *DiagnosticEngine) ErrorAt(line, column int, message string) {
	if _, added := d.add(SeverityError, line, column, message); added {
		d.errorCount++
	}
}

// WarningAt reports a warning at a specific location
func (d *DiagnosticEngine) WarningAt(line, column int, message string) {
	if _, added := d.add(SeverityWarning, line, column, message); added {
		d.warnCount++
	}
}

// Guard runs fn and absorbs the bailout raised by FatalAt. It reports
// whether fn was cut short. Any other panic is passed on.
func (d *DiagnosticEngine) Guard(fn func()) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stopped = true
		}
	}()
	fn()
	return false
}

// HasErrors returns true if any fatal diagnostic or error was reported
func (d *DiagnosticEngine) HasErrors() bool {
	return d.fatalCount > 0 || d.errorCount > 0
}

// ErrorCount returns the number of fatal diagnostics and errors
func (d *DiagnosticEngine) ErrorCount() int {
	return d.fatalCount + d.errorCount
}

// FatalCount returns the number of fatal diagnostics
func (d *DiagnosticEngine) FatalCount() int {
	return d.fatalCount
}

// WarningCount returns the number of warnings
func (d *DiagnosticEngine) WarningCount() int {
	return d.warnCount
}

// Diagnostics returns everything reported so far, in order
func (d *DiagnosticEngine) Diagnostics() []Diagnostic {
	return d.diagnostics
}

// Err returns nil when nothing failed, otherwise an *Error listing the fatal
// diagnostics and errors. Fatal diagnostics come first.
func (d *DiagnosticEngine) Err() error {
	if !d.HasErrors() {
		return nil
	}
	failed := make([]Diagnostic, 0, d.ErrorCount())
	for _, diag := range d.diagnostics {
		if diag.Severity == SeverityFatal {
			failed = append(failed, diag)
		}
	}
	for _, diag := range d.diagnostics {
		if diag.Severity == SeverityError {
			failed = append(failed, diag)
		}
	}
	return &Error{Diagnostics: failed}
}
