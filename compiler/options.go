package compiler

import (
	"io"
	"os"

	"github.com/arc-language/samo-checker/builtins"
	"github.com/arc-language/samo-checker/diagnostics"
)

// Options configures a Compiler
type Options struct {
	// ModuleName appears in log prefixes
	ModuleName string
	// Policy decides whether the first fatal diagnostic ends a check
	Policy diagnostics.Policy
	// LogLevel is the lowest level the logger prints
	LogLevel LogLevel
	// LogOutput receives log lines; nil means stderr
	LogOutput io.Writer
	// Builtins seeds every symbol table; nil means builtins.Standard()
	Builtins builtins.Provider
}

// DefaultOptions stops on the first fatal error and logs warnings and errors
// to stderr.
func DefaultOptions() Options {
	return Options{
		ModuleName: "main",
		Policy:     diagnostics.StopOnFirstFatal,
		LogLevel:   LogLevelWarning,
		LogOutput:  os.Stderr,
		Builtins:   builtins.Standard(),
	}
}

func (o Options) builtins() builtins.Provider {
	if o.Builtins == nil {
		return builtins.Standard()
	}
	return o.Builtins
}
