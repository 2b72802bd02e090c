package compiler

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/arc-language/samo-checker/diagnostics"
	"github.com/arc-language/samo-checker/symbols"
	"github.com/nalgeon/be"
)

func newTestCompiler(policy diagnostics.Policy) *Compiler {
	opts := DefaultOptions()
	opts.Policy = policy
	opts.LogLevel = LogLevelSilent
	opts.LogOutput = io.Discard
	return NewCompiler(opts)
}

func checkSource(t *testing.T, src string) (*Result, error) {
	t.Helper()
	res, err := newTestCompiler(diagnostics.StopOnFirstFatal).CheckString("test.samo", src)
	be.True(t, res != nil)
	return res, err
}

// failure returns the first failing diagnostic of err
func failure(t *testing.T, err error) string {
	t.Helper()
	be.True(t, errors.Is(err, diagnostics.ErrCompilationFailed))
	var derr *diagnostics.Error
	be.True(t, errors.As(err, &derr))
	return derr.First().Message
}

func hasMessage(res *Result, msg string) bool {
	for _, d := range res.Diagnostics.Diagnostics() {
		if d.Message == msg {
			return true
		}
	}
	return false
}

func TestConstantDeclaration(t *testing.T) {
	res, err := checkSource(t, "int x = 2 + 3;\nboolie b = 1 > 2;\nstring s = \"ab\" + \"c\";")
	be.Err(t, err, nil)

	sym, ok := res.Symbols.Lookup("x")
	be.True(t, ok)
	x := sym.(*symbols.IntSymbol)
	be.Equal(t, x.Value, int32(5))
	be.True(t, x.IsInitialValueCalculated())
	be.True(t, x.InitializeExpressionPresent())
	be.Equal(t, x.Coordinates(), symbols.GlobalCoordinates)

	sym, _ = res.Symbols.Lookup("b")
	b := sym.(*symbols.BoolSymbol)
	be.Equal(t, b.Value, false)
	be.True(t, b.IsInitialValueCalculated())

	sym, _ = res.Symbols.Lookup("s")
	be.Equal(t, sym.(*symbols.StringSymbol).Value, "abc")
}

func TestRedeclaration(t *testing.T) {
	_, err := checkSource(t, "int x = 2 + 3;\nint x = 1;")
	be.Equal(t, failure(t, err), "Identifier x was declared before on line 1.")

	// the whole reachable chain counts
	_, err = checkSource(t, "int x = 1;\n{\n  string x;\n}")
	be.Equal(t, failure(t, err), "Identifier x was declared before on line 1.")
}

func TestDeclarationsWithoutInitializer(t *testing.T) {
	res, err := checkSource(t, "int a;\nstring s;\nboolie b;")
	be.Err(t, err, nil)

	sym, _ := res.Symbols.Lookup("a")
	be.Equal(t, sym.(*symbols.IntSymbol).Value, symbols.DefaultInt)
	be.True(t, sym.IsInitialValueCalculated())
	be.True(t, !sym.InitializeExpressionPresent())

	sym, _ = res.Symbols.Lookup("s")
	be.Equal(t, sym.(*symbols.StringSymbol).Value, "lawl")

	_, err = checkSource(t, "void v;")
	be.Equal(t, failure(t, err), "Void types for variable declarations are not allowed.")
}

func TestInitializerNotConstant(t *testing.T) {
	res, err := checkSource(t, "int a = 1;\nint b = a + 1;")
	be.Err(t, err, nil)

	sym, _ := res.Symbols.Lookup("b")
	b := sym.(*symbols.IntSymbol)
	be.True(t, !b.IsInitialValueCalculated())
	be.Equal(t, b.Value, symbols.DefaultInt)
}

func TestInitializerTypeMismatch(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`int x = "a";`, "Expected int expression on RHS, found string."},
		{`string s = 1 + "a";`, "Expected string expression on RHS, found mismatched types."},
		{`boolie b = 1;`, "Expected boolie expression on RHS, found int."},
		{`int x = 1 - "a" - "b";`, "Expected int expression on RHS, found mismatched types."},
		{`string s = "a" - "b";`, "Invalid string expression on RHS."},
		{`int y = q;`, "Unknown identifier q."},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), test.want)
		})
	}
}

func TestComparisonDetails(t *testing.T) {
	res, err := checkSource(t, `boolie b = "a" < "b";`)
	be.Equal(t, failure(t, err), "Invalid boolie expression on RHS.")
	be.True(t, hasMessage(res, "The operator '<' cannot be used with string."))

	res, err = checkSource(t, `boolie b = 1 == "a";`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Cannot compare int on LHS with string on RHS."))

	res, err = checkSource(t, `boolie b = 1 + "a" == 2;`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Expression on LHS has mixed types."))

	_, err = checkSource(t, `boolie b = "a" == "b" and 2 >= 1 xor not true;`)
	be.Err(t, err, nil)
}

func TestInferredDeclaration(t *testing.T) {
	res, err := checkSource(t, "let s = \"a\" + \"b\";\nlet n = 7 % 4;\nlet c = n > 2;")
	be.Err(t, err, nil)

	sym, _ := res.Symbols.Lookup("s")
	be.True(t, sym.IsInferredType())
	be.Equal(t, sym.(*symbols.StringSymbol).Value, "ab")

	sym, _ = res.Symbols.Lookup("n")
	be.Equal(t, sym.(*symbols.IntSymbol).Value, int32(3))

	sym, _ = res.Symbols.Lookup("c")
	be.True(t, sym.IsType(symbols.Bool))
	be.True(t, !sym.IsInitialValueCalculated())

	_, err = checkSource(t, `let m = 1 + "a";`)
	be.Equal(t, failure(t, err), "Mismatched types in expression on RHS of type-inferred declaration.")
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"declaration", "int z = 1 / 0;"},
		{"assignment", "int z = 5;\nz = 10 % (3 - 3);"},
		{"builtin argument", "putout(1 / 0);"},
		{"user argument", "fn f(int n) { putout(n); }\nf(2 % (1 - 1));"},
		{"nested call argument", "int z = stoi(itos(4 / 0));"},
		{"return", "fn f() int { return 1 % 0; }"},
		{"if condition", "if (1 % 0 == 0) { putout(1); }"},
		{"while condition", "while (not (8 / 0 > 1)) { putout(1); }"},
		{"probability", "maybe (10 / 0) putout(1);"},
		{"uncertainty", "maybe (10 / (5 - 5)) { putout(1); }"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), "Division by zero in constant expression.")
		})
	}

	// a divisor that is not constant is left to the runtime
	_, err := checkSource(t, "int d = putinInt();\nputout(10 / d);\nif (10 % d == 0) { putout(d); }")
	be.Err(t, err, nil)
}

func TestAssignment(t *testing.T) {
	_, err := checkSource(t, "int x;\nx = x * 2 + 1;")
	be.Err(t, err, nil)

	tests := []struct {
		src  string
		want string
	}{
		{"x = 1;", "Assignment to previously undeclared symbol."},
		{"fn f() {}\nf = 1;", "Cannot assign to an identifier of type function."},
		{"putout = 1;", "Identifier putout is a builtin function, so it cannot be assigned to."},
		{"string s;\ns = 1;", "Expected string expression on RHS, found int."},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), test.want)
		})
	}
}

func TestBuiltinNamesAreReserved(t *testing.T) {
	_, err := checkSource(t, "int putout = 1;")
	be.Equal(t, failure(t, err), "Identifier putout is a builtin function, so it cannot be redefined.")

	_, err = checkSource(t, "fn stoi(string s) int { return 1; }")
	be.Equal(t, failure(t, err), "stoi is a built-in function and cannot be redefined.")

	_, err = checkSource(t, "fn f(int itos) {}")
	be.Equal(t, failure(t, err), "Identifier itos is a builtin function, so it cannot be redefined.")
}

func TestFunctionCalls(t *testing.T) {
	_, err := checkSource(t, `fn add(int a, int b) int { return a + b; }
int s = add(1, 2 * 3);
putout(itos(s) + "!");
putout(s > 2);
string line = putinString();`)
	be.Err(t, err, nil)

	tests := []struct {
		src  string
		want string
	}{
		{"fn foo(int a) {}\nfoo(\"x\");", "Type mismatch in argument 1 of call to foo: expected int."},
		{"itos(\"x\");", "Bad arguments passed to builtin function itos. Use one of the following overloads: 1. (int)"},
		{"putout(1, 2);", "Bad arguments passed to builtin function putout. Use one of the following overloads: 1. (int) 2. (boolie) 3. (string)"},
		{"fn foo(int a) {}\nfoo(1, 2);", "Expected 1 arguments for call to foo but 2 arguments were provided."},
		{"int x;\nx(1);", "Cannot call x as a function: it is of type int."},
		{"nope();", "Unknown function nope."},
		{"putout(1 + \"a\");", "Mismatched types in argument 1 of call to putout."},
		{"fn f() {}\nint x = f() + 1;", "Illegal return type of function call in expression. The function call returns no value."},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), test.want)
		})
	}
}

func TestBoolArgumentsComeFromTheBooleanSublist(t *testing.T) {
	accepted := []string{
		"fn f(boolie a, int b) {}\nf(1 < 2, 3);",
		// boolie parameters take the boolean-form arguments whatever their position
		"fn f(boolie a, int b) {}\nf(3, 1 < 2);",
		"fn f(int a, boolie b, string c) {}\nf(not true, 1, \"x\");",
		// a boolie variable is not boolean form, so it fills the gap
		"fn g(boolie a, boolie b) {}\nboolie t = true;\ng(t, 1 < 2);",
	}
	for _, src := range accepted {
		t.Run(src, func(t *testing.T) {
			_, err := checkSource(t, src)
			be.Err(t, err, nil)
		})
	}

	_, err := checkSource(t, "fn h(int a, int b) {}\nh(1, 2 < 3);")
	be.Equal(t, failure(t, err), "Type mismatch in argument 2 of call to h: expected int.")

	_, err = checkSource(t, "fn k(boolie a) {}\nk(3);")
	be.Equal(t, failure(t, err), "Type mismatch in argument 1 of call to k: expected boolie.")
}

func TestRecursion(t *testing.T) {
	res, err := checkSource(t, `fn fact(int n) int {
    if (n < 2) {
        return 1;
    }
    return n * fact(n - 1);
}
putout(fact(5));`)
	be.Err(t, err, nil)
	be.Equal(t, len(res.Functions), 1)
	be.Equal(t, res.Functions[0].Descriptor(), "(I)I")
}

func TestParametersShareTheBodyScope(t *testing.T) {
	_, err := checkSource(t, "fn f(int a) {\n  int a = 2;\n}")
	be.Equal(t, failure(t, err), "Identifier a was declared before on line 1.")

	_, err = checkSource(t, "fn f(int a, string a) {}")
	be.Equal(t, failure(t, err), "Identifier a was declared before on line 1.")

	_, err = checkSource(t, "fn f(void a) {}")
	be.Equal(t, failure(t, err), "Parameter a of function f cannot be of type void.")

	// sibling functions get sibling records
	_, err = checkSource(t, "fn f(int a) {}\nfn g(int a) {}")
	be.Err(t, err, nil)

	// a parameter may reuse its function's name; the function is declared
	// after its parameters, and inside the body the name is the parameter
	_, err = checkSource(t, "fn f(int f) int { return f + 1; }")
	be.Err(t, err, nil)

	// a global declared earlier still clashes with a parameter
	_, err = checkSource(t, "int a = 1;\nfn f(int a) {}")
	be.Equal(t, failure(t, err), "Identifier a was declared before on line 1.")
}

func TestReturnCompleteness(t *testing.T) {
	complete := []string{
		"fn f(boolie c) int {\n  if (c) { return 1; } else { return 2; }\n}",
		"fn f(boolie c) int {\n  if (c) { return 1; }\n  return 2;\n}",
		"fn f() int {\n  while (true) { return 1; }\n  return 0;\n}",
		"fn f(int n) string {\n  if (n > 1) { return \"a\"; } else if (n > 0) { return \"b\"; } else { return \"c\"; }\n}",
		"fn f() int {\n  { return 1; }\n}",
		"fn f() {\n  putout(1);\n}",
	}
	for _, src := range complete {
		_, err := checkSource(t, src)
		be.Err(t, err, nil)
	}

	incomplete := []string{
		"fn f(boolie c) int {\n  if (c) { return 1; }\n}",
		"fn f() int {\n  while (true) { return 1; }\n}",
		"fn f(int n) int {\n  if (n > 1) { return 1; } else if (n > 0) { return 2; }\n}",
		"fn f(boolie c) int {\n  if (c) { return 1; } else { putout(1); }\n}",
	}
	for _, src := range incomplete {
		_, err := checkSource(t, src)
		be.Equal(t, failure(t, err), "Not all possible execution paths in the function return a value of type int.")
	}
}

func TestReturnStatements(t *testing.T) {
	res, err := checkSource(t, `fn f() int { return "a"; }`)
	be.Equal(t, failure(t, err), "Function body contains errors. (There may be additional information above.)")
	be.True(t, hasMessage(res, "Expected a return value of type int, found string."))

	res, err = checkSource(t, `fn f() int { putout(1); }`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Function must return a value of type int."))

	res, err = checkSource(t, `fn f() int { return; }`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Expected a return value of type int, found none."))

	res, err = checkSource(t, `fn f() { return 1; }`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Cannot return a value from a function returning void."))

	res, err = checkSource(t, `fn f() int { return 1 + "a"; }`)
	be.Err(t, err)
	be.True(t, hasMessage(res, "Mismatched types in expression in return statement."))

	_, err = checkSource(t, "return 1;")
	be.Equal(t, failure(t, err), "Return statement outside of a function.")
}

func TestNestedFunctionsRejected(t *testing.T) {
	_, err := checkSource(t, "fn outer() {\n  fn inner() {}\n}")
	be.Equal(t, failure(t, err), "Functions within functions are not yet supported.")
}

func TestLoopsAndConditions(t *testing.T) {
	_, err := checkSource(t, "int i = 0;\nwhile (i < 10) {\n  if (i == 5) { break; }\n  i = i + 1;\n  continue;\n}")
	be.Err(t, err, nil)

	tests := []struct {
		src  string
		want string
	}{
		{"break;", "Breakout statement must be within a loop."},
		{"continue;", "Continue statement must be within a loop."},
		{"if (1) {}", "Invalid boolean expression in condition for if statement."},
		{"while (\"a\") {}", "Invalid boolean expression in condition for while statement."},
		{"while (true) {\n  fn f() { break; }\n}", "Breakout statement must be within a loop."},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), test.want)
		})
	}
}

func TestBlockScopes(t *testing.T) {
	res, err := checkSource(t, "if (true) { int a = 1; }\nif (true) { int a = 2; }\nint a = 3;")
	be.Err(t, err, nil)

	// each if body got its own record at depth 1
	be.Equal(t, res.Symbols.RecordCount(1), 2)
	first := res.Symbols.Record(symbols.Coordinates{Depth: 1, Index: 0})
	a, ok := first.LookupLocal("a")
	be.True(t, ok)
	be.Equal(t, a.(*symbols.IntSymbol).Value, int32(1))

	sym, _ := res.Symbols.Lookup("a")
	be.Equal(t, sym.FirstAppearedLine(), 3)
}

func TestUncertainStatements(t *testing.T) {
	_, err := checkSource(t, "maybe (50) putout(1); otherwise putout(2);\nmaybe (10 * 2) { int x = 1; putout(x); }")
	be.Err(t, err, nil)

	tests := []struct {
		src  string
		want string
	}{
		{"maybe (50) int x = 1;", "Variable declarations and return statements cannot be probable as of now."},
		{"maybe (50) int x = 1; otherwise putout(1);", "Infeasible probable statement: variable declarations and return statements cannot be probable as of now."},
		{"maybe (50) putout(1); otherwise int y = 2;", "Infeasible alternate statement: variable declarations and return statements cannot be alternates as of now."},
		{"maybe (\"a\") putout(1);", "Probability must be provided as an expression that evaluates to int."},
		{"maybe (1 + \"a\") putout(1);", "Expression has mixed types. Expected an int expression for probability."},
		{"maybe (true) { putout(1); }", "Uncertainty must be provided as an expression that evaluates to int."},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := checkSource(t, test.src)
			be.Equal(t, failure(t, err), test.want)
		})
	}

	res, err := checkSource(t, "maybe (50) { maybe (20) putout(1); otherwise putout(2); }")
	be.Err(t, err, nil)
	be.Equal(t, res.Diagnostics.WarningCount(), 1)
}

func TestUncertainBlocksCountAsBranches(t *testing.T) {
	_, err := checkSource(t, "fn f() int {\n  maybe (50) { return 1; } otherwise { return 2; }\n}")
	be.Err(t, err, nil)

	_, err = checkSource(t, "fn f() int {\n  maybe (50) { return 1; }\n}")
	be.Equal(t, failure(t, err), "Not all possible execution paths in the function return a value of type int.")
}

func TestNeedsWarns(t *testing.T) {
	res, err := checkSource(t, `needs "io";`)
	be.Err(t, err, nil)
	be.Equal(t, res.Diagnostics.WarningCount(), 1)
	be.True(t, hasMessage(res, "Needs statement is not yet supported."))
}

func TestSyntaxErrorsAreFatal(t *testing.T) {
	_, err := checkSource(t, "int x = ;\nint y = 1;")
	be.True(t, strings.HasPrefix(failure(t, err), "Syntax error at '1:"))
}

func TestCollectAll(t *testing.T) {
	src := "int a = \"s\";\nbreak;\nstring b = 1;\nint c = 1;"

	res, err := newTestCompiler(diagnostics.StopOnFirstFatal).CheckString("t.samo", src)
	be.Err(t, err)
	be.Equal(t, res.Diagnostics.FatalCount(), 1)

	res, err = newTestCompiler(diagnostics.CollectAll).CheckString("t.samo", src)
	be.Err(t, err)
	be.Equal(t, res.Diagnostics.FatalCount(), 3)

	// the pass kept going past every failure
	_, ok := res.Symbols.Lookup("c")
	be.True(t, ok)

	var derr *diagnostics.Error
	be.True(t, errors.As(err, &derr))
	be.Equal(t, derr.Diagnostics[2].Line, 3)
}
