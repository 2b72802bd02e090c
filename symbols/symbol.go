package symbols

import "fmt"

// Coordinates address one scope record: its depth and its index among the
// records created at that depth.
type Coordinates struct {
	Depth int
	Index int
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d, %d)", c.Depth, c.Index)
}

// GlobalCoordinates is where the global record lives
var GlobalCoordinates = Coordinates{}

// Symbol is a named entity stored in the symbol table
type Symbol interface {
	Name() string
	Type() SymbolType
	IsType(t SymbolType) bool
	FirstAppearedLine() int
	IsInferredType() bool
	IsInitialValueCalculated() bool
	InitializeExpressionPresent() bool
	Coordinates() Coordinates

	setCoordinates(c Coordinates)
}

// Info carries the attributes shared by every symbol variant
type Info struct {
	Ident                  string
	Line                   int
	Inferred               bool
	InitialValueCalculated bool
	InitializerPresent     bool
	coords                 Coordinates
}

func (i *Info) Name() string { return i.Ident }
func (i *Info) FirstAppearedLine() int { return i.Line }
func (i *Info) IsInferredType() bool { return i.Inferred }
func (i *Info) IsInitialValueCalculated() bool { return i.InitialValueCalculated }
func (i *Info) InitializeExpressionPresent() bool { return i.InitializerPresent }
func (i *Info) Coordinates() Coordinates { return i.coords }
func (i *Info) setCoordinates(c Coordinates) { i.coords = c }

// IntSymbol is an int variable
type IntSymbol struct {
	Info
	Value int32
}

// NewIntSymbol creates an int symbol holding the default value
func NewIntSymbol(name string, line int) *IntSymbol {
	return &IntSymbol{Info: Info{Ident: name, Line: line}, Value: DefaultInt}
}

func (s *IntSymbol) Type() SymbolType { return Int }
func (s *IntSymbol) IsType(t SymbolType) bool { return t == Int }

// StringSymbol is a string variable
type StringSymbol struct {
	Info
	Value string
}

// NewStringSymbol creates a string symbol holding the default value
func NewStringSymbol(name string, line int) *StringSymbol {
	return &StringSymbol{Info: Info{Ident: name, Line: line}, Value: DefaultString}
}

func (s *StringSymbol) Type() SymbolType { return String }
func (s *StringSymbol) IsType(t SymbolType) bool { return t == String }

// BoolSymbol is a boolie variable
type BoolSymbol struct {
	Info
	Value bool
}

// NewBoolSymbol creates a boolie symbol holding the default value
func NewBoolSymbol(name string, line int) *BoolSymbol {
	return &BoolSymbol{Info: Info{Ident: name, Line: line}, Value: DefaultBool}
}

func (s *BoolSymbol) Type() SymbolType { return Bool }
func (s *BoolSymbol) IsType(t SymbolType) bool { return t == Bool }

// NewVariable creates a default-valued variable symbol of type t. It returns
// nil for types that cannot be stored in a variable.
func NewVariable(t SymbolType, name string, line int) Symbol {
	switch t {
	case Int:
		return NewIntSymbol(name, line)
	case String:
		return NewStringSymbol(name, line)
	case Bool:
		return NewBoolSymbol(name, line)
	}
	return nil
}

// FunctionSymbol is a user-defined or builtin function signature
type FunctionSymbol struct {
	Info
	Params     []Symbol
	ReturnType SymbolType
}

// NewFunctionSymbol creates a function symbol. Return types outside
// int, string, boolie and void are rejected.
func NewFunctionSymbol(name string, line int, params []Symbol, ret SymbolType) (*FunctionSymbol, error) {
	if !ret.IsValidReturnType() {
		return nil, fmt.Errorf("function %s cannot return %s", name, ret)
	}
	return &FunctionSymbol{
		Info:       Info{Ident: name, Line: line, InitialValueCalculated: true},
		Params:     params,
		ReturnType: ret,
	}, nil
}

func (s *FunctionSymbol) Type() SymbolType { return Function }
func (s *FunctionSymbol) IsType(t SymbolType) bool { return t == Function }

// ParamTypes lists the declared parameter types in order
func (s *FunctionSymbol) ParamTypes() []SymbolType {
	types := make([]SymbolType, len(s.Params))
	for i, p := range s.Params {
		types[i] = p.Type()
	}
	return types
}

// Descriptor is the full descriptor of the function, return type included
func (s *FunctionSymbol) Descriptor() string {
	return Descriptor(s.ParamTypes(), s.ReturnType)
}
