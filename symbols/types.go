// Package symbols holds the symbol model and the scoped symbol table used by
// the samo checker.
package symbols

// SymbolType tags every symbol and every expression result
type SymbolType int

const (
	Unsupported SymbolType = iota
	Int
	String
	Bool
	Function
	Void
)

type typeInfo struct {
	name         string
	descriptor   string
	relOp        bool
	compOp       bool
	defaultValue interface{}
}

var typeTable = map[SymbolType]typeInfo{
	Int:         {name: "int", descriptor: "I", relOp: true, compOp: true, defaultValue: int32(0xDEAD)},
	String:      {name: "string", descriptor: "S", relOp: false, compOp: true, defaultValue: "lawl"},
	Bool:        {name: "boolie", descriptor: "Z", relOp: false, compOp: true, defaultValue: true},
	Function:    {name: "function"},
	Void:        {name: "void", descriptor: "V"},
	Unsupported: {name: "thing"},
}

// String returns the source-level name of the type
func (t SymbolType) String() string {
	if info, ok := typeTable[t]; ok {
		return info.name
	}
	return typeTable[Unsupported].name
}

// CanUseWithRelOp reports whether values of t may appear around <, <=, > and >=
func (t SymbolType) CanUseWithRelOp() bool {
	return typeTable[t].relOp
}

// CanUseWithCompOp reports whether values of t may appear around == and !=
func (t SymbolType) CanUseWithCompOp() bool {
	return typeTable[t].compOp
}

// DefaultValue returns the value a symbol of type t holds when it has no
// computable initializer. Function, Void and Unsupported have none.
func (t SymbolType) DefaultValue() interface{} {
	return typeTable[t].defaultValue
}

// DefaultInt, DefaultString and DefaultBool are the typed defaults.
var (
	DefaultInt    = Int.DefaultValue().(int32)
	DefaultString = String.DefaultValue().(string)
	DefaultBool   = Bool.DefaultValue().(bool)
)

// IsValidReturnType reports whether a function may be declared to return t
func (t SymbolType) IsValidReturnType() bool {
	switch t {
	case Int, String, Bool, Void:
		return true
	}
	return false
}

// ParseTypeName maps a type keyword to its SymbolType
func ParseTypeName(name string) (SymbolType, bool) {
	switch name {
	case "int":
		return Int, true
	case "string":
		return String, true
	case "boolie":
		return Bool, true
	case "void":
		return Void, true
	}
	return Unsupported, false
}
