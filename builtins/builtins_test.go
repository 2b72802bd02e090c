package builtins

import (
	"testing"

	"github.com/arc-language/samo-checker/symbols"
	"github.com/nalgeon/be"
)

func TestStandardLibraryRegisters(t *testing.T) {
	st, err := NewSymbolTable(Standard())
	be.Err(t, err, nil)

	tests := []struct {
		name   string
		params []symbols.SymbolType
		ret    symbols.SymbolType
	}{
		{"putout", []symbols.SymbolType{symbols.Int}, symbols.Void},
		{"putout", []symbols.SymbolType{symbols.Bool}, symbols.Void},
		{"putout", []symbols.SymbolType{symbols.String}, symbols.Void},
		{"putinInt", []symbols.SymbolType{}, symbols.Int},
		{"putinBoolie", []symbols.SymbolType{}, symbols.Bool},
		{"putinString", []symbols.SymbolType{}, symbols.String},
		{"stoi", []symbols.SymbolType{symbols.String}, symbols.Int},
		{"itos", []symbols.SymbolType{symbols.Int}, symbols.String},
	}
	for _, tt := range tests {
		t.Run(tt.name+symbols.ParamDescriptor(tt.params), func(t *testing.T) {
			fn, err := st.LookupBuiltin(tt.name, tt.params)
			be.Err(t, err, nil)
			be.True(t, fn != nil)
			be.Equal(t, fn.ReturnType, tt.ret)
		})
	}
}

func TestCustomLibrary(t *testing.T) {
	lib := Library{{Name: "twice", Params: []symbols.SymbolType{symbols.Int}, Return: symbols.Int}}
	st, err := NewSymbolTable(lib)
	be.Err(t, err, nil)
	be.True(t, st.IsBuiltin("twice"))
	be.True(t, !st.IsBuiltin("putout"))
}
