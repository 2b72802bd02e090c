package symbols

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestSymbolTypeProperties(t *testing.T) {
	tests := []struct {
		typ    SymbolType
		name   string
		relOp  bool
		compOp bool
	}{
		{Int, "int", true, true},
		{String, "string", false, true},
		{Bool, "boolie", false, true},
		{Function, "function", false, false},
		{Void, "void", false, false},
		{Unsupported, "thing", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.typ.String(), tt.name)
			be.Equal(t, tt.typ.CanUseWithRelOp(), tt.relOp)
			be.Equal(t, tt.typ.CanUseWithCompOp(), tt.compOp)
		})
	}
}

func TestDefaults(t *testing.T) {
	be.Equal(t, DefaultInt, int32(0xDEAD))
	be.Equal(t, DefaultString, "lawl")
	be.Equal(t, DefaultBool, true)
	be.Equal(t, Void.DefaultValue(), nil)
	be.Equal(t, NewIntSymbol("x", 1).Value, DefaultInt)
}

func TestParseTypeName(t *testing.T) {
	typ, ok := ParseTypeName("boolie")
	be.True(t, ok)
	be.Equal(t, typ, Bool)

	_, ok = ParseTypeName("bool")
	be.True(t, !ok)
}

func TestDescriptors(t *testing.T) {
	be.Equal(t, Descriptor([]SymbolType{Int, String, Bool}, Void), "(ISZ)V")
	be.Equal(t, ParamDescriptor(nil), "()")
	be.Equal(t, FormatParams([]SymbolType{Int, String}), "(int, string)")

	fn, err := NewFunctionSymbol("f", 1, []Symbol{NewBoolSymbol("b", 1)}, String)
	be.Err(t, err, nil)
	be.Equal(t, fn.Descriptor(), "(Z)S")
	be.True(t, fn.IsType(Function))
	be.True(t, !fn.IsType(String))
}
