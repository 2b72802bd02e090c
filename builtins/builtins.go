// Package builtins lists the runtime library functions every samo program
// can call without declaring them.
package builtins

import "github.com/arc-language/samo-checker/symbols"

// Signature describes one overload of a builtin
type Signature = symbols.BuiltinSignature

// Provider supplies the builtin overloads used to seed a symbol table
type Provider interface {
	AllSignatures() []Signature
}

// Library is a fixed list of signatures
type Library []Signature

// AllSignatures returns the library contents
func (l Library) AllSignatures() []Signature {
	return l
}

var standard = Library{
	{Name: "putout", Params: []symbols.SymbolType{symbols.Int}, Return: symbols.Void},
	{Name: "putout", Params: []symbols.SymbolType{symbols.Bool}, Return: symbols.Void},
	{Name: "putout", Params: []symbols.SymbolType{symbols.String}, Return: symbols.Void},
	{Name: "putinInt", Return: symbols.Int},
	{Name: "putinBoolie", Return: symbols.Bool},
	{Name: "putinString", Return: symbols.String},
	{Name: "stoi", Params: []symbols.SymbolType{symbols.String}, Return: symbols.Int},
	{Name: "itos", Params: []symbols.SymbolType{symbols.Int}, Return: symbols.String},
}

// Standard returns the runtime library shipped with the language
func Standard() Provider {
	return standard
}

// NewSymbolTable builds a symbol table seeded with p's builtins
func NewSymbolTable(p Provider) (*symbols.SymbolTable, error) {
	return symbols.NewSymbolTable(p.AllSignatures())
}
