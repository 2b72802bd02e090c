package symbols

import (
	"errors"
	"fmt"
)

// ErrAmbiguousOverload is returned when a parameter descriptor matches more
// than one registered builtin overload. It signals a broken registry, not a
// user error.
var ErrAmbiguousOverload = errors.New("ambiguous builtin overload")

// EntryMode selects what IncrementScope does when the next depth already
// has records.
type EntryMode int

const (
	// NewRecord appends a sibling record at the next depth
	NewRecord EntryMode = iota
	// ResumeLast reattaches to the last record created at the next depth
	ResumeLast
)

// Position is the source position of a block's opening brace
type Position struct {
	Line   int
	Column int
}

// Scope is one record of the table: a lexical namespace
type Scope struct {
	parent  *Scope
	coords  Coordinates
	symbols map[string]Symbol
}

func newScope(parent *Scope, coords Coordinates) *Scope {
	return &Scope{
		parent:  parent,
		coords:  coords,
		symbols: make(map[string]Symbol),
	}
}

// Coordinates returns where the record lives in the table
func (s *Scope) Coordinates() Coordinates {
	return s.coords
}

// ParentDepth returns the depth of the enclosing record, -1 for the global one
func (s *Scope) ParentDepth() int {
	if s.parent == nil {
		return -1
	}
	return s.parent.coords.Depth
}

// Lookup searches this record and then its ancestors
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only this record
func (s *Scope) LookupLocal(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Symbols returns the names bound directly in this record
func (s *Scope) Symbols() map[string]Symbol {
	return s.symbols
}

type builtinOverloads struct {
	order  []string
	byDesc map[string]*FunctionSymbol
}

// SymbolTable stores scope records in an arena indexed by depth and index,
// plus the builtin-function registry. It is not safe for concurrent use.
type SymbolTable struct {
	records  [][]*Scope
	current  *Scope
	blocks   map[Position]Coordinates
	resume   []*Scope
	builtins map[string]*builtinOverloads
	names    []string
}

// NewSymbolTable creates a table holding only the global record and seeds the
// builtin registry from sigs.
func NewSymbolTable(sigs []BuiltinSignature) (*SymbolTable, error) {
	global := newScope(nil, GlobalCoordinates)
	st := &SymbolTable{
		records:  [][]*Scope{{global}},
		current:  global,
		blocks:   make(map[Position]Coordinates),
		builtins: make(map[string]*builtinOverloads),
	}

	for _, sig := range sigs {
		if err := st.registerBuiltin(sig); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// ===== SCOPED SYMBOLS =====

// Insert binds name in the current record. It fails if the record already
// binds name.
func (st *SymbolTable) Insert(name string, sym Symbol) bool {
	if _, exists := st.current.symbols[name]; exists {
		return false
	}
	sym.setCoordinates(st.current.coords)
	st.current.symbols[name] = sym
	return true
}

// Lookup resolves name from the current record outwards
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	return st.current.Lookup(name)
}

// LookupInCurrentScopeOnly resolves name in the current record only
func (st *SymbolTable) LookupInCurrentScopeOnly(name string) (Symbol, bool) {
	return st.current.LookupLocal(name)
}

// LookupInCoordinates resolves name in the record at coords, without walking
// to its parents.
func (st *SymbolTable) LookupInCoordinates(name string, coords Coordinates) (Symbol, bool) {
	sc := st.Record(coords)
	if sc == nil {
		return nil, false
	}
	return sc.LookupLocal(name)
}

// Record returns the record at coords or nil
func (st *SymbolTable) Record(coords Coordinates) *Scope {
	if coords.Depth < 0 || coords.Depth >= len(st.records) {
		return nil
	}
	row := st.records[coords.Depth]
	if coords.Index < 0 || coords.Index >= len(row) {
		return nil
	}
	return row[coords.Index]
}

// Current returns the record new symbols go into
func (st *SymbolTable) Current() *Scope {
	return st.current
}

// CurrentCoordinates returns the coordinates of the current record
func (st *SymbolTable) CurrentCoordinates() Coordinates {
	return st.current.coords
}

// Depth returns the depth of the current record
func (st *SymbolTable) Depth() int {
	return st.current.coords.Depth
}

// RecordCount returns how many records exist at depth
func (st *SymbolTable) RecordCount(depth int) int {
	if depth < 0 || depth >= len(st.records) {
		return 0
	}
	return len(st.records[depth])
}

// ===== SCOPE NAVIGATION =====

// IncrementScope descends one level. A depth that was never reached gets its
// first record. Otherwise mode decides between a new sibling and the last
// existing record.
func (st *SymbolTable) IncrementScope(mode EntryMode) {
	depth := st.current.coords.Depth + 1

	if depth == len(st.records) {
		st.records = append(st.records, nil)
	}
	row := st.records[depth]

	if mode == ResumeLast && len(row) > 0 {
		st.current = row[len(row)-1]
		return
	}

	sc := newScope(st.current, Coordinates{Depth: depth, Index: len(row)})
	st.records[depth] = append(row, sc)
	st.current = sc
}

// DecrementScope moves to the parent of the current record. It does nothing
// at global scope.
func (st *SymbolTable) DecrementScope() {
	if st.current.parent != nil {
		st.current = st.current.parent
	}
}

// RegisterBlockAtCurrentCoordinates remembers the current record under pos.
// The first registration of a position wins.
func (st *SymbolTable) RegisterBlockAtCurrentCoordinates(pos Position) {
	if _, ok := st.blocks[pos]; ok {
		return
	}
	st.blocks[pos] = st.current.coords
}

// GoToBlock makes the record registered under pos current, saving the
// previous one for RestoreLastCoordinates. It reports false and changes
// nothing when pos was never registered.
func (st *SymbolTable) GoToBlock(pos Position) bool {
	coords, ok := st.blocks[pos]
	if !ok {
		return false
	}
	sc := st.Record(coords)
	if sc == nil {
		return false
	}
	st.resume = append(st.resume, st.current)
	st.current = sc
	return true
}

// RestoreLastCoordinates undoes the most recent GoToBlock
func (st *SymbolTable) RestoreLastCoordinates() {
	if len(st.resume) == 0 {
		return
	}
	st.current = st.resume[len(st.resume)-1]
	st.resume = st.resume[:len(st.resume)-1]
}

// ===== BUILTINS =====

// BuiltinSignature describes one builtin overload
type BuiltinSignature struct {
	Name   string
	Params []SymbolType
	Return SymbolType
}

func (st *SymbolTable) registerBuiltin(sig BuiltinSignature) error {
	params := make([]Symbol, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = NewVariable(p, fmt.Sprintf("arg%d", i), 0)
		if params[i] == nil {
			return fmt.Errorf("builtin %s: parameter %d has invalid type %s", sig.Name, i, p)
		}
	}

	fn, err := NewFunctionSymbol(sig.Name, 0, params, sig.Return)
	if err != nil {
		return fmt.Errorf("builtin %s: %w", sig.Name, err)
	}

	entry, ok := st.builtins[sig.Name]
	if !ok {
		entry = &builtinOverloads{byDesc: make(map[string]*FunctionSymbol)}
		st.builtins[sig.Name] = entry
		st.names = append(st.names, sig.Name)
	} else {
		first := entry.byDesc[entry.order[0]]
		if first.ReturnType != sig.Return {
			return fmt.Errorf("builtin %s: overloads must share return type %s, got %s",
				sig.Name, first.ReturnType, sig.Return)
		}
	}

	paramDesc := ParamDescriptor(sig.Params)
	for _, desc := range entry.order {
		if ParamDescriptor(entry.byDesc[desc].ParamTypes()) == paramDesc {
			return fmt.Errorf("builtin %s: duplicate overload %s", sig.Name, FormatParams(sig.Params))
		}
	}

	desc := fn.Descriptor()
	entry.order = append(entry.order, desc)
	entry.byDesc[desc] = fn
	return nil
}

// LookupBuiltin returns the overload of name taking params. A nil params
// slice asks for any overload of name.
func (st *SymbolTable) LookupBuiltin(name string, params []SymbolType) (*FunctionSymbol, error) {
	if params == nil {
		entry, ok := st.builtins[name]
		if !ok {
			return nil, nil
		}
		return entry.byDesc[entry.order[0]], nil
	}
	return st.LookupBuiltinExactOverload(name, ParamDescriptor(params))
}

// LookupBuiltinExactOverload returns the overload of name whose descriptor
// starts with descriptor. No match gives nil; more than one match gives
// ErrAmbiguousOverload.
func (st *SymbolTable) LookupBuiltinExactOverload(name, descriptor string) (*FunctionSymbol, error) {
	entry, ok := st.builtins[name]
	if !ok {
		return nil, nil
	}

	var found *FunctionSymbol
	for _, desc := range entry.order {
		if len(desc) < len(descriptor) || desc[:len(descriptor)] != descriptor {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s%s", ErrAmbiguousOverload, name, descriptor)
		}
		found = entry.byDesc[desc]
	}
	return found, nil
}

// LookupBuiltinAllOverloads lists every overload of name in registration order
func (st *SymbolTable) LookupBuiltinAllOverloads(name string) []*FunctionSymbol {
	entry, ok := st.builtins[name]
	if !ok {
		return nil
	}
	out := make([]*FunctionSymbol, 0, len(entry.order))
	for _, desc := range entry.order {
		out = append(out, entry.byDesc[desc])
	}
	return out
}

// IsBuiltin reports whether any builtin overload is named name
func (st *SymbolTable) IsBuiltin(name string) bool {
	_, ok := st.builtins[name]
	return ok
}

// BuiltinNames lists builtin names in registration order
func (st *SymbolTable) BuiltinNames() []string {
	return st.names
}
