package symbols

import "strings"

// ParamDescriptor encodes a parameter tuple as "(IS)". It is a prefix of every
// full descriptor with the same parameters.
func ParamDescriptor(params []SymbolType) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(typeTable[p].descriptor)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Descriptor encodes parameters and return type as "(IS)V"
func Descriptor(params []SymbolType, ret SymbolType) string {
	return ParamDescriptor(params) + typeTable[ret].descriptor
}

// FormatParams renders a parameter tuple for humans: "(int, string)"
func FormatParams(params []SymbolType) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
