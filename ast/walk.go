package ast

// Inspect visits n and its descendants depth-first in source order. When f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *Unary:
		Inspect(n.X, f)
	case *Binary:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *Paren:
		Inspect(n.X, f)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *VarDecl:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *Assign:
		Inspect(n.Value, f)
	case *ExprStmt:
		Inspect(n.Call, f)
	case *FuncDef:
		Inspect(n.Body, f)
	case *If:
		for _, arm := range n.Arms {
			Inspect(arm.Cond, f)
			Inspect(arm.Body, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *Return:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *Uncertain:
		Inspect(n.Probability, f)
		Inspect(n.Body, f)
		if n.Otherwise != nil {
			Inspect(n.Otherwise, f)
		}
	}
}
