package compiler

import (
	"github.com/arc-language/samo-checker/ast"
	"github.com/arc-language/samo-checker/symbols"
)

// PathNode is a node of a function's control path tree
type PathNode interface {
	pathNode()
}

// StrayBlock is a run of statements without branches
type StrayBlock struct {
	Returns bool
}

// ControlBlock is a sequence entered as a whole: a function body or one arm
// of a branch.
type ControlBlock struct {
	Children []PathNode
}

// IfNode holds one arm per if, else-if and else block
type IfNode struct {
	Arms    []*ControlBlock
	HasElse bool
}

// WhileNode holds the loop body
type WhileNode struct {
	Body *ControlBlock
}

// FunctionRoot is the tree root
type FunctionRoot struct {
	ControlBlock
}

func (*StrayBlock) pathNode()   {}
func (*ControlBlock) pathNode() {}
func (*IfNode) pathNode()       {}
func (*WhileNode) pathNode()    {}
func (*FunctionRoot) pathNode() {}

// ReturnsOnAllPaths folds the tree below the root
func (r *FunctionRoot) ReturnsOnAllPaths() bool {
	return foldPaths(r)
}

// foldPaths computes completeness bottom-up. A sequence returns when any of
// its steps does; an if without else and a while never count as a step.
func foldPaths(node PathNode) bool {
	switch n := node.(type) {
	case *StrayBlock:
		return n.Returns
	case *FunctionRoot:
		return foldSequence(n.Children)
	case *ControlBlock:
		return foldSequence(n.Children)
	case *IfNode:
		if !n.HasElse {
			return false
		}
		for _, arm := range n.Arms {
			if !foldPaths(arm) {
				return false
			}
		}
		return true
	case *WhileNode:
		return false
	}
	return false
}

func foldSequence(children []PathNode) bool {
	switch len(children) {
	case 0:
		return false
	case 1:
		return foldPaths(children[0])
	}
	for _, child := range children {
		switch c := child.(type) {
		case *WhileNode:
			continue
		case *IfNode:
			if !c.HasElse {
				continue
			}
		}
		if foldPaths(child) {
			return true
		}
	}
	return false
}

// ReturnCompletenessAnalyzer proves that every path through a function body
// ends in a return of the right type.
type ReturnCompletenessAnalyzer struct {
	ctx      *Context
	detector *TypeDetector
}

// NewReturnCompletenessAnalyzer creates an analyzer over ctx's symbol table.
// The blocks it walks must already be registered by the checker.
func NewReturnCompletenessAnalyzer(ctx *Context, detector *TypeDetector) *ReturnCompletenessAnalyzer {
	return &ReturnCompletenessAnalyzer{ctx: ctx, detector: detector}
}

// CheckAllControlPathsForReturns reports whether body returns a ret value on
// every path. Void functions always pass.
func (a *ReturnCompletenessAnalyzer) CheckAllControlPathsForReturns(body *ast.Block, ret symbols.SymbolType) bool {
	if ret == symbols.Void {
		return true
	}
	return a.BuildPaths(body, ret).ReturnsOnAllPaths()
}

// BuildPaths builds the path tree of body without folding it
func (a *ReturnCompletenessAnalyzer) BuildPaths(body *ast.Block, ret symbols.SymbolType) *FunctionRoot {
	b := &pathBuilder{ctx: a.ctx, detector: a.detector, ret: ret}
	return &FunctionRoot{ControlBlock: *b.block(body)}
}

type pathBuilder struct {
	ctx      *Context
	detector *TypeDetector
	ret      symbols.SymbolType
}

func (b *pathBuilder) block(blk *ast.Block) *ControlBlock {
	cb := &ControlBlock{}
	stray := &StrayBlock{}
	cb.Children = append(cb.Children, stray)

	b.inScopeOf(blk, func() {
		b.statements(blk.Stmts, cb, &stray)
	})
	return cb
}

// arm builds a control block around a single statement
func (b *pathBuilder) arm(s ast.Stmt) *ControlBlock {
	if blk, ok := s.(*ast.Block); ok {
		return b.block(blk)
	}
	cb := &ControlBlock{}
	stray := &StrayBlock{}
	cb.Children = append(cb.Children, stray)
	b.statements([]ast.Stmt{s}, cb, &stray)
	return cb
}

func (b *pathBuilder) statements(stmts []ast.Stmt, cb *ControlBlock, stray **StrayBlock) {
	next := func(node PathNode) {
		*stray = &StrayBlock{}
		cb.Children = append(cb.Children, node, *stray)
	}

	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Return:
			if !(*stray).Returns && b.returnMatches(n) {
				(*stray).Returns = true
			}

		case *ast.Block:
			// a bare block runs unconditionally, so it continues the
			// current stray block
			b.inScopeOf(n, func() {
				b.statements(n.Stmts, cb, stray)
			})

		case *ast.If:
			node := &IfNode{HasElse: n.Else != nil}
			for _, arm := range n.Arms {
				node.Arms = append(node.Arms, b.block(arm.Body))
			}
			if n.Else != nil {
				node.Arms = append(node.Arms, b.block(n.Else))
			}
			next(node)

		case *ast.While:
			next(&WhileNode{Body: b.block(n.Body)})

		case *ast.Uncertain:
			node := &IfNode{HasElse: n.Otherwise != nil}
			node.Arms = append(node.Arms, b.arm(n.Body))
			if n.Otherwise != nil {
				node.Arms = append(node.Arms, b.arm(n.Otherwise))
			}
			next(node)
		}
	}
}

func (b *pathBuilder) returnMatches(r *ast.Return) bool {
	if r.Value == nil {
		return b.ret == symbols.Void
	}
	homogeneous, t := b.detector.Detect(r.Value)
	return homogeneous && t == b.ret
}

func (b *pathBuilder) inScopeOf(blk *ast.Block, fn func()) {
	if b.ctx.Symbols.GoToBlock(blockPosition(blk)) {
		defer b.ctx.Symbols.RestoreLastCoordinates()
	}
	fn()
}
