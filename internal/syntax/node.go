package syntax

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/source"
)

// NoTok marks nodes that are not Token leaves.
const NoTok = -1

// Node is one element of the concrete syntax tree.
type Node struct {
	Kind Kind
	Stmt StmtKind
	// Span covers Children only; Leading/Trailing are outside of it.
	Span source.Span
	// Tok indexes Tree.Tokens for Token leaves, NoTok otherwise.
	Tok      int
	Children []*Node
	Leading  []*Node
	Trailing []*Node
	// Err is set on Unknown nodes: the code of the error that caused recovery.
	Err diag.Code
	// Newlines counts line breaks inside a Whitespace node.
	Newlines int
	// First/Last are token indices of the first and last leaf in Children, NoTok when empty.
	First, Last int
}

// NewNode returns an empty interior node.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind, Tok: NoTok, First: NoTok, Last: NoTok}
}

// NewStatement returns an empty statement node of the given sub-kind.
func NewStatement(kind StmtKind) *Node {
	n := NewNode(Statement)
	n.Stmt = kind
	return n
}

// NewLeaf returns a Token leaf for token index i.
func NewLeaf(i int) *Node {
	return &Node{Kind: Token, Tok: i, First: i, Last: i}
}

// Add appends child and widens First/Last to the child's extent.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
	first, last := child.Extent()
	if first == NoTok {
		return
	}
	if n.First == NoTok {
		n.First = first
	}
	n.Last = last
}

// IsLeaf reports whether n is a Token leaf.
func (n *Node) IsLeaf() bool { return n.Kind == Token }

// IsTrivia reports whether n is a standalone Comment or Whitespace node.
func (n *Node) IsTrivia() bool { return n.Kind == Comment || n.Kind == Whitespace }

// IsStmt reports whether n is a statement of kind k.
func (n *Node) IsStmt(k StmtKind) bool { return n != nil && n.Kind == Statement && n.Stmt == k }

// Extent returns the token index range of n including its attachments.
func (n *Node) Extent() (first, last int) {
	first, last = n.First, n.Last
	if len(n.Leading) > 0 && n.Leading[0].First != NoTok {
		first = n.Leading[0].First
	}
	if k := len(n.Trailing); k > 0 && n.Trailing[k-1].Last != NoTok {
		last = n.Trailing[k-1].Last
	}
	return first, last
}

// Significant returns the children that are neither Comment nor Whitespace nodes.
func (n *Node) Significant() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsTrivia() {
			out = append(out, c)
		}
	}
	return out
}

// LastSignificant returns the last child that is not trivia, or nil.
func (n *Node) LastSignificant() *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if !n.Children[i].IsTrivia() {
			return n.Children[i]
		}
	}
	return nil
}

// FirstSignificant returns the first child that is not trivia, or nil.
func (n *Node) FirstSignificant() *Node {
	for _, c := range n.Children {
		if !c.IsTrivia() {
			return c
		}
	}
	return nil
}

// Items returns the statement-level children of a Module or Block:
// statements, unknown regions and standalone comments. Braces and
// whitespace are skipped, so are comments in front of a block's '{'.
func (n *Node) Items() []*Node {
	children := n.Children
	if n.Kind == Block {
		for i, c := range children {
			if c.IsLeaf() {
				children = children[i+1:]
				break
			}
		}
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		switch c.Kind {
		case Statement, Unknown, Comment:
			out = append(out, c)
		}
	}
	return out
}
