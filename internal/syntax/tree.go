package syntax

import (
	"iter"
	"strings"

	"scadfmt/internal/source"
	"scadfmt/internal/token"
)

// Tree is the parse result for one file.
type Tree struct {
	File   *source.File
	Tokens []token.Token // full token sequence, last one is EOF
	Root   *Node
}

// Tok returns the token behind a leaf.
func (t *Tree) Tok(n *Node) token.Token {
	return t.Tokens[n.Tok]
}

// TokAt returns token i, or the EOF token when i is out of range.
func (t *Tree) TokAt(i int) token.Token {
	if i < 0 || i >= len(t.Tokens) {
		return t.Tokens[len(t.Tokens)-1]
	}
	return t.Tokens[i]
}

// Leaves yields every Token leaf under n in document order, attachments included.
func (t *Tree) Leaves(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkLeaves(n, yield)
	}
}

func walkLeaves(n *Node, yield func(*Node) bool) bool {
	for _, c := range n.Leading {
		if !walkLeaves(c, yield) {
			return false
		}
	}
	if n.Kind == Token {
		if !yield(n) {
			return false
		}
	}
	for _, c := range n.Children {
		if !walkLeaves(c, yield) {
			return false
		}
	}
	for _, c := range n.Trailing {
		if !walkLeaves(c, yield) {
			return false
		}
	}
	return true
}

// Text concatenates the leaf texts of n (attachments included).
func (t *Tree) Text(n *Node) string {
	var b strings.Builder
	for leaf := range t.Leaves(n) {
		b.WriteString(t.Tokens[leaf.Tok].Text)
	}
	return b.String()
}

// Newlines counts Newline tokens strictly between token indices a and b.
func (t *Tree) Newlines(a, b int) int {
	n := 0
	for i := max(a+1, 0); i < b && i < len(t.Tokens); i++ {
		if t.Tokens[i].Kind == token.Newline {
			n++
		}
	}
	return n
}

// Walk visits n and its descendants depth-first (attachments included) until visit returns false.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Leading {
		Walk(c, visit)
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
	for _, c := range n.Trailing {
		Walk(c, visit)
	}
}

// ChainLinks flattens a chain of instantiations: for `a() b() c();` it
// returns the three Instantiation statements and the tail that ends the
// chain (the ';' leaf, a Block statement, an If statement).
func ChainLinks(st *Node) (links []*Node, tail *Node) {
	cur := st
	for cur.IsStmt(Instantiation) {
		links = append(links, cur)
		body := cur.LastSignificant()
		if body == nil || body.Kind == TransformationCall {
			return links, nil
		}
		if !body.IsStmt(Instantiation) {
			return links, body
		}
		cur = body
	}
	return links, nil
}

// Call returns the TransformationCall of an Instantiation statement.
func Call(st *Node) *Node {
	for _, c := range st.Children {
		if c.Kind == TransformationCall {
			return c
		}
	}
	return nil
}

// BlockOf returns the Block node of a StmtBlock statement.
func BlockOf(st *Node) *Node {
	for _, c := range st.Children {
		if c.Kind == Block {
			return c
		}
	}
	return nil
}
