package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"scadfmt/internal/syntax"
)

// CheckTreeInvariants runs the structural invariants of a parsed file:
// 1) every token, EOF included, is the leaf of exactly one node, in document order
// 2) the leaf texts concatenate back to the file content
// 3) interior nodes cover their children and stay within the file
func CheckTreeInvariants(tree *syntax.Tree) error {
	if tree == nil || tree.File == nil || tree.Root == nil {
		return fmt.Errorf("nil tree")
	}
	lenContent, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) leaf order
	next := 0
	for leaf := range tree.Leaves(tree.Root) {
		if leaf.Tok != next {
			return fmt.Errorf("leaf for token %d found where token %d was expected", leaf.Tok, next)
		}
		next++
	}
	if next != len(tree.Tokens) {
		return fmt.Errorf("%d of %d tokens reached from the root", next, len(tree.Tokens))
	}

	// 2) lossless
	if got := tree.Text(tree.Root); got != string(tree.File.Content) {
		return fmt.Errorf("tree text differs from source: %d bytes vs %d", len(got), len(tree.File.Content))
	}

	// 3) token ranges
	var bad error
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if bad != nil || n.IsLeaf() {
			return false
		}
		if n.First == syntax.NoTok {
			return true
		}
		if n.First > n.Last {
			bad = fmt.Errorf("%s covers tokens %d..%d", n.Kind, n.First, n.Last)
			return false
		}
		if sp := tree.Tokens[n.First].Span.Cover(tree.Tokens[n.Last].Span); sp.End > lenContent {
			bad = fmt.Errorf("%s span %v is outside of the file", n.Kind, sp)
			return false
		}
		for _, c := range n.Children {
			first, last := c.Extent()
			if first == syntax.NoTok {
				continue
			}
			if first < n.First || last > n.Last {
				bad = fmt.Errorf("%s tokens %d..%d are outside of parent %s %d..%d", c.Kind, first, last, n.Kind, n.First, n.Last)
				return false
			}
		}
		return true
	})
	return bad
}
