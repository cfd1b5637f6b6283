package format

import (
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
)

// widen finds the items of the innermost Module/Block that rng touches and
// returns the token indices of their first and last significant tokens.
func widen(tree *syntax.Tree, container *syntax.Node, rng source.Span) (first, last int, ok bool) {
	var hit []*syntax.Node
	for _, it := range container.Items() {
		s, e := extentSpan(tree, it)
		if touches(s, e, rng) {
			hit = append(hit, it)
		}
	}
	if len(hit) == 0 {
		return 0, 0, false
	}
	if len(hit) == 1 {
		for _, b := range innerBlocks(hit[0]) {
			if inside(tree, b, rng) {
				if f, l, ok := widen(tree, b, rng); ok {
					return f, l, true
				}
			}
		}
	}
	first, _ = hit[0].Extent()
	_, last = hit[len(hit)-1].Extent()
	return first, last, true
}

func extentSpan(tree *syntax.Tree, n *syntax.Node) (start, end uint32) {
	first, last := n.Extent()
	return tree.Tokens[first].Span.Start, tree.Tokens[last].Span.End
}

// touches: an empty range is a caret and touches the item it sits in or next to.
func touches(start, end uint32, rng source.Span) bool {
	if rng.Start == rng.End {
		return start <= rng.Start && rng.Start <= end
	}
	return start < rng.End && rng.Start < end
}

// inside reports whether rng lies strictly between the braces of block b.
func inside(tree *syntax.Tree, b *syntax.Node, rng source.Span) bool {
	open, closing := -1, -1
	for _, c := range b.Children {
		if c.IsLeaf() {
			if open < 0 {
				open = c.Tok
			}
			closing = c.Tok
		}
	}
	if open < 0 || open == closing {
		return false
	}
	return tree.Tokens[open].Span.End <= rng.Start && rng.End <= tree.Tokens[closing].Span.Start
}

// innerBlocks returns the Block nodes a statement controls directly: chain
// tails, if/else bodies, module bodies.
func innerBlocks(st *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	if st.Kind != syntax.Statement {
		return nil
	}
	for _, c := range st.Children {
		if c.Kind == syntax.Block {
			out = append(out, c)
			continue
		}
		if c.Kind == syntax.Statement {
			out = append(out, innerBlocks(c)...)
		}
	}
	return out
}
