package lsp

import (
	"encoding/json"
	"sort"

	"scadfmt/internal/diag"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	doc, ok := s.snapshot(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, buildFoldingRanges(doc.text))
}

// buildFoldingRanges folds multi-line blocks, bracket groups and block
// comments. The closing line stays visible.
func buildFoldingRanges(text string) []foldingRange {
	file := virtualFile("", text)
	tree := parser.Parse(file, parser.Options{Reporter: diag.NopReporter{}})
	ranges := make([]foldingRange, 0, 8)
	seen := make(map[[2]int]struct{})
	add := func(start, end int, kind string) {
		if end <= start {
			return
		}
		key := [2]int{start, end}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		ranges = append(ranges, foldingRange{StartLine: start, EndLine: end, Kind: kind})
	}

	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.IsLeaf() {
			return false
		}
		switch n.Kind {
		case syntax.Block, syntax.ArgumentList, syntax.Vector:
			open, closing, ok := brackets(tree, n)
			if !ok {
				return true
			}
			add(lineForOffset(file, open.Span.Start), lineForOffset(file, closing.Span.Start)-1, "")
		}
		return true
	})

	for _, tok := range tree.Tokens {
		if tok.Kind != token.Comment || tok.IsLineComment() {
			continue
		}
		end := tok.Span.End
		if end > tok.Span.Start {
			end--
		}
		add(lineForOffset(file, tok.Span.Start), lineForOffset(file, end), "comment")
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}

// brackets returns the opening and closing bracket leaves of n; trivia in
// front of the opener belongs to n as well.
func brackets(tree *syntax.Tree, n *syntax.Node) (open, closing token.Token, ok bool) {
	first, last := -1, -1
	for i, c := range n.Children {
		if !c.IsLeaf() {
			continue
		}
		tok := tree.TokAt(c.Tok)
		if first < 0 && tok.IsOpen() {
			first = i
		}
		if tok.IsClose() {
			last = i
		}
	}
	if first < 0 || last < first {
		return token.Token{}, token.Token{}, false
	}
	return tree.TokAt(n.Children[first].Tok), tree.TokAt(n.Children[last].Tok), true
}

func lineForOffset(file *source.File, offset uint32) int {
	return positionForOffsetInFile(file, offset).Line
}
