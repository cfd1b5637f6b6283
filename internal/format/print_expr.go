package format

import (
	"strings"

	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

// group prints `( ... )` or `[ ... ]`. Lines kept inside are indented one
// level past the opener's line; a closer starting a line lines up with it.
func (p *printer) group(g *syntax.Node) {
	open, closing := -1, -1
	for i, c := range g.Children {
		if c.IsLeaf() {
			if open < 0 {
				open = i
			}
			closing = i
		}
	}
	for _, c := range g.Children[:open+1] {
		p.node(c)
	}
	openTok := g.Children[open].Tok
	base := p.indentFor(openTok, p.w.IndentOf(openTok))

	p.w.PushRaw(base + p.unit)
	p.frames = append(p.frames, frame{vector: g.Kind == syntax.Vector})
	for _, c := range g.Children[open+1 : closing] {
		p.node(c)
	}
	p.frames = p.frames[:len(p.frames)-1]
	p.w.Pop()

	p.w.PushRaw(base)
	p.node(g.Children[closing])
	p.w.Pop()
}

// argument prints one element of an argument list or vector. Inside a
// comprehension `for (..) let (..) expr`, a line kept before the k-th link
// is indented k levels past the line the argument starts on.
func (p *printer) argument(arg *syntax.Node) {
	cascade := p.cfg.IndentCascadingTransformations
	prefix := true
	links := 0
	pushed := false
	base := ""
	for _, c := range arg.Children {
		if c.IsTrivia() {
			p.node(c)
			continue
		}
		if !prefix || c.Kind != syntax.TransformationCall {
			prefix = false
			p.node(c)
			continue
		}
		p.node(c)
		if links == 0 {
			first := p.firstTok(c)
			base = p.indentFor(first, p.w.IndentOf(first))
		}
		links++
		if cascade {
			if pushed {
				p.w.Pop()
			}
			p.w.PushRaw(base + strings.Repeat(p.unit, links))
			pushed = true
		}
	}
	if pushed {
		p.w.Pop()
	}
}

// pair decides the spacing between the previous significant token and
// token i, and whether a line break the source has there is kept.
func (p *printer) pair(i int) (space, breakable bool) {
	if p.prev < 0 {
		return false, false
	}
	a, b := p.tree.Tokens[p.prev], p.tree.Tokens[i]
	switch {
	case b.Is(",") || b.Is(";"):
		return false, false
	case a.Is("(") || a.Is("["):
		return false, true
	case b.Is(")") || b.Is("]"):
		return false, true
	case a.Is(","):
		return p.cfg.SpaceAfterComma, true
	case a.Is(";"):
		return true, true
	case p.prevUnary:
		return false, false
	case a.Is(".") || b.Is("."):
		return false, false
	case b.Is(":") && p.rangeColon(), a.Is(":") && p.prevRange:
		return false, false
	case b.Is("(") || b.Is("["):
		return p.openSpace(a, b)
	case a.Is("=") || b.Is("="):
		return p.cfg.SpaceAroundAssignment, true
	case a.Kind == token.Operator:
		return p.cfg.SpaceAroundOperators, true
	case b.Kind == token.Operator && isUnaryText(b.Text) && p.unaryAt(i):
		return true, true
	case b.Kind == token.Operator:
		return p.cfg.SpaceAroundOperators, true
	}
	return true, true
}

// openSpace: spacing before '(' or '['. Calls and indexing stick to their
// callee, control keywords follow spaceAfterKeyword.
func (p *printer) openSpace(a, b token.Token) (bool, bool) {
	switch {
	case p.exprStart:
		return true, true
	case isKeywordTok(a):
		if !b.Is("(") {
			return true, true
		}
		if token.IsControlKeyword(a.Text) {
			return p.cfg.SpaceAfterKeyword, false
		}
		return false, false
	case a.Kind == token.Identifier, a.Kind == token.String, a.Is(")"), a.Is("]"):
		return false, false
	case a.Is("="):
		return p.cfg.SpaceAroundAssignment, true
	case a.Kind == token.Operator:
		return p.cfg.SpaceAroundOperators, true
	}
	return true, true
}

// unaryAt reports whether token i is a prefix operator: the previous token
// cannot end an operand.
func (p *printer) unaryAt(i int) bool {
	b := p.tree.Tokens[i]
	if b.Kind != token.Operator || !isUnaryText(b.Text) {
		return false
	}
	if p.prev < 0 || p.exprStart {
		return true
	}
	a := p.tree.Tokens[p.prev]
	switch {
	case a.Kind == token.Operator:
		return true
	case a.Is("(") || a.Is("[") || a.Is(",") || a.Is(";"):
		return true
	case isKeywordTok(a):
		return true
	}
	return false
}

// rangeColon: a ':' directly inside brackets with no pending '?' separates range bounds.
func (p *printer) rangeColon() bool {
	top := p.frames[len(p.frames)-1]
	return top.vector && top.ternary == 0
}

func isUnaryText(s string) bool {
	switch s {
	case "-", "+", "!", "~":
		return true
	}
	return false
}

// isKeywordTok: a keyword that is not a literal value.
func isKeywordTok(t token.Token) bool {
	if !t.IsKeyword() {
		return false
	}
	switch t.Text {
	case "true", "false", "undef":
		return false
	}
	return true
}
