package parser

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

func stopAtSemicolon(t token.Token) bool { return t.Is(";") }

func stopInArgs(t token.Token) bool { return t.Is(",") || t.Is(")") }

func stopInForHeader(t token.Token) bool { return t.Is(",") || t.Is(")") || t.Is(";") }

func stopInVector(t token.Token) bool { return t.Is(",") || t.Is("]") }

// isChainKeyword: keywords that head a call-like link in statements and expressions.
func isChainKeyword(name string) bool {
	switch name {
	case "for", "intersection_for", "let", "assert", "echo", "each", "if", "function":
		return true
	}
	return false
}

// parseExpr parses tokens into n until stop matches at depth 0.
// Precedence is not modelled: an expression is a run of tokens and groups.
func (p *parser) parseExpr(n *syntax.Node, stop func(token.Token) bool) bool {
	count := 0
	callee := false
	for {
		i := p.sig()
		t := p.toks[i]
		if t.Kind == token.EOF {
			return p.fail(i, diag.SynExpectExpression, "unexpected end of file in expression")
		}
		if stop(t) {
			break
		}
		switch {
		case t.Is("("):
			kind := syntax.Paren
			if callee {
				kind = syntax.ArgumentList
			}
			g, ok := p.parseGroup(kind, false)
			if !ok {
				return false
			}
			n.Add(g)
			callee = true
		case t.Is("["):
			v, ok := p.parseVector()
			if !ok {
				return false
			}
			n.Add(v)
			callee = true
		case t.Is("{"), t.Is("}"), t.Is(";"), t.IsClose():
			return p.fail(i, diag.SynUnexpectedToken, "unexpected "+describe(t)+" in expression")
		case t.Kind == token.Identifier && isChainKeyword(t.Text) && p.peekN(1).Is("("):
			call, ok := p.parseCall(syntax.TransformationCall)
			if !ok {
				return false
			}
			n.Add(call)
			callee = false
		default:
			if !p.take(n) {
				return false
			}
			callee = t.Kind == token.String || (t.Kind == token.Identifier && !token.IsKeyword(t.Text))
		}
		count++
	}
	if count == 0 {
		return p.failHere(diag.SynExpectExpression, "expected expression, got "+describe(p.peek()))
	}
	return true
}

// parseCall: name(args) as a node of the given kind with the name leaf first.
func (p *parser) parseCall(kind syntax.Kind) (*syntax.Node, bool) {
	call := syntax.NewNode(kind)
	forHeader := p.peek().IsIdent("for")
	if !p.take(call) {
		return nil, false
	}
	args, ok := p.parseGroup(syntax.ArgumentList, forHeader)
	if !ok {
		return nil, false
	}
	call.Add(args)
	return p.seal(call), true
}

// parseGroup: '(' [arg {',' arg} [',']] ')'. A C-style for header also
// separates its parts with ';'.
func (p *parser) parseGroup(kind syntax.Kind, forHeader bool) (*syntax.Node, bool) {
	stop := stopInArgs
	if forHeader {
		stop = stopInForHeader
	}
	g := syntax.NewNode(kind)
	open := p.sig()
	if !p.take(g) {
		return nil, false
	}
	for {
		t := p.peek()
		if t.Is(")") {
			break
		}
		if t.Kind == token.EOF {
			return nil, p.fail(open, diag.SynUnclosedParen, "unclosed '('")
		}
		arg := syntax.NewNode(syntax.Argument)
		if !p.parseExpr(arg, stop) {
			return nil, false
		}
		g.Add(p.seal(arg))
		t = p.peek()
		if t.Is(",") || (forHeader && t.Is(";")) {
			if !p.take(g) {
				return nil, false
			}
		}
	}
	if !p.take(g) {
		return nil, false
	}
	return p.seal(g), true
}

// parseVector: '[' [elem {',' elem} [',']] ']', also used for indexing.
func (p *parser) parseVector() (*syntax.Node, bool) {
	v := syntax.NewNode(syntax.Vector)
	open := p.sig()
	if !p.take(v) {
		return nil, false
	}
	for {
		t := p.peek()
		if t.Is("]") {
			break
		}
		if t.Kind == token.EOF {
			return nil, p.fail(open, diag.SynUnclosedBracket, "unclosed '['")
		}
		elem := syntax.NewNode(syntax.Argument)
		if !p.parseExpr(elem, stopInVector) {
			return nil, false
		}
		v.Add(p.seal(elem))
		if p.peek().Is(",") {
			if !p.take(v) {
				return nil, false
			}
		}
	}
	if !p.take(v) {
		return nil, false
	}
	return p.seal(v), true
}
