package parser

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

// parseStatement выбирает по первому токену нужный распознаватель.
func (p *parser) parseStatement() (*syntax.Node, bool) {
	t := p.peek()
	switch {
	case t.Is(";"):
		return p.parseEmpty()
	case t.Is("{"):
		return p.parseBlockStmt()
	case t.Kind == token.Operator && token.IsModifier(t.Text):
		return p.parseInstantiation()
	case t.Kind == token.Identifier:
		switch t.Text {
		case "include", "use":
			if path := p.peekN(1); path.Kind == token.String && path.Flags&token.FlagIncludePath != 0 {
				return p.parseInclude()
			}
		case "module":
			return p.parseModuleDef()
		case "function":
			if p.peekN(1).Kind == token.Identifier {
				return p.parseFunctionDef()
			}
		case "if":
			return p.parseIf()
		}
		switch next := p.peekN(1); {
		case next.Is("="):
			return p.parseAssignment()
		case next.Is("("):
			return p.parseInstantiation()
		}
	}
	return nil, p.failHere(diag.SynExpectStatement, "expected statement, got "+describe(t))
}

// parseBody parses the statement controlled by an instantiation, if/else or module header.
func (p *parser) parseBody() (*syntax.Node, bool) {
	t := p.peek()
	switch {
	case t.Is(";"):
		return p.parseEmpty()
	case t.Is("{"):
		return p.parseBlockStmt()
	case t.IsIdent("if"):
		return p.parseIf()
	case t.Kind == token.Operator && token.IsModifier(t.Text):
		return p.parseInstantiation()
	case t.Kind == token.Identifier && (!token.IsKeyword(t.Text) || isChainKeyword(t.Text)):
		if p.peekN(1).Is("(") {
			return p.parseInstantiation()
		}
	}
	return nil, p.failHere(diag.SynExpectStatement, "expected statement, got "+describe(t))
}

func (p *parser) parseEmpty() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.Empty)
	if !p.take(st) {
		return nil, false
	}
	return p.seal(st), true
}

func (p *parser) parseBlockStmt() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.StmtBlock)
	b, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	st.Add(b)
	return p.seal(st), true
}

// parseBlock: '{' items '}'.
func (p *parser) parseBlock() (*syntax.Node, bool) {
	b := syntax.NewNode(syntax.Block)
	open := p.sig()
	if !p.take(b) {
		return nil, false
	}
	p.parseItems(b, true)
	if !p.peek().Is("}") {
		return nil, p.fail(open, diag.SynUnclosedBrace, "unclosed '{'")
	}
	if !p.take(b) {
		return nil, false
	}
	return p.seal(b), true
}

// parseInstantiation: modifiers* name(args) body
func (p *parser) parseInstantiation() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.Instantiation)
	for t := p.peek(); t.Kind == token.Operator && token.IsModifier(t.Text); t = p.peek() {
		m := syntax.NewNode(syntax.Modifier)
		if !p.take(m) {
			return nil, false
		}
		st.Add(p.seal(m))
	}

	name := p.peek()
	if name.Kind != token.Identifier || !p.peekN(1).Is("(") {
		return nil, p.failHere(diag.SynExpectIdentifier, "expected module name, got "+describe(name))
	}
	call, ok := p.parseCall(syntax.TransformationCall)
	if !ok {
		return nil, false
	}
	st.Add(call)

	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	st.Add(body)
	return p.seal(st), true
}

// parseIf: if (cond) body [else body]
func (p *parser) parseIf() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.If)
	if !p.take(st) {
		return nil, false
	}
	if !p.peek().Is("(") {
		return nil, p.failHere(diag.SynUnexpectedToken, "expected '(' after 'if'")
	}
	cond, ok := p.parseGroup(syntax.ArgumentList, false)
	if !ok {
		return nil, false
	}
	st.Add(cond)

	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	st.Add(body)

	if p.peek().IsIdent("else") {
		if !p.take(st) {
			return nil, false
		}
		alt, ok := p.parseBody()
		if !ok {
			return nil, false
		}
		st.Add(alt)
	}
	return p.seal(st), true
}

// parseModuleDef: module name(params) body
func (p *parser) parseModuleDef() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.ModuleDef)
	if !p.take(st) {
		return nil, false
	}
	if p.peek().Kind != token.Identifier {
		return nil, p.failHere(diag.SynExpectIdentifier, "expected module name, got "+describe(p.peek()))
	}
	if !p.take(st) {
		return nil, false
	}
	if !p.peek().Is("(") {
		return nil, p.failHere(diag.SynUnexpectedToken, "expected '(' after module name")
	}
	params, ok := p.parseGroup(syntax.ArgumentList, false)
	if !ok {
		return nil, false
	}
	st.Add(params)

	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	st.Add(body)
	return p.seal(st), true
}

// parseFunctionDef: function name(params) = expr;
func (p *parser) parseFunctionDef() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.FunctionDef)
	if !p.take(st) || !p.take(st) {
		return nil, false
	}
	if !p.peek().Is("(") {
		return nil, p.failHere(diag.SynUnexpectedToken, "expected '(' after function name")
	}
	params, ok := p.parseGroup(syntax.ArgumentList, false)
	if !ok {
		return nil, false
	}
	st.Add(params)
	if !p.expect(st, "=", diag.SynUnexpectedToken) {
		return nil, false
	}
	if !p.parseValue(st) {
		return nil, false
	}
	return p.seal(st), true
}

// parseAssignment: name = expr;
func (p *parser) parseAssignment() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.Assignment)
	if !p.take(st) || !p.take(st) {
		return nil, false
	}
	if !p.parseValue(st) {
		return nil, false
	}
	return p.seal(st), true
}

// parseValue parses `expr ;` as an Argument followed by the semicolon.
func (p *parser) parseValue(st *syntax.Node) bool {
	val := syntax.NewNode(syntax.Argument)
	if !p.parseExpr(val, stopAtSemicolon) {
		return false
	}
	st.Add(p.seal(val))
	return p.expect(st, ";", diag.SynExpectSemicolon)
}

// parseInclude: include <path> / use <path>
func (p *parser) parseInclude() (*syntax.Node, bool) {
	st := syntax.NewStatement(syntax.Include)
	if !p.take(st) || !p.take(st) {
		return nil, false
	}
	return p.seal(st), true
}
