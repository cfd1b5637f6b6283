package format

import (
	"scadfmt/internal/style"
	"scadfmt/internal/syntax"
)

func (p *printer) statement(st *syntax.Node) {
	switch st.Stmt {
	case syntax.Instantiation:
		p.chain(st)
	case syntax.If:
		p.ifStmt(st)
	case syntax.ModuleDef:
		p.moduleDef(st)
	case syntax.StmtBlock:
		p.blockStmt(st, true)
	default:
		p.simple(st)
	}
}

// simple prints assignments, function definitions, includes and lone ';'.
// A line break kept inside gets one extra level; the first token itself
// stays at the current indent.
func (p *printer) simple(st *syntax.Node) {
	saved, savedPending := p.cont, p.contPending
	p.cont = p.indentFor(p.headTok(st), p.w.Indent()) + p.unit
	p.contPending = true
	p.children(st)
	if !p.contPending {
		p.w.Pop()
	}
	p.cont, p.contPending = saved, savedPending
}

// chain prints `a() b() c() body`: every link after the first goes on its
// own line one level deeper, or stays where the source put it when
// cascading indentation is off.
func (p *printer) chain(st *syntax.Node) {
	links, tail := syntax.ChainLinks(st)
	pushes := 0
	for k, link := range links {
		if k > 0 {
			pushes += p.linkBreak(links[k-1], link)
		}
		p.link(link)
	}
	if tail != nil {
		p.body(links[len(links)-1], tail)
	}
	for range pushes {
		p.w.Pop()
	}
}

// link prints the modifiers and call of one instantiation, not its body.
func (p *printer) link(st *syntax.Node) {
	body := st.LastSignificant()
	for _, c := range st.Children {
		if c == body && c.Kind == syntax.Statement {
			break
		}
		p.node(c)
	}
}

// linkBreak separates owner from the statement it controls and returns the
// number of indents pushed.
func (p *printer) linkBreak(owner, next *syntax.Node) int {
	if p.cfg.IndentCascadingTransformations {
		first := p.firstTok(owner)
		p.w.PushRaw(p.indentFor(first, p.w.IndentOf(first)) + p.unit)
		p.newline()
		return 1
	}
	if p.sourceBreak(p.firstTok(next)) {
		p.newline()
	} else {
		p.space()
	}
	return 0
}

// body prints what an instantiation, if/else or module header controls.
func (p *printer) body(owner, b *syntax.Node) {
	switch {
	case b.IsStmt(syntax.Empty):
		p.glue()
		p.children(b)
	case b.IsStmt(syntax.StmtBlock):
		p.blockStmt(b, false)
	default:
		n := p.linkBreak(owner, b)
		p.statement(b)
		for range n {
			p.w.Pop()
		}
	}
}

// blockStmt prints `{ items }`. A standalone block starts its own line; a
// body block follows its header per brace placement.
func (p *printer) blockStmt(st *syntax.Node, standalone bool) {
	b := syntax.BlockOf(st)
	open, closing := -1, -1
	for i, c := range b.Children {
		if c.IsLeaf() {
			if open < 0 {
				open = i
			}
			closing = i
		}
	}
	openTok := b.Children[open].Tok

	header := p.w.LineIndent()
	if standalone {
		header = p.w.Indent()
	}
	header = p.indentFor(openTok, header)

	pushed := false
	if !standalone {
		if p.cfg.BracePlacement == style.NextLine {
			p.w.PushRaw(header)
			pushed = true
			p.newline()
		} else {
			p.space()
		}
	}
	for _, c := range b.Children[:open+1] {
		p.node(c)
	}
	if pushed {
		p.w.Pop()
	}

	if len(b.Items()) == 0 {
		p.glue()
		p.node(b.Children[closing])
		return
	}
	p.w.PushRaw(header + p.unit)
	p.items(b, openTok)
	p.w.Pop()

	p.w.PushRaw(header)
	p.newline()
	p.node(b.Children[closing])
	p.w.Pop()
}

// ifStmt prints `if (cond) body [else body]`; `else if` stays on one line.
func (p *printer) ifStmt(st *syntax.Node) {
	var thenBody *syntax.Node
	idx := 0
	for _, c := range st.Children {
		if c.IsTrivia() {
			p.node(c)
			continue
		}
		switch idx {
		case 2:
			thenBody = c
			p.body(st, c)
		case 3:
			p.elseSep(thenBody, c.Tok)
			p.node(c)
		case 4:
			if c.IsStmt(syntax.If) {
				p.space()
				p.ifStmt(c)
			} else {
				p.body(st, c)
			}
		default:
			p.node(c)
		}
		idx++
	}
}

func (p *printer) elseSep(thenBody *syntax.Node, elseTok int) {
	switch {
	case thenBody.IsStmt(syntax.StmtBlock):
		if p.cfg.BracePlacement == style.SameLine {
			p.space()
		} else {
			p.newline()
		}
	case p.cfg.IndentCascadingTransformations || p.sourceBreak(elseTok):
		p.newline()
	default:
		p.space()
	}
}

// moduleDef prints `module name(params) body`.
func (p *printer) moduleDef(st *syntax.Node) {
	body := st.LastSignificant()
	for _, c := range st.Children {
		if c == body {
			p.body(st, c)
			continue
		}
		p.node(c)
	}
}
