package parser

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

// parseItems: основной цикл Module/Block, parseItem до EOF (или '}' в блоке).
// Trivia между items раскладывается на Leading/Trailing и самостоятельные узлы.
func (p *parser) parseItems(container *syntax.Node, inBlock bool) {
	for {
		from := p.pos
		sig := p.sig()
		t := p.toks[sig]
		if t.Kind == token.EOF || (inBlock && t.Is("}")) {
			for _, tn := range p.triviaNodes(from, sig) {
				container.Add(tn)
			}
			p.pos = sig
			return
		}

		lead := p.leadingStart(from, sig)
		for _, tn := range p.triviaNodes(from, lead) {
			container.Add(tn)
		}
		leading := p.triviaNodes(lead, sig)
		p.pos = sig

		item := p.parseItem(inBlock)
		item.Leading = leading
		item.Trailing = p.trailing()
		container.Add(item)
	}
}

// leadingStart finds where the comments attached above the statement at sig
// begin. The group is the run of comments separated from each other and from
// the statement by at most one line break; its first comment must start a
// line (a comment sharing the line with the previous item stays standalone).
func (p *parser) leadingStart(from, sig int) int {
	lead := sig
	newlines := 0
	for i := sig - 1; i >= from; i-- {
		switch p.toks[i].Kind {
		case token.Newline:
			newlines++
		case token.Comment:
			newlines = 0
			lead = i
		}
		if newlines >= 2 {
			break
		}
	}
	for lead < sig && !p.startsLine(from, lead) {
		next := lead + 1
		for next < sig && p.toks[next].Kind != token.Comment {
			next++
		}
		lead = next
	}
	return lead
}

// startsLine reports whether token i is the first non-blank token on its line,
// looking back no further than from.
func (p *parser) startsLine(from, i int) bool {
	if from == 0 && i == 0 {
		return true
	}
	for j := i - 1; j >= from; j-- {
		switch p.toks[j].Kind {
		case token.Newline:
			return true
		case token.Whitespace:
			continue
		default:
			return false
		}
	}
	return from == 0
}

// trailing takes a comment that follows the statement on the same line.
// A block comment qualifies only when nothing but the line end follows it.
func (p *parser) trailing() []*syntax.Node {
	j := p.pos
	for p.toks[j].Kind == token.Whitespace {
		j++
	}
	if p.toks[j].Kind != token.Comment {
		return nil
	}
	if !p.toks[j].IsLineComment() {
		k := j + 1
		for p.toks[k].Kind == token.Whitespace {
			k++
		}
		if p.toks[k].Kind != token.Newline && p.toks[k].Kind != token.EOF {
			return nil
		}
	}
	nodes := p.triviaNodes(p.pos, j+1)
	p.pos = j + 1
	return nodes
}

// parseItem parses one statement; on failure the same tokens are re-read as Unknown.
func (p *parser) parseItem(inBlock bool) *syntax.Node {
	start := p.pos
	p.err = noError
	n, ok := p.parseStatement()
	if ok {
		return n
	}
	if p.err.idx < 0 {
		// ошибка без координат: считаем, что сломан первый же токен
		p.err = parseError{idx: p.sig(), code: diag.SynUnexpectedToken}
	}
	p.pos = start
	u := p.recoverUnknown(inBlock)
	p.err = noError
	return u
}

// recoverUnknown consumes tokens from p.pos into an Unknown node: up to and
// including the first ';' at depth 0, or up to the end of the error line,
// never past a '}' that closes the enclosing block.
func (p *parser) recoverUnknown(inBlock bool) *syntax.Node {
	start := p.pos
	end := start
	depth := 0
	for i := start; ; i++ {
		t := p.toks[i]
		if t.Kind == token.EOF {
			end = i
			break
		}
		if i > p.err.idx && t.Kind == token.Newline {
			end = i
			break
		}
		if t.Is("}") && depth == 0 {
			end = i
			if i == start && !inBlock {
				// лишняя '}' на верхнем уровне
				end = i + 1
			}
			break
		}
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose():
			if depth > 0 {
				depth--
			}
		case t.Is(";") && depth == 0:
			end = i + 1
		}
		if end > start {
			break
		}
	}
	// хвостовые пробелы остаются следующему item
	for end > start+1 && p.toks[end-1].Kind.IsLayout() {
		end--
	}
	if end == start {
		end = start + 1
	}

	u := syntax.NewNode(syntax.Unknown)
	u.Err = p.err.code
	for i := start; i < end; i++ {
		u.Add(syntax.NewLeaf(i))
	}
	p.seal(u)
	p.pos = end
	p.report(diag.SynRecoveredStatement, diag.SevWarning, u.Span, "statement left as is: "+p.err.code.Title())
	return u
}
