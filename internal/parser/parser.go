package parser

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/lexer"
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parse lexes and parses file. Lexer diagnostics go to the same reporter.
func Parse(file *source.File, opts Options) *syntax.Tree {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	return ParseTokens(file, toks, opts)
}

// ParseTokens parses an already lexed token sequence ending with EOF.
func ParseTokens(file *source.File, toks []token.Token, opts Options) *syntax.Tree {
	p := parser{
		file: file,
		toks: toks,
		opts: opts,
		err:  noError,
	}
	root := syntax.NewNode(syntax.Module)
	p.parseItems(root, false)
	// EOF входит в дерево, чтобы обход листьев покрывал весь файл
	root.Add(syntax.NewLeaf(len(toks) - 1))
	p.seal(root)
	return &syntax.Tree{File: file, Tokens: toks, Root: root}
}

type parseError struct {
	idx  int
	code diag.Code
}

var noError = parseError{idx: -1}

// parser: состояние парсера на один файл
type parser struct {
	file *source.File
	toks []token.Token
	pos  int // следующий непрочитанный токен (включая trivia)
	opts Options
	err  parseError // первая ошибка текущего statement
}

// sig returns the index of the next non-trivia token at or after p.pos.
func (p *parser) sig() int {
	return p.sigFrom(p.pos)
}

func (p *parser) sigFrom(i int) int {
	for i < len(p.toks)-1 && p.toks[i].IsTrivia() {
		i++
	}
	return i
}

func (p *parser) peek() token.Token {
	return p.toks[p.sig()]
}

// peekN returns the k-th significant token ahead (0 is the next one).
func (p *parser) peekN(k int) token.Token {
	i := p.sig()
	for ; k > 0 && i < len(p.toks)-1; k-- {
		i = p.sigFrom(i + 1)
	}
	return p.toks[i]
}

// take moves the trivia before the next significant token and the token
// itself into n. A token tagged by the lexer as malformed fails the statement.
func (p *parser) take(n *syntax.Node) bool {
	i := p.sig()
	for j := p.pos; j <= i; j++ {
		if p.toks[j].IsError() {
			return p.fail(j, lexCode(p.toks[j]), "malformed token "+quote(p.toks[j].Text))
		}
	}
	for _, tn := range p.triviaNodes(p.pos, i) {
		n.Add(tn)
	}
	n.Add(syntax.NewLeaf(i))
	p.pos = i + 1
	return true
}

// expect takes the next token if it is the punctuation/operator text.
func (p *parser) expect(n *syntax.Node, text string, code diag.Code) bool {
	if !p.peek().Is(text) {
		return p.failHere(code, "expected "+quote(text)+", got "+describe(p.peek()))
	}
	return p.take(n)
}

// triviaNodes groups tokens [from, to) into Whitespace and Comment nodes.
func (p *parser) triviaNodes(from, to int) []*syntax.Node {
	var out []*syntax.Node
	var ws *syntax.Node
	for i := from; i < to; i++ {
		tok := p.toks[i]
		if tok.Kind == token.Comment {
			if ws != nil {
				out = append(out, p.seal(ws))
				ws = nil
			}
			c := syntax.NewNode(syntax.Comment)
			c.Add(syntax.NewLeaf(i))
			out = append(out, p.seal(c))
			continue
		}
		if ws == nil {
			ws = syntax.NewNode(syntax.Whitespace)
		}
		if tok.Kind == token.Newline {
			ws.Newlines++
		}
		ws.Add(syntax.NewLeaf(i))
	}
	if ws != nil {
		out = append(out, p.seal(ws))
	}
	return out
}

// seal fixes n.Span from its First/Last tokens.
func (p *parser) seal(n *syntax.Node) *syntax.Node {
	if n.First == syntax.NoTok {
		off := p.toks[min(p.pos, len(p.toks)-1)].Span.Start
		n.Span = source.Span{File: p.file.ID, Start: off, End: off}
		return n
	}
	n.Span = p.toks[n.First].Span.Cover(p.toks[n.Last].Span)
	return n
}

// fail records the first error of the current statement and reports it.
// It always returns false so callers can `return p.fail(...)`.
func (p *parser) fail(idx int, code diag.Code, msg string) bool {
	if p.err.idx >= 0 {
		return false
	}
	p.err = parseError{idx: idx, code: code}
	// лексер уже сообщил о своих ошибках
	if code < diag.LexInfo || code >= diag.SynInfo {
		p.report(code, diag.SevError, p.toks[idx].Span, msg)
	}
	return false
}

func (p *parser) failHere(code diag.Code, msg string) bool {
	return p.fail(p.sig(), code, msg)
}

func (p *parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if !p.opts.Enough() {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

func lexCode(tok token.Token) diag.Code {
	switch {
	case tok.Flags&token.FlagUnknownChar != 0:
		return diag.LexUnknownChar
	case tok.Flags&token.FlagBadNumber != 0:
		return diag.LexBadNumber
	case tok.Flags&token.FlagIncludePath != 0:
		return diag.LexUnterminatedIncludePath
	case tok.Kind == token.Comment:
		return diag.LexUnterminatedBlockComment
	default:
		return diag.LexUnterminatedString
	}
}

func quote(s string) string {
	if len(s) > 24 {
		s = s[:24] + "..."
	}
	return "'" + s + "'"
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return quote(tok.Text)
}
