package format

import (
	"scadfmt/internal/source"
	"scadfmt/internal/style"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

type frame struct {
	vector  bool
	ternary int // '?' still waiting for their ':'
}

type printer struct {
	tree *syntax.Tree
	cfg  style.Config
	w    *Writer
	unit string
	eol  string

	hasRange          bool
	rngStart          uint32 // start of the widened range
	rngFirst, rngLast int

	prev int // last written token that is not a comment, -1 at start
	last int // last written token

	forced       bool // the structure already chose the separation of the next token
	afterComment bool
	prevUnary    bool
	prevRange    bool // previous token is a range ':'
	exprStart    bool // a comprehension head just ended
	frames       []frame

	cont        string // continuation indent of the simple statement being printed
	contPending bool   // cont is pushed once the statement's first token is out
}

func newPrinter(tree *syntax.Tree, cfg style.Config) *printer {
	eol := cfg.EOL(tree.File.Flags&source.FileHasCRLF != 0)
	return &printer{
		tree:   tree,
		cfg:    cfg,
		w:      NewWriter(tree, eol),
		unit:   cfg.IndentUnit(),
		eol:    eol,
		prev:   -1,
		last:   -1,
		frames: []frame{{}},
	}
}

func (p *printer) printFile() {
	p.items(p.tree.Root, -1)
	p.finish()
}

// finish ends the output: one final line break, none, or whatever the source had.
func (p *printer) finish() {
	if p.last < 0 {
		p.w.Finish("")
		return
	}
	eof := len(p.tree.Tokens) - 1
	last := p.tree.Tokens[p.last]
	eol := ""
	switch {
	case last.Kind == token.Comment && last.Flags&token.FlagUnterminated != 0:
		// незакрытый комментарий съел бы перевод строки
	case p.cfg.InsertFinalNewline:
		eol = p.eol
	case p.tree.Newlines(p.last, eof) > 0:
		eol = p.eol
	}
	p.w.Finish(eol)
}

// items prints the statement-level children of a Module or Block; prevTok is
// the token in front of the first item ('{' or -1 at file start).
func (p *printer) items(container *syntax.Node, prevTok int) {
	for k, it := range container.Items() {
		first, last := it.Extent()
		nl := 0
		if prevTok >= 0 {
			nl = p.tree.Newlines(prevTok, first)
		}
		switch {
		case it.Kind == syntax.Comment && nl == 0 && prevTok >= 0:
			p.space()
		case k == 0:
			p.newline()
		default:
			p.blank(max(0, min(nl-1, p.cfg.BlankLinesMax)))
		}
		p.item(it)
		prevTok = last
	}
}

func (p *printer) item(it *syntax.Node) {
	for _, l := range it.Leading {
		p.node(l)
	}
	switch it.Kind {
	case syntax.Comment:
		p.comment(it)
	case syntax.Unknown:
		p.unknown(it)
	default:
		p.statement(it)
	}
	if len(it.Trailing) > 0 {
		p.space()
		for _, t := range it.Trailing {
			p.node(t)
		}
	}
}

// node prints any subtree in document order.
func (p *printer) node(n *syntax.Node) {
	switch n.Kind {
	case syntax.Token:
		if !p.tree.Tokens[n.Tok].Kind.IsLayout() {
			p.emit(n.Tok)
		}
	case syntax.Whitespace:
	case syntax.Comment:
		p.comment(n)
	case syntax.ArgumentList, syntax.Paren, syntax.Vector:
		p.group(n)
	case syntax.Argument:
		p.argument(n)
	case syntax.TransformationCall:
		p.children(n)
		p.exprStart = true
	case syntax.Modifier:
		p.children(n)
		p.glue()
	case syntax.Statement:
		p.statement(n)
	case syntax.Unknown:
		p.unknown(n)
	default:
		p.children(n)
	}
}

func (p *printer) children(n *syntax.Node) {
	for _, c := range n.Children {
		p.node(c)
	}
}

// Structural separation requests.

func (p *printer) space() {
	p.w.Space()
	p.forced = true
}

func (p *printer) newline() {
	p.w.Newline()
	p.forced = true
}

func (p *printer) blank(n int) {
	p.w.Blank(n)
	p.forced = true
}

func (p *printer) glue() {
	p.forced = true
}

// separate picks the separation in front of significant token i.
func (p *printer) separate(i int) {
	switch {
	case p.afterComment:
		p.breakOrSpace(i)
	case p.forced:
	default:
		space, breakable := p.pair(i)
		if breakable && p.sourceBreak(i) {
			p.w.Newline()
		} else if space {
			p.w.Space()
		}
	}
	p.forced, p.afterComment = false, false
}

// emit writes significant token i.
func (p *printer) emit(i int) {
	tok := p.tree.Tokens[i]
	rangeColon := tok.Is(":") && p.rangeColon()
	p.separate(i)
	unary := p.unaryAt(i)
	p.w.Token(i)
	if p.contPending {
		p.w.PushRaw(p.cont)
		p.contPending = false
	}

	top := &p.frames[len(p.frames)-1]
	switch {
	case tok.Is("?"):
		top.ternary++
	case tok.Is(":") && !rangeColon && top.ternary > 0:
		top.ternary--
	}
	p.prevUnary = unary
	p.prevRange = rangeColon
	p.exprStart = false
	p.prev, p.last = i, i
}

// comment writes a Comment node: on its own line when the source had a break
// before it, otherwise one space after the previous token.
func (p *printer) comment(c *syntax.Node) {
	i := c.Children[0].Tok
	switch {
	case p.afterComment || !p.forced:
		p.breakOrSpace(i)
	case i > 0 && p.tree.Tokens[i-1].Kind.IsLayout():
		// склейка относится к следующему токену, не к комментарию
		p.w.Space()
	}
	p.forced = false
	p.w.Token(i)
	p.last = i
	p.afterComment = true
}

func (p *printer) breakOrSpace(i int) {
	if p.sourceBreak(i) {
		p.w.Newline()
	} else {
		p.w.Space()
	}
}

// sourceBreak reports a line break in the source between the last written token and i.
func (p *printer) sourceBreak(i int) bool {
	return p.last >= 0 && p.tree.Newlines(p.last, i) > 0
}

// unknown writes a region the parser could not read: the gap in front of it
// is normalized, the rest is copied.
func (p *printer) unknown(u *syntax.Node) {
	first := true
	for _, leaf := range u.Children {
		if first {
			p.separate(leaf.Tok)
			p.w.Token(leaf.Tok)
			first = false
		} else {
			p.w.Raw(leaf.Tok)
		}
		if !p.tree.Tokens[leaf.Tok].Kind.IsLayout() {
			p.last = leaf.Tok
		}
	}
	p.prev = p.last
	p.prevUnary, p.prevRange, p.exprStart = false, false, false
}

// firstTok returns the first token of n (attachments included) that is not layout.
func (p *printer) firstTok(n *syntax.Node) int {
	first, last := n.Extent()
	for i := first; i <= last && i >= 0; i++ {
		if !p.tree.Tokens[i].Kind.IsLayout() {
			return i
		}
	}
	return first
}

// headTok returns the first significant token of n itself, without its
// leading comments.
func (p *printer) headTok(n *syntax.Node) int {
	for i := n.First; i <= n.Last && i >= 0; i++ {
		if !p.tree.Tokens[i].Kind.IsLayout() {
			return i
		}
	}
	return p.firstTok(n)
}

// indentFor returns the indent to build on for a construct starting at
// token i. In range mode a construct that starts before the range keeps the
// indentation it has in the source.
func (p *printer) indentFor(i int, current string) string {
	if p.hasRange && p.tree.Tokens[i].Span.Start < p.rngStart {
		return p.tree.File.IndentAt(p.tree.Tokens[i].Span.Start)
	}
	return current
}
