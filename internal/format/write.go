package format

import (
	"strings"

	"scadfmt/internal/lexer"
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
	"scadfmt/internal/token"
)

// sep is the separation requested before the next token; requests merge by max.
type sep uint8

const (
	sepNone sep = iota
	sepSpace
	sepNewline
)

// Writer accumulates formatted output token by token. Whitespace between
// tokens is never copied from the source: it comes from the pending
// separation, the indent stack and the fusion guard.
type Writer struct {
	tree *syntax.Tree
	buf  []byte
	eol  string

	indents    []string
	lineIndent string // indent written at the start of the current output line

	pending sep
	blanks  int

	prev             int // last written token, -1 at start
	next             int // next non-layout token expected, for order checks
	broken           bool
	afterLineComment bool

	starts, ends []int    // output offsets per token index, -1 when not written
	indentOf     []string // line indent at the time each token was written
}

// NewWriter creates a writer for tree's tokens.
func NewWriter(tree *syntax.Tree, eol string) *Writer {
	n := len(tree.Tokens)
	w := &Writer{
		tree:     tree,
		buf:      make([]byte, 0, len(tree.File.Content)+len(tree.File.Content)/8),
		eol:      eol,
		indents:  []string{""},
		prev:     -1,
		starts:   make([]int, n),
		ends:     make([]int, n),
		indentOf: make([]string, n),
	}
	for i := range w.starts {
		w.starts[i], w.ends[i] = -1, -1
	}
	w.next = w.nextSig(-1)
	return w
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Broken reports a token written out of order or twice.
func (w *Writer) Broken() bool {
	return w.broken
}

// Indent returns the indent new lines start with.
func (w *Writer) Indent() string {
	return w.indents[len(w.indents)-1]
}

// LineIndent returns the indent of the output line being written.
func (w *Writer) LineIndent() string {
	return w.lineIndent
}

// IndentOf returns the line indent recorded when token i was written.
func (w *Writer) IndentOf(i int) string {
	return w.indentOf[i]
}

// PushRaw makes s the indent of following lines until Pop.
func (w *Writer) PushRaw(s string) {
	w.indents = append(w.indents, s)
}

// Pop restores the previous indent.
func (w *Writer) Pop() {
	if len(w.indents) > 1 {
		w.indents = w.indents[:len(w.indents)-1]
	}
}

// Space asks for at least one space before the next token.
func (w *Writer) Space() {
	w.pending = max(w.pending, sepSpace)
}

// Newline asks for a line break before the next token.
func (w *Writer) Newline() {
	w.pending = sepNewline
}

// Blank asks for a line break followed by n empty lines.
func (w *Writer) Blank(n int) {
	w.pending = sepNewline
	w.blanks = max(w.blanks, n)
}

// Token writes token i after materializing the pending separation.
func (w *Writer) Token(i int) {
	tok := w.tree.Tokens[i]
	w.check(i, tok)
	if w.afterLineComment {
		w.pending = sepNewline
	}
	switch {
	case w.pending == sepNewline && w.prev >= 0:
		for range w.blanks + 1 {
			w.buf = append(w.buf, w.eol...)
		}
		w.lineIndent = w.Indent()
		w.buf = append(w.buf, w.lineIndent...)
	case w.pending == sepSpace && w.prev >= 0:
		w.buf = append(w.buf, ' ')
	case w.pending == sepNone && w.prev >= 0 && fuses(w.tree.Tokens[w.prev].Text, tok.Text):
		w.buf = append(w.buf, ' ')
	}
	w.pending, w.blanks = sepNone, 0
	w.put(i, tok)
}

// Raw writes token i right after the previous one, exactly as in the source.
// It is used inside regions kept verbatim.
func (w *Writer) Raw(i int) {
	tok := w.tree.Tokens[i]
	if !tok.Kind.IsLayout() {
		w.check(i, tok)
	}
	w.pending, w.blanks = sepNone, 0
	w.put(i, tok)
}

func (w *Writer) put(i int, tok token.Token) {
	w.starts[i] = len(w.buf)
	w.buf = append(w.buf, tok.Text...)
	w.ends[i] = len(w.buf)
	w.indentOf[i] = w.lineIndent
	if !tok.Kind.IsLayout() {
		w.afterLineComment = tok.IsLineComment()
	}
	w.prev = i
}

// Finish writes the end of file: eol (may be empty) and the EOF position.
func (w *Writer) Finish(eol string) {
	w.buf = append(w.buf, eol...)
	last := len(w.tree.Tokens) - 1
	w.check(last, w.tree.Tokens[last])
	w.starts[last], w.ends[last] = len(w.buf), len(w.buf)
}

// check enforces that every non-layout token is written once, in order.
func (w *Writer) check(i int, tok token.Token) {
	if tok.Kind.IsLayout() {
		return
	}
	if i != w.next {
		w.broken = true
	}
	w.next = w.nextSig(i)
}

func (w *Writer) nextSig(i int) int {
	for j := i + 1; j < len(w.tree.Tokens); j++ {
		if !w.tree.Tokens[j].Kind.IsLayout() {
			return j
		}
	}
	return len(w.tree.Tokens)
}

// fuses reports whether a and b written without a space would lex differently.
func fuses(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if separates(a[len(a)-1]) || separates(b[0]) {
		return false
	}
	f := &source.File{Content: []byte(a + b)}
	lx := lexer.New(f, lexer.Options{})
	var texts []string
	for tok := range lx.All() {
		if tok.Kind == token.EOF {
			break
		}
		texts = append(texts, tok.Text)
		if len(texts) > 2 {
			return true
		}
	}
	return len(texts) != 2 || texts[0] != a || texts[1] != b
}

// separates: bytes that can never merge with a neighbour.
func separates(b byte) bool {
	return strings.IndexByte("()[]{},;\"", b) >= 0
}
