package lexer

import (
	"iter"

	"scadfmt/internal/source"
	"scadfmt/internal/token"
)

// Lexer produces the complete token sequence of a file, trivia included.
// It is lazy (one token per Next) and restartable (Reset).
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	// последний значимый идентификатор: нужен, чтобы узнать <path> после include/use
	lastSig string
}

func New(file *source.File, opts Options) *Lexer {
	return NewAt(file, 0, opts)
}

// NewAt starts lexing at byte offset start. The offset should be a token
// boundary (a line start is always one unless it is inside a block comment or string).
func NewAt(file *source.File, start uint32, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file, start),
		opts:   opts,
	}
}

// Reset restarts the lexer at off with fresh state.
func (lx *Lexer) Reset(off uint32) {
	lx.cursor = NewCursor(lx.file, off)
	lx.lastSig = ""
}

// Offset returns the position of the next token.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n' || (ch == '\r' && lx.cursor.PeekAt(1) == '\n'):
		tok = lx.scanNewline()

	case isSpace(ch):
		tok = lx.scanWhitespace()

	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		tok = lx.scanComment()

	case isIdentStartByte(ch):
		tok = lx.scanIdent()

	case isDec(ch), ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch == '<' && lx.expectIncludePath():
		tok = lx.scanIncludePath()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if !tok.IsTrivia() {
		lx.lastSig = ""
		if tok.Kind == token.Identifier {
			lx.lastSig = tok.Text
		}
	}
	return tok
}

// All returns the remaining tokens as a sequence ending with EOF.
func (lx *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Tokenize lexes the whole file and returns every token including the final EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/3+1)
	for tok := range lx.All() {
		out = append(out, tok)
	}
	return out
}

func (lx *Lexer) expectIncludePath() bool {
	return lx.lastSig == "include" || lx.lastSig == "use"
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(kind token.Kind, start Mark, flags token.Flags) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:  kind,
		Span:  sp,
		Text:  string(lx.file.Content[sp.Start:sp.End]),
		Flags: flags,
	}
}
