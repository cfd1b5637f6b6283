package lexer

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/token"
)

// scanNewline: ровно один перевод строки, "\n" или "\r\n".
func (lx *Lexer) scanNewline() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Eat('\r')
	lx.cursor.Bump()
	return lx.emit(token.Newline, start, 0)
}

// scanWhitespace коалесцирует пробелы, табы и одиночные '\r' (не перед '\n').
func (lx *Lexer) scanWhitespace() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isSpace(b) || (b == '\r' && lx.cursor.PeekAt(1) == '\n') {
			break
		}
		lx.cursor.Bump()
	}
	return lx.emit(token.Whitespace, start, 0)
}

// scanComment: "//..." до конца строки (без "\r\n") или "/* ... */".
// Блочные комментарии не вложенные; незакрытый тянется до EOF.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.AtLineEnd() {
			lx.cursor.Bump()
		}
		return lx.emit(token.Comment, start, 0)
	}

	for !lx.cursor.EOF() {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(token.Comment, start, token.FlagBlockComment)
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Comment, start, token.FlagBlockComment|token.FlagUnterminated)
	lx.errLex(diag.LexUnterminatedBlockComment, tok.Span, "unterminated block comment")
	return tok
}
