package lexer

import (
	"unicode/utf8"

	"scadfmt/internal/diag"
	"scadfmt/internal/token"
)

// Жадность: сначала 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2('&', '&'), lx.try2('|', '|'),
		lx.try2('=', '='), lx.try2('!', '='),
		lx.try2('<', '='), lx.try2('>', '='),
		lx.try2('<', '<'), lx.try2('>', '>'):
		return lx.emit(token.Operator, start, 0)
	}

	switch lx.cursor.Bump() {
	case '+', '-', '*', '/', '%', '^', '!', '<', '>', '?', ':', '=', '#', '&', '|', '~':
		return lx.emit(token.Operator, start, 0)
	case '(', ')', '[', ']', '{', '}', ',', ';', '.':
		return lx.emit(token.Punctuation, start, 0)
	}

	// неизвестный символ: целиком руна, чтобы не резать UTF-8
	lx.cursor.Reset(start)
	lx.bumpRune()
	tok := lx.emit(token.Operator, start, token.FlagUnknownChar)
	r, _ := utf8.DecodeRuneInString(tok.Text)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteRune(r))
	return tok
}
