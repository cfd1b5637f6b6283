package lexer

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/token"
)

// "..." с escape-последовательностями. Escape не валидируем: текст остаётся как в исходнике.
// Незакрытая строка обрывается на конце строки (перевод строки в токен не входит).
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.AtLineEnd() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			return lx.emit(token.String, start, 0)
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.AtLineEnd() {
				break
			}
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.String, start, token.FlagUnterminated)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanIncludePath: "<path>" после include/use, в пределах одной строки.
func (lx *Lexer) scanIncludePath() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '<'
	for !lx.cursor.AtLineEnd() {
		if lx.cursor.Bump() == '>' {
			return lx.emit(token.String, start, token.FlagIncludePath)
		}
	}
	tok := lx.emit(token.String, start, token.FlagIncludePath|token.FlagUnterminated)
	lx.errLex(diag.LexUnterminatedIncludePath, tok.Span, "unterminated include path")
	return tok
}
