package lexer

import (
	"scadfmt/internal/token"
)

// scanIdent сканирует [A-Za-z_$][A-Za-z0-9_]*. Ключевые слова тоже идентификаторы.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Identifier, start, 0)
}
