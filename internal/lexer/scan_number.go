package lexer

import (
	"scadfmt/internal/diag"
	"scadfmt/internal/token"
)

// Поддержка: 1, 1.5, 1., .5, 1e-3, 2.5E+10, 0x1F.
// Идентификаторы в OpenSCAD могут начинаться с цифры ("2d_profile"), поэтому
// цифры, за которыми идёт хвост идентификатора, дают Identifier.
// "1.5e" без цифр экспоненты помечаем FlagBadNumber; токен всё равно завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') && isHex(lx.cursor.PeekAt(2)) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if isIdentContinueByte(lx.cursor.Peek()) {
			return lx.identTail(start)
		}
		return lx.emit(token.Number, start, 0)
	}

	digits := 0
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
		digits++
	}
	if digits > 0 && isIdentContinueByte(lx.cursor.Peek()) && !lx.atExponent() {
		return lx.identTail(start)
	}

	if lx.cursor.Peek() == '.' && !isIdentStartByte(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		if !lx.atExponent() {
			// "1.5e" или "1.5e+" без цифр: поглощаем то, что похоже на экспоненту
			lx.cursor.Bump()
			if p := lx.cursor.Peek(); p == '+' || p == '-' {
				lx.cursor.Bump()
			}
			tok := lx.emit(token.Number, start, token.FlagBadNumber)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
			return tok
		}
		lx.cursor.Bump()
		if p := lx.cursor.Peek(); p == '+' || p == '-' {
			lx.cursor.Bump()
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	return lx.emit(token.Number, start, 0)
}

// atExponent: курсор на 'e'/'E', за которым [+-]?цифра.
func (lx *Lexer) atExponent() bool {
	if b := lx.cursor.Peek(); b != 'e' && b != 'E' {
		return false
	}
	next := lx.cursor.PeekAt(1)
	if next == '+' || next == '-' {
		next = lx.cursor.PeekAt(2)
	}
	return isDec(next)
}

func (lx *Lexer) identTail(start Mark) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Identifier, start, 0)
}
