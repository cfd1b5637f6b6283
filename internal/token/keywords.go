package token

var keywords = map[string]struct{}{
	"module":   {},
	"function": {},
	"include":  {},
	"use":      {},
	"if":       {},
	"else":     {},
	"for":      {},
	"let":      {},
	"each":     {},
	"assert":   {},
	"echo":     {},
	"true":     {},
	"false":    {},
	"undef":    {},

	"intersection_for": {},
}

// IsKeyword reports whether ident is reserved.
// Ключевые слова регистрозависимые.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// IsControlKeyword reports whether ident heads a control construct (if, for,
// intersection_for, let). These are separated from "(" by a space when
// spaceAfterKeyword is set; assert/echo/each keep call spacing.
func IsControlKeyword(ident string) bool {
	switch ident {
	case "if", "for", "intersection_for", "let":
		return true
	}
	return false
}

// IsModifier reports whether op is an instantiation modifier character.
func IsModifier(op string) bool {
	switch op {
	case "#", "!", "%", "*":
		return true
	}
	return false
}
