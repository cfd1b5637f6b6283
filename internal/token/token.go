package token

import (
	"scadfmt/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Flags Flags
}

// IsError reports whether the lexer tagged the token as malformed.
func (t Token) IsError() bool { return t.Flags&FlagsError != 0 }

// IsTrivia reports whether the token is whitespace, a newline or a comment.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }

// IsLineComment reports whether the token is a // comment (it always ends its line).
func (t Token) IsLineComment() bool {
	return t.Kind == Comment && t.Flags&FlagBlockComment == 0
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind == Identifier && IsKeyword(t.Text) }

// Is reports whether the token is an operator or punctuation with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Operator || t.Kind == Punctuation) && t.Text == text
}

// IsIdent reports whether the token is an identifier spelled name.
func (t Token) IsIdent(name string) bool { return t.Kind == Identifier && t.Text == name }

// IsOpen reports whether the token opens a bracket group.
func (t Token) IsOpen() bool {
	return t.Kind == Punctuation && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

// IsClose reports whether the token closes a bracket group.
func (t Token) IsClose() bool {
	return t.Kind == Punctuation && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

// Closer returns the closing bracket matching an opening one.
func Closer(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}
