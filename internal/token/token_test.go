package token_test

import (
	"testing"

	"scadfmt/internal/token"
)

func TestKeywords(t *testing.T) {
	for _, kw := range []string{"module", "function", "include", "use", "if", "else", "for", "let", "each", "intersection_for", "undef"} {
		if !token.IsKeyword(kw) {
			t.Errorf("%q should be a keyword", kw)
		}
	}
	for _, id := range []string{"Module", "cube", "translate", "$fn", "iff"} {
		if token.IsKeyword(id) {
			t.Errorf("%q must NOT be a keyword", id)
		}
	}
	if !token.IsControlKeyword("intersection_for") || token.IsControlKeyword("echo") {
		t.Errorf("control keyword classification mismatch")
	}
}

func TestTokenPredicates(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
		pred func(token.Token) bool
		want bool
	}{
		{"line comment", token.Token{Kind: token.Comment, Text: "// x"}, token.Token.IsLineComment, true},
		{"block comment", token.Token{Kind: token.Comment, Text: "/* x */", Flags: token.FlagBlockComment}, token.Token.IsLineComment, false},
		{"unterminated is error", token.Token{Kind: token.String, Flags: token.FlagUnterminated}, token.Token.IsError, true},
		{"include path is not error", token.Token{Kind: token.String, Flags: token.FlagIncludePath}, token.Token.IsError, false},
		{"keyword", token.Token{Kind: token.Identifier, Text: "module"}, token.Token.IsKeyword, true},
		{"string module is no keyword", token.Token{Kind: token.String, Text: "module"}, token.Token.IsKeyword, false},
		{"open paren", token.Token{Kind: token.Punctuation, Text: "("}, token.Token.IsOpen, true},
		{"close brace", token.Token{Kind: token.Punctuation, Text: "}"}, token.Token.IsClose, true},
		{"whitespace trivia", token.Token{Kind: token.Whitespace, Text: " "}, token.Token.IsTrivia, true},
		{"number not trivia", token.Token{Kind: token.Number, Text: "1"}, token.Token.IsTrivia, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.tok); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindAndFlagsString(t *testing.T) {
	if token.Identifier.String() != "IDENTIFIER" || token.EOF.String() != "EOF" {
		t.Fatalf("kind names changed")
	}
	if got := (token.FlagUnterminated | token.FlagBlockComment).String(); got != "unterminated,block" {
		t.Fatalf("Flags.String() = %q", got)
	}
	if token.Closer("[") != "]" || token.Closer("x") != "" {
		t.Fatalf("Closer mismatch")
	}
}
