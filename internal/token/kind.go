package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; the lexer never produces it.
	Invalid Kind = iota
	// Identifier covers names and keywords.
	Identifier
	// Number is a numeric literal.
	Number
	// String is a double-quoted literal or an include path in angle brackets.
	String
	// Operator is an arithmetic, logical, comparison or modifier sign.
	Operator
	// Punctuation is a bracket, comma, semicolon or dot.
	Punctuation
	// Comment is a line or block comment.
	Comment
	// Whitespace is a run of spaces and tabs.
	Whitespace
	// Newline is a single "\n" or "\r\n".
	Newline
	// EOF marks the end of the source input.
	EOF
)

var kindNames = [...]string{
	Invalid:     "INVALID",
	Identifier:  "IDENTIFIER",
	Number:      "NUMBER",
	String:      "STRING",
	Operator:    "OPERATOR",
	Punctuation: "PUNCTUATION",
	Comment:     "COMMENT",
	Whitespace:  "WHITESPACE",
	Newline:     "NEWLINE",
	EOF:         "EOF",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether tokens of this kind carry no meaning for the program.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Newline || k == Comment
}

// IsLayout reports whether the kind is pure layout: the formatter recomputes it.
func (k Kind) IsLayout() bool {
	return k == Whitespace || k == Newline
}
