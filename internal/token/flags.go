package token

import "strings"

// Flags tag a token with error and shape information.
type Flags uint8

const (
	// FlagUnterminated: string, include path or block comment without its closing delimiter.
	FlagUnterminated Flags = 1 << iota
	// FlagUnknownChar: a byte that starts no token in the grammar.
	FlagUnknownChar
	// FlagBadNumber: malformed numeric literal (e.g. "1e").
	FlagBadNumber
	// FlagBlockComment marks /* */ comments; line comments have no flag.
	FlagBlockComment
	// FlagIncludePath marks <path> after include/use.
	FlagIncludePath
)

// FlagsError is the mask of flags that denote a lexical error.
const FlagsError = FlagUnterminated | FlagUnknownChar | FlagBadNumber

func (f Flags) String() string {
	if f == 0 {
		return ""
	}
	var parts []string
	if f&FlagUnterminated != 0 {
		parts = append(parts, "unterminated")
	}
	if f&FlagUnknownChar != 0 {
		parts = append(parts, "unknown-char")
	}
	if f&FlagBadNumber != 0 {
		parts = append(parts, "bad-number")
	}
	if f&FlagBlockComment != 0 {
		parts = append(parts, "block")
	}
	if f&FlagIncludePath != 0 {
		parts = append(parts, "include-path")
	}
	return strings.Join(parts, ",")
}
