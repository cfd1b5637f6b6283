// Package token defines lexical token kinds for OpenSCAD source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies, no decoding).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, newlines and comments are ordinary tokens: the token
//     sequence covers the input with no gaps or overlaps.
//   - Keywords are identifiers; IsKeyword classifies them.
//   - Malformed input never stops the lexer. The token carries an error flag
//     (FlagUnterminated, FlagUnknownChar, FlagBadNumber) instead.
package token
