// Package diag defines the diagnostic model shared by the lexer, parser and formatter.
//
// Diagnostics never abort work: a lexer error tags the token, a parser error
// tags the node, a formatter consistency failure drops the edits. Each of
// them is additionally reported through a Reporter so hosts can show it.
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form
//     (LEX1xxx, SYN2xxx, FMT3xxx, CFG4xxx).
//   - Primary span – byte range in source coordinates.
//   - Notes – optional secondary spans.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
