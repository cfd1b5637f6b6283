// Package format re-lays-out OpenSCAD source.
//
// The printer walks the lossless tree and writes every significant token in
// source order; the whitespace between tokens is recomputed from the style.
// Edits are the gaps between consecutive significant tokens that differ
// from the source, so the formatter can never change a token.
//
// Не делает: перенос длинных строк, выравнивание по столбцам.
package format
