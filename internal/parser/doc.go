// Package parser builds the lossless syntax tree of an OpenSCAD file.
//
// The parser never gives up on a file. A statement that contains a lexical
// error or does not fit the grammar is re-read as a syntax.Unknown node that
// runs from the statement start to the first ';' at depth 0 or to the end of
// the line holding the error, whichever comes first, and never past the '}'
// closing the enclosing block. Parsing resumes right after it.
//
// Expressions are parsed only as deep as layout needs: bracket groups,
// arguments and comprehension heads. Operator precedence is not modelled.
package parser
