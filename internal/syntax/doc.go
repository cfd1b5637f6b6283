// Package syntax holds the lossless concrete syntax tree of an OpenSCAD file.
//
// Every token of the file, trivia included, is a leaf of exactly one node.
// Leaves are visited in document order by Tree.Leaves: for each node first
// its Leading attachments, then its Children, then its Trailing attachments.
// Concatenating the text of those leaves reproduces the file byte for byte.
//
// Trivia placement:
//   - comments directly above a statement (no blank line in between) are the
//     statement's Leading, together with the layout between them;
//   - a comment on the same line after the statement is its Trailing;
//   - everything else between items is a standalone Comment or Whitespace child
//     of the enclosing Module/Block;
//   - trivia between tokens of one statement lives inside that statement.
package syntax
