package driver

import (
	"fortio.org/safecast"

	"scadfmt/internal/diag"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
)

// ParseResult holds the syntax tree of one file.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Bag     *diag.Bag
}

// Parse loads path and builds its tree; syntax errors go to the bag and
// never stop the parse.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	tree := parser.Parse(file, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	return &ParseResult{FileSet: fs, File: file, Tree: tree, Bag: bag}, nil
}
