package lsp

import (
	"scadfmt/internal/source"
)

// document is the editor's view of an open file.
type document struct {
	text    string
	version int
}

// applyChanges applies incremental (or full) content changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		file := virtualFile("", text)
		start := int(offsetForPositionInFile(file, change.Range.Start))
		end := int(offsetForPositionInFile(file, change.Range.End))
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// virtualFile wraps a buffer into a source.File for position conversions.
func virtualFile(path, text string) *source.File {
	fs := source.NewFileSet()
	if path == "" {
		path = "<buffer>"
	}
	return fs.Get(fs.AddVirtual(path, []byte(text)))
}
