package driver

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const noNewline = "\\ No newline at end of file\n"

// Unified renders a unified diff of one file, "" when old and new are equal.
func Unified(path, old, new string, context int) string {
	if old == new {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        diffLines(old),
		B:        diffLines(new),
		FromFile: path,
		ToFile:   path,
		Context:  context,
	})
	if err != nil {
		// пишем в strings.Builder, ошибок не бывает
		return ""
	}
	return text
}

// diffLines splits s into lines that keep their '\n'. A last line without
// one carries the "\ No newline" marker, so adding the final newline shows up
// as a change.
func diffLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n" + noNewline
	return lines
}
