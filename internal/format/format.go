package format

import (
	"errors"
	"fmt"

	"scadfmt/internal/diag"
	"scadfmt/internal/lexer"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/style"
	"scadfmt/internal/syntax"
	"scadfmt/internal/textedit"
	"scadfmt/internal/token"
)

// Options of one formatting request.
type Options struct {
	// Range restricts the edits to the statements it touches (byte offsets).
	// Nil formats the whole file.
	Range    *source.Span
	Reporter diag.Reporter
}

// Result of a formatting request.
type Result struct {
	// Edits turn the source into the formatted text; sorted and disjoint.
	Edits []textedit.Edit
	// Output is the whole formatted document; for range requests it is
	// what the full-file result would be, not the source with Edits applied.
	Output []byte
	// Aborted is set when the safety net rejected the output; Edits is empty then.
	Aborted bool
}

// Format lays out tree according to cfg.
func Format(tree *syntax.Tree, cfg style.Config, opts Options) (*Result, error) {
	if tree == nil || tree.File == nil || tree.Root == nil {
		return nil, errors.New("format: nil tree")
	}
	p := newPrinter(tree, cfg)
	if opts.Range != nil {
		if opts.Range.Start > opts.Range.End || opts.Range.End > tree.File.Len() {
			diag.ReportWarning(opts.Reporter, diag.FmtRangeOutOfBound,
				source.Span{File: tree.File.ID}, fmt.Sprintf("range %d:%d is outside of the file", opts.Range.Start, opts.Range.End)).Emit()
			return &Result{Output: tree.File.Content}, nil
		}
		first, last, ok := widen(tree, tree.Root, *opts.Range)
		if !ok {
			return &Result{Output: tree.File.Content}, nil
		}
		p.hasRange = true
		p.rngStart = tree.Tokens[first].Span.Start
		p.rngFirst, p.rngLast = first, last
	}
	p.printFile()
	out := p.w.Bytes()

	if ok, msg := CheckRoundTrip(tree, out); !ok || p.w.Broken() {
		if ok {
			msg = "fmt-check: tokens written out of order"
		}
		diag.ReportInfo(opts.Reporter, diag.FmtTokenMismatch,
			source.Span{File: tree.File.ID}, msg+"; file left unchanged").Emit()
		return &Result{Output: tree.File.Content, Aborted: true}, nil
	}

	gaps := collectGaps(tree, p.w, out)
	if p.hasRange {
		gaps = clipToRange(gaps, p.rngFirst, p.rngLast)
	}
	edits := make([]textedit.Edit, 0, len(gaps))
	for _, g := range gaps {
		if e, ok := g.edit(); ok {
			edits = append(edits, e)
		}
	}
	return &Result{Edits: edits, Output: out}, nil
}

// ComputeEdits returns the edits formatting tree (or the statements touched
// by opts.Range) according to cfg.
func ComputeEdits(tree *syntax.Tree, cfg style.Config, opts Options) []textedit.Edit {
	res, err := Format(tree, cfg, opts)
	if err != nil {
		return nil
	}
	return res.Edits
}

// Source parses and formats a whole buffer, returning the new text.
// Lexer and parser diagnostics go to r (may be nil).
func Source(path string, src []byte, cfg style.Config, r diag.Reporter) []byte {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, src))
	tree := parser.Parse(file, parser.Options{Reporter: r})
	res, err := Format(tree, cfg, Options{Reporter: r})
	if err != nil {
		return src
	}
	out, err := textedit.Apply(file.Content, res.Edits)
	if err != nil {
		return src
	}
	return out
}

// CheckRoundTrip re-lexes out and checks that its significant tokens are the
// ones of tree, in the same order and with the same text.
func CheckRoundTrip(tree *syntax.Tree, out []byte) (ok bool, msg string) {
	f := &source.File{ID: tree.File.ID, Content: out}
	want := significant(tree.Tokens)
	got := significant(lexer.Tokenize(f, lexer.Options{}))
	if len(got) != len(want) {
		return false, fmt.Sprintf("fmt-check: %d tokens after formatting, %d before", len(got), len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Text != want[i].Text || got[i].Flags != want[i].Flags {
			return false, fmt.Sprintf("fmt-check: token %d changed from %q to %q", i, want[i].Text, got[i].Text)
		}
	}
	return true, "fmt-check: OK"
}

func significant(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if !t.Kind.IsLayout() {
			out = append(out, t)
		}
	}
	return out
}
