package fuzztests

import (
	"strings"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/lexer"
	"scadfmt/internal/source"
	"scadfmt/internal/token"
)

func FuzzLexerLossless(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.scad", input))
		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})

		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF for %q", truncateForLog(input, 200))
		}
		var sb strings.Builder
		prevEnd := uint32(0)
		for i, tok := range toks {
			if tok.Span.Start != prevEnd {
				t.Fatalf("token %d starts at %d, previous ended at %d", i, tok.Span.Start, prevEnd)
			}
			prevEnd = tok.Span.End
			sb.WriteString(tok.Text)
		}
		if sb.String() != string(file.Content) {
			t.Fatalf("tokens do not concatenate to the input %q", truncateForLog(input, 200))
		}
	})
}
