package fuzztests

import (
	"context"
	"testing"
	"time"

	"scadfmt/internal/diag"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserTreeInvariants checks that every input yields a lossless tree,
// within parseTimeout.
func FuzzParserTreeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("module m( { cube(); }"))
	f.Add([]byte("if if if (((((("))
	f.Add([]byte("]]]]}}}};;;;"))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.scad", input))
			bag := diag.NewBag(128)
			tree := parser.Parse(file, parser.Options{
				Reporter:  &diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
			done <- testkit.CheckTreeInvariants(tree)
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("tree invariant broken: %v\ninput (%d bytes): %q", err, len(input), truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
