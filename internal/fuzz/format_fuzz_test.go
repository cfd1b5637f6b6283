package fuzztests

import (
	"bytes"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/format"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/style"
)

// FuzzFormatStable formats every input twice: the significant tokens must
// survive, and inputs without syntax errors must reach a fixed point.
func FuzzFormatStable(f *testing.F) {
	addCorpusSeeds(f)
	cfg := style.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.scad", input))
		bag := diag.NewBag(128)
		tree := parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})

		res, err := format.Format(tree, cfg, format.Options{})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if res.Aborted {
			return
		}
		if ok, msg := format.CheckRoundTrip(tree, res.Output); !ok {
			t.Fatalf("%s\ninput: %q", msg, truncateForLog(input, 200))
		}
		if bag.HasErrors() {
			return
		}

		again := format.Source("fuzz.scad", res.Output, cfg, nil)
		if !bytes.Equal(again, res.Output) {
			t.Fatalf("second pass changed the output\nfirst:  %q\nsecond: %q", truncateForLog(res.Output, 200), truncateForLog(again, 200))
		}
	})
}
