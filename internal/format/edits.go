package format

import (
	"scadfmt/internal/syntax"
	"scadfmt/internal/textedit"
)

// gap is the layout between two consecutive significant tokens a and b
// (a is -1 for the start of the file), in the source and in the output.
type gap struct {
	a, b     int
	start    uint32 // source offsets
	end      uint32
	old, new string
}

func collectGaps(tree *syntax.Tree, w *Writer, out []byte) []gap {
	var gaps []gap
	prevEnd, prevOut, prev := uint32(0), 0, -1
	for i, tok := range tree.Tokens {
		if tok.Kind.IsLayout() {
			continue
		}
		g := gap{
			a:     prev,
			b:     i,
			start: prevEnd,
			end:   tok.Span.Start,
			old:   string(tree.File.Content[prevEnd:tok.Span.Start]),
			new:   string(out[prevOut:w.starts[i]]),
		}
		if g.old != g.new {
			gaps = append(gaps, g)
		}
		prevEnd, prevOut, prev = tok.Span.End, w.ends[i], i
	}
	return gaps
}

// edit turns the gap into a minimal edit: the common prefix and suffix of
// the old and new layout are left alone.
func (g gap) edit() (textedit.Edit, bool) {
	old, nw := g.old, g.new
	pre := 0
	for pre < len(old) && pre < len(nw) && old[pre] == nw[pre] {
		pre++
	}
	suf := 0
	for suf < len(old)-pre && suf < len(nw)-pre && old[len(old)-1-suf] == nw[len(nw)-1-suf] {
		suf++
	}
	if pre == len(old) && pre == len(nw) {
		return textedit.Edit{}, false
	}
	return textedit.Edit{
		Start:   g.start + uint32(pre),
		End:     g.end - uint32(suf),
		NewText: nw[pre : len(nw)-suf],
		OldText: old[pre : len(old)-suf],
	}, true
}

// clipToRange keeps the gaps between tokens first and last, the bounds of the
// statements a range touches. The gap in front of the first statement may only
// change its indentation.
func clipToRange(gaps []gap, first, last int) []gap {
	out := gaps[:0:0]
	for _, g := range gaps {
		switch {
		case g.a >= first && g.b <= last:
			out = append(out, g)
		case g.b == first:
			if c, ok := g.indentOnly(); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// indentOnly restricts the gap to what follows its last line break.
func (g gap) indentOnly() (gap, bool) {
	oi := lastBreak(g.old)
	ni := lastBreak(g.new)
	if oi < 0 || ni < 0 {
		return gap{}, false
	}
	c := g
	c.start = g.start + uint32(oi+1)
	c.old = g.old[oi+1:]
	c.new = g.new[ni+1:]
	return c, c.old != c.new
}

func lastBreak(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			return i
		}
	}
	return -1
}
