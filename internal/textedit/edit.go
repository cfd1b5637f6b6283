// Package textedit applies formatter output to a text buffer: ordered,
// non-overlapping byte-range replacements applied all at once or not at all.
package textedit

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrOutOfRange: an edit points outside the buffer.
	ErrOutOfRange = errors.New("edit span out of range")
	// ErrOverlap: two edits touch the same bytes or are out of order.
	ErrOverlap = errors.New("edits overlap")
	// ErrStale: the buffer no longer holds an edit's OldText.
	ErrStale = errors.New("existing text does not match expected content")
)

// Edit replaces bytes [Start, End) with NewText. OldText, when set, is the
// text the edit expects to replace.
type Edit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

func (e Edit) String() string {
	return fmt.Sprintf("%d:%d %q", e.Start, e.End, e.NewText)
}

// Sort orders edits by start, then by end.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})
}

// Conflict reports whether two edits' spans overlap.
// Spans are half-open; two insertions at one point conflict too, since
// their relative order would be ambiguous.
func Conflict(a, b Edit) bool {
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// Validate checks that edits are sorted, in bounds, pairwise disjoint and
// that every OldText guard matches text.
func Validate(text []byte, edits []Edit) error {
	n := uint64(len(text))
	for i, e := range edits {
		if e.End < e.Start || uint64(e.End) > n {
			return fmt.Errorf("edit %d (%d:%d): %w", i, e.Start, e.End, ErrOutOfRange)
		}
		if i > 0 {
			prev := edits[i-1]
			if prev.End > e.Start || Conflict(prev, e) {
				return fmt.Errorf("edits %d and %d: %w", i-1, i, ErrOverlap)
			}
		}
		if e.OldText != "" && string(text[e.Start:e.End]) != e.OldText {
			return fmt.Errorf("edit %d (%d:%d): %w", i, e.Start, e.End, ErrStale)
		}
	}
	return nil
}

// Apply validates edits and returns the edited copy of text.
// On error text is returned untouched alongside the error.
func Apply(text []byte, edits []Edit) ([]byte, error) {
	if err := Validate(text, edits); err != nil {
		return text, err
	}
	if len(edits) == 0 {
		return append([]byte(nil), text...), nil
	}
	size := len(text)
	for _, e := range edits {
		size += len(e.NewText) - int(e.End-e.Start)
	}
	out := make([]byte, 0, size)
	prev := uint32(0)
	for _, e := range edits {
		out = append(out, text[prev:e.Start]...)
		out = append(out, e.NewText...)
		prev = e.End
	}
	out = append(out, text[prev:]...)
	return out, nil
}

// Delta returns how much the edits change the buffer length.
func Delta(edits []Edit) int {
	d := 0
	for _, e := range edits {
		d += len(e.NewText) - int(e.End-e.Start)
	}
	return d
}

// Shift maps a position in the original text to the edited text. Positions
// inside a replaced span move to the end of its replacement.
func Shift(edits []Edit, pos uint32) uint32 {
	delta := 0
	for _, e := range edits {
		if e.Start > pos || (e.Start == pos && e.End > pos) {
			break
		}
		if e.End <= pos {
			delta += len(e.NewText) - int(e.End-e.Start)
			continue
		}
		return uint32(int(e.Start) + len(e.NewText) + delta)
	}
	return uint32(int(pos) + delta)
}
