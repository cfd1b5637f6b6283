package textedit_test

import (
	"errors"
	"testing"

	"scadfmt/internal/textedit"
)

func TestApply(t *testing.T) {
	text := []byte("cube( 1 );")
	edits := []textedit.Edit{
		{Start: 5, End: 6, NewText: "", OldText: " "},
		{Start: 7, End: 8, NewText: ""},
	}
	out, err := textedit.Apply(text, edits)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "cube(1);" {
		t.Fatalf("got %q", out)
	}
	if textedit.Delta(edits) != -2 {
		t.Fatalf("delta %d", textedit.Delta(edits))
	}
}

func TestApplyIsAtomic(t *testing.T) {
	text := []byte("a = 1;\nb = 2;\n")
	tests := []struct {
		name  string
		edits []textedit.Edit
		want  error
	}{
		{"out of range", []textedit.Edit{{Start: 1, End: 2, NewText: " "}, {Start: 20, End: 21}}, textedit.ErrOutOfRange},
		{"overlap", []textedit.Edit{{Start: 0, End: 3, NewText: "x"}, {Start: 2, End: 4, NewText: "y"}}, textedit.ErrOverlap},
		{"unsorted", []textedit.Edit{{Start: 5, End: 5, NewText: "x"}, {Start: 1, End: 2, NewText: "y"}}, textedit.ErrOverlap},
		{"same insertion point", []textedit.Edit{{Start: 3, End: 3, NewText: "x"}, {Start: 3, End: 3, NewText: "y"}}, textedit.ErrOverlap},
		{"stale", []textedit.Edit{{Start: 0, End: 1, NewText: "z", OldText: "q"}}, textedit.ErrStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := textedit.Apply(text, tt.edits)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if string(out) != string(text) {
				t.Fatalf("buffer changed on failure: %q", out)
			}
		})
	}
}

func TestAdjacentEditsAreAllowed(t *testing.T) {
	text := []byte("ab")
	edits := []textedit.Edit{{Start: 0, End: 1, NewText: "x"}, {Start: 1, End: 1, NewText: "-"}, {Start: 1, End: 2, NewText: "y"}}
	textedit.Sort(edits)
	out, err := textedit.Apply(text, edits)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "x-y" {
		t.Fatalf("got %q", out)
	}
}

func TestShift(t *testing.T) {
	edits := []textedit.Edit{{Start: 2, End: 4, NewText: "xyz"}, {Start: 6, End: 6, NewText: "!!"}}
	tests := []struct{ in, want uint32 }{
		{0, 0}, {2, 2}, {3, 5}, {4, 5}, {5, 6}, {6, 9}, {7, 10},
	}
	for _, tt := range tests {
		if got := textedit.Shift(edits, tt.in); got != tt.want {
			t.Errorf("Shift(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
