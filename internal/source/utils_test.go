package source

import (
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "nested", "part.scad")
	if got := RelativePath(inside, base); got != "nested/part.scad" {
		t.Fatalf("RelativePath inside = %q", got)
	}
	if got := RelativePath("rel/x.scad", base); got != "rel/x.scad" {
		t.Fatalf("relative input must stay as is, got %q", got)
	}
	if got := RelativePath(inside, ""); got != inside {
		t.Fatalf("empty base must return input, got %q", got)
	}
}

func TestBuildLineIndex(t *testing.T) {
	idx := buildLineIndex([]byte("a\nbb\n\nc"))
	want := []uint32{1, 4, 5}
	if len(idx) != len(want) {
		t.Fatalf("len = %d", len(idx))
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("idx[%d] = %d, want %d", i, idx[i], want[i])
		}
	}
}
