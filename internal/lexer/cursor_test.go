package lexer

import (
	"testing"

	"scadfmt/internal/source"
)

func newTestCursor(content string, off uint32) Cursor {
	fs := source.NewFileSet()
	return NewCursor(fs.Get(fs.AddVirtual("c.scad", []byte(content))), off)
}

func TestCursorPeekBump(t *testing.T) {
	c := newTestCursor("ab", 0)
	if c.Peek() != 'a' || c.PeekAt(1) != 'b' || c.PeekAt(2) != 0 {
		t.Fatalf("peek mismatch")
	}
	if b0, b1, ok := c.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 mismatch")
	}
	m := c.Mark()
	c.Bump()
	if _, _, ok := c.Peek2(); ok {
		t.Fatalf("Peek2 must fail with one byte left")
	}
	c.Bump()
	if !c.EOF() || c.Bump() != 0 {
		t.Fatalf("expected EOF")
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Fatalf("SpanFrom = %+v", sp)
	}
	c.Reset(m)
	if !c.Eat('a') || c.Eat('a') {
		t.Fatalf("Eat mismatch")
	}
}

func TestCursorClampAndLineEnd(t *testing.T) {
	c := newTestCursor("x\r\ny", 99)
	if !c.EOF() || c.Off != 4 {
		t.Fatalf("start offset must be clamped, got %d", c.Off)
	}
	tests := []struct {
		off  uint32
		want bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{4, true},
	}
	for _, tt := range tests {
		c.Off = tt.off
		if got := c.AtLineEnd(); got != tt.want {
			t.Errorf("AtLineEnd at %d = %v, want %v", tt.off, got, tt.want)
		}
	}
}
