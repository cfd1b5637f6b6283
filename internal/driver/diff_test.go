package driver_test

import (
	"testing"

	"scadfmt/internal/driver"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		context  int
		want     string
	}{
		{
			name: "identical",
			old:  "a\nb\n", new: "a\nb\n", context: 3,
			want: "",
		},
		{
			name: "one changed line",
			old:  "a=1;\nb=2;\nc=3;\n", new: "a=1;\nb = 2;\nc=3;\n", context: 3,
			want: "--- x.scad\n+++ x.scad\n" +
				"@@ -1,3 +1,3 @@\n" +
				" a=1;\n" +
				"-b=2;\n" +
				"+b = 2;\n" +
				" c=3;\n",
		},
		{
			name: "distant changes split",
			old:  "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n", new: "one\n2\n3\n4\n5\n6\n7\n8\n9\nten\n", context: 1,
			want: "--- x.scad\n+++ x.scad\n" +
				"@@ -1,2 +1,2 @@\n-1\n+one\n 2\n" +
				"@@ -9,2 +9,2 @@\n 9\n-10\n+ten\n",
		},
		{
			name: "insert into empty",
			old:  "", new: "x\n", context: 3,
			want: "--- x.scad\n+++ x.scad\n@@ -0,0 +1 @@\n+x\n",
		},
		{
			name: "delete last line",
			old:  "a\nb\n", new: "a\n", context: 0,
			want: "--- x.scad\n+++ x.scad\n@@ -2 +1,0 @@\n-b\n",
		},
		{
			name: "final newline added",
			old:  "a;", new: "a;\n", context: 3,
			want: "--- x.scad\n+++ x.scad\n@@ -1 +1 @@\n-a;\n\\ No newline at end of file\n+a;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := driver.Unified("x.scad", tt.old, tt.new, tt.context); got != tt.want {
				t.Fatalf("diff:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestUnifiedMergesCloseChanges(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	new := "one\n2\n3\n4\n5\n6\n7\n8\n9\nten\n"
	got := driver.Unified("x.scad", old, new, 4)
	want := "--- x.scad\n+++ x.scad\n@@ -1,10 +1,10 @@\n"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("expected one merged hunk, got:\n%s", got)
	}
}
