package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/source"
)

func unterminatedBag(t *testing.T, path string, base string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase(base)
	content := []byte("a = 1;\nb = \"unterminated;\n")
	fileID := fs.AddVirtual(path, content)
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 11, End: 25}, "unterminated string literal").
		WithNote(source.Span{File: fileID, Start: 0, End: 1}, "previous statement"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := unterminatedBag(t, "/home/user/project/src/test.scad", "/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.scad:2:5"},
		{"relative", PathModeRelative, "src/test.scad:2:5"},
		{"basename", PathModeBasename, "test.scad:2:5"},
		{"auto under base", PathModeAuto, "src/test.scad:2:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"ERROR", "LEX1002", "unterminated string literal"} {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := unterminatedBag(t, "test.scad", "")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})

	want := strings.Join([]string{
		"test.scad:2:5: ERROR LEX1002: unterminated string literal",
		" 1 | a = 1;",
		" 2 | b = \"unterminated;",
		"   |     ^~~~~~~~~~~~~~",
		"  note: test.scad:1:1: previous statement",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("s = \"日本\"; @\n")
	fileID := fs.AddVirtual("wide.scad", content)
	at := uint32(strings.IndexByte(string(content), '@'))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: at, End: at + 1}, "unknown character"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	// "s = "日本"; " занимает 12 колонок: иероглифы двойной ширины
	if want := "   | " + strings.Repeat(" ", 12) + "^"; lines[2] != want {
		t.Fatalf("caret line %q, want %q", lines[2], want)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings (fmt): total 1.00 ms"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if got := buf.String(); got != "INFO OBS6001: timings (fmt): total 1.00 ms\n" {
		t.Fatalf("output %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := unterminatedBag(t, "test.scad", "")
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}
