package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// inlineSeeds cover the statement forms and the usual breakage.
var inlineSeeds = []string{
	"",
	"cube(10);\n",
	"module m(){cube();}",
	"x=1;y=[1,2,3];",
	"translate([1,0,0]) rotate(45) cube(2);",
	"if (a) { cube(); } else { sphere(); }",
	"for (i=[0:10]) translate([i,0,0]) cube();",
	"function f(x) = x > 0 ? x : -x;",
	"include <lib.scad>\nuse <other.scad>\n",
	"/* block */\n// line\ncube(); // trailing\n",
	"%cube(); #sphere(); !cylinder(); *cube();",
	"let (a = 1) echo(a);",
	"x = [for (i = [0:2]) i * 2];",
	"a = \"unterminated;\n",
	"cube([1,2,3]",
	"module m() { { { } } }",
	"x = 1e-3 + .5 - 0x;\r\ny = 2;\r\n",
	"/* open comment\ncube();",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "scad")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все *.scad файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".scad" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

// truncateForLog shortens input for failure messages.
func truncateForLog(input []byte, maxLen int) string {
	if len(input) <= maxLen {
		return string(input)
	}
	return string(input[:maxLen]) + "..."
}
