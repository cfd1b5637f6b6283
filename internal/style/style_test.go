package style_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scadfmt/internal/style"
)

func TestDefaults(t *testing.T) {
	c, err := style.New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if c != style.Default() {
		t.Fatalf("empty settings differ from defaults: %v", c)
	}
	if c.IndentSize != 4 || !c.IndentCascadingTransformations || c.BlankLinesMax != 2 ||
		c.BracePlacement != style.SameLine || c.LineEnding != style.LineEndingAuto || !c.InsertFinalNewline {
		t.Fatalf("unexpected defaults: %v", c)
	}
	if c.IndentUnit() != "    " {
		t.Fatalf("indent unit %q", c.IndentUnit())
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		settings style.Settings
		option   string
	}{
		{"negative indent", style.Settings{"indentSize": -1}, "indentSize"},
		{"indent too large", style.Settings{"indentSize": 17}, "indentSize"},
		{"wrong type", style.Settings{"useTabs": "yes"}, "useTabs"},
		{"fractional int", style.Settings{"blankLinesMax": 1.5}, "blankLinesMax"},
		{"unknown enum", style.Settings{"bracePlacement": "END_OF_LINE"}, "bracePlacement"},
		{"enum is case sensitive", style.Settings{"lineEnding": "LF"}, "lineEnding"},
		{"unknown option", style.Settings{"tabWidth": 4}, "tabWidth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := style.Validate(tt.settings)
			var ce *style.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if ce.Option != tt.option {
				t.Fatalf("option = %q, want %q", ce.Option, tt.option)
			}
			if !errors.Is(err, style.ErrInvalidConfig) {
				t.Fatalf("error does not match ErrInvalidConfig")
			}
		})
	}
}

func TestNumericForms(t *testing.T) {
	for _, v := range []any{int64(2), float64(2), json.Number("2"), 2} {
		c, err := style.New(style.Settings{"indentSize": v})
		if err != nil || c.IndentSize != 2 {
			t.Fatalf("%T: got %d, %v", v, c.IndentSize, err)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	s, err := style.ParseAssignment("indentCascadingTransformations=false")
	if err != nil {
		t.Fatal(err)
	}
	c, err := style.New(s)
	if err != nil || c.IndentCascadingTransformations {
		t.Fatalf("got %v, %v", c, err)
	}
	if _, err := style.ParseAssignment("indentSize=two"); err == nil {
		t.Fatalf("expected error for non-numeric indentSize")
	}
	if _, err := style.ParseAssignment("indentSize"); err == nil {
		t.Fatalf("expected error for missing '='")
	}
}

func TestEOL(t *testing.T) {
	c := style.Default()
	if c.EOL(true) != "\r\n" || c.EOL(false) != "\n" {
		t.Fatalf("auto line ending does not follow the file")
	}
	lf, _ := style.New(style.Settings{"lineEnding": "lf"})
	if lf.EOL(true) != "\n" {
		t.Fatalf("lf forced")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c, err := style.New(style.Settings{"indentSize": 2, "useTabs": true, "bracePlacement": "NEXT_LINE"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var back style.Config
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Fatalf("round trip mismatch:\n%v\n%v", c, back)
	}
	if err := json.Unmarshal([]byte(`{"indentSize": 99}`), &back); err == nil {
		t.Fatalf("expected range error from JSON")
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, style.FileName)
	if err := style.Save(p, style.Default()); err != nil {
		t.Fatal(err)
	}
	pf, err := style.LoadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	c, err := style.New(pf.Settings)
	if err != nil {
		t.Fatal(err)
	}
	if c != style.Default() {
		t.Fatalf("defaults changed by save/load: %v", c)
	}
	if c.Fingerprint() != style.Default().Fingerprint() {
		t.Fatalf("fingerprint differs")
	}
}

func TestEncodeDiffOnly(t *testing.T) {
	c, _ := style.New(style.Settings{"blankLinesMax": 1})
	var b strings.Builder
	if err := style.Encode(&b, c, false); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(b.String()); got != "blankLinesMax = 1" {
		t.Fatalf("encoded %q", got)
	}
}

func TestDiscoverWithOverrides(t *testing.T) {
	root := t.TempDir()
	cfg := `indentSize = 2

[[override]]
pattern = "vendor/**"
indentSize = 8

[[override]]
pattern = "*_flat.scad"
indentCascadingTransformations = false
`
	if err := os.WriteFile(filepath.Join(root, style.FileName), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "vendor", "lib")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file    string
		indent  int
		cascade bool
	}{
		{filepath.Join(root, "main.scad"), 2, true},
		{filepath.Join(sub, "part.scad"), 8, true},
		{filepath.Join(sub, "part_flat.scad"), 8, false},
	}
	for _, tt := range tests {
		pf, ok, err := style.Discover(tt.file)
		if err != nil || !ok {
			t.Fatalf("%s: discover ok=%v err=%v", tt.file, ok, err)
		}
		c, err := style.New(pf.SettingsFor(tt.file))
		if err != nil {
			t.Fatal(err)
		}
		if c.IndentSize != tt.indent || c.IndentCascadingTransformations != tt.cascade {
			t.Fatalf("%s: indent=%d cascade=%v", tt.file, c.IndentSize, c.IndentCascadingTransformations)
		}
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	for _, src := range []string{
		"indentSize = 40\n",
		"[[override]]\nindentSize = 2\n",
		"[[override]]\npattern = \"*.scad\"\nuseTabs = 1\n",
		"[[override]]\npattern = \"lib/[a\"\nuseTabs = true\n",
		"indentSize = \n",
	} {
		if _, err := style.Decode(src); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"*.scad", "a/b/c.scad", true},
		{"vendor/**", "vendor/x/y.scad", true},
		{"vendor/**", "src/vendor/y.scad", false},
		{"**/gen/*.scad", "a/b/gen/x.scad", true},
		{"lib/*.scad", "lib/sub/x.scad", false},
		{"{lib,vendor}/**/*.scad", "vendor/a/b.scad", true},
		{"{lib,vendor}/**/*.scad", "src/b.scad", false},
		{"part_[0-9].scad", "x/part_7.scad", true},
	}
	for _, tt := range tests {
		if got := style.MatchPattern(tt.pattern, tt.name); got != tt.want {
			t.Errorf("MatchPattern(%q, %q) = %v", tt.pattern, tt.name, got)
		}
	}
}
