package format_test

import (
	"strings"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/format"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/style"
	"scadfmt/internal/syntax"
	"scadfmt/internal/testkit"
	"scadfmt/internal/textedit"
)

func config(t *testing.T, settings style.Settings) style.Config {
	t.Helper()
	cfg, err := style.New(settings)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.scad", []byte(src)))
	tree := parser.Parse(file, parser.Options{})
	if err := testkit.CheckTreeInvariants(tree); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
	return tree
}

func formatString(t *testing.T, src string, settings style.Settings) string {
	t.Helper()
	return string(format.Source("test.scad", []byte(src), config(t, settings), nil))
}

func TestFormatDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"assignment", "x=1+2*3;", "x = 1 + 2 * 3;\n"},
		{"unary", "x = -a * (b-c);", "x = -a * (b - c);\n"},
		{"call", "cube ( [1,2,3] , center=true ) ;", "cube([1, 2, 3], center = true);\n"},
		{"function", "function f(x)=x*2;", "function f(x) = x * 2;\n"},
		{"include", "include   <lib/parts.scad>\nuse<x.scad>\n", "include <lib/parts.scad>\nuse <x.scad>\n"},
		{"module block", "module m(){cube();sphere();}", "module m() {\n    cube();\n    sphere();\n}\n"},
		{"empty block", "module m() {   }", "module m() {}\n"},
		{"for range", "for(i=[0 : 2 : 10])cube(i);", "for (i = [0:2:10])\n    cube(i);\n"},
		{"if else blocks", "if(a){x();}else{y();}", "if (a) {\n    x();\n} else {\n    y();\n}\n"},
		{"else if", "if (a) {\n} else   if(b) {\n}\n", "if (a) {} else if (b) {}\n"},
		{"comprehension", "v=[for(i=[0:3]) i*2];", "v = [for (i = [0:3]) i * 2];\n"},
		{"ternary", "x = a>1?b:c;", "x = a > 1 ? b : c;\n"},
		{"member and index", "x = p . x + v [ 2 ];", "x = p.x + v[2];\n"},
		{"modifier", "# cube();\n!  sphere();\n", "#cube();\n!sphere();\n"},
		{"let call", "x = let (a=1) a;", "x = let (a = 1) a;\n"},
		{"echo", "echo (\"v\", x);", "echo(\"v\", x);\n"},
		{
			"comments",
			"// header\n\n/* standalone */\na=1; // trailing\n",
			"// header\n\n/* standalone */\na = 1; // trailing\n",
		},
		{
			"multiline vector",
			"p = [\n1,\n  2\n];\n",
			"p = [\n    1,\n    2\n];\n",
		},
		{
			"chain with block",
			"translate([1,0,0]) rotate(45) { cube(); }",
			"translate([1, 0, 0])\n    rotate(45) {\n        cube();\n    }\n",
		},
		{"whitespace only", "  \n\n\t\n", ""},
		{"comment only", "// c", "// c\n"},
		{"trailing blank lines", "a=1;\n\n\n\n", "a = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatString(t, tt.in, nil); got != tt.want {
				t.Fatalf("format(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCascadingTransformations(t *testing.T) {
	src := "rotate([0,0,90]) translate([1,0,0]) cube(1);"

	got := formatString(t, src, style.Settings{style.OptIndentSize: 2})
	want := "rotate([0, 0, 90])\n  translate([1, 0, 0])\n    cube(1);\n"
	if got != want {
		t.Fatalf("cascade on:\n got: %q\nwant: %q", got, want)
	}

	got = formatString(t, src, style.Settings{style.OptIndentSize: 2, style.OptIndentCascadingTransformations: false})
	want = "rotate([0, 0, 90]) translate([1, 0, 0]) cube(1);\n"
	if got != want {
		t.Fatalf("cascade off:\n got: %q\nwant: %q", got, want)
	}
}

const objectsSource = `translate([0, 0, 10])
rotate([0, 90, 0])
cylinder(h = 5, r = 2);

union() {
translate([1, 0, 0]) cube(1);
difference() {
cube(2, center = true);
   sphere(1.2);
}
}
`

func TestIndentObjectsElements(t *testing.T) {
	tests := []struct {
		name     string
		settings style.Settings
		want     string
	}{
		{
			name: "cascade",
			want: `translate([0, 0, 10])
    rotate([0, 90, 0])
        cylinder(h = 5, r = 2);

union() {
    translate([1, 0, 0])
        cube(1);
    difference() {
        cube(2, center = true);
        sphere(1.2);
    }
}
`,
		},
		{
			name:     "flat",
			settings: style.Settings{style.OptIndentCascadingTransformations: false},
			want: `translate([0, 0, 10])
rotate([0, 90, 0])
cylinder(h = 5, r = 2);

union() {
    translate([1, 0, 0]) cube(1);
    difference() {
        cube(2, center = true);
        sphere(1.2);
    }
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatString(t, objectsSource, tt.settings); got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestComprehensionLinks(t *testing.T) {
	src := "v = [\nfor (i = [0:3])\nlet (j = i * 2)\nj\n];\n"

	got := formatString(t, src, nil)
	want := "v = [\n    for (i = [0:3])\n        let (j = i * 2)\n            j\n];\n"
	if got != want {
		t.Fatalf("cascade on:\n got: %q\nwant: %q", got, want)
	}

	got = formatString(t, src, style.Settings{style.OptIndentCascadingTransformations: false})
	want = "v = [\n    for (i = [0:3])\n    let (j = i * 2)\n    j\n];\n"
	if got != want {
		t.Fatalf("cascade off:\n got: %q\nwant: %q", got, want)
	}
}

func TestBlankLinesCollapse(t *testing.T) {
	src := "a = 1;\n\n\n\n\n\nb = 2;\n"
	if got, want := formatString(t, src, style.Settings{style.OptBlankLinesMax: 2}), "a = 1;\n\n\nb = 2;\n"; got != want {
		t.Fatalf("max 2: got %q, want %q", got, want)
	}
	if got, want := formatString(t, src, style.Settings{style.OptBlankLinesMax: 0}), "a = 1;\nb = 2;\n"; got != want {
		t.Fatalf("max 0: got %q, want %q", got, want)
	}
}

// A comment followed by blank lines is a standalone item: the gap after it
// collapses like any other, and it never moves next to the statement.
func TestBlankLinesAfterComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"standalone collapsed", "// c\n\n\n\n\na=1;\n", 2, "// c\n\n\na = 1;\n"},
		{"standalone max 0", "// c\n\n\n\na=1;\n", 0, "// c\na = 1;\n"},
		{"leading stays attached", "a=1;\n\n\n\n// c\nb=2;\n", 1, "a = 1;\n\n// c\nb = 2;\n"},
		{"between comments", "b=0;\n// a\n\n\n\n// b\nc=1;\n", 1, "b = 0;\n// a\n\n// b\nc = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatString(t, tt.in, style.Settings{style.OptBlankLinesMax: tt.max})
			if got != tt.want {
				t.Fatalf("format(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatementIndentation(t *testing.T) {
	tests := []struct {
		name     string
		settings style.Settings
		in, want string
	}{
		{
			"top level after blank lines",
			style.Settings{style.OptIndentSize: 2},
			"a=1;\n\n\n\n\nb=2;\nmodule m(){x=1;cube();}\n",
			"a = 1;\n\n\nb = 2;\nmodule m() {\n  x = 1;\n  cube();\n}\n",
		},
		{
			"includes and assignments",
			nil,
			"include <a.scad>\nuse <b.scad>\nx=1;\ny=2;\n",
			"include <a.scad>\nuse <b.scad>\nx = 1;\ny = 2;\n",
		},
		{
			"empty statement",
			nil,
			"a=1;;\nb=2;\n",
			"a = 1;\n;\nb = 2;\n",
		},
		{
			"crlf file",
			nil,
			"a=1;\r\nb=2;\r\nc=3;\r\n",
			"a = 1;\r\nb = 2;\r\nc = 3;\r\n",
		},
		{
			"nested block bodies",
			nil,
			"module m(){\nif(a){x=1;y=2;}\nfunction f(y)=y;\nz=3;\n}\n",
			"module m() {\n    if (a) {\n        x = 1;\n        y = 2;\n    }\n    function f(y) = y;\n    z = 3;\n}\n",
		},
		{
			"continuation line",
			nil,
			"module m(){\nfunction f(x)=\nx*2;\nw=1;\n}\n",
			"module m() {\n    function f(x) =\n        x * 2;\n    w = 1;\n}\n",
		},
		{
			"assignment after leading comment",
			nil,
			"a=1;\n// note\nb=2;\n",
			"a = 1;\n// note\nb = 2;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatString(t, tt.in, tt.settings); got != tt.want {
				t.Fatalf("format(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommentBeforeSemicolonKeepsSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cube() /* c */ ;", "cube() /* c */ ;\n"},
		{"cube()  /* c */;", "cube() /* c */ ;\n"},
	}
	for _, tt := range tests {
		got := formatString(t, tt.in, nil)
		if got != tt.want {
			t.Fatalf("format(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := formatString(t, got, nil); again != got {
			t.Fatalf("not stable: %q -> %q", got, again)
		}
	}
}

func TestBracePlacementNextLine(t *testing.T) {
	settings := style.Settings{style.OptBracePlacement: "NEXT_LINE"}
	tests := []struct {
		in, want string
	}{
		{"module m() { cube(); }", "module m()\n{\n    cube();\n}\n"},
		{"if (a) { x(); } else { y(); }", "if (a)\n{\n    x();\n}\nelse\n{\n    y();\n}\n"},
	}
	for _, tt := range tests {
		if got := formatString(t, tt.in, settings); got != tt.want {
			t.Errorf("format(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
		}
	}
}

func TestSpacingOptions(t *testing.T) {
	tests := []struct {
		name     string
		settings style.Settings
		in, want string
	}{
		{"no operator space", style.Settings{style.OptSpaceAroundOperators: false}, "x = a + b * c;", "x = a+b*c;\n"},
		{"no assignment space", style.Settings{style.OptSpaceAroundAssignment: false}, "cube(size = 2);", "cube(size=2);\n"},
		{"no comma space", style.Settings{style.OptSpaceAfterComma: false}, "v = [1, 2, 3];", "v = [1,2,3];\n"},
		{"no keyword space", style.Settings{style.OptSpaceAfterKeyword: false}, "for (i = [0:1]) x();", "for(i = [0:1])\n    x();\n"},
		{"tabs", style.Settings{style.OptUseTabs: true}, "module m() { x(); }", "module m() {\n\tx();\n}\n"},
		{"no final newline", style.Settings{style.OptInsertFinalNewline: false}, "a=1;", "a = 1;"},
		{"crlf", style.Settings{style.OptLineEnding: "crlf"}, "a=1;\nb=2;\n", "a = 1;\r\nb = 2;\r\n"},
		{"auto keeps crlf", nil, "a=1;\r\nb=2;\r\n", "a = 1;\r\nb = 2;\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatString(t, tt.in, tt.settings); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperatorsNeverFuse(t *testing.T) {
	got := formatString(t, "x = a - -b;", style.Settings{style.OptSpaceAroundOperators: false})
	if got != "x = a--b;\n" {
		t.Fatalf("got %q", got)
	}
	got = formatString(t, "x = a / /* c */ b;", style.Settings{style.OptSpaceAroundOperators: false})
	if !strings.Contains(got, "/ /*") {
		t.Fatalf("division glued to a comment: %q", got)
	}
}

var idempotenceInputs = []string{
	objectsSource,
	"rotate([0,0,90]) translate([1,0,0]) cube(1);",
	"module m(a=1,b=[1,2]){\n  // c\n  if(a){x();}else if(b) y();\n\n\n\n  for(i=[0:1:3]) let(j=i) translate([j,0,0]) sphere(j);\n}\n",
	"v = [\nfor (i = [0:3])\nlet (j = i * 2)\nj\n];\n",
	"x = a>1?b:c; /* t */\n/* block\n   comment */\nfunction f(x)=\n  x*2;\n",
	"a = 1;\nb = \"unterminated;\nc=3;\n",
	"p = [\n  [1,2],\n  [3,4] // last\n];\n",
	"%cube();\n*sphere(); !cylinder();\n",
	"",
	"\n\n",
}

func TestIdempotence(t *testing.T) {
	for _, cascade := range []bool{true, false} {
		for _, brace := range []string{"SAME_LINE", "NEXT_LINE"} {
			settings := style.Settings{
				style.OptIndentCascadingTransformations: cascade,
				style.OptBracePlacement:                 brace,
			}
			for _, src := range idempotenceInputs {
				once := formatString(t, src, settings)
				twice := formatString(t, once, settings)
				if once != twice {
					t.Errorf("cascade=%v brace=%s: not idempotent for %q\nfirst:  %q\nsecond: %q", cascade, brace, src, once, twice)
				}
			}
		}
	}
}

func TestLexicalEquivalence(t *testing.T) {
	cfg := style.Default()
	for _, src := range idempotenceInputs {
		tree := parse(t, src)
		res, err := format.Format(tree, cfg, format.Options{})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if res.Aborted {
			t.Fatalf("safety net fired for %q", src)
		}
		if ok, msg := format.CheckRoundTrip(tree, res.Output); !ok {
			t.Fatalf("%q: %s", src, msg)
		}
	}
}

func TestEditsReproduceOutput(t *testing.T) {
	cfg := style.Default()
	for _, src := range idempotenceInputs {
		tree := parse(t, src)
		res, err := format.Format(tree, cfg, format.Options{})
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if err := textedit.Validate([]byte(src), res.Edits); err != nil {
			t.Fatalf("%q: invalid edits: %v", src, err)
		}
		got, err := textedit.Apply([]byte(src), res.Edits)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if string(got) != string(res.Output) {
			t.Fatalf("edits give %q, output is %q", got, res.Output)
		}
	}
}

func TestFormattedSourceHasNoEdits(t *testing.T) {
	src := formatString(t, objectsSource, nil)
	if edits := format.ComputeEdits(parse(t, src), style.Default(), format.Options{}); len(edits) != 0 {
		t.Fatalf("expected no edits, got %+v", edits)
	}
}

func TestErrorContainment(t *testing.T) {
	clean := "a=1;\nb = \"x\";\nc=3;\nmodule m(){cube();}\n"
	broken := "a=1;\nb = \"x;\nc=3;\nmodule m(){cube();}\n"

	bag := diag.NewBag(16)
	out := string(format.Source("test.scad", []byte(broken), style.Default(), &diag.BagReporter{Bag: bag}))
	if !bag.HasErrors() {
		t.Fatalf("expected a lexer error")
	}
	want := formatString(t, clean, nil)
	if !strings.Contains(want, "\nc = 3;\n") {
		t.Fatalf("clean statements lost their column: %q", want)
	}

	gotLines := strings.Split(out, "\n")
	wantLines := strings.Split(want, "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("line count differs:\n%s\nvs\n%s", out, want)
	}
	for i := range wantLines {
		if i == 1 {
			if gotLines[i] != `b = "x;` {
				t.Fatalf("broken statement changed: %q", gotLines[i])
			}
			continue
		}
		if gotLines[i] != wantLines[i] {
			t.Fatalf("line %d: got %q, want %q", i+1, gotLines[i], wantLines[i])
		}
	}
}

func TestRangeFormatting(t *testing.T) {
	src := "a=1;\nmodule m() {\ncube();\n  sphere( 1 );\n}\nb=2;\n"
	tree := parse(t, src)
	lineStart := uint32(strings.Index(src, "  sphere"))
	lineEnd := uint32(strings.Index(src, ";\n}")) + 1
	rng := source.Span{File: tree.File.ID, Start: lineStart, End: lineEnd}

	res, err := format.Format(tree, style.Default(), format.Options{Range: &rng})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(res.Edits) == 0 {
		t.Fatalf("expected edits")
	}
	for _, e := range res.Edits {
		if e.Start < lineStart || e.End > lineEnd {
			t.Fatalf("edit %+v is outside of %d:%d", e, lineStart, lineEnd)
		}
	}
	got, err := textedit.Apply([]byte(src), res.Edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if want := "a=1;\nmodule m() {\ncube();\n    sphere(1);\n}\nb=2;\n"; string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRangeFormattingNestedAssignment(t *testing.T) {
	src := "module m() {\n  module n() {\n x=1;\n  }\n}\n"
	tree := parse(t, src)
	start := uint32(strings.Index(src, " x=1"))
	rng := source.Span{File: tree.File.ID, Start: start, End: start + uint32(len(" x=1;"))}

	res, err := format.Format(tree, style.Default(), format.Options{Range: &rng})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	got, err := textedit.Apply([]byte(src), res.Edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if want := "module m() {\n  module n() {\n      x = 1;\n  }\n}\n"; string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRangeOutsideStatements(t *testing.T) {
	src := "a=1;\n\n\nb=2;\n"
	tree := parse(t, src)
	rng := source.Span{File: tree.File.ID, Start: 6, End: 6}
	res, err := format.Format(tree, style.Default(), format.Options{Range: &rng})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(res.Edits) != 0 {
		t.Fatalf("expected no edits, got %+v", res.Edits)
	}
}

func TestRangeOutOfBounds(t *testing.T) {
	src := "a=1;\n"
	tree := parse(t, src)
	rng := source.Span{File: tree.File.ID, Start: 2, End: 100}
	bag := diag.NewBag(4)
	res, err := format.Format(tree, style.Default(), format.Options{Range: &rng, Reporter: &diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(res.Edits) != 0 {
		t.Fatalf("expected no edits, got %+v", res.Edits)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.FmtRangeOutOfBound {
		t.Fatalf("expected one %s diagnostic, got %+v", diag.FmtRangeOutOfBound, items)
	}
}

func TestCheckRoundTripDetectsChanges(t *testing.T) {
	tree := parse(t, "a = 1;\n")
	if ok, _ := format.CheckRoundTrip(tree, []byte("a=1;")); !ok {
		t.Fatalf("layout change must pass")
	}
	if ok, _ := format.CheckRoundTrip(tree, []byte("a = 2;\n")); ok {
		t.Fatalf("changed literal must fail")
	}
	if ok, _ := format.CheckRoundTrip(tree, []byte("a = 1; b;\n")); ok {
		t.Fatalf("extra token must fail")
	}
}

func TestFormatNilTree(t *testing.T) {
	if _, err := format.Format(nil, style.Default(), format.Options{}); err == nil {
		t.Fatalf("expected error")
	}
}
