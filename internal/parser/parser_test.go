package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.scad", []byte(src)))
	bag := diag.NewBag(64)
	tree := parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if got := tree.Text(tree.Root); got != src {
		t.Fatalf("tree is not lossless:\n got: %q\nwant: %q", got, src)
	}
	return tree, bag
}

// shape renders the item structure: kinds of statement-level nodes with attachments.
func shape(tree *syntax.Tree, n *syntax.Node) string {
	var parts []string
	for _, it := range n.Items() {
		s := it.Kind.String()
		if it.Kind == syntax.Statement {
			s = it.Stmt.String()
		}
		if len(it.Leading) > 0 {
			s = "L+" + s
		}
		if len(it.Trailing) > 0 {
			s += "+T"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func TestStatementKinds(t *testing.T) {
	src := `include <lib.scad>
use <util.scad>
$fn = 32;
function sq(x) = x * x;
module part(size = 1) {
    cube(size);
}
if (a > 1) sphere(); else cylinder();
{ cube(); }
;
#translate([1, 0, 0]) cube();
`
	tree, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := "Include Include Assignment FunctionDef ModuleDef If Block Empty Instantiation"
	if got := shape(tree, tree.Root); got != want {
		t.Fatalf("shape = %q, want %q", got, want)
	}
}

func TestChainLinks(t *testing.T) {
	tree, _ := parse(t, "rotate([0,0,90]) translate([1,0,0]) cube(1);")
	items := tree.Root.Items()
	links, tail := syntax.ChainLinks(items[0])
	var names []string
	for _, l := range links {
		call := syntax.Call(l)
		names = append(names, tree.Tok(call.FirstSignificant()).Text)
	}
	if strings.Join(names, ",") != "rotate,translate,cube" {
		t.Fatalf("links = %v", names)
	}
	if !tail.IsStmt(syntax.Empty) {
		t.Fatalf("tail = %v/%v, want Empty statement", tail.Kind, tail.Stmt)
	}

	tree, _ = parse(t, "for (i = [0:3]) translate([i, 0]) { cube(); sphere(); }")
	links, tail = syntax.ChainLinks(tree.Root.Items()[0])
	if len(links) != 2 || !tail.IsStmt(syntax.StmtBlock) {
		t.Fatalf("for chain: %d links, tail %v", len(links), tail.Stmt)
	}
	if got := len(syntax.BlockOf(tail).Items()); got != 2 {
		t.Fatalf("block items = %d", got)
	}
}

func TestTriviaAttachment(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"leading", "// head\ncube();\n", "L+Instantiation"},
		{"leading group", "// a\n/* b */\ncube();\n", "L+Instantiation"},
		{"blank line separates", "// a\n\ncube();\n", "Comment Instantiation"},
		{"trailing line comment", "cube(); // t\nsphere();\n", "Instantiation+T Instantiation"},
		{"trailing block comment", "cube(); /* t */\n", "Instantiation+T"},
		{"block comment before code stays out", "a = 1; /* x */ b = 2;\n", "Assignment Comment Assignment"},
		{"comment at end", "cube();\n// end\n", "Instantiation Comment"},
		{"leading after blank", "a = 1;\n\n// b\nb = 2;\n", "Assignment L+Assignment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := parse(t, tt.src)
			if got := shape(tree, tree.Root); got != tt.want {
				t.Fatalf("shape = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentOnBraceLineStaysStandalone(t *testing.T) {
	tree, _ := parse(t, "module m() { // note\n    cube();\n}\n")
	mod := tree.Root.Items()[0]
	body := mod.LastSignificant()
	block := syntax.BlockOf(body)
	if got := shape(tree, block); got != "Comment Instantiation" {
		t.Fatalf("block shape = %q", got)
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		shape   string
		unknown string
	}{
		{
			name:    "unterminated string",
			src:     "a = 1;\nb = \"oops;\nc = 3;\n",
			shape:   "Assignment Unknown Assignment",
			unknown: "b = \"oops;",
		},
		{
			name:    "missing value stops at semicolon",
			src:     "x = ; y = 2;\n",
			shape:   "Unknown Assignment",
			unknown: "x = ;",
		},
		{
			name:    "unbalanced bracket stops at line end",
			src:     "cube([1, 2, 3];\nsphere();\n",
			shape:   "Unknown Instantiation",
			unknown: "cube([1, 2, 3];",
		},
		{
			name:    "stray closing brace",
			src:     "}\ncube();\n",
			shape:   "Unknown Instantiation",
			unknown: "}",
		},
		{
			name:    "unknown character",
			src:     "cube(@);\n",
			shape:   "Unknown",
			unknown: "cube(@);",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, bag := parse(t, tt.src)
			if got := shape(tree, tree.Root); got != tt.shape {
				t.Fatalf("shape = %q, want %q", got, tt.shape)
			}
			var u *syntax.Node
			for _, it := range tree.Root.Items() {
				if it.Kind == syntax.Unknown {
					u = it
				}
			}
			if got := tree.Text(u); got != tt.unknown {
				t.Fatalf("unknown text = %q, want %q", got, tt.unknown)
			}
			if u.Err == 0 {
				t.Fatalf("unknown node carries no error code")
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == diag.SynRecoveredStatement {
					found = true
				}
			}
			if !found {
				t.Fatalf("no recovery diagnostic in %v", bag.Items())
			}
		})
	}
}

func TestRecoveryInsideBlockKeepsBlock(t *testing.T) {
	src := "module m() {\n    cube(;\n    sphere();\n}\n"
	tree, _ := parse(t, src)
	if got := shape(tree, tree.Root); got != "ModuleDef" {
		t.Fatalf("shape = %q", got)
	}
	block := syntax.BlockOf(tree.Root.Items()[0].LastSignificant())
	if got := shape(tree, block); got != "Unknown Instantiation" {
		t.Fatalf("block shape = %q", got)
	}
}

func TestUnknownNeverCrossesClosingBrace(t *testing.T) {
	src := "translate() { x = = 1 }\ncube();\n"
	tree, _ := parse(t, src)
	block := syntax.BlockOf(tree.Root.Items()[0].LastSignificant())
	u := block.Items()[0]
	if u.Kind != syntax.Unknown || tree.Text(u) != "x = = 1" {
		t.Fatalf("unknown = %v %q", u.Kind, tree.Text(u))
	}
}

func TestExpressionGroups(t *testing.T) {
	tree, bag := parse(t, "p = [for (i = [0:2:10]) let (a = i * 2) [cos(a), sin(a)]];\n")
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	var kinds []string
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.TransformationCall, syntax.Vector, syntax.ArgumentList, syntax.Paren:
			kinds = append(kinds, n.Kind.String())
		}
		return true
	})
	want := "Vector TransformationCall ArgumentList Vector TransformationCall ArgumentList Vector ArgumentList ArgumentList"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("groups:\n got %s\nwant %s", got, want)
	}
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	var b strings.Builder
	for i := range 10 {
		fmt.Fprintf(&b, "x%d = ;\n", i)
	}
	file := fs.Get(fs.AddVirtual("many.scad", []byte(b.String())))
	bag := diag.NewBag(100)
	parser.Parse(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 3})
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			errs++
		}
	}
	if errs != 2 {
		t.Fatalf("expected reporting to stop before the limit, got %d errors", errs)
	}
}
