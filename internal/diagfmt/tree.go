package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"scadfmt/internal/source"
	"scadfmt/internal/syntax"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// TreeNodeOutput is the JSON form of a syntax node.
type TreeNodeOutput struct {
	Kind     string           `json:"kind"`
	Stmt     string           `json:"stmt,omitempty"`
	Span     source.Span      `json:"span"`
	Text     string           `json:"text,omitempty"`
	Error    string           `json:"error,omitempty"`
	Leading  []TreeNodeOutput `json:"leading,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty"`
	Trailing []TreeNodeOutput `json:"trailing,omitempty"`
}

// FormatTreePretty prints the concrete syntax tree with box-drawing guides.
// Whitespace leaves are omitted unless withTrivia is set.
func FormatTreePretty(w io.Writer, tree *syntax.Tree, fs *source.FileSet, withTrivia bool) error {
	if tree == nil || tree.Root == nil {
		return fmt.Errorf("empty tree")
	}
	header := "File"
	if fs != nil && tree.File != nil {
		header = formatPath(tree.File, PathModeAuto, fs.BaseDir())
	}
	root := buildTreeNode(tree, tree.Root, withTrivia)
	root.label = header + " " + root.label
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeTreeChildren(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTreeChildren(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, c := range children {
		last := i == len(children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(c.label)
		sb.WriteByte('\n')
		writeTreeChildren(sb, c.children, prefix+next)
	}
}

func buildTreeNode(tree *syntax.Tree, n *syntax.Node, withTrivia bool) *treeNode {
	if n.IsLeaf() {
		tok := tree.Tok(n)
		return &treeNode{label: fmt.Sprintf("%s %q", tok.Kind, tok.Text)}
	}
	node := &treeNode{label: nodeLabel(tree, n)}
	add := func(prefix string, list []*syntax.Node) {
		for _, c := range list {
			if !withTrivia && c.Kind == syntax.Whitespace {
				continue
			}
			child := buildTreeNode(tree, c, withTrivia)
			child.label = prefix + child.label
			node.children = append(node.children, child)
		}
	}
	add("leading: ", n.Leading)
	add("", n.Children)
	add("trailing: ", n.Trailing)
	return node
}

func nodeLabel(tree *syntax.Tree, n *syntax.Node) string {
	label := n.Kind.String()
	if n.Kind == syntax.Statement && n.Stmt != syntax.StmtNone {
		label += "(" + n.Stmt.String() + ")"
	}
	if n.First != syntax.NoTok {
		sp := tree.Tokens[n.First].Span.Cover(tree.Tokens[n.Last].Span)
		label += fmt.Sprintf(" [%d..%d)", sp.Start, sp.End)
	}
	if n.Kind == syntax.Unknown && n.Err != 0 {
		label += " " + n.Err.ID()
	}
	return label
}

// FormatTreeJSON writes the tree as nested JSON objects.
func FormatTreeJSON(w io.Writer, tree *syntax.Tree) error {
	if tree == nil || tree.Root == nil {
		return fmt.Errorf("empty tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(treeJSON(tree, tree.Root))
}

func treeJSON(tree *syntax.Tree, n *syntax.Node) TreeNodeOutput {
	out := TreeNodeOutput{Kind: n.Kind.String()}
	if n.IsLeaf() {
		tok := tree.Tok(n)
		out.Kind = tok.Kind.String()
		out.Span = tok.Span
		out.Text = tok.Text
		return out
	}
	if n.Kind == syntax.Statement {
		out.Stmt = n.Stmt.String()
	}
	if n.First != syntax.NoTok {
		out.Span = tree.Tokens[n.First].Span.Cover(tree.Tokens[n.Last].Span)
	}
	if n.Kind == syntax.Unknown && n.Err != 0 {
		out.Error = n.Err.ID()
	}
	for _, c := range n.Leading {
		out.Leading = append(out.Leading, treeJSON(tree, c))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, treeJSON(tree, c))
	}
	for _, c := range n.Trailing {
		out.Trailing = append(out.Trailing, treeJSON(tree, c))
	}
	return out
}
