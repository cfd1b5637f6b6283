package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scadfmt/internal/diag"
	"scadfmt/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	var f *source.File
	if fs != nil {
		f = fs.Get(d.Primary.File)
	}
	if f == nil || d.Code == diag.ObsTimings {
		// диагностика без места (тайминги, ошибки конфигурации)
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, opts.PathMode, fs.BaseDir()), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	writeSnippet(w, f, d.Primary, int(opts.Context), p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil || n.Span == (source.Span{}) {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(nf, opts.PathMode, fs.BaseDir()), ns.Line, ns.Col, n.Msg)
	}
}

// writeSnippet prints the primary line (plus context lines above it) and
// underlines the span; the underline stops at the end of the first line.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, context int, p palette) {
	line := f.LineOf(sp.Start)
	first := uint32(1)
	if ctx, err := safecast.Conv[uint32](context); err == nil && line > ctx {
		first = line - ctx
	}
	width := len(strconv.FormatUint(uint64(line), 10))

	for l := first; l <= line; l++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", width, l), f.GetLine(l))
	}

	text := f.GetLine(line)
	lineStart := f.LineStart(line)
	col := int(sp.Start - lineStart)
	col = min(col, len(text))
	end := min(int(sp.End-lineStart), len(text))
	if sp.End < sp.Start || end < col {
		end = col
	}

	var pad strings.Builder
	for _, r := range text[:col] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	underline := max(1, runewidth.StringWidth(text[col:end]))
	marks := "^" + strings.Repeat("~", underline-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad.String(), p.caret.Sprint(marks))
}
