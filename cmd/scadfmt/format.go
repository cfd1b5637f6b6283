package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scadfmt/internal/diag"
	"scadfmt/internal/diagfmt"
	"scadfmt/internal/driver"
	"scadfmt/internal/observ"
	"scadfmt/internal/style"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format OpenSCAD source files",
	Long: `Format rewrites .scad files in place. Directories are searched recursively;
a single "-" reads the source from stdin and writes the result to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

var errChangesRequired = errors.New("fmt: formatting changes required")

func init() {
	flags := fmtCmd.Flags()
	flags.Bool("check", false, "report files that are not formatted, change nothing")
	flags.Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	flags.Bool("diff", false, "print a unified diff of the changes, change nothing")
	flags.String("lines", "", "format only the statements on lines a:b (single file)")
	flags.StringArray("set", nil, "override a style option, name=value (repeatable)")
	flags.String("config", "", "style file to use instead of discovering "+style.FileName)
	flags.String("stdin-path", "", "path used to find the style of stdin input")
	flags.String("format", "text", "output format (text|json)")
	flags.String("ui", "auto", "progress interface (auto|on|off)")
	flags.Bool("no-cache", false, "do not consult or update the formatting cache")
}

// fmtOptions: разобранные флаги команды fmt.
type fmtOptions struct {
	mode      driver.Mode
	output    string
	lines     *driver.LineRange
	settings  style.Settings
	config    string
	stdinPath string
	tui       bool
	noCache   bool
	quiet     bool
	timings   bool
	jobs      int
	maxDiag   int
}

func readFmtOptions(cmd *cobra.Command) (*fmtOptions, error) {
	flags := cmd.Flags()
	rootFlags := cmd.Root().PersistentFlags()
	opts := &fmtOptions{settings: style.Settings{}}

	check, err := flags.GetBool("check")
	if err != nil {
		return nil, err
	}
	toStdout, err := flags.GetBool("stdout")
	if err != nil {
		return nil, err
	}
	diff, err := flags.GetBool("diff")
	if err != nil {
		return nil, err
	}
	opts.mode, err = selectMode(check, toStdout, diff)
	if err != nil {
		return nil, err
	}

	if opts.output, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	switch opts.output {
	case "text", "json":
	default:
		return nil, fmt.Errorf("fmt: unsupported output format %q", opts.output)
	}
	if opts.mode == driver.ModeStdout && opts.output != "text" {
		return nil, fmt.Errorf("fmt: --stdout is only supported with text output")
	}

	lines, err := flags.GetString("lines")
	if err != nil {
		return nil, err
	}
	if lines != "" {
		r, err := driver.ParseLineRange(lines)
		if err != nil {
			return nil, fmt.Errorf("fmt: %w", err)
		}
		opts.lines = &r
	}

	sets, err := flags.GetStringArray("set")
	if err != nil {
		return nil, err
	}
	if opts.settings, err = parseSettings(sets); err != nil {
		return nil, err
	}

	if opts.config, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if opts.stdinPath, err = flags.GetString("stdin-path"); err != nil {
		return nil, err
	}
	if opts.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, err
	}
	if opts.quiet, err = rootFlags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if opts.timings, err = rootFlags.GetBool("timings"); err != nil {
		return nil, err
	}
	if opts.jobs, err = rootFlags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if opts.maxDiag, err = rootFlags.GetInt("max-diagnostics"); err != nil {
		return nil, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, err
	}
	if opts.tui, err = progressUI(uiValue, opts, isTerminal(os.Stdout)); err != nil {
		return nil, err
	}
	return opts, nil
}

// progressUI resolves --ui. The progress view only replaces text output of
// write and check runs; auto shows it on a terminal.
func progressUI(value string, opts *fmtOptions, terminal bool) (bool, error) {
	mode := strings.ToLower(strings.TrimSpace(value))
	switch mode {
	case "", "auto", "on", "off":
	default:
		return false, fmt.Errorf("fmt: invalid --ui value %q (expected auto|on|off)", value)
	}
	if opts.output != "text" || opts.quiet {
		return false, nil
	}
	if opts.mode != driver.ModeWrite && opts.mode != driver.ModeCheck {
		return false, nil
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return terminal, nil
	}
}

func selectMode(check, toStdout, diff bool) (driver.Mode, error) {
	n := 0
	for _, b := range []bool{check, toStdout, diff} {
		if b {
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("fmt: --check, --stdout and --diff are mutually exclusive")
	}
	switch {
	case check:
		return driver.ModeCheck, nil
	case toStdout:
		return driver.ModeStdout, nil
	case diff:
		return driver.ModeDiff, nil
	default:
		return driver.ModeWrite, nil
	}
}

// parseSettings folds repeated --set name=value into one Settings.
func parseSettings(assignments []string) (style.Settings, error) {
	settings := style.Settings{}
	for _, kv := range assignments {
		s, err := style.ParseAssignment(kv)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", kv, err)
		}
		settings = settings.Merge(s)
	}
	if err := style.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	opts, err := readFmtOptions(cmd)
	if err != nil {
		return err
	}
	resolver := &driver.StyleResolver{ConfigPath: opts.config, Settings: opts.settings}

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}

	if len(args) == 1 && args[0] == "-" {
		return runFmtStdin(cmd, opts, resolver, timer)
	}

	var cache *driver.DiskCache
	if !opts.noCache && opts.lines == nil {
		cache, err = driver.OpenDiskCache("scadfmt")
		if err != nil && !opts.quiet {
			fmt.Fprintf(os.Stderr, "fmt: cache disabled: %v\n", err)
		}
	}

	fopts := driver.FormatOptions{
		Mode:           opts.mode,
		Jobs:           opts.jobs,
		Style:          resolver,
		Lines:          opts.lines,
		Cache:          cache,
		Timer:          timer,
		MaxDiagnostics: opts.maxDiag,
	}

	idx := timer.Begin("fmt")
	var results []driver.FormatResult
	tui := opts.tui
	if tui {
		files, collectErr := driver.CollectSourceFiles(cmd.Context(), args)
		if collectErr != nil {
			return collectErr
		}
		results, err = runFormatWithUI(cmd.Context(), "scadfmt fmt", files, args, fopts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, fopts)
	}
	timer.End(idx, fmt.Sprintf("%d files", len(results)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var failed, changed int
	switch opts.output {
	case "json":
		failed, changed, err = renderFmtJSON(out, results, opts, timer)
		if err != nil {
			return err
		}
	default:
		failed, changed = renderFmtText(cmd, out, results, opts, tui)
		printTimings(os.Stderr, timer)
	}

	if failed > 0 {
		return fmt.Errorf("fmt: failed to format %d file(s)", failed)
	}
	if (opts.mode == driver.ModeCheck || opts.mode == driver.ModeDiff) && changed > 0 {
		return errChangesRequired
	}
	return nil
}

func runFmtStdin(cmd *cobra.Command, opts *fmtOptions, resolver *driver.StyleResolver, timer *observ.Timer) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("fmt: reading stdin: %w", err)
	}
	name := "<stdin>"
	lookup := filepath.Join(".", "stdin"+driver.SourceExt)
	if opts.stdinPath != "" {
		name = opts.stdinPath
		lookup = opts.stdinPath
	}
	cfg, err := resolver.Resolve(lookup)
	if err != nil {
		return err
	}

	mode := opts.mode
	if mode == driver.ModeWrite {
		mode = driver.ModeStdout
	}
	res := driver.FormatSource(cmd.Context(), name, data, cfg, driver.FormatOptions{
		Mode:           mode,
		Lines:          opts.lines,
		Timer:          timer,
		MaxDiagnostics: opts.maxDiag,
	})
	if res.Err != nil {
		return res.Err
	}
	if !opts.quiet {
		printFileDiagnostics(cmd, res)
	}
	defer printTimings(os.Stderr, timer)

	out := cmd.OutOrStdout()
	switch mode {
	case driver.ModeCheck:
		if res.Changed {
			if !opts.quiet {
				fmt.Fprintln(out, name)
			}
			return errChangesRequired
		}
		return nil
	case driver.ModeDiff:
		if res.Changed {
			writeDiff(out, res)
			return errChangesRequired
		}
		return nil
	default:
		_, err = out.Write(res.Formatted)
		return err
	}
}

func renderFmtText(cmd *cobra.Command, out io.Writer, results []driver.FormatResult, opts *fmtOptions, tui bool) (failed, changed int) {
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "fmt: %v\n", describeError(res))
			continue
		}
		if !opts.quiet {
			printFileDiagnostics(cmd, res)
		}
		if opts.mode == driver.ModeStdout {
			// неизменённые файлы тоже попадают в вывод
			_, _ = out.Write(res.Formatted)
		}
		if !res.Changed {
			continue
		}
		changed++
		switch opts.mode {
		case driver.ModeStdout:
		case driver.ModeDiff:
			writeDiff(out, res)
		case driver.ModeCheck:
			if !opts.quiet && !tui {
				fmt.Fprintln(out, res.Path)
			}
		default:
			if !opts.quiet && !tui {
				fmt.Fprintf(out, "reformatted %s\n", res.Path)
			}
		}
	}
	return failed, changed
}

// describeError prefixes the path unless the error already carries it.
func describeError(res driver.FormatResult) string {
	msg := res.Err.Error()
	if strings.HasPrefix(msg, res.Path) {
		return msg
	}
	return res.Path + ": " + msg
}

// printFileDiagnostics shows syntax problems and safety net aborts of one file.
func printFileDiagnostics(cmd *cobra.Command, res driver.FormatResult) {
	if res.Bag == nil || res.Bag.Len() == 0 || res.FileSet == nil {
		return
	}
	res.Bag.Sort()
	diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     colorEnabled(cmd, os.Stderr),
		Context:   1,
		ShowNotes: true,
	})
}

var (
	diffAdd    = color.New(color.FgGreen)
	diffDel    = color.New(color.FgRed)
	diffHeader = color.New(color.FgCyan)
	diffFile   = color.New(color.Bold)
)

func writeDiff(w io.Writer, res driver.FormatResult) {
	text := driver.Unified(res.Path, string(res.Original), string(res.Formatted), 3)
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			diffFile.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			diffHeader.Fprint(w, line)
		case line[0] == '+':
			diffAdd.Fprint(w, line)
		case line[0] == '-':
			diffDel.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

type fmtFileJSON struct {
	Path        string                     `json:"path"`
	Changed     bool                       `json:"changed"`
	Cached      bool                       `json:"cached,omitempty"`
	Aborted     bool                       `json:"aborted,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Diff        string                     `json:"diff,omitempty"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
}

type fmtJSON struct {
	Mode    string                     `json:"mode"`
	Files   []fmtFileJSON              `json:"files"`
	Changed int                        `json:"changed"`
	Failed  int                        `json:"failed"`
	Timings *diagfmt.DiagnosticsOutput `json:"timings,omitempty"`
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, opts *fmtOptions, timer *observ.Timer) (failed, changed int, err error) {
	payload := fmtJSON{Mode: modeName(opts.mode), Files: make([]fmtFileJSON, 0, len(results))}
	for _, res := range results {
		jr := fmtFileJSON{Path: res.Path, Changed: res.Changed, Cached: res.Cached, Aborted: res.Aborted}
		if res.Err != nil {
			failed++
			jr.Error = res.Err.Error()
		}
		if res.Changed {
			changed++
			if opts.mode == driver.ModeDiff {
				jr.Diff = driver.Unified(res.Path, string(res.Original), string(res.Formatted), 3)
			}
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			res.Bag.Sort()
			d := diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				Max:              opts.maxDiag,
			})
			jr.Diagnostics = &d
		}
		payload.Files = append(payload.Files, jr)
	}
	payload.Changed, payload.Failed = changed, failed

	if timer != nil {
		bag := diag.NewBag(1)
		bag.Add(driver.TimingDiagnostic("fmt", len(results), timer.Report()))
		d := diagfmt.BuildDiagnosticsOutput(bag, nil, diagfmt.JSONOpts{})
		payload.Timings = &d
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return failed, changed, encoder.Encode(payload)
}

func modeName(m driver.Mode) string {
	switch m {
	case driver.ModeCheck:
		return "check"
	case driver.ModeStdout:
		return "stdout"
	case driver.ModeDiff:
		return "diff"
	default:
		return "write"
	}
}
