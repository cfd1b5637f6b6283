package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"scadfmt/internal/diag"
	"scadfmt/internal/format"
	"scadfmt/internal/observ"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/style"
	"scadfmt/internal/textedit"
	"scadfmt/internal/trace"
	"scadfmt/internal/version"
)

// SourceExt is the extension of files collected from directories.
const SourceExt = ".scad"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoFiles is returned when the given paths hold no OpenSCAD sources.
var ErrNoFiles = errors.New("format: no .scad files found")

// Mode says what happens to formatted files.
type Mode uint8

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck only reports which files would change.
	ModeCheck
	// ModeStdout returns the formatted content without touching files.
	ModeStdout
	// ModeDiff is ModeCheck that also keeps both versions for a diff.
	ModeDiff
)

// LineRange selects lines First..Last (1-based, inclusive).
type LineRange struct {
	First, Last uint32
}

// ParseLineRange parses "a:b" (or a single line "a").
func ParseLineRange(s string) (LineRange, error) {
	var r LineRange
	if n, err := fmt.Sscanf(s, "%d:%d", &r.First, &r.Last); err == nil && n == 2 {
		if r.First == 0 || r.Last < r.First {
			return LineRange{}, fmt.Errorf("invalid line range %q", s)
		}
		return r, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &r.First); err != nil || r.First == 0 {
		return LineRange{}, fmt.Errorf("invalid line range %q (expected a:b)", s)
	}
	r.Last = r.First
	return r, nil
}

// FormatOptions configures a batch.
type FormatOptions struct {
	Mode  Mode
	Jobs  int // <= 0: GOMAXPROCS
	Style *StyleResolver
	// Lines restricts formatting to the statements on these lines; only
	// valid for a single file.
	Lines          *LineRange
	Cache          *DiskCache
	Progress       ProgressSink
	Timer          *observ.Timer
	MaxDiagnostics int
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Cached    bool // skipped: the cache knows the file is formatted
	Aborted   bool // the safety net kept the file as is
	Err       error
	Original  []byte // kept in ModeDiff and ModeStdout
	Formatted []byte // ModeStdout and ModeDiff only
	File      *source.File
	FileSet   *source.FileSet // owns File; for diagnostics output
	Bag       *diag.Bag
}

// FormatPaths formats files and directories (collecting *.scad recursively)
// on a bounded pool of workers. Results come back in path order. Per-file
// problems land in FormatResult.Err; the error return is for the batch itself.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "format-paths")
	defer span.End("")

	files, err := CollectSourceFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if opts.Lines != nil && len(files) > 1 {
		return nil, errors.New("format: --lines needs exactly one file")
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(gctx, path, opts)
			return nil
		})
	}
	err = g.Wait()
	span.WithExtra("files", fmt.Sprint(len(files)))
	emit(opts.Progress, Event{Stage: StageFormat, Status: StatusDone})
	return results, err
}

func formatFile(ctx context.Context, path string, opts FormatOptions) FormatResult {
	started := time.Now()
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	res := FormatResult{Path: path}
	defer func() {
		status := StatusDone
		switch {
		case res.Err != nil:
			status = StatusError
		case res.Cached:
			status = StatusCached
		}
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: status, Changed: res.Changed, Err: res.Err, Elapsed: time.Since(started)})
		span.End(string(status))
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	cfg, err := opts.Style.resolve(path)
	if err != nil {
		res.Err = err
		return res
	}
	res = formatContent(ctx, path, data, cfg, opts)
	if res.Err != nil || opts.Mode != ModeWrite || !res.Changed {
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, res.Formatted, mode.Perm()); err != nil {
		res.Err = err
		return res
	}
	_ = opts.Cache.MarkClean(CacheKey(res.Formatted, cfg.Fingerprint(), version.Version), path, cfg.Fingerprint())
	res.Formatted = nil
	return res
}

// FormatSource formats an in-memory buffer (stdin) with cfg.
func FormatSource(ctx context.Context, name string, data []byte, cfg style.Config, opts FormatOptions) FormatResult {
	return formatContent(ctx, name, data, cfg, opts)
}

func formatContent(ctx context.Context, path string, data []byte, cfg style.Config, opts FormatOptions) FormatResult {
	res := FormatResult{Path: path}
	keep := opts.Mode == ModeStdout || opts.Mode == ModeDiff
	if keep {
		res.Original = data
	}

	key := CacheKey(data, cfg.Fingerprint(), version.Version)
	if opts.Lines == nil && opts.Cache.IsClean(key) {
		res.Cached = true
		if keep {
			res.Formatted = data
		}
		return res
	}

	// BOM не часть программы: форматируем без него и возвращаем на место
	body, hadBOM := bytes.CutPrefix(data, utf8BOM)
	fileSet := source.NewFileSet()
	flags := source.FileFlags(0)
	if hadBOM {
		flags |= source.FileHadBOM
	}
	sf := fileSet.Get(fileSet.Add(path, body, flags))
	res.File = sf
	res.FileSet = fileSet
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	bag := diag.NewBag(maxDiag)
	res.Bag = bag
	reporter := &diag.BagReporter{Bag: bag}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	_, ps := trace.Start(ctx, trace.ScopePass, "parse")
	started := time.Now()
	maxErrors, convErr := safecast.Conv[uint](bag.Cap())
	if convErr != nil {
		maxErrors = 0
	}
	tree := parser.Parse(sf, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
	opts.Timer.Add("parse", time.Since(started))
	ps.End("")

	fmtOpts := format.Options{Reporter: reporter}
	if opts.Lines != nil {
		sp, ok := sf.LineSpan(opts.Lines.First, opts.Lines.Last)
		if !ok {
			res.Err = fmt.Errorf("%s: lines %d:%d are outside of the file", path, opts.Lines.First, opts.Lines.Last)
			return res
		}
		fmtOpts.Range = &sp
	}

	emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
	_, fsp := trace.Start(ctx, trace.ScopePass, "format")
	started = time.Now()
	out, err := format.Format(tree, cfg, fmtOpts)
	if err != nil {
		fsp.End(err.Error())
		res.Err = err
		return res
	}
	formatted, err := textedit.Apply(sf.Content, out.Edits)
	opts.Timer.Add("format", time.Since(started))
	fsp.End("")
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	if hadBOM {
		formatted = append(append([]byte{}, utf8BOM...), formatted...)
	}
	res.Aborted = out.Aborted
	res.Changed = !bytes.Equal(data, formatted)
	if keep || opts.Mode == ModeWrite {
		res.Formatted = formatted
	}
	if !res.Changed && !res.Aborted && opts.Lines == nil {
		_ = opts.Cache.MarkClean(key, path, cfg.Fingerprint())
	}
	return res
}

// CollectSourceFiles expands directories into their *.scad files; files named
// explicitly are taken whatever their extension. The result is sorted and
// free of duplicates.
func CollectSourceFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == SourceExt {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
