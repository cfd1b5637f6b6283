// Package engine is the entry point editors and other hosts format through:
// a text buffer and style settings in, edits out.
package engine

import (
	"context"
	"strconv"
	"time"

	"scadfmt/internal/diag"
	"scadfmt/internal/format"
	"scadfmt/internal/observ"
	"scadfmt/internal/parser"
	"scadfmt/internal/source"
	"scadfmt/internal/style"
	"scadfmt/internal/textedit"
	"scadfmt/internal/trace"
)

// Range is a byte range of the buffer, End exclusive.
type Range struct {
	Start, End uint32
}

// Formatter is what hosts need from the engine.
type Formatter interface {
	ComputeEdits(ctx context.Context, text []byte, rng *Range, settings style.Settings) ([]textedit.Edit, error)
	ValidateConfig(settings style.Settings) error
}

// Service implements Formatter. The zero value formats on top of the
// default style and drops diagnostics.
type Service struct {
	// Base is the configuration settings are applied to; nil means defaults.
	Base *style.Config
	// Reporter receives lexer, parser and formatter diagnostics. It is
	// shared by concurrent calls.
	Reporter diag.Reporter
	// Timer, when set, accumulates parse/format durations.
	Timer *observ.Timer
	// Path names the buffer in diagnostics.
	Path string
}

var _ Formatter = (*Service)(nil)

// ValidateConfig checks settings without formatting anything; the error is a
// *style.ConfigurationError.
func (s *Service) ValidateConfig(settings style.Settings) error {
	_, err := s.config(settings)
	return err
}

// ComputeEdits formats text (or the statements rng touches) and returns the
// edits. Malformed source is not an error: broken statements stay as they are.
// The only errors are an invalid configuration and a cancelled context.
func (s *Service) ComputeEdits(ctx context.Context, text []byte, rng *Range, settings style.Settings) ([]textedit.Edit, error) {
	cfg, err := s.config(settings)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Edits(ctx, text, rng, cfg), nil
}

// Edits is ComputeEdits with an already validated configuration.
func (s *Service) Edits(ctx context.Context, text []byte, rng *Range, cfg style.Config) []textedit.Edit {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "compute-edits")
	defer span.End("")

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(s.path(), text))

	_, ps := trace.Start(ctx, trace.ScopePass, "parse")
	started := time.Now()
	tree := parser.Parse(file, parser.Options{Reporter: s.Reporter})
	s.Timer.Add("parse", time.Since(started))
	ps.WithExtra("tokens", strconv.Itoa(len(tree.Tokens))).End("")

	opts := format.Options{Reporter: s.Reporter}
	if rng != nil {
		opts.Range = &source.Span{File: file.ID, Start: rng.Start, End: rng.End}
	}
	_, fsp := trace.Start(ctx, trace.ScopePass, "format")
	started = time.Now()
	res, err := format.Format(tree, cfg, opts)
	s.Timer.Add("format", time.Since(started))
	if err != nil {
		fsp.End(err.Error())
		return nil
	}
	detail := ""
	if res.Aborted {
		detail = "aborted"
	}
	fsp.WithExtra("edits", strconv.Itoa(len(res.Edits))).End(detail)
	return res.Edits
}

func (s *Service) config(settings style.Settings) (style.Config, error) {
	base := style.Default()
	if s.Base != nil {
		base = *s.Base
	}
	return base.With(settings)
}

func (s *Service) path() string {
	if s.Path == "" {
		return "<buffer>"
	}
	return s.Path
}
