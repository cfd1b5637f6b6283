package engine_test

import (
	"context"
	"errors"
	"testing"

	"scadfmt/internal/diag"
	"scadfmt/internal/engine"
	"scadfmt/internal/observ"
	"scadfmt/internal/style"
	"scadfmt/internal/textedit"
)

func apply(t *testing.T, src string, edits []textedit.Edit) string {
	t.Helper()
	out, err := textedit.Apply([]byte(src), edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return string(out)
}

func TestComputeEditsWholeBuffer(t *testing.T) {
	var svc engine.Service
	src := "rotate([0,0,90]) translate([1,0,0]) cube(1);"
	edits, err := svc.ComputeEdits(context.Background(), []byte(src), nil, style.Settings{"indentSize": 2})
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if got, want := apply(t, src, edits), "rotate([0, 0, 90])\n  translate([1, 0, 0])\n    cube(1);\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestComputeEditsRange(t *testing.T) {
	var svc engine.Service
	src := "a=1;\nb=2;\nc=3;\n"
	edits, err := svc.ComputeEdits(context.Background(), []byte(src), &engine.Range{Start: 5, End: 9}, nil)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if got, want := apply(t, src, edits), "a=1;\nb = 2;\nc=3;\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInvalidConfigIsTheOnlyError(t *testing.T) {
	var svc engine.Service
	_, err := svc.ComputeEdits(context.Background(), []byte("x=1;"), nil, style.Settings{"indentSize": -1})
	var cfgErr *style.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Option != "indentSize" {
		t.Fatalf("expected a configuration error for indentSize, got %v", err)
	}
	if !errors.Is(err, style.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig in chain")
	}

	bag := diag.NewBag(8)
	svc.Reporter = &diag.BagReporter{Bag: bag}
	edits, err := svc.ComputeEdits(context.Background(), []byte("x = \"broken;\ny=2;\n"), nil, nil)
	if err != nil {
		t.Fatalf("malformed source must not fail: %v", err)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected lexer diagnostics")
	}
	if len(edits) == 0 {
		t.Fatalf("expected edits for the healthy statement")
	}
}

func TestValidateConfig(t *testing.T) {
	var svc engine.Service
	if err := svc.ValidateConfig(style.Settings{"bracePlacement": "NEXT_LINE", "blankLinesMax": 0}); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	if err := svc.ValidateConfig(style.Settings{"noSuchOption": true}); err == nil {
		t.Fatalf("unknown option accepted")
	}
}

func TestBaseConfig(t *testing.T) {
	base, err := style.New(style.Settings{"useTabs": true})
	if err != nil {
		t.Fatalf("style.New: %v", err)
	}
	svc := engine.Service{Base: &base, Timer: observ.NewTimer()}
	src := "module m() { x(); }"
	edits, err := svc.ComputeEdits(context.Background(), []byte(src), nil, nil)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if got, want := apply(t, src, edits), "module m() {\n\tx();\n}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(svc.Timer.Report().Phases) != 2 {
		t.Fatalf("expected parse and format timings, got %+v", svc.Timer.Report().Phases)
	}
}

func TestCancelledContext(t *testing.T) {
	var svc engine.Service
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ComputeEdits(ctx, []byte("x=1;"), nil, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
