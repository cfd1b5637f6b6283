package driver

import (
	"encoding/json"
	"fmt"

	"scadfmt/internal/diag"
	"scadfmt/internal/observ"
	"scadfmt/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic wraps a timer report into an info diagnostic whose note
// carries the JSON form, for `--timings --format json`.
func TimingDiagnostic(kind string, files int, report observ.Report) diag.Diagnostic {
	if kind == "" {
		kind = "fmt"
	}
	payload := timingPayload{Kind: kind, Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, fmt.Sprintf("timings (%s): total %.2f ms", kind, report.TotalMS))
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Span{}, string(data))
	}
	return d
}
