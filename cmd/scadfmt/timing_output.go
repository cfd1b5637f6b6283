package main

import (
	"fmt"
	"io"

	"scadfmt/internal/observ"
)

// printTimings writes the phase table of timer; nil means --timings is off.
func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
