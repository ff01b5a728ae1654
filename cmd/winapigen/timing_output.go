package main

import (
	"fmt"
	"io"
	"time"

	"github.com/hkva/ghidra-directx-data/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) error {
	if out == nil {
		return nil
	}
	if timings.Has(pipeline.StageFlatten) {
		if _, err := fmt.Fprintf(out, "flattened %.1f ms\n", toMillis(timings.Duration(pipeline.StageFlatten))); err != nil {
			return err
		}
	}
	if timings.Has(pipeline.StageOptions) {
		if _, err := fmt.Fprintf(out, "options %.1f ms\n", toMillis(timings.Duration(pipeline.StageOptions))); err != nil {
			return err
		}
	}
	return nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
