// Package pipeline orchestrates the generation run: flatten the header,
// then emit its parser options. The two stages share one compiler and run
// strictly one after another on the calling goroutine; only progress
// reporting ever crosses a channel.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"fortio.org/safecast"

	"github.com/hkva/ghidra-directx-data/internal/flatten"
	"github.com/hkva/ghidra-directx-data/internal/options"
	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
	"github.com/hkva/ghidra-directx-data/internal/toolchain"
)

// Request configures a generation run.
type Request struct {
	Target  target.Descriptor
	Profile *profile.Profile
	OutDir  string
	// Invoker overrides the compiler resolved from the profile. The
	// availability probe is skipped when one is supplied.
	Invoker       toolchain.Invoker
	PrintCommands bool
	Progress      ProgressSink
}

// Result captures the generated artefacts and stage timings.
type Result struct {
	HeaderPath  string
	OptionsPath string
	OptionCount uint32
	Timings     Timings
}

// Generate runs the full pipeline for one target. A stage failure stops the
// run immediately; files from completed stages stay, the failing stage
// leaves nothing behind.
func Generate(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing generate request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.OutDir == "" {
		req.OutDir = "."
	}
	if req.Profile == nil {
		req.Profile = profile.Builtin()
	}

	headerFile := req.Target.HeaderFile()
	optionsFile := req.Target.OptionsFile()
	emitQueued(req.Progress, headerFile, optionsFile)

	inv := req.Invoker
	if inv == nil {
		gcc := toolchain.NewGCC(req.Profile.BinaryFor(req.Target.Arch), req.Profile.InvocationFlags())
		if req.PrintCommands {
			gcc.CommandLog = os.Stdout
		}
		if err := gcc.Available(); err != nil {
			emitStage(req.Progress, headerFile, StageFlatten, StatusError, err, 0)
			return result, err
		}
		inv = gcc
	}

	if err := os.MkdirAll(req.OutDir, 0o750); err != nil {
		return result, fmt.Errorf("failed to create output dir: %w", err)
	}

	flattenStart := time.Now()
	emitStage(req.Progress, headerFile, StageFlatten, StatusWorking, nil, 0)
	headerPath, err := flatten.File(ctx, inv, req.Target, req.OutDir)
	if err != nil {
		emitStage(req.Progress, headerFile, StageFlatten, StatusError, err, 0)
		return result, err
	}
	result.HeaderPath = headerPath
	result.Timings.Set(StageFlatten, time.Since(flattenStart))
	emitStage(req.Progress, headerFile, StageFlatten, StatusDone, nil, result.Timings.Duration(StageFlatten))

	optionsStart := time.Now()
	emitStage(req.Progress, optionsFile, StageOptions, StatusWorking, nil, 0)
	optionsPath, count, err := options.File(ctx, inv, req.Profile, req.Target, req.OutDir)
	if err != nil {
		emitStage(req.Progress, optionsFile, StageOptions, StatusError, err, 0)
		return result, err
	}
	result.OptionsPath = optionsPath
	result.OptionCount, err = safecast.Conv[uint32](count)
	if err != nil {
		return result, fmt.Errorf("option count out of range: %w", err)
	}
	result.Timings.Set(StageOptions, time.Since(optionsStart))
	emitStage(req.Progress, optionsFile, StageOptions, StatusDone, nil, result.Timings.Duration(StageOptions))

	return result, nil
}

func emitQueued(sink ProgressSink, files ...string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageFlatten, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	if file != "" {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
