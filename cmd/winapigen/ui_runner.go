package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hkva/ghidra-directx-data/internal/pipeline"
	"github.com/hkva/ghidra-directx-data/internal/ui"
)

type generateOutcome struct {
	result pipeline.Result
	err    error
}

// runGenerateWithUI runs the pipeline on a worker goroutine while the Bubble
// Tea program renders its progress events. The pipeline itself stays
// sequential; only rendering happens concurrently.
func runGenerateWithUI(ctx context.Context, title string, files []string, req *pipeline.Request) (pipeline.Result, error) {
	if req == nil {
		return pipeline.Result{}, fmt.Errorf("missing generate request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Generate(ctx, &reqCopy)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
