package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"alox/internal/driver"
	"alox/internal/ui"
)

type compileOutcome struct {
	result *driver.Result
	err    error
}

// compileWithUI runs the compilation while a progress view renders its
// events. The view quits when the event channel closes.
func compileWithUI(ctx context.Context, title string, req driver.Request) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		req.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, req)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, req.Files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
