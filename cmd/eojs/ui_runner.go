package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"eojs/internal/scaffold"
	"eojs/internal/ui"
)

type newOutcome struct {
	results []scaffold.WriteResult
	err     error
}

// runNewWithUI runs job in the background and renders its events until it
// returns.
func runNewWithUI(ctx context.Context, title string, items []string, job func(context.Context, scaffold.ProgressSink) ([]scaffold.WriteResult, error)) ([]scaffold.WriteResult, error) {
	events := make(chan scaffold.Event, 256)
	outcomeCh := make(chan newOutcome, 1)

	go func() {
		res, err := job(ctx, scaffold.ChannelSink{Ch: events})
		outcomeCh <- newOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, items, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
