package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"codeabs/internal/dataset"
	"codeabs/internal/driver"
	"codeabs/internal/ui"
)

type datasetOutcome struct {
	result *driver.BatchResult
	err    error
}

func runDatasetWithUI(ctx context.Context, ds *dataset.Dataset, opts driver.Options) (*driver.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan datasetOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev ui.Event) { events <- ev }
		res, err := driver.AbstractDataset(ctx, ds, optsCopy)
		outcomeCh <- datasetOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("abstracting", ds.Units(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()

	var outcome datasetOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// UI закрыт раньше батча (ctrl+c или ошибка): останавливаем воркеры
		cancel()
		go func() {
			for range events {
			}
		}()
		outcome = <-outcomeCh
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
