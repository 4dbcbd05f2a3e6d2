package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/weekgrid/internal/schedule"
	"github.com/twiced-technology-gmbh/weekgrid/internal/task"
	"github.com/twiced-technology-gmbh/weekgrid/internal/tui"
	"github.com/twiced-technology-gmbh/weekgrid/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The board and the manager refer to each other: the manager notifies
	// the board, and the board calls the manager.
	var model *tui.Board
	mgr, err := openManager(cfg, schedule.WithNotifier(schedule.NotifierFunc(func(tasks []task.Task) {
		if model != nil {
			model.Changed(tasks)
		}
	})))
	if err != nil {
		return err
	}

	model = tui.NewBoard(cfg, mgr)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	paths := model.WatchPaths()
	w, err := watcher.New(paths, func(watcher.Batch) {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		p.Send(tui.ErrorMsg{Err: err}) // non-fatal: the board works without live refresh
		return
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		p.Send(tui.ErrorMsg{Err: watchErr})
	})
}
