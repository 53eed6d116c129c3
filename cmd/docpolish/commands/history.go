package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/docpolish/internal/errors"
	"git.home.luguber.info/inful/docpolish/internal/store"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to list"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New(errors.StageStore, errors.CategoryConfig, "history is disabled; set history.enabled in the configuration")
	}

	st, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return errors.Wrap(err, errors.StageStore, errors.CategoryIO, "could not open history store")
	}
	defer func() { _ = st.Close() }()

	runs, err := st.Recent(context.Background(), h.Limit)
	if err != nil {
		return errors.Wrap(err, errors.StageStore, errors.CategoryIO, "could not read history")
	}
	if len(runs) == 0 {
		fmt.Println("No recorded builds")
		return nil
	}

	fmt.Printf("%-19s  %-8s  %5s  %5s  %8s  %-12s  %s\n",
		"STARTED", "OUTCOME", "PAGES", "REWR", "DURATION", "COMMIT", "DETAIL")
	for _, run := range runs {
		fmt.Printf("%-19s  %-8s  %5d  %5d  %8s  %-12s  %s\n",
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Pages,
			run.Rewritten,
			run.Duration.Round(time.Millisecond),
			run.Commit,
			truncate(run.Detail, 60))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
