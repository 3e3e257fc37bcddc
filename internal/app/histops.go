package app

import "codewarden/internal/history"

// History returns termination records matching the filter.
func (a *App) History(f history.Filter) ([]history.Record, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	store, err := history.New(cfg.HistoryPath())
	if err != nil {
		return nil, err
	}
	return store.List(f), nil
}

// ResetHistory clears the termination history.
func (a *App) ResetHistory() error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	store, err := history.New(cfg.HistoryPath())
	if err != nil {
		return err
	}
	store.Reset()
	return nil
}
