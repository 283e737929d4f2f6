package lifecycle

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vitaflowd/vitaflow/internal/model"
	"github.com/vitaflowd/vitaflow/internal/storage"
)

// TakenResetter is the live collection's day-boundary hook.
type TakenResetter interface {
	ResetTaken() ([]model.Supplement, error)
}

// Rollover applies the midnight boundary to a running process: taken flags
// are cleared through the live collection so edits made while the job fires
// are kept, then the new day marker is persisted.
func Rollover(store storage.Store, repo TakenResetter, now time.Time) ([]model.Supplement, error) {
	items, err := repo.ResetTaken()
	if err != nil {
		return nil, fmt.Errorf("reset taken: %w", err)
	}
	if err := store.SaveDayMarker(LocalDay(now)); err != nil {
		return nil, fmt.Errorf("save day marker: %w", err)
	}
	return items, nil
}

// RolloverWatcher fires a callback just after local midnight so a process
// left open overnight still resets its checklist. Startup initialization
// covers processes that were closed across the boundary; this covers the
// ones that were not.
type RolloverWatcher struct {
	c *cron.Cron
}

// StartRolloverWatcher schedules fn at 00:00 local time every day. The
// returned watcher must be stopped on teardown.
func StartRolloverWatcher(fn func()) (*RolloverWatcher, error) {
	c := cron.New()
	if _, err := c.AddFunc("0 0 * * *", fn); err != nil {
		return nil, err
	}
	c.Start()
	return &RolloverWatcher{c: c}, nil
}

// Stop cancels the midnight job and waits for a running invocation to finish.
func (w *RolloverWatcher) Stop() {
	if w == nil || w.c == nil {
		return
	}
	<-w.c.Stop().Done()
}
