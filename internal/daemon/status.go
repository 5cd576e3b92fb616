package daemon

import (
	"context"
	"os"
	"time"

	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
	"wisdomtree/internal/radio"
	"wisdomtree/internal/timer"
	"wisdomtree/internal/tree"
)

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DBPath       string
	LockFilePath string
	Timer        timer.Snapshot
	Player       player.Snapshot
	Radio        radio.Snapshot
	TreeAge      int64
	TreeStage    int
	Season       string
	Quote        string
	QuoteSource  string
	QuoteCount   int
}

// Status assembles a point-in-time view across all components.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DBPath:       d.store.Path(),
		LockFilePath: d.lockPath,
		Timer:        d.engine.Snapshot(),
		Player:       d.player.Snapshot(),
		Radio:        d.tuner.Snapshot(),
		Season:       string(tree.SeasonForDate(time.Now())),
		Quote:        d.Quote(),
		QuoteSource:  d.quotes.Source(),
		QuoteCount:   d.quotes.Count(),
	}

	age, err := d.store.TreeAge(ctx)
	if err != nil {
		d.logger.Warn("read tree age for status failed", logging.Error(err))
	} else {
		status.TreeAge = age
		status.TreeStage = int(tree.StageForAge(age))
	}
	return status
}
