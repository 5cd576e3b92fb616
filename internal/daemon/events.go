package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
	"wisdomtree/internal/timer"
	"wisdomtree/internal/tree"
)

// bridgeTimerEvents feeds engine boundaries into history, audio, and
// notifications.
func (d *Daemon) bridgeTimerEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.engine.Events():
			d.handleTimerEvent(ctx, ev)
		}
	}
}

func (d *Daemon) handleTimerEvent(ctx context.Context, ev timer.Event) {
	log := logging.WithContext(logging.WithPhase(ctx, string(ev.Phase)), d.logger)

	switch ev.Type {
	case timer.EventPhaseEnded:
		// The alarm must sound even when music is muted.
		if err := d.player.PlayEffect(player.EffectAlarm); err != nil {
			log.Warn("alarm playback failed", logging.Error(err))
		}
		switch ev.Phase {
		case timer.PhaseWork:
			d.onWorkEnded(ctx, ev, log)
		case timer.PhaseBreak:
			if err := d.notifier.NotifyBreakComplete(ctx, ev.Preset.Name); err != nil {
				log.Warn("break notification failed", logging.Error(err))
			}
		}
	case timer.EventCompleted:
		d.onCycleCompleted(ctx, ev, log)
	case timer.EventPhaseStarted:
		log.Info("phase started",
			logging.String("preset", ev.Preset.Name),
			logging.Duration("remaining", ev.Remaining))
	}
}

func (d *Daemon) onWorkEnded(ctx context.Context, ev timer.Event, log *slog.Logger) {
	d.mu.Lock()
	sessionID := d.sessionID
	d.mu.Unlock()

	if sessionID != "" {
		if err := d.store.MarkWorkCompleted(ctx, sessionID); err != nil {
			log.Warn("mark work completed failed", logging.Error(err))
		}
	}
	if err := d.notifier.NotifyWorkComplete(ctx, ev.Preset.Name, ev.Preset.Work); err != nil {
		log.Warn("work notification failed", logging.Error(err))
	}
}

func (d *Daemon) onCycleCompleted(ctx context.Context, ev timer.Event, log *slog.Logger) {
	d.mu.Lock()
	sessionID := d.sessionID
	d.sessionID = ""
	d.mu.Unlock()

	if sessionID != "" {
		if err := d.store.FinishSession(ctx, sessionID); err != nil {
			log.Warn("finish session failed", logging.Error(err))
		}
	}
	age, _ := d.growTree(ctx, log)
	if err := d.notifier.NotifySessionComplete(ctx, ev.Preset.Name, age); err != nil {
		log.Warn("session notification failed", logging.Error(err))
	}
	log.Info("session completed",
		logging.String("preset", ev.Preset.Name),
		logging.Int64("tree_age", age))
}

// growTree increments the persisted age and plays the growth chime when
// the bonsai crosses into a new drawing.
func (d *Daemon) growTree(ctx context.Context, log *slog.Logger) (int64, bool) {
	before, err := d.store.TreeAge(ctx)
	if err != nil {
		log.Warn("read tree age failed", logging.Error(err))
		return 0, false
	}
	after, err := d.store.GrowTree(ctx)
	if err != nil {
		log.Warn("grow tree failed", logging.Error(err))
		return before, false
	}
	if tree.StageForAge(after) > tree.StageForAge(before) {
		if err := d.player.PlayEffect(player.EffectGrowth); err != nil {
			log.Warn("growth chime failed", logging.Error(err))
		}
		log.Info("tree reached a new stage", logging.Int64("tree_age", after))
	}
	return after, true
}

// handleStreamDrop reacts to a radio connection dying mid-playback. The
// failure is pushed through the notifier and, when configured, local
// music takes over so the room does not go silent.
func (d *Daemon) handleStreamDrop(station string) {
	ctx := d.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	err := fmt.Errorf("radio stream %q dropped", station)
	d.logger.Warn("radio stream dropped", logging.String(logging.FieldStation, station))
	if notifyErr := d.notifier.NotifyError(ctx, err, "radio"); notifyErr != nil {
		d.logger.Warn("stream drop notification failed", logging.Error(notifyErr))
	}
	if d.cfg.Radio.FallbackLocal {
		if playErr := d.player.Play(); playErr != nil {
			d.logger.Warn("local fallback after stream drop failed", logging.Error(playErr))
		}
	}
}

// rotateQuotes swaps the displayed quote on the configured interval and
// feeds the tree one growth point per rotation.
func (d *Daemon) rotateQuotes(ctx context.Context) {
	interval := time.Duration(d.cfg.Quotes.RotationSeconds) * time.Second
	if interval <= 0 {
		interval = 300 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.RotateQuote(ctx)
		}
	}
}

// RotateQuote advances to the next quote and grows the tree. It returns
// the new quote.
func (d *Daemon) RotateQuote(ctx context.Context) string {
	quote := d.quotes.Random()
	d.mu.Lock()
	d.quote = quote
	d.mu.Unlock()

	d.growTree(ctx, d.logger)
	d.logger.Debug("quote rotated")
	return quote
}

// Quote returns the currently displayed quote.
func (d *Daemon) Quote() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quote
}
