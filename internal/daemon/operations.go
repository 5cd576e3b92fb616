package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wisdomtree/internal/config"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
	"wisdomtree/internal/radio"
	"wisdomtree/internal/sessions"
	"wisdomtree/internal/timer"
)

// PresetName renders a work/break pairing the way the preset menu shows
// it, for example "25+5".
func PresetName(workMinutes, breakMinutes int) string {
	return fmt.Sprintf("%d+%d", workMinutes, breakMinutes)
}

// ResolvePreset picks a timer preset. A non-negative index selects from
// the configured table; otherwise workMinutes and breakMinutes define a
// custom preset.
func (d *Daemon) ResolvePreset(index, workMinutes, breakMinutes int) (timer.Preset, error) {
	if index >= 0 {
		presets := d.cfg.Timer.Presets
		if index >= len(presets) {
			return timer.Preset{}, fmt.Errorf("preset index %d out of range (have %d presets)", index, len(presets))
		}
		p := presets[index]
		return timer.Preset{
			Name:  PresetName(p.WorkMinutes, p.BreakMinutes),
			Work:  time.Duration(p.WorkMinutes) * time.Minute,
			Break: time.Duration(p.BreakMinutes) * time.Minute,
		}, nil
	}
	if workMinutes <= 0 {
		return timer.Preset{}, errors.New("work minutes must be positive")
	}
	if breakMinutes < 0 {
		return timer.Preset{}, errors.New("break minutes must not be negative")
	}
	return timer.Preset{
		Name:  PresetName(workMinutes, breakMinutes),
		Work:  time.Duration(workMinutes) * time.Minute,
		Break: time.Duration(breakMinutes) * time.Minute,
	}, nil
}

// StartTimer begins a pomodoro cycle and records the session.
func (d *Daemon) StartTimer(ctx context.Context, preset timer.Preset) (timer.Snapshot, error) {
	session, err := d.store.StartSession(ctx, preset.Name, preset.Work, preset.Break)
	if err != nil {
		return timer.Snapshot{}, fmt.Errorf("record session: %w", err)
	}

	runCtx := d.ctx
	if runCtx == nil {
		runCtx = ctx
	}
	if err := d.engine.Start(runCtx, preset); err != nil {
		if abandonErr := d.store.AbandonSession(ctx, session.ID); abandonErr != nil {
			d.logger.Warn("abandon unstarted session failed", logging.Error(abandonErr))
		}
		return timer.Snapshot{}, err
	}

	d.mu.Lock()
	d.sessionID = session.ID
	d.mu.Unlock()

	log := logging.WithContext(logging.WithSessionID(ctx, session.ID), d.logger)
	if chimeErr := d.player.PlayEffect(player.EffectSelect); chimeErr != nil {
		log.Debug("select chime failed", logging.Error(chimeErr))
	}
	log.Info("timer started",
		logging.String("preset", preset.Name),
		logging.Duration("work", preset.Work),
		logging.Duration("break", preset.Break))
	return d.engine.Snapshot(), nil
}

// PauseTimer freezes the countdown.
func (d *Daemon) PauseTimer() error {
	return d.engine.Pause()
}

// ResumeTimer continues a paused countdown.
func (d *Daemon) ResumeTimer() error {
	return d.engine.Resume()
}

// StopTimer abandons the running cycle and its session.
func (d *Daemon) StopTimer(ctx context.Context) error {
	d.mu.Lock()
	sessionID := d.sessionID
	d.sessionID = ""
	d.mu.Unlock()

	if err := d.engine.Stop(); err != nil {
		return err
	}
	if sessionID != "" {
		if err := d.store.AbandonSession(ctx, sessionID); err != nil &&
			!errors.Is(err, sessions.ErrSessionFinished) {
			return fmt.Errorf("abandon session: %w", err)
		}
	}
	return nil
}

// RestartTimer begins a fresh cycle with the preset of the finished one.
// It only applies while the engine is waiting in break_over.
func (d *Daemon) RestartTimer(ctx context.Context) (timer.Snapshot, error) {
	preset, ok := d.engine.LastPreset()
	if !ok {
		return timer.Snapshot{}, errors.New("no finished cycle to restart")
	}
	return d.StartTimer(ctx, preset)
}

// TimerSnapshot reports the engine state.
func (d *Daemon) TimerSnapshot() timer.Snapshot {
	return d.engine.Snapshot()
}

// PlayMusic starts local playback. When internet radio is active it is
// stopped first so the two never overlap.
func (d *Daemon) PlayMusic() error {
	d.tuner.Stop()
	return d.player.Play()
}

// TogglePlayback flips pause on the local player.
func (d *Daemon) TogglePlayback() bool {
	return d.player.TogglePause()
}

// NextTrack skips forward in the playlist.
func (d *Daemon) NextTrack() error {
	return d.player.Next()
}

// PrevTrack skips backward in the playlist.
func (d *Daemon) PrevTrack() error {
	return d.player.Prev()
}

// StopMusic halts local playback.
func (d *Daemon) StopMusic() {
	d.player.Stop()
}

// SetVolume applies the music volume to both local playback and radio.
func (d *Daemon) SetVolume(volume int) {
	d.player.SetVolume(volume)
	d.tuner.SetVolume(volume)
}

// AdjustVolume shifts the volume by delta and returns the new value.
func (d *Daemon) AdjustVolume(delta int) int {
	volume := d.player.AdjustVolume(delta)
	d.tuner.SetVolume(volume)
	return volume
}

// ToggleMute flips the mute state and reports the new value.
func (d *Daemon) ToggleMute() bool {
	return d.player.ToggleMute()
}

// ToggleLoop flips playlist looping and reports the new value.
func (d *Daemon) ToggleLoop() bool {
	return d.player.ToggleLoop()
}

// ToggleEffects flips the effect tones and reports the new value.
func (d *Daemon) ToggleEffects() bool {
	return d.player.ToggleEffects()
}

// AdjustEffectVolume shifts the effect volume by delta and returns the
// new value.
func (d *Daemon) AdjustEffectVolume(delta int) int {
	return d.player.AdjustEffectVolume(delta)
}

// PlayEffect plays a synthesized tone.
func (d *Daemon) PlayEffect(effect player.Effect) error {
	return d.player.PlayEffect(effect)
}

// TuneRadio connects to the station at index. When the tuner reports no
// connectivity and fallback is configured, local music starts instead.
func (d *Daemon) TuneRadio(ctx context.Context, index int) error {
	d.player.Stop()
	err := d.tuner.Tune(ctx, index)
	if err == nil {
		if chimeErr := d.player.PlayEffect(player.EffectSelect); chimeErr != nil {
			d.logger.Debug("select chime failed", logging.Error(chimeErr))
		}
		return nil
	}
	if errors.Is(err, radio.ErrOffline) && d.cfg.Radio.FallbackLocal {
		d.logger.Warn("offline, falling back to local music", logging.Error(err))
		if playErr := d.player.Play(); playErr != nil {
			return fmt.Errorf("radio offline and local fallback failed: %w", playErr)
		}
		return nil
	}
	return err
}

// NextStation cycles to the following configured station.
func (d *Daemon) NextStation(ctx context.Context) error {
	return d.tuner.NextStation(ctx)
}

// PrevStation cycles to the previous configured station.
func (d *Daemon) PrevStation(ctx context.Context) error {
	return d.tuner.PrevStation(ctx)
}

// StopRadio disconnects from the current station.
func (d *Daemon) StopRadio() {
	d.tuner.Stop()
}

// Stations exposes the configured station list.
func (d *Daemon) Stations() []config.Station {
	return d.tuner.Stations()
}

// ListSessions returns recent history, newest first, optionally
// narrowed to a single status.
func (d *Daemon) ListSessions(ctx context.Context, status sessions.Status, limit int) ([]*sessions.Session, error) {
	return d.store.List(ctx, status, limit)
}

// SessionStats aggregates the full history.
func (d *Daemon) SessionStats(ctx context.Context) (sessions.Summary, error) {
	return d.store.Stats(ctx)
}

// ClearHistory deletes all recorded sessions.
func (d *Daemon) ClearHistory(ctx context.Context) (int64, error) {
	removed, err := d.store.ClearHistory(ctx)
	if err != nil {
		return 0, err
	}
	d.logger.Info("history cleared", logging.Int64("removed_count", removed))
	return removed, nil
}

// DatabaseHealth returns history database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (sessions.DatabaseHealth, error) {
	return d.store.CheckHealth(ctx)
}

// TestNotification sends a test message through the notifier.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, err.Error(), err
	}
	topic := d.cfg.Notifications.NtfyTopic
	if topic == "" {
		return false, "no ntfy topic configured", nil
	}
	return true, "test notification sent", nil
}
