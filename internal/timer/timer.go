package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase is the current position in a pomodoro cycle.
type Phase string

const (
	PhaseIdle  Phase = "idle"
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
	// PhaseBreakOver is the resting state after a finished cycle. The
	// engine waits there until the cycle is acknowledged or a new one
	// starts, so the interface can offer a one-key restart.
	PhaseBreakOver Phase = "break_over"
)

// EventType classifies engine notifications.
type EventType string

const (
	EventPhaseStarted EventType = "phase_started"
	EventPhaseEnded   EventType = "phase_ended"
	EventTick         EventType = "tick"
	EventPaused       EventType = "paused"
	EventResumed      EventType = "resumed"
	EventStopped      EventType = "stopped"
	EventCompleted    EventType = "completed"
)

// Event describes a state change or tick emitted by the engine.
type Event struct {
	Type      EventType
	Phase     Phase
	Preset    Preset
	Remaining time.Duration
	At        time.Time
}

// Preset pairs a focus duration with its follow-up break.
type Preset struct {
	Name  string
	Work  time.Duration
	Break time.Duration
}

var (
	// ErrAlreadyRunning is returned by Start when a cycle is in progress.
	ErrAlreadyRunning = errors.New("timer already running")
	// ErrNotRunning is returned by Pause, Resume, and Stop when idle.
	ErrNotRunning = errors.New("timer not running")
	// ErrNotPaused is returned by Resume when the timer is not paused.
	ErrNotPaused = errors.New("timer not paused")
)

// Engine runs pomodoro cycles. One cycle is a work phase followed by a
// break phase; when the break ends the engine parks in break_over until
// the user acknowledges or restarts, and Stop returns it to idle at any
// point. Pausing freezes the remaining time exactly, so no elapsed time
// is ever lost to a pause.
type Engine struct {
	mu       sync.Mutex
	now      func() time.Time
	tick     time.Duration
	phase    Phase
	preset   Preset
	deadline time.Time
	paused   bool
	frozen   time.Duration
	started  time.Time
	cancel   context.CancelFunc
	events   chan Event
}

// Snapshot is a point-in-time view of the engine.
type Snapshot struct {
	Phase     Phase         `json:"phase"`
	Preset    string        `json:"preset"`
	Paused    bool          `json:"paused"`
	Remaining time.Duration `json:"remaining"`
	StartedAt time.Time     `json:"started_at"`
}

// New builds an idle engine. tick controls how often Tick events fire
// while a phase is running.
func New(tick time.Duration) *Engine {
	if tick <= 0 {
		tick = time.Second
	}
	return &Engine{
		now:    time.Now,
		tick:   tick,
		phase:  PhaseIdle,
		events: make(chan Event, 64),
	}
}

// Events returns the channel the engine publishes on. Slow consumers
// drop events rather than blocking the engine.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Start begins a new cycle with the given preset.
func (e *Engine) Start(ctx context.Context, preset Preset) error {
	if preset.Work <= 0 {
		return fmt.Errorf("preset %q has no work duration", preset.Name)
	}

	e.mu.Lock()
	if e.phase == PhaseWork || e.phase == PhaseBreak {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	now := e.now()
	e.phase = PhaseWork
	e.preset = preset
	e.deadline = now.Add(preset.Work)
	e.paused = false
	e.started = now
	e.cancel = cancel
	e.mu.Unlock()

	e.publish(Event{Type: EventPhaseStarted, Phase: PhaseWork, Preset: preset, Remaining: preset.Work, At: now})
	go e.run(runCtx)
	return nil
}

// Pause freezes the countdown. The remaining duration at the moment of
// the pause is restored exactly on Resume.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.phase != PhaseWork && e.phase != PhaseBreak {
		e.mu.Unlock()
		return ErrNotRunning
	}
	if e.paused {
		e.mu.Unlock()
		return nil
	}
	e.paused = true
	e.frozen = e.deadline.Sub(e.now())
	if e.frozen < 0 {
		e.frozen = 0
	}
	ev := Event{Type: EventPaused, Phase: e.phase, Preset: e.preset, Remaining: e.frozen, At: e.now()}
	e.mu.Unlock()

	e.publish(ev)
	return nil
}

// Resume continues a paused countdown with the frozen remainder.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.phase != PhaseWork && e.phase != PhaseBreak {
		e.mu.Unlock()
		return ErrNotRunning
	}
	if !e.paused {
		e.mu.Unlock()
		return ErrNotPaused
	}
	e.paused = false
	e.deadline = e.now().Add(e.frozen)
	ev := Event{Type: EventResumed, Phase: e.phase, Preset: e.preset, Remaining: e.frozen, At: e.now()}
	e.mu.Unlock()

	e.publish(ev)
	return nil
}

// Stop abandons the current cycle and returns the engine to idle.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.phase == PhaseIdle {
		e.mu.Unlock()
		return ErrNotRunning
	}
	phase := e.phase
	preset := e.preset
	remaining := e.remainingLocked()
	cancel := e.cancel
	e.resetLocked()
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.publish(Event{Type: EventStopped, Phase: phase, Preset: preset, Remaining: remaining, At: e.now()})
	return nil
}

// LastPreset reports the preset of a finished cycle still waiting in
// break_over, so the same pairing can be started again.
func (e *Engine) LastPreset() (Preset, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseBreakOver || e.preset.Work <= 0 {
		return Preset{}, false
	}
	return e.preset, true
}

// Snapshot reports the current phase, preset, and remaining time.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Phase:     e.phase,
		Preset:    e.preset.Name,
		Paused:    e.paused,
		Remaining: e.remainingLocked(),
		StartedAt: e.started,
	}
}

// Remaining returns how much of the current phase is left. Idle engines
// report zero.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remainingLocked()
}

func (e *Engine) remainingLocked() time.Duration {
	if e.phase == PhaseIdle || e.phase == PhaseBreakOver {
		return 0
	}
	if e.paused {
		return e.frozen
	}
	rem := e.deadline.Sub(e.now())
	if rem < 0 {
		rem = 0
	}
	return rem
}

func (e *Engine) resetLocked() {
	e.phase = PhaseIdle
	e.paused = false
	e.frozen = 0
	e.deadline = time.Time{}
	e.cancel = nil
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if done := e.step(); done {
				return
			}
		}
	}
}

// step advances the state machine one tick. It reports true when the
// cycle has finished and the run loop should exit.
func (e *Engine) step() bool {
	e.mu.Lock()
	if e.phase == PhaseIdle {
		e.mu.Unlock()
		return true
	}
	if e.paused {
		e.mu.Unlock()
		return false
	}

	now := e.now()
	remaining := e.deadline.Sub(now)
	if remaining > 0 {
		ev := Event{Type: EventTick, Phase: e.phase, Preset: e.preset, Remaining: remaining, At: now}
		e.mu.Unlock()
		e.publish(ev)
		return false
	}

	ended := e.phase
	preset := e.preset
	var out []Event
	out = append(out, Event{Type: EventPhaseEnded, Phase: ended, Preset: preset, At: now})

	done := false
	var cancel context.CancelFunc
	switch {
	case ended == PhaseWork && preset.Break > 0:
		e.phase = PhaseBreak
		e.deadline = now.Add(preset.Break)
		out = append(out, Event{Type: EventPhaseStarted, Phase: PhaseBreak, Preset: preset, Remaining: preset.Break, At: now})
	default:
		cancel = e.cancel
		e.phase = PhaseBreakOver
		e.paused = false
		e.frozen = 0
		e.deadline = time.Time{}
		e.cancel = nil
		out = append(out, Event{Type: EventCompleted, Phase: PhaseBreakOver, Preset: preset, At: now})
		done = true
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, ev := range out {
		e.publish(ev)
	}
	return done
}

func (e *Engine) publish(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}
