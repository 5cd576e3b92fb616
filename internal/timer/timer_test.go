package timer

import (
	"context"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine() (*Engine, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	// A long tick keeps the background loop quiet; tests drive the state
	// machine through step directly.
	e := New(time.Minute)
	e.now = func() time.Time { return clock.now }
	return e, clock
}

func drain(e *Engine) []Event {
	var out []Event
	for {
		select {
		case ev := <-e.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func preset() Preset {
	return Preset{Name: "deep", Work: 25 * time.Minute, Break: 5 * time.Minute}
}

func TestStartEntersWorkPhase(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	snap := e.Snapshot()
	if snap.Phase != PhaseWork {
		t.Fatalf("expected work phase, got %s", snap.Phase)
	}
	if snap.Remaining != 25*time.Minute {
		t.Fatalf("expected full work duration, got %s", snap.Remaining)
	}

	events := drain(e)
	if len(events) == 0 || events[0].Type != EventPhaseStarted {
		t.Fatalf("expected phase_started event, got %v", events)
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	if err := e.Start(context.Background(), preset()); err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStartRejectsZeroWork(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.Start(context.Background(), Preset{Name: "broken"}); err == nil {
		t.Fatal("expected error for zero work duration")
	}
}

func TestPausePreservesRemaining(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	clock.advance(10 * time.Minute)
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	// Time marching on while paused must not eat into the countdown.
	clock.advance(2 * time.Hour)
	if rem := e.Remaining(); rem != 15*time.Minute {
		t.Fatalf("expected 15m frozen, got %s", rem)
	}

	if err := e.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if rem := e.Remaining(); rem != 15*time.Minute {
		t.Fatalf("expected 15m after resume, got %s", rem)
	}

	clock.advance(5 * time.Minute)
	if rem := e.Remaining(); rem != 10*time.Minute {
		t.Fatalf("expected 10m, got %s", rem)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	clock.advance(time.Minute)
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("second Pause failed: %v", err)
	}
	if rem := e.Remaining(); rem != 24*time.Minute {
		t.Fatalf("expected 24m, got %s", rem)
	}
}

func TestResumeWithoutPauseFails(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	if err := e.Resume(); err != ErrNotPaused {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
}

func TestControlsRequireRunningTimer(t *testing.T) {
	e, _ := newTestEngine()
	if err := e.Pause(); err != ErrNotRunning {
		t.Fatalf("Pause: expected ErrNotRunning, got %v", err)
	}
	if err := e.Resume(); err != ErrNotRunning {
		t.Fatalf("Resume: expected ErrNotRunning, got %v", err)
	}
	if err := e.Stop(); err != ErrNotRunning {
		t.Fatalf("Stop: expected ErrNotRunning, got %v", err)
	}
}

func TestWorkRollsIntoBreak(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(25 * time.Minute)
	if done := e.step(); done {
		t.Fatal("cycle should continue into break")
	}

	snap := e.Snapshot()
	if snap.Phase != PhaseBreak {
		t.Fatalf("expected break phase, got %s", snap.Phase)
	}
	if snap.Remaining != 5*time.Minute {
		t.Fatalf("expected full break, got %s", snap.Remaining)
	}

	events := drain(e)
	var ended, started bool
	for _, ev := range events {
		if ev.Type == EventPhaseEnded && ev.Phase == PhaseWork {
			ended = true
		}
		if ev.Type == EventPhaseStarted && ev.Phase == PhaseBreak {
			started = true
		}
	}
	if !ended || !started {
		t.Fatalf("missing boundary events: %v", events)
	}
	e.Stop()
}

func TestBreakEndCompletesCycle(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(25 * time.Minute)
	e.step()
	clock.advance(5 * time.Minute)
	if done := e.step(); !done {
		t.Fatal("cycle should be finished")
	}

	snap := e.Snapshot()
	if snap.Phase != PhaseBreakOver {
		t.Fatalf("expected break_over after cycle, got %s", snap.Phase)
	}
	if snap.Remaining != 0 {
		t.Fatalf("expected no remaining time, got %s", snap.Remaining)
	}

	var completed bool
	for _, ev := range drain(e) {
		if ev.Type == EventCompleted {
			completed = true
			if ev.Phase != PhaseBreakOver {
				t.Fatalf("completed event should carry break_over, got %s", ev.Phase)
			}
		}
	}
	if !completed {
		t.Fatal("expected completed event")
	}
}

func TestBreakOverWaitsForAcknowledgment(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(25 * time.Minute)
	e.step()
	clock.advance(5 * time.Minute)
	e.step()

	// The finished cycle parks until the user reacts; pausing makes no
	// sense there.
	if err := e.Pause(); err != ErrNotRunning {
		t.Fatalf("Pause in break_over: expected ErrNotRunning, got %v", err)
	}

	last, ok := e.LastPreset()
	if !ok || last.Name != "deep" {
		t.Fatalf("expected finished preset to be recallable, got %+v ok=%v", last, ok)
	}

	// Enter-to-go-again: a fresh cycle starts straight from break_over.
	if err := e.Start(context.Background(), last); err != nil {
		t.Fatalf("restart from break_over failed: %v", err)
	}
	if snap := e.Snapshot(); snap.Phase != PhaseWork {
		t.Fatalf("expected work after restart, got %s", snap.Phase)
	}
	e.Stop()
}

func TestStopClearsBreakOver(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(25 * time.Minute)
	e.step()
	clock.advance(5 * time.Minute)
	e.step()

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop from break_over failed: %v", err)
	}
	if snap := e.Snapshot(); snap.Phase != PhaseIdle {
		t.Fatalf("expected idle after acknowledge, got %s", snap.Phase)
	}
	if _, ok := e.LastPreset(); ok {
		t.Fatal("acknowledged cycle should not be recallable")
	}
}

func TestPresetWithoutBreakCompletesAfterWork(t *testing.T) {
	e, clock := newTestEngine()
	p := Preset{Name: "sprint", Work: 10 * time.Minute}
	if err := e.Start(context.Background(), p); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(10 * time.Minute)
	if done := e.step(); !done {
		t.Fatal("expected cycle to finish without break phase")
	}
	if snap := e.Snapshot(); snap.Phase != PhaseBreakOver {
		t.Fatalf("expected break_over, got %s", snap.Phase)
	}
}

func TestStopReturnsToIdle(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drain(e)

	clock.advance(3 * time.Minute)
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if snap := e.Snapshot(); snap.Phase != PhaseIdle {
		t.Fatalf("expected idle, got %s", snap.Phase)
	}

	var stopped bool
	for _, ev := range drain(e) {
		if ev.Type == EventStopped {
			stopped = true
			if ev.Remaining != 22*time.Minute {
				t.Fatalf("expected 22m remaining at stop, got %s", ev.Remaining)
			}
		}
	}
	if !stopped {
		t.Fatal("expected stopped event")
	}
}

func TestTickEventsWhileRunning(t *testing.T) {
	e, clock := newTestEngine()
	if err := e.Start(context.Background(), preset()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()
	drain(e)

	clock.advance(time.Second)
	e.step()

	events := drain(e)
	if len(events) != 1 || events[0].Type != EventTick {
		t.Fatalf("expected one tick event, got %v", events)
	}
	if events[0].Remaining <= 0 {
		t.Fatalf("tick should carry remaining time, got %s", events[0].Remaining)
	}
}
