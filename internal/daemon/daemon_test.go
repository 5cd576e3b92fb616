package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wisdomtree/internal/config"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
	"wisdomtree/internal/sessions"
	"wisdomtree/internal/timer"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.MusicDir = filepath.Join(root, "music")
	cfg.Notifications.NtfyTopic = ""

	store, err := sessions.Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	d, err := NewWithOutput(&cfg, store, logging.NewNop(), player.NewNullOutput())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestStartAcquiresLockOnce(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Running() {
		t.Fatal("expected running daemon")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
	d.Stop()
	if d.Running() {
		t.Fatal("expected stopped daemon")
	}
}

func TestResolvePreset(t *testing.T) {
	d := newTestDaemon(t)

	preset, err := d.ResolvePreset(0, 0, 0)
	if err != nil {
		t.Fatalf("ResolvePreset failed: %v", err)
	}
	if preset.Name != "20+20" || preset.Work != 20*time.Minute {
		t.Fatalf("unexpected preset: %+v", preset)
	}

	custom, err := d.ResolvePreset(-1, 45, 15)
	if err != nil {
		t.Fatalf("ResolvePreset custom failed: %v", err)
	}
	if custom.Name != "45+15" || custom.Break != 15*time.Minute {
		t.Fatalf("unexpected custom preset: %+v", custom)
	}

	if _, err := d.ResolvePreset(99, 0, 0); err == nil {
		t.Fatal("expected out-of-range preset error")
	}
	if _, err := d.ResolvePreset(-1, 0, 5); err == nil {
		t.Fatal("expected error for zero work minutes")
	}
}

func TestStartTimerRecordsSession(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	preset, err := d.ResolvePreset(-1, 25, 5)
	if err != nil {
		t.Fatalf("ResolvePreset failed: %v", err)
	}
	snap, err := d.StartTimer(ctx, preset)
	if err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	if snap.Phase != timer.PhaseWork {
		t.Fatalf("expected work phase, got %s", snap.Phase)
	}

	active, err := d.store.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active == nil || active.Preset != "25+5" {
		t.Fatalf("expected recorded session, got %+v", active)
	}

	if _, err := d.StartTimer(ctx, preset); err != timer.ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := d.StopTimer(ctx); err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}
	got, err := d.store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Status != sessions.StatusAbandoned {
		t.Fatalf("expected abandoned session, got %+v", got)
	}
}

func TestRestartTimerRequiresFinishedCycle(t *testing.T) {
	d := newTestDaemon(t)
	if _, err := d.RestartTimer(context.Background()); err == nil {
		t.Fatal("expected error without a finished cycle")
	}
}

func TestStartTimerPlaysSelectChime(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.MusicDir = filepath.Join(root, "music")
	cfg.Notifications.NtfyTopic = ""

	store, err := sessions.Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	output := player.NewNullOutput()
	d, err := NewWithOutput(&cfg, store, logging.NewNop(), output)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx := context.Background()
	preset, _ := d.ResolvePreset(-1, 25, 5)
	if _, err := d.StartTimer(ctx, preset); err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	defer func() { _ = d.StopTimer(ctx) }()

	if output.PlayCount() == 0 {
		t.Fatal("expected select chime on timer start")
	}
}

func TestPauseResumeTimer(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	preset, _ := d.ResolvePreset(-1, 25, 5)
	if _, err := d.StartTimer(ctx, preset); err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	defer func() { _ = d.StopTimer(ctx) }()

	if err := d.PauseTimer(); err != nil {
		t.Fatalf("PauseTimer failed: %v", err)
	}
	if snap := d.TimerSnapshot(); !snap.Paused {
		t.Fatal("expected paused timer")
	}
	if err := d.ResumeTimer(); err != nil {
		t.Fatalf("ResumeTimer failed: %v", err)
	}
	if snap := d.TimerSnapshot(); snap.Paused {
		t.Fatal("expected resumed timer")
	}
}

func TestRotateQuoteGrowsTree(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	before, err := d.store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	quote := d.RotateQuote(ctx)
	if quote == "" {
		t.Fatal("expected non-empty quote")
	}
	after, err := d.store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected tree to grow by one, got %d -> %d", before, after)
	}
	if d.Quote() != quote {
		t.Fatal("expected rotated quote to stick")
	}
}

func TestStatusSnapshot(t *testing.T) {
	d := newTestDaemon(t)
	status := d.Status(context.Background())

	if status.Quote == "" {
		t.Fatal("expected initial quote")
	}
	if status.QuoteSource != "bundled" {
		t.Fatalf("expected bundled quotes, got %q", status.QuoteSource)
	}
	if status.Timer.Phase != timer.PhaseIdle {
		t.Fatalf("expected idle timer, got %s", status.Timer.Phase)
	}
	if status.DBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected paths in status: %+v", status)
	}
	if status.Season == "" {
		t.Fatal("expected a season")
	}
}

func TestVolumeAppliesToBoth(t *testing.T) {
	d := newTestDaemon(t)

	if got := d.AdjustVolume(-20); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	status := d.Status(context.Background())
	if status.Player.Volume != 50 {
		t.Fatalf("player volume not applied: %d", status.Player.Volume)
	}
	if status.Radio.Volume != 50 {
		t.Fatalf("radio volume not applied: %d", status.Radio.Volume)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d := newTestDaemon(t)
	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if sent {
		t.Fatal("expected no delivery without topic")
	}
	if message == "" {
		t.Fatal("expected explanatory message")
	}
}
