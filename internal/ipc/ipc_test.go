package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wisdomtree/internal/config"
	"wisdomtree/internal/daemon"
	"wisdomtree/internal/ipc"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
	"wisdomtree/internal/sessions"
)

func newTestServer(t *testing.T) (*ipc.Client, *daemon.Daemon) {
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

	logger := logging.NewNop()
	d, err := daemon.NewWithOutput(&cfg, store, logger, player.NewNullOutput())
	if err != nil {
		t.Fatalf("daemon.NewWithOutput: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := cfg.SocketPath()
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() { srv.Close() })

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, d
}

func TestStatusRPC(t *testing.T) {
	client, _ := newTestServer(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Quote == "" {
		t.Fatal("expected quote in status")
	}
	if status.Timer.Phase != "idle" {
		t.Fatalf("expected idle timer, got %q", status.Timer.Phase)
	}
	if status.PID == 0 {
		t.Fatal("expected daemon PID")
	}
}

func TestTimerRPCLifecycle(t *testing.T) {
	client, _ := newTestServer(t)

	started, err := client.TimerStart(ipc.TimerStartRequest{PresetIndex: -1, WorkMinutes: 25, BreakMinutes: 5})
	if err != nil {
		t.Fatalf("TimerStart RPC failed: %v", err)
	}
	if started.Timer.Phase != "work" || started.Timer.Preset != "25+5" {
		t.Fatalf("unexpected timer state: %+v", started.Timer)
	}

	paused, err := client.TimerPause()
	if err != nil {
		t.Fatalf("TimerPause RPC failed: %v", err)
	}
	if !paused.Timer.Paused {
		t.Fatal("expected paused timer")
	}

	resumed, err := client.TimerResume()
	if err != nil {
		t.Fatalf("TimerResume RPC failed: %v", err)
	}
	if resumed.Timer.Paused {
		t.Fatal("expected resumed timer")
	}

	stopped, err := client.TimerStop()
	if err != nil {
		t.Fatalf("TimerStop RPC failed: %v", err)
	}
	if stopped.Timer.Phase != "idle" {
		t.Fatalf("expected idle after stop, got %q", stopped.Timer.Phase)
	}

	history, err := client.HistoryList("", 10)
	if err != nil {
		t.Fatalf("HistoryList RPC failed: %v", err)
	}
	if len(history.Sessions) != 1 || history.Sessions[0].Status != "abandoned" {
		t.Fatalf("expected one abandoned session, got %+v", history.Sessions)
	}

	filtered, err := client.HistoryList("completed", 10)
	if err != nil {
		t.Fatalf("HistoryList filtered RPC failed: %v", err)
	}
	if len(filtered.Sessions) != 0 {
		t.Fatalf("expected no completed sessions, got %+v", filtered.Sessions)
	}
	if _, err := client.HistoryList("bogus", 10); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
}

func TestTimerRestartRPCWithoutFinishedCycle(t *testing.T) {
	client, _ := newTestServer(t)
	if _, err := client.TimerRestart(); err == nil {
		t.Fatal("expected error without a finished cycle")
	}
}

func TestTimerStartRejectsBadPreset(t *testing.T) {
	client, _ := newTestServer(t)
	if _, err := client.TimerStart(ipc.TimerStartRequest{PresetIndex: 42}); err == nil {
		t.Fatal("expected error for out-of-range preset")
	}
}

func TestVolumeAndMuteRPC(t *testing.T) {
	client, _ := newTestServer(t)

	vol, err := client.SetVolume(ipc.VolumeRequest{Volume: 40})
	if err != nil {
		t.Fatalf("SetVolume RPC failed: %v", err)
	}
	if vol.Volume != 40 {
		t.Fatalf("expected volume 40, got %d", vol.Volume)
	}

	shifted, err := client.SetVolume(ipc.VolumeRequest{Delta: 10})
	if err != nil {
		t.Fatalf("SetVolume delta RPC failed: %v", err)
	}
	if shifted.Volume != 50 {
		t.Fatalf("expected volume 50, got %d", shifted.Volume)
	}

	muted, err := client.ToggleMute()
	if err != nil {
		t.Fatalf("ToggleMute RPC failed: %v", err)
	}
	if !muted.Muted {
		t.Fatal("expected muted state")
	}
}

func TestQuoteRPC(t *testing.T) {
	client, _ := newTestServer(t)

	current, err := client.Quote(false)
	if err != nil {
		t.Fatalf("Quote RPC failed: %v", err)
	}
	if current.Quote == "" || current.Source != "bundled" {
		t.Fatalf("unexpected quote response: %+v", current)
	}

	rotated, err := client.Quote(true)
	if err != nil {
		t.Fatalf("Quote rotate RPC failed: %v", err)
	}
	if rotated.Quote == "" {
		t.Fatal("expected rotated quote")
	}
}

func TestStationListRPC(t *testing.T) {
	client, _ := newTestServer(t)

	stations, err := client.StationList()
	if err != nil {
		t.Fatalf("StationList RPC failed: %v", err)
	}
	if len(stations.Stations) == 0 {
		t.Fatal("expected configured stations")
	}
	for _, station := range stations.Stations {
		if station.Name == "" || station.URL == "" {
			t.Fatalf("incomplete station: %+v", station)
		}
	}
}

func TestHistoryStatsAndHealthRPC(t *testing.T) {
	client, _ := newTestServer(t)

	stats, err := client.HistoryStats()
	if err != nil {
		t.Fatalf("HistoryStats RPC failed: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty history, got %+v", stats)
	}

	health, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth RPC failed: %v", err)
	}
	if !health.DatabaseExists || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestHistoryClearRPC(t *testing.T) {
	client, _ := newTestServer(t)

	if _, err := client.TimerStart(ipc.TimerStartRequest{PresetIndex: -1, WorkMinutes: 10, BreakMinutes: 2}); err != nil {
		t.Fatalf("TimerStart RPC failed: %v", err)
	}
	if _, err := client.TimerStop(); err != nil {
		t.Fatalf("TimerStop RPC failed: %v", err)
	}

	cleared, err := client.HistoryClear()
	if err != nil {
		t.Fatalf("HistoryClear RPC failed: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected 1 removed, got %d", cleared.Removed)
	}
}

func TestLogTailRPCMissingFile(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("LogTail RPC failed: %v", err)
	}
	if len(resp.Lines) != 0 {
		t.Fatalf("expected no lines, got %v", resp.Lines)
	}
}

func TestNotificationRPCWithoutTopic(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification RPC failed: %v", err)
	}
	if resp.Sent {
		t.Fatal("expected no delivery without topic")
	}
}
