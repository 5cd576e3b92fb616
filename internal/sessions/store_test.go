package sessions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wisdomtree/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.MusicDir = filepath.Join(root, "music")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartSessionRecordsRunning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected generated session id")
	}
	if session.Status != StatusRunning {
		t.Fatalf("expected running, got %s", session.Status)
	}
	if session.WorkSeconds != 1500 || session.BreakSeconds != 300 {
		t.Fatalf("unexpected durations: %d/%d", session.WorkSeconds, session.BreakSeconds)
	}

	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active == nil || active.ID != session.ID {
		t.Fatalf("expected active session %s, got %+v", session.ID, active)
	}
}

func TestFinishSessionIsTerminal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.MarkWorkCompleted(ctx, session.ID); err != nil {
		t.Fatalf("MarkWorkCompleted failed: %v", err)
	}
	if err := store.FinishSession(ctx, session.ID); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	got, err := store.GetByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.EndedAt.IsZero() {
		t.Fatal("expected ended_at to be set")
	}
	if !got.WorkCompleted {
		t.Fatal("expected work_completed flag")
	}

	// A terminal session must refuse further transitions.
	if err := store.AbandonSession(ctx, session.ID); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
}

func TestAbandonUnknownSession(t *testing.T) {
	store := newTestStore(t)
	if err := store.AbandonSession(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestInterruptStale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	count, err := store.InterruptStale(ctx)
	if err != nil {
		t.Fatalf("InterruptStale failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 interrupted, got %d", count)
	}

	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active session, got %+v", active)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.StartSession(ctx, "one", 10*time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.FinishSession(ctx, first.ID); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := store.StartSession(ctx, "two", 10*time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	list, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
	if list[0].ID != second.ID {
		t.Fatalf("expected newest first, got %s", list[0].ID)
	}

	limited, err := store.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List limited failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 session with limit, got %d", len(limited))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.FinishSession(ctx, done.ID); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}
	dropped, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.AbandonSession(ctx, dropped.ID); err != nil {
		t.Fatalf("AbandonSession failed: %v", err)
	}

	completed, err := store.List(ctx, StatusCompleted, 0)
	if err != nil {
		t.Fatalf("List completed failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Fatalf("expected only the completed session, got %+v", completed)
	}

	running, err := store.List(ctx, StatusRunning, 0)
	if err != nil {
		t.Fatalf("List running failed: %v", err)
	}
	if len(running) != 0 {
		t.Fatalf("expected no running sessions, got %d", len(running))
	}
}

func TestStatsAggregates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	done, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.MarkWorkCompleted(ctx, done.ID); err != nil {
		t.Fatalf("MarkWorkCompleted failed: %v", err)
	}
	if err := store.FinishSession(ctx, done.ID); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	dropped, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := store.AbandonSession(ctx, dropped.ID); err != nil {
		t.Fatalf("AbandonSession failed: %v", err)
	}

	summary, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if summary.Total != 2 || summary.Completed != 1 || summary.Abandoned != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.FocusSeconds < 1500 {
		t.Fatalf("expected at least full work credit, got %d", summary.FocusSeconds)
	}
	if summary.FirstSession.IsZero() || summary.LatestSession.IsZero() {
		t.Fatalf("expected session range, got %+v", summary)
	}
	if len(summary.Days) != 1 {
		t.Fatalf("expected one day of activity, got %+v", summary.Days)
	}
	day := summary.Days[0]
	if day.Sessions != 2 {
		t.Fatalf("expected both sessions counted for the day, got %d", day.Sessions)
	}
	if day.FocusSeconds < 1500 {
		t.Fatalf("expected full work credit in day breakdown, got %d", day.FocusSeconds)
	}
	if day.Date == "" {
		t.Fatal("expected a calendar date on the day breakdown")
	}
}

func TestParseStatus(t *testing.T) {
	if status, err := ParseStatus("completed"); err != nil || status != StatusCompleted {
		t.Fatalf("ParseStatus(completed) = %q, %v", status, err)
	}
	if status, err := ParseStatus(""); err != nil || status != Status("") {
		t.Fatalf("ParseStatus empty = %q, %v", status, err)
	}
	if _, err := ParseStatus("finished"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestClearHistoryKeepsTree(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.StartSession(ctx, "deep", 25*time.Minute, 5*time.Minute); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := store.GrowTree(ctx); err != nil {
		t.Fatalf("GrowTree failed: %v", err)
	}

	removed, err := store.ClearHistory(ctx)
	if err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	age, err := store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	if age != 1 {
		t.Fatalf("expected tree age to survive clear, got %d", age)
	}
}

func TestTreeAgeOnlyIncreases(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	age, err := store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	if age != 0 {
		t.Fatalf("expected fresh tree at 0, got %d", age)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GrowTree(ctx); err != nil {
			t.Fatalf("GrowTree failed: %v", err)
		}
	}
	age, err = store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	if age != 3 {
		t.Fatalf("expected age 3, got %d", age)
	}

	if err := store.SetTreeAge(ctx, 2); err == nil {
		t.Fatal("expected error when shrinking tree")
	}
	if err := store.SetTreeAge(ctx, 10); err != nil {
		t.Fatalf("SetTreeAge failed: %v", err)
	}
	age, err = store.TreeAge(ctx)
	if err != nil {
		t.Fatalf("TreeAge failed: %v", err)
	}
	if age != 10 {
		t.Fatalf("expected age 10, got %d", age)
	}
}

func TestCheckHealth(t *testing.T) {
	store := newTestStore(t)
	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %+v", health)
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("unexpected missing columns: %v", health.MissingColumns)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}
