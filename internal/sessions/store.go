package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wisdomtree/internal/config"
)

// Store persists session history and the tree's age in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionFinished is returned when a terminal session is asked to
// change state again.
var ErrSessionFinished = errors.New("session already finished")

// Open initializes or connects to the history database and applies the
// schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StartSession records a new running session and returns it.
func (s *Store) StartSession(ctx context.Context, preset string, work, brk time.Duration) (*Session, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, preset, work_seconds, break_seconds, status, started_at, work_completed)
         VALUES (?, ?, ?, ?, ?, ?, 0)`,
		id,
		preset,
		int64(work.Seconds()),
		int64(brk.Seconds()),
		StatusRunning,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.GetByID(ctx, id)
}

// MarkWorkCompleted flags a running session's focus phase as finished.
func (s *Store) MarkWorkCompleted(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET work_completed = 1 WHERE id = ? AND status = ?`,
		id, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("mark work completed: %w", err)
	}
	return s.expectOneRow(ctx, res, id)
}

// FinishSession moves a running session into the completed state.
func (s *Store) FinishSession(ctx context.Context, id string) error {
	return s.endSession(ctx, id, StatusCompleted)
}

// AbandonSession moves a running session into the abandoned state. Used
// when the user stops the timer before the cycle finishes.
func (s *Store) AbandonSession(ctx context.Context, id string) error {
	return s.endSession(ctx, id, StatusAbandoned)
}

// endSession performs the single allowed transition out of running.
func (s *Store) endSession(ctx context.Context, id string, status Status) error {
	if !status.IsTerminal() {
		return fmt.Errorf("status %q is not terminal", status)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?`,
		status,
		now.Format(time.RFC3339Nano),
		id,
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return s.expectOneRow(ctx, res, id)
}

// expectOneRow distinguishes a missing session from one that already
// reached a terminal state.
func (s *Store) expectOneRow(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSessionNotFound
	}
	return fmt.Errorf("%w: session %s is %s", ErrSessionFinished, id, existing.Status)
}

// InterruptStale marks every session still flagged running as
// interrupted. The daemon calls this on startup to repair sessions left
// behind by a crash.
func (s *Store) InterruptStale(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, ended_at = ? WHERE status = ?`,
		StatusInterrupted,
		now.Format(time.RFC3339Nano),
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("interrupt stale sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// GetByID fetches a session by identifier. A missing id returns nil.
func (s *Store) GetByID(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Active returns the running session, or nil when nothing is in flight.
func (s *Store) Active(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE status = ? ORDER BY started_at DESC LIMIT 1`,
		StatusRunning,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active session: %w", err)
	}
	return session, nil
}

// List returns the most recent sessions, newest first. A non-empty
// status narrows the result to that state; a non-positive limit returns
// everything.
func (s *Store) List(ctx context.Context, status Status, limit int) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

// Stats aggregates the full history into a summary.
func (s *Store) Stats(ctx context.Context) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM sessions GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("session stats: %w", err)
	}
	defer rows.Close()

	summary := Summary{}
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		summary.Total += count
		switch status {
		case StatusCompleted:
			summary.Completed += count
		case StatusAbandoned:
			summary.Abandoned += count
		case StatusInterrupted:
			summary.Interrupted += count
		case StatusRunning:
			summary.Running += count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(`+focusCreditExpr+`), 0) FROM sessions`)
	if err := row.Scan(&summary.FocusSeconds); err != nil {
		return Summary{}, fmt.Errorf("focus seconds: %w", err)
	}

	var first, latest sql.NullString
	row = s.db.QueryRowContext(ctx, `SELECT MIN(started_at), MAX(started_at) FROM sessions`)
	if err := row.Scan(&first, &latest); err != nil {
		return Summary{}, fmt.Errorf("session range: %w", err)
	}
	if first.Valid {
		if t, err := time.Parse(time.RFC3339Nano, first.String); err == nil {
			summary.FirstSession = t
		}
	}
	if latest.Valid {
		if t, err := time.Parse(time.RFC3339Nano, latest.String); err == nil {
			summary.LatestSession = t
		}
	}

	days, err := s.focusByDay(ctx, daySummaryLimit)
	if err != nil {
		return Summary{}, err
	}
	summary.Days = days
	return summary, nil
}

// daySummaryLimit bounds the per-day breakdown in Stats to the most
// recent two weeks of activity.
const daySummaryLimit = 14

// focusByDay groups focus credit by the calendar day a session started,
// newest day first.
func (s *Store) focusByDay(ctx context.Context, limit int) ([]DayFocus, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT date(started_at), COUNT(1), COALESCE(SUM(`+focusCreditExpr+`), 0)
        FROM sessions
        GROUP BY date(started_at)
        ORDER BY date(started_at) DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("focus by day: %w", err)
	}
	defer rows.Close()

	var out []DayFocus
	for rows.Next() {
		var day DayFocus
		if err := rows.Scan(&day.Date, &day.Sessions, &day.FocusSeconds); err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

// ClearHistory deletes every recorded session. The tree keeps its age.
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

const sessionColumns = `id, preset, work_seconds, break_seconds, status, started_at, ended_at, work_completed`

// focusCreditExpr counts full work phases plus partial work time from
// sessions that ended early.
const focusCreditExpr = `
        CASE WHEN work_completed = 1 THEN work_seconds
             WHEN ended_at IS NOT NULL THEN MIN(work_seconds,
                 CAST((julianday(ended_at) - julianday(started_at)) * 86400 AS INTEGER))
             ELSE 0 END`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session       Session
		startedAt     string
		endedAt       sql.NullString
		workCompleted int
	)
	if err := row.Scan(
		&session.ID,
		&session.Preset,
		&session.WorkSeconds,
		&session.BreakSeconds,
		&session.Status,
		&startedAt,
		&endedAt,
		&workCompleted,
	); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	session.StartedAt = t

	if endedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		session.EndedAt = t
	}
	session.WorkCompleted = workCompleted != 0
	return &session, nil
}
