package sessions

import (
	"fmt"
	"time"
)

// Status describes the lifecycle state of a recorded session. Running
// sessions transition exactly once into one of the terminal states.
type Status string

const (
	StatusRunning     Status = "running"
	StatusCompleted   Status = "completed"
	StatusAbandoned   Status = "abandoned"
	StatusInterrupted Status = "interrupted"
)

// terminalStatuses lists the states a session can never leave.
var terminalStatuses = map[Status]struct{}{
	StatusCompleted:   {},
	StatusAbandoned:   {},
	StatusInterrupted: {},
}

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// ParseStatus validates a status string from user input. The empty
// string is allowed and means no filter.
func ParseStatus(raw string) (Status, error) {
	switch status := Status(raw); status {
	case "", StatusRunning, StatusCompleted, StatusAbandoned, StatusInterrupted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown session status %q", raw)
	}
}

// Session is one pomodoro cycle as stored in the history database.
type Session struct {
	ID            string
	Preset        string
	WorkSeconds   int64
	BreakSeconds  int64
	Status        Status
	StartedAt     time.Time
	EndedAt       time.Time
	WorkCompleted bool
}

// DayFocus is the focus time accumulated on one calendar day.
type DayFocus struct {
	Date         string
	Sessions     int
	FocusSeconds int64
}

// Summary aggregates session history for the stats command.
type Summary struct {
	Total         int
	Completed     int
	Abandoned     int
	Interrupted   int
	Running       int
	FocusSeconds  int64
	FirstSession  time.Time
	LatestSession time.Time
	Days          []DayFocus
}

// DatabaseHealth carries diagnostic information about the history database.
type DatabaseHealth struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	TableExists      bool     `json:"table_exists"`
	MissingColumns   []string `json:"missing_columns,omitempty"`
	TotalSessions    int      `json:"total_sessions"`
	IntegrityCheck   bool     `json:"integrity_check"`
	Error            string   `json:"error,omitempty"`
}
