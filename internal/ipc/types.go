package ipc

// StopRequest shuts the daemon down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// TimerState mirrors the engine snapshot for IPC callers.
type TimerState struct {
	Phase            string `json:"phase"`
	Preset           string `json:"preset"`
	Paused           bool   `json:"paused"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

// PlayerState mirrors the local player snapshot.
type PlayerState struct {
	Track        string `json:"track"`
	Playing      bool   `json:"playing"`
	Paused       bool   `json:"paused"`
	Muted        bool   `json:"muted"`
	Volume       int    `json:"volume"`
	TrackIndex   int    `json:"track_index"`
	TrackCount   int    `json:"track_count"`
	Loop         bool   `json:"loop"`
	EffectsOn    bool   `json:"effects_on"`
	EffectVolume int    `json:"effect_volume"`
}

// RadioState mirrors the tuner snapshot.
type RadioState struct {
	Station      string `json:"station"`
	URL          string `json:"url"`
	Playing      bool   `json:"playing"`
	StationIndex int    `json:"station_index"`
	StationCount int    `json:"station_count"`
}

// StatusResponse represents combined daemon status information.
type StatusResponse struct {
	Running     bool        `json:"running"`
	PID         int         `json:"pid"`
	LockPath    string      `json:"lock_path"`
	DBPath      string      `json:"db_path"`
	Timer       TimerState  `json:"timer"`
	Player      PlayerState `json:"player"`
	Radio       RadioState  `json:"radio"`
	TreeAge     int64       `json:"tree_age"`
	TreeStage   int         `json:"tree_stage"`
	Season      string      `json:"season"`
	Quote       string      `json:"quote"`
	QuoteSource string      `json:"quote_source"`
	QuoteCount  int         `json:"quote_count"`
}

// TimerStartRequest begins a pomodoro cycle. PresetIndex selects from
// the configured table when non-negative; otherwise WorkMinutes and
// BreakMinutes define a custom pairing.
type TimerStartRequest struct {
	PresetIndex  int `json:"preset_index"`
	WorkMinutes  int `json:"work_minutes"`
	BreakMinutes int `json:"break_minutes"`
}

// TimerStartResponse reports the started cycle.
type TimerStartResponse struct {
	Timer TimerState `json:"timer"`
}

// TimerControlRequest pauses, resumes, or stops the running cycle.
type TimerControlRequest struct{}

// TimerControlResponse reports the engine state after the control.
type TimerControlResponse struct {
	Timer TimerState `json:"timer"`
}

// PlayerControlRequest drives local playback.
type PlayerControlRequest struct{}

// PlayerControlResponse reports the player state after the control.
type PlayerControlResponse struct {
	Player PlayerState `json:"player"`
}

// VolumeRequest sets or shifts the shared music volume. When Delta is
// non-zero it adjusts relative to the current value; otherwise Volume
// is applied absolutely.
type VolumeRequest struct {
	Volume int `json:"volume"`
	Delta  int `json:"delta"`
}

// VolumeResponse reports the resulting volume.
type VolumeResponse struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
}

// MuteRequest toggles the mute state.
type MuteRequest struct{}

// MuteResponse reports the new mute state.
type MuteResponse struct {
	Muted bool `json:"muted"`
}

// LoopRequest toggles playlist looping.
type LoopRequest struct{}

// LoopResponse reports the new loop state.
type LoopResponse struct {
	Loop bool `json:"loop"`
}

// EffectsRequest toggles the synthesized effect tones. The alarm is not
// covered by the toggle.
type EffectsRequest struct{}

// EffectsResponse reports the new effects state.
type EffectsResponse struct {
	Enabled bool `json:"enabled"`
}

// EffectVolumeRequest shifts the effect volume by Delta.
type EffectVolumeRequest struct {
	Delta int `json:"delta"`
}

// EffectVolumeResponse reports the resulting effect volume.
type EffectVolumeResponse struct {
	Volume int `json:"volume"`
}

// RadioTuneRequest connects to a configured station by index. Next and
// Prev tune relative to the current station and take precedence over
// StationIndex.
type RadioTuneRequest struct {
	StationIndex int  `json:"station_index"`
	Next         bool `json:"next"`
	Prev         bool `json:"prev"`
}

// RadioTuneResponse reports the tuner state after tuning.
type RadioTuneResponse struct {
	Radio RadioState `json:"radio"`
}

// RadioStopRequest disconnects the tuner.
type RadioStopRequest struct{}

// RadioStopResponse confirms disconnection.
type RadioStopResponse struct {
	Stopped bool `json:"stopped"`
}

// StationListRequest fetches the configured stations.
type StationListRequest struct{}

// Station is one configured stream.
type Station struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StationListResponse lists configured stations.
type StationListResponse struct {
	Stations []Station `json:"stations"`
}

// QuoteRequest fetches the current quote. Rotate advances to a new one
// first.
type QuoteRequest struct {
	Rotate bool `json:"rotate"`
}

// QuoteResponse carries the displayed quote.
type QuoteResponse struct {
	Quote  string `json:"quote"`
	Source string `json:"source"`
}

// HistoryListRequest fetches recent sessions. Status narrows the list
// to a single state when set.
type HistoryListRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit"`
}

// SessionRecord is one pomodoro cycle from the history database.
type SessionRecord struct {
	ID            string `json:"id"`
	Preset        string `json:"preset"`
	WorkSeconds   int64  `json:"work_seconds"`
	BreakSeconds  int64  `json:"break_seconds"`
	Status        string `json:"status"`
	StartedAt     string `json:"started_at"`
	EndedAt       string `json:"ended_at,omitempty"`
	WorkCompleted bool   `json:"work_completed"`
}

// HistoryListResponse contains session history, newest first.
type HistoryListResponse struct {
	Sessions []SessionRecord `json:"sessions"`
}

// HistoryStatsRequest aggregates the full history.
type HistoryStatsRequest struct{}

// DayFocus is the focus time accumulated on one calendar day.
type DayFocus struct {
	Date         string `json:"date"`
	Sessions     int    `json:"sessions"`
	FocusSeconds int64  `json:"focus_seconds"`
}

// HistoryStatsResponse carries the aggregate summary.
type HistoryStatsResponse struct {
	Total         int        `json:"total"`
	Completed     int        `json:"completed"`
	Abandoned     int        `json:"abandoned"`
	Interrupted   int        `json:"interrupted"`
	Running       int        `json:"running"`
	FocusSeconds  int64      `json:"focus_seconds"`
	FirstSession  string     `json:"first_session,omitempty"`
	LatestSession string     `json:"latest_session,omitempty"`
	Days          []DayFocus `json:"days,omitempty"`
	TreeAge       int64      `json:"tree_age"`
	TreeStage     int        `json:"tree_stage"`
}

// HistoryClearRequest deletes all recorded sessions.
type HistoryClearRequest struct{}

// HistoryClearResponse reports the number of removed sessions.
type HistoryClearResponse struct {
	Removed int64 `json:"removed"`
}

// DatabaseHealthRequest fetches history database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse carries database diagnostics.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	TableExists      bool     `json:"table_exists"`
	MissingColumns   []string `json:"missing_columns,omitempty"`
	TotalSessions    int      `json:"total_sessions"`
	IntegrityCheck   bool     `json:"integrity_check"`
	Error            string   `json:"error,omitempty"`
}

// LogTailRequest reads lines from the daemon log.
type LogTailRequest struct {
	Offset     int64  `json:"offset"`
	Limit      int    `json:"limit"`
	Follow     bool   `json:"follow"`
	WaitMillis int64  `json:"wait_millis"`
	Level      string `json:"level"`
	Component  string `json:"component"`
}

// LogTailResponse carries log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest sends a test notification.
type TestNotificationRequest struct{}

// TestNotificationResponse reports delivery.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
