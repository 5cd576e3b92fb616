package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and resource file configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	QuotesFile string `toml:"quotes_file"`
	MusicDir   string `toml:"music_dir"`
}

// Preset describes a pomodoro work/break pairing in minutes.
type Preset struct {
	WorkMinutes  int `toml:"work_minutes"`
	BreakMinutes int `toml:"break_minutes"`
}

// Timer contains pomodoro timer configuration.
type Timer struct {
	Presets      []Preset `toml:"presets"`
	TickInterval int      `toml:"tick_interval"`
}

// Audio contains playback and sound effect configuration.
type Audio struct {
	Enabled        bool `toml:"enabled"`
	MusicVolume    int  `toml:"music_volume"`
	EffectVolume   int  `toml:"effect_volume"`
	EffectsEnabled bool `toml:"effects_enabled"`
	Muted          bool `toml:"muted"`
	Loop           bool `toml:"loop"`
}

// Station describes a named internet radio stream.
type Station struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Radio contains internet radio configuration.
type Radio struct {
	Stations       []Station `toml:"stations"`
	ProbeURL       string    `toml:"probe_url"`
	ProbeTimeout   int       `toml:"probe_timeout"`
	StreamTimeout  int       `toml:"stream_timeout"`
	RetryAttempts  int       `toml:"retry_attempts"`
	FallbackLocal  bool      `toml:"fallback_local"`
}

// Quotes contains quote rotation configuration.
type Quotes struct {
	RotationSeconds int `toml:"rotation_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic          string `toml:"ntfy_topic"`
	RequestTimeout     int    `toml:"request_timeout"`
	WorkComplete       bool   `toml:"work_complete"`
	BreakComplete      bool   `toml:"break_complete"`
	SessionComplete    bool   `toml:"session_complete"`
	Errors             bool   `toml:"errors"`
	DedupWindowSeconds int    `toml:"dedup_window_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Daemon contains background service timing configuration.
type Daemon struct {
	PollInterval    int `toml:"poll_interval"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Config encapsulates all configuration values for wisdomtree.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories, quotes file, music directory
//   - Timer: pomodoro presets and tick interval
//   - Audio: playback volumes, mute, loop
//   - Radio: internet radio stations and connectivity probing
//   - Quotes: rotation cadence (each rotation grows the tree)
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
//   - Daemon: background service intervals
type Config struct {
	Paths         Paths         `toml:"paths"`
	Timer         Timer         `toml:"timer"`
	Audio         Audio         `toml:"audio"`
	Radio         Radio         `toml:"radio"`
	Quotes        Quotes        `toml:"quotes"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Daemon        Daemon        `toml:"daemon"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wisdomtree/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wisdomtree.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// MusicDir is created on a best-effort basis so the app can run before the
// user has collected any music.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.MusicDir) != "" {
		_ = os.MkdirAll(c.Paths.MusicDir, 0o755)
	}
	return nil
}

// DatabasePath returns the session database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "wisdomtree.db")
}

// SocketPath returns the daemon control socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.LogDir, "wisdomtree.sock")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "wisdomtreed.lock")
}

// LogPath returns the daemon log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "wisdomtree.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
