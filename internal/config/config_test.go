package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wisdomtree/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "wisdomtree")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if len(cfg.Timer.Presets) != 4 {
		t.Fatalf("expected 4 default presets, got %d", len(cfg.Timer.Presets))
	}
	if cfg.Timer.Presets[0].WorkMinutes != 20 || cfg.Timer.Presets[0].BreakMinutes != 20 {
		t.Fatalf("unexpected first preset: %+v", cfg.Timer.Presets[0])
	}
	if cfg.Audio.MusicVolume != 70 {
		t.Fatalf("unexpected default music volume: %d", cfg.Audio.MusicVolume)
	}
	if cfg.Quotes.RotationSeconds != 300 {
		t.Fatalf("unexpected rotation seconds: %d", cfg.Quotes.RotationSeconds)
	}
	if len(cfg.Radio.Stations) == 0 {
		t.Fatal("expected default radio stations")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}

	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "wisdomtree.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.SocketPath() != filepath.Join(cfg.Paths.LogDir, "wisdomtree.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wisdomtree.toml")

	type payload struct {
		Timer struct {
			Presets []config.Preset `toml:"presets"`
		} `toml:"timer"`
		Audio struct {
			MusicVolume int  `toml:"music_volume"`
			Loop        bool `toml:"loop"`
		} `toml:"audio"`
		Quotes struct {
			RotationSeconds int `toml:"rotation_seconds"`
		} `toml:"quotes"`
	}
	custom := payload{}
	custom.Timer.Presets = []config.Preset{{WorkMinutes: 25, BreakMinutes: 5}}
	custom.Audio.MusicVolume = 40
	custom.Audio.Loop = true
	custom.Quotes.RotationSeconds = 120

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if len(cfg.Timer.Presets) != 1 {
		t.Fatalf("expected single preset, got %d", len(cfg.Timer.Presets))
	}
	if cfg.Timer.Presets[0].WorkMinutes != 25 {
		t.Fatalf("expected 25 minute work preset, got %d", cfg.Timer.Presets[0].WorkMinutes)
	}
	if cfg.Audio.MusicVolume != 40 {
		t.Fatalf("expected music volume 40, got %d", cfg.Audio.MusicVolume)
	}
	if !cfg.Audio.Loop {
		t.Fatal("expected loop enabled")
	}
	if cfg.Quotes.RotationSeconds != 120 {
		t.Fatalf("expected rotation 120, got %d", cfg.Quotes.RotationSeconds)
	}
}

func TestEnvVarProvidesNtfyTopic(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("WISDOMTREE_NTFY_TOPIC", "https://ntfy.sh/focus")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/focus" {
		t.Fatalf("expected topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "rotation_seconds") {
		t.Fatalf("sample config missing quote rotation: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if len(cfg.Timer.Presets) == 0 {
		t.Fatal("expected sample presets")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Timer.Presets = []config.Preset{{WorkMinutes: 0, BreakMinutes: 5}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero work minutes")
	}

	cfg = config.Default()
	cfg.Audio.MusicVolume = 150
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range volume")
	}

	cfg = config.Default()
	cfg.Radio.Stations = []config.Station{{Name: "bad", URL: "ftp://example.com/stream"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http station URL")
	}

	cfg = config.Default()
	cfg.Logging.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.Quotes.RotationSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rotation seconds")
	}
}

func TestNormalizeDropsBlankStations(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wisdomtree.toml")
	body := `
[[radio.stations]]
name = "kept"
url = "https://example.com/stream"

[[radio.stations]]
name = "dropped"
url = "   "
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Radio.Stations) != 1 {
		t.Fatalf("expected blank station dropped, got %d stations", len(cfg.Radio.Stations))
	}
	if cfg.Radio.Stations[0].Name != "kept" {
		t.Fatalf("unexpected station kept: %q", cfg.Radio.Stations[0].Name)
	}
}
