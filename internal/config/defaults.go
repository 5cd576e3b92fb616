package config

const (
	defaultDataDir            = "~/.local/share/wisdomtree"
	defaultLogDir             = "~/.local/share/wisdomtree/logs"
	defaultMusicDir           = "~/.local/share/wisdomtree/music"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 30
	defaultTickInterval       = 1
	defaultRotationSeconds    = 300
	defaultMusicVolume        = 70
	defaultEffectVolume       = 100
	defaultNotifyTimeout      = 10
	defaultNotifyDedupWindow  = 600
	defaultRadioProbeURL      = "https://www.google.com/generate_204"
	defaultRadioProbeTimeout  = 10
	defaultRadioStreamTimeout = 30
	defaultRadioRetryAttempts = 3
	defaultDaemonPollInterval = 1
	defaultShutdownTimeout    = 10
)

// Default returns a Config populated with repository defaults.
//
// The preset table mirrors the classic pomodoro pairings: long/long,
// standard, deep work, and sprint.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			MusicDir: defaultMusicDir,
		},
		Timer: Timer{
			Presets: []Preset{
				{WorkMinutes: 20, BreakMinutes: 20},
				{WorkMinutes: 20, BreakMinutes: 10},
				{WorkMinutes: 40, BreakMinutes: 20},
				{WorkMinutes: 50, BreakMinutes: 10},
			},
			TickInterval: defaultTickInterval,
		},
		Audio: Audio{
			Enabled:        true,
			MusicVolume:    defaultMusicVolume,
			EffectVolume:   defaultEffectVolume,
			EffectsEnabled: true,
		},
		Radio: Radio{
			Stations: []Station{
				{Name: "Lofi Girl", URL: "https://play.streamafrica.net/lofiradio"},
				{Name: "Chillhop", URL: "https://streams.fluxfm.de/Chillhop/mp3-320"},
				{Name: "Box Lofi", URL: "https://boxradio-edge-00.streamafrica.net/lofi"},
			},
			ProbeURL:      defaultRadioProbeURL,
			ProbeTimeout:  defaultRadioProbeTimeout,
			StreamTimeout: defaultRadioStreamTimeout,
			RetryAttempts: defaultRadioRetryAttempts,
			FallbackLocal: true,
		},
		Quotes: Quotes{
			RotationSeconds: defaultRotationSeconds,
		},
		Notifications: Notifications{
			RequestTimeout:     defaultNotifyTimeout,
			WorkComplete:       true,
			BreakComplete:      true,
			SessionComplete:    true,
			Errors:             true,
			DedupWindowSeconds: defaultNotifyDedupWindow,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Daemon: Daemon{
			PollInterval:    defaultDaemonPollInterval,
			ShutdownTimeout: defaultShutdownTimeout,
		},
	}
}
