package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTimer()
	c.normalizeAudio()
	c.normalizeRadio()
	c.normalizeNotifications()
	c.normalizeLogging()
	c.normalizeDaemon()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MusicDir, err = expandPath(c.Paths.MusicDir); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QuotesFile) != "" {
		if c.Paths.QuotesFile, err = expandPath(c.Paths.QuotesFile); err != nil {
			return fmt.Errorf("paths.quotes_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTimer() {
	if len(c.Timer.Presets) == 0 {
		c.Timer.Presets = Default().Timer.Presets
	}
	if c.Timer.TickInterval <= 0 {
		c.Timer.TickInterval = defaultTickInterval
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.MusicVolume = clampVolume(c.Audio.MusicVolume)
	c.Audio.EffectVolume = clampVolume(c.Audio.EffectVolume)
}

func (c *Config) normalizeRadio() {
	c.Radio.ProbeURL = strings.TrimSpace(c.Radio.ProbeURL)
	if c.Radio.ProbeURL == "" {
		c.Radio.ProbeURL = defaultRadioProbeURL
	}
	if c.Radio.ProbeTimeout <= 0 {
		c.Radio.ProbeTimeout = defaultRadioProbeTimeout
	}
	if c.Radio.StreamTimeout <= 0 {
		c.Radio.StreamTimeout = defaultRadioStreamTimeout
	}
	if c.Radio.RetryAttempts <= 0 {
		c.Radio.RetryAttempts = defaultRadioRetryAttempts
	}
	stations := c.Radio.Stations[:0]
	for _, station := range c.Radio.Stations {
		station.Name = strings.TrimSpace(station.Name)
		station.URL = strings.TrimSpace(station.URL)
		if station.URL == "" {
			continue
		}
		stations = append(stations, station)
	}
	c.Radio.Stations = stations
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("WISDOMTREE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = value
		}
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
	if c.Notifications.DedupWindowSeconds <= 0 {
		c.Notifications.DedupWindowSeconds = defaultNotifyDedupWindow
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}

func (c *Config) normalizeDaemon() {
	if c.Daemon.PollInterval <= 0 {
		c.Daemon.PollInterval = defaultDaemonPollInterval
	}
	if c.Daemon.ShutdownTimeout <= 0 {
		c.Daemon.ShutdownTimeout = defaultShutdownTimeout
	}
}

func clampVolume(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
