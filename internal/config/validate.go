package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimer(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateRadio(); err != nil {
		return err
	}
	if err := c.validateQuotes(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTimer() error {
	if len(c.Timer.Presets) == 0 {
		return errors.New("timer.presets must contain at least one entry")
	}
	for i, preset := range c.Timer.Presets {
		if preset.WorkMinutes <= 0 {
			return fmt.Errorf("timer.presets[%d].work_minutes must be positive", i)
		}
		if preset.BreakMinutes < 0 {
			return fmt.Errorf("timer.presets[%d].break_minutes must not be negative", i)
		}
	}
	if c.Timer.TickInterval <= 0 {
		return errors.New("timer.tick_interval must be positive")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 100 {
		return errors.New("audio.music_volume must be between 0 and 100")
	}
	if c.Audio.EffectVolume < 0 || c.Audio.EffectVolume > 100 {
		return errors.New("audio.effect_volume must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateRadio() error {
	for i, station := range c.Radio.Stations {
		parsed, err := url.Parse(station.URL)
		if err != nil {
			return fmt.Errorf("radio.stations[%d].url: %w", i, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("radio.stations[%d].url must use http or https, got %q", i, parsed.Scheme)
		}
	}
	return ensurePositiveMap(map[string]int{
		"radio.probe_timeout":  c.Radio.ProbeTimeout,
		"radio.stream_timeout": c.Radio.StreamTimeout,
		"radio.retry_attempts": c.Radio.RetryAttempts,
	})
}

func (c *Config) validateQuotes() error {
	if c.Quotes.RotationSeconds <= 0 {
		return errors.New("quotes.rotation_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
