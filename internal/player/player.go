package player

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"wisdomtree/internal/config"
	"wisdomtree/internal/logging"
)

// mixRate is the sample rate the speaker runs at. Tracks with other
// rates are resampled on the fly.
const mixRate = beep.SampleRate(44100)

// ErrEmptyPlaylist is returned when playback is requested with no tracks
// available.
var ErrEmptyPlaylist = errors.New("no playable tracks in music directory")

// Snapshot is a point-in-time view of the player for status output.
type Snapshot struct {
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

// playback bundles the chain built around one decoded track.
type playback struct {
	closer io.Closer
	ctrl   *beep.Ctrl
	volume *effects.Volume
	track  Track
}

// Player plays local music and synthesized effect tones. All state
// changes go through the output's lock so they are safe against the
// audio goroutine.
type Player struct {
	mu       sync.Mutex
	logger   *slog.Logger
	output   Output
	playlist *Playlist

	enabled      bool
	effectsOn    bool
	loop         bool
	muted        bool
	musicVolume  int
	effectVolume int

	index   int
	current *playback
}

// New builds a player from configuration. The output is initialized
// lazily on the first playback so a headless daemon without an audio
// device still starts.
func New(cfg *config.Config, playlist *Playlist, output Output, logger *slog.Logger) *Player {
	return &Player{
		logger:       logging.NewComponentLogger(logger, "player"),
		output:       output,
		playlist:     playlist,
		enabled:      cfg.Audio.Enabled,
		effectsOn:    cfg.Audio.EffectsEnabled,
		loop:         cfg.Audio.Loop,
		muted:        cfg.Audio.Muted,
		musicVolume:  cfg.Audio.MusicVolume,
		effectVolume: cfg.Audio.EffectVolume,
	}
}

// Play starts the track at the current playlist position.
func (p *Player) Play() error {
	p.mu.Lock()
	index := p.index
	p.mu.Unlock()
	return p.PlayIndex(index)
}

// PlayIndex starts the track at the given playlist position, wrapping
// out-of-range indexes.
func (p *Player) PlayIndex(index int) error {
	if !p.enabled {
		return errors.New("audio is disabled in configuration")
	}
	track, ok := p.playlist.At(index)
	if !ok {
		return ErrEmptyPlaylist
	}
	if err := p.output.Init(mixRate, mixRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}

	streamer, format, closer, err := openTrack(track.Path)
	if err != nil {
		return err
	}

	var source beep.Streamer = streamer
	if format.SampleRate != mixRate {
		source = beep.Resample(4, format.SampleRate, mixRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: beep.Seq(source, beep.Callback(p.onTrackDone))}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}

	p.mu.Lock()
	prev := p.current
	p.index = normalizeIndex(index, p.playlist.Len())
	p.current = &playback{closer: closer, ctrl: ctrl, volume: volume, track: track}
	applyVolume(volume, p.musicVolume, p.muted)
	p.mu.Unlock()

	p.output.Clear()
	if prev != nil {
		_ = prev.closer.Close()
	}
	p.output.Play(volume)

	p.logger.Info("playing track", logging.String(logging.FieldTrack, track.Title))
	return nil
}

// onTrackDone advances to the next track when one finishes naturally.
// When loop is off and the playlist wrapped back to the start, playback
// stops instead.
func (p *Player) onTrackDone() {
	p.mu.Lock()
	next := p.index + 1
	wrap := next >= p.playlist.Len()
	loop := p.loop
	p.mu.Unlock()

	if wrap && !loop {
		go p.Stop()
		return
	}
	go func() {
		if err := p.PlayIndex(next); err != nil {
			p.logger.Warn("auto-advance failed", logging.Error(err))
		}
	}()
}

// Next skips to the following track.
func (p *Player) Next() error {
	p.mu.Lock()
	index := p.index + 1
	p.mu.Unlock()
	return p.PlayIndex(index)
}

// Prev returns to the previous track.
func (p *Player) Prev() error {
	p.mu.Lock()
	index := p.index - 1
	p.mu.Unlock()
	return p.PlayIndex(index)
}

// Pause suspends playback without losing the position in the track.
func (p *Player) Pause() {
	p.setPaused(true)
}

// Resume continues a paused track.
func (p *Player) Resume() {
	p.setPaused(false)
}

// TogglePause flips the paused state and reports the new value.
func (p *Player) TogglePause() bool {
	p.output.Lock()
	p.mu.Lock()
	paused := false
	if p.current != nil {
		p.current.ctrl.Paused = !p.current.ctrl.Paused
		paused = p.current.ctrl.Paused
	}
	p.mu.Unlock()
	p.output.Unlock()
	return paused
}

func (p *Player) setPaused(paused bool) {
	p.output.Lock()
	p.mu.Lock()
	if p.current != nil {
		p.current.ctrl.Paused = paused
	}
	p.mu.Unlock()
	p.output.Unlock()
}

// Stop halts playback and releases the current track.
func (p *Player) Stop() {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	p.output.Clear()
	if current != nil {
		_ = current.closer.Close()
	}
}

// SetVolume sets the music volume on a 0 to 100 scale.
func (p *Player) SetVolume(volume int) {
	volume = clamp(volume)
	p.output.Lock()
	p.mu.Lock()
	p.musicVolume = volume
	if p.current != nil {
		applyVolume(p.current.volume, p.musicVolume, p.muted)
	}
	p.mu.Unlock()
	p.output.Unlock()
}

// AdjustVolume changes the volume by delta and returns the new value.
func (p *Player) AdjustVolume(delta int) int {
	p.mu.Lock()
	volume := clamp(p.musicVolume + delta)
	p.mu.Unlock()
	p.SetVolume(volume)
	return volume
}

// ToggleMute flips the mute state and reports the new value. Muting
// silences music and most effects; the alarm tone is exempt.
func (p *Player) ToggleMute() bool {
	p.output.Lock()
	p.mu.Lock()
	p.muted = !p.muted
	muted := p.muted
	if p.current != nil {
		applyVolume(p.current.volume, p.musicVolume, p.muted)
	}
	p.mu.Unlock()
	p.output.Unlock()
	return muted
}

// SetLoop controls whether the playlist restarts after the last track.
func (p *Player) SetLoop(loop bool) {
	p.mu.Lock()
	p.loop = loop
	p.mu.Unlock()
}

// ToggleLoop flips the loop state and reports the new value.
func (p *Player) ToggleLoop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = !p.loop
	return p.loop
}

// ToggleEffects flips the effects toggle and reports the new value. The
// alarm is not covered by the toggle.
func (p *Player) ToggleEffects() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effectsOn = !p.effectsOn
	return p.effectsOn
}

// AdjustEffectVolume changes the effect volume by delta and returns the
// new value.
func (p *Player) AdjustEffectVolume(delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effectVolume = clamp(p.effectVolume + delta)
	return p.effectVolume
}

// PlayEffect plays a synthesized tone. The alarm plays even while
// muted; every other effect honors both the mute state and the
// effects toggle.
func (p *Player) PlayEffect(effect Effect) error {
	if !p.enabled {
		return nil
	}
	p.mu.Lock()
	muted := p.muted
	effectsOn := p.effectsOn
	volume := p.effectVolume
	p.mu.Unlock()

	if effect != EffectAlarm {
		if !effectsOn || muted {
			return nil
		}
	}

	if err := p.output.Init(mixRate, mixRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	streamer := effectStreamer(mixRate, effect)
	if streamer == nil {
		return fmt.Errorf("unknown effect %q", effect)
	}
	chain := &effects.Volume{Streamer: streamer, Base: 2}
	applyVolume(chain, volume, false)
	p.output.Play(chain)
	return nil
}

// Snapshot reports the current playback state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Muted:        p.muted,
		Volume:       p.musicVolume,
		TrackIndex:   p.index,
		TrackCount:   p.playlist.Len(),
		Loop:         p.loop,
		EffectsOn:    p.effectsOn,
		EffectVolume: p.effectVolume,
	}
	if p.current != nil {
		snap.Track = p.current.track.Title
		snap.Playing = true
		snap.Paused = p.current.ctrl.Paused
	}
	return snap
}

// applyVolume maps the 0 to 100 scale onto beep's exponential volume.
// Zero and muted are fully silent.
func applyVolume(v *effects.Volume, volume int, muted bool) {
	v.Silent = muted || volume == 0
	v.Volume = (float64(volume) - 100) / 100 * 5
}

func clamp(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

func normalizeIndex(index, length int) int {
	if length == 0 {
		return 0
	}
	index %= length
	if index < 0 {
		index += length
	}
	return index
}

// openTrack decodes an audio file by extension.
func openTrack(path string) (beep.StreamSeekCloser, beep.Format, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, fmt.Errorf("open track: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	default:
		_ = file.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("unsupported audio format: %s", path)
	}
	if err != nil {
		_ = file.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, streamer, nil
}
