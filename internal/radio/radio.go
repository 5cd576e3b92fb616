package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"

	"wisdomtree/internal/config"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/player"
)

// mixRate matches the player's speaker rate so both can share one
// output device.
const mixRate = beep.SampleRate(44100)

var (
	// ErrNoStations is returned when the configuration lists no streams.
	ErrNoStations = errors.New("no radio stations configured")
	// ErrOffline is returned when the connectivity probe fails.
	ErrOffline = errors.New("no internet connection")
)

// Snapshot is a point-in-time view of the tuner for status output.
type Snapshot struct {
	Station      string `json:"station"`
	URL          string `json:"url"`
	Playing      bool   `json:"playing"`
	StationIndex int    `json:"station_index"`
	StationCount int    `json:"station_count"`
	Volume       int    `json:"volume"`
}

// decodeFunc turns a raw stream body into samples. Swappable in tests.
type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// stream bundles one live connection and its playback chain.
type stream struct {
	body   io.Closer
	ctrl   *beep.Ctrl
	volume *effects.Volume
	name   string
	url    string
}

// Tuner streams internet radio stations over HTTP. Stations come from
// configuration; tuning cycles through them in order.
type Tuner struct {
	mu     sync.Mutex
	logger *slog.Logger
	output player.Output
	client *http.Client
	decode decodeFunc

	stations      []config.Station
	probeURL      string
	probeTimeout  time.Duration
	retryAttempts int

	index   int
	volume  int
	current *stream
	onDrop  func(station string)
}

// New builds a tuner from configuration.
func New(cfg *config.Config, output player.Output, logger *slog.Logger) *Tuner {
	streamTimeout := time.Duration(cfg.Radio.StreamTimeout) * time.Second
	return &Tuner{
		logger: logging.NewComponentLogger(logger, "radio"),
		output: output,
		client: &http.Client{
			// Bounds connect plus response headers. The body must keep
			// streaming indefinitely, so no overall client timeout.
			Transport: &http.Transport{ResponseHeaderTimeout: streamTimeout},
		},
		decode:        mp3.Decode,
		stations:      cfg.Radio.Stations,
		probeURL:      cfg.Radio.ProbeURL,
		probeTimeout:  time.Duration(cfg.Radio.ProbeTimeout) * time.Second,
		retryAttempts: cfg.Radio.RetryAttempts,
		volume:        cfg.Audio.MusicVolume,
	}
}

// OnStreamDrop registers a callback invoked when a live stream ends or
// dies mid-playback. Set it before the first Tune; the callback runs on
// its own goroutine.
func (t *Tuner) OnStreamDrop(fn func(station string)) {
	t.mu.Lock()
	t.onDrop = fn
	t.mu.Unlock()
}

// Stations returns the configured station list.
func (t *Tuner) Stations() []config.Station {
	out := make([]config.Station, len(t.stations))
	copy(out, t.stations)
	return out
}

// Online probes for internet connectivity. It reports false on any
// transport error or server-side failure.
func (t *Tuner) Online(ctx context.Context) bool {
	if t.probeURL == "" {
		return true
	}
	probeCtx, cancel := context.WithTimeout(ctx, t.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, t.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode < 400
}

// Tune connects to the station at index, wrapping out-of-range values,
// and starts playback. Connection attempts retry per configuration
// before giving up.
func (t *Tuner) Tune(ctx context.Context, index int) error {
	if len(t.stations) == 0 {
		return ErrNoStations
	}
	if !t.Online(ctx) {
		return ErrOffline
	}

	index %= len(t.stations)
	if index < 0 {
		index += len(t.stations)
	}
	station := t.stations[index]

	if err := t.output.Init(mixRate, mixRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}

	attempts := t.retryAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := t.connect(ctx, index, station); err != nil {
			lastErr = err
			t.logger.Warn("station connect failed",
				logging.String(logging.FieldStation, station.Name),
				logging.Int("attempt", attempt),
				logging.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			continue
		}
		t.logger.Info("tuned in", logging.String(logging.FieldStation, station.Name))
		return nil
	}
	return fmt.Errorf("tune %q: %w", station.Name, lastErr)
}

func (t *Tuner) connect(ctx context.Context, index int, station config.Station) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, station.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "0")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	streamer, format, err := t.decode(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode stream: %w", err)
	}

	var source beep.Streamer = streamer
	if format.SampleRate != mixRate {
		source = beep.Resample(4, format.SampleRate, mixRate, streamer)
	}
	st := &stream{body: resp.Body, name: station.Name, url: station.URL}
	// The callback fires when the decoder runs dry, which for a live
	// stream means the connection died.
	ctrl := &beep.Ctrl{Streamer: beep.Seq(source, beep.Callback(func() {
		t.streamEnded(st)
	}))}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}
	st.ctrl = ctrl
	st.volume = volume

	t.mu.Lock()
	prev := t.current
	t.index = index
	t.current = st
	t.applyVolumeLocked()
	t.mu.Unlock()

	t.output.Clear()
	if prev != nil {
		_ = prev.body.Close()
	}
	t.output.Play(volume)
	return nil
}

// streamEnded handles a connection dying mid-playback. A stale callback
// from a stream already replaced by Stop or a retune is ignored.
func (t *Tuner) streamEnded(st *stream) {
	t.mu.Lock()
	if t.current != st {
		t.mu.Unlock()
		return
	}
	t.current = nil
	onDrop := t.onDrop
	t.mu.Unlock()

	_ = st.body.Close()
	t.logger.Warn("stream dropped", logging.String(logging.FieldStation, st.name))
	if onDrop != nil {
		go onDrop(st.name)
	}
}

// NextStation tunes to the following station in the list.
func (t *Tuner) NextStation(ctx context.Context) error {
	t.mu.Lock()
	index := t.index + 1
	t.mu.Unlock()
	return t.Tune(ctx, index)
}

// PrevStation tunes to the previous station in the list.
func (t *Tuner) PrevStation(ctx context.Context) error {
	t.mu.Lock()
	index := t.index - 1
	t.mu.Unlock()
	return t.Tune(ctx, index)
}

// SetVolume sets stream volume on a 0 to 100 scale.
func (t *Tuner) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	t.output.Lock()
	t.mu.Lock()
	t.volume = volume
	t.applyVolumeLocked()
	t.mu.Unlock()
	t.output.Unlock()
}

func (t *Tuner) applyVolumeLocked() {
	if t.current == nil {
		return
	}
	t.current.volume.Silent = t.volume == 0
	t.current.volume.Volume = (float64(t.volume) - 100) / 100 * 5
}

// Stop disconnects from the current station.
func (t *Tuner) Stop() {
	t.mu.Lock()
	current := t.current
	t.current = nil
	t.mu.Unlock()

	t.output.Clear()
	if current != nil {
		_ = current.body.Close()
	}
}

// Snapshot reports the current tuner state.
func (t *Tuner) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		StationIndex: t.index,
		StationCount: len(t.stations),
		Volume:       t.volume,
	}
	if t.current != nil {
		snap.Playing = true
		snap.Station = t.current.name
		snap.URL = t.current.url
	}
	return snap
}
