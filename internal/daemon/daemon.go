package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"wisdomtree/internal/config"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/notifications"
	"wisdomtree/internal/player"
	"wisdomtree/internal/quotes"
	"wisdomtree/internal/radio"
	"wisdomtree/internal/sessions"
	"wisdomtree/internal/timer"
)

// Daemon coordinates the timer, audio, quote rotation, and history
// persistence, and enforces single-instance execution through a file
// lock.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *sessions.Store
	engine   *timer.Engine
	playlist *player.Playlist
	player   *player.Player
	tuner    *radio.Tuner
	notifier notifications.Service
	quotes   *quotes.Collection

	logPath  string
	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	quote     string
	sessionID string
}

// New constructs a daemon playing through the default audio device.
func New(cfg *config.Config, store *sessions.Store, logger *slog.Logger) (*Daemon, error) {
	return NewWithOutput(cfg, store, logger, player.NewSpeakerOutput())
}

// NewWithOutput constructs a daemon with an explicit audio output, used
// by tests to run without a sound device.
func NewWithOutput(cfg *config.Config, store *sessions.Store, logger *slog.Logger, output player.Output) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	playlist, err := player.NewPlaylist(cfg.Paths.MusicDir)
	if err != nil {
		return nil, fmt.Errorf("scan music directory: %w", err)
	}
	collection, err := quotes.Load(cfg.Paths.QuotesFile)
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		engine:   timer.New(time.Duration(cfg.Timer.TickInterval) * time.Second),
		playlist: playlist,
		player:   player.New(cfg, playlist, output, logger),
		tuner:    radio.New(cfg, output, logger),
		notifier: notifications.NewService(cfg),
		quotes:   collection,
		logPath:  cfg.LogPath(),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.quote = collection.Random()
	d.tuner.OnStreamDrop(d.handleStreamDrop)
	return d, nil
}

// Start acquires the daemon lock and launches the background loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another wisdomtree daemon instance is already running")
	}

	repaired, err := d.store.InterruptStale(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("repair stale sessions: %w", err)
	}
	if repaired > 0 {
		d.logger.Warn("interrupted stale sessions", logging.Int64("count", repaired))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.bridgeTimerEvents(d.ctx)
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.rotateQuotes(d.ctx)
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.playlist.Watch(d.ctx, d.logger, nil); err != nil {
			d.logger.Warn("music directory watch stopped", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("wisdomtree daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts background loops, abandons any running session, and
// releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if err := d.StopTimer(context.Background()); err != nil && !errors.Is(err, timer.ErrNotRunning) {
		d.logger.Warn("stop timer during shutdown", logging.Error(err))
	}
	d.player.Stop()
	d.tuner.Stop()

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("wisdomtree daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon loops are active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LogPath returns the daemon log file location.
func (d *Daemon) LogPath() string {
	return d.logPath
}
