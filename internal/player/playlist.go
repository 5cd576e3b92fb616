package player

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"wisdomtree/internal/logging"
)

// supportedExtensions lists the audio formats the decoder handles.
var supportedExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".ogg":  {},
	".flac": {},
}

var titleCaser = cases.Title(language.English)

// Track is one playable file from the music directory.
type Track struct {
	Path  string
	Title string
}

// TrackTitle prettifies a file name for display. Separators become
// spaces and each word is title-cased, so "lofi_rain-mix.ogg" reads as
// "Lofi Rain Mix".
func TrackTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return filepath.Base(path)
	}
	return titleCaser.String(base)
}

// Playlist holds the ordered tracks discovered in the music directory.
type Playlist struct {
	mu     sync.Mutex
	dir    string
	tracks []Track
}

// NewPlaylist scans dir for playable files. A missing or empty directory
// yields an empty playlist, not an error.
func NewPlaylist(dir string) (*Playlist, error) {
	p := &Playlist{dir: dir}
	if err := p.Rescan(); err != nil {
		return nil, err
	}
	return p, nil
}

// Rescan reloads the track list from disk.
func (p *Playlist) Rescan() error {
	if strings.TrimSpace(p.dir) == "" {
		return nil
	}
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			p.mu.Lock()
			p.tracks = nil
			p.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read music directory: %w", err)
	}

	var tracks []Track
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := supportedExtensions[ext]; !ok {
			continue
		}
		path := filepath.Join(p.dir, entry.Name())
		tracks = append(tracks, Track{Path: path, Title: TrackTitle(path)})
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })

	p.mu.Lock()
	p.tracks = tracks
	p.mu.Unlock()
	return nil
}

// Tracks returns a copy of the current track list.
func (p *Playlist) Tracks() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tracks)
}

// At returns the track at index, wrapping around in both directions.
func (p *Playlist) At(index int) (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	index %= len(p.tracks)
	if index < 0 {
		index += len(p.tracks)
	}
	return p.tracks[index], true
}

// Watch rescans the playlist whenever the music directory changes. It
// blocks until ctx is done. onChange, when non-nil, runs after each
// successful rescan.
func (p *Playlist) Watch(ctx context.Context, logger *slog.Logger, onChange func()) error {
	if strings.TrimSpace(p.dir) == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(p.dir); err != nil {
		return fmt.Errorf("watch music directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if err := p.Rescan(); err != nil {
				logger.Warn("playlist rescan failed", logging.Error(err))
				continue
			}
			logger.Debug("playlist rescanned",
				logging.String(logging.FieldComponent, "player"),
				logging.Int("tracks", p.Len()))
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("music directory watch error", logging.Error(err))
		}
	}
}
