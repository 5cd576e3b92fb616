package player

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Output abstracts the speaker so the engine can run headless in tests.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(streamers ...beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

// speakerOutput drives the real audio device through beep's speaker.
type speakerOutput struct {
	initOnce sync.Once
	initErr  error
}

// NewSpeakerOutput returns the default audio device output.
func NewSpeakerOutput() Output {
	return &speakerOutput{}
}

func (o *speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	o.initOnce.Do(func() {
		o.initErr = speaker.Init(sampleRate, bufferSize)
	})
	return o.initErr
}

func (o *speakerOutput) Play(streamers ...beep.Streamer) {
	speaker.Play(streamers...)
}

func (o *speakerOutput) Lock()   { speaker.Lock() }
func (o *speakerOutput) Unlock() { speaker.Unlock() }
func (o *speakerOutput) Clear()  { speaker.Clear() }

// NullOutput discards audio. It records played streamers so tests can
// assert on playback without a sound device.
type NullOutput struct {
	mu      sync.Mutex
	played  []beep.Streamer
	cleared int
}

// NewNullOutput returns a silent output.
func NewNullOutput() *NullOutput {
	return &NullOutput{}
}

func (o *NullOutput) Init(beep.SampleRate, int) error { return nil }

func (o *NullOutput) Play(streamers ...beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.played = append(o.played, streamers...)
}

func (o *NullOutput) Lock()   { o.mu.Lock() }
func (o *NullOutput) Unlock() { o.mu.Unlock() }

func (o *NullOutput) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleared++
	o.played = nil
}

// Streamers returns the streamers handed to Play since the last Clear.
func (o *NullOutput) Streamers() []beep.Streamer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]beep.Streamer(nil), o.played...)
}

// PlayCount reports how many streamers have been handed to Play since
// the last Clear.
func (o *NullOutput) PlayCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.played)
}

// ClearCount reports how many times Clear was called.
func (o *NullOutput) ClearCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cleared
}
