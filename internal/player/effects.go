package player

import (
	"math"

	"github.com/gopxl/beep"
)

// Effect names a synthesized notification tone. Tones are generated at
// runtime instead of shipping audio assets in the binary.
type Effect string

const (
	// EffectAlarm marks the end of a work or break phase. It always
	// plays, even while the player is muted.
	EffectAlarm Effect = "alarm"
	// EffectGrowth celebrates the tree reaching a new stage.
	EffectGrowth Effect = "growth"
	// EffectSelect is the short click used for menu navigation.
	EffectSelect Effect = "select"
)

// toneSpec describes one note in a synthesized effect.
type toneSpec struct {
	freq     float64
	duration float64
	gain     float64
}

var effectTones = map[Effect][]toneSpec{
	EffectAlarm: {
		{freq: 880, duration: 0.18, gain: 0.5},
		{freq: 0, duration: 0.07},
		{freq: 880, duration: 0.18, gain: 0.5},
		{freq: 0, duration: 0.07},
		{freq: 1174.66, duration: 0.35, gain: 0.5},
	},
	EffectGrowth: {
		{freq: 523.25, duration: 0.12, gain: 0.4},
		{freq: 659.25, duration: 0.12, gain: 0.4},
		{freq: 783.99, duration: 0.22, gain: 0.4},
	},
	EffectSelect: {
		{freq: 1046.5, duration: 0.05, gain: 0.3},
	},
}

// toneStreamer renders a sine note with a linear attack and release so
// the tone starts and ends without clicks. A zero frequency renders
// silence, used as a rest between notes.
type toneStreamer struct {
	freq    float64
	gain    float64
	sr      beep.SampleRate
	total   int
	pos     int
	envelop int
}

func newTone(sr beep.SampleRate, spec toneSpec) *toneStreamer {
	total := int(float64(sr) * spec.duration)
	envelop := int(float64(sr) * 0.01)
	if envelop*2 > total {
		envelop = total / 2
	}
	return &toneStreamer{
		freq:    spec.freq,
		gain:    spec.gain,
		sr:      sr,
		total:   total,
		envelop: envelop,
	}
}

func (t *toneStreamer) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		var value float64
		if t.freq > 0 {
			phase := 2 * math.Pi * t.freq * float64(t.pos) / float64(t.sr)
			value = math.Sin(phase) * t.gain * t.envelope()
		}
		samples[i][0] = value
		samples[i][1] = value
		t.pos++
		n++
	}
	return n, true
}

func (t *toneStreamer) Err() error { return nil }

func (t *toneStreamer) envelope() float64 {
	if t.envelop == 0 {
		return 1
	}
	if t.pos < t.envelop {
		return float64(t.pos) / float64(t.envelop)
	}
	if remaining := t.total - t.pos; remaining < t.envelop {
		return float64(remaining) / float64(t.envelop)
	}
	return 1
}

// effectStreamer builds the full note sequence for an effect.
func effectStreamer(sr beep.SampleRate, effect Effect) beep.Streamer {
	specs, ok := effectTones[effect]
	if !ok {
		return nil
	}
	streamers := make([]beep.Streamer, 0, len(specs))
	for _, spec := range specs {
		streamers = append(streamers, newTone(sr, spec))
	}
	return beep.Seq(streamers...)
}
