// Package player plays background music from a local directory and
// synthesized notification tones. It wraps the beep playback stack and
// watches the music directory for changes.
package player
