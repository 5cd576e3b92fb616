// Package daemon wires the timer engine, audio playback, quote rotation,
// and session history into one background process guarded by a file
// lock. The IPC server exposes its operations to the CLI and TUI.
package daemon
