// Package tui renders the full-screen terminal scene: the bonsai with
// its daily weather, the rotating quote, the countdown, and menus for
// presets and radio stations. All state changes go through the daemon
// over IPC.
package tui
