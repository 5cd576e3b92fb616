// Package ipc exposes daemon control over JSON-RPC on a Unix domain
// socket, with a matching client used by the CLI and TUI.
package ipc
