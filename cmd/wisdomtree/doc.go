// Command wisdomtree is the CLI and terminal interface for the
// wisdomtree daemon: pomodoro sessions, the growing bonsai, quotes,
// and music or radio playback.
package main
