// Package logs reads the daemon's log file with offset-based tailing and
// optional level and component filters.
package logs
