// Package timer implements the pomodoro engine. A cycle is a work phase
// followed by a break phase; the engine emits events at each boundary and
// on every tick, and guarantees that pausing never loses elapsed time.
package timer
