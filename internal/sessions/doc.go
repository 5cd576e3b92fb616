// Package sessions persists pomodoro history and the bonsai's age in a
// SQLite database. Sessions move from running into exactly one terminal
// state; the tree's age only ever increases.
package sessions
