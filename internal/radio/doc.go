// Package radio streams internet radio stations over HTTP and plays
// them through the shared audio output. Stations come from
// configuration and a connectivity probe gates every tune attempt.
package radio
