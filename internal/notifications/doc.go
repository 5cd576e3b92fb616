// Package notifications delivers phase and session alerts through ntfy.
// Without a configured topic every notification is a silent noop.
package notifications
