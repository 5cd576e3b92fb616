// Package config loads, normalizes, and validates the TOML configuration
// shared by the CLI, TUI, and daemon.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/wisdomtree/config.toml, then wisdomtree.toml in the working
// directory, falling back to built-in defaults when no file exists. Path
// fields are tilde-expanded and made absolute during normalization so
// downstream packages never deal with relative or home-anchored paths.
package config
