// Package config loads the bluetui configuration file.
//
// The file is optional. When it is missing every field takes its default,
// so a fresh install runs without any setup.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/bluetui/config.yaml or $HOME/.config/bluetui/config.yaml
//   - macOS: $HOME/.config/bluetui/config.yaml
//   - Windows: %LOCALAPPDATA%\bluetui\config.yaml
//
// # Example
//
//	# Adapter to use; empty picks the first one BlueZ reports.
//	adapter: hci1
//	log_file: /tmp/bluetui.log
//	log_level: debug
package config
