// Package logging provides structured logging for bluetui.
//
// The package keeps a single global zap logger and exposes thin helpers
// around it. Until Initialize is called every helper is a no-op, so packages
// can log unconditionally.
//
// # Output
//
// The terminal is owned by the UI, so logs never go to stdout or stderr.
// They are appended to a file (bluetui.log in the working directory unless
// configured otherwise) in zap's console format:
//
//	2026-03-02T10:30:45.123+0100  INFO  tui/actions.go:88  Device event  {"addr": "00:1A:7D:DA:71:13", "event": "paired"}
//
// # Log Levels
//
//   - Debug: key presses, signal routing, D-Bus housekeeping
//   - Info: device intake, pair and connect outcomes
//   - Warn: dropped events and failed property reads
//   - Error: failures that end the program
//
// The level comes from the config file, then BLUETUI_LOG_LEVEL, then info.
//
// # Usage
//
//	if err := logging.Initialize(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.LogDeviceEvent(addr.String(), "connected")
package logging
