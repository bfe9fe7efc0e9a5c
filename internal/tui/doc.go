// Package tui is the interactive front end of bluetui.
//
// The bubbletea runtime is the event loop. Model.Update is the only code that
// touches the device registry, the selection, the error slot and the spinner
// table; everything that runs in the background (adapter bootstrap, the
// discovery scanner, per-device property streams, pair and connect workers,
// spinners) only sends messages.
//
// Each background source writes to its own unbounded queue. A listen command
// per queue turns the next value into a tea.Msg and is re-armed every time
// that message is handled, so bubbletea's message loop is the wait for the
// first ready source. The runtime redraws after every Update, and once at
// startup before any message arrives.
//
// # Lifecycle
//
//	bootstrapping ──adapter ok──▶ ready ──q──▶ stopped
//	      │
//	      └──adapter error──▶ stopped (Run returns the error)
//
// Scanning and pair/connect are ignored until the adapter is ready.
package tui
