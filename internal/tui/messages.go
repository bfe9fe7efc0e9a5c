package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/devices"
	"github.com/muurk/bluetui/internal/queue"
)

// adapterMsg carries the result of the adapter bootstrap.
type adapterMsg struct {
	adapter bluetooth.Adapter
	err     error
}

// discoveredMsg is an address reported by the scan with generation gen.
type discoveredMsg struct {
	gen  int
	addr bluetooth.Address
}

// intakeMsg is a device whose initial state has been fetched.
type intakeMsg struct {
	gen       int
	addr      bluetooth.Address
	device    devices.Device
	paired    bool
	events    <-chan bluetooth.Change
	closeFeed context.CancelFunc
}

// changeMsg is one property change from the fan-in.
type changeMsg struct {
	addr   bluetooth.Address
	change bluetooth.Change
}

// opID identifies one activation. Ticks and completions carry it so that
// messages from an earlier operation on the same address are recognised.
type opID uint64

type tickMsg struct {
	addr bluetooth.Address
	op   opID
}

// completeMsg is sent when a pair or connect attempt returns, whatever the
// outcome.
type completeMsg struct {
	addr bluetooth.Address
	op   opID
	err  error
}

type failureMsg struct {
	failure devices.Failure
}

// listen waits for the next value on q. It yields nil once q is closed,
// which bubbletea ignores, so the listener simply ends.
func listen[T tea.Msg](q *queue.Unbounded[T]) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-q.Recv()
		if !ok {
			return nil
		}
		return v
	}
}

// listenOnce waits for the single value ever sent on ch.
func listenOnce[T tea.Msg](ch <-chan T) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return v
	}
}
