package tui

import (
	"context"

	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

// multiplexer merges the property streams of all known devices into one
// queue. Within one stream order is kept; across streams it is arrival order.
//
// It is owned by the event loop and not safe for concurrent use.
type multiplexer struct {
	out     *queue.Unbounded[changeMsg]
	streams map[bluetooth.Address]context.CancelFunc
}

func newMultiplexer(out *queue.Unbounded[changeMsg]) *multiplexer {
	return &multiplexer{
		out:     out,
		streams: make(map[bluetooth.Address]context.CancelFunc),
	}
}

// Add starts forwarding events for addr. closeFeed must make events close.
// A stream already registered for addr is closed first.
func (m *multiplexer) Add(addr bluetooth.Address, events <-chan bluetooth.Change, closeFeed context.CancelFunc) {
	if old, ok := m.streams[addr]; ok {
		old()
	}
	m.streams[addr] = closeFeed

	go m.forward(addr, events)
}

func (m *multiplexer) forward(addr bluetooth.Address, events <-chan bluetooth.Change) {
	for change := range events {
		if err := m.out.Send(changeMsg{addr: addr, change: change}); err != nil {
			logging.Warn("Failed to send property change", zap.String("addr", addr.String()), zap.Error(err))
			return
		}
	}
}

// Len reports the number of open streams.
func (m *multiplexer) Len() int {
	return len(m.streams)
}

// CloseAll closes every stream.
func (m *multiplexer) CloseAll() {
	for addr, closeFeed := range m.streams {
		closeFeed()
		delete(m.streams, addr)
	}
}
