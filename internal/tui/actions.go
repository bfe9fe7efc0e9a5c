package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/devices"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

// Throbber is the busy indicator shown next to a device while a pair or
// connect attempt runs. Its FPS is the tick interval.
var Throbber = spinner.Spinner{
	Frames: devices.ThrobberFrames,
	FPS:    100 * time.Millisecond,
}

// bootstrap acquires the adapter in the background and delivers the result
// on out, which must have room for one value.
func bootstrap(ctx context.Context, session bluetooth.Session, out chan<- adapterMsg) tea.Cmd {
	return func() tea.Msg {
		adapter, err := session.DefaultAdapter(ctx)
		out <- adapterMsg{adapter: adapter, err: err}
		return nil
	}
}

// intake fetches the initial state of addr and opens its property stream.
// Any failure drops the device: it is logged and nothing is reported.
func intake(ctx context.Context, adapter bluetooth.Adapter, gen int, addr bluetooth.Address) tea.Cmd {
	return func() tea.Msg {
		fail := func(step string, err error) tea.Msg {
			logging.Warn("Device intake failed",
				zap.String("addr", addr.String()),
				zap.String("step", step),
				zap.Error(err),
			)
			return nil
		}

		dev, err := adapter.Device(addr)
		if err != nil {
			return fail("resolve", err)
		}
		paired, err := dev.Paired(ctx)
		if err != nil {
			return fail("paired", err)
		}
		connected, err := dev.Connected(ctx)
		if err != nil {
			return fail("connected", err)
		}
		alias, err := dev.Alias(ctx)
		if err != nil {
			return fail("alias", err)
		}

		feedCtx, closeFeed := context.WithCancel(ctx)
		events, err := dev.Events(feedCtx)
		if err != nil {
			closeFeed()
			return fail("events", err)
		}

		return intakeMsg{
			gen:       gen,
			addr:      addr,
			device:    devices.Device{Alias: alias, Connected: connected},
			paired:    paired,
			events:    events,
			closeFeed: closeFeed,
		}
	}
}

// operation is what Enter does to the selected device.
type operation int

const (
	opPair operation = iota
	opConnect
)

func operationFor(list devices.List) operation {
	if list == devices.Paired {
		return opConnect
	}
	return opPair
}

func (o operation) String() string {
	if o == opConnect {
		return "connect"
	}
	return "pair"
}

// process describes the operation for the error popup.
func (o operation) process(alias string) string {
	if o == opConnect {
		return fmt.Sprintf("connecting to %s", alias)
	}
	return fmt.Sprintf("pairing with %s", alias)
}

// worker runs one pair or connect attempt. It always reports completion,
// then the failure if there was one.
type worker struct {
	adapter     bluetooth.Adapter
	addr        bluetooth.Address
	id          opID
	alias       string
	op          operation
	completions *queue.Unbounded[completeMsg]
	failures    *queue.Unbounded[failureMsg]
}

func (w worker) run(ctx context.Context) {
	err := w.do(ctx)

	if sendErr := w.completions.Send(completeMsg{addr: w.addr, op: w.id, err: err}); sendErr != nil {
		logging.Error("Failed to send completion",
			zap.String("addr", w.addr.String()),
			zap.String("operation", w.op.String()),
			zap.Error(sendErr),
		)
	}
	if err == nil {
		logging.LogDeviceEvent(w.addr.String(), w.op.String()+" succeeded")
		return
	}

	logging.LogDeviceEvent(w.addr.String(), w.op.String()+" failed", zap.Error(err))
	failure := devices.Failure{Message: err.Error(), Process: w.op.process(w.alias)}
	if sendErr := w.failures.Send(failureMsg{failure: failure}); sendErr != nil {
		logging.Error("Failed to send failure",
			zap.String("addr", w.addr.String()),
			zap.String("operation", w.op.String()),
			zap.Error(sendErr),
		)
	}
}

func (w worker) do(ctx context.Context) error {
	dev, err := w.adapter.Device(w.addr)
	if err != nil {
		return err
	}
	if w.op == opConnect {
		return dev.Connect(ctx)
	}
	return dev.Pair(ctx)
}

// spin sends a tick for operation id on addr every interval until ctx is
// cancelled.
func spin(ctx context.Context, addr bluetooth.Address, id opID, interval time.Duration, ticks *queue.Unbounded[tickMsg]) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := ticks.Send(tickMsg{addr: addr, op: id}); err != nil {
				logging.Debug("Spinner stopped", zap.String("addr", addr.String()), zap.Error(err))
				return
			}
		}
	}
}
