package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muurk/bluetui/internal/bluetooth"
)

type fakeSession struct {
	adapter bluetooth.Adapter
	err     error
}

func (s *fakeSession) DefaultAdapter(ctx context.Context) (bluetooth.Adapter, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.adapter, nil
}

type fakeAdapter struct {
	mu          sync.Mutex
	devices     map[bluetooth.Address]*fakeDevice
	known       []bluetooth.Address
	discoverErr error
	discoveries int
	scanCtxs    []context.Context
}

func newFakeAdapter(devs ...*fakeDevice) *fakeAdapter {
	a := &fakeAdapter{devices: make(map[bluetooth.Address]*fakeDevice)}
	for _, d := range devs {
		a.devices[d.addr] = d
	}
	return a
}

func (a *fakeAdapter) Name() string { return "hci0" }

func (a *fakeAdapter) Discover(ctx context.Context) (<-chan bluetooth.Address, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.discoverErr != nil {
		return nil, a.discoverErr
	}
	a.discoveries++
	a.scanCtxs = append(a.scanCtxs, ctx)

	known := append([]bluetooth.Address(nil), a.known...)
	out := make(chan bluetooth.Address)
	go func() {
		defer close(out)
		for _, addr := range known {
			select {
			case out <- addr:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return out, nil
}

func (a *fakeAdapter) Device(addr bluetooth.Address) (bluetooth.Device, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.devices[addr]
	if !ok {
		return nil, errors.New("device not found")
	}
	return d, nil
}

func (a *fakeAdapter) remove(addr bluetooth.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.devices, addr)
}

type fakeDevice struct {
	addr      bluetooth.Address
	alias     string
	paired    bool
	connected bool

	fetchErr   error
	pairErr    error
	connectErr error

	// block makes Pair and Connect wait until it is closed or ctx ends.
	block   chan struct{}
	started chan string

	feed chan bluetooth.Change
}

func newFakeDevice(addr bluetooth.Address, alias string, paired bool) *fakeDevice {
	return &fakeDevice{
		addr:    addr,
		alias:   alias,
		paired:  paired,
		started: make(chan string, 16),
		feed:    make(chan bluetooth.Change, 16),
	}
}

func (d *fakeDevice) Address() bluetooth.Address { return d.addr }

func (d *fakeDevice) Alias(ctx context.Context) (string, error) {
	return d.alias, d.fetchErr
}

func (d *fakeDevice) Paired(ctx context.Context) (bool, error) {
	return d.paired, d.fetchErr
}

func (d *fakeDevice) Connected(ctx context.Context) (bool, error) {
	return d.connected, d.fetchErr
}

func (d *fakeDevice) Events(ctx context.Context) (<-chan bluetooth.Change, error) {
	out := make(chan bluetooth.Change)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case c := <-d.feed:
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (d *fakeDevice) Pair(ctx context.Context) error {
	d.started <- "pair"
	d.wait(ctx)
	return d.pairErr
}

func (d *fakeDevice) Connect(ctx context.Context) error {
	d.started <- "connect"
	d.wait(ctx)
	return d.connectErr
}

func (d *fakeDevice) wait(ctx context.Context) {
	if d.block == nil {
		return
	}
	select {
	case <-d.block:
	case <-ctx.Done():
	}
}

// recv waits for one value or fails the test.
func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a value")
	}
	var zero T
	return zero
}

// silent fails the test if ch yields a value within a short window.
func silent[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %v", v)
		}
	case <-time.After(50 * time.Millisecond):
	}
}
