package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/devices"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

type state int

const (
	stateBootstrapping state = iota
	stateReady
	stateStopped
)

// inflightOp is a pair or connect worker that has not reported completion.
// It outlives rescans: the worker keeps running whether or not its device is
// currently listed.
type inflightOp struct {
	id          opID
	stopSpinner context.CancelFunc
}

// Model is the bubbletea model of the device browser.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session bluetooth.Session

	state    state
	adapter  bluetooth.Adapter
	registry *devices.Registry
	keys     keyMap

	adapterCh   chan adapterMsg
	discovered  *queue.Unbounded[discoveredMsg]
	changes     *queue.Unbounded[changeMsg]
	ticks       *queue.Unbounded[tickMsg]
	completions *queue.Unbounded[completeMsg]
	failures    *queue.Unbounded[failureMsg]

	scanner         *scanner
	mux             *multiplexer
	inflight        map[bluetooth.Address]inflightOp
	lastOp          opID
	spinnerInterval time.Duration

	width  int
	height int

	err error
}

// New creates a model that will acquire an adapter from session once started.
// Background work stops when ctx is cancelled or Shutdown is called.
func New(ctx context.Context, session bluetooth.Session) *Model {
	ctx, cancel := context.WithCancel(ctx)

	discovered := queue.NewUnbounded[discoveredMsg]()
	changes := queue.NewUnbounded[changeMsg]()

	return &Model{
		ctx:             ctx,
		cancel:          cancel,
		session:         session,
		registry:        devices.NewRegistry(),
		keys:            newKeyMap(),
		adapterCh:       make(chan adapterMsg, 1),
		discovered:      discovered,
		changes:         changes,
		ticks:           queue.NewUnbounded[tickMsg](),
		completions:     queue.NewUnbounded[completeMsg](),
		failures:        queue.NewUnbounded[failureMsg](),
		scanner:         newScanner(discovered),
		mux:             newMultiplexer(changes),
		inflight:        make(map[bluetooth.Address]inflightOp),
		spinnerInterval: Throbber.FPS,
	}
}

// Registry exposes the state being rendered.
func (m *Model) Registry() *devices.Registry {
	return m.registry
}

// Err is the fatal error that stopped the model, if any.
func (m *Model) Err() error {
	return m.err
}

// Init starts the adapter bootstrap and all listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		bootstrap(m.ctx, m.session, m.adapterCh),
		listenOnce(m.adapterCh),
		listen(m.discovered),
		listen(m.changes),
		listen(m.ticks),
		listen(m.completions),
		listen(m.failures),
	)
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateStopped {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case adapterMsg:
		return m, m.handleAdapter(msg)

	case discoveredMsg:
		return m, tea.Batch(listen(m.discovered), m.handleDiscovered(msg))

	case intakeMsg:
		m.handleIntake(msg)
		return m, nil

	case changeMsg:
		m.handleChange(msg)
		return m, listen(m.changes)

	case tickMsg:
		m.handleTick(msg)
		return m, listen(m.ticks)

	case completeMsg:
		m.handleComplete(msg)
		return m, listen(m.completions)

	case failureMsg:
		m.registry.SetError(msg.failure)
		return m, listen(m.failures)
	}

	return m, nil
}

func (m *Model) handleAdapter(msg adapterMsg) tea.Cmd {
	if msg.err != nil {
		logging.Error("Failed to acquire adapter", zap.Error(msg.err))
		return m.fail(fmt.Errorf("acquire bluetooth adapter: %w", msg.err))
	}

	m.adapter = msg.adapter
	m.state = stateReady
	logging.Info("Adapter ready", zap.String("adapter", m.adapter.Name()))

	m.scanner.Start(m.ctx, m.adapter)
	return nil
}

func (m *Model) handleDiscovered(msg discoveredMsg) tea.Cmd {
	if msg.gen != m.scanner.Current() {
		logging.Debug("Dropped address from old scan", zap.String("addr", msg.addr.String()))
		return nil
	}
	return intake(m.scanner.Context(), m.adapter, msg.gen, msg.addr)
}

func (m *Model) handleIntake(msg intakeMsg) {
	if msg.gen != m.scanner.Current() {
		msg.closeFeed()
		logging.Debug("Dropped intake from old scan", zap.String("addr", msg.addr.String()))
		return
	}

	m.registry.Insert(msg.addr, msg.device, msg.paired)
	m.mux.Add(msg.addr, msg.events, msg.closeFeed)
	if _, ok := m.inflight[msg.addr]; ok {
		// Listed again while a worker from before a rescan is still running.
		m.registry.Begin(msg.addr)
	}
	logging.LogDeviceEvent(msg.addr.String(), "discovered",
		zap.String("alias", msg.device.Alias),
		zap.Bool("paired", msg.paired),
		zap.Bool("connected", msg.device.Connected),
	)
}

func (m *Model) handleChange(msg changeMsg) {
	if !m.registry.Apply(msg.addr, msg.change) {
		logging.Debug("Dropped property change",
			zap.String("addr", msg.addr.String()),
			zap.Stringer("property", msg.change.Property),
			zap.String("name", msg.change.Name),
		)
		return
	}
	if msg.change.Property == bluetooth.PropertyPaired {
		logging.LogDeviceEvent(msg.addr.String(), "paired changed", zap.Bool("paired", msg.change.Value))
	}
}

// current reports whether op is the outstanding operation on addr.
func (m *Model) current(addr bluetooth.Address, op opID) bool {
	f, ok := m.inflight[addr]
	return ok && f.id == op
}

func (m *Model) handleTick(msg tickMsg) {
	if !m.current(msg.addr, msg.op) || !m.registry.Tick(msg.addr) {
		logging.Debug("Dropped tick", zap.String("addr", msg.addr.String()))
	}
}

func (m *Model) handleComplete(msg completeMsg) {
	if !m.current(msg.addr, msg.op) {
		logging.Debug("Dropped completion", zap.String("addr", msg.addr.String()))
		return
	}
	m.inflight[msg.addr].stopSpinner()
	delete(m.inflight, msg.addr)

	if !m.registry.Complete(msg.addr) {
		logging.Debug("Completed device is not listed", zap.String("addr", msg.addr.String()))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	logging.LogKey(msg.String())

	if key.Matches(msg, m.keys.Interrupt) {
		return m.quit()
	}

	if m.registry.Err != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.registry.DismissError()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Down):
		m.registry.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.registry.MoveUp()
	case key.Matches(msg, m.keys.Left):
		m.registry.SelectUnpaired()
	case key.Matches(msg, m.keys.Right):
		m.registry.SelectPaired()
	case key.Matches(msg, m.keys.Scan):
		m.rescan()
	case key.Matches(msg, m.keys.Pair):
		return m.activate()
	}
	return nil
}

// rescan drops everything known and starts discovery from scratch.
// Operations in flight are kept and re-attached when their device returns.
func (m *Model) rescan() {
	if m.state != stateReady {
		return
	}

	m.scanner.Stop()
	m.mux.CloseAll()
	m.registry.Clear()

	gen := m.scanner.Start(m.ctx, m.adapter)
	logging.Info("Rescan", zap.Int("generation", gen))
}

// activate pairs or connects the selected device.
func (m *Model) activate() tea.Cmd {
	if m.state != stateReady {
		return nil
	}

	addr, dev, err := m.registry.Selected()
	if errors.Is(err, devices.ErrEmptyList) {
		return nil
	}
	if err != nil {
		return m.fail(err)
	}
	if _, busy := m.inflight[addr]; busy || !m.registry.Begin(addr) {
		logging.Debug("Device busy, ignoring activation", zap.String("addr", addr.String()))
		return nil
	}

	op := operationFor(m.registry.Active)
	m.lastOp++
	id := m.lastOp
	logging.LogDeviceEvent(addr.String(), op.String()+" started",
		zap.String("alias", dev.Alias),
		zap.Uint64("op", uint64(id)),
	)

	spinCtx, stop := context.WithCancel(m.ctx)
	m.inflight[addr] = inflightOp{id: id, stopSpinner: stop}
	go spin(spinCtx, addr, id, m.spinnerInterval, m.ticks)

	w := worker{
		adapter:     m.adapter,
		addr:        addr,
		id:          id,
		alias:       dev.Alias,
		op:          op,
		completions: m.completions,
		failures:    m.failures,
	}
	go w.run(m.ctx)

	return nil
}

func (m *Model) stopSpinners() {
	for addr, f := range m.inflight {
		f.stopSpinner()
		delete(m.inflight, addr)
	}
}

// fail records a fatal error and stops the program.
func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	return m.quit()
}

func (m *Model) quit() tea.Cmd {
	m.Shutdown()
	return tea.Quit
}

// Shutdown cancels all background work. It is safe to call more than once.
func (m *Model) Shutdown() {
	if m.state == stateStopped {
		return
	}
	m.state = stateStopped

	m.scanner.Stop()
	m.mux.CloseAll()
	m.stopSpinners()
	m.cancel()

	m.discovered.Close()
	m.changes.Close()
	m.ticks.Close()
	m.completions.Close()
	m.failures.Close()
}
