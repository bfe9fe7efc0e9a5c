package bluez

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/logging"
)

// DefaultCallTimeout bounds short property reads that have no caller context.
const DefaultCallTimeout = 5 * time.Second

// Options configures a Session.
type Options struct {
	// Adapter selects the controller by name ("hci1"). Empty means the
	// first adapter BlueZ reports.
	Adapter string

	// CallTimeout bounds calls made without a caller context. Zero means
	// DefaultCallTimeout.
	CallTimeout time.Duration
}

// Session is a connection to the BlueZ daemon on the system bus.
type Session struct {
	conn   *dbus.Conn
	opts   Options
	router *router

	mu      sync.Mutex
	closed  bool
	cleanup []func()
}

var _ bluetooth.Session = (*Session)(nil)

// Connect opens the system bus and starts routing BlueZ signals.
func Connect(opts Options) (*Session, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return newSession(conn, opts), nil
}

func newSession(conn *dbus.Conn, opts Options) *Session {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}

	s := &Session{
		conn:   conn,
		opts:   opts,
		router: newRouter(),
	}

	signals := make(chan *dbus.Signal, 64)
	conn.Signal(signals)
	go s.router.run(signals)

	s.cleanup = append(s.cleanup, func() {
		if err := conn.Close(); err != nil {
			logging.Warn("Failed to close system bus", zap.Error(err))
		}
	})
	return s
}

// Close releases the bus connection. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cleanup := s.cleanup
	s.cleanup = nil
	s.mu.Unlock()

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// DefaultAdapter finds the configured adapter (or the first one), powers it
// on and returns it.
func (s *Session) DefaultAdapter(ctx context.Context) (bluetooth.Adapter, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	objects, err := s.managedObjects(ctx)
	if err != nil {
		return nil, err
	}

	var paths []dbus.ObjectPath
	for p, ifaces := range objects {
		if _, ok := ifaces[adapterIface]; ok {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	p, err := pickAdapter(paths, s.opts.Adapter)
	if err != nil {
		return nil, err
	}

	logging.Debug("Powering on adapter", zap.String("adapter", adapterName(p)))
	obj := s.conn.Object(bluezService, p)
	call := obj.CallWithContext(ctx, propsIface+".Set", 0, adapterIface, "Powered", dbus.MakeVariant(true))
	if call.Err != nil {
		return nil, fmt.Errorf("power on adapter %s: %w", adapterName(p), describeError(call.Err))
	}

	return &Adapter{session: s, path: p}, nil
}

// pickAdapter returns the adapter named want, or the first of paths when want
// is empty. paths must be sorted.
func pickAdapter(paths []dbus.ObjectPath, want string) (dbus.ObjectPath, error) {
	if len(paths) == 0 {
		return "", ErrNoAdapter
	}
	if want == "" {
		return paths[0], nil
	}
	for _, p := range paths {
		if adapterName(p) == want {
			return p, nil
		}
	}
	return "", fmt.Errorf("adapter %q: %w", want, ErrNoAdapter)
}

type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

func (s *Session) managedObjects(ctx context.Context) (managedObjects, error) {
	var objects managedObjects
	obj := s.conn.Object(bluezService, dbus.ObjectPath("/"))
	call := obj.CallWithContext(ctx, objManagerIface+".GetManagedObjects", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("GetManagedObjects: %w", describeError(call.Err))
	}
	if err := call.Store(&objects); err != nil {
		return nil, fmt.Errorf("decode GetManagedObjects: %w", err)
	}
	return objects, nil
}

// subscribe adds a bus match rule for member (and path, when non-empty) and
// routes matching signals to deliver. deliver runs on the router goroutine and
// must not block.
func (s *Session) subscribe(member string, p dbus.ObjectPath, deliver func(*dbus.Signal)) (func(), error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	opts := matchOptions(member, p)
	if err := s.conn.AddMatchSignal(opts...); err != nil {
		return nil, fmt.Errorf("add match for %s: %w", member, err)
	}
	id := s.router.add(member, p, deliver)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.router.remove(id)
			if s.isClosed() {
				return
			}
			if err := s.conn.RemoveMatchSignal(opts...); err != nil {
				logging.Debug("Failed to remove match rule", zap.String("member", member), zap.Error(err))
			}
		})
	}, nil
}

func matchOptions(member string, p dbus.ObjectPath) []dbus.MatchOption {
	iface, name := splitMember(member)
	opts := []dbus.MatchOption{
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(name),
	}
	if p != "" {
		opts = append(opts, dbus.WithMatchObjectPath(p))
	}
	return opts
}

// splitMember splits "org.freedesktop.DBus.Properties.PropertiesChanged"
// into interface and member name.
func splitMember(member string) (iface, name string) {
	for i := len(member) - 1; i >= 0; i-- {
		if member[i] == '.' {
			return member[:i], member[i+1:]
		}
	}
	return "", member
}

// router fans signals from the single bus channel out to subscribers.
type router struct {
	mu   sync.Mutex
	next int
	subs map[int]route
}

type route struct {
	member  string
	path    dbus.ObjectPath
	deliver func(*dbus.Signal)
}

func newRouter() *router {
	return &router{subs: make(map[int]route)}
}

func (r *router) add(member string, p dbus.ObjectPath, deliver func(*dbus.Signal)) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.subs[r.next] = route{member: member, path: p, deliver: deliver}
	return r.next
}

func (r *router) remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// run dispatches until the bus closes the channel.
func (r *router) run(signals <-chan *dbus.Signal) {
	for sig := range signals {
		r.dispatch(sig)
	}
	logging.Debug("Signal router stopped")
}

func (r *router) dispatch(sig *dbus.Signal) {
	if sig == nil {
		return
	}

	r.mu.Lock()
	var targets []func(*dbus.Signal)
	for _, rt := range r.subs {
		if rt.member != sig.Name {
			continue
		}
		if rt.path != "" && rt.path != sig.Path {
			continue
		}
		targets = append(targets, rt.deliver)
	}
	r.mu.Unlock()

	for _, deliver := range targets {
		deliver(sig)
	}
}
