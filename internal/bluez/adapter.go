package bluez

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

// Adapter is a BlueZ controller (org.bluez.Adapter1).
type Adapter struct {
	session *Session
	path    dbus.ObjectPath

	// discovering counts active Discover calls. BlueZ keeps one discovery
	// session per bus client, so only the first starts it and only the last
	// stops it.
	mu          sync.Mutex
	discovering int
}

var _ bluetooth.Adapter = (*Adapter)(nil)

// Name returns the controller name, e.g. "hci0".
func (a *Adapter) Name() string {
	return adapterName(a.path)
}

func (a *Adapter) object() dbus.BusObject {
	return a.session.conn.Object(bluezService, a.path)
}

// Discover starts discovery and streams device addresses until ctx is done.
// Devices BlueZ already knows about are sent first.
func (a *Adapter) Discover(ctx context.Context) (<-chan bluetooth.Address, error) {
	out := queue.NewUnbounded[bluetooth.Address]()

	// Subscribe before listing known devices so nothing added in between
	// is missed. Duplicates are fine.
	unsubscribe, err := a.session.subscribe(interfacesAdded, "", func(sig *dbus.Signal) {
		p, ifaces, ok := parseInterfacesAdded(sig)
		if !ok || !isChildOf(p, a.path) {
			return
		}
		props, ok := ifaces[deviceIface]
		if !ok {
			return
		}
		addr, ok := deviceAddress(p, props)
		if !ok {
			return
		}
		if err := out.Send(addr); err != nil {
			logging.Debug("Dropped device addition", zap.String("addr", addr.String()), zap.Error(err))
		}
	})
	if err != nil {
		out.Close()
		return nil, err
	}

	if err := a.acquireDiscovery(ctx); err != nil {
		unsubscribe()
		out.Close()
		return nil, err
	}

	objects, err := a.session.managedObjects(ctx)
	if err != nil {
		a.releaseDiscovery()
		unsubscribe()
		out.Close()
		return nil, err
	}
	for _, addr := range knownDevices(objects, a.path) {
		_ = out.Send(addr)
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
		a.releaseDiscovery()
		out.Close()
		logging.Debug("Discovery stopped", zap.String("adapter", a.Name()))
	}()

	return out.Recv(), nil
}

func (a *Adapter) acquireDiscovery(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.discovering == 0 {
		err := a.object().CallWithContext(ctx, adapterIface+".StartDiscovery", 0).Err
		if err != nil && !isErrorName(err, "org.bluez.Error.InProgress") {
			return fmt.Errorf("start discovery on %s: %w", a.Name(), describeError(err))
		}
	}
	a.discovering++
	return nil
}

func (a *Adapter) releaseDiscovery() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.discovering == 0 {
		return
	}
	a.discovering--
	if a.discovering > 0 || a.session.isClosed() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.session.opts.CallTimeout)
	defer cancel()
	if err := a.object().CallWithContext(ctx, adapterIface+".StopDiscovery", 0).Err; err != nil {
		logging.Debug("Failed to stop discovery", zap.String("adapter", a.Name()), zap.Error(err))
	}
}

// knownDevices lists the addresses of devices under adapter, sorted by path.
func knownDevices(objects managedObjects, adapter dbus.ObjectPath) []bluetooth.Address {
	var paths []dbus.ObjectPath
	for p, ifaces := range objects {
		if _, ok := ifaces[deviceIface]; ok && isChildOf(p, adapter) {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	addrs := make([]bluetooth.Address, 0, len(paths))
	for _, p := range paths {
		if addr, ok := deviceAddress(p, objects[p][deviceIface]); ok {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// Device resolves addr to a device under this adapter. It fails when BlueZ
// does not know the device.
func (a *Adapter) Device(addr bluetooth.Address) (bluetooth.Device, error) {
	d := &Device{
		session: a.session,
		addr:    addr,
		path:    devicePath(a.path, addr),
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.session.opts.CallTimeout)
	defer cancel()
	if _, err := d.property(ctx, "Address"); err != nil {
		return nil, fmt.Errorf("resolve device %s: %w", addr, err)
	}
	return d, nil
}
