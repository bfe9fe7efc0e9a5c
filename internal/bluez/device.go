package bluez

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/muurk/bluetui/internal/bluetooth"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/queue"
)

// Device is a remote device (org.bluez.Device1).
type Device struct {
	session *Session
	addr    bluetooth.Address
	path    dbus.ObjectPath
}

var _ bluetooth.Device = (*Device)(nil)

func (d *Device) Address() bluetooth.Address {
	return d.addr
}

func (d *Device) object() dbus.BusObject {
	return d.session.conn.Object(bluezService, d.path)
}

func (d *Device) property(ctx context.Context, name string) (dbus.Variant, error) {
	if d.session.isClosed() {
		return dbus.Variant{}, ErrClosed
	}
	var v dbus.Variant
	call := d.object().CallWithContext(ctx, propsIface+".Get", 0, deviceIface, name)
	if call.Err != nil {
		return v, fmt.Errorf("get %s: %w", name, describeError(call.Err))
	}
	if err := call.Store(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

func (d *Device) boolProperty(ctx context.Context, name string) (bool, error) {
	v, err := d.property(ctx, name)
	if err != nil {
		return false, err
	}
	b, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%s has type %s, want bool", name, v.Signature())
	}
	return b, nil
}

func (d *Device) Alias(ctx context.Context) (string, error) {
	v, err := d.property(ctx, "Alias")
	if err != nil {
		return "", err
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("Alias has type %s, want string", v.Signature())
	}
	return s, nil
}

func (d *Device) Paired(ctx context.Context) (bool, error) {
	return d.boolProperty(ctx, "Paired")
}

func (d *Device) Connected(ctx context.Context) (bool, error) {
	return d.boolProperty(ctx, "Connected")
}

// Events streams Device1 property changes until ctx is done.
func (d *Device) Events(ctx context.Context) (<-chan bluetooth.Change, error) {
	out := queue.NewUnbounded[bluetooth.Change]()

	unsubscribe, err := d.session.subscribe(propertiesChanged, d.path, func(sig *dbus.Signal) {
		iface, changed, ok := parsePropertiesChanged(sig)
		if !ok || iface != deviceIface {
			return
		}
		for _, change := range decodeChanges(changed) {
			if err := out.Send(change); err != nil {
				logging.Debug("Dropped property change",
					zap.String("addr", d.addr.String()),
					zap.String("property", change.Name),
					zap.Error(err),
				)
				return
			}
		}
	})
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("watch %s: %w", d.addr, err)
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
		out.Close()
	}()

	return out.Recv(), nil
}

// Pair blocks until pairing finishes. If ctx is cancelled first, the pending
// pairing is cancelled on the daemon too.
func (d *Device) Pair(ctx context.Context) error {
	err := d.object().CallWithContext(ctx, deviceIface+".Pair", 0).Err
	if err != nil && ctx.Err() != nil {
		d.cancelPairing()
	}
	return describeError(err)
}

func (d *Device) cancelPairing() {
	ctx, cancel := context.WithTimeout(context.Background(), d.session.opts.CallTimeout)
	defer cancel()
	if err := d.object().CallWithContext(ctx, deviceIface+".CancelPairing", 0).Err; err != nil {
		logging.Debug("CancelPairing failed", zap.String("addr", d.addr.String()), zap.Error(err))
	}
}

// Connect connects all auto-connectable profiles of a paired device.
func (d *Device) Connect(ctx context.Context) error {
	return describeError(d.object().CallWithContext(ctx, deviceIface+".Connect", 0).Err)
}
