package bluez

import (
	"path"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/muurk/bluetui/internal/bluetooth"
)

const (
	bluezService = "org.bluez"

	adapterIface    = "org.bluez.Adapter1"
	deviceIface     = "org.bluez.Device1"
	objManagerIface = "org.freedesktop.DBus.ObjectManager"
	propsIface      = "org.freedesktop.DBus.Properties"

	interfacesAdded   = objManagerIface + ".InterfacesAdded"
	propertiesChanged = propsIface + ".PropertiesChanged"
)

// devicePath returns the object path of addr under adapter, e.g.
// /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF.
func devicePath(adapter dbus.ObjectPath, addr bluetooth.Address) dbus.ObjectPath {
	return adapter + "/dev_" + dbus.ObjectPath(strings.ReplaceAll(addr.String(), ":", "_"))
}

// addressFromPath extracts the device address from a device object path.
func addressFromPath(p dbus.ObjectPath) (bluetooth.Address, bool) {
	s := string(p)
	idx := strings.LastIndex(s, "/dev_")
	if idx < 0 {
		return "", false
	}
	addr, err := bluetooth.ParseAddress(s[idx+len("/dev_"):])
	if err != nil {
		return "", false
	}
	return addr, true
}

// isChildOf reports whether p lives directly below parent.
func isChildOf(p, parent dbus.ObjectPath) bool {
	prefix := string(parent) + "/"
	return strings.HasPrefix(string(p), prefix) && !strings.Contains(string(p)[len(prefix):], "/")
}

// adapterName returns the last path element ("hci0").
func adapterName(p dbus.ObjectPath) string {
	return path.Base(string(p))
}

// deviceAddress prefers the Address property and falls back to the path.
func deviceAddress(p dbus.ObjectPath, props map[string]dbus.Variant) (bluetooth.Address, bool) {
	if v, ok := props["Address"]; ok {
		if s, ok := v.Value().(string); ok {
			if addr, err := bluetooth.ParseAddress(s); err == nil {
				return addr, true
			}
		}
	}
	return addressFromPath(p)
}
