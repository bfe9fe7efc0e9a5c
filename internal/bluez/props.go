package bluez

import (
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/muurk/bluetui/internal/bluetooth"
)

// decodeChanges converts a PropertiesChanged payload for org.bluez.Device1
// into bluetooth changes. Known properties come first in a fixed order
// (Alias, Paired, Connected) so that a device paired and connected in one
// signal has already moved lists when Connected is applied. Everything else
// follows sorted by name.
// Values with an unexpected type are skipped.
func decodeChanges(changed map[string]dbus.Variant) []bluetooth.Change {
	var changes []bluetooth.Change

	if v, ok := changed["Alias"]; ok {
		if alias, ok := v.Value().(string); ok {
			changes = append(changes, bluetooth.AliasChanged(alias))
		}
	}
	if v, ok := changed["Paired"]; ok {
		if paired, ok := v.Value().(bool); ok {
			changes = append(changes, bluetooth.PairedChanged(paired))
		}
	}
	if v, ok := changed["Connected"]; ok {
		if connected, ok := v.Value().(bool); ok {
			changes = append(changes, bluetooth.ConnectedChanged(connected))
		}
	}

	var others []string
	for name := range changed {
		switch name {
		case "Alias", "Connected", "Paired":
		default:
			others = append(others, name)
		}
	}
	sort.Strings(others)
	for _, name := range others {
		changes = append(changes, bluetooth.Change{Property: bluetooth.PropertyOther, Name: name})
	}

	return changes
}

// parsePropertiesChanged unpacks the body of a PropertiesChanged signal.
func parsePropertiesChanged(sig *dbus.Signal) (iface string, changed map[string]dbus.Variant, ok bool) {
	if sig == nil || len(sig.Body) < 2 {
		return "", nil, false
	}
	iface, ok = sig.Body[0].(string)
	if !ok {
		return "", nil, false
	}
	changed, ok = sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return "", nil, false
	}
	return iface, changed, true
}

// parseInterfacesAdded unpacks the body of an InterfacesAdded signal.
func parseInterfacesAdded(sig *dbus.Signal) (dbus.ObjectPath, map[string]map[string]dbus.Variant, bool) {
	if sig == nil || len(sig.Body) < 2 {
		return "", nil, false
	}
	p, ok := sig.Body[0].(dbus.ObjectPath)
	if !ok {
		return "", nil, false
	}
	ifaces, ok := sig.Body[1].(map[string]map[string]dbus.Variant)
	if !ok {
		return "", nil, false
	}
	return p, ifaces, true
}
