// Package bluez implements the internal/bluetooth contract on top of the
// BlueZ D-Bus API.
//
// A Session owns one system bus connection. All D-Bus signals arriving on
// that connection are read by a single router goroutine and handed to the
// subscribers that asked for them (discovery sessions want InterfacesAdded
// from the object manager, device event streams want PropertiesChanged on
// their own object path). Subscribers buffer through an unbounded queue, so a
// slow consumer never stalls the router.
//
// # Usage
//
//	session, err := bluez.Connect(bluez.Options{Adapter: "hci0"})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	adapter, err := session.DefaultAdapter(ctx)
//	if err != nil {
//	    return err
//	}
//
//	addrs, err := adapter.Discover(ctx)
//	for addr := range addrs {
//	    device, _ := adapter.Device(addr)
//	    ...
//	}
//
// # Object paths
//
// BlueZ exposes adapters as /org/bluez/hciN and devices as children of their
// adapter, /org/bluez/hciN/dev_AA_BB_CC_DD_EE_FF. The helpers in paths.go
// convert between those paths and bluetooth.Address values.
//
// # Pairing agents
//
// Pair relies on an agent already registered with BlueZ (for example the one
// provided by the desktop environment or bluetoothctl). Devices that need
// PIN entry fail with "authentication failed" when no agent is available.
package bluez
