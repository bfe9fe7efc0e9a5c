// Package bluetooth defines the contract between the bluetui event loop and
// the Bluetooth stack underneath it.
//
// The event loop never talks to BlueZ directly. It consumes three small
// interfaces:
//
//   - Session: yields the powered default Adapter
//   - Adapter: discovers device addresses and resolves an Address to a Device
//   - Device: reads alias/paired/connected, streams property changes, and
//     performs pairing and connection attempts
//
// The production implementation lives in internal/bluez. Tests use in-memory
// fakes that satisfy the same interfaces.
//
// # Addresses
//
// Devices are identified by their Bluetooth address in canonical upper-case
// colon form:
//
//	addr, err := bluetooth.ParseAddress("aa:bb:cc:dd:ee:ff")
//	// addr == "AA:BB:CC:DD:EE:FF"
//
// # Streams
//
// Adapter.Discover and Device.Events return receive-only channels that are
// closed when the context passed to them is cancelled. Cancelling is the only
// way to stop a stream; consumers must keep draining until the channel closes
// or they stop caring about the values.
package bluetooth
