package bluetooth

import (
	"context"
	"fmt"
	"strings"
)

// Address is a Bluetooth device address in canonical form (AA:BB:CC:DD:EE:FF).
type Address string

// ParseAddress validates s as a 48-bit Bluetooth address and returns it in
// canonical upper-case colon form. Underscores are accepted as separators so
// that BlueZ object path suffixes (dev_AA_BB_...) parse directly.
func ParseAddress(s string) (Address, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", ":"))
	parts := strings.Split(normalized, ":")
	if len(parts) != 6 {
		return "", fmt.Errorf("invalid bluetooth address %q: want 6 octets, got %d", s, len(parts))
	}
	for _, part := range parts {
		if len(part) != 2 || !isHex(part[0]) || !isHex(part[1]) {
			return "", fmt.Errorf("invalid bluetooth address %q: bad octet %q", s, part)
		}
	}
	return Address(normalized), nil
}

// MustParseAddress is like ParseAddress but panics on error. Intended for
// constants and tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	return string(a)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('A' <= c && c <= 'F')
}

// Property identifies which device attribute a Change refers to.
type Property int

const (
	PropertyOther Property = iota
	PropertyAlias
	PropertyConnected
	PropertyPaired
)

func (p Property) String() string {
	switch p {
	case PropertyAlias:
		return "alias"
	case PropertyConnected:
		return "connected"
	case PropertyPaired:
		return "paired"
	default:
		return "other"
	}
}

// Change is a single property update observed on a device.
type Change struct {
	Property Property

	// Alias is set for PropertyAlias.
	Alias string

	// Value is set for PropertyConnected and PropertyPaired.
	Value bool

	// Name is the raw property name as reported by the stack.
	Name string
}

// AliasChanged returns a Change for a new alias.
func AliasChanged(alias string) Change {
	return Change{Property: PropertyAlias, Alias: alias, Name: "Alias"}
}

// ConnectedChanged returns a Change for the connected flag.
func ConnectedChanged(connected bool) Change {
	return Change{Property: PropertyConnected, Value: connected, Name: "Connected"}
}

// PairedChanged returns a Change for the paired flag.
func PairedChanged(paired bool) Change {
	return Change{Property: PropertyPaired, Value: paired, Name: "Paired"}
}

// Session is the entry point into the Bluetooth stack.
type Session interface {
	// DefaultAdapter returns the adapter to use, powered on.
	DefaultAdapter(ctx context.Context) (Adapter, error)
}

// Adapter is the local Bluetooth controller.
type Adapter interface {
	// Name returns the controller name, e.g. "hci0".
	Name() string

	// Discover starts a discovery session. Every device the adapter knows
	// about, and every device that appears while the session runs, is sent
	// on the returned channel. Addresses may repeat. The channel is closed
	// once ctx is cancelled.
	Discover(ctx context.Context) (<-chan Address, error)

	// Device resolves an address to a device handle.
	Device(addr Address) (Device, error)
}

// Device is a remote Bluetooth device.
type Device interface {
	Address() Address
	Alias(ctx context.Context) (string, error)
	Paired(ctx context.Context) (bool, error)
	Connected(ctx context.Context) (bool, error)

	// Events streams property changes until ctx is cancelled, then closes
	// the channel.
	Events(ctx context.Context) (<-chan Change, error)

	// Pair runs the pairing handshake and blocks until it finishes.
	Pair(ctx context.Context) error

	// Connect connects an already paired device and blocks until it finishes.
	Connect(ctx context.Context) error
}
