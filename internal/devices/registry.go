package devices

import (
	"errors"
	"fmt"

	"github.com/muurk/bluetui/internal/bluetooth"
)

var (
	// ErrEmptyList is returned by Selected when the active list has no rows.
	ErrEmptyList = errors.New("list is empty")

	// ErrOutOfRange means the cursor points past the end of a non-empty list.
	// It cannot happen unless Registry has a bug, and is fatal.
	ErrOutOfRange = errors.New("attempted to use item that doesn't exist in list")
)

// Devices is an ordered address → device map.
type Devices = OrderedMap[bluetooth.Address, *Device]

// Registry is the full UI state.
type Registry struct {
	Unpaired *Devices
	Paired   *Devices

	Active List
	Row    int

	// Err is the error shown in the popup, nil when none.
	Err *Failure
}

func NewRegistry() *Registry {
	return &Registry{
		Unpaired: NewOrderedMap[bluetooth.Address, *Device](),
		Paired:   NewOrderedMap[bluetooth.Address, *Device](),
	}
}

// List returns the map backing l.
func (r *Registry) List(l List) *Devices {
	if l == Paired {
		return r.Paired
	}
	return r.Unpaired
}

// Insert stores dev under addr in the list chosen by paired, removing addr
// from the other list. An existing record is overwritten in place, except for
// its busy state which belongs to the outstanding operation.
func (r *Registry) Insert(addr bluetooth.Address, dev Device, paired bool) {
	if old, _, ok := r.Lookup(addr); ok {
		dev.Busy, dev.Frame = old.Busy, old.Frame
	}

	target, other := r.Unpaired, r.Paired
	if paired {
		target, other = r.Paired, r.Unpaired
	}
	if _, ok := other.Delete(addr); ok {
		r.clampRow()
	}
	target.Set(addr, &dev)
}

// Lookup finds addr in either list.
func (r *Registry) Lookup(addr bluetooth.Address) (*Device, List, bool) {
	if dev, ok := r.Unpaired.Get(addr); ok {
		return dev, Unpaired, true
	}
	if dev, ok := r.Paired.Get(addr); ok {
		return dev, Paired, true
	}
	return nil, Unpaired, false
}

// Apply reconciles one property change. It reports whether the registry
// changed; false means the event was dropped.
func (r *Registry) Apply(addr bluetooth.Address, change bluetooth.Change) bool {
	switch change.Property {
	case bluetooth.PropertyAlias:
		dev, _, ok := r.Lookup(addr)
		if !ok {
			return false
		}
		dev.Alias = change.Alias
		return true

	case bluetooth.PropertyConnected:
		dev, ok := r.Paired.Get(addr)
		if !ok {
			return false
		}
		dev.Connected = change.Value
		return true

	case bluetooth.PropertyPaired:
		from, to := r.Unpaired, r.Paired
		if !change.Value {
			from, to = r.Paired, r.Unpaired
		}
		dev, ok := from.Delete(addr)
		if !ok {
			return false
		}
		to.Set(addr, dev)
		r.clampRow()
		return true

	default:
		return false
	}
}

// MoveDown moves the cursor one row down, stopping at the last row.
func (r *Registry) MoveDown() {
	if r.Row < r.List(r.Active).Len()-1 {
		r.Row++
	}
}

// MoveUp moves the cursor one row up, stopping at the first row.
func (r *Registry) MoveUp() {
	if r.Row > 0 {
		r.Row--
	}
}

func (r *Registry) SelectUnpaired() {
	if r.Active == Paired {
		r.Active = Unpaired
		r.clampRow()
	}
}

func (r *Registry) SelectPaired() {
	if r.Active == Unpaired {
		r.Active = Paired
		r.clampRow()
	}
}

// clampRow pulls the cursor back inside the active list after it shrank or
// changed.
func (r *Registry) clampRow() {
	if n := r.List(r.Active).Len(); r.Row >= n {
		r.Row = max(n-1, 0)
	}
}

// Selected returns the device under the cursor.
func (r *Registry) Selected() (bluetooth.Address, *Device, error) {
	list := r.List(r.Active)
	if list.Len() == 0 {
		return "", nil, ErrEmptyList
	}
	addr, dev, ok := list.At(r.Row)
	if !ok {
		return "", nil, fmt.Errorf("%w: row %d of %d in %s", ErrOutOfRange, r.Row, list.Len(), r.Active)
	}
	return addr, dev, nil
}

// Begin marks addr busy. It returns false when addr is unknown or already
// busy, in which case nothing changes.
func (r *Registry) Begin(addr bluetooth.Address) bool {
	dev, _, ok := r.Lookup(addr)
	if !ok || dev.Busy {
		return false
	}
	dev.Busy = true
	dev.Frame = 0
	return true
}

// Tick advances the throbber of a busy device.
func (r *Registry) Tick(addr bluetooth.Address) bool {
	dev, _, ok := r.Lookup(addr)
	if !ok || !dev.Busy {
		return false
	}
	dev.Frame = (dev.Frame + 1) % len(ThrobberFrames)
	return true
}

// Complete clears the busy marker.
func (r *Registry) Complete(addr bluetooth.Address) bool {
	dev, _, ok := r.Lookup(addr)
	if !ok || !dev.Busy {
		return false
	}
	dev.Busy = false
	dev.Frame = 0
	return true
}

// Clear empties both lists and puts the cursor back on the first row. The
// active list and error slot are kept.
func (r *Registry) Clear() {
	r.Unpaired.Clear()
	r.Paired.Clear()
	r.Row = 0
}

// SetError fills the error slot, replacing any error already there.
func (r *Registry) SetError(f Failure) {
	r.Err = &f
}

// DismissError empties the error slot.
func (r *Registry) DismissError() bool {
	if r.Err == nil {
		return false
	}
	r.Err = nil
	return true
}
