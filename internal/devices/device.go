package devices

import "fmt"

// ThrobberFrames animate the busy indicator of a device with a pair or
// connect attempt outstanding.
var ThrobberFrames = []string{"│", "╱", "─", "╲"}

// Device is what the UI knows about one remote device.
type Device struct {
	Alias string

	// Connected is only tracked for paired devices.
	Connected bool

	// Busy is set while a pair or connect attempt is outstanding. Frame counts
	// spinner ticks since then and selects the throbber frame.
	Busy  bool
	Frame int
}

// Throbber returns the current frame, or "" when idle.
func (d *Device) Throbber() string {
	if !d.Busy {
		return ""
	}
	return ThrobberFrames[d.Frame%len(ThrobberFrames)]
}

// List names one of the two device lists.
type List int

const (
	Unpaired List = iota
	Paired
)

func (l List) String() string {
	if l == Paired {
		return "Paired"
	}
	return "Unpaired"
}

// Failure is a user-visible error: what went wrong and what was being done.
type Failure struct {
	Message string
	Process string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("error while %s: %s", f.Process, f.Message)
}
