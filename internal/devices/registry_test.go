package devices

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/muurk/bluetui/internal/bluetooth"
)

const (
	addrA1 = bluetooth.Address("00:00:00:00:00:A1")
	addrB2 = bluetooth.Address("00:00:00:00:00:B2")
	addrC3 = bluetooth.Address("00:00:00:00:00:C3")
)

func TestRegistry_PairedMovesPreserveFields(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{Alias: "Speaker"}, false)

	if r.Unpaired.Len() != 1 || r.Paired.Len() != 0 {
		t.Fatalf("after intake: unpaired=%v paired=%v", r.Unpaired.Keys(), r.Paired.Keys())
	}

	if !r.Apply(addrA1, bluetooth.PairedChanged(true)) {
		t.Fatal("Apply(paired=true) dropped")
	}
	if r.Unpaired.Has(addrA1) {
		t.Error("A1 still unpaired")
	}
	dev, ok := r.Paired.Get(addrA1)
	if !ok || dev.Alias != "Speaker" {
		t.Fatalf("paired A1 = %+v, %v", dev, ok)
	}

	r.Apply(addrA1, bluetooth.ConnectedChanged(true))
	if !r.Apply(addrA1, bluetooth.PairedChanged(false)) {
		t.Fatal("Apply(paired=false) dropped")
	}
	dev, ok = r.Unpaired.Get(addrA1)
	if !ok || dev.Alias != "Speaker" || !dev.Connected {
		t.Errorf("unpaired A1 = %+v, %v, want fields kept", dev, ok)
	}

	if r.Apply(addrA1, bluetooth.PairedChanged(false)) {
		t.Error("second paired=false was applied, want dropped")
	}
	if r.Unpaired.Len() != 1 || r.Paired.Len() != 0 {
		t.Errorf("idempotent unpair changed state: unpaired=%v paired=%v", r.Unpaired.Keys(), r.Paired.Keys())
	}
}

func TestRegistry_Apply(t *testing.T) {
	tests := []struct {
		name        string
		paired      bool
		change      bluetooth.Change
		wantApplied bool
		check       func(t *testing.T, r *Registry)
	}{
		{
			name:        "alias on unpaired",
			change:      bluetooth.AliasChanged("Headphones"),
			wantApplied: true,
			check: func(t *testing.T, r *Registry) {
				if dev, _ := r.Unpaired.Get(addrA1); dev.Alias != "Headphones" {
					t.Errorf("alias = %q", dev.Alias)
				}
			},
		},
		{
			name:        "alias on paired",
			paired:      true,
			change:      bluetooth.AliasChanged("Headphones"),
			wantApplied: true,
			check: func(t *testing.T, r *Registry) {
				if dev, _ := r.Paired.Get(addrA1); dev.Alias != "Headphones" {
					t.Errorf("alias = %q", dev.Alias)
				}
			},
		},
		{
			name:        "connected on paired",
			paired:      true,
			change:      bluetooth.ConnectedChanged(true),
			wantApplied: true,
			check: func(t *testing.T, r *Registry) {
				if dev, _ := r.Paired.Get(addrA1); !dev.Connected {
					t.Error("connected not set")
				}
			},
		},
		{
			name:   "connected on unpaired is dropped",
			change: bluetooth.ConnectedChanged(true),
			check: func(t *testing.T, r *Registry) {
				if dev, _ := r.Unpaired.Get(addrA1); dev.Connected {
					t.Error("connected set on unpaired device")
				}
			},
		},
		{
			name:   "paired true when already paired is dropped",
			paired: true,
			change: bluetooth.PairedChanged(true),
		},
		{
			name:   "other property ignored",
			change: bluetooth.Change{Property: bluetooth.PropertyOther, Name: "RSSI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Insert(addrA1, Device{Alias: "Speaker"}, tt.paired)

			if got := r.Apply(addrA1, tt.change); got != tt.wantApplied {
				t.Errorf("Apply() = %v, want %v", got, tt.wantApplied)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestRegistry_UnknownAddressDropped(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{Alias: "Speaker"}, false)

	for _, change := range []bluetooth.Change{
		bluetooth.AliasChanged("x"),
		bluetooth.ConnectedChanged(true),
		bluetooth.PairedChanged(true),
		bluetooth.PairedChanged(false),
	} {
		if r.Apply(addrB2, change) {
			t.Errorf("Apply(unknown, %v) applied", change.Property)
		}
	}
	if r.Tick(addrB2) || r.Complete(addrB2) || r.Begin(addrB2) {
		t.Error("tick/complete/begin on unknown address changed state")
	}
}

func TestRegistry_InsertOverwritesAndMoves(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{Alias: "Speaker"}, false)
	r.Insert(addrB2, Device{Alias: "Mouse"}, false)
	r.Insert(addrA1, Device{Alias: "Speaker 2"}, false)

	if keys := r.Unpaired.Keys(); len(keys) != 2 || keys[0] != addrA1 {
		t.Errorf("re-intake moved A1: %v", keys)
	}

	r.Begin(addrA1)
	r.Tick(addrA1)
	r.Insert(addrA1, Device{Alias: "Speaker 2", Connected: true}, true)
	if r.Unpaired.Has(addrA1) || !r.Paired.Has(addrA1) {
		t.Errorf("re-intake as paired: unpaired=%v paired=%v", r.Unpaired.Keys(), r.Paired.Keys())
	}
	if dev, _ := r.Paired.Get(addrA1); !dev.Busy || dev.Frame != 1 || !dev.Connected {
		t.Errorf("re-intake lost state: %+v", dev)
	}
}

// Random event sequences never leave an address in both lists.
func TestRegistry_DisjointUnderRandomEvents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	addrs := []bluetooth.Address{addrA1, addrB2, addrC3}
	r := NewRegistry()

	for i := 0; i < 5000; i++ {
		addr := addrs[rng.Intn(len(addrs))]
		switch rng.Intn(6) {
		case 0:
			r.Insert(addr, Device{Alias: "d"}, rng.Intn(2) == 0)
		case 1:
			r.Apply(addr, bluetooth.PairedChanged(rng.Intn(2) == 0))
		case 2:
			r.Apply(addr, bluetooth.ConnectedChanged(rng.Intn(2) == 0))
		case 3:
			r.MoveDown()
		case 4:
			r.SelectPaired()
		case 5:
			r.SelectUnpaired()
		}

		for _, a := range addrs {
			if r.Unpaired.Has(a) && r.Paired.Has(a) {
				t.Fatalf("step %d: %s in both lists", i, a)
			}
		}
		if n := r.List(r.Active).Len(); n > 0 && r.Row >= n {
			t.Fatalf("step %d: row %d out of %d", i, r.Row, n)
		}
		if _, _, err := r.Selected(); err != nil && !errors.Is(err, ErrEmptyList) {
			t.Fatalf("step %d: Selected() error = %v", i, err)
		}
	}
}

func TestRegistry_Navigation(t *testing.T) {
	r := NewRegistry()

	r.MoveDown()
	r.MoveUp()
	if r.Row != 0 {
		t.Fatalf("row on empty list = %d", r.Row)
	}

	r.Insert(addrA1, Device{}, false)
	r.Insert(addrB2, Device{}, false)
	r.Insert(addrC3, Device{}, true)

	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	if r.Row != 1 {
		t.Errorf("row after 3 downs = %d, want 1", r.Row)
	}

	r.SelectPaired()
	if r.Active != Paired || r.Row != 0 {
		t.Errorf("after right: active=%v row=%d", r.Active, r.Row)
	}
	r.SelectPaired()
	if r.Active != Paired {
		t.Error("right on Paired changed list")
	}

	r.SelectUnpaired()
	r.MoveDown()
	r.MoveUp()
	r.MoveUp()
	r.MoveUp()
	if r.Active != Unpaired || r.Row != 0 {
		t.Errorf("after ups: active=%v row=%d", r.Active, r.Row)
	}
}

func TestRegistry_Selected(t *testing.T) {
	r := NewRegistry()
	if _, _, err := r.Selected(); !errors.Is(err, ErrEmptyList) {
		t.Errorf("Selected() on empty list error = %v, want ErrEmptyList", err)
	}

	r.Insert(addrA1, Device{Alias: "Speaker"}, false)
	r.Insert(addrB2, Device{Alias: "Mouse"}, false)
	r.MoveDown()

	addr, dev, err := r.Selected()
	if err != nil || addr != addrB2 || dev.Alias != "Mouse" {
		t.Errorf("Selected() = (%s, %+v, %v)", addr, dev, err)
	}

	r.Row = 5
	if _, _, err := r.Selected(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Selected() past the end error = %v, want ErrOutOfRange", err)
	}
}

func TestRegistry_ShrinkClampsRow(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{}, false)
	r.Insert(addrB2, Device{}, false)
	r.MoveDown()

	r.Apply(addrB2, bluetooth.PairedChanged(true))
	if r.Row != 0 {
		t.Errorf("row after last row moved away = %d, want 0", r.Row)
	}
}

func TestRegistry_BusyLifecycle(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{Alias: "Speaker"}, true)

	if r.Tick(addrA1) {
		t.Error("Tick() on idle device applied")
	}
	if !r.Begin(addrA1) {
		t.Fatal("Begin() = false")
	}
	if r.Begin(addrA1) {
		t.Error("second Begin() = true, want no-op")
	}

	dev, _ := r.Paired.Get(addrA1)
	for i := 1; i <= 9; i++ {
		r.Tick(addrA1)
		if want := i % 4; dev.Frame != want {
			t.Fatalf("frame after %d ticks = %d, want %d", i, dev.Frame, want)
		}
	}
	if got := dev.Throbber(); got != ThrobberFrames[1] {
		t.Errorf("Throbber() = %q, want %q", got, ThrobberFrames[1])
	}

	if !r.Complete(addrA1) || dev.Busy {
		t.Error("Complete() did not clear busy")
	}
	if dev.Throbber() != "" {
		t.Errorf("Throbber() on idle = %q", dev.Throbber())
	}
	if r.Complete(addrA1) {
		t.Error("stray Complete() applied")
	}
}

func TestRegistry_ClearAndErrors(t *testing.T) {
	r := NewRegistry()
	r.Insert(addrA1, Device{}, false)
	r.Insert(addrB2, Device{}, false)
	r.Insert(addrC3, Device{}, true)
	r.MoveDown()

	r.Clear()
	if r.Unpaired.Len() != 0 || r.Paired.Len() != 0 || r.Row != 0 {
		t.Errorf("Clear() left unpaired=%d paired=%d row=%d", r.Unpaired.Len(), r.Paired.Len(), r.Row)
	}

	r.SetError(Failure{Message: "first", Process: "pairing with A"})
	r.SetError(Failure{Message: "connection refused", Process: "connecting to Speaker"})
	if r.Err == nil || r.Err.Message != "connection refused" {
		t.Fatalf("Err = %+v, want latest", r.Err)
	}
	if got := r.Err.Error(); got != "error while connecting to Speaker: connection refused" {
		t.Errorf("Failure.Error() = %q", got)
	}
	if !r.DismissError() || r.Err != nil {
		t.Error("DismissError() did not clear")
	}
	if r.DismissError() {
		t.Error("DismissError() on empty slot = true")
	}
}
