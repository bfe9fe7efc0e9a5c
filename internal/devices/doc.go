// Package devices holds the in-memory state bluetui renders: the unpaired and
// paired device lists, the selection cursor and the error slot.
//
// A Registry has exactly one mutator, the UI event loop, and does no locking.
// Every method is a pure state transition so the reconciliation rules can be
// tested without a Bluetooth stack.
//
// Invariants kept by Registry:
//   - an address is in at most one of Unpaired and Paired
//   - Row stays below the length of the active list while it is non-empty
//   - a device is Busy exactly between Begin and Complete
package devices
