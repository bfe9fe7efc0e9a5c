package bluez

import (
	"errors"
	"strings"

	"github.com/godbus/dbus/v5"
)

var (
	// ErrNoAdapter is returned when BlueZ exposes no usable adapter.
	ErrNoAdapter = errors.New("no bluetooth adapter found")

	// ErrClosed is returned by operations on a closed Session.
	ErrClosed = errors.New("bluez session closed")
)

// CallError is a failed BlueZ method call with a human readable message.
type CallError struct {
	// Name is the D-Bus error name, e.g. org.bluez.Error.AuthenticationFailed.
	Name string

	// Message is what gets shown to the user.
	Message string
}

func (e *CallError) Error() string {
	return e.Message
}

// errorDescriptions covers BlueZ errors that usually arrive without a body.
var errorDescriptions = map[string]string{
	"org.bluez.Error.AuthenticationFailed":      "authentication failed",
	"org.bluez.Error.AuthenticationCanceled":    "authentication canceled",
	"org.bluez.Error.AuthenticationRejected":    "authentication rejected",
	"org.bluez.Error.AuthenticationTimeout":     "authentication timed out",
	"org.bluez.Error.ConnectionAttemptFailed":   "connection attempt failed",
	"org.bluez.Error.AlreadyExists":             "device is already paired",
	"org.bluez.Error.AlreadyConnected":          "device is already connected",
	"org.bluez.Error.InProgress":                "operation already in progress",
	"org.bluez.Error.NotReady":                  "adapter is not ready",
	"org.bluez.Error.NotSupported":              "operation not supported",
	"org.bluez.Error.DoesNotExist":              "device does not exist",
	"org.bluez.Error.InvalidArguments":          "invalid arguments",
	"org.freedesktop.DBus.Error.NoReply":        "no reply from bluetooth daemon",
	"org.freedesktop.DBus.Error.ServiceUnknown": "bluetooth daemon is not running",
}

// reasonDescriptions translates the reason strings BlueZ puts in the body of
// org.bluez.Error.Failed for connection attempts.
var reasonDescriptions = map[string]string{
	"br-connection-refused":                     "connection refused",
	"br-connection-page-timeout":                "device did not respond (out of range?)",
	"br-connection-profile-unavailable":         "no supported profile available",
	"br-connection-canceled":                    "connection canceled",
	"br-connection-aborted-by-remote":           "connection aborted by device",
	"br-connection-aborted-by-local":            "connection aborted",
	"br-connection-busy":                        "device is busy",
	"br-connection-create-socket":               "could not create connection socket",
	"le-connection-abort-by-local":              "connection aborted",
	"le-connection-concurrent-connection-limit": "too many concurrent connections",
}

// describeError turns a D-Bus call error into a CallError. Errors that did not
// come from the bus are returned unchanged.
func describeError(err error) error {
	if err == nil {
		return nil
	}

	name, body, ok := dbusError(err)
	if !ok {
		return err
	}

	message := strings.TrimSpace(body)
	if reason, ok := reasonDescriptions[message]; ok {
		message = reason
	}
	if message == "" {
		message = errorDescriptions[name]
	}
	if message == "" {
		message = name
	}
	return &CallError{Name: name, Message: message}
}

// isErrorName reports whether err is a D-Bus error with the given name.
func isErrorName(err error, name string) bool {
	got, _, ok := dbusError(err)
	return ok && got == name
}

func dbusError(err error) (name, body string, ok bool) {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name, firstString(value.Body), true
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name, firstString(ptr.Body), true
	}
	return "", "", false
}

func firstString(body []interface{}) string {
	if len(body) == 0 {
		return ""
	}
	s, _ := body[0].(string)
	return s
}
