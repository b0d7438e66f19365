package capture

import "errors"

// Sentinel errors for capture operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrPermissionDenied indicates camera or microphone access was
	// explicitly denied by the user or platform policy. This error is
	// terminal: no further automatic retry is attempted.
	ErrPermissionDenied = errors.New("camera or microphone permission denied")

	// ErrNoDevice indicates no capture device matched the constraints.
	ErrNoDevice = errors.New("no matching capture device")

	// ErrDeviceBusy indicates the device is held by another consumer.
	ErrDeviceBusy = errors.New("capture device busy")

	// ErrInvalidConstraints indicates the requested constraints are malformed.
	ErrInvalidConstraints = errors.New("invalid capture constraints")

	// ErrSessionStopped indicates an operation on a stopped session.
	ErrSessionStopped = errors.New("capture session already stopped")
)
