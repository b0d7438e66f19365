package camloop

import "errors"

// Sentinel errors for recorder lifecycle operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrRecorderClosed indicates an operation on a closed recorder.
	ErrRecorderClosed = errors.New("recorder is closed")

	// ErrNotPreviewing indicates recording was requested without an
	// active preview session.
	ErrNotPreviewing = errors.New("no active preview session")

	// ErrNotRecording indicates a stop with no recording in progress.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrAlreadyRecording indicates a second start while recording.
	ErrAlreadyRecording = errors.New("recording already in progress")

	// ErrNoArtifact indicates a download with no assembled recording.
	ErrNoArtifact = errors.New("no recording artifact available")
)
