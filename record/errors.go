package record

import "errors"

// Sentinel errors for recording operations.
// These errors enable reliable error classification using errors.Is().

var (
	// ErrEncodingUnsupported indicates the host supports neither the
	// preferred codec pair nor the generic container fallback.
	ErrEncodingUnsupported = errors.New("no supported recording format")

	// ErrEncoderStart indicates the encoding primitive failed to start.
	ErrEncoderStart = errors.New("encoder failed to start")

	// ErrSessionActive indicates a start on an already recording session.
	ErrSessionActive = errors.New("recording session already active")

	// ErrSessionInactive indicates a stop on a session that is not recording.
	ErrSessionInactive = errors.New("no active recording session")

	// ErrArtifactRevoked indicates use of an artifact whose URL was revoked.
	ErrArtifactRevoked = errors.New("recording artifact revoked")
)
