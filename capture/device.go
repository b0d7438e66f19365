package capture

import "context"

// PermissionState mirrors the host permission query results for a
// single capability.
type PermissionState uint8

const (
	// PermissionPrompt means the user has not decided yet.
	PermissionPrompt PermissionState = iota
	// PermissionGranted means access is allowed.
	PermissionGranted
	// PermissionDenied means access is explicitly blocked.
	PermissionDenied
)

// String returns the permission state name.
func (p PermissionState) String() string {
	switch p {
	case PermissionPrompt:
		return "prompt"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// TrackKind distinguishes the media type carried by a track.
type TrackKind uint8

const (
	// TrackVideo carries camera frames.
	TrackVideo TrackKind = iota
	// TrackAudio carries microphone samples.
	TrackAudio
)

// Track is one live media track of an acquired stream.
//
// Stop must be safe to call more than once; implementations release
// the underlying device resource on the first call only.
type Track interface {
	// Kind reports whether this is a video or audio track.
	Kind() TrackKind
	// Stop releases the device resource behind the track.
	Stop()
}

// Stream is the set of tracks returned by a successful acquisition.
type Stream struct {
	Tracks []Track
}

// VideoTrack returns the first video track of the stream, or nil.
func (s *Stream) VideoTrack() Track {
	return s.trackOfKind(TrackVideo)
}

// AudioTrack returns the first audio track of the stream, or nil.
func (s *Stream) AudioTrack() Track {
	return s.trackOfKind(TrackAudio)
}

func (s *Stream) trackOfKind(kind TrackKind) Track {
	for _, t := range s.Tracks {
		if t.Kind() == kind {
			return t
		}
	}
	return nil
}

// DeviceProvider is the host capability used to open capture devices.
//
// Acquire failures that stem from missing permission must unwrap to
// ErrPermissionDenied so the acquisition routine can classify them;
// all other failures are surfaced to the caller unchanged.
type DeviceProvider interface {
	// Acquire opens a stream satisfying the constraints.
	Acquire(ctx context.Context, c Constraints) (*Stream, error)

	// Permissions reports the current camera and microphone permission
	// states without prompting the user.
	Permissions(ctx context.Context) (camera, microphone PermissionState, err error)
}
