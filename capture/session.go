package capture

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Session owns an acquired device stream for its whole lifetime.
//
// A session is created by Acquire and ends with Stop. Stop is
// idempotent: tracks are released exactly once no matter how many
// times teardown paths reach it.
type Session struct {
	stream      Stream
	constraints Constraints
	acquiredAt  time.Time

	mu      sync.Mutex
	stopped bool
}

// newSession wraps an acquired stream.
func newSession(stream *Stream, c Constraints, now time.Time) *Session {
	return &Session{
		stream:      *stream,
		constraints: c,
		acquiredAt:  now,
	}
}

// Constraints returns the constraints the session was opened with.
func (s *Session) Constraints() Constraints {
	return s.constraints
}

// Facing returns the facing mode of the session's camera.
func (s *Session) Facing() FacingMode {
	return s.constraints.Facing
}

// AcquiredAt returns when the device was opened.
func (s *Session) AcquiredAt() time.Time {
	return s.acquiredAt
}

// VideoTrack returns the session's video track, or nil after Stop.
func (s *Session) VideoTrack() Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	return s.stream.VideoTrack()
}

// AudioTrack returns the session's audio track, or nil after Stop or
// when the stream was acquired without audio.
func (s *Session) AudioTrack() Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	return s.stream.AudioTrack()
}

// Active reports whether the session still holds live tracks.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// Stop releases every track of the session. Subsequent calls are no-ops.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	tracks := s.stream.Tracks
	s.stream.Tracks = nil
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":    "Session.Stop",
		"facing":      s.constraints.Facing,
		"track_count": len(tracks),
	}).Info("Stopping capture session")

	for _, t := range tracks {
		t.Stop()
	}
}
