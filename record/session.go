package record

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/camloop/camloop/memory"
)

// Session drives one recording: it configures the host encoder for
// the chosen quality tier, routes its periodic chunks into the buffer
// and assembles the final artifact on stop.
type Session struct {
	factory   EncoderFactory
	registry  *memory.Registry
	buffer    *ChunkBuffer
	quality   Quality
	timeslice time.Duration

	mu      sync.Mutex
	encoder Encoder
	active  bool
}

// NewSession creates a recording session using the given encoder
// factory and resource registry.
func NewSession(factory EncoderFactory, registry *memory.Registry, quality Quality) (*Session, error) {
	if factory == nil {
		return nil, fmt.Errorf("encoder factory cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("memory registry cannot be nil")
	}
	return &Session{
		factory:   factory,
		registry:  registry,
		buffer:    NewChunkBuffer(registry),
		quality:   quality,
		timeslice: DefaultTimeslice,
	}, nil
}

// SetTimeslice overrides the chunk emission interval.
func (s *Session) SetTimeslice(d time.Duration) {
	if d > 0 {
		s.timeslice = d
	}
}

// Buffer exposes the underlying chunk buffer, mainly for inspection.
func (s *Session) Buffer() *ChunkBuffer {
	return s.buffer
}

// Active reports whether a recording is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start resets the buffer, selects the best supported format,
// configures the bitrate for the quality tier and starts the encoder.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrSessionActive
	}

	s.buffer.Reset()

	mimeType, err := SelectMimeType(s.factory)
	if err != nil {
		return err
	}

	videoRate, audioRate := s.quality.BitRates()
	logrus.WithFields(logrus.Fields{
		"function":       "Session.Start",
		"mime_type":      mimeType,
		"quality":        s.quality.String(),
		"video_bit_rate": videoRate,
		"audio_bit_rate": audioRate,
		"timeslice":      s.timeslice,
	}).Info("Starting recording")

	encoder, err := s.factory.New(EncoderConfig{
		MimeType:     mimeType,
		VideoBitRate: videoRate,
		AudioBitRate: audioRate,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderStart, err)
	}

	encoder.OnData(s.buffer.Append)
	if err := encoder.Start(s.timeslice); err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderStart, err)
	}

	s.encoder = encoder
	s.active = true
	return nil
}

// Stop ends the recording and assembles the artifact from whatever
// the buffer holds. A recording that produced no chunks still yields
// a valid, zero-size artifact. The buffer is cleared and a best-effort
// memory reclamation is requested afterwards.
func (s *Session) Stop(now time.Time) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil, ErrSessionInactive
	}

	mimeType := s.encoder.MimeType()
	if err := s.encoder.Stop(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Session.Stop",
			"error":    err.Error(),
		}).Warn("Encoder stop reported an error, assembling buffered chunks anyway")
	}
	s.encoder = nil
	s.active = false

	blob := s.buffer.Assemble()
	artifact := NewArtifact(blob, mimeType, s.registry, now)

	logrus.WithFields(logrus.Fields{
		"function":  "Session.Stop",
		"blob_size": artifact.Size(),
		"mime_type": mimeType,
		"url":       artifact.URL(),
	}).Info("Recording stopped")

	// The buffer may have held many megabytes of chunk data.
	runtime.GC()

	return artifact, nil
}

// Abort ends the recording and discards everything buffered.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}
	if err := s.encoder.Stop(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Session.Abort",
			"error":    err.Error(),
		}).Warn("Encoder stop failed during abort")
	}
	s.encoder = nil
	s.active = false
	s.buffer.Reset()
}
