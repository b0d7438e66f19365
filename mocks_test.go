package camloop

import (
	"context"
	"sync"
	"time"

	"github.com/camloop/camloop/capture"
	"github.com/camloop/camloop/record"
	"github.com/camloop/camloop/video"
)

// fakeTrack delivers a fixed frame or audio chunk and counts stops.
type fakeTrack struct {
	kind  capture.TrackKind
	frame *video.Frame
	chunk []byte

	mu         sync.Mutex
	stops      int
	chunkReads int
}

func (t *fakeTrack) Kind() capture.TrackKind { return t.kind }

func (t *fakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stops++
}

func (t *fakeTrack) ReadFrame() (*video.Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frame == nil {
		return nil, nil
	}
	return t.frame.Clone(), nil
}

func (t *fakeTrack) ReadChunk() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.kind != capture.TrackAudio {
		return nil, nil
	}
	t.chunkReads++
	return t.chunk, nil
}

func (t *fakeTrack) chunkCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.chunkReads
}

func (t *fakeTrack) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops > 0
}

// fakeProvider hands out streams and remembers every track created.
type fakeProvider struct {
	mu         sync.Mutex
	acquireErr error
	camera     capture.PermissionState
	microphone capture.PermissionState

	acquired []capture.Constraints
	tracks   []*fakeTrack
}

func (p *fakeProvider) Acquire(_ context.Context, c capture.Constraints) (*capture.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.acquireErr != nil {
		return nil, p.acquireErr
	}

	p.acquired = append(p.acquired, c)
	videoTrack := &fakeTrack{kind: capture.TrackVideo, frame: testFrame()}
	p.tracks = append(p.tracks, videoTrack)
	tracks := []capture.Track{videoTrack}
	if c.Audio {
		audioTrack := &fakeTrack{kind: capture.TrackAudio, chunk: []byte{0xde, 0xad, 0xbe, 0xef}}
		p.tracks = append(p.tracks, audioTrack)
		tracks = append(tracks, audioTrack)
	}
	return &capture.Stream{Tracks: tracks}, nil
}

func (p *fakeProvider) Permissions(context.Context) (capture.PermissionState, capture.PermissionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.camera, p.microphone, nil
}

func (p *fakeProvider) liveTracks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	live := 0
	for _, t := range p.tracks {
		if !t.stopped() {
			live++
		}
	}
	return live
}

func (p *fakeProvider) acquireCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.acquired)
}

func (p *fakeProvider) audioTrack() *fakeTrack {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.tracks) - 1; i >= 0; i-- {
		if p.tracks[i].Kind() == capture.TrackAudio {
			return p.tracks[i]
		}
	}
	return nil
}

func (p *fakeProvider) lastFacing() capture.FacingMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.acquired) == 0 {
		return ""
	}
	return p.acquired[len(p.acquired)-1].Facing
}

// fakeEncoder replays scripted chunks when started.
type fakeEncoder struct {
	mimeType string
	chunks   [][]byte

	mu     sync.Mutex
	onData func([]byte)
}

func (e *fakeEncoder) OnData(fn func([]byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onData = fn
}

func (e *fakeEncoder) Start(time.Duration) error {
	e.mu.Lock()
	onData := e.onData
	chunks := e.chunks
	e.mu.Unlock()
	if onData == nil {
		return nil
	}
	for _, chunk := range chunks {
		onData(chunk)
	}
	return nil
}

func (e *fakeEncoder) Stop() error { return nil }

func (e *fakeEncoder) MimeType() string { return e.mimeType }

// fakeFactory supports every format and scripts chunk playback.
type fakeFactory struct {
	mu     sync.Mutex
	chunks [][]byte
}

func (f *fakeFactory) Supported(string) bool { return true }

func (f *fakeFactory) New(cfg record.EncoderConfig) (record.Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &fakeEncoder{mimeType: cfg.MimeType, chunks: f.chunks}, nil
}

func (f *fakeFactory) setChunks(chunks ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = chunks
}

// countingClock is a real clock that counts timer creations, so tests
// can verify an injected clock reaches the pipeline's loops.
type countingClock struct {
	capture.RealTimeProvider

	mu     sync.Mutex
	timers int
}

func (c *countingClock) NewTimer(d time.Duration) *time.Timer {
	c.mu.Lock()
	c.timers++
	c.mu.Unlock()
	return time.NewTimer(d)
}

func (c *countingClock) timerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers
}

func testFrame() *video.Frame {
	frame := video.NewFrame(160, 120)
	for i := range frame.Y {
		frame.Y[i] = byte(i % 251)
	}
	return frame
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TargetFPS = 240
	return cfg
}
