package capture

import (
	"context"
	"sync"
	"time"
)

// fakeTrack counts how many times it was stopped.
type fakeTrack struct {
	kind TrackKind

	mu    sync.Mutex
	stops int
}

func (t *fakeTrack) Kind() TrackKind { return t.kind }

func (t *fakeTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stops++
}

func (t *fakeTrack) stopCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops
}

// fakeProvider scripts acquisition outcomes per attempt.
type fakeProvider struct {
	mu       sync.Mutex
	attempts int
	// errs[i] is returned on attempt i; attempts beyond the slice succeed.
	errs []error

	camera     PermissionState
	microphone PermissionState
	permErr    error

	lastConstraints Constraints
	tracks          []*fakeTrack
}

func (p *fakeProvider) Acquire(_ context.Context, c Constraints) (*Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	attempt := p.attempts
	p.attempts++
	p.lastConstraints = c

	if attempt < len(p.errs) && p.errs[attempt] != nil {
		return nil, p.errs[attempt]
	}

	video := &fakeTrack{kind: TrackVideo}
	tracks := []Track{video}
	p.tracks = append(p.tracks, video)
	if c.Audio {
		audio := &fakeTrack{kind: TrackAudio}
		tracks = append(tracks, audio)
		p.tracks = append(p.tracks, audio)
	}
	return &Stream{Tracks: tracks}, nil
}

func (p *fakeProvider) Permissions(_ context.Context) (PermissionState, PermissionState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.camera, p.microphone, p.permErr
}

func (p *fakeProvider) attemptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

func (p *fakeProvider) liveTracks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	live := 0
	for _, t := range p.tracks {
		if t.stopCount() == 0 {
			live++
		}
	}
	return live
}

// instantTimeProvider fires timers immediately so retry tests run fast.
type instantTimeProvider struct {
	now time.Time
}

func (p *instantTimeProvider) Now() time.Time {
	return p.now
}

func (p *instantTimeProvider) NewTimer(time.Duration) *time.Timer {
	return time.NewTimer(0)
}

func (p *instantTimeProvider) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(time.Millisecond)
}

func (p *instantTimeProvider) Sleep(time.Duration) {}
