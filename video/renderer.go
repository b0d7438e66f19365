package video

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTargetFPS is the preview frame rate the loop throttles to.
const DefaultTargetFPS = 30

// FrameSource delivers live frames from an acquired video track.
//
// ReadFrame returns the most recent frame, or (nil, nil) when no frame
// is available yet. The renderer treats an unavailable or zero-sized
// frame as "waiting for valid dimensions" and simply tries again on
// the next tick.
type FrameSource interface {
	ReadFrame() (*Frame, error)
}

// TimeProvider is an interface for getting the current time and creating timers.
// This allows injecting a mock time provider for deterministic testing.
type TimeProvider interface {
	// Now returns the current time.
	Now() time.Time
	// NewTimer creates a new timer that fires after the given duration.
	NewTimer(d time.Duration) *time.Timer
}

// RealTimeProvider implements TimeProvider using the actual system time.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewTimer creates a new timer using the standard library.
func (RealTimeProvider) NewTimer(d time.Duration) *time.Timer {
	return time.NewTimer(d)
}

// RendererConfig configures a preview renderer.
type RendererConfig struct {
	// Source delivers frames from the capture session.
	Source FrameSource
	// Surface is the visible drawing target.
	Surface Surface
	// Filter returns the current filter state, read once per frame.
	Filter func() FilterState
	// TargetFPS caps the draw rate. Zero selects DefaultTargetFPS.
	TargetFPS uint16
	// TimeProvider overrides the clock. Nil selects the system clock.
	TimeProvider TimeProvider
}

// Renderer runs the throttled preview draw loop.
//
// Each tick samples one frame, resizes the surface only when the frame
// dimensions change, applies mirror as a geometric flip, and stages
// color filtering on a lazily allocated off-screen surface so the
// visible surface is never mutated mid-filter.
type Renderer struct {
	source    FrameSource
	surface   Surface
	offscreen *MemorySurface
	filter    func() FilterState
	interval  time.Duration
	tp        TimeProvider

	// Effect chain cache, rebuilt only when the filter state changes.
	chainState FilterState
	chain      *EffectChain

	mu           sync.Mutex
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	lastWidth    uint16
	lastHeight   uint16
	frames       uint64
	windowStart  time.Time
	windowFrames int
	fps          float64
}

// NewRenderer creates a renderer from the given configuration.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.Source == nil {
		return nil, errors.New("frame source cannot be nil")
	}
	if cfg.Surface == nil {
		return nil, errors.New("surface cannot be nil")
	}
	if cfg.Filter == nil {
		neutral := DefaultFilterState()
		cfg.Filter = func() FilterState { return neutral }
	}
	fps := cfg.TargetFPS
	if fps == 0 {
		fps = DefaultTargetFPS
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewRenderer",
		"target_fps": fps,
	}).Info("Creating preview renderer")

	return &Renderer{
		source:   cfg.Source,
		surface:  cfg.Surface,
		filter:   cfg.Filter,
		interval: time.Second / time.Duration(fps),
		tp:       tp,
	}, nil
}

// Start launches the draw loop. It returns an error when the loop is
// already running. The loop ends when ctx is cancelled or Stop is
// called.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("renderer already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.done = make(chan struct{})
	r.windowStart = r.tp.Now()
	r.windowFrames = 0
	done := r.done
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Renderer.Start",
		"interval": r.interval,
	}).Info("Preview draw loop starting")

	go r.loop(loopCtx, done)
	return nil
}

// Stop cancels the pending tick and waits for the loop to exit.
// Stopping an idle renderer is a no-op.
func (r *Renderer) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done

	logrus.WithFields(logrus.Fields{
		"function": "Renderer.Stop",
		"frames":   r.Frames(),
	}).Info("Preview draw loop stopped")
}

// loop reschedules itself through a timer rather than drawing as fast
// as frames arrive, trading worst-case latency for predictable CPU use.
func (r *Renderer) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := r.tp.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := r.renderFrame(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Renderer.loop",
				"error":    err.Error(),
			}).Warn("Frame render failed")
		}

		timer.Reset(r.interval)
	}
}

// renderFrame performs one iteration of the draw loop.
func (r *Renderer) renderFrame() error {
	frame, err := r.source.ReadFrame()
	if err != nil {
		return fmt.Errorf("frame read failed: %w", err)
	}
	if frame == nil || frame.Width == 0 || frame.Height == 0 {
		// Still waiting for the device to deliver valid dimensions.
		return nil
	}

	r.countFrame()
	r.resizeIfNeeded(frame.Width, frame.Height)

	state := r.filter()
	if state.IsNeutral() {
		if err := r.surface.Draw(frame, state.Mirror); err != nil {
			return fmt.Errorf("draw failed: %w", err)
		}
		return nil
	}
	return r.renderFiltered(frame, state)
}

// renderFiltered stages the frame on the off-screen surface, applies
// the effect chain there, then composites onto the visible surface.
func (r *Renderer) renderFiltered(frame *Frame, state FilterState) error {
	if r.offscreen == nil {
		r.offscreen = NewMemorySurface()
	}
	if w, h := r.offscreen.Size(); w != frame.Width || h != frame.Height {
		r.offscreen.Resize(frame.Width, frame.Height)
	}

	if err := r.offscreen.Draw(frame, state.Mirror); err != nil {
		return fmt.Errorf("offscreen draw failed: %w", err)
	}

	processed, err := r.chainFor(state).Apply(r.offscreen.Snapshot())
	if err != nil {
		return fmt.Errorf("effects processing failed: %w", err)
	}
	if err := r.offscreen.Draw(processed, false); err != nil {
		return fmt.Errorf("offscreen update failed: %w", err)
	}

	if err := r.surface.Composite(r.offscreen); err != nil {
		return fmt.Errorf("composite failed: %w", err)
	}
	return nil
}

// chainFor returns the cached effect chain, rebuilding it when the
// filter state changed since the last frame.
func (r *Renderer) chainFor(state FilterState) *EffectChain {
	if r.chain == nil || state != r.chainState {
		r.chain = ChainForState(state)
		r.chainState = state
	}
	return r.chain
}

// resizeIfNeeded reallocates the visible surface only when the frame
// dimensions actually changed.
func (r *Renderer) resizeIfNeeded(width, height uint16) {
	r.mu.Lock()
	changed := width != r.lastWidth || height != r.lastHeight
	if changed {
		r.lastWidth = width
		r.lastHeight = height
	}
	r.mu.Unlock()

	if changed {
		logrus.WithFields(logrus.Fields{
			"function": "resizeIfNeeded",
			"width":    width,
			"height":   height,
		}).Debug("Frame dimensions changed, resizing surface")
		r.surface.Resize(width, height)
	}
}

// countFrame updates the FPS counter over one-second windows.
func (r *Renderer) countFrame() {
	now := r.tp.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	r.windowFrames++
	elapsed := now.Sub(r.windowStart)
	if elapsed >= time.Second {
		r.fps = float64(r.windowFrames) / elapsed.Seconds()
		r.windowStart = now
		r.windowFrames = 0
	}
}

// FPS returns the frame rate measured over the last completed window.
func (r *Renderer) FPS() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fps
}

// Frames returns the total number of frames drawn.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
