package camloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/camloop/camloop/audio"
	"github.com/camloop/camloop/capture"
	"github.com/camloop/camloop/memory"
	"github.com/camloop/camloop/record"
	"github.com/camloop/camloop/video"
)

// State identifies the recorder's position in its lifecycle.
type State uint8

const (
	// StateIdle means no device is held and nothing is rendering.
	StateIdle State = iota
	// StatePreviewing means the draw loop is running on a live session.
	StatePreviewing
	// StateRecording means chunks are being accumulated while previewing.
	StateRecording
	// StateStopped means the recorder was closed and cannot restart.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreviewing:
		return "previewing"
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Config collects the tunables of a Recorder.
type Config struct {
	// Constraints is the capture configuration for new sessions.
	Constraints capture.Constraints
	// TargetFPS caps the preview draw rate. Zero selects the default.
	TargetFPS uint16
	// Quality selects the recording bitrate tier.
	Quality record.Quality
	// Timeslice is the encoder chunk emission interval. Zero selects
	// the default.
	Timeslice time.Duration
	// RetryDelay overrides the permission retry wait. Zero selects
	// the default.
	RetryDelay time.Duration
}

// DefaultConfig returns the standard recorder configuration.
func DefaultConfig() Config {
	return Config{
		Constraints: capture.DefaultConstraints(),
		TargetFPS:   video.DefaultTargetFPS,
		Quality:     record.QualityMedium,
		Timeslice:   record.DefaultTimeslice,
	}
}

// Recorder is the camera recording pipeline facade.
//
// It owns the capture session, the preview renderer, the recording
// session and the resource registry, and moves between states through
// guarded transitions. All methods are safe for concurrent use.
type Recorder struct {
	provider capture.DeviceProvider
	factory  record.EncoderFactory
	acquirer *capture.Acquirer
	registry *memory.Registry
	surface  *video.MemorySurface
	tp       capture.TimeProvider

	mu          sync.Mutex
	cfg         Config
	state       State
	session     *capture.Session
	renderer    *video.Renderer
	monitor     *audio.Monitor
	recording   *record.Session
	artifact    *record.Artifact
	lastErr     string
	recordStart time.Time

	// filter has its own lock: the draw loop reads it every frame,
	// including while teardown holds mu waiting for the loop to exit.
	filterMu sync.RWMutex
	filter   video.FilterState
}

// New creates a Recorder over the host's device provider and encoder
// factory.
func New(provider capture.DeviceProvider, factory record.EncoderFactory, cfg Config) (*Recorder, error) {
	logrus.WithFields(logrus.Fields{
		"function": "New",
		"facing":   cfg.Constraints.Facing,
		"quality":  cfg.Quality.String(),
	}).Info("Creating recorder")

	if provider == nil {
		return nil, errors.New("device provider cannot be nil")
	}
	if factory == nil {
		return nil, errors.New("encoder factory cannot be nil")
	}
	if err := cfg.Constraints.Validate(); err != nil {
		return nil, err
	}

	acquirer, err := capture.NewAcquirer(provider)
	if err != nil {
		return nil, err
	}
	if cfg.RetryDelay > 0 {
		acquirer.SetRetryDelay(cfg.RetryDelay)
	}

	return &Recorder{
		provider: provider,
		factory:  factory,
		acquirer: acquirer,
		registry: memory.NewRegistry(),
		surface:  video.NewMemorySurface(),
		tp:       capture.RealTimeProvider{},
		cfg:      cfg,
		filter:   video.DefaultFilterState(),
	}, nil
}

// SetTimeProvider injects a clock, primarily for deterministic tests.
func (r *Recorder) SetTimeProvider(tp capture.TimeProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tp != nil {
		r.tp = tp
		r.acquirer.SetTimeProvider(tp)
	}
}

// StartPreview acquires the camera and starts the draw loop.
//
// Starting while a session is already active stops the old session
// first, so two live device handles never coexist. Any previous
// artifact is revoked: its lifetime ends when the next session begins.
func (r *Recorder) StartPreview(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateStopped {
		return ErrRecorderClosed
	}

	// An in-flight recording is finished before its session goes away,
	// never orphaned with a live encoder.
	if r.state == StateRecording {
		if _, err := r.stopRecordingLocked(); err != nil {
			r.setErrorLocked(err)
		}
	}

	// Never hold two device handles at once.
	r.teardownSessionLocked()

	if r.artifact != nil {
		r.artifact.Revoke()
		r.artifact = nil
	}

	session, err := r.acquirer.Acquire(ctx, r.cfg.Constraints)
	if err != nil {
		r.setErrorLocked(fmt.Errorf("preview start failed: %w", err))
		r.state = StateIdle
		return err
	}

	renderer, err := video.NewRenderer(video.RendererConfig{
		Source:       r.frameSource(session),
		Surface:      r.surface,
		Filter:       r.Filter,
		TargetFPS:    r.cfg.TargetFPS,
		TimeProvider: r.tp,
	})
	if err != nil {
		session.Stop()
		r.setErrorLocked(err)
		return err
	}
	if err := renderer.Start(ctx); err != nil {
		session.Stop()
		r.setErrorLocked(err)
		return err
	}

	r.session = session
	r.renderer = renderer
	r.monitor = r.startMetering(ctx, session)
	r.state = StatePreviewing
	r.lastErr = ""

	logrus.WithFields(logrus.Fields{
		"function": "StartPreview",
		"facing":   session.Facing(),
	}).Info("Preview started")

	return nil
}

// frameSource adapts the session's video track into a FrameSource.
// Tracks that cannot deliver frames leave the renderer waiting.
func (r *Recorder) frameSource(session *capture.Session) video.FrameSource {
	if source, ok := session.VideoTrack().(video.FrameSource); ok {
		return source
	}
	logrus.WithFields(logrus.Fields{
		"function": "frameSource",
	}).Warn("Video track does not deliver frames, preview will stay blank")
	return emptySource{}
}

// emptySource is the FrameSource used when a track cannot be read.
type emptySource struct{}

func (emptySource) ReadFrame() (*video.Frame, error) { return nil, nil }

// startMetering taps the session's audio track for live level
// readings. Sessions without a chunk-delivering audio track simply
// keep the level at zero.
func (r *Recorder) startMetering(ctx context.Context, session *capture.Session) *audio.Monitor {
	source, ok := session.AudioTrack().(audio.ChunkSource)
	if !ok {
		return nil
	}
	monitor, err := audio.NewMonitor(audio.MonitorConfig{
		Source:       source,
		TimeProvider: r.tp,
	})
	if err == nil {
		err = monitor.Start(ctx)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "startMetering",
			"error":    err.Error(),
		}).Warn("Audio level metering unavailable")
		return nil
	}
	return monitor
}

// StopPreview ends the draw loop and releases the device.
// An in-flight recording is stopped first and its artifact kept.
func (r *Recorder) StopPreview() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateIdle:
		return nil
	case StateStopped:
		return ErrRecorderClosed
	}

	if r.state == StateRecording {
		if _, err := r.stopRecordingLocked(); err != nil {
			r.setErrorLocked(err)
		}
	}

	r.teardownSessionLocked()
	r.state = StateIdle
	return nil
}

// teardownSessionLocked stops the renderer and level monitor, then
// the device tracks. The order matters: pending ticks are cancelled
// before the tracks they read from are released. Caller holds r.mu.
func (r *Recorder) teardownSessionLocked() {
	if r.renderer != nil {
		r.renderer.Stop()
		r.renderer = nil
	}
	if r.monitor != nil {
		r.monitor.Stop()
		r.monitor = nil
	}
	if r.session != nil {
		r.session.Stop()
		r.session = nil
	}
}

// StartRecording begins accumulating encoded chunks.
// The recorder must be previewing.
func (r *Recorder) StartRecording() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRecording:
		return ErrAlreadyRecording
	case StateStopped:
		return ErrRecorderClosed
	case StateIdle:
		return ErrNotPreviewing
	}

	recording, err := record.NewSession(r.factory, r.registry, r.cfg.Quality)
	if err != nil {
		r.setErrorLocked(err)
		return err
	}
	if r.cfg.Timeslice > 0 {
		recording.SetTimeslice(r.cfg.Timeslice)
	}

	if err := recording.Start(); err != nil {
		r.setErrorLocked(fmt.Errorf("recording start failed: %w", err))
		return err
	}

	r.recording = recording
	r.recordStart = r.tp.Now()
	r.state = StateRecording

	logrus.WithFields(logrus.Fields{
		"function": "StartRecording",
		"quality":  r.cfg.Quality.String(),
	}).Info("Recording started")

	return nil
}

// StopRecording ends the recording and returns the assembled artifact.
// The recorder returns to the previewing state.
func (r *Recorder) StopRecording() (*record.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		if r.state == StateStopped {
			return nil, ErrRecorderClosed
		}
		return nil, ErrNotRecording
	}

	artifact, err := r.stopRecordingLocked()
	if err != nil {
		r.setErrorLocked(err)
		r.state = StatePreviewing
		return nil, err
	}
	r.state = StatePreviewing
	return artifact, nil
}

// stopRecordingLocked finishes the recording session and stores the
// artifact. Caller holds r.mu.
func (r *Recorder) stopRecordingLocked() (*record.Artifact, error) {
	artifact, err := r.recording.Stop(r.tp.Now())
	r.recording = nil
	if err != nil {
		return nil, fmt.Errorf("recording stop failed: %w", err)
	}
	r.artifact = artifact

	logrus.WithFields(logrus.Fields{
		"function":  "stopRecordingLocked",
		"blob_size": artifact.Size(),
		"duration":  r.tp.Now().Sub(r.recordStart),
	}).Info("Recording artifact ready")

	return artifact, nil
}

// SwitchFacing flips between the front and rear camera.
//
// While previewing (or recording) the current session is stopped and a
// new one is started with the opposite facing mode; an in-flight
// recording is finished first. As with any session start, a previous
// artifact's URL is revoked when the new session begins. While idle
// only the configured constraint flips.
func (r *Recorder) SwitchFacing(ctx context.Context) error {
	r.mu.Lock()

	if r.state == StateStopped {
		r.mu.Unlock()
		return ErrRecorderClosed
	}

	r.cfg.Constraints = r.cfg.Constraints.WithFacing(r.cfg.Constraints.Facing.Opposite())

	logrus.WithFields(logrus.Fields{
		"function": "SwitchFacing",
		"facing":   r.cfg.Constraints.Facing,
		"state":    r.state.String(),
	}).Info("Switching camera facing")

	if r.state == StateIdle {
		r.mu.Unlock()
		return nil
	}

	if r.state == StateRecording {
		if _, err := r.stopRecordingLocked(); err != nil {
			r.setErrorLocked(err)
		}
		r.state = StatePreviewing
	}
	r.mu.Unlock()

	return r.StartPreview(ctx)
}

// Close tears the recorder down permanently.
//
// Teardown order is load-bearing: the draw loop and timers are
// cancelled first, then device tracks are stopped, then outstanding
// URLs are revoked, so no callback can fire against a released
// resource. Close is idempotent.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateStopped {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "Close",
		"state":    r.state.String(),
	}).Info("Closing recorder")

	if r.recording != nil {
		r.recording.Abort()
		r.recording = nil
	}
	r.teardownSessionLocked()

	if r.artifact != nil {
		r.artifact.Revoke()
		r.artifact = nil
	}
	r.registry.Cleanup()

	r.state = StateStopped
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsPreviewing reports whether the draw loop is running.
func (r *Recorder) IsPreviewing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StatePreviewing || r.state == StateRecording
}

// IsRecording reports whether chunks are being accumulated.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateRecording
}

// Elapsed returns how long the current recording has been running,
// or zero when not recording.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return 0
	}
	return r.tp.Now().Sub(r.recordStart)
}

// LastError returns the most recent pipeline error message, or empty.
func (r *Recorder) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Artifact returns the last assembled recording, or nil.
func (r *Recorder) Artifact() *record.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.artifact
}

// SaveArtifact writes the last assembled recording to a file.
func (r *Recorder) SaveArtifact(path string) error {
	r.mu.Lock()
	artifact := r.artifact
	r.mu.Unlock()

	if artifact == nil {
		return ErrNoArtifact
	}
	if err := artifact.Save(path); err != nil {
		r.mu.Lock()
		r.setErrorLocked(err)
		r.mu.Unlock()
		return err
	}
	return nil
}

// FPS returns the measured preview frame rate.
func (r *Recorder) FPS() float64 {
	r.mu.Lock()
	renderer := r.renderer
	r.mu.Unlock()
	if renderer == nil {
		return 0
	}
	return renderer.FPS()
}

// AudioLevel returns the live input level reading, or a zero reading
// when no session with a metered audio track is active.
func (r *Recorder) AudioLevel() audio.Level {
	r.mu.Lock()
	monitor := r.monitor
	r.mu.Unlock()
	if monitor == nil {
		return audio.Level{}
	}
	return monitor.Level()
}

// SetFilter replaces the filter state consumed by the draw loop.
// Values are clamped into their valid ranges.
func (r *Recorder) SetFilter(state video.FilterState) {
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	r.filter = state.Clamp()
}

// Filter returns the active filter state.
func (r *Recorder) Filter() video.FilterState {
	r.filterMu.RLock()
	defer r.filterMu.RUnlock()
	return r.filter
}

// FilterExpression returns the composed filter expression string.
func (r *Recorder) FilterExpression() string {
	return r.Filter().Expression()
}

// Facing returns the facing mode of the active or configured session.
func (r *Recorder) Facing() capture.FacingMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		return r.session.Facing()
	}
	return r.cfg.Constraints.Facing
}

// Surface exposes the preview surface the draw loop renders onto.
// Hosts read it to present the live preview.
func (r *Recorder) Surface() *video.MemorySurface {
	return r.surface
}

// Registry exposes the resource registry, mainly for inspection.
func (r *Recorder) Registry() *memory.Registry {
	return r.registry
}

// setErrorLocked records a pipeline error for the UI. Caller holds r.mu.
func (r *Recorder) setErrorLocked(err error) {
	r.lastErr = err.Error()
	logrus.WithFields(logrus.Fields{
		"function": "setErrorLocked",
		"error":    err.Error(),
	}).Error("Pipeline error recorded")
}
