package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMeterInterval is how often the monitor polls the audio track.
const DefaultMeterInterval = 50 * time.Millisecond

// ChunkSource delivers encoded audio chunks from an acquired audio
// track. ReadChunk returns the next chunk, or (nil, nil) when nothing
// is available yet.
type ChunkSource interface {
	ReadChunk() ([]byte, error)
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

// MonitorConfig configures a level monitor.
type MonitorConfig struct {
	// Source delivers audio chunks from the capture session.
	Source ChunkSource
	// Interval is the polling rate. Zero selects DefaultMeterInterval.
	Interval time.Duration
	// TimeProvider overrides the clock. Nil selects the system clock.
	TimeProvider TimeProvider
}

// Monitor polls an audio chunk source and keeps a live level reading.
//
// Each tick reads at most one chunk and feeds it to a LevelMeter, so
// the reading trails the input by at most one polling interval.
type Monitor struct {
	source   ChunkSource
	meter    *LevelMeter
	interval time.Duration
	tp       TimeProvider

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewMonitor creates a monitor from the given configuration.
func NewMonitor(cfg MonitorConfig) (*Monitor, error) {
	if cfg.Source == nil {
		return nil, errors.New("chunk source cannot be nil")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultMeterInterval
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}

	return &Monitor{
		source:   cfg.Source,
		meter:    NewLevelMeter(),
		interval: interval,
		tp:       tp,
	}, nil
}

// Start launches the polling loop. It returns an error when the loop
// is already running. The loop ends when ctx is cancelled or Stop is
// called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("monitor already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Monitor.Start",
		"interval": m.interval,
	}).Info("Audio level monitor starting")

	go m.loop(loopCtx, done)
	return nil
}

// Stop cancels the pending tick and waits for the loop to exit.
// Stopping an idle monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done

	logrus.WithFields(logrus.Fields{
		"function": "Monitor.Stop",
		"chunks":   m.meter.Chunks(),
	}).Info("Audio level monitor stopped")
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := m.tp.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		chunk, err := m.source.ReadChunk()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Monitor.loop",
				"error":    err.Error(),
			}).Warn("Audio chunk read failed")
		} else if chunk != nil {
			m.meter.ProcessChunk(chunk)
		}

		timer.Reset(m.interval)
	}
}

// Level returns the most recent reading.
func (m *Monitor) Level() Level {
	return m.meter.Last()
}

// Meter returns the underlying level meter, mainly for inspection.
func (m *Monitor) Meter() *LevelMeter {
	return m.meter
}
