package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRetryDelay is how long acquisition waits before its single
// retry after a permission failure that was not an explicit denial.
const DefaultRetryDelay = 500 * time.Millisecond

// Acquirer opens capture sessions against a device provider.
type Acquirer struct {
	provider     DeviceProvider
	retryDelay   time.Duration
	timeProvider TimeProvider
}

// NewAcquirer creates an Acquirer for the given provider.
func NewAcquirer(provider DeviceProvider) (*Acquirer, error) {
	if provider == nil {
		return nil, errors.New("device provider cannot be nil")
	}
	return &Acquirer{
		provider:     provider,
		retryDelay:   DefaultRetryDelay,
		timeProvider: RealTimeProvider{},
	}, nil
}

// SetRetryDelay overrides the delay before the single permission retry.
func (a *Acquirer) SetRetryDelay(d time.Duration) {
	if d > 0 {
		a.retryDelay = d
	}
}

// SetTimeProvider injects a clock, primarily for deterministic tests.
func (a *Acquirer) SetTimeProvider(tp TimeProvider) {
	a.timeProvider = getTimeProvider(tp)
}

// Acquire opens a capture session satisfying the constraints.
//
// One attempt is made. If it fails with a permission error the
// permission states are inspected: an explicit denial of camera or
// microphone is terminal and surfaces ErrPermissionDenied; any other
// permission state waits the retry delay and tries exactly once more.
// Every non-permission failure is returned immediately with no retry.
func (a *Acquirer) Acquire(ctx context.Context, c Constraints) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Acquire",
		"facing":     c.Facing,
		"width":      c.Width,
		"height":     c.Height,
		"frame_rate": c.FrameRate,
		"audio":      c.Audio,
	}).Info("Acquiring capture device")

	stream, err := a.provider.Acquire(ctx, c)
	if err == nil {
		return newSession(stream, c, a.timeProvider.Now()), nil
	}

	if !errors.Is(err, ErrPermissionDenied) {
		logrus.WithFields(logrus.Fields{
			"function": "Acquire",
			"error":    err.Error(),
		}).Error("Device acquisition failed")
		return nil, fmt.Errorf("device acquisition failed: %w", err)
	}

	if denyErr := a.checkExplicitDenial(ctx); denyErr != nil {
		return nil, denyErr
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Acquire",
		"retry_delay": a.retryDelay,
	}).Warn("Permission not yet granted, retrying once")

	timer := a.timeProvider.NewTimer(a.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	stream, err = a.provider.Acquire(ctx, c)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Acquire",
			"error":    err.Error(),
		}).Error("Retry acquisition failed")
		return nil, fmt.Errorf("device acquisition failed after retry: %w", err)
	}

	return newSession(stream, c, a.timeProvider.Now()), nil
}

// checkExplicitDenial consults the permission query and returns a
// terminal ErrPermissionDenied when camera or microphone access is
// explicitly blocked. A failed query is treated as non-terminal.
func (a *Acquirer) checkExplicitDenial(ctx context.Context) error {
	camera, microphone, err := a.provider.Permissions(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "checkExplicitDenial",
			"error":    err.Error(),
		}).Warn("Permission query failed, proceeding with retry")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function":   "checkExplicitDenial",
		"camera":     camera.String(),
		"microphone": microphone.String(),
	}).Debug("Permission states inspected")

	if camera == PermissionDenied {
		return fmt.Errorf("%w: camera blocked", ErrPermissionDenied)
	}
	if microphone == PermissionDenied {
		return fmt.Errorf("%w: microphone blocked", ErrPermissionDenied)
	}
	return nil
}
