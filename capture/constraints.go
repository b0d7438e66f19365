package capture

import "fmt"

// FacingMode selects which camera the session should open.
type FacingMode string

const (
	// FacingUser is the front-facing (selfie) camera.
	FacingUser FacingMode = "user"
	// FacingEnvironment is the rear-facing camera.
	FacingEnvironment FacingMode = "environment"
)

// Opposite returns the other facing mode.
// Unknown values default to the user-facing camera.
func (f FacingMode) Opposite() FacingMode {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// String returns the facing mode identifier.
func (f FacingMode) String() string {
	return string(f)
}

// Constraints describes the requested capture configuration.
//
// Width, Height and FrameRate are ideal values, not hard requirements;
// the provider may open the device with the closest supported mode.
type Constraints struct {
	Facing    FacingMode
	Width     uint16
	Height    uint16
	FrameRate uint16
	Audio     bool
}

// DefaultConstraints returns the standard preview configuration:
// front camera, 1280x720 at 30 fps, with audio.
func DefaultConstraints() Constraints {
	return Constraints{
		Facing:    FacingUser,
		Width:     1280,
		Height:    720,
		FrameRate: 30,
		Audio:     true,
	}
}

// Validate checks that the constraints are usable.
func (c Constraints) Validate() error {
	if c.Facing != FacingUser && c.Facing != FacingEnvironment {
		return fmt.Errorf("%w: facing mode %q", ErrInvalidConstraints, c.Facing)
	}
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConstraints, c.Width, c.Height)
	}
	if c.FrameRate == 0 {
		return fmt.Errorf("%w: frame rate 0", ErrInvalidConstraints)
	}
	return nil
}

// WithFacing returns a copy of the constraints with the facing mode replaced.
func (c Constraints) WithFacing(facing FacingMode) Constraints {
	c.Facing = facing
	return c
}
