// Package video effect implementations.
//
// This file implements the per-frame color effects that back the
// filter expression terms: brightness, contrast and saturation in
// percent form plus the named presets.
package video

import (
	"fmt"
)

// Effect represents a color effect that can be applied to frames.
type Effect interface {
	// Apply processes a video frame and returns the modified frame
	Apply(frame *Frame) (*Frame, error)
	// GetName returns the effect name for identification
	GetName() string
}

// EffectChain manages multiple effects applied in sequence.
type EffectChain struct {
	effects []Effect
}

// NewEffectChain creates a new effect processing chain.
func NewEffectChain() *EffectChain {
	return &EffectChain{
		effects: make([]Effect, 0),
	}
}

// AddEffect adds an effect to the processing chain.
func (ec *EffectChain) AddEffect(effect Effect) {
	ec.effects = append(ec.effects, effect)
}

// Apply processes a frame through all effects in the chain.
func (ec *EffectChain) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	if len(ec.effects) == 0 {
		return frame.Clone(), nil
	}

	current := frame.Clone()
	for i, effect := range ec.effects {
		result, err := effect.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s) failed: %v", i, effect.GetName(), err)
		}
		current = result
	}

	return current, nil
}

// GetEffectCount returns the number of effects in the chain.
func (ec *EffectChain) GetEffectCount() int {
	return len(ec.effects)
}

// Clear removes all effects from the chain.
func (ec *EffectChain) Clear() {
	ec.effects = ec.effects[:0]
}

// ChainForState builds the effect chain matching a filter state.
// A neutral state yields an empty chain. Mirror is intentionally not
// part of the chain; it is handled as a geometric transform at draw
// time.
func ChainForState(state FilterState) *EffectChain {
	chain := NewEffectChain()
	if state.Brightness != NeutralPercent {
		chain.AddEffect(NewBrightnessEffect(state.Brightness))
	}
	if state.Contrast != NeutralPercent {
		chain.AddEffect(NewContrastEffect(state.Contrast))
	}
	if state.Saturation != NeutralPercent {
		chain.AddEffect(NewSaturationEffect(state.Saturation))
	}
	switch state.Preset {
	case PresetGrayscale:
		chain.AddEffect(NewGrayscaleEffect())
	case PresetSepia:
		chain.AddEffect(NewSepiaEffect())
	case PresetInvert:
		chain.AddEffect(NewInvertEffect())
	}
	return chain
}

// BrightnessEffect scales the luminance of video frames.
type BrightnessEffect struct {
	percent int // 0 = black, 100 = unchanged, 300 = maximum boost
}

// NewBrightnessEffect creates a brightness adjustment effect.
// percent: 0 (black) to 300 (brightest), 100 = no change
func NewBrightnessEffect(percent int) *BrightnessEffect {
	return &BrightnessEffect{
		percent: clampPercent(percent),
	}
}

// Apply scales the Y (luminance) plane by the configured percentage.
func (be *BrightnessEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	for i, pixel := range result.Y {
		newValue := int(pixel) * be.percent / 100

		if newValue > 255 {
			newValue = 255
		}

		result.Y[i] = byte(newValue)
	}

	return result, nil
}

// GetName returns the effect name.
func (be *BrightnessEffect) GetName() string {
	return fmt.Sprintf("Brightness(%d%%)", be.percent)
}

// ContrastEffect adjusts the contrast of video frames.
type ContrastEffect struct {
	percent int // 0 = flat gray, 100 = unchanged, 300 = maximum contrast
}

// NewContrastEffect creates a contrast adjustment effect.
// percent: 0 (flat gray) to 300 (high contrast), 100 = no change
func NewContrastEffect(percent int) *ContrastEffect {
	return &ContrastEffect{
		percent: clampPercent(percent),
	}
}

// Apply adjusts the Y (luminance) plane contrast around the midpoint.
func (ce *ContrastEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	const midpoint = 128.0
	factor := float64(ce.percent) / 100.0

	for i, pixel := range result.Y {
		newValue := midpoint + (float64(pixel)-midpoint)*factor

		if newValue < 0 {
			newValue = 0
		} else if newValue > 255 {
			newValue = 255
		}

		result.Y[i] = byte(newValue + 0.5) // Round to nearest
	}

	return result, nil
}

// GetName returns the effect name.
func (ce *ContrastEffect) GetName() string {
	return fmt.Sprintf("Contrast(%d%%)", ce.percent)
}

// SaturationEffect scales the chroma planes around the neutral point.
type SaturationEffect struct {
	percent int // 0 = grayscale, 100 = unchanged, 300 = oversaturated
}

// NewSaturationEffect creates a saturation adjustment effect.
// percent: 0 (grayscale) to 300 (oversaturated), 100 = no change
func NewSaturationEffect(percent int) *SaturationEffect {
	return &SaturationEffect{
		percent: clampPercent(percent),
	}
}

// Apply scales the U and V planes around the neutral chroma value.
func (se *SaturationEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	const neutral = 128.0
	factor := float64(se.percent) / 100.0

	scale := func(plane []byte) {
		for i, pixel := range plane {
			newValue := neutral + (float64(pixel)-neutral)*factor
			if newValue < 0 {
				newValue = 0
			} else if newValue > 255 {
				newValue = 255
			}
			plane[i] = byte(newValue + 0.5)
		}
	}
	scale(result.U)
	scale(result.V)

	return result, nil
}

// GetName returns the effect name.
func (se *SaturationEffect) GetName() string {
	return fmt.Sprintf("Saturation(%d%%)", se.percent)
}

// GrayscaleEffect converts frames to grayscale by zeroing chroma planes.
type GrayscaleEffect struct{}

// NewGrayscaleEffect creates a grayscale conversion effect.
func NewGrayscaleEffect() *GrayscaleEffect {
	return &GrayscaleEffect{}
}

// Apply converts the frame to grayscale by setting U and V to neutral.
func (ge *GrayscaleEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	for i := range result.U {
		result.U[i] = 128
	}
	for i := range result.V {
		result.V[i] = 128
	}

	return result, nil
}

// GetName returns the effect name.
func (ge *GrayscaleEffect) GetName() string {
	return "Grayscale"
}

// SepiaEffect applies a warm brown tone.
//
// Chroma is first flattened to grayscale, then biased toward the
// sepia tone point (U slightly blue-deficient, V slightly red-rich).
type SepiaEffect struct{}

// Sepia tone point in YUV chroma space.
const (
	sepiaU = 114
	sepiaV = 144
)

// NewSepiaEffect creates a sepia tone effect.
func NewSepiaEffect() *SepiaEffect {
	return &SepiaEffect{}
}

// Apply replaces the chroma planes with the sepia tone point.
func (se *SepiaEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	for i := range result.U {
		result.U[i] = sepiaU
	}
	for i := range result.V {
		result.V[i] = sepiaV
	}

	return result, nil
}

// GetName returns the effect name.
func (se *SepiaEffect) GetName() string {
	return "Sepia"
}

// InvertEffect produces a photographic negative.
type InvertEffect struct{}

// NewInvertEffect creates a color inversion effect.
func NewInvertEffect() *InvertEffect {
	return &InvertEffect{}
}

// Apply inverts all planes of the frame.
func (ie *InvertEffect) Apply(frame *Frame) (*Frame, error) {
	if frame == nil {
		return nil, fmt.Errorf("input frame cannot be nil")
	}

	result := frame.Clone()

	invert := func(plane []byte) {
		for i, pixel := range plane {
			plane[i] = 255 - pixel
		}
	}
	invert(result.Y)
	invert(result.U)
	invert(result.V)

	return result, nil
}

// GetName returns the effect name.
func (ie *InvertEffect) GetName() string {
	return "Invert"
}
