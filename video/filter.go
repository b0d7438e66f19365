package video

import (
	"fmt"
	"strings"
)

// FilterPreset names a built-in color filter.
type FilterPreset string

const (
	// PresetNone applies no named filter.
	PresetNone FilterPreset = "none"
	// PresetGrayscale removes all chroma.
	PresetGrayscale FilterPreset = "grayscale"
	// PresetSepia applies a warm brown tone.
	PresetSepia FilterPreset = "sepia"
	// PresetInvert inverts luminance and chroma.
	PresetInvert FilterPreset = "invert"
)

// NeutralPercent is the default for brightness, contrast and saturation.
const NeutralPercent = 100

// NeutralExpression is the filter expression when no filter is active.
const NeutralExpression = "none"

// FilterState is the pure value object describing the active filters.
//
// Brightness, Contrast and Saturation are percentages where 100 means
// unchanged. Mirror is a geometric transform, not a color filter: it
// never contributes to the expression and never forces the off-screen
// staging path on its own.
type FilterState struct {
	Brightness int
	Contrast   int
	Saturation int
	Mirror     bool
	Preset     FilterPreset
}

// DefaultFilterState returns the neutral filter configuration.
func DefaultFilterState() FilterState {
	return FilterState{
		Brightness: NeutralPercent,
		Contrast:   NeutralPercent,
		Saturation: NeutralPercent,
		Preset:     PresetNone,
	}
}

// IsNeutral reports whether no color filter is active.
func (s FilterState) IsNeutral() bool {
	return s.Brightness == NeutralPercent &&
		s.Contrast == NeutralPercent &&
		s.Saturation == NeutralPercent &&
		(s.Preset == PresetNone || s.Preset == "")
}

// Expression composes the filter expression string consumed by the
// drawing surface. Only non-default values contribute a term; a fully
// neutral state yields NeutralExpression.
func (s FilterState) Expression() string {
	var terms []string
	if s.Brightness != NeutralPercent {
		terms = append(terms, fmt.Sprintf("brightness(%d%%)", s.Brightness))
	}
	if s.Contrast != NeutralPercent {
		terms = append(terms, fmt.Sprintf("contrast(%d%%)", s.Contrast))
	}
	if s.Saturation != NeutralPercent {
		terms = append(terms, fmt.Sprintf("saturate(%d%%)", s.Saturation))
	}
	switch s.Preset {
	case PresetGrayscale:
		terms = append(terms, "grayscale(1)")
	case PresetSepia:
		terms = append(terms, "sepia(1)")
	case PresetInvert:
		terms = append(terms, "invert(1)")
	}
	if len(terms) == 0 {
		return NeutralExpression
	}
	return strings.Join(terms, " ")
}

// Clamp returns a copy with all percentages forced into [0, 300].
func (s FilterState) Clamp() FilterState {
	s.Brightness = clampPercent(s.Brightness)
	s.Contrast = clampPercent(s.Contrast)
	s.Saturation = clampPercent(s.Saturation)
	if s.Preset == "" {
		s.Preset = PresetNone
	}
	return s
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 300 {
		return 300
	}
	return v
}
