package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterState_NeutralExpression(t *testing.T) {
	state := DefaultFilterState()
	assert.True(t, state.IsNeutral())
	assert.Equal(t, NeutralExpression, state.Expression())
}

func TestFilterState_SingleTermExpressions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FilterState)
		expect string
	}{
		{
			name:   "brightness only",
			mutate: func(s *FilterState) { s.Brightness = 120 },
			expect: "brightness(120%)",
		},
		{
			name:   "contrast only",
			mutate: func(s *FilterState) { s.Contrast = 80 },
			expect: "contrast(80%)",
		},
		{
			name:   "saturation only",
			mutate: func(s *FilterState) { s.Saturation = 150 },
			expect: "saturate(150%)",
		},
		{
			name:   "grayscale preset only",
			mutate: func(s *FilterState) { s.Preset = PresetGrayscale },
			expect: "grayscale(1)",
		},
		{
			name:   "sepia preset only",
			mutate: func(s *FilterState) { s.Preset = PresetSepia },
			expect: "sepia(1)",
		},
		{
			name:   "invert preset only",
			mutate: func(s *FilterState) { s.Preset = PresetInvert },
			expect: "invert(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := DefaultFilterState()
			tt.mutate(&state)

			assert.False(t, state.IsNeutral())
			assert.Equal(t, tt.expect, state.Expression())
		})
	}
}

func TestFilterState_CombinedExpression(t *testing.T) {
	state := FilterState{
		Brightness: 110,
		Contrast:   90,
		Saturation: 200,
		Preset:     PresetSepia,
	}
	assert.Equal(t, "brightness(110%) contrast(90%) saturate(200%) sepia(1)", state.Expression())
}

func TestFilterState_MirrorDoesNotAffectExpression(t *testing.T) {
	state := DefaultFilterState()
	state.Mirror = true

	assert.True(t, state.IsNeutral())
	assert.Equal(t, NeutralExpression, state.Expression())
}

func TestFilterState_Clamp(t *testing.T) {
	state := FilterState{Brightness: -20, Contrast: 500, Saturation: 100}
	clamped := state.Clamp()

	assert.Equal(t, 0, clamped.Brightness)
	assert.Equal(t, 300, clamped.Contrast)
	assert.Equal(t, 100, clamped.Saturation)
	assert.Equal(t, PresetNone, clamped.Preset)
}
