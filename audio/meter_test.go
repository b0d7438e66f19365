package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurePCM_Silence(t *testing.T) {
	samples := make([]int16, 960)
	level := MeasurePCM(samples)

	assert.Equal(t, 0.0, level.RMS)
	assert.Equal(t, 0.0, level.Peak)
}

func TestMeasurePCM_Empty(t *testing.T) {
	level := MeasurePCM(nil)
	assert.Equal(t, Level{}, level)
}

func TestMeasurePCM_FullScaleSine(t *testing.T) {
	samples := make([]int16, 4800)
	for i := range samples {
		samples[i] = int16(32767 * math.Sin(2*math.Pi*float64(i)/48))
	}

	level := MeasurePCM(samples)

	assert.InDelta(t, 1.0/math.Sqrt2, level.RMS, 0.02)
	assert.InDelta(t, 1.0, level.Peak, 0.01)
}

func TestMeasurePCM_DCOffset(t *testing.T) {
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = 16384 // half scale
	}

	level := MeasurePCM(samples)

	assert.InDelta(t, 0.5, level.RMS, 0.001)
	assert.InDelta(t, 0.5, level.Peak, 0.001)
}

func TestMeasurePCM_NegativePeak(t *testing.T) {
	samples := []int16{0, 0, -32768, 0}
	level := MeasurePCM(samples)

	assert.InDelta(t, 1.0, level.Peak, 0.001)
}

func TestLevelMeter_EmptyChunk(t *testing.T) {
	meter := NewLevelMeter()

	level := meter.ProcessChunk(nil)

	assert.Equal(t, Level{}, level)
	assert.Equal(t, uint64(1), meter.Chunks())
	assert.Equal(t, uint64(0), meter.Failures())
}

func TestLevelMeter_GarbageChunkReportsSilence(t *testing.T) {
	meter := NewLevelMeter()

	// Not a valid Opus packet; metering must degrade, not fail.
	level := meter.ProcessChunk([]byte{0xde, 0xad, 0xbe, 0xef})

	assert.Equal(t, Level{}, level)
	assert.Equal(t, uint64(1), meter.Chunks())
	assert.Equal(t, uint64(1), meter.Failures())
	assert.Equal(t, Level{}, meter.Last())
}

func TestLevelMeter_Reset(t *testing.T) {
	meter := NewLevelMeter()
	meter.ProcessChunk(nil)
	meter.ProcessChunk([]byte{0x01})
	require.NotZero(t, meter.Chunks())

	meter.Reset()

	assert.Equal(t, uint64(0), meter.Chunks())
	assert.Equal(t, uint64(0), meter.Failures())
	assert.Equal(t, Level{}, meter.Last())
}
