package audio

import (
	"math"
	"sync"

	"github.com/pion/opus"
	"github.com/sirupsen/logrus"
)

// decodeBufferSize holds up to 40ms of mono PCM at 48kHz.
const decodeBufferSize = 1920 * 2

// Level is one metering reading. Both values are normalized to [0, 1].
type Level struct {
	RMS  float64
	Peak float64
}

// LevelMeter computes input levels from Opus-encoded audio chunks.
type LevelMeter struct {
	decoder *opus.Decoder

	mu       sync.Mutex
	last     Level
	chunks   uint64
	failures uint64
}

// NewLevelMeter creates a meter with a fresh Opus decoder.
func NewLevelMeter() *LevelMeter {
	decoder := opus.NewDecoder()

	logrus.WithFields(logrus.Fields{
		"function": "NewLevelMeter",
		"decoder":  "opus.Decoder",
	}).Debug("Creating audio level meter")

	return &LevelMeter{
		decoder: &decoder,
	}
}

// ProcessChunk decodes one Opus chunk and returns its level reading.
// Undecodable chunks yield a zero reading; they are counted but do not
// return an error because metering must never break a recording.
func (m *LevelMeter) ProcessChunk(data []byte) Level {
	if len(data) == 0 {
		return m.record(Level{}, false)
	}

	output := make([]byte, decodeBufferSize)
	_, isStereo, err := m.decoder.Decode(data, output)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "ProcessChunk",
			"chunk_size": len(data),
			"error":      err.Error(),
		}).Debug("Opus decode failed, reporting silence")
		return m.record(Level{}, true)
	}

	sampleCount := len(output) / 2
	if isStereo {
		sampleCount /= 2
	}
	pcm := make([]int16, sampleCount)
	for i := 0; i < sampleCount; i++ {
		pcm[i] = int16(output[i*2]) | int16(output[i*2+1])<<8
	}

	return m.record(MeasurePCM(pcm), false)
}

// record stores the reading and updates counters.
func (m *LevelMeter) record(level Level, failed bool) Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = level
	m.chunks++
	if failed {
		m.failures++
	}
	return level
}

// Last returns the most recent reading.
func (m *LevelMeter) Last() Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Chunks returns how many chunks the meter has seen.
func (m *LevelMeter) Chunks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunks
}

// Failures returns how many chunks failed to decode.
func (m *LevelMeter) Failures() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

// Reset clears the reading and counters.
func (m *LevelMeter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = Level{}
	m.chunks = 0
	m.failures = 0
}

// MeasurePCM computes the RMS and peak level of raw PCM samples,
// normalized so a full-scale sine reads roughly 0.71 RMS and 1.0 peak.
func MeasurePCM(samples []int16) Level {
	if len(samples) == 0 {
		return Level{}
	}

	const fullScale = 32768.0
	var sumSquares float64
	var peak float64
	for _, s := range samples {
		v := math.Abs(float64(s)) / fullScale
		sumSquares += v * v
		if v > peak {
			peak = v
		}
	}
	return Level{
		RMS:  math.Sqrt(sumSquares / float64(len(samples))),
		Peak: peak,
	}
}
