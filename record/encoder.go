package record

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Media types negotiated with the host encoding primitive.
const (
	// PreferredMimeType is the codec pair tried first.
	PreferredMimeType = "video/webm;codecs=vp9,opus"
	// FallbackMimeType is the generic container used when the
	// preferred codec pair is unsupported.
	FallbackMimeType = "video/webm"
)

// DefaultTimeslice is how often the encoder emits a chunk.
const DefaultTimeslice = time.Second

// Quality selects the recording bitrate tier.
type Quality int

const (
	// QualityLow is suitable for long recordings on constrained devices.
	QualityLow Quality = iota
	// QualityMedium balances size and fidelity.
	QualityMedium
	// QualityHigh maximizes fidelity.
	QualityHigh
)

// String returns the quality tier name.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown(%d)", int(q))
	}
}

// BitRates returns the video and audio bitrates for the tier in bits
// per second. Unknown tiers resolve to medium.
func (q Quality) BitRates() (video, audio uint32) {
	switch q {
	case QualityLow:
		return 1_000_000, 64_000
	case QualityHigh:
		return 5_000_000, 128_000
	default:
		return 2_500_000, 96_000
	}
}

// EncoderConfig is the configuration handed to the host encoder.
type EncoderConfig struct {
	MimeType     string
	VideoBitRate uint32
	AudioBitRate uint32
}

// Encoder is the host media-encoding primitive.
//
// Chunks are delivered asynchronously through the OnData callback.
// Callbacks are serialized by the host; the buffer append they drive
// does not need to be reentrant.
type Encoder interface {
	// OnData registers the chunk delivery callback. It must be set
	// before Start.
	OnData(func(chunk []byte))
	// Start begins encoding with the given chunk emission interval.
	Start(timeslice time.Duration) error
	// Stop ends encoding and flushes any pending chunk through the
	// callback before returning.
	Stop() error
	// MimeType returns the active container type.
	MimeType() string
}

// EncoderFactory creates host encoders and answers support queries.
type EncoderFactory interface {
	// Supported reports whether the host can encode the MIME type.
	Supported(mimeType string) bool
	// New creates an encoder for the configuration.
	New(cfg EncoderConfig) (Encoder, error)
}

// SelectMimeType picks the best supported recording format: the
// preferred codec pair when available, otherwise the generic
// container. ErrEncodingUnsupported is returned when neither works.
func SelectMimeType(factory EncoderFactory) (string, error) {
	if factory.Supported(PreferredMimeType) {
		return PreferredMimeType, nil
	}

	logrus.WithFields(logrus.Fields{
		"function":  "SelectMimeType",
		"preferred": PreferredMimeType,
		"fallback":  FallbackMimeType,
	}).Warn("Preferred codec pair unsupported, falling back to generic container")

	if factory.Supported(FallbackMimeType) {
		return FallbackMimeType, nil
	}
	return "", fmt.Errorf("%w: tried %q and %q",
		ErrEncodingUnsupported, PreferredMimeType, FallbackMimeType)
}
