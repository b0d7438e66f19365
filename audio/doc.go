// Package audio provides input level metering for recordings.
//
// The recording pipeline captures Opus-encoded audio alongside video.
// A LevelMeter decodes those chunks to PCM (pion/opus, pure Go) and
// reports RMS and peak levels in [0, 1] for the live input indicator.
// Metering is advisory: a chunk that fails to decode produces a zero
// reading and never fails the recording itself.
package audio
