package main

import (
	"context"
	"sync"
	"time"

	"github.com/camloop/camloop/capture"
	"github.com/camloop/camloop/record"
	"github.com/camloop/camloop/video"
)

// synthProvider is a stand-in device: permissions always granted,
// video tracks deliver animated gradient frames.
type synthProvider struct{}

func (*synthProvider) Acquire(_ context.Context, c capture.Constraints) (*capture.Stream, error) {
	tracks := []capture.Track{&synthTrack{
		kind:   capture.TrackVideo,
		width:  c.Width,
		height: c.Height,
	}}
	if c.Audio {
		tracks = append(tracks, &synthTrack{kind: capture.TrackAudio})
	}
	return &capture.Stream{Tracks: tracks}, nil
}

func (*synthProvider) Permissions(context.Context) (capture.PermissionState, capture.PermissionState, error) {
	return capture.PermissionGranted, capture.PermissionGranted, nil
}

type synthTrack struct {
	kind   capture.TrackKind
	width  uint16
	height uint16

	mu    sync.Mutex
	phase uint8
	done  bool
}

func (t *synthTrack) Kind() capture.TrackKind { return t.kind }

func (t *synthTrack) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
}

// ReadFrame produces a diagonal gradient that scrolls one step per
// frame so the preview visibly animates.
func (t *synthTrack) ReadFrame() (*video.Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.kind != capture.TrackVideo {
		return nil, nil
	}

	frame := video.NewFrame(t.width, t.height)
	w := int(t.width)
	for y := 0; y < int(t.height); y++ {
		for x := 0; x < w; x++ {
			frame.Y[y*w+x] = byte(x + y + int(t.phase))
		}
	}
	for i := range frame.U {
		frame.U[i] = byte(128 + int(t.phase)/2)
		frame.V[i] = byte(128 - int(t.phase)/2)
	}
	t.phase++
	return frame, nil
}

// ReadChunk emits a short pseudo-Opus payload so the level monitor has
// something to chew on. The meter degrades undecodable chunks to a
// zero reading, which is the honest answer for synthetic audio.
func (t *synthTrack) ReadChunk() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.kind != capture.TrackAudio {
		return nil, nil
	}
	t.phase++
	return []byte{0x78, t.phase, 0x01, 0x02}, nil
}

// synthFactory builds encoders that emit pseudo-encoded chunks sized
// from the configured bitrates.
type synthFactory struct{}

func (*synthFactory) Supported(mimeType string) bool {
	return mimeType == record.PreferredMimeType || mimeType == record.FallbackMimeType
}

func (*synthFactory) New(cfg record.EncoderConfig) (record.Encoder, error) {
	return &synthEncoder{
		mimeType:    cfg.MimeType,
		bytesPerSec: int(cfg.VideoBitRate+cfg.AudioBitRate) / 8,
	}, nil
}

type synthEncoder struct {
	mimeType    string
	bytesPerSec int

	mu     sync.Mutex
	onData func([]byte)
	stop   chan struct{}
	wg     sync.WaitGroup
	seed   uint32
}

func (e *synthEncoder) OnData(fn func([]byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onData = fn
}

func (e *synthEncoder) Start(timeslice time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		return record.ErrEncoderStart
	}
	e.seed = 0x9e3779b9
	e.stop = make(chan struct{})

	size := int(int64(e.bytesPerSec) * int64(timeslice) / int64(time.Second))
	if size < 1 {
		size = 1
	}

	e.wg.Add(1)
	go func(stop chan struct{}) {
		defer e.wg.Done()
		ticker := time.NewTicker(timeslice)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e.emit(size)
			}
		}
	}(e.stop)
	return nil
}

// Stop ends the emission loop and flushes one final partial chunk,
// mirroring how host encoders deliver trailing data on stop.
func (e *synthEncoder) Stop() error {
	e.mu.Lock()
	stop := e.stop
	e.stop = nil
	e.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	e.wg.Wait()
	e.emit(e.bytesPerSec / 10)
	return nil
}

func (e *synthEncoder) MimeType() string { return e.mimeType }

func (e *synthEncoder) emit(size int) {
	e.mu.Lock()
	onData := e.onData
	chunk := make([]byte, size)
	for i := range chunk {
		// xorshift32 keeps the payload incompressible-looking
		e.seed ^= e.seed << 13
		e.seed ^= e.seed >> 17
		e.seed ^= e.seed << 5
		chunk[i] = byte(e.seed)
	}
	e.mu.Unlock()
	if onData != nil {
		onData(chunk)
	}
}
