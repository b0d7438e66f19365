package record

import (
	"errors"
	"sync"
	"time"
)

// fakeEncoder emits whatever the test pushes through emit().
type fakeEncoder struct {
	mu       sync.Mutex
	mimeType string
	onData   func([]byte)
	started  bool
	stopped  bool

	startErr error
	stopErr  error
	// flushChunk, when set, is delivered during Stop.
	flushChunk []byte
}

func (e *fakeEncoder) OnData(fn func([]byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onData = fn
}

func (e *fakeEncoder) Start(time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.startErr != nil {
		return e.startErr
	}
	e.started = true
	return nil
}

func (e *fakeEncoder) Stop() error {
	e.mu.Lock()
	flush := e.flushChunk
	onData := e.onData
	e.stopped = true
	err := e.stopErr
	e.mu.Unlock()

	if flush != nil && onData != nil {
		onData(flush)
	}
	return err
}

func (e *fakeEncoder) MimeType() string {
	return e.mimeType
}

func (e *fakeEncoder) emit(chunk []byte) {
	e.mu.Lock()
	onData := e.onData
	e.mu.Unlock()
	if onData != nil {
		onData(chunk)
	}
}

// fakeFactory scripts which MIME types the host supports.
type fakeFactory struct {
	supported map[string]bool
	newErr    error

	mu      sync.Mutex
	created []*fakeEncoder
	lastCfg EncoderConfig
}

func (f *fakeFactory) Supported(mimeType string) bool {
	return f.supported[mimeType]
}

func (f *fakeFactory) New(cfg EncoderConfig) (Encoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newErr != nil {
		return nil, f.newErr
	}
	enc := &fakeEncoder{mimeType: cfg.MimeType}
	f.created = append(f.created, enc)
	f.lastCfg = cfg
	return enc, nil
}

func (f *fakeFactory) lastEncoder() *fakeEncoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

func allFormatsFactory() *fakeFactory {
	return &fakeFactory{supported: map[string]bool{
		PreferredMimeType: true,
		FallbackMimeType:  true,
	}}
}

var errEncoderBroken = errors.New("encoder broken")
