package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnknownChunk indicates a release for a chunk id the registry does not track.
var ErrUnknownChunk = errors.New("chunk not tracked by registry")

// ErrUnknownURL indicates a revoke for a URL the registry did not create.
var ErrUnknownURL = errors.New("url not tracked by registry")

// URLScheme prefixes every object URL the registry creates.
// It mirrors the blob: scheme used by browser object URLs.
const URLScheme = "blob:"

// Registry accounts for outstanding chunk references and object URLs.
//
// All methods are safe for concurrent use. The registry never frees
// the underlying bytes itself; it only tracks what is alive so that
// Cleanup can verify and release every reference at teardown.
type Registry struct {
	mu     sync.Mutex
	chunks map[string]int // chunk id -> byte size
	urls   map[string]bool
	bytes  uint64
}

// NewRegistry creates an empty resource registry.
func NewRegistry() *Registry {
	return &Registry{
		chunks: make(map[string]int),
		urls:   make(map[string]bool),
	}
}

// RegisterChunk records a chunk of the given byte size and returns its id.
func (r *Registry) RegisterChunk(size int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.chunks[id] = size
	r.bytes += uint64(size)
	return id
}

// ReleaseChunk drops a tracked chunk reference.
func (r *Registry) ReleaseChunk(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	size, ok := r.chunks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChunk, id)
	}
	delete(r.chunks, id)
	r.bytes -= uint64(size)
	return nil
}

// CreateURL mints a new revocable object URL.
func (r *Registry) CreateURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	url := URLScheme + uuid.NewString()
	r.urls[url] = true

	logrus.WithFields(logrus.Fields{
		"function": "CreateURL",
		"url":      url,
	}).Debug("Object URL created")

	return url
}

// RevokeURL releases an object URL created by this registry.
// Revoking an already revoked URL returns ErrUnknownURL.
func (r *Registry) RevokeURL(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.urls[url] {
		return fmt.Errorf("%w: %s", ErrUnknownURL, url)
	}
	delete(r.urls, url)

	logrus.WithFields(logrus.Fields{
		"function": "RevokeURL",
		"url":      url,
	}).Debug("Object URL revoked")

	return nil
}

// Chunks returns the number of chunk references currently tracked.
func (r *Registry) Chunks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

// TotalBytes returns the total byte size of all tracked chunks.
func (r *Registry) TotalBytes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bytes
}

// URLs returns the number of outstanding object URLs.
func (r *Registry) URLs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.urls)
}

// Cleanup revokes every outstanding URL and drops every chunk reference.
// It is called during Recorder teardown, after timers are cancelled and
// device tracks are stopped.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "Cleanup",
		"chunk_refs":   len(r.chunks),
		"url_handles":  len(r.urls),
		"tracked_size": r.bytes,
	}).Info("Releasing all tracked recording resources")

	r.chunks = make(map[string]int)
	r.urls = make(map[string]bool)
	r.bytes = 0
}
