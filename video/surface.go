package video

import (
	"fmt"
	"sync"
)

// Surface is a drawing target for the renderer.
//
// It models the subset of a 2D drawing context the pipeline needs:
// sizing, drawing a frame with an optional horizontal mirror, and
// compositing the content of another surface. Implementations must be
// safe for use from the single render goroutine plus snapshot readers.
type Surface interface {
	// Size returns the current surface dimensions.
	Size() (width, height uint16)
	// Resize reallocates the surface backing store.
	Resize(width, height uint16)
	// Draw copies a frame onto the surface, optionally mirrored.
	Draw(frame *Frame, mirror bool) error
	// Composite copies the content of another surface onto this one.
	Composite(from Surface) error
	// Snapshot returns a deep copy of the current surface content,
	// or nil if nothing has been drawn yet.
	Snapshot() *Frame
}

// MemorySurface is an in-memory Surface implementation backed by a
// single YUV420 frame.
type MemorySurface struct {
	mu      sync.Mutex
	width   uint16
	height  uint16
	content *Frame
	draws   uint64
	resizes uint64
}

// NewMemorySurface creates an empty surface with no backing store.
// The first Resize allocates it.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

// Size returns the current surface dimensions.
func (s *MemorySurface) Size() (uint16, uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize reallocates the backing store for the new dimensions.
// Existing content is discarded.
func (s *MemorySurface) Resize(width, height uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
	s.content = nil
	s.resizes++
}

// Draw copies the frame onto the surface, mirrored when requested.
// Drawing a frame that does not match the surface dimensions is an
// error; the renderer resizes before drawing.
func (s *MemorySurface) Draw(frame *Frame, mirror bool) error {
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("cannot draw frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if frame.Width != s.width || frame.Height != s.height {
		return fmt.Errorf("frame size %dx%d does not match surface %dx%d",
			frame.Width, frame.Height, s.width, s.height)
	}

	if mirror {
		s.content = frame.Mirrored()
	} else {
		s.content = frame.Clone()
	}
	s.draws++
	return nil
}

// Composite copies another surface's content onto this one, resizing
// to match.
func (s *MemorySurface) Composite(from Surface) error {
	snapshot := from.Snapshot()
	if snapshot == nil {
		return fmt.Errorf("source surface has no content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.width = snapshot.Width
	s.height = snapshot.Height
	s.content = snapshot
	s.draws++
	return nil
}

// Snapshot returns a deep copy of the surface content, or nil when
// nothing has been drawn.
func (s *MemorySurface) Snapshot() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		return nil
	}
	return s.content.Clone()
}

// DrawCount returns how many draw or composite operations landed on
// the surface.
func (s *MemorySurface) DrawCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draws
}

// ResizeCount returns how many reallocations the surface performed.
func (s *MemorySurface) ResizeCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizes
}
