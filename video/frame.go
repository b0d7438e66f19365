package video

import "fmt"

// Frame represents a video frame in YUV420 planar format.
type Frame struct {
	Width   uint16
	Height  uint16
	Y       []byte // Luminance plane
	U       []byte // Chrominance U plane
	V       []byte // Chrominance V plane
	YStride int
	UStride int
	VStride int
}

// NewFrame allocates a zeroed YUV420 frame of the given dimensions.
func NewFrame(width, height uint16) *Frame {
	ySize := int(width) * int(height)
	uvSize := int(width/2) * int(height/2)
	return &Frame{
		Width:   width,
		Height:  height,
		Y:       make([]byte, ySize),
		U:       make([]byte, uvSize),
		V:       make([]byte, uvSize),
		YStride: int(width),
		UStride: int(width) / 2,
		VStride: int(width) / 2,
	}
}

// Validate checks dimensions and plane sizes for YUV420 consistency.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("frame cannot be nil")
	}
	if f.Width == 0 || f.Height == 0 {
		return fmt.Errorf("invalid frame dimensions: %dx%d", f.Width, f.Height)
	}
	expectedY := int(f.Width) * int(f.Height)
	expectedUV := int(f.Width/2) * int(f.Height/2)
	if len(f.Y) < expectedY {
		return fmt.Errorf("Y plane too small: got %d, expected %d", len(f.Y), expectedY)
	}
	if len(f.U) < expectedUV {
		return fmt.Errorf("U plane too small: got %d, expected %d", len(f.U), expectedUV)
	}
	if len(f.V) < expectedUV {
		return fmt.Errorf("V plane too small: got %d, expected %d", len(f.V), expectedUV)
	}
	return nil
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	return &Frame{
		Width:   f.Width,
		Height:  f.Height,
		YStride: f.YStride,
		UStride: f.UStride,
		VStride: f.VStride,
		Y:       append([]byte(nil), f.Y...),
		U:       append([]byte(nil), f.U...),
		V:       append([]byte(nil), f.V...),
	}
}

// Mirrored returns a horizontally flipped copy of the frame.
func (f *Frame) Mirrored() *Frame {
	out := NewFrame(f.Width, f.Height)
	flipPlane(f.Y, out.Y, int(f.Width), int(f.Height))
	flipPlane(f.U, out.U, int(f.Width/2), int(f.Height/2))
	flipPlane(f.V, out.V, int(f.Width/2), int(f.Height/2))
	return out
}

// flipPlane reverses each row of src into dst.
func flipPlane(src, dst []byte, width, height int) {
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			dst[row+x] = src[row+width-1-x]
		}
	}
}
