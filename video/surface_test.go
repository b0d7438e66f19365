package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_Validate(t *testing.T) {
	assert.NoError(t, NewFrame(160, 120).Validate())

	var nilFrame *Frame
	assert.Error(t, nilFrame.Validate())
	assert.Error(t, (&Frame{}).Validate())

	short := NewFrame(160, 120)
	short.Y = short.Y[:10]
	assert.Error(t, short.Validate())
}

func TestFrame_CloneIsDeep(t *testing.T) {
	frame := createTestFrame(16, 16)
	clone := frame.Clone()

	clone.Y[0] = ^clone.Y[0]
	assert.NotEqual(t, frame.Y[0], clone.Y[0])
}

func TestFrame_MirroredTwiceIsIdentity(t *testing.T) {
	frame := createTestFrame(16, 16)
	back := frame.Mirrored().Mirrored()

	assert.Equal(t, frame.Y, back.Y)
	assert.Equal(t, frame.U, back.U)
	assert.Equal(t, frame.V, back.V)
}

func TestMemorySurface_DrawRequiresMatchingSize(t *testing.T) {
	surface := NewMemorySurface()
	surface.Resize(160, 120)

	err := surface.Draw(NewFrame(320, 240), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match surface")
}

func TestMemorySurface_SnapshotBeforeDraw(t *testing.T) {
	surface := NewMemorySurface()
	assert.Nil(t, surface.Snapshot())
}

func TestMemorySurface_CompositeEmptySource(t *testing.T) {
	target := NewMemorySurface()
	err := target.Composite(NewMemorySurface())
	assert.Error(t, err)
}

func TestMemorySurface_Composite(t *testing.T) {
	from := NewMemorySurface()
	from.Resize(16, 16)
	require.NoError(t, from.Draw(createTestFrame(16, 16), false))

	target := NewMemorySurface()
	require.NoError(t, target.Composite(from))

	w, h := target.Size()
	assert.Equal(t, uint16(16), w)
	assert.Equal(t, uint16(16), h)

	snapshot := target.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, from.Snapshot().Y, snapshot.Y)
}
