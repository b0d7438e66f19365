package record

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camloop/camloop/memory"
)

func TestChunkBuffer_AppendSkipsEmptyChunks(t *testing.T) {
	reg := memory.NewRegistry()
	buf := NewChunkBuffer(reg)

	buf.Append(nil)
	buf.Append([]byte{})
	buf.Append([]byte{1, 2, 3})

	assert.Equal(t, 1, buf.Len())
	assert.Equal(t, 1, reg.Chunks())
	assert.Equal(t, uint64(3), reg.TotalBytes())
}

func TestChunkBuffer_CompactionDropsOldestHalf(t *testing.T) {
	reg := memory.NewRegistry()
	buf := NewChunkBuffer(reg)

	// Fill one past the cap; each chunk carries its index.
	for i := 0; i < MaxBufferedChunks+1; i++ {
		buf.Append([]byte(fmt.Sprintf("chunk-%04d;", i)))
	}

	assert.Equal(t, MaxBufferedChunks+1-CompactionDrop, buf.Len())
	assert.Equal(t, uint64(CompactionDrop), buf.Trimmed())

	// Dropped chunks are no longer tracked by the registry.
	assert.Equal(t, buf.Len(), reg.Chunks())

	// The survivors are the newest chunks, in order.
	blob := buf.Assemble()
	assert.Contains(t, string(blob[:11]), fmt.Sprintf("chunk-%04d", CompactionDrop))
	assert.Contains(t, string(blob[len(blob)-11:]), fmt.Sprintf("chunk-%04d", MaxBufferedChunks))
}

func TestChunkBuffer_AssembleConcatenatesInOrder(t *testing.T) {
	reg := memory.NewRegistry()
	buf := NewChunkBuffer(reg)

	buf.Append([]byte("abc"))
	buf.Append([]byte("def"))
	buf.Append([]byte("ghi"))

	blob := buf.Assemble()
	assert.Equal(t, []byte("abcdefghi"), blob)

	// Assembly consumes the buffer and releases the registry refs.
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, reg.Chunks())
}

func TestChunkBuffer_AssembleEmpty(t *testing.T) {
	buf := NewChunkBuffer(memory.NewRegistry())

	blob := buf.Assemble()
	require.NotNil(t, blob)
	assert.Equal(t, 0, len(blob))
}

func TestChunkBuffer_ResetReleasesRegistry(t *testing.T) {
	reg := memory.NewRegistry()
	buf := NewChunkBuffer(reg)

	for i := 0; i < 10; i++ {
		buf.Append([]byte{byte(i)})
	}
	require.Equal(t, 10, reg.Chunks())

	buf.Reset()

	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, reg.Chunks())
	assert.Equal(t, uint64(0), reg.TotalBytes())
	assert.Equal(t, uint64(0), buf.Trimmed())
}
