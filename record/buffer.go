package record

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/camloop/camloop/memory"
)

// MaxBufferedChunks is the soft cap on buffered chunk count. Once the
// buffer grows past it, compaction trims the oldest CompactionDrop
// chunks. With one-second timeslices this bounds memory to roughly the
// most recent quarter hour of encoded video.
const MaxBufferedChunks = 1000

// CompactionDrop is how many of the oldest chunks a compaction removes.
const CompactionDrop = 500

// ChunkBuffer accumulates encoded chunks emitted during a recording.
//
// Every kept chunk is registered with the memory registry so teardown
// can account for outstanding references. The buffer is consumed
// exactly once: Assemble concatenates and clears it.
type ChunkBuffer struct {
	registry *memory.Registry

	mu       sync.Mutex
	chunks   [][]byte
	ids      []string
	appended uint64
	trimmed  uint64
}

// NewChunkBuffer creates an empty buffer tracked by the given registry.
func NewChunkBuffer(registry *memory.Registry) *ChunkBuffer {
	return &ChunkBuffer{registry: registry}
}

// Append adds one encoded chunk. Empty chunks are ignored. When the
// buffer exceeds MaxBufferedChunks the oldest CompactionDrop chunks
// are dropped and released from the registry.
func (b *ChunkBuffer) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.chunks = append(b.chunks, chunk)
	b.ids = append(b.ids, b.registry.RegisterChunk(len(chunk)))
	b.appended++

	if len(b.chunks) > MaxBufferedChunks {
		b.compactLocked()
	}
}

// compactLocked trims the oldest CompactionDrop chunks. Caller holds b.mu.
func (b *ChunkBuffer) compactLocked() {
	drop := CompactionDrop
	if drop > len(b.chunks) {
		drop = len(b.chunks)
	}

	for _, id := range b.ids[:drop] {
		if err := b.registry.ReleaseChunk(id); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "compactLocked",
				"chunk_id": id,
				"error":    err.Error(),
			}).Warn("Failed to release trimmed chunk")
		}
	}

	b.chunks = append([][]byte(nil), b.chunks[drop:]...)
	b.ids = append([]string(nil), b.ids[drop:]...)
	b.trimmed += uint64(drop)

	logrus.WithFields(logrus.Fields{
		"function":  "compactLocked",
		"dropped":   drop,
		"remaining": len(b.chunks),
	}).Info("Chunk buffer compacted")
}

// Len returns the number of buffered chunks.
func (b *ChunkBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks)
}

// Trimmed returns how many chunks compaction has discarded.
func (b *ChunkBuffer) Trimmed() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trimmed
}

// Assemble concatenates all remaining chunks into one blob, releases
// their registry references and clears the buffer. An empty buffer
// assembles to an empty, valid blob.
func (b *ChunkBuffer) Assemble() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, chunk := range b.chunks {
		total += len(chunk)
	}

	blob := make([]byte, 0, total)
	for _, chunk := range b.chunks {
		blob = append(blob, chunk...)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Assemble",
		"chunks":    len(b.chunks),
		"blob_size": total,
	}).Info("Assembling recording blob")

	b.releaseLocked()
	return blob
}

// Reset discards all buffered chunks and their registry references.
func (b *ChunkBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.appended = 0
	b.trimmed = 0
}

// releaseLocked drops every chunk and its registry entry. Caller holds b.mu.
func (b *ChunkBuffer) releaseLocked() {
	for _, id := range b.ids {
		if err := b.registry.ReleaseChunk(id); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "releaseLocked",
				"chunk_id": id,
				"error":    err.Error(),
			}).Warn("Failed to release chunk")
		}
	}
	b.chunks = nil
	b.ids = nil
}
