package memory

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndReleaseChunk(t *testing.T) {
	reg := NewRegistry()

	id1 := reg.RegisterChunk(1024)
	id2 := reg.RegisterChunk(2048)
	require.NotEqual(t, id1, id2)

	assert.Equal(t, 2, reg.Chunks())
	assert.Equal(t, uint64(3072), reg.TotalBytes())

	require.NoError(t, reg.ReleaseChunk(id1))
	assert.Equal(t, 1, reg.Chunks())
	assert.Equal(t, uint64(2048), reg.TotalBytes())
}

func TestRegistry_ReleaseUnknownChunk(t *testing.T) {
	reg := NewRegistry()

	err := reg.ReleaseChunk("no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownChunk)
}

func TestRegistry_CreateAndRevokeURL(t *testing.T) {
	reg := NewRegistry()

	url := reg.CreateURL()
	assert.True(t, strings.HasPrefix(url, URLScheme))
	assert.Equal(t, 1, reg.URLs())

	require.NoError(t, reg.RevokeURL(url))
	assert.Equal(t, 0, reg.URLs())

	// Double revoke is an error, not a panic.
	err := reg.RevokeURL(url)
	assert.ErrorIs(t, err, ErrUnknownURL)
}

func TestRegistry_CleanupReleasesEverything(t *testing.T) {
	reg := NewRegistry()

	for i := 0; i < 10; i++ {
		reg.RegisterChunk(100)
	}
	urls := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		urls = append(urls, reg.CreateURL())
	}

	reg.Cleanup()

	assert.Equal(t, 0, reg.Chunks())
	assert.Equal(t, 0, reg.URLs())
	assert.Equal(t, uint64(0), reg.TotalBytes())

	// Nothing created before cleanup survives it.
	for _, url := range urls {
		assert.ErrorIs(t, reg.RevokeURL(url), ErrUnknownURL)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := reg.RegisterChunk(64)
				if j%2 == 0 {
					_ = reg.ReleaseChunk(id)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, reg.Chunks())
	assert.Equal(t, uint64(400*64), reg.TotalBytes())
}
