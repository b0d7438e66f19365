package record

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/camloop/camloop/memory"
)

// Artifact is the final assembled recording: the blob, its size, a
// revocable object URL and a content digest for download integrity.
//
// An artifact with zero recorded chunks is still valid; its size is 0.
type Artifact struct {
	blob      []byte
	mimeType  string
	url       string
	digest    [blake2b.Size256]byte
	createdAt time.Time

	registry *memory.Registry
	revoked  bool
}

// NewArtifact wraps an assembled blob and mints its object URL.
func NewArtifact(blob []byte, mimeType string, registry *memory.Registry, createdAt time.Time) *Artifact {
	return &Artifact{
		blob:      blob,
		mimeType:  mimeType,
		url:       registry.CreateURL(),
		digest:    blake2b.Sum256(blob),
		createdAt: createdAt,
		registry:  registry,
	}
}

// Size returns the blob size in bytes.
func (a *Artifact) Size() int {
	return len(a.blob)
}

// MimeType returns the container type of the recording.
func (a *Artifact) MimeType() string {
	return a.mimeType
}

// URL returns the artifact's object URL, or empty after Revoke.
func (a *Artifact) URL() string {
	if a.revoked {
		return ""
	}
	return a.url
}

// Digest returns the BLAKE2b-256 digest of the blob.
func (a *Artifact) Digest() [blake2b.Size256]byte {
	return a.digest
}

// CreatedAt returns when the recording was assembled.
func (a *Artifact) CreatedAt() time.Time {
	return a.createdAt
}

// Revoked reports whether the artifact's URL has been released.
func (a *Artifact) Revoked() bool {
	return a.revoked
}

// WriteTo streams the blob, implementing io.WriterTo for downloads.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	if a.revoked {
		return 0, ErrArtifactRevoked
	}
	n, err := w.Write(a.blob)
	if err != nil {
		return int64(n), fmt.Errorf("artifact download failed: %w", err)
	}
	return int64(n), nil
}

// Save writes the blob to a file, the anchor-download equivalent.
func (a *Artifact) Save(path string) error {
	if a.revoked {
		return ErrArtifactRevoked
	}
	if err := os.WriteFile(path, a.blob, 0o644); err != nil {
		return fmt.Errorf("artifact download failed: %w", err)
	}
	return nil
}

// Revoke releases the artifact's object URL and drops the blob.
// Revoking twice is a no-op.
func (a *Artifact) Revoke() {
	if a.revoked {
		return
	}
	a.revoked = true
	// The registry may already have released the URL during Cleanup;
	// either way the blob is dropped.
	_ = a.registry.RevokeURL(a.url)
	a.blob = nil
}
