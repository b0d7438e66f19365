// Package record accumulates encoded video into a downloadable artifact.
//
// The host encoding primitive sits behind the Encoder interface and
// delivers binary chunks through a callback. A ChunkBuffer collects
// the chunks, trimming its oldest half once a soft cap is exceeded so
// long recordings cannot grow memory without bound. Stopping a
// Session concatenates whatever remains into a single Artifact with a
// revocable object URL and a content digest.
package record
