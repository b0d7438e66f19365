// Package memory tracks transient recording resources.
//
// A Registry accounts for every encoded chunk held in memory and every
// object URL handed out for an assembled recording. It is owned by a
// single Recorder instance rather than being process-global, so that
// teardown has one well-defined place to release everything.
//
// Example:
//
//	reg := memory.NewRegistry()
//	id := reg.RegisterChunk(len(chunk))
//	url := reg.CreateURL()
//	defer reg.Cleanup()
package memory
