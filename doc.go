// Package camloop implements a camera recording pipeline.
//
// camloop samples live camera frames into a drawing surface, applies
// per-frame color filtering and mirroring, records the encoded stream
// through a host media-encoding primitive, and assembles the result
// into a downloadable artifact. The package integrates all pipeline
// subsystems: device acquisition, the throttled frame renderer, the
// chunked recording buffer and the resource registry.
//
// # Getting Started
//
// Create a Recorder over the host's device provider and encoder
// factory, then drive it through its lifecycle:
//
//	rec, err := camloop.New(provider, encoders, camloop.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rec.Close()
//
//	if err := rec.StartPreview(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	rec.SetFilter(video.FilterState{
//	    Brightness: 110,
//	    Contrast:   100,
//	    Saturation: 100,
//	    Mirror:     true,
//	    Preset:     video.PresetNone,
//	})
//
//	_ = rec.StartRecording()
//	time.Sleep(10 * time.Second)
//	if _, err := rec.StopRecording(); err == nil {
//	    _ = rec.SaveArtifact("clip.webm")
//	}
//
// The Recorder is an explicit state machine (Idle, Previewing,
// Recording, Stopped). No pipeline error is fatal: failures surface
// through LastError and the recorder stays interactive so the caller
// may retry.
package camloop
