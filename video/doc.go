// Package video implements the preview frame pipeline.
//
// The pipeline samples frames from a capture source, applies the
// configured color filters and mirror transform, and presents the
// result on a drawing surface:
//
//	Source → (mirror) → Effects → Surface
//
// Color work never touches the visible surface directly: when any
// filter is non-neutral the frame is staged on an off-screen surface
// first and composited afterwards. The loop is throttled to a target
// frame rate via a timer-gated reschedule and measures the achieved
// rate over one-second windows.
package video
