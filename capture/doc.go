// Package capture handles camera and microphone acquisition.
//
// The host's media stack is abstracted behind the DeviceProvider
// interface so the pipeline can run against real devices or test
// fakes. Acquisition applies the requested Constraints, classifies
// permission failures via the provider's permission query, and
// performs at most one bounded retry when access was neither granted
// nor explicitly denied yet.
//
// A successful acquisition yields a Session owning the live tracks.
// Session.Stop is idempotent and releases every track exactly once.
package capture
