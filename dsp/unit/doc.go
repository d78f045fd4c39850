// Package unit is the in-process audio-unit host that effect nodes plug into.
//
// It provides the pieces a node needs to locate and drive a processing unit
// it does not own:
//
//   - FourCC component codes and a Registry that instantiates units by code.
//   - Tree, the addressable parameter registry of a unit, with observer
//     tokens so that a writer is not notified of its own changes.
//   - Queue, a serial callback queue used to marshal parameter
//     notifications onto one goroutine.
//   - Ramp, the linear smoother units use to apply parameter changes over
//     the configured ramp duration.
//   - Node and Input, the pull-model render graph, plus simple sources.
//
// Units register themselves into Default from an init function, so importing
// an effect package for its side effects makes its code resolvable:
//
//	import _ "github.com/cwbudde/algo-rhino/dsp/amp"
package unit
