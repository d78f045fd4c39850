// Package amp provides the guitar head and cabinet unit registered under the
// component code "dlrh".
//
// The unit is a generic chain built from standard primitives:
//
//	pre gain -> 3-band EQ -> waveshaper -> cabinet IR -> post gain
//
// Gains and drive ramp over the unit's ramp duration when written through
// the parameter tree; direct SetParameter writes jump. A stopped unit
// passes its input through unchanged.
//
// Importing the package registers the unit in unit.Default:
//
//	import _ "github.com/cwbudde/algo-rhino/dsp/amp"
package amp
