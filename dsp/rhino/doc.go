// Package rhino provides GuitarProcessor, the node that binds the six
// controls of the "dlrh" guitar head and cabinet unit to plain properties.
//
// The node does no signal processing itself. It instantiates the unit from
// a unit.Registry, forwards property writes to it and mirrors changes made
// through the unit's parameter tree by anyone else (automation, another
// editor) back into its properties on a notification queue.
//
// Before the unit has allocated render resources, property writes are set
// on the unit directly. Afterwards they go through the parameter tree, where
// the unit ramps them over RampDuration. Writing the current value again
// forwards nothing.
package rhino
