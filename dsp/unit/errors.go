package unit

import "errors"

// Errors returned by the host layer.
var (
	ErrInvalidFourCC      = errors.New("unit: invalid four-character code")
	ErrUnknownComponent   = errors.New("unit: unknown component")
	ErrDuplicateComponent = errors.New("unit: duplicate component")
	ErrDuplicateParameter = errors.New("unit: duplicate parameter")
	ErrUnknownParameter   = errors.New("unit: unknown parameter")
	ErrNotAllocated       = errors.New("unit: render resources not allocated")
	ErrChannelMismatch    = errors.New("unit: channel count mismatch")
	ErrQueueClosed        = errors.New("unit: queue closed")
	ErrNilNode            = errors.New("unit: nil node")
	ErrCycle              = errors.New("unit: connection would create a cycle")
)
