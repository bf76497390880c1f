package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNilDevice is returned when a device or queue is nil.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNoHALProvider is returned when a device provider does not expose HAL types.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL device and queue")

	// ErrForeignResource is returned when a resource from another backend or
	// device is bound.
	ErrForeignResource = errors.New("native: resource belongs to another device")

	// ErrUnboundSlot is returned by Draw when the program expects a resource
	// at a slot nothing was bound to.
	ErrUnboundSlot = errors.New("native: slot not bound")

	// ErrNoProgram is returned by Draw before SetProgram.
	ErrNoProgram = errors.New("native: no program bound")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")

	// ErrTooManySlots is returned when a program layout exceeds the slot limits.
	ErrTooManySlots = errors.New("native: too many texture or sampler slots")

	// ErrFrameEnded is returned when an ended frame is used.
	ErrFrameEnded = errors.New("native: frame already ended")
)
