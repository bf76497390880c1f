package fx

import "errors"

// Package errors.
var (
	// ErrNilDevice is returned when a host or cache is given a nil device.
	ErrNilDevice = errors.New("fx: device is nil")

	// ErrNilHost is returned when an effect is constructed without a host.
	ErrNilHost = errors.New("fx: host is nil")

	// ErrNilContext is returned when an effect is applied to a nil context.
	ErrNilContext = errors.New("fx: context is nil")

	// ErrNilDescriptor is returned when a program descriptor is nil.
	ErrNilDescriptor = errors.New("fx: program descriptor is nil")

	// ErrOutOfRange is returned when a parameter value is outside its range.
	// Setters return a *RangeError that wraps it.
	ErrOutOfRange = errors.New("fx: parameter out of range")

	// ErrInvalidLayout is returned when a packed buffer type cannot be
	// uploaded as a constant buffer.
	ErrInvalidLayout = errors.New("fx: invalid constant buffer layout")

	// ErrMissingTexture is returned by Apply when a required texture is unset.
	ErrMissingTexture = errors.New("fx: required texture is not set")

	// ErrClosed is returned when a closed effect or host is used.
	ErrClosed = errors.New("fx: use of closed resource")

	// ErrUnknownParam is returned by ParamSet lookups for unknown names.
	ErrUnknownParam = errors.New("fx: unknown parameter")

	// ErrUnknownKind is returned when no program source exists for a kind.
	ErrUnknownKind = errors.New("fx: unknown effect kind")
)
