package ddraw

import "errors"

// Errors returned by the surface engine. Backend and storage errors are
// wrapped, so errors.Is matches both the sentinel and the cause.
var (
	// ErrInvalidParams is returned for nil or out-of-range arguments.
	ErrInvalidParams = errors.New("ddraw: invalid parameters")

	// ErrNotWrapped is returned for storages this interface has not wrapped.
	ErrNotWrapped = errors.New("ddraw: surface not wrapped")

	// ErrAlreadyAttached is returned when a parent already has a next-mip
	// or depth-stencil child, or the child is already attached.
	ErrAlreadyAttached = errors.New("ddraw: surface already attached")

	// ErrNotAttached is returned when detaching or querying a child that
	// is not attached.
	ErrNotAttached = errors.New("ddraw: surface not attached")

	// ErrAttachmentCycle is returned when an attachment would make a
	// surface its own descendant.
	ErrAttachmentCycle = errors.New("ddraw: attachment cycle")

	// ErrResourceCreation wraps device errors raised while materializing.
	ErrResourceCreation = errors.New("ddraw: resource creation failed")

	// ErrReleased is returned when using a surface after its last Release.
	ErrReleased = errors.New("ddraw: surface released")

	// ErrIncompatibleFormat is returned when two surfaces cannot exchange
	// pixels.
	ErrIncompatibleFormat = errors.New("ddraw: incompatible format")

	// ErrNoRenderTarget is returned when binding a surface that cannot be
	// rendered to.
	ErrNoRenderTarget = errors.New("ddraw: surface is not a render target")

	// ErrInvalidStage is returned for texture stages outside [0, MaxTextureStages).
	ErrInvalidStage = errors.New("ddraw: invalid texture stage")

	// ErrUnsupported is returned when the storage lacks an optional capability.
	ErrUnsupported = errors.New("ddraw: operation not supported by surface storage")
)
