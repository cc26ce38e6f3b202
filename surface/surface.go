// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
)

// Storage errors.
var (
	// ErrLocked is returned when locking a surface that is already locked.
	ErrLocked = errors.New("surface: already locked")

	// ErrNotLocked is returned by Unlock on a surface that is not locked.
	ErrNotLocked = errors.New("surface: not locked")

	// ErrNoLevel is returned when a mip level does not exist.
	ErrNoLevel = errors.New("surface: no such mip level")

	// ErrInvalidDescriptor is returned for descriptors that cannot be stored.
	ErrInvalidDescriptor = errors.New("surface: invalid descriptor")

	// ErrDCActive is returned when a device context is already handed out.
	ErrDCActive = errors.New("surface: device context already active")

	// ErrUnsupportedFormat is returned when pixels cannot be converted.
	ErrUnsupportedFormat = errors.New("surface: unsupported pixel format")

	// ErrNotAttached is returned by Detach for a storage that is not attached.
	ErrNotAttached = errors.New("surface: not attached")

	// ErrIncompatible is returned when copying between mismatched storages.
	ErrIncompatible = errors.New("surface: incompatible surfaces")
)

// Mapping is a locked view of a legacy pixel buffer. Bits is valid
// until the matching Unlock.
type Mapping struct {
	Bits   []byte
	Pitch  int
	Width  int
	Height int
}

// Row returns row y of the mapping, Pitch bytes long or shorter for the
// last row.
func (m Mapping) Row(y int) []byte {
	start := y * m.Pitch
	end := min(start+m.Pitch, len(m.Bits))
	return m.Bits[start:end]
}

// Storage is a legacy-resident pixel buffer. Implementations own the
// memory; callers never allocate or free it.
//
// Level selects a mip level of the chain rooted at this storage. Level
// 0 is the storage itself.
type Storage interface {
	// LockForRead maps the level for reading.
	LockForRead(level int) (Mapping, error)

	// LockForWrite maps the level for writing.
	LockForWrite(level int) (Mapping, error)

	// Unlock releases a mapping obtained from either lock call.
	Unlock(level int) error

	// Describe returns the current descriptor.
	Describe() Descriptor
}

// AttachmentLister is implemented by storages that track the legacy
// side of their attachment list.
type AttachmentLister interface {
	Storage

	// Attachments returns the storages attached to this one, in
	// attachment order.
	Attachments() []Storage
}

// Linker is implemented by storages whose legacy attachment list can be
// edited.
type Linker interface {
	AttachmentLister

	Attach(child Storage) error
	Detach(child Storage) error
}

// Resizer is implemented by storages that accept a new descriptor.
// Existing content is discarded.
type Resizer interface {
	Storage

	SetDescriptor(desc Descriptor) error
}

// DCProvider is implemented by storages that hand out a device context,
// a drawable view of level 0 that stays valid until released.
type DCProvider interface {
	Storage

	GetDC() (*DC, error)
	ReleaseDC(dc *DC) error
}

// Snapshotter is implemented by storages that can copy their content
// into an image.
type Snapshotter interface {
	Snapshot() (*image.NRGBA, error)
}
