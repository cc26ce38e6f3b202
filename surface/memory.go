// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"slices"
	"sync"
)

// defaultPitchAlignment is the legacy row alignment.
const defaultPitchAlignment = 4

// Option configures a Memory storage.
type Option func(*memoryOptions)

type memoryOptions struct {
	pitch     int
	alignment int
}

// WithPitch fixes the row pitch in bytes. It must be at least the
// tightly packed row size.
func WithPitch(pitch int) Option {
	return func(o *memoryOptions) {
		o.pitch = pitch
	}
}

// WithPitchAlignment rounds the computed row pitch up to a multiple of n
// bytes. Ignored when WithPitch is given.
func WithPitchAlignment(n int) Option {
	return func(o *memoryOptions) {
		if n > 0 {
			o.alignment = n
		}
	}
}

// Memory is a Storage backed by a Go byte slice.
//
// Locking is exclusive: a second lock before Unlock fails with
// ErrLocked, matching the legacy busy-surface behavior. Memory is safe
// for concurrent use.
type Memory struct {
	mu       sync.Mutex
	opts     memoryOptions
	desc     Descriptor
	pitch    int
	bits     []byte
	locked   bool
	dc       *DC
	attached []Storage
}

// NewMemory allocates a zeroed buffer for desc.
func NewMemory(desc Descriptor, opts ...Option) (*Memory, error) {
	o := memoryOptions{alignment: defaultPitchAlignment}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Memory{opts: o}
	if err := m.allocate(desc); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory) allocate(desc Descriptor) error {
	if desc.Width < 0 || desc.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidDescriptor, desc.Width, desc.Height)
	}
	if desc.IsEmpty() {
		m.desc, m.pitch, m.bits = desc, 0, nil
		return nil
	}
	minPitch := desc.MinPitch()
	if minPitch == 0 {
		return fmt.Errorf("%w: unknown pixel size", ErrInvalidDescriptor)
	}

	pitch := m.opts.pitch
	switch {
	case pitch == 0:
		a := m.opts.alignment
		pitch = (minPitch + a - 1) / a * a
	case pitch < minPitch:
		return fmt.Errorf("%w: pitch %d below row size %d", ErrInvalidDescriptor, pitch, minPitch)
	}

	m.desc = desc
	m.pitch = pitch
	m.bits = make([]byte, pitch*desc.Rows())
	return nil
}

// Describe returns the current descriptor.
func (m *Memory) Describe() Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.desc
}

// Pitch returns the row pitch in bytes.
func (m *Memory) Pitch() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitch
}

// IsLocked reports whether level 0 is currently locked.
func (m *Memory) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// LockForRead maps the level for reading.
func (m *Memory) LockForRead(level int) (Mapping, error) {
	return m.lock(level)
}

// LockForWrite maps the level for writing.
func (m *Memory) LockForWrite(level int) (Mapping, error) {
	return m.lock(level)
}

func (m *Memory) lock(level int) (Mapping, error) {
	if level > 0 {
		sub, err := m.subLevel(level)
		if err != nil {
			return Mapping{}, err
		}
		return sub.lock(0)
	}
	if level < 0 {
		return Mapping{}, ErrNoLevel
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return Mapping{}, ErrLocked
	}
	m.locked = true
	return Mapping{Bits: m.bits, Pitch: m.pitch, Width: m.desc.Width, Height: m.desc.Height}, nil
}

// Unlock releases a mapping of the level.
func (m *Memory) Unlock(level int) error {
	if level > 0 {
		sub, err := m.subLevel(level)
		if err != nil {
			return err
		}
		return sub.Unlock(0)
	}
	if level < 0 {
		return ErrNoLevel
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.locked {
		return ErrNotLocked
	}
	m.locked = false
	return nil
}

// subLevel follows level mip attachments.
func (m *Memory) subLevel(level int) (*Memory, error) {
	cur := m
	for range level {
		next := cur.nextMip()
		if next == nil {
			return nil, fmt.Errorf("%w: %d", ErrNoLevel, level)
		}
		cur = next
	}
	return cur, nil
}

func (m *Memory) nextMip() *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attached {
		c, ok := a.(*Memory)
		if !ok {
			continue
		}
		if c.Describe().Caps.Has(CapsMipMapSubLevel) {
			return c
		}
	}
	return nil
}

// Attachments returns the legacy attachment list.
func (m *Memory) Attachments() []Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.attached)
}

// Attach appends child to the legacy attachment list. Attaching the same
// child twice is a no-op.
func (m *Memory) Attach(child Storage) error {
	if child == nil || child == Storage(m) {
		return fmt.Errorf("%w: cannot attach to itself", ErrInvalidDescriptor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.attached, child) {
		m.attached = append(m.attached, child)
	}
	return nil
}

// Detach removes child from the legacy attachment list.
func (m *Memory) Detach(child Storage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.attached, child)
	if i < 0 {
		return ErrNotAttached
	}
	m.attached = slices.Delete(m.attached, i, i+1)
	return nil
}

// SetDescriptor replaces the descriptor and reallocates the buffer. The
// previous content is discarded.
func (m *Memory) SetDescriptor(desc Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return ErrLocked
	}
	old := m.opts.pitch
	if old != 0 && old < desc.MinPitch() {
		// A fixed pitch that no longer fits falls back to alignment.
		m.opts.pitch = 0
	}
	return m.allocate(desc)
}
