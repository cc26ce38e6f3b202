package ddraw

import (
	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/surface"
)

// Surface is the engine's view of one legacy surface: the storage that
// owns its pixels, the modern resource derived from them, and its place
// in the attachment graph.
//
// Surfaces are created by Interface.Wrap, Interface.CreateSurface and
// by attachment discovery. They are reference counted like their legacy
// counterparts; the last Release frees the modern resource and every
// attached child whose only reference was the attachment.
type Surface struct {
	iface   *Interface
	id      uint64
	storage surface.Storage

	state MaterializationState
	res   Resource

	// device is the device identity res was created against.
	device backend.Device

	refs     int
	released bool

	// parent is set for next-mip and cube-face children. Depth-stencil
	// children may be shared and never record a parent.
	parent     *Surface
	parentRole Role
	edges      []edge

	lastUpload UploadStats
}

// ID returns the sequence number assigned when the surface was wrapped.
func (s *Surface) ID() uint64 { return s.id }

// Storage returns the legacy storage collaborator.
func (s *Surface) Storage() surface.Storage { return s.storage }

// Interface returns the owning interface.
func (s *Surface) Interface() *Interface { return s.iface }

// Descriptor returns the current legacy description.
func (s *Surface) Descriptor() surface.Descriptor { return s.storage.Describe() }

// State returns the materialization state.
func (s *Surface) State() MaterializationState {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.state
}

// Resource returns the modern resource backing the surface. The zero
// Resource is returned before materialization and after the device
// changed, until the next synchronization.
func (s *Surface) Resource() Resource {
	i := s.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	i.refreshReadLocked(s)
	return s.res
}

// LastUpload returns the statistics of the most recent upload into the
// surface's resource. Chain members report the upload of their root.
func (s *Surface) LastUpload() UploadStats {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.complexRoot().lastUpload
}

// Refs returns the current reference count.
func (s *Surface) Refs() int {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.refs
}

// AddRef adds a reference and returns the new count.
func (s *Surface) AddRef() int {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	if s.released {
		return 0
	}
	s.refs++
	return s.refs
}

// Release drops a reference and returns the remaining count. At zero the
// surface is destroyed.
func (s *Surface) Release() int {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.iface.releaseLocked(s)
}

// Released reports whether the surface has been destroyed.
func (s *Surface) Released() bool {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.released
}

func (i *Interface) releaseLocked(s *Surface) int {
	if s.released {
		return 0
	}
	s.refs--
	if s.refs > 0 {
		return s.refs
	}
	i.destroyLocked(s)
	return 0
}

// destroyLocked frees the resource, drops the reference each edge holds
// on its child and removes s from the registry.
func (i *Interface) destroyLocked(s *Surface) {
	if s.parent == nil {
		i.invalidateMembersLocked(s)
	}
	s.res.release()
	s.state = Uninitialized
	s.released = true
	s.refs = 0

	edges := s.edges
	s.edges = nil
	for _, e := range edges {
		if e.child.parent == s {
			e.child.parent = nil
		}
		i.releaseLocked(e.child)
	}
	if s.parent != nil {
		s.parent.removeEdgeLocked(s)
		s.parent = nil
	}
	if i.renderTarget == s {
		i.renderTarget = nil
	}
	delete(i.surfaces, s.storage)
	Logger().Debug("ddraw: surface destroyed", "surface", s.id)
}
