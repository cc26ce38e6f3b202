package ddraw

import "github.com/gogpu/ddraw/surface"

// refreshLocked compares the device identity cached on s with the
// active device. On a change every resource of s is released, s moves
// from Materialized to Invalidated, and the new identity is cached. It
// reports whether the identity changed.
//
// It must run before anything reads s.res.
func (i *Interface) refreshLocked(s *Surface) bool {
	if s.device == i.device {
		return false
	}
	if s.state == Materialized || !s.res.IsNone() {
		i.invalidateMembersLocked(s)
		s.res.release()
		s.state = Invalidated
		Logger().Info("ddraw: device changed, resource invalidated", "surface", s.id)
	}
	s.device = i.device
	return true
}

// refreshReadLocked runs the identity check for the complex of s so a
// read after SetDevice never returns a handle from the old device.
func (i *Interface) refreshReadLocked(s *Surface) {
	root := s.complexRoot()
	i.refreshLocked(root)
	if s != root {
		i.refreshLocked(s)
	}
}

// resetComplexLocked releases the resource of the complex containing s
// and returns its members to Uninitialized. The next synchronization
// materializes the complex again from the current graph.
func (i *Interface) resetComplexLocked(s *Surface) {
	root := s.complexRoot()
	if root.state != Materialized && root.res.IsNone() {
		return
	}
	i.forEachMemberLocked(root, func(m *Surface, _, _ int) {
		if m == root {
			return
		}
		m.res.release()
		m.state = Uninitialized
	})
	root.res.release()
	root.state = Uninitialized
	Logger().Info("ddraw: complex changed, resource released", "surface", root.id)
}

// invalidateMembersLocked clears the resources chain members of root
// borrowed from it.
func (i *Interface) invalidateMembersLocked(root *Surface) {
	i.forEachMemberLocked(root, func(m *Surface, _, _ int) {
		if m == root || !m.res.borrowed {
			return
		}
		m.res = Resource{}
		if m.state == Materialized {
			m.state = Invalidated
		}
	})
}

// forEachMemberLocked calls fn for every surface of the complex rooted
// at root with its cube face and mip level. Only graph edges are
// followed.
func (i *Interface) forEachMemberLocked(root *Surface, fn func(m *Surface, face, level int)) {
	faces := 1
	if root.storage.Describe().Caps.Has(surface.CapsCubeMap) {
		faces = 6
	}
	for face := range faces {
		fr := root
		if face > 0 {
			fr = root.childLocked(RoleCubeFace, face)
		}
		level := 0
		for cur := fr; cur != nil && level < MaxMipLevels; cur = cur.childLocked(RoleNextMip, 0) {
			fn(cur, face, level)
			level++
		}
	}
}
