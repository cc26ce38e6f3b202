package ddraw

import (
	"fmt"
	"slices"

	"github.com/gogpu/ddraw/surface"
)

// Role is the relationship an attachment edge expresses.
type Role int

// Attachment roles.
const (
	RoleGeneric Role = iota
	RoleNextMip
	RoleDepthStencil
	RoleCubeFace
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleGeneric:
		return "generic"
	case RoleNextMip:
		return "next-mip"
	case RoleDepthStencil:
		return "depth-stencil"
	case RoleCubeFace:
		return "cube-face"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// edge is one parent to child attachment. Each edge holds one
// reference on its child.
type edge struct {
	child *Surface
	role  Role
	face  int
}

// roleFor classifies a child by its caps relative to its parent.
func roleFor(parent, child surface.Descriptor) (Role, int) {
	switch {
	case child.Caps.Has(surface.CapsZBuffer):
		return RoleDepthStencil, 0
	case child.Caps.Has(surface.CapsMipMapSubLevel):
		return RoleNextMip, 0
	case parent.Caps.Has(surface.CapsCubeMap) && child.Caps.Has(surface.CapsCubeMap):
		if face, ok := child.Caps.CubeFace(); ok {
			return RoleCubeFace, face
		}
	case parent.Caps.Has(surface.CapsMipMap) && child.Caps.Has(surface.CapsMipMap):
		return RoleNextMip, 0
	}
	return RoleGeneric, 0
}

// shapesComplex reports whether an edge of role r is part of the mip or
// cube structure a materialized resource is sized for.
func (r Role) shapesComplex() bool {
	return r == RoleNextMip || r == RoleCubeFace
}

func (s *Surface) edgeRoleLocked(c *Surface) (Role, bool) {
	for _, e := range s.edges {
		if e.child == c {
			return e.role, true
		}
	}
	return RoleGeneric, false
}

func (s *Surface) hasChildLocked(c *Surface) bool {
	return slices.ContainsFunc(s.edges, func(e edge) bool { return e.child == c })
}

func (s *Surface) childLocked(role Role, face int) *Surface {
	for _, e := range s.edges {
		if e.role == role && e.face == face {
			return e.child
		}
	}
	return nil
}

func (s *Surface) removeEdgeLocked(c *Surface) bool {
	n := len(s.edges)
	s.edges = slices.DeleteFunc(s.edges, func(e edge) bool { return e.child == c })
	return len(s.edges) != n
}

// reachesLocked reports whether target is s or one of its descendants.
// The walk is bounded by the registry size.
func (s *Surface) reachesLocked(target *Surface) bool {
	seen := make(map[*Surface]bool)
	stack := []*Surface{s}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if seen[cur] || len(seen) > len(s.iface.surfaces) {
			continue
		}
		seen[cur] = true
		for _, e := range cur.edges {
			stack = append(stack, e.child)
		}
	}
	return false
}

// attachLocked records an edge from s to c. The caller supplies the
// reference the edge holds.
func (s *Surface) attachLocked(c *Surface, role Role, face int) error {
	switch {
	case s.released || c.released:
		return ErrReleased
	case c.reachesLocked(s):
		return ErrAttachmentCycle
	case s.hasChildLocked(c):
		return ErrAlreadyAttached
	case role != RoleGeneric && s.childLocked(role, face) != nil:
		return fmt.Errorf("%w: %v edge exists", ErrAlreadyAttached, role)
	case role != RoleDepthStencil && c.parent != nil:
		return fmt.Errorf("%w: surface %d already has a parent", ErrAlreadyAttached, c.id)
	}
	s.edges = append(s.edges, edge{child: c, role: role, face: face})
	if role != RoleDepthStencil {
		c.parent = s
		c.parentRole = role
	}
	Logger().Debug("ddraw: attached",
		"surface", s.id, "child", c.id, "role", role, "face", face)
	return nil
}

// detachLocked removes the edge from s to c and drops its reference.
// A depth-stencil child stays alive while anyone else holds it. Removing
// a mip level or cube face releases the resource of the complex.
func (s *Surface) detachLocked(c *Surface) error {
	role, ok := s.edgeRoleLocked(c)
	if !ok {
		return ErrNotAttached
	}
	if role.shapesComplex() {
		s.iface.resetComplexLocked(s)
	}
	s.unlinkLocked(c)
	Logger().Debug("ddraw: detached", "surface", s.id, "child", c.id, "role", role)
	return nil
}

// unlinkLocked removes the edge from s to c without touching resources
// and drops the edge's reference.
func (s *Surface) unlinkLocked(c *Surface) {
	s.removeEdgeLocked(c)
	if c.parent == s {
		c.parent = nil
		c.parentRole = RoleGeneric
	}
	s.iface.releaseLocked(c)
}

// adoptLocked wraps a storage found on the legacy attachment list of s
// and records an edge to it.
func (s *Surface) adoptLocked(storage surface.Storage) (*Surface, error) {
	i := s.iface
	c, known := i.surfaces[storage]
	if known {
		c.refs++
	} else {
		c = i.wrapLocked(storage)
	}
	role, face := roleFor(s.storage.Describe(), storage.Describe())
	if err := s.attachLocked(c, role, face); err != nil {
		i.releaseLocked(c)
		return nil, err
	}
	if !known {
		Logger().Debug("ddraw: foreign attachment wrapped",
			"surface", s.id, "child", c.id, "role", role)
	}
	return c, nil
}

// complexRoot returns the root of the mip chain or cube map s belongs
// to. Depth-stencil and generic children are their own roots.
func (s *Surface) complexRoot() *Surface {
	root := s
	for n := 0; root.parent != nil && n <= MaxMipLevels*7; n++ {
		if root.parentRole != RoleNextMip && root.parentRole != RoleCubeFace {
			break
		}
		root = root.parent
	}
	return root
}

// FindChild returns the first attached child for which match returns
// true, or nil.
func (s *Surface) FindChild(match func(*Surface) bool) *Surface {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.findChildLocked(match)
}

func (s *Surface) findChildLocked(match func(*Surface) bool) *Surface {
	for _, e := range s.edges {
		if match(e.child) {
			return e.child
		}
	}
	return nil
}

// Children returns the attached children in attachment order.
func (s *Surface) Children() []*Surface {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	out := make([]*Surface, len(s.edges))
	for n, e := range s.edges {
		out[n] = e.child
	}
	return out
}

// DepthStencil returns the attached depth-stencil surface, or nil.
func (s *Surface) DepthStencil() *Surface {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	return s.childLocked(RoleDepthStencil, 0)
}

// nextMipLocked returns the next level of the mip chain. When the graph
// has no edge yet, the legacy attachment list is consulted.
func (s *Surface) nextMipLocked() *Surface {
	if c := s.childLocked(RoleNextMip, 0); c != nil {
		return c
	}
	s.iface.discoverLocked(s)
	return s.childLocked(RoleNextMip, 0)
}

// cubeFaceLocked returns the root surface of face. Face 0 is s itself.
func (s *Surface) cubeFaceLocked(face int) *Surface {
	if face == 0 {
		return s
	}
	if c := s.childLocked(RoleCubeFace, face); c != nil {
		return c
	}
	s.iface.discoverLocked(s)
	return s.childLocked(RoleCubeFace, face)
}
