package ddraw

import (
	"fmt"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

// ResourceKind tags the variant a Resource holds.
type ResourceKind int

// Resource kinds.
const (
	KindNone ResourceKind = iota
	KindPlainSurface
	KindRenderTarget
	KindDepthStencil
	KindTexture2D
	KindCubeTexture
)

// String returns the kind name.
func (k ResourceKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPlainSurface:
		return "plain-surface"
	case KindRenderTarget:
		return "render-target"
	case KindDepthStencil:
		return "depth-stencil"
	case KindTexture2D:
		return "texture-2d"
	case KindCubeTexture:
		return "cube-texture"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// MaterializationState is the per-surface lifecycle state.
type MaterializationState int

// Materialization states.
const (
	Uninitialized MaterializationState = iota
	Materialized
	Invalidated
)

// String returns the state name.
func (s MaterializationState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Materialized:
		return "materialized"
	case Invalidated:
		return "invalidated"
	}
	return fmt.Sprintf("MaterializationState(%d)", int(s))
}

// Resource is the modern resource backing a surface. At most one variant
// is populated. A borrowed resource belongs to someone else: the device
// back buffer, or the texture of the chain root for mip sub-levels and
// cube faces. Releasing it only drops the reference.
type Resource struct {
	kind     ResourceKind
	surface  backend.Surface
	texture  backend.Texture
	cube     backend.CubeTexture
	borrowed bool

	format format.Format
	pool   backend.Pool
	usage  backend.Usage
	levels int
	level  int
	face   backend.CubeFace
}

// Kind returns the populated variant.
func (r Resource) Kind() ResourceKind { return r.kind }

// IsNone reports whether no variant is populated.
func (r Resource) IsNone() bool { return r.kind == KindNone }

// Surface returns the device surface: the surface itself for plain,
// render target and depth-stencil kinds, level 0 (or face 0) of the root
// texture, or the level this surface maps for borrowed sub-levels.
func (r Resource) Surface() backend.Surface { return r.surface }

// Texture returns the 2D texture, or nil.
func (r Resource) Texture() backend.Texture { return r.texture }

// CubeTexture returns the cube texture, or nil.
func (r Resource) CubeTexture() backend.CubeTexture { return r.cube }

// Borrowed reports whether the resource is owned elsewhere.
func (r Resource) Borrowed() bool { return r.borrowed }

// Format returns the resolved modern format.
func (r Resource) Format() format.Format { return r.format }

// Pool returns the storage pool.
func (r Resource) Pool() backend.Pool { return r.pool }

// Usage returns the usage flags.
func (r Resource) Usage() backend.Usage { return r.usage }

// Levels returns the number of allocated mip levels.
func (r Resource) Levels() int { return r.levels }

// Level returns the mip level a borrowed sub-level maps.
func (r Resource) Level() int { return r.level }

// Face returns the cube face a borrowed face surface maps.
func (r Resource) Face() backend.CubeFace { return r.face }

// levelSurface returns mip level i of face, or nil.
func (r Resource) levelSurface(face backend.CubeFace, i int) backend.Surface {
	switch {
	case r.cube != nil:
		s, err := r.cube.Face(face, i)
		if err != nil {
			return nil
		}
		return s
	case r.texture != nil:
		s, err := r.texture.Level(i)
		if err != nil {
			return nil
		}
		return s
	case i == 0:
		return r.surface
	}
	return nil
}

// release frees an owned allocation and clears every variant.
func (r *Resource) release() {
	if !r.borrowed {
		switch {
		case r.cube != nil:
			r.cube.Release()
		case r.texture != nil:
			r.texture.Release()
		case r.surface != nil:
			r.surface.Release()
		}
	}
	*r = Resource{}
}

// borrow returns a reference to level i of face of r for a chain member.
func (r Resource) borrow(face backend.CubeFace, i int) Resource {
	b := r
	b.borrowed = true
	b.level = i
	b.face = face
	b.surface = r.levelSurface(face, i)
	return b
}
