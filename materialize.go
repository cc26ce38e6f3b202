package ddraw

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"
)

// fallbackDepthFormat is used for depth surfaces whose pixel format does
// not resolve when the device has no automatic depth-stencil target.
const fallbackDepthFormat = format.D24S8

// Materialize creates the modern resource for s if it has none. It is a
// no-op for materialized surfaces whose device has not changed. Chain
// members materialize through their root.
func (s *Surface) Materialize() error {
	s.iface.mu.Lock()
	defer s.iface.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	root := s.complexRoot()
	s.iface.refreshLocked(root)
	if root.state == Materialized {
		return nil
	}
	return s.iface.materializeLocked(root)
}

// materializeLocked applies the decision table to s. Capability flags
// overlap in the legacy model, so the first matching rule wins.
//
// A zero-size surface or a missing device leaves s unmaterialized and
// returns nil. A creation error leaves s Uninitialized with no resource.
func (i *Interface) materializeLocked(s *Surface) error {
	desc := s.storage.Describe()
	caps := desc.Caps
	dev := i.device
	if dev == nil {
		return nil
	}

	switch {
	case caps.Any(surface.CapsFrontBuffer | surface.CapsBackBuffer):
		return i.bindBackBufferLocked(s, "flip chain")
	case desc.IsEmpty() && s == i.renderTarget:
		return i.bindBackBufferLocked(s, "implicit render target")
	case desc.IsEmpty():
		Logger().Debug("ddraw: zero-size surface not materialized", "surface", s.id)
		return nil
	}

	var (
		res Resource
		err error
	)
	switch {
	case caps.Has(surface.CapsZBuffer):
		res, err = i.createDepthStencil(s, desc)
	case caps.Has(surface.CapsCubeMap):
		res, err = i.createCube(s, desc)
	case caps.Has(surface.CapsTexture):
		res, err = i.createTexture(s, desc)
	case caps.Has(surface.Caps3DDevice):
		res, err = i.createRenderTarget(s, desc)
	case caps.Has(surface.CapsOffscreenPlain):
		res, err = i.createOffscreen(s, desc)
	default:
		Logger().Warn("ddraw: unclassified surface, using lockable render target",
			"surface", s.id, "caps", caps)
		res, err = i.createRenderTarget(s, desc)
	}
	if err != nil {
		res.release()
		s.res = Resource{}
		s.state = Uninitialized
		Logger().Error("ddraw: materialization failed", "surface", s.id, "caps", caps, "err", err)
		return fmt.Errorf("%w: surface %d: %w", ErrResourceCreation, s.id, err)
	}

	s.res = res
	s.state = Materialized
	s.device = dev
	i.lendMembersLocked(s)
	Logger().Info("ddraw: resource materialized",
		"surface", s.id, "kind", res.kind, "format", res.format,
		"width", desc.Width, "height", desc.Height, "levels", res.levels, "pool", res.pool)
	return nil
}

func (i *Interface) bindBackBufferLocked(s *Surface, why string) error {
	bb, err := i.device.BackBuffer()
	if err != nil {
		s.state = Uninitialized
		return fmt.Errorf("%w: back buffer: %w", ErrResourceCreation, err)
	}
	bd := bb.Desc()
	s.res = Resource{
		kind:     KindRenderTarget,
		surface:  bb,
		borrowed: true,
		format:   bd.Format,
		pool:     bd.Pool,
		usage:    bd.Usage,
		levels:   1,
	}
	s.state = Materialized
	s.device = i.device
	Logger().Debug("ddraw: bound to back buffer", "surface", s.id, "reason", why)
	return nil
}

// colorFormat resolves the pixel format of a color surface, falling
// back to the presentation format.
func (i *Interface) colorFormat(s *Surface, desc surface.Descriptor) format.Format {
	f := desc.Format()
	if f == format.Unknown || f.IsDepthStencil() {
		pf := i.device.PresentationFormat()
		Logger().Warn("ddraw: unresolved pixel format, using presentation format",
			"surface", s.id, "bits", desc.PixelFormat.BitCount, "format", pf)
		return pf
	}
	return f
}

func (i *Interface) depthFormat(s *Surface, desc surface.Descriptor) format.Format {
	f := desc.Format()
	if f.IsDepthStencil() {
		return f
	}
	fallback := fallbackDepthFormat
	if ds := i.device.DepthStencilTarget(); ds != nil {
		fallback = ds.Desc().Format
	}
	Logger().Warn("ddraw: unresolved depth format",
		"surface", s.id, "bits", desc.PixelFormat.BitCount, "format", fallback)
	return fallback
}

// placement returns the pool and usage for a resource of format f.
// Block-compressed formats override every hint.
func placement(caps surface.Caps, f format.Format, texture bool) (backend.Pool, backend.Usage) {
	switch {
	case f.IsCompressed():
		return backend.PoolDefault, backend.UsageDynamic
	case caps.Any(surface.CapsLocalVideoMemory | surface.Caps3DDevice | surface.CapsCubeMap):
		return backend.PoolDefault, 0
	case caps.Has(surface.CapsSystemMemory):
		if texture {
			return backend.PoolManaged, 0
		}
		return backend.PoolSystemMem, 0
	case texture:
		return backend.PoolManaged, 0
	}
	return backend.PoolDefault, 0
}

func (i *Interface) createDepthStencil(s *Surface, desc surface.Descriptor) (Resource, error) {
	f := i.depthFormat(s, desc)
	ds, err := i.device.CreateDepthStencil(desc.Width, desc.Height, f)
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		kind:    KindDepthStencil,
		surface: ds,
		format:  f,
		pool:    backend.PoolDefault,
		usage:   backend.UsageDepthStencil,
		levels:  1,
	}, nil
}

func (i *Interface) createCube(s *Surface, desc surface.Descriptor) (Resource, error) {
	f := i.colorFormat(s, desc)
	levels := i.walkMipsLocked(s)
	for face := 1; face < backend.CubeFaceCount; face++ {
		fr := s.cubeFaceLocked(face)
		if fr == nil {
			Logger().Warn("ddraw: cube face not attached", "surface", s.id, "face", face)
			continue
		}
		if n := i.countMipsLocked(fr); n != levels {
			Logger().Warn("ddraw: cube face chain differs from root",
				"surface", s.id, "face", face, "levels", n, "root", levels)
		}
	}
	pool, usage := placement(desc.Caps, f, true)
	if desc.Caps.Has(surface.Caps3DDevice) {
		usage |= backend.UsageRenderTarget
	}
	cube, err := i.device.CreateCubeTexture(desc.Width, levels, usage, f, pool)
	if err != nil {
		return Resource{}, err
	}
	res := Resource{
		kind:   KindCubeTexture,
		cube:   cube,
		format: f,
		pool:   pool,
		usage:  usage,
		levels: cube.Levels(),
	}
	res.surface = res.levelSurface(backend.CubeFacePositiveX, 0)
	return res, nil
}

func (i *Interface) createTexture(s *Surface, desc surface.Descriptor) (Resource, error) {
	f := i.colorFormat(s, desc)
	levels := i.walkMipsLocked(s)
	pool, usage := placement(desc.Caps, f, true)
	if i.opts.autoGenMipMaps && !f.IsCompressed() {
		levels = fullChain(desc.Width, desc.Height, i.opts.maxMipLevels)
		usage |= backend.UsageAutoGenMipmap
	}
	tex, err := i.device.CreateTexture(desc.Width, desc.Height, levels, usage, f, pool)
	if err != nil {
		return Resource{}, err
	}
	res := Resource{
		kind:    KindTexture2D,
		texture: tex,
		format:  f,
		pool:    pool,
		usage:   usage,
		levels:  tex.Levels(),
	}
	res.surface = res.levelSurface(0, 0)
	return res, nil
}

func (i *Interface) createRenderTarget(s *Surface, desc surface.Descriptor) (Resource, error) {
	f := i.colorFormat(s, desc)
	rt, err := i.device.CreateRenderTarget(desc.Width, desc.Height, f, true)
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		kind:    KindRenderTarget,
		surface: rt,
		format:  f,
		pool:    backend.PoolDefault,
		usage:   backend.UsageRenderTarget,
		levels:  1,
	}, nil
}

func (i *Interface) createOffscreen(s *Surface, desc surface.Descriptor) (Resource, error) {
	f := i.colorFormat(s, desc)
	pool, usage := placement(desc.Caps, f, false)
	off, err := i.device.CreateOffscreenSurface(desc.Width, desc.Height, f, pool)
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		kind:    KindPlainSurface,
		surface: off,
		format:  f,
		pool:    pool,
		usage:   usage,
		levels:  1,
	}, nil
}

// lendMembersLocked gives every chain member of root a borrowed view of
// the level or face it maps.
func (i *Interface) lendMembersLocked(root *Surface) {
	if root.res.kind != KindTexture2D && root.res.kind != KindCubeTexture {
		return
	}
	i.forEachMemberLocked(root, func(m *Surface, face, level int) {
		if m == root {
			return
		}
		if level >= root.res.levels {
			Logger().Warn("ddraw: chain member beyond allocated levels",
				"surface", m.id, "face", face, "level", level, "levels", root.res.levels)
			return
		}
		m.res = root.res.borrow(backend.CubeFace(face), level)
		m.state = Materialized
		m.device = root.device
	})
}

// fullChain returns the length of a complete mip chain for w by h.
func fullChain(w, h, limit int) int {
	return min(bits.Len(uint(max(w, h, 1))), limit)
}
