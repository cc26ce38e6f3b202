package ddraw

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/surface"
)

const flipCaps = surface.CapsFrontBuffer | surface.CapsBackBuffer | surface.CapsFlip

// Lock maps level of the legacy storage for writing. The device lock is
// not taken.
func (s *Surface) Lock(level int) (surface.Mapping, error) {
	return s.storage.LockForWrite(level)
}

// LockForRead maps level of the legacy storage for reading.
func (s *Surface) LockForRead(level int) (surface.Mapping, error) {
	return s.storage.LockForRead(level)
}

// Unlock ends a legacy lock and synchronizes the modern resource.
func (s *Surface) Unlock(level int) error {
	if err := s.storage.Unlock(level); err != nil {
		return err
	}
	return s.InitializeOrUpload()
}

// Blt copies sr of src into dr of s, stretching when the sizes differ,
// then synchronizes s. Empty rectangles select the whole surface. Blits
// into flip-chain surfaces are ignored.
func (s *Surface) Blt(dr image.Rectangle, src *Surface, sr image.Rectangle) error {
	if src == nil {
		return ErrInvalidParams
	}
	if s.Descriptor().Caps.Any(flipCaps) {
		return nil
	}
	if err := surface.Blt(s.storage, dr, src.storage, sr); err != nil {
		if errors.Is(err, surface.ErrIncompatible) || errors.Is(err, surface.ErrUnsupportedFormat) {
			return fmt.Errorf("%w: %w", ErrIncompatibleFormat, err)
		}
		return err
	}
	return s.InitializeOrUpload()
}

// BltFast copies sr of src to s with its top-left corner at (x, y).
func (s *Surface) BltFast(x, y int, src *Surface, sr image.Rectangle) error {
	if src == nil {
		return ErrInvalidParams
	}
	if sr.Empty() {
		d := src.Descriptor()
		sr = image.Rect(0, 0, d.Width, d.Height)
	}
	dr := sr.Sub(sr.Min).Add(image.Pt(x, y))
	return s.Blt(dr, src, sr)
}

// ColorFill fills rect with c and synchronizes s. An empty rect fills
// the whole surface.
func (s *Surface) ColorFill(rect image.Rectangle, c color.Color) error {
	if s.Descriptor().Caps.Any(flipCaps) {
		return nil
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if err := surface.Fill(s.storage, rect, n.R, n.G, n.B, n.A); err != nil {
		if errors.Is(err, surface.ErrUnsupportedFormat) {
			return fmt.Errorf("%w: %w", ErrIncompatibleFormat, err)
		}
		return err
	}
	return s.InitializeOrUpload()
}

// GetDC returns a drawing context over the legacy pixels.
func (s *Surface) GetDC() (*surface.DC, error) {
	p, ok := s.storage.(surface.DCProvider)
	if !ok {
		return nil, ErrUnsupported
	}
	return p.GetDC()
}

// ReleaseDC ends DC access and synchronizes s.
func (s *Surface) ReleaseDC(dc *surface.DC) error {
	p, ok := s.storage.(surface.DCProvider)
	if !ok {
		return ErrUnsupported
	}
	if err := p.ReleaseDC(dc); err != nil {
		return err
	}
	return s.InitializeOrUpload()
}

// SetSurfaceDesc replaces the legacy description and storage layout.
// The modern resource is released; the next synchronization builds a
// new one.
func (s *Surface) SetSurfaceDesc(desc surface.Descriptor) error {
	r, ok := s.storage.(surface.Resizer)
	if !ok {
		return ErrUnsupported
	}
	i := s.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	if err := r.SetDescriptor(desc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	i.resetComplexLocked(s)
	if !s.res.IsNone() {
		s.res = Resource{}
		s.state = Uninitialized
	}
	Logger().Info("ddraw: surface description replaced",
		"surface", s.id, "width", desc.Width, "height", desc.Height)
	return nil
}

// AttachedSurface returns the first attached child whose caps include
// caps, adding a reference to it. Children present only on the legacy
// attachment list are wrapped and recorded first.
func (s *Surface) AttachedSurface(caps surface.Caps) (*Surface, error) {
	i := s.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	if s.released {
		return nil, ErrReleased
	}
	match := func(c *Surface) bool { return c.storage.Describe().Caps.Has(caps) }
	c := s.findChildLocked(match)
	if c == nil {
		i.discoverLocked(s)
		c = s.findChildLocked(match)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: caps %v", ErrNotAttached, caps)
	}
	c.refs++
	return c, nil
}

// AddAttachedSurface attaches child to s. The attachment holds its own
// reference on child. Attaching a depth-stencil to the bound render
// target makes it current.
func (s *Surface) AddAttachedSurface(child *Surface) error {
	if child == nil {
		return ErrInvalidParams
	}
	if child.iface != s.iface {
		return ErrNotWrapped
	}
	i := s.iface
	i.mu.Lock()
	defer i.mu.Unlock()

	role, face := roleFor(s.storage.Describe(), child.storage.Describe())
	if err := s.attachLocked(child, role, face); err != nil {
		return err
	}
	child.refs++
	if l, ok := s.storage.(surface.Linker); ok {
		if err := l.Attach(child.storage); err != nil {
			s.unlinkLocked(child)
			return fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
	}
	if role.shapesComplex() {
		i.resetComplexLocked(s)
	}
	if role == RoleDepthStencil && s == i.renderTarget {
		return i.syncLocked(child)
	}
	return nil
}

// DeleteAttachedSurface detaches child from s and drops the reference
// the attachment held. A depth-stencil stays alive while the caller
// holds it.
func (s *Surface) DeleteAttachedSurface(child *Surface) error {
	if child == nil {
		return ErrInvalidParams
	}
	i := s.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	if !s.hasChildLocked(child) {
		return ErrNotAttached
	}
	if l, ok := s.storage.(surface.Linker); ok {
		if err := l.Detach(child.storage); err != nil && !errors.Is(err, surface.ErrNotAttached) {
			return err
		}
	}
	return s.detachLocked(child)
}

// Flip presents the back buffer when s is a front buffer. Unless the
// strict back buffer guard is set, the next draw cycle may upload the
// flip chain again.
func (s *Surface) Flip() error {
	if !s.Descriptor().Caps.Has(surface.CapsFrontBuffer) {
		return fmt.Errorf("%w: not a front buffer", ErrInvalidParams)
	}
	return s.iface.present()
}

func (i *Interface) present() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if p, ok := i.device.(backend.Presenter); ok {
		if err := p.Present(); err != nil {
			return err
		}
	}
	if !i.opts.strictBackBuffer {
		i.hasDrawn = false
	}
	return nil
}
