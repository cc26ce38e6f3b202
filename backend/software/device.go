package software

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

const backendName = backend.BackendSoftware

// init registers the software backend on package import.
func init() {
	backend.Register(backendName, 0, func(cfg backend.Config) (backend.Device, error) {
		var opts []Option
		if cfg.Width > 0 && cfg.Height > 0 {
			opts = append(opts, WithBackBuffer(cfg.Width, cfg.Height, cfg.Format))
		}
		if cfg.DepthStencil != format.Unknown {
			opts = append(opts, WithAutoDepthStencil(cfg.DepthStencil))
		}
		return NewDevice(opts...)
	})
}

// Stats counts the resources a device has created.
type Stats struct {
	Textures       int
	CubeTextures   int
	RenderTargets  int
	DepthStencils  int
	Offscreen      int
	Presents       int
	LiveAllocation int
}

// Device is a CPU-resident reference implementation of backend.Device.
// Every resource is a Go byte slice; all surfaces are lockable.
type Device struct {
	opts options

	mu         sync.Mutex
	stats      Stats
	createErr  error
	backBuffer *Surface
	autoDS     *Surface

	live atomic.Int64
}

var _ backend.Device = (*Device)(nil)
var _ backend.Presenter = (*Device)(nil)

// NewDevice creates a device with its back buffer.
func NewDevice(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !format.CanExpand(o.format) {
		return nil, fmt.Errorf("%w: back buffer %v", backend.ErrUnsupportedFormat, o.format)
	}

	d := &Device{opts: o}
	bb, err := d.newSurface(o.width, o.height, o.format, backend.PoolDefault, backend.UsageRenderTarget, true)
	if err != nil {
		return nil, fmt.Errorf("back buffer: %w", err)
	}
	bb.owned = true
	d.backBuffer = bb

	if o.depthStencil != format.Unknown {
		ds, err := d.newSurface(o.width, o.height, o.depthStencil, backend.PoolDefault, backend.UsageDepthStencil, true)
		if err != nil {
			return nil, fmt.Errorf("auto depth-stencil: %w", err)
		}
		ds.owned = true
		d.autoDS = ds
	}

	slogger().Debug("software device created",
		"width", o.width, "height", o.height, "format", o.format)
	return d, nil
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backendName }

// FailCreates makes every following create call return err. Pass nil
// to restore normal behavior.
func (d *Device) FailCreates(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createErr = err
}

// Stats returns a snapshot of the creation counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.LiveAllocation = int(d.live.Load())
	return s
}

func (d *Device) checkCreate(width, height int, f format.Format) error {
	d.mu.Lock()
	err := d.createErr
	d.mu.Unlock()
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, width, height)
	}
	if f == format.Unknown || (f.BytesPerPixel() == 0 && !f.IsCompressed()) {
		return fmt.Errorf("%w: %v", backend.ErrUnsupportedFormat, f)
	}
	return nil
}

func (d *Device) newSurface(width, height int, f format.Format, pool backend.Pool, usage backend.Usage, lockable bool) (*Surface, error) {
	if err := d.checkCreate(width, height, f); err != nil {
		return nil, err
	}
	a := d.opts.alignment
	pitch := (f.RowPitch(width) + a - 1) / a * a
	s := &Surface{
		dev:      d,
		desc:     backend.SurfaceDesc{Width: width, Height: height, Format: f, Pool: pool, Usage: usage},
		pitch:    pitch,
		bits:     make([]byte, pitch*f.Rows(height)),
		lockable: lockable,
	}
	d.live.Add(1)
	return s, nil
}

func (d *Device) newTexture(width, height, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (*Texture, error) {
	if levels < 1 {
		levels = 1
	}
	t := &Texture{dev: d}
	w, h := width, height
	for i := range levels {
		s, err := d.newSurface(w, h, f, pool, usage, true)
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		s.owned = true
		t.levels = append(t.levels, s)
		w, h = max(1, w/2), max(1, h/2)
	}
	return t, nil
}

// CreateTexture creates a 2D texture.
func (d *Device) CreateTexture(width, height, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.Texture, error) {
	t, err := d.newTexture(width, height, levels, usage, f, pool)
	if err != nil {
		return nil, err
	}
	d.count(func(s *Stats) { s.Textures++ })
	slogger().Debug("texture created",
		"width", width, "height", height, "levels", t.Levels(), "format", f, "pool", pool, "usage", usage)
	return t, nil
}

// CreateCubeTexture creates a cube texture.
func (d *Device) CreateCubeTexture(edge, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.CubeTexture, error) {
	c := &CubeTexture{}
	for i := range c.faces {
		t, err := d.newTexture(edge, edge, levels, usage, f, pool)
		if err != nil {
			c.Release()
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		c.faces[i] = t
	}
	d.count(func(s *Stats) { s.CubeTextures++ })
	slogger().Debug("cube texture created",
		"edge", edge, "levels", c.Levels(), "format", f, "pool", pool, "usage", usage)
	return c, nil
}

// CreateRenderTarget creates a render target.
func (d *Device) CreateRenderTarget(width, height int, f format.Format, lockable bool) (backend.Surface, error) {
	s, err := d.newSurface(width, height, f, backend.PoolDefault, backend.UsageRenderTarget, lockable)
	if err != nil {
		return nil, err
	}
	d.count(func(s *Stats) { s.RenderTargets++ })
	return s, nil
}

// CreateDepthStencil creates a depth-stencil surface. It is lockable so
// tests can inspect it.
func (d *Device) CreateDepthStencil(width, height int, f format.Format) (backend.Surface, error) {
	if !f.IsDepthStencil() {
		return nil, fmt.Errorf("%w: %v is not a depth format", backend.ErrUnsupportedFormat, f)
	}
	s, err := d.newSurface(width, height, f, backend.PoolDefault, backend.UsageDepthStencil, true)
	if err != nil {
		return nil, err
	}
	d.count(func(s *Stats) { s.DepthStencils++ })
	return s, nil
}

// CreateOffscreenSurface creates a plain off-screen surface.
func (d *Device) CreateOffscreenSurface(width, height int, f format.Format, pool backend.Pool) (backend.Surface, error) {
	s, err := d.newSurface(width, height, f, pool, 0, true)
	if err != nil {
		return nil, err
	}
	d.count(func(s *Stats) { s.Offscreen++ })
	return s, nil
}

// BackBuffer returns the presentation back buffer.
func (d *Device) BackBuffer() (backend.Surface, error) {
	return d.backBuffer, nil
}

// BackBufferSurface returns the back buffer as a concrete surface.
func (d *Device) BackBufferSurface() *Surface { return d.backBuffer }

// DepthStencilTarget returns the automatic depth-stencil target or nil.
func (d *Device) DepthStencilTarget() backend.Surface {
	if d.autoDS == nil {
		return nil
	}
	return d.autoDS
}

// PresentationFormat returns the back buffer format.
func (d *Device) PresentationFormat() format.Format { return d.opts.format }

// Present counts one presented frame.
func (d *Device) Present() error {
	d.count(func(s *Stats) { s.Presents++ })
	return nil
}

func (d *Device) count(f func(*Stats)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f(&d.stats)
}
