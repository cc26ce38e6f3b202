//go:build windows

package d3d9

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/gonutz/d3d9"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

// ErrNoWindow is returned when the config carries no window handle.
var ErrNoWindow = errors.New("d3d9: window handle required")

func init() {
	backend.Register(backend.BackendD3D9, 100, func(cfg backend.Config) (backend.Device, error) {
		return NewDevice(cfg)
	})
}

// Device implements backend.Device on a Direct3D 9 device.
type Device struct {
	d3d    *d3d9.Direct3D
	device *d3d9.Device
	format format.Format
	width  int
	height int

	mu         sync.Mutex
	backBuffer *Surface
	autoDS     *Surface
}

var _ backend.Device = (*Device)(nil)
var _ backend.Presenter = (*Device)(nil)

// NewDevice creates a windowed device presenting to cfg.Window.
func NewDevice(cfg backend.Config) (*Device, error) {
	if cfg.Window == 0 {
		return nil, ErrNoWindow
	}
	d3d, err := d3d9.Create(d3d9.SDK_VERSION)
	if err != nil {
		return nil, fmt.Errorf("d3d9: create: %w", err)
	}

	bbFormat := cfg.Format
	if bbFormat == format.Unknown {
		bbFormat = format.X8R8G8B8
	}
	pp := d3d9.PRESENT_PARAMETERS{
		BackBufferWidth:      uint32(max(cfg.Width, 0)),
		BackBufferHeight:     uint32(max(cfg.Height, 0)),
		BackBufferFormat:     d3d9.FORMAT(formatValue(bbFormat)),
		BackBufferCount:      1,
		Windowed:             1,
		SwapEffect:           d3d9.SWAPEFFECT_DISCARD,
		HDeviceWindow:        d3d9.HWND(cfg.Window),
		PresentationInterval: d3d9.PRESENT_INTERVAL_ONE,
		Flags:                d3d9.PRESENTFLAG_LOCKABLE_BACKBUFFER,
	}
	if cfg.DepthStencil != format.Unknown {
		pp.EnableAutoDepthStencil = 1
		pp.AutoDepthStencilFormat = d3d9.FORMAT(formatValue(cfg.DepthStencil))
	}
	device, _, err := d3d.CreateDevice(
		d3d9.ADAPTER_DEFAULT,
		d3d9.DEVTYPE_HAL,
		d3d9.HWND(cfg.Window),
		d3d9.CREATE_SOFTWARE_VERTEXPROCESSING,
		pp,
	)
	if err != nil {
		d3d.Release()
		return nil, fmt.Errorf("d3d9: create device: %w", err)
	}

	d := &Device{
		d3d:    d3d,
		device: device,
		format: bbFormat,
		width:  cfg.Width,
		height: cfg.Height,
	}
	bb, err := device.GetBackBuffer(0, 0, d3d9.BACKBUFFER_TYPE_MONO)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("d3d9: back buffer: %w", err)
	}
	d.backBuffer = d.wrap(bb, cfg.Width, cfg.Height, bbFormat, backend.PoolDefault, backend.UsageRenderTarget)
	d.backBuffer.owned = true

	if cfg.DepthStencil != format.Unknown {
		if ds, err := device.GetDepthStencilSurface(); err == nil {
			d.autoDS = d.wrap(ds, cfg.Width, cfg.Height, cfg.DepthStencil, backend.PoolDefault, backend.UsageDepthStencil)
			d.autoDS.owned = true
		}
	}
	slogger().Debug("d3d9 device created",
		"width", cfg.Width, "height", cfg.Height, "format", bbFormat)
	return d, nil
}

// SetLogger updates the package logger.
func (d *Device) SetLogger(l *slog.Logger) { setLogger(l) }

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendD3D9 }

// Close releases the back buffer and the device.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.autoDS != nil {
		d.autoDS.surface.Release()
		d.autoDS = nil
	}
	if d.backBuffer != nil {
		d.backBuffer.surface.Release()
		d.backBuffer = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.d3d != nil {
		d.d3d.Release()
		d.d3d = nil
	}
}

func (d *Device) wrap(s *d3d9.Surface, w, h int, f format.Format, pool backend.Pool, usage backend.Usage) *Surface {
	return &Surface{
		surface: s,
		desc:    backend.SurfaceDesc{Width: w, Height: h, Format: f, Pool: pool, Usage: usage},
	}
}

// CreateTexture creates a 2D texture.
func (d *Device) CreateTexture(width, height, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, width, height)
	}
	levels = max(levels, 1)
	tex, err := d.device.CreateTexture(uint(width), uint(height), uint(levels),
		usageValue(usage), d3d9.FORMAT(formatValue(f)), d3d9.POOL(poolValue(pool)), 0)
	if err != nil {
		return nil, fmt.Errorf("d3d9: texture %v: %w", f, err)
	}
	t := &Texture{texture: tex}
	w, h := width, height
	for i := range levels {
		s, err := tex.GetSurfaceLevel(uint(i))
		if err != nil {
			t.Release()
			return nil, fmt.Errorf("d3d9: texture level %d: %w", i, err)
		}
		level := d.wrap(s, w, h, f, pool, usage)
		level.owned = true
		t.levels = append(t.levels, level)
		w, h = max(1, w/2), max(1, h/2)
	}
	slogger().Debug("texture created",
		"width", width, "height", height, "levels", levels, "format", f, "pool", pool)
	return t, nil
}

// CreateCubeTexture creates a cube texture.
func (d *Device) CreateCubeTexture(edge, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.CubeTexture, error) {
	if edge <= 0 {
		return nil, fmt.Errorf("%w: edge %d", backend.ErrInvalidSize, edge)
	}
	levels = max(levels, 1)
	cube, err := d.device.CreateCubeTexture(uint(edge), uint(levels),
		usageValue(usage), d3d9.FORMAT(formatValue(f)), d3d9.POOL(poolValue(pool)), 0)
	if err != nil {
		return nil, fmt.Errorf("d3d9: cube texture %v: %w", f, err)
	}
	c := &CubeTexture{cube: cube, levels: levels}
	for face := range backend.CubeFaceCount {
		e := edge
		for level := range levels {
			s, err := cube.GetCubeMapSurface(d3d9.CUBEMAP_FACES(face), uint(level))
			if err != nil {
				c.Release()
				return nil, fmt.Errorf("d3d9: cube face %d level %d: %w", face, level, err)
			}
			fs := d.wrap(s, e, e, f, pool, usage)
			fs.owned = true
			c.faces[face] = append(c.faces[face], fs)
			e = max(1, e/2)
		}
	}
	return c, nil
}

// CreateRenderTarget creates a render target.
func (d *Device) CreateRenderTarget(width, height int, f format.Format, lockable bool) (backend.Surface, error) {
	s, err := d.device.CreateRenderTarget(uint(width), uint(height),
		d3d9.FORMAT(formatValue(f)), d3d9.MULTISAMPLE_NONE, 0, lockable, 0)
	if err != nil {
		return nil, fmt.Errorf("d3d9: render target %v: %w", f, err)
	}
	return d.wrap(s, width, height, f, backend.PoolDefault, backend.UsageRenderTarget), nil
}

// CreateDepthStencil creates a depth-stencil surface.
func (d *Device) CreateDepthStencil(width, height int, f format.Format) (backend.Surface, error) {
	if !f.IsDepthStencil() {
		return nil, fmt.Errorf("%w: %v is not a depth format", backend.ErrUnsupportedFormat, f)
	}
	s, err := d.device.CreateDepthStencilSurface(uint(width), uint(height),
		d3d9.FORMAT(formatValue(f)), d3d9.MULTISAMPLE_NONE, 0, false, 0)
	if err != nil {
		return nil, fmt.Errorf("d3d9: depth-stencil %v: %w", f, err)
	}
	return d.wrap(s, width, height, f, backend.PoolDefault, backend.UsageDepthStencil), nil
}

// CreateOffscreenSurface creates an off-screen plain surface. Direct3D 9
// has no managed pool for plain surfaces; managed requests use system
// memory.
func (d *Device) CreateOffscreenSurface(width, height int, f format.Format, pool backend.Pool) (backend.Surface, error) {
	if pool == backend.PoolManaged {
		pool = backend.PoolSystemMem
	}
	s, err := d.device.CreateOffscreenPlainSurface(uint(width), uint(height),
		d3d9.FORMAT(formatValue(f)), d3d9.POOL(poolValue(pool)), 0)
	if err != nil {
		return nil, fmt.Errorf("d3d9: offscreen surface %v: %w", f, err)
	}
	return d.wrap(s, width, height, f, pool, 0), nil
}

// BackBuffer returns the presentation back buffer.
func (d *Device) BackBuffer() (backend.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.backBuffer == nil {
		return nil, backend.ErrReleased
	}
	return d.backBuffer, nil
}

// DepthStencilTarget returns the automatic depth-stencil surface or nil.
func (d *Device) DepthStencilTarget() backend.Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.autoDS == nil {
		return nil
	}
	return d.autoDS
}

// PresentationFormat returns the back buffer format.
func (d *Device) PresentationFormat() format.Format { return d.format }

// Present shows the back buffer in the device window.
func (d *Device) Present() error {
	return d.device.Present(nil, nil, 0, nil)
}

// Surface wraps an IDirect3DSurface9.
type Surface struct {
	mu      sync.Mutex
	surface *d3d9.Surface
	desc    backend.SurfaceDesc
	owned   bool
	locked  bool

	released bool
}

// Desc describes the surface.
func (s *Surface) Desc() backend.SurfaceDesc { return s.desc }

// LockRect maps the whole surface.
func (s *Surface) LockRect() (backend.LockedRect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.released:
		return backend.LockedRect{}, backend.ErrReleased
	case s.locked:
		return backend.LockedRect{}, backend.ErrLocked
	}
	lr, err := s.surface.LockRect(nil, 0)
	if err != nil {
		return backend.LockedRect{}, fmt.Errorf("%w: %w", backend.ErrNotLockable, err)
	}
	s.locked = true
	pitch := int(lr.Pitch)
	n := pitch * s.desc.Format.Rows(s.desc.Height)
	bits := unsafe.Slice((*byte)(unsafe.Pointer(lr.PBits)), n)
	return backend.LockedRect{Bits: bits, Pitch: pitch}, nil
}

// UnlockRect ends CPU access.
func (s *Surface) UnlockRect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		return backend.ErrNotLocked
	}
	s.locked = false
	return s.surface.UnlockRect()
}

// Release frees the surface. Texture levels and the back buffer belong
// to their owner.
func (s *Surface) Release() {
	if s.owned {
		return
	}
	s.release()
}

func (s *Surface) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.surface.Release()
}

// Texture wraps an IDirect3DTexture9 and its level surfaces.
type Texture struct {
	texture *d3d9.Texture
	levels  []*Surface
}

// Levels returns the number of mip levels.
func (t *Texture) Levels() int { return len(t.levels) }

// Level returns mip level i.
func (t *Texture) Level(i int) (backend.Surface, error) {
	if i < 0 || i >= len(t.levels) {
		return nil, backend.ErrNoLevel
	}
	return t.levels[i], nil
}

// Release frees the level surfaces and the texture.
func (t *Texture) Release() {
	for _, l := range t.levels {
		l.release()
	}
	t.levels = nil
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// CubeTexture wraps an IDirect3DCubeTexture9 and its face surfaces.
type CubeTexture struct {
	cube   *d3d9.CubeTexture
	levels int
	faces  [backend.CubeFaceCount][]*Surface
}

// Levels returns the number of mip levels of each face.
func (c *CubeTexture) Levels() int { return c.levels }

// Face returns one level of one face.
func (c *CubeTexture) Face(face backend.CubeFace, level int) (backend.Surface, error) {
	if face < 0 || int(face) >= backend.CubeFaceCount || level < 0 || level >= len(c.faces[face]) {
		return nil, backend.ErrNoLevel
	}
	return c.faces[face][level], nil
}

// Release frees the face surfaces and the cube texture.
func (c *CubeTexture) Release() {
	for i := range c.faces {
		for _, s := range c.faces[i] {
			s.release()
		}
		c.faces[i] = nil
	}
	if c.cube != nil {
		c.cube.Release()
		c.cube = nil
	}
}
