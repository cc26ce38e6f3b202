package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

const backendName = backend.BackendWGPU

// ErrNoHAL is returned when a provider does not expose HAL objects.
var ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

// init registers the wgpu backend on package import. Without a provider
// in the config the factory opens a headless device.
func init() {
	backend.Register(backendName, 50, func(cfg backend.Config) (backend.Device, error) {
		var opts []Option
		if cfg.Format != format.Unknown {
			opts = append(opts, WithPresentationFormat(cfg.Format))
		}
		if cfg.DepthStencil != format.Unknown {
			opts = append(opts, WithAutoDepthStencil(cfg.DepthStencil))
		}
		width, height := cfg.Width, cfg.Height
		if width <= 0 || height <= 0 {
			width, height = 640, 480
		}
		if cfg.Provider == nil {
			return OpenHeadless(width, height, opts...)
		}
		return NewDevice(cfg.Provider, width, height, opts...)
	})
}

// Device implements backend.Device on a gogpu/wgpu HAL device.
type Device struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	mu         sync.Mutex
	backBuffer *Surface
	autoDS     *Surface
	serial     int
	closed     bool

	// closeFn releases a device this package opened itself.
	closeFn func()
}

var _ backend.Device = (*Device)(nil)

// NewDevice wraps the HAL device of a gpucontext provider. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. The presentation format follows the provider's surface
// format unless WithPresentationFormat is given.
func NewDevice(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	o := options{label: "ddraw", format: presentationFormat(provider.SurfaceFormat())}
	for _, opt := range opts {
		opt(&o)
	}
	return newDevice(device, queue, width, height, o)
}

// NewHALDevice wraps an already opened HAL device and queue.
func NewHALDevice(device hal.Device, queue hal.Queue, width, height int, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	o := options{label: "ddraw", format: format.A8R8G8B8}
	for _, opt := range opts {
		opt(&o)
	}
	return newDevice(device, queue, width, height, o)
}

func newDevice(device hal.Device, queue hal.Queue, width, height int, o options) (*Device, error) {
	d := &Device{device: device, queue: queue, opts: o}

	bb, err := d.newStandalone(width, height, o.format, backend.PoolDefault, backend.UsageRenderTarget, true)
	if err != nil {
		return nil, fmt.Errorf("back buffer: %w", err)
	}
	bb.owned = true
	d.backBuffer = bb

	if o.depthStencil != format.Unknown {
		ds, err := d.newStandalone(width, height, o.depthStencil, backend.PoolDefault, backend.UsageDepthStencil, true)
		if err != nil {
			d.destroyTexture(bb.tex)
			return nil, fmt.Errorf("auto depth-stencil: %w", err)
		}
		ds.owned = true
		d.autoDS = ds
	}

	slogger().Info("wgpu device ready",
		"width", width, "height", height, "format", o.format, "depthStencil", o.depthStencil)
	return d, nil
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backendName }

// HAL returns the underlying HAL device.
func (d *Device) HAL() hal.Device { return d.device }

func (d *Device) label(kind string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serial++
	return fmt.Sprintf("%s_%s_%d", d.opts.label, kind, d.serial)
}

func (d *Device) createHAL(kind string, width, height, levels int, f format.Format, usage backend.Usage) (hal.Texture, layout, error) {
	if width <= 0 || height <= 0 {
		return nil, layout{}, fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, width, height)
	}
	l, err := layoutFor(f)
	if err != nil {
		return nil, layout{}, err
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label(kind),
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: uint32(levels),
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        l.gpu,
		Usage:         usageFor(usage, l),
	})
	if err != nil {
		return nil, layout{}, fmt.Errorf("create %s texture: %w", kind, err)
	}
	return tex, l, nil
}

func (d *Device) newStandalone(width, height int, f format.Format, pool backend.Pool, usage backend.Usage, lockable bool) (*Surface, error) {
	kind := "surface"
	switch {
	case usage&backend.UsageRenderTarget != 0:
		kind = "rendertarget"
	case usage&backend.UsageDepthStencil != 0:
		kind = "depthstencil"
	}
	tex, l, err := d.createHAL(kind, width, height, 1, f, usage)
	if err != nil {
		return nil, err
	}
	desc := backend.SurfaceDesc{Width: width, Height: height, Format: f, Pool: pool, Usage: usage}
	return newSurface(d, tex, 0, desc, l, lockable), nil
}

func (d *Device) newTexture(kind string, width, height, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (*Texture, error) {
	if f.IsCompressed() {
		return nil, fmt.Errorf("%w: %v", backend.ErrUnsupportedFormat, f)
	}
	levels = max(1, levels)
	tex, l, err := d.createHAL(kind, width, height, levels, f, usage)
	if err != nil {
		return nil, err
	}
	t := &Texture{dev: d, tex: tex}
	w, h := width, height
	for i := range levels {
		desc := backend.SurfaceDesc{Width: w, Height: h, Format: f, Pool: pool, Usage: usage}
		s := newSurface(d, tex, i, desc, l, true)
		s.owned = true
		t.levels = append(t.levels, s)
		w, h = max(1, w/2), max(1, h/2)
	}
	return t, nil
}

// CreateTexture creates a 2D texture. Block-compressed formats are not
// supported.
func (d *Device) CreateTexture(width, height, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.Texture, error) {
	t, err := d.newTexture("texture", width, height, levels, usage, f, pool)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateCubeTexture creates six face textures.
func (d *Device) CreateCubeTexture(edge, levels int, usage backend.Usage, f format.Format, pool backend.Pool) (backend.CubeTexture, error) {
	c := &CubeTexture{}
	for i := range c.faces {
		t, err := d.newTexture("cube", edge, edge, levels, usage, f, pool)
		if err != nil {
			c.Release()
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		c.faces[i] = t
	}
	return c, nil
}

// CreateRenderTarget creates a render target texture.
func (d *Device) CreateRenderTarget(width, height int, f format.Format, lockable bool) (backend.Surface, error) {
	s, err := d.newStandalone(width, height, f, backend.PoolDefault, backend.UsageRenderTarget, lockable)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateDepthStencil creates a Depth24PlusStencil8 texture whatever the
// requested depth layout.
func (d *Device) CreateDepthStencil(width, height int, f format.Format) (backend.Surface, error) {
	if !f.IsDepthStencil() {
		return nil, fmt.Errorf("%w: %v is not a depth format", backend.ErrUnsupportedFormat, f)
	}
	s, err := d.newStandalone(width, height, f, backend.PoolDefault, backend.UsageDepthStencil, true)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateOffscreenSurface creates a plain surface backed by a sampled texture.
func (d *Device) CreateOffscreenSurface(width, height int, f format.Format, pool backend.Pool) (backend.Surface, error) {
	s, err := d.newStandalone(width, height, f, pool, 0, true)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// BackBuffer returns the presentation back buffer.
func (d *Device) BackBuffer() (backend.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, backend.ErrReleased
	}
	return d.backBuffer, nil
}

// DepthStencilTarget returns the automatic depth-stencil target or nil.
func (d *Device) DepthStencilTarget() backend.Surface {
	if d.autoDS == nil {
		return nil
	}
	return d.autoDS
}

// PresentationFormat returns the back buffer format.
func (d *Device) PresentationFormat() format.Format { return d.opts.format }

func (d *Device) destroyTexture(tex hal.Texture) {
	if tex != nil {
		d.device.DestroyTexture(tex)
	}
}

// Close destroys the back buffer and depth-stencil target, then the
// HAL device when this package opened it.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	for _, s := range []*Surface{d.backBuffer, d.autoDS} {
		if s != nil {
			s.owned = false
			s.destroy()
		}
	}
	if d.closeFn != nil {
		d.closeFn()
	}
}
