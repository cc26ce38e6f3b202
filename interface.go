package ddraw

import (
	"fmt"
	"sync"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/surface"
)

// Interface owns the surfaces of one legacy device: the wrap registry,
// the active modern device and the device lock.
//
// Every exported method that touches device or surface state holds the
// device lock for its whole duration, so operations on one Interface
// execute as a single logical thread. Legacy Lock and Unlock on a
// storage are not guarded by it.
type Interface struct {
	mu   sync.Mutex
	opts options

	device   backend.Device
	surfaces map[surface.Storage]*Surface
	nextID   uint64

	// renderTarget is the surface bound by Device3D.SetRenderTarget.
	renderTarget *Surface

	// hasDrawn is set by draw calls and cleared by Present unless the
	// strict back buffer guard is enabled.
	hasDrawn bool
}

// NewInterface creates an interface. Without WithDevice, surfaces stay
// unmaterialized until SetDevice is called.
func NewInterface(opts ...Option) *Interface {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	i := &Interface{
		opts:     o,
		surfaces: make(map[surface.Storage]*Surface),
	}
	if o.device != nil {
		i.device = o.device
		trackDevice(nil, o.device)
	}
	return i
}

// SetDevice replaces the active modern device. Surfaces notice the new
// identity the next time they are touched and rebuild their resources
// against it. A nil device parks every surface until a device is set.
func (i *Interface) SetDevice(d backend.Device) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if d == i.device {
		return
	}
	old := i.device
	i.device = d
	trackDevice(old, d)

	name := "none"
	if d != nil {
		name = d.Name()
	}
	Logger().Info("ddraw: device changed", "backend", name)
}

// Device returns the active modern device, or nil.
func (i *Interface) Device() backend.Device {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.device
}

// CurrentDeviceIdentity returns an opaque token identifying the active
// device. Tokens compare equal only for the same device value.
func (i *Interface) CurrentDeviceIdentity() any {
	return i.Device()
}

// Wrap returns the surface for storage, creating it on first use. A
// storage that is already wrapped returns the existing surface with an
// extra reference.
func (i *Interface) Wrap(storage surface.Storage) (*Surface, error) {
	if storage == nil {
		return nil, ErrInvalidParams
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if s, ok := i.surfaces[storage]; ok {
		s.refs++
		return s, nil
	}
	return i.wrapLocked(storage), nil
}

func (i *Interface) wrapLocked(storage surface.Storage) *Surface {
	i.nextID++
	s := &Surface{
		iface:   i,
		id:      i.nextID,
		storage: storage,
		refs:    1,
	}
	i.surfaces[storage] = s
	desc := storage.Describe()
	Logger().Debug("ddraw: surface wrapped",
		"surface", s.id, "width", desc.Width, "height", desc.Height, "caps", desc.Caps)
	return s
}

// IsWrapped reports whether storage already has a surface.
func (i *Interface) IsWrapped(storage surface.Storage) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.surfaces[storage]
	return ok
}

// Lookup returns the surface wrapping storage, if any.
func (i *Interface) Lookup(storage surface.Storage) (*Surface, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	s, ok := i.surfaces[storage]
	return s, ok
}

// Len returns the number of live surfaces.
func (i *Interface) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.surfaces)
}

// CreateSurface allocates legacy storage for desc and wraps it. Cube
// maps, mip chains and flip chains build the whole complex; the
// returned surface is its root and every member is attached to it.
func (i *Interface) CreateSurface(desc surface.Descriptor, opts ...surface.Option) (*Surface, error) {
	switch {
	case desc.Caps.Has(surface.CapsCubeMap):
		faces, err := surface.NewCubeMap(desc, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		return i.wrapComplex(faces[0][0]), nil
	case desc.Caps.Has(surface.CapsMipMap) && desc.MipCount > 1:
		chain, err := surface.NewMipChain(desc, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		return i.wrapComplex(chain[0]), nil
	}
	m, err := surface.NewMemory(desc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.wrapLocked(m), nil
}

// CreateFlipChain allocates a front buffer with backBuffers back
// buffers and wraps them. The front buffer is returned.
func (i *Interface) CreateFlipChain(desc surface.Descriptor, backBuffers int, opts ...surface.Option) (*Surface, error) {
	chain, err := surface.NewFlipChain(desc, backBuffers, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return i.wrapComplex(chain[0]), nil
}

// wrapComplex wraps root and every storage reachable through its legacy
// attachment lists, recording a coupled edge for each.
func (i *Interface) wrapComplex(root surface.Storage) *Surface {
	i.mu.Lock()
	defer i.mu.Unlock()
	s := i.wrapLocked(root)
	i.discoverLocked(s)
	return s
}

// discoverLocked wraps the legacy attachments of s that are not yet in
// the graph, recursively.
func (i *Interface) discoverLocked(s *Surface) {
	lister, ok := s.storage.(surface.AttachmentLister)
	if !ok {
		return
	}
	for _, child := range lister.Attachments() {
		if c, known := i.surfaces[child]; known && s.hasChildLocked(c) {
			continue
		}
		c, err := s.adoptLocked(child)
		if err != nil {
			Logger().Warn("ddraw: attachment not recorded",
				"surface", s.id, "err", err)
			continue
		}
		i.discoverLocked(c)
	}
}
