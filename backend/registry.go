package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ddraw/format"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference backend.
	BackendSoftware = "software"
	// BackendWGPU is the name of the gogpu/wgpu HAL backend.
	BackendWGPU = "wgpu"
	// BackendD3D9 is the name of the Direct3D 9 backend (Windows only).
	BackendD3D9 = "d3d9"
)

// Config carries the parameters a factory needs to open a device.
type Config struct {
	// Width and Height size the back buffer.
	Width  int
	Height int

	// Format is the presentation format. Unknown selects the backend
	// default.
	Format format.Format

	// DepthStencil is the automatic depth-stencil format. Unknown
	// disables it.
	DepthStencil format.Format

	// Provider supplies an existing GPU device. Backends that need one
	// fall back to a headless device when it is nil.
	Provider gpucontext.DeviceProvider

	// Window is the native window handle for backends that present to
	// one. Zero selects an offscreen device.
	Window uintptr
}

// Factory opens a new device.
type Factory func(cfg Config) (Device, error)

type entry struct {
	priority int
	factory  Factory
}

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]entry)
)

// Register registers a backend factory with the given name. Higher
// priorities are preferred by Default. This is typically called from
// init() functions in backend packages. If a backend with the same name
// is already registered, it will be replaced.
func Register(name string, priority int, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = entry{priority: priority, factory: factory}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, highest priority first.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := backends[names[i]].priority, backends[names[j]].priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open creates a device with the named backend.
func Open(name string, cfg Config) (Device, error) {
	registryMu.RLock()
	e, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return e.factory(cfg)
}

// Default opens the highest priority backend that succeeds. The error
// of the last failing backend is returned when none does.
func Default(cfg Config) (Device, error) {
	err := ErrBackendNotAvailable
	for _, name := range Available() {
		d, openErr := Open(name, cfg)
		if openErr == nil {
			return d, nil
		}
		err = fmt.Errorf("%s: %w", name, openErr)
	}
	return nil, err
}
