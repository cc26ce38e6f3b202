package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/ddraw/format"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnsupportedFormat is returned when a device cannot store a format.
	ErrUnsupportedFormat = errors.New("backend: unsupported format")

	// ErrInvalidSize is returned for zero or negative resource dimensions.
	ErrInvalidSize = errors.New("backend: invalid size")

	// ErrLocked is returned when locking a surface that is already locked.
	ErrLocked = errors.New("backend: surface already locked")

	// ErrNotLocked is returned by UnlockRect on a surface that is not locked.
	ErrNotLocked = errors.New("backend: surface not locked")

	// ErrNotLockable is returned when locking a surface created without CPU access.
	ErrNotLockable = errors.New("backend: surface not lockable")

	// ErrReleased is returned when using a released resource.
	ErrReleased = errors.New("backend: resource released")

	// ErrNoLevel is returned for out-of-range mip levels or cube faces.
	ErrNoLevel = errors.New("backend: no such level")
)

// Pool selects where a resource lives.
type Pool int

const (
	// PoolDefault is device-local memory, not CPU-visible.
	PoolDefault Pool = iota

	// PoolManaged is device memory mirrored by the driver.
	PoolManaged

	// PoolSystemMem is CPU-resident memory.
	PoolSystemMem
)

// String returns the pool name.
func (p Pool) String() string {
	switch p {
	case PoolDefault:
		return "default"
	case PoolManaged:
		return "managed"
	case PoolSystemMem:
		return "systemmem"
	}
	return fmt.Sprintf("Pool(%d)", int(p))
}

// Usage is a set of resource usage flags.
type Usage uint32

const (
	// UsageRenderTarget allows binding as a render target.
	UsageRenderTarget Usage = 1 << iota

	// UsageDepthStencil allows binding as a depth-stencil target.
	UsageDepthStencil

	// UsageDynamic marks resources rewritten by the CPU.
	UsageDynamic

	// UsageAutoGenMipmap asks the device to generate sub-levels.
	UsageAutoGenMipmap
)

// String returns the set flags joined by '|'.
func (u Usage) String() string {
	if u == 0 {
		return "0"
	}
	names := []string{"rendertarget", "depthstencil", "dynamic", "autogenmipmap"}
	s := ""
	for i, n := range names {
		if u&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	return s
}

// CubeFace indexes the faces of a cube texture.
type CubeFace int

// Cube faces, in the order the legacy API enumerates them.
const (
	CubeFacePositiveX CubeFace = iota
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
)

// CubeFaceCount is the number of faces of a cube texture.
const CubeFaceCount = 6

// SurfaceDesc describes a device surface.
type SurfaceDesc struct {
	Width  int
	Height int
	Format format.Format
	Pool   Pool
	Usage  Usage
}

// LockedRect is a mapped view of a device surface. Bits is valid until
// UnlockRect.
type LockedRect struct {
	Bits  []byte
	Pitch int
}

// Surface is a single device-resident image: a render target, depth
// stencil, off-screen surface or one level of a texture.
type Surface interface {
	// Desc describes the surface.
	Desc() SurfaceDesc

	// LockRect maps the whole surface for CPU access.
	LockRect() (LockedRect, error)

	// UnlockRect ends CPU access and makes written bytes visible to the
	// device.
	UnlockRect() error

	// Release frees the surface. Levels of a texture are owned by the
	// texture; releasing one is a no-op.
	Release()
}

// Texture is a 2D texture with one or more mip levels.
type Texture interface {
	Levels() int
	Level(level int) (Surface, error)
	Release()
}

// CubeTexture is a cube texture with six faces of equal mip depth.
type CubeTexture interface {
	Levels() int
	Face(face CubeFace, level int) (Surface, error)
	Release()
}

// Device creates and presents modern resources.
//
// The identity of a Device value is the device identity: replacing the
// device with a new value invalidates every resource made by the old one.
type Device interface {
	// Name returns the backend identifier (e.g., "software", "wgpu").
	Name() string

	CreateTexture(width, height, levels int, usage Usage, f format.Format, pool Pool) (Texture, error)
	CreateCubeTexture(edge, levels int, usage Usage, f format.Format, pool Pool) (CubeTexture, error)

	// CreateRenderTarget creates a render target. Lockable targets
	// accept LockRect.
	CreateRenderTarget(width, height int, f format.Format, lockable bool) (Surface, error)
	CreateDepthStencil(width, height int, f format.Format) (Surface, error)
	CreateOffscreenSurface(width, height int, f format.Format, pool Pool) (Surface, error)

	// BackBuffer returns the presentation back buffer. It is owned by
	// the device and must not be released by callers.
	BackBuffer() (Surface, error)

	// DepthStencilTarget returns the automatic depth-stencil target, or
	// nil when the device has none.
	DepthStencilTarget() Surface

	// PresentationFormat is the format of the back buffer.
	PresentationFormat() format.Format
}

// Presenter is implemented by devices that can show the back buffer.
type Presenter interface {
	Present() error
}
