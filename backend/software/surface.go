package software

import (
	"sync"

	"github.com/gogpu/ddraw/backend"
)

// Surface is a CPU-resident device surface.
type Surface struct {
	mu       sync.Mutex
	dev      *Device
	desc     backend.SurfaceDesc
	pitch    int
	bits     []byte
	lockable bool
	owned    bool
	locked   bool
	released bool
	uploads  int
}

// Desc describes the surface.
func (s *Surface) Desc() backend.SurfaceDesc { return s.desc }

// Device returns the device that created the surface.
func (s *Surface) Device() *Device { return s.dev }

// Pitch returns the row pitch in bytes.
func (s *Surface) Pitch() int { return s.pitch }

// LockRect maps the surface.
func (s *Surface) LockRect() (backend.LockedRect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.released:
		return backend.LockedRect{}, backend.ErrReleased
	case !s.lockable:
		return backend.LockedRect{}, backend.ErrNotLockable
	case s.locked:
		return backend.LockedRect{}, backend.ErrLocked
	}
	s.locked = true
	return backend.LockedRect{Bits: s.bits, Pitch: s.pitch}, nil
}

// UnlockRect ends CPU access and counts one upload.
func (s *Surface) UnlockRect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		return backend.ErrNotLocked
	}
	s.locked = false
	s.uploads++
	return nil
}

// Release frees the surface. Texture levels and the back buffer are
// owned by their parent and ignore Release.
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
	s.bits = nil
	s.dev.live.Add(-1)
}

// Released reports whether the surface has been freed.
func (s *Surface) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Uploads returns the number of completed lock/unlock cycles.
func (s *Surface) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Bytes returns a copy of the surface content.
func (s *Surface) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.bits...)
}

// Texture is a CPU-resident mip chain.
type Texture struct {
	dev      *Device
	levels   []*Surface
	released bool
}

// Levels returns the number of mip levels.
func (t *Texture) Levels() int { return len(t.levels) }

// Level returns mip level i.
func (t *Texture) Level(i int) (backend.Surface, error) {
	if i < 0 || i >= len(t.levels) {
		return nil, backend.ErrNoLevel
	}
	if t.released {
		return nil, backend.ErrReleased
	}
	return t.levels[i], nil
}

// Surface returns mip level i as a concrete surface, or nil.
func (t *Texture) Surface(i int) *Surface {
	if i < 0 || i >= len(t.levels) {
		return nil
	}
	return t.levels[i]
}

// Release frees every level.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	for _, l := range t.levels {
		l.release()
	}
}

// Released reports whether the texture has been freed.
func (t *Texture) Released() bool { return t.released }

// CubeTexture is six CPU-resident mip chains.
type CubeTexture struct {
	faces    [backend.CubeFaceCount]*Texture
	released bool
}

// Levels returns the number of mip levels of each face.
func (c *CubeTexture) Levels() int { return c.faces[0].Levels() }

// Face returns one level of one face.
func (c *CubeTexture) Face(face backend.CubeFace, level int) (backend.Surface, error) {
	if face < 0 || int(face) >= backend.CubeFaceCount {
		return nil, backend.ErrNoLevel
	}
	return c.faces[face].Level(level)
}

// Release frees every face.
func (c *CubeTexture) Release() {
	if c.released {
		return
	}
	c.released = true
	for _, f := range c.faces {
		if f != nil {
			f.Release()
		}
	}
}

// Released reports whether the cube texture has been freed.
func (c *CubeTexture) Released() bool { return c.released }
