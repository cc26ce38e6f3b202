package wgpu

import (
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

// Surface is one mip level of a hal.Texture with a CPU shadow copy.
// LockRect maps the shadow; UnlockRect uploads it with
// hal.Queue.WriteTexture.
type Surface struct {
	mu       sync.Mutex
	dev      *Device
	tex      hal.Texture
	level    uint32
	desc     backend.SurfaceDesc
	layout   layout
	pitch    int
	shadow   []byte
	staging  []byte
	lockable bool
	owned    bool
	locked   bool
	released bool
	uploads  int
}

func newSurface(dev *Device, tex hal.Texture, level int, desc backend.SurfaceDesc, l layout, lockable bool) *Surface {
	pitch := alignRow(desc.Format.RowPitch(desc.Width))
	return &Surface{
		dev:      dev,
		tex:      tex,
		level:    uint32(level),
		desc:     desc,
		layout:   l,
		pitch:    pitch,
		shadow:   make([]byte, pitch*desc.Format.Rows(desc.Height)),
		lockable: lockable,
	}
}

// Desc describes the surface.
func (s *Surface) Desc() backend.SurfaceDesc { return s.desc }

// Texture returns the underlying HAL texture.
func (s *Surface) Texture() hal.Texture { return s.tex }

// Pitch returns the shadow row pitch, always a multiple of 256.
func (s *Surface) Pitch() int { return s.pitch }

// LockRect maps the CPU shadow.
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
	return backend.LockedRect{Bits: s.shadow, Pitch: s.pitch}, nil
}

// UnlockRect uploads the shadow to the texture level. Depth formats
// keep their shadow only: WebGPU cannot write depth aspects from the
// queue.
func (s *Surface) UnlockRect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		return backend.ErrNotLocked
	}
	s.locked = false
	if s.layout.depth {
		return nil
	}

	data, bytesPerRow := s.uploadData()
	s.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  s.tex,
			MipLevel: s.level,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow),
			RowsPerImage: uint32(s.desc.Height),
		},
		&hal.Extent3D{Width: uint32(s.desc.Width), Height: uint32(s.desc.Height), DepthOrArrayLayers: 1},
	)
	s.uploads++
	slogger().Debug("level uploaded",
		"width", s.desc.Width, "height", s.desc.Height, "level", s.level,
		"format", s.desc.Format, "expanded", s.layout.expand, "bytes", len(data))
	return nil
}

// uploadData returns the bytes written to the GPU and their row pitch.
func (s *Surface) uploadData() ([]byte, int) {
	if !s.layout.expand {
		return s.shadow, s.pitch
	}
	rowBytes := alignRow(s.desc.Width * 4)
	if len(s.staging) != rowBytes*s.desc.Height {
		s.staging = make([]byte, rowBytes*s.desc.Height)
	}
	for y := range s.desc.Height {
		format.ExpandRow(s.desc.Format,
			s.staging[y*rowBytes:(y+1)*rowBytes],
			s.shadow[y*s.pitch:(y+1)*s.pitch],
			s.desc.Width)
	}
	return s.staging, rowBytes
}

// Release destroys the texture of a standalone surface. Texture levels
// and the back buffer are owned by their parent and ignore Release.
func (s *Surface) Release() {
	if s.owned {
		return
	}
	s.destroy()
}

func (s *Surface) destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.shadow, s.staging = nil, nil
	if s.level == 0 && !s.owned {
		s.dev.destroyTexture(s.tex)
	}
}

// Released reports whether the surface has been freed.
func (s *Surface) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Uploads returns the number of WriteTexture calls issued.
func (s *Surface) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Texture is a 2D hal.Texture and its level surfaces.
type Texture struct {
	dev      *Device
	tex      hal.Texture
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

// HAL returns the underlying HAL texture.
func (t *Texture) HAL() hal.Texture { return t.tex }

// Release destroys the texture.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	for _, l := range t.levels {
		l.destroy()
	}
	t.dev.destroyTexture(t.tex)
}

// CubeTexture holds one 2D texture per face. Faces are uploaded
// independently, so separate textures avoid addressing array layers.
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

// Release destroys every face texture.
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
