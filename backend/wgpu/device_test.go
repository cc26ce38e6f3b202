package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

func openHeadless(t *testing.T, opts ...Option) *Device {
	t.Helper()
	d, err := OpenHeadless(64, 64, opts...)
	if err != nil {
		t.Fatalf("OpenHeadless: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		f      format.Format
		gpu    gputypes.TextureFormat
		expand bool
		depth  bool
	}{
		{format.A8R8G8B8, gputypes.TextureFormatBGRA8Unorm, false, false},
		{format.A8B8G8R8, gputypes.TextureFormatRGBA8Unorm, false, false},
		{format.X8R8G8B8, gputypes.TextureFormatRGBA8Unorm, true, false},
		{format.R5G6B5, gputypes.TextureFormatRGBA8Unorm, true, false},
		{format.L8, gputypes.TextureFormatRGBA8Unorm, true, false},
		{format.D16, gputypes.TextureFormatDepth24PlusStencil8, false, true},
		{format.D24S8, gputypes.TextureFormatDepth24PlusStencil8, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			l, err := layoutFor(tt.f)
			if err != nil {
				t.Fatalf("layoutFor: %v", err)
			}
			if l.gpu != tt.gpu || l.expand != tt.expand || l.depth != tt.depth {
				t.Errorf("layout = %+v", l)
			}
		})
	}

	for _, f := range []format.Format{format.DXT1, format.V8U8, format.Unknown} {
		if _, err := layoutFor(f); !errors.Is(err, backend.ErrUnsupportedFormat) {
			t.Errorf("layoutFor(%v): err = %v, want ErrUnsupportedFormat", f, err)
		}
	}
}

func TestTextureUpload(t *testing.T) {
	d := openHeadless(t)
	tex, err := d.CreateTexture(64, 64, 2, 0, format.A8R8G8B8, backend.PoolManaged)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer tex.Release()

	if tex.Levels() != 2 {
		t.Fatalf("Levels = %d, want 2", tex.Levels())
	}
	for i := range tex.Levels() {
		l, _ := tex.Level(i)
		r, err := l.LockRect()
		if err != nil {
			t.Fatalf("LockRect(%d): %v", i, err)
		}
		if r.Pitch%rowAlignment != 0 {
			t.Errorf("level %d pitch %d not aligned", i, r.Pitch)
		}
		r.Bits[0] = 0xab
		if err := l.UnlockRect(); err != nil {
			t.Fatalf("UnlockRect(%d): %v", i, err)
		}
		if got := l.(*Surface).Uploads(); got != 1 {
			t.Errorf("level %d uploads = %d, want 1", i, got)
		}
	}
}

func TestExpandedUpload(t *testing.T) {
	d := openHeadless(t)
	s, err := d.CreateOffscreenSurface(2, 1, format.R5G6B5, backend.PoolSystemMem)
	if err != nil {
		t.Fatalf("CreateOffscreenSurface: %v", err)
	}
	defer s.Release()

	r, _ := s.LockRect()
	// Pure red, then pure blue.
	copy(r.Bits, []byte{0x00, 0xf8, 0x1f, 0x00})
	if err := s.UnlockRect(); err != nil {
		t.Fatalf("UnlockRect: %v", err)
	}

	data, pitch := s.(*Surface).uploadData()
	if pitch != rowAlignment {
		t.Errorf("upload pitch = %d, want %d", pitch, rowAlignment)
	}
	want := []byte{0xff, 0, 0, 0xff, 0, 0, 0xff, 0xff}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("upload bytes = %v, want %v", data[:8], want)
		}
	}
}

func TestDepthStencilNotUploaded(t *testing.T) {
	d := openHeadless(t, WithAutoDepthStencil(format.D24S8))
	ds := d.DepthStencilTarget()
	if ds == nil {
		t.Fatal("DepthStencilTarget is nil")
	}
	if _, err := ds.LockRect(); err != nil {
		t.Fatalf("LockRect: %v", err)
	}
	if err := ds.UnlockRect(); err != nil {
		t.Fatalf("UnlockRect: %v", err)
	}
	if got := ds.(*Surface).Uploads(); got != 0 {
		t.Errorf("uploads = %d, want 0", got)
	}
}

func TestCubeTexture(t *testing.T) {
	d := openHeadless(t)
	cube, err := d.CreateCubeTexture(16, 2, backend.UsageRenderTarget, format.A8R8G8B8, backend.PoolDefault)
	if err != nil {
		t.Fatalf("CreateCubeTexture: %v", err)
	}
	seen := map[*Texture]bool{}
	for f := range backend.CubeFaceCount {
		s, err := cube.Face(backend.CubeFace(f), 1)
		if err != nil {
			t.Fatalf("Face(%d, 1): %v", f, err)
		}
		if s.Desc().Width != 8 {
			t.Errorf("face %d level 1 width = %d, want 8", f, s.Desc().Width)
		}
	}
	for _, face := range cube.(*CubeTexture).faces {
		seen[face] = true
	}
	if len(seen) != backend.CubeFaceCount {
		t.Errorf("distinct face textures = %d, want %d", len(seen), backend.CubeFaceCount)
	}
	cube.Release()
	if s, err := cube.Face(backend.CubeFacePositiveX, 0); err == nil {
		t.Errorf("Face after Release = %v, want error", s)
	}
}

func TestReleaseStandalone(t *testing.T) {
	d := openHeadless(t)
	rt, err := d.CreateRenderTarget(8, 8, format.X8R8G8B8, false)
	if err != nil {
		t.Fatalf("CreateRenderTarget: %v", err)
	}
	if _, err := rt.LockRect(); !errors.Is(err, backend.ErrNotLockable) {
		t.Errorf("LockRect: err = %v, want ErrNotLockable", err)
	}
	rt.Release()
	rt.Release()
	if !rt.(*Surface).Released() {
		t.Error("render target should be released")
	}
}

func TestCompressedRejected(t *testing.T) {
	d := openHeadless(t)
	if _, err := d.CreateTexture(16, 16, 1, backend.UsageDynamic, format.DXT1, backend.PoolDefault); !errors.Is(err, backend.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

type mockProvider struct{ format gputypes.TextureFormat }

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

func TestNewDeviceWithoutHAL(t *testing.T) {
	if _, err := NewDevice(&mockProvider{}, 8, 8); !errors.Is(err, ErrNoHAL) {
		t.Errorf("err = %v, want ErrNoHAL", err)
	}
}

func TestPresentationFormat(t *testing.T) {
	if got := presentationFormat(gputypes.TextureFormatRGBA8Unorm); got != format.A8B8G8R8 {
		t.Errorf("RGBA8Unorm = %v", got)
	}
	if got := presentationFormat(gputypes.TextureFormatBGRA8Unorm); got != format.A8R8G8B8 {
		t.Errorf("BGRA8Unorm = %v", got)
	}
	d := openHeadless(t, WithPresentationFormat(format.X8R8G8B8))
	if d.PresentationFormat() != format.X8R8G8B8 {
		t.Errorf("PresentationFormat = %v", d.PresentationFormat())
	}
}

func TestRegistered(t *testing.T) {
	dev, err := backend.Open(backend.BackendWGPU, backend.Config{Width: 16, Height: 16})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.(*Device).Close()
	if dev.Name() != backend.BackendWGPU {
		t.Errorf("Name = %q", dev.Name())
	}
}
