package ddraw

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"
)

func TestInitializeOrUploadIdempotent(t *testing.T) {
	dd, dev := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 64, 64))

	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatalf("first InitializeOrUpload: %v", err)
	}
	first := tex.Resource()
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatalf("second InitializeOrUpload: %v", err)
	}
	second := tex.Resource()

	if first.Texture() != second.Texture() {
		t.Error("second call reallocated the texture")
	}
	if got := dev.Stats().Textures; got != 1 {
		t.Errorf("Textures created = %d, want 1", got)
	}
	if got := tex.State(); got != Materialized {
		t.Errorf("State = %v, want materialized", got)
	}
}

func TestTextureUploadBulk(t *testing.T) {
	dd, _ := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 64, 64))

	writePattern(t, tex, 0x5a)

	res := tex.Resource()
	if res.Kind() != KindTexture2D {
		t.Fatalf("Kind = %v, want texture-2d", res.Kind())
	}
	st := tex.LastUpload()
	if st.Bulk != 1 || st.Rows != 0 {
		t.Errorf("upload = %+v, want one bulk copy", st)
	}
	if st.Bytes != 64*64*4 {
		t.Errorf("Bytes = %d, want %d", st.Bytes, 64*64*4)
	}

	level0 := softwareTexture(t, res).Surface(0)
	if level0.Pitch() != 256 {
		t.Fatalf("modern pitch = %d, want 256", level0.Pitch())
	}
	want := bytes.Join(legacyRows(t, tex.Storage(), 256), nil)
	if !bytes.Equal(level0.Bytes()[:len(want)], want) {
		t.Error("level 0 content differs from legacy buffer")
	}
}

func TestTextureUploadMismatchedStride(t *testing.T) {
	dd, _ := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 64, 64), surface.WithPitch(260))

	writePattern(t, tex, 0x33)

	st := tex.LastUpload()
	if st.Bulk != 0 {
		t.Errorf("Bulk = %d, want row-by-row copy", st.Bulk)
	}
	if st.Rows != 64 {
		t.Errorf("Rows = %d, want 64", st.Rows)
	}
	if st.Bytes != 64*256 {
		t.Errorf("Bytes = %d, want %d", st.Bytes, 64*256)
	}

	level0 := softwareTexture(t, tex.Resource()).Surface(0)
	rows := legacyRows(t, tex.Storage(), 256)
	for y, row := range rows {
		got := level0.Bytes()[y*level0.Pitch() : y*level0.Pitch()+256]
		if !bytes.Equal(got, row) {
			t.Fatalf("row %d differs", y)
		}
	}
}

func TestMipHintIgnored(t *testing.T) {
	dd, dev := newTestInterface(t)

	desc := textureDesc(t, 32, 32)
	desc.Caps |= surface.CapsMipMap | surface.CapsComplex
	desc.MipCount = 4
	root, err := surface.NewMemory(desc)
	if err != nil {
		t.Fatal(err)
	}
	sub := desc
	sub.Width, sub.Height, sub.MipCount = 16, 16, 3
	sub.Caps = surface.CapsTexture | surface.CapsMipMap | surface.CapsMipMapSubLevel
	level1, err := surface.NewMemory(sub)
	if err != nil {
		t.Fatal(err)
	}
	if err := root.Attach(level1); err != nil {
		t.Fatal(err)
	}

	logs := captureLogs(t)
	s, err := dd.Wrap(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CountMips(); got != 2 {
		t.Errorf("CountMips = %d, want 2", got)
	}
	if err := s.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	if got := s.Resource().Levels(); got != 2 {
		t.Errorf("allocated levels = %d, want 2", got)
	}
	if got := softwareTexture(t, s.Resource()).Levels(); got != 2 {
		t.Errorf("device texture levels = %d, want 2", got)
	}
	if got := dev.Stats().Textures; got != 1 {
		t.Errorf("Textures = %d, want 1", got)
	}
	if !strings.Contains(logs.String(), "declared mip count differs") {
		t.Error("hint mismatch was not logged")
	}
}

func TestCountMipsCap(t *testing.T) {
	dd, _ := newTestInterface(t, WithMaxMipLevels(3))
	desc := textureDesc(t, 64, 64)
	desc.Caps |= surface.CapsMipMap
	desc.MipCount = 6
	s := mustCreate(t, dd, desc)
	if got := s.CountMips(); got != 3 {
		t.Errorf("CountMips = %d, want cap of 3", got)
	}
	var nilSurface *Surface
	if got := nilSurface.CountMips(); got != 0 {
		t.Errorf("nil CountMips = %d, want 0", got)
	}
}

func TestDeviceLossRecovery(t *testing.T) {
	dd, first := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 16, 16))
	writePattern(t, tex, 1)
	old := softwareTexture(t, tex.Resource())

	dd.SetDevice(nil)
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatalf("InitializeOrUpload without device: %v", err)
	}
	if got := tex.State(); got != Invalidated {
		t.Errorf("State after loss = %v, want invalidated", got)
	}
	if !old.Released() {
		t.Error("old texture not released after device change")
	}
	if !tex.Resource().IsNone() {
		t.Error("resource still populated after device change")
	}

	second := newSoftware(t)
	dd.SetDevice(second)
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	if got := tex.State(); got != Materialized {
		t.Errorf("State = %v, want materialized", got)
	}
	fresh := softwareTexture(t, tex.Resource())
	if fresh.Surface(0).Device() != second {
		t.Error("resource not created on the new device")
	}
	if got := first.Stats().LiveAllocation; got != 1 {
		t.Errorf("old device live allocations = %d, want only its back buffer", got)
	}
	if fresh.Surface(0).Uploads() == 0 {
		t.Error("content not uploaded to the new device")
	}
}

func TestDeviceSwapWithoutGap(t *testing.T) {
	dd, first := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 8, 8))
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	old := softwareTexture(t, tex.Resource())

	second := newSoftware(t)
	dd.SetDevice(second)
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	if !old.Released() {
		t.Error("old texture retained")
	}
	if got := softwareTexture(t, tex.Resource()).Surface(0).Device(); got != second {
		t.Errorf("texture device = %p, want %p", got, second)
	}
	if first.Stats().Textures != 1 || second.Stats().Textures != 1 {
		t.Errorf("textures created = %d and %d, want 1 each",
			first.Stats().Textures, second.Stats().Textures)
	}
}

func TestZeroSizeGuard(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 32},
		{"zero height", 32, 0},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dd, dev := newTestInterface(t)
			s := mustCreate(t, dd, textureDesc(t, tt.w, tt.h))
			if err := s.InitializeOrUpload(); err != nil {
				t.Fatalf("InitializeOrUpload = %v, want nil", err)
			}
			st := dev.Stats()
			if st.Textures+st.RenderTargets+st.Offscreen+st.DepthStencils+st.CubeTextures != 0 {
				t.Errorf("zero-size surface created resources: %+v", st)
			}
			if s.State() != Uninitialized {
				t.Errorf("State = %v, want uninitialized", s.State())
			}
		})
	}
}

func TestNoDeviceIsOk(t *testing.T) {
	dd := NewInterface()
	s := mustCreate(t, dd, textureDesc(t, 8, 8))
	if err := s.InitializeOrUpload(); err != nil {
		t.Fatalf("InitializeOrUpload = %v, want nil", err)
	}
	if s.State() != Uninitialized {
		t.Errorf("State = %v, want uninitialized", s.State())
	}
}

func TestCreationFailureRetries(t *testing.T) {
	dd, dev := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 16, 16))

	errOOM := errors.New("out of video memory")
	dev.FailCreates(errOOM)
	err := tex.InitializeOrUpload()
	if !errors.Is(err, ErrResourceCreation) || !errors.Is(err, errOOM) {
		t.Fatalf("InitializeOrUpload = %v, want ErrResourceCreation wrapping device error", err)
	}
	if tex.State() != Uninitialized {
		t.Errorf("State = %v, want uninitialized", tex.State())
	}
	if !tex.Resource().IsNone() {
		t.Error("partial resource left after failure")
	}

	dev.FailCreates(nil)
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if tex.State() != Materialized {
		t.Errorf("State after retry = %v, want materialized", tex.State())
	}
}

func TestCubeMapMaterialization(t *testing.T) {
	dd, dev := newTestInterface(t)
	desc := textureDesc(t, 16, 16)
	desc.Caps |= surface.CapsCubeMap | surface.CapsMipMap
	desc.MipCount = 2
	root := mustCreate(t, dd, desc)

	if err := root.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Stats().CubeTextures; got != 1 {
		t.Errorf("CubeTextures = %d, want 1", got)
	}
	res := root.Resource()
	if res.Kind() != KindCubeTexture {
		t.Fatalf("Kind = %v, want cube-texture", res.Kind())
	}
	if got := res.CubeTexture().Levels(); got != 2 {
		t.Errorf("cube levels = %d, want 2", got)
	}

	seen := make(map[backend.Surface]bool)
	for face := range backend.CubeFaceCount {
		caps := surface.FaceCaps(face)
		fs := root
		if face > 0 {
			var err error
			fs, err = root.AttachedSurface(caps)
			if err != nil {
				t.Fatalf("face %d: %v", face, err)
			}
		}
		fr := fs.Resource()
		if fr.Surface() == nil {
			t.Fatalf("face %d has no resource", face)
		}
		if int(fr.Face()) != face {
			t.Errorf("face %d resource maps face %d", face, fr.Face())
		}
		if fr.Levels() != 2 {
			t.Errorf("face %d levels = %d, want 2", face, fr.Levels())
		}
		if seen[fr.Surface()] {
			t.Errorf("face %d shares a surface with another face", face)
		}
		seen[fr.Surface()] = true
	}

	if st := root.LastUpload(); st.Levels != 12 || st.Skipped != 0 {
		t.Errorf("upload = %+v, want 12 levels and none skipped", st)
	}
}

func TestCubeFaceUploadAfterRootChange(t *testing.T) {
	dd, _ := newTestInterface(t)
	desc := textureDesc(t, 8, 8)
	desc.Caps |= surface.CapsCubeMap
	root := mustCreate(t, dd, desc)

	face, err := root.AttachedSurface(surface.CapsCubeMapNegativeY)
	if err != nil {
		t.Fatal(err)
	}
	writePattern(t, face, 0x77)

	cube := root.Resource().CubeTexture()
	if cube == nil {
		t.Fatal("writing a face did not materialize the cube root")
	}
	dst, err := cube.Face(backend.CubeFaceNegativeY, 0)
	if err != nil {
		t.Fatal(err)
	}
	lr, err := dst.LockRect()
	if err != nil {
		t.Fatal(err)
	}
	got := bytes.Clone(lr.Bits[:8*4])
	_ = dst.UnlockRect()
	want := legacyRows(t, face.Storage(), 8*4)[0]
	if !bytes.Equal(got, want) {
		t.Error("negative Y face content not uploaded")
	}
}

func TestMipSubLevelDelegatesToRoot(t *testing.T) {
	dd, dev := newTestInterface(t)
	desc := textureDesc(t, 16, 16)
	desc.Caps |= surface.CapsMipMap
	desc.MipCount = 3
	root := mustCreate(t, dd, desc)

	sub, err := root.AttachedSurface(surface.CapsMipMapSubLevel)
	if err != nil {
		t.Fatal(err)
	}
	writePattern(t, sub, 0x11)

	if root.State() != Materialized {
		t.Fatalf("root State = %v, want materialized", root.State())
	}
	if got := dev.Stats().Textures; got != 1 {
		t.Errorf("Textures = %d, want one texture for the chain", got)
	}
	sr := sub.Resource()
	if !sr.Borrowed() || sr.Level() != 1 {
		t.Errorf("sub-level resource borrowed=%v level=%d, want borrowed level 1", sr.Borrowed(), sr.Level())
	}
	level1 := softwareTexture(t, root.Resource()).Surface(1)
	want := legacyRows(t, sub.Storage(), 8*4)
	for y, row := range want {
		if !bytes.Equal(level1.Bytes()[y*level1.Pitch():y*level1.Pitch()+len(row)], row) {
			t.Fatalf("level 1 row %d differs", y)
		}
	}
}

func TestAutoGenMipMapsUploadsLevelZero(t *testing.T) {
	dd, _ := newTestInterface(t, WithAutoGenMipMaps(true))
	tex := mustCreate(t, dd, textureDesc(t, 64, 64))
	writePattern(t, tex, 2)

	res := tex.Resource()
	if res.Levels() != 7 {
		t.Errorf("Levels = %d, want full chain of 7", res.Levels())
	}
	if res.Usage()&backend.UsageAutoGenMipmap == 0 {
		t.Errorf("Usage = %v, want auto-gen", res.Usage())
	}
	if st := tex.LastUpload(); st.Levels != 1 {
		t.Errorf("uploaded levels = %d, want 1", st.Levels)
	}
}

func TestCompressedTexturePlacement(t *testing.T) {
	dd, _ := newTestInterface(t)
	desc := surface.Descriptor{
		Width:       64,
		Height:      64,
		Caps:        surface.CapsTexture | surface.CapsSystemMemory,
		PixelFormat: pixelFormat(t, format.DXT1),
	}
	tex := mustCreate(t, dd, desc)
	writePattern(t, tex, 9)

	res := tex.Resource()
	if res.Pool() != backend.PoolDefault || res.Usage()&backend.UsageDynamic == 0 {
		t.Errorf("pool=%v usage=%v, want default pool with dynamic usage", res.Pool(), res.Usage())
	}
	if st := tex.LastUpload(); st.Bytes != 16*128 {
		t.Errorf("Bytes = %d, want 16 block rows of 128 bytes", st.Bytes)
	}
}

func TestReleasedSurface(t *testing.T) {
	dd, _ := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 8, 8))
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	sw := softwareTexture(t, tex.Resource())
	if n := tex.Release(); n != 0 {
		t.Fatalf("Release = %d, want 0", n)
	}
	if !sw.Released() {
		t.Error("texture not released with its surface")
	}
	if err := tex.InitializeOrUpload(); !errors.Is(err, ErrReleased) {
		t.Errorf("InitializeOrUpload after release = %v, want ErrReleased", err)
	}
	if dd.IsWrapped(tex.Storage()) {
		t.Error("released surface still wrapped")
	}
}

func TestResourceReadAfterDeviceChange(t *testing.T) {
	dd, _ := newTestInterface(t)
	root := mustCreate(t, dd, mipChainDesc(t, 16, 16, 2))
	if err := root.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}
	old := softwareTexture(t, root.Resource())
	sub, err := root.AttachedSurface(surface.CapsMipMapSubLevel)
	if err != nil {
		t.Fatal(err)
	}

	dd.SetDevice(newSoftware(t))
	if !sub.Resource().IsNone() {
		t.Error("sub-level still reads a view of the old device's texture")
	}
	if !root.Resource().IsNone() {
		t.Error("root still reads the old device's texture")
	}
	if !old.Released() {
		t.Error("old texture not released on read after device change")
	}
	if got := root.State(); got != Invalidated {
		t.Errorf("State = %v, want invalidated", got)
	}
}
