package ddraw

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gogpu/ddraw/backend/software"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"
)

// loggingDevice records the logger handed to it.
type loggingDevice struct {
	*software.Device
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) { d.logger = l }

func newLoggingDevice(t *testing.T) *loggingDevice {
	t.Helper()
	return &loggingDevice{Device: newSoftware(t)}
}

func newSoftware(t *testing.T, opts ...software.Option) *software.Device {
	t.Helper()
	dev, err := software.NewDevice(opts...)
	if err != nil {
		t.Fatalf("software.NewDevice: %v", err)
	}
	return dev
}

// newTestInterface returns an interface driving a fresh software device.
func newTestInterface(t *testing.T, opts ...Option) (*Interface, *software.Device) {
	t.Helper()
	dev := newSoftware(t)
	dd := NewInterface(append([]Option{WithDevice(dev)}, opts...)...)
	t.Cleanup(func() { dd.SetDevice(nil) })
	return dd, dev
}

func pixelFormat(t *testing.T, f format.Format) format.PixelFormat {
	t.Helper()
	pf, ok := format.ToLegacy(f)
	if !ok {
		t.Fatalf("no legacy description for %v", f)
	}
	return pf
}

func textureDesc(t *testing.T, w, h int) surface.Descriptor {
	t.Helper()
	return surface.Descriptor{
		Width:       w,
		Height:      h,
		Caps:        surface.CapsTexture,
		PixelFormat: pixelFormat(t, format.A8R8G8B8),
	}
}

func mustCreate(t *testing.T, dd *Interface, desc surface.Descriptor, opts ...surface.Option) *Surface {
	t.Helper()
	s, err := dd.CreateSurface(desc, opts...)
	if err != nil {
		t.Fatalf("CreateSurface(%v): %v", desc.Caps, err)
	}
	return s
}

// writePattern fills level 0 of s with a position-dependent pattern and
// unlocks it, which synchronizes the surface.
func writePattern(t *testing.T, s *Surface, seed byte) {
	t.Helper()
	m, err := s.Lock(0)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	for i := range m.Bits {
		m.Bits[i] = byte(i) ^ seed
	}
	if err := s.Unlock(0); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
}

// legacyRows returns rowBytes bytes of every row of level 0 of s.
func legacyRows(t *testing.T, s surface.Storage, rowBytes int) [][]byte {
	t.Helper()
	m, err := s.LockForRead(0)
	if err != nil {
		t.Fatalf("LockForRead: %v", err)
	}
	defer s.Unlock(0)
	rows := make([][]byte, m.Height)
	for y := range rows {
		rows[y] = bytes.Clone(m.Row(y)[:rowBytes])
	}
	return rows
}

func softwareTexture(t *testing.T, r Resource) *software.Texture {
	t.Helper()
	tex, ok := r.Texture().(*software.Texture)
	if !ok {
		t.Fatalf("resource texture is %T, want *software.Texture", r.Texture())
	}
	return tex
}

// captureLogs routes ddraw logging into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}
