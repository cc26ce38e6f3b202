package ddraw

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/ddraw/backend/software"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger enabled for %v", level)
		}
	}
}

func TestSetLoggerReceivesLifecycle(t *testing.T) {
	buf := captureLogs(t)
	dd, _ := newTestInterface(t)
	tex := mustCreate(t, dd, textureDesc(t, 8, 8))
	if err := tex.InitializeOrUpload(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"ddraw: surface wrapped",
		"ddraw: resource materialized",
		"surface=" + strconv.FormatUint(tex.ID(), 10),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	// First set a real logger.
	SetLogger(slog.Default())

	// Then set nil to restore silence.
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestSetLoggerPropagatesToDevice(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	dev := newLoggingDevice(t)
	dd := NewInterface(WithDevice(dev))
	t.Cleanup(func() { dd.SetDevice(nil) })

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)

	if dev.logger != custom {
		t.Error("SetLogger did not propagate to device via loggerSetter")
	}
}

func TestSetDevicePropagatesCurrentLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(custom)

	dev := newLoggingDevice(t)
	dd := NewInterface()
	dd.SetDevice(dev)
	t.Cleanup(func() { dd.SetDevice(nil) })

	if dev.logger != custom {
		t.Error("SetDevice did not propagate current logger to device")
	}
}

func TestReplacedDeviceStopsReceivingLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	first := newLoggingDevice(t)
	dd := NewInterface(WithDevice(first))
	dd.SetDevice(newLoggingDevice(t))
	t.Cleanup(func() { dd.SetDevice(nil) })

	first.logger = nil
	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if first.logger != nil {
		t.Error("replaced device should no longer receive logger updates")
	}
}

func TestLoggerSwapDuringSync(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	dd, _ := newTestInterface(t)
	surfaces := make([]*Surface, 8)
	for n := range surfaces {
		surfaces[n] = mustCreate(t, dd, textureDesc(t, 16, 16))
	}

	var wg sync.WaitGroup
	for _, s := range surfaces {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if err := s.InitializeOrUpload(); err != nil {
					t.Errorf("InitializeOrUpload: %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 50 {
			SetLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})))
			SetLogger(nil)
		}
	}()
	wg.Wait()

	for _, s := range surfaces {
		if s.State() != Materialized {
			t.Errorf("surface %d state = %v, want materialized", s.ID(), s.State())
		}
	}
}

func BenchmarkInitializeOrUploadSilent(b *testing.B) {
	dev, err := software.NewDevice()
	if err != nil {
		b.Fatal(err)
	}
	dd := NewInterface(WithDevice(dev))
	defer dd.SetDevice(nil)
	pf, _ := format.ToLegacy(format.A8R8G8B8)
	tex, err := dd.CreateSurface(surface.Descriptor{
		Width: 64, Height: 64, Caps: surface.CapsTexture, PixelFormat: pf,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if err := tex.InitializeOrUpload(); err != nil {
			b.Fatal(err)
		}
	}
}
