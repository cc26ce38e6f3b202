// Command ddinspect builds a legacy surface complex on a backend, runs
// one synchronization and reports how each surface was materialized.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/ddraw"
	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"

	_ "github.com/gogpu/ddraw/backend/d3d9"
	_ "github.com/gogpu/ddraw/backend/software"
	_ "github.com/gogpu/ddraw/backend/wgpu"
)

var kinds = map[string]surface.Caps{
	"texture": surface.CapsTexture,
	"mipmap":  surface.CapsTexture | surface.CapsMipMap,
	"cube":    surface.CapsTexture | surface.CapsCubeMap,
	"rt":      surface.Caps3DDevice | surface.CapsOffscreenPlain,
	"plain":   surface.CapsOffscreenPlain,
	"zbuffer": surface.CapsZBuffer,
	"flip":    surface.Caps3DDevice,
}

func main() {
	var (
		backendName = flag.String("backend", backend.BackendSoftware, "backend name, empty for the best available")
		width       = flag.Int("width", 64, "surface width")
		height      = flag.Int("height", 64, "surface height")
		formatName  = flag.String("format", "A8R8G8B8", "pixel format")
		kind        = flag.String("kind", "texture", "surface kind: texture, mipmap, cube, rt, plain, zbuffer, flip")
		mips        = flag.Int("mips", 1, "declared mip count")
		pitch       = flag.Int("pitch", 0, "legacy row pitch in bytes, 0 for the default")
		autoGen     = flag.Bool("autogen", false, "allocate auto-generated mip chains")
		dump        = flag.String("dump", "", "write the legacy content of the root surface as BMP")
		list        = flag.Bool("list", false, "list texture and z-buffer formats and exit")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		ddraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *list {
		listFormats()
		return
	}

	caps, ok := kinds[*kind]
	if !ok {
		log.Fatalf("unknown kind %q", *kind)
	}
	f, ok := parseFormat(*formatName)
	if !ok {
		log.Fatalf("unknown format %q", *formatName)
	}
	pf, _ := format.ToLegacy(f)

	cfg := backend.Config{Width: 640, Height: 480, Format: format.X8R8G8B8}
	var (
		dev backend.Device
		err error
	)
	if *backendName == "" {
		dev, err = backend.Default(cfg)
	} else {
		dev, err = backend.Open(*backendName, cfg)
	}
	if err != nil {
		log.Fatalf("open backend: %v", err)
	}

	dd := ddraw.NewInterface(ddraw.WithDevice(dev), ddraw.WithAutoGenMipMaps(*autoGen))
	desc := surface.Descriptor{
		Width:       *width,
		Height:      *height,
		MipCount:    *mips,
		Caps:        caps,
		PixelFormat: pf,
	}
	var opts []surface.Option
	if *pitch > 0 {
		opts = append(opts, surface.WithPitch(*pitch))
	}

	var root *ddraw.Surface
	if *kind == "flip" {
		root, err = dd.CreateFlipChain(desc, 1, opts...)
	} else {
		root, err = dd.CreateSurface(desc, opts...)
	}
	if err != nil {
		log.Fatalf("create surface: %v", err)
	}

	if format.CanExpand(f) {
		fill := color.NRGBA{R: 0x20, G: 0x80, B: 0xe0, A: 0xff}
		if err := root.ColorFill(image.Rectangle{}, fill); err != nil {
			log.Printf("fill: %v", err)
		}
	}
	if err := root.InitializeOrUpload(); err != nil {
		log.Fatalf("InitializeOrUpload: %v", err)
	}

	fmt.Printf("backend %s, presentation format %v\n", dev.Name(), dev.PresentationFormat())
	fmt.Printf("walked mip levels: %d (declared %d)\n", root.CountMips(), *mips)
	report(root, 0, map[*ddraw.Surface]bool{})

	if *dump != "" {
		if err := writeBMP(root, *dump); err != nil {
			log.Fatalf("dump: %v", err)
		}
		log.Printf("legacy content written to %s", *dump)
	}
}

func report(s *ddraw.Surface, depth int, seen map[*ddraw.Surface]bool) {
	if seen[s] {
		return
	}
	seen[s] = true
	d := s.Descriptor()
	r := s.Resource()
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s#%d %dx%d %v [%v]\n", indent, s.ID(), d.Width, d.Height, d.Format(), d.Caps)
	fmt.Printf("%s  state=%v kind=%v format=%v pool=%v usage=%v levels=%d borrowed=%v\n",
		indent, s.State(), r.Kind(), r.Format(), r.Pool(), r.Usage(), r.Levels(), r.Borrowed())
	if depth == 0 {
		u := s.LastUpload()
		fmt.Printf("%s  upload: levels=%d bulk=%d rows=%d skipped=%d bytes=%d\n",
			indent, u.Levels, u.Bulk, u.Rows, u.Skipped, u.Bytes)
	}
	for _, c := range s.Children() {
		report(c, depth+1, seen)
	}
}

func writeBMP(s *ddraw.Surface, path string) error {
	m, ok := s.Storage().(*surface.Memory)
	if !ok {
		return fmt.Errorf("storage %T cannot be exported", s.Storage())
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteBMP(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func knownFormats() []format.Format {
	extra := []format.Format{
		format.R8G8B8, format.X8B8G8R8, format.A8B8G8R8, format.A2R10G10B10,
		format.A2B10G10R10, format.G16R16, format.X4R4G4B4, format.A8R3G3B2,
		format.R3G3B2, format.A8, format.D15S1, format.D24X4S4, format.D32,
	}
	all := append(format.TextureFormats(), format.ZBufferFormats()...)
	return append(all, extra...)
}

func parseFormat(name string) (format.Format, bool) {
	for _, f := range knownFormats() {
		if strings.EqualFold(f.String(), name) {
			return f, true
		}
	}
	return format.Unknown, false
}

func listFormats() {
	fmt.Println("texture formats:")
	for _, f := range format.TextureFormats() {
		pf, _ := format.ToLegacy(f)
		fmt.Printf("  %-10v bits=%-2d r=%#08x g=%#08x b=%#08x a=%#08x fourcc=%v\n",
			f, pf.BitCount, pf.RMask, pf.GMask, pf.BMask, pf.AMask, fourCC(pf))
	}
	fmt.Println("z-buffer formats:")
	for _, f := range format.ZBufferFormats() {
		pf, _ := format.ToLegacy(f)
		fmt.Printf("  %-10v bits=%-2d z=%#08x stencil=%#08x\n", f, pf.BitCount, pf.ZMask, pf.StencilMask)
	}
}

func fourCC(pf format.PixelFormat) string {
	if pf.Flags&format.FlagFourCC == 0 {
		return "-"
	}
	return pf.FourCC.String()
}
