package format

import "testing"

func TestRoundTrip(t *testing.T) {
	for _, e := range table {
		t.Run(e.format.String(), func(t *testing.T) {
			pf, ok := ToLegacy(e.format)
			if !ok {
				t.Fatalf("ToLegacy(%v) not found", e.format)
			}
			if got := ToModern(pf); got != e.format {
				t.Errorf("ToModern(ToLegacy(%v)) = %v", e.format, got)
			}
		})
	}
}

func TestToModernUnknown(t *testing.T) {
	tests := []struct {
		name string
		pf   PixelFormat
	}{
		{"empty", PixelFormat{}},
		{"palette8", PixelFormat{Flags: FlagRGB | FlagPaletteIndexed8, BitCount: 8}},
		{"yuv", PixelFormat{Flags: FlagYUV, BitCount: 16}},
		{"fourcc uyvy", PixelFormat{Flags: FlagFourCC, FourCC: FourCCUYVY}},
		{"rgb odd masks", PixelFormat{Flags: FlagRGB, BitCount: 16, RMask: 0x1234}},
		{"rgb 12 bit", PixelFormat{Flags: FlagRGB, BitCount: 12, RMask: 0x0f00}},
		{"zbuffer 8 bit", PixelFormat{Flags: FlagZBuffer, BitCount: 8}},
		{"luminance 16 no alpha", PixelFormat{Flags: FlagLuminance, BitCount: 16, RMask: 0xffff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToModern(tt.pf); got != Unknown {
				t.Errorf("ToModern = %v, want Unknown", got)
			}
		})
	}
}

func TestToModernVariants(t *testing.T) {
	tests := []struct {
		name string
		pf   PixelFormat
		want Format
	}{
		{"zbuffer 24", PixelFormat{Flags: FlagZBuffer, BitCount: 24, ZMask: 0xffffff}, D24X8},
		{"zbuffer 32 high stencil", PixelFormat{Flags: FlagZBuffer | FlagStencilBuffer, BitCount: 32, ZMask: 0x00ffffff, StencilMask: 0xff000000}, D24S8},
		{"zbuffer 16 no stencil", PixelFormat{Flags: FlagZBuffer, BitCount: 16, ZMask: 0xffff}, D16},
		{"bump 16 without luminance", PixelFormat{Flags: FlagBumpDuDv, BitCount: 16, RMask: 0xff, GMask: 0xff00}, V8U8},
		{"argb without alpha flag", PixelFormat{Flags: FlagRGB, BitCount: 32, RMask: 0xff0000, GMask: 0xff00, BMask: 0xff, AMask: 0xff000000}, A8R8G8B8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToModern(tt.pf); got != tt.want {
				t.Errorf("ToModern = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToLegacyUnknown(t *testing.T) {
	if _, ok := ToLegacy(Unknown); ok {
		t.Error("ToLegacy(Unknown) should fail")
	}
	if _, ok := ToLegacy(Format(12345)); ok {
		t.Error("ToLegacy(12345) should fail")
	}
}

func TestEnumeratedFormatsAreCovered(t *testing.T) {
	for _, f := range append(TextureFormats(), ZBufferFormats()...) {
		if _, ok := ToLegacy(f); !ok {
			t.Errorf("enumerated format %v has no legacy description", f)
		}
	}
}

func TestFormatMetrics(t *testing.T) {
	tests := []struct {
		format Format
		width  int
		height int
		pitch  int
		rows   int
	}{
		{A8R8G8B8, 64, 64, 256, 64},
		{R5G6B5, 10, 3, 20, 3},
		{R8G8B8, 5, 1, 15, 1},
		{L8, 7, 2, 7, 2},
		{DXT1, 16, 16, 32, 4},
		{DXT5, 16, 16, 64, 4},
		{DXT1, 1, 1, 8, 1},
		{DXT3, 6, 6, 32, 2},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.RowPitch(tt.width); got != tt.pitch {
				t.Errorf("RowPitch(%d) = %d, want %d", tt.width, got, tt.pitch)
			}
			if got := tt.format.Rows(tt.height); got != tt.rows {
				t.Errorf("Rows(%d) = %d, want %d", tt.height, got, tt.rows)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if got := DXT1.String(); got != "DXT1" {
		t.Errorf("DXT1.String() = %q", got)
	}
	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("Format(7).String() = %q", got)
	}
	if got := FourCCDXT3.String(); got != "DXT3" {
		t.Errorf("FourCCDXT3.String() = %q", got)
	}
	if MakeFourCC('D', 'X', 'T', '5') != FourCCDXT5 {
		t.Error("MakeFourCC mismatch")
	}
}

func TestExpandRow(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    []byte
		want   []byte
	}{
		{"argb", A8R8G8B8, []byte{0x30, 0x20, 0x10, 0x80}, []byte{0x10, 0x20, 0x30, 0x80}},
		{"xrgb opaque", X8R8G8B8, []byte{0x03, 0x02, 0x01, 0x00}, []byte{0x01, 0x02, 0x03, 0xff}},
		{"r5g6b5 white", R5G6B5, []byte{0xff, 0xff}, []byte{0xff, 0xff, 0xff, 0xff}},
		{"r5g6b5 red", R5G6B5, []byte{0x00, 0xf8}, []byte{0xff, 0x00, 0x00, 0xff}},
		{"a1r5g5b5 transparent", A1R5G5B5, []byte{0x00, 0x7c}, []byte{0xff, 0x00, 0x00, 0x00}},
		{"l8", L8, []byte{0x40}, []byte{0x40, 0x40, 0x40, 0xff}},
		{"a8", A8, []byte{0x99}, []byte{0, 0, 0, 0x99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 4)
			if !ExpandRow(tt.format, dst, tt.src, 1) {
				t.Fatal("ExpandRow returned false")
			}
			for i := range dst {
				if dst[i] != tt.want[i] {
					t.Fatalf("ExpandRow = %v, want %v", dst, tt.want)
				}
			}
		})
	}
}

func TestExpandRowRejects(t *testing.T) {
	dst := make([]byte, 4)
	if ExpandRow(DXT1, dst, make([]byte, 8), 1) {
		t.Error("compressed format should not expand")
	}
	if ExpandRow(V8U8, dst, make([]byte, 2), 1) {
		t.Error("bump format should not expand")
	}
	if ExpandRow(A8R8G8B8, dst, make([]byte, 2), 1) {
		t.Error("short source should be rejected")
	}
}

func TestPackPixelRoundTrip(t *testing.T) {
	formats := []Format{A8R8G8B8, X8R8G8B8, A8B8G8R8, R5G6B5, A1R5G5B5, A4R4G4B4, R8G8B8, L8, A8L8}
	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			px := make([]byte, f.BytesPerPixel())
			if !PackPixel(f, px, 0xff, 0xff, 0xff, 0xff) {
				t.Fatal("PackPixel returned false")
			}
			out := make([]byte, 4)
			if !ExpandRow(f, out, px, 1) {
				t.Fatal("ExpandRow returned false")
			}
			for i, v := range out {
				if v != 0xff {
					t.Fatalf("channel %d = %#x, want 0xff", i, v)
				}
			}
		})
	}
}
