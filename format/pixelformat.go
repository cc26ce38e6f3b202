package format

// PixelFlags selects which family of fields a PixelFormat carries.
type PixelFlags uint32

// Pixel format flags, numbered as the legacy API numbers them.
const (
	FlagAlphaPixels     PixelFlags = 0x00000001
	FlagAlpha           PixelFlags = 0x00000002
	FlagFourCC          PixelFlags = 0x00000004
	FlagPaletteIndexed8 PixelFlags = 0x00000020
	FlagRGB             PixelFlags = 0x00000040
	FlagYUV             PixelFlags = 0x00000200
	FlagZBuffer         PixelFlags = 0x00000400
	FlagStencilBuffer   PixelFlags = 0x00004000
	FlagLuminance       PixelFlags = 0x00020000
	FlagBumpLuminance   PixelFlags = 0x00040000
	FlagBumpDuDv        PixelFlags = 0x00080000
)

// Has reports whether every bit of mask is set.
func (f PixelFlags) Has(mask PixelFlags) bool { return f&mask == mask }

// FourCC is a four-character format code.
type FourCC uint32

// MakeFourCC packs four characters into a code, first character in
// the low byte.
func MakeFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Known four-character codes.
const (
	FourCCDXT1 FourCC = 'D' | 'X'<<8 | 'T'<<16 | '1'<<24
	FourCCDXT2 FourCC = 'D' | 'X'<<8 | 'T'<<16 | '2'<<24
	FourCCDXT3 FourCC = 'D' | 'X'<<8 | 'T'<<16 | '3'<<24
	FourCCDXT4 FourCC = 'D' | 'X'<<8 | 'T'<<16 | '4'<<24
	FourCCDXT5 FourCC = 'D' | 'X'<<8 | 'T'<<16 | '5'<<24
	FourCCUYVY FourCC = 'U' | 'Y'<<8 | 'V'<<16 | 'Y'<<24
	FourCCYUY2 FourCC = 'Y' | 'U'<<8 | 'Y'<<16 | '2'<<24
)

// String returns the four characters of the code.
func (c FourCC) String() string {
	return string([]byte{byte(c), byte(c >> 8), byte(c >> 16), byte(c >> 24)})
}

// PixelFormat is the legacy bitmask description of a pixel layout.
//
// The meaning of the mask fields depends on Flags:
//   - RGB: BitCount is the pixel size, RMask/GMask/BMask/AMask the channels.
//   - Luminance: RMask is the luminance mask, AMask the alpha mask.
//   - Bump: RMask is du, GMask is dv, BMask the bump luminance mask.
//   - Alpha only: BitCount is the alpha depth, AMask the alpha mask.
//   - Z-buffer: BitCount is the depth buffer bit depth, ZMask and
//     StencilMask the depth and stencil bits.
//   - FourCC: only FourCC is meaningful.
type PixelFormat struct {
	Flags  PixelFlags
	FourCC FourCC

	BitCount uint32
	RMask    uint32
	GMask    uint32
	BMask    uint32
	AMask    uint32

	ZMask           uint32
	StencilMask     uint32
	StencilBitDepth uint32
}
