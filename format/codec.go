package format

// entry pairs a modern format with its canonical legacy description.
type entry struct {
	format Format
	pixel  PixelFormat
}

// table is the canonical legacy description of every format the codec
// can produce. ToLegacy reads it directly; ToModern is written so that
// it maps every description in the table back to its format.
var table = []entry{
	{A8R8G8B8, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 32, RMask: 0x00ff0000, GMask: 0x0000ff00, BMask: 0x000000ff, AMask: 0xff000000}},
	{X8R8G8B8, PixelFormat{Flags: FlagRGB, BitCount: 32, RMask: 0x00ff0000, GMask: 0x0000ff00, BMask: 0x000000ff}},
	{A8B8G8R8, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 32, RMask: 0x000000ff, GMask: 0x0000ff00, BMask: 0x00ff0000, AMask: 0xff000000}},
	{X8B8G8R8, PixelFormat{Flags: FlagRGB, BitCount: 32, RMask: 0x000000ff, GMask: 0x0000ff00, BMask: 0x00ff0000}},
	{A2R10G10B10, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 32, RMask: 0x3ff00000, GMask: 0x000ffc00, BMask: 0x000003ff, AMask: 0xc0000000}},
	{A2B10G10R10, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 32, RMask: 0x000003ff, GMask: 0x000ffc00, BMask: 0x3ff00000, AMask: 0xc0000000}},
	{G16R16, PixelFormat{Flags: FlagRGB, BitCount: 32, RMask: 0x0000ffff, GMask: 0xffff0000}},
	{R8G8B8, PixelFormat{Flags: FlagRGB, BitCount: 24, RMask: 0xff0000, GMask: 0x00ff00, BMask: 0x0000ff}},
	{R5G6B5, PixelFormat{Flags: FlagRGB, BitCount: 16, RMask: 0xf800, GMask: 0x07e0, BMask: 0x001f}},
	{X1R5G5B5, PixelFormat{Flags: FlagRGB, BitCount: 16, RMask: 0x7c00, GMask: 0x03e0, BMask: 0x001f}},
	{A1R5G5B5, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 16, RMask: 0x7c00, GMask: 0x03e0, BMask: 0x001f, AMask: 0x8000}},
	{A4R4G4B4, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 16, RMask: 0x0f00, GMask: 0x00f0, BMask: 0x000f, AMask: 0xf000}},
	{X4R4G4B4, PixelFormat{Flags: FlagRGB, BitCount: 16, RMask: 0x0f00, GMask: 0x00f0, BMask: 0x000f}},
	{A8R3G3B2, PixelFormat{Flags: FlagRGB | FlagAlphaPixels, BitCount: 16, RMask: 0x00e0, GMask: 0x001c, BMask: 0x0003, AMask: 0xff00}},
	{R3G3B2, PixelFormat{Flags: FlagRGB, BitCount: 8, RMask: 0xe0, GMask: 0x1c, BMask: 0x03}},

	{A8, PixelFormat{Flags: FlagAlpha, BitCount: 8, AMask: 0xff}},

	{L8, PixelFormat{Flags: FlagLuminance, BitCount: 8, RMask: 0xff}},
	{A4L4, PixelFormat{Flags: FlagLuminance | FlagAlphaPixels, BitCount: 8, RMask: 0x0f, AMask: 0xf0}},
	{A8L8, PixelFormat{Flags: FlagLuminance | FlagAlphaPixels, BitCount: 16, RMask: 0x00ff, AMask: 0xff00}},

	{V8U8, PixelFormat{Flags: FlagBumpDuDv, BitCount: 16, RMask: 0x00ff, GMask: 0xff00}},
	{L6V5U5, PixelFormat{Flags: FlagBumpDuDv | FlagBumpLuminance, BitCount: 16, RMask: 0x001f, GMask: 0x03e0, BMask: 0xfc00}},
	{X8L8V8U8, PixelFormat{Flags: FlagBumpDuDv | FlagBumpLuminance, BitCount: 32, RMask: 0x000000ff, GMask: 0x0000ff00, BMask: 0x00ff0000}},

	{DXT1, PixelFormat{Flags: FlagFourCC, FourCC: FourCCDXT1}},
	{DXT2, PixelFormat{Flags: FlagFourCC, FourCC: FourCCDXT2}},
	{DXT3, PixelFormat{Flags: FlagFourCC, FourCC: FourCCDXT3}},
	{DXT4, PixelFormat{Flags: FlagFourCC, FourCC: FourCCDXT4}},
	{DXT5, PixelFormat{Flags: FlagFourCC, FourCC: FourCCDXT5}},

	{D16, PixelFormat{Flags: FlagZBuffer, BitCount: 16, ZMask: 0xffff}},
	{D15S1, PixelFormat{Flags: FlagZBuffer | FlagStencilBuffer, BitCount: 16, ZMask: 0xfffe, StencilMask: 0x0001, StencilBitDepth: 1}},
	{D24X8, PixelFormat{Flags: FlagZBuffer, BitCount: 32, ZMask: 0xffffff00}},
	{D24S8, PixelFormat{Flags: FlagZBuffer | FlagStencilBuffer, BitCount: 32, ZMask: 0xffffff00, StencilMask: 0x000000ff, StencilBitDepth: 8}},
	{D24X4S4, PixelFormat{Flags: FlagZBuffer | FlagStencilBuffer, BitCount: 32, ZMask: 0xffffff00, StencilMask: 0x0000000f, StencilBitDepth: 4}},
	{D32, PixelFormat{Flags: FlagZBuffer, BitCount: 32, ZMask: 0xffffffff}},
}

var legacyByFormat = func() map[Format]PixelFormat {
	m := make(map[Format]PixelFormat, len(table))
	for _, e := range table {
		m[e.format] = e.pixel
	}
	return m
}()

// ToLegacy returns the canonical legacy description of f. The second
// result is false for Unknown and for formats outside the table.
func ToLegacy(f Format) (PixelFormat, bool) {
	pf, ok := legacyByFormat[f]
	return pf, ok
}

// ToModern resolves a legacy pixel format description. It never
// guesses: combinations it does not recognise return Unknown, and the
// caller decides on a fallback.
func ToModern(pf PixelFormat) Format {
	switch {
	case pf.Flags&FlagFourCC != 0:
		return fromFourCC(pf.FourCC)
	case pf.Flags&FlagZBuffer != 0:
		return fromZBuffer(pf)
	case pf.Flags&FlagRGB != 0:
		return fromRGB(pf)
	case pf.Flags&FlagAlpha != 0:
		if pf.BitCount == 8 {
			return A8
		}
	case pf.Flags&FlagLuminance != 0:
		return fromLuminance(pf)
	case pf.Flags&FlagBumpDuDv != 0:
		return fromBump(pf)
	}
	return Unknown
}

func fromRGB(pf PixelFormat) Format {
	if pf.Flags&FlagPaletteIndexed8 != 0 {
		return Unknown
	}
	alpha := pf.AMask != 0

	switch pf.BitCount {
	case 8:
		if pf.RMask == 0xe0 && !alpha {
			return R3G3B2
		}
	case 16:
		switch pf.RMask {
		case 0x0f00:
			return pick(alpha, A4R4G4B4, X4R4G4B4)
		case 0x7c00:
			return pick(alpha, A1R5G5B5, X1R5G5B5)
		case 0xf800:
			if !alpha {
				return R5G6B5
			}
		case 0x00e0:
			if alpha {
				return A8R3G3B2
			}
		}
	case 24:
		if pf.RMask == 0xff0000 && !alpha {
			return R8G8B8
		}
	case 32:
		switch pf.RMask {
		case 0x00ff0000:
			return pick(alpha, A8R8G8B8, X8R8G8B8)
		case 0x000000ff:
			return pick(alpha, A8B8G8R8, X8B8G8R8)
		case 0x3ff00000:
			if alpha {
				return A2R10G10B10
			}
		case 0x000003ff:
			if alpha {
				return A2B10G10R10
			}
		case 0x0000ffff:
			if pf.GMask == 0xffff0000 && !alpha {
				return G16R16
			}
		}
	}
	return Unknown
}

func fromLuminance(pf PixelFormat) Format {
	switch pf.BitCount {
	case 8:
		switch {
		case pf.RMask == 0xff && pf.AMask == 0:
			return L8
		case pf.RMask == 0x0f && pf.AMask == 0xf0:
			return A4L4
		}
	case 16:
		if pf.RMask == 0x00ff && pf.AMask == 0xff00 {
			return A8L8
		}
	}
	return Unknown
}

func fromBump(pf PixelFormat) Format {
	switch pf.BitCount {
	case 16:
		if pf.BMask != 0 {
			return L6V5U5
		}
		return V8U8
	case 32:
		if pf.BMask != 0 {
			return X8L8V8U8
		}
	}
	return Unknown
}

func fromFourCC(code FourCC) Format {
	switch code {
	case FourCCDXT1:
		return DXT1
	case FourCCDXT2:
		return DXT2
	case FourCCDXT3:
		return DXT3
	case FourCCDXT4:
		return DXT4
	case FourCCDXT5:
		return DXT5
	}
	return Unknown
}

// fromZBuffer resolves depth formats by bit depth and stencil mask. A
// 24-bit request becomes D24X8: there is no packed 24-bit depth format.
func fromZBuffer(pf PixelFormat) Format {
	switch pf.BitCount {
	case 16:
		return pick(pf.StencilMask != 0, D15S1, D16)
	case 24:
		return D24X8
	case 32:
		switch pf.StencilMask {
		case 0:
			if pf.ZMask == 0xffffffff {
				return D32
			}
			return D24X8
		case 0x000000ff, 0xff000000:
			// Some callers describe the stencil bits in the high byte.
			return D24S8
		case 0x0000000f:
			return D24X4S4
		}
	}
	return Unknown
}

func pick(cond bool, yes, no Format) Format {
	if cond {
		return yes
	}
	return no
}

// TextureFormats lists the formats offered to applications enumerating
// texture formats, in the order they are reported.
func TextureFormats() []Format {
	return []Format{
		X1R5G5B5, A1R5G5B5, A4R4G4B4, R5G6B5,
		X8R8G8B8, A8R8G8B8,
		L8, A8L8, A4L4,
		V8U8, L6V5U5, X8L8V8U8,
		DXT1, DXT2, DXT3, DXT4, DXT5,
	}
}

// ZBufferFormats lists the depth formats offered to applications
// enumerating z-buffer formats.
func ZBufferFormats() []Format {
	return []Format{D16, D24X8, D24S8}
}
