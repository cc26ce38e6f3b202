package format

import (
	"encoding/binary"
	"math/bits"
)

// CanExpand reports whether ExpandRow can convert f to RGBA8.
func CanExpand(f Format) bool {
	pf, ok := ToLegacy(f)
	if !ok {
		return false
	}
	return pf.Flags&(FlagRGB|FlagLuminance|FlagAlpha) != 0 && f.BytesPerPixel() > 0
}

// ExpandRow converts width pixels of f from src into non-premultiplied
// RGBA8 in dst. Formats without alpha expand to opaque pixels. It
// returns false, leaving dst untouched, when f cannot be expanded or a
// buffer is too short.
func ExpandRow(f Format, dst, src []byte, width int) bool {
	if !CanExpand(f) {
		return false
	}
	bpp := f.BytesPerPixel()
	if len(src) < width*bpp || len(dst) < width*4 {
		return false
	}
	pf, _ := ToLegacy(f)

	for x := 0; x < width; x++ {
		v := loadPixel(src[x*bpp:], bpp)
		o := dst[x*4 : x*4+4]
		switch {
		case pf.Flags&FlagLuminance != 0:
			l := channel(v, pf.RMask)
			o[0], o[1], o[2] = l, l, l
		case pf.Flags&FlagAlpha != 0:
			o[0], o[1], o[2] = 0, 0, 0
		default:
			o[0] = channel(v, pf.RMask)
			o[1] = channel(v, pf.GMask)
			o[2] = channel(v, pf.BMask)
		}
		if pf.AMask != 0 {
			o[3] = channel(v, pf.AMask)
		} else {
			o[3] = 0xff
		}
	}
	return true
}

func loadPixel(p []byte, bpp int) uint32 {
	switch bpp {
	case 1:
		return uint32(p[0])
	case 2:
		return uint32(binary.LittleEndian.Uint16(p))
	case 3:
		return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
	default:
		return binary.LittleEndian.Uint32(p)
	}
}

// channel extracts the bits selected by mask and scales them to 8 bits.
func channel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	c := (v & mask) >> shift
	switch {
	case width == 8:
		return uint8(c)
	case width > 8:
		return uint8(c >> (width - 8))
	}
	// Replicate high bits into the low ones so full scale maps to 0xff.
	out := c << (8 - width)
	for filled := width; filled < 8; filled += width {
		out |= out >> width
	}
	return uint8(out)
}

// PackPixel stores the non-premultiplied color r, g, b, a as one pixel
// of f at the start of dst. It returns false when f cannot be packed or
// dst is too short.
func PackPixel(f Format, dst []byte, r, g, b, a uint8) bool {
	if !CanExpand(f) {
		return false
	}
	bpp := f.BytesPerPixel()
	if len(dst) < bpp {
		return false
	}
	pf, _ := ToLegacy(f)

	var v uint32
	switch {
	case pf.Flags&FlagLuminance != 0:
		// Rec. 601 luma, rounded.
		l := (299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000
		v |= scatter(uint8(l), pf.RMask)
	case pf.Flags&FlagAlpha != 0:
	default:
		v |= scatter(r, pf.RMask) | scatter(g, pf.GMask) | scatter(b, pf.BMask)
	}
	v |= scatter(a, pf.AMask)
	storePixel(dst, bpp, v)
	return true
}

// scatter scales an 8-bit channel to the width of mask and places it.
func scatter(c uint8, mask uint32) uint32 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	v := uint32(c)
	if width < 8 {
		v >>= 8 - width
	} else if width > 8 {
		v = v * ((1 << width) - 1) / 0xff
	}
	return (v << shift) & mask
}

func storePixel(p []byte, bpp int, v uint32) {
	switch bpp {
	case 1:
		p[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(p, uint16(v))
	case 3:
		p[0], p[1], p[2] = byte(v), byte(v>>8), byte(v>>16)
	default:
		binary.LittleEndian.PutUint32(p, v)
	}
}
