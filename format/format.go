package format

import "fmt"

// Format is the modern API's closed enumeration of pixel formats.
//
// Values match the D3DFORMAT numbering so that backends speaking that
// API can pass them through unchanged. Block-compressed formats use
// their four-character code as value.
type Format uint32

// Supported formats.
const (
	Unknown Format = 0

	R8G8B8      Format = 20
	A8R8G8B8    Format = 21
	X8R8G8B8    Format = 22
	R5G6B5      Format = 23
	X1R5G5B5    Format = 24
	A1R5G5B5    Format = 25
	A4R4G4B4    Format = 26
	R3G3B2      Format = 27
	A8          Format = 28
	A8R3G3B2    Format = 29
	X4R4G4B4    Format = 30
	A2B10G10R10 Format = 31
	A8B8G8R8    Format = 32
	X8B8G8R8    Format = 33
	G16R16      Format = 34
	A2R10G10B10 Format = 35

	L8   Format = 50
	A8L8 Format = 51
	A4L4 Format = 52

	V8U8     Format = 60
	L6V5U5   Format = 61
	X8L8V8U8 Format = 62

	D32     Format = 71
	D15S1   Format = 73
	D24S8   Format = 75
	D24X8   Format = 77
	D24X4S4 Format = 79
	D16     Format = 80

	DXT1 = Format(FourCCDXT1)
	DXT2 = Format(FourCCDXT2)
	DXT3 = Format(FourCCDXT3)
	DXT4 = Format(FourCCDXT4)
	DXT5 = Format(FourCCDXT5)
)

var formatNames = map[Format]string{
	Unknown:     "Unknown",
	R8G8B8:      "R8G8B8",
	A8R8G8B8:    "A8R8G8B8",
	X8R8G8B8:    "X8R8G8B8",
	R5G6B5:      "R5G6B5",
	X1R5G5B5:    "X1R5G5B5",
	A1R5G5B5:    "A1R5G5B5",
	A4R4G4B4:    "A4R4G4B4",
	R3G3B2:      "R3G3B2",
	A8:          "A8",
	A8R3G3B2:    "A8R3G3B2",
	X4R4G4B4:    "X4R4G4B4",
	A2B10G10R10: "A2B10G10R10",
	A8B8G8R8:    "A8B8G8R8",
	X8B8G8R8:    "X8B8G8R8",
	G16R16:      "G16R16",
	A2R10G10B10: "A2R10G10B10",
	L8:          "L8",
	A8L8:        "A8L8",
	A4L4:        "A4L4",
	V8U8:        "V8U8",
	L6V5U5:      "L6V5U5",
	X8L8V8U8:    "X8L8V8U8",
	D32:         "D32",
	D15S1:       "D15S1",
	D24S8:       "D24S8",
	D24X8:       "D24X8",
	D24X4S4:     "D24X4S4",
	D16:         "D16",
	DXT1:        "DXT1",
	DXT2:        "DXT2",
	DXT3:        "DXT3",
	DXT4:        "DXT4",
	DXT5:        "DXT5",
}

// String returns the format name, or a numeric form for values outside
// the enumeration.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}

// IsCompressed reports whether f is a block-compressed format.
func (f Format) IsCompressed() bool {
	switch f {
	case DXT1, DXT2, DXT3, DXT4, DXT5:
		return true
	}
	return false
}

// IsDepthStencil reports whether f is a depth or depth-stencil format.
func (f Format) IsDepthStencil() bool {
	switch f {
	case D16, D15S1, D24X8, D24S8, D24X4S4, D32:
		return true
	}
	return false
}

// HasStencil reports whether a depth format carries stencil bits.
func (f Format) HasStencil() bool {
	switch f {
	case D15S1, D24S8, D24X4S4:
		return true
	}
	return false
}

// BytesPerPixel returns the storage size of one pixel, or 0 for
// block-compressed and unknown formats.
func (f Format) BytesPerPixel() int {
	switch f {
	case R3G3B2, A8, L8, A4L4:
		return 1
	case R5G6B5, X1R5G5B5, A1R5G5B5, A4R4G4B4, X4R4G4B4, A8R3G3B2,
		A8L8, V8U8, L6V5U5, D16, D15S1:
		return 2
	case R8G8B8:
		return 3
	case A8R8G8B8, X8R8G8B8, A2B10G10R10, A8B8G8R8, X8B8G8R8, G16R16,
		A2R10G10B10, X8L8V8U8, D32, D24S8, D24X8, D24X4S4:
		return 4
	}
	return 0
}

// BlockBytes returns the size of one 4x4 block for compressed formats,
// or 0 for uncompressed ones.
func (f Format) BlockBytes() int {
	switch f {
	case DXT1:
		return 8
	case DXT2, DXT3, DXT4, DXT5:
		return 16
	}
	return 0
}

// RowPitch returns the tightly packed size in bytes of one row of the
// given width. For compressed formats a row is one row of 4x4 blocks.
func (f Format) RowPitch(width int) int {
	if b := f.BlockBytes(); b > 0 {
		return max(1, (width+3)/4) * b
	}
	return width * f.BytesPerPixel()
}

// Rows returns the number of pitch-sized rows needed to store height
// pixel rows.
func (f Format) Rows(height int) int {
	if f.IsCompressed() {
		return max(1, (height+3)/4)
	}
	return height
}
