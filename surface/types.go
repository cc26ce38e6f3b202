// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"strings"

	"github.com/gogpu/ddraw/format"
)

// Caps is the capability bitset of a legacy surface. Flags are not
// mutually exclusive: a surface may be both a texture and a render
// target, or a cube map face and a mip sub-level.
type Caps uint32

// Capability flags.
const (
	// CapsFrontBuffer marks the primary surface shown on screen.
	CapsFrontBuffer Caps = 1 << iota

	// CapsBackBuffer marks the back buffer of a flip chain.
	CapsBackBuffer

	// CapsFlip marks any member of a flip chain.
	CapsFlip

	// Caps3DDevice marks a surface that may be bound as a render target.
	Caps3DDevice

	// CapsOffscreenPlain marks a plain off-screen buffer.
	CapsOffscreenPlain

	// CapsZBuffer marks a depth-stencil surface.
	CapsZBuffer

	// CapsTexture marks a surface that may be sampled.
	CapsTexture

	// CapsMipMap marks a surface that is part of a mip chain.
	CapsMipMap

	// CapsMipMapSubLevel marks a mip level below the chain root.
	CapsMipMapSubLevel

	// CapsCubeMap marks a cube map root or face.
	CapsCubeMap

	CapsCubeMapPositiveX
	CapsCubeMapNegativeX
	CapsCubeMapPositiveY
	CapsCubeMapNegativeY
	CapsCubeMapPositiveZ
	CapsCubeMapNegativeZ

	// CapsOverlay marks a video overlay.
	CapsOverlay

	// CapsComplex marks the root of a surface complex built in one call.
	CapsComplex

	// CapsSystemMemory hints CPU-resident placement.
	CapsSystemMemory

	// CapsLocalVideoMemory hints device-local placement.
	CapsLocalVideoMemory
)

// CapsCubeMapAllFaces selects every cube face flag.
const CapsCubeMapAllFaces = CapsCubeMapPositiveX | CapsCubeMapNegativeX |
	CapsCubeMapPositiveY | CapsCubeMapNegativeY |
	CapsCubeMapPositiveZ | CapsCubeMapNegativeZ

var faceCaps = [6]Caps{
	CapsCubeMapPositiveX,
	CapsCubeMapNegativeX,
	CapsCubeMapPositiveY,
	CapsCubeMapNegativeY,
	CapsCubeMapPositiveZ,
	CapsCubeMapNegativeZ,
}

// Has reports whether every bit of mask is set.
func (c Caps) Has(mask Caps) bool { return c&mask == mask }

// Any reports whether at least one bit of mask is set.
func (c Caps) Any(mask Caps) bool { return c&mask != 0 }

// CubeFace returns the index of the first cube face flag set in c, in
// +X, -X, +Y, -Y, +Z, -Z order.
func (c Caps) CubeFace() (int, bool) {
	for i, f := range faceCaps {
		if c&f != 0 {
			return i, true
		}
	}
	return 0, false
}

// FaceCaps returns the flag for cube face i.
func FaceCaps(i int) Caps {
	if i < 0 || i >= len(faceCaps) {
		return 0
	}
	return faceCaps[i]
}

var capsNames = []struct {
	caps Caps
	name string
}{
	{CapsFrontBuffer, "FRONTBUFFER"},
	{CapsBackBuffer, "BACKBUFFER"},
	{CapsFlip, "FLIP"},
	{Caps3DDevice, "3DDEVICE"},
	{CapsOffscreenPlain, "OFFSCREENPLAIN"},
	{CapsZBuffer, "ZBUFFER"},
	{CapsTexture, "TEXTURE"},
	{CapsMipMap, "MIPMAP"},
	{CapsMipMapSubLevel, "MIPMAPSUBLEVEL"},
	{CapsCubeMap, "CUBEMAP"},
	{CapsCubeMapPositiveX, "POSITIVEX"},
	{CapsCubeMapNegativeX, "NEGATIVEX"},
	{CapsCubeMapPositiveY, "POSITIVEY"},
	{CapsCubeMapNegativeY, "NEGATIVEY"},
	{CapsCubeMapPositiveZ, "POSITIVEZ"},
	{CapsCubeMapNegativeZ, "NEGATIVEZ"},
	{CapsOverlay, "OVERLAY"},
	{CapsComplex, "COMPLEX"},
	{CapsSystemMemory, "SYSTEMMEMORY"},
	{CapsLocalVideoMemory, "LOCALVIDMEM"},
}

// String returns the set flags joined by '|'.
func (c Caps) String() string {
	if c == 0 {
		return "0"
	}
	var parts []string
	for _, n := range capsNames {
		if c&n.caps != 0 {
			parts = append(parts, n.name)
			c &^= n.caps
		}
	}
	if c != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(c)))
	}
	return strings.Join(parts, "|")
}

// Descriptor describes a legacy surface. It is replaced wholesale on
// resize, never mutated in place.
type Descriptor struct {
	// Width and Height are in pixels. Either may be zero before the
	// first mode set.
	Width  int
	Height int

	// MipCount is the declared number of mip levels. It is advisory:
	// the attached chain is authoritative.
	MipCount int

	// Caps is the capability bitset.
	Caps Caps

	// PixelFormat is the legacy pixel format description.
	PixelFormat format.PixelFormat
}

// Format resolves the descriptor's pixel format.
func (d Descriptor) Format() format.Format {
	return format.ToModern(d.PixelFormat)
}

// IsEmpty reports whether the surface has no pixels.
func (d Descriptor) IsEmpty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// MinPitch returns the smallest row pitch able to hold one row, or 0
// when the pixel size cannot be determined.
func (d Descriptor) MinPitch() int {
	if f := d.Format(); f != format.Unknown {
		return f.RowPitch(d.Width)
	}
	return (d.Width*int(d.PixelFormat.BitCount) + 7) / 8
}

// Rows returns the number of pitch-sized rows the buffer holds.
func (d Descriptor) Rows() int {
	return d.Format().Rows(d.Height)
}
