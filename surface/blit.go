// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"

	"github.com/gogpu/ddraw/format"
)

// Blt copies the sr rectangle of src into the dr rectangle of dst,
// stretching with nearest-neighbor sampling when the sizes differ. Empty
// rectangles select the whole surface. Both storages must share a pixel
// format. Compressed formats only support whole-surface copies of equal
// size.
//
// src and dst may be the same storage.
func Blt(dst Storage, dr image.Rectangle, src Storage, sr image.Rectangle) error {
	dd, sd := dst.Describe(), src.Describe()
	if dd.Format() != sd.Format() || dd.PixelFormat.BitCount != sd.PixelFormat.BitCount {
		return fmt.Errorf("%w: format %v to %v", ErrIncompatible, sd.Format(), dd.Format())
	}
	if dr.Empty() {
		dr = image.Rect(0, 0, dd.Width, dd.Height)
	}
	if sr.Empty() {
		sr = image.Rect(0, 0, sd.Width, sd.Height)
	}
	if !dr.In(image.Rect(0, 0, dd.Width, dd.Height)) || !sr.In(image.Rect(0, 0, sd.Width, sd.Height)) {
		return fmt.Errorf("%w: rectangle out of bounds", ErrInvalidDescriptor)
	}
	if dr.Empty() || sr.Empty() {
		return nil
	}

	f := dd.Format()
	if f.IsCompressed() && (dr.Min != image.Point{} || dr.Size() != sr.Size() || sr.Min != image.Point{} ||
		dr.Dx() != dd.Width || dr.Dy() != dd.Height) {
		return fmt.Errorf("%w: partial copy of compressed surface", ErrIncompatible)
	}

	if dst == src {
		m, err := dst.LockForWrite(0)
		if err != nil {
			return err
		}
		defer func() { _ = dst.Unlock(0) }()
		// Copy through a snapshot so overlapping rectangles read old pixels.
		tmp := Mapping{Bits: append([]byte(nil), m.Bits...), Pitch: m.Pitch, Width: m.Width, Height: m.Height}
		copyRect(f, int(dd.PixelFormat.BitCount), m, dr, tmp, sr)
		return nil
	}

	sm, err := src.LockForRead(0)
	if err != nil {
		return err
	}
	defer func() { _ = src.Unlock(0) }()
	dm, err := dst.LockForWrite(0)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Unlock(0) }()

	copyRect(f, int(dd.PixelFormat.BitCount), dm, dr, sm, sr)
	return nil
}

func copyRect(f format.Format, bitCount int, dm Mapping, dr image.Rectangle, sm Mapping, sr image.Rectangle) {
	if f.IsCompressed() {
		rowBytes := min(dm.Pitch, sm.Pitch)
		for y := range f.Rows(dr.Dy()) {
			copy(dm.Row(y)[:rowBytes], sm.Row(y)[:rowBytes])
		}
		return
	}

	bpp := f.BytesPerPixel()
	if bpp == 0 {
		bpp = (bitCount + 7) / 8
	}
	if dr.Size() == sr.Size() {
		n := dr.Dx() * bpp
		for y := range dr.Dy() {
			d := dm.Row(dr.Min.Y + y)[dr.Min.X*bpp:]
			s := sm.Row(sr.Min.Y + y)[sr.Min.X*bpp:]
			copy(d[:n], s[:n])
		}
		return
	}

	for y := range dr.Dy() {
		sy := sr.Min.Y + y*sr.Dy()/dr.Dy()
		drow := dm.Row(dr.Min.Y + y)
		srow := sm.Row(sy)
		for x := range dr.Dx() {
			sx := sr.Min.X + x*sr.Dx()/dr.Dx()
			d := (dr.Min.X + x) * bpp
			copy(drow[d:d+bpp], srow[sx*bpp:sx*bpp+bpp])
		}
	}
}

// Fill sets every pixel of rect in dst to the color r, g, b, a. An empty
// rect selects the whole surface.
func Fill(dst Storage, rect image.Rectangle, r, g, b, a uint8) error {
	desc := dst.Describe()
	f := desc.Format()
	if !format.CanExpand(f) {
		return ErrUnsupportedFormat
	}
	bounds := image.Rect(0, 0, desc.Width, desc.Height)
	if rect.Empty() {
		rect = bounds
	}
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return nil
	}

	m, err := dst.LockForWrite(0)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Unlock(0) }()

	bpp := f.BytesPerPixel()
	px := make([]byte, bpp)
	format.PackPixel(f, px, r, g, b, a)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := m.Row(y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			copy(row[x*bpp:], px)
		}
	}
	return nil
}
