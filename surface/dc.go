// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/ddraw/format"
)

// DC is a device context: a draw.Image over level 0 of a locked
// storage. Pixels are converted through the storage's pixel format.
//
// A DC is valid until ReleaseDC. Using it afterwards has no effect.
type DC struct {
	format format.Format
	m      Mapping
	valid  bool
}

// ColorModel implements image.Image.
func (dc *DC) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (dc *DC) Bounds() image.Rectangle {
	return image.Rect(0, 0, dc.m.Width, dc.m.Height)
}

// At implements image.Image.
func (dc *DC) At(x, y int) color.Color {
	if !dc.valid || !(image.Point{x, y}.In(dc.Bounds())) {
		return color.NRGBA{}
	}
	var px [4]byte
	bpp := dc.format.BytesPerPixel()
	off := y*dc.m.Pitch + x*bpp
	format.ExpandRow(dc.format, px[:], dc.m.Bits[off:off+bpp], 1)
	return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Set implements draw.Image.
func (dc *DC) Set(x, y int, c color.Color) {
	if !dc.valid || !(image.Point{x, y}.In(dc.Bounds())) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	bpp := dc.format.BytesPerPixel()
	off := y*dc.m.Pitch + x*bpp
	format.PackPixel(dc.format, dc.m.Bits[off:off+bpp], n.R, n.G, n.B, n.A)
}

// GetDC locks level 0 and returns a device context over it. Only one DC
// may be active at a time.
func (m *Memory) GetDC() (*DC, error) {
	f := m.Describe().Format()
	if !format.CanExpand(f) {
		return nil, ErrUnsupportedFormat
	}

	m.mu.Lock()
	active := m.dc != nil
	m.mu.Unlock()
	if active {
		return nil, ErrDCActive
	}

	mapping, err := m.LockForWrite(0)
	if err != nil {
		return nil, err
	}
	dc := &DC{format: f, m: mapping, valid: true}

	m.mu.Lock()
	m.dc = dc
	m.mu.Unlock()
	return dc, nil
}

// ReleaseDC invalidates dc and unlocks the storage.
func (m *Memory) ReleaseDC(dc *DC) error {
	m.mu.Lock()
	if dc == nil || m.dc != dc {
		m.mu.Unlock()
		return ErrNotLocked
	}
	m.dc = nil
	m.mu.Unlock()

	dc.valid = false
	return m.Unlock(0)
}
