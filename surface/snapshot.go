// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"io"

	"golang.org/x/image/bmp"

	"github.com/gogpu/ddraw/format"
)

// Snapshot copies level 0 into a new image.
func (m *Memory) Snapshot() (*image.NRGBA, error) {
	return SnapshotOf(m)
}

// WriteBMP encodes level 0 as a BMP image.
func (m *Memory) WriteBMP(w io.Writer) error {
	img, err := m.Snapshot()
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}

// SnapshotOf copies level 0 of any storage into a new image.
func SnapshotOf(s Storage) (*image.NRGBA, error) {
	desc := s.Describe()
	f := desc.Format()
	if !format.CanExpand(f) {
		return nil, ErrUnsupportedFormat
	}

	img := image.NewNRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	if desc.IsEmpty() {
		return img, nil
	}

	m, err := s.LockForRead(0)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Unlock(0) }()

	for y := range desc.Height {
		dst := img.Pix[y*img.Stride : y*img.Stride+desc.Width*4]
		format.ExpandRow(f, dst, m.Row(y), desc.Width)
	}
	return img, nil
}
