// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the legacy side of a surface: its descriptor,
// capability flags and the pixel storage applications lock and write.
//
// # Storage
//
// [Storage] is the contract the materialization engine reads pixels
// through. It is deliberately small: lock a mip level for reading or
// writing, unlock it, and describe the surface. Optional interfaces add
// legacy attachment lists ([AttachmentLister], [Linker]), resizing
// ([Resizer]) and device contexts ([DCProvider]).
//
// [Memory] implements all of them over a Go byte slice:
//
//	s, err := surface.NewMemory(surface.Descriptor{
//	    Width:       64,
//	    Height:      64,
//	    Caps:        surface.CapsTexture,
//	    PixelFormat: pf,
//	}, surface.WithPitchAlignment(8))
//
// # Surface complexes
//
// Legacy applications create mip chains, cube maps and flip chains in a
// single call. [NewMipChain], [NewCubeMap] and [NewFlipChain] build the
// same shapes, linking each member into its parent's attachment list.
//
// # Pixel access
//
// [Blt] and [Fill] operate on locked storages. [DC] exposes level 0 as a
// draw.Image, and [SnapshotOf] converts content to an image.NRGBA for
// inspection or BMP export.
package surface
