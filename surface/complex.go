// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "fmt"

// NewMipChain builds a mip chain of desc.MipCount levels (at least one).
// Each level has half the size of the previous one, clamped to 1, and is
// attached to the level above it. The returned slice starts at the root.
func NewMipChain(desc Descriptor, opts ...Option) ([]*Memory, error) {
	levels := max(1, desc.MipCount)
	if levels > 1 {
		desc.Caps |= CapsMipMap | CapsComplex
	}
	desc.MipCount = levels

	chain := make([]*Memory, 0, levels)
	cur := desc
	for i := range levels {
		m, err := NewMemory(cur, opts...)
		if err != nil {
			return nil, fmt.Errorf("mip level %d: %w", i, err)
		}
		if i > 0 {
			if err := chain[i-1].Attach(m); err != nil {
				return nil, err
			}
		}
		chain = append(chain, m)

		cur.Width = max(1, cur.Width/2)
		cur.Height = max(1, cur.Height/2)
		cur.MipCount--
		cur.Caps = (cur.Caps &^ CapsComplex) | CapsMipMapSubLevel
	}
	return chain, nil
}

// NewCubeMap builds the six faces of a cube map, each a mip chain of
// desc.MipCount levels. Face 0 is the root; faces 1 to 5 are attached to
// it. The result is indexed by face, then level.
func NewCubeMap(desc Descriptor, opts ...Option) ([6][]*Memory, error) {
	var faces [6][]*Memory
	base := desc
	base.Caps = (base.Caps &^ CapsCubeMapAllFaces) | CapsCubeMap | CapsTexture

	for i := range faces {
		fd := base
		fd.Caps |= FaceCaps(i)
		if i == 0 {
			fd.Caps |= CapsComplex
		}
		chain, err := NewMipChain(fd, opts...)
		if err != nil {
			return faces, fmt.Errorf("cube face %d: %w", i, err)
		}
		if i > 0 {
			if err := faces[0][0].Attach(chain[0]); err != nil {
				return faces, err
			}
		}
		faces[i] = chain
	}
	return faces, nil
}

// NewFlipChain builds a front buffer with backBuffers back buffers
// attached in flip order. The returned slice starts at the front buffer.
func NewFlipChain(desc Descriptor, backBuffers int, opts ...Option) ([]*Memory, error) {
	front := desc
	front.Caps |= CapsFrontBuffer | CapsFlip | CapsComplex
	root, err := NewMemory(front, opts...)
	if err != nil {
		return nil, err
	}

	chain := []*Memory{root}
	for i := range max(0, backBuffers) {
		bd := desc
		bd.Caps |= CapsFlip | Caps3DDevice
		if i == 0 {
			bd.Caps |= CapsBackBuffer
		}
		bb, err := NewMemory(bd, opts...)
		if err != nil {
			return nil, fmt.Errorf("back buffer %d: %w", i, err)
		}
		if err := chain[len(chain)-1].Attach(bb); err != nil {
			return nil, err
		}
		chain = append(chain, bb)
	}
	return chain, nil
}
