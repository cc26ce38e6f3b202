package ddraw

import (
	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
	"github.com/gogpu/ddraw/surface"
)

// UploadStats describes one legacy to modern copy.
type UploadStats struct {
	// Levels counts the mip levels and faces copied.
	Levels int
	// Bulk counts levels copied in a single block because pitches matched.
	Bulk int
	// Rows counts rows copied one at a time because pitches differed.
	Rows int
	// Skipped counts levels that could not be locked on either side.
	Skipped int
	// Bytes is the total number of bytes written into the resource.
	Bytes int
}

func (u *UploadStats) add(o UploadStats) {
	u.Levels += o.Levels
	u.Bulk += o.Bulk
	u.Rows += o.Rows
	u.Skipped += o.Skipped
	u.Bytes += o.Bytes
}

// uploadLocked copies the legacy content of the complex rooted at s
// into its resource. Failures to lock one level are logged and that
// level is skipped.
func (i *Interface) uploadLocked(s *Surface) UploadStats {
	var st UploadStats
	if s.state != Materialized {
		return st
	}
	caps := s.storage.Describe().Caps
	switch {
	case s.res.kind == KindDepthStencil:
		return st
	case caps.Any(surface.CapsFrontBuffer|surface.CapsBackBuffer|surface.CapsFlip) && i.hasDrawn:
		Logger().Debug("ddraw: flip chain upload skipped after draw", "surface", s.id)
		return st
	}

	switch s.res.kind {
	case KindCubeTexture:
		for face := range backend.CubeFaceCount {
			fr := s.cubeFaceLocked(face)
			if fr == nil {
				st.Skipped += s.res.levels
				continue
			}
			st.add(i.uploadChainLocked(s, fr, backend.CubeFace(face), s.res.levels))
		}
	case KindTexture2D:
		levels := s.res.levels
		if s.res.usage&backend.UsageAutoGenMipmap != 0 {
			levels = 1
		}
		st.add(i.uploadChainLocked(s, s, 0, levels))
	default:
		st.add(i.copyLevel(s, s.storage, s.res.surface, s.res.format))
	}
	Logger().Debug("ddraw: upload",
		"surface", s.id, "levels", st.Levels, "bulk", st.Bulk, "rows", st.Rows,
		"skipped", st.Skipped, "bytes", st.Bytes)
	return st
}

// uploadChainLocked copies levels of the legacy mip chain starting at
// first into face of the root resource.
func (i *Interface) uploadChainLocked(root, first *Surface, face backend.CubeFace, levels int) UploadStats {
	var st UploadStats
	chain := first.mipChainLocked(levels)
	for level := range levels {
		if level >= len(chain) {
			Logger().Warn("ddraw: legacy mip level missing, skipped",
				"surface", root.id, "face", int(face), "level", level)
			st.Skipped++
			continue
		}
		dst := root.res.levelSurface(face, level)
		if dst == nil {
			Logger().Warn("ddraw: modern mip level missing, skipped",
				"surface", root.id, "face", int(face), "level", level)
			st.Skipped++
			continue
		}
		st.add(i.copyLevel(chain[level], chain[level].storage, dst, root.res.format))
	}
	return st
}

// copyLevel copies level 0 of src into dst. Matching pitches take one
// bulk copy; otherwise the narrower pitch is copied row by row.
func (i *Interface) copyLevel(s *Surface, src surface.Storage, dst backend.Surface, f format.Format) UploadStats {
	var st UploadStats
	if src.Describe().IsEmpty() {
		return st
	}
	m, err := src.LockForRead(0)
	if err != nil {
		Logger().Warn("ddraw: legacy lock failed, level skipped", "surface", s.id, "err", err)
		st.Skipped++
		return st
	}
	defer func() {
		if err := src.Unlock(0); err != nil {
			Logger().Warn("ddraw: legacy unlock failed", "surface", s.id, "err", err)
		}
	}()

	lr, err := dst.LockRect()
	if err != nil {
		Logger().Warn("ddraw: resource lock failed, level skipped", "surface", s.id, "err", err)
		st.Skipped++
		return st
	}

	dd := dst.Desc()
	rows := min(f.Rows(m.Height), f.Rows(dd.Height))
	if m.Pitch == lr.Pitch {
		n := min(m.Pitch*rows, len(m.Bits), len(lr.Bits))
		copy(lr.Bits[:n], m.Bits[:n])
		st.Bulk++
		st.Bytes += n
	} else {
		width := min(m.Pitch, lr.Pitch)
		for y := range rows {
			so, do := y*m.Pitch, y*lr.Pitch
			if so+width > len(m.Bits) || do+width > len(lr.Bits) {
				break
			}
			copy(lr.Bits[do:do+width], m.Bits[so:so+width])
			st.Rows++
			st.Bytes += width
		}
	}
	st.Levels++
	Logger().Debug("ddraw: level copied",
		"surface", s.id, "src_pitch", m.Pitch, "dst_pitch", lr.Pitch, "rows", rows, "format", f)

	if err := dst.UnlockRect(); err != nil {
		Logger().Warn("ddraw: resource unlock failed", "surface", s.id, "err", err)
	}
	return st
}
