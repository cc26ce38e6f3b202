// Package ddraw materializes legacy DirectDraw-style surfaces as modern
// GPU resources and keeps their pixels in sync.
//
// # Overview
//
// A legacy application owns its pixels: it locks a surface, writes into
// the buffer and unlocks it. The modern device wants textures, render
// targets and depth-stencils created up front with a pool and usage.
// ddraw sits between the two. Each legacy [surface.Storage] is wrapped
// in a [Surface] which, the first time it is touched, decides what kind
// of resource it needs, creates it on the active [backend.Device], and
// copies the legacy content into it.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ddraw"
//	    "github.com/gogpu/ddraw/backend/software"
//	    "github.com/gogpu/ddraw/surface"
//	)
//
//	dev, _ := software.NewDevice()
//	dd := ddraw.NewInterface(ddraw.WithDevice(dev))
//
//	tex, _ := dd.CreateSurface(surface.Descriptor{
//	    Width: 64, Height: 64, Caps: surface.CapsTexture, PixelFormat: pf,
//	})
//	m, _ := tex.Lock(0)
//	copy(m.Bits, pixels)
//	tex.Unlock(0) // materializes and uploads
//
// # Materialization
//
// The resource kind follows the surface caps, first match wins: flip
// chain members bind the device back buffer, z-buffers get a
// depth-stencil, cube maps a cube texture, textures a 2D texture, 3D
// device surfaces a lockable render target and off-screen plain
// surfaces an off-screen surface. Anything else gets a lockable render
// target and a warning.
//
// The mip count is walked along the attachment graph. The count the
// descriptor declares is only a hint.
//
// # Synchronization
//
// [Surface.InitializeOrUpload] runs after every legacy write (Unlock,
// Blt, ReleaseDC) and before every modern use ([Device3D.SetTexture],
// [Device3D.SetRenderTarget]). It checks the device identity, creates the
// resource when needed and uploads, per mip level and per cube face. Rows
// are copied one at a time when the legacy and modern pitches differ.
//
// # Device Loss
//
// [Interface.SetDevice] replaces the device. Every surface notices on
// its next use, releases what it created on the old device, and builds
// it again on the new one from the legacy content.
//
// # Concurrency
//
// All operations of one [Interface] are serialized by its device lock.
// Legacy locks on a storage are not.
package ddraw
