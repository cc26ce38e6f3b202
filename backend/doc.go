// Package backend defines the modern device contract the surface engine
// materializes resources on.
//
// A [Device] creates textures, cube textures, render targets, depth
// stencils and off-screen surfaces in a [Pool] with a set of [Usage]
// flags, and exposes the presentation back buffer. Every resource is
// reached through [Surface], which maps its bytes with LockRect and
// publishes them with UnlockRect.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/ddraw/backend/software"
//
// Use Default to open the best available backend, or Open to request one
// by name:
//
//	dev, err := backend.Open(backend.BackendSoftware, backend.Config{
//		Width:  640,
//		Height: 480,
//	})
//
// Available backends:
//
//   - software: CPU reference device, always available
//   - wgpu: gogpu/wgpu HAL device, headless when no provider is given
//   - d3d9: Direct3D 9 through github.com/gonutz/d3d9, Windows only
package backend
