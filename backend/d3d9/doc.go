// Package d3d9 provides a backend.Device on Direct3D 9 through
// github.com/gonutz/d3d9.
//
// Formats, pools and usage flags keep their Direct3D numbering, so they
// pass through unchanged. Surfaces lock with LockRect and publish with
// UnlockRect, exactly as the modern side of the surface engine expects.
//
// The package is only functional on Windows. Importing it there
// registers it under backend.BackendD3D9 with the highest priority; the
// factory needs a window handle in backend.Config.
package d3d9
