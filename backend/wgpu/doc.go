// Package wgpu implements backend.Device on the gogpu/wgpu hardware
// abstraction layer.
//
// Every resource is a hal.Texture. Locks map a CPU shadow whose rows are
// padded to the 256-byte copy alignment WebGPU requires, and UnlockRect
// uploads the shadow with hal.Queue.WriteTexture. A8R8G8B8 and A8B8G8R8
// upload as BGRA8Unorm and RGBA8Unorm; other decodable color formats are
// expanded to RGBA8 first. Depth formats become Depth24PlusStencil8 and
// are never uploaded. Block-compressed formats are rejected.
//
// Use NewDevice with a gpucontext.DeviceProvider to share an existing
// device, or OpenHeadless for the no-op HAL backend.
package wgpu
