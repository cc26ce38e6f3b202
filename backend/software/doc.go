// Package software provides a CPU-resident backend.Device.
//
// Every resource is a byte slice with a configurable pitch alignment, so
// the surface engine's copy paths can be exercised without a GPU. The
// device counts what it creates and tracks releases, which makes it the
// reference device for tests:
//
//	dev, err := software.NewDevice(
//		software.WithBackBuffer(640, 480, format.X8R8G8B8),
//		software.WithAutoDepthStencil(format.D24S8),
//	)
//
// Importing the package registers it under backend.BackendSoftware with
// the lowest priority.
package software
