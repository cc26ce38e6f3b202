package ddraw

import "github.com/gogpu/ddraw/backend"

// MaxMipLevels is the longest mip chain the engine walks.
const MaxMipLevels = 15

// Option configures an Interface during creation.
//
// Example:
//
//	dev, _ := software.NewDevice()
//	dd := ddraw.NewInterface(ddraw.WithDevice(dev), ddraw.WithAutoGenMipMaps(true))
type Option func(*options)

// options holds optional configuration for Interface creation.
type options struct {
	device           backend.Device
	autoGenMipMaps   bool
	strictBackBuffer bool
	maxMipLevels     int
}

// defaultOptions returns the default interface options.
func defaultOptions() options {
	return options{
		maxMipLevels: MaxMipLevels,
	}
}

// WithDevice sets the initial modern device. Without it, surfaces stay
// unmaterialized until SetDevice is called.
func WithDevice(d backend.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithAutoGenMipMaps makes textures allocate a full mip chain with
// automatic generation, uploading only level 0.
func WithAutoGenMipMaps(enabled bool) Option {
	return func(o *options) {
		o.autoGenMipMaps = enabled
	}
}

// WithStrictBackBufferGuard keeps the has-drawn flag set across Present,
// so flip-chain surfaces are never uploaded again after the first draw.
func WithStrictBackBufferGuard(enabled bool) Option {
	return func(o *options) {
		o.strictBackBuffer = enabled
	}
}

// WithMaxMipLevels caps the mip chain walk. Values are clamped to
// [1, MaxMipLevels].
func WithMaxMipLevels(n int) Option {
	return func(o *options) {
		o.maxMipLevels = min(max(n, 1), MaxMipLevels)
	}
}
