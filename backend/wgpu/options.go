package wgpu

import "github.com/gogpu/ddraw/format"

// Option configures a Device.
type Option func(*options)

type options struct {
	label        string
	format       format.Format
	depthStencil format.Format
}

// WithLabel prefixes the debug label of every texture the device creates.
func WithLabel(prefix string) Option {
	return func(o *options) {
		o.label = prefix
	}
}

// WithPresentationFormat overrides the back buffer format reported by the
// provider.
func WithPresentationFormat(f format.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithAutoDepthStencil creates an automatic depth-stencil target of
// format f alongside the back buffer.
func WithAutoDepthStencil(f format.Format) Option {
	return func(o *options) {
		o.depthStencil = f
	}
}
