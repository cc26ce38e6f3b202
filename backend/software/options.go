package software

import "github.com/gogpu/ddraw/format"

// Option configures a Device.
type Option func(*options)

type options struct {
	alignment    int
	width        int
	height       int
	format       format.Format
	depthStencil format.Format
}

func defaultOptions() options {
	return options{
		alignment: 4,
		width:     640,
		height:    480,
		format:    format.X8R8G8B8,
	}
}

// WithPitchAlignment rounds every row pitch up to a multiple of n bytes.
func WithPitchAlignment(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.alignment = n
		}
	}
}

// WithBackBuffer sizes the back buffer. An Unknown format keeps the
// default X8R8G8B8.
func WithBackBuffer(width, height int, f format.Format) Option {
	return func(o *options) {
		o.width, o.height = width, height
		if f != format.Unknown {
			o.format = f
		}
	}
}

// WithAutoDepthStencil creates an automatic depth-stencil target of
// format f alongside the back buffer.
func WithAutoDepthStencil(f format.Format) Option {
	return func(o *options) {
		o.depthStencil = f
	}
}
