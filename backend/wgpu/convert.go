package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

// rowAlignment is the WebGPU bytesPerRow alignment for texture copies.
const rowAlignment = 256

// layout describes how a legacy format is stored on the GPU.
type layout struct {
	gpu gputypes.TextureFormat

	// expand is set when rows are converted to RGBA8 before upload.
	expand bool

	// depth is set for depth formats, which are never uploaded.
	depth bool
}

// layoutFor maps a format to its GPU layout. Formats whose memory order
// matches a WebGPU format upload directly; other color formats the
// format package can decode are expanded to RGBA8.
func layoutFor(f format.Format) (layout, error) {
	switch {
	case f == format.A8R8G8B8:
		return layout{gpu: gputypes.TextureFormatBGRA8Unorm}, nil
	case f == format.A8B8G8R8:
		return layout{gpu: gputypes.TextureFormatRGBA8Unorm}, nil
	case f.IsDepthStencil():
		return layout{gpu: gputypes.TextureFormatDepth24PlusStencil8, depth: true}, nil
	case format.CanExpand(f):
		return layout{gpu: gputypes.TextureFormatRGBA8Unorm, expand: true}, nil
	}
	return layout{}, fmt.Errorf("%w: %v", backend.ErrUnsupportedFormat, f)
}

// presentationFormat maps a surface format to the matching legacy format.
func presentationFormat(tf gputypes.TextureFormat) format.Format {
	if tf == gputypes.TextureFormatRGBA8Unorm {
		return format.A8B8G8R8
	}
	return format.A8R8G8B8
}

func usageFor(u backend.Usage, l layout) gputypes.TextureUsage {
	if l.depth {
		return gputypes.TextureUsageRenderAttachment
	}
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	if u&backend.UsageRenderTarget != 0 {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	return usage
}

func alignRow(n int) int {
	return (n + rowAlignment - 1) / rowAlignment * rowAlignment
}
