package d3d9

import (
	"github.com/gogpu/ddraw/backend"
	"github.com/gogpu/ddraw/format"
)

// Direct3D 9 numbering shared with the backend enumerations.
const (
	poolDefault   = 0
	poolManaged   = 1
	poolSystemMem = 2

	usageRenderTarget  = 0x00000001
	usageDepthStencil  = 0x00000002
	usageDynamic       = 0x00000200
	usageAutoGenMipmap = 0x00000400
)

// poolValue returns the D3DPOOL value of p.
func poolValue(p backend.Pool) uint32 {
	switch p {
	case backend.PoolManaged:
		return poolManaged
	case backend.PoolSystemMem:
		return poolSystemMem
	}
	return poolDefault
}

// usageValue returns the D3DUSAGE bits of u.
func usageValue(u backend.Usage) uint32 {
	var v uint32
	if u&backend.UsageRenderTarget != 0 {
		v |= usageRenderTarget
	}
	if u&backend.UsageDepthStencil != 0 {
		v |= usageDepthStencil
	}
	if u&backend.UsageDynamic != 0 {
		v |= usageDynamic
	}
	if u&backend.UsageAutoGenMipmap != 0 {
		v |= usageAutoGenMipmap
	}
	return v
}

// formatValue returns the D3DFORMAT value of f. The format enumeration
// already uses that numbering.
func formatValue(f format.Format) uint32 { return uint32(f) }
