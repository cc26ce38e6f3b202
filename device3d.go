package ddraw

import (
	"fmt"

	"github.com/gogpu/ddraw/surface"
)

// MaxTextureStages is the number of texture stages a Device3D binds.
const MaxTextureStages = 8

// Device3D is the render and bind consumer: it synchronizes surfaces
// before they are used as render target, depth-stencil or texture.
type Device3D struct {
	iface    *Interface
	textures [MaxTextureStages]*Surface
}

// NewDevice3D creates a 3D device rendering into rt.
func NewDevice3D(rt *Surface) (*Device3D, error) {
	if rt == nil {
		return nil, ErrInvalidParams
	}
	d := &Device3D{iface: rt.iface}
	if err := d.SetRenderTarget(rt); err != nil {
		return nil, err
	}
	return d, nil
}

// SetRenderTarget binds rt and synchronizes it with its attached
// depth-stencil. On failure the previous render target stays bound.
func (d *Device3D) SetRenderTarget(rt *Surface) error {
	if rt == nil || rt.iface != d.iface {
		return ErrInvalidParams
	}
	if !rt.Descriptor().Caps.Has(surface.Caps3DDevice) {
		return fmt.Errorf("%w: surface %d", ErrNoRenderTarget, rt.id)
	}
	i := d.iface
	i.mu.Lock()
	defer i.mu.Unlock()

	prev := i.renderTarget
	i.renderTarget = rt
	if err := i.syncLocked(rt); err != nil {
		i.renderTarget = prev
		return err
	}
	if ds := rt.childLocked(RoleDepthStencil, 0); ds != nil {
		if err := i.syncLocked(ds); err != nil {
			i.renderTarget = prev
			return err
		}
	}
	Logger().Debug("ddraw: render target bound", "surface", rt.id)
	return nil
}

// RenderTarget returns the bound render target.
func (d *Device3D) RenderTarget() *Surface {
	d.iface.mu.Lock()
	defer d.iface.mu.Unlock()
	return d.iface.renderTarget
}

// DepthStencil returns the depth-stencil resource used with the bound
// render target: its attached depth-stencil, or the device's automatic
// target. An attached depth-stencil made on a replaced device reads as
// the zero Resource until the next synchronization.
func (d *Device3D) DepthStencil() Resource {
	i := d.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	if rt := i.renderTarget; rt != nil {
		if ds := rt.childLocked(RoleDepthStencil, 0); ds != nil {
			i.refreshReadLocked(ds)
			return ds.res
		}
	}
	if i.device == nil {
		return Resource{}
	}
	ds := i.device.DepthStencilTarget()
	if ds == nil {
		return Resource{}
	}
	dd := ds.Desc()
	return Resource{
		kind:     KindDepthStencil,
		surface:  ds,
		borrowed: true,
		format:   dd.Format,
		pool:     dd.Pool,
		usage:    dd.Usage,
		levels:   1,
	}
}

// SetTexture binds tex to stage, uploading its content. A nil tex
// clears the stage.
func (d *Device3D) SetTexture(stage int, tex *Surface) error {
	if stage < 0 || stage >= MaxTextureStages {
		return fmt.Errorf("%w: %d", ErrInvalidStage, stage)
	}
	i := d.iface
	i.mu.Lock()
	defer i.mu.Unlock()
	if tex == nil {
		d.textures[stage] = nil
		return nil
	}
	if tex.iface != i {
		return ErrInvalidParams
	}
	if err := i.syncLocked(tex); err != nil {
		return err
	}
	d.textures[stage] = tex
	return nil
}

// Texture returns the surface bound to stage, or nil.
func (d *Device3D) Texture(stage int) *Surface {
	if stage < 0 || stage >= MaxTextureStages {
		return nil
	}
	d.iface.mu.Lock()
	defer d.iface.mu.Unlock()
	return d.textures[stage]
}

// PreLoad synchronizes tex without binding it.
func (d *Device3D) PreLoad(tex *Surface) error {
	if tex == nil {
		return ErrInvalidParams
	}
	return tex.InitializeOrUpload()
}

// MarkDrawn records that a draw call rendered into the back buffer.
// From then on flip-chain surfaces are not uploaded until Present.
func (d *Device3D) MarkDrawn() {
	d.iface.mu.Lock()
	d.iface.hasDrawn = true
	d.iface.mu.Unlock()
}

// HasDrawn reports whether a draw happened since the last Present.
func (d *Device3D) HasDrawn() bool {
	d.iface.mu.Lock()
	defer d.iface.mu.Unlock()
	return d.iface.hasDrawn
}

// Present shows the back buffer.
func (d *Device3D) Present() error {
	return d.iface.present()
}
