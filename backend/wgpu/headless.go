package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// OpenHeadless opens a device on the no-op HAL backend. Resources are
// created and uploads accepted without a GPU, which suits tooling and
// tests. Close releases the HAL device.
func OpenHeadless(width, height int, opts ...Option) (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("wgpu: no noop adapter")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open noop adapter: %w", err)
	}

	d, err := NewHALDevice(openDev.Device, openDev.Queue, width, height, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.closeFn = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return d, nil
}
