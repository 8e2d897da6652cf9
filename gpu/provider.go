//go:build !nogpu

package gpu

import "github.com/gogpu/wgpu/hal"

// halProvider is implemented by device providers that expose the HAL
// device and queue, such as the gogpu application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewPageTexturesFromProvider creates a texture set on a shared device.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewPageTexturesFromProvider(provider any) (*PageTextures, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNilDevice
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNilQueue
	}
	return NewPageTextures(device, queue)
}
