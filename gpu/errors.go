//go:build !nogpu

package gpu

import "errors"

var (
	// ErrNilDevice is returned when a nil hal.Device is supplied.
	ErrNilDevice = errors.New("gpu: hal device is nil")

	// ErrNilQueue is returned when a nil hal.Queue is supplied.
	ErrNilQueue = errors.New("gpu: hal queue is nil")

	// ErrClosed is returned when using PageTextures after Close.
	ErrClosed = errors.New("gpu: page textures closed")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL device and queue.
	ErrNoHALProvider = errors.New("gpu: provider does not expose HAL types")
)
