package framegraph

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// framegraph RECEIVES the device from the host, it does NOT create one.
// The host application (e.g., a gogpu window) implements DeviceHandle and
// passes it in, so graph compilation output and generated pipelines live
// on the same device the host renders with.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// framegraph-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// ErrNoHALAccess is returned when a device provider does not expose the
// underlying HAL device and queue.
var ErrNoHALAccess = errors.New("framegraph: device provider does not expose HAL types")

// FromDeviceProvider extracts the hal.Device and hal.Queue from an external
// device provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
//
// The pipeline factory and the render-graph descriptor builders operate on
// HAL handles directly; this is the bridge from the host's shared device.
func FromDeviceProvider(provider any) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("framegraph: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("framegraph: provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}
