//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is an opened GPU device with its submission queue.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Name   string

	instance hal.Instance
}

// Close destroys the device and its instance.
func (d *Device) Close() {
	if d == nil {
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.Queue = nil
}

// OpenDevice opens a Vulkan device, preferring a discrete or integrated
// GPU over software adapters.
func OpenDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return openFrom(instance)
}

// openFrom picks an adapter of instance and opens it. The instance is
// destroyed on failure.
func openFrom(instance hal.Instance) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("gpu device opened", slog.String("adapter", selected.Info.Name))
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Name:     selected.Info.Name,
		instance: instance,
	}, nil
}

// halFromProvider extracts the HAL device and queue from a host's device
// provider. The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProvider)
	}
	var unset gputypes.TextureFormat
	if f := provider.SurfaceFormat(); f != colorFormat && f != unset {
		slogger().Warn("provider surface format differs from stroke pipeline format",
			slog.Any("surface", f),
			slog.Any("pipeline", colorFormat))
	}
	return device, queue, nil
}
