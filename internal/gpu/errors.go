//go:build !nogpu

package gpu

import "errors"

var (
	// ErrPipeline wraps failures to build the stroke render pipeline.
	// These are fatal: the drawing surface is unusable.
	ErrPipeline = errors.New("gpu: stroke pipeline setup failed")

	// ErrNotReady is returned when drawing before Init and Resize.
	ErrNotReady = errors.New("gpu: renderer not ready")

	// ErrNoAdapter is returned by OpenDevice when no GPU is available.
	ErrNoAdapter = errors.New("gpu: no GPU adapter found")

	// ErrProvider is returned when a device provider exposes no HAL device.
	ErrProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrDestroyed is returned when using a renderer after Destroy.
	ErrDestroyed = errors.New("gpu: renderer destroyed")
)
