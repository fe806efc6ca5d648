//go:build !nogpu

// Package gpu registers the GPU filter accelerator for
// hardware-accelerated convolution and gradient computation.
//
// Import this package to run GaussianBlur-style separable convolutions
// and Sobel gradients on the GPU via wgpu/hal compute shaders.
//
// If GPU initialization fails (no Vulkan available), registration is
// silently skipped and filtering falls back to the CPU implementation.
//
// Usage:
//
//	import _ "github.com/AndreaFrederica/img2pic/gpu" // enable GPU filtering
package gpu

import (
	"github.com/AndreaFrederica/img2pic"
	gpuimpl "github.com/AndreaFrederica/img2pic/internal/gpu"
)

func init() {
	accel := gpuimpl.NewFilterAccelerator()
	if err := img2pic.RegisterAccelerator(accel); err != nil {
		img2pic.Logger().Warn("GPU filter accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the filter accelerator to use a shared
// GPU device from an external provider instead of creating its own
// instance. The provider should be a DeviceHandle that also exposes
// the underlying HAL device and queue.
//
// Call this after importing the package, before filtering operations.
func SetDeviceProvider(provider any) error {
	return img2pic.SetAcceleratorDeviceProvider(provider)
}
