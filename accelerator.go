package img2pic

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this
// operation. The caller transparently falls back to the CPU path.
var ErrFallbackToCPU = errors.New("img2pic: falling back to CPU filtering")

// AcceleratedOp describes operation types for capability checking.
type AcceleratedOp uint32

const (
	// AccelConvolve represents separable convolution.
	AccelConvolve AcceleratedOp = 1 << iota

	// AccelSobel represents Sobel gradient computation.
	AccelSobel
)

// Accelerator is an optional GPU acceleration provider.
//
// When registered via RegisterAccelerator, the public entry points try
// the accelerator first for supported operations. If it returns
// ErrFallbackToCPU or any error, filtering transparently falls back to
// the CPU implementation.
//
// Implementations are provided by GPU backend packages. Users opt in
// via blank import:
//
//	import _ "github.com/AndreaFrederica/img2pic/gpu" // enables GPU filtering
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-filter").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// operation. This is a fast check used to skip the GPU entirely for
	// unsupported operations.
	CanAccelerate(op AcceleratedOp) bool

	// Convolve runs a separable convolution of src with kernel into
	// dst. Inputs are pre-validated: len(src) == len(dst) ==
	// width*height, the kernel has odd length, and its radius is below
	// both dimensions. Returns ErrFallbackToCPU if the operation cannot
	// be dispatched.
	Convolve(src []float32, width, height int, kernel []float32, dst []float32) error

	// Sobel computes the Sobel gradient pair of src into gx and gy,
	// both pre-allocated at len(src). Returns ErrFallbackToCPU if the
	// operation cannot be dispatched.
	Sobel(src []float32, width, height int, gx, gy []float32) error
}

// DeviceProviderAware is an optional interface for accelerators that
// can share GPU resources with an external provider (e.g., a host
// window's device). When SetDeviceProvider is called, the accelerator
// reuses the provided GPU device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers an accelerator for optional GPU
// filtering.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration, and registration fails if Init() fails.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    img2pic.RegisterAccelerator(NewFilterAccelerator())
//	}
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("img2pic: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator,
// or nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the
// registered accelerator, enabling GPU device sharing. If no
// accelerator is registered or it doesn't support device sharing, this
// is a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
