package img2pic

import (
	"errors"
	"sync"
	"testing"
)

// mockAccelerator implements Accelerator for testing.
type mockAccelerator struct {
	name     string
	initErr  error
	canAccel AcceleratedOp

	// convolveErr/sobelErr are returned by the respective methods.
	// A nil error fills the output with fillValue.
	convolveErr error
	sobelErr    error
	fillValue   float32

	mu            sync.Mutex
	closed        bool
	convolveCalls int
	sobelCalls    int
}

func (m *mockAccelerator) Name() string { return m.name }

func (m *mockAccelerator) Init() error { return m.initErr }

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) CanAccelerate(op AcceleratedOp) bool {
	return m.canAccel&op != 0
}

func (m *mockAccelerator) Convolve(_ []float32, _, _ int, _ []float32, dst []float32) error {
	m.mu.Lock()
	m.convolveCalls++
	m.mu.Unlock()
	if m.convolveErr != nil {
		return m.convolveErr
	}
	for i := range dst {
		dst[i] = m.fillValue
	}
	return nil
}

func (m *mockAccelerator) Sobel(_ []float32, _, _ int, gx, gy []float32) error {
	m.mu.Lock()
	m.sobelCalls++
	m.mu.Unlock()
	if m.sobelErr != nil {
		return m.sobelErr
	}
	for i := range gx {
		gx[i] = m.fillValue
		gy[i] = -m.fillValue
	}
	return nil
}

// resetAccelerator clears the global accelerator state between tests.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

func TestRegisterAcceleratorNil(t *testing.T) {
	resetAccelerator()

	if err := RegisterAccelerator(nil); err == nil {
		t.Fatal("expected error when registering nil accelerator")
	}
	if RegisteredAccelerator() != nil {
		t.Error("accelerator should remain nil after failed registration")
	}
}

func TestRegisterAcceleratorInitError(t *testing.T) {
	resetAccelerator()

	initErr := errors.New("GPU init failed")
	mock := &mockAccelerator{name: "failing", initErr: initErr}

	err := RegisterAccelerator(mock)
	if err == nil {
		t.Fatal("expected error when Init fails")
	}
	if !errors.Is(err, initErr) {
		t.Errorf("expected init error, got: %v", err)
	}
	if RegisteredAccelerator() != nil {
		t.Error("accelerator should remain nil after Init failure")
	}
}

func TestRegisterAcceleratorReplacesPrevious(t *testing.T) {
	resetAccelerator()
	defer resetAccelerator()

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}

	if err := RegisterAccelerator(first); err != nil {
		t.Fatalf("register first: %v", err)
	}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatalf("register second: %v", err)
	}

	if got := RegisteredAccelerator(); got != second {
		t.Errorf("RegisteredAccelerator() = %v, want second", got)
	}
	if !first.isClosed() {
		t.Error("replaced accelerator should be closed")
	}
	if second.isClosed() {
		t.Error("active accelerator should not be closed")
	}
}

func TestSetAcceleratorDeviceProviderNoAccelerator(t *testing.T) {
	resetAccelerator()

	// No accelerator registered: must be a silent no-op.
	if err := SetAcceleratorDeviceProvider(struct{}{}); err != nil {
		t.Errorf("SetAcceleratorDeviceProvider() = %v, want nil", err)
	}
}

func TestAcceleratedConvolvePreferred(t *testing.T) {
	resetAccelerator()
	defer resetAccelerator()

	mock := &mockAccelerator{name: "mock", canAccel: AccelConvolve, fillValue: 3}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("register: %v", err)
	}

	src := make([]float32, 4*4)
	dst, err := ConvolveSeparable(src, 4, 4, []float32{1})
	if err != nil {
		t.Fatalf("ConvolveSeparable: %v", err)
	}

	if mock.convolveCalls != 1 {
		t.Errorf("convolveCalls = %d, want 1", mock.convolveCalls)
	}
	for i := range dst {
		if dst[i] != 3 {
			t.Fatalf("dst[%d] = %v, want accelerator output 3", i, dst[i])
		}
	}
}

func TestAcceleratedConvolveFallback(t *testing.T) {
	resetAccelerator()
	defer resetAccelerator()

	mock := &mockAccelerator{
		name:        "mock",
		canAccel:    AccelConvolve | AccelSobel,
		convolveErr: ErrFallbackToCPU,
		sobelErr:    errors.New("device lost"),
	}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("register: %v", err)
	}

	src := []float32{1, 2, 3, 4}

	// ErrFallbackToCPU: silent CPU fallback, identity kernel law holds.
	dst, err := ConvolveSeparable(src, 2, 2, []float32{1})
	if err != nil {
		t.Fatalf("ConvolveSeparable: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %v, want %v (CPU fallback)", i, dst[i], src[i])
		}
	}

	// Hard accelerator error: still falls back, never surfaces.
	grad, err := Sobel(src, 2, 2)
	if err != nil {
		t.Fatalf("Sobel: %v", err)
	}
	if len(grad.Gx) != 4 || len(grad.Gy) != 4 {
		t.Fatalf("gradient buffers sized %d/%d, want 4/4", len(grad.Gx), len(grad.Gy))
	}
}

func TestAcceleratorSkippedForUnsupportedOp(t *testing.T) {
	resetAccelerator()
	defer resetAccelerator()

	mock := &mockAccelerator{name: "mock", canAccel: AccelSobel, fillValue: 9}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("register: %v", err)
	}

	src := []float32{1, 2, 3, 4}
	if _, err := ConvolveSeparable(src, 2, 2, []float32{1}); err != nil {
		t.Fatalf("ConvolveSeparable: %v", err)
	}

	if mock.convolveCalls != 0 {
		t.Errorf("convolveCalls = %d, want 0 (CanAccelerate is false)", mock.convolveCalls)
	}
}
