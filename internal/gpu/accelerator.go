//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/AndreaFrederica/img2pic"
)

// FilterAccelerator runs img2pic's filtering on the GPU using wgpu/hal
// compute shaders. It implements the img2pic.Accelerator interface.
//
// Convolution dispatches the horizontal and vertical passes in a single
// command encoder; the implicit storage barrier between compute passes
// keeps them ordered. Sobel is a single pass writing both gradient
// buffers.
type FilterAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// Convolution pipelines (shared shader module and layout).
	convShader     hal.ShaderModule
	convBindLayout hal.BindGroupLayout
	convPipeLayout hal.PipelineLayout
	convHorizontal hal.ComputePipeline
	convVertical   hal.ComputePipeline

	// Sobel pipeline.
	sobelShader     hal.ShaderModule
	sobelBindLayout hal.BindGroupLayout
	sobelPipeLayout hal.PipelineLayout
	sobelPipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var (
	_ img2pic.Accelerator         = (*FilterAccelerator)(nil)
	_ img2pic.DeviceProviderAware = (*FilterAccelerator)(nil)
)

// NewFilterAccelerator returns an unstarted accelerator. Init creates
// the GPU resources; registration calls it.
func NewFilterAccelerator() *FilterAccelerator {
	return &FilterAccelerator{}
}

func (a *FilterAccelerator) Name() string { return "wgpu-filter" }

// CanAccelerate reports GPU support for the operation. False when GPU
// initialization failed, so the public API skips straight to the CPU
// path without a dispatch attempt.
func (a *FilterAccelerator) CanAccelerate(op img2pic.AcceleratedOp) bool {
	a.mu.Lock()
	ready := a.gpuReady
	a.mu.Unlock()
	return ready && op&(img2pic.AccelConvolve|img2pic.AccelSobel) != 0
}

// Init initializes GPU resources. A missing or unusable GPU is not an
// error: the accelerator stays registered and reports itself
// unavailable, and filtering continues on the CPU.
func (a *FilterAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("GPU unavailable, filtering stays on CPU", "err", err)
	}
	return nil
}

// Close releases GPU resources. Safe to call on a failed or closed
// accelerator.
func (a *FilterAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetLogger receives the logger propagated from img2pic.SetLogger.
func (a *FilterAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// SetDeviceProvider switches the accelerator to a shared GPU device
// from an external provider (e.g., a host window). The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func (a *FilterAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-filter: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-filter: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-filter: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Drop own resources if we created them.
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu-filter: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("switched to shared GPU device")
	return nil
}

func (a *FilterAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
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
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}

	a.gpuReady = true
	slogger().Info("GPU filter accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *FilterAccelerator) createPipelines() error {
	if err := a.createConvolvePipelines(); err != nil {
		return err
	}
	return a.createSobelPipeline()
}

func (a *FilterAccelerator) createConvolvePipelines() error {
	spirv, err := compileWGSL("convolve", convolveShaderWGSL)
	if err != nil {
		return err
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "filter_convolve",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create convolve shader module: %w", err)
	}
	a.convShader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "filter_convolve_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create convolve bind group layout: %w", err)
	}
	a.convBindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "filter_convolve_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.convBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create convolve pipeline layout: %w", err)
	}
	a.convPipeLayout = pipeLayout

	horizontal, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "filter_convolve_horizontal",
		Layout:  a.convPipeLayout,
		Compute: hal.ComputeState{Module: a.convShader, EntryPoint: "cs_horizontal"},
	})
	if err != nil {
		return fmt.Errorf("create horizontal pipeline: %w", err)
	}
	a.convHorizontal = horizontal

	vertical, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "filter_convolve_vertical",
		Layout:  a.convPipeLayout,
		Compute: hal.ComputeState{Module: a.convShader, EntryPoint: "cs_vertical"},
	})
	if err != nil {
		return fmt.Errorf("create vertical pipeline: %w", err)
	}
	a.convVertical = vertical

	return nil
}

func (a *FilterAccelerator) createSobelPipeline() error {
	spirv, err := compileWGSL("sobel", sobelShaderWGSL)
	if err != nil {
		return err
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "filter_sobel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create sobel shader module: %w", err)
	}
	a.sobelShader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "filter_sobel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create sobel bind group layout: %w", err)
	}
	a.sobelBindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "filter_sobel_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{a.sobelBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create sobel pipeline layout: %w", err)
	}
	a.sobelPipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "filter_sobel_pipeline",
		Layout:  a.sobelPipeLayout,
		Compute: hal.ComputeState{Module: a.sobelShader, EntryPoint: "cs_sobel"},
	})
	if err != nil {
		return fmt.Errorf("create sobel pipeline: %w", err)
	}
	a.sobelPipeline = pipeline

	return nil
}

func (a *FilterAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.convHorizontal != nil {
		a.device.DestroyComputePipeline(a.convHorizontal)
		a.convHorizontal = nil
	}
	if a.convVertical != nil {
		a.device.DestroyComputePipeline(a.convVertical)
		a.convVertical = nil
	}
	if a.convPipeLayout != nil {
		a.device.DestroyPipelineLayout(a.convPipeLayout)
		a.convPipeLayout = nil
	}
	if a.convBindLayout != nil {
		a.device.DestroyBindGroupLayout(a.convBindLayout)
		a.convBindLayout = nil
	}
	if a.convShader != nil {
		a.device.DestroyShaderModule(a.convShader)
		a.convShader = nil
	}
	if a.sobelPipeline != nil {
		a.device.DestroyComputePipeline(a.sobelPipeline)
		a.sobelPipeline = nil
	}
	if a.sobelPipeLayout != nil {
		a.device.DestroyPipelineLayout(a.sobelPipeLayout)
		a.sobelPipeLayout = nil
	}
	if a.sobelBindLayout != nil {
		a.device.DestroyBindGroupLayout(a.sobelBindLayout)
		a.sobelBindLayout = nil
	}
	if a.sobelShader != nil {
		a.device.DestroyShaderModule(a.sobelShader)
		a.sobelShader = nil
	}
}
