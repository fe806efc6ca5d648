//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/AndreaFrederica/img2pic"
)

const paramsSize = 16 // uniform block size in bytes, matches WGSL Params

// Convolve runs the separable convolution on the GPU. Each kernel tap
// gets its own compute pass (same pipeline, different uniform) in a
// single command encoder: all horizontal passes accumulate src into an
// intermediate buffer, then all vertical passes accumulate that into
// the destination, which is copied to a staging buffer and read back
// into dst. One pass per tap avoids naga SPIR-V bug #5 (loops only
// execute the first iteration). One submit + one fence wait for the
// whole filter. Bounds and kernel shape are validated by the caller.
func (a *FilterAccelerator) Convolve(src []float32, width, height int, kernel []float32, dst []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return img2pic.ErrFallbackToCPU
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions validated positive
	radius := uint32(len(kernel) / 2)     //nolint:gosec // kernel length validated odd
	sampleBufSize := uint64(len(src)) * 4

	srcBuf, err := a.createStorage("filter_src", floatsToBytes(src))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(srcBuf)

	kernelBuf, err := a.createStorage("filter_kernel", floatsToBytes(kernel))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(kernelBuf)

	tmpBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_tmp", Size: sampleBufSize,
		Usage: gputypes.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create tmp buffer: %w", err)
	}
	defer a.device.DestroyBuffer(tmpBuf)

	dstBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_dst", Size: sampleBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create dst buffer: %w", err)
	}
	defer a.device.DestroyBuffer(dstBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_staging", Size: sampleBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	// Per-tap uniform buffers and bind groups. Horizontal passes read
	// src into tmp, vertical passes read tmp into dst; each tap's bind
	// groups share the tap's uniform.
	taps := len(kernel)
	uniformBufs, horizontalBGs, verticalBGs, err := a.createPerTapBindings(
		taps, w, h, radius, srcBuf, kernelBuf, tmpBuf, dstBuf, sampleBufSize, uint64(len(kernel))*4)
	defer a.cleanupTapBindings(uniformBufs, horizontalBGs, verticalBGs)
	if err != nil {
		return err
	}

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "filter_convolve_encoder"})
	if err != nil {
		return fmt.Errorf("gpu-filter: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("filter_convolve"); err != nil {
		return fmt.Errorf("gpu-filter: begin encoding: %w", err)
	}

	for _, bg := range horizontalBGs {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "filter_convolve_h"})
		pass.SetPipeline(a.convHorizontal)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch((w+7)/8, (h+7)/8, 1)
		pass.End()
	}
	for _, bg := range verticalBGs {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "filter_convolve_v"})
		pass.SetPipeline(a.convVertical)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch((w+7)/8, (h+7)/8, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: sampleBufSize},
	})

	if err := a.submitAndWait(encoder); err != nil {
		return err
	}
	return a.readBack(stagingBuf, dst)
}

// createPerTapBindings creates one uniform buffer per kernel tap plus
// the horizontal and vertical bind groups sharing it. On error the
// returned slices hold what was created so far, for cleanup.
func (a *FilterAccelerator) createPerTapBindings(
	taps int, w, h, radius uint32,
	srcBuf, kernelBuf, tmpBuf, dstBuf hal.Buffer,
	sampleBufSize, kernelBufSize uint64,
) ([]hal.Buffer, []hal.BindGroup, []hal.BindGroup, error) {
	uniformBufs := make([]hal.Buffer, 0, taps)
	horizontalBGs := make([]hal.BindGroup, 0, taps)
	verticalBGs := make([]hal.BindGroup, 0, taps)

	for tap := 0; tap < taps; tap++ {
		ub, err := a.createUniform("filter_params", packParams(w, h, radius, uint32(tap))) //nolint:gosec // tap fits uint32
		if err != nil {
			return uniformBufs, horizontalBGs, verticalBGs, err
		}
		uniformBufs = append(uniformBufs, ub)

		hbg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "filter_convolve_h_bind", Layout: a.convBindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: kernelBuf.NativeHandle(), Offset: 0, Size: kernelBufSize}},
				{Binding: 3, Resource: gputypes.BufferBinding{Buffer: tmpBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
			},
		})
		if err != nil {
			return uniformBufs, horizontalBGs, verticalBGs,
				fmt.Errorf("gpu-filter: create horizontal bind group %d: %w", tap, err)
		}
		horizontalBGs = append(horizontalBGs, hbg)

		vbg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "filter_convolve_v_bind", Layout: a.convBindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: tmpBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: kernelBuf.NativeHandle(), Offset: 0, Size: kernelBufSize}},
				{Binding: 3, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
			},
		})
		if err != nil {
			return uniformBufs, horizontalBGs, verticalBGs,
				fmt.Errorf("gpu-filter: create vertical bind group %d: %w", tap, err)
		}
		verticalBGs = append(verticalBGs, vbg)
	}

	return uniformBufs, horizontalBGs, verticalBGs, nil
}

// cleanupTapBindings destroys per-tap uniform buffers and bind groups.
func (a *FilterAccelerator) cleanupTapBindings(uniformBufs []hal.Buffer, bgs ...[]hal.BindGroup) {
	for _, group := range bgs {
		for _, bg := range group {
			if bg != nil {
				a.device.DestroyBindGroup(bg)
			}
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			a.device.DestroyBuffer(ub)
		}
	}
}

// Sobel runs the gradient operator on the GPU in a single compute pass
// writing both gradient buffers, then reads them back.
func (a *FilterAccelerator) Sobel(src []float32, width, height int, gx, gy []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return img2pic.ErrFallbackToCPU
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions validated positive
	sampleBufSize := uint64(len(src)) * 4

	paramsBuf, err := a.createUniform("sobel_params", packParams(w, h, 0, 0))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(paramsBuf)

	srcBuf, err := a.createStorage("sobel_src", floatsToBytes(src))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(srcBuf)

	gxBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sobel_gx", Size: sampleBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create gx buffer: %w", err)
	}
	defer a.device.DestroyBuffer(gxBuf)

	gyBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sobel_gy", Size: sampleBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create gy buffer: %w", err)
	}
	defer a.device.DestroyBuffer(gyBuf)

	gxStaging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sobel_gx_staging", Size: sampleBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create gx staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(gxStaging)

	gyStaging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sobel_gy_staging", Size: sampleBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create gy staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(gyStaging)

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "sobel_bind", Layout: a.sobelBindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: gxBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: gyBuf.NativeHandle(), Offset: 0, Size: sampleBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu-filter: create sobel bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "sobel_encoder"})
	if err != nil {
		return fmt.Errorf("gpu-filter: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sobel"); err != nil {
		return fmt.Errorf("gpu-filter: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "sobel_pass"})
	pass.SetPipeline(a.sobelPipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(gxBuf, gxStaging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: sampleBufSize},
	})
	encoder.CopyBufferToBuffer(gyBuf, gyStaging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: sampleBufSize},
	})

	if err := a.submitAndWait(encoder); err != nil {
		return err
	}
	if err := a.readBack(gxStaging, gx); err != nil {
		return err
	}
	return a.readBack(gyStaging, gy)
}

func (a *FilterAccelerator) createUniform(label string, data []byte) (hal.Buffer, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label, Size: uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu-filter: create %s buffer: %w", label, err)
	}
	a.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (a *FilterAccelerator) createStorage(label string, data []byte) (hal.Buffer, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label, Size: uint64(len(data)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu-filter: create %s buffer: %w", label, err)
	}
	a.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// submitAndWait finishes encoding, submits the command buffer, and
// blocks on the fence.
func (a *FilterAccelerator) submitAndWait(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu-filter: end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu-filter: create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)

	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu-filter: submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu-filter: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// readBack copies a staging buffer into a float32 slice.
func (a *FilterAccelerator) readBack(staging hal.Buffer, dst []float32) error {
	raw := make([]byte, uint64(len(dst))*4)
	if err := a.queue.ReadBuffer(staging, 0, raw); err != nil {
		return fmt.Errorf("gpu-filter: readback: %w", err)
	}
	bytesToFloats(raw, dst)
	return nil
}
