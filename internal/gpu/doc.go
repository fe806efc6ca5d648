// Package gpu implements the wgpu/hal compute accelerator for img2pic.
//
// Separable convolution and Sobel run as WGSL compute shaders compiled
// to SPIR-V through naga, dispatched over storage buffers on a Vulkan
// device. The shaders mirror the CPU reference in internal/filter,
// including reflect-101 boundary handling.
//
// When no usable GPU is present, initialization degrades gracefully:
// the accelerator stays registered but reports every operation as
// unsupported, and the public API runs the CPU path. Nothing in this
// package is reachable unless the img2pic/gpu package is imported.
package gpu
