package gpu

import (
	"encoding/binary"
	"math"
)

// floatsToBytes serializes a float32 slice to little-endian bytes for
// GPU buffer upload.
func floatsToBytes(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// bytesToFloats decodes little-endian bytes from a GPU readback into
// dst. len(raw) must be at least len(dst)*4.
func bytesToFloats(raw []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
}

// packParams serializes the 16-byte Params uniform shared by both
// shaders. The convolve path uses all four words (width, height,
// radius, tap index); the Sobel path only reads the first two.
func packParams(width, height, radius, tap uint32) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint32(out[0:], width)
	binary.LittleEndian.PutUint32(out[4:], height)
	binary.LittleEndian.PutUint32(out[8:], radius)
	binary.LittleEndian.PutUint32(out[12:], tap)
	return out
}
