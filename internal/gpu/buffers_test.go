package gpu

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloatsToBytesRoundTrip(t *testing.T) {
	src := []float32{0, 1, -1, 0.5, math.Pi, float32(math.Inf(1)), -2.25e-8}
	raw := floatsToBytes(src)
	if len(raw) != len(src)*4 {
		t.Fatalf("byte length = %d, want %d", len(raw), len(src)*4)
	}
	dst := make([]float32, len(src))
	bytesToFloats(raw, dst)
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("sample %d: got %v, want %v", i, dst[i], src[i])
		}
	}
}

func TestFloatsToBytesLittleEndian(t *testing.T) {
	raw := floatsToBytes([]float32{1.0})
	bits := binary.LittleEndian.Uint32(raw)
	if bits != math.Float32bits(1.0) {
		t.Fatalf("encoded bits = %#x, want %#x", bits, math.Float32bits(1.0))
	}
}

func TestPackParamsLayout(t *testing.T) {
	raw := packParams(640, 480, 3, 5)
	if len(raw) != 16 {
		t.Fatalf("params size = %d, want 16", len(raw))
	}
	if w := binary.LittleEndian.Uint32(raw[0:4]); w != 640 {
		t.Errorf("width = %d, want 640", w)
	}
	if h := binary.LittleEndian.Uint32(raw[4:8]); h != 480 {
		t.Errorf("height = %d, want 480", h)
	}
	if r := binary.LittleEndian.Uint32(raw[8:12]); r != 3 {
		t.Errorf("radius = %d, want 3", r)
	}
	if tap := binary.LittleEndian.Uint32(raw[12:16]); tap != 5 {
		t.Errorf("tap = %d, want 5", tap)
	}
}
