//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/convolve.wgsl
var convolveShaderWGSL string

//go:embed shaders/sobel.wgsl
var sobelShaderWGSL string

// compileWGSL compiles a WGSL source to SPIR-V words via naga.
// Compiling up front (instead of handing WGSL to the driver) surfaces
// shader errors at accelerator init rather than at first dispatch.
func compileWGSL(label, source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gpu-filter: compile %s: %w", label, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gpu-filter: compile %s: SPIR-V length %d not word-aligned", label, len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
