package pipeline

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"sync/atomic"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// shaderIDCounter generates unique shader module IDs.
var shaderIDCounter atomic.Uint64

// ShaderModule is a compiled shader with the identity the cache hashes
// by.
type ShaderModule struct {
	id       uint64
	label    string
	codeHash uint64
	raw      hal.ShaderModule
}

// CompileWGSL compiles WGSL source to SPIR-V and creates the device's
// shader module for it.
func CompileWGSL(dev Device, label, source string) (*ShaderModule, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}

	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", label, err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}

	raw, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %q: %w", label, err)
	}

	return &ShaderModule{
		id:       shaderIDCounter.Add(1),
		label:    label,
		codeHash: hashBytes(spirv),
		raw:      raw,
	}, nil
}

// ID returns the module's unique identifier.
func (m *ShaderModule) ID() uint64 { return m.id }

// Label returns the module's debug label.
func (m *ShaderModule) Label() string { return m.label }

// CodeHash returns the hash of the SPIR-V bytecode.
func (m *ShaderModule) CodeHash() uint64 { return m.codeHash }

// Raw returns the underlying HAL shader module.
func (m *ShaderModule) Raw() hal.ShaderModule { return m.raw }

// hashBytes computes an FNV-1a hash of a byte slice.
func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// hashWriteUint32 writes a uint32 to the hash.
func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

// hashWriteUint64 writes a uint64 to the hash.
func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

// hashWriteString writes a string to the hash.
func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

// hashWriteBool writes a bool to the hash.
func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
