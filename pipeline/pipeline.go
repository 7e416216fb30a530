package pipeline

import (
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
)

// Device is the device surface the factory needs. hal.Device satisfies
// it; tests use hand-written fakes.
type Device interface {
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error)
}

// pipelineIDCounter generates unique pipeline IDs.
var pipelineIDCounter atomic.Uint64

// Pipeline is one created render pipeline variant.
type Pipeline struct {
	id    uint64
	label string
	hash  uint64
	raw   hal.RenderPipeline
}

// ID returns the pipeline's unique identifier.
func (p *Pipeline) ID() uint64 { return p.id }

// Label returns the pipeline's debug label.
func (p *Pipeline) Label() string { return p.label }

// Hash returns the descriptor hash the pipeline is cached under.
func (p *Pipeline) Hash() uint64 { return p.hash }

// Raw returns the underlying HAL pipeline.
func (p *Pipeline) Raw() hal.RenderPipeline { return p.raw }
