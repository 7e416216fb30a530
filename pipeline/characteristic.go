package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Characteristic is one axis of the variant product.
//
// Begin/End bound the axis's half-open value range. Initialize runs
// once before enumeration; it registers the characteristic's
// contribution slices on the flat description and performs one-time
// work such as shader compilation. Fill is called with one value per
// cell and must refill the registered slices for that value. Update
// folds a value into the composite index; embedding [Range] supplies
// the standard mixed-radix fold.
type Characteristic interface {
	Begin() int
	End() int
	Initialize(flat *FlatCreateInfo, dev Device) error
	Fill(flat *FlatCreateInfo, v int) error
	Update(idx *Index, v int)
}

// Range is the half-open value range [First, Last) of an axis.
// Embed it to get Begin/End/Update for free.
type Range struct {
	First int
	Last  int
}

// Begin returns the first value of the range.
func (r Range) Begin() int { return r.First }

// End returns one past the last value of the range.
func (r Range) End() int { return r.Last }

// Size returns the number of values in the range.
func (r Range) Size() int { return r.Last - r.First }

// Update folds a value of this axis into the composite index: the
// index so far is scaled by the axis size, then the value's offset
// within the range is added. Applying Update for every axis in
// registration order yields the dense outermost-axis-major cell index.
func (r Range) Update(idx *Index, v int) {
	*idx = *idx*Index(r.Size()) + Index(v-r.First)
}

// ShaderVariant is one entry of a [ShaderVariants] axis: WGSL source
// defining the vs_main and fs_main entry points.
type ShaderVariant struct {
	Label string
	WGSL  string
}

// ShaderVariants is an axis over shader permutations. Every variant is
// compiled once at initialize time; each cell contributes the variant's
// vertex and fragment stages.
type ShaderVariants struct {
	Range
	variants []ShaderVariant
	modules  []*ShaderModule
	stages   []StageInfo
}

// NewShaderVariants creates a shader axis over the given variants.
func NewShaderVariants(variants ...ShaderVariant) *ShaderVariants {
	return &ShaderVariants{Range: Range{0, len(variants)}, variants: variants}
}

// Initialize compiles every variant and registers the stage
// contribution.
func (c *ShaderVariants) Initialize(flat *FlatCreateInfo, dev Device) error {
	c.modules = make([]*ShaderModule, len(c.variants))
	for i, v := range c.variants {
		m, err := CompileWGSL(dev, v.Label, v.WGSL)
		if err != nil {
			return fmt.Errorf("shader variant %d: %w", i, err)
		}
		c.modules[i] = m
	}
	flat.AddShaderStages(&c.stages)
	return nil
}

// Fill contributes the variant's vertex and fragment stages.
func (c *ShaderVariants) Fill(_ *FlatCreateInfo, v int) error {
	m := c.modules[v]
	c.stages = []StageInfo{
		{Stage: gputypes.ShaderStageVertex, Module: m, EntryPoint: "vs_main"},
		{Stage: gputypes.ShaderStageFragment, Module: m, EntryPoint: "fs_main"},
	}
	return nil
}

// BlendModes is an axis over blend states for a single color target.
// A nil blend state means opaque (no blending).
type BlendModes struct {
	Range
	format  gputypes.TextureFormat
	modes   []*gputypes.BlendState
	targets []gputypes.ColorTargetState
}

// NewBlendModes creates a blend axis over the given states for the
// target format.
func NewBlendModes(format gputypes.TextureFormat, modes ...*gputypes.BlendState) *BlendModes {
	return &BlendModes{Range: Range{0, len(modes)}, format: format, modes: modes}
}

// Initialize registers the color-target contribution.
func (c *BlendModes) Initialize(flat *FlatCreateInfo, _ Device) error {
	flat.AddColorTargets(&c.targets)
	return nil
}

// Fill contributes the cell's color target.
func (c *BlendModes) Fill(_ *FlatCreateInfo, v int) error {
	c.targets = []gputypes.ColorTargetState{{
		Format:    c.format,
		Blend:     c.modes[v],
		WriteMask: gputypes.ColorWriteMaskAll,
	}}
	return nil
}

// VertexLayouts is an axis over vertex buffer layout sets.
type VertexLayouts struct {
	Range
	layouts [][]gputypes.VertexBufferLayout
	buffers []gputypes.VertexBufferLayout
}

// NewVertexLayouts creates a vertex-layout axis over the given sets.
func NewVertexLayouts(layouts ...[]gputypes.VertexBufferLayout) *VertexLayouts {
	return &VertexLayouts{Range: Range{0, len(layouts)}, layouts: layouts}
}

// Initialize registers the vertex-buffer contribution.
func (c *VertexLayouts) Initialize(flat *FlatCreateInfo, _ Device) error {
	flat.AddVertexBuffers(&c.buffers)
	return nil
}

// Fill contributes the cell's vertex buffer layouts.
func (c *VertexLayouts) Fill(_ *FlatCreateInfo, v int) error {
	c.buffers = c.layouts[v]
	return nil
}
