package pipeline

import (
	"fmt"
	"hash/fnv"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// StageInfo is one contributed programmable stage.
type StageInfo struct {
	Stage      gputypes.ShaderStage
	Module     *ShaderModule
	EntryPoint string
}

// FlatCreateInfo assembles a render pipeline description from
// independent contributions.
//
// Characteristics register a pointer to a slice per concern during
// Initialize and refill the slice on every Fill; Merge concatenates all
// registered slices in registration order. Fixed single-value state
// (layout, primitive, multisample, depth-stencil) is set directly on
// the struct before generation starts and is shared by every variant.
type FlatCreateInfo struct {
	// Layout is the pipeline layout shared by all variants.
	Layout hal.PipelineLayout

	// Primitive is the shared primitive state.
	Primitive gputypes.PrimitiveState

	// Multisample is the shared multisample state.
	Multisample gputypes.MultisampleState

	// DepthStencil is the shared depth-stencil state, nil for none.
	DepthStencil *hal.DepthStencilState

	stageLists  []*[]StageInfo
	bufferLists []*[]gputypes.VertexBufferLayout
	targetLists []*[]gputypes.ColorTargetState
}

// NewFlatCreateInfo creates a description with the usual fixed state:
// triangle-list topology, no culling, no multisampling.
func NewFlatCreateInfo() *FlatCreateInfo {
	return &FlatCreateInfo{
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

// AddShaderStages registers a shader-stage contribution.
func (f *FlatCreateInfo) AddShaderStages(list *[]StageInfo) {
	f.stageLists = append(f.stageLists, list)
}

// AddVertexBuffers registers a vertex-buffer-layout contribution.
func (f *FlatCreateInfo) AddVertexBuffers(list *[]gputypes.VertexBufferLayout) {
	f.bufferLists = append(f.bufferLists, list)
}

// AddColorTargets registers a color-target contribution.
func (f *FlatCreateInfo) AddColorTargets(list *[]gputypes.ColorTargetState) {
	f.targetLists = append(f.targetLists, list)
}

// mergeLists concatenates registered slices in registration order. A
// registered slice that is still empty means a characteristic forgot to
// fill its contribution.
func mergeLists[T any](lists []*[]T) ([]T, error) {
	var out []T
	for _, l := range lists {
		if len(*l) == 0 {
			return nil, ErrEmptyContribution
		}
		out = append(out, *l...)
	}
	return out, nil
}

// Merge snapshots the current contributions into one immutable variant
// description.
func (f *FlatCreateInfo) Merge(label string) (*MergedCreateInfo, error) {
	stages, err := mergeLists(f.stageLists)
	if err != nil {
		return nil, fmt.Errorf("shader stages: %w", err)
	}
	buffers, err := mergeLists(f.bufferLists)
	if err != nil {
		return nil, fmt.Errorf("vertex buffers: %w", err)
	}
	targets, err := mergeLists(f.targetLists)
	if err != nil {
		return nil, fmt.Errorf("color targets: %w", err)
	}
	return &MergedCreateInfo{
		Label:        label,
		Stages:       stages,
		Buffers:      buffers,
		Targets:      targets,
		Layout:       f.Layout,
		Primitive:    f.Primitive,
		Multisample:  f.Multisample,
		DepthStencil: f.DepthStencil,
	}, nil
}

// Descriptor merges the contributions and builds the HAL descriptor in
// one step.
func (f *FlatCreateInfo) Descriptor(label string) (*hal.RenderPipelineDescriptor, error) {
	m, err := f.Merge(label)
	if err != nil {
		return nil, err
	}
	return m.Descriptor()
}

// MergedCreateInfo is one variant's full description: the merged
// contributions plus the shared fixed state.
type MergedCreateInfo struct {
	Label   string
	Stages  []StageInfo
	Buffers []gputypes.VertexBufferLayout
	Targets []gputypes.ColorTargetState

	Layout       hal.PipelineLayout
	Primitive    gputypes.PrimitiveState
	Multisample  gputypes.MultisampleState
	DepthStencil *hal.DepthStencilState
}

// Descriptor builds the HAL render pipeline descriptor. Exactly one
// vertex stage is required; a fragment stage is optional.
func (m *MergedCreateInfo) Descriptor() (*hal.RenderPipelineDescriptor, error) {
	var vertex, fragment *StageInfo
	for i := range m.Stages {
		s := &m.Stages[i]
		if s.Module == nil {
			return nil, fmt.Errorf("%w (stage %v)", ErrNilShader, s.Stage)
		}
		switch s.Stage {
		case gputypes.ShaderStageVertex:
			if vertex != nil {
				return nil, fmt.Errorf("%w (vertex)", ErrDuplicateStage)
			}
			vertex = s
		case gputypes.ShaderStageFragment:
			if fragment != nil {
				return nil, fmt.Errorf("%w (fragment)", ErrDuplicateStage)
			}
			fragment = s
		default:
			return nil, fmt.Errorf("pipeline: unsupported shader stage %v", s.Stage)
		}
	}
	if vertex == nil {
		return nil, ErrNoVertexStage
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  m.Label,
		Layout: m.Layout,
		Vertex: hal.VertexState{
			Module:     vertex.Module.Raw(),
			EntryPoint: vertex.EntryPoint,
			Buffers:    m.Buffers,
		},
		DepthStencil: m.DepthStencil,
		Primitive:    m.Primitive,
		Multisample:  m.Multisample,
	}
	if fragment != nil {
		desc.Fragment = &hal.FragmentState{
			Module:     fragment.Module.Raw(),
			EntryPoint: fragment.EntryPoint,
			Targets:    m.Targets,
		}
	}
	return desc, nil
}

// Hash computes the FNV-1a descriptor hash the cache keys by. The label
// is excluded: two variants with identical state share one pipeline.
func (m *MergedCreateInfo) Hash() uint64 {
	h := fnv.New64a()

	hashWriteUint32(h, uint32(len(m.Stages)))
	for i := range m.Stages {
		s := &m.Stages[i]
		hashWriteUint32(h, uint32(s.Stage))
		if s.Module != nil {
			hashWriteUint64(h, s.Module.CodeHash())
		} else {
			hashWriteUint64(h, 0)
		}
		hashWriteString(h, s.EntryPoint)
	}

	hashWriteUint32(h, uint32(len(m.Buffers)))
	for i := range m.Buffers {
		b := &m.Buffers[i]
		hashWriteUint64(h, b.ArrayStride)
		hashWriteUint32(h, uint32(b.StepMode))
		hashWriteUint32(h, uint32(len(b.Attributes)))
		for j := range b.Attributes {
			a := &b.Attributes[j]
			hashWriteUint32(h, a.ShaderLocation)
			hashWriteUint32(h, uint32(a.Format))
			hashWriteUint64(h, a.Offset)
		}
	}

	hashWriteUint32(h, uint32(len(m.Targets)))
	for i := range m.Targets {
		t := &m.Targets[i]
		hashWriteUint32(h, uint32(t.Format))
		hashWriteUint32(h, uint32(t.WriteMask))
		if t.Blend != nil {
			hashWriteBool(h, true)
			fmt.Fprintf(h, "%v", *t.Blend)
		} else {
			hashWriteBool(h, false)
		}
	}

	fmt.Fprintf(h, "%v%v", m.Primitive, m.Multisample)
	if m.DepthStencil != nil {
		hashWriteBool(h, true)
		fmt.Fprintf(h, "%v", *m.DepthStencil)
	} else {
		hashWriteBool(h, false)
	}

	return h.Sum64()
}
