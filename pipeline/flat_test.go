package pipeline

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

// testModule fabricates a shader module without a device.
func testModule(label string, codeHash uint64) *ShaderModule {
	return &ShaderModule{
		id:       shaderIDCounter.Add(1),
		label:    label,
		codeHash: codeHash,
	}
}

func TestMergeConcatenatesInRegistrationOrder(t *testing.T) {
	f := NewFlatCreateInfo()

	vs := []StageInfo{{Stage: gputypes.ShaderStageVertex, Module: testModule("vs", 1), EntryPoint: "vs_main"}}
	fs := []StageInfo{{Stage: gputypes.ShaderStageFragment, Module: testModule("fs", 2), EntryPoint: "fs_main"}}
	f.AddShaderStages(&vs)
	f.AddShaderStages(&fs)

	buffers := []gputypes.VertexBufferLayout{{ArrayStride: 8}}
	f.AddVertexBuffers(&buffers)

	targets := []gputypes.ColorTargetState{{Format: gputypes.TextureFormatBGRA8Unorm}}
	f.AddColorTargets(&targets)

	m, err := f.Merge("variant")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(m.Stages) != 2 || m.Stages[0].Stage != gputypes.ShaderStageVertex || m.Stages[1].Stage != gputypes.ShaderStageFragment {
		t.Errorf("stages merged out of order: %+v", m.Stages)
	}
	if len(m.Buffers) != 1 || len(m.Targets) != 1 {
		t.Errorf("buffers = %d, targets = %d, want 1 and 1", len(m.Buffers), len(m.Targets))
	}
}

func TestMergeEmptyContribution(t *testing.T) {
	f := NewFlatCreateInfo()
	var stages []StageInfo
	f.AddShaderStages(&stages) // registered but never filled

	if _, err := f.Merge("variant"); !errors.Is(err, ErrEmptyContribution) {
		t.Fatalf("err = %v, want ErrEmptyContribution", err)
	}
}

func TestDescriptorRequiresVertexStage(t *testing.T) {
	f := NewFlatCreateInfo()
	fs := []StageInfo{{Stage: gputypes.ShaderStageFragment, Module: testModule("fs", 2), EntryPoint: "fs_main"}}
	f.AddShaderStages(&fs)

	if _, err := f.Descriptor("variant"); !errors.Is(err, ErrNoVertexStage) {
		t.Fatalf("err = %v, want ErrNoVertexStage", err)
	}
}

func TestDescriptorRejectsDuplicateStage(t *testing.T) {
	f := NewFlatCreateInfo()
	a := []StageInfo{{Stage: gputypes.ShaderStageVertex, Module: testModule("a", 1), EntryPoint: "vs_main"}}
	b := []StageInfo{{Stage: gputypes.ShaderStageVertex, Module: testModule("b", 2), EntryPoint: "vs_main"}}
	f.AddShaderStages(&a)
	f.AddShaderStages(&b)

	if _, err := f.Descriptor("variant"); !errors.Is(err, ErrDuplicateStage) {
		t.Fatalf("err = %v, want ErrDuplicateStage", err)
	}
}

func TestDescriptorBuildsStates(t *testing.T) {
	f := NewFlatCreateInfo()
	mod := testModule("shader", 7)
	stages := []StageInfo{
		{Stage: gputypes.ShaderStageVertex, Module: mod, EntryPoint: "vs_main"},
		{Stage: gputypes.ShaderStageFragment, Module: mod, EntryPoint: "fs_main"},
	}
	f.AddShaderStages(&stages)
	buffers := []gputypes.VertexBufferLayout{{ArrayStride: 16}}
	f.AddVertexBuffers(&buffers)
	targets := []gputypes.ColorTargetState{{Format: gputypes.TextureFormatRGBA8Unorm, WriteMask: gputypes.ColorWriteMaskAll}}
	f.AddColorTargets(&targets)

	desc, err := f.Descriptor("variant")
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if desc.Label != "variant" {
		t.Errorf("label = %q, want variant", desc.Label)
	}
	if desc.Vertex.EntryPoint != "vs_main" || len(desc.Vertex.Buffers) != 1 {
		t.Errorf("vertex state = %+v", desc.Vertex)
	}
	if desc.Fragment == nil || desc.Fragment.EntryPoint != "fs_main" || len(desc.Fragment.Targets) != 1 {
		t.Errorf("fragment state = %+v", desc.Fragment)
	}
	if desc.Multisample.Count != 1 {
		t.Errorf("multisample count = %d, want 1", desc.Multisample.Count)
	}
}

func TestHashIgnoresLabel(t *testing.T) {
	build := func(label string) *MergedCreateInfo {
		f := NewFlatCreateInfo()
		stages := []StageInfo{{Stage: gputypes.ShaderStageVertex, Module: testModule("vs", 1), EntryPoint: "vs_main"}}
		f.AddShaderStages(&stages)
		m, err := f.Merge(label)
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		return m
	}

	if build("a").Hash() != build("b").Hash() {
		t.Error("hash must not depend on the label")
	}
}

func TestHashDistinguishesContent(t *testing.T) {
	build := func(entry string, codeHash uint64, blend *gputypes.BlendState) *MergedCreateInfo {
		f := NewFlatCreateInfo()
		stages := []StageInfo{{Stage: gputypes.ShaderStageVertex, Module: testModule("vs", codeHash), EntryPoint: entry}}
		f.AddShaderStages(&stages)
		targets := []gputypes.ColorTargetState{{Format: gputypes.TextureFormatBGRA8Unorm, Blend: blend}}
		f.AddColorTargets(&targets)
		m, err := f.Merge("v")
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		return m
	}

	base := build("vs_main", 1, nil)
	if base.Hash() != build("vs_main", 1, nil).Hash() {
		t.Error("identical content must hash identically")
	}
	if base.Hash() == build("vs_other", 1, nil).Hash() {
		t.Error("entry point must affect the hash")
	}
	if base.Hash() == build("vs_main", 2, nil).Hash() {
		t.Error("shader code hash must affect the hash")
	}
	premul := gputypes.BlendStatePremultiplied()
	if base.Hash() == build("vs_main", 1, &premul).Hash() {
		t.Error("blend state must affect the hash")
	}
}
