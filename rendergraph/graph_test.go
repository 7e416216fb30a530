package rendergraph

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestChainedStoresBecomeLoads(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")
	y := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "y")

	a := NewRenderPass("a")
	b := NewRenderPass("b")
	a.Stream().Stores(Store(x), Store(y)).Then(b.Stream().Stores(Store(x)))

	if !b.IsLoad(x) {
		t.Error("stored attachment x must be implicitly loaded by the successor")
	}
	if !b.IsLoad(y) {
		t.Error("stored attachment y must be implicitly loaded by the successor")
	}
}

func TestRemovalConsumedByChain(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")
	y := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "y")

	a := NewRenderPass("a")
	b := NewRenderPass("b")
	b.Apply(Remove(x))
	a.Stream().Stores(Store(x), Store(y)).Then(b.Stream().Stores(Store(y)))

	if b.IsKnown(x) {
		t.Error("removed attachment must be absent from the successor, not loaded")
	}
	if !b.IsLoad(y) {
		t.Error("non-removed stored attachment must still be loaded")
	}
}

func TestUnmatchedRemovalBecomesDontCare(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")
	y := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "y")

	a := NewRenderPass("a")
	b := NewRenderPass("b")
	b.Apply(Remove(y)) // nothing upstream stores y
	chain := a.Stream().Stores(Store(x)).Then(b.Stream().Stores(Store(x)))

	var g Graph
	g.Add(chain)
	g.Present(x)
	if err := g.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !b.IsKnown(y) {
		t.Fatal("unmatched removal must degrade to a known don't-care node")
	}
	if op := b.LoadOpOf(y); op != LoadOpDontCare {
		t.Errorf("unmatched removal: load op = %v, want DontCare", op)
	}
	if op := b.StoreOpOf(y); op != StoreOpDontCare {
		t.Errorf("unmatched removal: store op = %v, want DontCare", op)
	}
}

func TestDuplicateChainInsertionPanics(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")

	a := NewRenderPass("a")
	chain := a.Stream().Stores(Store(x))

	var g Graph
	g.Add(chain)
	expectViolation(t, "more than once", func() {
		g.Add(chain)
	})
}

func TestGenerateTwiceFails(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")

	a := NewRenderPass("a")
	var g Graph
	g.Add(a.Stream().Stores(Store(x)))
	g.Present(x)
	if err := g.Generate(); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if err := g.Generate(); !errors.Is(err, ErrAlreadyGenerated) {
		t.Fatalf("second Generate: err = %v, want ErrAlreadyGenerated", err)
	}
}

func TestGenerateEmptyGraphFails(t *testing.T) {
	var g Graph
	if err := g.Generate(); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("err = %v, want ErrEmptyGraph", err)
	}
}

// The canonical two-pass scenario: a main pass clearing depth and
// clear-storing color, chained into an overlay pass that keeps storing
// color for presentation.
func TestMainOverlayScenario(t *testing.T) {
	var ctx Context
	depth := ctx.NewAttachment(DepthStencilKind(gputypes.TextureFormatDepth24PlusStencil8), "depth")
	color := ctx.NewAttachment(ColorKind(gputypes.TextureFormatBGRA8Unorm), "color")

	main := NewRenderPass("main")
	overlay := NewRenderPass("overlay")

	var g Graph
	g.Add(main.Apply(Clear(depth)).Stream().
		Stores(Clear(color)).
		Then(overlay.Stream().Stores(Store(color))))
	g.Present(color)

	if err := g.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	dd, ok := main.Description(depth)
	if !ok {
		t.Fatal("main has no description for depth")
	}
	if dd.LoadOp != LoadOpClear || dd.StoreOp != StoreOpDontCare {
		t.Errorf("depth in main = {%v, %v}, want {Clear, DontCare}", dd.LoadOp, dd.StoreOp)
	}
	if dd.FinalLayout != LayoutDepthStencilAttachment {
		t.Errorf("depth final layout = %v, want DepthStencilAttachment", dd.FinalLayout)
	}

	mc, ok := main.Description(color)
	if !ok {
		t.Fatal("main has no description for color")
	}
	if mc.LoadOp != LoadOpClear || mc.StoreOp != StoreOpStore {
		t.Errorf("color in main = {%v, %v}, want {Clear, Store}", mc.LoadOp, mc.StoreOp)
	}
	if mc.InitialLayout != LayoutUndefined {
		t.Errorf("color initial layout in main = %v, want Undefined", mc.InitialLayout)
	}
	if mc.FinalLayout != LayoutColorAttachment {
		t.Errorf("color final layout in main = %v, want ColorAttachment", mc.FinalLayout)
	}

	oc, ok := overlay.Description(color)
	if !ok {
		t.Fatal("overlay has no description for color")
	}
	if oc.LoadOp != LoadOpLoad || oc.StoreOp != StoreOpStore {
		t.Errorf("color in overlay = {%v, %v}, want {Load, Store}", oc.LoadOp, oc.StoreOp)
	}
	if oc.InitialLayout != LayoutColorAttachment {
		t.Errorf("color initial layout in overlay = %v, want ColorAttachment (upstream final)", oc.InitialLayout)
	}
	if oc.FinalLayout != LayoutPresent {
		t.Errorf("color final layout in overlay = %v, want Present", oc.FinalLayout)
	}

	if depthDesc, ok := overlay.Description(depth); ok {
		t.Errorf("overlay must not know depth, got %+v", depthDesc)
	}
}

func TestUnsupportedImageKind(t *testing.T) {
	var ctx Context
	weird := ctx.NewAttachment(ImageKind{Format: gputypes.TextureFormatRGBA8Unorm}, "weird")

	pass := NewRenderPass("pass")
	var g Graph
	g.Add(pass.Stream().Stores(Store(weird)))
	g.Present(weird)
	if err := g.Generate(); !errors.Is(err, ErrUnsupportedImageKind) {
		t.Fatalf("err = %v, want ErrUnsupportedImageKind", err)
	}
}

func TestUnpresentedSinkFails(t *testing.T) {
	var ctx Context
	x := ctx.NewAttachment(ColorKind(gputypes.TextureFormatRGBA8Unorm), "x")

	pass := NewRenderPass("pass")
	var g Graph
	g.Add(pass.Stream().Stores(Store(x)))
	// No Present call: the stored sink has no defined final layout.
	if err := g.Generate(); !errors.Is(err, ErrUnresolvedFinalLayout) {
		t.Fatalf("err = %v, want ErrUnresolvedFinalLayout", err)
	}
}

func TestSeparateDepthStencilLayouts(t *testing.T) {
	var ctx Context
	depth := ctx.NewAttachment(DepthKind(gputypes.TextureFormatDepth24PlusStencil8), "depth")
	color := ctx.NewAttachment(ColorKind(gputypes.TextureFormatBGRA8Unorm), "color")

	build := func(separate bool) ImageLayout {
		main := NewRenderPass("main")
		g := Graph{SeparateDepthStencilLayouts: separate}
		main.Apply(Clear(depth))
		g.Add(main.Stream().Stores(Store(color)))
		g.Present(color)
		if err := g.Generate(); err != nil {
			t.Fatalf("Generate(separate=%v): %v", separate, err)
		}
		d, ok := main.Description(depth)
		if !ok {
			t.Fatal("no depth description")
		}
		return d.FinalLayout
	}

	if l := build(false); l != LayoutDepthStencilAttachment {
		t.Errorf("combined: final layout = %v, want DepthStencilAttachment", l)
	}
	if l := build(true); l != LayoutDepthAttachment {
		t.Errorf("separate: final layout = %v, want DepthAttachment", l)
	}
}

func TestDescriptorOutput(t *testing.T) {
	var ctx Context
	depth := ctx.NewAttachment(DepthStencilKind(gputypes.TextureFormatDepth24PlusStencil8), "depth")
	color := ctx.NewAttachment(ColorKind(gputypes.TextureFormatBGRA8Unorm), "color")

	main := NewRenderPass("main")
	var g Graph
	main.Apply(Clear(depth))
	g.Add(main.Stream().Stores(Clear(color)))
	g.Present(color)
	if err := g.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	views := AttachmentViews{depth: nil, color: nil}
	desc, err := main.Descriptor(views)
	if err != nil {
		t.Fatalf("Descriptor: %v", err)
	}
	if desc.Label != "main" {
		t.Errorf("label = %q, want main", desc.Label)
	}
	if len(desc.ColorAttachments) != 1 {
		t.Fatalf("color attachments = %d, want 1", len(desc.ColorAttachments))
	}
	ca := desc.ColorAttachments[0]
	if ca.LoadOp != gputypes.LoadOpClear || ca.StoreOp != gputypes.StoreOpStore {
		t.Errorf("color ops = {%v, %v}, want {Clear, Store}", ca.LoadOp, ca.StoreOp)
	}
	if desc.DepthStencilAttachment == nil {
		t.Fatal("missing depth/stencil attachment")
	}
	if desc.DepthStencilAttachment.DepthStoreOp != gputypes.StoreOpDiscard {
		t.Errorf("depth store op = %v, want Discard", desc.DepthStencilAttachment.DepthStoreOp)
	}
}

func TestDescriptorMissingView(t *testing.T) {
	var ctx Context
	color := ctx.NewAttachment(ColorKind(gputypes.TextureFormatBGRA8Unorm), "color")

	main := NewRenderPass("main")
	var g Graph
	g.Add(main.Stream().Stores(Store(color)))
	g.Present(color)
	if err := g.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := main.Descriptor(AttachmentViews{}); !errors.Is(err, ErrMissingView) {
		t.Fatalf("err = %v, want ErrMissingView", err)
	}
}

func TestDescriptorBeforeGenerate(t *testing.T) {
	pass := NewRenderPass("pass")
	if _, err := pass.Descriptor(AttachmentViews{}); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("err = %v, want ErrNotGenerated", err)
	}
}
