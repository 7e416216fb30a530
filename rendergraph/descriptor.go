package rendergraph

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// AttachmentViews maps attachments to the texture views backing them for
// one frame. The window/presentation layer owns the views; the graph only
// resolves how they are used.
type AttachmentViews map[*Attachment]hal.TextureView

// Descriptor builds a hal.RenderPassDescriptor for the pass from its
// resolved attachment descriptions. Color attachments appear in
// assignment order; at most one depth/stencil attachment is allowed.
//
// Descriptor fails if the graph has not been generated or a referenced
// attachment has no view in views.
func (p *RenderPass) Descriptor(views AttachmentViews) (*hal.RenderPassDescriptor, error) {
	if !p.resolved {
		return nil, ErrNotGenerated
	}

	desc := &hal.RenderPassDescriptor{Label: p.name}
	for _, n := range p.known {
		view, ok := views[n.att]
		if !ok {
			return nil, fmt.Errorf("%w: %q in render pass %q", ErrMissingView, n.att.name, p.name)
		}
		kind := n.att.kind
		if kind.Aspect == AspectColor {
			desc.ColorAttachments = append(desc.ColorAttachments, hal.RenderPassColorAttachment{
				View:       view,
				LoadOp:     n.desc.LoadOp.GPU(),
				StoreOp:    n.desc.StoreOp.GPU(),
				ClearValue: kind.ClearValue,
			})
			continue
		}
		if desc.DepthStencilAttachment != nil {
			return nil, fmt.Errorf("%w: render pass %q", ErrMultipleDepthStencil, p.name)
		}
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       n.desc.LoadOp.GPU(),
			DepthStoreOp:      n.desc.StoreOp.GPU(),
			DepthClearValue:   kind.DepthClear,
			StencilLoadOp:     n.desc.LoadOp.GPU(),
			StencilStoreOp:    n.desc.StoreOp.GPU(),
			StencilClearValue: kind.StencilClear,
		}
	}
	return desc, nil
}
