package rendergraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AttachmentLoadOp is the resolved policy for an attachment's contents at
// the start of a pass.
type AttachmentLoadOp int

const (
	// LoadOpNone means the pass does not touch the attachment at all.
	LoadOpNone AttachmentLoadOp = iota

	// LoadOpLoad preserves the contents produced by an upstream pass.
	LoadOpLoad

	// LoadOpClear initializes the attachment to its clear value.
	LoadOpClear

	// LoadOpDontCare leaves the initial contents undefined.
	LoadOpDontCare
)

// String returns the string representation of the load op.
func (op AttachmentLoadOp) String() string {
	switch op {
	case LoadOpNone:
		return "None"
	case LoadOpLoad:
		return "Load"
	case LoadOpClear:
		return "Clear"
	case LoadOpDontCare:
		return "DontCare"
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

// GPU converts the resolved op to the gputypes vocabulary used by render
// pass descriptors. WebGPU has no don't-care load: undefined contents must
// be cleared, so everything except Load maps to Clear.
func (op AttachmentLoadOp) GPU() gputypes.LoadOp {
	if op == LoadOpLoad {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// AttachmentStoreOp is the resolved policy for an attachment's contents at
// the end of a pass.
type AttachmentStoreOp int

const (
	// StoreOpNone means the pass does not touch the attachment at all.
	StoreOpNone AttachmentStoreOp = iota

	// StoreOpStore persists the contents for downstream consumers.
	StoreOpStore

	// StoreOpDontCare allows the contents to be discarded after the pass.
	StoreOpDontCare
)

// String returns the string representation of the store op.
func (op AttachmentStoreOp) String() string {
	switch op {
	case StoreOpNone:
		return "None"
	case StoreOpStore:
		return "Store"
	case StoreOpDontCare:
		return "DontCare"
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

// GPU converts the resolved op to the gputypes vocabulary. Don't-care maps
// to Discard.
func (op AttachmentStoreOp) GPU() gputypes.StoreOp {
	if op == StoreOpStore {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

// ImageLayout describes how an attachment's image memory is organized at a
// pass boundary. WebGPU drivers manage layouts implicitly, but the graph
// compiler still resolves them explicitly so Vulkan-level backends can
// build their barriers and pass descriptions from the same output.
type ImageLayout int

const (
	// LayoutUndefined means the previous contents need not be preserved.
	LayoutUndefined ImageLayout = iota

	// LayoutColorAttachment is optimal for color rendering.
	LayoutColorAttachment

	// LayoutDepthStencilAttachment is optimal for depth/stencil writes.
	LayoutDepthStencilAttachment

	// LayoutDepthStencilReadOnly is optimal for preserved depth/stencil reads.
	LayoutDepthStencilReadOnly

	// LayoutDepthAttachment is optimal for depth-only writes.
	LayoutDepthAttachment

	// LayoutDepthReadOnly is optimal for preserved depth-only reads.
	LayoutDepthReadOnly

	// LayoutStencilAttachment is optimal for stencil-only writes.
	LayoutStencilAttachment

	// LayoutStencilReadOnly is optimal for preserved stencil-only reads.
	LayoutStencilReadOnly

	// LayoutPresent is the layout handed to the display subsystem.
	LayoutPresent

	// LayoutGeneral is the generic fallback layout.
	LayoutGeneral
)

// String returns the string representation of the layout.
func (l ImageLayout) String() string {
	switch l {
	case LayoutUndefined:
		return "Undefined"
	case LayoutColorAttachment:
		return "ColorAttachment"
	case LayoutDepthStencilAttachment:
		return "DepthStencilAttachment"
	case LayoutDepthStencilReadOnly:
		return "DepthStencilReadOnly"
	case LayoutDepthAttachment:
		return "DepthAttachment"
	case LayoutDepthReadOnly:
		return "DepthReadOnly"
	case LayoutStencilAttachment:
		return "StencilAttachment"
	case LayoutStencilReadOnly:
		return "StencilReadOnly"
	case LayoutPresent:
		return "Present"
	case LayoutGeneral:
		return "General"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// Aspect classifies what an attachment's image holds.
type Aspect int

const (
	// AspectUnknown is the zero value; resolving it is a configuration error.
	AspectUnknown Aspect = iota

	// AspectColor holds color data.
	AspectColor

	// AspectDepth holds depth data only.
	AspectDepth

	// AspectStencil holds stencil data only.
	AspectStencil

	// AspectDepthStencil holds combined depth and stencil data.
	AspectDepthStencil
)

// String returns the string representation of the aspect.
func (a Aspect) String() string {
	switch a {
	case AspectColor:
		return "Color"
	case AspectDepth:
		return "Depth"
	case AspectStencil:
		return "Stencil"
	case AspectDepthStencil:
		return "DepthStencil"
	default:
		return "Unknown"
	}
}

// optimalLayout resolves the layout an attachment should be in while the
// pass renders to it. Preserved (read-only) nodes get the read-only
// variant. When the device cannot keep depth and stencil in separate
// layouts, depth-only and stencil-only kinds fall back to the combined
// layout.
func optimalLayout(node *attachmentNode, separateDepthStencil bool) (ImageLayout, error) {
	aspect := node.att.kind.Aspect
	readOnly := node.preserve
	switch aspect {
	case AspectColor:
		return LayoutColorAttachment, nil
	case AspectDepthStencil:
		if readOnly {
			return LayoutDepthStencilReadOnly, nil
		}
		return LayoutDepthStencilAttachment, nil
	case AspectDepth:
		if !separateDepthStencil {
			if readOnly {
				return LayoutDepthStencilReadOnly, nil
			}
			return LayoutDepthStencilAttachment, nil
		}
		if readOnly {
			return LayoutDepthReadOnly, nil
		}
		return LayoutDepthAttachment, nil
	case AspectStencil:
		if !separateDepthStencil {
			if readOnly {
				return LayoutDepthStencilReadOnly, nil
			}
			return LayoutDepthStencilAttachment, nil
		}
		if readOnly {
			return LayoutStencilReadOnly, nil
		}
		return LayoutStencilAttachment, nil
	default:
		return LayoutGeneral, fmt.Errorf("%w: attachment %q has aspect %v",
			ErrUnsupportedImageKind, node.att.name, aspect)
	}
}
