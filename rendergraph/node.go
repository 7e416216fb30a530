package rendergraph

// AttachmentDescription is the resolved per-(pass, attachment) tuple
// needed to build the underlying pass description.
type AttachmentDescription struct {
	LoadOp        AttachmentLoadOp
	StoreOp       AttachmentStoreOp
	InitialLayout ImageLayout
	FinalLayout   ImageLayout
}

// attachmentNode tracks how one attachment is used within one pass.
// Nodes are created lazily on first reference and never shared between
// passes; cross-pass information flows through edges.
type attachmentNode struct {
	att   *Attachment
	index int // assignment order, stable sort key

	load     bool
	clear    bool
	store    bool
	preserve bool
	source   bool
	sink     bool
	present  bool

	desc AttachmentDescription
}

// loadOp resolves the node's load policy: explicit load wins over clear,
// anything else is don't-care.
func (n *attachmentNode) loadOp() AttachmentLoadOp {
	switch {
	case n.load:
		return LoadOpLoad
	case n.clear:
		return LoadOpClear
	default:
		return LoadOpDontCare
	}
}

// storeOp resolves the node's store policy.
func (n *attachmentNode) storeOp() AttachmentStoreOp {
	if n.store || n.preserve {
		return StoreOpStore
	}
	return StoreOpDontCare
}
