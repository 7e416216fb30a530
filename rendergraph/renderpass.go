package rendergraph

import "log/slog"

// RenderPass is one GPU rendering step: a graph node owning the set of
// attachment usage nodes for that step, edges to producer and consumer
// passes, and a subsequent-chain pointer for linear composition.
//
// Passes are created once per distinct rendering step and wired into a
// [Graph]; all marking happens before [Graph.Generate].
type RenderPass struct {
	name string

	known    []*attachmentNode // assignment order
	removals []*Attachment     // pending removal set, consumed by the next chained pass

	incoming []*RenderPass
	outgoing []*RenderPass

	stream    Stream
	nextIndex int

	traversalID int
	registered  bool
	resolved    bool
}

// NewRenderPass creates a pass with the given diagnostic name.
func NewRenderPass(name string) *RenderPass {
	p := &RenderPass{name: name}
	p.stream.owner = p
	return p
}

// Name returns the pass's diagnostic name.
func (p *RenderPass) Name() string { return p.name }

// String implements fmt.Stringer.
func (p *RenderPass) String() string { return p.name }

// Stream returns the pass's chaining cursor.
func (p *RenderPass) Stream() *Stream { return &p.stream }

// Apply consumes a Clear, Load or Remove marker, creating or updating the
// attachment's node in this pass. Illegal sequences panic with a
// *ContractError: re-marking a flag already set, marking an attachment
// that was removed, or removing an attachment that was already added.
// Store markers are declared through Stream().Stores, not Apply.
func (p *RenderPass) Apply(m Marker) *RenderPass {
	switch m.op {
	case opClear:
		n := p.getNode(m.att)
		if n.clear {
			violation(p.name, m.att.name, "attachment already marked clear")
		}
		n.clear = true
	case opLoad:
		n := p.getNode(m.att)
		if n.load {
			violation(p.name, m.att.name, "attachment already marked load")
		}
		n.load = true
	case opRemove:
		p.remove(m.att)
	default:
		violation(p.name, m.att.name, "store markers must be passed to Stream().Stores")
	}
	return p
}

// remove adds the attachment to the pending-removal set. The mark causes
// the attachment to not be loaded when the preceding pass stores it, or,
// when it doesn't, degrades to a don't-care load policy.
func (p *RenderPass) remove(att *Attachment) {
	if _, ok := p.findNode(att); ok {
		violation(p.name, att.name, "cannot remove an attachment after first adding it")
	}
	for _, r := range p.removals {
		if r == att {
			violation(p.name, att.name, "cannot remove an attachment twice")
		}
	}
	p.removals = append(p.removals, att)
}

// storeAttachment handles one Stores argument. A clear marker on the
// storing side both clears and stores; a clear that was already declared
// as an input cannot be stored.
func (p *RenderPass) storeAttachment(m Marker) {
	switch m.op {
	case opStore:
		n := p.getNode(m.att)
		if n.clear {
			violation(p.name, m.att.name,
				"attachment already specified as input; put the clear marker in Stores")
		}
		if n.store {
			violation(p.name, m.att.name, "attachment already marked store")
		}
		n.store = true
	case opClear:
		n := p.getNode(m.att)
		if n.store || n.clear {
			violation(p.name, m.att.name, "attachment already marked")
		}
		n.store = true
		n.clear = true
	default:
		violation(p.name, m.att.name, "Stores accepts Store and Clear markers only")
	}
}

// getNode returns the attachment's node, creating it on first reference.
// Adding an attachment that is in the pending-removal set is a contract
// violation.
func (p *RenderPass) getNode(att *Attachment) *attachmentNode {
	if n, ok := p.findNode(att); ok {
		return n
	}
	for _, r := range p.removals {
		if r == att {
			violation(p.name, att.name, "cannot add (load, clear or store) an attachment that is explicitly removed")
		}
	}
	n := &attachmentNode{att: att, index: p.nextIndex}
	p.nextIndex++
	p.known = append(p.known, n)
	return n
}

// findNode looks up the attachment's node. Identity is the Attachment
// pointer itself: ids are context-scoped, so two Contexts hand out the
// same ids and comparing them would conflate unrelated attachments.
func (p *RenderPass) findNode(att *Attachment) (*attachmentNode, bool) {
	for _, n := range p.known {
		if n.att == att {
			return n, true
		}
	}
	return nil, false
}

// precedingStores records that an upstream pass stores the attachment:
// either a pending removal consumes it, or the attachment becomes an
// implicit load in this pass.
func (p *RenderPass) precedingStores(att *Attachment) {
	for i, r := range p.removals {
		if r == att {
			p.removals = append(p.removals[:i], p.removals[i+1:]...)
			return
		}
	}
	p.getNode(att).load = true
}

// loadDontCares converts removals that were never matched by an upstream
// store into explicit don't-care nodes.
func (p *RenderPass) loadDontCares() {
	pending := p.removals
	p.removals = nil
	for _, att := range pending {
		p.getNode(att)
	}
}

// IsKnown reports whether the pass references the attachment at all.
func (p *RenderPass) IsKnown(a *Attachment) bool {
	_, ok := p.findNode(a)
	return ok
}

// IsLoad reports whether the attachment is marked load in this pass.
func (p *RenderPass) IsLoad(a *Attachment) bool {
	n, ok := p.findNode(a)
	return ok && n.load
}

// IsClear reports whether the attachment is marked clear in this pass.
func (p *RenderPass) IsClear(a *Attachment) bool {
	n, ok := p.findNode(a)
	return ok && n.clear
}

// IsStore reports whether the attachment is marked store in this pass.
func (p *RenderPass) IsStore(a *Attachment) bool {
	n, ok := p.findNode(a)
	return ok && n.store
}

// LoadOpOf returns the resolved load op, or LoadOpNone when the pass does
// not reference the attachment.
func (p *RenderPass) LoadOpOf(a *Attachment) AttachmentLoadOp {
	n, ok := p.findNode(a)
	if !ok {
		return LoadOpNone
	}
	return n.loadOp()
}

// StoreOpOf returns the resolved store op, or StoreOpNone when the pass
// does not reference the attachment.
func (p *RenderPass) StoreOpOf(a *Attachment) AttachmentStoreOp {
	n, ok := p.findNode(a)
	if !ok {
		return StoreOpNone
	}
	return n.storeOp()
}

// Description returns the fully resolved description for the attachment.
// The second result is false when the pass does not reference the
// attachment or the graph has not been generated.
func (p *RenderPass) Description(a *Attachment) (AttachmentDescription, bool) {
	if !p.resolved {
		return AttachmentDescription{}, false
	}
	n, ok := p.findNode(a)
	if !ok {
		return AttachmentDescription{}, false
	}
	return n.desc, true
}

// Attachments returns the attachments this pass references, in assignment
// order.
func (p *RenderPass) Attachments() []*Attachment {
	atts := make([]*Attachment, len(p.known))
	for i, n := range p.known {
		atts[i] = n.att
	}
	return atts
}

// logResolved emits one debug record per resolved node.
func (p *RenderPass) logResolved(log *slog.Logger) {
	for _, n := range p.known {
		log.Debug("resolved attachment",
			"pass", p.name,
			"attachment", n.att.String(),
			"load", n.desc.LoadOp.String(),
			"store", n.desc.StoreOp.String(),
			"initial", n.desc.InitialLayout.String(),
			"final", n.desc.FinalLayout.String(),
		)
	}
}
