package rendergraph

// Stream is a thin cursor over a RenderPass used for composition. It
// enforces the rule that stores are declared before chaining: Then may
// only be called on a stream whose Stores has run at least once.
type Stream struct {
	owner *RenderPass

	// prev points to the stream whose stores feed this pass.
	prev *Stream

	// subsequent is the next pass in the linear chain.
	subsequent *Stream

	storesDeclared bool
}

// Owner returns the pass this stream belongs to.
func (s *Stream) Owner() *RenderPass { return s.owner }

// Stores declares the attachments written by the pass. Arguments are
// Store markers for plain stores and Clear markers for cleared stores.
func (s *Stream) Stores(markers ...Marker) *Stream {
	for _, m := range markers {
		s.owner.storeAttachment(m)
	}
	s.storesDeclared = true
	return s
}

// Then chains this pass into a successor: every attachment this pass
// stores is implicitly loaded by the successor unless the successor's
// pending-removal set consumes it. Then returns the successor's stream so
// chains compose left to right.
//
// Calling Then before Stores, or chaining a pass to itself, panics with a
// *ContractError.
func (s *Stream) Then(next *Stream) *Stream {
	if !s.storesDeclared {
		violation(s.owner.name, "", "Then called before Stores")
	}
	if next.owner == s.owner {
		violation(s.owner.name, "", "cannot chain a render pass to itself")
	}
	for _, n := range s.owner.known {
		if n.store {
			next.owner.precedingStores(n.att)
		}
	}
	s.owner.outgoing = append(s.owner.outgoing, next.owner)
	next.owner.incoming = append(next.owner.incoming, s.owner)
	next.prev = s
	s.subsequent = next
	return next
}

// Source walks the chain back to its first pass.
func (s *Stream) Source() *Stream {
	src := s
	for src.prev != nil {
		src = src.prev
	}
	return src
}
