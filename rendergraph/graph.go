package rendergraph

import (
	"fmt"

	"github.com/gogpu/framegraph"
)

// Graph is the compiled, traversable collection of render passes
// reachable from one or more declared roots. The zero value is ready to
// use: Add chains, optionally mark the presentable attachment, then
// Generate once.
type Graph struct {
	// SeparateDepthStencilLayouts selects depth-only and stencil-only
	// optimal layouts when the device supports keeping the two aspects in
	// separate layouts. When false, both fall back to the combined
	// depth/stencil layouts.
	SeparateDepthStencilLayouts bool

	roots   []*RenderPass
	passes  []*RenderPass
	present *Attachment

	traversal int
	generated bool
}

// Add registers a chain of passes. The stream may point anywhere into the
// chain; Add walks back to its source and registers every pass along the
// subsequent pointers. Registering a chain whose source is already in the
// graph panics with a *ContractError (a pass may occur in the graph only
// once); a chain that merges into an already-registered pass stops there.
func (g *Graph) Add(s *Stream) {
	src := s.Source().Owner()
	if src.registered {
		violation(src.name, "", "render pass occurs more than once in the graph")
	}
	g.roots = append(g.roots, src)
	for cur := src; cur != nil; {
		if cur.registered {
			break
		}
		cur.registered = true
		g.passes = append(g.passes, cur)
		if cur.stream.subsequent == nil {
			break
		}
		cur = cur.stream.subsequent.owner
	}
}

// Present marks the swapchain attachment: at generation time the sink
// node storing it is flagged presentable and resolves to LayoutPresent.
func (g *Graph) Present(a *Attachment) {
	g.present = a
}

// Generate compiles the graph: leftover removal marks become don't-care
// nodes, source/sink flags are derived from the edges, and a depth-first
// traversal from the roots resolves every attachment node's load/store
// ops and image layouts. Generate runs once; the resolved graph is
// read-only afterwards.
func (g *Graph) Generate() error {
	if g.generated {
		return ErrAlreadyGenerated
	}
	if len(g.passes) == 0 {
		return ErrEmptyGraph
	}

	// Pick up passes that are reachable through edges but were never part
	// of a registered chain.
	g.traversal++
	for _, root := range g.roots {
		g.visit(root, func(p *RenderPass) error {
			if !p.registered {
				p.registered = true
				g.passes = append(g.passes, p)
			}
			return nil
		})
	}

	for _, p := range g.passes {
		p.loadDontCares()
	}
	g.markSourcesAndSinks()

	g.traversal++
	for _, root := range g.roots {
		if err := g.visit(root, g.resolvePass); err != nil {
			return err
		}
	}

	for _, p := range g.passes {
		p.resolved = true
	}
	g.generated = true
	framegraph.Logger().Info("render graph generated",
		"passes", len(g.passes), "roots", len(g.roots))
	return nil
}

// Generated reports whether Generate has completed successfully.
func (g *Graph) Generated() bool { return g.generated }

// Passes returns the registered passes in registration order.
func (g *Graph) Passes() []*RenderPass {
	out := make([]*RenderPass, len(g.passes))
	copy(out, g.passes)
	return out
}

// visit runs fn over every pass reachable from p, depth first, following
// outgoing edges and the subsequent chain. Each pass is stamped with the
// current traversal id so it is visited at most once even if the edge set
// contains a cycle.
func (g *Graph) visit(p *RenderPass, fn func(*RenderPass) error) error {
	if p.traversalID == g.traversal {
		return nil
	}
	p.traversalID = g.traversal
	if err := fn(p); err != nil {
		return err
	}
	for _, q := range p.outgoing {
		if err := g.visit(q, fn); err != nil {
			return err
		}
	}
	if p.stream.subsequent != nil {
		if err := g.visit(p.stream.subsequent.owner, fn); err != nil {
			return err
		}
	}
	return nil
}

// markSourcesAndSinks derives, for every node, whether this pass
// originates the attachment (no producer among the incoming edges) and
// whether it is the attachment's last stop (stored with no consumer among
// the outgoing edges). The presentable attachment's sink is flagged.
func (g *Graph) markSourcesAndSinks() {
	for _, p := range g.passes {
		for _, n := range p.known {
			n.source = true
			for _, q := range p.incoming {
				if qn, ok := q.findNode(n.att); ok && qn.store {
					n.source = false
					break
				}
			}
			n.sink = false
			if n.store {
				n.sink = true
				for _, q := range p.outgoing {
					if q.IsKnown(n.att) {
						n.sink = false
						break
					}
				}
			}
			if n.sink && g.present != nil && n.att == g.present {
				n.present = true
			}
		}
	}
}

// resolvePass assigns the final description to every node of one pass.
func (g *Graph) resolvePass(p *RenderPass) error {
	for _, n := range p.known {
		// Validate the aspect up front: source and presented-sink nodes
		// resolve their layouts without consulting optimalLayout, and an
		// unsupported image kind must not slip through those paths.
		if _, err := optimalLayout(n, g.SeparateDepthStencilLayouts); err != nil {
			return fmt.Errorf("render pass %q: %w", p.name, err)
		}
		initial, err := g.initialLayout(p, n)
		if err != nil {
			return fmt.Errorf("render pass %q: %w", p.name, err)
		}
		final, err := g.finalLayout(p, n)
		if err != nil {
			return fmt.Errorf("render pass %q: %w", p.name, err)
		}
		n.desc = AttachmentDescription{
			LoadOp:        n.loadOp(),
			StoreOp:       n.storeOp(),
			InitialLayout: initial,
			FinalLayout:   final,
		}
	}
	p.logResolved(framegraph.Logger())
	return nil
}

// initialLayout resolves the layout the attachment is in when the pass
// begins: the upstream producer's final layout, or the attachment's
// declared initial layout when this pass is a graph source for it.
func (g *Graph) initialLayout(p *RenderPass, n *attachmentNode) (ImageLayout, error) {
	if n.source {
		return n.att.kind.InitialLayout, nil
	}
	for _, q := range p.incoming {
		if qn, ok := q.findNode(n.att); ok && qn.store {
			return g.finalLayout(q, qn)
		}
	}
	// Not a source but no direct producer either: the chain was built by
	// hand through edges. Fall back to this pass's optimal layout.
	return optimalLayout(n, g.SeparateDepthStencilLayouts)
}

// finalLayout resolves the layout the attachment is left in after the
// pass. A presentable sink transitions to LayoutPresent; a stored sink
// that is never presented has no defined final layout and is an
// unsupported configuration.
func (g *Graph) finalLayout(p *RenderPass, n *attachmentNode) (ImageLayout, error) {
	if n.sink && n.store {
		if n.present {
			return LayoutPresent, nil
		}
		return LayoutUndefined, fmt.Errorf("%w: attachment %q stored by sink pass %q is never presented",
			ErrUnresolvedFinalLayout, n.att.name, p.name)
	}
	return optimalLayout(n, g.SeparateDepthStencilLayouts)
}
