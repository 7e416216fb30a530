package rendergraph

import (
	"errors"
	"fmt"
)

// Graph resolution errors.
var (
	// ErrAlreadyGenerated is returned when Generate is called twice.
	ErrAlreadyGenerated = errors.New("rendergraph: graph already generated")

	// ErrNotGenerated is returned when resolved output is requested before Generate.
	ErrNotGenerated = errors.New("rendergraph: graph has not been generated")

	// ErrEmptyGraph is returned when Generate is called on a graph with no passes.
	ErrEmptyGraph = errors.New("rendergraph: graph has no render passes")

	// ErrUnsupportedImageKind is returned when an attachment's image kind is
	// outside color/depth/stencil/depth-stencil and no layout rule applies.
	ErrUnsupportedImageKind = errors.New("rendergraph: unsupported image kind")

	// ErrUnresolvedFinalLayout is returned for a stored attachment at a graph
	// sink that is not marked for presentation.
	ErrUnresolvedFinalLayout = errors.New("rendergraph: cannot resolve final layout")

	// ErrMissingView is returned by Descriptor when no texture view was
	// supplied for a resolved attachment.
	ErrMissingView = errors.New("rendergraph: no view supplied for attachment")

	// ErrMultipleDepthStencil is returned by Descriptor when a pass has more
	// than one depth/stencil attachment.
	ErrMultipleDepthStencil = errors.New("rendergraph: more than one depth/stencil attachment")
)

// ContractError reports an illegal graph-building sequence: removing an
// attachment that was already added, re-marking a flag, chaining before
// declaring stores, inserting a pass twice. These are programmer errors in
// wiring the graph, so the marking operations panic with a *ContractError
// instead of returning it.
type ContractError struct {
	// Pass is the render pass being built, if any.
	Pass string

	// Attachment is the attachment involved, if any.
	Attachment string

	// Reason describes the violated contract.
	Reason string
}

func (e *ContractError) Error() string {
	switch {
	case e.Pass != "" && e.Attachment != "":
		return fmt.Sprintf("rendergraph: %s (attachment %q in render pass %q)", e.Reason, e.Attachment, e.Pass)
	case e.Pass != "":
		return fmt.Sprintf("rendergraph: %s (render pass %q)", e.Reason, e.Pass)
	default:
		return "rendergraph: " + e.Reason
	}
}

// violation panics with a ContractError.
func violation(pass, attachment, reason string) {
	panic(&ContractError{Pass: pass, Attachment: attachment, Reason: reason})
}
