package rendergraph

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ImageKind is the static description of the image backing an attachment.
type ImageKind struct {
	// Format is the texture format of the attachment.
	Format gputypes.TextureFormat

	// Usage is the texture usage the attachment's image is created with.
	Usage gputypes.TextureUsage

	// Aspect classifies the attachment for layout resolution.
	Aspect Aspect

	// InitialLayout is the layout the image is in when the graph first
	// touches it (relevant only for graph-source loads).
	InitialLayout ImageLayout

	// ClearValue is the color used when a color attachment is cleared.
	ClearValue gputypes.Color

	// DepthClear and StencilClear are used when a depth/stencil attachment
	// is cleared.
	DepthClear   float32
	StencilClear uint32
}

// ColorKind describes a color render target of the given format.
func ColorKind(format gputypes.TextureFormat) ImageKind {
	return ImageKind{
		Format: format,
		Usage:  gputypes.TextureUsageRenderAttachment,
		Aspect: AspectColor,
	}
}

// DepthKind describes a depth-only render target of the given format.
func DepthKind(format gputypes.TextureFormat) ImageKind {
	return ImageKind{
		Format:     format,
		Usage:      gputypes.TextureUsageRenderAttachment,
		Aspect:     AspectDepth,
		DepthClear: 1.0,
	}
}

// StencilKind describes a stencil-only render target of the given format.
func StencilKind(format gputypes.TextureFormat) ImageKind {
	return ImageKind{
		Format: format,
		Usage:  gputypes.TextureUsageRenderAttachment,
		Aspect: AspectStencil,
	}
}

// DepthStencilKind describes a combined depth/stencil render target.
func DepthStencilKind(format gputypes.TextureFormat) ImageKind {
	return ImageKind{
		Format:     format,
		Usage:      gputypes.TextureUsageRenderAttachment,
		Aspect:     AspectDepthStencil,
		DepthClear: 1.0,
	}
}

// Context allocates attachment ids. Ids are unique within one Context
// and appear in diagnostics; passes identify attachments by pointer, so
// ids from different Contexts never conflate. The zero value is ready
// to use.
//
// A Context is typically owned by whichever object declares the render
// graph (a window) and outlives every pass that references its
// attachments.
type Context struct {
	nextID int
}

// NewAttachment declares an attachment with the next free id. The name is
// used in diagnostics only.
func (c *Context) NewAttachment(kind ImageKind, name string) *Attachment {
	a := &Attachment{kind: kind, id: c.nextID, name: name}
	c.nextID++
	return a
}

// Attachment is a unique, immutable description of one render target slot
// shared across passes. Identity is the Attachment value itself; per-pass
// usage state lives in the passes, never on the Attachment itself.
type Attachment struct {
	kind ImageKind
	id   int
	name string
}

// Kind returns the attachment's image kind.
func (a *Attachment) Kind() ImageKind { return a.kind }

// ID returns the context-scoped id.
func (a *Attachment) ID() int { return a.id }

// Name returns the human-readable name, e.g. "depth" or "output".
func (a *Attachment) Name() string { return a.name }

// String implements fmt.Stringer.
func (a *Attachment) String() string {
	return fmt.Sprintf("%s#%d", a.name, a.id)
}

// markOp distinguishes the attachment markers.
type markOp int

const (
	opClear markOp = iota
	opLoad
	opRemove
	opStore
)

// Marker is a tagged attachment reference consumed by [RenderPass.Apply]
// and [Stream.Stores].
type Marker struct {
	att *Attachment
	op  markOp
}

// Clear marks an attachment to be cleared. Applied to a pass it declares a
// cleared input; passed to Stores it declares a cleared output.
func Clear(a *Attachment) Marker { return Marker{att: a, op: opClear} }

// Load marks an attachment to be explicitly loaded by a pass.
func Load(a *Attachment) Marker { return Marker{att: a, op: opLoad} }

// Remove marks an attachment for exclusion from the next chained pass; if
// no chained pass stores it, the mark degrades to a don't-care load.
func Remove(a *Attachment) Marker { return Marker{att: a, op: opRemove} }

// Store marks an attachment as written by a pass. Only [Stream.Stores]
// accepts it.
func Store(a *Attachment) Marker { return Marker{att: a, op: opStore} }
