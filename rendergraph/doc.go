// Package rendergraph compiles a declarative, composable description of
// render passes and attachments into concrete load/store/clear operations
// and image-layout transitions.
//
// A window declares its attachments once per [Context], marks how each
// pass touches them with [Clear], [Load] and [Remove] markers, declares
// outputs with [Stream.Stores], and composes producer/consumer passes
// with [Stream.Then]. [Graph.Generate] then resolves, for every
// (pass, attachment) pair, the final [AttachmentDescription]:
//
//	{load-op, store-op, initial layout, final layout}
//
// The graph is build-time configuration, not steady-state data: illegal
// marking sequences (removing a known attachment, re-marking a flag,
// storing an attachment declared as cleared input) are programmer errors
// and panic immediately with a *ContractError. Unsupported configurations
// that can only be detected during resolution (an image kind outside
// color/depth/stencil/depth-stencil, a stored sink that is never
// presented) are reported as errors by Generate.
//
// Graph construction is single-threaded; the resolved graph is read-only
// thereafter and safe for concurrent readers.
package rendergraph
