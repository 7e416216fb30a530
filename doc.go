// Package framegraph compiles declarative render graphs and generates
// combinatorial pipeline variants for the GoGPU ecosystem.
//
// # Overview
//
// framegraph has two independent subsystems:
//
//   - Package rendergraph resolves a composable description of render
//     passes and attachments into concrete load/store/clear operations and
//     image-layout transitions. A window declares its attachments once,
//     wires them into passes with Clear/Load/Remove markers and the
//     Stores/Then chaining operators, then calls Generate to compile the
//     graph.
//
//   - Package pipeline enumerates the Cartesian product of independently
//     varying pipeline "characteristics" (shader permutations, blend
//     modes, vertex layouts) without blocking the thread that issues GPU
//     work. The factory runs as a cooperative task, producing one pipeline
//     per scheduling turn and reporting each completion through a watcher
//     so the owner can start rendering before the whole product is done.
//
// Package task supplies the cooperative yield/resume runner both
// subsystems are scheduled on.
//
// # Quick Start
//
//	var gctx rendergraph.Context
//	depth := gctx.NewAttachment(rendergraph.DepthStencilKind(gputypes.TextureFormatDepth24PlusStencil8), "depth")
//	color := gctx.NewAttachment(rendergraph.ColorKind(gputypes.TextureFormatBGRA8Unorm), "color")
//
//	main := rendergraph.NewRenderPass("main")
//	overlay := rendergraph.NewRenderPass("overlay")
//
//	var graph rendergraph.Graph
//	graph.Add(main.Apply(rendergraph.Clear(depth)).Stream().
//		Stores(rendergraph.Clear(color)).
//		Then(overlay.Stream().Stores(rendergraph.Store(color))))
//	graph.Present(color)
//	if err := graph.Generate(); err != nil {
//		// unsupported configuration
//	}
//
// # Device Sharing
//
// framegraph receives its GPU device from the host application, it does
// not create one. Hosts that expose a gpucontext.DeviceProvider with HAL
// access can be bridged with FromDeviceProvider.
//
// # Logging
//
// framegraph produces no log output by default. Call SetLogger to enable
// structured logging for all subsystems.
package framegraph
