// Package stitch reconstructs a meaningful execution history for errors
// raised inside asynchronous callback chains, where the native stack at
// the point of failure only shows the immediate scheduling mechanism.
//
// # Usage
//
// Wrap a callback before handing it to a scheduler, and construct (or
// augment) errors through the same Tracer:
//
//	tr := stitch.NewTracer(stitch.Config{})
//	loop.After(10, tr.Wrap(func() {
//		err = tr.New("worker exploded")
//	}))
//
// Invoking the wrapped callback re-establishes the continuation captured
// at wrap time; errors constructed while it runs carry the full stitched
// history: their own frames, a via marker, the frames of the code that
// scheduled them, and so on up the chain.
//
// # Shapes
//
// Rendering supports three shapes:
//
//   - ShapeNormal: a single flat trace, native two-line frame layout
//   - ShapeTree: indented per hop, branch-aware (see Tracer.MergeTree)
//   - ShapeContinuable: structured segments via (*Error).Trace
//
// # Continuations
//
// Each wrap event records a node holding the frames captured at wrap
// time and a reference to the continuation active when the wrap
// occurred. Several wraps made from the same continuation share one
// parent, so the store is a tree, not a list; Tracer.MergeTree renders
// such fan-out under a single shared ancestor.
//
// # Degradation
//
// Stack introspection failing, a broken chain, or any fault inside the
// render path never masks the original error: the engine falls back to
// the best available partial trace, down to the bare message.
package stitch
