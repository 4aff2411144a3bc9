// Package graph maintains the referential structure of a diagram: which
// nodes exist, which edges connect them and which edges touch each node.
//
// # Overview
//
// The [Registry] holds three tables kept in step incrementally:
//
//   - nodes: id → *shape.Node
//   - edges: id → *shape.Edge, each knowing its (source, target) pair
//   - adjacency: node id → set of incident edge ids
//
// Edge geometry is never stored. The registry implements [shape.NodeResolver]
// and binds every registered edge to itself, so an edge's path is computed
// from the live nodes on demand.
//
// # Cascades
//
// The registry never cascades. [Registry.UnregisterNode] leaves incident
// edges in place; deleting a node together with its edges is the job of the
// command that orchestrates it, which captures [Registry.EdgeIDsForNode]
// when it is constructed so undo restores exactly that set.
//
// # Parallel edges and self-loops
//
// [Registry.CalculateParallelOffset] hands out perpendicular offsets for
// edges between the same pair of nodes in the sequence 0, +d, −d, +2d, −2d,
// ... taking the first value not already in use. Offsets are compared in a
// canonical frame (the lexicographically smaller id as source) so that A→B
// and B→A edges bow to opposite sides consistently.
//
// [Registry.NextSelfLoopAngle] hands out loop angles on a node: the first
// unused of 270° (top), 0°, 90°, 180°, then the bisectors 315°, 45°, 135°,
// 225°, and so on.
//
// # Notifications
//
// [Registry.UpdateEdgesForNode] publishes [event.ShapeUpdated] for every
// incident edge after a node moves or resizes, so views can redraw them.
//
// # Concurrency
//
// A Registry is not safe for concurrent use. Sessions that share one across
// goroutines must serialise access, as the HTTP server does.
package graph
