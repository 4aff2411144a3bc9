// Package pkg provides the libraries behind drawgraph, a 2-D drawing editor
// core with a node-edge diagram mode.
//
// # Overview
//
// A drawing is an ordered list of vector shapes. Graph nodes and edges live
// in the same list, but edge geometry is never stored: it is derived from
// the current node positions every time it is needed. Every change goes
// through an undoable command.
//
// The packages build on each other bottom-up:
//
//  1. [geom] - points, bounds, rotation, affine matrices, Bézier sampling
//  2. [shape] - the closed set of shape variants with hit testing and
//     transforms, plus the record form used for persistence
//  3. [route] - the one routing function shared by hit testing and drawing
//     of edges (straight, curved parallel, self-loop)
//  4. [graph] - the node/edge registry with parallel offsets and self-loop
//     angles
//  5. [document], [history], [command] - the z-ordered shape list, the
//     bounded undo/redo stacks and the commands that mutate both
//  6. [editor] - a session façade tying the above to [config] and [event]
//  7. [layout], [store], [api] - automatic node placement with Graphviz,
//     document snapshots in files, Redis or MongoDB, and an HTTP surface
//
// # Quick Start
//
//	ed := editor.New(editor.Options{})
//	a, _ := ed.AddNode(100, 100, 30, "A")
//	b, _ := ed.AddNode(300, 100, 30, "B")
//	ed.AddEdge(a, b, shape.DirectionForward)
//	ed.Move([]string{a}, 0, 50) // the edge follows
//	ed.Undo()                   // and returns exactly
//
// Errors carry a code from [errors]; see [errors.GetCode].
package pkg
