// Package document holds the z-ordered list of top-level shapes of one
// drawing and keeps the graph registry in step with it.
//
// Index 0 is the bottom of the stack; the last shape is drawn on top and
// wins hit tests. Inserting a node or edge registers it with the document's
// [graph.Registry]; removing one unregisters it. The registry and event bus
// are passed in explicitly, so several documents can live side by side.
//
// [Document.Snapshot] and [Document.FromSnapshot] convert to and from the
// plain record form used by stores and the HTTP API.
package document
