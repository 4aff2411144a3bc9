// Package layout computes automatic node placement for diagrams.
//
// A [Layouter] maps an [Input] graph of sized nodes and edges to node
// centers. The result is applied through the undoable command.Layout, which
// re-routes incident edges, so a layout is one history entry.
//
// # Engines
//
// [Graphviz] runs a Graphviz engine (neato by default) in-process via
// [github.com/goccy/go-graphviz]: the graph is written as DOT, laid out, and
// the node positions are read back from the DOT output. [Circle] is a
// deterministic fallback that needs no external engine.
//
//	l, err := layout.New("neato", layout.Options{})
//	centers, err := l.Layout(ctx, layout.FromDocument(doc))
package layout
