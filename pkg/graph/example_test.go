package graph_test

import (
	"fmt"

	"github.com/matzehuels/drawgraph/pkg/graph"
	"github.com/matzehuels/drawgraph/pkg/shape"
)

func ExampleRegistry_CalculateParallelOffset() {
	r := graph.New(graph.Options{ParallelSpacing: 25})
	a := shape.NewNode(0, 0, 20, "A")
	b := shape.NewNode(100, 0, 20, "B")
	r.RegisterNode(a)
	r.RegisterNode(b)

	for range 3 {
		e := shape.NewEdge(a.ID(), b.ID(), nil)
		e.SetCurveOffset(r.CalculateParallelOffset(a.ID(), b.ID()))
		r.RegisterEdge(e)
	}
	fmt.Println(len(r.EdgeIDsForNode(a.ID())), r.CalculateParallelOffset(a.ID(), b.ID()) != 0)
	// Output: 3 true
}

func ExampleRegistry_NextSelfLoopAngle() {
	r := graph.New(graph.Options{})
	n := shape.NewNode(0, 0, 20, "A")
	r.RegisterNode(n)

	for range 5 {
		loop := shape.NewEdge(n.ID(), n.ID(), nil)
		loop.SetSelfLoopAngle(r.NextSelfLoopAngle(n.ID()))
		r.RegisterEdge(loop)
		fmt.Println(loop.SelfLoopAngle())
	}
	// Output:
	// 270
	// 0
	// 90
	// 180
	// 315
}
