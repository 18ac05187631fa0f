package layout

import (
	"reflect"
	"testing"

	"github.com/phallocators/allocviz/pkg/errors"
	"github.com/phallocators/allocviz/pkg/model"
)

func TestAdjacencyGraphTwoBlocks(t *testing.T) {
	in := model.LinkedList{Blocks: []model.Block{
		{ID: 1, Base: 0, Size: 2, Type: model.StateUsed, Next: id(2)},
		{ID: 2, Base: 2, Size: 2, Type: model.StateFree, Prev: id(1)},
	}}
	g, err := AdjacencyGraph(in)
	if err != nil {
		t.Fatalf("AdjacencyGraph() error: %v", err)
	}

	wantNodes := []GraphNode{
		{ID: 1, Base: 0, Size: 2, Type: model.StateUsed},
		{ID: 2, Base: 2, Size: 2, Type: model.StateFree},
	}
	if !reflect.DeepEqual(g.Nodes, wantNodes) {
		t.Errorf("Nodes = %+v, want %+v", g.Nodes, wantNodes)
	}

	var fromOne []GraphEdge
	for _, e := range g.Edges {
		if e.From == 1 {
			fromOne = append(fromOne, e)
		}
	}
	want := []GraphEdge{{From: 1, FromPort: PortNext, To: 2}}
	if !reflect.DeepEqual(fromOne, want) {
		t.Errorf("edges from node 1 = %+v, want %+v", fromOne, want)
	}
	// Every non-null link yields one edge, so node 2's prev link is drawn too.
	if len(g.Edges) != 2 || g.Edges[1] != (GraphEdge{From: 2, FromPort: PortPrev, To: 1}) {
		t.Errorf("Edges = %+v", g.Edges)
	}
}

func TestAdjacencyGraphOrder(t *testing.T) {
	in := alternating()
	g, err := AdjacencyGraph(in)
	if err != nil {
		t.Fatalf("AdjacencyGraph() error: %v", err)
	}
	want := []GraphEdge{
		{From: 10, FromPort: PortNext, To: 11},
		{From: 11, FromPort: PortPrev, To: 10},
		{From: 11, FromPort: PortNext, To: 12},
		{From: 12, FromPort: PortPrev, To: 11},
		{From: 12, FromPort: PortNext, To: 13},
		{From: 13, FromPort: PortPrev, To: 12},
	}
	if !reflect.DeepEqual(g.Edges, want) {
		t.Errorf("Edges = %+v, want %+v", g.Edges, want)
	}
	if n, ok := g.Node(13); !ok || n.Base != 12 {
		t.Errorf("Node(13) = %+v, %t", n, ok)
	}
	if _, ok := g.Node(99); ok {
		t.Error("Node(99) found")
	}
}

func TestAdjacencyGraphChainOrderIndependent(t *testing.T) {
	// Chain order differs from address order.
	in := model.LinkedList{Blocks: []model.Block{
		{ID: 1, Base: 4, Size: 4, Next: id(2)},
		{ID: 2, Base: 0, Size: 4, Type: model.StateUsed, Prev: id(1)},
	}}
	if _, err := AdjacencyGraph(in); err != nil {
		t.Errorf("AdjacencyGraph() error: %v", err)
	}
}

func TestAdjacencyGraphDangling(t *testing.T) {
	in := model.LinkedList{Blocks: []model.Block{{ID: 1, Size: 2, Next: id(7)}}}
	g, err := AdjacencyGraph(in)
	if !errors.Is(err, errors.ErrCodeInvalidReference) {
		t.Fatalf("AdjacencyGraph() error = %v, want INVALID_REFERENCE", err)
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Error("graph returned alongside error")
	}
}
