package layout

import "github.com/phallocators/allocviz/pkg/model"

// Port names one side of a graph node record.
type Port string

const (
	PortPrev Port = "prev"
	PortNext Port = "next"
)

// GraphNode is one block of the adjacency diagram.
type GraphNode struct {
	ID   uint64      `json:"id"`
	Base int         `json:"base"`
	Size int         `json:"size"`
	Type model.State `json:"type"`
}

// GraphEdge points from a port of node From to node To.
type GraphEdge struct {
	From     uint64 `json:"from"`
	FromPort Port   `json:"from_port"`
	To       uint64 `json:"to"`
}

// Graph is the node/edge structure of a linked-list snapshot. It carries no
// positions; a graph backend places the nodes.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// AdjacencyGraph builds one node per block and one edge per non-null link,
// both in input order. A block's prev edge precedes its next edge.
func AdjacencyGraph(in model.LinkedList) (Graph, error) {
	if err := validateLinkedList(in, 0); err != nil {
		return Graph{}, err
	}
	g := Graph{Nodes: make([]GraphNode, 0, len(in.Blocks))}
	for _, b := range in.Blocks {
		g.Nodes = append(g.Nodes, GraphNode{ID: b.ID, Base: b.Base, Size: b.Size, Type: b.Type})
		if b.Prev != nil {
			g.Edges = append(g.Edges, GraphEdge{From: b.ID, FromPort: PortPrev, To: *b.Prev})
		}
		if b.Next != nil {
			g.Edges = append(g.Edges, GraphEdge{From: b.ID, FromPort: PortNext, To: *b.Next})
		}
	}
	return g, nil
}

// Node returns the node with the given id.
func (g Graph) Node(id uint64) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}
