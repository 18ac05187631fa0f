package pipeline

import (
	"fmt"

	"github.com/phallocators/allocviz/pkg/layout"
	"github.com/phallocators/allocviz/pkg/model"
)

// Layout computes the diagram of a decoded snapshot with the configuration
// for its kind.
func Layout(s *model.Snapshot, set layout.Set) (layout.Diagram, error) {
	cfg := set.For(s.Kind)
	switch s.Kind {
	case model.KindBitmap:
		return layout.Bitmap(*s.Bitmap, cfg)
	case model.KindBuddy:
		return layout.Buddy(*s.Buddy, cfg)
	case model.KindLinkedList:
		return layout.Region(*s.LinkedList, cfg)
	}
	return layout.Diagram{}, fmt.Errorf("no layout for kind %q", s.Kind)
}

// Graph builds the adjacency graph of a linked-list snapshot.
func Graph(s *model.Snapshot) (*layout.Graph, error) {
	if s.Kind != model.KindLinkedList {
		return nil, fmt.Errorf("adjacency graphs need a linked-list snapshot, got %s", s.Kind)
	}
	g, err := layout.AdjacencyGraph(*s.LinkedList)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
