package diagram

import "github.com/dhamidi/jdiagram/element"

// TraversalState is the scratch state of one document emission: the types
// already rendered and the hierarchy edges already emitted. A state belongs
// to exactly one namespace emission and is dropped once that document is
// produced.
type TraversalState struct {
	rendered map[*element.Element]bool
	edges    map[string]bool
}

func NewTraversalState() *TraversalState {
	return &TraversalState{
		rendered: make(map[*element.Element]bool),
		edges:    make(map[string]bool),
	}
}

func (s *TraversalState) IsRendered(e *element.Element) bool {
	return s.rendered[e]
}

func (s *TraversalState) markRendered(e *element.Element) {
	s.rendered[e] = true
}

// recordEdge returns false when edge was already recorded.
func (s *TraversalState) recordEdge(edge string) bool {
	if s.edges[edge] {
		return false
	}
	s.edges[edge] = true
	return true
}
